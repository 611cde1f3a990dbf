package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"drainadopt/internal/platform/config"
)

func TestSchemaCommandPrintsDDL(t *testing.T) {
	cmd := newRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"schema"})
	require.NoError(t, cmd.Execute())
	assert.Contains(t, out.String(), "CREATE TABLE IF NOT EXISTS drains")
}

func TestSchemaApplyNeedsDatabase(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	cmd := newRootCommand()
	cmd.SetArgs([]string{"schema", "--apply"})
	assert.Error(t, cmd.Execute())
}

func TestOpenStoresInMemory(t *testing.T) {
	st, err := openStores(context.Background(), config.Config{})
	require.NoError(t, err)
	assert.Nil(t, st.db)
	assert.NoError(t, st.close())
}

func TestOpenBlobStore(t *testing.T) {
	ctx := context.Background()

	store, err := openBlobStore(ctx, config.BlobConfig{Driver: "memory"})
	require.NoError(t, err)
	url, err := store.URL(ctx, "images/a.png")
	require.NoError(t, err)
	assert.Equal(t, "/api/media/images/a.png", url)

	_, err = openBlobStore(ctx, config.BlobConfig{Driver: "s3"})
	assert.Error(t, err)

	_, err = openBlobStore(ctx, config.BlobConfig{Driver: "ftp"})
	assert.Error(t, err)
}

func TestIgnoreCanceled(t *testing.T) {
	assert.NoError(t, ignoreCanceled(context.Canceled))
	assert.NoError(t, ignoreCanceled(fmt.Errorf("relay: %w", context.Canceled)))
	assert.Error(t, ignoreCanceled(errors.New("broker down")))
}
