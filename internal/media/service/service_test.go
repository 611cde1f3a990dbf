package service

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"drainadopt/internal/media/blob"
	dErrors "drainadopt/pkg/domain-errors"
)

type failingStore struct{ *blob.MemoryStore }

func (failingStore) Put(context.Context, string, []byte, string) error {
	return errors.New("bucket unavailable")
}

func TestUpload(t *testing.T) {
	ctx := context.Background()

	t.Run("stores under images with the file extension", func(t *testing.T) {
		store := blob.NewMemory("/api/media")
		svc := New(store)
		up, err := svc.Upload(ctx, "Drain.PNG", "image/png", strings.NewReader("png-bytes"))
		require.NoError(t, err)
		assert.True(t, strings.HasPrefix(up.URL, "/api/media/images/"))
		assert.True(t, strings.HasSuffix(up.URL, ".png"))

		name := strings.TrimPrefix(up.URL, "/api/media/images/")
		obj, err := svc.Open(ctx, name)
		require.NoError(t, err)
		assert.Equal(t, "png-bytes", string(obj.Body))
		assert.Equal(t, "image/png", obj.ContentType)
	})

	t.Run("falls back to the media type extension", func(t *testing.T) {
		up, err := New(blob.NewMemory("")).Upload(ctx, "photo", "image/png", strings.NewReader("x"))
		require.NoError(t, err)
		assert.True(t, strings.HasSuffix(up.URL, ".png"))
	})

	t.Run("rejects non-images", func(t *testing.T) {
		_, err := New(blob.NewMemory("")).Upload(ctx, "notes.txt", "text/plain", strings.NewReader("x"))
		assert.True(t, dErrors.HasCode(err, dErrors.CodeValidation))
	})

	t.Run("rejects empty and oversized bodies", func(t *testing.T) {
		svc := New(blob.NewMemory(""), WithMaxBytes(4))
		_, err := svc.Upload(ctx, "a.png", "image/png", strings.NewReader(""))
		assert.True(t, dErrors.HasCode(err, dErrors.CodeValidation))

		_, err = svc.Upload(ctx, "a.png", "image/png", bytes.NewReader(make([]byte, 5)))
		assert.ErrorIs(t, err, dErrors.New(dErrors.CodeValidation, "image must be at most 4 bytes"))

		_, err = svc.Upload(ctx, "a.png", "image/png", bytes.NewReader(make([]byte, 4)))
		assert.NoError(t, err)
	})

	t.Run("store failure is internal", func(t *testing.T) {
		svc := New(failingStore{blob.NewMemory("")})
		_, err := svc.Upload(ctx, "a.png", "image/png", strings.NewReader("x"))
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInternal))
	})
}

func TestOpen(t *testing.T) {
	svc := New(blob.NewMemory(""))
	_, err := svc.Open(context.Background(), "missing.png")
	assert.True(t, dErrors.HasCode(err, dErrors.CodeNotFound))

	_, err = svc.Open(context.Background(), "../secret")
	assert.True(t, dErrors.HasCode(err, dErrors.CodeNotFound))
}
