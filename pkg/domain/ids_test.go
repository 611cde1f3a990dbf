package domain

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dErrors "drainadopt/pkg/domain-errors"
)

// TestParseUUID_Invariants validates the parsing invariant:
// "IDs must be valid, non-empty, non-nil UUIDs"
func TestParseUUID_Invariants(t *testing.T) {
	t.Run("rejects empty string", func(t *testing.T) {
		_, err := ParseDrainID("")
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
	})

	t.Run("rejects invalid format", func(t *testing.T) {
		_, err := ParseDrainID("not-a-uuid")
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
	})

	t.Run("rejects nil UUID", func(t *testing.T) {
		_, err := ParseDrainID(uuid.Nil.String())
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
	})

	t.Run("accepts valid UUID", func(t *testing.T) {
		validUUID := uuid.New()
		id, err := ParseDrainID(validUUID.String())
		require.NoError(t, err)
		assert.Equal(t, DrainID(validUUID), id)
	})
}

func TestParseID_RejectsHostileInput(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"SQL injection attempt", "'; DROP TABLE drains;--", true},
		{"Path traversal", "../../../etc/passwd", true},
		{"Null byte injection", "550e8400\x00-e29b-41d4-a716-446655440000", true},
		{"Oversized input", strings.Repeat("a", 1000), true},
		{"Whitespace only", "   ", true},
		{"Uppercase valid UUID", "550E8400-E29B-41D4-A716-446655440000", false},
		{"Valid UUID lowercase", "550e8400-e29b-41d4-a716-446655440000", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseUserID(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
			} else {
				require.NoError(t, err)
			}
		})
	}
}

func TestAllIDTypes_ConsistentBehavior(t *testing.T) {
	validUUID := uuid.New().String()

	t.Run("all accept valid UUID", func(t *testing.T) {
		_, errUser := ParseUserID(validUUID)
		_, errDrain := ParseDrainID(validUUID)
		_, errComment := ParseCommentID(validUUID)
		_, errNotification := ParseNotificationID(validUUID)

		require.NoError(t, errUser)
		require.NoError(t, errDrain)
		require.NoError(t, errComment)
		require.NoError(t, errNotification)
	})

	for _, input := range []string{"", "invalid", uuid.Nil.String()} {
		t.Run("all reject: "+input, func(t *testing.T) {
			_, errUser := ParseUserID(input)
			_, errDrain := ParseDrainID(input)
			_, errComment := ParseCommentID(input)
			_, errNotification := ParseNotificationID(input)

			require.Error(t, errUser)
			require.Error(t, errDrain)
			require.Error(t, errComment)
			require.Error(t, errNotification)
		})
	}
}

func TestIDsMarshalAsStrings(t *testing.T) {
	drainID := NewDrainID()
	body, err := json.Marshal(map[string]DrainID{"id": drainID})
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":"`+drainID.String()+`"}`, string(body))
}

func TestIDsUnmarshalFromStrings(t *testing.T) {
	userID := NewUserID()
	var out struct {
		UserID *UserID `json:"userId"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"userId":"`+userID.String()+`"}`), &out))
	require.NotNil(t, out.UserID)
	assert.Equal(t, userID, *out.UserID)

	assert.Error(t, json.Unmarshal([]byte(`{"userId":"nope"}`), &out))
}
