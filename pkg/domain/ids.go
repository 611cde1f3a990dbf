// Package domain holds typed identifiers shared across modules.
//
// Each entity gets its own UUID-backed type so a DrainID can never be passed
// where a UserID is expected.
package domain

import (
	"github.com/google/uuid"

	dErrors "drainadopt/pkg/domain-errors"
)

type (
	UserID         uuid.UUID
	DrainID        uuid.UUID
	CommentID      uuid.UUID
	NotificationID uuid.UUID
)

func (id UserID) String() string         { return uuid.UUID(id).String() }
func (id DrainID) String() string        { return uuid.UUID(id).String() }
func (id CommentID) String() string      { return uuid.UUID(id).String() }
func (id NotificationID) String() string { return uuid.UUID(id).String() }

func (id UserID) IsNil() bool         { return uuid.UUID(id) == uuid.Nil }
func (id DrainID) IsNil() bool        { return uuid.UUID(id) == uuid.Nil }
func (id CommentID) IsNil() bool      { return uuid.UUID(id) == uuid.Nil }
func (id NotificationID) IsNil() bool { return uuid.UUID(id) == uuid.Nil }

func (id UserID) MarshalText() ([]byte, error)         { return []byte(id.String()), nil }
func (id DrainID) MarshalText() ([]byte, error)        { return []byte(id.String()), nil }
func (id CommentID) MarshalText() ([]byte, error)      { return []byte(id.String()), nil }
func (id NotificationID) MarshalText() ([]byte, error) { return []byte(id.String()), nil }

func (id *UserID) UnmarshalText(b []byte) error {
	u, err := uuid.ParseBytes(b)
	*id = UserID(u)
	return err
}

func (id *DrainID) UnmarshalText(b []byte) error {
	u, err := uuid.ParseBytes(b)
	*id = DrainID(u)
	return err
}

func (id *CommentID) UnmarshalText(b []byte) error {
	u, err := uuid.ParseBytes(b)
	*id = CommentID(u)
	return err
}

func (id *NotificationID) UnmarshalText(b []byte) error {
	u, err := uuid.ParseBytes(b)
	*id = NotificationID(u)
	return err
}

func NewUserID() UserID                 { return UserID(uuid.New()) }
func NewDrainID() DrainID               { return DrainID(uuid.New()) }
func NewCommentID() CommentID           { return CommentID(uuid.New()) }
func NewNotificationID() NotificationID { return NotificationID(uuid.New()) }

// ParseUserID parses a non-nil UUID string.
func ParseUserID(s string) (UserID, error) {
	u, err := parseUUID(s, "user id")
	return UserID(u), err
}

// ParseDrainID parses a non-nil UUID string.
func ParseDrainID(s string) (DrainID, error) {
	u, err := parseUUID(s, "drain id")
	return DrainID(u), err
}

// ParseCommentID parses a non-nil UUID string.
func ParseCommentID(s string) (CommentID, error) {
	u, err := parseUUID(s, "comment id")
	return CommentID(u), err
}

// ParseNotificationID parses a non-nil UUID string.
func ParseNotificationID(s string) (NotificationID, error) {
	u, err := parseUUID(s, "notification id")
	return NotificationID(u), err
}

func parseUUID(s, field string) (uuid.UUID, error) {
	if s == "" {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, field+" is required")
	}
	u, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, "invalid "+field)
	}
	if u == uuid.Nil {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, "invalid "+field)
	}
	return u, nil
}
