// Package outbox implements the transactional outbox for notifications:
// entries are written in the same transaction as the notification and a
// relay publishes them to the event stream afterwards.
package outbox

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"drainadopt/internal/notification/models"
)

const aggregateDrain = "drain"

// Entry is one pending event.
type Entry struct {
	Seq           int64
	ID            uuid.UUID
	AggregateType string
	AggregateID   string
	EventType     string
	Payload       []byte
	CreatedAt     time.Time
}

// payload is the JSON published to the stream.
type payload struct {
	ID        string `json:"id"`
	Type      string `json:"type"`
	Message   string `json:"message"`
	DrainID   string `json:"drainId"`
	UserID    string `json:"userId,omitempty"`
	CreatedAt string `json:"createdAt"`
}

// NewEntry builds the outbox entry for a freshly recorded notification.
func NewEntry(n *models.Notification) (Entry, error) {
	p := payload{
		ID:        n.ID.String(),
		Type:      string(n.Type),
		Message:   n.Message,
		DrainID:   n.DrainID.String(),
		CreatedAt: n.CreatedAt.UTC().Format(time.RFC3339Nano),
	}
	if n.UserID != nil {
		p.UserID = n.UserID.String()
	}
	body, err := json.Marshal(p)
	if err != nil {
		return Entry{}, fmt.Errorf("marshal outbox payload: %w", err)
	}
	return Entry{
		ID:            uuid.New(),
		AggregateType: aggregateDrain,
		AggregateID:   n.DrainID.String(),
		EventType:     string(n.Type),
		Payload:       body,
		CreatedAt:     n.CreatedAt,
	}, nil
}
