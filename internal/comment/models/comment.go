package models

import (
	"strings"
	"time"
	"unicode/utf8"

	id "drainadopt/pkg/domain"
	dErrors "drainadopt/pkg/domain-errors"
)

// MaxTextLength is the longest comment accepted, in characters.
const MaxTextLength = 1000

// Comment is a note left by a user on a drain.
type Comment struct {
	ID        id.CommentID
	DrainID   id.DrainID
	UserID    id.UserID
	Text      string
	ImageURL  string
	CreatedAt time.Time
}

// View is the public projection of a comment, carrying its author's name.
type View struct {
	ID        id.CommentID `json:"id"`
	DrainID   id.DrainID   `json:"drainId"`
	UserID    id.UserID    `json:"userId"`
	UserName  string       `json:"userName"`
	Text      string       `json:"text"`
	ImageURL  string       `json:"imageUrl,omitempty"`
	CreatedAt time.Time    `json:"createdAt"`
}

// ToView projects c with the given author name.
func (c *Comment) ToView(author string) View {
	return View{
		ID:        c.ID,
		DrainID:   c.DrainID,
		UserID:    c.UserID,
		UserName:  author,
		Text:      c.Text,
		ImageURL:  c.ImageURL,
		CreatedAt: c.CreatedAt,
	}
}

// AddCommentRequest is the body of POST /drains/{id}/comments.
type AddCommentRequest struct {
	Text     string `json:"text"`
	ImageURL string `json:"imageUrl"`
}

func (r *AddCommentRequest) Validate() error {
	r.Text = strings.TrimSpace(r.Text)
	r.ImageURL = strings.TrimSpace(r.ImageURL)
	return ValidateText(r.Text)
}

// ValidateText checks a trimmed comment body.
func ValidateText(text string) error {
	if text == "" {
		return dErrors.New(dErrors.CodeValidation, "comment text is required")
	}
	if utf8.RuneCountInString(text) > MaxTextLength {
		return dErrors.New(dErrors.CodeValidation, "comment text must be at most 1000 characters")
	}
	return nil
}
