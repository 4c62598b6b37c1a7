package announcement

import (
	"time"

	"github.com/abduss/pressroom/internal/attachment"
	"github.com/google/uuid"
)

// Announcement is a published notice with its ordered attachment list.
type Announcement struct {
	ID          uuid.UUID         `json:"id"`
	Title       string            `json:"title"`
	Content     Content           `json:"content"`
	Attachments []attachment.Meta `json:"attachments"`
	CreatedAt   time.Time         `json:"created_at"`
	UpdatedAt   time.Time         `json:"updated_at"`
}

// Input carries the author-controlled fields of an announcement.
type Input struct {
	Title       string            `json:"title"`
	Content     Content           `json:"content"`
	Attachments []attachment.Meta `json:"attachments"`
}
