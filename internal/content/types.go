package content

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Status is the moderation state of a content item. New items start Pending
// and move only through an explicit moderation action.
type Status string

const (
	StatusPending  Status = "Pending"
	StatusApproved Status = "Approved"
	StatusRejected Status = "Rejected"
)

// ParseStatus validates a status value received over the wire.
func ParseStatus(s string) (Status, error) {
	switch Status(s) {
	case StatusPending, StatusApproved, StatusRejected:
		return Status(s), nil
	default:
		return "", fmt.Errorf("unknown content status %q", s)
	}
}

// Payload is one side of a content item: either text or an image reference.
// Exactly one field is populated; a failed image fetch leaves both empty.
type Payload struct {
	Text     string `json:"text,omitempty"`
	ImageURL string `json:"imageUrl,omitempty"`
}

// Item is a single moderation-queue entry derived from one inbound message.
// OriginalContent and ProcessedContent always populate the same variant.
type Item struct {
	ID               string    `json:"id"`
	Status           Status    `json:"status"`
	Timestamp        time.Time `json:"timestamp"`
	OriginalContent  Payload   `json:"originalContent"`
	ProcessedContent Payload   `json:"processedContent"`
	// Degraded marks items whose processed content is a fallback rather
	// than clean enrichment output.
	Degraded bool `json:"degraded,omitempty"`
}

// NewTextItem creates a pending item for a text message.
func NewTextItem(original, processed string, degraded bool) Item {
	return Item{
		ID:               uuid.NewString(),
		Status:           StatusPending,
		Timestamp:        time.Now().UTC(),
		OriginalContent:  Payload{Text: original},
		ProcessedContent: Payload{Text: processed},
		Degraded:         degraded,
	}
}

// NewImageItem creates a pending item for an image message. An empty URL
// records an image whose retrieval failed; the item is still delivered.
func NewImageItem(originalURL, processedURL string, degraded bool) Item {
	return Item{
		ID:               uuid.NewString(),
		Status:           StatusPending,
		Timestamp:        time.Now().UTC(),
		OriginalContent:  Payload{ImageURL: originalURL},
		ProcessedContent: Payload{ImageURL: processedURL},
		Degraded:         degraded,
	}
}
