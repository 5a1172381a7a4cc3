package line

import (
	"encoding/json"
	"fmt"
)

// MessageKind classifies an inbound message event.
type MessageKind string

const (
	KindText  MessageKind = "text"
	KindImage MessageKind = "image"
)

// MessageEvent is one normalized message extracted from a webhook delivery.
type MessageEvent struct {
	SourceID  string
	MessageID string
	Kind      MessageKind
	Text      string
}

type webhookBody struct {
	Events []webhookEvent `json:"events"`
}

type webhookEvent struct {
	Type    string         `json:"type"`
	Source  webhookSource  `json:"source"`
	Message webhookMessage `json:"message"`
}

type webhookSource struct {
	UserID string `json:"userId"`
}

type webhookMessage struct {
	Type string `json:"type"`
	ID   string `json:"id"`
	Text string `json:"text"`
}

// ParseWebhook extracts message events from a validated webhook body.
// Non-message events and unknown message kinds are skipped, not errors; a
// delivery with zero usable events yields an empty slice.
func ParseWebhook(raw []byte) ([]MessageEvent, error) {
	var body webhookBody
	if err := json.Unmarshal(raw, &body); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedPayload, err)
	}

	events := make([]MessageEvent, 0, len(body.Events))
	for _, ev := range body.Events {
		if ev.Type != "message" {
			continue
		}
		switch MessageKind(ev.Message.Type) {
		case KindText:
			events = append(events, MessageEvent{
				SourceID:  ev.Source.UserID,
				MessageID: ev.Message.ID,
				Kind:      KindText,
				Text:      ev.Message.Text,
			})
		case KindImage:
			events = append(events, MessageEvent{
				SourceID:  ev.Source.UserID,
				MessageID: ev.Message.ID,
				Kind:      KindImage,
			})
		}
	}
	return events, nil
}
