package importjobs

import (
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
)

// TaskMessage is the wire shape of one queued import job.
type TaskMessage struct {
	JobID   uuid.UUID `json:"job_id"`
	UserID  uuid.UUID `json:"user_id"`
	FeedURL string    `json:"feed_url"`
}

// DecodeTaskMessage parses and sanity-checks a queued job payload.
func DecodeTaskMessage(data []byte) (*TaskMessage, error) {
	var msg TaskMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, fmt.Errorf("decoding task message: %w", err)
	}
	if msg.JobID == uuid.Nil {
		return nil, fmt.Errorf("task message missing job id")
	}
	if msg.UserID == uuid.Nil {
		return nil, fmt.Errorf("task message missing user id")
	}
	if msg.FeedURL == "" {
		return nil, fmt.Errorf("task message missing feed url")
	}
	return &msg, nil
}

// Encode serializes the message for publishing.
func (m TaskMessage) Encode() ([]byte, error) {
	return json.Marshal(m)
}
