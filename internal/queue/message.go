package queue

import (
	"encoding/json"
	"errors"
	"strings"
	"time"
)

// CurrentVersion is the message schema version producers write.
const CurrentVersion = 1

// ErrMissingInterviewID is returned for messages that do not name an interview.
var ErrMissingInterviewID = errors.New("missing interview id")

// Message asks a consumer to score a completed interview.
type Message struct {
	InterviewID   string `json:"interviewId"`
	UserID        string `json:"userId"`
	TranscriptKey string `json:"transcriptKey"`
	RequestID     string `json:"requestId"`
	EnqueuedAt    string `json:"enqueuedAt"`
	Version       int    `json:"version"`
}

// NewMessage builds a feedback job stamped at now.
func NewMessage(interviewID, userID, transcriptKey, requestID string, now time.Time) Message {
	return Message{
		InterviewID:   interviewID,
		UserID:        userID,
		TranscriptKey: transcriptKey,
		RequestID:     requestID,
		EnqueuedAt:    now.UTC().Format(time.RFC3339),
		Version:       CurrentVersion,
	}
}

// Validate checks the fields every consumer relies on.
func (m Message) Validate() error {
	if strings.TrimSpace(m.InterviewID) == "" {
		return ErrMissingInterviewID
	}
	if strings.TrimSpace(m.UserID) == "" {
		return errors.New("missing user id")
	}
	return nil
}

// EncodeMessage returns the JSON representation of a message.
func EncodeMessage(msg Message) ([]byte, error) {
	return json.Marshal(msg)
}

// DecodeMessage parses a JSON payload into a Message.
func DecodeMessage(payload []byte) (Message, error) {
	var msg Message
	if err := json.Unmarshal(payload, &msg); err != nil {
		return Message{}, err
	}
	return msg, nil
}
