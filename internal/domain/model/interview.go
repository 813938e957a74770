package model

import (
	"fmt"
	"strings"
	"time"
)

// Status is the persisted interview status. It is written by the generation and
// completion flows and is distinct from the lifecycle state derived on read.
type Status string

const (
	StatusScheduled Status = "scheduled"
	StatusReady     Status = "ready"
	StatusCompleted Status = "completed"
)

// ParseStatus converts a raw string to a Status.
func ParseStatus(s string) (Status, error) {
	st := Status(strings.ToLower(strings.TrimSpace(s)))
	switch st {
	case StatusScheduled, StatusReady, StatusCompleted:
		return st, nil
	}
	return "", fmt.Errorf("unknown interview status %q", s)
}

// Interview is a set of generated questions owned by a user.
type Interview struct {
	ID           string     `json:"id"`
	UserID       string     `json:"userId"`
	Role         string     `json:"role"`
	Level        string     `json:"level"`
	Type         string     `json:"type"`
	TechStack    []string   `json:"techstack"`
	Questions    []string   `json:"questions"`
	Status       Status     `json:"status"`
	ScheduledFor *time.Time `json:"scheduledFor,omitempty"`
	CreatedAt    time.Time  `json:"createdAt"`

	// TranscriptKey locates the stored transcript once the interview is taken.
	TranscriptKey string `json:"-"`
}

// IsScheduled reports whether the interview carries a schedule the lifecycle
// rules apply to.
func (iv Interview) IsScheduled() bool {
	return iv.Status == StatusScheduled && iv.ScheduledFor != nil
}
