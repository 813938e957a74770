package model

import "time"

// CategoryScore is one scored dimension of an interview.
type CategoryScore struct {
	Name    string `json:"name"`
	Score   int    `json:"score"`
	Comment string `json:"comment"`
}

// Feedback is the scored result of a taken interview. There is at most one per
// (interview, user) pair.
type Feedback struct {
	ID                  string          `json:"id"`
	InterviewID         string          `json:"interviewId"`
	UserID              string          `json:"userId"`
	TotalScore          int             `json:"totalScore"`
	CategoryScores      []CategoryScore `json:"categoryScores"`
	Strengths           []string        `json:"strengths"`
	AreasForImprovement []string        `json:"areasForImprovement"`
	FinalAssessment     string          `json:"finalAssessment"`
	CreatedAt           time.Time       `json:"createdAt"`
}

// TranscriptEntry is a single turn of a taken interview.
type TranscriptEntry struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}
