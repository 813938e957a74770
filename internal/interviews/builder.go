package interviews

import (
	"encoding/json"
	"strconv"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

const (
	ScheduleNow   = "now"
	ScheduleLater = "later"

	defaultLevel = "Junior"
	defaultType  = "Technical"

	dateLayout = "2006-01-02"
)

// QuestionCounts are the question amounts the create form offers.
var QuestionCounts = []int{3, 5, 7, 10}

var timeLayouts = []string{"15:04", "15:04:05"}

// FormFields mirrors the create-interview form as submitted by the client.
type FormFields struct {
	Role          string       `json:"role"`
	Level         string       `json:"level"`
	Type          string       `json:"type"`
	TechStack     string       `json:"techstack"`
	Amount        NumberString `json:"amount"`
	ScheduleType  string       `json:"scheduleType"`
	ScheduledDate string       `json:"scheduledDate"`
	ScheduledTime string       `json:"scheduledTime"`
	Timezone      string       `json:"timezone,omitempty"`
}

// NumberString holds a form value that clients send either as a JSON string
// or as a JSON number.
type NumberString string

func (n *NumberString) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*n = NumberString(s)
		return nil
	}
	var num json.Number
	if err := json.Unmarshal(data, &num); err != nil {
		return err
	}
	*n = NumberString(num.String())
	return nil
}

// GenerationRequest is the validated payload handed to the question generator.
// Field names are fixed by the generator contract.
type GenerationRequest struct {
	UserID       string     `json:"userId"`
	Role         string     `json:"role"`
	Level        string     `json:"level"`
	Type         string     `json:"type"`
	TechStack    []string   `json:"techstack"`
	Amount       int        `json:"amount"`
	ScheduledFor *time.Time `json:"scheduledFor"`
}

// Scheduled reports whether the request targets a future time.
func (r GenerationRequest) Scheduled() bool {
	return r.ScheduledFor != nil
}

// RequestBuilder validates form fields into a GenerationRequest. Location is
// used to combine the form's date and time; nil means time.Local.
type RequestBuilder struct {
	Location *time.Location
}

// Build validates form at now. Rules run in order and the first failure is
// returned as a *ValidationError.
func (b RequestBuilder) Build(now time.Time, userID string, form FormFields) (GenerationRequest, error) {
	role := strings.TrimSpace(form.Role)
	if err := validation.Validate(role, validation.Required); err != nil {
		return GenerationRequest{}, invalid("role", ErrRoleRequired, "role is required")
	}

	stack := SplitTechStack(form.TechStack)
	if err := validation.Validate(stack, validation.Required); err != nil {
		return GenerationRequest{}, invalid("techstack", ErrTechStackEmpty, "enter at least one technology")
	}

	amount, err := parseAmount(string(form.Amount))
	if err != nil {
		return GenerationRequest{}, err
	}

	scheduledFor, err := b.schedule(now, form)
	if err != nil {
		return GenerationRequest{}, err
	}

	return GenerationRequest{
		UserID:       userID,
		Role:         role,
		Level:        orDefault(form.Level, defaultLevel),
		Type:         orDefault(form.Type, defaultType),
		TechStack:    stack,
		Amount:       amount,
		ScheduledFor: scheduledFor,
	}, nil
}

// SplitTechStack splits a comma separated list, trimming entries and dropping
// empty ones. Order and duplicates are kept.
func SplitTechStack(raw string) []string {
	out := []string{}
	for _, part := range strings.Split(raw, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func parseAmount(raw string) (int, error) {
	allowed := make([]interface{}, 0, len(QuestionCounts))
	for _, n := range QuestionCounts {
		allowed = append(allowed, n)
	}
	amount, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0, invalid("amount", ErrInvalidQuestionCount, "choose 3, 5, 7 or 10 questions")
	}
	if err := validation.Validate(amount, validation.Required, validation.In(allowed...)); err != nil {
		return 0, invalid("amount", ErrInvalidQuestionCount, "choose 3, 5, 7 or 10 questions")
	}
	return amount, nil
}

func (b RequestBuilder) schedule(now time.Time, form FormFields) (*time.Time, error) {
	switch strings.ToLower(strings.TrimSpace(form.ScheduleType)) {
	case "", ScheduleNow:
		return nil, nil
	case ScheduleLater:
	default:
		return nil, invalid("scheduleType", ErrInvalidSchedule, "schedule type must be now or later")
	}

	date := strings.TrimSpace(form.ScheduledDate)
	clock := strings.TrimSpace(form.ScheduledTime)
	if err := validation.Validate(date, validation.Required); err != nil {
		return nil, invalid("scheduledDate", ErrInvalidSchedule, "date is required when scheduling for later")
	}
	if err := validation.Validate(clock, validation.Required); err != nil {
		return nil, invalid("scheduledTime", ErrInvalidSchedule, "time is required when scheduling for later")
	}

	loc, err := b.location(form.Timezone)
	if err != nil {
		return nil, invalid("timezone", ErrInvalidSchedule, "unknown timezone")
	}
	at, err := combine(date, clock, loc)
	if err != nil {
		return nil, invalid("scheduledDate", ErrInvalidSchedule, "date or time is not valid")
	}

	// ozzo threshold rules skip zero values, so a year-1 instant would pass them.
	if !at.After(now) {
		return nil, invalid("scheduledTime", ErrSchedulingInPast, "scheduled time must be in the future")
	}
	utc := at.UTC()
	return &utc, nil
}

func (b RequestBuilder) location(tz string) (*time.Location, error) {
	if name := strings.TrimSpace(tz); name != "" {
		return time.LoadLocation(name)
	}
	if b.Location != nil {
		return b.Location, nil
	}
	return time.Local, nil
}

func combine(date, clock string, loc *time.Location) (time.Time, error) {
	var lastErr error
	for _, layout := range timeLayouts {
		at, err := time.ParseInLocation(dateLayout+"T"+layout, date+"T"+clock, loc)
		if err == nil {
			return at, nil
		}
		lastErr = err
	}
	return time.Time{}, lastErr
}

func orDefault(value, def string) string {
	if trimmed := strings.TrimSpace(value); trimmed != "" {
		return trimmed
	}
	return def
}
