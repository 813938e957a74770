package feedback

import "errors"

var (
	ErrNotFound          = errors.New("feedback not found")
	ErrAlreadyExists     = errors.New("feedback already exists")
	ErrTranscriptMissing = errors.New("transcript missing")
	ErrNotCompleted      = errors.New("interview not completed")
)
