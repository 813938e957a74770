package llm

import (
	_ "embed"
	"fmt"
	"strings"
	"text/template"

	"gopkg.in/yaml.v3"
)

//go:embed prompts.yaml
var defaultPrompts []byte

// Prompt is a system/user template pair.
type Prompt struct {
	System string `yaml:"system"`
	User   string `yaml:"user"`
}

// FeedbackPrompt adds the scoring categories to the feedback prompt.
type FeedbackPrompt struct {
	Prompt     `yaml:",inline"`
	Categories []string `yaml:"categories"`
}

// PromptSet holds the templates used for generation and scoring.
type PromptSet struct {
	Version   string         `yaml:"version"`
	Questions Prompt         `yaml:"questions"`
	Feedback  FeedbackPrompt `yaml:"feedback"`

	questionsTmpl *template.Template
	feedbackTmpl  *template.Template
}

// DefaultPrompts parses the embedded prompt file.
func DefaultPrompts() (*PromptSet, error) {
	return ParsePrompts(defaultPrompts)
}

// ParsePrompts decodes and validates a YAML prompt file.
func ParsePrompts(data []byte) (*PromptSet, error) {
	var set PromptSet
	if err := yaml.Unmarshal(data, &set); err != nil {
		return nil, fmt.Errorf("parse prompts: %w", err)
	}
	if err := validatePrompts(&set); err != nil {
		return nil, fmt.Errorf("validate prompts: %w", err)
	}

	funcs := template.FuncMap{
		"join":       strings.Join,
		"categories": func() []string { return set.Feedback.Categories },
	}
	var err error
	set.questionsTmpl, err = template.New("questions").Funcs(funcs).Parse(set.Questions.User)
	if err != nil {
		return nil, fmt.Errorf("questions template: %w", err)
	}
	set.feedbackTmpl, err = template.New("feedback").Funcs(funcs).Parse(set.Feedback.User)
	if err != nil {
		return nil, fmt.Errorf("feedback template: %w", err)
	}
	return &set, nil
}

func validatePrompts(set *PromptSet) error {
	if strings.TrimSpace(set.Version) == "" {
		return fmt.Errorf("version is required")
	}
	if strings.TrimSpace(set.Questions.User) == "" {
		return fmt.Errorf("questions.user is required")
	}
	if strings.TrimSpace(set.Feedback.User) == "" {
		return fmt.Errorf("feedback.user is required")
	}
	if len(set.Feedback.Categories) == 0 {
		return fmt.Errorf("feedback.categories must not be empty")
	}
	for i, c := range set.Feedback.Categories {
		if strings.TrimSpace(c) == "" {
			return fmt.Errorf("feedback.categories[%d] is empty", i)
		}
	}
	return nil
}

// RenderQuestions returns the system and user messages for question generation.
func (p *PromptSet) RenderQuestions(input GenerateInput) (string, string, error) {
	var b strings.Builder
	if err := p.questionsTmpl.Execute(&b, input); err != nil {
		return "", "", fmt.Errorf("render questions prompt: %w", err)
	}
	return strings.TrimSpace(p.Questions.System), b.String(), nil
}

// RenderFeedback returns the system and user messages for transcript scoring.
func (p *PromptSet) RenderFeedback(input ScoreInput) (string, string, error) {
	var b strings.Builder
	if err := p.feedbackTmpl.Execute(&b, input); err != nil {
		return "", "", fmt.Errorf("render feedback prompt: %w", err)
	}
	return strings.TrimSpace(p.Feedback.System), b.String(), nil
}
