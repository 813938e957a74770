package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"interview-backend/internal/domain/model"
	"interview-backend/internal/llm"
)

func newPromptsCmd() *cobra.Command {
	var (
		file           string
		kind           string
		role           string
		level          string
		interviewType  string
		techstack      string
		amount         int
		transcriptPath string
	)
	cmd := &cobra.Command{
		Use:   "prompts",
		Short: "Validate a prompt file and print a rendered prompt",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			set, err := loadPrompts(file)
			if err != nil {
				return err
			}
			stack := splitList(techstack)

			var system, user string
			switch strings.ToLower(strings.TrimSpace(kind)) {
			case "questions":
				system, user, err = set.RenderQuestions(llm.GenerateInput{
					Role:      role,
					Level:     level,
					Type:      interviewType,
					TechStack: stack,
					Amount:    amount,
				})
			case "feedback":
				var transcript []model.TranscriptEntry
				if transcriptPath != "" {
					raw, readErr := os.ReadFile(transcriptPath)
					if readErr != nil {
						return fmt.Errorf("read transcript: %w", readErr)
					}
					if err := json.Unmarshal(raw, &transcript); err != nil {
						return fmt.Errorf("decode transcript: %w", err)
					}
				}
				system, user, err = set.RenderFeedback(llm.ScoreInput{
					Role:       role,
					Level:      level,
					Type:       interviewType,
					TechStack:  stack,
					Transcript: transcript,
				})
			default:
				return fmt.Errorf("unsupported prompt kind: %s", kind)
			}
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "# version %s\n", set.Version)
			fmt.Fprintf(out, "## system\n%s\n\n## user\n%s", system, user)
			if !strings.HasSuffix(user, "\n") {
				fmt.Fprintln(out)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&file, "file", "", "Prompt YAML file (default embedded prompts)")
	cmd.Flags().StringVar(&kind, "kind", "questions", "Prompt to render: questions or feedback")
	cmd.Flags().StringVar(&role, "role", "Backend Engineer", "Job role")
	cmd.Flags().StringVar(&level, "level", "Junior", "Experience level")
	cmd.Flags().StringVar(&interviewType, "type", "Technical", "Interview type")
	cmd.Flags().StringVar(&techstack, "techstack", "Go", "Comma separated tech stack")
	cmd.Flags().IntVar(&amount, "amount", 5, "Number of questions")
	cmd.Flags().StringVar(&transcriptPath, "transcript", "", "JSON transcript [{role,content}] for the feedback prompt")
	return cmd
}

func loadPrompts(path string) (*llm.PromptSet, error) {
	if path == "" {
		return llm.DefaultPrompts()
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read prompts: %w", err)
	}
	return llm.ParsePrompts(raw)
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
