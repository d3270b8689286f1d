package cli

import (
	"log/slog"
	"strings"

	"vibesort"
	"vibesort/internal/config"

	"github.com/spf13/cobra"
)

// llmFlags override the loaded configuration for a single invocation.
type llmFlags struct {
	Type  string
	Model string
	URL   string
	Token string
}

func (f *llmFlags) bind(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.Type, "type", "", "override llm type (openai, anthropics, gemini)")
	cmd.Flags().StringVar(&f.Model, "model", "", "override model name")
	cmd.Flags().StringVar(&f.URL, "url", "", "override base url")
	cmd.Flags().StringVar(&f.Token, "token", "", "override api key")
}

func (f *llmFlags) newSorter(logger *slog.Logger) (*vibesort.Sorter, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	merged := config.Config{LLM: config.LLMConfig{
		Type:  firstNonEmpty(f.Type, cfg.LLM.Type),
		Model: firstNonEmpty(f.Model, cfg.LLM.Model),
		URL:   firstNonEmpty(f.URL, cfg.LLM.URL),
		Token: firstNonEmpty(f.Token, cfg.LLM.Token),
	}}
	if err := merged.Validate(); err != nil {
		return nil, err
	}
	return vibesort.New(vibesort.Config{
		APIKey:   merged.LLM.Token,
		Model:    merged.LLM.Model,
		BaseURL:  merged.LLM.URL,
		Provider: merged.LLM.Type,
		Logger:   logger,
	})
}

func firstNonEmpty(values ...string) string {
	for _, value := range values {
		if strings.TrimSpace(value) != "" {
			return value
		}
	}
	return ""
}
