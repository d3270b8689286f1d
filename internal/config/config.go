package config

import (
	"fmt"

	"vibesort/internal/llm"

	"github.com/spf13/viper"
)

type Config struct {
	LLM LLMConfig `mapstructure:"llm"`
}

type LLMConfig struct {
	URL   string `mapstructure:"url"`
	Model string `mapstructure:"model"`
	Token string `mapstructure:"token"`
	Type  string `mapstructure:"type"`
}

// envBindings lists, per key, the environment variables consulted in order.
var envBindings = map[string][]string{
	"llm.token": {"VIBESORT_LLM_TOKEN", "OPENAI_API_KEY"},
	"llm.model": {"VIBESORT_LLM_MODEL", "OPENAI_MODEL"},
	"llm.url":   {"VIBESORT_LLM_URL", "OPENAI_BASE_URL"},
	"llm.type":  {"VIBESORT_LLM_TYPE"},
}

// BindEnv registers the environment variables for every config key on v.
func BindEnv(v *viper.Viper) {
	for key, names := range envBindings {
		_ = v.BindEnv(append([]string{key}, names...)...)
	}
}

func Load() (Config, error) {
	return LoadFrom(viper.GetViper())
}

func LoadFrom(v *viper.Viper) (Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return cfg, err
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	if c.LLM.Type == "" {
		return nil
	}
	switch c.LLM.Type {
	case llm.ProviderOpenAI, llm.ProviderAnthropic, llm.ProviderGemini:
		return nil
	default:
		return fmt.Errorf("%w: invalid llm.type: %s", llm.ErrInvalidConfiguration, c.LLM.Type)
	}
}
