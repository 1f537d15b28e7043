package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/caarlos0/env/v11"
	"github.com/go-playground/validator/v10"
	"github.com/imdario/mergo"
	"github.com/joho/godotenv"
	"github.com/samber/lo"
	"gopkg.in/yaml.v3"
)

var validate = validator.New()

// Load builds the service config. Sources, lowest precedence first:
// defaults, the YAML file at path (skipped when path is empty), environment
// variables (including a local .env file when present).
func Load(path string) (*Config, error) {
	if err := LoadDotEnv(); err != nil {
		return nil, err
	}

	var cfg Config
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
		if err := yaml.Unmarshal([]byte(substituteEnvVars(string(data))), &cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	if err := mergo.Merge(&cfg, Default()); err != nil {
		return nil, fmt.Errorf("apply defaults: %w", err)
	}

	cfg.Explorer.BaseURL = strings.TrimSuffix(cfg.Explorer.BaseURL, "/")
	cfg.Telegram.ChatIDs = lo.Uniq(cfg.Telegram.ChatIDs)

	if err := validate.Struct(&cfg); err != nil {
		return nil, fmt.Errorf("struct validation failed: %w", err)
	}
	return &cfg, nil
}

// LoadDotEnv loads the given files (default ".env") into the process
// environment. Missing files are ignored; existing variables win.
func LoadDotEnv(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("load %s: %w", f, err)
		}
	}
	return nil
}

// substituteEnvVars replaces ${VAR} with its environment value. Unset
// variables become empty strings; an unterminated "${" is left as is.
func substituteEnvVars(s string) string {
	var b strings.Builder
	for {
		start := strings.Index(s, "${")
		if start == -1 {
			break
		}
		end := strings.Index(s[start:], "}")
		if end == -1 {
			break
		}
		end += start
		b.WriteString(s[:start])
		b.WriteString(os.Getenv(s[start+2 : end]))
		s = s[end+1:]
	}
	b.WriteString(s)
	return b.String()
}
