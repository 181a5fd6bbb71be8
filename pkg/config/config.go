// Package config loads panos-eol settings from an optional YAML or TOML file
// and PANOS_EOL_* environment variables.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	gotoml "github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/grovetools/panos-eol/pkg/docurl"
)

// ErrInvalidConfig is returned when a loaded configuration fails validation.
var ErrInvalidConfig = errors.New("invalid configuration")

// DefaultFileNames are searched, in order, when no config path is given.
var DefaultFileNames = []string{".panos-eol.yml", ".panos-eol.yaml", ".panos-eol.toml"}

const envPrefix = "PANOS_EOL_"

var validate = validator.New()

// Config holds runtime settings.
type Config struct {
	// DocsBaseURL is the host of the release-notes pages.
	DocsBaseURL string `yaml:"docs_base_url" toml:"docs_base_url" validate:"required,url"`
	LogLevel    string `yaml:"log_level" toml:"log_level" validate:"oneof=debug info warn warning error"`
	// ValidateFeed checks the feed against its JSON schema before loading.
	ValidateFeed bool `yaml:"validate_feed" toml:"validate_feed"`
	// VerifyOutput checks that the patched document's frontmatter is still
	// valid YAML before it is written.
	VerifyOutput bool `yaml:"verify_output" toml:"verify_output"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		DocsBaseURL:  docurl.DefaultBaseURL,
		LogLevel:     "info",
		ValidateFeed: true,
		VerifyOutput: true,
	}
}

// Find returns the first of DefaultFileNames present in dir, or "".
func Find(dir string) string {
	for _, name := range DefaultFileNames {
		p := filepath.Join(dir, name)
		if info, err := os.Stat(p); err == nil && !info.IsDir() {
			return p
		}
	}
	return ""
}

// LoadDotEnv loads dir/.env into the environment if it exists. Variables
// already set are not overridden.
func LoadDotEnv(dir string) error {
	p := filepath.Join(dir, ".env")
	if _, err := os.Stat(p); err != nil {
		return nil
	}
	if err := godotenv.Load(p); err != nil {
		return fmt.Errorf("failed to load %s: %w", p, err)
	}
	return nil
}

// Load builds the configuration from defaults, the file at path (skipped
// when path is empty) and the environment, then validates it.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		if err := cfg.readFile(path); err != nil {
			return nil, err
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) readFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		if err := gotoml.Unmarshal(data, c); err != nil {
			return fmt.Errorf("failed to parse TOML config %s: %w", path, err)
		}
	case ".yml", ".yaml", "":
		if err := yaml.Unmarshal(data, c); err != nil {
			return fmt.Errorf("failed to parse YAML config %s: %w", path, err)
		}
	default:
		return fmt.Errorf("%w: unsupported config format %q", ErrInvalidConfig, filepath.Ext(path))
	}
	return nil
}

func (c *Config) applyEnv() error {
	if v, ok := os.LookupEnv(envPrefix + "DOCS_BASE_URL"); ok {
		c.DocsBaseURL = v
	}
	if v, ok := os.LookupEnv(envPrefix + "LOG_LEVEL"); ok {
		c.LogLevel = v
	}

	for name, dst := range map[string]*bool{
		"VALIDATE_FEED": &c.ValidateFeed,
		"VERIFY_OUTPUT": &c.VerifyOutput,
	} {
		v, ok := os.LookupEnv(envPrefix + name)
		if !ok {
			continue
		}
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("%w: %s%s=%q is not a boolean", ErrInvalidConfig, envPrefix, name, v)
		}
		*dst = b
	}
	return nil
}

// Validate checks field constraints.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			msgs := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				msgs = append(msgs, fmt.Sprintf("%s failed %q (value %q)", fe.Field(), fe.Tag(), fmt.Sprint(fe.Value())))
			}
			return fmt.Errorf("%w: %s", ErrInvalidConfig, strings.Join(msgs, "; "))
		}
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	return nil
}

// WriteTOML writes c to path as TOML. An existing file is only replaced when
// force is set.
func WriteTOML(path string, c *Config, force bool) error {
	if !force {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("config file %s already exists (use --force to overwrite)", path)
		}
	}

	var buf bytes.Buffer
	buf.WriteString("# panos-eol configuration\n")
	if err := toml.NewEncoder(&buf).Encode(c); err != nil {
		return fmt.Errorf("failed to encode TOML: %w", err)
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}
	if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
		return fmt.Errorf("failed to write config file %s: %w", path, err)
	}
	return nil
}
