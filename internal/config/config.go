package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gonote/gonote/internal/models"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const configFile = "config.yaml"

// Defaults
const (
	DefaultServerURL    = "http://localhost:8080/api"
	DefaultShareBaseURL = "https://gonote.app/s/"
	DefaultAIEndpoint   = "https://dashscope.aliyuncs.com/compatible-mode/v1/chat/completions"
	DefaultAIModel      = "qwen-turbo"
	DefaultSyncTimeout  = 10 * time.Second
	DefaultAITimeout    = 60 * time.Second
)

// RegisterMode selects the registration flow the backend supports
type RegisterMode string

const (
	RegisterTwoStep RegisterMode = "two-step"
	RegisterSingle  RegisterMode = "single"
)

// AIConfig configures the text-polishing service
type AIConfig struct {
	Endpoint string `yaml:"endpoint,omitempty"`
	APIKey   string `yaml:"api_key,omitempty"`
	Model    string `yaml:"model,omitempty"`
	Timeout  string `yaml:"timeout,omitempty"`
}

// SyncConfig configures remote persistence
type SyncConfig struct {
	Timeout string `yaml:"timeout,omitempty"`
}

// Config is the client config stored at <dir>/config.yaml
type Config struct {
	ServerURL    string          `yaml:"server_url,omitempty"`
	ShareBaseURL string          `yaml:"share_base_url,omitempty"`
	RegisterMode RegisterMode    `yaml:"register_mode,omitempty"`
	AI           AIConfig        `yaml:"ai,omitempty"`
	Sync         SyncConfig      `yaml:"sync,omitempty"`
	Folders      []models.Folder `yaml:"folders,omitempty"`
}

// Dir returns the config directory, creating it if necessary.
// GONOTE_HOME overrides the default ~/.config/gonote.
func Dir() (string, error) {
	dir := os.Getenv("GONOTE_HOME")
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("get home dir: %w", err)
		}
		dir = filepath.Join(home, ".config", "gonote")
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("create config dir: %w", err)
	}
	return dir, nil
}

// LoadDotEnv loads .env.local and .env from workDir into the process
// environment. Variables that are already set win; missing files are ignored.
func LoadDotEnv(workDir string) error {
	for _, name := range []string{".env.local", ".env"} {
		path := filepath.Join(workDir, name)
		if _, err := os.Stat(path); err != nil {
			continue
		}
		if err := godotenv.Load(path); err != nil {
			return fmt.Errorf("load %s: %w", name, err)
		}
	}
	return nil
}

// Load reads the config from dir. A missing file yields an empty config.
func Load(dir string) (*Config, error) {
	data, err := os.ReadFile(filepath.Join(dir, configFile))
	if err != nil {
		if os.IsNotExist(err) {
			return &Config{}, nil
		}
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", configFile, err)
	}
	return &cfg, nil
}

// Save writes the config to dir using atomic write (temp file + rename)
func Save(dir string, cfg *Config) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, "config-*.yaml.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return err
	}

	return os.Rename(tmpName, filepath.Join(dir, configFile))
}

// GetServerURL returns the API base URL.
// Priority: GONOTE_SERVER_URL env > config > default.
func (c *Config) GetServerURL() string {
	if v := os.Getenv("GONOTE_SERVER_URL"); v != "" {
		return strings.TrimRight(v, "/")
	}
	if c.ServerURL != "" {
		return strings.TrimRight(c.ServerURL, "/")
	}
	return DefaultServerURL
}

// GetShareBaseURL returns the prefix for generated public links.
func (c *Config) GetShareBaseURL() string {
	if c.ShareBaseURL != "" {
		return c.ShareBaseURL
	}
	return DefaultShareBaseURL
}

// GetRegisterMode returns the registration flow.
// Priority: GONOTE_REGISTER_MODE env > config > two-step.
func (c *Config) GetRegisterMode() RegisterMode {
	v := RegisterMode(os.Getenv("GONOTE_REGISTER_MODE"))
	if v == "" {
		v = c.RegisterMode
	}
	if v == RegisterSingle {
		return RegisterSingle
	}
	return RegisterTwoStep
}

// GetAIEndpoint returns the chat-completions endpoint.
func (c *Config) GetAIEndpoint() string {
	if v := os.Getenv("GONOTE_AI_ENDPOINT"); v != "" {
		return v
	}
	if c.AI.Endpoint != "" {
		return c.AI.Endpoint
	}
	return DefaultAIEndpoint
}

// GetAIAPIKey returns the AI key, empty when unset.
func (c *Config) GetAIAPIKey() string {
	if v := os.Getenv("GONOTE_AI_API_KEY"); v != "" {
		return v
	}
	return c.AI.APIKey
}

// GetAIModel returns the model name.
func (c *Config) GetAIModel() string {
	if v := os.Getenv("GONOTE_AI_MODEL"); v != "" {
		return v
	}
	if c.AI.Model != "" {
		return c.AI.Model
	}
	return DefaultAIModel
}

// GetAITimeout returns the AI request timeout.
func (c *Config) GetAITimeout() time.Duration {
	return parseDuration(c.AI.Timeout, DefaultAITimeout)
}

// GetSyncTimeout returns how long commands wait for pending remote writes.
// Priority: GONOTE_SYNC_TIMEOUT env > config > 10s.
func (c *Config) GetSyncTimeout() time.Duration {
	if v := os.Getenv("GONOTE_SYNC_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return parseDuration(c.Sync.Timeout, DefaultSyncTimeout)
}

// GetFolders returns the configured folders, or the seeded defaults.
func (c *Config) GetFolders() []models.Folder {
	if len(c.Folders) > 0 {
		return append([]models.Folder{}, c.Folders...)
	}
	return models.SeedFolders()
}

func parseDuration(s string, fallback time.Duration) time.Duration {
	if s == "" {
		return fallback
	}
	d, err := time.ParseDuration(s)
	if err != nil || d <= 0 {
		return fallback
	}
	return d
}
