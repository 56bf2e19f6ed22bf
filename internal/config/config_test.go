package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/gonote/gonote/internal/models"
)

func TestLoadMissingFile(t *testing.T) {
	cfg, err := Load(t.TempDir())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.GetServerURL() != DefaultServerURL {
		t.Errorf("GetServerURL() = %q, want default", cfg.GetServerURL())
	}
	if cfg.GetRegisterMode() != RegisterTwoStep {
		t.Errorf("GetRegisterMode() = %q, want two-step", cfg.GetRegisterMode())
	}
	if len(cfg.GetFolders()) != 3 {
		t.Errorf("GetFolders() returned %d folders, want 3 seeded", len(cfg.GetFolders()))
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	dir := t.TempDir()
	cfg := &Config{
		ServerURL:    "http://notes.example/api/",
		RegisterMode: RegisterSingle,
		AI:           AIConfig{Model: "gpt-x", Timeout: "5s"},
		Folders:      []models.Folder{{ID: "w", Name: "Work"}},
	}
	if err := Save(dir, cfg); err != nil {
		t.Fatalf("Save: %v", err)
	}

	got, err := Load(dir)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got.GetServerURL() != "http://notes.example/api" {
		t.Errorf("GetServerURL() = %q, trailing slash should be trimmed", got.GetServerURL())
	}
	if got.GetRegisterMode() != RegisterSingle {
		t.Errorf("GetRegisterMode() = %q", got.GetRegisterMode())
	}
	if got.GetAIModel() != "gpt-x" {
		t.Errorf("GetAIModel() = %q", got.GetAIModel())
	}
	if got.GetAITimeout() != 5*time.Second {
		t.Errorf("GetAITimeout() = %v", got.GetAITimeout())
	}
	if f := got.GetFolders(); len(f) != 1 || f[0].Name != "Work" {
		t.Errorf("GetFolders() = %+v", f)
	}
}

func TestEnvOverridesConfig(t *testing.T) {
	t.Setenv("GONOTE_SERVER_URL", "http://env.example/api")
	t.Setenv("GONOTE_AI_API_KEY", "sk-env")
	t.Setenv("GONOTE_SYNC_TIMEOUT", "2s")

	cfg := &Config{ServerURL: "http://file.example/api", AI: AIConfig{APIKey: "sk-file"}}
	if cfg.GetServerURL() != "http://env.example/api" {
		t.Errorf("GetServerURL() = %q", cfg.GetServerURL())
	}
	if cfg.GetAIAPIKey() != "sk-env" {
		t.Errorf("GetAIAPIKey() = %q", cfg.GetAIAPIKey())
	}
	if cfg.GetSyncTimeout() != 2*time.Second {
		t.Errorf("GetSyncTimeout() = %v", cfg.GetSyncTimeout())
	}
}

func TestLoadDotEnv(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, ".env.local"), []byte("GONOTE_AI_MODEL=from-dotenv\n"), 0644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("GONOTE_AI_MODEL", "")
	os.Unsetenv("GONOTE_AI_MODEL")

	if err := LoadDotEnv(dir); err != nil {
		t.Fatalf("LoadDotEnv: %v", err)
	}
	if got := (&Config{}).GetAIModel(); got != "from-dotenv" {
		t.Errorf("GetAIModel() = %q, want from-dotenv", got)
	}
}

func TestDirHonoursGonoteHome(t *testing.T) {
	want := filepath.Join(t.TempDir(), "nested")
	t.Setenv("GONOTE_HOME", want)
	got, err := Dir()
	if err != nil {
		t.Fatalf("Dir: %v", err)
	}
	if got != want {
		t.Errorf("Dir() = %q, want %q", got, want)
	}
	if _, err := os.Stat(want); err != nil {
		t.Errorf("Dir did not create %s: %v", want, err)
	}
}
