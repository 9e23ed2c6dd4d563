package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestEmbeddedDefaultsMatchHardcoded(t *testing.T) {
	cfg, err := LoadSnake("")
	if err != nil {
		t.Fatalf("LoadSnake() failed: %v", err)
	}

	def := DefaultSnakeConfig()
	if cfg != def {
		t.Errorf("embedded defaults differ from DefaultSnakeConfig():\n got %+v\nwant %+v", cfg, def)
	}
}

func TestLoadSnakeCustomPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "snake.yaml")
	data := "grid:\n  size: 20\nsnake:\n  initial_speed: 150ms\npowerups:\n  magnet_duration: 4s\n"
	if err := os.WriteFile(path, []byte(data), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadSnake(path)
	if err != nil {
		t.Fatalf("LoadSnake(%s) failed: %v", path, err)
	}

	if cfg.Grid.Size != 20 {
		t.Errorf("Grid.Size = %d, expected 20", cfg.Grid.Size)
	}
	if cfg.Snake.InitialSpeed != 150*time.Millisecond {
		t.Errorf("InitialSpeed = %v, expected 150ms", cfg.Snake.InitialSpeed)
	}
	if cfg.PowerUps.MagnetDuration != 4*time.Second {
		t.Errorf("MagnetDuration = %v, expected 4s", cfg.PowerUps.MagnetDuration)
	}
	// Unset keys keep defaults
	if cfg.Scoring.FoodBase != 10 || cfg.PowerUps.SpeedDuration != 10*time.Second {
		t.Errorf("unset keys lost their defaults: %+v", cfg)
	}
}

func TestLoadSnakeMissingFile(t *testing.T) {
	_, err := LoadSnake(filepath.Join(t.TempDir(), "nope.yaml"))
	if err == nil {
		t.Fatal("expected error for missing custom config")
	}
}

func TestLoadSnakeInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "snake.yaml")
	if err := os.WriteFile(path, []byte("grid:\n  size: 2\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	_, err := LoadSnake(path)
	if !errors.Is(err, ErrInvalid) {
		t.Errorf("expected ErrInvalid, got %v", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*SnakeConfig)
		valid  bool
	}{
		{"defaults", func(*SnakeConfig) {}, true},
		{"tiny grid", func(c *SnakeConfig) { c.Grid.Size = 4 }, false},
		{"zero speed", func(c *SnakeConfig) { c.Snake.InitialSpeed = 0 }, false},
		{"zero decay", func(c *SnakeConfig) { c.Scoring.DecayRate = 0 }, false},
		{"empty spawn window", func(c *SnakeConfig) { c.Spawn.PowerUpMaxFood = 2 }, false},
		{"no leaderboard rows", func(c *SnakeConfig) { c.Leaderboard.Limit = 0 }, false},
		{"zero speed duration", func(c *SnakeConfig) { c.PowerUps.SpeedDuration = 0 }, false},
		{"negative shrink duration", func(c *SnakeConfig) { c.PowerUps.ShrinkDuration = -time.Second }, false},
		{"zero invincible duration", func(c *SnakeConfig) { c.PowerUps.InvincibleDuration = 0 }, false},
		{"negative magnet duration", func(c *SnakeConfig) { c.PowerUps.MagnetDuration = -1 }, false},
		{"negative shrink interval", func(c *SnakeConfig) { c.PowerUps.ShrinkInterval = -time.Millisecond }, false},
		{"zero shrink interval", func(c *SnakeConfig) { c.PowerUps.ShrinkInterval = 0 }, true},
		{"negative magnet range", func(c *SnakeConfig) { c.PowerUps.MagnetRange = -1 }, false},
		{"zero magnet range", func(c *SnakeConfig) { c.PowerUps.MagnetRange = 0 }, true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := DefaultSnakeConfig()
			tc.mutate(&cfg)
			err := cfg.Validate()
			if (err == nil) != tc.valid {
				t.Errorf("Validate() = %v, expected valid=%v", err, tc.valid)
			}
		})
	}
}

func TestApplySnakePreset(t *testing.T) {
	cfg := DefaultSnakeConfig()

	ApplySnakePreset(&cfg, DifficultyHard)
	if cfg.Snake.InitialSpeed != 120*time.Millisecond {
		t.Errorf("hard preset speed = %v, expected 120ms", cfg.Snake.InitialSpeed)
	}

	ApplySnakePreset(&cfg, "bogus")
	if cfg.Snake.InitialSpeed != 120*time.Millisecond {
		t.Errorf("unknown preset should keep speed, got %v", cfg.Snake.InitialSpeed)
	}
}

func TestApplyEnv(t *testing.T) {
	envPath := filepath.Join(t.TempDir(), ".env")
	content := "TURSO_DB_URL=https://scores.example.test\nTURSO_AUTH_TOKEN=secret\n"
	if err := os.WriteFile(envPath, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv(EnvLeaderboardURL, "")
	t.Setenv(EnvLeaderboardToken, "")
	os.Unsetenv(EnvLeaderboardURL)
	os.Unsetenv(EnvLeaderboardToken)

	cfg := DefaultSnakeConfig()
	if err := ApplyEnv(&cfg, envPath); err != nil {
		t.Fatalf("ApplyEnv() failed: %v", err)
	}

	if cfg.Leaderboard.URL != "https://scores.example.test" {
		t.Errorf("URL = %q", cfg.Leaderboard.URL)
	}
	if cfg.Leaderboard.Token != "secret" {
		t.Errorf("Token = %q", cfg.Leaderboard.Token)
	}
}

func TestApplyEnvMissingFile(t *testing.T) {
	cfg := DefaultSnakeConfig()
	if err := ApplyEnv(&cfg, filepath.Join(t.TempDir(), "missing.env")); err != nil {
		t.Errorf("missing env file should be ignored, got %v", err)
	}
}

func TestMarshalRedactsToken(t *testing.T) {
	cfg := DefaultSnakeConfig()
	cfg.Leaderboard.Token = "super-secret"

	data, err := Marshal(cfg)
	if err != nil {
		t.Fatalf("Marshal() failed: %v", err)
	}
	if strings.Contains(string(data), "super-secret") {
		t.Error("Marshal leaked the leaderboard token")
	}
}
