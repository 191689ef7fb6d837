package config_test

import (
	"os"
	"path/filepath"
	"testing"

	cfg "github.com/mensahub/mensad/internal/config"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func resetViper() {
	// Reset global viper state between tests
	viper.Reset()
}

func defaults() map[string]any {
	return map[string]any{
		"database.type":     "sqlite",
		"database.dsn":      "./mensad.db",
		"server.addr":       ":8000",
		"fetch.archive_dir": "./archive",
		"language":          "de",
	}
}

func TestLoadConfig_DefaultsWithoutFile(t *testing.T) {
	tmp := t.TempDir()
	// Force user config dir to an empty tmp by setting XDG_CONFIG_HOME
	os.Setenv("XDG_CONFIG_HOME", tmp)
	defer os.Unsetenv("XDG_CONFIG_HOME")

	resetViper()
	defer resetViper()

	got, err := cfg.LoadConfig[cfg.Config](&cobra.Command{}, defaults(), nil)
	if err != nil {
		t.Fatalf("LoadConfig returned error: %v", err)
	}
	if got.Database.Type != "sqlite" {
		t.Fatalf("expected sqlite default, got %q", got.Database.Type)
	}
	if got.Server.Addr != ":8000" {
		t.Fatalf("expected :8000 default, got %q", got.Server.Addr)
	}
	if got.Fetch.ArchiveDir != "./archive" {
		t.Fatalf("expected ./archive default, got %q", got.Fetch.ArchiveDir)
	}
}

func TestWriteConfigFile_CreatesFile(t *testing.T) {
	tmp := t.TempDir()
	os.Setenv("XDG_CONFIG_HOME", tmp)
	defer os.Unsetenv("XDG_CONFIG_HOME")

	resetViper()
	defer resetViper()

	c := cfg.Config{}
	c.Database.Type = "sqlite"
	c.Database.Dsn = "./mensad.db"
	c.Language = "de"

	if err := cfg.WriteConfigFile(&c, false); err != nil {
		t.Fatalf("WriteConfigFile failed: %v", err)
	}

	path, err := cfg.GetConfigPath(false)
	if err != nil {
		t.Fatalf("GetConfigPath failed: %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("expected config file at %s, stat error: %v", path, err)
	}
}

func TestLoadConfig_ReadsExplicitFile(t *testing.T) {
	tmp := t.TempDir()
	yaml := "database:\n  type: postgres\n  dsn: postgresql://user@/mensa\nserver:\n  addr: \":9000\"\nfetch:\n  url: https://example.org/speisenplan.pdf\n  interval_hours: 12\nlanguage: de\n"
	file := filepath.Join(tmp, "cfg.yaml")
	if err := os.WriteFile(file, []byte(yaml), 0o600); err != nil {
		t.Fatalf("write file: %v", err)
	}

	resetViper()
	defer resetViper()

	got, err := cfg.LoadConfig[cfg.Config](&cobra.Command{}, defaults(), &file)
	if err != nil {
		t.Fatalf("LoadConfig returned error: %v", err)
	}
	if got.Database.Type != "postgres" {
		t.Fatalf("expected postgres, got %q", got.Database.Type)
	}
	if got.Server.Addr != ":9000" {
		t.Fatalf("expected :9000, got %q", got.Server.Addr)
	}
	if got.Fetch.Url != "https://example.org/speisenplan.pdf" {
		t.Fatalf("unexpected fetch url: %q", got.Fetch.Url)
	}
	if got.Fetch.IntervalHours != 12 {
		t.Fatalf("expected 12h interval, got %d", got.Fetch.IntervalHours)
	}
	if got.Language != "de" {
		t.Fatalf("expected de, got %q", got.Language)
	}
}

func TestLoadConfig_FlagOverridesFile(t *testing.T) {
	tmp := t.TempDir()
	yaml := "database:\n  type: sqlite\n  dsn: ./from-file.db\n"
	file := filepath.Join(tmp, "cfg.yaml")
	if err := os.WriteFile(file, []byte(yaml), 0o600); err != nil {
		t.Fatalf("write file: %v", err)
	}

	resetViper()
	defer resetViper()

	cmd := &cobra.Command{}
	cmd.Flags().String("database.dsn", "", "")
	if err := cmd.Flags().Set("database.dsn", "./from-flag.db"); err != nil {
		t.Fatalf("set flag: %v", err)
	}

	got, err := cfg.LoadConfig[cfg.Config](cmd, defaults(), &file)
	if err != nil {
		t.Fatalf("LoadConfig returned error: %v", err)
	}
	if got.Database.Dsn != "./from-flag.db" {
		t.Fatalf("expected flag to win, got %q", got.Database.Dsn)
	}
}
