// Package config resolves runtime settings from defaults, an optional
// .planner.yaml, a .env file, PLANNER_* environment variables and CLI flags.
package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/mitchellh/go-homedir"
	"github.com/spf13/viper"
)

// Keys
const (
	KeyBaseURL = "base_url"
	KeyTimeout = "timeout"
	KeyDBPath  = "db_path"
	KeyTheme   = "theme"
	KeyLogFile = "log_file"
)

// Config holds the resolved settings
type Config struct {
	BaseURL string
	Timeout time.Duration
	DBPath  string
	Theme   string
	LogFile string
}

// New returns a viper instance with defaults and env binding applied.
// Callers may bind flags to it before calling Load.
func New() *viper.Viper {
	v := viper.New()
	v.SetDefault(KeyBaseURL, "http://localhost:8080")
	v.SetDefault(KeyTimeout, "10s")
	v.SetDefault(KeyDBPath, "")
	v.SetDefault(KeyTheme, "light")
	v.SetDefault(KeyLogFile, "")

	v.SetConfigName(".planner") // .yaml is implicit
	v.SetEnvPrefix("PLANNER")
	v.AutomaticEnv()

	if override := os.Getenv("PLANNER_CONFIG_PATH"); override != "" {
		v.AddConfigPath(override)
	}
	v.AddConfigPath("./")
	return v
}

// Load reads .env and the config file (both optional) and resolves v into a Config
func Load(v *viper.Viper) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Printf("config: .env: %v", err)
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config file: %w", err)
		}
	}

	timeout := v.GetDuration(KeyTimeout)
	if timeout <= 0 {
		return nil, fmt.Errorf("invalid %s %q", KeyTimeout, v.GetString(KeyTimeout))
	}

	dbPath := v.GetString(KeyDBPath)
	if dbPath == "" {
		var err error
		if dbPath, err = defaultDBPath(); err != nil {
			return nil, err
		}
	}
	dbPath, err := homedir.Expand(dbPath)
	if err != nil {
		return nil, fmt.Errorf("expand %s: %w", KeyDBPath, err)
	}

	logFile, err := homedir.Expand(v.GetString(KeyLogFile))
	if err != nil {
		return nil, fmt.Errorf("expand %s: %w", KeyLogFile, err)
	}

	return &Config{
		BaseURL: strings.TrimRight(v.GetString(KeyBaseURL), "/"),
		Timeout: timeout,
		DBPath:  dbPath,
		Theme:   strings.ToLower(v.GetString(KeyTheme)),
		LogFile: logFile,
	}, nil
}

// defaultDBPath uses the XDG data directory or falls back to ~/.local/share
func defaultDBPath() (string, error) {
	dataDir := os.Getenv("XDG_DATA_HOME")
	if dataDir == "" {
		home, err := homedir.Dir()
		if err != nil {
			return "", err
		}
		dataDir = filepath.Join(home, ".local", "share")
	}
	return filepath.Join(dataDir, "planner", "planner.db"), nil
}
