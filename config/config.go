package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

// Storage configures where the collection files live.
type Storage struct {
	DataDir string `toml:"data_dir"`
}

// Admin is the static admin login pair. Password may hold a bcrypt hash
// (produced by `import_books hash-password`) instead of a plaintext value.
type Admin struct {
	Username string `toml:"username"`
	Password string `toml:"password"`
}

// SMTP configures the mail submission account used for one-time login
// codes. Leaving Host empty disables code delivery.
type SMTP struct {
	Host     string `toml:"host"`
	Port     int    `toml:"port"`
	Username string `toml:"username"`
	Password string `toml:"password"`
	From     string `toml:"from"`
}

// Logging configures log output.
type Logging struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
}

// Config is the full application configuration, injected at startup.
type Config struct {
	Storage Storage `toml:"storage"`
	Admin   Admin   `toml:"admin"`
	SMTP    SMTP    `toml:"smtp"`
	Logging Logging `toml:"logging"`
}

// Default returns the configuration used when no file is present.
func Default() Config {
	return Config{
		Storage: Storage{DataDir: "data"},
		Admin:   Admin{Username: "admin", Password: "admin123"},
		SMTP:    SMTP{Port: 587},
		Logging: Logging{Level: "info", Format: "text"},
	}
}

// Load reads the configuration file at path, falling back to
// "librarydesk.toml" in the working directory and then to defaults when no
// file exists. The result is validated.
func Load(path string) (*Config, error) {
	cfg := Default()

	resolved, exists, err := resolvePath(path)
	if err != nil {
		return nil, err
	}
	if exists {
		file, err := os.Open(resolved)
		if err != nil {
			return nil, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		if err := toml.NewDecoder(file).Decode(&cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func resolvePath(path string) (string, bool, error) {
	if path != "" {
		if _, err := os.Stat(path); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return "", false, fmt.Errorf("config file %q does not exist", path)
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return path, true, nil
	}

	const defaultPath = "librarydesk.toml"
	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	return "", false, nil
}

func (c *Config) validate() error {
	if strings.TrimSpace(c.Storage.DataDir) == "" {
		return errors.New("config: storage.data_dir must not be empty")
	}
	if strings.TrimSpace(c.Admin.Username) == "" || c.Admin.Password == "" {
		return errors.New("config: admin username and password are required")
	}
	if c.SMTP.Port <= 0 || c.SMTP.Port > 65535 {
		return fmt.Errorf("config: smtp.port %d out of range", c.SMTP.Port)
	}
	switch strings.ToLower(c.Logging.Format) {
	case "text", "json", "":
	default:
		return fmt.Errorf("config: logging.format %q unsupported", c.Logging.Format)
	}
	return nil
}
