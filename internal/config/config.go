package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"sync"

	"github.com/spf13/viper"
)

type ServerConfig struct {
	Address string `mapstructure:"address"`
	Port    int    `mapstructure:"port"`
	Mode    string `mapstructure:"mode"`
}

// DatabaseConfig selects the notes backend.
// Driver is one of sqlite, postgres, local or memory.
type DatabaseConfig struct {
	Driver  string `mapstructure:"driver"`
	Path    string `mapstructure:"path"`
	DSN     string `mapstructure:"dsn"`
	LogMode bool   `mapstructure:"log_mode"`
}

// LocalConfig is the directory backing the local key-value slots.
type LocalConfig struct {
	Dir  string `mapstructure:"dir"`
	Seed bool   `mapstructure:"seed"`
}

type JWTConfig struct {
	Secret      string `mapstructure:"secret"`
	Issuer      string `mapstructure:"issuer"`
	ExpireHours int    `mapstructure:"expire_hours"`
}

type SecurityConfig struct {
	EncryptionKey string `mapstructure:"encryption_key"`
}

type LogConfig struct {
	File  string `mapstructure:"file"`
	Level string `mapstructure:"level"`
}

type BackupConfig struct {
	Dir string `mapstructure:"dir"`
}

type SearchConfig struct {
	DebounceMS int `mapstructure:"debounce_ms"`
}

type EventsConfig struct {
	Brokers []string `mapstructure:"brokers"`
	Topic   string   `mapstructure:"topic"`
}

type ExportConfig struct {
	FileName string `mapstructure:"file_name"`
}

type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	Local    LocalConfig    `mapstructure:"local"`
	JWT      JWTConfig      `mapstructure:"jwt"`
	Security SecurityConfig `mapstructure:"security"`
	Log      LogConfig      `mapstructure:"log"`
	Backup   BackupConfig   `mapstructure:"backup"`
	Search   SearchConfig   `mapstructure:"search"`
	Events   EventsConfig   `mapstructure:"events"`
	Export   ExportConfig   `mapstructure:"export"`
}

var (
	appConfig *Config
	once      sync.Once
)

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.address", "127.0.0.1")
	v.SetDefault("server.port", 8080)
	v.SetDefault("database.driver", "sqlite")
	v.SetDefault("database.path", "data/homebook.db")
	v.SetDefault("local.dir", "data/local")
	v.SetDefault("local.seed", true)
	v.SetDefault("jwt.issuer", "homebook")
	v.SetDefault("jwt.expire_hours", 24*30)
	v.SetDefault("log.file", "logs/homebook.log")
	v.SetDefault("log.level", "info")
	v.SetDefault("backup.dir", "data/backups")
	v.SetDefault("search.debounce_ms", 300)
	v.SetDefault("events.topic", "note_changed")
	v.SetDefault("export.file_name", "property_division")
}

// Load loads configuration from given file path (e.g. "config.yaml").
// If path is empty, it defaults to "config.yaml" in current working directory.
// A missing file is not an error: defaults and environment still apply.
func Load(path string) (*Config, error) {
	var err error
	once.Do(func() {
		var c *Config
		c, err = Read(path)
		if err == nil {
			appConfig = c
		}
	})

	if err != nil {
		return nil, err
	}
	return appConfig, nil
}

// Read parses a configuration without touching the process-wide one.
func Read(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	if path == "" {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	} else {
		v.SetConfigFile(path)
	}

	// environment overrides, e.g. HOMEBOOK_SERVER_PORT=9000
	v.SetEnvPrefix("HOMEBOOK")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	return &c, nil
}

// Get returns the loaded global configuration.
// Call Load() once at application startup.
func Get() *Config {
	return appConfig
}
