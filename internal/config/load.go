package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every configuration key when read from the
// environment, e.g. PHRASEBOOK_SERVER_PORT.
const EnvPrefix = "PHRASEBOOK"

// Options controls where Load looks for configuration.
type Options struct {
	// ConfigFile is an explicit config file path. When empty, an optional
	// config.yaml in the working directory is read if present.
	ConfigFile string

	// EnvFiles are dotenv files loaded into the process environment before
	// reading it. Missing files are skipped. Variables already set in the
	// environment are never overwritten.
	EnvFiles []string

	// Flags, when non-nil, are bound over every other source for the keys
	// they define.
	Flags *pflag.FlagSet
}

// flagKeys maps command line flag names to configuration keys.
var flagKeys = map[string]string{
	"port":      "server.port",
	"log-level": "server.log_level",
}

// bareEnv lists environment variable names accepted without the prefix.
var bareEnv = map[string][]string{
	"server.port":     {"PORT"},
	"database.url":    {"DATABASE_URL"},
	"llm.groq_key":    {"GROQ_API_KEY"},
	"llm.gemini_key":  {"GEMINI_API_KEY"},
	"auth.jwt_secret": {"JWT_SECRET"},
}

// Load configuration from the default sources: .env, an optional
// config.yaml, and the environment.
func Load() (*Config, error) {
	return LoadWithOptions(Options{EnvFiles: []string{".env"}})
}

// LoadWithOptions loads configuration from defaults, the config file, the
// environment and flags, in increasing order of precedence, and validates
// the result. Returns a populated Config struct or an error if
// loading/validation fails.
func LoadWithOptions(opts Options) (*Config, error) {
	for _, file := range opts.EnvFiles {
		if err := godotenv.Load(file); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("failed to load env file %s: %w", file, err)
		}
	}

	v := viper.New()
	setDefaults(v)

	if err := readConfigFile(v, opts.ConfigFile); err != nil {
		return nil, err
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	for key, names := range bareEnv {
		prefixed := EnvPrefix + "_" + strings.ToUpper(strings.ReplaceAll(key, ".", "_"))
		if err := v.BindEnv(append([]string{key, prefixed}, names...)...); err != nil {
			return nil, fmt.Errorf("failed to bind environment for %s: %w", key, err)
		}
	}

	if opts.Flags != nil {
		for name, key := range flagKeys {
			if f := opts.Flags.Lookup(name); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return nil, fmt.Errorf("failed to bind flag --%s: %w", name, err)
				}
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode configuration: %w", err)
	}

	resolveProviderKey(v, &cfg)
	resolveDataPath(v, &cfg)

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return &cfg, nil
}

// setDefaults registers every key so that AutomaticEnv can find it during
// Unmarshal.
func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.log_level", "info")
	v.SetDefault("server.log_format", "json")
	v.SetDefault("server.static_dir", "")
	v.SetDefault("server.cors_allowed_origins", []string{"*"})
	v.SetDefault("server.shutdown_timeout_seconds", 10)

	v.SetDefault("database.url", "")
	v.SetDefault("database.sqlite_path", "data/phrasebook.db")

	v.SetDefault("auth.jwt_secret", "")

	v.SetDefault("llm.provider", ProviderGroq)
	v.SetDefault("llm.api_key", "")
	v.SetDefault("llm.model", "")
	v.SetDefault("llm.base_url", "https://api.groq.com/openai/v1")
	v.SetDefault("llm.timeout_seconds", 30)
	v.SetDefault("llm.groq_key", "")
	v.SetDefault("llm.gemini_key", "")
}

func readConfigFile(v *viper.Viper, path string) error {
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return fmt.Errorf("failed to read config file %s: %w", path, err)
		}
		return nil
	}

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return nil
		}
		return fmt.Errorf("failed to read config file: %w", err)
	}
	return nil
}

// dataPathEnv names a data directory. The SQLite database is placed at
// app.db inside it unless database.sqlite_path is set explicitly.
const dataPathEnv = "DATA_PATH"

func resolveDataPath(v *viper.Viper, cfg *Config) {
	dir := os.Getenv(dataPathEnv)
	if dir == "" {
		return
	}
	if v.InConfig("database.sqlite_path") || os.Getenv(EnvPrefix+"_DATABASE_SQLITE_PATH") != "" {
		return
	}
	cfg.Database.SQLitePath = filepath.Join(dir, "app.db")
}

// resolveProviderKey falls back to the provider's conventional key variable
// when no explicit llm.api_key is configured.
func resolveProviderKey(v *viper.Viper, cfg *Config) {
	if cfg.LLM.APIKey != "" {
		return
	}
	switch cfg.LLM.Provider {
	case ProviderGroq:
		cfg.LLM.APIKey = v.GetString("llm.groq_key")
	case ProviderGemini:
		cfg.LLM.APIKey = v.GetString("llm.gemini_key")
	}
}
