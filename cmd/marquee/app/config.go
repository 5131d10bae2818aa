package app

import (
	stderrors "errors"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/agentstation/marquee/pkg/constants"
	"github.com/agentstation/marquee/pkg/errors"
	"github.com/agentstation/marquee/pkg/store"
)

// envPrefix namespaces environment variables, e.g. MARQUEE_STORE_BACKEND.
const envPrefix = "MARQUEE"

// Config holds the application configuration loaded from config files,
// environment variables and .env files.
type Config struct {
	// Global flags
	Verbose bool
	Quiet   bool
	NoColor bool
	Format  string

	// Config file
	ConfigFile string

	// Record store and catalog
	Store           store.Config
	RefreshOnSubmit bool

	// Logging configuration
	LogLevel  string
	LogFormat string
	LogOutput string
}

// LoadConfig loads configuration from all sources in order of precedence:
//  1. Command-line flags (applied later by UpdateFromFlags)
//  2. Environment variables (MARQUEE_*, plus LOG_LEVEL/LOG_FORMAT/LOG_OUTPUT)
//  3. .env and .env.local files
//  4. Config file (configFile, or .marquee.yaml in $HOME or the working directory)
//  5. Defaults
//
// The command line works across invocations, so it defaults to the sqlite
// backend rather than the in-memory one.
func LoadConfig(configFile string) (*Config, error) {
	// Load .env files first so viper sees them as environment
	loadEnvFiles()

	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()
	setDefaults(v)

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(home)
		}
		v.AddConfigPath(".")
		v.SetConfigType("yaml")
		v.SetConfigName(".marquee")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		// A missing default config file is fine; an explicit one must exist.
		if configFile != "" || !stderrors.As(err, &notFound) {
			return nil, errors.NewConfigError("config", "reading "+configFileName(v, configFile), err)
		}
	}

	config := &Config{
		Verbose: v.GetBool("verbose"),
		Quiet:   v.GetBool("quiet"),
		NoColor: v.GetBool("no_color"),
		Format:  v.GetString("output"),

		ConfigFile: v.ConfigFileUsed(),

		Store: store.Config{
			Backend:         v.GetString("store.backend"),
			Path:            v.GetString("store.path"),
			Project:         v.GetString("store.project"),
			Database:        v.GetString("store.database"),
			CredentialsFile: v.GetString("store.credentials_file"),
			CredentialsJSON: v.GetString("store.credentials_json"),
			Collection:      v.GetString("store.collection"),
			SnapshotLimit:   v.GetInt("store.snapshot_limit"),
		},
		RefreshOnSubmit: v.GetBool("refresh_on_submit"),

		LogLevel:  firstNonEmpty(v.GetString("log_level"), os.Getenv("LOG_LEVEL")),
		LogFormat: firstNonEmpty(v.GetString("log_format"), os.Getenv("LOG_FORMAT"), "auto"),
		LogOutput: firstNonEmpty(v.GetString("log_output"), os.Getenv("LOG_OUTPUT"), "stderr"),
	}

	return config, nil
}

// setDefaults registers every key so AutomaticEnv can resolve nested ones.
func setDefaults(v *viper.Viper) {
	def := store.DefaultConfig()
	v.SetDefault("store.backend", store.BackendSQLite)
	v.SetDefault("store.path", constants.DefaultDatabaseFile)
	v.SetDefault("store.project", "")
	v.SetDefault("store.database", "")
	v.SetDefault("store.credentials_file", "")
	v.SetDefault("store.credentials_json", "")
	v.SetDefault("store.collection", def.Collection)
	v.SetDefault("store.snapshot_limit", def.SnapshotLimit)
	v.SetDefault("refresh_on_submit", false)
	v.SetDefault("output", "")
	v.SetDefault("log_level", "")
	v.SetDefault("log_format", "")
	v.SetDefault("log_output", "")
}

// Flags carries the global flag values that override loaded configuration.
// Empty strings, zero limits and false switches leave the loaded value in place.
type Flags struct {
	Verbose    bool
	Quiet      bool
	NoColor    bool
	Format     string
	LogLevel   string
	Backend    string
	DBPath     string
	Collection string
	Limit      int
}

// UpdateFromFlags applies parsed command flags on top of the loaded
// configuration so flags take precedence over files and environment.
func (c *Config) UpdateFromFlags(f Flags) {
	c.Verbose = c.Verbose || f.Verbose
	c.Quiet = c.Quiet || f.Quiet
	c.NoColor = c.NoColor || f.NoColor
	if f.Format != "" {
		c.Format = f.Format
	}
	if f.LogLevel != "" {
		c.LogLevel = f.LogLevel
	}
	if f.Backend != "" {
		c.Store.Backend = f.Backend
	}
	if f.DBPath != "" {
		c.Store.Path = f.DBPath
	}
	if f.Collection != "" {
		c.Store.Collection = f.Collection
	}
	if f.Limit != 0 {
		c.Store.SnapshotLimit = f.Limit
	}
}

// loadEnvFiles loads environment variables from .env files.
// Existing variables are never overwritten.
func loadEnvFiles() {
	for _, envFile := range []string{".env.local", ".env"} {
		_ = godotenv.Load(envFile)
	}
}

func configFileName(v *viper.Viper, explicit string) string {
	if explicit != "" {
		return explicit
	}
	if used := v.ConfigFileUsed(); used != "" {
		return used
	}
	return ".marquee.yaml"
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
