package main

import (
	"strings"

	"askmydata/internal/config"
	"askmydata/internal/errors"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// configFlags maps config keys to the persistent flags that override them
var configFlags = map[string]string{"chat_db_path": "db", "database_url": "database-url", "log_level": "log-level"}

// registerConfigFlags adds the config override flags to fs
func registerConfigFlags(fs *pflag.FlagSet) {
	fs.String("db", "", "sqlite chat history file (default chat_history.db)")
	fs.String("database-url", "", "postgres URL; overrides --db")
	fs.String("log-level", "", "ERROR, WARN, INFO or DEBUG")
}

// loadConfig resolves the CLI configuration.
// Precedence: flags > ASKMYDATA_* env > server env (CHAT_DB_PATH, ...) > config file > defaults.
func loadConfig(cfgFile string, flags *pflag.FlagSet) (*config.Config, error) {
	v := viper.New()
	v.SetEnvPrefix("ASKMYDATA")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()
	for _, key := range []string{"chat_db_path", "database_url", "log_level", "max_upload_mb"} {
		env := strings.ToUpper(key)
		if err := v.BindEnv(key, "ASKMYDATA_"+env, env); err != nil {
			return nil, errors.Wrapf(err, "bind env %s", env)
		}
	}

	v.SetDefault("chat_db_path", "chat_history.db")
	v.SetDefault("database_url", "")
	v.SetDefault("log_level", "INFO")
	v.SetDefault("max_upload_mb", 50)

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, errors.Wrapf(err, "read config %s", cfgFile)
		}
	}

	if flags != nil {
		for key, name := range configFlags {
			if f := flags.Lookup(name); f != nil && f.Changed {
				if err := v.BindPFlag(key, f); err != nil {
					return nil, errors.Wrapf(err, "bind flag %s", name)
				}
			}
		}
	}

	cfg := &config.Config{
		Database: config.DatabaseConfig{
			URL:        v.GetString("database_url"),
			ChatDBPath: v.GetString("chat_db_path"),
		},
		Upload:   config.UploadConfig{MaxSizeMB: v.GetInt("max_upload_mb")},
		LogLevel: v.GetString("log_level"),
	}
	if !cfg.Database.UsesPostgres() && cfg.Database.ChatDBPath == "" {
		return nil, errors.ConfigInvalid("chat_db_path is required when database_url is not set")
	}
	return cfg, nil
}
