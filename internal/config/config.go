package config

import (
	"errors"
	"os"
	"os/user"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"track/internal/trackerr"
)

const (
	DataFileName    = ".track"
	HistoryFileName = ".track_history.db"
)

type HistoryConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Path    string `mapstructure:"path"`
	Limit   int    `mapstructure:"limit"`
}

type ReportConfig struct {
	Precise bool `mapstructure:"precise"`
}

type Config struct {
	DataPath string        `mapstructure:"data_path"`
	LogLevel string        `mapstructure:"log_level"`
	LogFile  string        `mapstructure:"log_file"`
	History  HistoryConfig `mapstructure:"history"`
	Report   ReportConfig  `mapstructure:"report"`
}

// Loader resolves configuration from defaults, a YAML file, TRACK_*
// environment variables and bound command-line flags, in increasing order
// of precedence.
type Loader struct {
	Fs      afero.Fs
	HomeDir func() (string, error)
	Flags   map[string]*pflag.Flag
	Log     logrus.FieldLogger
}

// HomeDir returns the home directory of the invoking user.
func HomeDir() (string, error) {
	if u, err := user.Current(); err == nil && u.HomeDir != "" {
		return u.HomeDir, nil
	}
	return os.UserHomeDir()
}

func (l Loader) Load(configPath string) (*Config, error) {
	homeFn := l.HomeDir
	if homeFn == nil {
		homeFn = HomeDir
	}
	home, err := homeFn()
	if err != nil {
		return nil, trackerr.ConfigInvalid("cannot resolve home directory", err)
	}
	log := l.Log
	if log == nil {
		log = logrus.StandardLogger()
	}

	v := viper.New()
	if l.Fs != nil {
		v.SetFs(l.Fs)
	}
	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(filepath.Join(home, ".config", "track"))
		v.AddConfigPath("/etc/track/")
	}

	v.SetEnvPrefix("TRACK")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("data_path", filepath.Join(home, DataFileName))
	v.SetDefault("log_level", "warn")
	v.SetDefault("log_file", "")
	v.SetDefault("history.enabled", true)
	v.SetDefault("history.path", filepath.Join(home, HistoryFileName))
	v.SetDefault("history.limit", 10)
	v.SetDefault("report.precise", false)

	for key, flag := range l.Flags {
		if flag == nil {
			continue
		}
		if err := v.BindPFlag(key, flag); err != nil {
			return nil, trackerr.ConfigInvalid("bind flag "+flag.Name, err)
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, trackerr.ConfigInvalid("read config file", err).
				WithDetail("path", configPath)
		}
		log.Debug("config file not found, using defaults")
	} else {
		log.WithField("file", v.ConfigFileUsed()).Debug("config file loaded")
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, trackerr.ConfigInvalid("decode config", err)
	}

	cfg.DataPath = expandHome(cfg.DataPath, home)
	cfg.History.Path = expandHome(cfg.History.Path, home)
	cfg.LogFile = expandHome(cfg.LogFile, home)

	if cfg.DataPath == "" {
		return nil, trackerr.ConfigInvalid("data_path must not be empty", nil)
	}
	if _, err := logrus.ParseLevel(cfg.LogLevel); err != nil {
		log.Warnf("invalid log_level '%s', defaulting to 'warn'", cfg.LogLevel)
		cfg.LogLevel = "warn"
	}
	if cfg.History.Limit < 1 {
		log.Warn("history.limit too low, setting to 1")
		cfg.History.Limit = 1
	}
	if cfg.History.Enabled && cfg.History.Path == "" {
		log.Warn("history.path is empty, disabling the session journal")
		cfg.History.Enabled = false
	}

	log.WithFields(logrus.Fields{
		"data_path": cfg.DataPath,
		"history":   cfg.History.Enabled,
	}).Debug("configuration loaded")
	return &cfg, nil
}

func expandHome(path, home string) string {
	if path == "~" {
		return home
	}
	if strings.HasPrefix(path, "~/") {
		return filepath.Join(home, path[2:])
	}
	return path
}
