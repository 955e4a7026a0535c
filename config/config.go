// Package config loads application configuration from file and environment.
//
// Configuration is read from a YAML file (default search paths: working
// directory, /etc/members, $HOME/.members) with environment variables taking
// precedence using the MEMBERS_ prefix, e.g. MEMBERS_SERVER_PORT=8080.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"
	loggerConfig "github.com/ncobase/ncore/logging/logger/config"
	"github.com/spf13/viper"
)

var (
	config *Config
	mu     sync.Mutex
	v      = viper.New()
)

// Config represents the configuration implementation.
type Config struct {
	AppName string
	RunMode string
	Host    string
	Port    int
	Domain  string
	Logger  *loggerConfig.Config
	Data    *Data
	Session *Session
	Viper   *viper.Viper
}

// IsProd returns whether the application runs in release mode.
func (c *Config) IsProd() bool {
	return c.RunMode == "release" || c.RunMode == "prod"
}

// Addr returns the listen address.
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// LoadConfig loads the configuration from the file.
func LoadConfig(configPath string) (*Config, error) {
	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		ex, err := os.Executable()
		if err != nil {
			return nil, fmt.Errorf("failed to get executable path: %w", err)
		}
		v.SetConfigName("config")
		v.AddConfigPath("/etc/members")
		v.AddConfigPath("$HOME/.members")
		v.AddConfigPath(".")
		v.AddConfigPath(filepath.Dir(ex))
	}

	v.SetEnvPrefix("members")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := &Config{
		AppName: v.GetString("app_name"),
		RunMode: v.GetString("run_mode"),
		Host:    v.GetString("server.host"),
		Port:    v.GetInt("server.port"),
		Domain:  v.GetString("server.domain"),
		Logger:  loggerConfig.GetConfig(v),
		Data:    getDataConfig(v),
		Session: getSessionConfig(v),
		Viper:   v,
	}

	mu.Lock()
	config = cfg
	mu.Unlock()

	return cfg, nil
}

// Reload reloads the configuration from the file.
func Reload() (*Config, error) {
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to reload config: %w", err)
	}
	return LoadConfig(v.ConfigFileUsed())
}

// Watch watches the configuration file and reloads it when it changes.
func Watch(callback func(*Config)) {
	v.WatchConfig()
	v.OnConfigChange(func(e fsnotify.Event) {
		cfg, err := Reload()
		if err != nil {
			fmt.Printf("Error reloading config: %v\n", err)
			return
		}
		callback(cfg)
	})
}
