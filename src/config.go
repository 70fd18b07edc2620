package src

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"blinkdb/src/log"
)

var Config = DefaultConfig()

type ServerConfig struct {
	Port            int            `yaml:"port"`
	Bind            string         `yaml:"bind"`
	Dir             string         `yaml:"dir"`
	Filename        string         `yaml:"filename"`
	RDBFilename     string         `yaml:"rdbfilename"`
	CacheSize       int            `yaml:"cache-size"`
	BloomFilterSize int            `yaml:"bloom-filter-size"`
	BloomHashes     int            `yaml:"bloom-hashes"`
	MaxClients      int            `yaml:"maxclients"`
	MetricsAddr     string         `yaml:"metrics-addr"`
	StatsCron       string         `yaml:"stats-cron"`
	SaveCron        string         `yaml:"save-cron"`
	Logs            *log.LogConfig `yaml:"logs"`
}

func DefaultConfig() *ServerConfig {
	return &ServerConfig{
		Port:            DefaultPort,
		Dir:             "data",
		Filename:        DefaultFilename,
		CacheSize:       DefaultCacheSize,
		BloomFilterSize: DefaultBloomFilterSize,
		BloomHashes:     DefaultBloomHashes,
		MaxClients:      DefaultMaxClients,
		StatsCron:       "@every 60s",
		Logs:            &log.LogConfig{DefaultLevel: "info"},
	}
}

// LoadConfig decodes the yaml file at path over the defaults. A missing file
// leaves the defaults in place.
func (config *ServerConfig) LoadConfig(path string) error {
	yamlFile, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("open config file %s: %w", path, err)
	}
	if err := yaml.Unmarshal(yamlFile, config); err != nil {
		return fmt.Errorf("read config file %s: %w", path, err)
	}
	if config.Logs == nil {
		config.Logs = &log.LogConfig{DefaultLevel: "info"}
	}
	return nil
}

func (config *ServerConfig) Validate() error {
	if config.Port < 0 || config.Port > 65535 {
		return fmt.Errorf("invalid port %d", config.Port)
	}
	if config.CacheSize < 1 {
		return fmt.Errorf("cache-size must be at least 1, got %d", config.CacheSize)
	}
	if config.BloomFilterSize < 1 {
		return fmt.Errorf("bloom-filter-size must be at least 1, got %d", config.BloomFilterSize)
	}
	if config.BloomHashes < 1 {
		return fmt.Errorf("bloom-hashes must be at least 1, got %d", config.BloomHashes)
	}
	if config.MaxClients < 1 {
		return fmt.Errorf("maxclients must be at least 1, got %d", config.MaxClients)
	}
	return nil
}

func (config *ServerConfig) ListenAddr() string {
	return config.Bind + ":" + strconv.Itoa(config.Port)
}

// ApplyOverrides copies explicitly set flags or BLINKDB_* environment values
// from v over the file configuration.
func (config *ServerConfig) ApplyOverrides(v *viper.Viper) {
	if v.IsSet("port") {
		config.Port = v.GetInt("port")
	}
	if v.IsSet("dir") {
		config.Dir = v.GetString("dir")
	}
	if v.IsSet("cache-size") {
		config.CacheSize = v.GetInt("cache-size")
	}
	if v.IsSet("bloom-filter-size") {
		config.BloomFilterSize = v.GetInt("bloom-filter-size")
	}
	if v.IsSet("log-level") {
		if config.Logs == nil {
			config.Logs = &log.LogConfig{}
		}
		config.Logs.DefaultLevel = v.GetString("log-level")
	}
}
