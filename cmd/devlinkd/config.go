package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/avask/devlink/internal/protocol/session"
)

// ServerConfig is the devlinkd runtime configuration.
type ServerConfig struct {
	ListenAddr  string
	MetricsAddr string
	InLogName   string
	OutLogName  string
	Session     session.Config
}

func DefaultServerConfig() ServerConfig {
	return ServerConfig{
		ListenAddr: ":3883",
		Session:    session.DefaultConfig(),
	}
}

// devlinkd.toml key mapping to runtime settings.
type fileConfig struct {
	Addr          string `toml:"addr"`
	MetricsAddr   string `toml:"metrics_addr"`
	InLog         string `toml:"in_log"`
	OutLog        string `toml:"out_log"`
	MaxBodyBytes  int    `toml:"max_body_bytes"`
	PingInterval  int    `toml:"ping_interval_ms"`
	SilenceWarnMS int    `toml:"silence_warn_ms"`
	ReadTimeoutMS int    `toml:"read_timeout_ms"`
}

// LoadServerConfig reads a TOML config with default overlay: only keys
// present in the file override defaults.
func LoadServerConfig(path string) (ServerConfig, error) {
	cfg := DefaultServerConfig()

	var raw fileConfig
	meta, err := toml.DecodeFile(path, &raw)
	if err != nil {
		return ServerConfig{}, fmt.Errorf("load devlinkd config: %w", err)
	}

	if meta.IsDefined("addr") {
		cfg.ListenAddr = strings.TrimSpace(raw.Addr)
	}
	if meta.IsDefined("metrics_addr") {
		cfg.MetricsAddr = strings.TrimSpace(raw.MetricsAddr)
	}
	if meta.IsDefined("in_log") {
		cfg.InLogName = strings.TrimSpace(raw.InLog)
	}
	if meta.IsDefined("out_log") {
		cfg.OutLogName = strings.TrimSpace(raw.OutLog)
	}
	if meta.IsDefined("max_body_bytes") {
		cfg.Session.MaxBodyBytes = raw.MaxBodyBytes
	}
	if meta.IsDefined("ping_interval_ms") {
		cfg.Session.PingInterval = time.Duration(raw.PingInterval) * time.Millisecond
	}
	if meta.IsDefined("silence_warn_ms") {
		cfg.Session.SilenceWarnAfter = time.Duration(raw.SilenceWarnMS) * time.Millisecond
	}
	if meta.IsDefined("read_timeout_ms") {
		cfg.Session.ReadTimeout = time.Duration(raw.ReadTimeoutMS) * time.Millisecond
	}
	cfg.Session = cfg.Session.WithDefaults()
	return cfg, nil
}
