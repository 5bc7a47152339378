package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/hupe1980/teammesh/message"
	"github.com/hupe1980/teammesh/role"
)

// fileConfig maps config.toml keys onto Config fields. Durations are plain
// milliseconds so files stay unit-free.
type fileConfig struct {
	QueueCapacity      int                 `toml:"queue_capacity"`
	HistoryLimit       int                 `toml:"history_limit"`
	RecentDefault      int                 `toml:"recent_default"`
	DeliveryIntervalMS int                 `toml:"delivery_interval_ms"`
	ErrorBackoffMS     int                 `toml:"error_backoff_ms"`
	CleanupEveryCycles int                 `toml:"cleanup_every_cycles"`
	Routes             []fileRoute         `toml:"route"`
	DefaultRoutes      map[string][]string `toml:"default_routes"`
}

type fileRoute struct {
	Source      string `toml:"source"`
	Destination string `toml:"destination"`
	MessageType string `toml:"message_type"`
}

// LoadFile reads a TOML overlay over Default(): only keys present in the
// file override the baseline. Unknown roles or message types in routing
// entries are rejected so a typo cannot silently drop traffic.
func LoadFile(path string) (Config, error) {
	cfg := Default()

	var raw fileConfig
	meta, err := toml.DecodeFile(path, &raw)
	if err != nil {
		return Config{}, fmt.Errorf("load teammesh config: %w", err)
	}

	if meta.IsDefined("queue_capacity") {
		if raw.QueueCapacity <= 0 {
			return Config{}, fmt.Errorf("queue_capacity must be positive, got %d", raw.QueueCapacity)
		}
		cfg.QueueCapacity = raw.QueueCapacity
	}
	if meta.IsDefined("history_limit") {
		if raw.HistoryLimit <= 0 {
			return Config{}, fmt.Errorf("history_limit must be positive, got %d", raw.HistoryLimit)
		}
		cfg.HistoryLimit = raw.HistoryLimit
	}
	if meta.IsDefined("recent_default") {
		cfg.RecentDefault = raw.RecentDefault
	}
	if meta.IsDefined("delivery_interval_ms") {
		cfg.DeliveryInterval = time.Duration(raw.DeliveryIntervalMS) * time.Millisecond
	}
	if meta.IsDefined("error_backoff_ms") {
		cfg.ErrorBackoff = time.Duration(raw.ErrorBackoffMS) * time.Millisecond
	}
	if meta.IsDefined("cleanup_every_cycles") {
		cfg.CleanupEveryCycles = raw.CleanupEveryCycles
	}

	if meta.IsDefined("default_routes") {
		routes := make(map[message.Type][]role.AgentRole, len(raw.DefaultRoutes))
		for typeName, roleNames := range raw.DefaultRoutes {
			t := message.Type(strings.TrimSpace(typeName))
			if !t.Valid() {
				return Config{}, fmt.Errorf("default_routes: unknown message type %q", typeName)
			}
			dests := make([]role.AgentRole, 0, len(roleNames))
			for _, name := range roleNames {
				r := role.AgentRole(strings.TrimSpace(name))
				if !r.Valid() {
					return Config{}, fmt.Errorf("default_routes.%s: unknown role %q", typeName, name)
				}
				dests = append(dests, r)
			}
			routes[t] = dests
		}
		cfg.DefaultRoutes = routes
	}

	for i, fr := range raw.Routes {
		src := role.AgentRole(strings.TrimSpace(fr.Source))
		dst := role.AgentRole(strings.TrimSpace(fr.Destination))
		mt := message.Type(strings.TrimSpace(fr.MessageType))
		if !src.Valid() {
			return Config{}, fmt.Errorf("route[%d]: unknown source role %q", i, fr.Source)
		}
		if !dst.Valid() {
			return Config{}, fmt.Errorf("route[%d]: unknown destination role %q", i, fr.Destination)
		}
		if !mt.Valid() {
			return Config{}, fmt.Errorf("route[%d]: unknown message type %q", i, fr.MessageType)
		}
		cfg.CustomRoutes = append(cfg.CustomRoutes, Route{
			Source:      src,
			Destination: dst,
			MessageType: mt,
		})
	}

	return cfg, nil
}
