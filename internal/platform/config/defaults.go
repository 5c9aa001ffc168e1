package config

import "time"

// DefaultConfig returns the baseline configuration that config files and
// environment variables override.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			IP:   "0.0.0.0",
			Port: 8080,
			Mode: "release",
		},
		Log: LogConfig{
			Level: "info",
			Dir:   "data/logs",
			File:  "server.log",
		},
		Database: DatabaseConfig{
			DSN: "data/mega.db",
		},
		Redis: RedisConfig{
			Prefix: "mega:blocked_ip:",
			TTL:    5 * time.Minute,
		},
		Auth: AuthConfig{
			TokenTTL:       10 * time.Hour,
			BcryptCost:     10,
			AdminUsername:  "admin",
			AdminPassword:  "change-me",
			AdminApproveIP: "127.0.0.1",
		},
		Mirror: MirrorConfig{
			Workers:     2,
			DialTimeout: 3 * time.Second,
		},
		Experience: ExperienceConfig{
			MilestoneUnit:  1_000_000,
			MilestoneBonus: 10,
			DailyCap:       5,
		},
		GeoIP: GeoIPConfig{
			Timeout: 2 * time.Second,
		},
	}
}
