package config

import (
	"time"
)

type Config struct {
	Server     ServerConfig     `yaml:"server"`
	Log        LogConfig        `yaml:"log"`
	Database   DatabaseConfig   `yaml:"database"`
	Redis      RedisConfig      `yaml:"redis"`
	Auth       AuthConfig       `yaml:"auth"`
	Mirror     MirrorConfig     `yaml:"mirror"`
	Web        WebConfig        `yaml:"web"`
	Experience ExperienceConfig `yaml:"experience"`
	GeoIP      GeoIPConfig      `yaml:"geoip"`
}

type ServerConfig struct {
	IP   string `yaml:"ip"`
	Port int    `yaml:"port"`
	Mode string `yaml:"mode"`
}

type LogConfig struct {
	Level string `yaml:"log_level"`
	Dir   string `yaml:"log_dir"`
	File  string `yaml:"log_file"`
}

type DatabaseConfig struct {
	DSN string `yaml:"dsn"`
}

// RedisConfig drives the blocklist lookup cache. Leaving Addr empty
// disables the cache and the access gate reads straight from the database.
type RedisConfig struct {
	Addr     string        `yaml:"addr"`
	Username string        `yaml:"username"`
	Password string        `yaml:"password"`
	DB       int           `yaml:"db"`
	Prefix   string        `yaml:"prefix"`
	TTL      time.Duration `yaml:"ttl"`
}

type AuthConfig struct {
	Secret     string        `yaml:"secret"`
	TokenTTL   time.Duration `yaml:"token_ttl"`
	BcryptCost int           `yaml:"bcrypt_cost"`

	// Seed admin account created on first start. The approved IP must be
	// set, otherwise the access gate rejects every login for the account.
	AdminUsername  string `yaml:"admin_username"`
	AdminPassword  string `yaml:"admin_password"`
	AdminApproveIP string `yaml:"admin_approve_ip"`
}

// MirrorConfig configures the best-effort external login mirror channel.
type MirrorConfig struct {
	Enabled     bool          `yaml:"enabled"`
	URL         string        `yaml:"url"`
	Workers     int           `yaml:"workers"`
	DialTimeout time.Duration `yaml:"dial_timeout"`
}

type WebConfig struct {
	StaticDir string `yaml:"static_dir"`
}

type ExperienceConfig struct {
	MilestoneUnit  int64 `yaml:"milestone_unit"`
	MilestoneBonus int64 `yaml:"milestone_bonus"`
	DailyCap       int64 `yaml:"daily_cap"`
}

type GeoIPConfig struct {
	Endpoint string        `yaml:"endpoint"`
	Timeout  time.Duration `yaml:"timeout"`
}
