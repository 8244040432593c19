package structures

import "time"

type Server struct {
	Host string `yaml:"host" validate:"required"`
	Port int    `yaml:"port" validate:"required|uint|min:1"`
}

type DatabaseConfig struct {
	URL      string `yaml:"url" validate:"required"`
	MaxConns int32  `yaml:"maxConns"`
}

type LoggerConfig struct {
	Level string `yaml:"level" validate:"required|in:trace,debug,info,warn,error,fatal,panic"`
	Mode  uint32 `yaml:"mode" validate:"required|uint"`
	Dir   string `yaml:"dir" validate:"required|unixPath"`
}

type CacheConfig struct {
	Enabled bool          `yaml:"enabled"`
	Size    int           `yaml:"size"`
	TTL     time.Duration `yaml:"ttl"`
}

type MetricsConfig struct {
	Enabled bool `yaml:"enabled"`
}

type LeetCodeConfig struct {
	Session   string `yaml:"session"`
	CSRFToken string `yaml:"csrfToken"`
}

type GitHubConfig struct {
	Token string `yaml:"token"`
}

type UpstreamConfig struct {
	FetchTimeout time.Duration  `yaml:"fetchTimeout" validate:"required|min:1"`
	LeetCode     LeetCodeConfig `yaml:"leetcode"`
	GitHub       GitHubConfig   `yaml:"github"`
}

type BackupConfig struct {
	Enabled  bool          `yaml:"enabled"`
	FilePath string        `yaml:"filePath"`
	Interval time.Duration `yaml:"interval"`
}

type CleanupConfig struct {
	Enabled  bool          `yaml:"enabled"`
	MaxAge   time.Duration `yaml:"maxAge"`
	Interval time.Duration `yaml:"interval"`
}

type Config struct {
	AppName   string
	Debug     bool
	Path      string
	WebServer Server         `yaml:"webServer"`
	Database  DatabaseConfig `yaml:"database"`
	Logger    LoggerConfig   `yaml:"logger"`
	Cache     CacheConfig    `yaml:"cache"`
	Metrics   MetricsConfig  `yaml:"metrics"`
	Upstream  UpstreamConfig `yaml:"upstream"`
	Backup    BackupConfig   `yaml:"backup"`
	Cleanup   CleanupConfig  `yaml:"cleanup"`
}
