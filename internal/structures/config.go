package structures

import "time"

type Server struct {
	Host string `yaml:"host" validate:"required"`
	Port int    `yaml:"port" validate:"required|uint|min:1"`
}

type LoggerConfig struct {
	Level string `yaml:"level" validate:"required|in:trace,debug,info,warn,error,fatal,panic"`
	Mode  uint32 `yaml:"mode" validate:"required|uint"`
	Dir   string `yaml:"dir" validate:"required|unixPath"`
}

type PollingConfig struct {
	ScoresInterval   time.Duration `yaml:"scoresInterval" validate:"required|min:1"`
	ProfilesInterval time.Duration `yaml:"profilesInterval" validate:"required|min:1"`
	ScrapePause      time.Duration `yaml:"scrapePause"`
	RequestTimeout   time.Duration `yaml:"requestTimeout" validate:"required|min:1"`
}

type LeaderboardConfig struct {
	Timezone  string `yaml:"timezone" validate:"required"`
	ResetHour int    `yaml:"resetHour" validate:"min:0|max:23"`
}

type CreatorConfig struct {
	Handle   string   `yaml:"handle" validate:"required"`
	ID       string   `yaml:"id" validate:"required"`
	Name     string   `yaml:"name"`
	PageURLs []string `yaml:"pageUrls"`
}

type UpstreamConfig struct {
	LiveRoomURL     string            `yaml:"liveRoomUrl"`
	Headers         map[string]string `yaml:"headers"`
	Cookie          string            `yaml:"cookie"`
	ScrapeBaseURL   string            `yaml:"scrapeBaseUrl" validate:"required|fullUrl"`
	ScrapeSessionID string            `yaml:"scrapeSessionId"`
}

type AvatarConfig struct {
	Dir          string `yaml:"dir" validate:"required|unixPath"`
	PublicPrefix string `yaml:"publicPrefix" validate:"required"`
}

type BreakerConfig struct {
	FailureThreshold    int           `yaml:"failureThreshold"`
	OpenTimeout         time.Duration `yaml:"openTimeout"`
	HalfOpenMaxRequests int           `yaml:"halfOpenMaxRequests"`
}

type Persistence struct {
	FilePath     string        `yaml:"filePath" validate:"required|unixPath"`
	SaveInterval time.Duration `yaml:"saveInterval" validate:"required|min:1"`
}

type CacheConfig struct {
	Enabled bool          `yaml:"enabled"`
	Size    int           `yaml:"size"`
	TTL     time.Duration `yaml:"ttl"`
}

type MetricsConfig struct {
	Enabled bool `yaml:"enabled"`
}

type Config struct {
	AppName     string
	Debug       bool
	Path        string
	WebServer   Server            `yaml:"webServer"`
	Logger      LoggerConfig      `yaml:"logger"`
	Polling     PollingConfig     `yaml:"polling"`
	Leaderboard LeaderboardConfig `yaml:"leaderboard"`
	Creators    []CreatorConfig   `yaml:"creators" validate:"required"`
	Upstream    UpstreamConfig    `yaml:"upstream"`
	Avatars     AvatarConfig      `yaml:"avatars"`
	Breaker     BreakerConfig     `yaml:"breaker"`
	Persistence Persistence       `yaml:"persistence"`
	Cache       CacheConfig       `yaml:"cache"`
	Metrics     MetricsConfig     `yaml:"metrics"`
}
