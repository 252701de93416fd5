package providers

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"dlb/internal/structures"
)

func validConfig() *structures.Config {
	return &structures.Config{
		WebServer: structures.Server{
			Host: "0.0.0.0",
			Port: 3000,
		},
		Logger: structures.LoggerConfig{
			Level: "info",
			Mode:  0644,
			Dir:   "/tmp/logs",
		},
		Polling: structures.PollingConfig{
			ScoresInterval:   30 * time.Minute,
			ProfilesInterval: 12 * time.Hour,
			RequestTimeout:   15 * time.Second,
		},
		Leaderboard: structures.LeaderboardConfig{
			Timezone:  "Asia/Ho_Chi_Minh",
			ResetHour: 6,
		},
		Creators: []structures.CreatorConfig{
			{Handle: "alpha.live", ID: "1"},
			{Handle: "bravo.live", ID: "2"},
		},
		Upstream: structures.UpstreamConfig{
			ScrapeBaseURL: "https://www.tiktok.com",
		},
		Avatars: structures.AvatarConfig{
			Dir:          "/tmp/avatars",
			PublicPrefix: "/avatars",
		},
		Persistence: structures.Persistence{
			FilePath:     "/tmp/creators.db",
			SaveInterval: 5 * time.Minute,
		},
	}
}

func TestConfigValidator_ValidConfig(t *testing.T) {
	v := NewCnfValidator(validConfig())
	assert.NoError(t, v.Validate())
}

func TestConfigValidator_EmptyHost(t *testing.T) {
	c := validConfig()
	c.WebServer.Host = ""
	v := NewCnfValidator(c)
	assert.Error(t, v.Validate())
}

func TestConfigValidator_ZeroPort(t *testing.T) {
	c := validConfig()
	c.WebServer.Port = 0
	v := NewCnfValidator(c)
	assert.Error(t, v.Validate())
}

func TestConfigValidator_InvalidLogLevel(t *testing.T) {
	c := validConfig()
	c.Logger.Level = "verbose"
	v := NewCnfValidator(c)
	assert.Error(t, v.Validate())
}

func TestConfigValidator_NoCreators(t *testing.T) {
	c := validConfig()
	c.Creators = nil
	v := NewCnfValidator(c)
	assert.Error(t, v.Validate())
}

func TestConfigValidator_DuplicateCreatorID(t *testing.T) {
	c := validConfig()
	c.Creators = append(c.Creators, structures.CreatorConfig{Handle: "charlie.live", ID: "1"})
	v := NewCnfValidator(c)
	assert.Error(t, v.Validate())
}

func TestConfigValidator_UnknownTimezone(t *testing.T) {
	c := validConfig()
	c.Leaderboard.Timezone = "Mars/Olympus_Mons"
	v := NewCnfValidator(c)
	assert.Error(t, v.Validate())
}

func TestConfigValidator_ResetHourOutOfRange(t *testing.T) {
	c := validConfig()
	c.Leaderboard.ResetHour = 24
	v := NewCnfValidator(c)
	assert.Error(t, v.Validate())
}

func TestConfigValidator_MissingScrapeBaseURL(t *testing.T) {
	c := validConfig()
	c.Upstream.ScrapeBaseURL = ""
	v := NewCnfValidator(c)
	assert.Error(t, v.Validate())
}
