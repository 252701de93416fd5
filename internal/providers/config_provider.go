package providers

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"dlb/internal/structures"
)

func NewConfigProvider(flags *structures.CliFlags) (*structures.Config, error) {
	var conf structures.Config

	filename := filepath.Base(flags.ConfigPath)
	viper.AddConfigPath(filepath.Dir(flags.ConfigPath))
	viper.SetConfigName(strings.TrimSuffix(filename, filepath.Ext(filename)))
	viper.SetConfigType("yaml")

	viper.BindEnv("logger.level", "DLB_LOG_LEVEL")
	viper.BindEnv("leaderboard.resetHour", "DLB_RESET_HOUR")
	viper.BindEnv("polling.scoresInterval", "DLB_SCORES_INTERVAL")
	viper.BindEnv("polling.profilesInterval", "DLB_PROFILES_INTERVAL")
	viper.BindEnv("upstream.cookie", "DLB_UPSTREAM_COOKIE")
	viper.BindEnv("upstream.scrapeSessionId", "DLB_SCRAPE_SESSION_ID")
	viper.BindEnv("cache.enabled", "DLB_CACHE_ENABLED")
	viper.BindEnv("cache.size", "DLB_CACHE_SIZE")

	err := viper.ReadInConfig()
	if err != nil {
		return nil, err
	}

	err = viper.Unmarshal(&conf)
	if err != nil {
		return nil, fmt.Errorf("unable to decode into config struct: %w", err)
	}

	cnfValidator := NewCnfValidator(&conf)
	err = cnfValidator.Validate()
	if err != nil {
		return nil, err
	}

	conf.AppName = "DiamondLeaderboard"
	conf.Path = flags.ConfigPath
	conf.Debug = flags.DebugMode

	return &conf, nil
}
