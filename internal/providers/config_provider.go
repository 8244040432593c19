package providers

import (
	"fmt"
	"github.com/spf13/viper"
	"path/filepath"
	"strings"

	"codeboard/internal/structures"
)

func NewConfigProvider(flags *structures.CliFlags) (*structures.Config, error) {
	var conf structures.Config

	filename := filepath.Base(flags.ConfigPath)
	viper.AddConfigPath(filepath.Dir(flags.ConfigPath))
	viper.SetConfigName(strings.TrimSuffix(filename, filepath.Ext(filename)))
	viper.SetConfigType("yaml")

	viper.BindEnv("logger.level", "CODEBOARD_LOG_LEVEL")
	viper.BindEnv("database.url", "CODEBOARD_DB_URL")
	viper.BindEnv("cache.enabled", "CODEBOARD_CACHE_ENABLED")
	viper.BindEnv("cache.size", "CODEBOARD_CACHE_SIZE")
	viper.BindEnv("upstream.github.token", "CODEBOARD_GITHUB_TOKEN")
	viper.BindEnv("upstream.leetcode.session", "CODEBOARD_LEETCODE_SESSION")
	viper.BindEnv("upstream.leetcode.csrfToken", "CODEBOARD_LEETCODE_CSRF")

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

	conf.AppName = "CodeBoard"
	conf.Path = flags.ConfigPath
	conf.Debug = flags.DebugMode

	return &conf, nil
}
