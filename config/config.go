package config

import (
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

// DefaultPassThreshold is the score/total ratio at or above which a
// finalized attempt is marked Pass. Overridable via PASS_THRESHOLD.
const DefaultPassThreshold = 0.6

// DefaultReportTimezone is the fixed display time zone for report
// timestamps.
const DefaultReportTimezone = "Asia/Tashkent"

type Config struct {
	Server   Server
	Database Database
	Report   Report

	JWTSecret string

	// PassThreshold is read once at startup; call sites must never inline
	// their own ratio.
	PassThreshold float64
}

type Server struct {
	Port string
}

type Database struct {
	Host     string
	Port     string
	User     string
	Password string
	Name     string
}

type Report struct {
	Dir      string
	Timezone string
}

func NewConfig() (*Config, error) {
	viper.SetConfigName(".env")
	viper.SetConfigType("env")
	viper.AddConfigPath(".")

	viper.AutomaticEnv()

	viper.SetDefault("PASS_THRESHOLD", DefaultPassThreshold)
	viper.SetDefault("REPORT_DIR", "./data/reports")
	viper.SetDefault("REPORT_TIMEZONE", DefaultReportTimezone)

	if err := viper.ReadInConfig(); err != nil {
		log.Warn().Err(err).Msg("Error reading config file")
	}

	var config Config

	config.Server.Port = viper.GetString("SERVER_PORT")
	config.Database.Host = viper.GetString("DATABASE_HOST")
	config.Database.Port = viper.GetString("DATABASE_PORT")
	config.Database.User = viper.GetString("DATABASE_USER")
	config.Database.Password = viper.GetString("DATABASE_PASSWORD")
	config.Database.Name = viper.GetString("DATABASE_NAME")

	config.Report.Dir = viper.GetString("REPORT_DIR")
	config.Report.Timezone = viper.GetString("REPORT_TIMEZONE")
	config.JWTSecret = viper.GetString("JWT_SECRET")
	config.PassThreshold = viper.GetFloat64("PASS_THRESHOLD")

	if config.PassThreshold <= 0 || config.PassThreshold > 1 {
		log.Warn().Float64("pass_threshold", config.PassThreshold).Msg("PASS_THRESHOLD out of (0,1], using default")
		config.PassThreshold = DefaultPassThreshold
	}

	log.Info().Str("port", config.Server.Port).Float64("pass_threshold", config.PassThreshold).Msg("Config loaded")
	return &config, nil
}
