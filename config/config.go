package config

import (
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Database struct {
		Host     string `mapstructure:"host"`
		Port     string `mapstructure:"port"`
		User     string `mapstructure:"user"`
		Password string `mapstructure:"password"`
		Name     string `mapstructure:"name"`
	} `mapstructure:"database"`
	Redis struct {
		Host     string `mapstructure:"host"`
		Port     string `mapstructure:"port"`
		Password string `mapstructure:"password"`
	} `mapstructure:"redis"`
	Server struct {
		Port        string `mapstructure:"port"`
		CORSOrigins string `mapstructure:"cors_origins"`
	} `mapstructure:"server"`
	JWT struct {
		SecretKey              string `mapstructure:"secret_key"`
		Algorithm              string `mapstructure:"algorithm"`
		AccessTokenExpireMin   int    `mapstructure:"access_token_expire_minutes"`
		RefreshTokenExpireDays int    `mapstructure:"refresh_token_expire_days"`
	} `mapstructure:"jwt"`
	Booking struct {
		SlotDurationMinutes      int `mapstructure:"slot_duration_minutes"`
		BusinessStartHour        int `mapstructure:"business_start_hour"`
		BusinessEndHour          int `mapstructure:"business_end_hour"`
		MaxSlotsPerUserPerDay    int `mapstructure:"max_slots_per_user_per_day"`
		AppointmentRetentionDays int `mapstructure:"appointment_retention_days"`
	} `mapstructure:"booking"`
	Google struct {
		ClientID     string `mapstructure:"client_id"`
		ClientSecret string `mapstructure:"client_secret"`
		RedirectURI  string `mapstructure:"redirect_uri"`
	} `mapstructure:"google"`
	SMTP struct {
		Host      string `mapstructure:"host"`
		Port      int    `mapstructure:"port"`
		User      string `mapstructure:"user"`
		Password  string `mapstructure:"password"`
		FromEmail string `mapstructure:"from_email"`
		FromName  string `mapstructure:"from_name"`
	} `mapstructure:"smtp"`
}

// LoadConfig reads config.yml from the given path, with environment variable
// overrides. The returned struct is handed to each component at wiring time;
// nothing reads configuration ambiently after startup.
func LoadConfig(path string) (*Config, error) {
	viper.AddConfigPath(path)
	viper.SetConfigName("config")
	viper.SetConfigType("yml")

	viper.SetDefault("server.port", "8080")
	viper.SetDefault("server.cors_origins", "http://localhost:3000")
	viper.SetDefault("jwt.algorithm", "HS256")
	viper.SetDefault("jwt.access_token_expire_minutes", 15)
	viper.SetDefault("jwt.refresh_token_expire_days", 7)
	viper.SetDefault("booking.slot_duration_minutes", 30)
	viper.SetDefault("booking.business_start_hour", 9)
	viper.SetDefault("booking.business_end_hour", 17)
	viper.SetDefault("booking.max_slots_per_user_per_day", 1)
	viper.SetDefault("booking.appointment_retention_days", 3)
	viper.SetDefault("smtp.port", 587)
	viper.SetDefault("smtp.from_name", "Bookings")

	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		return nil, err
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) AccessTokenTTL() time.Duration {
	return time.Duration(c.JWT.AccessTokenExpireMin) * time.Minute
}

func (c *Config) RefreshTokenTTL() time.Duration {
	return time.Duration(c.JWT.RefreshTokenExpireDays) * 24 * time.Hour
}

func (c *Config) SlotDuration() time.Duration {
	return time.Duration(c.Booking.SlotDurationMinutes) * time.Minute
}

// CORSOriginList splits the configured comma-separated origins.
func (c *Config) CORSOriginList() []string {
	var out []string
	for _, o := range strings.Split(c.Server.CORSOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			out = append(out, o)
		}
	}
	return out
}

// EmailEnabled reports whether the SMTP relay is fully configured. When it
// is not, notification sends become no-ops.
func (c *Config) EmailEnabled() bool {
	return c.SMTP.Host != "" && c.SMTP.User != "" && c.SMTP.Password != "" && c.SMTP.FromEmail != ""
}
