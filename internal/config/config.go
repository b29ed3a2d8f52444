package config

import (
	"log"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

type Config struct {
	Env           string `yaml:"env" env:"ENV" env-default:"local"`
	StoragePath   string `yaml:"storage_path" env:"STORAGE_PATH" env-required:"true"`
	RedisAddr     string `yaml:"redis_addr" env:"REDIS_ADDR" env-default:"localhost:6379"`
	HTTPServer    `yaml:"http_server"`
	Calendar      `yaml:"calendar"`
	BusinessHours `yaml:"business_hours"`
}

type HTTPServer struct {
	Address         string        `yaml:"address" env-default:"localhost:8080"`
	Timeout         time.Duration `yaml:"timeout" env-default:"4s"`
	IdleTimeout     time.Duration `yaml:"idle_timeout" env-default:"60s"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" env-default:"15s"`
}

type Calendar struct {
	CredentialsFile string `yaml:"credentials_file" env:"GOOGLE_CREDENTIALS_FILE" env-required:"true"`
	CalendarID      string `yaml:"calendar_id" env:"GOOGLE_CALENDAR_ID" env-required:"true"`
	TimeZone        string `yaml:"time_zone" env-default:"Europe/Prague"`
	LessonDuration  time.Duration `yaml:"lesson_duration" env-default:"60m"`
	RequestTimeout  time.Duration `yaml:"request_timeout" env-default:"10s"`
}

type BusinessHours struct {
	OpenHour  int `yaml:"open_hour" env-default:"9"`
	CloseHour int `yaml:"close_hour" env-default:"17"`
}

func MustLoad() *Config {
	var cfg Config

	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "./config/config.yaml"
	}

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		log.Fatalf("Config file does not exist: %s", configPath)
	}

	if err := cleanenv.ReadConfig(configPath, &cfg); err != nil {
		log.Fatalf("Failed to read config file: %v", err)
	}

	return &cfg
}
