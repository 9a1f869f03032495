// Package config предоставляет структуры и функции для загрузки конфигурации.
// Конфигурация читается из YAML-файла (путь в CONFIG_PATH) с переопределением
// из переменных окружения; файл не обязателен.
//
// Отсутствие CLERK_JWKS_URL или OPENAI_API_KEY не является ошибкой загрузки:
// сервис стартует, а зависимая функциональность отключается с предупреждением.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// Config общая структура для хранения настроек сервиса.
type Config struct {
	Env             string `yaml:"env" env:"ENV" env-default:"local"`
	HTTPServer      `yaml:"http_server"`
	Clerk           `yaml:"clerk"`
	OpenAI          `yaml:"openai"`
	RedisConnection `yaml:"redis_connection"`
	RateLimit       `yaml:"rate_limit"`
}

// HTTPServer структура для настройки HTTP-сервера.
type HTTPServer struct {
	Address     string        `yaml:"address" env:"HTTP_ADDRESS" env-default:":8080"`
	Timeout     time.Duration `yaml:"timeout" env:"HTTP_TIMEOUT" env-default:"90s"`
	IdleTimeout time.Duration `yaml:"idle_timeout" env:"HTTP_IDLE_TIMEOUT" env-default:"60s"`
}

// Clerk настройки проверки токенов через JWKS-эндпоинт Clerk.
type Clerk struct {
	JWKSURL string `yaml:"jwks_url" env:"CLERK_JWKS_URL"`
}

// OpenAI настройки клиента модели анализа изображений.
type OpenAI struct {
	APIKey    string        `yaml:"api_key" env:"OPENAI_API_KEY"`
	Model     string        `yaml:"model" env:"OPENAI_MODEL" env-default:"gpt-4o-mini"`
	MaxTokens int           `yaml:"max_tokens" env:"OPENAI_MAX_TOKENS" env-default:"500"`
	Timeout   time.Duration `yaml:"timeout" env:"OPENAI_TIMEOUT" env-default:"60s"`
}

// RedisConnection настройки подключения к Redis. Пустой адрес означает,
// что кеширование результатов анализа отключено.
type RedisConnection struct {
	Addr        string        `yaml:"addr" env:"REDIS_ADDRESS"`
	Password    string        `yaml:"password" env:"REDIS_PASSWORD"`
	User        string        `yaml:"user" env:"REDIS_USER"`
	DB          int           `yaml:"db" env:"REDIS_DB" env-default:"0"`
	DialTimeout time.Duration `yaml:"dial_timeout" env:"REDIS_DIAL_TIMEOUT" env-default:"5s"`
	Timeout     time.Duration `yaml:"timeout" env:"REDIS_TIMEOUT" env-default:"3s"`
}

// RateLimit настройки ограничения частоты запросов.
type RateLimit struct {
	RPS   int `yaml:"rps" env:"RATE_LIMIT_RPS" env-default:"50"`
	Burst int `yaml:"burst" env:"RATE_LIMIT_BURST" env-default:"100"`
}

// Load загружает конфигурацию из файла по указанному пути и окружения.
// При пустом пути используются только переменные окружения.
func Load(configPath string) (*Config, error) {
	var cfg Config
	if configPath == "" {
		if err := cleanenv.ReadEnv(&cfg); err != nil {
			return nil, fmt.Errorf("cannot read config from env: %w", err)
		}
		return &cfg, nil
	}
	if _, err := os.Stat(configPath); err != nil {
		return nil, fmt.Errorf("config file %s: %w", configPath, err)
	}
	if err := cleanenv.ReadConfig(configPath, &cfg); err != nil {
		return nil, fmt.Errorf("cannot read config: %w", err)
	}
	return &cfg, nil
}

// MustLoad загружает конфигурацию по пути из CONFIG_PATH и завершает
// процесс при ошибке чтения.
func MustLoad() *Config {
	cfg, err := Load(os.Getenv("CONFIG_PATH"))
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	return cfg
}
