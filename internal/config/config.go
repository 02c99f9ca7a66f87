// Package config предоставляет структуры и функции для загрузки конфигурации сервиса.
//
// Конфигурация читается один раз при старте из YAML-файла (путь в CONFIG_PATH),
// секреты и адреса могут быть переопределены переменными окружения.
package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"regexp"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// Config общая структура для хранения настроек.
type Config struct {
	Env                     string    `yaml:"env" env:"ENV" env-default:"local"`
	StorageConnectionString string    `yaml:"storage_connection_string" env:"DATABASE_URL" env-required:"true"`
	DBSchema                string    `yaml:"db_schema" env:"MAIN_DB_SCHEMA" env-default:"public"`
	MigrationsPath          string    `yaml:"migrations_path" env:"MIGRATIONS_PATH" env-default:"./migrations"`
	Personas                []Persona `yaml:"personas"`
	RedisConnection         `yaml:"redis_connection"`
	HTTPServer              `yaml:"http_server"`
	JWTToken                `yaml:"jwttoken"`
	LLM                     `yaml:"llm"`
	RabbitMQ                `yaml:"rabbitmq"`
	RateLimit               `yaml:"rate_limit"`
	Scheduler               `yaml:"scheduler"`
}

// HTTPServer структура для настройки сервера.
type HTTPServer struct {
	AddressHTTP string        `yaml:"addresshttp" env:"HTTP_ADDR" env-default:":8080"`
	TimeoutHTTP time.Duration `yaml:"timeouthttp" env-default:"40s"`
	IdleTimeout time.Duration `yaml:"idle_timeout" env-default:"60s"`
}

// RedisConnection структура для настройки подключения к redis.
type RedisConnection struct {
	AddressRedis  string        `yaml:"addressredis" env:"REDIS_ADDR" env-default:"localhost:6379"`
	PasswordRedis string        `yaml:"password" env:"REDIS_PASSWORD"`
	UserRedis     string        `yaml:"user"`
	DB            int           `yaml:"db"`
	MaxRetries    int           `yaml:"max_retries" env-default:"3"`
	DialTimeout   time.Duration `yaml:"dial_timeout" env-default:"5s"`
	TimeoutRedis  time.Duration `yaml:"timeoutredis" env-default:"3s"`
	CacheTTL      time.Duration `yaml:"cache_ttl" env-default:"10m"`
}

// JWTToken структура для работы с токенами доступа.
type JWTToken struct {
	JWTSecretKey string        `yaml:"jwt_secret_key" env:"JWT_SECRET" env-required:"true"`
	TokenTTL     time.Duration `yaml:"token_ttl" env-default:"168h"`
}

// LLM настройки обращения к API языковых моделей.
type LLM struct {
	BaseURL          string        `yaml:"base_url" env:"LLM_BASE_URL" env-default:"https://api.aitunnel.ru/v1"`
	APIKey           string        `yaml:"api_key" env:"AITUNNEL_API_KEY" env-required:"true"`
	PrimaryModel     string        `yaml:"primary_model" env-default:"meta-llama/llama-3.3-70b-instruct"`
	FallbackModel    string        `yaml:"fallback_model" env-default:"deepseek/deepseek-chat"`
	Temperature      float32       `yaml:"temperature" env-default:"0.9"`
	MaxTokens        int           `yaml:"max_tokens" env-default:"150"`
	RequestTimeout   time.Duration `yaml:"request_timeout" env-default:"15s"`
	BreakerThreshold uint32        `yaml:"breaker_threshold" env-default:"5"`
	BreakerTimeout   time.Duration `yaml:"breaker_timeout" env-default:"30s"`
}

// RabbitMQ настройки публикации событий о подписках. Пустой URL отключает публикацию.
type RabbitMQ struct {
	URL            string        `yaml:"url" env:"RABBITMQ_URL"`
	Exchange       string        `yaml:"exchange" env-default:"subscriptions"`
	ConnectRetries int           `yaml:"connect_retries" env-default:"5"`
	RetryDelay     time.Duration `yaml:"retry_delay" env-default:"2s"`
}

// RateLimit ограничение частоты отправки сообщений одним пользователем.
type RateLimit struct {
	ChatRPS   float64 `yaml:"chat_rps" env-default:"1"`
	ChatBurst int     `yaml:"chat_burst" env-default:"3"`
}

// Scheduler настройки напоминаний об окончании подписки.
// Нулевой интервал отключает планировщик.
type Scheduler struct {
	ExpiryCheckInterval time.Duration `yaml:"expiry_check_interval" env-default:"10m"`
	ExpiryNoticeWindow  time.Duration `yaml:"expiry_notice_window" env-default:"1h"`
}

// PersonaCount число персонажей; их id занимают диапазон 1..PersonaCount.
const PersonaCount = 4

// Persona переопределение персонажа из конфигурации.
type Persona struct {
	ID     int    `yaml:"id"`
	Name   string `yaml:"name"`
	Prompt string `yaml:"prompt"`
}

var schemaNameRe = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]{0,62}$`)

// Load читает конфиг из файла path и переменных окружения и проверяет его.
func Load(path string) (*Config, error) {
	const op = "config.Load"

	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	var cfg Config
	if err := cleanenv.ReadConfig(path, &cfg); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &cfg, nil
}

// MustLoad загружает конфиг по пути из CONFIG_PATH и завершает процесс при ошибке.
func MustLoad() *Config {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		log.Fatal("CONFIG_PATH is not set")
	}
	cfg, err := Load(configPath)
	if err != nil {
		log.Fatalf("cannot read config: %s", err)
	}
	return cfg
}

// Validate проверяет значения, которые нельзя выразить тегами cleanenv.
func (c *Config) Validate() error {
	if !schemaNameRe.MatchString(c.DBSchema) {
		return fmt.Errorf("invalid db_schema %q", c.DBSchema)
	}
	if c.JWTSecretKey == "" {
		return errors.New("jwt_secret_key is empty")
	}
	if c.TokenTTL <= 0 {
		return errors.New("token_ttl must be positive")
	}
	if c.MaxTokens <= 0 {
		return errors.New("llm max_tokens must be positive")
	}
	if c.ExpiryCheckInterval < 0 || c.ExpiryNoticeWindow < 0 {
		return errors.New("scheduler durations must not be negative")
	}
	for _, p := range c.Personas {
		if p.ID < 1 || p.ID > PersonaCount {
			return fmt.Errorf("persona %q: id must be between 1 and %d", p.Name, PersonaCount)
		}
	}
	return nil
}

func (c *Config) String() string {
	return fmt.Sprintf(
		"Env: %s\n"+
			"DBSchema: %s\n"+
			"RedisConnection:\n"+
			"  Addr: %s\n"+
			"  DB: %d\n"+
			"  CacheTTL: %s\n"+
			"HTTPServer:\n"+
			"  Address: %s\n"+
			"  Timeout: %s\n"+
			"  IdleTimeout: %s\n"+
			"JWTToken:\n"+
			"  JWTSecretKey: %s\n"+
			"  TokenTTL: %s\n"+
			"LLM:\n"+
			"  BaseURL: %s\n"+
			"  PrimaryModel: %s\n"+
			"  FallbackModel: %s\n"+
			"  APIKey: %s\n",
		c.Env,
		c.DBSchema,
		c.AddressRedis,
		c.DB,
		c.CacheTTL,
		c.AddressHTTP,
		c.TimeoutHTTP,
		c.IdleTimeout,
		mask(c.JWTSecretKey),
		c.TokenTTL,
		c.BaseURL,
		c.PrimaryModel,
		c.FallbackModel,
		mask(c.APIKey),
	)
}

func mask(secret string) string {
	if secret == "" {
		return ""
	}
	return "***"
}
