// Package config предоставляет структуры и функцию для загрузки настроек
// бота из переменных окружения.
package config

import (
	"log"
	"time"

	"github.com/go-playground/validator"
	"github.com/ilyakaznacheev/cleanenv"
)

// Config общая структура для хранения настроек воркера.
// BotToken, AdminID и StorageConnectionString обязательны: без них
// процесс не запускается.
type Config struct {
	Env                     string `env:"ENV" env-default:"prod"`
	BotToken                string `env:"BOT_TOKEN" validate:"required"`
	AdminID                 int64  `env:"ADMIN_ID" validate:"required"`
	StorageConnectionString string `env:"STORAGE_CONNECTION_STRING" validate:"required"`
	// GroupID можно задать заранее; 0 — бот запомнит группу,
	// когда его туда добавят.
	GroupID        int64         `env:"GROUP_ID" env-default:"0"`
	MigrationsPath string        `env:"MIGRATIONS_PATH" env-default:"./migrations"`
	HealthAddress  string        `env:"HEALTH_ADDRESS" env-default:":8081"`
	RabbitMQURL    string        `env:"RABBITMQ_URL"`
	MuteDuration   time.Duration `env:"MUTE_DURATION" env-default:"24h"`
	// ReminderInterval период напоминания о правилах группы.
	ReminderInterval time.Duration `env:"REMINDER_INTERVAL" env-default:"6h"`
	RedisConnection  RedisConnection
}

// RedisConnection структура для настройки подключения к redis.
// Пустой адрес отключает кэширование.
type RedisConnection struct {
	Addr        string        `env:"REDIS_ADDRESS"`
	Password    string        `env:"REDIS_PASSWORD"`
	User        string        `env:"REDIS_USER"`
	DB          int           `env:"REDIS_DB" env-default:"0"`
	MaxRetries  int           `env:"REDIS_MAX_RETRIES" env-default:"3"`
	DialTimeout time.Duration `env:"REDIS_DIAL_TIMEOUT" env-default:"5s"`
	Timeout     time.Duration `env:"REDIS_TIMEOUT" env-default:"3s"`
}

// MustLoad загружает конфиг из окружения.
// При отсутствии обязательных переменных логирует и завершает процесс:
// запуск без учётных данных не имеет смысла.
func MustLoad() *Config {
	var cfg Config
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		log.Fatalf("cannot read config from environment: %s", err)
	}
	if err := validator.New().Struct(cfg); err != nil {
		log.Fatalf("invalid config: %s", err)
	}
	return &cfg
}
