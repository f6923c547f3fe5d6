package config

import (
	"fmt"
	"os"
	"strconv"
)

// Config содержит все настройки приложения Payment Worker Service
type Config struct {
	Database     DatabaseConfig
	Kafka        KafkaConfig
	Payment      PaymentConfig
	CronSchedule CronScheduleConfig
	HTTPPort     string
}

// DatabaseConfig - настройки подключения к PostgreSQL Marketplace Service
// Воркер читает бронирования и пишет платежи в ту же БД
type DatabaseConfig struct {
	Host     string // Хост PostgreSQL
	Port     string // Порт PostgreSQL
	User     string // Имя пользователя БД
	Password string // Пароль БД
	DBName   string // Имя базы данных (marketplace_service)
	SSLMode  string // Режим SSL (disable/require/verify-full)
}

// KafkaConfig - настройки Kafka для подписки на события
// Слушает топик reservation_events для обработки RESERVATION_CONFIRMED
type KafkaConfig struct {
	Brokers  []string // Список брокеров Kafka (формат: host:port)
	Topic    string   // Топик для прослушивания (reservation_events)
	GroupID  string   // ID группы потребителей для распределения нагрузки
	MinBytes int      // Минимум байт для fetch запроса
	MaxBytes int      // Максимум байт для fetch запроса
}

// PaymentConfig - настройки генерации платежей
type PaymentConfig struct {
	DefaultMethod string // Способ оплаты по умолчанию (card)
}

// CronScheduleConfig - настройки расписания cron задач
type CronScheduleConfig struct {
	GeneratePayments string // Расписание батч-генерации платежей
}

// Load загружает конфигурацию из переменных окружения
func Load() (*Config, error) {
	return &Config{
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", "postgres"),
			DBName:   getEnv("DB_NAME", "marketplace_service"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		Kafka: KafkaConfig{
			Brokers:  []string{getEnv("KAFKA_BROKERS", "localhost:9092")},
			Topic:    getEnv("KAFKA_TOPIC", "reservation_events"),
			GroupID:  getEnv("KAFKA_GROUP_ID", "payment-worker-group"),
			MinBytes: getEnvInt("KAFKA_MIN_BYTES", 1),
			MaxBytes: getEnvInt("KAFKA_MAX_BYTES", 10e6),
		},
		Payment: PaymentConfig{
			DefaultMethod: getEnv("PAYMENT_DEFAULT_METHOD", "card"),
		},
		CronSchedule: CronScheduleConfig{
			// По умолчанию прогоняем батч каждые 15 минут
			GeneratePayments: getEnv("CRON_GENERATE_PAYMENTS", "*/15 * * * *"),
		},
		HTTPPort: getEnv("HTTP_PORT", "8085"),
	}, nil
}

// DSN возвращает строку подключения к PostgreSQL в формате libpq
func (c *DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode,
	)
}

// getEnv получает значение переменной окружения или возвращает значение по умолчанию
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt получает значение переменной окружения как int
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}
