package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

// Config содержит всю конфигурацию приложения
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	JWT      JWTConfig
	Report   ReportConfig
	Kafka    KafkaConfig
	Withdraw WithdrawConfig
	Awards   AwardsConfig
	Logger   LoggerConfig
}

// ServerConfig содержит конфигурацию сервера
type ServerConfig struct {
	HTTPPort string
	GinMode  string
}

// DatabaseConfig содержит конфигурацию базы данных
type DatabaseConfig struct {
	Host            string
	Port            int
	User            string
	Password        string
	DBName          string
	SSLMode         string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

// JWTConfig содержит конфигурацию JWT
type JWTConfig struct {
	Secret     string
	Expiration time.Duration
}

// ReportConfig содержит конфигурацию клиента генератора отчетов (Gemini)
type ReportConfig struct {
	BaseURL         string
	APIKey          string
	Model           string
	Timeout         time.Duration
	RetryCount      int
	RetryWait       time.Duration
	CacheTTL        time.Duration
	RefreshInterval time.Duration
}

// KafkaConfig содержит конфигурацию Kafka
type KafkaConfig struct {
	Brokers           []string
	Topic             string
	WithdrawThreshold float64
}

// WithdrawConfig содержит политику обработки заявок на вывод
type WithdrawConfig struct {
	// RefundOnDeny включает компенсирующий возврат coins при отклонении заявки.
	// Исторически портал средства не возвращал, поэтому по умолчанию выключено.
	RefundOnDeny bool
}

// AwardsConfig содержит размеры еженедельных призов подиума
type AwardsConfig struct {
	PrizeTop1 float64
	PrizeTop2 float64
	PrizeTop3 float64
}

// LoggerConfig содержит конфигурацию логгера
type LoggerConfig struct {
	Level string
}

// Load загружает конфигурацию из файла окружения
func Load(configPath string) (*Config, error) {
	// Загрузка переменных окружения из файла
	if configPath != "" {
		if err := godotenv.Load(configPath); err != nil {
			return nil, fmt.Errorf("failed to load config file: %w", err)
		}
	}

	cfg := &Config{}

	// Server
	cfg.Server.HTTPPort = getEnv("HTTP_PORT", DefaultHTTPPort)
	cfg.Server.GinMode = getEnv("GIN_MODE", DefaultGinMode)

	// Database
	cfg.Database.Host = getEnv("DB_HOST", DefaultDBHost)
	cfg.Database.Port = getEnvInt("DB_PORT", DefaultDBPort)
	cfg.Database.User = getEnv("DB_USER", DefaultDBUser)
	cfg.Database.Password = getEnv("DB_PASSWORD", DefaultDBPassword)
	cfg.Database.DBName = getEnv("DB_NAME", DefaultDBName)
	cfg.Database.SSLMode = getEnv("DB_SSLMODE", DefaultDBSSLMode)
	cfg.Database.MaxOpenConns = getEnvInt("DB_MAX_OPEN_CONNS", DefaultDBMaxOpenConns)
	cfg.Database.MaxIdleConns = getEnvInt("DB_MAX_IDLE_CONNS", DefaultDBMaxIdleConns)
	cfg.Database.ConnMaxLifetime = getEnvDuration("DB_CONN_MAX_LIFETIME", DefaultDBConnMaxLifetime)

	// JWT
	cfg.JWT.Secret = getEnv("JWT_SECRET", DefaultJWTSecret)
	cfg.JWT.Expiration = getEnvDuration("JWT_EXPIRATION", DefaultJWTExpiration)

	// Report generator
	cfg.Report.BaseURL = getEnv("REPORT_BASE_URL", DefaultReportBaseURL)
	cfg.Report.APIKey = getEnv("REPORT_API_KEY", "")
	cfg.Report.Model = getEnv("REPORT_MODEL", DefaultReportModel)
	cfg.Report.Timeout = getEnvDuration("REPORT_TIMEOUT", DefaultReportTimeout)
	cfg.Report.RetryCount = getEnvInt("REPORT_RETRY_COUNT", DefaultReportRetryCount)
	cfg.Report.RetryWait = getEnvDuration("REPORT_RETRY_WAIT", DefaultReportRetryWait)
	cfg.Report.CacheTTL = getEnvDuration("REPORT_CACHE_TTL", DefaultReportCacheTTL)
	cfg.Report.RefreshInterval = getEnvDuration("REPORT_REFRESH_INTERVAL", DefaultReportRefreshInterval)

	// Kafka
	brokers := getEnv("KAFKA_BROKERS", DefaultKafkaBrokers)
	cfg.Kafka.Brokers = strings.Split(brokers, ",")
	cfg.Kafka.Topic = getEnv("KAFKA_TOPIC", DefaultKafkaTopic)
	cfg.Kafka.WithdrawThreshold = getEnvFloat("KAFKA_WITHDRAW_THRESHOLD", DefaultKafkaWithdrawThreshold)

	// Withdraw policy
	cfg.Withdraw.RefundOnDeny = getEnvBool("WITHDRAW_REFUND_ON_DENY", DefaultWithdrawRefundOnDeny)

	// Weekly awards
	cfg.Awards.PrizeTop1 = getEnvFloat("AWARD_PRIZE_TOP1", DefaultAwardPrizeTop1)
	cfg.Awards.PrizeTop2 = getEnvFloat("AWARD_PRIZE_TOP2", DefaultAwardPrizeTop2)
	cfg.Awards.PrizeTop3 = getEnvFloat("AWARD_PRIZE_TOP3", DefaultAwardPrizeTop3)

	// Logger
	cfg.Logger.Level = getEnv("LOG_LEVEL", DefaultLogLevel)

	return cfg, nil
}

// getEnv получает переменную окружения или возвращает значение по умолчанию
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt получает целочисленную переменную окружения
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

// getEnvFloat получает переменную окружения типа float64
func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}

// getEnvBool получает булеву переменную окружения
func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

// getEnvDuration получает переменную окружения типа duration
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

// Validate проверяет корректность конфигурации
func (c *Config) Validate() error {
	if c.Server.HTTPPort == "" {
		return fmt.Errorf("HTTP_PORT is required")
	}

	if c.Database.Host == "" {
		return fmt.Errorf("DB_HOST is required")
	}

	if c.JWT.Secret == "" || c.JWT.Secret == DefaultJWTSecret {
		return fmt.Errorf("JWT_SECRET must be set to a secure value")
	}

	if c.Report.Timeout <= 0 {
		return fmt.Errorf("REPORT_TIMEOUT must be positive")
	}

	if _, err := logrus.ParseLevel(c.Logger.Level); err != nil {
		return fmt.Errorf("invalid log level: %s", c.Logger.Level)
	}

	return nil
}
