package config

import "time"

// Server defaults
const (
	DefaultHTTPPort = "8080"
	DefaultGinMode  = "release"
	DefaultLogLevel = "info"
)

// Database defaults
const (
	DefaultDBHost            = "localhost"
	DefaultDBPort            = 5432
	DefaultDBUser            = "portal_user"
	DefaultDBPassword        = "portal_password"
	DefaultDBName            = "portal_db"
	DefaultDBSSLMode         = "disable"
	DefaultDBMaxOpenConns    = 25
	DefaultDBMaxIdleConns    = 5
	DefaultDBConnMaxLifetime = 5 * time.Minute
)

// JWT defaults
const (
	DefaultJWTSecret     = "change-me-in-production"
	DefaultJWTExpiration = 24 * time.Hour
)

// Report generator defaults
const (
	DefaultReportBaseURL         = "https://generativelanguage.googleapis.com"
	DefaultReportModel           = "gemini-3-flash-preview"
	DefaultReportTimeout         = 10 * time.Second
	DefaultReportRetryCount      = 2
	DefaultReportRetryWait       = 500 * time.Millisecond
	DefaultReportCacheTTL        = 10 * time.Minute
	DefaultReportRefreshInterval = 10 * time.Minute
)

// Kafka defaults
const (
	DefaultKafkaBrokers           = "localhost:9092"
	DefaultKafkaTopic             = "withdrawal-audit"
	DefaultKafkaWithdrawThreshold = 500.0
)

// Withdrawal defaults
const (
	DefaultWithdrawRefundOnDeny = false
)

// Weekly podium prize defaults (BRL)
const (
	DefaultAwardPrizeTop1 = 25.0
	DefaultAwardPrizeTop2 = 15.0
	DefaultAwardPrizeTop3 = 10.0
)
