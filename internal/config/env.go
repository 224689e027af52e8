package config

import (
	"os"
	"strconv"
	"strings"
)

type Env struct {
	AppAddr string
	GinMode string

	DBDSN string

	JWTSecret     string
	WebhookSecret string

	GatewayURL     string
	GatewayTimeout int

	AMQPURL string

	MetricsEnabled bool
}

func LoadEnv() Env {
	dsn := strings.TrimSpace(os.Getenv("DB_DSN"))
	if dsn == "" {
		dsn = "root:@tcp(127.0.0.1:3306)/tour_app?parseTime=true&loc=Local&charset=utf8mb4&timeout=5s&readTimeout=30s&writeTimeout=30s"
	}

	appAddr := strings.TrimSpace(os.Getenv("APP_ADDR"))
	if appAddr == "" {
		appAddr = ":8080"
	}

	jwtSecret := strings.TrimSpace(os.Getenv("JWT_SECRET"))
	if jwtSecret == "" {
		jwtSecret = "super-secret-key-change-me"
	}

	gatewayTimeout := 15
	if raw := strings.TrimSpace(os.Getenv("GATEWAY_TIMEOUT_SECONDS")); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			gatewayTimeout = n
		}
	}

	return Env{
		AppAddr:        appAddr,
		GinMode:        strings.TrimSpace(os.Getenv("GIN_MODE")),
		DBDSN:          dsn,
		JWTSecret:      jwtSecret,
		WebhookSecret:  strings.TrimSpace(os.Getenv("WEBHOOK_SECRET")),
		GatewayURL:     strings.TrimSpace(os.Getenv("GATEWAY_URL")),
		GatewayTimeout: gatewayTimeout,
		AMQPURL:        strings.TrimSpace(os.Getenv("AMQP_URL")),
		MetricsEnabled: strings.EqualFold(strings.TrimSpace(os.Getenv("METRICS_ENABLED")), "true"),
	}
}
