package config

import (
	"os"
	"time"
)

// Config collects everything the app reads from the environment.
// A .env file is loaded by main before this is called.
type Config struct {
	Addr           string
	DatabaseURL    string
	JWTSecret      string
	MigrationsPath string
	LogFile        string

	// CallbackBaseURL is the externally reachable base used to build the
	// gateway callback target (callback hits /api/v1/payments/verify).
	CallbackBaseURL string

	PaystackSecretKey string
	PaystackBaseURL   string
	ChapaSecretKey    string
	ChapaBaseURL      string
	GatewayTimeout    time.Duration

	SMTPHost     string
	SMTPPort     string
	SMTPUser     string
	SMTPPassword string
	EmailFrom    string
}

func Load() Config {
	return Config{
		Addr:           getenv("APP_ADDR", ":8080"),
		DatabaseURL:    os.Getenv("DATABASE_URL"),
		JWTSecret:      os.Getenv("JWT_SECRET"),
		MigrationsPath: getenv("MIGRATIONS_PATH", "./migrations"),
		LogFile:        getenv("LOG_FILE", "./logs/app.log"),

		CallbackBaseURL: getenv("CALLBACK_BASE_URL", "http://localhost:8080"),

		PaystackSecretKey: os.Getenv("PAYSTACK_SECRET_KEY"),
		PaystackBaseURL:   getenv("PAYSTACK_BASE_URL", "https://api.paystack.co/transaction"),
		ChapaSecretKey:    os.Getenv("CHAPA_SECRET_KEY"),
		ChapaBaseURL:      getenv("CHAPA_BASE_URL", "https://api.chapa.co/v1/transaction"),
		GatewayTimeout:    getdur("GATEWAY_TIMEOUT", 15*time.Second),

		SMTPHost:     os.Getenv("SMTP_HOST"),
		SMTPPort:     getenv("SMTP_PORT", "587"),
		SMTPUser:     os.Getenv("SMTP_USER"),
		SMTPPassword: os.Getenv("SMTP_PASSWORD"),
		EmailFrom:    os.Getenv("EMAIL_FROM"),
	}
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getdur(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
