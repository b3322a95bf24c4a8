package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config is the Midtrans credential and behavior surface, loaded once at
// startup and treated as read-only afterwards. Concurrent readers are safe
// because no field is ever mutated post-construction.
type Config struct {
	MerchantID string
	ClientKey  string
	ServerKey  string

	IsProduction bool
	IsSanitized  bool
	Is3DS        bool

	// Notification routing defaults. An empty URL disables the behavior;
	// booleans never flow into header values.
	NotificationURL  string
	AppendNotifURL   string
	OverrideNotifURL string

	Currency string

	// MaxRequestsPerSecond caps outbound API calls; zero disables the
	// throttle.
	MaxRequestsPerSecond int

	AppEnv  string
	AppPort string
}

func LoadConfig() *Config {
	_ = godotenv.Load()

	return &Config{
		MerchantID: os.Getenv("MIDTRANS_MERCHANT_ID"),
		ClientKey:  os.Getenv("MIDTRANS_CLIENT_KEY"),
		ServerKey:  os.Getenv("MIDTRANS_SERVER_KEY"),

		IsProduction: envBool("MIDTRANS_IS_PRODUCTION", false),
		IsSanitized:  envBool("MIDTRANS_IS_SANITIZED", true),
		Is3DS:        envBool("MIDTRANS_IS_3DS", true),

		NotificationURL:  os.Getenv("MIDTRANS_NOTIF_URL"),
		AppendNotifURL:   os.Getenv("MIDTRANS_APPEND_NOTIF_URL"),
		OverrideNotifURL: os.Getenv("MIDTRANS_OVERRIDE_NOTIF_URL"),

		Currency: envString("MIDTRANS_CURRENCY", "IDR"),

		MaxRequestsPerSecond: envInt("MIDTRANS_MAX_RPS", 0),

		AppEnv:  os.Getenv("APP_ENV"),
		AppPort: envString("APP_PORT", "8080"),
	}
}

func envString(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func envInt(key string, fallback int) int {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return parsed
}
