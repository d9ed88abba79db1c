package cmd

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/louwis-alfred/Backend-Commerce/internal/core/domain/model/kernel"
	"github.com/louwis-alfred/Backend-Commerce/internal/core/ports"
)

const (
	StorageMemory   = "memory"
	StoragePostgres = "postgres"
)

type Config struct {
	HTTPPort string
	Storage  string

	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSslMode  string

	RedisAddr       string
	CourierCacheTTL time.Duration
	// Couriers are registered in the directory at startup.
	Couriers []ports.CourierInfo

	KafkaHost              string
	KafkaOrderChangedTopic string

	PaymentGatewayURL string
	PaymentTimeout    time.Duration

	AccessPolicyFile    string
	JaegerEndpoint      string
	RefundRetrySchedule string
}

// LoadConfig reads the environment once. A .env file in the working
// directory is loaded first if present; real environment variables win.
func LoadConfig() (Config, error) {
	if err := godotenv.Load(".env"); err != nil && !errors.Is(err, os.ErrNotExist) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}

	config := Config{
		HTTPPort:               env("HTTP_PORT", "8080"),
		Storage:                env("STORAGE", StoragePostgres),
		DBHost:                 os.Getenv("DB_HOST"),
		DBPort:                 env("DB_PORT", "5432"),
		DBUser:                 os.Getenv("DB_USER"),
		DBPassword:             os.Getenv("DB_PASSWORD"),
		DBName:                 os.Getenv("DB_NAME"),
		DBSslMode:              env("DB_SSLMODE", "disable"),
		RedisAddr:              os.Getenv("REDIS_ADDR"),
		KafkaHost:              os.Getenv("KAFKA_HOST"),
		KafkaOrderChangedTopic: env("KAFKA_ORDER_CHANGED_TOPIC", "order.status-changed"),
		PaymentGatewayURL:      os.Getenv("PAYMENT_GATEWAY_URL"),
		AccessPolicyFile:       os.Getenv("ACCESS_POLICY_FILE"),
		JaegerEndpoint:         os.Getenv("JAEGER_ENDPOINT"),
		RefundRetrySchedule:    os.Getenv("REFUND_RETRY_SCHEDULE"),
	}

	var errList []error
	var err error
	if config.CourierCacheTTL, err = duration("COURIER_CACHE_TTL"); err != nil {
		errList = append(errList, err)
	}
	if config.PaymentTimeout, err = duration("PAYMENT_TIMEOUT"); err != nil {
		errList = append(errList, err)
	}
	if config.Couriers, err = parseCouriers(os.Getenv("COURIERS")); err != nil {
		errList = append(errList, err)
	}
	if config.Storage != StorageMemory && config.Storage != StoragePostgres {
		errList = append(errList, fmt.Errorf("STORAGE must be %q or %q, got %q", StorageMemory, StoragePostgres, config.Storage))
	}
	if config.PaymentGatewayURL == "" {
		errList = append(errList, errors.New("PAYMENT_GATEWAY_URL is required"))
	}
	if err = errors.Join(errList...); err != nil {
		return Config{}, err
	}
	return config, nil
}

// DSN is the PostgreSQL connection string.
func (c Config) DSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName, c.DBSslMode)
}

func env(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// duration parses a Go duration; unset means zero, which the consumers
// replace with their defaults.
func duration(key string) (time.Duration, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return d, nil
}

// parseCouriers reads "id=name,id=name".
func parseCouriers(raw string) ([]ports.CourierInfo, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, nil
	}

	var couriers []ports.CourierInfo
	for _, pair := range strings.Split(raw, ",") {
		id, name, ok := strings.Cut(strings.TrimSpace(pair), "=")
		if !ok || name == "" {
			return nil, fmt.Errorf("COURIERS: %q is not id=name", pair)
		}
		courierID, err := kernel.UUIDFromString(id)
		if err != nil {
			return nil, fmt.Errorf("COURIERS: %w", err)
		}
		couriers = append(couriers, ports.CourierInfo{ID: courierID, Name: name})
	}
	return couriers, nil
}
