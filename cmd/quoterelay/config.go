package main

import (
	"crypto/rand"
	"encoding/base64"
	"flag"
	"log"
	"os"
	"strconv"

	"github.com/Renal37/go-quote-relay/internal/services"
	"github.com/joho/godotenv"
)

type Config struct {
	endpoint      string
	dsn           string
	logLevel      string
	env           string
	authSecretKey string
	redisURL      string
	kafkaBrokers  string
	kafkaTopic    string
	exportDir     string
	exportBaseURL string
	site          services.Site
	smtp          services.SMTPConfig
}

func generateRandomString(length int) string {
	b := make([]byte, length)
	_, err := rand.Read(b)
	if err != nil {
		panic(err)
	}
	return base64.StdEncoding.EncodeToString(b)
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func NewConfig() Config {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("WARNING: .env file wasn't loaded due to %s\n", err)
	}

	var (
		endpoint  string
		dsn       string
		exportDir string
	)

	flag.StringVar(&endpoint, "a", "localhost:8090", "address and port to run server")
	flag.StringVar(&dsn, "d", "", "data source name for database connection")
	flag.StringVar(&exportDir, "e", "exports", "directory for generated quote exports")
	flag.Parse()

	if address := os.Getenv("RUN_ADDRESS"); address != "" {
		endpoint = address
	}

	if d := os.Getenv("DATABASE_URI"); d != "" {
		dsn = d
	}

	if dir := os.Getenv("EXPORT_DIR"); dir != "" {
		exportDir = dir
	}

	env := envOr("ENV", "production")

	authSecretKey := os.Getenv("AUTH_SECRET_KEY")
	if authSecretKey == "" {
		if env == "production" {
			authSecretKey = generateRandomString(10)
			log.Printf("WARNING: AUTH_SECRET_KEY has to be defined for production environment\n")
		} else {
			authSecretKey = "development-key"
		}
	}

	siteURL := envOr("SITE_URL", "http://"+endpoint)

	smtpPort := 587
	if p := os.Getenv("SMTP_PORT"); p != "" {
		port, err := strconv.Atoi(p)
		if err != nil {
			log.Fatalf("SMTP_PORT must be a number, got %q", p)
		}
		smtpPort = port
	}

	return Config{
		endpoint:      endpoint,
		dsn:           dsn,
		logLevel:      envOr("LOG_LEVEL", "error"),
		env:           env,
		authSecretKey: authSecretKey,
		redisURL:      os.Getenv("REDIS_URL"),
		kafkaBrokers:  os.Getenv("KAFKA_BROKERS"),
		kafkaTopic:    envOr("KAFKA_TOPIC", "quotes"),
		exportDir:     exportDir,
		exportBaseURL: envOr("EXPORT_BASE_URL", siteURL+"/exports"),
		site: services.Site{
			Name:       envOr("SITE_NAME", "Quote Relay"),
			URL:        siteURL,
			AdminEmail: os.Getenv("SITE_ADMIN_EMAIL"),
			Product:    "quote-relay",
			Version:    version,
			Currency:   envOr("CURRENCY", "USD"),
		},
		smtp: services.SMTPConfig{
			Host:     os.Getenv("SMTP_HOST"),
			Port:     smtpPort,
			Username: os.Getenv("SMTP_USERNAME"),
			Password: os.Getenv("SMTP_PASSWORD"),
			From:     envOr("SMTP_FROM", os.Getenv("SITE_ADMIN_EMAIL")),
			FromName: envOr("SITE_NAME", "Quote Relay"),
		},
	}
}
