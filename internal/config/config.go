package config

import (
	"os"

	"github.com/joho/godotenv"
)

type Config struct {
	ListenAddr         string
	MongoURI           string
	MongoDatabase      string
	JWTSecret          string
	RedisURL           string
	GoogleClientID     string
	SMTPHost           string
	SMTPPort           string
	SMTPUser           string
	SMTPPass           string
	CompanyEmail       string
	FCMCredentialsPath string
	OCRAPIURL          string
	OCRAPIKey          string
}

func LoadConfig() (*Config, error) {
	// .env is optional in containerised deployments
	_ = godotenv.Load()

	cfg := &Config{
		ListenAddr:         os.Getenv("LISTEN_ADDR"),
		MongoURI:           os.Getenv("MONGO_URI"),
		MongoDatabase:      os.Getenv("MONGO_DATABASE"),
		JWTSecret:          os.Getenv("JWT_SECRET"),
		RedisURL:           os.Getenv("REDIS_URL"),
		GoogleClientID:     os.Getenv("GOOGLE_CLIENT_ID"),
		SMTPHost:           os.Getenv("SMTP_HOST"),
		SMTPPort:           os.Getenv("SMTP_PORT"),
		SMTPUser:           os.Getenv("SMTP_USER"),
		SMTPPass:           os.Getenv("SMTP_PASS"),
		CompanyEmail:       os.Getenv("COMPANY_EMAIL"),
		FCMCredentialsPath: os.Getenv("FCM_CREDENTIALS_PATH"),
		OCRAPIURL:          os.Getenv("OCR_API_URL"),
		OCRAPIKey:          os.Getenv("OCR_API_KEY"),
	}

	if cfg.ListenAddr == "" {
		cfg.ListenAddr = "0.0.0.0:8000"
	}
	if cfg.MongoDatabase == "" {
		cfg.MongoDatabase = "admission_agency"
	}

	return cfg, nil
}
