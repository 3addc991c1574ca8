package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Env        string `mapstructure:"ENV"`
	ServerPort string `mapstructure:"SERVER_PORT"`
	BaseURL    string `mapstructure:"BASE_URL"`
	LogLevel   string `mapstructure:"LOG_LEVEL"`
	LogFormat  string `mapstructure:"LOG_FORMAT"`

	DatabaseDSN string `mapstructure:"DATABASE_DSN"`

	RedisAddr     string        `mapstructure:"REDIS_ADDR"`
	RedisPassword string        `mapstructure:"REDIS_PASSWORD"`
	RedisDB       int           `mapstructure:"REDIS_DB"`
	SessionTTL    time.Duration `mapstructure:"WIZARD_SESSION_TTL"`
	DraftTTL      time.Duration `mapstructure:"WIZARD_DRAFT_TTL"`

	KafkaBroker   string `mapstructure:"KAFKA_BROKER"`
	KafkaTopic    string `mapstructure:"KAFKA_TOPIC"`
	KafkaGroupID  string `mapstructure:"KAFKA_GROUP_ID"`
	KafkaUsername string `mapstructure:"KAFKA_USERNAME"`
	KafkaPassword string `mapstructure:"KAFKA_PASSWORD"`

	CloudinaryUrl string `mapstructure:"CLOUDINARY_URL"`
	ReceiptBucket string `mapstructure:"RECEIPT_BUCKET"`
	PhotoBucket   string `mapstructure:"PHOTO_BUCKET"`

	AuthSecret   string   `mapstructure:"AUTH_JWT_SECRET"`
	AdminUserIDs []string `mapstructure:"ADMIN_USER_IDS"`

	SMTPHost     string `mapstructure:"SMTP_HOST"`
	SMTPPort     int    `mapstructure:"SMTP_PORT"`
	SMTPUser     string `mapstructure:"SMTP_USER"`
	SMTPPassword string `mapstructure:"SMTP_PASSWORD"`
	MailFrom     string `mapstructure:"MAIL_FROM"`
	MailFromName string `mapstructure:"MAIL_FROM_NAME"`
	PortalURL    string `mapstructure:"PORTAL_URL"`
	MetricsPort  string `mapstructure:"MAILER_METRICS_PORT"`
}

var defaults = map[string]interface{}{
	"ENV":                "dev",
	"SERVER_PORT":        ":3000",
	"BASE_URL":           "*",
	"LOG_LEVEL":          "info",
	"LOG_FORMAT":         "console",
	"DATABASE_DSN":       "",
	"REDIS_ADDR":         "localhost:6379",
	"REDIS_PASSWORD":     "",
	"REDIS_DB":           0,
	"WIZARD_SESSION_TTL": "2h",
	"WIZARD_DRAFT_TTL":   "720h",
	"KAFKA_BROKER":       "",
	"KAFKA_TOPIC":        "membership.events",
	"KAFKA_GROUP_ID":     "membership-mailer",
	"KAFKA_USERNAME":     "",
	"KAFKA_PASSWORD":     "",
	"CLOUDINARY_URL":     "",
	"RECEIPT_BUCKET":     "dteaa/receipts",
	"PHOTO_BUCKET":       "dteaa/photos",
	"AUTH_JWT_SECRET":    "",
	"ADMIN_USER_IDS":     "",
	"SMTP_HOST":          "smtp.gmail.com",
	"SMTP_PORT":          587,
	"SMTP_USER":          "",
	"SMTP_PASSWORD":      "",
	"MAIL_FROM":          "",
	"MAIL_FROM_NAME":     "DTEAA",
	"PORTAL_URL":         "http://localhost:5173",

	"MAILER_METRICS_PORT": ":9102",
}

// LoadConfig reads .env (outside prod) and the process environment.
func LoadConfig() (Config, error) {
	if os.Getenv("ENV") != "prod" {
		if err := godotenv.Overload(); err != nil {
			log.Println("Warning: .env not loaded:", err)
		}
	}

	v := viper.New()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	for key, val := range defaults {
		v.SetDefault(key, val)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	cfg.AdminUserIDs = compact(cfg.AdminUserIDs)

	return cfg, nil
}

// ValidateAPI checks the settings the HTTP service cannot start without.
func (c Config) ValidateAPI() error {
	var errs []error
	if c.DatabaseDSN == "" {
		errs = append(errs, errors.New("DATABASE_DSN is required"))
	}
	if c.AuthSecret == "" {
		errs = append(errs, errors.New("AUTH_JWT_SECRET is required"))
	}
	if c.RedisAddr == "" {
		errs = append(errs, errors.New("REDIS_ADDR is required"))
	}
	return errors.Join(errs...)
}

func (c Config) ValidateMailer() error {
	var errs []error
	if c.KafkaBroker == "" {
		errs = append(errs, errors.New("KAFKA_BROKER is required"))
	}
	if c.MailFrom == "" {
		errs = append(errs, errors.New("MAIL_FROM is required"))
	}
	return errors.Join(errs...)
}

func compact(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		for _, part := range strings.Split(s, ",") {
			if p := strings.TrimSpace(part); p != "" {
				out = append(out, p)
			}
		}
	}
	return out
}
