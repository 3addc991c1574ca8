package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"
	"time"

	"github.com/dteaa/membership_service/config"
	"github.com/dteaa/membership_service/infra/queue"
	"github.com/dteaa/membership_service/internal/logger"
	"github.com/dteaa/membership_service/internal/mail"
	"github.com/dteaa/membership_service/internal/metrics"
)

func main() {
	// ---------- Load Config ----------
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}
	if err := cfg.ValidateMailer(); err != nil {
		log.Fatalf("config error: %v", err)
	}

	appLog := logger.NewStructured(cfg.LogLevel, cfg.LogFormat)
	defer appLog.Sync()
	appLog.Info("mailer starting", map[string]interface{}{
		"broker":   cfg.KafkaBroker,
		"topic":    cfg.KafkaTopic,
		"group_id": cfg.KafkaGroupID,
		"metrics":  cfg.MetricsPort,
	})

	// ---------- Init Service ----------
	renderer, err := mail.NewRenderer(cfg.PortalURL)
	if err != nil {
		log.Fatalf("mail templates: %v", err)
	}
	sender := mail.NewSMTPSender(mail.SMTPOptions{
		Host:     cfg.SMTPHost,
		Port:     cfg.SMTPPort,
		Username: cfg.SMTPUser,
		Password: cfg.SMTPPassword,
		From:     cfg.MailFrom,
		FromName: cfg.MailFromName,
	})
	handler := mail.NewHandler(renderer, sender, appLog)

	// ---------- Init Kafka Consumer ----------
	consumer := queue.NewKafkaConsumer(queue.Options{
		Broker:   cfg.KafkaBroker,
		Topic:    cfg.KafkaTopic,
		GroupID:  cfg.KafkaGroupID,
		Username: cfg.KafkaUsername,
		Password: cfg.KafkaPassword,
	}, handler, appLog)
	defer consumer.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// ---------- Metrics ----------
	endpoint := metrics.NewEndpoint()
	go func() {
		if err := endpoint.Listen(cfg.MetricsPort); err != nil {
			appLog.Error("metrics endpoint stopped", map[string]interface{}{"error": err})
		}
	}()
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = endpoint.ShutdownWithContext(shutdownCtx)
	}()

	// ---------- Start Listening ----------
	if err := consumer.Listen(ctx); err != nil {
		appLog.Error("consumer stopped", map[string]interface{}{"error": err})
	}
	appLog.Info("mailer stopped", nil)
}
