package api

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/dteaa/membership_service/config"
	"github.com/dteaa/membership_service/infra/queue"
	"github.com/dteaa/membership_service/internal/api/rest/handlers"
	"github.com/dteaa/membership_service/internal/domain"
	"github.com/dteaa/membership_service/internal/drafts"
	"github.com/dteaa/membership_service/internal/geo"
	"github.com/dteaa/membership_service/internal/helper"
	"github.com/dteaa/membership_service/internal/interfaces"
	"github.com/dteaa/membership_service/internal/logger"
	"github.com/dteaa/membership_service/internal/metrics"
	"github.com/dteaa/membership_service/internal/repository"
	"github.com/dteaa/membership_service/internal/services"
	"github.com/dteaa/membership_service/internal/wizard"
	"github.com/dteaa/membership_service/pkg/cloudinary"
)

// one fixed key for every instance, so only one of them migrates at a time
const migrateLockID int64 = 20260222

func StartServer(cfg config.Config, log logger.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	app := fiber.New(fiber.Config{
		BodyLimit:    8 << 20,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
	})
	app.Use(recover.New())

	// ---------- CORS ----------
	app.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.BaseURL,
		AllowHeaders:     "Content-Type, Accept, Authorization",
		AllowMethods:     "GET, POST, PUT, PATCH, DELETE, OPTIONS",
		AllowCredentials: cfg.BaseURL != "*",
	}))

	// ---------- DB ----------
	db, err := gorm.Open(postgres.New(postgres.Config{
		DSN:                  cfg.DatabaseDSN,
		PreferSimpleProtocol: true,
	}), &gorm.Config{Logger: gormlogger.Default.LogMode(gormlogger.Warn)})
	if err != nil {
		return fmt.Errorf("database connection error: %w", err)
	}
	log.Info("database connected", nil)

	if err := migrate(db); err != nil {
		return err
	}
	log.Info("migration successful", nil)

	// ---------- Repositories ----------
	profileRepo := repository.NewProfileRepository(db)
	adminRepo := repository.NewAdminRepository(db)
	if err := adminRepo.Seed(ctx, cfg.AdminUserIDs); err != nil {
		return fmt.Errorf("seed admins: %w", err)
	}

	// ---------- Infra ----------
	rdb, err := drafts.NewRedisClient(ctx, drafts.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	if err != nil {
		return err
	}
	defer rdb.Close()
	sessions := drafts.NewStore(rdb, cfg.SessionTTL, cfg.DraftTTL, log)

	cld, err := cloudinary.New(cfg.CloudinaryUrl)
	if err != nil {
		return fmt.Errorf("cloudinary init error: %w", err)
	}
	store := cloudinary.NewObjectStore(cld)

	// Without a broker the service runs and simply sends no notifications.
	var producer interfaces.ProducerHandler
	if cfg.KafkaBroker != "" {
		p := queue.NewProducer(queue.Options{
			Broker:   cfg.KafkaBroker,
			Topic:    cfg.KafkaTopic,
			Username: cfg.KafkaUsername,
			Password: cfg.KafkaPassword,
		}, log)
		defer p.Close()
		producer = p
	} else {
		log.Warn("KAFKA_BROKER not set, events disabled", nil)
	}

	resolver, err := geo.NewResolver()
	if err != nil {
		return err
	}
	authHelper := helper.SetupAuth(cfg.AuthSecret)

	// ---------- Service ----------
	svc := services.NewMembershipService(
		profileRepo,
		adminRepo,
		sessions,
		store,
		producer,
		wizard.NewValidator(),
		services.Buckets{Receipts: cfg.ReceiptBucket, Photos: cfg.PhotoBucket},
		log,
	)

	// ---------- Routes ----------
	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})
	metrics.Mount(app)
	handlers.SetupRoutes(app, svc, authHelper, resolver)

	// ---------- Listen ----------
	errCh := make(chan error, 1)
	go func() {
		log.Info("listening", map[string]interface{}{"addr": cfg.ServerPort})
		errCh <- app.Listen(cfg.ServerPort)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		log.Info("shutting down", nil)
		return app.ShutdownWithTimeout(10 * time.Second)
	}
}

// migrate runs AutoMigrate under a postgres advisory lock.
func migrate(db *gorm.DB) error {
	if err := db.Exec("SELECT pg_advisory_lock(?)", migrateLockID).Error; err != nil {
		return fmt.Errorf("migration lock error: %w", err)
	}
	defer func() {
		_ = db.Exec("SELECT pg_advisory_unlock(?)", migrateLockID).Error
	}()

	if err := db.AutoMigrate(
		&domain.Profile{},
		&domain.PersonalDetails{},
		&domain.ContactDetails{},
		&domain.EmployeeExperience{},
		&domain.EntrepreneurExperience{},
		&domain.OpenToWork{},
		&domain.PrivacySettings{},
		&domain.Admin{},
		&domain.ReviewLog{},
	); err != nil {
		return fmt.Errorf("migration error: %w", err)
	}
	return nil
}
