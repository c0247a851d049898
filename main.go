package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/mathi030307/people-eye-client/handlers"
	"github.com/mathi030307/people-eye-client/middleware"
	"github.com/mathi030307/people-eye-client/models"
	"github.com/mathi030307/people-eye-client/services"
	"github.com/mathi030307/people-eye-client/utils"
	"github.com/mathi030307/people-eye-client/workers"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/joho/godotenv"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("⚠️  No .env file found, reading environment variables directly")
	}

	app := fiber.New(fiber.Config{
		BodyLimit: 100 * 1024 * 1024, // 100MB — room for capture video
	})

	// Nothing in the relay may take the process down; worst case is a stuck
	// queued report, which the next drain recovers.
	app.Use(recover.New())
	app.Use(logger.New())

	// 🔐 GLOBAL: Only Gateway requests allowed — no exceptions
	app.Use(middleware.GatewayAuthMiddleware())

	allowedOriginsEnv := os.Getenv("ALLOWED_ORIGINS")
	if allowedOriginsEnv == "" {
		log.Println("⚠️  ALLOWED_ORIGINS environment variable not set, using default: http://localhost:3000")
		allowedOriginsEnv = "http://localhost:3000"
	}
	allowedOriginsList := strings.Split(allowedOriginsEnv, ",")
	for i, origin := range allowedOriginsList {
		allowedOriginsList[i] = strings.TrimSpace(origin)
	}
	allowedOriginsString := strings.Join(allowedOriginsList, ",")

	app.Use(cors.New(cors.Config{
		AllowOrigins:     allowedOriginsString,
		AllowMethods:     "GET,POST,PUT,DELETE,OPTIONS,PATCH,HEAD",
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization, X-Requested-With, X-Request-ID, User-Agent, Cache-Control, X-User-ID, X-User-Roles",
		ExposeHeaders:    "Content-Length, Content-Type, Authorization, X-Request-ID",
		AllowCredentials: true,
		MaxAge:           86400, // 24 hours
	}))

	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		log.Fatal("DATABASE_URL environment variable not set")
	}

	if err := utils.InitR2(); err != nil {
		log.Fatal("failed to initialize R2 client:", err)
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatal("failed to connect to database:", err)
	}

	if err := db.AutoMigrate(
		&models.Report{},
		&models.QueuedReport{},
		&models.BadgeAward{},
		&models.DirectoryUser{},
		&models.Session{},
	); err != nil {
		log.Fatal("failed to migrate database:", err)
	}

	if err := utils.EnsureUploadDir(); err != nil {
		log.Fatal("failed to ensure upload dir:", err)
	}

	// --- Remote collaborators ---
	storeURL := os.Getenv("REPORT_STORE_URL")
	if storeURL == "" {
		log.Fatal("REPORT_STORE_URL environment variable not set")
	}
	directoryURL := os.Getenv("USER_DIRECTORY_URL")
	if directoryURL == "" {
		directoryURL = storeURL // the store hosts the directory by default
	}

	storeClient := services.NewReportStoreClient(storeURL)
	authClient := services.NewAuthClient(storeURL)
	geocoder := services.NewGeocodeClient(os.Getenv("NOMINATIM_URL"))

	// Initial connectivity state comes from one probe at startup.
	probeCtx, cancelProbe := context.WithTimeout(context.Background(), 5*time.Second)
	initialOnline := storeClient.Ping(probeCtx) == nil
	cancelProbe()

	monitor := services.NewConnectivityMonitor(storeClient, initialOnline)
	queueStore := services.NewGormQueueStore(db)

	scoringService := services.NewScoringService(db)

	// The report service and the queue reference each other: the queue
	// delivers through the service, the service enqueues through the queue.
	reportService := services.NewReportService(db, storeClient, monitor, nil, geocoder)
	queue := services.NewOfflineQueue(queueStore, reportService.DeliverQueued)
	queue.OnDelivered = reportService.CleanupDelivered
	reportService.Queue = queue

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Regaining connectivity drains the queue immediately.
	monitor.OnOnline(func() {
		if n, err := queue.Drain(ctx); err != nil {
			log.Printf("❌ Drain on reconnect failed: %v", err)
		} else if n > 0 {
			log.Printf("✅ Drained %d queued report(s) on reconnect", n)
		}
	})

	// --- Background workers ---
	directoryWorker := workers.NewDirectorySyncWorker(db, directoryURL, "/api/users")
	directoryWorker.Start(ctx)

	reportSyncClient := workers.NewReportSyncClient(db, storeClient, monitor)
	go workers.PollReports(ctx, reportSyncClient, 1*time.Minute)

	services.StartRelayScheduler(monitor, queue)

	// ✅ Routes — gateway auth enforced globally above
	handlers.SetupReportRoutes(app, reportService)
	handlers.SetupScoringRoutes(app, scoringService)
	handlers.SetupAuthRoutes(app, authClient, db)
	handlers.SetupQueueRoutes(app, queue, monitor)
	handlers.SetupAssistRoutes(app, services.NewKeywordDetector(), services.NewPhraseTranslator())

	app.Static("/uploads", "./uploads")

	go func() {
		if err := app.Listen(":5100"); err != nil {
			log.Printf("Server error: %v", err)
		}
	}()

	log.Println("✅ Server running on http://localhost:5100")
	log.Printf("✅ Report store: %s (online=%t at startup)", storeURL, initialOnline)
	log.Println("✅ Directory Sync Worker running")
	log.Println("✅ Report mirror polling running (every 1m)")
	log.Println("✅ GatewayAuthMiddleware enforced globally — all requests must come from Gateway")
	log.Printf("✅ CORS configured for origins: %s", allowedOriginsString)

	<-ctx.Done()
	log.Println("Shutting down server...")
}
