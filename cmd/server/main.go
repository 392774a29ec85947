package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/healthcheck"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/pprof"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/joho/godotenv"
	"github.com/shopsense-ai/shopsense/internal/config"
	"github.com/shopsense-ai/shopsense/internal/domain/fiber/handler"
	"github.com/shopsense-ai/shopsense/internal/middleware"
	"github.com/shopsense-ai/shopsense/internal/model"
	"github.com/shopsense-ai/shopsense/internal/repository"
	"github.com/shopsense-ai/shopsense/internal/service"
	"github.com/shopsense-ai/shopsense/internal/usecase"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func main() {
	ctx := context.Background()
	if err := godotenv.Load(); err != nil {
		log.Println("Could not load .env file")
	}

	appConfig := config.LoadAppConfig()
	assistantConfig := config.LoadAssistantConfig()

	app := fiber.New(fiber.Config{
		AppName: appConfig.Name,
		ErrorHandler: func(ctx *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError

			var e *fiber.Error
			if errors.As(err, &e) {
				code = e.Code
			}

			message := err.Error()
			if message == "" {
				message = "Internal Server Error"
			}

			return ctx.Status(code).JSON(fiber.Map{"error": message})
		},
	})
	app.Use(logger.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
	}))
	app.Use(recover.New(recover.Config{
		EnableStackTrace: appConfig.Env != "production",
	}))
	app.Use(compress.New(compress.Config{
		Level: compress.LevelBestSpeed,
	}))
	app.Use(pprof.New(pprof.Config{
		Next: func(c *fiber.Ctx) bool {
			return appConfig.Env == "production"
		},
	}))
	app.Use(healthcheck.New())
	app.Use(helmet.New(helmet.Config{
		CrossOriginResourcePolicy: "cross-origin",
	}))
	app.Use(middleware.RateLimiter(100, 1*time.Minute))

	db := ConnectDB()

	productRepo := repository.NewProductRepository(db)
	vectorRepo := repository.NewVectorRepository(db)
	jobRepo := repository.NewJobRepository(db)
	taxonomyRepo := repository.NewTaxonomyRepository(db)

	gemini, err := service.NewGeminiService(ctx)
	if err != nil {
		log.Fatal(err)
	}
	ollama := service.NewOllamaService()

	syncUC := usecase.NewSyncUsecase(productRepo, vectorRepo, jobRepo, gemini, assistantConfig)
	searchUC := usecase.NewSearchUsecase(vectorRepo, taxonomyRepo, gemini, assistantConfig)
	chatUC := usecase.NewChatUsecase(searchUC, productRepo, ollama, assistantConfig)
	catalogUC := usecase.NewCatalogUsecase(productRepo, taxonomyRepo, syncUC, assistantConfig)

	handler.NewAssistantHandler(chatUC, searchUC).RegisterRoutes(app)
	handler.NewCatalogHandler(catalogUC).RegisterRoutes(app)
	handler.NewInventoryHandler(syncUC, catalogUC).RegisterRoutes(app)

	// A crash mid-bulk leaves the job stuck in running; fail those on boot.
	if swept, err := syncUC.SweepStaleJobs(); err != nil {
		log.Printf("stale job sweep failed: %v", err)
	} else if swept > 0 {
		log.Printf("swept %d stale running job(s)", swept)
	}

	log.Println("Server running on ", appConfig.Port)
	if err := app.Listen(appConfig.Port); err != nil {
		log.Fatal(err)
	}
}

func ConnectDB() *gorm.DB {
	dbConfig := config.LoadDBConfig()
	appConfig := config.LoadAppConfig()

	dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s",
		dbConfig.Host,
		dbConfig.User,
		dbConfig.Password,
		dbConfig.Name,
		dbConfig.Port,
		dbConfig.SSLMode,
	)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatalf("Could not connect to database: %v", err)
	}
	pgDB, err := db.DB()
	if err != nil {
		log.Fatalf("Could not get database instance: %v", err)
	}
	if appConfig.Env != "production" {
		pgDB.SetMaxIdleConns(5)
		pgDB.SetMaxOpenConns(10)
		pgDB.SetConnMaxLifetime(30 * time.Minute)
	} else {
		pgDB.SetMaxIdleConns(20)
		pgDB.SetMaxOpenConns(200)
		pgDB.SetConnMaxLifetime(time.Hour)
	}

	if err := db.Exec("CREATE EXTENSION IF NOT EXISTS vector").Error; err != nil {
		log.Fatalf("Could not enable pgvector extension: %v", err)
	}
	if err := db.Exec(`CREATE EXTENSION IF NOT EXISTS "uuid-ossp"`).Error; err != nil {
		log.Fatalf("Could not enable uuid-ossp extension: %v", err)
	}

	err = db.AutoMigrate(
		&model.Category{},
		&model.Brand{},
		&model.Product{},
		&model.ProductVector{},
		&model.EmbeddingJob{},
	)
	if err != nil {
		log.Fatal("migration failed: ", err)
	}
	return db
}
