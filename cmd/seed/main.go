// Command seed loads a small demo catalog and, unless told otherwise, runs
// one bulk embedding pass so the new products are immediately searchable.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/shopsense-ai/shopsense/internal/config"
	"github.com/shopsense-ai/shopsense/internal/model"
	"github.com/shopsense-ai/shopsense/internal/repository"
	"github.com/shopsense-ai/shopsense/internal/service"
	"github.com/shopsense-ai/shopsense/internal/usecase"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

func main() {
	skipEmbedding := flag.Bool("skip-embedding", false, "seed the catalog without running the bulk embedding pass")
	flag.Parse()

	if err := godotenv.Load(); err != nil {
		log.Println("Could not load .env file")
	}

	db := connectDB()

	categories := []model.Category{
		{ID: uuid.New(), Name: "Laptops", Description: "Notebooks and ultrabooks"},
		{ID: uuid.New(), Name: "Headphones", Description: "Over-ear, on-ear, in-ear"},
		{ID: uuid.New(), Name: "Coffee", Description: "Beans, grinders, brewers"},
	}
	brands := []model.Brand{
		{ID: uuid.New(), Name: "Voltaic", Description: "Performance electronics"},
		{ID: uuid.New(), Name: "Northwave", Description: "Audio gear"},
		{ID: uuid.New(), Name: "Morning Ritual", Description: "Specialty coffee"},
	}

	for i := range categories {
		if err := db.Clauses(clause.OnConflict{DoNothing: true}).Create(&categories[i]).Error; err != nil {
			log.Fatalf("seed category %s: %v", categories[i].Name, err)
		}
	}
	for i := range brands {
		if err := db.Clauses(clause.OnConflict{DoNothing: true}).Create(&brands[i]).Error; err != nil {
			log.Fatalf("seed brand %s: %v", brands[i].Name, err)
		}
	}

	byCategory := map[string]*uuid.UUID{}
	for i := range categories {
		byCategory[categories[i].Name] = &categories[i].ID
	}
	byBrand := map[string]*uuid.UUID{}
	for i := range brands {
		byBrand[brands[i].Name] = &brands[i].ID
	}

	products := []model.Product{
		{
			ID: uuid.New(), SKU: "LT-VOLT-14", Name: "Voltaic Aero 14",
			Description: "Lightweight 14-inch laptop with a 16-core CPU and all-day battery.",
			Price:       1299, Quantity: 25,
			CategoryID: byCategory["Laptops"], BrandID: byBrand["Voltaic"],
			Tags: "laptop,ultrabook,portable", SearchKeywords: "thin light notebook work travel",
		},
		{
			ID: uuid.New(), SKU: "LT-VOLT-16P", Name: "Voltaic Forge 16 Pro",
			Description: "16-inch workstation laptop for rendering and ML workloads.",
			Price:       2499, Quantity: 8,
			CategoryID: byCategory["Laptops"], BrandID: byBrand["Voltaic"],
			Tags: "laptop,workstation,gpu", SearchKeywords: "powerful creator video editing",
		},
		{
			ID: uuid.New(), SKU: "HP-NW-ANC", Name: "Northwave Hush ANC",
			Description: "Wireless over-ear headphones with adaptive noise cancelling and 40h battery.",
			Price:       249, Quantity: 60,
			CategoryID: byCategory["Headphones"], BrandID: byBrand["Northwave"],
			Tags: "headphones,wireless,anc", SearchKeywords: "quiet travel commute bluetooth",
		},
		{
			ID: uuid.New(), SKU: "HP-NW-BUD", Name: "Northwave Petal Buds",
			Description: "Compact in-ear buds with wireless charging case.",
			Price:       89, Quantity: 0,
			CategoryID: byCategory["Headphones"], BrandID: byBrand["Northwave"],
			Tags: "earbuds,wireless", SearchKeywords: "small gym running earphones",
		},
		{
			ID: uuid.New(), SKU: "CF-MR-ESP", Name: "Morning Ritual Espresso Blend",
			Description: "Medium-dark espresso blend, chocolate and hazelnut notes, 1kg whole bean.",
			Price:       28, Quantity: 120,
			CategoryID: byCategory["Coffee"], BrandID: byBrand["Morning Ritual"],
			Tags: "coffee,espresso,beans", SearchKeywords: "arabica crema morning brew",
		},
		{
			ID: uuid.New(), SKU: "CF-MR-GRND", Name: "Morning Ritual Burr Grinder",
			Description: "Conical burr grinder with 40 grind settings for espresso through french press.",
			Price:       159, Quantity: 3,
			CategoryID: byCategory["Coffee"], BrandID: byBrand["Morning Ritual"],
			Tags: "coffee,grinder", SearchKeywords: "grind burr consistent",
		},
	}

	for i := range products {
		products[i].IsActive = products[i].Quantity > 0
		if err := db.Clauses(clause.OnConflict{DoNothing: true}).Create(&products[i]).Error; err != nil {
			log.Fatalf("seed product %s: %v", products[i].SKU, err)
		}
	}
	log.Printf("seeded %d categories, %d brands, %d products", len(categories), len(brands), len(products))

	if *skipEmbedding {
		return
	}

	ctx := context.Background()
	gemini, err := service.NewGeminiService(ctx)
	if err != nil {
		log.Fatalf("embedding pass needs Gemini: %v (use -skip-embedding to seed without it)", err)
	}

	syncUC := usecase.NewSyncUsecase(
		repository.NewProductRepository(db),
		repository.NewVectorRepository(db),
		repository.NewJobRepository(db),
		gemini,
		config.LoadAssistantConfig(),
	)

	job, err := syncUC.RunBulkSync(ctx)
	if err != nil {
		log.Fatalf("bulk sync failed: %v", err)
	}
	log.Printf("bulk sync %s: %s (processed=%d successful=%d failed=%d skipped=%d)",
		job.ID, job.Status, job.ProcessedItems, job.SuccessfulItems, job.FailedItems, job.SkippedItems)
}

func connectDB() *gorm.DB {
	dbConfig := config.LoadDBConfig()

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
