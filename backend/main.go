package main

import (
	"log"

	"codetrack/backend/activity"
	"codetrack/backend/config"
	"codetrack/backend/middleware"
	"codetrack/backend/platform"
	"codetrack/backend/routes"
	"codetrack/backend/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
)

func main() {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Error loading config: %v", err)
	}

	// Initialize database
	db, err := utils.InitDB(cfg)
	if err != nil {
		log.Fatalf("Error initializing database: %v", err)
	}

	// Initialize logger
	logger := utils.InitLogger()

	// Reference timezone for day bucketing
	loc, err := cfg.Location()
	if err != nil {
		log.Fatalf("Error loading timezone %q: %v", cfg.Timezone, err)
	}

	// Scraper clients, one per configured platform
	registry := platform.NewRegistry()
	for _, name := range cfg.Platforms {
		registry.Register(name, platform.NewHTTPClient(cfg.ScraperURL, name))
	}

	// Activity engine
	svc := activity.NewService(db, activity.NewBucketer(loc), registry, logger, cfg.ScrapeTimeout)

	// Create Fiber app
	app := fiber.New()

	// Middleware
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
	}))
	app.Use(middleware.LoggingMiddleware(logger))

	// Setup routes
	routes.SetupRoutes(app, db, cfg, svc)

	// Start server
	log.Fatal(app.Listen(":" + cfg.ServerPort))
}
