package main

import (
	"log"
	"net/http"
	"os"
	"time"

	gorillahandlers "github.com/gorilla/handlers"
	"github.com/rs/cors"

	"github.com/phraewchuthamat/task-board-api/database"
	"github.com/phraewchuthamat/task-board-api/handlers"
	"github.com/phraewchuthamat/task-board-api/services"
)

func main() {
	// Load environment variables from .env file
	if err := services.LoadEnv(".env"); err != nil {
		log.Fatalf("Error loading .env file: %v", err)
	}

	jwtSecret := services.Getenv("JWT_SECRET", "your-default-secret-key-change-in-production")
	devMode := services.Getenv("APP_ENV", "production") == "development"

	// Initialize database
	db, err := database.InitDB(services.Getenv("DATABASE_URL", "taskboard.db"))
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}

	// Initialize services
	authService := services.NewAuthService([]byte(jwtSecret))
	dataService := database.NewDataService(db)
	reporter := handlers.NewErrorReporter(devMode)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(authService, dataService, reporter)
	columnHandler := handlers.NewColumnHandler(dataService, reporter)
	taskHandler := handlers.NewTaskHandler(dataService, reporter)
	authMiddleware := handlers.NewAuthMiddleware(authService)

	// Setup router
	r := handlers.NewRouter(authHandler, columnHandler, taskHandler, authMiddleware)

	// Setup CORS
	c := cors.New(cors.Options{
		AllowedOrigins:   []string{"*"}, // In production, change to your domain
		AllowedMethods:   []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		AllowCredentials: true,
	})

	// Request logging and panic recovery around the whole chain; a panicking
	// handler answers the 500 envelope and the process keeps serving.
	handler := gorillahandlers.LoggingHandler(os.Stdout,
		reporter.Recover(c.Handler(r)))

	port := services.Getenv("PORT", "3001")

	// Start server
	server := &http.Server{
		Addr:         ":" + port,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	log.Printf("Server starting on port %s", port)
	log.Fatal(server.ListenAndServe())
}
