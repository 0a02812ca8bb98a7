package main

import (
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
	httpSwagger "github.com/swaggo/http-swagger"

	_ "github.com/mraditya/splitbill/docs"
	"github.com/mraditya/splitbill/internal/config"
	"github.com/mraditya/splitbill/internal/database"
	"github.com/mraditya/splitbill/internal/record"
	"github.com/mraditya/splitbill/internal/session"
	mw "github.com/mraditya/splitbill/pkg/middleware"
)

// @title           SplitBill API
// @version         1.0
// @description     Receipt bill-splitting service: expand receipt line items into assignable units, allocate them among participants, and persist the computed split.
// @BasePath        /api/v1
func main() {
	// Load .env file
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	// Load configuration
	cfg := config.Load()

	// Initialize database connection
	db, err := database.NewPostgresConnection(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	log.Println("Connected to database successfully")

	// Record feature (saved splits)
	recordRepo := record.NewRepository(db)
	recordService := record.NewService(recordRepo)
	recordHandler := record.NewHandler(recordService)

	// Session feature (live splits, with record service injected for saves)
	sessionService := session.NewService(recordService)
	sessionHandler := session.NewHandler(sessionService)

	r := chi.NewRouter()

	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(mw.APIKey(cfg.APIKey))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	})

	r.Get("/swagger/*", httpSwagger.WrapHandler)

	// API routes
	r.Route("/api/v1", func(r chi.Router) {
		r.Mount("/sessions", sessionHandler.Routes())
		r.Mount("/records", recordHandler.Routes())
	})

	// Start server
	port := cfg.Port
	if port == "" {
		port = "8080"
	}

	log.Printf("Server starting on port %s", port)
	if err := http.ListenAndServe(":"+port, r); err != nil {
		log.Fatalf("Server failed to start: %v", err)
	}
}
