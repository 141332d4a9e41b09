package main

import (
	"database/sql"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	_ "modernc.org/sqlite"

	"trip-itinerary-service/internal/adapters/cache"
	"trip-itinerary-service/internal/adapters/repositories"
	"trip-itinerary-service/internal/adapters/routing"
	"trip-itinerary-service/internal/api"
	"trip-itinerary-service/internal/config"
	"trip-itinerary-service/internal/platform/db"
	"trip-itinerary-service/internal/ports"
	"trip-itinerary-service/internal/services"

	_ "github.com/jackc/pgx/v5/stdlib"
)

// main is the application composition root.
// It wires concrete adapters (SQLite, Redis or Postgres for segments, OSRM
// for routing) behind ports and starts the HTTP server.
func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found (using environment variables)")
	}

	dbPath := config.Get("DB_PATH", "data/app.db")
	seedPath := config.Get("SEED_PATH", "data/seeds/plans.json")
	port := config.Get("PORT", "8080")
	osrmBaseURL := config.Get("OSRM_BASE_URL", "https://router.project-osrm.org")

	sqliteDB, err := openDB(dbPath)
	if err != nil {
		log.Fatal(err)
	}
	defer sqliteDB.Close()

	// Initialize schema and seed demo data on startup for local runs.
	if err := initAndSeed(sqliteDB, seedPath); err != nil {
		log.Fatal(err)
	}

	segmentStore, err := newSegmentStore(sqliteDB)
	if err != nil {
		log.Fatal(err)
	}

	provider, err := routing.NewOSRMRouteProvider(osrmBaseURL)
	if err != nil {
		log.Fatal(err)
	}

	planRepo := repositories.NewSqlitePlanRepository(sqliteDB)
	segments := services.NewSegmentCache(segmentStore, provider)
	router := api.NewRouter(planRepo, segments)

	// Timeouts are tuned for cold-cache directions (external routing latency).
	log.Printf("Server listening addr=:%s", port)
	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      120 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	log.Fatal(srv.ListenAndServe())
}

// newSegmentStore selects the segment-cache backend: Redis when REDIS_ADDR
// is set, Postgres when DATABASE_URL is set, otherwise the local SQLite
// database shared with the plan store.
func newSegmentStore(sqliteDB *sql.DB) (ports.SegmentRepository, error) {
	if addr := config.Get("REDIS_ADDR", ""); addr != "" {
		client := redis.NewClient(&redis.Options{
			Addr:     addr,
			Password: config.Get("REDIS_PASSWORD", ""),
		})
		log.Printf("Segment store backend=redis addr=%s", addr)
		return cache.NewRedisSegmentStore(client), nil
	}

	if databaseURL := config.Get("DATABASE_URL", ""); databaseURL != "" {
		pg, err := db.Open(databaseURL)
		if err != nil {
			return nil, fmt.Errorf("segment store: %w", err)
		}
		if err := repositories.InitPostgresSchema(pg); err != nil {
			return nil, fmt.Errorf("segment store: %w", err)
		}
		log.Printf("Segment store backend=postgres")
		return cache.NewSQLSegmentStore(pg), nil
	}

	log.Printf("Segment store backend=sqlite")
	return cache.NewSqliteSegmentStore(sqliteDB), nil
}

func openDB(dbPath string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("openDB: open sqlite database %q: %w", dbPath, err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("openDB: verify sqlite connection to %q: %w", dbPath, err)
	}

	return db, nil
}

func initAndSeed(db *sql.DB, seedPath string) error {
	if err := repositories.InitSchema(db); err != nil {
		return fmt.Errorf("init and seed: %w", err)
	}

	if err := repositories.SeedFromJSON(db, seedPath); err != nil {
		return fmt.Errorf("init and seed: %w", err)
	}

	return nil
}
