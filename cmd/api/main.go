package main

import (
	"context"
	"log"
	"net/http"

	"github.com/rs/cors"

	"github.com/bin-ym/sunday-school-backend/internal/attendance"
	"github.com/bin-ym/sunday-school-backend/internal/config"
	"github.com/bin-ym/sunday-school-backend/internal/database"
	"github.com/bin-ym/sunday-school-backend/internal/handlers"
	"github.com/bin-ym/sunday-school-backend/internal/routes"
)

func main() {
	// Load configuration
	cfg := config.LoadConfig()

	// Connect to MongoDB
	client, err := database.ConnectMongoDB(cfg.MongoURI)
	if err != nil {
		log.Fatalf("Failed to connect to MongoDB: %v", err)
	}
	defer func() {
		if err := client.Disconnect(context.Background()); err != nil {
			log.Fatal("Failed to disconnect from MongoDB:", err)
		}
	}()

	// Attendance pipeline: buffer -> deferred aggregation -> records
	store := attendance.NewMongoStore(client, cfg.DatabaseName)
	aggregator := attendance.NewAggregator(store)
	buffer := attendance.NewBuffer(store)
	scheduler := attendance.NewScheduler(aggregator, cfg.AggregationDelay)
	defer scheduler.Stop()

	// Sweep picks up submissions whose timer died with a previous process
	if cfg.SweepSchedule != "" {
		sweep, err := attendance.StartSweep(store, aggregator, cfg.SweepSchedule)
		if err != nil {
			log.Fatalf("Failed to start aggregation sweep: %v", err)
		}
		defer sweep.Stop()
		log.Printf("Aggregation sweep scheduled: %q", cfg.SweepSchedule)
	}

	// Initialize router
	router := routes.SetupRouter(
		handlers.NewAttendanceHandler(store, buffer, aggregator, scheduler),
		handlers.NewCalendarHandler(),
	)

	// Setup CORS middleware
	c := cors.New(cors.Options{
		AllowedOrigins:   []string{cfg.Origin},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		AllowCredentials: true,
	})

	// Wrap router with CORS
	handler := c.Handler(router)

	// Start server
	log.Printf("🚀 Server running on port %s", cfg.Port)
	if err := http.ListenAndServe(":"+cfg.Port, handler); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
