package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	"cpainsight/internal/analysis"
	"cpainsight/internal/cleaner"
	"cpainsight/internal/config"
	"cpainsight/internal/memory"
	"cpainsight/internal/service"
	"cpainsight/internal/transport/rest"
)

var serveFlags struct {
	port string
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveFlags.port, "port", "", "HTTP port (overrides HTTP_PORT)")
}

func runServe(cmd *cobra.Command, _ []string) error {
	log.Println("started")
	ctx := cmd.Context()

	cfg := config.Load()
	if serveFlags.port != "" {
		cfg.HTTPPort = serveFlags.port
	}

	aiConfig := config.DefaultAIConfig()
	log.Printf("AI Config:")
	log.Printf("  Narrative: %s", aiConfig.Models.Narrative)
	log.Printf("  Query:     %s", aiConfig.Models.QueryUnderstanding)
	if aiConfig.IsEnabled() {
		log.Println("  API Key:   configured")
	} else {
		log.Println("  API Key:   NOT SET (using deterministic narratives)")
	}

	sch, err := loadSchema(cfg.SchemaPath)
	if err != nil {
		return err
	}

	// Redis pipeline store, with an in-process fallback so the API still
	// works on a laptop without Redis running.
	var store memory.Store
	rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if _, err := rdb.Ping(pingCtx).Result(); err != nil {
		log.Printf("Warning: Redis unavailable at %s (%v), using in-memory store", cfg.RedisAddr, err)
		rdb.Close()
		store = memory.NewMemStore()
	} else {
		log.Println("Connected to Redis")
		defer rdb.Close()
		store = memory.NewRedisStore(rdb)
	}

	ingestSvc := service.NewIngestService(cleaner.New(sch), store)
	analysisSvc := service.NewAnalysisService(store, analysis.NewNumericAnalyzer(), analysis.NewTextAnalyzer())
	narrativeSvc := service.NewNarrativeService()

	router := rest.NewRouter(&rest.Container{
		IngestService:   ingestSvc,
		AnalysisService: analysisSvc,
		Narrative:       narrativeSvc,
		Store:           store,
	})

	srv := &http.Server{
		Addr:    ":" + cfg.HTTPPort,
		Handler: router,
	}

	go func() {
		log.Printf("Server starting on :%s", cfg.HTTPPort)
		log.Println("Endpoints:")
		log.Println("  POST /v1/datasets")
		log.Println("  GET  /v1/students/{studentId}/records")
		log.Println("  POST /v1/students/{studentId}/query")
		log.Println("  GET  /v1/students/{studentId}/summary")

		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("ListenAndServe:", err)
		}
	}()

	// Wait for interrupt
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}

	log.Println("Server exited")
	return nil
}
