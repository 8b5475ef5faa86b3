package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/firezonehub/backend/internal/config"
	"github.com/firezonehub/backend/internal/feed"
	"github.com/firezonehub/backend/internal/handlers"
	"github.com/firezonehub/backend/internal/identity"
	"github.com/firezonehub/backend/internal/logging"
	"github.com/firezonehub/backend/internal/search"
	"github.com/firezonehub/backend/internal/service"
	httpserver "github.com/firezonehub/backend/internal/transport/http"
)

func main() {
	configuration, err := config.LoadConfig()
	if err != nil {
		log.Fatal(err)
	}

	logger := logging.New(configuration.LOG_LEVEL)

	db, err := config.InitDB(configuration)
	if err != nil {
		log.Fatalf("database init error: %v", err)
	}

	var store identity.Store
	if configuration.REDIS_ADDR != "" {
		store = identity.NewRedisStore(configuration.REDIS_ADDR)
	} else {
		logger.Warn("REDIS_ADDR not set, sessions are held in memory")
		store = identity.NewMemoryStore()
	}

	prod := feed.NewProducer(configuration.KAFKA_BROKERS)
	if prod == nil {
		logger.Warn("KAFKA_BROKERS not set, change feed disabled")
	}

	var indexer *search.Indexer
	var searchHandler handlers.SearchHandler
	if configuration.ES_URL != "" {
		esClient, err := search.NewClient(configuration.ES_URL, configuration.ES_USER, configuration.ES_PASSWORD)
		if err != nil {
			log.Fatalf("elasticsearch init error: %v", err)
		}
		indexer = &search.Indexer{ES: esClient, Index: search.DefaultIndex}
		searchHandler = handlers.SearchHandler{ES: esClient, Index: search.DefaultIndex}
	} else {
		logger.Warn("ES_URL not set, search disabled")
	}

	admin := &service.AdminTokens{
		Secret:       []byte(configuration.ADMIN_TOKEN_SECRET),
		TTL:          12 * time.Hour,
		PasswordHash: configuration.ADMIN_PASSWORD_HASH,
		Password:     configuration.ADMIN_PASSWORD,
	}

	e := echo.New()
	e.Pre(middleware.RemoveTrailingSlash())
	e.Use(middleware.Recover(), middleware.RequestID())
	e.Use(logging.RequestLogger(logger))

	deps := httpserver.Deps{
		DB:            db,
		AuthHandler:   &handlers.AuthHandler{Admin: admin},
		UserHandler:   &handlers.UserHandler{DB: db, Store: store, Admin: admin},
		RoomHandler:   &handlers.RoomHandler{DB: db, Producer: prod, Search: indexer},
		ItemHandler:   &handlers.ItemHandler{DB: db, Producer: prod, Search: indexer},
		StreamHandler: &handlers.StreamHandler{Brokers: configuration.KAFKA_BROKERS, Debounce: configuration.FEED_DEBOUNCE},
		SearchHandler: &searchHandler,
		Admin:         admin,
	}

	httpserver.Register(e, &deps)

	// no WriteTimeout: the /events SSE stream stays open indefinitely
	srv := &http.Server{
		Addr:        ":" + configuration.PORT,
		Handler:     e,
		ReadTimeout: 10 * time.Second,
		IdleTimeout: 60 * time.Second,
	}
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Printf("http server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	<-quit

	log.Println("shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("server shutdown error: %v", err)
	}

	if sqlDB, err := db.DB(); err == nil {
		if err := sqlDB.Close(); err != nil {
			log.Printf("db close error: %v", err)
		}
	} else {
		log.Printf("db() error: %v", err)
	}

	if err := prod.Close(); err != nil {
		log.Printf("kafka close error: %v", err)
	}

	log.Println("shutdown complete")
}
