package main

import (
	"context"
	"github.com/ariefcatur/go-parts-shop/internal/cart"
	"github.com/ariefcatur/go-parts-shop/internal/catalog"
	"github.com/ariefcatur/go-parts-shop/internal/config"
	"github.com/ariefcatur/go-parts-shop/internal/events"
	"github.com/ariefcatur/go-parts-shop/internal/httpx"
	kafkax "github.com/ariefcatur/go-parts-shop/internal/kafka"
	"github.com/ariefcatur/go-parts-shop/internal/postgres"
	"github.com/ariefcatur/go-parts-shop/internal/redisx"
	"github.com/joho/godotenv"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
)

func main() {
	_ = godotenv.Load()

	cfg := config.Load()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Catalog source
	var src catalog.Source
	switch cfg.CatalogSource {
	case "postgres":
		db, err := postgres.Connect(ctx, cfg.PostgresDSN)
		if err != nil {
			log.Fatalf("db connect: %v", err)
		}
		defer db.Close()
		src = catalog.PostgresSource{DB: db}
	case "file":
		src = catalog.FileSource{Path: cfg.CatalogPath}
	default:
		log.Fatalf("unknown CATALOG_SOURCE %q", cfg.CatalogSource)
	}
	if cfg.CatalogRedis {
		rdb := redisx.New(cfg.RedisAddr)
		defer rdb.Close()
		src = catalog.RedisCache{Source: src, Redis: rdb, TTL: cfg.CatalogRedisTTL}
	}
	loader := catalog.NewLoader(src, catalog.WithCache(cfg.CatalogCache))

	// warm up; a broken catalog is reported per request, not fatal at boot
	if ps, err := loader.Load(ctx); err != nil {
		log.Printf("catalog not loaded: %v", err)
	} else {
		log.Printf("catalog ready: %d parts (%s)", len(ps), src.Name())
	}

	// Cart events
	var listeners []cart.Listener
	var prod *kafkax.Producer
	if cfg.CartEvents {
		prod = kafkax.NewProducer(cfg.KafkaBrokers, events.TopicCartItemAdded, 1024)
		prod.Start(ctx)
		pub := &events.CartPublisher{Producer: prod, Service: cfg.ServiceName}
		listeners = append(listeners, pub.Listen)
	}

	router := httpx.NewRouter()
	sh := &httpx.ShopHandler{
		Catalog: loader,
		Carts:   cart.NewStore(listeners...),
	}
	sh.Register(router)

	// HTTP server
	srv := &http.Server{Addr: cfg.HTTPAddr, Handler: router}

	// graceful shutdown
	go func() {
		log.Printf("HTTP listening at %s", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %v", err)
		}
	}()

	// wait signal
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig
	log.Println("shutting down...")

	ctx2, cancel2 := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel2()
	_ = srv.Shutdown(ctx2)
	if prod != nil {
		prod.Close() // flush queued cart events
		prod.WaitClosed()
	}
}
