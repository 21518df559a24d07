package main

import (
	"context"
	"github.com/ariefcatur/go-parts-shop/internal/audit"
	"github.com/ariefcatur/go-parts-shop/internal/config"
	"github.com/ariefcatur/go-parts-shop/internal/events"
	kafkax "github.com/ariefcatur/go-parts-shop/internal/kafka"
	"github.com/ariefcatur/go-parts-shop/internal/redisx"
	"github.com/joho/godotenv"
	"log"
	"os"
	"os/signal"
	"sort"
	"syscall"
	"time"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Redis
	rdb := redisx.New(cfg.RedisAddr)
	defer rdb.Close()

	svc := &audit.Service{
		Redis:       rdb,
		ServiceName: cfg.ServiceName + "-audit",
	}

	cons := kafkax.NewConsumer(cfg.KafkaBrokers, cfg.AuditGroup, events.TopicCartItemAdded, cfg.AuditWorkers)

	done := make(chan struct{})
	go func() {
		defer close(done)
		log.Printf("cart audit consumer started: group=%s topic=%s workers=%d", cfg.AuditGroup, events.TopicCartItemAdded, cfg.AuditWorkers)
		if err := cons.Start(ctx, svc.HandleCartItemAdded); err != nil {
			log.Printf("consumer exit: %v", err)
			cancel()
		}
	}()

	// periodic summary
	go func() {
		t := time.NewTicker(time.Minute)
		defer t.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-t.C:
				report(ctx, svc)
			}
		}
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-sig:
	case <-ctx.Done():
	}
	log.Println("shutting down consumer...")
	cancel()
	<-done
	report(context.Background(), svc)
}

func report(ctx context.Context, svc *audit.Service) {
	counts, err := svc.Counts(ctx)
	if err != nil {
		log.Printf("audit counts: %v", err)
		return
	}
	ids := make([]int, 0, len(counts))
	for id := range counts {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	total, _ := svc.Total(ctx)
	log.Printf("cart adds: total=%d parts=%d", total, len(ids))
	for _, id := range ids {
		log.Printf("  part %d: %d", id, counts[id])
	}
}
