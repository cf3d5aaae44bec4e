package main

import (
	"context"
	"encoding/json"
	"math/rand"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/go-chi/chi/v5"
	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/TemirB/shopping-cart/internal/config"
	"github.com/TemirB/shopping-cart/internal/jobs"
	"github.com/TemirB/shopping-cart/internal/kafka"
)

// Spammer floods the job topic with add-item jobs for load testing the
// consumers. Nobody waits on these jobs.
type Spammer struct {
	writer    *kafkago.Writer
	transport *jobs.KafkaTransport
	names     []string
	logger    *zap.Logger

	isRunning atomic.Bool
	totalSent atomic.Int64
	failed    atomic.Int64
	wg        sync.WaitGroup

	mu     sync.Mutex
	cancel context.CancelFunc
}

type SpamRequest struct {
	Rate     int    `json:"rate"`
	Duration string `json:"duration"`
}

func NewSpammer(cfg config.Kafka, names []string, logger *zap.Logger) *Spammer {
	w := kafka.NewWriter(cfg)
	return &Spammer{
		writer:    w,
		transport: jobs.NewKafkaTransport(w, logger),
		names:     names,
		logger:    logger,
	}
}

func (s *Spammer) StartSpam(rate int, duration time.Duration) {
	if !s.isRunning.CompareAndSwap(false, true) {
		return
	}
	s.totalSent.Store(0)
	s.failed.Store(0)

	ctx, cancel := context.WithTimeout(context.Background(), duration)
	s.mu.Lock()
	s.cancel = cancel
	s.mu.Unlock()

	s.logger.Info("starting spam", zap.Int("rate", rate), zap.Duration("duration", duration))

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		defer s.isRunning.Store(false)
		defer cancel()

		ticker := time.NewTicker(time.Second / time.Duration(rate))
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				job, err := jobs.NewAddItem(s.names[rand.Intn(len(s.names))], 1+rand.Intn(5))
				if err != nil {
					s.failed.Add(1)
					continue
				}
				job.EnqueuedAt = time.Now()
				if err := s.transport.Publish(ctx, job); err != nil {
					s.failed.Add(1)
					continue
				}
				s.totalSent.Add(1)
			case <-ctx.Done():
				s.logger.Info("spam finished",
					zap.Int64("total_sent", s.totalSent.Load()),
					zap.Int64("failed", s.failed.Load()),
				)
				return
			}
		}
	}()
}

func (s *Spammer) StopSpam() {
	s.mu.Lock()
	cancel := s.cancel
	s.mu.Unlock()
	if cancel != nil {
		cancel()
	}
	s.wg.Wait()
}

func (s *Spammer) Close() {
	s.StopSpam()
	_ = s.writer.Close()
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

func main() {
	cfg := config.Load()
	logger, err := zap.NewDevelopment()
	if err != nil {
		panic(err)
	}
	defer func() { _ = logger.Sync() }()

	if len(cfg.Kafka.Brokers) == 0 {
		cfg.Kafka.Brokers = []string{"kafka:9092"}
	}
	names := make([]string, 0, len(cfg.Seed))
	for _, it := range cfg.Seed {
		names = append(names, it.Name)
	}
	if len(names) == 0 {
		logger.Fatal("MARKET_SEED is empty, nothing to add")
	}

	spammer := NewSpammer(cfg.Kafka, names, logger)
	defer spammer.Close()

	r := chi.NewRouter()
	r.Post("/start", func(w http.ResponseWriter, r *http.Request) {
		var req SpamRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "Invalid JSON", http.StatusBadRequest)
			return
		}
		if req.Rate <= 0 {
			req.Rate = 10
		}
		if req.Rate > 1000 {
			req.Rate = 1000
		}
		duration, err := time.ParseDuration(req.Duration)
		if err != nil || duration <= 0 {
			http.Error(w, "Invalid duration format", http.StatusBadRequest)
			return
		}

		spammer.StartSpam(req.Rate, duration)
		writeJSON(w, map[string]any{
			"status":   "started",
			"rate":     req.Rate,
			"duration": duration.String(),
		})
	})
	r.Post("/stop", func(w http.ResponseWriter, r *http.Request) {
		spammer.StopSpam()
		writeJSON(w, map[string]any{
			"status":     "stopped",
			"total_sent": spammer.totalSent.Load(),
		})
	})
	r.Get("/stats", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, map[string]any{
			"is_running": spammer.isRunning.Load(),
			"total_sent": spammer.totalSent.Load(),
			"failed":     spammer.failed.Load(),
		})
	})

	addr := ":8082"
	logger.Info("spammer listening", zap.String("addr", addr), zap.String("topic", cfg.Kafka.Topic))
	if err := http.ListenAndServe(addr, r); err != nil {
		logger.Fatal("listen", zap.Error(err))
	}
}
