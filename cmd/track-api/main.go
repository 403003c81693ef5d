package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/BearBump/TrackGate/config"
	"github.com/BearBump/TrackGate/internal/api/trackhttp"
	"github.com/BearBump/TrackGate/internal/broker/kafka"
	"github.com/BearBump/TrackGate/internal/cache/rediscache"
	"github.com/BearBump/TrackGate/internal/services/tracksvc"
	"github.com/BearBump/TrackGate/internal/tracker/registry"
)

func main() {
	cfg, err := config.LoadConfig(os.Getenv("configPath"))
	if err != nil {
		panic(fmt.Sprintf("ошибка парсинга конфига, %v", err))
	}

	httpAddr := cfg.TrackGate.HTTPAddr
	if httpAddr == "" {
		httpAddr = ":8080"
	}
	topic := cfg.Kafka.TrackingCheckedTopicName
	if topic == "" {
		topic = "tracking.checked"
	}
	resultTTL := time.Duration(cfg.TrackGate.ResultTTLSeconds) * time.Second
	if resultTTL <= 0 {
		resultTTL = 10 * time.Minute
	}
	rateLimit := cfg.TrackGate.RateLimitPerMinute
	if rateLimit <= 0 {
		rateLimit = 60
	}

	reg := registry.New(registry.Options{BaseURLs: cfg.TrackGate.CarrierBaseURLs})

	var cache tracksvc.BytesCache
	var limiter trackhttp.Limiter
	if cfg.Redis.Host != "" {
		redisAddr := fmt.Sprintf("%s:%d", cfg.Redis.Host, cfg.Redis.Port)
		cache = rediscache.New(redisAddr)
		limiter = rediscache.NewRateLimiter(redisAddr)
	}

	var producer tracksvc.Publisher
	if cfg.Kafka.Host != "" {
		brokers := []string{fmt.Sprintf("%s:%d", cfg.Kafka.Host, cfg.Kafka.Port)}
		producer = kafka.NewProducer(brokers)
	}

	svc := tracksvc.New(reg, cache, producer, topic, resultTTL)
	api := trackhttp.New(svc, limiter, rateLimit)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := runApp(ctx, appOpts{httpAddr: httpAddr}, api.Router()); err != nil && err != context.Canceled {
		panic(err)
	}
}
