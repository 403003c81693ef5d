package tracksvc

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/BearBump/TrackGate/internal/broker/messages"
	"github.com/BearBump/TrackGate/internal/tracker"
)

type BytesCache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

type Publisher interface {
	Publish(ctx context.Context, topic string, key, value []byte) error
}

// Registry — то, что сервису нужно от реестра перевозчиков.
type Registry interface {
	Track(ctx context.Context, carrierID, trackingNumber string) tracker.TrackInfo
	SupportedCarriers() []tracker.CarrierInfo
	AllCarriers() []tracker.CarrierInfo
	IsSupported(carrierID string) bool
	CarrierByID(carrierID string) *tracker.CarrierInfo
	PredictCarriers(trackingNumber string) []tracker.CarrierInfo
}

// Service оборачивает реестр кэшем и публикацией событий.
// Кэш и брокер — лучшее усилие: их недоступность не ломает трекинг.
type Service struct {
	reg   Registry
	cache BytesCache

	producer Publisher
	topic    string

	resultTTL time.Duration

	now func() time.Time
}

func New(reg Registry, cache BytesCache, producer Publisher, topic string, resultTTL time.Duration) *Service {
	return &Service{
		reg:       reg,
		cache:     cache,
		producer:  producer,
		topic:     topic,
		resultTTL: resultTTL,
		now:       time.Now,
	}
}

// Ключ нормализуется, чтобы "cj" и "CJ" попадали в одну запись.
func cacheKey(carrierID, trackingNumber string) string {
	return fmt.Sprintf("track:current:%s:%s",
		strings.ToUpper(strings.TrimSpace(carrierID)),
		tracker.CleanNumber(trackingNumber))
}

// Track отдаёт кэшированный результат, если он ещё жив, иначе идёт к
// перевозчику. Кэшируются только удачные ответы: ошибка бэкенда не
// должна залипать на весь TTL.
func (s *Service) Track(ctx context.Context, carrierID, trackingNumber string) tracker.TrackInfo {
	key := cacheKey(carrierID, trackingNumber)

	if s.cache != nil && s.resultTTL > 0 {
		if b, ok, err := s.cache.Get(ctx, key); err == nil && ok {
			var cached tracker.TrackInfo
			if json.Unmarshal(b, &cached) == nil {
				return cached
			}
		}
	}

	info := s.reg.Track(ctx, carrierID, trackingNumber)

	if info.Success && s.cache != nil && s.resultTTL > 0 {
		if b, err := json.Marshal(info); err == nil {
			if err := s.cache.Set(ctx, key, b, s.resultTTL); err != nil {
				slog.Warn("tracking cache set failed", "key", key, "err", err)
			}
		}
	}

	s.publishChecked(ctx, info)
	return info
}

func (s *Service) publishChecked(ctx context.Context, info tracker.TrackInfo) {
	if s.producer == nil || s.topic == "" {
		return
	}

	msg := messages.TrackingChecked{
		CarrierID:      info.Carrier.ID,
		TrackingNumber: info.TrackingNumber,
		CheckedAt:      s.now().UTC(),
		Success:        info.Success,
	}
	if last := info.LastEvent(); last != nil {
		msg.Status = string(last.Status.Code)
	}
	if !info.Success {
		msg.Error = &info.Error
	}

	b, err := json.Marshal(msg)
	if err != nil {
		return
	}
	key := []byte(fmt.Sprintf("%s:%s", msg.CarrierID, msg.TrackingNumber))
	if err := s.producer.Publish(ctx, s.topic, key, b); err != nil {
		slog.Warn("tracking.checked publish failed", "carrier", msg.CarrierID, "err", err)
	}
}

func (s *Service) SupportedCarriers() []tracker.CarrierInfo {
	return s.reg.SupportedCarriers()
}

func (s *Service) AllCarriers() []tracker.CarrierInfo {
	return s.reg.AllCarriers()
}

func (s *Service) IsSupported(carrierID string) bool {
	return s.reg.IsSupported(carrierID)
}

func (s *Service) CarrierByID(carrierID string) *tracker.CarrierInfo {
	return s.reg.CarrierByID(carrierID)
}

func (s *Service) PredictCarriers(trackingNumber string) []tracker.CarrierInfo {
	return s.reg.PredictCarriers(trackingNumber)
}
