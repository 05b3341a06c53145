package pricing

import (
	"context"
	"time"

	"go.uber.org/zap"

	"shoplist/internal/config"
	"shoplist/internal/storage"
)

const (
	metaLastFullSync        = "prices.last_full_sync"
	metaLastIncrementalSync = "prices.last_incremental_sync"
)

// SyncService mirrors the remote price catalog into the local database.
type SyncService struct {
	db     *storage.DB
	client *Client
	cfg    config.Config
	log    *zap.Logger
}

func NewSyncService(db *storage.DB, cfg config.Config, log *zap.Logger) *SyncService {
	return &SyncService{db: db, client: NewClient(cfg), cfg: cfg, log: log}
}

func (s *SyncService) FullSync(ctx context.Context) (int, error) {
	start := time.Now()
	prices, err := s.client.ListAll(ctx)
	if err != nil {
		return 0, err
	}
	if err := s.db.UpsertPrices(prices); err != nil {
		return 0, err
	}
	_ = s.db.SetMetadata(metaLastFullSync, time.Now().UTC().Format(time.RFC3339))
	s.log.Info("price catalog synced", zap.String("mode", "full"), zap.Int("prices", len(prices)), zap.Duration("took", time.Since(start)))
	return len(prices), nil
}

// IncrementalSync pulls prices updated since the last sync. Without a
// previous sync, or when the last one is older than the configured lookback,
// it runs a full sync instead.
func (s *SyncService) IncrementalSync(ctx context.Context) (int, error) {
	last, err := s.lastSync()
	if err != nil {
		return 0, err
	}
	if last.IsZero() {
		return s.FullSync(ctx)
	}

	hours := int(time.Since(last).Hours()) + 1
	if hours > s.cfg.PriceIncrementalHours {
		s.log.Info("last price sync older than lookback, running full sync",
			zap.Time("lastSync", last), zap.Int("maxHours", s.cfg.PriceIncrementalHours))
		return s.FullSync(ctx)
	}

	prices, err := s.client.ListUpdated(ctx, hours)
	if err != nil {
		return 0, err
	}
	if len(prices) > 0 {
		if err := s.db.UpsertPrices(prices); err != nil {
			return 0, err
		}
	}
	_ = s.db.SetMetadata(metaLastIncrementalSync, time.Now().UTC().Format(time.RFC3339))
	s.log.Info("price catalog synced", zap.String("mode", "incremental"), zap.Int("hours", hours), zap.Int("prices", len(prices)))
	return len(prices), nil
}

func (s *SyncService) lastSync() (time.Time, error) {
	var latest time.Time
	for _, key := range []string{metaLastFullSync, metaLastIncrementalSync} {
		value, err := s.db.GetMetadata(key)
		if err != nil {
			return time.Time{}, err
		}
		if value == nil {
			continue
		}
		if parsed, err := time.Parse(time.RFC3339, *value); err == nil && parsed.After(latest) {
			latest = parsed
		}
	}
	return latest, nil
}
