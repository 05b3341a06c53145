package listener

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"
	"unicode/utf8"

	"go.uber.org/zap"

	"shoplist/internal/config"
	"shoplist/internal/connectors"
	gmailconnector "shoplist/internal/connectors/gmail"
	imapconnector "shoplist/internal/connectors/imap"
	"shoplist/internal/pipeline"
	"shoplist/internal/storage"
)

// ConnectorFactory builds the mail connector for a provider name.
type ConnectorFactory func(ctx context.Context, provider string) (connectors.MailConnector, error)

type Service struct {
	db         *storage.DB
	cfg        config.Config
	log        *zap.Logger
	newConnect ConnectorFactory
}

func NewService(db *storage.DB, cfg config.Config, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	s := &Service{db: db, cfg: cfg, log: log}
	s.newConnect = s.makeConnector
	return s
}

// WithConnectorFactory replaces how mail connectors are built.
func (s *Service) WithConnectorFactory(f ConnectorFactory) *Service {
	s.newConnect = f
	return s
}

// Run repeats fetch, process and export cycles until ctx is cancelled.
// A failed cycle is logged and retried on the next tick.
func (s *Service) Run(ctx context.Context) error {
	interval := time.Duration(s.cfg.MailListenerIntervalSec) * time.Second
	if interval <= 0 {
		interval = time.Minute
	}
	s.log.Info("listener started",
		zap.String("provider", s.cfg.MailListenerProvider),
		zap.String("label", s.cfg.MailListenerLabel),
		zap.Duration("interval", interval),
	)

	for {
		if _, err := s.RunCycle(ctx); err != nil {
			if ctx.Err() != nil {
				return nil
			}
			s.log.Error("listener cycle failed", zap.Error(err))
		}

		select {
		case <-ctx.Done():
			s.log.Info("listener stopped")
			return nil
		case <-time.After(interval):
		}
	}
}

type CycleResult struct {
	Fetched   int
	Stored    int
	Processed int
	Exported  int
}

func (s *Service) RunCycle(ctx context.Context) (CycleResult, error) {
	provider := strings.ToLower(strings.TrimSpace(s.cfg.MailListenerProvider))
	mailConnector, err := s.newConnect(ctx, provider)
	if err != nil {
		return CycleResult{}, err
	}

	fetchService := connectors.NewFetchService(s.db, s.cfg.RawMailDir, mailConnector)
	fetchResult, err := fetchService.FetchAndStore(ctx, s.cfg.MailListenerLabel, s.cfg.MailListenerFetchMax)
	if err != nil {
		return CycleResult{}, err
	}

	processor := pipeline.NewProcessingService(s.db, s.cfg, s.log)
	processedPlans, _, err := processor.ProcessPending(s.cfg.MailListenerProcessBatch, provider)
	if err != nil {
		return CycleResult{}, err
	}

	exported := 0
	if s.cfg.MailListenerAutoExport {
		exported, err = s.exportProcessed(provider)
		if err != nil {
			return CycleResult{}, err
		}
	}

	res := CycleResult{Fetched: fetchResult.Fetched, Stored: fetchResult.Stored, Processed: processedPlans, Exported: exported}
	s.log.Info("listener cycle done",
		zap.String("provider", provider),
		zap.Int("fetched", res.Fetched),
		zap.Int("stored", res.Stored),
		zap.Int("processed", res.Processed),
		zap.Int("exported", res.Exported),
	)
	return res, nil
}

func (s *Service) exportProcessed(provider string) (int, error) {
	plans, err := s.db.ListPlansByStatus(storage.PlanStatusProcessed, 200)
	if err != nil {
		return 0, err
	}

	exported := 0
	for _, plan := range plans {
		if plan.Provider != provider {
			continue
		}
		items, err := s.db.GetListItems(plan.ID)
		if err != nil {
			return exported, err
		}
		if len(items) == 0 {
			continue
		}
		outputPath := filepath.Join(s.cfg.OutputDir, "listener", ExportFileName(plan.ID, plan.MessageID))
		if err := pipeline.ExportListToXLSX(items, outputPath); err != nil {
			return exported, fmt.Errorf("export plan %d: %w", plan.ID, err)
		}
		if err := s.db.UpdatePlanStatus(plan.ID, storage.PlanStatusExported); err != nil {
			return exported, err
		}
		exported++
		s.log.Debug("shopping list exported", zap.Int("planId", plan.ID), zap.String("path", outputPath))
	}
	return exported, nil
}

func (s *Service) makeConnector(ctx context.Context, provider string) (connectors.MailConnector, error) {
	return NewConnector(ctx, s.cfg, provider)
}

// NewConnector builds the mail connector for provider ("gmail" or "imap").
func NewConnector(ctx context.Context, cfg config.Config, provider string) (connectors.MailConnector, error) {
	switch strings.ToLower(strings.TrimSpace(provider)) {
	case gmailconnector.Provider:
		return gmailconnector.NewConnector(ctx, cfg)
	case imapconnector.Provider:
		return imapconnector.NewConnector(cfg)
	default:
		return nil, fmt.Errorf("unsupported listener provider: %s", provider)
	}
}

const maxExportNameBytes = 120

// ExportFileName builds a filesystem-safe name for a plan's list export.
func ExportFileName(planID int, messageID string) string {
	repl := strings.NewReplacer("<", "_", ">", "_", ":", "_", "/", "_", "\\", "_", "|", "_", "?", "_", "*", "_", " ", "_", "@", "_")
	out := strings.Trim(repl.Replace(messageID), "_")
	if len(out) > maxExportNameBytes {
		cut := maxExportNameBytes
		for cut > 0 && !utf8.RuneStart(out[cut]) {
			cut--
		}
		out = out[:cut]
	}
	return fmt.Sprintf("%d_%s.xlsx", planID, out)
}
