package pipeline

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"shoplist/internal"
	"shoplist/internal/config"
	"shoplist/internal/storage"
)

type ProcessingService struct {
	db  *storage.DB
	cfg config.Config
	log *zap.Logger
}

func NewProcessingService(db *storage.DB, cfg config.Config, log *zap.Logger) *ProcessingService {
	if log == nil {
		log = zap.NewNop()
	}
	return &ProcessingService{db: db, cfg: cfg, log: log}
}

type ProcessResult struct {
	PlanID  int
	TraceID string
	Status  string
	Items   int
	Priced  int
}

func (s *ProcessingService) ProcessByProviderMessageID(provider, messageID string) (ProcessResult, error) {
	plan, err := s.db.MustPlanByProviderMessageID(provider, messageID)
	if err != nil {
		return ProcessResult{}, err
	}
	return s.ProcessPlan(plan)
}

func (s *ProcessingService) ProcessByID(planID int) (ProcessResult, error) {
	plan, err := s.db.GetPlanByID(planID)
	if err != nil {
		return ProcessResult{}, err
	}
	if plan == nil {
		return ProcessResult{}, fmt.Errorf("plan not found: id=%d", planID)
	}
	return s.ProcessPlan(*plan)
}

// ProcessPending processes up to limit fetched plans, optionally restricted
// to one provider. It returns the number of plans and list items processed.
// A plan that fails is marked failed and logged; the batch goes on.
func (s *ProcessingService) ProcessPending(limit int, provider string) (int, int, error) {
	pending, err := s.db.ListPlansByStatus(storage.PlanStatusFetched, limit)
	if err != nil {
		return 0, 0, err
	}
	processedPlans := 0
	processedItems := 0
	for _, plan := range pending {
		if provider != "" && plan.Provider != provider {
			continue
		}
		res, err := s.ProcessPlan(plan)
		if err != nil {
			s.log.Error("plan processing failed", zap.Int("planId", plan.ID), zap.String("messageId", plan.MessageID), zap.Error(err))
			continue
		}
		processedPlans++
		processedItems += res.Items
	}
	return processedPlans, processedItems, nil
}

func (s *ProcessingService) ProcessPlan(plan internal.PlanRow) (ProcessResult, error) {
	traceID := uuid.NewString()
	log := s.log.With(zap.String("traceId", traceID), zap.Int("planId", plan.ID))
	timings := map[string]float64{}
	start := time.Now()

	raw, err := os.ReadFile(plan.RawRef)
	if err != nil {
		_ = s.db.UpdatePlanStatus(plan.ID, storage.PlanStatusFailed)
		return ProcessResult{}, fmt.Errorf("read raw message %s: %w", plan.RawRef, err)
	}

	step := time.Now()
	entries, subject, text, attachmentNames, err := ExtractSummariesFromEmailRaw(raw)
	if err != nil {
		_ = s.db.UpdatePlanStatus(plan.ID, storage.PlanStatusFailed)
		return ProcessResult{}, fmt.Errorf("extract plan %d: %w", plan.ID, err)
	}
	timings["extractMs"] = msSince(step)

	if err := s.db.ReplaceSummaries(plan.ID, entries); err != nil {
		return ProcessResult{}, err
	}

	detect := DetectMealPlan(firstNonEmpty(subject, plan.Subject), text, len(entries), attachmentNames)
	if !detect.IsMealPlan {
		if err := s.db.UpdatePlanStatus(plan.ID, storage.PlanStatusSkipped); err != nil {
			return ProcessResult{}, err
		}
		timings["totalMs"] = msSince(start)
		s.recordRun(log, traceID, plan.ID, timings, map[string]int{"summaries": len(entries), "items": 0, "priced": 0})
		log.Info("plan skipped", zap.Float64("score", detect.Score), zap.String("reason", detect.Reason))
		return ProcessResult{PlanID: plan.ID, TraceID: traceID, Status: storage.PlanStatusSkipped}, nil
	}

	step = time.Now()
	items := BuildShoppingListFromEntries(entries)
	timings["buildMs"] = msSince(step)

	step = time.Now()
	prices, err := s.db.ListPrices()
	if err != nil {
		return ProcessResult{}, err
	}
	priced := NewPriceMatcher(s.cfg.PriceMatchThreshold, prices).EnrichPrices(items)
	timings["priceMs"] = msSince(step)

	if err := s.db.ReplaceListItems(plan.ID, items); err != nil {
		return ProcessResult{}, err
	}
	if err := s.db.UpdatePlanStatus(plan.ID, storage.PlanStatusProcessed); err != nil {
		return ProcessResult{}, err
	}

	counts := map[string]int{"summaries": len(entries), "items": len(items), "priced": priced}
	for _, item := range items {
		counts["aisle."+item.Category]++
	}
	timings["totalMs"] = msSince(start)
	s.recordRun(log, traceID, plan.ID, timings, counts)

	log.Info("plan processed",
		zap.Int("summaries", len(entries)),
		zap.Int("items", len(items)),
		zap.Int("priced", priced),
		zap.Float64("totalMs", timings["totalMs"]),
	)
	return ProcessResult{PlanID: plan.ID, TraceID: traceID, Status: storage.PlanStatusProcessed, Items: len(items), Priced: priced}, nil
}

func (s *ProcessingService) recordRun(log *zap.Logger, traceID string, planID int, timings map[string]float64, counts map[string]int) {
	if err := s.db.InsertRun(traceID, planID, timings, counts); err != nil {
		log.Warn("record run failed", zap.Error(err))
	}
}

func msSince(t time.Time) float64 {
	return float64(time.Since(t).Microseconds()) / 1000
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
