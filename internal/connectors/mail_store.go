package connectors

import (
	"crypto/sha256"
	"encoding/hex"
	"os"
	"path/filepath"

	"shoplist/internal"
	"shoplist/internal/storage"
)

// MailStoreService writes raw messages to disk, addressed by content hash,
// and records them as meal plans.
type MailStoreService struct {
	db         *storage.DB
	rawMailDir string
}

func NewMailStoreService(db *storage.DB, rawMailDir string) *MailStoreService {
	return &MailStoreService{db: db, rawMailDir: rawMailDir}
}

// Store saves msg. A known message whose content changed is queued for
// processing again.
func (s *MailStoreService) Store(msg internal.FetchedMailMessage) (internal.PlanRow, error) {
	hashBytes := sha256.Sum256(msg.Raw)
	hash := hex.EncodeToString(hashBytes[:])

	if err := os.MkdirAll(s.rawMailDir, 0o755); err != nil {
		return internal.PlanRow{}, err
	}

	rawPath := filepath.Join(s.rawMailDir, hash+".eml")
	if _, err := os.Stat(rawPath); os.IsNotExist(err) {
		if err := os.WriteFile(rawPath, msg.Raw, 0o644); err != nil {
			return internal.PlanRow{}, err
		}
	}

	previous, err := s.db.GetPlanByProviderMessageID(msg.Provider, msg.MessageID)
	if err != nil {
		return internal.PlanRow{}, err
	}

	plan, err := s.db.UpsertPlan(msg.Provider, msg.MessageID, msg.Subject, msg.From, msg.ReceivedAt, hash, rawPath, storage.PlanStatusFetched)
	if err != nil {
		return internal.PlanRow{}, err
	}
	if previous != nil && previous.Hash != hash && plan.Status != storage.PlanStatusFetched {
		if err := s.db.UpdatePlanStatus(plan.ID, storage.PlanStatusFetched); err != nil {
			return internal.PlanRow{}, err
		}
		plan.Status = storage.PlanStatusFetched
	}
	return plan, nil
}
