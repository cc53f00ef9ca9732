package interfaces

import (
	"context"

	"cleanwave/internal/models"
	"cleanwave/internal/utils"
)

// AlertRepository manages the single shared SOS slot plus the
// append-only history collection. SetLatest always replaces the whole
// document at the fixed key; concurrent triggers race and the last
// write wins.
type AlertRepository interface {
	// Latest slot
	SetLatest(ctx context.Context, alert *models.Alert) error
	GetLatest(ctx context.Context) (*models.Alert, error)
	UpdateLatest(ctx context.Context, updates map[string]interface{}) error

	// History
	AppendHistory(ctx context.Context, entry *models.AlertHistoryEntry) error
	ListHistory(ctx context.Context, params *utils.PaginationParams) ([]*models.AlertHistoryEntry, int64, error)
	CountHistory(ctx context.Context) (int64, error)
}
