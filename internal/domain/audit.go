package domain

import (
	"context"

	"github.com/Lahiru-2000/inventory-management-system/internal/core/id"
)

// Auditor records document lifecycle events.
// The PostgreSQL implementation lives in infrastructure/storage/postgres.
type Auditor interface {
	// Record appends one audit entry for an entity.
	Record(ctx context.Context, entityType string, entityID id.ID, action string, changes map[string]any) error
}
