package ports

import (
	"context"
	"encoding/json"

	"github.com/rgtools/partner-admin/internal/core/domain"
)

// CreateToplistInput carries a partner's new toplist. Zero values of the
// optional fields are replaced with defaults.
type CreateToplistInput struct {
	PartnerID   string
	Type        string
	Departure   string
	Destination string
	Layout      string
	Color       string
	Columns     *int
}

// ToplistService operates on toplists scoped to a single partner id.
type ToplistService interface {
	Create(ctx context.Context, in CreateToplistInput) (*domain.ToplistConfig, error)
	List(ctx context.Context, partnerID string) ([]json.RawMessage, error)
	Update(ctx context.Context, partnerID, toplistID string, patch map[string]any) (map[string]any, error)
	Delete(ctx context.Context, partnerID, toplistID string) error
}
