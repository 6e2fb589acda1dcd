package ports

import (
	"context"
	"encoding/json"

	"github.com/rgtools/partner-admin/internal/core/domain"
)

// CreateDomainInput carries the admin's create-domain request.
type CreateDomainInput struct {
	DomainName     string
	PartnerName    string
	CustomHostname string
}

type DomainService interface {
	Create(ctx context.Context, in CreateDomainInput) (*domain.DomainRecord, error)
	List(ctx context.Context) ([]json.RawMessage, error)
	Update(ctx context.Context, domainID string, patch map[string]any) (map[string]any, error)
	Delete(ctx context.Context, domainID string) error
}
