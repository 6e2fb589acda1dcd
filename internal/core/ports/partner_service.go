package ports

import (
	"context"
	"encoding/json"
)

// CreatePartnerInput carries the admin's create-partner request.
type CreatePartnerInput struct {
	PartnerName string
	Username    string
	Email       string
	Password    string
	Whitelabel  bool
	Color       string
}

// DNSValidation is the outcome of a partner subdomain check. Lookup failures
// are reported here rather than as errors.
type DNSValidation struct {
	Valid     bool
	Addresses []string
	Error     string
}

type PartnerService interface {
	Create(ctx context.Context, in CreatePartnerInput) (subdomain string, err error)
	List(ctx context.Context) ([]json.RawMessage, error)
	ValidateDNS(ctx context.Context, partnerID string) (*DNSValidation, error)
}
