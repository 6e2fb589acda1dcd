package ports

import (
	"context"

	"github.com/rgtools/partner-admin/internal/core/domain"
)

// HostnameProvisioner manages custom hostnames on the edge network.
type HostnameProvisioner interface {
	CreateHostname(ctx context.Context, fqdn string) (*domain.CustomHostname, error)
	DeleteHostname(ctx context.Context, providerID string) error
}

// DNSResolver looks up any record published for a hostname.
type DNSResolver interface {
	ResolveAny(ctx context.Context, host string) ([]string, error)
}
