// Package dns resolves partner subdomains for DNS validation.
package dns

import (
	"context"
	"errors"
	"net"
	"strings"

	"github.com/rgtools/partner-admin/internal/core/ports"
)

// Resolver answers "any record" lookups by combining the CNAME target with
// the A and AAAA records of a host.
type Resolver struct {
	r *net.Resolver
}

var _ ports.DNSResolver = (*Resolver)(nil)

// NewResolver wraps r, or the pure-Go default resolver when r is nil.
func NewResolver(r *net.Resolver) *Resolver {
	if r == nil {
		r = &net.Resolver{PreferGo: true}
	}
	return &Resolver{r: r}
}

// ResolveAny returns records formatted as "<TYPE> <value>". A host without
// records yields an empty slice; other lookup failures are returned.
func (r *Resolver) ResolveAny(ctx context.Context, host string) ([]string, error) {
	var records []string

	if cname, err := r.r.LookupCNAME(ctx, host); err == nil && !sameName(cname, host) {
		records = append(records, "CNAME "+cname)
	}

	addrs, err := r.r.LookupHost(ctx, host)
	if err != nil {
		var dnsErr *net.DNSError
		if len(records) > 0 || (errors.As(err, &dnsErr) && dnsErr.IsNotFound && !dnsErr.IsTemporary) {
			return records, nil
		}
		return nil, err
	}

	for _, a := range addrs {
		records = append(records, addressRecord(a))
	}
	return records, nil
}

func addressRecord(addr string) string {
	if ip := net.ParseIP(addr); ip != nil && ip.To4() == nil {
		return "AAAA " + addr
	}
	return "A " + addr
}

func sameName(a, b string) bool {
	return strings.EqualFold(strings.TrimSuffix(a, "."), strings.TrimSuffix(b, "."))
}
