package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/rgtools/partner-admin/internal/core/domain"
	"github.com/rgtools/partner-admin/internal/core/ports"
)

// domainListPrefix is the prefix enumerated by List. Admin clients of the
// domains listing read partner configs from it, so it is not DomainPrefix.
const domainListPrefix = domain.PartnerPrefix

// DomainService manages admin-created domains and their custom hostnames.
type DomainService struct {
	store     ports.RecordStore
	hostnames ports.HostnameProvisioner
	suffix    string
	log       zerolog.Logger
	now       func() time.Time
	newID     func() string
}

func NewDomainService(store ports.RecordStore, hostnames ports.HostnameProvisioner, suffix string, log zerolog.Logger) *DomainService {
	return &DomainService{
		store:     store,
		hostnames: hostnames,
		suffix:    suffix,
		log:       log,
		now:       time.Now,
		newID:     uuid.NewString,
	}
}

// Create provisions <domainName>.<suffix> and stores the domain record. The
// hostname is removed again if the record cannot be written.
func (s *DomainService) Create(ctx context.Context, in ports.CreateDomainInput) (*domain.DomainRecord, error) {
	if in.DomainName == "" || in.PartnerName == "" {
		return nil, domain.ErrValidation
	}

	fqdn := domain.Subdomain(in.DomainName, s.suffix)
	hostname, err := s.hostnames.CreateHostname(ctx, fqdn)
	if err != nil {
		return nil, fmt.Errorf("create domain: provision %s: %w", fqdn, err)
	}

	record := &domain.DomainRecord{
		ID:             s.newID(),
		Name:           in.DomainName,
		PartnerID:      in.PartnerName,
		CreatedAt:      s.now().UTC().Format(time.RFC3339Nano),
		CustomHostname: in.CustomHostname,
		CloudflareID:   hostname.ID,
		Status:         domain.DomainStatusActive,
	}
	if record.CustomHostname == "" {
		record.CustomHostname = fqdn
	}

	if err := putJSON(ctx, s.store, domain.DomainKey(record.ID), record); err != nil {
		if delErr := s.hostnames.DeleteHostname(ctx, hostname.ID); delErr != nil {
			s.log.Error().Err(delErr).Str("hostname_id", hostname.ID).Msg("failed to roll back custom hostname")
		}
		return nil, fmt.Errorf("create domain: %w", err)
	}

	s.log.Info().Str("domain_id", record.ID).Str("hostname", fqdn).Msg("domain created")
	return record, nil
}

func (s *DomainService) List(ctx context.Context) ([]json.RawMessage, error) {
	domains, err := fetchRecords(ctx, s.store, domainListPrefix, s.log)
	if err != nil {
		return nil, fmt.Errorf("list domains: %w", err)
	}
	return domains, nil
}

func (s *DomainService) Update(ctx context.Context, domainID string, patch map[string]any) (map[string]any, error) {
	merged, err := mergeRecord(ctx, s.store, domain.DomainKey(domainID), patch)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("domain %s: %w", domainID, err)
		}
		return nil, fmt.Errorf("update domain: %w", err)
	}
	return merged, nil
}

// Delete removes the custom hostname from the edge provider, then overwrites
// the record with an empty value.
func (s *DomainService) Delete(ctx context.Context, domainID string) error {
	key := domain.DomainKey(domainID)
	raw, err := s.store.Get(ctx, key)
	if err != nil {
		return fmt.Errorf("delete domain: %w", err)
	}
	if raw == tombstone {
		return fmt.Errorf("domain %s: %w", domainID, domain.ErrNotFound)
	}

	var record domain.DomainRecord
	if err := json.Unmarshal([]byte(raw), &record); err != nil {
		return fmt.Errorf("delete domain: decode %q: %w", key, err)
	}

	if record.CloudflareID == "" {
		s.log.Warn().Str("domain_id", domainID).Msg("domain has no custom hostname id")
	} else if err := s.hostnames.DeleteHostname(ctx, record.CloudflareID); err != nil {
		return fmt.Errorf("delete domain: remove hostname: %w", err)
	}

	if err := s.store.Put(ctx, key, tombstone); err != nil {
		return fmt.Errorf("delete domain: %w", err)
	}
	s.log.Info().Str("domain_id", domainID).Msg("domain deleted")
	return nil
}
