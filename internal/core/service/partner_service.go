package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/rgtools/partner-admin/internal/core/domain"
	"github.com/rgtools/partner-admin/internal/core/ports"
)

// PartnerService provisions partner accounts, their subdomains and configs.
type PartnerService struct {
	users     ports.UserRepository
	store     ports.RecordStore
	hostnames ports.HostnameProvisioner
	resolver  ports.DNSResolver
	suffix    string
	log       zerolog.Logger
	now       func() time.Time
}

func NewPartnerService(
	users ports.UserRepository,
	store ports.RecordStore,
	hostnames ports.HostnameProvisioner,
	resolver ports.DNSResolver,
	subdomainSuffix string,
	log zerolog.Logger,
) *PartnerService {
	return &PartnerService{
		users:     users,
		store:     store,
		hostnames: hostnames,
		resolver:  resolver,
		suffix:    subdomainSuffix,
		log:       log,
		now:       time.Now,
	}
}

// Create provisions <partnername>.<suffix>, registers the partner user and
// stores its config. A hostname created before a later step fails is removed
// again before the error is returned.
func (s *PartnerService) Create(ctx context.Context, in ports.CreatePartnerInput) (string, error) {
	if in.PartnerName == "" || in.Username == "" || in.Email == "" || in.Password == "" {
		return "", domain.ErrValidation
	}
	if !domain.IsDNSLabel(in.PartnerName) {
		return "", domain.ErrInvalidPartnerName
	}
	if in.Color == "" {
		in.Color = domain.DefaultColor
	}

	if err := s.ensureUnregistered(ctx, in); err != nil {
		return "", err
	}

	hash, err := HashPassword(in.Password)
	if err != nil {
		return "", err
	}

	subdomain := domain.Subdomain(in.PartnerName, s.suffix)
	hostname, err := s.hostnames.CreateHostname(ctx, subdomain)
	if err != nil {
		return "", fmt.Errorf("create partner: provision %s: %w", subdomain, err)
	}

	user := &domain.User{
		ID:           in.PartnerName,
		Username:     in.Username,
		Email:        in.Email,
		PasswordHash: hash,
		Role:         domain.RolePartner,
	}
	if err := s.users.Add(ctx, user); err != nil {
		s.releaseHostname(ctx, hostname, err)
		return "", fmt.Errorf("create partner: register user: %w", err)
	}

	cfg := domain.PartnerConfig{
		ID:         in.PartnerName,
		Username:   in.Username,
		Email:      in.Email,
		Whitelabel: in.Whitelabel,
		Color:      in.Color,
		Subdomain:  subdomain,
		CreatedAt:  s.now().UnixMilli(),
	}
	if err := putJSON(ctx, s.store, domain.PartnerKey(in.PartnerName), cfg); err != nil {
		s.releaseHostname(ctx, hostname, err)
		return "", fmt.Errorf("create partner: %w", err)
	}

	s.log.Info().Str("partner_id", in.PartnerName).Str("subdomain", subdomain).Msg("partner created")
	return subdomain, nil
}

// ensureUnregistered runs before any hostname is provisioned. The partner
// name is both the user id and the config key, so both must be free.
func (s *PartnerService) ensureUnregistered(ctx context.Context, in ports.CreatePartnerInput) error {
	lookups := []func() (*domain.User, error){
		func() (*domain.User, error) { return s.users.FindByID(ctx, in.PartnerName) },
		func() (*domain.User, error) { return s.users.FindByUsername(ctx, in.Username) },
		func() (*domain.User, error) { return s.users.FindByEmail(ctx, in.Email) },
	}
	for _, lookup := range lookups {
		if _, err := lookup(); err == nil {
			return domain.ErrUserExists
		} else if !errors.Is(err, domain.ErrUserNotFound) {
			return fmt.Errorf("create partner: %w", err)
		}
	}

	existing, err := s.store.Get(ctx, domain.PartnerKey(in.PartnerName))
	if err != nil {
		return fmt.Errorf("create partner: %w", err)
	}
	if existing != tombstone {
		return domain.ErrPartnerExists
	}
	return nil
}

// releaseHostname is the compensation for a failed create. Its own failure
// is only logged; the caller reports the original cause.
func (s *PartnerService) releaseHostname(ctx context.Context, hostname *domain.CustomHostname, cause error) {
	err := s.hostnames.DeleteHostname(ctx, hostname.ID)
	evt := s.log.Warn()
	if err != nil {
		evt = s.log.Error().AnErr("release_error", err)
	}
	evt.Err(cause).
		Str("hostname", hostname.Hostname).
		Str("hostname_id", hostname.ID).
		Bool("released", err == nil).
		Msg("rolled back custom hostname")
}

// List returns every stored partner config.
func (s *PartnerService) List(ctx context.Context) ([]json.RawMessage, error) {
	partners, err := fetchRecords(ctx, s.store, domain.PartnerPrefix, s.log)
	if err != nil {
		return nil, fmt.Errorf("list partners: %w", err)
	}
	return partners, nil
}

// ValidateDNS reports whether the partner's subdomain resolves to anything.
// Only a store failure is returned as an error.
func (s *PartnerService) ValidateDNS(ctx context.Context, partnerID string) (*ports.DNSValidation, error) {
	raw, err := s.store.Get(ctx, domain.PartnerKey(partnerID))
	if err != nil {
		return nil, fmt.Errorf("validate dns: %w", err)
	}
	if raw == tombstone {
		return &ports.DNSValidation{Error: "Partner not found"}, nil
	}

	var cfg domain.PartnerConfig
	if err := json.Unmarshal([]byte(raw), &cfg); err != nil || cfg.Subdomain == "" {
		return &ports.DNSValidation{Error: "No subdomain"}, nil
	}

	addresses, err := s.resolver.ResolveAny(ctx, cfg.Subdomain)
	if err != nil {
		return &ports.DNSValidation{Error: err.Error()}, nil
	}
	if len(addresses) == 0 {
		return &ports.DNSValidation{Error: "No DNS records found"}, nil
	}
	return &ports.DNSValidation{Valid: true, Addresses: addresses}, nil
}
