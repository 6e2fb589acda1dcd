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

// ToplistService manages toplists. Every key is derived from the calling
// partner's id, so a partner can only reach its own records.
type ToplistService struct {
	store ports.RecordStore
	log   zerolog.Logger
	now   func() time.Time
	newID func() string
}

func NewToplistService(store ports.RecordStore, log zerolog.Logger) *ToplistService {
	return &ToplistService{store: store, log: log, now: time.Now, newID: uuid.NewString}
}

func (s *ToplistService) Create(ctx context.Context, in ports.CreateToplistInput) (*domain.ToplistConfig, error) {
	if in.PartnerID == "" || in.Type == "" || in.Departure == "" || in.Destination == "" {
		return nil, domain.ErrValidation
	}

	cfg := &domain.ToplistConfig{
		ID:          s.newID(),
		PartnerID:   in.PartnerID,
		Type:        in.Type,
		Departure:   in.Departure,
		Destination: in.Destination,
		Layout:      in.Layout,
		Color:       in.Color,
		Columns:     domain.DefaultColumns,
		CreatedAt:   s.now().UnixMilli(),
	}
	if cfg.Layout == "" {
		cfg.Layout = domain.DefaultLayout
	}
	if cfg.Color == "" {
		cfg.Color = domain.DefaultColor
	}
	if in.Columns != nil {
		cfg.Columns = *in.Columns
	}

	if err := putJSON(ctx, s.store, domain.ToplistKey(in.PartnerID, cfg.ID), cfg); err != nil {
		return nil, fmt.Errorf("create toplist: %w", err)
	}

	s.log.Info().Str("partner_id", in.PartnerID).Str("toplist_id", cfg.ID).Msg("toplist created")
	return cfg, nil
}

func (s *ToplistService) List(ctx context.Context, partnerID string) ([]json.RawMessage, error) {
	toplists, err := fetchRecords(ctx, s.store, domain.ToplistPartnerPrefix(partnerID), s.log)
	if err != nil {
		return nil, fmt.Errorf("list toplists: %w", err)
	}
	return toplists, nil
}

// Update merges patch into the stored toplist. Deleted toplists are not found.
func (s *ToplistService) Update(ctx context.Context, partnerID, toplistID string, patch map[string]any) (map[string]any, error) {
	merged, err := mergeRecord(ctx, s.store, domain.ToplistKey(partnerID, toplistID), patch)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("toplist %s: %w", toplistID, err)
		}
		return nil, fmt.Errorf("update toplist: %w", err)
	}
	return merged, nil
}

// Delete overwrites the toplist with an empty value. The key itself stays in
// the store.
func (s *ToplistService) Delete(ctx context.Context, partnerID, toplistID string) error {
	if err := s.store.Put(ctx, domain.ToplistKey(partnerID, toplistID), tombstone); err != nil {
		return fmt.Errorf("delete toplist: %w", err)
	}
	s.log.Info().Str("partner_id", partnerID).Str("toplist_id", toplistID).Msg("toplist deleted")
	return nil
}
