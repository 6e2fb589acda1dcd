package service

import (
	"context"
	"errors"
	"sort"
	"strings"

	"github.com/rgtools/partner-admin/internal/core/domain"
)

// ---------------------------------------------------------------------------
// In-memory stubs
// ---------------------------------------------------------------------------

type stubUserRepo struct {
	users  map[string]*domain.User // by id
	addErr error
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{users: make(map[string]*domain.User)}
}

func cloneUser(u *domain.User) *domain.User {
	clone := *u
	return &clone
}

func (r *stubUserRepo) FindByID(_ context.Context, id string) (*domain.User, error) {
	if u, ok := r.users[id]; ok {
		return cloneUser(u), nil
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) FindByUsername(_ context.Context, username string) (*domain.User, error) {
	for _, u := range r.users {
		if u.Username == username {
			return cloneUser(u), nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			return cloneUser(u), nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) Add(_ context.Context, user *domain.User) error {
	if r.addErr != nil {
		return r.addErr
	}
	if _, exists := r.users[user.ID]; exists {
		return domain.ErrUserExists
	}
	r.users[user.ID] = cloneUser(user)
	return nil
}

type stubStore struct {
	values map[string]string
	putErr error
	getErr error
	puts   int
}

func newStubStore() *stubStore {
	return &stubStore{values: make(map[string]string)}
}

func (s *stubStore) Get(_ context.Context, key string) (string, error) {
	if s.getErr != nil {
		return "", s.getErr
	}
	return s.values[key], nil
}

func (s *stubStore) Put(_ context.Context, key, value string) error {
	if s.putErr != nil {
		return s.putErr
	}
	s.puts++
	s.values[key] = value
	return nil
}

func (s *stubStore) ListKeys(_ context.Context, prefix string) ([]string, error) {
	if s.getErr != nil {
		return nil, s.getErr
	}
	var keys []string
	for k := range s.values {
		if strings.HasPrefix(k, prefix) {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	return keys, nil
}

type stubProvisioner struct {
	created   []string
	deleted   []string
	createErr error
	deleteErr error
}

func (p *stubProvisioner) CreateHostname(_ context.Context, fqdn string) (*domain.CustomHostname, error) {
	if p.createErr != nil {
		return nil, p.createErr
	}
	p.created = append(p.created, fqdn)
	return &domain.CustomHostname{ID: "cf-" + fqdn, Hostname: fqdn, Status: "pending"}, nil
}

func (p *stubProvisioner) DeleteHostname(_ context.Context, providerID string) error {
	if p.deleteErr != nil {
		return p.deleteErr
	}
	p.deleted = append(p.deleted, providerID)
	return nil
}

type stubResolver struct {
	records map[string][]string
	err     error
	lookups []string
}

func (r *stubResolver) ResolveAny(_ context.Context, host string) ([]string, error) {
	r.lookups = append(r.lookups, host)
	if r.err != nil {
		return nil, r.err
	}
	return r.records[host], nil
}

var errStoreDown = errors.New("store unavailable")
