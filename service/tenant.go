package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/ncobase/cargohold/cache"
	"github.com/ncobase/cargohold/consts"
	"github.com/ncobase/cargohold/data/repository"
)

// TenantService resolves tenants, creating them on first use.
type TenantService struct {
	deps  *Deps
	cache cache.ICache[repository.Tenant]
}

// NewTenantService creates a tenant service. Entries cached by name carry
// only identity; usage counters in them may be stale.
func NewTenantService(deps *Deps, c cache.ICache[repository.Tenant]) *TenantService {
	return &TenantService{deps: deps, cache: c}
}

// GetOrCreate returns the tenant called name, creating it when absent.
func (s *TenantService) GetOrCreate(ctx context.Context, name string) (*repository.Tenant, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrMissingTenant
	}

	if t, err := s.cache.Get(ctx, name); err == nil {
		s.deps.Logger.Debug(ctx, "tenant cache hit", "tenant", name)
		return t, nil
	} else if !errors.Is(err, cache.ErrMiss) {
		s.deps.Logger.Warn(ctx, "tenant cache lookup failed", "tenant", name, "error", err)
	}

	t, err := s.deps.Repos.Tenant.GetByName(ctx, name)
	if errors.Is(err, repository.ErrNotFound) {
		t, err = s.create(ctx, name)
	}
	if err != nil {
		return nil, err
	}

	if err := s.cache.Set(ctx, name, t); err != nil {
		s.deps.Logger.Warn(ctx, "tenant cache store failed", "tenant", name, "error", err)
	}
	return t, nil
}

func (s *TenantService) create(ctx context.Context, name string) (*repository.Tenant, error) {
	key, id, err := mint(ctx, s.deps, consts.PrefixTenant)
	if err != nil {
		return nil, err
	}
	now := s.deps.NowMs()
	t, err := s.deps.Repos.Tenant.Create(ctx, &repository.Tenant{
		OID:       key,
		ID:        id,
		Name:      name,
		CreatedAt: now,
		UpdatedAt: now,
	})
	if errors.Is(err, repository.ErrConflict) {
		// lost a race with a concurrent first request for the same tenant
		return s.deps.Repos.Tenant.GetByName(ctx, name)
	}
	if err != nil {
		return nil, fmt.Errorf("create tenant %q: %w", name, err)
	}
	s.deps.Logger.Info(ctx, "tenant created", "tenant", name, "id", t.ID)
	return t, nil
}

// GetByID returns the tenant with the given external id.
func (s *TenantService) GetByID(ctx context.Context, id string) (*repository.Tenant, error) {
	return s.deps.Repos.Tenant.GetByID(ctx, id)
}
