// Package service contains the business logic of the file service.
package service

import (
	"context"
	"errors"
	"time"

	"github.com/ncobase/cargohold/cache"
	"github.com/ncobase/cargohold/config"
	"github.com/ncobase/cargohold/data"
	"github.com/ncobase/cargohold/data/repository"
	"github.com/ncobase/cargohold/event"
	"github.com/ncobase/cargohold/logging/logger"
	"github.com/ncobase/cargohold/oss"
	"github.com/ncobase/cargohold/snowflake"
)

// IDGenerator mints keys. *snowflake.Generator satisfies it.
type IDGenerator interface {
	Generate() (int64, error)
}

// Deps are the collaborators shared by every sub-service.
type Deps struct {
	Data    *data.Data
	Repos   *repository.Repositories
	Storage oss.Interface
	IDs     IDGenerator
	Events  *event.Dispatcher
	Logger  *logger.Logger
	// NowMs overrides the clock; nil uses time.Now.
	NowMs func() int64
}

// Service aggregates all business logic services.
type Service struct {
	Tenant  *TenantService
	Purpose *PurposeService
	File    *FileService
	Link    *LinkService
}

// New creates a new service instance with all sub-services initialized.
func New(conf *config.Config, deps *Deps) *Service {
	if deps.Logger == nil {
		deps.Logger = logger.NewNop()
	}
	if deps.Events == nil {
		deps.Events = event.NewDispatcher(nil, deps.Logger)
	}
	if deps.NowMs == nil {
		deps.NowMs = func() int64 { return time.Now().UnixMilli() }
	}

	var (
		redisTTL time.Duration
		rc       = deps.Data.Redis
	)
	if conf.Data != nil && conf.Data.Redis != nil {
		redisTTL = conf.Data.Redis.TTL
	}

	tenants := NewTenantService(deps, cache.NewCache[repository.Tenant](rc, "cargohold:tenant", redisTTL))
	purposes := NewPurposeService(deps)
	files := NewFileService(deps, tenants, purposes, conf.Files.MaxFileSizeBytes, conf.Paging.Paginator())
	return &Service{
		Tenant:  tenants,
		Purpose: purposes,
		File:    files,
		Link:    NewLinkService(deps, files),
	}
}

// mint returns a fresh key and its external id. A clock regression is
// logged as an operational anomaly and returned unchanged.
func mint(ctx context.Context, deps *Deps, prefix string) (int64, string, error) {
	key, err := deps.IDs.Generate()
	if err != nil {
		if errors.Is(err, snowflake.ErrClockRegression) {
			deps.Logger.Error(ctx, "clock moved backwards, refusing to mint id", "prefix", prefix, "error", err)
		}
		return 0, "", err
	}
	return key, snowflake.GeneratePrefixedID(prefix, key), nil
}
