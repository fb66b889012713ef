package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/gosimple/slug"
	"github.com/ncobase/cargohold/consts"
	"github.com/ncobase/cargohold/data/repository"
)

// PurposeService manages the allowed file purposes.
type PurposeService struct {
	deps *Deps
}

// NewPurposeService creates a new purpose service.
func NewPurposeService(deps *Deps) *PurposeService {
	return &PurposeService{deps: deps}
}

// Normalize turns configured names into unique slugs, e.g. "User Upload"
// becomes "user-upload".
func Normalize(names []string) []string {
	seen := make(map[string]struct{}, len(names))
	out := make([]string, 0, len(names))
	for _, n := range names {
		s := slug.Make(n)
		if s == "" {
			continue
		}
		if _, dup := seen[s]; dup {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out
}

// Upsert stores every purpose in names that is not stored yet and returns
// the normalized slugs.
func (s *PurposeService) Upsert(ctx context.Context, names []string) ([]string, error) {
	slugs := Normalize(names)
	for _, sl := range slugs {
		_, err := s.deps.Repos.Purpose.GetBySlug(ctx, sl)
		if err == nil {
			continue
		}
		if !errors.Is(err, repository.ErrNotFound) {
			return nil, err
		}

		key, id, err := mint(ctx, s.deps, consts.PrefixPurpose)
		if err != nil {
			return nil, err
		}
		_, err = s.deps.Repos.Purpose.Create(ctx, &repository.Purpose{OID: key, ID: id, Slug: sl})
		if err != nil && !errors.Is(err, repository.ErrConflict) {
			return nil, fmt.Errorf("create purpose %q: %w", sl, err)
		}
		s.deps.Logger.Info(ctx, "purpose registered", "slug", sl)
	}
	return slugs, nil
}

// GetBySlug returns the stored purpose, or ErrInvalidPurpose.
func (s *PurposeService) GetBySlug(ctx context.Context, sl string) (*repository.Purpose, error) {
	p, err := s.deps.Repos.Purpose.GetBySlug(ctx, sl)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("%w: %s", ErrInvalidPurpose, sl)
	}
	return p, err
}

// List returns all stored purposes.
func (s *PurposeService) List(ctx context.Context) ([]*repository.Purpose, error) {
	return s.deps.Repos.Purpose.List(ctx)
}
