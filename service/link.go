package service

import (
	"context"
	"errors"
	"io"
	"math"

	"github.com/ncobase/cargohold/consts"
	"github.com/ncobase/cargohold/data/repository"
	"github.com/ncobase/cargohold/event"
	"github.com/ncobase/cargohold/nanoid"
	"github.com/ncobase/cargohold/structs"
)

// LinkService manages share links.
type LinkService struct {
	deps  *Deps
	files *FileService
}

// NewLinkService creates a new link service.
func NewLinkService(deps *Deps, files *FileService) *LinkService {
	return &LinkService{deps: deps, files: files}
}

// Create issues a link to req.FileID valid for req.ExpiresIn seconds.
func (s *LinkService) Create(ctx context.Context, req *structs.CreateLinkRequest) (*repository.FileLink, error) {
	now := s.deps.NowMs()
	if req.ExpiresIn <= 0 || req.ExpiresIn > (math.MaxInt64-now)/1000 {
		return nil, invalidArgument("Invalid expires_in")
	}
	f, err := s.deps.Repos.File.GetByID(ctx, req.FileID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrInvalidFileID
	}
	if err != nil {
		return nil, err
	}

	linkKey := req.Key
	if linkKey == "" {
		linkKey = nanoid.Alphanumeric(consts.LinkKeySize)
	}

	key, id, err := mint(ctx, s.deps, consts.PrefixLink)
	if err != nil {
		return nil, err
	}
	l, err := s.deps.Repos.Link.Create(ctx, &repository.FileLink{
		OID:       key,
		ID:        id,
		FileOID:   f.OID,
		Key:       linkKey,
		ExpiresAt: now + req.ExpiresIn*1000,
		CreatedAt: now,
	})
	if errors.Is(err, repository.ErrConflict) {
		return nil, ErrLinkKeyTaken
	}
	if err != nil {
		return nil, err
	}

	s.deps.Events.Emit(ctx, event.New(ctx, event.LinkCreated, l.ID, f.TenantID, map[string]any{
		"file_id":    f.ID,
		"expires_at": l.ExpiresAt / 1000,
	}))
	return l, nil
}

// Get returns a link by external id.
func (s *LinkService) Get(ctx context.Context, id string) (*repository.FileLink, error) {
	return s.deps.Repos.Link.GetByID(ctx, id)
}

// Delete removes a link and returns it.
func (s *LinkService) Delete(ctx context.Context, id string) (*repository.FileLink, error) {
	l, err := s.deps.Repos.Link.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.deps.Repos.Link.Delete(ctx, l.OID); err != nil {
		return nil, err
	}
	s.deps.Events.Emit(ctx, event.New(ctx, event.LinkDeleted, l.ID, "", map[string]any{"file_id": l.FileID}))
	return l, nil
}

// Resolve returns the link with the given key unless it has expired.
func (s *LinkService) Resolve(ctx context.Context, linkKey string) (*repository.FileLink, error) {
	l, err := s.deps.Repos.Link.GetByKey(ctx, linkKey)
	if err != nil {
		return nil, err
	}
	if l.Expired(s.deps.NowMs()) {
		return nil, ErrLinkExpired
	}
	return l, nil
}

// Open resolves linkKey and streams the linked file's contents.
func (s *LinkService) Open(ctx context.Context, linkKey string) (*repository.File, io.ReadCloser, error) {
	l, err := s.Resolve(ctx, linkKey)
	if err != nil {
		return nil, nil, err
	}
	f, err := s.deps.Repos.File.GetByOID(ctx, l.FileOID)
	if err != nil {
		return nil, nil, err
	}
	rc, err := s.files.Open(ctx, f)
	if err != nil {
		return nil, nil, err
	}
	return f, rc, nil
}
