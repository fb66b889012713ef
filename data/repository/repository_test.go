package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/ncobase/cargohold/data"
	"github.com/ncobase/cargohold/paging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	_ "github.com/mattn/go-sqlite3"
)

func newTestData(t *testing.T) *data.Data {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	db, err := sql.Open("sqlite3", fmt.Sprintf("file:%s?mode=memory&cache=shared", name))
	if err != nil {
		t.Skipf("sqlite unavailable: %v", err)
	}
	db.SetMaxOpenConns(1)
	if err := db.Ping(); err != nil {
		_ = db.Close()
		t.Skipf("sqlite unavailable: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	require.NoError(t, data.Migrate(context.Background(), db, data.SQLite))
	return data.NewWithDB(db, data.SQLite)
}

type fixture struct {
	repos   *Repositories
	tenantA *Tenant
	tenantB *Tenant
	purpose *Purpose
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()
	repos := New(newTestData(t))

	a, err := repos.Tenant.Create(ctx, &Tenant{OID: 1, ID: "tenant_1a", Name: "acme", CreatedAt: 1000, UpdatedAt: 1000})
	require.NoError(t, err)
	b, err := repos.Tenant.Create(ctx, &Tenant{OID: 2, ID: "tenant_2b", Name: "globex", CreatedAt: 1000, UpdatedAt: 1000})
	require.NoError(t, err)
	p, err := repos.Purpose.Create(ctx, &Purpose{OID: 1, ID: "purpose_1", Slug: "document"})
	require.NoError(t, err)
	return &fixture{repos: repos, tenantA: a, tenantB: b, purpose: p}
}

func (fx *fixture) addFile(t *testing.T, oid int64, tenant *Tenant) *File {
	t.Helper()
	f, err := fx.repos.File.Create(context.Background(), &File{
		OID:        oid,
		ID:         fmt.Sprintf("file_%x", oid),
		TenantOID:  tenant.OID,
		PurposeOID: fx.purpose.OID,
		Filename:   fmt.Sprintf("f%d.txt", oid),
		Bytes:      oid * 10,
		StorageKey: tenant.ID + "/" + fmt.Sprintf("file_%x", oid),
		CreatedAt:  oid,
		UpdatedAt:  oid,
	})
	require.NoError(t, err)
	return f
}

func fileIDs(files []*File) []string {
	out := make([]string, len(files))
	for i, f := range files {
		out[i] = f.ID
	}
	return out
}

func TestTenantRepository(t *testing.T) {
	fx := newFixture(t)
	ctx := context.Background()

	got, err := fx.repos.Tenant.GetByName(ctx, "acme")
	require.NoError(t, err)
	assert.Equal(t, "tenant_1a", got.ID)

	_, err = fx.repos.Tenant.Create(ctx, &Tenant{OID: 3, ID: "tenant_3", Name: "acme"})
	assert.ErrorIs(t, err, ErrConflict)

	_, err = fx.repos.Tenant.GetByID(ctx, "tenant_missing")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, err, paging.ErrNotFound)

	require.NoError(t, fx.repos.Tenant.AdjustUsage(ctx, 1, 500, 2, 2000))
	require.NoError(t, fx.repos.Tenant.AdjustUsage(ctx, 1, -100, -1, 3000))
	got, err = fx.repos.Tenant.GetByOID(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(400), got.TotalFilesBytes)
	assert.Equal(t, int64(1), got.FileCount)
	assert.Equal(t, int64(3000), got.UpdatedAt)

	assert.ErrorIs(t, fx.repos.Tenant.AdjustUsage(ctx, 99, 1, 1, 1), ErrNotFound)
}

func TestPurposeRepository(t *testing.T) {
	fx := newFixture(t)
	ctx := context.Background()

	_, err := fx.repos.Purpose.Create(ctx, &Purpose{OID: 2, ID: "purpose_2", Slug: "avatar"})
	require.NoError(t, err)

	p, err := fx.repos.Purpose.GetBySlug(ctx, "avatar")
	require.NoError(t, err)
	assert.Equal(t, int64(2), p.OID)

	_, err = fx.repos.Purpose.GetBySlug(ctx, "video")
	assert.ErrorIs(t, err, ErrNotFound)

	all, err := fx.repos.Purpose.List(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "avatar", all[0].Slug)
}

func TestFileRepositoryCRUD(t *testing.T) {
	fx := newFixture(t)
	ctx := context.Background()

	f := fx.addFile(t, 10, fx.tenantA)
	assert.Equal(t, "tenant_1a", f.TenantID)
	assert.Equal(t, "document", f.Purpose)

	_, err := fx.repos.File.GetByIDForTenant(ctx, f.ID, fx.tenantB.OID)
	assert.ErrorIs(t, err, ErrNotFound, "files of other tenants are invisible")

	got, err := fx.repos.File.GetByIDForTenant(ctx, f.ID, fx.tenantA.OID)
	require.NoError(t, err)
	assert.Equal(t, f.OID, got.OID)

	got.Filename = "renamed.txt"
	got.UpdatedAt = 99
	updated, err := fx.repos.File.Update(ctx, got)
	require.NoError(t, err)
	assert.Equal(t, "renamed.txt", updated.Filename)
	assert.Equal(t, int64(99), updated.UpdatedAt)

	_, err = fx.repos.Link.Create(ctx, &FileLink{OID: 1, ID: "link_1", FileOID: f.OID, Key: "k1", ExpiresAt: 5000, CreatedAt: 1})
	require.NoError(t, err)

	require.NoError(t, fx.repos.File.Delete(ctx, f.OID))
	_, err = fx.repos.File.GetByID(ctx, f.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = fx.repos.Link.GetByKey(ctx, "k1")
	assert.ErrorIs(t, err, ErrNotFound, "links are removed with their file")

	assert.ErrorIs(t, fx.repos.File.Delete(ctx, f.OID), ErrNotFound)
}

func TestLinkRepository(t *testing.T) {
	fx := newFixture(t)
	ctx := context.Background()
	f := fx.addFile(t, 10, fx.tenantA)

	l, err := fx.repos.Link.Create(ctx, &FileLink{OID: 7, ID: "link_7", FileOID: f.OID, Key: "abc", ExpiresAt: 5000, CreatedAt: 1000})
	require.NoError(t, err)
	assert.Equal(t, f.ID, l.FileID)

	_, err = fx.repos.Link.Create(ctx, &FileLink{OID: 8, ID: "link_8", FileOID: f.OID, Key: "abc", ExpiresAt: 5000, CreatedAt: 1000})
	assert.ErrorIs(t, err, ErrConflict)

	byID, err := fx.repos.Link.GetByID(ctx, "link_7")
	require.NoError(t, err)
	assert.Equal(t, "abc", byID.Key)
	assert.False(t, byID.Expired(4999))
	assert.True(t, byID.Expired(5000))

	require.NoError(t, fx.repos.Link.Delete(ctx, 7))
	assert.ErrorIs(t, fx.repos.Link.Delete(ctx, 7), ErrNotFound)
}

func TestFileStorePaginates(t *testing.T) {
	fx := newFixture(t)
	ctx := context.Background()
	for oid := int64(1); oid <= 6; oid++ {
		tenant := fx.tenantA
		if oid%2 == 0 {
			tenant = fx.tenantB
		}
		fx.addFile(t, oid, tenant)
	}

	res, err := paging.Paginate(ctx, fx.repos.File.Store(nil), paging.Params{Limit: 4})
	require.NoError(t, err)
	assert.Equal(t, []string{"file_6", "file_5", "file_4", "file_3"}, fileIDs(res.Items))
	assert.True(t, res.Pagination.HasMoreAfter)

	res, err = paging.Paginate(ctx, fx.repos.File.Store(nil), paging.Params{Limit: 4, After: "file_3"})
	require.NoError(t, err)
	assert.Equal(t, []string{"file_2", "file_1"}, fileIDs(res.Items))
	assert.False(t, res.Pagination.HasMoreAfter)

	scope := fx.tenantA.OID
	res, err = paging.Paginate(ctx, fx.repos.File.Store(&scope), paging.Params{Order: paging.Ascending})
	require.NoError(t, err)
	assert.Equal(t, []string{"file_1", "file_3", "file_5"}, fileIDs(res.Items))

	// cursors resolve across tenants; only the range is scoped
	res, err = paging.Paginate(ctx, fx.repos.File.Store(&scope), paging.Params{Order: paging.Ascending, After: "file_2"})
	require.NoError(t, err)
	assert.Equal(t, []string{"file_3", "file_5"}, fileIDs(res.Items))

	_, err = paging.Paginate(ctx, fx.repos.File.Store(nil), paging.Params{Before: "file_zz"})
	assert.True(t, errors.Is(err, paging.ErrInvalidCursor), "got %v", err)
}

func TestBuildRangeQuery(t *testing.T) {
	lo, hi, scope := int64(5), int64(50), int64(7)

	q, args := buildRangeQuery(paging.Range{Order: paging.Descending, Limit: 11}, nil)
	assert.True(t, strings.HasSuffix(q, "ORDER BY f.oid DESC LIMIT ?"), q)
	assert.NotContains(t, q, "WHERE")
	assert.Equal(t, []any{11}, args)

	q, args = buildRangeQuery(paging.Range{Lower: &lo, Upper: &hi, Order: paging.Ascending, Limit: 3}, &scope)
	assert.Contains(t, q, "WHERE f.oid > ? AND f.oid < ? AND f.tenant_oid = ?")
	assert.True(t, strings.HasSuffix(q, "ORDER BY f.oid ASC LIMIT ?"), q)
	assert.Equal(t, []any{int64(5), int64(50), int64(7), 3}, args)
}
