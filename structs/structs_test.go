package structs

import (
	"encoding/json"
	"testing"

	"github.com/ncobase/cargohold/data/repository"
	"github.com/ncobase/cargohold/paging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromFileTenantVisibility(t *testing.T) {
	f := &repository.File{ID: "file_1", TenantID: "tenant_1", Purpose: "document", Filename: "a.txt", Bytes: 3, CreatedAt: 1700000000123, UpdatedAt: 1700000001999}

	public, err := json.Marshal(FromFile(f, false))
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":"file_1","object":"file","bytes":3,"created_at":1700000000,"updated_at":1700000001,"filename":"a.txt","purpose":"document"}`, string(public))

	private := FromFile(f, true)
	assert.Equal(t, "tenant_1", private.TenantID)
}

func TestFromFilesKeepsPagination(t *testing.T) {
	page := &paging.Result[*repository.File]{
		Items:      []*repository.File{{ID: "file_2"}, {ID: "file_1"}},
		Pagination: paging.Pagination{HasMoreAfter: true},
	}
	out := FromFiles(page, true)
	require.Len(t, out.Items, 2)
	assert.Equal(t, "file_2", out.Items[0].ID)
	assert.True(t, out.Pagination.HasMoreAfter)

	b, err := json.Marshal(FromFiles(&paging.Result[*repository.File]{Items: []*repository.File{}}, false))
	require.NoError(t, err)
	assert.JSONEq(t, `{"items":[],"pagination":{"has_more_before":false,"has_more_after":false}}`, string(b))
}

func TestFromLink(t *testing.T) {
	l := FromLink(&repository.FileLink{ID: "link_1", FileID: "file_1", Key: "k", ExpiresAt: 5000, CreatedAt: 2000})
	assert.Equal(t, "file_link", l.Object)
	assert.Equal(t, int64(5), l.ExpiresAt)
	assert.Equal(t, int64(2), l.CreatedAt)
}
