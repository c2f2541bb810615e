package infrastructure

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yourusername/sysmod-go/internal/domain"
)

func setupTestStore(t *testing.T) (*SQLiteStore, string) {
	t.Helper()
	tmpDir, err := os.MkdirTemp("", "store-test-*")
	require.NoError(t, err)
	t.Cleanup(func() { os.RemoveAll(tmpDir) })

	downloadDir := filepath.Join(tmpDir, "downloads")
	store, err := NewSQLiteStore(filepath.Join(tmpDir, "subjects.db"), downloadDir)
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	return store, downloadDir
}

func issuedRecord(t *testing.T, store *SQLiteStore, title string, notifyID int, createdAt time.Time) *domain.SubjectRecord {
	t.Helper()
	record := &domain.SubjectRecord{
		ID:        title + "-id",
		Kind:      domain.KindModuleInstall,
		Title:     title,
		URL:       "https://example.com/" + title,
		NotifyID:  notifyID,
		Envelope:  "{}",
		Status:    domain.StatusIssued,
		CreatedAt: createdAt,
	}
	require.NoError(t, store.Create(record))
	return record
}

func TestResolveDestination_ReturnsFileURI(t *testing.T) {
	store, downloadDir := setupTestStore(t)

	uri, err := store.ResolveDestination("module-1.0(100).zip")
	require.NoError(t, err)
	assert.Equal(t, "file://"+filepath.Join(downloadDir, "module-1.0(100).zip"), uri)
}

func TestResolveDestination_SuffixesCollidingNames(t *testing.T) {
	store, _ := setupTestStore(t)

	first, err := store.ResolveDestination("module.zip")
	require.NoError(t, err)
	second, err := store.ResolveDestination("module.zip")
	require.NoError(t, err)
	third, err := store.ResolveDestination("module.zip")
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
	assert.True(t, strings.HasSuffix(second, "module (1).zip"), "got %s", second)
	assert.True(t, strings.HasSuffix(third, "module (2).zip"), "got %s", third)
}

func TestResolveDestination_RejectsBadNames(t *testing.T) {
	store, _ := setupTestStore(t)

	_, err := store.ResolveDestination("")
	assert.Error(t, err)

	_, err = store.ResolveDestination("../escape.zip")
	assert.Error(t, err)

	_, err = store.ResolveDestination(`dir\file.zip`)
	assert.Error(t, err)
}

func TestClaimNext_OldestFirst(t *testing.T) {
	store, _ := setupTestStore(t)

	now := time.Now()
	issuedRecord(t, store, "older", 1, now.Add(-2*time.Hour))
	issuedRecord(t, store, "newer", 2, now.Add(-1*time.Hour))

	first, err := store.ClaimNext()
	require.NoError(t, err)
	require.NotNil(t, first)
	assert.Equal(t, "older", first.Title)
	assert.Equal(t, domain.StatusClaimed, first.Status)
	assert.NotNil(t, first.ClaimedAt)

	second, err := store.ClaimNext()
	require.NoError(t, err)
	require.NotNil(t, second)
	assert.Equal(t, "newer", second.Title)

	drained, err := store.ClaimNext()
	require.NoError(t, err)
	assert.Nil(t, drained)
}

func TestClaimNext_DoesNotReclaim(t *testing.T) {
	store, _ := setupTestStore(t)
	issuedRecord(t, store, "only", 1, time.Now())

	first, err := store.ClaimNext()
	require.NoError(t, err)
	require.NotNil(t, first)

	again, err := store.ClaimNext()
	require.NoError(t, err)
	assert.Nil(t, again)
}

func TestMaxNotifyID(t *testing.T) {
	store, _ := setupTestStore(t)

	max, err := store.MaxNotifyID()
	require.NoError(t, err)
	assert.Equal(t, 0, max)

	now := time.Now()
	issuedRecord(t, store, "a", 3, now)
	issuedRecord(t, store, "b", 7, now)

	max, err = store.MaxNotifyID()
	require.NoError(t, err)
	assert.Equal(t, 7, max)
}

func TestStats(t *testing.T) {
	store, _ := setupTestStore(t)

	now := time.Now()
	issuedRecord(t, store, "m1", 1, now)
	issuedRecord(t, store, "m2", 2, now)

	test := &domain.SubjectRecord{
		ID:        "t1",
		Kind:      domain.KindTestTransfer,
		Title:     "abc123",
		NotifyID:  3,
		Status:    domain.StatusIssued,
		CreatedAt: now,
	}
	require.NoError(t, store.Create(test))

	_, err := store.ClaimNext()
	require.NoError(t, err)

	stats, err := store.Stats()
	require.NoError(t, err)
	assert.Equal(t, int64(3), stats.Total)
	assert.Equal(t, int64(2), stats.Issued)
	assert.Equal(t, int64(1), stats.Claimed)
	assert.Equal(t, int64(2), stats.Modules)
	assert.Equal(t, int64(1), stats.NetTests)
}

func TestFindAll_Filters(t *testing.T) {
	store, _ := setupTestStore(t)

	now := time.Now()
	issuedRecord(t, store, "m1", 1, now)
	test := &domain.SubjectRecord{
		ID:        "t1",
		Kind:      domain.KindTestTransfer,
		NotifyID:  2,
		Status:    domain.StatusIssued,
		CreatedAt: now,
	}
	require.NoError(t, store.Create(test))

	all, err := store.FindAll(nil)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	modules, err := store.FindAll(map[string]interface{}{"kind": string(domain.KindModuleInstall)})
	require.NoError(t, err)
	require.Len(t, modules, 1)
	assert.Equal(t, "m1", modules[0].Title)
}
