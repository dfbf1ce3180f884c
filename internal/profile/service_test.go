package profile

import (
	"context"
	"errors"
	"testing"

	pkgerrors "github.com/dotoole/photofolio-backend/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

type stubRemover struct {
	removed []string
	err     error
}

func (s *stubRemover) Remove(_ context.Context, key string) error {
	if s.err != nil {
		return s.err
	}
	s.removed = append(s.removed, key)
	return nil
}

func setupProfileTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	conn, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{})
	require.NoError(t, err)

	table := `
CREATE TABLE IF NOT EXISTS site_settings (
  key TEXT PRIMARY KEY,
  value TEXT NOT NULL,
  updated_at INTEGER NOT NULL
);`
	require.NoError(t, conn.Exec(table).Error)
	require.NoError(t, conn.Exec("DELETE FROM site_settings").Error)
	return conn
}

func TestGetReturnsNilWhenUnset(t *testing.T) {
	conn := setupProfileTestDB(t)
	svc, err := NewService(conn, &stubRemover{})
	require.NoError(t, err)

	img, err := svc.Get(context.Background())
	require.NoError(t, err)
	assert.Nil(t, img)
}

func TestSetAndGetRoundTrip(t *testing.T) {
	conn := setupProfileTestDB(t)
	remover := &stubRemover{}
	svc, err := NewService(conn, remover)
	require.NoError(t, err)
	ctx := context.Background()

	set, err := svc.Set(ctx, "portrait-key", "https://img.example.com/portrait.jpg")
	require.NoError(t, err)
	assert.Equal(t, "portrait-key", set.Key)

	got, err := svc.Get(ctx)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "portrait-key", got.Key)
	assert.Equal(t, "https://img.example.com/portrait.jpg", got.URL)
	assert.Empty(t, remover.removed, "first set has nothing to clean up")
}

func TestSetReplacesAndRemovesOldObject(t *testing.T) {
	conn := setupProfileTestDB(t)
	remover := &stubRemover{}
	svc, err := NewService(conn, remover)
	require.NoError(t, err)
	ctx := context.Background()

	_, err = svc.Set(ctx, "old-key", "https://img.example.com/old.jpg")
	require.NoError(t, err)

	_, err = svc.Set(ctx, "new-key", "https://img.example.com/new.jpg")
	require.NoError(t, err)

	require.Len(t, remover.removed, 1)
	assert.Equal(t, "old-key", remover.removed[0])

	got, err := svc.Get(ctx)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "new-key", got.Key)
}

func TestSetSameKeySkipsRemoval(t *testing.T) {
	conn := setupProfileTestDB(t)
	remover := &stubRemover{}
	svc, err := NewService(conn, remover)
	require.NoError(t, err)
	ctx := context.Background()

	_, err = svc.Set(ctx, "same-key", "https://img.example.com/a.jpg")
	require.NoError(t, err)
	_, err = svc.Set(ctx, "same-key", "https://img.example.com/b.jpg")
	require.NoError(t, err)

	assert.Empty(t, remover.removed)
}

func TestSetFailsWhenCleanupFails(t *testing.T) {
	conn := setupProfileTestDB(t)
	svc, err := NewService(conn, &stubRemover{})
	require.NoError(t, err)
	ctx := context.Background()

	_, err = svc.Set(ctx, "old-key", "https://img.example.com/old.jpg")
	require.NoError(t, err)

	failing, err := NewService(conn, &stubRemover{err: errors.New("storage down")})
	require.NoError(t, err)

	_, err = failing.Set(ctx, "new-key", "https://img.example.com/new.jpg")
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeDependency, typed.Code())

	got, getErr := svc.Get(ctx)
	require.NoError(t, getErr)
	require.NotNil(t, got)
	assert.Equal(t, "old-key", got.Key, "failed replace must leave the old record")
}

func TestSetValidatesInput(t *testing.T) {
	conn := setupProfileTestDB(t)
	svc, err := NewService(conn, &stubRemover{})
	require.NoError(t, err)

	_, err = svc.Set(context.Background(), "", "https://img.example.com/x.jpg")
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeValidation, typed.Code())
}
