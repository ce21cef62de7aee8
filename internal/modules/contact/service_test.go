package contact

import (
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"playhouse/internal/database"
)

func setupDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := database.Connect(filepath.Join(t.TempDir(), "contact.db"), zap.NewNop())
	require.NoError(t, err)
	require.NoError(t, Migrate(db))
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}

func TestService_SubmitStoresTrimmed(t *testing.T) {
	svc := NewService(NewRepository(setupDB(t)), nil, nil)
	ctx := context.Background()

	msg, stored, err := svc.Submit(ctx, FormInput{
		Name:    "  Maria ",
		Email:   " maria@example.com ",
		Phone:   "516-555-0100",
		Message: strings.Repeat("x", 700),
	})
	require.NoError(t, err)
	assert.True(t, stored)
	assert.NotZero(t, msg.ID)

	all, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, "Maria", all[0].Name)
	assert.Equal(t, "maria@example.com", all[0].Email)
	assert.Len(t, all[0].Message, maxMessageLen)
}

func TestService_HoneypotStoresNothing(t *testing.T) {
	svc := NewService(NewRepository(setupDB(t)), nil, nil)
	ctx := context.Background()

	msg, stored, err := svc.Submit(ctx, FormInput{Name: "bot", Website: "http://spam.example"})
	require.NoError(t, err)
	assert.False(t, stored)
	assert.Nil(t, msg)

	all, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestService_ListInSubmissionOrder(t *testing.T) {
	svc := NewService(NewRepository(setupDB(t)), nil, nil)
	ctx := context.Background()

	for _, name := range []string{"first", "second", "third"} {
		_, _, err := svc.Submit(ctx, FormInput{Name: name, Message: "hi"})
		require.NoError(t, err)
	}

	all, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "first", all[0].Name)
	assert.Equal(t, "third", all[2].Name)
}

func TestService_Prune(t *testing.T) {
	db := setupDB(t)
	svc := NewService(NewRepository(db), nil, nil)
	ctx := context.Background()

	now := time.Now()
	require.NoError(t, db.Create(&Message{Name: "old", CreatedAt: now.Add(-400 * 24 * time.Hour)}).Error)
	require.NoError(t, db.Create(&Message{Name: "new", CreatedAt: now.Add(-time.Hour)}).Error)

	n, err := svc.Prune(ctx, 365*24*time.Hour)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	all, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, "new", all[0].Name)
}
