package idempotency

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memStore struct {
	values map[string]string
	err    error
}

func newMemStore() *memStore {
	return &memStore{values: map[string]string{}}
}

func (s *memStore) Key(parts ...string) string {
	return "vendora:" + strings.Join(parts, ":")
}

func (s *memStore) SetNX(_ context.Context, key string, value any, _ time.Duration) (bool, error) {
	if s.err != nil {
		return false, s.err
	}
	if _, exists := s.values[key]; exists {
		return false, nil
	}
	s.values[key] = value.(string)
	return true, nil
}

func (s *memStore) Del(_ context.Context, keys ...string) error {
	for _, key := range keys {
		delete(s.values, key)
	}
	return nil
}

func TestCheckAndMarkProcessedFirstTime(t *testing.T) {
	manager, err := NewManager(newMemStore(), time.Hour)
	require.NoError(t, err)

	already, err := manager.CheckAndMarkProcessed(context.Background(), "notifications", uuid.New())
	require.NoError(t, err)
	assert.False(t, already)
}

func TestCheckAndMarkProcessedSecondTime(t *testing.T) {
	manager, err := NewManager(newMemStore(), time.Hour)
	require.NoError(t, err)
	eventID := uuid.New()

	_, err = manager.CheckAndMarkProcessed(context.Background(), "notifications", eventID)
	require.NoError(t, err)

	already, err := manager.CheckAndMarkProcessed(context.Background(), "notifications", eventID)
	require.NoError(t, err)
	assert.True(t, already)
}

func TestDeleteAllowsReprocessing(t *testing.T) {
	manager, err := NewManager(newMemStore(), time.Hour)
	require.NoError(t, err)
	eventID := uuid.New()
	ctx := context.Background()

	_, err = manager.CheckAndMarkProcessed(ctx, "notifications", eventID)
	require.NoError(t, err)
	require.NoError(t, manager.Delete(ctx, "notifications", eventID))

	already, err := manager.CheckAndMarkProcessed(ctx, "notifications", eventID)
	require.NoError(t, err)
	assert.False(t, already)
}

func TestCheckAndMarkProcessedPropagatesStoreErrors(t *testing.T) {
	store := newMemStore()
	store.err = errors.New("redis down")
	manager, err := NewManager(store, time.Hour)
	require.NoError(t, err)

	_, err = manager.CheckAndMarkProcessed(context.Background(), "notifications", uuid.New())
	require.Error(t, err)
}

func TestProcessedKeyValidation(t *testing.T) {
	manager, err := NewManager(newMemStore(), time.Hour)
	require.NoError(t, err)

	_, err = manager.CheckAndMarkProcessed(context.Background(), "", uuid.New())
	require.Error(t, err)

	_, err = manager.CheckAndMarkProcessed(context.Background(), "notifications", uuid.Nil)
	require.Error(t, err)
}
