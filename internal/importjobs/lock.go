package importjobs

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	redispkg "github.com/vendorahq/vendora-backend/pkg/redis"
)

const defaultShopLockTTL = 5 * time.Minute

type lockStore interface {
	Key(parts ...string) string
	SetNX(ctx context.Context, key string, value any, ttl time.Duration) (bool, error)
	Get(ctx context.Context, key string) (string, error)
	Del(ctx context.Context, keys ...string) error
}

// ShopLocks serializes imports per (owner, shop) with Redis SETNX + TTL.
// Concurrent jobs for different shops proceed in parallel.
type ShopLocks struct {
	store lockStore
	ttl   time.Duration
}

// NewShopLocks constructs the lock manager.
func NewShopLocks(store lockStore, ttl time.Duration) (*ShopLocks, error) {
	if store == nil {
		return nil, errors.New("redis store required for shop locks")
	}
	if ttl <= 0 {
		ttl = defaultShopLockTTL
	}
	return &ShopLocks{store: store, ttl: ttl}, nil
}

// Acquire tries to own the shop's import lock for the configured TTL. It
// returns ok=false when another import currently holds it.
func (l *ShopLocks) Acquire(ctx context.Context, userID uuid.UUID, shopName string) (release func(context.Context), ok bool, err error) {
	key := l.store.Key("import-lock", userID.String(), strings.ToLower(strings.TrimSpace(shopName)))
	owner := uuid.NewString()

	ok, err = l.store.SetNX(ctx, key, owner, l.ttl)
	if err != nil {
		return nil, false, fmt.Errorf("setnx: %w", err)
	}
	if !ok {
		return nil, false, nil
	}

	release = func(releaseCtx context.Context) {
		value, getErr := l.store.Get(releaseCtx, key)
		if getErr != nil || value != owner {
			// Expired or taken over; never delete someone else's lock.
			return
		}
		_ = l.store.Del(releaseCtx, key)
	}
	return release, true, nil
}

var _ lockStore = (*redispkg.Client)(nil)
