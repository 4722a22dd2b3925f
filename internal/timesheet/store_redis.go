// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package timesheet

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/taibuivan/timekeep/internal/platform/apperr"
	"github.com/taibuivan/timekeep/internal/platform/constants"
)

// RedisDraftStore implements [DraftStore] using Redis key expiry.
type RedisDraftStore struct {
	client *redis.Client
}

// NewRedisDraftStore creates a new Redis-backed DraftStore.
func NewRedisDraftStore(client *redis.Client) *RedisDraftStore {
	return &RedisDraftStore{client: client}
}

func draftKey(userID string) string {
	return constants.RedisPrefixDraft + userID
}

// Save overwrites the user's draft and restarts its expiry.
func (store *RedisDraftStore) Save(ctx context.Context, draft Draft, ttl time.Duration) error {
	data, err := json.Marshal(draft)
	if err != nil {
		return fmt.Errorf("redis_draft_encode_failed: %w", err)
	}

	if err := store.client.Set(ctx, draftKey(draft.UserID), data, ttl).Err(); err != nil {
		return fmt.Errorf("redis_draft_set_failed: %w", err)
	}
	return nil
}

// Load returns apperr.NotFound if the draft is absent or expired.
func (store *RedisDraftStore) Load(ctx context.Context, userID string) (*Draft, error) {
	data, err := store.client.Get(ctx, draftKey(userID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, apperr.NotFound("Draft")
		}
		return nil, fmt.Errorf("redis_draft_get_failed: %w", err)
	}

	draft := &Draft{}
	if err := json.Unmarshal(data, draft); err != nil {
		return nil, fmt.Errorf("redis_draft_decode_failed: %w", err)
	}
	return draft, nil
}

// Discard removes the draft. A missing draft is not an error.
func (store *RedisDraftStore) Discard(ctx context.Context, userID string) error {
	if err := store.client.Del(ctx, draftKey(userID)).Err(); err != nil {
		return fmt.Errorf("redis_draft_delete_failed: %w", err)
	}
	return nil
}
