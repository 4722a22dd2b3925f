// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package timesheet

import (
	"context"
	"time"

	"github.com/taibuivan/timekeep/pkg/pagination"
)

// Repository persists entries.
type Repository interface {
	Create(ctx context.Context, entry *Entry) error
	Update(ctx context.Context, entry *Entry) error
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (*Entry, error)
	List(ctx context.Context, filter Filter, page pagination.Params) ([]*Entry, int, error)
}

// DraftStore keeps entry drafts with an expiry.
type DraftStore interface {
	Save(ctx context.Context, draft Draft, ttl time.Duration) error
	Load(ctx context.Context, userID string) (*Draft, error)
	Discard(ctx context.Context, userID string) error
}
