// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package poll_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/taibuivan/timekeep/internal/poll"
)

func TestSignal_SubscribeAndUnsubscribe(t *testing.T) {
	signal := poll.NewSignal(true)

	var seen []bool
	unsubscribe := signal.Subscribe(func(visible bool) { seen = append(seen, visible) })

	signal.Set(false)
	signal.Set(false)
	signal.Set(true)
	assert.Equal(t, []bool{false, true}, seen)

	unsubscribe()
	unsubscribe()
	signal.Set(false)
	assert.Len(t, seen, 2)
	assert.False(t, signal.Visible())
}
