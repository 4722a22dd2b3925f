// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package slice_test

import (
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/taibuivan/timekeep/pkg/slice"
)

func TestMap(t *testing.T) {
	assert.Equal(t, []string{"1", "2"}, slice.Map([]int{1, 2}, strconv.Itoa))
	assert.Nil(t, slice.Map[int, string](nil, strconv.Itoa))
}

func TestReduce(t *testing.T) {
	sum := slice.Reduce([]int{1, 2, 3}, 10, func(acc, v int) int { return acc + v })
	assert.Equal(t, 16, sum)
	assert.Equal(t, 10, slice.Reduce(nil, 10, func(acc, v int) int { return acc + v }))
}
