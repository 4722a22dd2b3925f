// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package dberr_test

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/timekeep/internal/platform/apperr"
	"github.com/taibuivan/timekeep/internal/platform/dberr"
)

/*
TestWrap verifies the mapping from driver errors to application errors.
*/
func TestWrap(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
	}{
		{"no_rows", fmt.Errorf("scan: %w", pgx.ErrNoRows), http.StatusNotFound},
		{"unique", &pgconn.PgError{Code: "23505"}, http.StatusConflict},
		{"foreign_key", &pgconn.PgError{Code: "23503"}, http.StatusBadRequest},
		{"other_sqlstate", &pgconn.PgError{Code: "57014"}, http.StatusInternalServerError},
		{"plain", errors.New("conn closed"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			wrapped := dberr.Wrap(tt.err, "test_action")
			appErr := apperr.As(wrapped)
			require.NotNil(t, appErr)
			assert.Equal(t, tt.status, appErr.HTTPStatus)
		})
	}

	assert.NoError(t, dberr.Wrap(nil, "noop"))
}
