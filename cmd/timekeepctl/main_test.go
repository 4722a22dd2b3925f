// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package main

import (
	"bytes"
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/json"
	"encoding/pem"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/taibuivan/timekeep/internal/access"
	"github.com/taibuivan/timekeep/internal/platform/sec"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()

	var out bytes.Buffer
	cmd := newRootCmd(&out)
	cmd.SetErr(io.Discard)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

/*
TestAccessRoute covers the route decision output in both formats.
*/
func TestAccessRoute(t *testing.T) {
	out, err := run(t, "access", "route", "--role", "Manager", "--path", "/team", "-o", "json")
	require.NoError(t, err)

	var decision routeDecision
	require.NoError(t, json.Unmarshal([]byte(out), &decision))
	assert.True(t, decision.Allowed)
	assert.Equal(t, "manager", decision.Role)
	assert.Equal(t, "/team", decision.Route)
	assert.Equal(t, []access.Role{access.RoleManager, access.RoleAdmin, access.RoleSuperAdmin}, decision.AllowedRoles)

	out, err = run(t, "access", "route", "--role", "staff", "--path", "/admin/users")
	require.NoError(t, err)
	require.NoError(t, yaml.Unmarshal([]byte(out), &decision))
	assert.False(t, decision.Allowed)
	assert.Equal(t, "/admin", decision.Route)
}

func TestAccessRoute_Anonymous(t *testing.T) {
	out, err := run(t, "access", "route", "--path", "/entry", "-o", "json")
	require.NoError(t, err)
	assert.Contains(t, out, `"allowed": false`)

	_, err = run(t, "access", "route", "--role", "owner", "--path", "/entry")
	assert.Error(t, err)
}

func TestAccessRoles(t *testing.T) {
	out, err := run(t, "access", "roles", "--as", "super_admin", "-o", "json")
	require.NoError(t, err)

	var options []access.RoleOption
	require.NoError(t, json.Unmarshal([]byte(out), &options))
	require.Len(t, options, 4)
	assert.Equal(t, "Super Admin", options[3].Label)

	_, err = run(t, "access", "roles", "--as", "manager")
	assert.Error(t, err)
}

/*
TestEntryWindow verifies the window report against a fixed today.
*/
func TestEntryWindow(t *testing.T) {
	tests := []struct {
		date    string
		canEdit bool
		days    int
	}{
		{"2026-03-12", true, 8},
		{"2026-03-05", true, 1},
		{"2026-03-04", false, 0},
		{"2026-03-20", true, 16},
	}

	for _, tt := range tests {
		t.Run(tt.date, func(t *testing.T) {
			out, err := run(t, "entry", "window", "--date", tt.date, "--today", "2026-03-12")
			require.NoError(t, err)

			var report windowReport
			require.NoError(t, yaml.Unmarshal([]byte(out), &report))
			assert.Equal(t, tt.canEdit, report.CanEdit)
			assert.Equal(t, tt.days, report.DaysUntilLocked)
			assert.Equal(t, "2026-03-05", report.Cutoff)
		})
	}
}

func TestEntryWindow_InvalidInput(t *testing.T) {
	_, err := run(t, "entry", "window", "--date", "12/03/2026")
	assert.Error(t, err)

	_, err = run(t, "entry", "window", "--date", "2026-03-12", "--timezone", "Mars/Base")
	assert.Error(t, err)

	_, err = run(t, "entry", "window", "--date", "2026-03-12", "-o", "xml")
	assert.Error(t, err)

	_, err = run(t, "entry", "window", "--date", "2026-03-12", "--today", "2026-03-12", "--days", "-1")
	assert.ErrorContains(t, err, "--days")
}

/*
TestTokenMint verifies that a minted token passes server-side verification.
*/
func TestTokenMint(t *testing.T) {
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)

	dir := t.TempDir()
	privatePath := filepath.Join(dir, "private.pem")
	publicPath := filepath.Join(dir, "public.pem")
	require.NoError(t, os.WriteFile(privatePath, pem.EncodeToMemory(&pem.Block{Type: "RSA PRIVATE KEY", Bytes: x509.MarshalPKCS1PrivateKey(key)}), 0o600))
	publicDER, err := x509.MarshalPKIXPublicKey(&key.PublicKey)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(publicPath, pem.EncodeToMemory(&pem.Block{Type: "PUBLIC KEY", Bytes: publicDER}), 0o600))

	t.Setenv("JWT_PUBLIC_KEY_PATH", publicPath)
	t.Setenv("JWT_PRIVATE_KEY_PATH", privatePath)
	t.Setenv("JWT_ISSUER", "timekeep.test")

	out, err := run(t, "token", "mint", "--user", "u-42", "--role", "admin", "-o", "json")
	require.NoError(t, err)

	var minted mintedToken
	require.NoError(t, json.Unmarshal([]byte(out), &minted))
	assert.Equal(t, "admin", minted.Role)

	verifier, err := sec.NewTokenService(publicPath, "", "timekeep.test")
	require.NoError(t, err)
	claims, err := verifier.VerifyToken(minted.Token)
	require.NoError(t, err)
	assert.Equal(t, "u-42", claims.UserID)
	assert.Equal(t, "admin", claims.Role)
}

func TestTokenMint_MissingKeys(t *testing.T) {
	t.Setenv("JWT_PUBLIC_KEY_PATH", "")
	t.Setenv("JWT_PRIVATE_KEY_PATH", "")

	_, err := run(t, "token", "mint", "--user", "u-42")
	assert.Error(t, err)
}
