// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package sec_test

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/timekeep/internal/platform/sec"
)

func writeKeys(t *testing.T) (publicPath, privatePath string) {
	t.Helper()

	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)

	dir := t.TempDir()
	privatePath = filepath.Join(dir, "private.pem")
	publicPath = filepath.Join(dir, "public.pem")

	privatePEM := pem.EncodeToMemory(&pem.Block{Type: "RSA PRIVATE KEY", Bytes: x509.MarshalPKCS1PrivateKey(key)})
	require.NoError(t, os.WriteFile(privatePath, privatePEM, 0o600))

	publicDER, err := x509.MarshalPKIXPublicKey(&key.PublicKey)
	require.NoError(t, err)
	publicPEM := pem.EncodeToMemory(&pem.Block{Type: "PUBLIC KEY", Bytes: publicDER})
	require.NoError(t, os.WriteFile(publicPath, publicPEM, 0o600))

	return publicPath, privatePath
}

/*
TestTokenService_RoundTrip verifies that a minted token verifies with the same key pair.
*/
func TestTokenService_RoundTrip(t *testing.T) {
	publicPath, privatePath := writeKeys(t)

	service, err := sec.NewTokenService(publicPath, privatePath, "timekeep.test")
	require.NoError(t, err)

	token, err := service.GenerateAccessToken("user-1", "ana@example.com", "manager", time.Minute)
	require.NoError(t, err)

	claims, err := service.VerifyToken(token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)
	assert.Equal(t, "manager", claims.Role)
}

/*
TestTokenService_VerifyOnly verifies that signing is refused without a private key.
*/
func TestTokenService_VerifyOnly(t *testing.T) {
	publicPath, _ := writeKeys(t)

	service, err := sec.NewTokenService(publicPath, "", "timekeep.test")
	require.NoError(t, err)

	_, err = service.GenerateAccessToken("user-1", "", "staff", time.Minute)
	assert.ErrorIs(t, err, sec.ErrSigningDisabled)
}

/*
TestTokenService_RejectsForeignIssuer verifies that the issuer claim is enforced.
*/
func TestTokenService_RejectsForeignIssuer(t *testing.T) {
	publicPath, privatePath := writeKeys(t)

	minter, err := sec.NewTokenService(publicPath, privatePath, "someone-else")
	require.NoError(t, err)
	verifier, err := sec.NewTokenService(publicPath, "", "timekeep.test")
	require.NoError(t, err)

	token, err := minter.GenerateAccessToken("user-1", "", "admin", time.Minute)
	require.NoError(t, err)

	_, err = verifier.VerifyToken(token)
	assert.Error(t, err)
}

/*
TestTokenService_RejectsExpired verifies that expired tokens fail verification.
*/
func TestTokenService_RejectsExpired(t *testing.T) {
	publicPath, privatePath := writeKeys(t)

	service, err := sec.NewTokenService(publicPath, privatePath, "timekeep.test")
	require.NoError(t, err)

	token, err := service.GenerateAccessToken("user-1", "", "staff", -time.Minute)
	require.NoError(t, err)

	_, err = service.VerifyToken(token)
	assert.Error(t, err)
}
