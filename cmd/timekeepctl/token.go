// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package main

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/spf13/cobra"

	"github.com/taibuivan/timekeep/internal/access"
	"github.com/taibuivan/timekeep/internal/platform/sec"
)

// signingConfig reads the key pair from the same variables as the server.
type signingConfig struct {
	PublicKeyPath  string `env:"JWT_PUBLIC_KEY_PATH"`
	PrivateKeyPath string `env:"JWT_PRIVATE_KEY_PATH"`
	Issuer         string `env:"JWT_ISSUER" envDefault:"timekeep.app"`
}

type mintedToken struct {
	Token     string    `json:"token" yaml:"token"`
	UserID    string    `json:"user_id" yaml:"user_id"`
	Role      string    `json:"role" yaml:"role"`
	ExpiresAt time.Time `json:"expires_at" yaml:"expires_at"`
}

func tokenCmd(render func(any) error) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Development token helpers",
	}

	cmd.AddCommand(tokenMintCmd(render))

	return cmd
}

func tokenMintCmd(render func(any) error) *cobra.Command {
	var userID, rawRole, email string
	var ttl time.Duration

	cmd := &cobra.Command{
		Use:   "mint",
		Short: "Sign a development access token (RS256)",
		Long: `Sign an access token with the local private key.

Production tokens come from the identity provider. The role claim is only a
hint: the server re-reads the stored role on every request.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			var cfg signingConfig
			if err := env.Parse(&cfg); err != nil {
				return fmt.Errorf("read signing configuration: %w", err)
			}
			if cfg.PublicKeyPath == "" || cfg.PrivateKeyPath == "" {
				return fmt.Errorf("JWT_PUBLIC_KEY_PATH and JWT_PRIVATE_KEY_PATH must be set")
			}

			role, err := access.ParseRole(rawRole)
			if err != nil {
				return err
			}

			tokens, err := sec.NewTokenService(cfg.PublicKeyPath, cfg.PrivateKeyPath, cfg.Issuer)
			if err != nil {
				return err
			}

			token, err := tokens.GenerateAccessToken(userID, email, role.String(), ttl)
			if err != nil {
				return err
			}

			return render(mintedToken{
				Token:     token,
				UserID:    userID,
				Role:      role.String(),
				ExpiresAt: time.Now().Add(ttl).UTC().Truncate(time.Second),
			})
		},
	}

	cmd.Flags().StringVar(&userID, "user", "", "Profile id placed in the subject")
	cmd.Flags().StringVar(&rawRole, "role", string(access.RoleStaff), "Role claim")
	cmd.Flags().StringVar(&email, "email", "", "Optional email claim")
	cmd.Flags().DurationVar(&ttl, "ttl", time.Hour, "Token lifetime")
	_ = cmd.MarkFlagRequired("user")

	return cmd
}
