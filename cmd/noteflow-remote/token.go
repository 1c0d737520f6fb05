package main

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/NUMNIMx/noteflow/internal/remoteserver"
)

var (
	tokenUser string
	tokenTTL  time.Duration
)

var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Mint a bearer token for a user",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		if cfg.Server.JWTSecret == "" {
			fatal("Cannot mint token", errors.New("server.jwt_secret is not set"))
		}
		tok, err := remoteserver.MintToken([]byte(cfg.Server.JWTSecret), tokenUser, time.Now(), tokenTTL)
		if err != nil {
			fatal("Cannot mint token", err)
		}
		fmt.Println(tok)
	},
}

func init() {
	rootCmd.AddCommand(tokenCmd)
	tokenCmd.Flags().StringVar(&tokenUser, "user", "", "User id (the token subject)")
	tokenCmd.Flags().DurationVar(&tokenTTL, "ttl", 30*24*time.Hour, "Token lifetime")
	_ = tokenCmd.MarkFlagRequired("user")
}
