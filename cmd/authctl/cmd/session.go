package cmd

import (
	"errors"
	"time"

	"github.com/pilab-dev/osm-auth/services"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var errSessionsDisabled = errors.New("SESSION_SECRET_KEY is not set, session tokens are disabled")

var sessionCmd = &cobra.Command{
	Use:   "session",
	Short: "Inspect session tokens",
}

type sessionView struct {
	UserID    int64     `yaml:"user_id"`
	Username  string    `yaml:"username"`
	TokenID   string    `yaml:"token_id"`
	IssuedAt  time.Time `yaml:"issued_at"`
	ExpiresAt time.Time `yaml:"expires_at"`
}

var sessionVerifyCmd = &cobra.Command{
	Use:   "verify <session_token>",
	Short: "Verify a session_token returned by the callback",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if cfg.SessionSecretKey == "" {
			return errSessionsDisabled
		}
		issuer, err := services.NewSessionTokenIssuer(cfg.SessionSecretKey, cfg.SessionTokenTTL)
		if err != nil {
			return err
		}

		claims, err := issuer.Parse(args[0])
		if err != nil {
			return err
		}
		userID, err := claims.UserID()
		if err != nil {
			return err
		}

		view := sessionView{UserID: userID, Username: claims.Username, TokenID: claims.ID}
		if claims.IssuedAt != nil {
			view.IssuedAt = claims.IssuedAt.UTC()
		}
		if claims.ExpiresAt != nil {
			view.ExpiresAt = claims.ExpiresAt.UTC()
		}

		out, err := yaml.Marshal(view)
		if err != nil {
			return err
		}
		printf(cmd.OutOrStdout(), "%s", out)
		return nil
	},
}

func init() {
	sessionCmd.AddCommand(sessionVerifyCmd)
	rootCmd.AddCommand(sessionCmd)
}
