package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/pilab-dev/osm-auth/cache"
	redisstore "github.com/pilab-dev/osm-auth/cache/redis"
	"github.com/pilab-dev/osm-auth/config"
	"github.com/pilab-dev/osm-auth/internal/osm"
	"github.com/spf13/cobra"
)

var loginURLCmd = &cobra.Command{
	Use:   "login-url",
	Short: "Print an OSM authorization URL and its state",
	Long: `Prints the URL a user agent should open to authorize this client on OSM.
When STATE_STORE=redis the state is registered so that the server accepts the
callback; with the memory store the state only lives in the server process.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		redirectURI, _ := cmd.Flags().GetString("redirect-uri")
		osmCfg := cfg.OSMConfig()

		state := osm.GenerateState()
		if cfg.StateStore == config.StateStoreRedis {
			if err := registerState(cmd.Context(), state, redirectURI); err != nil {
				return err
			}
		}

		out := cmd.OutOrStdout()
		printf(out, "auth_url: %s\n", osm.BuildAuthorizationURL(osmCfg, state, redirectURI))
		printf(out, "state: %s\n", state)
		return nil
	},
}

func registerState(ctx context.Context, state, redirectURI string) error {
	client, err := redisstore.Connect(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	if err != nil {
		return fmt.Errorf("failed to connect to redis: %w", err)
	}
	defer client.Close()

	store := redisstore.NewStateStore(client, redisstore.DefaultPrefix)
	entry := &cache.StateEntry{RedirectURI: redirectURI, IssuedAt: time.Now().UTC()}
	if err := store.Put(ctx, state, entry, cfg.OAuthStateTTL); err != nil {
		return fmt.Errorf("failed to register state: %w", err)
	}
	return nil
}

func init() {
	loginURLCmd.Flags().String("redirect-uri", "", "override the configured OAUTH_REDIRECT_URI")
	rootCmd.AddCommand(loginURLCmd)
}
