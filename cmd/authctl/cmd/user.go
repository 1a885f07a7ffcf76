package cmd

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/pilab-dev/osm-auth/domain"
	"github.com/pilab-dev/osm-auth/dto"
	"github.com/pilab-dev/osm-auth/mongodb"
	"github.com/pilab-dev/osm-auth/services"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var userCmd = &cobra.Command{
	Use:   "user <username>",
	Short: "Print a stored user",
	Long: `Looks up a user created by an OSM login, by username or, with --id,
by OSM user id.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		byID, _ := cmd.Flags().GetBool("id")
		ctx := cmd.Context()

		if err := mongodb.InitMongoDB(ctx, cfg.MongoURI, cfg.MongoDBName); err != nil {
			return fmt.Errorf("failed to connect to MongoDB: %w", err)
		}
		defer mongodb.CloseMongoDB(ctx)

		db, err := mongodb.GetDB()
		if err != nil {
			return err
		}
		repo, err := mongodb.NewUserRepository(ctx, db)
		if err != nil {
			return err
		}
		users := services.NewUserService(repo)

		var user *domain.User
		if byID {
			id, parseErr := strconv.ParseInt(args[0], 10, 64)
			if parseErr != nil {
				return fmt.Errorf("invalid user id %q: %w", args[0], parseErr)
			}
			user, err = users.GetUserByID(ctx, id)
		} else {
			user, err = users.GetUserByUsername(ctx, args[0])
		}
		if errors.Is(err, domain.ErrUserNotFound) {
			return fmt.Errorf("user %q not found", args[0])
		}
		if err != nil {
			return err
		}

		out, err := yaml.Marshal(dto.FromDomainUser(user))
		if err != nil {
			return fmt.Errorf("failed to format user: %w", err)
		}
		printf(cmd.OutOrStdout(), "%s", out)
		return nil
	},
}

func init() {
	userCmd.Flags().Bool("id", false, "treat the argument as an OSM user id")
	rootCmd.AddCommand(userCmd)
}
