package cmd

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"inventory.GO/core/auth"
	"inventory.GO/model/entity"
	userRepo "inventory.GO/model/repository/user"
)

var (
	newUsername string
	newEmail    string
	newPassword string
	newStaff    bool
	newGroups   []string
	newToken    bool
)

var usersCreateCmd = &cobra.Command{
	Use:   "users:create",
	Short: "Create a user, optionally in groups and with an API token",
	RunE: func(cmd *cobra.Command, args []string) error {
		newUsername = strings.TrimSpace(newUsername)
		if newUsername == "" || newPassword == "" {
			return errors.New("--username and --password are required")
		}
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.close()

		ctx := cmd.Context()
		repo := userRepo.NewUserRepository(a.db)
		taken, err := repo.UsernameTaken(ctx, newUsername)
		if err != nil {
			return err
		}
		if taken {
			return fmt.Errorf("username %q already exists", newUsername)
		}

		var groupIDs []uint
		for _, name := range newGroups {
			var g entity.Group
			if err := a.db.WithContext(ctx).Where(entity.Group{Name: name}).FirstOrCreate(&g).Error; err != nil {
				return fmt.Errorf("group %q: %w", name, err)
			}
			groupIDs = append(groupIDs, g.ID)
		}

		hash, err := auth.HashPassword(newPassword)
		if err != nil {
			return err
		}
		u := entity.User{Username: newUsername, Email: newEmail, PasswordHash: hash, IsStaff: newStaff, IsActive: true}
		if err := repo.CreateUser(ctx, &u, groupIDs); err != nil {
			return fmt.Errorf("create user: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Created user %s (id %d)\n", u.Username, u.ID)

		if newToken {
			t := entity.APIToken{UserID: u.ID, Token: strings.ReplaceAll(uuid.NewString(), "-", "")}
			if err := repo.CreateToken(ctx, &t); err != nil {
				return fmt.Errorf("create token: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "API token: %s\n", t.Token)
		}
		return nil
	},
}

func init() {
	f := usersCreateCmd.Flags()
	f.StringVar(&newUsername, "username", "", "Username (required)")
	f.StringVar(&newEmail, "email", "", "Email address; low stock alerts need one")
	f.StringVar(&newPassword, "password", "", "Password (required)")
	f.BoolVar(&newStaff, "staff", false, "Grant staff access")
	f.StringSliceVar(&newGroups, "group", nil, "Group name, created if missing (repeatable)")
	f.BoolVar(&newToken, "token", false, "Also issue an API token for AUTH_TYPE=token")
	rootCmd.AddCommand(usersCreateCmd)
}
