package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"inventory.GO/model/entity"
	userRepo "inventory.GO/model/repository/user"
)

var dbMigrateCmd = &cobra.Command{
	Use:   "db:migrate",
	Short: "Create or update tables and seed default permissions and the alert group",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.close()

		ctx := cmd.Context()
		if err := a.migrate(ctx); err != nil {
			return err
		}
		repo := userRepo.NewUserRepository(a.db)
		if err := repo.EnsurePermissions(ctx, entity.DefaultPermissions); err != nil {
			return fmt.Errorf("seed permissions: %w", err)
		}
		g := entity.Group{Name: a.cfg.LowStockGroup}
		if err := a.db.WithContext(ctx).Where(entity.Group{Name: g.Name}).FirstOrCreate(&g).Error; err != nil {
			return fmt.Errorf("seed group %q: %w", g.Name, err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Migrated. Alert group %q has id %d.\n", g.Name, g.ID)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(dbMigrateCmd)
}
