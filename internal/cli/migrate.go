package cli

import (
	"github.com/spf13/cobra"

	"github.com/jhoicas/stock-management-api/internal/infrastructure/postgres"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Aplica las migraciones pendientes",
	RunE: func(cmd *cobra.Command, _ []string) error {
		e, err := openEnv(cmd.Context())
		if err != nil {
			return err
		}
		defer e.close()

		applied, err := postgres.Migrate(cmd.Context(), e.pool)
		if err != nil {
			return err
		}
		if len(applied) == 0 {
			e.log.Info().Msg("sin migraciones pendientes")
			return nil
		}
		e.log.Info().Ints64("versions", applied).Msg("migraciones aplicadas")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}
