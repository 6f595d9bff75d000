package cli

import (
	"errors"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
)

var (
	resetFile  string
	resetEvery time.Duration
)

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Borra todos los productos y categorías y vuelve a cargar el dataset",
	Long: "Elimina productos y luego categorías mediante las operaciones ordinarias y recarga el dataset.\n" +
		"Con --every repite el reinicio periódicamente hasta recibir SIGINT/SIGTERM.",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ds, err := loadDataset(resetFile)
		if err != nil {
			return err
		}
		e, err := openEnv(cmd.Context())
		if err != nil {
			return err
		}
		defer e.close()

		seeder := e.seeder()
		if resetEvery <= 0 {
			_, err = seeder.Reset(cmd.Context(), ds)
			return err
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()
		e.log.Info().Dur("every", resetEvery).Msg("reinicio periódico activado")
		if err := seeder.ResetEvery(ctx, resetEvery, ds); err != nil && !errors.Is(err, ctx.Err()) {
			return err
		}
		e.log.Info().Msg("reinicio periódico detenido")
		return nil
	},
}

func init() {
	resetCmd.Flags().StringVarP(&resetFile, "file", "f", "", "archivo YAML con el dataset (vacío = dataset embebido)")
	resetCmd.Flags().DurationVar(&resetEvery, "every", 0, "intervalo entre reinicios (p. ej. 5m); 0 = una sola vez")
	rootCmd.AddCommand(resetCmd)
}
