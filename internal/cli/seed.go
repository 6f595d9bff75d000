package cli

import (
	"github.com/spf13/cobra"
)

var seedFile string

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Carga categorías y productos de ejemplo",
	Long:  "Crea las categorías y productos del archivo YAML (o del dataset embebido) que aún no existan.",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ds, err := loadDataset(seedFile)
		if err != nil {
			return err
		}
		e, err := openEnv(cmd.Context())
		if err != nil {
			return err
		}
		defer e.close()

		_, err = e.seeder().Seed(cmd.Context(), ds)
		return err
	},
}

func init() {
	seedCmd.Flags().StringVarP(&seedFile, "file", "f", "", "archivo YAML con el dataset (vacío = dataset embebido)")
	rootCmd.AddCommand(seedCmd)
}
