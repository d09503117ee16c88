package main

import (
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create the company_profiles table in the configured store",
	RunE: func(cmd *cobra.Command, _ []string) error {
		_, closeStore, err := openStore(cmd.Context())
		if err != nil {
			return eris.Wrap(err, "migrate")
		}
		closeStore()

		zap.L().Info("migration complete", zap.String("store", cfg.StoreDriver))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}
