package main

import (
	"errors"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/octobees/company-profiler/internal/repository"
)

var showCmd = &cobra.Command{
	Use:   "show <website>",
	Short: "Print the stored profile for a website",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		store, closeStore, err := openStore(ctx)
		if err != nil {
			return eris.Wrap(err, "open store")
		}
		defer closeStore()

		profile, err := store.GetByWebsite(ctx, args[0])
		if errors.Is(err, repository.ErrProfileNotFound) {
			return eris.Errorf("no profile stored for %s", args[0])
		}
		if err != nil {
			return eris.Wrap(err, "load profile")
		}
		return writeJSON(cmd.OutOrStdout(), profile)
	},
}

func init() {
	rootCmd.AddCommand(showCmd)
}
