package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	_ "github.com/joho/godotenv/autoload"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/octobees/company-profiler/internal/config"
	"github.com/octobees/company-profiler/internal/database"
	"github.com/octobees/company-profiler/internal/repository"
)

var (
	cfg        *config.Config
	storeFlag  string
	sqliteFlag string
)

var rootCmd = &cobra.Command{
	Use:          "profilectl",
	Short:        "Scrape and inspect company website profiles",
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		applyStoreFlags(cmd)

		c, err := config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		cfg = c

		if err := config.InitLogger(cfg.Log); err != nil {
			return fmt.Errorf("init logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = zap.L().Sync()
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&storeFlag, "store", "", "profile store: postgres or sqlite (default sqlite unless STORE_DRIVER is set)")
	rootCmd.PersistentFlags().StringVar(&sqliteFlag, "sqlite-path", "", "sqlite file, overrides SQLITE_PATH")
}

// applyStoreFlags feeds flag overrides into the environment read by config.Load.
// Without flags or STORE_DRIVER the CLI works against a local sqlite file.
func applyStoreFlags(cmd *cobra.Command) {
	switch {
	case cmd.Flags().Changed("store"):
		_ = os.Setenv("STORE_DRIVER", storeFlag)
	case os.Getenv("STORE_DRIVER") == "":
		_ = os.Setenv("STORE_DRIVER", config.StoreDriverSQLite)
	}
	if cmd.Flags().Changed("sqlite-path") {
		_ = os.Setenv("SQLITE_PATH", sqliteFlag)
	}
}

func openStore(ctx context.Context) (repository.ProfilesRepository, func(), error) {
	store, closeStore, err := database.OpenProfileStore(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}
	if err := store.Migrate(ctx); err != nil {
		closeStore()
		return nil, nil, err
	}
	return store, closeStore, nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
