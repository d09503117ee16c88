package main

import (
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/octobees/company-profiler/internal/fetcher"
	"github.com/octobees/company-profiler/internal/handler"
	"github.com/octobees/company-profiler/internal/service"
)

var scrapeCmd = &cobra.Command{
	Use:   "scrape <website>",
	Short: "Scrape a company website and store its profile",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		store, closeStore, err := openStore(ctx)
		if err != nil {
			return eris.Wrap(err, "open store")
		}
		defer closeStore()

		pageFetcher := fetcher.New(nil, fetcher.Options{
			HomeTimeout:     cfg.Scraper.HomeTimeout,
			DeepPageTimeout: cfg.Scraper.DeepPageTimeout,
			UserAgent:       cfg.Scraper.UserAgent,
			MaxBodyBytes:    cfg.Scraper.MaxBodyBytes,
		})

		result, scrapeErr := service.NewScrapeService(pageFetcher, store).Scrape(ctx, args[0])
		resp := handler.NewScrapeResponse(result, scrapeErr)
		if err := writeJSON(cmd.OutOrStdout(), resp); err != nil {
			return eris.Wrap(err, "write response")
		}
		if !resp.Success {
			return eris.New(resp.Error.Message)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(scrapeCmd)
}
