package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"docintel/internal/app"
	"docintel/internal/config"
	"docintel/internal/domain"
	"docintel/internal/logger"
	"docintel/internal/service"
)

func newRootCmd() *cobra.Command {
	var a *app.App

	root := &cobra.Command{
		Use:           "docproc",
		Short:         "Classify, extract and search PDF documents",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}
			log := logger.NewWithWriter(&cfg.Log, cmd.ErrOrStderr())
			a, err = app.New(cmd.Context(), cfg, log)
			return err
		},
		PersistentPostRun: func(*cobra.Command, []string) {
			if a != nil {
				a.Close()
			}
		},
	}

	deps := func() *app.App { return a }
	root.AddCommand(newProcessCmd(deps), newSearchCmd(deps), newExportCmd(deps))
	return root
}

func newProcessCmd(deps func() *app.App) *cobra.Command {
	var indexName string

	cmd := &cobra.Command{
		Use:   "process [dir]",
		Short: "Process every PDF in a directory",
		Long: `Classifies and extracts every PDF in the directory, adds the text to the
semantic index and writes the records to the results store.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a := deps()
			dir := a.InputDir
			if len(args) == 1 {
				dir = args[0]
			}

			res, err := a.Pipeline.ProcessBatch(cmd.Context(), dir, indexName)
			if err != nil {
				return fmt.Errorf("processing failed: %w", err)
			}
			for _, rec := range res.Records {
				cmd.Printf("  %-40s %s (%d fields)\n", rec.Filename, rec.Class, len(rec.Fields))
			}
			for name, msg := range res.Failed {
				cmd.Printf("  %-40s FAILED: %s\n", name, msg)
			}
			cmd.Printf("processed %d, failed %d\n", len(res.Records), len(res.Failed))
			return nil
		},
	}
	cmd.Flags().StringVarP(&indexName, "index", "i", "", "target index (default from config)")
	return cmd
}

func newSearchCmd(deps func() *app.App) *cobra.Command {
	var (
		indexName string
		topK      int
		asJSON    bool
	)

	cmd := &cobra.Command{
		Use:   "search [query]",
		Short: "Search an index",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			resp, err := deps().Search.Search(cmd.Context(), service.SearchRequest{
				IndexName: indexName,
				Query:     args[0],
				TopK:      &topK,
			})
			if err != nil {
				return fmt.Errorf("search failed: %w", err)
			}

			if asJSON {
				data, err := json.MarshalIndent(resp, "", "  ")
				if err != nil {
					return fmt.Errorf("failed to marshal results: %w", err)
				}
				cmd.Println(string(data))
				return nil
			}

			if resp.TotalResults == 0 {
				cmd.Println("No results found.")
				return nil
			}
			for _, hit := range resp.Results {
				cmd.Printf("  [%d] %s (%.4f)\n", hit.Rank, hit.Filename, hit.SimilarityScore)
				cmd.Printf("      %s\n", hit.TextSnippet)
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&indexName, "index", "i", "", "index to search (default from config)")
	cmd.Flags().IntVarP(&topK, "top-k", "n", 5, "number of results (1-20)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "output results as JSON")
	return cmd
}

func newExportCmd(deps func() *app.App) *cobra.Command {
	var (
		format string
		output string
	)

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export the results store as CSV or XLSX",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			w := cmd.OutOrStdout()
			if output != "" && output != "-" {
				f, err := os.Create(output)
				if err != nil {
					return fmt.Errorf("creating %s: %w", output, err)
				}
				defer func() { _ = f.Close() }()
				w = f
			}
			return deps().Results.Export(cmd.Context(), domain.ExportFormat(format), w)
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", string(domain.ExportFormatCSV), "csv or xlsx")
	cmd.Flags().StringVarP(&output, "output", "o", "-", "output file, - for stdout")
	return cmd
}
