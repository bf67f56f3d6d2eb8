package main

import (
	"fmt"
	"math/rand/v2"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"reviewwise/internal/categorize"
	"reviewwise/internal/domain"
	"reviewwise/internal/report"
	"reviewwise/internal/shared"
	"reviewwise/internal/storage"
	"reviewwise/internal/synth"
)

func newRootCommand() *cobra.Command {
	var cfgFile string

	root := &cobra.Command{
		Use:           "reviewctl",
		Short:         "Inspect and seed the review corpus",
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if cfgFile != "" {
				return os.Setenv("CONFIG_FILE", cfgFile)
			}
			return nil
		},
	}
	root.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (yaml, toml or json)")

	root.AddCommand(
		newGenerateCommand(),
		newStatsCommand(),
		newCategorizeCommand(),
		newTaxonomyCommand(),
	)
	return root
}

func newGenerateCommand() *cobra.Command {
	var (
		out  string
		seed uint64
	)
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Write a synthetic review CSV into the data directory",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := shared.Load()
			if out == "" {
				out = filepath.Join(cfg.DataDir, "additional_reviews.csv")
			}
			if seed == 0 {
				seed = rand.Uint64()
			}
			rows := synth.New(rand.New(rand.NewPCG(seed, seed))).Rows()

			if err := os.MkdirAll(filepath.Dir(out), 0o755); err != nil {
				return err
			}
			f, err := os.Create(out)
			if err != nil {
				return err
			}
			if err := synth.WriteCSV(f, rows); err != nil {
				f.Close()
				return err
			}
			if err := f.Close(); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Generated %d synthetic reviews in %s\n", len(rows), out)
			return nil
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "", "output path (default <data dir>/additional_reviews.csv)")
	cmd.Flags().Uint64Var(&seed, "seed", 0, "random seed (0 picks one)")
	return cmd
}

func newStatsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show stored reviews per category",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := shared.Load()
			tax, err := categorize.LoadOrDefault(cfg.TaxonomyFile)
			if err != nil {
				return err
			}
			repo, err := storage.Open(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer repo.Close()

			counts, err := repo.CountByCategory(cmd.Context())
			if err != nil {
				return err
			}
			order := append(tax.Labels(), domain.FallbackCategory)
			return report.Write(cmd.OutOrStdout(), report.Counts(counts, order))
		},
	}
}

func newCategorizeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "categorize <item name> <review text>",
		Short: "Print the category a review would be filed under",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			tax, err := categorize.LoadOrDefault(shared.Load().TaxonomyFile)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), tax.Categorize(args[0], args[1]))
			return nil
		},
	}
}

func newTaxonomyCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "taxonomy",
		Short: "List categories and keywords in match order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			tax, err := categorize.LoadOrDefault(shared.Load().TaxonomyFile)
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			for i, c := range tax.Categories() {
				fmt.Fprintf(w, "%d. %s: %s\n", i+1, c.Label, strings.Join(c.Keywords, ", "))
			}
			fmt.Fprintf(w, "fallback: %s\n", domain.FallbackCategory)
			return nil
		},
	}
}
