package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/warp/welfare-intel/api"
	"github.com/warp/welfare-intel/config"
	"github.com/warp/welfare-intel/factory"
	"github.com/warp/welfare-intel/store/sqlite"
	"github.com/warp/welfare-intel/welfare"
	"github.com/xuri/excelize/v2"
)

var errInvalidDataset = errors.New("dataset has consistency errors")

// =============================================================================
// VALIDATE
// =============================================================================

func validateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate [dataset-dir]",
		Short: "Check a dataset directory for consistency errors",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			snap, err := factory.NewDatasetFactory().Load(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			report := welfare.Validate(snap)
			printReport(cmd.OutOrStdout(), report)
			if !report.Valid {
				return errInvalidDataset
			}
			return nil
		},
	}
}

func printReport(w io.Writer, r *welfare.Report) {
	for _, group := range [][]welfare.Finding{r.Errors, r.Warnings, r.Info} {
		for _, f := range group {
			key := f.Collection
			if f.Key != "" {
				key += "/" + f.Key
			}
			fmt.Fprintf(w, "%-7s %-28s %s\n", f.Severity, key, f.Message)
		}
	}
	fmt.Fprintln(w, r.Summary)
}

// =============================================================================
// BUILD-DB
// =============================================================================

func buildDBCmd() *cobra.Command {
	var (
		force bool
		keep  int
	)

	cmd := &cobra.Command{
		Use:   "build-db [dataset-dir] [out.db]",
		Short: "Compile a dataset directory into a SQLite snapshot",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			snap, err := factory.NewDatasetFactory().Load(ctx, args[0])
			if err != nil {
				return err
			}
			report := welfare.Validate(snap)
			if !report.Valid && !force {
				printReport(cmd.ErrOrStderr(), report)
				return fmt.Errorf("%w (use --force to compile anyway)", errInvalidDataset)
			}

			store, err := sqlite.New(args[1])
			if err != nil {
				return err
			}
			defer store.Close()

			if err := store.Save(ctx, snap); err != nil {
				return err
			}
			if keep > 0 {
				if _, err := store.Prune(ctx, keep); err != nil {
					return err
				}
			}
			fmt.Fprintf(cmd.OutOrStdout(), "snapshot %s written to %s (%s)\n", snap.ID, args[1], report.Summary)
			return nil
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "compile even when the dataset has errors")
	cmd.Flags().IntVar(&keep, "keep", 0, "keep only the newest N snapshots (0 keeps all)")
	return cmd
}

// =============================================================================
// EXPORT
// =============================================================================

type exportSource struct {
	dataDir string
	dbPath  string
}

func (s *exportSource) bind(cmd *cobra.Command) {
	cmd.Flags().StringVar(&s.dataDir, "data", "", "dataset directory (default: [data] dir)")
	cmd.Flags().StringVar(&s.dbPath, "db", "", "compiled SQLite snapshot, wins over --data (default: [data] db)")
}

// apply lays the flags the user set over the [data] section of cfg.
func (s *exportSource) apply(cmd *cobra.Command, cfg *config.Config) {
	flags := cmd.Flags()
	if flags.Changed("data") {
		cfg.Data.Dir = s.dataDir
	}
	if flags.Changed("db") {
		cfg.Data.DB = s.dbPath
	}
}

// load reads the config, applies the source flags and opens the catalog.
func (s *exportSource) load(cmd *cobra.Command, configPath string) (*config.Config, *welfare.Catalog, error) {
	cfg, _, err := config.Load(configPath)
	if err != nil {
		return nil, nil, err
	}
	s.apply(cmd, cfg)
	c, err := s.catalog(cmd.Context(), cfg)
	if err != nil {
		return nil, nil, err
	}
	return cfg, c, nil
}

func (s *exportSource) catalog(ctx context.Context, cfg *config.Config) (*welfare.Catalog, error) {
	snap, err := loadSnapshot(ctx, cfg.Data.Dir, cfg.Data.DB)
	if err != nil {
		return nil, err
	}
	return welfare.NewCatalog(snap), nil
}

func exportCmd(configPath *string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export dashboard tables as XLSX",
	}
	cmd.AddCommand(exportCompareCmd(configPath))
	cmd.AddCommand(exportRankingCmd(configPath))
	return cmd
}

func exportCompareCmd(configPath *string) *cobra.Command {
	var (
		src exportSource
		ids []string
	)

	cmd := &cobra.Command{
		Use:   "compare [out.xlsx]",
		Short: "Export the comparison of --ids",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, c, err := src.load(cmd, *configPath)
			if err != nil {
				return err
			}
			cmp := welfare.Compare(c, ids, handlerOptions(cfg).Compare)
			if !cmp.Ready {
				return fmt.Errorf("%s", cmp.Message)
			}
			f, err := api.CompareWorkbook(cmp)
			if err != nil {
				return err
			}
			return saveWorkbook(cmd.OutOrStdout(), f, args[0])
		},
	}

	src.bind(cmd)
	cmd.Flags().StringSliceVar(&ids, "ids", []string{"litalico", "welbe"}, "company ids in column order")
	return cmd
}

func exportRankingCmd(configPath *string) *cobra.Command {
	var src exportSource

	cmd := &cobra.Command{
		Use:   "ranking [out.xlsx]",
		Short: "Export the revenue ranking",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, c, err := src.load(cmd, *configPath)
			if err != nil {
				return err
			}
			f, err := api.RankingWorkbook(welfare.RevenueRanking(c, cfg.Analytics.RankingExclude))
			if err != nil {
				return err
			}
			return saveWorkbook(cmd.OutOrStdout(), f, args[0])
		},
	}

	src.bind(cmd)
	return cmd
}

func saveWorkbook(out io.Writer, f *excelize.File, path string) error {
	defer f.Close()
	if err := f.SaveAs(path); err != nil {
		os.Remove(path)
		return fmt.Errorf("writing %s: %w", path, err)
	}
	fmt.Fprintf(out, "wrote %s\n", path)
	return nil
}
