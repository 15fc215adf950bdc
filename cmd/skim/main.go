package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"goskim/adapters/api"
	"goskim/adapters/arrowframe"
	"goskim/adapters/excel"
	"goskim/adapters/render"
	"goskim/adapters/sqlsource"
	"goskim/app"
	"goskim/domain/frame"
	"goskim/internal"
	"goskim/internal/config"
	"goskim/internal/errors"
	"goskim/internal/naming"
	"goskim/internal/testkit"
	"goskim/ports"
)

var version = "dev"

// cli carries state shared by every subcommand once flags are parsed
type cli struct {
	configFile string
	logLevel   string
	format     string
	name       string
	bins       int

	cfg    *config.Config
	logger *internal.Logger
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		stop()
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	c := &cli{}

	rootCmd := &cobra.Command{
		Use:   "skim <path>",
		Short: "Summarize a CSV, XLSX or Arrow file column by column",
		Long: `skim prints a statistical summary of a tabular file: missingness,
distribution statistics and a small histogram for every column, grouped by type.

Example: skim data.csv --format json`,
		Args:              cobra.ExactArgs(1),
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: c.setup,
		RunE: func(cmd *cobra.Command, args []string) error {
			src, err := c.fileSource(args[0])
			if err != nil {
				return err
			}
			return c.skim(cmd, src)
		},
	}

	rootCmd.PersistentFlags().StringVar(&c.configFile, "config", "", "Config file (yaml, toml or json)")
	rootCmd.PersistentFlags().StringVar(&c.logLevel, "log-level", "", "Log level: ERROR, WARN, INFO, DEBUG or TRACE")
	rootCmd.PersistentFlags().StringVarP(&c.format, "format", "f", "console", "Output format: "+strings.Join(render.Formats, ", "))
	rootCmd.PersistentFlags().StringVar(&c.name, "name", "", "Dataset name shown in the summary")
	rootCmd.PersistentFlags().IntVar(&c.bins, "bins", 0, "Histogram bins (default from config)")

	rootCmd.AddCommand(
		c.newCleanColumnsCmd(),
		c.newDemoCmd(),
		c.newSQLCmd(),
		c.newServeCmd(),
		newVersionCmd(),
	)
	return rootCmd
}

// setup loads configuration and applies flag overrides
func (c *cli) setup(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(c.configFile)
	if err != nil {
		return err
	}
	if c.bins != 0 {
		cfg.Summary.Bins = c.bins
	}
	level := cfg.Log.Level
	if c.logLevel != "" {
		level = c.logLevel
	}
	c.cfg = cfg
	c.logger = internal.NewLogger(internal.ParseLogLevel(level))
	return nil
}

func (c *cli) fileSource(path string) (ports.DatasetSource, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".arrow", ".feather", ".ipc":
		return &arrowframe.FileSource{Path: path, Name: c.name, Logger: c.logger}, nil
	case ".csv", ".tsv", ".txt", ".xlsx", ".xlsm":
		cfg := excel.DefaultExcelConfig()
		cfg.FilePath = path
		cfg.Name = c.name
		cfg.Delimiter = c.cfg.Delimiter()
		if strings.EqualFold(filepath.Ext(path), ".tsv") {
			cfg.Delimiter = '\t'
		}
		return excel.NewDataReader(cfg).WithLogger(c.logger), nil
	}
	return nil, errors.InvalidInput(fmt.Sprintf("unsupported file type %q", filepath.Ext(path)))
}

func (c *cli) skim(cmd *cobra.Command, src ports.DatasetSource) error {
	renderer, err := render.ForFormat(c.format)
	if err != nil {
		return err
	}
	svc, err := app.NewSkimService(c.cfg.SummaryConfig(), c.logger)
	if err != nil {
		return err
	}

	ds, err := src.Load(cmd.Context())
	if err != nil {
		return err
	}
	if c.name != "" {
		ds.Name = c.name
	}
	res, err := svc.Skim(cmd.Context(), ds)
	if err != nil {
		return err
	}
	return renderer.Render(cmd.OutOrStdout(), res)
}

func (c *cli) newCleanColumnsCmd() *cobra.Command {
	var (
		caseStyle   string
		replace     []string
		keepAccents bool
	)

	cmd := &cobra.Command{
		Use:   "clean-columns <path>",
		Short: "Print the normalized column names of a file, one per line",
		Long: `Normalize column names: replacements, accent removal, case conversion,
then de-duplication.

Example: skim clean-columns data.csv --case camel --replace "%=percent"`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := naming.DefaultOptions()
			opts.Case = naming.CaseStyle(caseStyle)
			opts.RemoveAccents = !keepAccents
			for _, r := range replace {
				old, repl, ok := strings.Cut(r, "=")
				if !ok || old == "" {
					return errors.InvalidInput(fmt.Sprintf("replacement %q must look like old=new", r))
				}
				opts.Replace = append(opts.Replace, naming.Replacement{Old: old, New: repl})
			}

			src, err := c.fileSource(args[0])
			if err != nil {
				return err
			}
			ds, err := src.Load(cmd.Context())
			if err != nil {
				return err
			}
			clean, err := naming.CleanColumns(ds, opts)
			if err != nil {
				return err
			}
			for _, name := range clean.Names() {
				fmt.Fprintln(cmd.OutOrStdout(), name)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&caseStyle, "case", string(naming.Snake), "Case style: snake, kebab, camel, pascal, const, sentence, title, lower, upper")
	cmd.Flags().StringArrayVar(&replace, "replace", nil, "Replacement old=new, applied before case conversion (repeatable)")
	cmd.Flags().BoolVar(&keepAccents, "keep-accents", false, "Keep accented characters")
	return cmd
}

func (c *cli) newDemoCmd() *cobra.Command {
	var (
		seed uint64
		rows int
	)

	cmd := &cobra.Command{
		Use:   "demo",
		Short: "Summarize a generated dataset with every column type",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.skim(cmd, demoSource{seed: seed, rows: rows})
		},
	}

	cmd.Flags().Uint64Var(&seed, "seed", testkit.DemoSeed, "Random seed")
	cmd.Flags().IntVar(&rows, "rows", testkit.DemoRows, "Number of rows")
	return cmd
}

type demoSource struct {
	seed uint64
	rows int
}

func (d demoSource) Load(context.Context) (*frame.Dataset, error) {
	return testkit.GenerateDemoDataset(d.seed, d.rows)
}

func (c *cli) newSQLCmd() *cobra.Command {
	var dsn string

	cmd := &cobra.Command{
		Use:   "sql <query>",
		Short: "Summarize the result of a SQL query (PostgreSQL or MySQL)",
		Long: `Run a query and summarize its rows. The driver is picked from the DSN.

Example: skim sql "SELECT * FROM film" --dsn "root:root@tcp(127.0.0.1:3306)/sakila"`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if dsn == "" {
				dsn = c.cfg.Database.DSN
			}
			if dsn == "" {
				return errors.ConfigInvalid("a DSN is required (--dsn or SKIM_DATABASE_DSN)")
			}
			db, err := sqlsource.Open(cmd.Context(), dsn)
			if err != nil {
				return err
			}
			defer db.Close()
			return c.skim(cmd, sqlsource.New(db, c.name, args[0]).WithLogger(c.logger))
		},
	}

	cmd.Flags().StringVar(&dsn, "dsn", "", "Database DSN (default from config)")
	return cmd
}

func (c *cli) newServeCmd() *cobra.Command {
	var port string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := app.NewSkimService(c.cfg.SummaryConfig(), c.logger)
			if err != nil {
				return err
			}
			apiCfg := api.DefaultConfig()
			apiCfg.Port = c.cfg.Server.Port
			if port != "" {
				apiCfg.Port = port
			}
			apiCfg.Delimiter = c.cfg.Delimiter()
			return api.NewServer(svc, apiCfg, c.logger).Run(cmd.Context())
		},
	}

	cmd.Flags().StringVar(&port, "port", "", "Listen port (default from config)")
	return cmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		// Skip config loading.
		PersistentPreRunE: func(*cobra.Command, []string) error { return nil },
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), "skim", version)
		},
	}
}
