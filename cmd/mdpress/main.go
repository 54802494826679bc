// mdpress converts a directory of markdown files into a static, paginated,
// directly-linkable JSON content store plus the page shell that renders it in
// the browser.
package main

import (
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/eringen/mdpress"
	"github.com/eringen/mdpress/scaffold"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// version is set at build time via ldflags.
var version = "dev"

var cfgFile string

func main() {
	root := &cobra.Command{
		Use:           "mdpress",
		Short:         "Static markdown publishing pipeline",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return initConfig()
		},
	}

	setupFlags(root)
	root.AddCommand(newIngestCmd(), newServeCmd(), newNewCmd(), newHistoryCmd(), newVersionCmd())

	if err := root.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func setupFlags(cmd *cobra.Command) {
	applyDefaults(viper.GetViper())

	cmd.PersistentFlags().StringVar(&cfgFile, "config", "", "Path to configuration file")
	cmd.PersistentFlags().String("source-dir", viper.GetString("source.dir"), "Markdown source directory")
	cmd.PersistentFlags().String("site-dir", viper.GetString("site.dir"), "Site web root (the store lives under it)")
	cmd.PersistentFlags().String("store-dir", viper.GetString("store.dir"), "Store destination directory")
	cmd.PersistentFlags().Bool("recursive", viper.GetBool("ingest.recursive"), "Scan the source directory recursively")
	cmd.PersistentFlags().String("history-path", viper.GetString("history.path"), "Run-ledger SQLite path (empty disables it)")
	cmd.PersistentFlags().String("http-address", viper.GetString("http.address"), "Preview server listen address")
	cmd.PersistentFlags().String("log-level", viper.GetString("log.level"), "Log level (debug, info, warn, error)")

	bindFlag(cmd, "source.dir", "source-dir")
	bindFlag(cmd, "site.dir", "site-dir")
	bindFlag(cmd, "store.dir", "store-dir")
	bindFlag(cmd, "ingest.recursive", "recursive")
	bindFlag(cmd, "history.path", "history-path")
	bindFlag(cmd, "http.address", "http-address")
	bindFlag(cmd, "log.level", "log-level")
}

func bindFlag(cmd *cobra.Command, key, flag string) {
	if err := viper.BindPFlag(key, cmd.PersistentFlags().Lookup(flag)); err != nil {
		panic(err)
	}
}

func initConfig() error {
	if cfgFile == "" {
		return nil
	}
	viper.SetConfigFile(cfgFile)
	if err := viper.ReadInConfig(); err != nil {
		return fmt.Errorf("read config %s: %w", cfgFile, err)
	}
	return nil
}

func newIngestCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "ingest",
		Short: "Ingest markdown sources into the store",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := loadConfig(viper.GetViper())
			log, err := mdpress.NewLogger(cfg.LogLevel)
			if err != nil {
				return err
			}
			defer log.Sync()

			store, err := mdpress.NewStore(cfg.StoreDir)
			if err != nil {
				return fmt.Errorf("open store: %w", err)
			}

			started := time.Now()
			sum, err := mdpress.NewIngestor(cfg, store, mdpress.WithLogger(log)).Run()
			if err != nil {
				return err
			}

			fmt.Println(sum)
			for _, w := range sum.Warnings {
				fmt.Printf("  warning: %s\n", w)
			}

			if cfg.HistoryPath != "" {
				h, err := mdpress.OpenHistory(cfg.HistoryPath)
				if err != nil {
					return fmt.Errorf("open history: %w", err)
				}
				defer h.Close()
				if err := h.Record(started, time.Since(started), sum); err != nil {
					return fmt.Errorf("record run: %w", err)
				}
			}
			return nil
		},
	}
}

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Preview the site and store locally",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := loadConfig(viper.GetViper())
			log, err := mdpress.NewLogger(cfg.LogLevel)
			if err != nil {
				return err
			}
			defer log.Sync()

			siteDir := viper.GetString("site.dir")
			fmt.Printf("Serving %s on %s\n", siteDir, cfg.Addr)
			e := mdpress.NewServer(cfg, siteDir, log)
			if err := e.Start(cfg.Addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		},
	}
}

func newNewCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "new <directory>",
		Short: "Create a new mdpress site",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := args[0]
			if _, err := os.Stat(dir); err == nil {
				return fmt.Errorf("directory %q already exists", dir)
			}

			siteDir := filepath.Join(dir, "site")
			if err := scaffold.Write(siteDir); err != nil {
				return fmt.Errorf("write site shell: %w", err)
			}
			for _, sub := range []string{"content", filepath.Join("site", "db")} {
				if err := os.MkdirAll(filepath.Join(dir, sub), 0o755); err != nil {
					return err
				}
			}

			fmt.Printf("Created new mdpress site: %s\n\n", dir)
			fmt.Println("Next steps:")
			fmt.Println()
			fmt.Printf("  cd %s\n", dir)
			fmt.Println("  # drop markdown files into content/")
			fmt.Println("  mdpress ingest")
			fmt.Println("  mdpress serve")
			return nil
		},
	}
}

func newHistoryCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "history",
		Short: "List recent ingestion runs",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := loadConfig(viper.GetViper())
			if cfg.HistoryPath == "" {
				return fmt.Errorf("no history path configured; set --history-path")
			}
			h, err := mdpress.OpenHistory(cfg.HistoryPath)
			if err != nil {
				return err
			}
			defer h.Close()

			runs, err := h.Recent(20)
			if err != nil {
				return err
			}
			if len(runs) == 0 {
				fmt.Println("No recorded runs.")
				return nil
			}
			for _, r := range runs {
				fmt.Printf("%s  %6s  scanned %d, inserted %d, skipped %d, %d warning(s)\n",
					r.StartedAt, r.Duration.Round(time.Millisecond),
					r.Scanned, r.Inserted, r.Skipped, len(r.Warnings))
			}
			return nil
		},
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the mdpress version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("mdpress %s\n", version)
		},
	}
}
