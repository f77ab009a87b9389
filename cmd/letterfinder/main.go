package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/HarleyCoops/Churchill/internal/archive"
	"github.com/HarleyCoops/Churchill/internal/config"
	"github.com/HarleyCoops/Churchill/internal/database"
	"github.com/HarleyCoops/Churchill/internal/pipeline"
	"github.com/HarleyCoops/Churchill/internal/search"
)

var version = "dev"

var (
	verbose    bool
	configPath string
	cfg        *config.Config
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:     "letterfinder",
	Short:   "Search for the 1946 Fairfax-Churchill letter",
	Long:    "Letterfinder searches archive catalogs, downloads document scans, runs OCR, and scores the text to locate Colonel Bryan Fairfax's 1946 letter to Winston Churchill.",
	Version: version,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if verbose {
			log.SetFlags(log.LstdFlags | log.Lshortfile)
		} else {
			log.SetFlags(log.LstdFlags)
		}

		// Skip config loading for init and version
		if cmd.Name() == "init" || cmd.Name() == "version" {
			return nil
		}

		path, err := config.ResolveConfigPath(configPath)
		if err != nil {
			return err
		}
		cfg, err = config.Load(path)
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Path to config file")

	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(searchCmd)
	rootCmd.AddCommand(getCmd)
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(ocrCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("letterfinder", version)
	},
}

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize configuration in ~/.config/letterfinder/",
	RunE: func(cmd *cobra.Command, args []string) error {
		target := filepath.Join(config.ConfigDir(), "config.yaml")
		if _, err := os.Stat(target); err == nil {
			fmt.Printf("Config already exists: %s\n", target)
			return nil
		}

		if err := os.MkdirAll(config.ConfigDir(), 0o755); err != nil {
			return fmt.Errorf("creating config directory: %w", err)
		}

		if err := os.WriteFile(target, config.DefaultConfigYAML, 0o644); err != nil {
			return fmt.Errorf("writing config: %w", err)
		}

		fmt.Printf("Created config: %s\n", target)
		fmt.Println("Edit it to configure archive endpoints and API key environment variables.")
		return nil
	},
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show database and search progress",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openDB()
		if err != nil {
			return err
		}
		defer db.Close()

		stats, err := db.GetStats()
		if err != nil {
			return fmt.Errorf("getting stats: %w", err)
		}

		fmt.Println("Search progress:")
		fmt.Printf("  Runs: %d\n", stats.Runs)
		fmt.Printf("  Catalog records: %d\n", stats.Records)
		fmt.Printf("  Documents downloaded: %d\n", stats.Documents)
		fmt.Printf("  Pages OCR'd: %d\n", stats.Pages)
		fmt.Printf("  Candidate letters: %d\n", stats.Candidates)
		if stats.Candidates > 0 {
			fmt.Printf("  Best relevance score: %d\n", stats.BestScore)
		}

		last, err := db.GetLastRun()
		if err != nil {
			return err
		}
		if last != nil {
			fmt.Printf("\nLast run: #%d (%s)\n", last.ID, last.Status)
		}
		return nil
	},
}

// --- search command ---

var searchQuery string

var searchCmd = &cobra.Command{
	Use:   "search",
	Short: "Search archive catalogs without downloading anything",
	RunE: func(cmd *cobra.Command, args []string) error {
		interval := cfg.RateLimit()
		var sources []search.Source
		for _, ac := range cfg.Archives {
			sources = append(sources, search.Source{
				Client:     archive.NewClient(ac, interval),
				Queries:    ac.Queries,
				Collection: ac.Collection,
				Limit:      ac.Limit,
			})
		}

		start, end := cfg.Window()
		agg := search.NewAggregator(sources, start, end)
		result := agg.SearchAll(context.Background(), searchQuery)

		fmt.Println("\nSearch complete:")
		fmt.Printf("  Total records: %d\n", result.TotalRecords)
		if result.Errors > 0 {
			fmt.Printf("  Errors: %d\n", result.Errors)
		}

		if len(result.PerArchive) > 0 {
			fmt.Println("\nRecords by archive:")
			names := make([]string, 0, len(result.PerArchive))
			for name := range result.PerArchive {
				names = append(names, name)
			}
			sort.Strings(names)
			for _, name := range names {
				fmt.Printf("  %s: %d\n", name, result.PerArchive[name])
			}
		}

		locations := agg.Locations()
		if len(locations) > 0 {
			fmt.Println("\nMost likely locations:")
			for i, loc := range locations {
				fmt.Printf("  %d. %s\n", i+1, loc)
			}
		}
		return nil
	},
}

func init() {
	searchCmd.Flags().StringVarP(&searchQuery, "query", "q", "", "Additional query to issue against every archive")
}

// --- get command ---

var getCmd = &cobra.Command{
	Use:   "get [archive] [doc-id]",
	Short: "Retrieve one document's metadata from an archive",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		archiveName, docID := args[0], args[1]

		for _, ac := range cfg.Archives {
			if ac.Name != archiveName {
				continue
			}

			client := archive.NewClient(ac, cfg.RateLimit())
			doc := client.GetDocument(context.Background(), docID)
			if doc.Err != nil {
				fmt.Printf("Could not retrieve %s: %v\n", docID, doc.Err)
				return nil
			}

			fmt.Printf("Reference: %s\n", doc.Reference)
			fmt.Printf("Title: %s\n", doc.Title)
			fmt.Printf("Date: %s\n", doc.Date)
			if len(doc.Images) > 0 {
				fmt.Printf("Images: %d\n", len(doc.Images))
			}
			if doc.Description != "" {
				fmt.Printf("\n%s\n", doc.Description)
			}
			return nil
		}

		return fmt.Errorf("unknown archive %q; configured archives: %s", archiveName, archiveNames())
	},
}

func archiveNames() string {
	names := make([]string, len(cfg.Archives))
	for i, ac := range cfg.Archives {
		names[i] = ac.Name
	}
	return strings.Join(names, ", ")
}

// --- run command ---

var (
	runQuery   string
	runMaxDocs int
	runPeriod  string
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the full pipeline: search -> download -> ocr -> analyze -> extract -> report",
	RunE: func(cmd *cobra.Command, args []string) error {
		if runPeriod != "" {
			start, end, err := parsePeriod(runPeriod)
			if err != nil {
				return err
			}
			cfg.Search.WindowStart = start
			cfg.Search.WindowEnd = end
		}

		db, err := openDB()
		if err != nil {
			return err
		}
		defer db.Close()

		pipe := pipeline.New(cfg, db)
		result := pipe.Run(context.Background(), runQuery, runMaxDocs)
		printResult(result)
		return nil
	},
}

func printResult(result *pipeline.Result) {
	for i, step := range result.Steps {
		fmt.Printf("\nStep %d: %s\n", i+1, step.Name)
		if step.Err != nil {
			fmt.Printf("  Error: %v\n", step.Err)
		} else {
			fmt.Printf("  %s\n", step.Summary)
		}
	}

	fmt.Printf("\nSearch complete: %s\n", strings.ToUpper(result.Status))
	switch result.Status {
	case pipeline.StatusSuccess:
		fmt.Printf("Found %d potential matches for the Fairfax letter.\n", len(result.Candidates))
	case pipeline.StatusPartial:
		fmt.Println("Additional research needed. See the report for the search plan.")
	default:
		fmt.Println("No results found in any archives. Check API keys and endpoints.")
	}
	if result.ReportPath != "" {
		fmt.Printf("Report: %s\n", result.ReportPath)
	}
}

func init() {
	runCmd.Flags().StringVarP(&runQuery, "query", "q", "", "Additional query to issue against every archive")
	runCmd.Flags().IntVar(&runMaxDocs, "max-docs", 0, "Maximum documents to download (default from config)")
	runCmd.Flags().StringVar(&runPeriod, "period", "", "Override search window, e.g. '1946-10 to 1946-12'")
}

// parsePeriod converts "YYYY-MM to YYYY-MM" into full-month window bounds.
func parsePeriod(s string) (start, end string, err error) {
	parts := strings.Split(s, " to ")
	if len(parts) != 2 {
		return "", "", fmt.Errorf("invalid period %q; expected 'YYYY-MM to YYYY-MM'", s)
	}

	from, err := time.Parse("2006-01", strings.TrimSpace(parts[0]))
	if err != nil {
		return "", "", fmt.Errorf("invalid period start %q: %w", parts[0], err)
	}
	to, err := time.Parse("2006-01", strings.TrimSpace(parts[1]))
	if err != nil {
		return "", "", fmt.Errorf("invalid period end %q: %w", parts[1], err)
	}
	if to.Before(from) {
		return "", "", fmt.Errorf("period end %q before start %q", parts[1], parts[0])
	}

	lastDay := to.AddDate(0, 1, -1)
	return from.Format("2006-01-02"), lastDay.Format("2006-01-02"), nil
}

// --- ocr command ---

var ocrCmd = &cobra.Command{
	Use:   "ocr [dir]",
	Short: "Run OCR over an existing download directory",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openDB()
		if err != nil {
			return err
		}
		defer db.Close()

		pipe := pipeline.New(cfg, db)
		result, err := pipe.OCROnly(context.Background(), args[0])
		if err != nil {
			return err
		}
		printResult(result)
		return nil
	},
}

func openDB() (*database.DB, error) {
	dataDir := cfg.GetDataDir()
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}
	dbPath := filepath.Join(dataDir, "letterfinder.db")
	return database.Open(dbPath)
}
