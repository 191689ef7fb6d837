// Copyright (c) 2025 Mensahub
// Mensad - school cafeteria meal plan service
// This source code is licensed under the MIT license found in the LICENSE file.

// main.go sets up the command-line interface (CLI) for the mensad
// application using the Cobra library. It defines the root command,
// subcommands (like serve, fetch, show), flags, and the main entry
// point for execution.

package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"runtime/debug"

	log "github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/mensahub/mensad/internal/api"
	"github.com/mensahub/mensad/internal/archive"
	"github.com/mensahub/mensad/internal/config"
	"github.com/mensahub/mensad/internal/db"
	"github.com/mensahub/mensad/internal/fetch"
	"github.com/mensahub/mensad/internal/i18n"
	"github.com/mensahub/mensad/internal/state"
	"github.com/mensahub/mensad/ui/tui"
)

var version = "dev"   // this will be set by the linker
var gitCommit = "dev" // set at build time with the short commit SHA
var buildDate = ""    // set at build time (RFC3339)
var cfgFile string
var fullRestore bool // Flag for the restore command

var verbose bool
var showVersionFlag bool

var appConfig config.Config

// appStore holds the store opened by setupDefaultServices so the serve
// command can probe the live connection for /healthz. It stays nil when the
// database was initialized elsewhere (tests).
var appStore db.Store

func setupDefaultServices(cmd *cobra.Command, args []string) error {
	// Load optional config file argument from cli
	optional_config_path, err := getConfigPathFromCli(cmd)
	if err != nil {
		return err
	}

	// Load config
	defauls := map[string]any{
		"database.type":        "sqlite",
		"database.dsn":         "./mensad.db",
		"server.addr":          ":8000",
		"fetch.interval_hours": 24,
		"fetch.archive_dir":    "./archive",
		"language":             "en",
	}

	appConfig, err = config.LoadConfig[config.Config](cmd, defauls, optional_config_path)
	if err != nil {
		return fmt.Errorf("error loading config: %w", err)
	}

	// First run: persist the resolved defaults so subsequent runs have a
	// config file to inspect and edit. Only when no config file exists in
	// any of the searched locations, so a project-local mensad.yaml is not
	// shadowed by a generated user config.
	if optional_config_path == nil && !anyConfigFileExists() {
		if writeErr := config.WriteConfigFile(&appConfig, false); writeErr != nil {
			// Log a warning but don't fail, as the app can run on defaults.
			log.Warnf("Warning: could not write default config file: %v", writeErr)
		}
	}

	// Post-process config to ensure critical values are not empty, falling back to defaults.
	// This handles cases where the user's config file has empty values for these fields.
	if appConfig.Database.Type == "" {
		appConfig.Database.Type = defauls["database.type"].(string)
	}
	if appConfig.Database.Dsn == "" {
		appConfig.Database.Dsn = defauls["database.dsn"].(string)
	}
	if appConfig.Fetch.ArchiveDir == "" {
		appConfig.Fetch.ArchiveDir = defauls["fetch.archive_dir"].(string)
	}
	if appConfig.Language == "" {
		appConfig.Language = defauls["language"].(string)
	}

	// Initialize i18n
	i18n.Init(appConfig.Language)

	// Initialize the database if not already initialized by tests or earlier setup.
	if !db.IsInitialized() {
		s, err := db.New(appConfig.Database.Type, appConfig.Database.Dsn)
		if err != nil {
			return errors.New(i18n.T("config.error_init_db", err))
		}
		appStore = s
	}

	return nil
}

// Execute runs the CLI entrypoint. The root main package calls this
// function and handles process exit.
func Execute() error {
	rootCmd := NewRootCmd()

	if err := rootCmd.Execute(); err != nil {
		return err
	}

	return nil
}

func applyDefaultFlags(cmd *cobra.Command) {
	// Avoid redefining flags if they already exist (NewRootCmd may be called
	// multiple times in tests which creates a new root but uses package-level
	// subcommands). pflag will panic on duplicate flag definitions, so check
	// first.
	if cmd.Flags().Lookup("database.type") == nil {
		cmd.Flags().String("database.type", "sqlite", "Database type (e.g., sqlite, postgres)")
	}
	if cmd.Flags().Lookup("database.dsn") == nil {
		cmd.Flags().String("database.dsn", "./mensad.db", "Database connection string (DSN)")
	}
}

func getConfigPathFromCli(cmd *cobra.Command) (*string, error) {
	// Load optional config file argument from cli
	// Only proceed if the user has explicitly set the --config flag.
	if cmd.Flags().Changed("config") {
		path, err := cmd.Flags().GetString("config")
		if err != nil {
			// This is unlikely if Changed() is true, but good practice.
			return nil, fmt.Errorf("could not read --config flag: %w", err)
		}

		// If the flag is set but the value is empty, do nothing.
		if path == "" {
			return nil, nil
		}

		// Make sure the user-provided file exists to avoid unwanted behavior.
		if _, err := os.Stat(path); err != nil {
			return nil, fmt.Errorf("config file specified via --config flag not found or is not accessible: %w", err)
		}
		return &path, nil // Return the valid path
	}
	return nil, nil
}

// anyConfigFileExists reports whether a config file is present in any of the
// locations LoadConfig searches: the user and system config dirs plus the
// working directory (including the legacy dotfile name).
func anyConfigFileExists() bool {
	var candidates []string
	if p, err := config.GetConfigPath(false); err == nil {
		candidates = append(candidates, p)
	}
	if p, err := config.GetConfigPath(true); err == nil {
		candidates = append(candidates, p)
	}
	candidates = append(candidates, "mensad.yaml", ".mensad.yaml")

	for _, p := range candidates {
		if _, err := os.Stat(p); err == nil {
			return true
		}
	}
	return false
}

// NewRootCmd creates and configures a new root cobra command.
// This function is used to create the main application command as well as
// fresh instances for isolated testing.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mensad",
		Short: "Mensad serves the school cafeteria's weekly meal plan.",
		Long: `Mensad fetches the cafeteria's published meal plan ("Speisenplan") PDF,
parses it into structured weekly data and serves it over a small JSON
API. The database becomes the source of truth; every fetched PDF is
kept in a local archive.

Running without a subcommand will launch the interactive TUI.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if showVersionFlag {
				v, c, d := resolveBuildVersion(nil)
				compositeVersion := v
				if c != "" && c != "dev" {
					compositeVersion = compositeVersion + " (" + c + ")"
				}
				if d != "" {
					compositeVersion = compositeVersion + " built: " + d
				}
				fmt.Printf("%s\n", compositeVersion)
				os.Exit(0)
			}
			if verbose {
				db.SetDebug(true)
			}
			return setupDefaultServices(cmd, args)
		},
		Run: func(cmd *cobra.Command, args []string) {
			// The database is already initialized by PersistentPreRunE.
			// i18n is also initialized, so we can just run the TUI.
			tui.Run()
		},
	}

	v, c, d := resolveBuildVersion(nil)
	compositeVersion := v
	if c != "" && c != "dev" {
		compositeVersion = compositeVersion + " (" + c + ")"
	}
	if d != "" {
		compositeVersion = compositeVersion + " built: " + d
	}
	cmd.Version = compositeVersion

	// Register debug command
	cmd.AddCommand(debugCmd)

	// Define flags
	cmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output (sets -v for DB logs)")
	cmd.PersistentFlags().BoolVarP(&showVersionFlag, "version", "V", false, "Print version and exit")
	cmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file")
	cmd.PersistentFlags().String("language", "en", `UI language ("en", "de")`)
	applyDefaultFlags(cmd)

	// Add subcommand flags
	applyDefaultFlags(serveCmd)
	if serveCmd.Flags().Lookup("addr") == nil {
		serveCmd.Flags().String("addr", "", "HTTP listen address (overrides server.addr)")
	}
	applyDefaultFlags(fetchCmd)
	if fetchCmd.Flags().Lookup("url") == nil {
		fetchCmd.Flags().String("url", "", "Plan PDF URL (overrides fetch.url)")
	}
	applyDefaultFlags(showCmd)
	if showCmd.Flags().Lookup("json") == nil {
		showCmd.Flags().Bool("json", false, "Print the stored plan as JSON")
	}
	applyDefaultFlags(searchCmd)
	if searchCmd.Flags().Lookup("filter") == nil {
		searchCmd.Flags().String("filter", "", `Filter expression like "rind & !wok"`)
	}
	applyDefaultFlags(dedupeCmd)
	if dedupeCmd.Flags().Lookup("apply") == nil {
		dedupeCmd.Flags().Bool("apply", false, "Merge the duplicates instead of previewing")
	}
	if dedupeCmd.Flags().Lookup("threshold") == nil {
		dedupeCmd.Flags().Float64("threshold", 0, "Similarity threshold between 0 and 1 (0 uses the built-in default)")
	}
	if dedupeCmd.Flags().Lookup("limit") == nil {
		dedupeCmd.Flags().Int("limit", 0, "Show at most this many groups (0 shows all)")
	}
	applyDefaultFlags(analyzeCmd)
	applyDefaultFlags(dbMaintainCmd)
	if dbMaintainCmd.Flags().Lookup("skip-integrity") == nil {
		dbMaintainCmd.Flags().Bool("skip-integrity", false, "Skip integrity_check (SQLite) during maintenance")
	}
	if dbMaintainCmd.Flags().Lookup("timeout") == nil {
		dbMaintainCmd.Flags().Int("timeout", 0, "Timeout in seconds for maintenance (0 means no timeout)")
	}
	applyDefaultFlags(backupCmd)
	applyDefaultFlags(restoreCmd)
	if restoreCmd.Flags().Lookup("full") == nil {
		restoreCmd.Flags().BoolVar(&fullRestore, "full", false, "Perform a full, destructive restore (wipes all existing data first)")
	}
	applyDefaultFlags(migrateCmd)
	if migrateCmd.Flags().Lookup("type") == nil {
		migrateCmd.Flags().String("type", "", "Target database type (sqlite, postgres, mysql)")
	}
	if migrateCmd.Flags().Lookup("dsn") == nil {
		migrateCmd.Flags().String("dsn", "", "Target database connection string (DSN)")
	}

	// Add a lightweight `version` subcommand so users and CI can run `mensad version`.
	versionCmd := &cobra.Command{
		Use:   "version",
		Short: "Print version",
		Run: func(cmd *cobra.Command, args []string) {
			// Re-resolve build info so the subcommand shows the same values
			resolvedVersion := version
			resolvedCommit := gitCommit
			resolvedDate := buildDate
			if info, ok := debug.ReadBuildInfo(); ok {
				if info.Main.Version != "" && info.Main.Version != "(devel)" {
					resolvedVersion = info.Main.Version
				}
				for _, s := range info.Settings {
					switch s.Key {
					case "vcs.revision":
						if s.Value != "" {
							resolvedCommit = s.Value
						}
					case "vcs.time":
						if s.Value != "" {
							resolvedDate = s.Value
						}
					}
				}
			}

			fmt.Printf("version: %s\n", resolvedVersion)
			fmt.Printf("commit: %s\n", resolvedCommit)
			if resolvedDate != "" {
				fmt.Printf("built: %s\n", resolvedDate)
			}
		},
	}

	// Add subcommands to the newly created root command.
	cmd.AddCommand(
		serveCmd,
		fetchCmd,
		showCmd,
		searchCmd,
		dedupeCmd,
		analyzeCmd,
		backupCmd,
		restoreCmd,
		migrateCmd,
		dbMaintainCmd,
		versionCmd,
	)

	return cmd
}

// resolveBuildVersion computes the best-available version, commit and build
// date for the running binary. If `info` is nil, it reads build info from
// the runtime. This helper is separated to make unit testing straightforward.
func resolveBuildVersion(info *debug.BuildInfo) (versionOut, commitOut, dateOut string) {
	resolvedVersion := version
	resolvedCommit := gitCommit
	resolvedDate := buildDate

	var ok bool
	if info == nil {
		if infoLocal, found := debug.ReadBuildInfo(); found {
			info = infoLocal
			ok = true
		}
	} else {
		ok = true
	}

	if ok && info != nil {
		if info.Main.Version != "" && info.Main.Version != "(devel)" {
			resolvedVersion = info.Main.Version
		}
		// If Main doesn't contain the version (some build paths), try to
		// find our module in the dependencies and use that version.
		if (resolvedVersion == "dev" || resolvedVersion == "(devel)") && info.Deps != nil {
			for _, dep := range info.Deps {
				if dep.Path == "github.com/mensahub/mensad" && dep.Version != "" {
					resolvedVersion = dep.Version
					break
				}
			}
		}

		for _, s := range info.Settings {
			switch s.Key {
			case "vcs.revision":
				if s.Value != "" {
					resolvedCommit = s.Value
				}
			case "vcs.time":
				if s.Value != "" {
					resolvedDate = s.Value
				}
			}
		}
	}

	// As a last resort, if no version was discovered, but a gitCommit was
	// provided via ldflags, show that to aid support.
	if resolvedVersion == "dev" && gitCommit != "dev" && gitCommit != "" {
		resolvedVersion = gitCommit
	}

	return resolvedVersion, resolvedCommit, resolvedDate
}

// serveCmd represents the 'serve' command.
// It runs the HTTP API and the background fetch scheduler until the process
// receives SIGINT or SIGTERM, then shuts down gracefully.
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the meal plan HTTP API and fetch scheduler",
	Long: `Starts the long-running mensad service: an HTTP API serving the stored
meal plans and archived PDFs, plus a scheduler that re-fetches the
published plan at the configured interval.

The service stops cleanly on SIGINT or SIGTERM.`,
	PreRunE: setupDefaultServices,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		addr := appConfig.Server.Addr
		if flagAddr, _ := cmd.Flags().GetString("addr"); flagAddr != "" {
			addr = flagAddr
		}
		if addr == "" {
			addr = api.DefaultAddr
		}

		arc := archive.New(appConfig.Fetch.ArchiveDir)
		cache := state.NewPlanCache()
		st := &cliPlanStore{}

		var fetcher *fetch.Fetcher
		if appConfig.Fetch.Url != "" {
			fetcher = fetch.New(fetch.Options{
				URL:         appConfig.Fetch.Url,
				Timeout:     time.Duration(appConfig.Fetch.TimeoutSeconds) * time.Second,
				ArchiveKeep: appConfig.Fetch.ArchiveKeep,
			}, st, arc, cache)
		}

		opts := api.Options{
			Addr:      addr,
			Token:     appConfig.Server.Token,
			RateRPS:   appConfig.Server.RateLimit.Rps,
			RateBurst: appConfig.Server.RateLimit.Burst,
		}
		if appStore != nil {
			bunDB := appStore.BunDB()
			opts.Ping = func(ctx context.Context) error { return bunDB.PingContext(ctx) }
		}

		// Assign through a typed check so a nil *fetch.Fetcher never ends
		// up inside a non-nil api.Refresher.
		var refresher api.Refresher
		if fetcher != nil {
			refresher = fetcher
		}
		srv := api.New(opts, st, arc, cache, refresher)

		if fetcher != nil {
			interval := time.Duration(appConfig.Fetch.IntervalHours) * time.Hour
			sched := fetch.NewScheduler(fetcher, interval)
			go sched.Run(ctx)
			log.Infof("%s", i18n.T("serve.cli_scheduler", int(sched.Interval().Hours())))
		} else {
			log.Warnf("%s", i18n.T("fetch.cli_no_url"))
		}

		log.Infof("%s", i18n.T("serve.cli_listening", addr))
		err := srv.Run(ctx)
		log.Infof("%s", i18n.T("serve.cli_shutdown"))
		return err
	},
}

// fetchCmd represents the 'fetch' command.
// It performs a single download/parse/store cycle and exits.
var fetchCmd = &cobra.Command{
	Use:   "fetch",
	Short: "Fetch and store the current meal plan once",
	Long: `Downloads the published meal plan PDF, archives it, parses the weekly
plan and stores it in the database. If the PDF has not changed since
the last run, nothing is written.`,
	PreRunE: setupDefaultServices,
	Run: func(cmd *cobra.Command, args []string) {
		url := appConfig.Fetch.Url
		if flagURL, _ := cmd.Flags().GetString("url"); flagURL != "" {
			url = flagURL
		}
		if url == "" {
			log.Fatalf("%s", i18n.T("fetch.cli_no_url"))
		}

		fmt.Println(i18n.T("fetch.cli_starting", url))
		arc := archive.New(appConfig.Fetch.ArchiveDir)
		f := fetch.New(fetch.Options{
			URL:         url,
			Timeout:     time.Duration(appConfig.Fetch.TimeoutSeconds) * time.Second,
			ArchiveKeep: appConfig.Fetch.ArchiveKeep,
		}, &cliPlanStore{}, arc, nil)

		plan, err := f.Fetch(cmd.Context())
		if errors.Is(err, fetch.ErrUnchanged) {
			fmt.Println(i18n.T("fetch.cli_unchanged"))
			return
		}
		if err != nil {
			log.Fatalf("%s", i18n.T("fetch.cli_error", err))
		}
		fmt.Println(i18n.T("fetch.cli_success", plan.Key(), len(plan.Days)))
	},
}

// promptForConfirmation displays a prompt and reads a line from stdin.
func promptForConfirmation(prompt string) string {
	fmt.Print(prompt)
	reader := bufio.NewReader(os.Stdin)
	answer, _ := reader.ReadString('\n')
	return strings.TrimSpace(strings.ToLower(answer))
}
