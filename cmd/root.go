package cmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/marcus/catalog/internal/api"
	"github.com/marcus/catalog/internal/config"
	"github.com/marcus/catalog/internal/output"
	"github.com/marcus/catalog/internal/session"
	"github.com/marcus/catalog/pkg/dashboard"
)

var (
	version string
	baseDir string
	cfg     *config.Config
	logger  = slog.New(slog.DiscardHandler)
	logFile io.Closer
)

var (
	flagAPIURL  string
	flagLogFile string
	flagDebug   bool
	flagNoColor bool
)

// SetVersion sets the version string
func SetVersion(v string) {
	version = v
}

var rootCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Terminal client for the catalog service",
	Long: `catalog - browse, edit and administer a catalog of items from the terminal.

Run without a subcommand to open the interactive dashboard.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runDashboard,
}

// Execute runs the root command
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if logFile != nil {
		logFile.Close()
	}
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initApp)

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&flagAPIURL, "api-url", "", "backend base URL (overrides CATALOG_API_URL)")
	pf.StringVar(&flagLogFile, "log-file", "", "write JSON logs to this file")
	pf.BoolVar(&flagDebug, "debug", false, "log at debug level")
	pf.BoolVar(&flagNoColor, "no-color", false, "disable colours")
}

// addJSONFlag registers the --json switch shared by the listing commands
func addJSONFlag(fs *pflag.FlagSet) {
	fs.Bool("json", false, "output as JSON")
}

func initApp() {
	var err error
	baseDir, err = config.Dir()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: cannot determine config directory: %v\n", err)
		os.Exit(1)
	}
	cfg, err = config.LoadWithEnv(baseDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: cannot load config: %v\n", err)
		os.Exit(1)
	}
	if flagAPIURL != "" {
		cfg.APIURL = flagAPIURL
	}
	if flagLogFile != "" {
		cfg.LogFile = flagLogFile
	}

	dashboard.ApplyColorProfile(dashboard.ColorProfile(flagNoColor))

	if err := initLogger(cfg.LogFile, flagDebug); err != nil {
		fmt.Fprintf(os.Stderr, "Error: cannot open log file: %v\n", err)
		os.Exit(1)
	}
}

// initLogger points the package logger at a JSON log file. Without one,
// logs are discarded since the dashboard owns the terminal.
func initLogger(path string, debug bool) error {
	if path == "" {
		return nil
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0600)
	if err != nil {
		return err
	}
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}
	logger = slog.New(slog.NewJSONHandler(f, &slog.HandlerOptions{Level: level}))
	logFile = f
	logger.Debug("config loaded", "dir", baseDir, "api_url", cfg.APIURL)
	return nil
}

// openSession opens the token store next to the config file
func openSession() (*session.Store, error) {
	return session.Open(baseDir)
}

func newClient(tokens api.TokenSource) *api.Client {
	return api.New(cfg.APIURL, tokens,
		api.WithTimeout(cfg.RequestTimeout()),
		api.WithLogger(logger),
	)
}

// withClient opens the session store and runs fn with a client bound to it
func withClient(fn func(*api.Client, *session.Store) error) error {
	store, err := openSession()
	if err != nil {
		return err
	}
	defer store.Close()
	return fn(newClient(store), store)
}

// requireSession fails early when no token is stored
func requireSession(store *session.Store) error {
	if !store.HasToken() {
		return api.ErrNotAuthenticated
	}
	return nil
}

// report prints err the way every subcommand does and hands it back to cobra
func report(err error) error {
	if err != nil {
		output.Error("%s", api.UserMessage(err))
	}
	return err
}
