package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/alecthomas/kong"
	"github.com/fwojciec/sitefind"
	"github.com/fwojciec/sitefind/fs"
	sfhttp "github.com/fwojciec/sitefind/http"
	"github.com/fwojciec/sitefind/rod"
	"github.com/fwojciec/sitefind/sqlite"
	"github.com/fwojciec/sitefind/yaml"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	m := NewMain()

	if err := m.Run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}

// Main represents the program.
type Main struct {
	// Database path. Set before calling Run(); --db overrides it.
	DBPath string

	// SQLite database used by SQLite service implementations.
	DB *sqlite.DB

	// NewFetcher replaces the configured fetcher for end-to-end testing.
	NewFetcher func() (sitefind.Fetcher, error)
}

// NewMain returns a new instance of Main with defaults.
func NewMain() *Main {
	return &Main{
		DBPath: defaultDBPath(),
	}
}

// Close gracefully stops the program.
func (m *Main) Close() error {
	if m.DB != nil {
		return m.DB.Close()
	}
	return nil
}

// Run executes the CLI with the given arguments.
func (m *Main) Run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	deps := &Dependencies{
		Ctx:    ctx,
		Stdout: stdout,
		Stderr: stderr,
	}

	cli := &CLI{}
	parser, err := kong.New(cli,
		kong.Name("sitefind"),
		kong.Description("Find the official websites of companies through a search engine."),
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}), // Don't exit on help
		kong.Bind(deps),
	)
	if err != nil {
		return fmt.Errorf("failed to create parser: %w", err)
	}

	if len(args) == 0 {
		_, _ = parser.Parse([]string{"--help"})
		return fmt.Errorf("no command specified. Run 'sitefind --help' to see available commands")
	}

	cmd := args[0]
	if cmd == "help" || cmd == "--help" || cmd == "-h" {
		_, _ = parser.Parse([]string{"--help"})
		return nil
	}

	kongCtx, err := parser.Parse(args)
	if err != nil {
		return err
	}

	deps.Config = &cli.Config
	deps.Logger = newLogger(stderr, cli.Verbose)

	if cli.DB != "" {
		m.DBPath = cli.DB
	}
	m.DB = sqlite.NewDB(m.DBPath)
	if err := m.DB.Open(); err != nil {
		fmt.Fprintf(stderr, "Hint: Set SITEFIND_DB or --db to use a different database path\n")
		return fmt.Errorf("failed to open database at %q: %w", m.DBPath, err)
	}
	defer m.Close()

	runs := sqlite.NewRunService(m.DB)
	deps.Runs = runs
	deps.Cache = runs

	profiles, err := loadProfiles(cli.Engines)
	if err != nil {
		printError(stderr, err)
		return err
	}
	deps.Profiles = profiles

	if cli.DumpDir != "" {
		deps.Archive = fs.NewArchive(cli.DumpDir)
	}

	deps.NewFetcher = m.NewFetcher
	if deps.NewFetcher == nil {
		deps.NewFetcher = func() (sitefind.Fetcher, error) {
			return newFetcher(&cli.Config, profiles)
		}
	}

	return kongCtx.Run(deps)
}

// newLogger returns a text logger on w. Only warnings are shown unless
// verbose is set.
func newLogger(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

func loadProfiles(path string) (*sitefind.Profiles, error) {
	if path == "" {
		return yaml.DefaultProfiles()
	}
	return yaml.LoadFile(path)
}

// newFetcher opens the fetcher selected by cfg.
func newFetcher(cfg *Config, profiles *sitefind.Profiles) (sitefind.Fetcher, error) {
	if cfg.Fetcher == "http" {
		f, err := sfhttp.NewFetcher(profiles,
			sfhttp.WithTimeout(cfg.Timeout),
			sfhttp.WithProxy(cfg.Proxy),
			sfhttp.WithRateLimit(cfg.Delay),
		)
		if err != nil {
			return nil, err
		}
		return f, nil
	}

	session, err := rod.NewSession(
		rod.WithProxy(cfg.Proxy),
		rod.WithHeadless(!cfg.ShowBrowser),
	)
	if err != nil {
		return nil, err
	}
	return rod.NewFetcher(session, profiles,
		rod.WithFetchTimeout(cfg.Timeout),
		rod.WithThorough(cfg.Thorough),
	), nil
}

func defaultDBPath() string {
	if path := os.Getenv("SITEFIND_DB"); path != "" {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "sitefind.db"
	}
	dir := filepath.Join(home, ".sitefind")
	_ = os.MkdirAll(dir, 0755)
	return filepath.Join(dir, "sitefind.db")
}
