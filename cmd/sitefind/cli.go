package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/fwojciec/sitefind"
)

// Dependencies holds all services and configuration for command execution.
type Dependencies struct {
	Ctx      context.Context
	Stdout   io.Writer
	Stderr   io.Writer
	Logger   *slog.Logger
	Config   *Config
	Profiles *sitefind.Profiles
	Runs     sitefind.RunService
	Cache    sitefind.OutcomeCache
	Archive  sitefind.PageArchive

	// NewFetcher opens one fetcher session. It is called once per
	// parallel session.
	NewFetcher func() (sitefind.Fetcher, error)
}

// Config holds the flags shared by all commands.
type Config struct {
	Engine      string        `short:"e" default:"google" enum:"google,yandex,duckduckgo,ddg" help:"Search engine (${enum})"`
	Retries     int           `short:"r" default:"3" help:"Attempts per company"`
	Delay       time.Duration `short:"d" default:"2s" help:"Minimum pause between requests"`
	Jitter      time.Duration `default:"2s" help:"Upper bound of the random time added to --delay"`
	Keywords    bool          `short:"k" help:"Append the engine's keywords to each query"`
	KeywordText string        `name:"keyword-text" placeholder:"TEXT" help:"Keywords appended by --keywords instead of the engine's"`
	Thorough    bool          `help:"Scroll results pages and wait longer for them"`
	Fetcher     string        `default:"rod" enum:"rod,http" help:"Page fetcher (${enum})"`
	ShowBrowser bool          `name:"show-browser" help:"Show the browser window instead of running headless"`
	Proxy       string        `placeholder:"URL" help:"Proxy for all requests"`
	Rate        float64       `placeholder:"RPS" help:"Requests per second to the engine across all sessions (0 means unlimited)"`
	Sessions    int           `short:"s" default:"1" help:"Parallel fetcher sessions"`
	Timeout     time.Duration `default:"30s" help:"Timeout per results page"`
	Engines     string        `type:"existingfile" placeholder:"FILE" help:"YAML file overriding engine profiles"`
	DB          string        `name:"db" placeholder:"PATH" help:"History database (default SITEFIND_DB or ~/.sitefind/sitefind.db)"`
	DumpDir     string        `name:"dump-dir" placeholder:"DIR" help:"Save results pages that produced no website"`
	Reuse       bool          `help:"Reuse websites found in earlier runs"`
	Verbose     bool          `short:"v" help:"Log every resolution step"`
}

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	Config `embed:""`

	Run     RunCmd     `cmd:"" help:"Resolve websites for a company list file"`
	Resolve ResolveCmd `cmd:"" help:"Resolve websites for companies given as arguments"`
	History HistoryCmd `cmd:"" help:"List past runs or show the results of one"`
}

// RunCmd is the "run" subcommand.
type RunCmd struct {
	Input     string `arg:"" type:"existingfile" help:"Company list (.csv or .xlsx)"`
	Output    string `short:"o" placeholder:"FILE" help:"Result file (.csv or .xlsx); defaults to <input>_results.csv"`
	NoHistory bool   `name:"no-history" help:"Do not record the run in the history database"`
}

// ResolveCmd is the "resolve" subcommand.
type ResolveCmd struct {
	Names []string `arg:"" help:"Company names"`
}

// HistoryCmd is the "history" subcommand.
type HistoryCmd struct {
	RunID  string `arg:"" optional:"" help:"Run ID whose results to show"`
	Limit  int    `short:"n" default:"20" help:"Maximum number of runs to list"`
	Delete bool   `help:"Delete the run instead of showing it"`
}

// printError writes err to w. Application errors show their message;
// anything else is shown in full.
func printError(w io.Writer, err error) {
	msg := sitefind.ErrorMessage(err)
	if sitefind.ErrorCode(err) == sitefind.EINTERNAL {
		msg = err.Error()
	}
	fmt.Fprintf(w, "error: %s\n", msg)
}
