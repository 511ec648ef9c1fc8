package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/chenkai036/aoc/internal/logging"
	"github.com/chenkai036/aoc/internal/model"
	"github.com/chenkai036/aoc/internal/query"
	"github.com/chenkai036/aoc/internal/session"
	"github.com/chenkai036/aoc/internal/tui"
	"github.com/chenkai036/aoc/internal/web"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/pflag"
	"github.com/tcnksm/go-latest"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

type options struct {
	input     string
	json      bool
	yaml      bool
	report    bool
	output    string
	tui       bool
	web       bool
	addr      string
	logLevel  string
	logFormat string
	logFile   string
	verbose   bool
	version   bool
	update    bool
	help      bool
}

func newFlagSet(opts *options, stderr io.Writer) *pflag.FlagSet {
	flags := pflag.NewFlagSet("day7", pflag.ContinueOnError)
	flags.SetOutput(stderr)
	flags.Usage = func() {
		fmt.Fprintf(stderr, "Usage: day7 [options]\n\n")
		fmt.Fprintf(stderr, "day7 replays a terminal transcript of cd and ls commands, rebuilds the\n")
		fmt.Fprintf(stderr, "directory tree it reveals and answers both puzzle parts.\n\n")
		fmt.Fprintf(stderr, "Options:\n")
		flags.PrintDefaults()
		fmt.Fprintf(stderr, "\nExamples:\n")
		fmt.Fprintf(stderr, "  day7                    # Print part1 and part2 for input/day7.txt\n")
		fmt.Fprintf(stderr, "  day7 -i sample.txt -r   # Print a report for another transcript\n")
		fmt.Fprintf(stderr, "  day7 -r -v -o r.txt     # Save a report with the full tree\n")
		fmt.Fprintf(stderr, "  day7 --json             # Output the solved tree as JSON\n")
		fmt.Fprintf(stderr, "  day7 --tui              # Browse the tree interactively\n")
	}

	flags.StringVarP(&opts.input, "input", "i", session.DefaultInputPath, "Transcript to replay")
	flags.BoolVarP(&opts.json, "json", "j", false, "Output the solved tree as JSON")
	flags.BoolVarP(&opts.yaml, "yaml", "y", false, "Output the solved tree as YAML")
	flags.BoolVarP(&opts.report, "report", "r", false, "Print a human readable report")
	flags.StringVarP(&opts.output, "output", "o", "", "Save the report to the specified file (combined with --report)")
	flags.BoolVarP(&opts.tui, "tui", "t", false, "Browse the directory tree in a terminal UI")
	flags.BoolVarP(&opts.web, "web", "w", false, "Serve the solved tree as JSON over HTTP")
	flags.StringVar(&opts.addr, "addr", web.DefaultAddr, "Listen address for --web")
	flags.StringVar(&opts.logLevel, "log-level", "warn", "Log level (debug, info, warn, error)")
	flags.StringVar(&opts.logFormat, "log-format", "console", "Log format (console, json)")
	flags.StringVar(&opts.logFile, "log-file", "", "Write logs to this file instead of stderr")
	flags.BoolVarP(&opts.verbose, "verbose", "v", false, "Debug logging, and the full tree in reports")
	flags.BoolVarP(&opts.version, "version", "V", false, "Print version information")
	flags.BoolVarP(&opts.update, "update", "u", false, "Check for a newer release")
	flags.BoolVarP(&opts.help, "help", "h", false, "Show this help message")
	return flags
}

func checkUpdate(stdout io.Writer, currentVer string) {
	githubTag := &latest.GithubTag{
		Owner:      "chenkai036",
		Repository: "aoc",
	}

	res, err := latest.Check(githubTag, currentVer)
	if err != nil {
		logging.S().Debugf("update check failed: %v", err)
		return
	}

	if res.Outdated {
		fmt.Fprintf(stdout, "A new version is available: %s (you have %s)\n", res.Current, currentVer)
		fmt.Fprintln(stdout, "Download it from https://github.com/chenkai036/aoc/releases")
	} else {
		fmt.Fprintf(stdout, "You are using the latest version: %s\n", currentVer)
	}
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	var opts options
	flags := newFlagSet(&opts, stderr)
	if err := flags.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return 0
		}
		return 2
	}

	if opts.help {
		flags.Usage()
		return 0
	}
	if opts.version {
		fmt.Fprintf(stdout, "day7 version %s\n", model.Version)
		return 0
	}

	if err := logging.Init(logging.Config{Level: opts.logLevel, Format: opts.logFormat, OutputPath: opts.logFile}); err != nil {
		fmt.Fprintf(stderr, "day7: %v\n", err)
		return 1
	}
	defer logging.Sync()
	if opts.verbose {
		logging.SetLevel("debug")
	}

	if opts.update {
		checkUpdate(stdout, model.Version)
		return 0
	}

	if opts.tui {
		return runTuiMode(opts.input, opts.logFile != "", stderr)
	}

	state, err := session.ReplayFile(opts.input, session.WithLogger(logging.L()))
	if err != nil {
		return fail(stderr, opts.input, err)
	}

	if opts.web {
		if err := web.StartServer(opts.addr, state.FS, stdout); err != nil {
			return fail(stderr, opts.input, err)
		}
		return 0
	}

	if !opts.json && !opts.yaml && !opts.report {
		answers, err := query.SolveStore(state.FS)
		if err != nil {
			return fail(stderr, opts.input, err)
		}
		fmt.Fprintf(stdout, "part1 = %d\n", answers.Part1)
		fmt.Fprintf(stdout, "part2 = %d\n", answers.Part2)
		return 0
	}

	result, err := query.Summarize(state.FS)
	if err != nil {
		return fail(stderr, opts.input, err)
	}

	switch {
	case opts.report:
		err = runReportMode(stdout, result, opts.output, opts.verbose)
	case opts.json:
		enc := json.NewEncoder(stdout)
		enc.SetIndent("", "  ")
		err = enc.Encode(result)
	case opts.yaml:
		enc := yaml.NewEncoder(stdout)
		enc.SetIndent(2)
		if err = enc.Encode(result); err == nil {
			err = enc.Close()
		}
	}
	if err != nil {
		return fail(stderr, opts.input, err)
	}
	return 0
}

// fail reports err on one line. Parse errors additionally log the
// surrounding transcript lines at debug level.
func fail(stderr io.Writer, input string, err error) int {
	var perr *session.ParseError
	if errors.As(err, &perr) {
		ctx := model.GetLineContext(input, perr.Line)
		logging.L().Debug("transcript context",
			zap.Int("line", ctx.LineNumber),
			zap.Strings("before", ctx.Before),
			zap.String("target", ctx.Target),
			zap.Strings("after", ctx.After),
		)
	}
	fmt.Fprintf(stderr, "day7: %v\n", err)
	return 1
}

func runReportMode(stdout io.Writer, result model.Result, outputFile string, verbose bool) error {
	report := query.GenerateReport(result, verbose)

	if outputFile != "" {
		if err := os.WriteFile(outputFile, []byte(report), 0644); err != nil {
			return fmt.Errorf("write report: %w", err)
		}
		fmt.Fprintf(stdout, "Report saved to %s\n", outputFile)
		return nil
	}
	fmt.Fprintln(stdout, report)
	return nil
}

// runTuiMode browses the transcript. While the alt screen is up, logs go
// only to --log-file.
func runTuiMode(input string, logToFile bool, stderr io.Writer) int {
	m := tui.InitialModel(input)
	if logToFile {
		m.Logger = logging.L()
	}
	final, err := tea.NewProgram(m, tea.WithAltScreen()).Run()
	return tuiExitCode(final, err, stderr)
}

// tuiExitCode reports a program failure, or a load failure the user saw
// inside the browser, once the terminal is restored.
func tuiExitCode(final tea.Model, err error, stderr io.Writer) int {
	if err == nil {
		if m, ok := final.(tui.AppModel); ok {
			err = m.Err
		}
	}
	if err != nil {
		fmt.Fprintf(stderr, "day7: %v\n", err)
		return 1
	}
	return 0
}
