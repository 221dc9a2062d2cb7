// Command knobs edits .env files and prints its own knob registry.
//
//	knobs [flags] <command> [args]
//
// Commands:
//
//	list                 print every resolved KEY=VALUE of the file
//	get KEY              print the resolved value of KEY
//	set KEY VALUE        add or update KEY, creating the file if needed
//	unset KEY            remove KEY
//	find [START]         print the nearest dotenv file above START
package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/pflag"

	"github.com/vivaneiona/knobs"
	"github.com/vivaneiona/knobs/dotenv"
)

var (
	dotenvFile = knobs.String("KNOBS_DOTENV_FILE", ".env",
		knobs.WithDescription("Dotenv file read and written by the commands"))
	quoteMode = knobs.String("KNOBS_QUOTE_MODE", string(dotenv.QuoteAlways),
		knobs.WithDescription("Quoting of values written by set and unset (always or auto)")).
		WithValidator(knobs.MustExprValidator[string](`value in ["always", "auto"]`))
	verbose = knobs.Bool("KNOBS_VERBOSE", false,
		knobs.WithDescription("Warn about missing files and keys"))
	logLevel = knobs.String("KNOBS_LOG_LEVEL", "info",
		knobs.WithDescription("Log level (debug, info, warn, error)")).
		WithValidator(knobs.MustExprValidator[string](`lower(value) in ["debug", "info", "warn", "error"]`))
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

// options holds the effective settings after knobs and flags are merged.
type options struct {
	file     string
	quote    dotenv.QuoteMode
	verbose  bool
	logLevel slog.Level
}

func run(args []string, stdout, stderr io.Writer) int {
	red := color.New(color.FgRed)

	// seed the knobs below from the nearest .env, if any
	_, _ = knobs.LoadDotenv()

	defaults, knobErrs := loadDefaults()

	fs := pflag.NewFlagSet("knobs", pflag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() { printUsage(stderr, fs) }

	file := fs.StringP("file", "f", defaults.file, "dotenv file")
	quote := fs.StringP("quote", "q", string(defaults.quote), "quote mode: always or auto")
	verb := fs.BoolP("verbose", "v", defaults.verbose, "warn about missing files and keys")
	level := fs.String("log-level", defaults.logLevel.String(), "log level")
	table := fs.Bool("table", false, "print the configuration knobs as a table and exit")
	showDefaults := fs.Bool("defaults", false, "print the configuration knobs as a .env template and exit")
	writeDefaults := fs.String("write-defaults", "", "write the knob defaults to a new .env file and exit")

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return 0
		}
		return 2
	}

	// a broken knob only matters when no flag replaces it
	for _, ke := range knobErrs {
		if !fs.Changed(ke.flag) {
			red.Fprintf(stderr, "Error: %v\n", ke.err)
			return 1
		}
	}

	opts := options{file: *file, verbose: *verb}
	var err error
	if opts.quote, err = dotenv.ParseQuoteMode(*quote); err != nil {
		red.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	if err := opts.logLevel.UnmarshalText([]byte(*level)); err != nil {
		red.Fprintf(stderr, "Error: invalid log level %q\n", *level)
		return 1
	}

	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: opts.logLevel}))
	slog.SetDefault(logger)

	switch {
	case *table:
		fmt.Fprint(stdout, knobs.Default().ExportTable())
		return 0
	case *showDefaults:
		fmt.Fprintln(stdout, knobs.Default().ExportDefaults())
		return 0
	case *writeDefaults != "":
		if err := knobs.Default().WriteDefaults(*writeDefaults); err != nil {
			red.Fprintf(stderr, "Error: %v\n", err)
			return 1
		}
		logger.Info("wrote defaults", "path", *writeDefaults)
		return 0
	}

	rest := fs.Args()
	if len(rest) == 0 {
		fs.Usage()
		return 2
	}

	if err := dispatch(rest[0], rest[1:], opts, logger, stdout); err != nil {
		red.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

// knobError is a configuration knob that failed to load, keyed by the flag
// that overrides it.
type knobError struct {
	flag string
	err  error
}

// loadDefaults reads the configuration knobs. A knob that fails falls back
// to its declared default and is reported in the returned errors.
func loadDefaults() (options, []knobError) {
	var errs []knobError

	file, err := dotenvFile.Value()
	if err != nil {
		file = dotenvFile.Default()
		errs = append(errs, knobError{"file", err})
	}
	quote, err := quoteMode.Value()
	if err != nil {
		quote = quoteMode.Default()
		errs = append(errs, knobError{"quote", err})
	}
	verb, err := verbose.Value()
	if err != nil {
		verb = verbose.Default()
		errs = append(errs, knobError{"verbose", err})
	}
	level, err := logLevel.Value()
	if err != nil {
		level = logLevel.Default()
		errs = append(errs, knobError{"log-level", err})
	}

	opts := options{
		file:    file,
		quote:   dotenv.QuoteMode(quote),
		verbose: verb,
	}
	if err := opts.logLevel.UnmarshalText([]byte(level)); err != nil {
		opts.logLevel = slog.LevelInfo
		errs = append(errs, knobError{"log-level", fmt.Errorf("invalid log level %q: %w", level, err)})
	}
	return opts, errs
}

func dispatch(cmd string, args []string, opts options, logger *slog.Logger, stdout io.Writer) error {
	green := color.New(color.FgGreen)

	dotenvOpts := []dotenv.Option{dotenv.WithLogger(logger)}
	if opts.verbose {
		dotenvOpts = append(dotenvOpts, dotenv.WithVerbose())
	}

	switch cmd {
	case "list":
		if err := expectArgs(cmd, args, 0); err != nil {
			return err
		}
		values, err := dotenv.Read(opts.file, dotenvOpts...)
		if err != nil {
			return err
		}
		for _, e := range values.Entries() {
			fmt.Fprintf(stdout, "%s=%s\n", e.Key, e.Value)
		}

	case "get":
		if err := expectArgs(cmd, args, 1); err != nil {
			return err
		}
		value, err := dotenv.Get(opts.file, args[0], dotenvOpts...)
		if err != nil {
			return err
		}
		fmt.Fprintln(stdout, value)

	case "set":
		if err := expectArgs(cmd, args, 2); err != nil {
			return err
		}
		if err := touch(opts.file); err != nil {
			return err
		}
		entry, err := dotenv.Set(opts.file, args[0], args[1], opts.quote, dotenvOpts...)
		if err != nil {
			return err
		}
		logger.Debug("set key", "file", opts.file, "key", entry.Key)
		green.Fprintf(stdout, "%s=%s\n", entry.Key, entry.Value)

	case "unset":
		if err := expectArgs(cmd, args, 1); err != nil {
			return err
		}
		key, err := dotenv.Unset(opts.file, args[0], opts.quote, dotenvOpts...)
		if err != nil {
			return err
		}
		logger.Debug("unset key", "file", opts.file, "key", key)
		green.Fprintf(stdout, "Successfully removed %s\n", key)

	case "find":
		if len(args) > 1 {
			return fmt.Errorf("find takes at most 1 argument, got %d", len(args))
		}
		start := ""
		if len(args) == 1 {
			start = args[0]
		}
		path, err := dotenv.Find(start, filepath.Base(opts.file))
		if err != nil {
			return err
		}
		fmt.Fprintln(stdout, path)

	default:
		return fmt.Errorf("unknown command: %s", cmd)
	}
	return nil
}

func expectArgs(cmd string, args []string, n int) error {
	if len(args) != n {
		return fmt.Errorf("%s takes %d argument(s), got %d", cmd, n, len(args))
	}
	return nil
}

// touch creates path if it does not exist yet.
func touch(path string) error {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	return f.Close()
}

func printUsage(w io.Writer, fs *pflag.FlagSet) {
	yellow := color.New(color.FgYellow)

	fmt.Fprintln(w, "Usage: knobs [flags] <command> [args]")
	fmt.Fprintln(w)
	yellow.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  list                 Print every resolved KEY=VALUE of the file")
	fmt.Fprintln(w, "  get KEY              Print the resolved value of KEY")
	fmt.Fprintln(w, "  set KEY VALUE        Add or update KEY")
	fmt.Fprintln(w, "  unset KEY            Remove KEY")
	fmt.Fprintln(w, "  find [START]         Print the nearest dotenv file above START")
	fmt.Fprintln(w)
	yellow.Fprintln(w, "Flags:")
	fmt.Fprint(w, fs.FlagUsages())
	fmt.Fprintln(w)
	yellow.Fprintln(w, "Environment:")
	for _, e := range knobs.Default().Entries() {
		fmt.Fprintf(w, "  %-20s %s\n", e.Name(), strings.TrimSpace(e.Help()))
	}
}
