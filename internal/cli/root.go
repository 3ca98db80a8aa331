package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"track/internal/app"
	"track/internal/config"
	"track/internal/logging"
	"track/internal/record"
	"track/internal/session"
	"track/internal/storage"
	"track/internal/storage/file"
	"track/internal/storage/sqlite"
	"track/internal/trackerr"
)

const helpText = `track: time tracking and productivity utility

Usage:
	%[1]s [options] argument

Options:
	-h  Display help information and quit
	-l  Display current statistics and quit
	-p  Show precise time information when using -l
	-r  Reset time statistics and quit
	-j  Print statistics as JSON when using -l
	--history          Show recently tracked sessions and quit
	--limit N          Number of sessions shown by --history
	-c, --config FILE  Read configuration from FILE
	--data FILE        Use FILE as the data file
	--log FILE         Append log output to FILE
	-v, --verbose      Log debug information

Accepted arguments:
	stop     Stop tracking time
	waste    Track wasted time
	work     Track time spent working
	read     Track time spent reading
	write    Track time spent writing
	program  Track time spent programming
	study    Track time spent studying
`

// invocation bound; every operation is local
const runTimeout = 30 * time.Second

// JournalOpener opens and initializes the session journal at path.
type JournalOpener func(ctx context.Context, path string, log logrus.FieldLogger) (storage.Journal, error)

// Options carries the collaborators of the CLI. Zero fields get the
// production defaults.
type Options struct {
	Fs          afero.Fs
	Clock       session.Clock
	HomeDir     func() (string, error)
	Stdout      io.Writer
	Stderr      io.Writer
	OpenJournal JournalOpener
}

func (o Options) withDefaults() Options {
	if o.Fs == nil {
		o.Fs = afero.NewOsFs()
	}
	if o.Clock == nil {
		o.Clock = session.SystemClock
	}
	if o.HomeDir == nil {
		o.HomeDir = config.HomeDir
	}
	if o.Stdout == nil {
		o.Stdout = os.Stdout
	}
	if o.Stderr == nil {
		o.Stderr = os.Stderr
	}
	if o.OpenJournal == nil {
		o.OpenJournal = OpenSQLiteJournal
	}
	return o
}

// OpenSQLiteJournal is the default JournalOpener.
func OpenSQLiteJournal(ctx context.Context, path string, log logrus.FieldLogger) (storage.Journal, error) {
	j := sqlite.NewSQLiteStore(path, log)
	if err := j.Init(ctx); err != nil {
		return nil, err
	}
	return j, nil
}

type rootFlags struct {
	list       bool
	precise    bool
	reset      bool
	jsonOut    bool
	history    bool
	limit      int
	configPath string
	dataPath   string
	logPath    string
	verbose    bool
}

// NewRootCmd builds the track command.
func NewRootCmd(opts Options) *cobra.Command {
	opts = opts.withDefaults()
	f := &rootFlags{}

	cmd := &cobra.Command{
		Use:           "track [options] argument",
		Short:         "Time tracking and productivity utility",
		Args:          cobra.ArbitraryArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, args, f, opts)
		},
	}
	cmd.SetOut(opts.Stdout)
	cmd.SetErr(opts.Stderr)
	cmd.SetHelpFunc(func(c *cobra.Command, _ []string) {
		fmt.Fprintf(c.ErrOrStderr(), helpText, c.Name())
	})

	flags := cmd.Flags()
	flags.SortFlags = false
	flags.BoolVarP(&f.list, "list", "l", false, "Display current statistics and quit")
	flags.BoolVarP(&f.precise, "precise", "p", false, "Show precise time information when using -l")
	flags.BoolVarP(&f.reset, "reset", "r", false, "Reset time statistics and quit")
	flags.BoolVarP(&f.jsonOut, "json", "j", false, "Print statistics as JSON when using -l")
	flags.BoolVar(&f.history, "history", false, "Show recently tracked sessions and quit")
	flags.IntVar(&f.limit, "limit", 0, "Number of sessions shown by --history")
	flags.StringVarP(&f.configPath, "config", "c", "", "Path to configuration file")
	flags.StringVar(&f.dataPath, "data", "", "Path to the data file")
	flags.StringVar(&f.logPath, "log", "", "Path to log file (defaults to stderr)")
	flags.BoolVarP(&f.verbose, "verbose", "v", false, "Log debug information")
	return cmd
}

func run(cmd *cobra.Command, args []string, f *rootFlags, opts Options) error {
	ctx, cancel := context.WithTimeout(cmd.Context(), runTimeout)
	defer cancel()

	flags := cmd.Flags()
	loader := config.Loader{
		Fs:      opts.Fs,
		HomeDir: opts.HomeDir,
		Flags: map[string]*pflag.Flag{
			"data_path":      flags.Lookup("data"),
			"log_file":       flags.Lookup("log"),
			"report.precise": flags.Lookup("precise"),
			"history.limit":  flags.Lookup("limit"),
		},
		Log: quietLogger(opts.Stderr),
	}
	cfg, err := loader.Load(f.configPath)
	if err != nil {
		return err
	}
	if f.verbose {
		cfg.LogLevel = "debug"
	}

	logger, logFile, err := logging.Setup(cfg.LogLevel, cfg.LogFile, opts.Stderr)
	if err != nil {
		logger.WithError(err).Warn("file logging unavailable, logging to stderr")
	}
	if logFile != nil {
		defer logFile.Close()
	}

	// the token is checked before anything is opened
	trackToken := ""
	if !f.reset && !f.list && !f.history {
		if len(args) != 1 {
			return trackerr.MissingArgument()
		}
		if _, ok := record.ParseStatus(args[0]); !ok {
			return trackerr.IllegalArgument(args[0])
		}
		trackToken = args[0]
	}

	var journal storage.Journal
	needJournal := f.reset || f.history || trackToken != ""
	if needJournal && cfg.History.Enabled {
		journal, err = opts.OpenJournal(ctx, cfg.History.Path, logger)
		if err != nil {
			if f.history && !f.reset {
				return trackerr.Wrap(err, trackerr.CodeIOFailure, "failed to open session history")
			}
			logger.WithError(err).Warn("session journal unavailable")
			journal = nil
		}
	}

	a := app.NewApp(app.Options{
		Config:  cfg,
		Store:   file.New(opts.Fs, cfg.DataPath),
		Journal: journal,
		Clock:   opts.Clock,
		Log:     logger,
		Out:     cmd.OutOrStdout(),
	})
	defer func() {
		if err := a.Close(); err != nil {
			logger.WithError(err).Warn("failed to close session journal")
		}
	}()

	switch {
	case f.reset:
		return a.Reset(ctx)
	case f.list:
		return a.Report(cfg.Report.Precise, f.jsonOut)
	case f.history:
		return a.History(ctx, cfg.History.Limit, cfg.Report.Precise)
	default:
		return a.Track(ctx, trackToken)
	}
}

// quietLogger is used while the configuration, and so the real log level,
// is still unknown.
func quietLogger(w io.Writer) logrus.FieldLogger {
	l := logrus.New()
	l.SetOutput(w)
	l.SetLevel(logrus.WarnLevel)
	l.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})
	return l
}

// Execute runs the command line and returns the process exit code.
func Execute(ctx context.Context, args []string, opts Options) int {
	opts = opts.withDefaults()
	cmd := NewRootCmd(opts)
	cmd.SetArgs(args)
	if err := cmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(opts.Stderr, "err: %v\n", err)
		return trackerr.ExitCode(err)
	}
	return 0
}
