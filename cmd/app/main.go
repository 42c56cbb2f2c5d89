package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/akyairhashvil/worktime/internal/app"
	"github.com/akyairhashvil/worktime/internal/config"
	"github.com/akyairhashvil/worktime/internal/report"
	"github.com/akyairhashvil/worktime/internal/store"
	"github.com/akyairhashvil/worktime/internal/tracker"
	"github.com/akyairhashvil/worktime/internal/tui"
	"github.com/akyairhashvil/worktime/internal/util"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"
	"golang.org/x/term"
)

type options struct {
	configPath string
	storePath  string
	format     string
	exclusive  bool
	tickMode   string
	watch      bool
	reportPath string
	exportPath string
	importPath string
	version    bool

	// set holds the names of flags given on the command line.
	set map[string]bool
}

func parseFlags(args []string) (*options, error) {
	o := &options{}
	fs := flag.NewFlagSet(config.AppName, flag.ContinueOnError)
	fs.StringVar(&o.configPath, "config", config.Path(), "settings file")
	fs.StringVar(&o.storePath, "store", "", "timer store location (overrides settings and "+config.EnvStorePath+")")
	fs.StringVar(&o.format, "format", "", "store format: text, json, yaml or sqlite")
	fs.BoolVar(&o.exclusive, "exclusive", true, "allow only one running timer")
	fs.StringVar(&o.tickMode, "tick", "", "tick mode: live or fold")
	fs.BoolVar(&o.watch, "watch", false, "run headless and print running timers every second")
	fs.StringVar(&o.reportPath, "report", "", "write a PDF timesheet to this path (\"auto\" for the reports dir) and exit")
	fs.StringVar(&o.exportPath, "export", "", "write an encrypted export to this path and exit")
	fs.StringVar(&o.importPath, "import", "", "append timers from an encrypted export and exit")
	fs.BoolVar(&o.version, "version", false, "print the version and exit")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fs.NArg() > 0 {
		return nil, fmt.Errorf("unexpected arguments: %s", strings.Join(fs.Args(), " "))
	}
	o.set = make(map[string]bool)
	fs.Visit(func(f *flag.Flag) { o.set[f.Name] = true })
	return o, nil
}

// applyOverrides copies command line choices onto the loaded settings.
func applyOverrides(cfg *config.Settings, o *options) error {
	if o.storePath != "" {
		cfg.Store.Override = o.storePath
		if !o.set["format"] {
			cfg.Store.Format = string(store.FormatForPath(o.storePath))
		}
	}
	if o.set["format"] {
		f, err := store.ParseFormat(o.format)
		if err != nil {
			return err
		}
		cfg.Store.Format = string(f)
	}
	if o.set["exclusive"] {
		cfg.Timers.Exclusive = o.exclusive
	}
	if o.set["tick"] {
		cfg.Timers.TickMode = o.tickMode
	}
	return cfg.Validate()
}

func main() {
	if err := run(os.Args[1:]); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return
		}
		fmt.Fprintf(os.Stderr, "Alas, there's been an error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string) (err error) {
	o, err := parseFlags(args)
	if err != nil {
		return err
	}
	if o.version {
		fmt.Println(config.AppName, tui.VersionLabel())
		return nil
	}
	cfg, err := config.Load(o.configPath)
	if err != nil {
		return err
	}
	if err := applyOverrides(cfg, o); err != nil {
		return err
	}

	logger, closer, err := util.OpenLogFile(cfg.LogPath(), cfg.Log.Level)
	if err != nil {
		logger = util.NewConsoleLogger(cfg.Log.Level)
		logger.Warn().Err(err).Msg("log file unavailable, logging to stderr")
	} else {
		defer closer.Close()
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := app.Open(ctx, cfg, logger)
	if err != nil {
		return err
	}
	for _, s := range a.Skipped() {
		fmt.Fprintf(os.Stderr, "warning: %v\n", s)
	}
	saveOnExit := true
	defer func() {
		// the shutdown context outlives the signal
		var cerr error
		if saveOnExit {
			cerr = a.Close(context.Background())
		} else {
			cerr = a.Release()
		}
		if cerr != nil && err == nil {
			err = cerr
		}
	}()

	switch {
	case o.importPath != "":
		return importTimers(a, o.importPath)
	case o.exportPath != "":
		return exportTimers(a, o.exportPath)
	case o.reportPath != "":
		return writeReport(a, o.reportPath)
	case o.watch:
		return watch(ctx, a, os.Stdout, logger)
	}

	p := tea.NewProgram(tui.NewModel(ctx, a), tea.WithAltScreen(), tea.WithContext(ctx))
	final, runErr := p.Run()
	if m, ok := final.(tui.Model); ok {
		saveOnExit = m.NeedsSave()
	}
	if runErr != nil && !errors.Is(runErr, tea.ErrProgramKilled) {
		return runErr
	}
	return nil
}

// watch prints the running timers once per tick until interrupted.
func watch(ctx context.Context, a *app.App, w io.Writer, logger zerolog.Logger) error {
	sched := tracker.NewScheduler(config.TickInterval, a.Registry().Clock())
	logger.Info().Str("store", a.Store().Location()).Msg("watching timers")
	err := sched.RunRegistry(ctx, a.Registry(), func(now time.Time) {
		printRunning(w, a, now)
	})
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

func printRunning(w io.Writer, a *app.App, now time.Time) {
	var parts []string
	for _, t := range a.Timers() {
		if t.Running {
			parts = append(parts, fmt.Sprintf("%s %s", t.Label, t.Display.Clock()))
		}
	}
	if len(parts) == 0 {
		parts = append(parts, "no running timers")
	}
	fmt.Fprintf(w, "%s  total %s  %s\n", now.Format("15:04:05"), a.Total().Clock(), strings.Join(parts, ", "))
}

func writeReport(a *app.App, path string) error {
	now := time.Now()
	if path == "auto" {
		path = report.DefaultPDFPath(now)
	}
	if err := report.WritePDF(path, "Timesheet", a.Registry().Snapshot(), now); err != nil {
		return err
	}
	fmt.Printf("PDF Report generated: %s\n", path)
	return nil
}

func exportTimers(a *app.App, path string) error {
	pass, err := promptForKey("Export passphrase: ")
	if err != nil {
		return err
	}
	confirm, err := promptForKey("Repeat passphrase: ")
	if err != nil {
		return err
	}
	if pass != confirm {
		return errors.New("passphrases do not match")
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o600)
	if err != nil {
		return err
	}
	if err := report.ExportEncrypted(f, a.Registry().Snapshot(), pass); err != nil {
		_ = f.Close()
		_ = os.Remove(path)
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	fmt.Printf("Exported %d timer(s) to %s\n", a.Registry().Len(), path)
	return nil
}

func importTimers(a *app.App, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()
	pass, err := promptForKey("Import passphrase: ")
	if err != nil {
		return err
	}
	res, err := report.ImportEncrypted(f, pass)
	if err != nil {
		return err
	}
	a.Registry().Load(res.Entries, false)
	fmt.Printf("Imported %d timer(s) from %s\n", len(res.Entries), path)
	return nil
}

func promptForKey(prompt string) (string, error) {
	fmt.Fprint(os.Stderr, prompt)
	pass, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Fprintln(os.Stderr)
	return strings.TrimSpace(string(pass)), err
}
