// Package cli holds the wiring shared by the hue-* binaries.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/netip"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/charmbracelet/log"
	"github.com/samber/lo"
	"github.com/spf13/pflag"
	"github.com/wheelibin/hueclient/internal/concurrency"
	"github.com/wheelibin/hueclient/internal/config"
	"github.com/wheelibin/hueclient/pkg/discovery"
	"github.com/wheelibin/hueclient/pkg/hue"
	"gopkg.in/natefinch/lumberjack.v2"
)

const exitFailure = 2

type App struct {
	Name   string
	Config *config.Config
	Logger *log.Logger
	Flags  *pflag.FlagSet

	usage string
	out   io.Writer
}

// Init parses the command line, loads the configuration and builds the logger.
// extraFlags may add binary specific flags. On a usage or config error the
// process exits.
func Init(name, usage string, extraFlags func(fs *pflag.FlagSet)) *App {
	fs := pflag.NewFlagSet(name, pflag.ContinueOnError)
	config.RegisterFlags(fs)
	if extraFlags != nil {
		extraFlags(fs)
	}
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "usage: %s %s\n\n", name, usage)
		fs.PrintDefaults()
	}

	if err := fs.Parse(os.Args[1:]); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			os.Exit(0)
		}
		os.Exit(exitFailure)
	}

	cfg, err := config.Load(fs)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(exitFailure)
	}

	return &App{
		Name:   name,
		Config: cfg,
		Logger: NewLogger(cfg),
		Flags:  fs,
		usage:  usage,
		out:    os.Stdout,
	}
}

// NewLogger logs to the configured file, rotated by lumberjack, or to stderr.
func NewLogger(cfg *config.Config) *log.Logger {
	if cfg.Log.File != "" {
		return log.NewWithOptions(&lumberjack.Logger{
			Filename: cfg.Log.File,
			MaxAge:   3,
		}, log.Options{
			Level:      parseLevel(cfg.Log.Level),
			TimeFormat: "2006/01/02 15:04:05",
		})
	}
	return log.NewWithOptions(os.Stderr, log.Options{
		Level:           parseLevel(cfg.Log.Level),
		ReportTimestamp: true,
	})
}

func parseLevel(level string) log.Level {
	switch strings.ToLower(level) {
	case "debug":
		return log.DebugLevel
	case "warn", "warning":
		return log.WarnLevel
	case "error":
		return log.ErrorLevel
	default:
		return log.InfoLevel
	}
}

// Args returns the positional arguments, exiting with the usage text when fewer
// than n were given.
func (a *App) Args(n int) []string {
	args := a.Flags.Args()
	if len(args) < n {
		a.Flags.Usage()
		os.Exit(exitFailure)
	}
	return args
}

// Context is cancelled on SIGINT or SIGTERM.
func (a *App) Context() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

func (a *App) Discoverer() *discovery.Discoverer {
	return discovery.Default(a.Logger, a.Config.Discovery.Timeout, a.Config.Discovery.CloudURL, hue.NewHTTPClient(a.Config.HTTPTimeout))
}

// Bridge returns a client for the configured bridge, discovering it when no
// address is configured. The configured application key is attached if set.
func (a *App) Bridge(ctx context.Context) (*hue.Bridge, error) {
	var addr netip.Addr
	if a.Config.BridgeIP != "" {
		parsed, err := netip.ParseAddr(a.Config.BridgeIP)
		if err != nil {
			return nil, fmt.Errorf("invalid bridge address %q: %w", a.Config.BridgeIP, err)
		}
		addr = parsed
	} else {
		found, err := a.Discoverer().Discover(ctx)
		if err != nil {
			return nil, err
		}
		addr = found
	}

	bridge := hue.New(addr,
		hue.WithHTTPClient(hue.NewHTTPClient(a.Config.HTTPTimeout)),
		hue.WithLogger(a.Logger),
	)
	if a.Config.ApplicationKey != "" {
		bridge = bridge.WithApplicationKey(a.Config.ApplicationKey)
	}
	return bridge, nil
}

// AuthenticatedBridge is Bridge, failing when no application key is configured.
func (a *App) AuthenticatedBridge(ctx context.Context) (*hue.Bridge, error) {
	if a.Config.ApplicationKey == "" {
		return nil, errors.New("no application key: run hue-register, then pass --key or set HUE_APPLICATIONKEY")
	}
	return a.Bridge(ctx)
}

// Fatal reports err and exits non-zero.
func (a *App) Fatal(err error) {
	a.Logger.Error(a.Name+" failed", "err", err)
	fmt.Fprintf(os.Stderr, "%s: %s\n", a.Name, Describe(err))
	os.Exit(exitFailure)
}

// Describe renders err for a person, naming the bridge error code when there is one.
func Describe(err error) string {
	var bridgeErr *hue.BridgeError
	if errors.As(err, &bridgeErr) && bridgeErr.Code == hue.CodeUnauthorizedUser {
		return fmt.Sprintf("%s (is the application key right?)", err)
	}
	var transportErr *hue.TransportError
	if errors.As(err, &transportErr) && transportErr.Timeout() {
		return fmt.Sprintf("%s (bridge did not answer in time)", err)
	}
	return err.Error()
}

// Out is where tables and results are printed.
func (a *App) Out() io.Writer {
	return a.out
}

// EachTarget runs job for every id in the comma separated list, pausing the
// configured command interval between them.
func (a *App) EachTarget(ctx context.Context, idList string, job func(ctx context.Context, id string) error) error {
	ids := lo.Compact(lo.Map(strings.Split(idList, ","), func(id string, _ int) string {
		return strings.TrimSpace(id)
	}))
	if len(ids) == 0 {
		return errors.New("no ids given")
	}

	worker := concurrency.NewThrottledWorker(a.Config.CommandInterval, job)
	return worker.Run(ctx, ids)
}
