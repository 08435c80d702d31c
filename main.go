package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/coreos/go-systemd/daemon"
	"github.com/juju/errors"
	"github.com/mattn/go-isatty"
	flag "github.com/spf13/pflag"

	"github.com/andresousadotpt/keylog/logx"
)

var version = "0.3.0"

type options struct {
	devices   []string
	file      string
	configDir string
	echo      bool
	debug     bool
	help      bool
	version   bool

	fileSet  bool
	echoSet  bool
	debugSet bool
}

func newFlagSet(o *options) *flag.FlagSet {
	fs := flag.NewFlagSet("keylog", flag.ContinueOnError)
	fs.StringArrayVarP(&o.devices, "device", "d", nil, "input device to read, repeatable (default: the only keyboard found)")
	fs.StringVarP(&o.file, "file", "f", "", "file to log to (default from config: keys.log)")
	fs.StringVarP(&o.configDir, "config", "c", "", "config directory")
	fs.BoolVar(&o.echo, "echo", false, "also print keys to stdout")
	fs.BoolVar(&o.debug, "debug", false, "debug logging")
	fs.BoolVarP(&o.help, "help", "h", false, "print this help message")
	fs.BoolVarP(&o.version, "version", "v", false, "print the version")
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: keylog [options] [init|migrate|list|version]\n")
		fs.PrintDefaults()
	}
	return fs
}

func parseArgs(args []string) (*options, *flag.FlagSet, error) {
	o := &options{}
	fs := newFlagSet(o)
	if err := fs.Parse(args); err != nil {
		return nil, fs, err
	}
	o.fileSet = fs.Changed("file")
	o.echoSet = fs.Changed("echo")
	o.debugSet = fs.Changed("debug")
	return o, fs, nil
}

// apply overrides config values with explicitly given flags.
func (o *options) apply(cfg *AppConfig) {
	if len(o.devices) != 0 {
		cfg.Devices = o.devices
	}
	if o.fileSet {
		cfg.File = o.file
	}
	if o.echoSet {
		cfg.Echo = o.echo
	}
	if o.debugSet {
		cfg.Debug = o.debug
	}
}

func configDir() string {
	if d := os.Getenv("XDG_CONFIG_HOME"); d != "" {
		return filepath.Join(d, "keylog")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "keylog")
}

func newLog(debug bool) *logx.Log {
	level := logx.LInfo
	if debug {
		level = logx.LDebug
	}
	log := logx.NewStderr(level)
	if isatty.IsTerminal(os.Stderr.Fd()) {
		log.SetFlags(logx.LInteractiveFlags)
	}
	return log
}

func (o *options) dir() string {
	if o.configDir != "" {
		return o.configDir
	}
	return configDir()
}

func run(ctx context.Context, o *options) error {
	cfg, err := LoadAppConfig(o.dir())
	if err != nil {
		return errors.Annotate(err, "load config")
	}
	o.apply(cfg)
	// failures from here on are reported with the resolved debug setting
	o.debug = cfg.Debug
	if err := cfg.Validate(); err != nil {
		return errors.Trace(err)
	}

	log := newLog(cfg.Debug)
	log.Debugf("config=%+v", cfg)
	if cfg.Outdated() {
		log.Infof("config.yml version=%d is outdated, run `keylog migrate`", cfg.ConfigVersion)
	}

	devices := cfg.Devices
	if len(devices) == 0 {
		dev, err := DefaultDevice()
		if err != nil {
			return errors.Trace(err)
		}
		devices = []string{dev}
	}
	log.Debugf("devices=%v", devices)

	files, err := openDevices(devices)
	if err != nil {
		return errors.Trace(err)
	}
	defer closeFiles(files)

	var echo io.Writer
	if cfg.Echo {
		echo = os.Stdout
	}
	logPath := ResolveLogPath(cfg.File, devices, time.Now())
	sink, err := OpenSink(logPath, echo, cfg.Sync)
	if err != nil {
		return errors.Trace(err)
	}
	defer sink.Close()

	sessions := make([]*Session, len(files))
	for i, f := range files {
		sessions[i] = NewSession(devices[i], f, sink, log)
	}

	fmt.Fprintf(os.Stderr, "keylog: reading %d device(s), writing %s\n", len(sessions), logPath)
	sdnotify(log, daemon.SdNotifyReady)

	return runSessions(ctx, sessions, log)
}

// runSessions runs every session in its own goroutine and returns on the
// first failure, on context cancel or when all streams ended.
func runSessions(ctx context.Context, sessions []*Session, log *logx.Log) error {
	errc := make(chan error, len(sessions))
	for _, s := range sessions {
		go func(s *Session) { errc <- s.Run() }(s)
	}

	for remaining := len(sessions); remaining > 0; {
		select {
		case err := <-errc:
			remaining--
			if err != nil {
				return err
			}
		case <-ctx.Done():
			log.Infof("shutting down")
			return nil
		}
	}
	return nil
}

func sdnotify(log *logx.Log, state string) bool {
	ok, err := daemon.SdNotify(false, state)
	if err != nil {
		log.Errorf("sdnotify: %v", errors.ErrorStack(err))
	}
	return ok
}

func listKeyboards() error {
	kbds, err := FindKeyboards()
	if err != nil {
		return err
	}
	for _, k := range kbds {
		fmt.Printf("%s\t%s\n", k.Path, k.Name)
	}
	return nil
}

func fail(err error, debug bool) {
	if debug {
		fmt.Fprintf(os.Stderr, "keylog: %s\n", errors.ErrorStack(err))
	} else {
		fmt.Fprintf(os.Stderr, "keylog: %v\n", err)
	}
	os.Exit(1)
}

func main() {
	o, fs, err := parseArgs(os.Args[1:])
	if err == flag.ErrHelp {
		return
	}
	if err != nil {
		os.Exit(2)
	}
	if o.help {
		fs.Usage()
		return
	}
	if o.version {
		fmt.Printf("keylog %s\n", version)
		return
	}

	dir := o.dir()
	switch fs.Arg(0) {
	case "":
	case "init":
		fmt.Printf("keylog: initializing config in %s\n", dir)
		if err := initConfig(dir); err != nil {
			fail(err, o.debug)
		}
		fmt.Println("keylog: config initialized")
		return
	case "migrate":
		if err := migrateConfig(dir); err != nil {
			fail(err, o.debug)
		}
		return
	case "list":
		if err := listKeyboards(); err != nil {
			fail(err, o.debug)
		}
		return
	case "version":
		fmt.Printf("keylog %s\n", version)
		return
	default:
		fs.Usage()
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	if err := run(ctx, o); err != nil {
		stop()
		fail(err, o.debug)
	}
}
