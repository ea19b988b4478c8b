package media

import (
	"errors"
	"fmt"
	"net/url"
	"os/exec"
	"runtime"
	"strings"

	"github.com/pders01/journal/internal/config"
	"github.com/pders01/journal/internal/debuglog"
)

var ErrNoOpener = errors.New("no application found to open URL")

// Launcher opens article images and links in external programs.
type Launcher struct {
	registry      *Registry
	goos          string
	imageViewer   string
	defaultOpener string

	lookPath func(string) (string, error)
	start    func(name string, args ...string) error
}

type Option func(*Launcher)

// WithStarter replaces process creation, mostly for tests.
func WithStarter(start func(name string, args ...string) error) Option {
	return func(l *Launcher) { l.start = start }
}

// WithLookPath replaces PATH lookups.
func WithLookPath(lookPath func(string) (string, error)) Option {
	return func(l *Launcher) { l.lookPath = lookPath }
}

// WithPlatform picks a platform entry other than runtime.GOOS.
func WithPlatform(goos string) Option {
	return func(l *Launcher) { l.goos = goos }
}

func NewLauncher(cfg config.MediaConfig, opts ...Option) *Launcher {
	registry, err := LoadRegistry()
	if err != nil {
		// The embedded table is fixed at build time; keep going with an empty one.
		debuglog.Errorf("loading opener registry: %v", err)
		registry = &Registry{}
	}

	l := &Launcher{
		registry: registry,
		goos:     runtime.GOOS,
		lookPath: exec.LookPath,
		start:    startDetached,
	}
	for _, opt := range opts {
		opt(l)
	}

	// Configured programs win over the platform table.
	platform := l.registry.Platforms[l.goos]
	viewers := cfg.Viewers
	if len(viewers) == 0 {
		viewers = platform.ImageViewers
	}
	l.defaultOpener = cfg.DefaultOpener
	if l.defaultOpener == "" {
		l.defaultOpener = platform.DefaultOpener
	}
	l.imageViewer = l.findCommand(viewers...)
	if l.imageViewer == "" {
		l.imageViewer = l.defaultOpener
	}
	return l
}

func (l *Launcher) ImageViewer() string   { return l.imageViewer }
func (l *Launcher) DefaultOpener() string { return l.defaultOpener }

// Open starts the program for raw without waiting for it.
func (l *Launcher) Open(raw string) error {
	raw = strings.TrimSpace(raw)
	u, err := url.Parse(raw)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("refusing to open %q: not an http(s) URL", raw)
	}

	program := l.defaultOpener
	if l.registry.Detect(raw) == KindImage {
		program = l.imageViewer
	}
	if program == "" {
		return ErrNoOpener
	}

	args := append(l.registry.Args(program), raw)
	debuglog.Debugf("opening %s with %s %v", raw, program, args)
	if err := l.start(program, args...); err != nil {
		return fmt.Errorf("failed to start %s: %w", program, err)
	}
	return nil
}

func (l *Launcher) findCommand(commands ...string) string {
	for _, cmd := range commands {
		if _, err := l.lookPath(cmd); err == nil {
			return cmd
		}
	}
	return ""
}

func startDetached(name string, args ...string) error {
	cmd := exec.Command(name, args...)
	if err := cmd.Start(); err != nil {
		return err
	}
	go func() {
		_ = cmd.Wait()
	}()
	return nil
}
