package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/pders01/journal/internal/api"
	"github.com/pders01/journal/internal/config"
	"github.com/pders01/journal/internal/debuglog"
	"github.com/pders01/journal/internal/media"
	"github.com/pders01/journal/internal/render"
	"github.com/pders01/journal/internal/search"
	"github.com/pders01/journal/internal/storage"
	"github.com/pders01/journal/internal/syncer"
	"github.com/pders01/journal/internal/tui"
	"github.com/pders01/journal/internal/validation"
)

// Version is the version of the application, set at build time
var Version = "dev"

var (
	configPath string
	dbPath     string
	logLevel   string
	quiet      bool
)

var rootCmd = &cobra.Command{
	Use:   "journal",
	Short: "The Journal blog, in your terminal",
	Long: `journal is a terminal client for The Journal blog API.

Run without arguments to start the interactive interface. Readers browse
and read articles; admins also manage articles and categories.`,
	SilenceUsage: true,
	RunE:         runTUI,
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&configPath, "config", "", "Path to configuration file")
	pf.StringVar(&dbPath, "db", "", "Path to database file (overrides config)")
	pf.StringVar(&logLevel, "log-level", "", "Log level: debug, info, warn, error, off (overrides config)")
	pf.BoolVarP(&quiet, "quiet", "q", false, "Skip the banner")

	rootCmd.AddCommand(
		versionCmd,
		generateConfigCmd,
		loginCmd,
		logoutCmd,
		whoamiCmd,
		articlesCmd,
		categoriesCmd,
		syncCmd,
	)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

// env is what every command except version and generate-config needs.
type env struct {
	cfg    *config.Config
	store  *storage.Store
	client *api.Client
}

func setup() (*env, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if dbPath != "" {
		cfg.Database.Path = dbPath
	}
	if err := normalizeConfig(cfg); err != nil {
		return nil, err
	}

	level := cfg.Log.Level
	if logLevel != "" {
		level = logLevel
	}
	if err := debuglog.Setup(debuglog.ParseLogLevel(level), cfg.Log.File); err != nil {
		return nil, err
	}

	store, err := storage.NewStoreWithTimeout(cfg.Database.Path, cfg.Database.Timeout)
	if err != nil {
		_ = debuglog.Close()
		return nil, err
	}

	client := api.NewClient(api.Options{
		BaseURL:   cfg.API.BaseURL,
		Timeout:   cfg.API.Timeout,
		UserAgent: cfg.API.UserAgent,
	})
	debuglog.Infof("journal %s using %s (%s mode)", Version, cfg.API.BaseURL, cfg.ListMode())
	return &env{cfg: cfg, store: store, client: client}, nil
}

// normalizeConfig checks the base URL and the file locations before any of
// them is opened.
func normalizeConfig(cfg *config.Config) error {
	base, err := validation.NewBaseURLValidator().ValidateAndNormalize(cfg.API.BaseURL)
	if err != nil {
		return fmt.Errorf("api.base_url: %w", err)
	}
	cfg.API.BaseURL = base

	paths := validation.NewPathValidator()
	if cfg.Database.Path, err = paths.ValidateFile(cfg.Database.Path); err != nil {
		return fmt.Errorf("database.path: %w", err)
	}
	if cfg.Database.SearchIndex != "" {
		if cfg.Database.SearchIndex, err = paths.ValidateDirectory(cfg.Database.SearchIndex); err != nil {
			return fmt.Errorf("database.search_index: %w", err)
		}
	}
	if cfg.Log.File != "" {
		if cfg.Log.File, err = paths.ValidateFile(cfg.Log.File); err != nil {
			return fmt.Errorf("log.file: %w", err)
		}
	}
	return nil
}

func (e *env) Close() {
	if err := e.store.Close(); err != nil {
		debuglog.Warnf("closing store: %v", err)
	}
	_ = debuglog.Close()
}

// openSearch opens the article index and hands back what the syncer should
// reindex, if the engine keeps an index at all.
func (e *env) openSearch() (search.Searcher, syncer.Indexer, func()) {
	s := search.Open(e.store, e.cfg.Database.SearchIndex)
	closeFn := func() {}
	if c, ok := s.(io.Closer); ok {
		closeFn = func() {
			if err := c.Close(); err != nil {
				debuglog.Warnf("closing search index: %v", err)
			}
		}
	}
	var index syncer.Indexer
	if ix, ok := s.(syncer.Indexer); ok {
		index = ix
	}
	return s, index, closeFn
}

func runTUI(cmd *cobra.Command, _ []string) error {
	e, err := setup()
	if err != nil {
		return err
	}
	defer e.Close()

	if !quiet {
		fmt.Fprintln(cmd.OutOrStdout(), tui.Banner(Version))
	}

	tui.ApplyTheme(e.cfg.UI.Colors)

	searcher, index, closeSearch := e.openSearch()
	defer closeSearch()

	app := tui.NewApp(tui.Options{
		Config:   e.cfg,
		Client:   e.client,
		Store:    e.store,
		Sessions: e.store.Sessions(),
		Searcher: searcher,
		Launcher: media.NewLauncher(e.cfg.Media),
		Renderer: render.New(render.Options{
			MaxWrap: e.cfg.UI.Article.WordWrapMaxWidth,
			MinWrap: e.cfg.UI.Article.WordWrapMinWidth,
		}),
		Syncer: syncer.New(e.client, e.store, index),
	})

	p := tea.NewProgram(app, tea.WithAltScreen(), tea.WithContext(cmd.Context()))
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("running interface: %w", err)
	}
	return nil
}
