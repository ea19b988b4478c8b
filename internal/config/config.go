package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/pders01/journal/internal/listview"
	"github.com/spf13/viper"
)

const DefaultBaseURL = "https://test-fe.mysellerpintar.com/api"

type Config struct {
	API      APIConfig      `mapstructure:"api"`
	Lists    ListsConfig    `mapstructure:"lists"`
	Database DatabaseConfig `mapstructure:"database"`
	Log      LogConfig      `mapstructure:"log"`
	UI       UIConfig       `mapstructure:"ui"`
	Media    MediaConfig    `mapstructure:"media"`
	Keys     KeyConfig      `mapstructure:"keys"`
}

type APIConfig struct {
	BaseURL   string        `mapstructure:"base_url"`
	Timeout   time.Duration `mapstructure:"timeout"`
	UserAgent string        `mapstructure:"user_agent"`
	// Mode is "client" or "server"; see listview.Mode.
	Mode string `mapstructure:"mode"`
}

type ListsConfig struct {
	ArticlesPageSize   int `mapstructure:"articles_page_size"`
	CategoriesPageSize int `mapstructure:"categories_page_size"`
	PublicPageSize     int `mapstructure:"public_page_size"`
}

type DatabaseConfig struct {
	Path        string        `mapstructure:"path"`
	Timeout     time.Duration `mapstructure:"timeout"`
	SearchIndex string        `mapstructure:"search_index"`
}

type LogConfig struct {
	Level string `mapstructure:"level"`
	File  string `mapstructure:"file"`
}

type UIConfig struct {
	Colors  UIColors      `mapstructure:"colors"`
	Article ArticleConfig `mapstructure:"article"`
}

type UIColors struct {
	Primary    string `mapstructure:"primary"`
	Secondary  string `mapstructure:"secondary"`
	Accent     string `mapstructure:"accent"`
	Background string `mapstructure:"background"`
	Surface    string `mapstructure:"surface"`
	Text       string `mapstructure:"text"`
	Muted      string `mapstructure:"muted"`
	Error      string `mapstructure:"error"`
	Success    string `mapstructure:"success"`
}

type ArticleConfig struct {
	ExcerptLength    int `mapstructure:"excerpt_length"`
	WordWrapMaxWidth int `mapstructure:"word_wrap_max_width"`
	WordWrapMinWidth int `mapstructure:"word_wrap_min_width"`
	OtherArticles    int `mapstructure:"other_articles"`
}

type MediaConfig struct {
	// Viewers overrides the built-in image viewer list for this platform.
	Viewers       []string `mapstructure:"viewers"`
	DefaultOpener string   `mapstructure:"default_opener"`
}

type KeyConfig struct {
	Modifier string      `mapstructure:"modifier"`
	Bindings KeyBindings `mapstructure:"bindings"`
}

type KeyBindings struct {
	Quit       string `mapstructure:"quit"`
	Search     string `mapstructure:"search"`
	New        string `mapstructure:"new"`
	Edit       string `mapstructure:"edit"`
	Delete     string `mapstructure:"delete"`
	Refresh    string `mapstructure:"refresh"`
	Categories string `mapstructure:"categories"`
	Filter     string `mapstructure:"filter"`
	OpenImage  string `mapstructure:"open_image"`
	Save       string `mapstructure:"save"`
	Logout     string `mapstructure:"logout"`
	Back       string `mapstructure:"back"`
	Help       string `mapstructure:"help"`
}

func defaultConfig() *Config {
	homeDir, _ := os.UserHomeDir()
	dataDir := filepath.Join(homeDir, ".journal")

	return &Config{
		API: APIConfig{
			BaseURL:   DefaultBaseURL,
			Timeout:   15 * time.Second,
			UserAgent: "journal/1.0 (https://github.com/pders01/journal)",
			Mode:      string(listview.ModeClient),
		},
		Lists: ListsConfig{
			ArticlesPageSize:   10,
			CategoriesPageSize: 10,
			PublicPageSize:     9,
		},
		Database: DatabaseConfig{
			Path:        filepath.Join(dataDir, "journal.db"),
			Timeout:     1 * time.Second,
			SearchIndex: filepath.Join(dataDir, "index.bleve"),
		},
		Log: LogConfig{
			Level: "OFF",
			File:  filepath.Join(dataDir, "journal.log"),
		},
		UI: UIConfig{
			Colors: UIColors{
				Primary:    "#2563EB",
				Secondary:  "#4ECDC4",
				Accent:     "#95E1D3",
				Background: "#1A1A2E",
				Surface:    "#16213E",
				Text:       "#EAEAEA",
				Muted:      "#94A3B8",
				Error:      "#F87171",
				Success:    "#4ADE80",
			},
			Article: ArticleConfig{
				ExcerptLength:    100,
				WordWrapMaxWidth: 120,
				WordWrapMinWidth: 40,
				OtherArticles:    3,
			},
		},
		Media: MediaConfig{
			DefaultOpener: getDefaultOpener(),
		},
		Keys: KeyConfig{
			Modifier: "ctrl",
			Bindings: KeyBindings{
				Quit:       "q",
				Search:     "s",
				New:        "n",
				Edit:       "e",
				Delete:     "x",
				Refresh:    "r",
				Categories: "g",
				Filter:     "f",
				OpenImage:  "o",
				Save:       "w",
				Logout:     "l",
				Back:       "esc",
				Help:       "?",
			},
		},
	}
}

func getDefaultOpener() string {
	switch runtime.GOOS {
	case "darwin":
		return "open"
	case "linux":
		return "xdg-open"
	case "windows":
		return "start"
	default:
		return "open"
	}
}

func Load(configPath string) (*Config, error) {
	v := viper.New()

	for key, value := range settings(defaultConfig()) {
		v.SetDefault(key, value)
	}

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		homeDir, _ := os.UserHomeDir()
		configDir := filepath.Join(homeDir, ".config", "journal")

		v.SetConfigName("config")
		v.SetConfigType("toml")
		v.AddConfigPath(configDir)
		v.AddConfigPath(".")
	}

	v.SetEnvPrefix("JOURNAL")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	expandPaths(&config)

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &config, nil
}

// Validate checks values viper cannot type-check on its own.
func (c *Config) Validate() error {
	if _, err := listview.ParseMode(c.API.Mode); err != nil {
		return fmt.Errorf("api.mode: %w", err)
	}
	for name, size := range map[string]int{
		"lists.articles_page_size":   c.Lists.ArticlesPageSize,
		"lists.categories_page_size": c.Lists.CategoriesPageSize,
		"lists.public_page_size":     c.Lists.PublicPageSize,
	} {
		if size <= 0 {
			return fmt.Errorf("%s must be positive, got %d", name, size)
		}
	}
	return nil
}

// ListMode is the parsed api.mode, falling back to client mode.
func (c *Config) ListMode() listview.Mode {
	m, err := listview.ParseMode(c.API.Mode)
	if err != nil {
		return listview.ModeClient
	}
	return m
}

// expandPath expands ~ to home directory and converts to absolute path
func expandPath(path string) string {
	if path == "" {
		return path
	}

	if len(path) >= 2 && path[:2] == "~/" {
		home, _ := os.UserHomeDir()
		path = filepath.Join(home, path[2:])
	}

	if !filepath.IsAbs(path) {
		if abs, err := filepath.Abs(path); err == nil {
			path = abs
		}
	}

	return path
}

func expandPaths(cfg *Config) {
	cfg.Database.Path = expandPath(cfg.Database.Path)
	cfg.Database.SearchIndex = expandPath(cfg.Database.SearchIndex)
	cfg.Log.File = expandPath(cfg.Log.File)
}

func Save(config *Config, path string) error {
	v := viper.New()
	for key, value := range settings(config) {
		v.Set(key, value)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	return v.WriteConfigAs(path)
}

// settings flattens a Config into the nested key space viper reads, so
// defaults merge per field and written files use the mapstructure names.
func settings(config *Config) map[string]interface{} {
	// Durations are strings so the TOML stays readable.
	apiCfg := map[string]interface{}{
		"base_url":   config.API.BaseURL,
		"timeout":    config.API.Timeout.String(),
		"user_agent": config.API.UserAgent,
		"mode":       config.API.Mode,
	}

	dbCfg := map[string]interface{}{
		"path":         config.Database.Path,
		"timeout":      config.Database.Timeout.String(),
		"search_index": config.Database.SearchIndex,
	}

	listsCfg := map[string]interface{}{
		"articles_page_size":   config.Lists.ArticlesPageSize,
		"categories_page_size": config.Lists.CategoriesPageSize,
		"public_page_size":     config.Lists.PublicPageSize,
	}

	logCfg := map[string]interface{}{
		"level": config.Log.Level,
		"file":  config.Log.File,
	}

	c := config.UI.Colors
	uiCfg := map[string]interface{}{
		"colors": map[string]interface{}{
			"primary":    c.Primary,
			"secondary":  c.Secondary,
			"accent":     c.Accent,
			"background": c.Background,
			"surface":    c.Surface,
			"text":       c.Text,
			"muted":      c.Muted,
			"error":      c.Error,
			"success":    c.Success,
		},
		"article": map[string]interface{}{
			"excerpt_length":      config.UI.Article.ExcerptLength,
			"word_wrap_max_width": config.UI.Article.WordWrapMaxWidth,
			"word_wrap_min_width": config.UI.Article.WordWrapMinWidth,
			"other_articles":      config.UI.Article.OtherArticles,
		},
	}

	viewers := config.Media.Viewers
	if viewers == nil {
		viewers = []string{}
	}
	mediaCfg := map[string]interface{}{
		"viewers":        viewers,
		"default_opener": config.Media.DefaultOpener,
	}

	b := config.Keys.Bindings
	keysCfg := map[string]interface{}{
		"modifier": config.Keys.Modifier,
		"bindings": map[string]interface{}{
			"quit":       b.Quit,
			"search":     b.Search,
			"new":        b.New,
			"edit":       b.Edit,
			"delete":     b.Delete,
			"refresh":    b.Refresh,
			"categories": b.Categories,
			"filter":     b.Filter,
			"open_image": b.OpenImage,
			"save":       b.Save,
			"logout":     b.Logout,
			"back":       b.Back,
			"help":       b.Help,
		},
	}

	return map[string]interface{}{
		"api":      apiCfg,
		"lists":    listsCfg,
		"database": dbCfg,
		"log":      logCfg,
		"ui":       uiCfg,
		"media":    mediaCfg,
		"keys":     keysCfg,
	}
}

func GenerateDefaultConfig(path string) error {
	return Save(defaultConfig(), path)
}
