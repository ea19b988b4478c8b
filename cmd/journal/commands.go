package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/pders01/journal/internal/config"
	"github.com/pders01/journal/internal/listview"
	"github.com/pders01/journal/internal/search"
	"github.com/pders01/journal/internal/session"
	"github.com/pders01/journal/internal/syncer"
	"github.com/pders01/journal/internal/tui"
	"github.com/pders01/journal/internal/validation"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version information",
	Run: func(cmd *cobra.Command, _ []string) {
		out := cmd.OutOrStdout()
		if !quiet {
			fmt.Fprintln(out, tui.Banner(Version))
		}
		fmt.Fprintf(out, "journal %s\n", Version)
		fmt.Fprintln(out, "The Journal, in your terminal")
		fmt.Fprintln(out, "github.com/pders01/journal")
	},
}

var generateConfigOutput string

var generateConfigCmd = &cobra.Command{
	Use:   "generate-config",
	Short: "Write a default configuration file",
	RunE: func(cmd *cobra.Command, _ []string) error {
		path := generateConfigOutput
		if path == "" {
			home, err := os.UserHomeDir()
			if err != nil {
				return fmt.Errorf("resolving home directory: %w", err)
			}
			path = filepath.Join(home, ".config", "journal", "config.toml")
		}
		if err := config.GenerateDefaultConfig(path); err != nil {
			return fmt.Errorf("failed to generate config: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Generated default configuration at: %s\n", path)
		return nil
	},
}

var (
	loginUsername string
	loginPassword string
)

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Sign in and remember the session",
	Long: `Signs in against the API and stores the token in the local database,
so the interface and the other commands start logged in.

The password is prompted for when --password is not given.`,
	RunE: runLogin,
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Forget the stored session",
	RunE: func(cmd *cobra.Command, _ []string) error {
		e, err := setup()
		if err != nil {
			return err
		}
		defer e.Close()

		if err := e.store.Sessions().Clear(); err != nil {
			return fmt.Errorf("clearing session: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), tui.MsgLoggedOut)
		return nil
	},
}

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the signed-in account",
	RunE: func(cmd *cobra.Command, _ []string) error {
		e, err := setup()
		if err != nil {
			return err
		}
		defer e.Close()

		sess, err := loggedIn(e)
		if err != nil {
			return err
		}
		ctx, cancel := e.requestContext(cmd)
		defer cancel()
		p, err := e.client.Profile(ctx, sess)
		if err != nil {
			return fmt.Errorf("loading profile: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s (%s)\nid: %s\n", p.Username, p.Role, p.ID)
		return nil
	},
}

var articlesFlags struct {
	query    string
	category string
	page     int
	limit    int
}

var articlesCmd = &cobra.Command{
	Use:   "articles",
	Short: "List articles",
	Args:  cobra.NoArgs,
	RunE:  runArticles,
}

var categoriesFlags struct {
	query string
	page  int
	limit int
}

var categoriesCmd = &cobra.Command{
	Use:   "categories",
	Short: "List categories",
	Args:  cobra.NoArgs,
	RunE:  runCategories,
}

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Refresh the local cache and search index",
	RunE:  runSync,
}

func init() {
	generateConfigCmd.Flags().StringVarP(&generateConfigOutput, "output", "o", "", "Where to write the file (default ~/.config/journal/config.toml)")

	loginCmd.Flags().StringVarP(&loginUsername, "username", "u", "", "Account name")
	loginCmd.Flags().StringVarP(&loginPassword, "password", "p", "", "Password (prompted when omitted)")
	_ = loginCmd.MarkFlagRequired("username")

	af := articlesCmd.Flags()
	af.StringVar(&articlesFlags.query, "query", "", "Only titles containing this text")
	af.StringVar(&articlesFlags.category, "category", "", "Only this category id")
	af.IntVar(&articlesFlags.page, "page", 1, "Page number, starting at 1")
	af.IntVar(&articlesFlags.limit, "limit", 0, "Articles per page (default lists.public_page_size)")

	cf := categoriesCmd.Flags()
	cf.StringVar(&categoriesFlags.query, "query", "", "Only names containing this text")
	cf.IntVar(&categoriesFlags.page, "page", 1, "Page number, starting at 1")
	cf.IntVar(&categoriesFlags.limit, "limit", 0, "Categories per page (default lists.categories_page_size)")
}

func (e *env) requestContext(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	timeout := e.cfg.API.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return context.WithTimeout(ctx, 4*timeout)
}

func loggedIn(e *env) (session.Session, error) {
	sess, err := e.store.Sessions().Load()
	if err != nil {
		return session.Session{}, fmt.Errorf("loading session: %w", err)
	}
	if !sess.LoggedIn() {
		return session.Session{}, fmt.Errorf("run `journal login` first: %w", session.ErrNoToken)
	}
	return sess, nil
}

func runLogin(cmd *cobra.Command, _ []string) error {
	password := loginPassword
	if password == "" {
		var err error
		if password, err = readPassword(cmd.InOrStdin(), cmd.ErrOrStderr()); err != nil {
			return err
		}
	}
	if err := validation.ValidateForm(validation.LoginForm{Username: strings.TrimSpace(loginUsername), Password: password}); err != nil {
		return err
	}

	e, err := setup()
	if err != nil {
		return err
	}
	defer e.Close()

	ctx, cancel := e.requestContext(cmd)
	defer cancel()
	sess, err := e.client.SignIn(ctx, strings.TrimSpace(loginUsername), password)
	if err != nil {
		return fmt.Errorf("signing in: %w", err)
	}
	if err := e.store.Sessions().Save(sess); err != nil {
		return fmt.Errorf("saving session: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s (%s)\n", tui.MsgWelcome(sess.Username), sess.Role)
	return nil
}

// readPassword prompts without echo on a terminal and reads one line
// otherwise.
func readPassword(in io.Reader, prompt io.Writer) (string, error) {
	if f, ok := in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		fmt.Fprint(prompt, "Password: ")
		b, err := term.ReadPassword(int(f.Fd()))
		fmt.Fprintln(prompt)
		if err != nil {
			return "", fmt.Errorf("reading password: %w", err)
		}
		return string(b), nil
	}
	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("reading password: %w", err)
	}
	return strings.TrimRight(line, "\r\n"), nil
}

func runArticles(cmd *cobra.Command, _ []string) error {
	e, err := setup()
	if err != nil {
		return err
	}
	defer e.Close()

	// The listing is public; a stored session is sent when there is one.
	sess, _ := e.store.Sessions().Load()
	limit := articlesFlags.limit
	if limit <= 0 {
		limit = e.cfg.Lists.PublicPageSize
	}
	req := listview.Request{
		Page:     max(articlesFlags.page, 1),
		Limit:    limit,
		Query:    strings.TrimSpace(articlesFlags.query),
		Category: articlesFlags.category,
	}

	ctx, cancel := e.requestContext(cmd)
	defer cancel()
	resp, err := e.client.ListArticles(ctx, sess, req)
	if err != nil {
		return fmt.Errorf("listing articles: %w", err)
	}

	t := newTable("Title", "Category", "Created")
	for _, a := range resp.Records {
		t.Row(a.Title, a.Category.Name, humanize.Time(a.CreatedAt))
	}
	out := cmd.OutOrStdout()
	fmt.Fprintln(out, t.Render())
	fmt.Fprintln(out, pageFooter(req.Page, req.Limit, resp.Total, "articles"))
	return nil
}

func runCategories(cmd *cobra.Command, _ []string) error {
	e, err := setup()
	if err != nil {
		return err
	}
	defer e.Close()

	sess, err := loggedIn(e)
	if err != nil {
		return err
	}
	limit := categoriesFlags.limit
	if limit <= 0 {
		limit = e.cfg.Lists.CategoriesPageSize
	}
	req := listview.Request{
		Page:  max(categoriesFlags.page, 1),
		Limit: limit,
		Query: strings.TrimSpace(categoriesFlags.query),
	}

	ctx, cancel := e.requestContext(cmd)
	defer cancel()
	resp, err := e.client.ListCategories(ctx, sess, req)
	if err != nil {
		return fmt.Errorf("listing categories: %w", err)
	}

	t := newTable("ID", "Category", "Created")
	for _, c := range resp.Records {
		t.Row(c.ID, c.Name, humanize.Time(c.CreatedAt))
	}
	out := cmd.OutOrStdout()
	fmt.Fprintln(out, t.Render())
	fmt.Fprintln(out, pageFooter(req.Page, req.Limit, resp.Total, "categories"))
	return nil
}

func runSync(cmd *cobra.Command, _ []string) error {
	e, err := setup()
	if err != nil {
		return err
	}
	defer e.Close()

	sess, _ := e.store.Sessions().Load()
	searcher, index, closeSearch := e.openSearch()
	defer closeSearch()

	ctx, cancel := e.requestContext(cmd)
	defer cancel()
	res, err := syncer.New(e.client, e.store, index).Run(ctx, sess)
	if err != nil {
		return err
	}

	docs := -1
	if ds, ok := searcher.(search.DebugStatser); ok {
		if n, dErr := ds.DocCount(); dErr == nil {
			docs = n
		}
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s in %s\n",
		tui.MsgSyncSummary(res.Articles, res.Categories, docs), res.Took.Round(time.Millisecond))
	return nil
}

func newTable(headers ...string) *table.Table {
	header := lipgloss.NewStyle().Bold(true).Foreground(tui.PrimaryColor).Padding(0, 1)
	cell := lipgloss.NewStyle().Padding(0, 1)
	return table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(tui.MutedColor)).
		Headers(headers...).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return header
			}
			return cell
		})
}

func pageFooter(page, limit, total int, noun string) string {
	pages := 1
	if limit > 0 && total > 0 {
		pages = (total + limit - 1) / limit
	}
	return fmt.Sprintf("Page %d of %d (%d %s)", page, pages, total, noun)
}
