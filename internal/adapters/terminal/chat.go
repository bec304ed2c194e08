// Package terminal is a line-oriented chat client over the session store and
// the conversation orchestrator.
package terminal

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"

	"github.com/PabloGalante/weatherchat/internal/adapters/pdf"
	"github.com/PabloGalante/weatherchat/internal/app/conversation"
	"github.com/PabloGalante/weatherchat/internal/app/sessions"
	"github.com/PabloGalante/weatherchat/internal/domain"
)

// ---------- styles ----------

var (
	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("39")).
			Bold(true)

	userStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("39")).
			Bold(true)

	assistantStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214")).
			Bold(true)

	systemStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("245")).
			Italic(true)

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")).
			Bold(true)

	activeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("2")).
			Bold(true)
)

// Options tunes the rendering.
type Options struct {
	// Width is the wrap width for markdown replies; zero means 80.
	Width int
	// Plain disables markdown styling, for pipes and tests.
	Plain bool
}

type Chat struct {
	store    *sessions.Store
	chat     *conversation.Service
	exporter *pdf.Exporter
	opts     Options

	in  *bufio.Scanner
	out io.Writer

	renderer      *glamour.TermRenderer
	rendererTheme domain.Theme
}

func New(store *sessions.Store, chat *conversation.Service, exporter *pdf.Exporter, in io.Reader, out io.Writer, opts Options) *Chat {
	if opts.Width <= 0 {
		opts.Width = 80
	}
	s := bufio.NewScanner(in)
	s.Buffer(make([]byte, 64*1024), 1024*1024)

	return &Chat{
		store:    store,
		chat:     chat,
		exporter: exporter,
		opts:     opts,
		in:       s,
		out:      out,
	}
}

// Run reads lines until EOF, /quit or ctx is cancelled.
func (c *Chat) Run(ctx context.Context) error {
	c.println(titleStyle.Render("Weather Chat") + systemStyle.Render("  type /help for commands"))
	if cur := c.store.Current(); cur != nil {
		c.showSession(cur)
	} else {
		c.system("No chat selected. Use /new to start one or /list to pick one.")
	}

	for {
		if err := ctx.Err(); err != nil {
			return nil
		}

		fmt.Fprint(c.out, "\n> ")
		if !c.in.Scan() {
			if err := c.in.Err(); err != nil {
				return fmt.Errorf("read input: %w", err)
			}
			return nil
		}

		line := strings.TrimSpace(c.in.Text())
		if line == "" {
			continue
		}

		if strings.HasPrefix(line, "/") {
			quit, err := c.command(ctx, line)
			if err != nil {
				c.fail(err)
			}
			if quit {
				return nil
			}
			continue
		}

		c.send(ctx, line)
	}
}

func (c *Chat) send(ctx context.Context, text string) {
	cur := c.store.Current()
	if cur == nil {
		c.system("No chat selected. Use /new to start one.")
		return
	}

	c.system("Thinking...")
	res, err := c.chat.HandleTurn(ctx, cur.ID, text)
	if err != nil {
		c.fail(err)
		return
	}
	c.showMessage(len(res.Session.Messages), res.AssistantMessage)
}

func (c *Chat) showSession(sess *domain.Session) {
	c.println(titleStyle.Render(sess.Title))
	if len(sess.Messages) == 0 {
		c.system("Ask me about the weather anywhere in the world.")
		return
	}
	for i, m := range sess.Messages {
		c.showMessage(i+1, m)
	}
}

// showMessage prints m; n is its 1-based position, used by /like and /dislike.
func (c *Chat) showMessage(n int, m domain.Message) {
	var header string
	if m.Role == domain.RoleUser {
		header = userStyle.Render("You")
	} else {
		header = assistantStyle.Render("Weather Assistant")
	}

	meta := fmt.Sprintf(" #%d %s", n, m.Timestamp.Local().Format("3:04 PM"))
	switch {
	case m.IsLiked():
		meta += " +1"
	case m.IsDisliked():
		meta += " -1"
	}

	c.println("")
	c.println(header + systemStyle.Render(meta))
	if m.Role == domain.RoleUser {
		c.println(m.Content)
		return
	}
	c.println(c.renderMarkdown(m.Content))
}

// ---------- markdown rendering ----------

func (c *Chat) getMarkdownRenderer() *glamour.TermRenderer {
	theme := c.store.Theme()
	if c.renderer != nil && c.rendererTheme == theme {
		return c.renderer
	}

	style := string(theme)
	if c.opts.Plain {
		style = "notty"
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle(style),
		glamour.WithWordWrap(c.opts.Width-4),
	)
	if err != nil {
		return nil
	}
	c.renderer = r
	c.rendererTheme = theme
	return r
}

func (c *Chat) renderMarkdown(text string) string {
	r := c.getMarkdownRenderer()
	if r == nil {
		return text
	}
	rendered, err := r.Render(text)
	if err != nil {
		return text
	}
	return strings.TrimRight(rendered, "\n")
}

// ---------- output helpers ----------

func (c *Chat) println(s string) {
	fmt.Fprintln(c.out, s)
}

func (c *Chat) system(s string) {
	c.println(systemStyle.Render(s))
}

func (c *Chat) fail(err error) {
	msg := err.Error()
	switch {
	case errors.Is(err, conversation.ErrTurnInProgress):
		msg = "still waiting on the previous reply"
	case errors.Is(err, pdf.ErrEmptySession):
		msg = "nothing to export yet"
	}
	c.println(errorStyle.Render("error: " + msg))
}
