package terminal

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/PabloGalante/weatherchat/internal/adapters/pdf"
	"github.com/PabloGalante/weatherchat/internal/domain"
)

var errNoSession = errors.New("no chat selected, use /new or /select")

const helpText = `Commands:
  /new                 start a new chat
  /list                list chats, newest first
  /select <n|id>       switch to a chat
  /delete <n|id>       delete a chat
  /like [n]            toggle like on message n (default: last reply)
  /dislike [n]         toggle dislike on message n (default: last reply)
  /copy                print the last reply as raw text
  /theme [light|dark]  toggle or set the theme
  /export [file]       export the chat to PDF
  /quit                leave`

// command runs a slash command. quit is true when the loop should stop.
func (c *Chat) command(ctx context.Context, line string) (quit bool, err error) {
	fields := strings.Fields(line)
	name, args := fields[0], fields[1:]

	switch name {
	case "/quit", "/exit":
		return true, nil
	case "/help":
		c.println(helpText)
	case "/new":
		sess := c.store.Create(ctx)
		c.showSession(sess)
	case "/list":
		c.listSessions()
	case "/select":
		return false, c.selectSession(ctx, args)
	case "/delete":
		return false, c.deleteSession(ctx, args)
	case "/like":
		return false, c.rate(ctx, args, true)
	case "/dislike":
		return false, c.rate(ctx, args, false)
	case "/copy":
		return false, c.copyLastReply()
	case "/theme":
		return false, c.theme(ctx, args)
	case "/export":
		return false, c.export(args)
	default:
		return false, fmt.Errorf("unknown command %s, try /help", name)
	}
	return false, nil
}

func (c *Chat) listSessions() {
	list := c.store.List()
	if len(list) == 0 {
		c.system("No chats yet.")
		return
	}

	var currentID domain.SessionID
	if cur := c.store.Current(); cur != nil {
		currentID = cur.ID
	}
	for i, sess := range list {
		line := fmt.Sprintf("%2d. %s (%d messages, %s)", i+1, sess.Title, len(sess.Messages),
			sess.CreatedAt.Local().Format("Jan 2 3:04 PM"))
		if sess.ID == currentID {
			line = activeStyle.Render(line + " *")
		}
		c.println(line)
	}
}

// resolveSession accepts a 1-based position from /list or a session id.
func (c *Chat) resolveSession(args []string) (domain.SessionID, error) {
	if len(args) == 0 {
		return "", errors.New("which chat? pass a number from /list or an id")
	}

	list := c.store.List()
	if n, err := strconv.Atoi(args[0]); err == nil {
		if n < 1 || n > len(list) {
			return "", fmt.Errorf("no chat number %d", n)
		}
		return list[n-1].ID, nil
	}
	return domain.SessionID(args[0]), nil
}

func (c *Chat) selectSession(ctx context.Context, args []string) error {
	id, err := c.resolveSession(args)
	if err != nil {
		return err
	}
	sess, err := c.store.Select(ctx, id)
	if err != nil {
		return err
	}
	c.showSession(sess)
	return nil
}

func (c *Chat) deleteSession(ctx context.Context, args []string) error {
	id, err := c.resolveSession(args)
	if err != nil {
		return err
	}
	if err := c.store.Delete(ctx, id); err != nil {
		return err
	}
	c.system("Chat deleted.")
	return nil
}

func (c *Chat) rate(ctx context.Context, args []string, like bool) error {
	cur := c.store.Current()
	if cur == nil {
		return errNoSession
	}

	idx := lastAssistant(cur.Messages)
	if len(args) > 0 {
		n, err := strconv.Atoi(args[0])
		if err != nil || n < 1 || n > len(cur.Messages) {
			return fmt.Errorf("no message number %s", args[0])
		}
		idx = n - 1
	}
	if idx < 0 {
		return errors.New("no reply to rate yet")
	}

	toggle := c.store.ToggleDislike
	if like {
		toggle = c.store.ToggleLike
	}
	sess, err := toggle(ctx, cur.ID, cur.Messages[idx].ID)
	if err != nil {
		return err
	}
	c.showMessage(idx+1, sess.Messages[idx])
	return nil
}

func (c *Chat) copyLastReply() error {
	cur := c.store.Current()
	if cur == nil {
		return errNoSession
	}
	idx := lastAssistant(cur.Messages)
	if idx < 0 {
		return errors.New("no reply to copy yet")
	}
	c.println(cur.Messages[idx].Content)
	return nil
}

func (c *Chat) theme(ctx context.Context, args []string) error {
	if len(args) == 0 {
		next := domain.ThemeDark
		if c.store.Theme() == domain.ThemeDark {
			next = domain.ThemeLight
		}
		c.store.SetTheme(ctx, next)
	} else {
		switch t := domain.Theme(strings.ToLower(args[0])); t {
		case domain.ThemeLight, domain.ThemeDark:
			c.store.SetTheme(ctx, t)
		default:
			return fmt.Errorf("unknown theme %q", args[0])
		}
	}
	c.system("Theme: " + string(c.store.Theme()))
	return nil
}

func (c *Chat) export(args []string) error {
	cur := c.store.Current()
	if cur == nil {
		return errNoSession
	}

	path := pdf.FileName(cur)
	if len(args) > 0 {
		path = args[0]
	}
	if err := c.exporter.WriteFile(path, cur); err != nil {
		return err
	}
	c.system("Exported to " + path)
	return nil
}

func lastAssistant(messages []domain.Message) int {
	for i := len(messages) - 1; i >= 0; i-- {
		if messages[i].Role == domain.RoleAssistant {
			return i
		}
	}
	return -1
}
