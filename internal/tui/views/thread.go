package views

import (
	"fmt"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/rivo/tview"

	"github.com/hafizhannan/baatcheet/internal/chat"
	"github.com/hafizhannan/baatcheet/internal/tui/ui"
)

// Thread renders the open conversation.
type Thread struct {
	*tview.TextView
	theme *ui.Theme
}

// NewThread creates the message pane.
func NewThread(theme *ui.Theme) *Thread {
	tv := tview.NewTextView().
		SetDynamicColors(true).
		SetScrollable(true).
		SetWordWrap(true)
	tv.SetBorder(true).SetTitle(" Messages ")
	tv.SetBorderColor(theme.BorderColor)
	tv.SetTitleColor(theme.TitleColor)
	tv.SetBackgroundColor(theme.BgColor)

	return &Thread{TextView: tv, theme: theme}
}

// SetContact updates the pane title with the open contact.
func (t *Thread) SetContact(c chat.Contact) {
	title := fmt.Sprintf(" %s ", sanitizeForTerminal(c.Name))
	if c.Online {
		title = fmt.Sprintf(" %s [green]online[-] ", sanitizeForTerminal(c.Name))
	}
	t.SetTitle(title)
}

// ClearContact resets the pane to its empty state.
func (t *Thread) ClearContact() {
	t.SetTitle(" Messages ")
	t.Clear()
}

// Update redraws the thread. Messages arrive in chronological order.
func (t *Thread) Update(msgs []chat.Message, selfID, typingName string) {
	t.Clear()

	byID := make(map[string]chat.Message, len(msgs))
	for _, m := range msgs {
		byID[m.ID] = m
	}

	for _, m := range msgs {
		sender := sanitizeForTerminal(m.SenderName)
		if m.Mine(selfID) {
			sender = "You"
		} else if sender == "" {
			sender = m.From
		}

		ticks := ""
		if m.Mine(selfID) {
			if m.SeenAt != nil {
				ticks = " [aqua]✓✓[-]"
			} else {
				ticks = " [gray]✓[-]"
			}
		}

		_, _ = fmt.Fprintf(t, "[::b]%s[-:-:-] [::d]%s[-:-:-]%s\n", sender, threadTime(m.CreatedAt), ticks)
		if m.ReplyTo != "" {
			if quoted, ok := byID[m.ReplyTo]; ok {
				_, _ = fmt.Fprintf(t, "  [::d]> %s[-:-:-]\n", sanitizeForTerminal(preview(quoted)))
			}
		}
		if m.Text != "" {
			_, _ = fmt.Fprintf(t, "%s\n", sanitizeForTerminal(m.Text))
		}
		if m.VoiceURL != "" {
			_, _ = fmt.Fprintf(t, "[aqua][voice note][-] %s\n", m.VoiceURL)
		}
		for _, att := range m.Attachments {
			_, _ = fmt.Fprintf(t, "[aqua][file][-] %s (%s)\n", sanitizeForTerminal(att.Name), humanize.Bytes(uint64(att.Size)))
		}
		_, _ = fmt.Fprintln(t)
	}

	if typingName != "" {
		_, _ = fmt.Fprintf(t, "[::d]%s is typing...[-:-:-]\n", sanitizeForTerminal(typingName))
	}
	t.ScrollToEnd()
}

func preview(m chat.Message) string {
	switch {
	case m.Text != "":
		return m.Text
	case m.VoiceURL != "":
		return "[voice note]"
	case len(m.Attachments) > 0:
		return m.Attachments[0].Name
	default:
		return ""
	}
}

func threadTime(t time.Time) string {
	now := time.Now()
	if t.Year() == now.Year() && t.YearDay() == now.YearDay() {
		return t.Format("15:04")
	}
	return t.Format("Jan 2 15:04")
}
