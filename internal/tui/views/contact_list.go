package views

import (
	"fmt"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"github.com/hafizhannan/baatcheet/internal/chat"
	"github.com/hafizhannan/baatcheet/internal/tui/ui"
)

// ContactList is the left-pane contact table. Rows keep the reconciled
// order: most recent activity first, never re-sorted locally.
type ContactList struct {
	*tview.Table
	theme    *ui.Theme
	contacts []chat.Contact
}

// NewContactList creates the contact table.
func NewContactList(theme *ui.Theme) *ContactList {
	table := tview.NewTable().
		SetSelectable(true, false).
		SetBorders(false)
	table.SetBorder(true).SetTitle(" Chats ")
	table.SetBorderColor(theme.BorderColor)
	table.SetTitleColor(theme.TitleColor)
	table.SetBackgroundColor(theme.BgColor)
	table.SetSelectedStyle(tcell.StyleDefault.
		Foreground(theme.TableCursorFg).
		Background(theme.TableCursorBg))

	return &ContactList{Table: table, theme: theme}
}

// Update refreshes the table. typingFrom is the contact currently typing,
// empty when nobody is.
func (cl *ContactList) Update(contacts []chat.Contact, typingFrom string) {
	cl.contacts = contacts
	cl.Clear()

	cl.SetCell(0, 0, tview.NewTableCell("").SetSelectable(false))
	cl.SetCell(0, 1, tview.NewTableCell(" Name").SetSelectable(false).SetTextColor(cl.theme.TableHeaderFg))
	cl.SetCell(0, 2, tview.NewTableCell(" Status").SetSelectable(false).SetTextColor(cl.theme.TableHeaderFg))

	for i, c := range contacts {
		row := i + 1

		dot := tview.NewTableCell(" ○")
		if c.Online {
			dot = tview.NewTableCell(" ●").SetTextColor(cl.theme.OnlineColor)
		} else {
			dot.SetTextColor(cl.theme.OfflineColor)
		}
		cl.SetCell(row, 0, dot)

		name := sanitizeForTerminal(c.Name)
		nameCell := tview.NewTableCell(" " + name).SetMaxWidth(24).SetExpansion(1)
		if c.Unread > 0 {
			nameCell.SetText(fmt.Sprintf(" %s (%d)", name, c.Unread))
			nameCell.SetTextColor(cl.theme.UnreadColor)
		}
		cl.SetCell(row, 1, nameCell)

		cl.SetCell(row, 2, tview.NewTableCell(" "+cl.status(c, typingFrom)).SetMaxWidth(18))
	}
}

func (cl *ContactList) status(c chat.Contact, typingFrom string) string {
	switch {
	case c.ID == typingFrom:
		return "typing..."
	case c.Online:
		return "online"
	case c.LastSeenAt != nil:
		return lastSeen(*c.LastSeenAt)
	default:
		return ""
	}
}

func lastSeen(t time.Time) string {
	return humanize.Time(t)
}

// SelectedContact returns the id of the highlighted contact.
func (cl *ContactList) SelectedContact() string {
	row, _ := cl.GetSelection()
	idx := row - 1 // header row
	if idx >= 0 && idx < len(cl.contacts) {
		return cl.contacts[idx].ID
	}
	return ""
}
