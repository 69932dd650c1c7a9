package views

import (
	"fmt"

	"github.com/rivo/tview"

	"github.com/hafizhannan/baatcheet/internal/tui/ui"
)

// HelpView displays key binding reference.
type HelpView struct {
	*tview.TextView
	theme *ui.Theme
}

// NewHelpView creates a new help view.
func NewHelpView(theme *ui.Theme) *HelpView {
	tv := tview.NewTextView().
		SetDynamicColors(true).
		SetScrollable(true)
	tv.SetBorder(true)
	tv.SetBorderColor(theme.BorderColor)
	tv.SetBackgroundColor(theme.BgColor)
	tv.SetTextColor(theme.FgColor)
	tv.SetTitle(" Help ")
	tv.SetTitleColor(theme.TitleColor)

	hv := &HelpView{
		TextView: tv,
		theme:    theme,
	}
	hv.render()
	return hv
}

func (hv *HelpView) render() {
	kc := fmt.Sprintf("#%06x", hv.theme.TitleColor.Hex())

	help := fmt.Sprintf(`
  [::b]Global Keys[-:-:-]

  [%s]q[-:-:-]      Quit                [%s]?[-:-:-]      Help
  [%s]/[-:-:-]      Filter contacts     [%s]:[-:-:-]      Command mode
  [%s]a[-:-:-]      Toggle voice assistant
  [%s]Esc[-:-:-]    Close / go back

  [::b]Contact List[-:-:-]

  [%s]Enter[-:-:-]  Open conversation
  [%s]j/Down[-:-:-] Move down           [%s]k/Up[-:-:-]  Move up

  [::b]Conversation[-:-:-]

  [%s]i[-:-:-]      Focus composer      [%s]Enter[-:-:-] Send (in composer)
  [%s]v[-:-:-]      Start / finish voice note
  [%s]x[-:-:-]      Cancel voice note
  [%s]D[-:-:-]      Delete your last message

  [::b]Commands (: mode)[-:-:-]

  [%s]:open <name>[-:-:-]   Open chat by name
  [%s]:file <path>[-:-:-]   Send a file to the open conversation
  [%s]:bio <text>[-:-:-]    Update your profile bio
  [%s]:help[-:-:-]          Show this help
  [%s]:quit[-:-:-]          Quit application

  [::b]Voice Assistant[-:-:-]

  Say things like "open Ali", "send happy emoji to Ali",
  "Ali ko salaam bhej do", or "message Ali saying see you at 5".
  Say "stop" to end the session.
`,
		kc, kc, kc, kc, kc, kc,
		kc, kc, kc,
		kc, kc, kc, kc, kc,
		kc, kc, kc, kc, kc,
	)

	_, _ = fmt.Fprint(hv, help)
}
