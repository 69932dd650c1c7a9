package views

import (
	"fmt"

	"github.com/rivo/tview"

	"github.com/hafizhannan/baatcheet/internal/tui/ui"
)

// AssistantBar shows the voice assistant state and its last hint.
type AssistantBar struct {
	*tview.TextView
	state string
	hint  string
}

// NewAssistantBar creates the assistant status line.
func NewAssistantBar(theme *ui.Theme) *AssistantBar {
	tv := tview.NewTextView().
		SetDynamicColors(true)
	tv.SetBackgroundColor(tview.Styles.ContrastBackgroundColor)

	ab := &AssistantBar{TextView: tv}
	ab.render()
	return ab
}

// SetState updates the assistant state display.
func (ab *AssistantBar) SetState(state string) {
	ab.state = state
	ab.render()
}

// SetHint updates the last assistant hint.
func (ab *AssistantBar) SetHint(hint string) {
	ab.hint = hint
	ab.render()
}

func (ab *AssistantBar) render() {
	ab.Clear()

	icon := "[gray]○ mic off[-]"
	switch ab.state {
	case "LISTENING":
		icon = "[fuchsia]● listening[-]"
	case "RECOGNIZING":
		icon = "[fuchsia]◐ recognizing...[-]"
	}

	line := " " + icon
	if ab.hint != "" {
		line += fmt.Sprintf("  [::d]%s[-:-:-]", sanitizeForTerminal(ab.hint))
	}
	_, _ = fmt.Fprint(ab, line)
}
