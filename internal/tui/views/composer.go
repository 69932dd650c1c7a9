package views

import (
	"sync"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"
)

// typingIdle is how long after the last keystroke the typing indicator is
// withdrawn.
const typingIdle = 3 * time.Second

// Composer is the text input for sending messages. It reports typing
// activity so the peer sees the indicator while the user writes.
type Composer struct {
	*tview.InputField
	onSend   func(text string)
	onTyping func(active bool)

	mu     sync.Mutex
	typing bool
	timer  *time.Timer
}

// NewComposer creates a new message composer.
func NewComposer() *Composer {
	input := tview.NewInputField().
		SetLabel(" > ").
		SetFieldWidth(0)

	c := &Composer{InputField: input}

	input.SetChangedFunc(func(text string) {
		if text != "" {
			c.markTyping()
		}
	})

	input.SetDoneFunc(func(key tcell.Key) {
		if key == tcell.KeyEnter && c.onSend != nil {
			text := c.GetText()
			if text != "" {
				c.stopTyping()
				c.onSend(text)
				c.SetText("")
			}
		}
	})

	return c
}

// SetOnSend sets the callback when a message is sent.
func (c *Composer) SetOnSend(fn func(text string)) {
	c.onSend = fn
}

// SetOnTyping sets the callback for typing start and stop.
func (c *Composer) SetOnTyping(fn func(active bool)) {
	c.onTyping = fn
}

// Blur withdraws the typing indicator when focus leaves the composer.
func (c *Composer) Blur() {
	c.stopTyping()
	c.InputField.Blur()
}

func (c *Composer) markTyping() {
	c.mu.Lock()
	wasTyping := c.typing
	c.typing = true
	if c.timer != nil {
		c.timer.Stop()
	}
	c.timer = time.AfterFunc(typingIdle, c.stopTyping)
	c.mu.Unlock()

	if !wasTyping && c.onTyping != nil {
		c.onTyping(true)
	}
}

func (c *Composer) stopTyping() {
	c.mu.Lock()
	wasTyping := c.typing
	c.typing = false
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
	c.mu.Unlock()

	if wasTyping && c.onTyping != nil {
		c.onTyping(false)
	}
}
