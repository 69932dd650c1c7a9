package assistant

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/hafizhannan/baatcheet/internal/bus"
	"github.com/hafizhannan/baatcheet/internal/chat"
)

const (
	// debounceWindow drops a transcript identical to the previous one when
	// it arrives within this window. Recognizers tend to re-emit the final
	// transcript once or twice.
	debounceWindow = 2 * time.Second

	// inactivityTimeout returns the assistant to Idle when nothing has been
	// heard for this long.
	inactivityTimeout = 10 * time.Second

	greeting = "I am Jarvis. How can I assist you?"
	farewell = "Take care. Good Bye"
)

// TranscriptEvent is one recognizer result. Interim results keep the
// session alive; only final results are interpreted.
type TranscriptEvent struct {
	Text  string
	Final bool
}

// Recognizer streams speech transcripts. Start returns the result channel,
// which closes when recognition ends. Implementations are exclusive: a
// second Start while running fails.
type Recognizer interface {
	Start(ctx context.Context) (<-chan TranscriptEvent, error)
	Stop()
}

// Speaker voices the assistant's answers. UrduVoice reports whether an
// Urdu voice is available, which selects the language of spoken answers.
type Speaker interface {
	Speak(text string)
	UrduVoice() bool
}

// Commander is the slice of the chat layer the assistant drives.
type Commander interface {
	Contacts() []chat.Contact
	Open(ctx context.Context, contactID string)
	Send(to, text string)
}

// Assistant turns final transcripts into chat commands. All side effects
// go through the Commander and Speaker; classification itself is pure.
type Assistant struct {
	machine *Machine
	rec     Recognizer
	speaker Speaker
	chats   Commander
	bus     *bus.Bus
	logger  *zap.Logger
	now     func() time.Time

	mu         sync.Mutex
	lastText   string
	lastAt     time.Time
	processing bool
	greeted    bool
	idleTimer  *time.Timer
}

func New(rec Recognizer, speaker Speaker, chats Commander, b *bus.Bus, logger *zap.Logger) *Assistant {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Assistant{
		machine: NewMachine(b),
		rec:     rec,
		speaker: speaker,
		chats:   chats,
		bus:     b,
		logger:  logger,
		now:     time.Now,
	}
}

// State returns the current assistant state.
func (a *Assistant) State() State {
	return a.machine.Current()
}

// StartListening begins a recognition session. No-op when one is already
// running.
func (a *Assistant) StartListening(ctx context.Context) error {
	if a.machine.Current() != Idle {
		return nil
	}
	results, err := a.rec.Start(ctx)
	if err != nil {
		return fmt.Errorf("start recognizer: %w", err)
	}
	if err := a.machine.Transition(Listening); err != nil {
		a.rec.Stop()
		return err
	}

	a.mu.Lock()
	first := !a.greeted
	a.greeted = true
	a.mu.Unlock()
	if first {
		a.speaker.Speak(greeting)
	}
	a.hint("Jarvis is listening")
	a.resetIdleTimer()

	go a.loop(ctx, results)
	return nil
}

// StopListening ends the session. When farewell is set the assistant says
// goodbye, which is the stop-command path; the inactivity path stays silent.
func (a *Assistant) StopListening(sayFarewell bool) {
	if a.machine.Current() == Idle {
		return
	}
	a.rec.Stop()
	a.stopIdleTimer()
	_ = a.machine.Transition(Idle)
	if sayFarewell {
		a.speaker.Speak(farewell)
		a.hint("Jarvis stopped")
	} else {
		a.hint("Jarvis stopped listening")
	}
}

func (a *Assistant) loop(ctx context.Context, results <-chan TranscriptEvent) {
	for ev := range results {
		a.resetIdleTimer()
		if !ev.Final {
			_ = a.machine.Transition(Recognizing)
			continue
		}
		a.HandleTranscript(ctx, ev.Text)
		if a.machine.Current() == Recognizing {
			_ = a.machine.Transition(Listening)
		}
	}
	// Recognizer went away on its own.
	if a.machine.Current() != Idle {
		a.stopIdleTimer()
		_ = a.machine.Transition(Idle)
	}
}

// HandleTranscript interprets one final transcript and performs its side
// effects. Duplicate transcripts inside the debounce window are dropped,
// as is anything that arrives while a previous command is still running.
func (a *Assistant) HandleTranscript(ctx context.Context, raw string) {
	t := Normalize(raw)
	if t == "" {
		return
	}

	a.mu.Lock()
	now := a.now()
	if t == a.lastText && now.Sub(a.lastAt) < debounceWindow {
		a.mu.Unlock()
		a.logger.Debug("transcript debounced", zap.String("text", t))
		return
	}
	if a.processing {
		a.mu.Unlock()
		a.logger.Debug("transcript dropped, still processing", zap.String("text", t))
		return
	}
	a.lastText, a.lastAt = t, now
	a.processing = true
	a.mu.Unlock()
	defer func() {
		a.mu.Lock()
		a.processing = false
		a.mu.Unlock()
	}()

	intent := Classify(t)
	a.logger.Info("voice command", zap.String("text", t), zap.String("intent", fmt.Sprintf("%T", intent)))
	a.dispatch(ctx, intent)
}

func (a *Assistant) dispatch(ctx context.Context, intent Intent) {
	switch in := intent.(type) {
	case StopListening:
		a.StopListening(true)

	case QueryDateTime:
		speech, hint := AnswerDateTime(in.Kind, a.now(), a.speaker.UrduVoice())
		a.speaker.Speak(speech)
		a.hint(hint)

	case Introduce:
		a.speaker.Speak("I am Jarvis. I am your personal assistant for this chat application, developed by Hafiz Abdul Hannan.")
		a.hint("Introduced myself")

	case DeveloperInfo:
		a.speaker.Speak("Nickname of Hafiz Abdul Hannan is hah")
		a.hint("Introduced developer")

	case OpenContact:
		c, score := BestContact(a.chats.Contacts(), in.Name)
		if score == 0 {
			if in.Implicit {
				a.unrecognized()
				return
			}
			a.speaker.Speak("Contact not found")
			a.hint("Contact not found: " + in.Name)
			return
		}
		a.chats.Open(ctx, c.ID)
		a.speaker.Speak("Opened chat with " + c.Name)
		a.hint("Opened " + c.Name)

	case SendEmoji:
		c, score := BestContact(a.chats.Contacts(), in.ContactName)
		if score == 0 {
			a.speaker.Speak("Contact not found")
			a.hint("Contact not found: " + in.ContactName)
			return
		}
		glyph := LookupEmoji(in.EmojiName)
		if glyph == "" {
			a.speaker.Speak("Emoji not found. Try common names like happy, sad, heart, or thumbs up")
			a.hint("Emoji not recognized: " + in.EmojiName)
			return
		}
		a.chats.Send(c.ID, glyph)
		a.speaker.Speak(fmt.Sprintf("%s emoji sent to %s", in.EmojiName, c.Name))
		a.hint(fmt.Sprintf("Sent %s to %s", glyph, c.Name))

	case SendText:
		c, score := BestContact(a.chats.Contacts(), in.ContactName)
		if score == 0 {
			a.speaker.Speak("Contact not found")
			a.hint("Contact not found: " + in.ContactName)
			return
		}
		a.chats.Send(c.ID, in.Text)
		a.speaker.Speak("Message sent successfully.")
		a.hint(fmt.Sprintf("Message sent to %s: %q", c.Name, in.Text))

	default:
		a.unrecognized()
	}
}

func (a *Assistant) unrecognized() {
	a.hint(`Command not recognized. Try: "open Ali", "send happy emoji to Ali", or "message Ali saying hello"`)
}

func (a *Assistant) hint(text string) {
	if a.bus != nil {
		a.bus.Publish(bus.Now(bus.KindAssistantHint, text))
	}
}

func (a *Assistant) resetIdleTimer() {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.idleTimer != nil {
		a.idleTimer.Stop()
	}
	a.idleTimer = time.AfterFunc(inactivityTimeout, func() {
		if a.machine.Current() == Listening {
			a.logger.Info("assistant idle timeout")
			a.StopListening(false)
		}
	})
}

func (a *Assistant) stopIdleTimer() {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.idleTimer != nil {
		a.idleTimer.Stop()
		a.idleTimer = nil
	}
}
