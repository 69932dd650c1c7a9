package tui

import (
	"context"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"
	"go.uber.org/zap"

	"github.com/hafizhannan/baatcheet/internal/assistant"
	"github.com/hafizhannan/baatcheet/internal/bus"
	"github.com/hafizhannan/baatcheet/internal/chat"
	"github.com/hafizhannan/baatcheet/internal/media"
	"github.com/hafizhannan/baatcheet/internal/rest"
	"github.com/hafizhannan/baatcheet/internal/tui/keys"
	"github.com/hafizhannan/baatcheet/internal/tui/model"
	"github.com/hafizhannan/baatcheet/internal/tui/ui"
	"github.com/hafizhannan/baatcheet/internal/tui/views"
)

// App is the main TUI application shell. It renders whatever the chat
// service last published and feeds user actions back into it; it never
// mutates chat state directly.
type App struct {
	app      *tview.Application
	pages    *tview.Pages
	vm       *model.ViewModel
	chats    *chat.Service
	asst     *assistant.Assistant
	recorder *media.Recorder
	api      *rest.Client
	bus      *bus.Bus
	logger   *zap.Logger
	theme    *ui.Theme
	registry *keys.Registry

	contactList  *views.ContactList
	thread       *views.Thread
	composer     *views.Composer
	statusBar    *views.StatusBar
	assistantBar *views.AssistantBar
	helpView     *views.HelpView
	filterInput  *tview.InputField
	commandInput *tview.InputField

	ctx    context.Context
	cancel context.CancelFunc
}

// NewApp creates the TUI application.
func NewApp(profile string, chats *chat.Service, asst *assistant.Assistant, recorder *media.Recorder,
	api *rest.Client, b *bus.Bus, logger *zap.Logger) *App {
	ctx, cancel := context.WithCancel(context.Background())
	theme := ui.DefaultTheme()

	a := &App{
		app:          tview.NewApplication(),
		pages:        tview.NewPages(),
		vm:           model.NewViewModel(),
		chats:        chats,
		asst:         asst,
		recorder:     recorder,
		api:          api,
		bus:          b,
		logger:       logger,
		theme:        theme,
		registry:     keys.NewRegistry(),
		contactList:  views.NewContactList(theme),
		thread:       views.NewThread(theme),
		composer:     views.NewComposer(),
		statusBar:    views.NewStatusBar(theme),
		assistantBar: views.NewAssistantBar(theme),
		helpView:     views.NewHelpView(theme),
		ctx:          ctx,
		cancel:       cancel,
	}

	a.statusBar.SetProfile(profile)
	a.setupInputs()
	a.setupBindings()
	a.setupCallbacks()
	a.setupLayout()

	return a
}

func (a *App) setupInputs() {
	a.filterInput = tview.NewInputField().
		SetLabel(" / ").
		SetFieldWidth(0)
	a.filterInput.SetChangedFunc(func(text string) {
		a.vm.SetFilter(text)
		a.refresh()
	})
	a.filterInput.SetDoneFunc(func(key tcell.Key) {
		if key == tcell.KeyEscape {
			a.filterInput.SetText("")
			a.vm.SetFilter("")
			a.refresh()
		}
		a.app.SetFocus(a.contactList)
	})

	a.commandInput = tview.NewInputField().
		SetLabel(" : ").
		SetFieldWidth(0)
	a.commandInput.SetDoneFunc(func(key tcell.Key) {
		text := a.commandInput.GetText()
		a.commandInput.SetText("")
		a.app.SetFocus(a.contactList)
		if key == tcell.KeyEnter && text != "" {
			a.runCommand(ParseCommand(text))
		}
	})
}

func (a *App) setupBindings() {
	a.registry.AddGlobal("quit", &keys.Action{
		Rune: 'q', Key: tcell.KeyRune,
		Description: "q:quit", Visible: true,
		Handler: func() { a.Stop() },
	})
	a.registry.AddGlobal("help", &keys.Action{
		Rune: '?', Key: tcell.KeyRune,
		Description: "?:help", Visible: true,
		Handler: func() { a.pages.SwitchToPage("help") },
	})
	a.registry.AddGlobal("filter", &keys.Action{
		Rune: '/', Key: tcell.KeyRune,
		Description: "/:filter", Visible: true,
		Handler: func() { a.app.SetFocus(a.filterInput) },
	})
	a.registry.AddGlobal("command", &keys.Action{
		Rune: ':', Key: tcell.KeyRune,
		Description: ":cmd", Visible: false,
		Handler: func() { a.app.SetFocus(a.commandInput) },
	})
	a.registry.AddGlobal("assistant", &keys.Action{
		Rune: 'a', Key: tcell.KeyRune,
		Description: "a:assistant", Visible: true,
		Handler: func() { a.toggleAssistant() },
	})
	a.registry.AddView("main", "voice", &keys.Action{
		Rune: 'v', Key: tcell.KeyRune,
		Description: "v:voice note", Visible: true,
		Handler: func() { a.toggleVoiceNote() },
	})
	a.registry.AddView("main", "cancel-voice", &keys.Action{
		Rune: 'x', Key: tcell.KeyRune,
		Description: "x:cancel note", Visible: false,
		Handler: func() { a.cancelVoiceNote() },
	})
	a.registry.AddView("main", "delete", &keys.Action{
		Rune: 'D', Key: tcell.KeyRune,
		Description: "D:delete last", Visible: false,
		Handler: func() { a.deleteLastOwnMessage() },
	})
}

func (a *App) setupCallbacks() {
	a.contactList.SetSelectedFunc(func(row, col int) {
		if id := a.contactList.SelectedContact(); id != "" {
			a.openContact(id)
		}
	})

	a.composer.SetOnSend(func(text string) {
		if a.vm.Chat().ActiveID == "" {
			return
		}
		a.chats.SendText(a.vm.Chat().ActiveID, text, "")
	})

	a.composer.SetOnTyping(func(active bool) {
		a.chats.SetTyping(active)
	})
}

func (a *App) setupLayout() {
	left := tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(a.filterInput, 1, 0, false).
		AddItem(a.contactList, 0, 1, true)

	right := tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(a.thread, 0, 1, false).
		AddItem(a.composer, 1, 0, false)

	main := tview.NewFlex().
		AddItem(left, 34, 0, true).
		AddItem(right, 0, 1, false)

	a.pages.AddPage("main", main, true, true)
	a.pages.AddPage("help", a.helpView, true, false)

	root := tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(a.pages, 0, 1, true).
		AddItem(a.commandInput, 1, 0, false).
		AddItem(a.assistantBar, 1, 0, false).
		AddItem(a.statusBar, 1, 0, false)

	a.app.SetRoot(root, true)

	a.app.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		currentPage, _ := a.pages.GetFrontPage()

		if event.Key() == tcell.KeyEscape {
			if currentPage == "help" {
				a.pages.SwitchToPage("main")
				a.app.SetFocus(a.contactList)
				return nil
			}
			focused := a.app.GetFocus()
			if focused == a.composer.InputField {
				a.composer.Blur()
				a.app.SetFocus(a.contactList)
				return nil
			}
			if _, ok := focused.(*tview.InputField); ok {
				return event
			}
			if a.vm.Chat().ActiveID != "" {
				a.chats.CloseConversation()
				return nil
			}
			return event
		}

		// Let text input widgets handle all keys normally.
		if _, ok := a.app.GetFocus().(*tview.InputField); ok {
			return event
		}

		// 'i' focuses the composer when a conversation is open.
		if currentPage == "main" && event.Key() == tcell.KeyRune && event.Rune() == 'i' {
			if a.vm.Chat().ActiveID != "" {
				a.app.SetFocus(a.composer.InputField)
			}
			return nil
		}

		if a.registry.HandleEvent(currentPage, event) {
			return nil
		}
		return event
	})
}

func (a *App) openContact(id string) {
	a.chats.OpenConversation(a.ctx, id)
	a.app.SetFocus(a.composer.InputField)
	a.refresh()
}

func (a *App) toggleAssistant() {
	if a.asst == nil {
		a.vm.Flash.Info("Voice assistant unavailable")
		a.refresh()
		return
	}
	if a.asst.State() == assistant.Idle {
		if err := a.asst.StartListening(a.ctx); err != nil {
			a.vm.Flash.Info("Assistant failed: " + err.Error())
		}
	} else {
		a.asst.StopListening(false)
	}
	a.refresh()
}

func (a *App) toggleVoiceNote() {
	if a.recorder == nil {
		return
	}
	active := a.vm.Chat().ActiveID
	if active == "" {
		a.vm.Flash.Info("Open a conversation first")
		a.refresh()
		return
	}
	if a.recorder.Recording() {
		go func() {
			if err := a.recorder.Finish(a.ctx, active); err != nil {
				a.vm.Flash.Info("Voice note failed: " + err.Error())
			} else {
				a.vm.Flash.Info("Voice note sent")
			}
			a.app.QueueUpdateDraw(a.refresh)
		}()
		return
	}
	if err := a.recorder.Start(); err != nil {
		a.vm.Flash.Info("Recording failed: " + err.Error())
	} else {
		a.vm.Flash.Info("Recording... press v to send, x to cancel")
	}
	a.refresh()
}

func (a *App) cancelVoiceNote() {
	if a.recorder == nil || !a.recorder.Recording() {
		return
	}
	if err := a.recorder.Cancel(); err == nil {
		a.vm.Flash.Info("Voice note discarded")
	}
	a.refresh()
}

func (a *App) deleteLastOwnMessage() {
	st := a.vm.Chat()
	if st.ActiveID == "" {
		return
	}
	for i := len(st.Messages) - 1; i >= 0; i-- {
		if st.Messages[i].Mine(st.SelfID) {
			a.chats.DeleteMessage(st.Messages[i].ID)
			a.vm.Flash.Info("Message deleted")
			a.refresh()
			return
		}
	}
}

func (a *App) runCommand(cmd Command) {
	switch cmd.Name {
	case "open":
		c, score := assistant.BestContact(a.vm.Chat().Contacts, cmd.Args)
		if score == 0 {
			a.vm.Flash.Info("No contact matches " + cmd.Args)
			break
		}
		a.openContact(c.ID)
	case "file":
		active := a.vm.Chat().ActiveID
		if active == "" {
			a.vm.Flash.Info("Open a conversation first")
			break
		}
		if cmd.Args == "" {
			a.vm.Flash.Info("Usage: :file <path>")
			break
		}
		go func() {
			if err := media.SendAttachment(a.ctx, cmd.Args, active, a.api, a.chats); err != nil {
				a.vm.Flash.Info("File send failed: " + err.Error())
			} else {
				a.vm.Flash.Info("File sent")
			}
			a.app.QueueUpdateDraw(a.refresh)
		}()
	case "bio":
		go func() {
			p, err := a.api.Me(a.ctx)
			if err == nil {
				p.Bio = cmd.Args
				err = a.api.UpdateProfile(a.ctx, p)
			}
			if err != nil {
				a.vm.Flash.Info("Bio update failed: " + err.Error())
			} else {
				a.vm.Flash.Info("Bio updated")
			}
			a.app.QueueUpdateDraw(a.refresh)
		}()
	case "help", "h":
		a.pages.SwitchToPage("help")
	case "quit", "q":
		a.Stop()
	default:
		a.vm.Flash.Info("Unknown command: " + cmd.Name)
	}
	a.refresh()
}

// refresh redraws every view from the view model. Must run on the UI
// goroutine.
func (a *App) refresh() {
	st := a.vm.Chat()

	a.contactList.Update(a.vm.VisibleContacts(), st.TypingFrom)

	if active := st.ActiveContact(); active != nil {
		a.thread.SetContact(*active)
		typingName := ""
		if st.TypingFrom == active.ID {
			typingName = active.Name
		}
		a.thread.Update(st.Messages, st.SelfID, typingName)
	} else {
		a.thread.ClearContact()
	}

	a.statusBar.SetConnected(a.vm.Connected())
	a.statusBar.SetFlash(a.vm.Flash.Get())

	state, hint := a.vm.Assistant()
	a.assistantBar.SetState(state)
	a.assistantBar.SetHint(hint)
}

// Run starts the TUI application.
func (a *App) Run() error {
	a.vm.SetChat(a.chats.Snapshot())
	a.vm.SetAssistantState(string(assistant.Idle))
	a.refresh()
	a.logger.Info("tui started")

	go a.busLoop()

	return a.app.Run()
}

// busLoop folds bus events into the view model and schedules redraws.
func (a *App) busLoop() {
	events, unsub := a.bus.Subscribe("", 64)
	defer unsub()

	for {
		select {
		case evt := <-events:
			switch evt.Kind {
			case bus.KindChatUpdated:
				a.vm.SetChat(a.chats.Snapshot())
			case bus.KindConnUp:
				a.vm.SetConnected(true)
			case bus.KindConnDown:
				a.vm.SetConnected(false)
			case bus.KindAssistantState:
				if change, ok := evt.Payload.(assistant.StateChange); ok {
					a.vm.SetAssistantState(string(change.To))
				}
			case bus.KindAssistantHint:
				if hint, ok := evt.Payload.(string); ok {
					a.vm.SetAssistantHint(hint)
					a.vm.Flash.Info(hint)
				}
			default:
				continue
			}
			a.app.QueueUpdateDraw(a.refresh)
		case <-a.ctx.Done():
			return
		}
	}
}

// Stop gracefully shuts down the TUI.
func (a *App) Stop() {
	a.cancel()
	a.app.Stop()
}
