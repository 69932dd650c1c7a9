package model

import (
	"strings"
	"sync"

	"github.com/hafizhannan/baatcheet/internal/assistant"
	"github.com/hafizhannan/baatcheet/internal/chat"
)

// ViewModel caches the latest chat state plus UI-only state (contact
// filter, connection flag, assistant status) and hands the views
// consistent snapshots.
type ViewModel struct {
	mu sync.RWMutex

	chat           chat.State
	filter         string
	connected      bool
	assistantState string
	assistantHint  string

	Flash Flash
}

func NewViewModel() *ViewModel {
	return &ViewModel{}
}

// SetChat stores the latest reconciled chat state.
func (vm *ViewModel) SetChat(st chat.State) {
	vm.mu.Lock()
	vm.chat = st
	vm.mu.Unlock()
}

// Chat returns the last stored chat state.
func (vm *ViewModel) Chat() chat.State {
	vm.mu.RLock()
	defer vm.mu.RUnlock()
	return vm.chat
}

// SetFilter updates the contact list filter query.
func (vm *ViewModel) SetFilter(q string) {
	vm.mu.Lock()
	vm.filter = q
	vm.mu.Unlock()
}

// Filter returns the active filter query.
func (vm *ViewModel) Filter() string {
	vm.mu.RLock()
	defer vm.mu.RUnlock()
	return vm.filter
}

// VisibleContacts returns the contact list with the filter applied. The
// filter is a normalized substring match on the contact name, so "ali r"
// finds "Ali Raza". An empty filter shows everyone.
func (vm *ViewModel) VisibleContacts() []chat.Contact {
	vm.mu.RLock()
	defer vm.mu.RUnlock()

	query := assistant.Normalize(vm.filter)
	if query == "" {
		return vm.chat.Contacts
	}
	var out []chat.Contact
	for _, c := range vm.chat.Contacts {
		if strings.Contains(assistant.Normalize(c.Name), query) {
			out = append(out, c)
		}
	}
	return out
}

// SetConnected records the realtime connection state.
func (vm *ViewModel) SetConnected(up bool) {
	vm.mu.Lock()
	vm.connected = up
	vm.mu.Unlock()
}

// Connected reports whether the realtime connection is up.
func (vm *ViewModel) Connected() bool {
	vm.mu.RLock()
	defer vm.mu.RUnlock()
	return vm.connected
}

// SetAssistantState records the assistant's state machine position.
func (vm *ViewModel) SetAssistantState(state string) {
	vm.mu.Lock()
	vm.assistantState = state
	vm.mu.Unlock()
}

// SetAssistantHint records the assistant's last status-bar hint.
func (vm *ViewModel) SetAssistantHint(hint string) {
	vm.mu.Lock()
	vm.assistantHint = hint
	vm.mu.Unlock()
}

// Assistant returns the assistant state and last hint.
func (vm *ViewModel) Assistant() (state, hint string) {
	vm.mu.RLock()
	defer vm.mu.RUnlock()
	return vm.assistantState, vm.assistantHint
}
