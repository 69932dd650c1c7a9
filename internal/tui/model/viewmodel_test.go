package model

import (
	"testing"

	"github.com/hafizhannan/baatcheet/internal/chat"
)

func TestVisibleContactsFilter(t *testing.T) {
	vm := NewViewModel()
	vm.SetChat(chat.State{Contacts: []chat.Contact{
		{ID: "1", Name: "Ali Raza"},
		{ID: "2", Name: "Sara Ahmed"},
		{ID: "3", Name: "Alishba"},
	}})

	tests := []struct {
		filter string
		want   []string
	}{
		{"", []string{"1", "2", "3"}},
		{"ali", []string{"1", "3"}},
		{"ALI R", []string{"1"}},
		{"ahmed", []string{"2"}},
		{"zzz", nil},
	}
	for _, tt := range tests {
		vm.SetFilter(tt.filter)
		got := vm.VisibleContacts()
		if len(got) != len(tt.want) {
			t.Errorf("filter %q: got %d contacts, want %d", tt.filter, len(got), len(tt.want))
			continue
		}
		for i, id := range tt.want {
			if got[i].ID != id {
				t.Errorf("filter %q: position %d = %q, want %q", tt.filter, i, got[i].ID, id)
			}
		}
	}
}

func TestVisibleContactsKeepsOrder(t *testing.T) {
	vm := NewViewModel()
	vm.SetChat(chat.State{Contacts: []chat.Contact{
		{ID: "b", Name: "Bano Khan"},
		{ID: "a", Name: "Adeel Khan"},
	}})
	vm.SetFilter("khan")

	got := vm.VisibleContacts()
	if len(got) != 2 || got[0].ID != "b" || got[1].ID != "a" {
		t.Errorf("filtered order = %v, must match reconciled order", got)
	}
}
