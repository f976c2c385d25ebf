package monitor

import (
	"testing"

	"github.com/charmbracelet/bubbles/key"
	"github.com/stretchr/testify/assert"
)

func TestKeyMap_ShortHelp(t *testing.T) {
	keys := DefaultKeyMap()
	short := keys.ShortHelp()

	assert.Len(t, short, 3)
	assert.Equal(t, "quit", short[0].Help().Desc)
}

func TestKeyMap_FullHelp(t *testing.T) {
	groups := DefaultKeyMap().FullHelp()

	total := 0
	for _, g := range groups {
		total += len(g)
	}
	assert.Equal(t, 9, total, "every binding appears in full help")
}

func TestKeyMap_Bindings(t *testing.T) {
	keys := DefaultKeyMap()

	tests := []struct {
		name    string
		binding key.Binding
		keys    []string
	}{
		{"quit", keys.Quit, []string{"q", "ctrl+c"}},
		{"refresh", keys.Refresh, []string{"r"}},
		{"help", keys.Help, []string{"?"}},
		{"up", keys.Up, []string{"up", "k"}},
		{"down", keys.Down, []string{"down", "j"}},
		{"top", keys.Top, []string{"home", "g"}},
		{"bottom", keys.Bottom, []string{"end", "G"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.keys, tt.binding.Keys())
			assert.True(t, tt.binding.Enabled())
		})
	}
}

func TestHandleKeyMsg_Unhandled(t *testing.T) {
	m := NewModel(DefaultView(), nil, nil)

	handled, cmd := m.HandleKeyMsg(keyMsg("x"))
	assert.False(t, handled)
	assert.Nil(t, cmd)
}
