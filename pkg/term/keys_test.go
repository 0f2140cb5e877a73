package term

import (
	"testing"

	uv "github.com/charmbracelet/ultraviolet"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeKeysSequences(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want uv.KeyPressEvent
	}{
		{"up", "\x1b[A", uv.KeyPressEvent{Code: uv.KeyUp}},
		{"down", "\x1b[B", uv.KeyPressEvent{Code: uv.KeyDown}},
		{"app-mode right", "\x1bOC", uv.KeyPressEvent{Code: uv.KeyRight}},
		{"home", "\x1b[H", uv.KeyPressEvent{Code: uv.KeyHome}},
		{"home tilde", "\x1b[1~", uv.KeyPressEvent{Code: uv.KeyHome}},
		{"end tilde", "\x1b[4~", uv.KeyPressEvent{Code: uv.KeyEnd}},
		{"page up", "\x1b[5~", uv.KeyPressEvent{Code: uv.KeyPgUp}},
		{"page down", "\x1b[6~", uv.KeyPressEvent{Code: uv.KeyPgDown}},
		{"delete", "\x1b[3~", uv.KeyPressEvent{Code: uv.KeyDelete}},
		{"shift tab", "\x1b[Z", uv.KeyPressEvent{Code: uv.KeyTab, Mod: uv.ModShift}},
		{"ctrl left", "\x1b[1;5D", uv.KeyPressEvent{Code: uv.KeyLeft, Mod: uv.ModCtrl}},
		{"alt right", "\x1b[1;3C", uv.KeyPressEvent{Code: uv.KeyRight, Mod: uv.ModAlt}},
		{"enter", "\r", uv.KeyPressEvent{Code: uv.KeyEnter}},
		{"tab", "\t", uv.KeyPressEvent{Code: uv.KeyTab}},
		{"backspace", "\x7f", uv.KeyPressEvent{Code: uv.KeyBackspace}},
		{"space", " ", uv.KeyPressEvent{Code: uv.KeySpace, Text: " "}},
		{"ctrl c", "\x03", uv.KeyPressEvent{Code: 'c', Mod: uv.ModCtrl}},
		{"lone escape", "\x1b", uv.KeyPressEvent{Code: uv.KeyEscape}},
		{"alt letter", "\x1bb", uv.KeyPressEvent{Code: 'b', Mod: uv.ModAlt, Text: "b"}},
		{"plain rune", "q", uv.KeyPressEvent{Code: 'q', Text: "q"}},
		{"wide rune", "é", uv.KeyPressEvent{Code: 'é', Text: "é"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			evs := DecodeKeys([]byte(tc.in))
			require.Len(t, evs, 1)
			assert.Equal(t, tc.want, evs[0])
		})
	}
}

func TestDecodeKeysChunked(t *testing.T) {
	evs := DecodeKeys([]byte("ab\x1b[A\r"))
	require.Len(t, evs, 4)
	assert.Equal(t, "a", evs[0].Text)
	assert.Equal(t, "b", evs[1].Text)
	assert.Equal(t, uv.KeyUp, evs[2].Code)
	assert.Equal(t, uv.KeyEnter, evs[3].Code)
}

func TestDecodeKeysDropsUnknownCSI(t *testing.T) {
	// A cursor position report should vanish, not leak as text.
	evs := DecodeKeys([]byte("\x1b[12;40Rx"))
	require.Len(t, evs, 1)
	assert.Equal(t, "x", evs[0].Text)
}
