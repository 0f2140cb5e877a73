package term

import (
	"unicode/utf8"

	uv "github.com/charmbracelet/ultraviolet"
)

// sequences maps the raw escape sequences a terminal in raw mode emits to
// decoded keys. Both normal and application cursor modes are covered.
var sequences = map[string]uv.Key{
	"\x1b[A": {Code: uv.KeyUp},
	"\x1b[B": {Code: uv.KeyDown},
	"\x1b[C": {Code: uv.KeyRight},
	"\x1b[D": {Code: uv.KeyLeft},
	"\x1bOA": {Code: uv.KeyUp},
	"\x1bOB": {Code: uv.KeyDown},
	"\x1bOC": {Code: uv.KeyRight},
	"\x1bOD": {Code: uv.KeyLeft},

	"\x1b[H":  {Code: uv.KeyHome},
	"\x1b[F":  {Code: uv.KeyEnd},
	"\x1bOH":  {Code: uv.KeyHome},
	"\x1bOF":  {Code: uv.KeyEnd},
	"\x1b[1~": {Code: uv.KeyHome},
	"\x1b[4~": {Code: uv.KeyEnd},
	"\x1b[7~": {Code: uv.KeyHome},
	"\x1b[8~": {Code: uv.KeyEnd},

	"\x1b[2~": {Code: uv.KeyInsert},
	"\x1b[3~": {Code: uv.KeyDelete},
	"\x1b[5~": {Code: uv.KeyPgUp},
	"\x1b[6~": {Code: uv.KeyPgDown},

	"\x1b[Z": {Code: uv.KeyTab, Mod: uv.ModShift},

	"\x1b[1;5A": {Code: uv.KeyUp, Mod: uv.ModCtrl},
	"\x1b[1;5B": {Code: uv.KeyDown, Mod: uv.ModCtrl},
	"\x1b[1;5C": {Code: uv.KeyRight, Mod: uv.ModCtrl},
	"\x1b[1;5D": {Code: uv.KeyLeft, Mod: uv.ModCtrl},
	"\x1b[1;3A": {Code: uv.KeyUp, Mod: uv.ModAlt},
	"\x1b[1;3B": {Code: uv.KeyDown, Mod: uv.ModAlt},
	"\x1b[1;3C": {Code: uv.KeyRight, Mod: uv.ModAlt},
	"\x1b[1;3D": {Code: uv.KeyLeft, Mod: uv.ModAlt},
}

const maxSequenceLen = 6

// DecodeKeys turns a chunk of raw terminal input into key press events.
// Unrecognized escape sequences are dropped rather than leaked as text.
func DecodeKeys(data []byte) []uv.KeyPressEvent {
	var out []uv.KeyPressEvent
	for len(data) > 0 {
		if data[0] == 0x1b {
			ev, n := decodeEscape(data)
			if n > 0 {
				out = append(out, ev)
			} else {
				n = skipEscape(data)
			}
			data = data[n:]
			continue
		}
		ev, n := decodeByte(data)
		if n == 0 {
			n = 1
		} else {
			out = append(out, ev)
		}
		data = data[n:]
	}
	return out
}

func decodeEscape(data []byte) (uv.KeyPressEvent, int) {
	// Longest match first so "\x1b[1;5D" wins over "\x1b[1~"-style stubs.
	limit := min(maxSequenceLen, len(data))
	for n := limit; n >= 2; n-- {
		if key, ok := sequences[string(data[:n])]; ok {
			return uv.KeyPressEvent(key), n
		}
	}

	// Lone escape.
	if len(data) == 1 {
		return uv.KeyPressEvent{Code: uv.KeyEscape}, 1
	}

	// Unrecognized CSI/SS3 sequences get skipped whole by the caller.
	if data[1] == '[' || data[1] == 'O' {
		return uv.KeyPressEvent{}, 0
	}

	// Alt+printable arrives as ESC followed by the rune.
	r, size := utf8.DecodeRune(data[1:])
	if r != utf8.RuneError && r >= 0x20 {
		return uv.KeyPressEvent{Code: r, Mod: uv.ModAlt, Text: string(r)}, 1 + size
	}
	return uv.KeyPressEvent{}, 0
}

// skipEscape consumes an unrecognized escape sequence: CSI sequences run
// to their final byte (0x40-0x7e), anything else drops just the escape.
func skipEscape(data []byte) int {
	if len(data) >= 2 && data[1] == '[' {
		for i := 2; i < len(data); i++ {
			if data[i] >= 0x40 && data[i] <= 0x7e {
				return i + 1
			}
		}
		return len(data)
	}
	// SS3: ESC O plus one final byte.
	if len(data) >= 2 && data[1] == 'O' {
		return min(3, len(data))
	}
	return 1
}

func decodeByte(data []byte) (uv.KeyPressEvent, int) {
	b := data[0]
	switch {
	case b == '\r' || b == '\n':
		return uv.KeyPressEvent{Code: uv.KeyEnter}, 1
	case b == '\t':
		return uv.KeyPressEvent{Code: uv.KeyTab}, 1
	case b == 0x7f || b == 0x08:
		return uv.KeyPressEvent{Code: uv.KeyBackspace}, 1
	case b == ' ':
		return uv.KeyPressEvent{Code: uv.KeySpace, Text: " "}, 1
	case b < 0x20:
		// Ctrl+letter comes in as the letter minus 0x60.
		return uv.KeyPressEvent{Code: rune('a' + b - 1), Mod: uv.ModCtrl}, 1
	}
	r, size := utf8.DecodeRune(data)
	if r == utf8.RuneError && size == 1 {
		return uv.KeyPressEvent{}, 0
	}
	return uv.KeyPressEvent{Code: r, Text: string(r)}, size
}
