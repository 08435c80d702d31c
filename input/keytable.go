package input

import evdev "github.com/holoplot/go-evdev"

// MaxKeys is the number of key codes covered by the tables.
const MaxKeys = 112

// Unknown is returned for codes without a mapping.
const Unknown = "<UK>"

const uk = Unknown

// Unshifted glyphs indexed by key code, US layout.
// Non-printable keys are rendered as a bracketed name, e.g. <ESC>.
var keyNames = [MaxKeys]string{
	uk, "<ESC>",
	"1", "2", "3", "4", "5", "6", "7", "8", "9", "0", "-", "=",
	"<Backspace>", "<Tab>",
	"q", "w", "e", "r", "t", "y", "u", "i", "o", "p",
	"[", "]", "<Enter>", "<LCtrl>",
	"a", "s", "d", "f", "g", "h", "j", "k", "l", ";",
	"'", "`", "<LShift>",
	"\\", "z", "x", "c", "v", "b", "n", "m", ",", ".", "/",
	"<RShift>",
	"<KP*>",
	"<LAlt>", " ", "<CapsLock>",
	"<F1>", "<F2>", "<F3>", "<F4>", "<F5>", "<F6>", "<F7>", "<F8>", "<F9>", "<F10>",
	"<NumLock>", "<ScrollLock>",
	"<KP7>", "<KP8>", "<KP9>",
	"<KP->",
	"<KP4>", "<KP5>", "<KP6>",
	"<KP+>",
	"<KP1>", "<KP2>", "<KP3>", "<KP0>",
	"<KP.>",
	uk, uk, uk,
	"<F11>", "<F12>",
	uk, uk, uk, uk, uk, uk, uk,
	"<KPEnter>", "<RCtrl>", "<KP/>", "<SysRq>", "<RAlt>", uk,
	"<Home>", "<Up>", "<PageUp>", "<Left>", "<Right>", "<End>", "<Down>",
	"<PageDown>", "<Insert>", "<Delete>",
}

// Shifted glyphs, same layout as keyNames.
var shiftKeyNames = [MaxKeys]string{
	uk, "<ESC>",
	"!", "@", "#", "$", "%", "^", "&", "*", "(", ")", "_", "+",
	"<Backspace>", "<Tab>",
	"Q", "W", "E", "R", "T", "Y", "U", "I", "O", "P",
	"{", "}", "<Enter>", "<LCtrl>",
	"A", "S", "D", "F", "G", "H", "J", "K", "L", ":",
	"\"", "~", "<LShift>",
	"|", "Z", "X", "C", "V", "B", "N", "M", "<", ">", "?",
	"<RShift>",
	"<KP*>",
	"<LAlt>", " ", "<CapsLock>",
	"<F1>", "<F2>", "<F3>", "<F4>", "<F5>", "<F6>", "<F7>", "<F8>", "<F9>", "<F10>",
	"<NumLock>", "<ScrollLock>",
	"<KP7>", "<KP8>", "<KP9>",
	"<KP->",
	"<KP4>", "<KP5>", "<KP6>",
	"<KP+>",
	"<KP1>", "<KP2>", "<KP3>", "<KP0>",
	"<KP.>",
	uk, uk, uk,
	"<F11>", "<F12>",
	uk, uk, uk, uk, uk, uk, uk,
	"<KPEnter>", "<RCtrl>", "<KP/>", "<SysRq>", "<RAlt>", uk,
	"<Home>", "<Up>", "<PageUp>", "<Left>", "<Right>", "<End>", "<Down>",
	"<PageDown>", "<Insert>", "<Delete>",
}

// Lookup returns the display text for code and whether the code is mapped.
// Unmapped and out of range codes return Unknown, false.
func Lookup(code uint16, shifted bool) (string, bool) {
	if code >= MaxKeys {
		return Unknown, false
	}
	s := keyNames[code]
	if shifted {
		s = shiftKeyNames[code]
	}
	return s, s != Unknown
}

// Resolve converts a key code to its text representation.
func Resolve(code uint16, shifted bool) string {
	s, _ := Lookup(code, shifted)
	return s
}

// IsShift reports whether code is the left or right shift key.
func IsShift(code uint16) bool {
	return code == uint16(evdev.KEY_LEFTSHIFT) || code == uint16(evdev.KEY_RIGHTSHIFT)
}
