package term

import "unicode/utf8"

var sequences = map[string]string{
	"\x1b[A": "up",
	"\x1b[B": "down",
	"\x1b[C": "right",
	"\x1b[D": "left",
	"\x1bOA": "up",
	"\x1bOB": "down",
	"\x1bOC": "right",
	"\x1bOD": "left",
}

// decodeKeys splits raw terminal input into key names. Printable characters
// are named by themselves. Arrow keys, space, enter, escape, tab, backspace
// and ctrl+letter have descriptive names.
func decodeKeys(b []byte) []string {
	var keys []string
	for len(b) > 0 {
		if b[0] == 0x1b && len(b) >= 3 {
			if k, ok := sequences[string(b[:3])]; ok {
				keys = append(keys, k)
				b = b[3:]
				continue
			}
		}

		switch c := b[0]; {
		case c == 0x1b:
			keys = append(keys, "esc")
		case c == ' ':
			keys = append(keys, "space")
		case c == '\r' || c == '\n':
			keys = append(keys, "enter")
		case c == '\t':
			keys = append(keys, "tab")
		case c == 0x7f || c == 0x08:
			keys = append(keys, "backspace")
		case c >= 0x01 && c <= 0x1a:
			keys = append(keys, "ctrl+"+string(rune('a'+c-1)))
		case c < utf8.RuneSelf:
			keys = append(keys, string(rune(c)))
		default:
			r, n := utf8.DecodeRune(b)
			keys = append(keys, string(r))
			b = b[n:]
			continue
		}
		b = b[1:]
	}
	return keys
}
