package keys

import "unicode/utf8"

const (
	byteInterrupt = 0x03
	byteBackspace = 0x08
	byteTab       = '\t'
	byteLF        = '\n'
	byteCR        = '\r'
	byteEsc       = 0x1b
	byteDel       = 0x7f
)

// Decoder converts raw terminal byte chunks into logical keys.
//
// Each chunk is expected to be the result of one read from a raw-mode tty.
// Escape sequences are only recognised when fully contained in the chunk;
// an ESC whose terminator bytes are not present is reported as Escape.
// Bytes that form no known key are dropped.
type Decoder struct{}

// Decode returns the keys contained in chunk, in order.
func (Decoder) Decode(chunk []byte) []Key {
	var out []Key

	for i := 0; i < len(chunk); {
		b := chunk[i]

		switch {
		case b == byteEsc:
			key, n := decodeEscape(chunk[i:])
			if key.Type != Unknown {
				out = append(out, key)
			}

			i += n
		case b == byteCR || b == byteLF:
			out = append(out, Of(Enter))
			i++
			// Treat CRLF as a single Enter.
			if b == byteCR && i < len(chunk) && chunk[i] == byteLF {
				i++
			}
		case b == byteTab:
			out = append(out, Of(Tab))
			i++
		case b == byteDel || b == byteBackspace:
			out = append(out, Of(Backspace))
			i++
		case b == byteInterrupt:
			out = append(out, Of(Interrupt))
			i++
		case b < 0x20:
			i++
		default:
			r, size := utf8.DecodeRune(chunk[i:])
			if r != utf8.RuneError {
				out = append(out, Char(r))
			}

			i += size
		}
	}

	return out
}

// decodeEscape decodes the sequence starting at seq[0] == ESC and returns the
// key plus the number of bytes consumed.
func decodeEscape(seq []byte) (Key, int) {
	if len(seq) < 2 {
		return Of(Escape), 1
	}

	switch seq[1] {
	case '[':
		if len(seq) < 3 {
			return Of(Escape), 1
		}

		if key, ok := csiFinal(seq[2]); ok {
			return key, 3
		}

		// Parameterised CSI such as ESC [ 1 ; 5 A: skip to the final byte.
		for j := 2; j < len(seq); j++ {
			c := seq[j]
			if c >= 0x40 && c <= 0x7e {
				if key, ok := csiFinal(c); ok {
					return key, j + 1
				}

				return Key{}, j + 1
			}

			if c < 0x20 || c > 0x3f {
				break
			}
		}

		return Of(Escape), 1
	case 'O':
		if len(seq) < 3 {
			return Of(Escape), 1
		}

		if key, ok := csiFinal(seq[2]); ok && key.Type != ShiftTab {
			return key, 3
		}

		return Of(Escape), 1
	default:
		// Alt-modified keys and ESC ESC: report the ESC, decode the rest.
		return Of(Escape), 1
	}
}

func csiFinal(b byte) (Key, bool) {
	switch b {
	case 'A':
		return Of(Up), true
	case 'B':
		return Of(Down), true
	case 'C':
		return Of(Right), true
	case 'D':
		return Of(Left), true
	case 'Z':
		return Of(ShiftTab), true
	default:
		return Key{}, false
	}
}
