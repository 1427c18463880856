package crimelog

import (
	"encoding/hex"
	"strings"
	"unicode/utf16"
)

// cmap maps character codes to text, parsed from a font's ToUnicode stream.
// width is the code length in bytes: 2 for composite fonts, 1 otherwise.
type cmap struct {
	width int
	codes map[uint16]string
}

// parseCMap reads the bfchar and bfrange sections of a ToUnicode CMap.
func parseCMap(data []byte) *cmap {
	m := &cmap{width: 1, codes: make(map[uint16]string)}
	s := string(data)
	for _, section := range sections(s, "beginbfchar", "endbfchar") {
		for _, line := range strings.Split(section, "\n") {
			tokens := hexTokens(line)
			if len(tokens) < 2 {
				continue
			}
			code, n := decodeCode(tokens[0])
			m.widen(n)
			m.codes[code] = utf16Text(tokens[1])
		}
	}
	for _, section := range sections(s, "beginbfrange", "endbfrange") {
		for _, line := range strings.Split(section, "\n") {
			m.addRange(line)
		}
	}
	return m
}

// addRange handles "<lo> <hi> <dst>" (consecutive targets) and
// "<lo> <hi> [<d0> <d1> ...]" (one target per code).
func (m *cmap) addRange(line string) {
	tokens := hexTokens(line)
	if len(tokens) < 3 {
		return
	}
	lo, n := decodeCode(tokens[0])
	hi, _ := decodeCode(tokens[1])
	m.widen(n)
	if hi < lo {
		return
	}

	if strings.Contains(line, "[") {
		for i, dst := range tokens[2:] {
			if int(lo)+i > int(hi) {
				break
			}
			m.codes[lo+uint16(i)] = utf16Text(dst)
		}
		return
	}

	start := utf16.Decode(utf16Units(tokens[2]))
	if len(start) == 0 {
		return
	}
	// Only the last character advances through the range.
	for c := uint32(lo); c <= uint32(hi); c++ {
		r := append([]rune(nil), start...)
		r[len(r)-1] += rune(c - uint32(lo))
		m.codes[uint16(c)] = string(r)
	}
}

func (m *cmap) widen(n int) {
	if n > m.width {
		m.width = n
	}
}

// decode maps the raw bytes of a shown string to text. Codes without a
// mapping are dropped.
func (m *cmap) decode(raw string) string {
	var sb strings.Builder
	for i := 0; i+m.width <= len(raw); i += m.width {
		code := uint16(raw[i])
		if m.width == 2 {
			code = uint16(raw[i])<<8 | uint16(raw[i+1])
		}
		sb.WriteString(m.codes[code])
	}
	return sb.String()
}

// sections returns the text between every begin/end keyword pair.
func sections(s, begin, end string) []string {
	var out []string
	for {
		i := strings.Index(s, begin)
		if i < 0 {
			return out
		}
		s = s[i+len(begin):]
		j := strings.Index(s, end)
		if j < 0 {
			return out
		}
		out = append(out, s[:j])
		s = s[j+len(end):]
	}
}

// hexTokens pulls every <hex> token from s.
func hexTokens(s string) []string {
	var tokens []string
	for {
		start := strings.IndexByte(s, '<')
		if start < 0 {
			return tokens
		}
		end := strings.IndexByte(s[start+1:], '>')
		if end < 0 {
			return tokens
		}
		end += start + 1
		tokens = append(tokens, strings.TrimSpace(s[start+1:end]))
		s = s[end+1:]
	}
}

// decodeCode decodes a one or two byte source code and returns its width.
func decodeCode(h string) (uint16, int) {
	b, err := hex.DecodeString(h)
	switch {
	case err != nil || len(b) == 0:
		return 0, 1
	case len(b) == 1:
		return uint16(b[0]), 1
	default:
		return uint16(b[0])<<8 | uint16(b[1]), 2
	}
}

func utf16Units(h string) []uint16 {
	b, err := hex.DecodeString(h)
	if err != nil {
		return nil
	}
	units := make([]uint16, 0, len(b)/2)
	for i := 0; i+1 < len(b); i += 2 {
		units = append(units, uint16(b[i])<<8|uint16(b[i+1]))
	}
	return units
}

// utf16Text decodes a big-endian UTF-16 destination such as <0041> or a
// ligature like <00660069>.
func utf16Text(h string) string {
	return string(utf16.Decode(utf16Units(h)))
}
