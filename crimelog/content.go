package crimelog

import (
	"encoding/hex"
	"strconv"
	"strings"
)

// wordGap is the horizontal displacement, in thousandths of a text space
// unit, above which two pieces of text are separated by a space.
const wordGap = 200

type opKind int

const (
	opString opKind = iota
	opNumber
	opKeyword
	opArray
	opName
)

type operand struct {
	kind  opKind
	text  string
	items []operand // opArray only
}

func (o operand) number() (float64, bool) {
	if o.kind != opNumber {
		return 0, false
	}
	f, err := strconv.ParseFloat(o.text, 64)
	return f, err == nil
}

// lineWriter collects the shown text of a content stream into lines.
type lineWriter struct {
	lines   []string
	cur     strings.Builder
	space   bool
	y       float64
	haveY   bool
	charGap float64 // Tc in thousandths of a text space unit

	fonts map[string]*cmap
	font  *cmap // current font's ToUnicode map, nil when it has none
}

func (w *lineWriter) show(s string) {
	if w.font != nil {
		s = w.font.decode(s)
	}
	if s == "" {
		return
	}
	if w.space && w.cur.Len() > 0 {
		w.cur.WriteByte(' ')
	}
	w.space = false
	w.cur.WriteString(s)
}

func (w *lineWriter) newline() {
	if s := strings.Join(strings.Fields(w.cur.String()), " "); s != "" {
		w.lines = append(w.lines, s)
	}
	w.cur.Reset()
	w.space = false
}

// moveTo handles an absolute text position from Tm.
func (w *lineWriter) moveTo(y float64) {
	if w.haveY && y != w.y {
		w.newline()
	} else {
		w.space = true
	}
	w.y, w.haveY = y, true
}

// showArray handles a TJ array: strings are shown and large displacements
// become spaces.
func (w *lineWriter) showArray(items []operand) {
	for _, it := range items {
		switch it.kind {
		case opString:
			w.show(it.text)
		case opNumber:
			if v, ok := it.number(); ok && w.charGap-v > wordGap {
				w.space = true
			}
		}
	}
}

// ExtractLines returns the text shown by a page content stream, one string
// per visual line, with runs of whitespace collapsed. String bytes are taken
// as text.
func ExtractLines(stream []byte) []string {
	return extractLines(stream, nil)
}

// extractLines is ExtractLines decoding shown strings through the ToUnicode
// map of the selected font, when fonts has one.
func extractLines(stream []byte, fonts map[string]*cmap) []string {
	w := &lineWriter{fonts: fonts}
	var stack []operand

	sc := &contentScanner{s: string(stream)}
	for {
		op, ok := sc.next()
		if !ok {
			break
		}
		if op.kind != opKeyword {
			stack = append(stack, op)
			continue
		}
		switch op.text {
		case "Tj":
			if s, ok := last(stack, opString); ok {
				w.show(s.text)
			}
		case "'", "\"":
			w.newline()
			if s, ok := last(stack, opString); ok {
				w.show(s.text)
			}
		case "TJ":
			if a, ok := last(stack, opArray); ok {
				w.showArray(a.items)
			}
		case "Td", "TD":
			if len(stack) >= 2 {
				if ty, ok := stack[len(stack)-1].number(); ok && ty != 0 {
					w.newline()
					w.y += ty
				} else {
					w.space = true
				}
			}
		case "T*":
			w.newline()
		case "Tm":
			if len(stack) >= 6 {
				if y, ok := stack[len(stack)-1].number(); ok {
					w.moveTo(y)
				}
			}
		case "Tf":
			if len(stack) >= 2 && stack[len(stack)-2].kind == opName {
				w.font = w.fonts[stack[len(stack)-2].text]
			}
		case "Tc":
			if len(stack) > 0 {
				if tc, ok := stack[len(stack)-1].number(); ok {
					w.charGap = tc * 1000
				}
			}
		case "ET":
			w.space = true
		}
		stack = stack[:0]
	}
	w.newline()
	return w.lines
}

func last(stack []operand, kind opKind) (operand, bool) {
	if len(stack) == 0 || stack[len(stack)-1].kind != kind {
		return operand{}, false
	}
	return stack[len(stack)-1], true
}

// contentScanner splits a content stream into operands and operators.
// Dictionary brackets are skipped; hex strings are decoded to their bytes.
type contentScanner struct {
	s string
	i int
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\r' || c == '\n' || c == '\f' || c == 0
}

func isDelim(c byte) bool {
	return isSpace(c) || strings.IndexByte("()<>[]{}/%", c) >= 0
}

func (sc *contentScanner) next() (operand, bool) {
	for sc.i < len(sc.s) {
		c := sc.s[sc.i]
		switch {
		case isSpace(c):
			sc.i++
		case c == '%':
			for sc.i < len(sc.s) && sc.s[sc.i] != '\n' && sc.s[sc.i] != '\r' {
				sc.i++
			}
		case c == '(':
			return operand{kind: opString, text: sc.literal()}, true
		case c == '<' && sc.i+1 < len(sc.s) && sc.s[sc.i+1] == '<':
			sc.i += 2
		case c == '>' && sc.i+1 < len(sc.s) && sc.s[sc.i+1] == '>':
			sc.i += 2
		case c == '<':
			return operand{kind: opString, text: sc.hexString()}, true
		case c == '[':
			sc.i++
			return operand{kind: opArray, items: sc.array()}, true
		case c == ']' || c == '>' || c == '{' || c == '}' || c == ')':
			sc.i++
		case c == '/':
			sc.i++
			return operand{kind: opName, text: sc.word()}, true
		case c == '-' || c == '+' || c == '.' || (c >= '0' && c <= '9'):
			return operand{kind: opNumber, text: sc.word()}, true
		default:
			return operand{kind: opKeyword, text: sc.word()}, true
		}
	}
	return operand{}, false
}

// array reads operands up to the closing bracket.
func (sc *contentScanner) array() []operand {
	var items []operand
	for sc.i < len(sc.s) {
		for sc.i < len(sc.s) && isSpace(sc.s[sc.i]) {
			sc.i++
		}
		if sc.i < len(sc.s) && sc.s[sc.i] == ']' {
			sc.i++
			break
		}
		op, ok := sc.next()
		if !ok {
			break
		}
		items = append(items, op)
	}
	return items
}

func (sc *contentScanner) word() string {
	start := sc.i
	for sc.i < len(sc.s) && !isDelim(sc.s[sc.i]) {
		sc.i++
	}
	if sc.i == start {
		// A lone delimiter we do not handle; consume it.
		sc.i++
	}
	return sc.s[start:sc.i]
}

// hexString decodes <48656C6C6F>. An odd final digit is padded with 0.
func (sc *contentScanner) hexString() string {
	sc.i++
	var digits strings.Builder
	for sc.i < len(sc.s) && sc.s[sc.i] != '>' {
		if !isSpace(sc.s[sc.i]) {
			digits.WriteByte(sc.s[sc.i])
		}
		sc.i++
	}
	sc.i++
	h := digits.String()
	if len(h)%2 == 1 {
		h += "0"
	}
	b, err := hex.DecodeString(h)
	if err != nil {
		return ""
	}
	return string(b)
}

// literal reads a balanced (...) string, resolving escapes.
func (sc *contentScanner) literal() string {
	var buf strings.Builder
	sc.i++
	depth := 1
	for sc.i < len(sc.s) {
		c := sc.s[sc.i]
		sc.i++
		switch c {
		case '\\':
			if sc.i >= len(sc.s) {
				return buf.String()
			}
			e := sc.s[sc.i]
			sc.i++
			switch e {
			case 'n':
				buf.WriteByte('\n')
			case 'r':
				buf.WriteByte('\r')
			case 't':
				buf.WriteByte('\t')
			case 'b':
				buf.WriteByte('\b')
			case 'f':
				buf.WriteByte('\f')
			case '\r', '\n':
				// Line continuation.
			default:
				if e >= '0' && e <= '7' {
					v := int(e - '0')
					for k := 0; k < 2 && sc.i < len(sc.s) && sc.s[sc.i] >= '0' && sc.s[sc.i] <= '7'; k++ {
						v = v*8 + int(sc.s[sc.i]-'0')
						sc.i++
					}
					buf.WriteByte(byte(v))
				} else {
					buf.WriteByte(e)
				}
			}
		case '(':
			depth++
			buf.WriteByte(c)
		case ')':
			depth--
			if depth == 0 {
				return buf.String()
			}
			buf.WriteByte(c)
		default:
			buf.WriteByte(c)
		}
	}
	return buf.String()
}
