package crimelog

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

const toUnicode = `/CIDInit /ProcSet findresource begin
12 dict begin
begincmap
1 begincodespacerange
<0000> <FFFF>
endcodespacerange
3 beginbfchar
<0003> <0020>
<0011> <002D>
<00A0> <00660069>
endbfchar
2 beginbfrange
<0013> <001C> <0030>
<0024> <0026> [<0041> <0042> <0043>]
endbfrange
endcmap`

func TestParseCMap(t *testing.T) {
	m := parseCMap([]byte(toUnicode))

	assert.Equal(t, 2, m.width)
	assert.Equal(t, " ", m.codes[0x0003])
	assert.Equal(t, "-", m.codes[0x0011])
	assert.Equal(t, "fi", m.codes[0x00A0])
	assert.Equal(t, "0", m.codes[0x0013])
	assert.Equal(t, "9", m.codes[0x001C])
	assert.Equal(t, "C", m.codes[0x0026])
	assert.NotContains(t, m.codes, uint16(0x001D))
}

func TestCMapDecode(t *testing.T) {
	m := parseCMap([]byte(toUnicode))

	// "25-0" as two-byte glyph codes, plus an unmapped code that is dropped.
	raw := string([]byte{0x00, 0x15, 0x00, 0x18, 0x00, 0x11, 0x00, 0x13, 0x01, 0xFF})
	assert.Equal(t, "25-0", m.decode(raw))
}

func TestParseCMapSingleByte(t *testing.T) {
	m := parseCMap([]byte("1 beginbfchar\n<20> <0020>\nendbfchar\n1 beginbfrange\n<41> <43> <0061>\nendbfrange"))

	assert.Equal(t, 1, m.width)
	assert.Equal(t, "ab c", m.decode("AB C"))
}

func TestExtractLinesWithFonts(t *testing.T) {
	fonts := map[string]*cmap{"F2": parseCMap([]byte(toUnicode))}
	stream := "BT /F1 10 Tf 72 700 Td (Case) Tj ET " +
		"BT /F2 10 Tf 72 688 Td <00150018001100130013> Tj 0 -12 Td [<0024>-50<0025>] TJ ET"

	assert.Equal(t, []string{"Case", "25-00", "AB"}, extractLines([]byte(stream), fonts))
}
