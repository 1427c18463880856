package crimelog

import (
	"bytes"
	"fmt"
	"io"

	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/types"
)

// Page is the decoded content stream of one PDF page with the ToUnicode maps
// of its fonts, keyed by font resource name.
type Page struct {
	Content []byte
	fonts   map[string]*cmap
}

// Lines returns the text lines shown on the page.
func (p Page) Lines() []string {
	return extractLines(p.Content, p.fonts)
}

// Pages reads every page of a PDF, in page order. Pages without contents
// yield no entry.
func Pages(r io.ReadSeeker) ([]Page, error) {
	ctx, err := pdfcpu.Read(r, model.NewDefaultConfiguration())
	if err != nil {
		return nil, fmt.Errorf("read pdf: %w", err)
	}
	if err := pdfcpu.OptimizeXRefTable(ctx); err != nil {
		return nil, fmt.Errorf("optimize xref: %w", err)
	}
	if err := ctx.EnsurePageCount(); err != nil {
		return nil, fmt.Errorf("page count: %w", err)
	}

	var pages []Page
	for i := 1; i <= ctx.PageCount; i++ {
		pageDict, _, _, err := ctx.PageDict(i, false)
		if err != nil {
			return nil, fmt.Errorf("page %d dict: %w", i, err)
		}
		obj, found := pageDict.Find("Contents")
		if !found {
			continue
		}
		data, err := pageContent(ctx, obj)
		if err != nil {
			return nil, fmt.Errorf("page %d content stream: %w", i, err)
		}
		pages = append(pages, Page{Content: data, fonts: pageFonts(ctx, pageDict)})
	}
	return pages, nil
}

// pageFonts collects the ToUnicode maps of the fonts in a page's resources.
// Fonts without one, or that fail to decode, are left out.
func pageFonts(ctx *model.Context, pageDict types.Dict) map[string]*cmap {
	res, ok := dictEntry(ctx, pageDict, "Resources")
	if !ok {
		return nil
	}
	fontDict, ok := dictEntry(ctx, res, "Font")
	if !ok {
		return nil
	}
	fonts := make(map[string]*cmap)
	for name := range fontDict {
		font, ok := dictEntry(ctx, fontDict, name)
		if !ok {
			continue
		}
		obj, found := font.Find("ToUnicode")
		if !found {
			continue
		}
		obj, err := ctx.Dereference(obj)
		if err != nil {
			continue
		}
		sd, ok := obj.(types.StreamDict)
		if !ok || sd.Decode() != nil {
			continue
		}
		fonts[name] = parseCMap(sd.Content)
	}
	return fonts
}

func dictEntry(ctx *model.Context, d types.Dict, key string) (types.Dict, bool) {
	obj, found := d.Find(key)
	if !found {
		return nil, false
	}
	obj, err := ctx.Dereference(obj)
	if err != nil {
		return nil, false
	}
	sub, ok := obj.(types.Dict)
	return sub, ok
}

// pageContent dereferences and decodes a Contents entry, which is either one
// stream or an array of streams to be concatenated.
func pageContent(ctx *model.Context, obj types.Object) ([]byte, error) {
	obj, err := ctx.Dereference(obj)
	if err != nil {
		return nil, err
	}
	switch v := obj.(type) {
	case types.StreamDict:
		if err := v.Decode(); err != nil {
			return nil, fmt.Errorf("decode stream: %w", err)
		}
		return v.Content, nil
	case types.Array:
		var buf bytes.Buffer
		for _, item := range v {
			data, err := pageContent(ctx, item)
			if err != nil {
				return nil, err
			}
			buf.Write(data)
			buf.WriteByte('\n')
		}
		return buf.Bytes(), nil
	default:
		return nil, fmt.Errorf("unexpected Contents type: %T", obj)
	}
}

// Lines extracts the text lines of every page of a PDF.
func Lines(data []byte) ([]string, error) {
	pages, err := Pages(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	var lines []string
	for _, p := range pages {
		lines = append(lines, p.Lines()...)
	}
	return lines, nil
}
