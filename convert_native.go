package main

import (
	"archive/zip"
	"bytes"
	"errors"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/beevik/etree"
	"github.com/xuri/excelize/v2"
)

// convertNative runs the in-process strategy for a dispatched job.
func convertNative(payload []byte, route Route) ([]byte, error) {
	switch route.Target {
	case "ods":
		return spreadsheetToODS(payload)
	case "odt":
		return wordToODT(payload)
	case "odp":
		return presentationToODP(payload)
	default:
		return nil, fmt.Errorf("no native converter for %q", route.Target)
	}
}

// spreadsheetToODS reads the workbook's active sheet and emits it as an ODS
// table of string cells.
func spreadsheetToODS(payload []byte) ([]byte, error) {
	workbook, err := excelize.OpenReader(bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorruptUpload, err)
	}
	defer workbook.Close()

	sheet := workbook.GetSheetName(workbook.GetActiveSheetIndex())
	if sheet == "" {
		sheets := workbook.GetSheetList()
		if len(sheets) == 0 {
			return nil, fmt.Errorf("%w: workbook has no sheets", ErrCorruptUpload)
		}
		sheet = sheets[0]
	}
	rows, err := workbook.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("reading sheet %q: %w", sheet, err)
	}

	doc, body := newContentDoc("office:spreadsheet")
	table := body.CreateElement("table:table")
	table.CreateAttr("table:name", sheet)
	for _, row := range rows {
		tr := table.CreateElement("table:table-row")
		for _, cell := range row {
			tc := tr.CreateElement("table:table-cell")
			tc.CreateAttr("office:value-type", "string")
			tc.CreateElement("text:p").SetText(cell)
		}
	}
	return writeODF("ods", doc)
}

// wordToODT copies paragraph text out of the OOXML document part, one text:p
// per source paragraph. Formatting is not carried over.
func wordToODT(payload []byte) ([]byte, error) {
	part, err := zipPart(payload, "word/document.xml")
	if err != nil {
		return nil, err
	}
	paragraphs, err := paragraphTexts(part)
	if err != nil {
		return nil, err
	}

	doc, body := newContentDoc("office:text")
	for _, paragraph := range paragraphs {
		body.CreateElement("text:p").SetText(paragraph)
	}
	return writeODF("odt", doc)
}

// presentationToODP emits one draw:page per slide with its text runs in plain
// text frames. Only text survives; shapes, layout and media are dropped.
func presentationToODP(payload []byte) ([]byte, error) {
	zr, err := zip.NewReader(bytes.NewReader(payload), int64(len(payload)))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorruptUpload, err)
	}

	var slides []*zip.File
	for _, f := range zr.File {
		if strings.HasPrefix(f.Name, "ppt/slides/slide") && strings.HasSuffix(f.Name, ".xml") {
			slides = append(slides, f)
		}
	}
	if len(slides) == 0 {
		return nil, fmt.Errorf("%w: presentation has no slides", ErrCorruptUpload)
	}
	sort.Slice(slides, func(i, j int) bool {
		return slideNumber(slides[i].Name) < slideNumber(slides[j].Name)
	})

	doc, body := newContentDoc("office:presentation")
	for i, slide := range slides {
		part, err := readZipFile(slide)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrCorruptUpload, err)
		}
		texts, err := paragraphTexts(part)
		if err != nil {
			return nil, err
		}

		page := body.CreateElement("draw:page")
		page.CreateAttr("draw:name", "page"+strconv.Itoa(i+1))
		for _, text := range texts {
			if text == "" {
				continue
			}
			frame := page.CreateElement("draw:frame")
			box := frame.CreateElement("draw:text-box")
			box.CreateElement("text:p").SetText(text)
		}
	}
	return writeODF("odp", doc)
}

// paragraphTexts parses an OOXML part and returns the concatenated text runs
// of each paragraph element, in document order. Both WordprocessingML (w:p,
// w:t) and DrawingML (a:p, a:t) use the same local names.
func paragraphTexts(part []byte) ([]string, error) {
	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(part); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorruptUpload, err)
	}

	var paragraphs []string
	for _, p := range elementsByTag(doc.Root(), "p") {
		var sb strings.Builder
		for _, t := range elementsByTag(p, "t") {
			sb.WriteString(t.Text())
		}
		paragraphs = append(paragraphs, sb.String())
	}
	return paragraphs, nil
}

// elementsByTag walks the tree collecting elements whose local name matches.
// Matched elements are not descended into, so nested matches are not
// double-counted.
func elementsByTag(root *etree.Element, tag string) []*etree.Element {
	if root == nil {
		return nil
	}
	var out []*etree.Element
	var walk func(el *etree.Element)
	walk = func(el *etree.Element) {
		if el.Tag == tag {
			out = append(out, el)
			return
		}
		for _, child := range el.ChildElements() {
			walk(child)
		}
	}
	walk(root)
	return out
}

func slideNumber(name string) int {
	digits := strings.TrimSuffix(strings.TrimPrefix(name, "ppt/slides/slide"), ".xml")
	n, err := strconv.Atoi(digits)
	if err != nil {
		return 0
	}
	return n
}

// zipPart extracts a single named part from an OOXML package.
func zipPart(payload []byte, name string) ([]byte, error) {
	zr, err := zip.NewReader(bytes.NewReader(payload), int64(len(payload)))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorruptUpload, err)
	}
	for _, f := range zr.File {
		if f.Name == name {
			return readZipFile(f)
		}
	}
	return nil, fmt.Errorf("%w: missing %s part", ErrCorruptUpload, name)
}

func readZipFile(f *zip.File) ([]byte, error) {
	rc, err := f.Open()
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	data, err := io.ReadAll(rc)
	if err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return nil, errors.New("empty zip entry " + f.Name)
	}
	return data, nil
}
