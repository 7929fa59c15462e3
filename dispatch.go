package main

import (
	"path/filepath"
	"strings"
)

// Strategy selects how a dispatched file gets converted.
type Strategy int

const (
	// StrategyNative converts in-process with document libraries.
	StrategyNative Strategy = iota
	// StrategyLibreOffice shells out to soffice on a worker.
	StrategyLibreOffice
)

func (s Strategy) String() string {
	switch s {
	case StrategyNative:
		return "native"
	case StrategyLibreOffice:
		return "libreoffice"
	default:
		return "unknown"
	}
}

// Route pairs a conversion strategy with the OpenDocument target extension.
type Route struct {
	Strategy Strategy
	Target   string // ods, odt or odp
}

// routes is the fixed, hand-maintained dispatch table. Modern OOXML formats
// take the faster in-process path; legacy binary and template formats need
// LibreOffice's import filters. Access databases are exported as spreadsheets,
// Publisher files as text documents.
var routes = map[string]Route{
	// spreadsheets
	"xlsx": {StrategyNative, "ods"},
	"xlsm": {StrategyNative, "ods"},
	"xls":  {StrategyLibreOffice, "ods"},
	"xlsb": {StrategyLibreOffice, "ods"},
	"xltx": {StrategyLibreOffice, "ods"},
	"xltm": {StrategyLibreOffice, "ods"},

	// word processing
	"docx": {StrategyNative, "odt"},
	"doc":  {StrategyLibreOffice, "odt"},
	"dotx": {StrategyLibreOffice, "odt"},
	"dotm": {StrategyLibreOffice, "odt"},

	// presentations
	"pptx": {StrategyNative, "odp"},
	"ppsx": {StrategyNative, "odp"},
	"ppt":  {StrategyLibreOffice, "odp"},
	"pps":  {StrategyLibreOffice, "odp"},
	"potx": {StrategyLibreOffice, "odp"},
	"potm": {StrategyLibreOffice, "odp"},

	// desktop publishing and databases
	"pub":   {StrategyLibreOffice, "odt"},
	"mdb":   {StrategyLibreOffice, "ods"},
	"accdb": {StrategyLibreOffice, "ods"},
}

// Dispatch maps an uploaded filename to a conversion route. Unknown or
// missing extensions are client errors; no files are touched before this
// check passes.
func Dispatch(filename string) (Route, error) {
	_, ext := splitName(filename)
	if ext == "" {
		return Route{}, ErrMissingExtension
	}
	route, ok := routes[ext]
	if !ok {
		return Route{}, ErrUnsupportedFormat
	}
	return route, nil
}

// splitName separates an upload name into base name and lowercase extension.
func splitName(filename string) (base, ext string) {
	ext = strings.ToLower(strings.TrimPrefix(filepath.Ext(filename), "."))
	base = strings.TrimSuffix(filepath.Base(filename), filepath.Ext(filename))
	return base, ext
}
