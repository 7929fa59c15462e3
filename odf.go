package main

import (
	"archive/zip"
	"bytes"
	"fmt"

	"github.com/beevik/etree"
)

// OpenDocument namespace URIs used in generated content.xml files.
const (
	nsOffice   = "urn:oasis:names:tc:opendocument:xmlns:office:1.0"
	nsText     = "urn:oasis:names:tc:opendocument:xmlns:text:1.0"
	nsTable    = "urn:oasis:names:tc:opendocument:xmlns:table:1.0"
	nsDraw     = "urn:oasis:names:tc:opendocument:xmlns:drawing:1.0"
	nsManifest = "urn:oasis:names:tc:opendocument:xmlns:manifest:1.0"
)

var odfMimetypes = map[string]string{
	"ods": "application/vnd.oasis.opendocument.spreadsheet",
	"odt": "application/vnd.oasis.opendocument.text",
	"odp": "application/vnd.oasis.opendocument.presentation",
}

// newContentDoc returns a content.xml skeleton plus the body element for the
// given document class (office:spreadsheet, office:text or
// office:presentation), ready to receive content.
func newContentDoc(bodyTag string) (*etree.Document, *etree.Element) {
	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)

	root := doc.CreateElement("office:document-content")
	root.CreateAttr("xmlns:office", nsOffice)
	root.CreateAttr("xmlns:text", nsText)
	root.CreateAttr("xmlns:table", nsTable)
	root.CreateAttr("xmlns:draw", nsDraw)
	root.CreateAttr("office:version", "1.2")

	body := root.CreateElement("office:body")
	return doc, body.CreateElement(bodyTag)
}

// writeODF assembles a minimal OpenDocument package: the stored mimetype
// entry first, then the manifest and content.xml.
func writeODF(target string, content *etree.Document) ([]byte, error) {
	mimetype, ok := odfMimetypes[target]
	if !ok {
		return nil, fmt.Errorf("no OpenDocument mimetype for %q", target)
	}

	contentXML, err := content.WriteToBytes()
	if err != nil {
		return nil, fmt.Errorf("serializing content.xml: %w", err)
	}
	manifestXML, err := buildManifest(mimetype)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)

	// mimetype must be the first entry and stored uncompressed
	mw, err := zw.CreateHeader(&zip.FileHeader{Name: "mimetype", Method: zip.Store})
	if err != nil {
		return nil, fmt.Errorf("creating mimetype entry: %w", err)
	}
	if _, err := mw.Write([]byte(mimetype)); err != nil {
		return nil, fmt.Errorf("writing mimetype entry: %w", err)
	}

	entries := []struct {
		name string
		data []byte
	}{
		{"META-INF/manifest.xml", manifestXML},
		{"content.xml", contentXML},
	}
	for _, entry := range entries {
		fw, err := zw.Create(entry.name)
		if err != nil {
			return nil, fmt.Errorf("creating %s: %w", entry.name, err)
		}
		if _, err := fw.Write(entry.data); err != nil {
			return nil, fmt.Errorf("writing %s: %w", entry.name, err)
		}
	}

	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("finalizing package: %w", err)
	}
	return buf.Bytes(), nil
}

func buildManifest(mimetype string) ([]byte, error) {
	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)

	root := doc.CreateElement("manifest:manifest")
	root.CreateAttr("xmlns:manifest", nsManifest)
	root.CreateAttr("manifest:version", "1.2")

	entries := []struct {
		path      string
		mediaType string
	}{
		{"/", mimetype},
		{"content.xml", "text/xml"},
	}
	for _, entry := range entries {
		fe := root.CreateElement("manifest:file-entry")
		fe.CreateAttr("manifest:full-path", entry.path)
		fe.CreateAttr("manifest:media-type", entry.mediaType)
	}

	data, err := doc.WriteToBytes()
	if err != nil {
		return nil, fmt.Errorf("serializing manifest: %w", err)
	}
	return data, nil
}
