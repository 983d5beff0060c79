package document

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"image/png"
	"io"
	"strings"
)

const (
	documentPart     = "word/document.xml"
	documentRelsPart = "word/_rels/document.xml.rels"
	contentTypesPart = "[Content_Types].xml"

	imageRelType = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/image"

	// 2 inches in EMU
	signatureWidth = 2 * 914400
)

// signatureMarkers are the paragraphs a signature is placed after, in priority order.
var signatureMarkers = []string{"Candidate Signature", "Signature:"}

// Sign embeds a PNG signature into a rendered offer. The image and a
// "Date:" line go right after the first paragraph mentioning the
// candidate signature; without one they are appended under a
// "Candidate Signature:" heading at the end of the body.
func Sign(offer, signature []byte, date string) ([]byte, error) {
	cfg, err := png.DecodeConfig(bytes.NewReader(signature))
	if err != nil {
		return nil, fmt.Errorf("signature image: %w", err)
	}
	if cfg.Width == 0 || cfg.Height == 0 {
		return nil, errors.New("signature image: empty image")
	}

	zr, err := zip.NewReader(bytes.NewReader(offer), int64(len(offer)))
	if err != nil {
		return nil, fmt.Errorf("open offer: %w", err)
	}

	parts := make(map[string][]byte, len(zr.File)+1)
	var order []string
	for _, f := range zr.File {
		data, err := readPart(f)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", f.Name, err)
		}
		parts[f.Name] = data
		order = append(order, f.Name)
	}

	doc, ok := parts[documentPart]
	if !ok {
		return nil, fmt.Errorf("open offer: %s missing", documentPart)
	}

	rels, ok := parts[documentRelsPart]
	if !ok {
		rels = []byte(`<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` + "\n" +
			`<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships"></Relationships>`)
		order = append(order, documentRelsPart)
	}

	media := uniquePart(parts, "word/media/candidate_signature", ".png")
	relID := uniqueRelID(string(rels))

	rel := fmt.Sprintf(`<Relationship Id="%s" Type="%s" Target="%s"/>`, relID, imageRelType, strings.TrimPrefix(media, "word/"))
	relsOut, err := insertBefore(string(rels), "</Relationships>", rel)
	if err != nil {
		return nil, fmt.Errorf("document relationships: %w", err)
	}
	parts[documentRelsPart] = []byte(relsOut)

	if types, ok := parts[contentTypesPart]; ok && !strings.Contains(strings.ToLower(string(types)), `extension="png"`) {
		typesOut, err := insertBefore(string(types), "</Types>", `<Default Extension="png" ContentType="image/png"/>`)
		if err != nil {
			return nil, fmt.Errorf("content types: %w", err)
		}
		parts[contentTypesPart] = []byte(typesOut)
	}

	height := int64(signatureWidth) * int64(cfg.Height) / int64(cfg.Width)
	drawingID := strings.Count(string(doc), "<wp:docPr") + 1000
	parts[documentPart] = []byte(placeSignature(string(doc), drawingParagraph(relID, drawingID, signatureWidth, height), date))

	parts[media] = signature
	order = append(order, media)

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for _, name := range order {
		w, err := zw.CreateHeader(&zip.FileHeader{Name: name, Method: zip.Deflate})
		if err != nil {
			return nil, err
		}
		if _, err := w.Write(parts[name]); err != nil {
			return nil, err
		}
	}
	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("write signed offer: %w", err)
	}
	return buf.Bytes(), nil
}

func readPart(f *zip.File) ([]byte, error) {
	rc, err := f.Open()
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return io.ReadAll(rc)
}

func uniquePart(parts map[string][]byte, base, ext string) string {
	name := base + ext
	for i := 2; ; i++ {
		if _, taken := parts[name]; !taken {
			return name
		}
		name = fmt.Sprintf("%s%d%s", base, i, ext)
	}
}

func uniqueRelID(rels string) string {
	id := "rIdSignature"
	for i := 2; strings.Contains(rels, `Id="`+id+`"`); i++ {
		id = fmt.Sprintf("rIdSignature%d", i)
	}
	return id
}

func insertBefore(s, closing, fragment string) (string, error) {
	i := strings.LastIndex(s, closing)
	if i < 0 {
		return "", fmt.Errorf("%s not found", closing)
	}
	return s[:i] + fragment + s[i:], nil
}

// placeSignature inserts the signature block into document.xml.
func placeSignature(doc, drawing, date string) string {
	dateLine := textParagraph("Date: " + date)

	for _, marker := range signatureMarkers {
		i := strings.Index(doc, marker)
		if i < 0 {
			continue
		}
		if end := strings.Index(doc[i:], "</w:p>"); end >= 0 {
			at := i + end + len("</w:p>")
			return doc[:at] + drawing + dateLine + doc[at:]
		}
	}

	block := textParagraph("Candidate Signature:") + drawing + dateLine

	bodyEnd := strings.LastIndex(doc, "</w:body>")
	if bodyEnd < 0 {
		return doc
	}
	// the body-level sectPr must stay the last child of the body
	at := bodyEnd
	if sect := strings.LastIndex(doc[:bodyEnd], "<w:sectPr"); sect > strings.LastIndex(doc[:bodyEnd], "</w:p>") {
		at = sect
	}
	return doc[:at] + block + doc[at:]
}

func textParagraph(text string) string {
	var b strings.Builder
	b.WriteString(`<w:p><w:r><w:t xml:space="preserve">`)
	_ = xml.EscapeText(&b, []byte(text))
	b.WriteString(`</w:t></w:r></w:p>`)
	return b.String()
}

func drawingParagraph(relID string, id int, cx, cy int64) string {
	return fmt.Sprintf(`<w:p><w:r><w:drawing>`+
		`<wp:inline xmlns:wp="http://schemas.openxmlformats.org/drawingml/2006/wordprocessingDrawing" distT="0" distB="0" distL="0" distR="0">`+
		`<wp:extent cx="%[3]d" cy="%[4]d"/>`+
		`<wp:docPr id="%[2]d" name="Candidate Signature"/>`+
		`<a:graphic xmlns:a="http://schemas.openxmlformats.org/drawingml/2006/main">`+
		`<a:graphicData uri="http://schemas.openxmlformats.org/drawingml/2006/picture">`+
		`<pic:pic xmlns:pic="http://schemas.openxmlformats.org/drawingml/2006/picture">`+
		`<pic:nvPicPr><pic:cNvPr id="0" name="candidate_signature.png"/><pic:cNvPicPr/></pic:nvPicPr>`+
		`<pic:blipFill><a:blip xmlns:r="http://schemas.openxmlformats.org/officeDocument/2006/relationships" r:embed="%[1]s"/><a:stretch><a:fillRect/></a:stretch></pic:blipFill>`+
		`<pic:spPr><a:xfrm><a:off x="0" y="0"/><a:ext cx="%[3]d" cy="%[4]d"/></a:xfrm><a:prstGeom prst="rect"><a:avLst/></a:prstGeom></pic:spPr>`+
		`</pic:pic></a:graphicData></a:graphic></wp:inline>`+
		`</w:drawing></w:r></w:p>`, relID, id, cx, cy)
}
