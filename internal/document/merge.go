package document

import (
	"bytes"
	"fmt"
	"os"
	"regexp"
	"sort"
	"strings"

	"github.com/nguyenthenguyen/docx"
)

// MimeType is the content type of rendered offers.
const MimeType = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"

// Render substitutes v into the docx at templatePath and returns the new
// package. Placeholders are replaced in the body, headers and footers.
func Render(templatePath string, v Values) ([]byte, error) {
	data, err := os.ReadFile(templatePath)
	if err != nil {
		return nil, fmt.Errorf("read template: %w", err)
	}
	return RenderBytes(data, v)
}

// RenderBytes is Render for a template already in memory.
func RenderBytes(template []byte, v Values) ([]byte, error) {
	r, err := docx.ReadDocxFromMemory(bytes.NewReader(template), int64(len(template)))
	if err != nil {
		return nil, fmt.Errorf("open template: %w", err)
	}
	defer r.Close()

	doc := r.Editable()

	placeholders := v.Placeholders()
	keys := make([]string, 0, len(placeholders))
	for k := range placeholders {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		val := placeholders[k]
		if err := doc.Replace(k, val, -1); err != nil {
			return nil, fmt.Errorf("replace %s: %w", k, err)
		}
		if err := doc.ReplaceHeader(k, val); err != nil {
			return nil, fmt.Errorf("replace header %s: %w", k, err)
		}
		if err := doc.ReplaceFooter(k, val); err != nil {
			return nil, fmt.Errorf("replace footer %s: %w", k, err)
		}
	}

	var buf bytes.Buffer
	if err := doc.Write(&buf); err != nil {
		return nil, fmt.Errorf("write document: %w", err)
	}
	return buf.Bytes(), nil
}

var (
	whitespace = regexp.MustCompile(`\s+`)
	separators = strings.NewReplacer("/", "_", "\\", "_")
)

// FileName is the download name for a candidate's offer letter. It never
// contains a path separator.
func FileName(candidate string, signed bool) string {
	name := separators.Replace(whitespace.ReplaceAllString(candidate, "_"))
	if signed {
		return "offer_letter_" + name + "_signed.docx"
	}
	return "offer_letter_" + name + ".docx"
}
