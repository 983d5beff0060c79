package intake

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"code.sajari.com/docconv"
)

// MaxUploadSize bounds uploaded candidate briefs.
const MaxUploadSize = 10 << 20

// ErrUnsupportedType is returned for files docconv cannot read.
var ErrUnsupportedType = errors.New("unsupported file type")

type Parser struct{}

// ParsedBrief is the text pulled out of an uploaded candidate brief.
type ParsedBrief struct {
	Filename string
	FileType string
	FileSize int64
	FullText string
}

func NewParser() *Parser {
	return &Parser{}
}

// Supported reports whether filename has an extension the parser can read.
func Supported(filename string) bool {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".pdf", ".docx", ".doc", ".rtf", ".odt", ".txt":
		return true
	}
	return false
}

// ParseFile extracts text from PDF/DOCX/DOC/RTF/ODT/TXT content.
func (p *Parser) ParseFile(filename string, reader io.Reader) (*ParsedBrief, error) {
	fileType := strings.ToLower(filepath.Ext(filename))
	if !Supported(filename) {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedType, fileType)
	}

	counter := &countingReader{r: io.LimitReader(reader, MaxUploadSize+1)}

	var text string
	switch fileType {
	case ".txt":
		content, err := io.ReadAll(counter)
		if err != nil {
			return nil, fmt.Errorf("failed to read text file: %w", err)
		}
		text = string(content)
	default:
		res, err := docconv.Convert(counter, docconv.MimeTypeByExtension(filename), false)
		if err != nil {
			return nil, fmt.Errorf("failed to parse document: %w", err)
		}
		text = res.Body
	}

	if counter.n > MaxUploadSize {
		return nil, fmt.Errorf("file too large (max %d bytes)", MaxUploadSize)
	}

	return &ParsedBrief{
		Filename: filepath.Base(filename),
		FileType: fileType,
		FileSize: counter.n,
		FullText: strings.TrimSpace(text),
	}, nil
}

type countingReader struct {
	r io.Reader
	n int64
}

func (c *countingReader) Read(p []byte) (int, error) {
	n, err := c.r.Read(p)
	c.n += int64(n)
	return n, err
}
