package templates

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/rs/zerolog/log"
)

const docxExt = ".docx"

// NotFoundError means neither the branded directory nor the global default
// produced a usable template file.
type NotFoundError struct {
	ID       ID
	Searched []string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("offer template not found for %s (searched %s)", e.ID, strings.Join(e.Searched, ", "))
}

// File is a candidate document template on disk.
type File struct {
	Path string
	Size int64
}

// Selection is the outcome of a template lookup.
type Selection struct {
	ID       ID
	Path     string
	Size     int64
	Fallback bool
}

// Selector finds the document template for an id under a templates root.
// The directory is scanned on every call; nothing is cached.
type Selector struct {
	root        string
	defaultFile string
}

// NewSelector returns a Selector rooted at root. defaultFile is relative to root.
func NewSelector(root, defaultFile string) *Selector {
	return &Selector{
		root:        root,
		defaultFile: defaultFile,
	}
}

// DefaultPath is the global fallback template.
func (s *Selector) DefaultPath() string {
	return filepath.Join(s.root, s.defaultFile)
}

// Select picks the largest .docx in root/<id>/, falling back to the default file.
func (s *Selector) Select(id ID) (*Selection, error) {
	dir := filepath.Join(s.root, string(id))

	files := s.candidates(dir)
	if len(files) > 0 {
		best := files[0]
		log.Debug().
			Str("template", string(id)).
			Int("candidates", len(files)).
			Str("file", best.Path).
			Int64("size", best.Size).
			Msg("selected largest branded template")
		return &Selection{ID: id, Path: best.Path, Size: best.Size}, nil
	}

	fallback := s.DefaultPath()
	info, err := os.Stat(fallback)
	if err != nil || !info.Mode().IsRegular() {
		return nil, &NotFoundError{ID: id, Searched: []string{dir, fallback}}
	}

	log.Debug().
		Str("template", string(id)).
		Str("file", fallback).
		Msg("no branded template, using default")

	return &Selection{ID: id, Path: fallback, Size: info.Size(), Fallback: true}, nil
}

// candidates lists the .docx files of dir, largest first. A directory that is
// missing or unreadable yields no candidates. Symlinks are followed.
func (s *Selector) candidates(dir string) []File {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			log.Warn().Err(err).Str("dir", dir).Msg("template dir unreadable, using default")
		}
		return nil
	}

	var files []File
	for _, e := range entries {
		if !strings.HasSuffix(strings.ToLower(e.Name()), docxExt) {
			continue
		}
		path := filepath.Join(dir, e.Name())
		info, err := os.Stat(path)
		if err != nil || !info.Mode().IsRegular() {
			continue
		}
		files = append(files, File{Path: path, Size: info.Size()})
	}

	// ReadDir returns names sorted, so the stable sort keeps ties in name order.
	sort.SliceStable(files, func(i, j int) bool {
		return files[i].Size > files[j].Size
	})

	return files
}
