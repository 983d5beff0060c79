package signature

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"image/png"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

const signatureFile = "signature.png"

var (
	// ErrInvalidSignature means the submitted image is not a base64 PNG.
	ErrInvalidSignature = errors.New("signature must be a base64 encoded PNG image")
	// ErrNotFound means no signed offer exists for an id.
	ErrNotFound = errors.New("signed offer not found")
)

// Store keeps signature images and signed offers under one directory per
// submission: <root>/<uuid>/.
type Store struct {
	root string
}

// Receipt identifies a stored submission.
type Receipt struct {
	ID            string
	SignaturePath string
	OfferPath     string
}

func NewStore(root string) *Store {
	return &Store{root: root}
}

// DecodePNG accepts a data URL or bare base64 and returns the PNG bytes.
func DecodePNG(data string) ([]byte, error) {
	data = strings.TrimSpace(data)
	if i := strings.Index(data, ","); i >= 0 && strings.HasPrefix(data, "data:") {
		data = data[i+1:]
	}
	if data == "" {
		return nil, ErrInvalidSignature
	}

	raw, err := base64.StdEncoding.DecodeString(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSignature, err)
	}
	if _, err := png.DecodeConfig(bytes.NewReader(raw)); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSignature, err)
	}
	return raw, nil
}

// Save writes the signature image and the signed offer under a new id.
func (s *Store) Save(signature []byte, offerName string, offer []byte) (*Receipt, error) {
	id := uuid.NewString()
	dir := filepath.Join(s.root, id)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create signature dir: %w", err)
	}

	sigPath := filepath.Join(dir, signatureFile)
	if err := os.WriteFile(sigPath, signature, 0o644); err != nil {
		return nil, fmt.Errorf("write signature: %w", err)
	}

	offerPath := filepath.Join(dir, filepath.Base(offerName))
	if err := os.WriteFile(offerPath, offer, 0o644); err != nil {
		return nil, fmt.Errorf("write signed offer: %w", err)
	}

	log.Info().Str("id", id).Str("offer", offerPath).Msg("signature stored")

	return &Receipt{ID: id, SignaturePath: sigPath, OfferPath: offerPath}, nil
}

// Offer returns the path of the signed offer stored under id.
func (s *Store) Offer(id string) (string, error) {
	parsed, err := uuid.Parse(id)
	if err != nil {
		return "", ErrNotFound
	}

	dir := filepath.Join(s.root, parsed.String())
	entries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", ErrNotFound
		}
		return "", fmt.Errorf("read signature dir: %w", err)
	}

	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(strings.ToLower(e.Name()), ".docx") {
			return filepath.Join(dir, e.Name()), nil
		}
	}
	return "", ErrNotFound
}
