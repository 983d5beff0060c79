package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOfferPath(t *testing.T) {
	tests := []struct {
		brief, file, want string
	}{
		{"briefs/priya.txt", "offer_letter_Priya_Sharma.docx", "out/priya_offer_letter_Priya_Sharma.docx"},
		{"briefs/ravi.brief.docx", "offer_letter_Ravi.docx", "out/ravi.brief_offer_letter_Ravi.docx"},
		{"briefs/x.pdf", "../../etc/offer_letter_x.docx", "out/x_offer_letter_x.docx"},
	}
	for _, tt := range tests {
		got := offerPath("out", tt.brief, tt.file)
		assert.Equal(t, filepath.FromSlash(tt.want), got, tt.brief)
		assert.Equal(t, "out", filepath.Dir(got))
	}
}

func TestListBriefs(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"b.txt", "a.docx", "photo.png", "c.pdf"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("x"), 0o644))
	}
	require.NoError(t, os.Mkdir(filepath.Join(dir, "nested.txt"), 0o755))

	got, err := listBriefs(dir, 0)
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(dir, "a.docx"),
		filepath.Join(dir, "b.txt"),
		filepath.Join(dir, "c.pdf"),
	}, got)

	got, err = listBriefs(dir, 2)
	require.NoError(t, err)
	assert.Len(t, got, 2)
}
