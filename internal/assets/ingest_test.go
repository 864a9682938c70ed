package assets

import (
	"encoding/base64"
	"os"
	"path/filepath"
	"testing"

	"bestmods/internal/models"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var pngHeader = []byte{0x89, 'P', 'N', 'G', 0x0D, 0x0A, 0x1A, 0x0A, 0x00, 0x00, 0x00, 0x0D}

func encodePayload(data []byte) string {
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(data)
}

func TestIngestWritesSniffedAsset(t *testing.T) {
	root := t.TempDir()
	ing := NewIngestor(root, zerolog.Nop())

	rel, err := ing.Ingest(encodePayload(pngHeader), "mod/brutal-doom", "")
	require.NoError(t, err)
	assert.Equal(t, "mod/brutal-doom.png", rel)

	written, err := os.ReadFile(filepath.Join(root, "mod", "brutal-doom.png"))
	require.NoError(t, err)
	assert.Equal(t, pngHeader, written)
}

func TestIngestOverwritesSameSlot(t *testing.T) {
	root := t.TempDir()
	ing := NewIngestor(root, zerolog.Nop())

	_, err := ing.Ingest(encodePayload(pngHeader), "mod/brutal-doom", "")
	require.NoError(t, err)

	updated := append(append([]byte{}, pngHeader...), 0xAB)
	rel, err := ing.Ingest(encodePayload(updated), "mod/brutal-doom", "")
	require.NoError(t, err)

	written, err := os.ReadFile(filepath.Join(root, rel))
	require.NoError(t, err)
	assert.Equal(t, updated, written)
}

func TestIngestNoComma(t *testing.T) {
	ing := NewIngestor(t.TempDir(), zerolog.Nop())

	_, err := ing.Ingest("nocommahere", "mod/x", "")
	require.Error(t, err)
	assert.True(t, models.IsCode(err, models.CodeMalformedPayload))
}

func TestIngestEmptyBody(t *testing.T) {
	ing := NewIngestor(t.TempDir(), zerolog.Nop())

	_, err := ing.Ingest("data:image/png;base64,", "mod/x", "")
	require.Error(t, err)
	assert.True(t, models.IsCode(err, models.CodeMalformedPayload))
}

func TestIngestInvalidBase64(t *testing.T) {
	ing := NewIngestor(t.TempDir(), zerolog.Nop())

	_, err := ing.Ingest("data:image/png;base64,!!!not-base64!!!", "mod/x", "")
	require.Error(t, err)
	assert.True(t, models.IsCode(err, models.CodeMalformedPayload))
}

func TestIngestUnknownTypeWritesNothing(t *testing.T) {
	root := t.TempDir()
	ing := NewIngestor(root, zerolog.Nop())

	_, err := ing.Ingest(encodePayload([]byte("plain text, no signature")), "mod/x", "")
	require.Error(t, err)
	assert.True(t, models.IsCode(err, models.CodeUnsupportedFileType))

	entries, err := os.ReadDir(root)
	require.NoError(t, err)
	assert.Empty(t, entries, "a rejected payload must not reach storage")
}
