package assets

import (
	"encoding/base64"
	"os"
	"path/filepath"
	"strings"

	"bestmods/internal/models"

	"github.com/rs/zerolog"
)

// DefaultStorageDir is used when no storage root is configured.
const DefaultStorageDir = "/tmp/bestmods/uploads"

// Ingestor persists user-supplied encoded payloads under a storage root.
type Ingestor struct {
	root   string
	logger zerolog.Logger
}

func NewIngestor(root string, logger zerolog.Logger) *Ingestor {
	if root == "" {
		root = DefaultStorageDir
	}
	return &Ingestor{
		root:   root,
		logger: logger.With().Str("component", "assets").Logger(),
	}
}

// Root returns the configured storage root directory.
func (i *Ingestor) Root() string { return i.root }

// Ingest decodes a data-URI-style payload ("{metadata},{base64 body}"),
// sniffs its type and writes the bytes under the storage root, returning the
// storage-relative path to record. The write is the last step: a failed
// ingestion leaves no state for the caller to observe.
func (i *Ingestor) Ingest(encoded, slug, role string) (string, error) {
	_, body, found := strings.Cut(encoded, ",")
	if !found || body == "" {
		return "", models.NewMalformedPayloadError("Payload is missing an encoded body", nil)
	}

	data, err := base64.StdEncoding.DecodeString(body)
	if err != nil {
		return "", models.NewMalformedPayloadError("Payload body is not valid base64", err)
	}

	kind := Sniff(data)
	if kind == KindUnknown {
		return "", models.NewUnsupportedFileTypeError("Unknown file type for uploaded asset")
	}

	rel := AssetPath(slug, role, kind)
	abs := filepath.Join(i.root, filepath.FromSlash(rel))
	if err := writeBytesToFile(abs, data); err != nil {
		i.logger.Error().Err(err).Str("path", rel).Msg("asset write failed")
		return "", models.NewStorageWriteError(err)
	}

	i.logger.Debug().
		Str("path", rel).
		Str("kind", kind.String()).
		Int("bytes", len(data)).
		Msg("asset written")
	return rel, nil
}

func writeBytesToFile(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o600)
}
