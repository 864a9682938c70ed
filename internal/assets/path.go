package assets

import "fmt"

// AssetPath derives the storage-relative path for an asset slot. slug is the
// owning entity's URL-safe identifier and role distinguishes multiple slots
// on the same entity (empty for the primary slot). The mapping is
// deterministic: re-uploading for the same slug and role overwrites the
// previous asset at the same path.
//
// Callers must have rejected KindUnknown before calling.
func AssetPath(slug, role string, kind FileKind) string {
	if role != "" {
		return fmt.Sprintf("%s_%s.%s", slug, role, kind.Ext())
	}
	return fmt.Sprintf("%s.%s", slug, kind.Ext())
}
