package importer

import (
	"encoding/base64"
	"fmt"
	"strings"
)

// linkScheme prefixes every unique link so it doubles as a shareable
// application reference.
const linkScheme = "musicstream://track/"

// DeriveUniqueLink derives the stable identity token of a song from its
// repository coordinates. It depends only on the path, so a file edited in
// place keeps its identity across scans. The encoding is reversible; see
// ParseUniqueLink.
func DeriveUniqueLink(owner, repo, filePath string) string {
	raw := owner + "/" + repo + "/" + filePath
	return linkScheme + base64.RawURLEncoding.EncodeToString([]byte(raw))
}

// ParseUniqueLink decodes a unique link back to its owner/repo/filePath
// form. Used for share-link resolution.
func ParseUniqueLink(link string) (string, error) {
	encoded, ok := strings.CutPrefix(link, linkScheme)
	if !ok {
		return "", fmt.Errorf("not a track link: %q", link)
	}
	raw, err := base64.RawURLEncoding.DecodeString(encoded)
	if err != nil {
		return "", fmt.Errorf("malformed track link %q: %w", link, err)
	}
	return string(raw), nil
}
