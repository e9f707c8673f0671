package media

import "strings"

// illegalChars are stripped from filenames before upload; they are invalid
// on at least one filesystem the storage backend may sit on.
const illegalChars = `\/:*?"<>|`

// SanitizeFilename makes a filename safe for the storage backend:
// spaces become underscores, illegal characters are stripped, everything
// else (dots included, so the extension and a leading ".gitignore"-style dot
// survive) is preserved.
//
//	"My File (1).docx" -> "My_File_(1).docx"
//	".gitignore"       -> ".gitignore"
func SanitizeFilename(name string) string {
	var b strings.Builder
	b.Grow(len(name))
	for _, r := range name {
		switch {
		case r == ' ':
			b.WriteRune('_')
		case strings.ContainsRune(illegalChars, r):
			// dropped
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}
