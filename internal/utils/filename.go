package utils

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

const maxSegmentLength = 200

var (
	// Characters rejected by common filesystems or by Obsidian links.
	forbiddenChars = regexp.MustCompile(`[<>:"/\\|?*#^]`)
	whitespaceRun  = regexp.MustCompile(`\s+`)
)

// SanitizeFilename turns one path segment into a name that is safe on common
// filesystems and inside Obsidian wikilinks.
func SanitizeFilename(name string) string {
	name = forbiddenChars.ReplaceAllString(name, "")
	name = whitespaceRun.ReplaceAllString(name, " ")
	name = strings.NewReplacer("[", "(", "]", ")").Replace(name)
	name = strings.TrimSpace(name)
	name = strings.TrimRight(name, ".")

	if len(name) > maxSegmentLength {
		name = name[:maxSegmentLength]
		for !utf8.ValidString(name) {
			name = name[:len(name)-1]
		}
		name = strings.TrimSpace(name)
	}

	if name == "" {
		return "Untitled"
	}
	return name
}
