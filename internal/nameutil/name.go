// Package nameutil provides file and directory name sanitizing for oddsget.
package nameutil

import (
	"regexp"
	"strings"
)

// SafeFileName converts an arbitrary label into a name safe to use as a file
// or directory component: path separators and spaces become underscores and
// ASCII letters are lowercased.
// Example: "My Label/v2" -> "my_label_v2"
func SafeFileName(label string) string {
	s := strings.NewReplacer("/", "_", "\\", "_", " ", "_").Replace(label)
	return strings.ToLower(s)
}

// validDirPattern matches names that need no sanitizing at all.
var validDirPattern = regexp.MustCompile(`^[A-Za-z0-9_.-]+$`)

// IsSafeName reports whether a name consists only of alphanumerics,
// underscore, dot and hyphen.
func IsSafeName(name string) bool {
	return validDirPattern.MatchString(name)
}
