package compdb

import (
	"path/filepath"
	"strings"
)

// SanitizeArgs removes -c and -o <arg>, and rewrites relative -I<path>
// arguments to be absolute against directory, producing argv suitable to
// hand to the Clang front-end (spec.md §4.B).
func SanitizeArgs(argv []string, directory string) []string {
	out := make([]string, 0, len(argv))
	for i := 0; i < len(argv); i++ {
		arg := argv[i]

		switch {
		case arg == "-c":
			continue
		case arg == "-o":
			i++ // also consume the following token, if any
			continue
		case strings.HasPrefix(arg, "-I") && len(arg) > len("-I"):
			rel := arg[len("-I"):]
			if !filepath.IsAbs(rel) {
				out = append(out, "-I"+filepath.Join(directory, rel))
				continue
			}
			out = append(out, arg)
		default:
			out = append(out, arg)
		}
	}
	return out
}
