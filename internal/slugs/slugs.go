// Package slugs builds URL-safe identifiers for catalog rows.
package slugs

import (
	"fmt"

	"github.com/gosimple/slug"
)

// Make lower-cases s and joins its words with hyphens.
func Make(s string) string {
	return slug.Make(s)
}

// Unique returns base, or base with the first free numeric suffix ("-2", "-3", ...)
// when taken reports base as already used.
func Unique(base string, taken func(candidate string) (bool, error)) (string, error) {
	candidate := base
	for i := 2; ; i++ {
		used, err := taken(candidate)
		if err != nil {
			return "", err
		}
		if !used {
			return candidate, nil
		}
		candidate = fmt.Sprintf("%s-%d", base, i)
	}
}
