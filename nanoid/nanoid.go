package nanoid

import (
	"strings"

	"github.com/ncobase/cargohold/consts"

	gonanoid "github.com/matoous/go-nanoid/v2"
)

const (
	defaultSize = 16
)

func getSize(l ...int) int {
	size := defaultSize
	if len(l) > 0 && l[0] > 0 {
		size = l[0]
	}
	return size
}

// Must generate optional length nanoid with the library's URL-safe alphabet
func Must(l ...int) string {
	size := getSize(l...)
	return gonanoid.Must(size)
}

// Alphanumeric generate optional length [0-9a-zA-Z] string
func Alphanumeric(l ...int) string {
	size := getSize(l...)
	return gonanoid.MustGenerate(consts.Alphanumeric, size)
}

// Lower generate optional length nanoid, use const by default
func Lower(l ...int) string {
	size := getSize(l...)
	return gonanoid.MustGenerate(consts.Lowercase, size)
}

// Number generate optional length nanoid, use const by default
func Number(l ...int) string {
	size := getSize(l...)
	return gonanoid.MustGenerate(consts.Number, size)
}

// IsAlphanumeric reports whether s is non-empty and made only of [0-9a-zA-Z].
func IsAlphanumeric(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !strings.ContainsRune(consts.Alphanumeric, r) {
			return false
		}
	}
	return true
}
