// Package util is a set of utility variables or methods
package util

import (
	"path"
	"strings"

	mapset "github.com/deckarep/golang-set/v2"
)

// SupportedExt holds the lower-cased image extensions the slider will show.
var SupportedExt = mapset.NewSet(
	".jpeg", ".jpg",
	".png",
	".webp",
)

// IsSupportedImage reports whether a file name or object key has a supported
// image extension, ignoring case.
func IsSupportedImage(name string) bool {
	return SupportedExt.Contains(strings.ToLower(path.Ext(name)))
}
