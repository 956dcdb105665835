// Package imageio handles image references on behalf of the formatting
// core: data-URL parsing and the load/encode collaborators that fetch and
// base64-encode image bytes. The formatting core only ever inspects the
// textual form of a reference; it never decodes pixel data.
package imageio

import (
	"fmt"
	"strings"
)

// DataURLPrefix marks an inline base64 image reference.
const DataURLPrefix = "data:"

// allowedMediaTypes is the fixed set accepted for inline images.
var allowedMediaTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/gif":  true,
	"image/webp": true,
}

// AllowedMediaTypes returns the accepted inline image media types.
func AllowedMediaTypes() []string {
	return []string{"image/jpeg", "image/png", "image/gif", "image/webp"}
}

// InvalidDataURLError indicates a value with the data: prefix that does not
// follow the data:<media-type>;base64,<data> layout.
type InvalidDataURLError struct {
	Value string
}

func (e *InvalidDataURLError) Error() string {
	return fmt.Sprintf("invalid base64 data URL: %q", e.Value)
}

// UnsupportedMediaTypeError indicates a data URL with a media type outside
// the allow-list.
type UnsupportedMediaTypeError struct {
	MediaType string
}

func (e *UnsupportedMediaTypeError) Error() string {
	return fmt.Sprintf("unsupported media type: %s", e.MediaType)
}

// DataURL is a parsed inline image reference.
type DataURL struct {
	MediaType string
	Data      string // base64 payload, no prefix
}

// String reassembles the canonical data-URL form.
func (d DataURL) String() string {
	return DataURLPrefix + d.MediaType + ";base64," + d.Data
}

// IsDataURL reports whether a value carries the data: prefix.
func IsDataURL(value string) bool {
	return strings.HasPrefix(value, DataURLPrefix)
}

// ParseDataURL parses data:<media-type>;base64,<data> and enforces the
// media-type allow-list. Values without the data: prefix are rejected;
// callers should check IsDataURL first.
func ParseDataURL(value string) (DataURL, error) {
	if !IsDataURL(value) {
		return DataURL{}, &InvalidDataURLError{Value: value}
	}

	header, data, found := strings.Cut(value, ",")
	if !found {
		return DataURL{}, &InvalidDataURLError{Value: value}
	}

	colon := strings.Index(header, ":")
	semi := strings.Index(header, ";")
	if colon < 0 || semi < 0 || semi < colon {
		return DataURL{}, &InvalidDataURLError{Value: value}
	}

	mediaType := header[colon+1 : semi]
	if !allowedMediaTypes[mediaType] {
		return DataURL{}, &UnsupportedMediaTypeError{MediaType: mediaType}
	}

	return DataURL{MediaType: mediaType, Data: data}, nil
}
