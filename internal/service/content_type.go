package service

import (
	"mime"
	"strings"
)

var allowedContentTypes = map[string]struct{}{
	"image/apng": {},
	"image/avif": {},
	"image/gif":  {},
	"image/jpeg": {},
	"image/png":  {},
	"image/svg":  {},
	"image/webp": {},
}

// aliases seen from browsers and from content sniffing
var contentTypeAliases = map[string]string{
	"image/svg+xml":          "image/svg",
	"image/jpg":              "image/jpeg",
	"image/pjpeg":            "image/jpeg",
	"image/vnd.mozilla.apng": "image/apng",
}

// normalizeContentType strips parameters and lowercases the media type.
func normalizeContentType(value string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return ""
	}

	mediaType, _, err := mime.ParseMediaType(value)
	if err != nil {
		mediaType = strings.ToLower(strings.TrimSpace(strings.SplitN(value, ";", 2)[0]))
	}

	if alias, ok := contentTypeAliases[mediaType]; ok {
		return alias
	}
	return mediaType
}

func contentTypeAllowed(contentType string) bool {
	_, ok := allowedContentTypes[contentType]
	return ok
}

// needsSniffing reports whether the declared type says nothing useful.
func needsSniffing(contentType string) bool {
	return contentType == "" || contentType == "application/octet-stream"
}
