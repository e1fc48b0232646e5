package storage

import (
	"net/url"
	"regexp"
	"strings"

	"github.com/foodkart/catalog-service/internal/apperr"
)

// publicIDPattern matches the path tail of a storage URL: an /upload/
// marker, an optional version segment, then key and extension.
var publicIDPattern = regexp.MustCompile(`(?i)/upload/(?:v\d+/)?([^.]+)\.[a-z]+$`)

var extPattern = regexp.MustCompile(`(?i)^\.[a-z]+$`)

// ExtractPublicID recovers the remote object key from a previously returned
// secure URL. An accidental doubled extension (".jpg.jpg") is collapsed
// before parsing.
func ExtractPublicID(imageURL string) (string, error) {
	cleaned := collapseDoubledExt(imageURL)

	m := publicIDPattern.FindStringSubmatch(cleaned)
	if m == nil {
		return "", apperr.MalformedURL("could not extract public id from image URL")
	}

	decoded, err := url.PathUnescape(m[1])
	if err != nil {
		return "", apperr.MalformedURL("could not decode public id from image URL")
	}

	return decoded, nil
}

func collapseDoubledExt(u string) string {
	ext := lastExt(u)
	if ext == "" {
		return u
	}
	rest := strings.TrimSuffix(u, ext)
	if strings.EqualFold(lastExt(rest), ext) {
		return rest
	}
	return u
}

func lastExt(s string) string {
	i := strings.LastIndex(s, ".")
	if i < 0 {
		return ""
	}
	ext := s[i:]
	if !extPattern.MatchString(ext) {
		return ""
	}
	return ext
}
