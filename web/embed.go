package web

import (
	_ "embed"
	"strings"
)

//go:embed index.html
var indexHTML string

const apiKeyPlaceholder = "%GOOGLE_MAPS_API_KEY%"

// IndexPage renders the single-page client with the browser maps key.
func IndexPage(googleMapsAPIKey string) []byte {
	return []byte(strings.ReplaceAll(indexHTML, apiKeyPlaceholder, googleMapsAPIKey))
}
