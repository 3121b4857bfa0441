package scorer

import (
	"encoding/json"
	"sort"
)

// organizationTypes are the schema.org @type values whose logo field
// names the brand mark itself rather than article or product imagery.
var organizationTypes = map[string]bool{
	"Organization": true,
	"Brand":        true,
	"Corporation":  true,
}

// structuredDataLogos extracts logo URLs from one JSON-LD script body.
// A block that fails to parse contributes nothing; one bad block never
// aborts scanning of the rest of the page.
func structuredDataLogos(body string) []string {
	var data any
	if err := json.Unmarshal([]byte(body), &data); err != nil {
		return nil
	}
	return findLogos(data)
}

// findLogos walks arbitrarily nested JSON looking for organization
// records with a logo field. The decoded document is a tagged variant of
// object, list, and scalar; the descent accumulates matches from every
// level because publishers wrap Organization records in @graph arrays,
// WebPage envelopes, and other containers.
//
// Object keys are visited in sorted order: Go map iteration is
// randomized, and discovery order feeds the deterministic tie-break of
// the final ranking.
func findLogos(v any) []string {
	var found []string

	switch node := v.(type) {
	case map[string]any:
		if typ, ok := node["@type"].(string); ok && organizationTypes[typ] {
			if logoURL, ok := logoValue(node["logo"]); ok {
				found = append(found, logoURL)
			}
		}

		keys := make([]string, 0, len(node))
		for k := range node {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			found = append(found, findLogos(node[k])...)
		}

	case []any:
		for _, item := range node {
			found = append(found, findLogos(item)...)
		}
	}

	return found
}

// logoValue normalizes the variant shapes of a logo field to an optional
// string: either a plain URL string or an ImageObject with a url field.
func logoValue(v any) (string, bool) {
	switch logo := v.(type) {
	case string:
		return logo, true
	case map[string]any:
		if u, ok := logo["url"].(string); ok {
			return u, true
		}
	}
	return "", false
}
