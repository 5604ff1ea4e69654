package importer

import (
	"outreach/internal/fields"
	"outreach/internal/models"
)

// AutoMap assigns a source header to every field it can recognize. For each
// field an exact pass over all synonyms runs first; the substring pass runs
// only when the exact pass found nothing. Fields without a match stay
// unmapped.
func AutoMap(headers []string) models.ColumnMap {
	normalized := make([]string, len(headers))
	for i, h := range headers {
		normalized[i] = fields.Normalize(h)
	}

	m := make(models.ColumnMap)
	for _, f := range fields.All {
		if h, ok := matchHeader(headers, normalized, fields.Synonyms[f]); ok {
			m[f] = h
		}
	}
	return m
}

func matchHeader(headers, normalized, synonyms []string) (string, bool) {
	for _, syn := range synonyms {
		ns := fields.Normalize(syn)
		for i, nh := range normalized {
			if nh != "" && nh == ns {
				return headers[i], true
			}
		}
	}
	for _, syn := range synonyms {
		ns := fields.Normalize(syn)
		for i, nh := range normalized {
			if fields.Matches(nh, ns) {
				return headers[i], true
			}
		}
	}
	return "", false
}
