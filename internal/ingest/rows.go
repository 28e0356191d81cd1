package ingest

import "github.com/danielolaszy/sprintlens/pkg/models"

// NormalizeRow pads or truncates fields to the header width and zips them
// into a ResolvedRow. Ragged rows never fail.
func NormalizeRow(headers, fields []string) models.ResolvedRow {
	row := make(models.ResolvedRow, len(headers))
	for i, h := range headers {
		if i < len(fields) {
			row[h] = fields[i]
		} else {
			row[h] = ""
		}
	}
	return row
}
