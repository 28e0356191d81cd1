package ingest

import (
	"bytes"
	"encoding/csv"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/go-faster/errors"
)

const (
	xlsxMIME = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	zipMIME  = "application/zip"
)

// Table is a tokenized export: the raw header row and the data rows.
type Table struct {
	Header []string
	Rows   [][]string
}

// SniffDelimiter picks the field delimiter of a CSV export.
func SniffDelimiter(content string) rune {
	if strings.Contains(content, "\t") && !strings.Contains(content, ",") {
		return '\t'
	}
	if strings.Count(content, ";") > strings.Count(content, ",") {
		return ';'
	}
	return ','
}

// Tokenize splits CSV text into a header row and data rows. Rows may have
// any number of fields; stray quotes inside unquoted fields are kept.
func Tokenize(content string) (Table, error) {
	r := csv.NewReader(strings.NewReader(content))
	r.Comma = SniffDelimiter(content)
	r.FieldsPerRecord = -1
	r.LazyQuotes = true

	records, err := r.ReadAll()
	if err != nil {
		return Table{}, errors.Wrap(ErrMalformedInput, err.Error())
	}
	if len(records) == 0 {
		return Table{}, ErrEmptyInput
	}

	return Table{Header: records[0], Rows: records[1:]}, nil
}

// TokenizeUpload tokenizes an uploaded file. Excel workbooks are read from
// their first sheet; anything else is decoded and parsed as CSV.
func TokenizeUpload(b []byte) (Table, error) {
	if len(bytes.TrimSpace(b)) == 0 {
		return Table{}, ErrEmptyInput
	}

	mt := mimetype.Detect(b)
	if mt.Is(xlsxMIME) || mt.Is(zipMIME) {
		return TokenizeWorkbook(b)
	}
	return Tokenize(Decode(b))
}
