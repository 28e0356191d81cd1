package ingest

import (
	"bytes"

	"github.com/go-faster/errors"
	"github.com/xuri/excelize/v2"
)

// TokenizeWorkbook reads the first sheet of an .xlsx export. Trailing empty
// cells are trimmed by excelize, so rows may be shorter than the header.
func TokenizeWorkbook(b []byte) (Table, error) {
	f, err := excelize.OpenReader(bytes.NewReader(b))
	if err != nil {
		return Table{}, errors.Wrap(ErrMalformedInput, err.Error())
	}
	defer func() { _ = f.Close() }()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return Table{}, ErrEmptyInput
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return Table{}, errors.Wrap(ErrMalformedInput, err.Error())
	}
	if len(rows) == 0 {
		return Table{}, ErrEmptyInput
	}

	return Table{Header: rows[0], Rows: rows[1:]}, nil
}
