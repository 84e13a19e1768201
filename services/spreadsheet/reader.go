package spreadsheet

import (
	"encoding/csv"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"github.com/xuri/excelize/v2"

	"github.com/sagedu/sage/core"
)

var ErrUnsupportedFile = core.NewValidationError(errors.New("only .csv and .xlsx files can be imported"))

// ReadNames returns the non blank cells of the first column of a .csv file or of
// the first sheet of a .xlsx file. The first row is a header and is skipped.
func ReadNames(path string) ([]string, error) {
	var (
		rows [][]string
		err  error
	)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		rows, err = readCSV(path)
	case ".xlsx":
		rows, err = readXLSX(path)
	default:
		return nil, ErrUnsupportedFile
	}
	if err != nil {
		return nil, err
	}

	names := make([]string, 0, len(rows))
	for i, row := range rows {
		if i == 0 { // header
			continue
		}
		if len(row) == 0 {
			continue
		}
		if name := core.CleanString(row[0]); name != "" {
			names = append(names, name)
		}
	}
	return names, nil
}

func readCSV(path string) ([][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "opening csv file")
	}
	defer func() { _ = f.Close() }()

	r := csv.NewReader(skipBOM(f))
	r.FieldsPerRecord = -1
	r.TrimLeadingSpace = true
	rows, err := r.ReadAll()
	if err != nil {
		return nil, core.NewValidationError(errors.Wrap(err, "reading csv file"))
	}
	return rows, nil
}

func readXLSX(path string) ([][]string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, core.NewValidationError(errors.Wrap(err, "opening excel file"))
	}
	defer func() { _ = f.Close() }()

	sheetName := f.GetSheetName(0)
	if sheetName == "" {
		return nil, core.NewValidationError(errors.New("excel file does not contain any sheets"))
	}
	rows, err := f.GetRows(sheetName)
	if err != nil {
		return nil, errors.Wrapf(err, "reading sheet %s", sheetName)
	}
	return rows, nil
}

// skipBOM drops a leading UTF-8 byte order mark.
func skipBOM(r io.Reader) io.Reader {
	buf := make([]byte, 3)
	n, _ := io.ReadFull(r, buf)
	if n == 3 && buf[0] == 0xEF && buf[1] == 0xBB && buf[2] == 0xBF {
		return r
	}
	return io.MultiReader(strings.NewReader(string(buf[:n])), r)
}
