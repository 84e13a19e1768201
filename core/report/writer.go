package report

import (
	"encoding/csv"
	"io"

	"github.com/pkg/errors"
	"github.com/xuri/excelize/v2"

	"github.com/sagedu/sage/core"
)

const (
	FormatCSV  = "csv"
	FormatXLSX = "xlsx"

	// SheetName is the worksheet holding an XLSX report.
	SheetName = "frequencia"
)

// utf8BOM lets spreadsheet programs detect the encoding of CSV reports.
var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

var ErrUnknownFormat = core.NewValidationError(errors.New("unknown report format, use csv or xlsx"))

// Writer serializes report rows, header first.
type Writer interface {
	Write(w io.Writer, rows []Row) error
}

// NewWriter returns the Writer for format ("csv" or "xlsx").
func NewWriter(format string) (Writer, error) {
	switch format {
	case FormatCSV:
		return csvWriter{}, nil
	case FormatXLSX:
		return xlsxWriter{}, nil
	default:
		return nil, errors.Wrapf(ErrUnknownFormat, "%q", format)
	}
}

type csvWriter struct{}

func (csvWriter) Write(w io.Writer, rows []Row) error {
	if _, err := w.Write(utf8BOM); err != nil {
		return errors.Wrap(err, "writing BOM")
	}
	cw := csv.NewWriter(w)
	if err := cw.Write(Header); err != nil {
		return errors.Wrap(err, "writing header")
	}
	for _, row := range rows {
		if err := cw.Write(row.Values()); err != nil {
			return errors.Wrap(err, "writing row")
		}
	}
	cw.Flush()
	return errors.Wrap(cw.Error(), "flushing csv")
}

type xlsxWriter struct{}

func (xlsxWriter) Write(w io.Writer, rows []Row) (err error) {
	f := excelize.NewFile()
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = errors.Wrap(cerr, "closing workbook")
		}
	}()

	if err = f.SetSheetName(f.GetSheetName(0), SheetName); err != nil {
		return errors.Wrap(err, "naming sheet")
	}
	if err = f.SetSheetRow(SheetName, "A1", &Header); err != nil {
		return errors.Wrap(err, "writing header")
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return errors.WithStack(err)
		}
		values := row.Values()
		if err = f.SetSheetRow(SheetName, cell, &values); err != nil {
			return errors.Wrap(err, "writing row")
		}
	}
	_, err = f.WriteTo(w)
	return errors.Wrap(err, "writing workbook")
}
