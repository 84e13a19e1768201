package report

import (
	"bytes"
	"context"
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/sagedu/sage/core"
	"github.com/sagedu/sage/tests"
)

type repoStub struct {
	className string
	rows      []Row
	err       error
}

func (r repoStub) GetClassName(context.Context, int64, ...core.DBExecutor) (string, error) {
	if r.className == "" {
		return "", ErrClassNotFound
	}
	return r.className, nil
}

func (r repoStub) QueryRows(context.Context, int64, ...core.DBExecutor) ([]Row, error) {
	return r.rows, r.err
}

var sampleRows = []Row{
	{Date: "12/05/2024", Topic: "Frações", StudentName: "Ana", Present: true},
	{Date: "12/05/2024", Topic: "Frações", StudentName: "Bruno", Present: false},
	{Date: "10/05/2024", Topic: "Soma", StudentName: "Ana", Present: false},
	{Date: "10/05/2024", Topic: "Soma", StudentName: "Bruno", Present: true},
}

func TestFileName(t *testing.T) {
	tests := []struct {
		class, format, want string
	}{
		{"Turma A", FormatCSV, "relatorio_frequencia_Turma_A.csv"},
		{"Turma  A", FormatCSV, "relatorio_frequencia_Turma__A.csv"},
		{"  3º ano B ", FormatXLSX, "relatorio_frequencia_3º_ano_B.xlsx"},
		{"1/2", FormatCSV, "relatorio_frequencia_1-2.csv"},
	}
	for _, tt := range tests {
		t.Run(tt.class, func(t *testing.T) {
			assert.Equal(t, tt.want, FileName(tt.class, tt.format))
		})
	}
}

func TestCSVWriter(t *testing.T) {
	w, err := NewWriter(FormatCSV)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, w.Write(&buf, sampleRows))
	require.True(t, bytes.HasPrefix(buf.Bytes(), utf8BOM), "missing BOM")

	records, err := csv.NewReader(bytes.NewReader(buf.Bytes()[len(utf8BOM):])).ReadAll()
	require.NoError(t, err)
	assert.Equal(t, [][]string{
		{"data", "tema", "nome", "status"},
		{"12/05/2024", "Frações", "Ana", "Presente"},
		{"12/05/2024", "Frações", "Bruno", "Ausente"},
		{"10/05/2024", "Soma", "Ana", "Ausente"},
		{"10/05/2024", "Soma", "Bruno", "Presente"},
	}, records)
}

func TestNewWriter_unknownFormat(t *testing.T) {
	_, err := NewWriter("pdf")
	assert.True(t, errors.Is(err, ErrUnknownFormat))
}

func TestService_Export(t *testing.T) {
	ctx := context.Background()

	t.Run("csv", func(t *testing.T) {
		dir := t.TempDir()
		svc := NewService(repoStub{className: "Turma A", rows: sampleRows}, testutil.NopLogger{})

		path, err := svc.Export(ctx, 1, dir, FormatCSV)
		require.NoError(t, err)
		assert.Equal(t, filepath.Join(dir, "relatorio_frequencia_Turma_A.csv"), path)

		data, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.True(t, bytes.HasPrefix(data, utf8BOM))
		assert.Equal(t, 5, bytes.Count(data, []byte("\n")))
	})

	t.Run("xlsx", func(t *testing.T) {
		dir := t.TempDir()
		svc := NewService(repoStub{className: "Turma A", rows: sampleRows}, testutil.NopLogger{})

		path, err := svc.Export(ctx, 1, dir, FormatXLSX)
		require.NoError(t, err)

		f, err := excelize.OpenFile(path)
		require.NoError(t, err)
		defer func() { _ = f.Close() }()

		rows, err := f.GetRows(SheetName)
		require.NoError(t, err)
		require.Len(t, rows, len(sampleRows)+1)
		assert.Equal(t, Header, rows[0])
		assert.Equal(t, []string{"12/05/2024", "Frações", "Ana", "Presente"}, rows[1])
	})

	t.Run("empty dataset writes no file", func(t *testing.T) {
		dir := t.TempDir()
		svc := NewService(repoStub{className: "Turma A"}, testutil.NopLogger{})

		path, err := svc.Export(ctx, 1, dir, FormatCSV)
		assert.True(t, errors.Is(err, core.ErrEmptyDataset))
		assert.Equal(t, core.EmptyDataset, core.Classify(err))
		assert.Empty(t, path)

		entries, err := os.ReadDir(dir)
		require.NoError(t, err)
		assert.Empty(t, entries)
	})

	t.Run("unknown class", func(t *testing.T) {
		svc := NewService(repoStub{}, testutil.NopLogger{})
		_, err := svc.Export(ctx, 1, t.TempDir(), FormatCSV)
		assert.True(t, errors.Is(err, core.ErrNotFound))
	})

	t.Run("missing directory", func(t *testing.T) {
		svc := NewService(repoStub{className: "Turma A", rows: sampleRows}, testutil.NopLogger{})
		_, err := svc.Export(ctx, 1, filepath.Join(t.TempDir(), "nope"), FormatCSV)
		assert.Error(t, err)
	})
}
