package report

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"

	"github.com/sagedu/sage/core"
)

var (
	// errors
	ErrClassNotFound = errors.Wrap(core.ErrNotFound, "class")
)

type (
	Repository interface {
		// GetClassName returns the name of the class, or ErrClassNotFound.
		GetClassName(ctx context.Context, classID int64, exec ...core.DBExecutor) (string, error)
		// QueryRows returns the attendance rows of the class ordered by lesson date
		// descending, then student name ascending.
		QueryRows(ctx context.Context, classID int64, exec ...core.DBExecutor) ([]Row, error)
	}

	Service struct {
		repo   Repository
		logger core.Logger
	}
)

func NewService(repo Repository, logger core.Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

// FileName returns the report file name of a class, eg. "relatorio_frequencia_Turma_A.csv".
func FileName(className, format string) string {
	slug := strings.ReplaceAll(strings.TrimSpace(className), " ", "_")
	slug = strings.NewReplacer("/", "-", "\\", "-").Replace(slug)
	return "relatorio_frequencia_" + slug + "." + format
}

func (svc *Service) Rows(ctx context.Context, classID int64) ([]Row, error) {
	return svc.repo.QueryRows(ctx, classID)
}

// Export writes the attendance report of the class into dir and returns its path.
// A class without attendance yields core.ErrEmptyDataset and no file.
func (svc *Service) Export(ctx context.Context, classID int64, dir, format string) (string, error) {
	w, err := NewWriter(format)
	if err != nil {
		return "", err
	}
	className, err := svc.repo.GetClassName(ctx, classID)
	if err != nil {
		return "", err
	}
	rows, err := svc.repo.QueryRows(ctx, classID)
	if err != nil {
		return "", err
	}
	if len(rows) == 0 {
		return "", errors.WithStack(core.ErrEmptyDataset)
	}

	path := filepath.Join(dir, FileName(className, format))
	if err = writeFile(path, w, rows); err != nil {
		return "", err
	}
	svc.logger.Info("report exported", map[string]interface{}{"class_id": classID, "path": path, "rows": len(rows)})
	return path, nil
}

func writeFile(path string, w Writer, rows []Row) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(err, "creating report file")
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = errors.Wrap(cerr, "closing report file")
		}
		if err != nil {
			_ = os.Remove(path)
		}
	}()
	return w.Write(f, rows)
}
