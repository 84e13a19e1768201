package sqlxrepos

import (
	"context"

	"github.com/sagedu/sage/core"
	"github.com/sagedu/sage/core/report"
	"github.com/sagedu/sage/storage/database"
)

type reportRow struct {
	Date        string `db:"date"`
	Topic       string `db:"topic"`
	StudentName string `db:"student_name"`
	Present     bool   `db:"present"`
}

type reportRepository struct {
	exec core.DBExecutor
}

var _ report.Repository = (*reportRepository)(nil) // interface compliance check

func NewReportRepository(exec core.DBExecutor) *reportRepository {
	return &reportRepository{exec: exec}
}

func (repo reportRepository) GetClassName(ctx context.Context, classID int64, exec ...core.DBExecutor) (string, error) {
	var name string
	if err := getContext(ctx, core.GetExec(repo.exec, exec), &name, "SELECT name FROM classes WHERE id = ?", classID); err != nil {
		return "", trapNoRowsErr(err, report.ErrClassNotFound, "finding class")
	}
	return name, nil
}

func (repo reportRepository) QueryRows(ctx context.Context, classID int64, exec ...core.DBExecutor) ([]report.Row, error) {
	var rows []reportRow
	err := selectContext(ctx, core.GetExec(repo.exec, exec), &rows, `
		SELECT l.date, l.topic, s.name AS student_name, a.present
		FROM attendance a
		JOIN lessons l ON l.id = a.lesson_id
		JOIN students s ON s.id = a.student_id
		WHERE l.class_id = ?
		ORDER BY l.date DESC, s.name ASC, l.id DESC, s.id`, classID)
	if err != nil {
		return nil, database.MapError(err, "querying report rows")
	}
	result := make([]report.Row, 0, len(rows))
	for _, row := range rows {
		result = append(result, report.Row(row))
	}
	return result, nil
}
