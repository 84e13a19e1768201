package sqlxrepos

import (
	"context"

	"github.com/volatiletech/null/v8"

	"github.com/sagedu/sage/core"
	"github.com/sagedu/sage/core/attendance"
	"github.com/sagedu/sage/storage/database"
)

type (
	lessonRow struct {
		ID          int64  `db:"id"`
		ClassID     int64  `db:"class_id"`
		Date        string `db:"date"`
		Topic       string `db:"topic"`
		Description string `db:"description"`
	}

	markRow struct {
		StudentID   int64  `db:"student_id"`
		StudentName string `db:"student_name"`
		Present     bool   `db:"present"`
	}

	recordRow struct {
		StudentID   int64       `db:"student_id"`
		StudentName string      `db:"student_name"`
		Date        null.String `db:"date"`
		Present     null.Bool   `db:"present"`
	}
)

type attendanceRepository struct {
	exec core.DBExecutor
}

var _ attendance.Repository = (*attendanceRepository)(nil) // interface compliance check

func NewAttendanceRepository(exec core.DBExecutor) *attendanceRepository {
	return &attendanceRepository{exec: exec}
}

func (repo attendanceRepository) unboilLesson(row lessonRow) attendance.Lesson {
	return attendance.Lesson{
		ID:          row.ID,
		ClassID:     row.ClassID,
		Date:        row.Date,
		Topic:       row.Topic,
		Description: row.Description,
	}
}

func (repo attendanceRepository) ClassExists(ctx context.Context, classID int64, exec ...core.DBExecutor) (bool, error) {
	var exists bool
	err := getContext(ctx, core.GetExec(repo.exec, exec), &exists, "SELECT EXISTS (SELECT 1 FROM classes WHERE id = ?)", classID)
	if err != nil {
		return false, database.MapError(err, "checking class")
	}
	return exists, nil
}

func (repo attendanceRepository) QueryClassStudentIDs(ctx context.Context, classID int64, exec ...core.DBExecutor) ([]int64, error) {
	var ids []int64
	err := selectContext(ctx, core.GetExec(repo.exec, exec), &ids, "SELECT id FROM students WHERE class_id = ? ORDER BY id", classID)
	if err != nil {
		return nil, database.MapError(err, "querying class students")
	}
	return ids, nil
}

// Lessons

const selectLessons = "SELECT id, class_id, date, topic, description FROM lessons"

func (repo attendanceRepository) CreateLesson(ctx context.Context, l attendance.Lesson, exec ...core.DBExecutor) (attendance.Lesson, error) {
	res, err := core.GetExec(repo.exec, exec).ExecContext(ctx,
		"INSERT INTO lessons (class_id, date, topic, description) VALUES (?, ?, ?, ?)",
		l.ClassID, l.Date, l.Topic, l.Description)
	if l.ID, err = lastInsertID(res, err, "inserting lesson"); err != nil {
		return attendance.Lesson{}, err
	}
	return l, nil
}

func (repo attendanceRepository) GetLesson(ctx context.Context, id int64, exec ...core.DBExecutor) (attendance.Lesson, error) {
	var row lessonRow
	if err := getContext(ctx, core.GetExec(repo.exec, exec), &row, selectLessons+" WHERE id = ?", id); err != nil {
		return attendance.Lesson{}, trapNoRowsErr(err, attendance.ErrLessonNotFound, "finding lesson")
	}
	return repo.unboilLesson(row), nil
}

func (repo attendanceRepository) UpdateLesson(ctx context.Context, l attendance.Lesson, exec ...core.DBExecutor) error {
	res, err := core.GetExec(repo.exec, exec).ExecContext(ctx,
		"UPDATE lessons SET date = ?, topic = ?, description = ? WHERE id = ?",
		l.Date, l.Topic, l.Description, l.ID)
	return checkAffected(res, err, attendance.ErrLessonNotFound, "updating lesson")
}

func (repo attendanceRepository) DeleteLesson(ctx context.Context, id int64, exec ...core.DBExecutor) error {
	res, err := core.GetExec(repo.exec, exec).ExecContext(ctx, "DELETE FROM lessons WHERE id = ?", id)
	return checkAffected(res, err, attendance.ErrLessonNotFound, "deleting lesson")
}

func (repo attendanceRepository) QueryLessons(ctx context.Context, classID int64, exec ...core.DBExecutor) ([]attendance.Lesson, error) {
	var rows []lessonRow
	err := selectContext(ctx, core.GetExec(repo.exec, exec), &rows,
		selectLessons+" WHERE class_id = ? ORDER BY date DESC, id DESC", classID)
	if err != nil {
		return nil, database.MapError(err, "querying lessons")
	}
	lessons := make([]attendance.Lesson, 0, len(rows))
	for _, row := range rows {
		lessons = append(lessons, repo.unboilLesson(row))
	}
	return lessons, nil
}

// Marks

func (repo attendanceRepository) writeMarks(ctx context.Context, query, msg string, lessonID int64, marks []attendance.Mark, exec []core.DBExecutor) error {
	exe := core.GetExec(repo.exec, exec)
	for _, m := range marks {
		if _, err := exe.ExecContext(ctx, query, lessonID, m.StudentID, m.Present); err != nil {
			return database.MapError(err, msg)
		}
	}
	return nil
}

func (repo attendanceRepository) InsertMarks(ctx context.Context, lessonID int64, marks []attendance.Mark, exec ...core.DBExecutor) error {
	return repo.writeMarks(ctx,
		"INSERT INTO attendance (lesson_id, student_id, present) VALUES (?, ?, ?)",
		"inserting attendance", lessonID, marks, exec)
}

func (repo attendanceRepository) UpsertMarks(ctx context.Context, lessonID int64, marks []attendance.Mark, exec ...core.DBExecutor) error {
	return repo.writeMarks(ctx,
		`INSERT INTO attendance (lesson_id, student_id, present) VALUES (?, ?, ?)
		ON CONFLICT (lesson_id, student_id) DO UPDATE SET present = excluded.present`,
		"updating attendance", lessonID, marks, exec)
}

func (repo attendanceRepository) QueryMarks(ctx context.Context, lessonID int64, exec ...core.DBExecutor) ([]attendance.Mark, error) {
	var rows []markRow
	err := selectContext(ctx, core.GetExec(repo.exec, exec), &rows, `
		SELECT a.student_id, s.name AS student_name, a.present
		FROM attendance a
		JOIN students s ON s.id = a.student_id
		WHERE a.lesson_id = ?
		ORDER BY s.name, s.id`, lessonID)
	if err != nil {
		return nil, database.MapError(err, "querying attendance")
	}
	marks := make([]attendance.Mark, 0, len(rows))
	for _, row := range rows {
		marks = append(marks, attendance.Mark{StudentID: row.StudentID, StudentName: row.StudentName, Present: row.Present})
	}
	return marks, nil
}

// QueryClassRecords only pairs students with lessons of their current class.
func (repo attendanceRepository) QueryClassRecords(ctx context.Context, classID int64, exec ...core.DBExecutor) ([]attendance.Record, error) {
	var rows []recordRow
	err := selectContext(ctx, core.GetExec(repo.exec, exec), &rows, `
		SELECT s.id AS student_id, s.name AS student_name, r.date, r.present
		FROM students s
		LEFT JOIN (
			SELECT a.student_id, a.present, l.id AS lesson_id, l.date
			FROM attendance a
			JOIN lessons l ON l.id = a.lesson_id
			WHERE l.class_id = ?
		) r ON r.student_id = s.id
		WHERE s.class_id = ?
		ORDER BY s.name, s.id, r.date DESC, r.lesson_id DESC`, classID, classID)
	if err != nil {
		return nil, database.MapError(err, "querying class attendance")
	}
	records := make([]attendance.Record, 0, len(rows))
	for _, row := range rows {
		records = append(records, attendance.Record{
			StudentID:   row.StudentID,
			StudentName: row.StudentName,
			HasLesson:   row.Date.Valid,
			Date:        row.Date.String,
			Present:     row.Present.Bool,
		})
	}
	return records, nil
}
