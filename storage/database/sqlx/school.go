package sqlxrepos

import (
	"context"

	"github.com/volatiletech/null/v8"

	"github.com/sagedu/sage/core"
	"github.com/sagedu/sage/core/school"
)

type (
	classRow struct {
		ID   int64  `db:"id"`
		Name string `db:"name"`
	}

	studentRow struct {
		ID      int64      `db:"id"`
		Name    string     `db:"name"`
		ClassID null.Int64 `db:"class_id"`
	}

	assignmentRow struct {
		ID          int64  `db:"id"`
		ClassID     int64  `db:"class_id"`
		Name        string `db:"name"`
		DueDate     string `db:"due_date"`
		Description string `db:"description"`
	}
)

type schoolRepository struct {
	exec core.DBExecutor
}

var _ school.Repository = (*schoolRepository)(nil) // interface compliance check

func NewSchoolRepository(exec core.DBExecutor) *schoolRepository {
	return &schoolRepository{exec: exec}
}

func (repo schoolRepository) unboilStudent(row studentRow) school.Student {
	return school.Student{ID: row.ID, Name: row.Name, ClassID: row.ClassID.Int64}
}

func (repo schoolRepository) unboilAssignment(row assignmentRow) school.Assignment {
	return school.Assignment{
		ID:          row.ID,
		ClassID:     row.ClassID,
		Name:        row.Name,
		DueDate:     row.DueDate,
		Description: row.Description,
	}
}

// Classes

func (repo schoolRepository) CreateClass(ctx context.Context, cls school.Class, exec ...core.DBExecutor) (school.Class, error) {
	res, err := core.GetExec(repo.exec, exec).ExecContext(ctx, "INSERT INTO classes (name) VALUES (?)", cls.Name)
	if cls.ID, err = lastInsertID(res, err, "inserting class"); err != nil {
		return school.Class{}, err
	}
	return cls, nil
}

func (repo schoolRepository) QueryClasses(ctx context.Context, exec ...core.DBExecutor) ([]school.Class, error) {
	var rows []classRow
	if err := selectContext(ctx, core.GetExec(repo.exec, exec), &rows, "SELECT id, name FROM classes ORDER BY name, id"); err != nil {
		return nil, trapNoRowsErr(err, school.ErrClassNotFound, "querying classes")
	}
	classes := make([]school.Class, 0, len(rows))
	for _, row := range rows {
		classes = append(classes, school.Class{ID: row.ID, Name: row.Name})
	}
	return classes, nil
}

func (repo schoolRepository) GetClass(ctx context.Context, id int64, exec ...core.DBExecutor) (school.Class, error) {
	var row classRow
	if err := getContext(ctx, core.GetExec(repo.exec, exec), &row, "SELECT id, name FROM classes WHERE id = ?", id); err != nil {
		return school.Class{}, trapNoRowsErr(err, school.ErrClassNotFound, "finding class")
	}
	return school.Class{ID: row.ID, Name: row.Name}, nil
}

// Students

func (repo schoolRepository) CreateStudent(ctx context.Context, st school.Student, exec ...core.DBExecutor) (school.Student, error) {
	res, err := core.GetExec(repo.exec, exec).ExecContext(ctx,
		"INSERT INTO students (name, class_id) VALUES (?, ?)",
		st.Name, null.NewInt64(st.ClassID, st.ClassID != 0))
	if st.ID, err = lastInsertID(res, err, "inserting student"); err != nil {
		return school.Student{}, err
	}
	return st, nil
}

func (repo schoolRepository) QueryStudents(ctx context.Context, classID int64, exec ...core.DBExecutor) ([]school.Student, error) {
	var rows []studentRow
	err := selectContext(ctx, core.GetExec(repo.exec, exec), &rows,
		"SELECT id, name, class_id FROM students WHERE class_id = ? ORDER BY name, id", classID)
	if err != nil {
		return nil, trapNoRowsErr(err, school.ErrStudentNotFound, "querying students")
	}
	students := make([]school.Student, 0, len(rows))
	for _, row := range rows {
		students = append(students, repo.unboilStudent(row))
	}
	return students, nil
}

func (repo schoolRepository) GetStudent(ctx context.Context, id int64, exec ...core.DBExecutor) (school.Student, error) {
	var row studentRow
	err := getContext(ctx, core.GetExec(repo.exec, exec), &row, "SELECT id, name, class_id FROM students WHERE id = ?", id)
	if err != nil {
		return school.Student{}, trapNoRowsErr(err, school.ErrStudentNotFound, "finding student")
	}
	return repo.unboilStudent(row), nil
}

func (repo schoolRepository) UpdateStudentName(ctx context.Context, id int64, name string, exec ...core.DBExecutor) error {
	res, err := core.GetExec(repo.exec, exec).ExecContext(ctx, "UPDATE students SET name = ? WHERE id = ?", name, id)
	return checkAffected(res, err, school.ErrStudentNotFound, "renaming student")
}

func (repo schoolRepository) DeleteStudent(ctx context.Context, id int64, exec ...core.DBExecutor) error {
	res, err := core.GetExec(repo.exec, exec).ExecContext(ctx, "DELETE FROM students WHERE id = ?", id)
	return checkAffected(res, err, school.ErrStudentNotFound, "deleting student")
}

// Assignments

const selectAssignments = "SELECT id, class_id, name, due_date, description FROM assignments"

func (repo schoolRepository) CreateAssignment(ctx context.Context, asg school.Assignment, exec ...core.DBExecutor) (school.Assignment, error) {
	res, err := core.GetExec(repo.exec, exec).ExecContext(ctx,
		"INSERT INTO assignments (class_id, name, due_date, description) VALUES (?, ?, ?, ?)",
		asg.ClassID, asg.Name, asg.DueDate, asg.Description)
	if asg.ID, err = lastInsertID(res, err, "inserting assignment"); err != nil {
		return school.Assignment{}, err
	}
	return asg, nil
}

func (repo schoolRepository) QueryAssignments(ctx context.Context, classID int64, exec ...core.DBExecutor) ([]school.Assignment, error) {
	var rows []assignmentRow
	err := selectContext(ctx, core.GetExec(repo.exec, exec), &rows,
		selectAssignments+" WHERE class_id = ? ORDER BY due_date DESC, id DESC", classID)
	if err != nil {
		return nil, trapNoRowsErr(err, school.ErrAssignmentNotFound, "querying assignments")
	}
	assignments := make([]school.Assignment, 0, len(rows))
	for _, row := range rows {
		assignments = append(assignments, repo.unboilAssignment(row))
	}
	return assignments, nil
}

func (repo schoolRepository) GetAssignment(ctx context.Context, id int64, exec ...core.DBExecutor) (school.Assignment, error) {
	var row assignmentRow
	if err := getContext(ctx, core.GetExec(repo.exec, exec), &row, selectAssignments+" WHERE id = ?", id); err != nil {
		return school.Assignment{}, trapNoRowsErr(err, school.ErrAssignmentNotFound, "finding assignment")
	}
	return repo.unboilAssignment(row), nil
}

func (repo schoolRepository) UpdateAssignment(ctx context.Context, asg school.Assignment, exec ...core.DBExecutor) error {
	res, err := core.GetExec(repo.exec, exec).ExecContext(ctx,
		"UPDATE assignments SET name = ?, due_date = ?, description = ? WHERE id = ?",
		asg.Name, asg.DueDate, asg.Description, asg.ID)
	return checkAffected(res, err, school.ErrAssignmentNotFound, "updating assignment")
}

func (repo schoolRepository) DeleteAssignment(ctx context.Context, id int64, exec ...core.DBExecutor) error {
	res, err := core.GetExec(repo.exec, exec).ExecContext(ctx, "DELETE FROM assignments WHERE id = ?", id)
	return checkAffected(res, err, school.ErrAssignmentNotFound, "deleting assignment")
}
