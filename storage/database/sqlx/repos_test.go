package sqlxrepos

import (
	"context"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sagedu/sage/core"
	"github.com/sagedu/sage/core/attendance"
	"github.com/sagedu/sage/core/report"
	"github.com/sagedu/sage/core/school"
	"github.com/sagedu/sage/core/user"
	"github.com/sagedu/sage/tests"
)

func TestUserRepository_duplicateEmail(t *testing.T) {
	ctx := context.Background()
	db := testutil.PrepareDB(t)
	repo := NewUserRepository(db)

	first := testutil.CreateUser(t, repo, "Ana", "ana@escola.br", "segredo1")

	_, err := repo.CreateUser(ctx, user.User{Name: "Other", Email: "ana@escola.br", PasswordHash: "x"})
	require.Error(t, err)
	assert.Equal(t, user.ErrEmailExists, err)
	assert.Equal(t, core.DuplicateKey, core.Classify(err))

	got, err := repo.GetUserByEmail(ctx, "ana@escola.br")
	require.NoError(t, err)
	assert.Equal(t, first, got)
	assert.Equal(t, 1, testutil.Count(t, db, "SELECT COUNT(*) FROM users"))
}

func TestUserRepository_notFound(t *testing.T) {
	ctx := context.Background()
	repo := NewUserRepository(testutil.PrepareDB(t))

	_, err := repo.GetUserByEmail(ctx, "nobody@escola.br")
	assert.True(t, errors.Is(err, core.ErrNotFound))

	err = repo.UpdatePasswordHash(ctx, 42, "hash")
	assert.True(t, errors.Is(err, core.ErrNotFound))
}

func TestSchoolRepository(t *testing.T) {
	ctx := context.Background()
	db := testutil.PrepareDB(t)
	repo := NewSchoolRepository(db)

	b, err := repo.CreateClass(ctx, school.Class{Name: "Turma B"})
	require.NoError(t, err)
	a, err := repo.CreateClass(ctx, school.Class{Name: "Turma A"})
	require.NoError(t, err)

	classes, err := repo.QueryClasses(ctx)
	require.NoError(t, err)
	assert.Equal(t, []school.Class{a, b}, classes, "classes are sorted by name")

	bruno, err := repo.CreateStudent(ctx, school.Student{Name: "Bruno", ClassID: a.ID})
	require.NoError(t, err)
	ana, err := repo.CreateStudent(ctx, school.Student{Name: "Ana", ClassID: a.ID})
	require.NoError(t, err)

	students, err := repo.QueryStudents(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, []school.Student{ana, bruno}, students)

	require.NoError(t, repo.UpdateStudentName(ctx, bruno.ID, "Bruna"))
	got, err := repo.GetStudent(ctx, bruno.ID)
	require.NoError(t, err)
	assert.Equal(t, "Bruna", got.Name)

	assert.Equal(t, school.ErrStudentNotFound, repo.UpdateStudentName(ctx, 999, "x"))
	assert.Equal(t, school.ErrStudentNotFound, repo.DeleteStudent(ctx, 999))
	_, err = repo.GetClass(ctx, 999)
	assert.Equal(t, school.ErrClassNotFound, err)

	asg, err := repo.CreateAssignment(ctx, school.Assignment{ClassID: a.ID, Name: "Lista 1", DueDate: "2024-05-20"})
	require.NoError(t, err)
	asg.Description = "capítulo 3"
	require.NoError(t, repo.UpdateAssignment(ctx, asg))
	got2, err := repo.GetAssignment(ctx, asg.ID)
	require.NoError(t, err)
	assert.Equal(t, asg, got2)

	require.NoError(t, repo.DeleteAssignment(ctx, asg.ID))
	assert.Equal(t, school.ErrAssignmentNotFound, repo.DeleteAssignment(ctx, asg.ID))
}

func TestSchoolRepository_deleteStudentCascadesAttendance(t *testing.T) {
	ctx := context.Background()
	db := testutil.PrepareDB(t)
	repo := NewSchoolRepository(db)

	cls := testutil.CreateClass(t, db, "Turma A")
	ana := testutil.CreateStudent(t, db, "Ana", cls)
	bruno := testutil.CreateStudent(t, db, "Bruno", cls)
	testutil.CreateLesson(t, db, cls, "10/05/2024", "Soma", []int64{ana, bruno}, []bool{true, false})
	testutil.CreateLesson(t, db, cls, "12/05/2024", "Frações", []int64{ana, bruno}, []bool{true, true})

	require.NoError(t, repo.DeleteStudent(ctx, ana))

	assert.Zero(t, testutil.Count(t, db, "SELECT COUNT(*) FROM attendance WHERE student_id = ?", ana))
	assert.Equal(t, 2, testutil.Count(t, db, "SELECT COUNT(*) FROM attendance WHERE student_id = ?", bruno))
}

func TestSchoolRepository_deleteClassKeepsStudents(t *testing.T) {
	db := testutil.PrepareDB(t)
	repo := NewSchoolRepository(db)

	cls := testutil.CreateClass(t, db, "Turma A")
	ana := testutil.CreateStudent(t, db, "Ana", cls)

	_, err := db.Exec("DELETE FROM classes WHERE id = ?", cls)
	require.NoError(t, err)

	st, err := repo.GetStudent(context.Background(), ana)
	require.NoError(t, err)
	assert.Zero(t, st.ClassID)
}

func TestAttendanceRepository_deleteLessonCascadesAttendance(t *testing.T) {
	ctx := context.Background()
	db := testutil.PrepareDB(t)
	repo := NewAttendanceRepository(db)

	cls := testutil.CreateClass(t, db, "Turma A")
	ana := testutil.CreateStudent(t, db, "Ana", cls)
	l1 := testutil.CreateLesson(t, db, cls, "10/05/2024", "Soma", []int64{ana}, []bool{true})
	l2 := testutil.CreateLesson(t, db, cls, "12/05/2024", "Frações", []int64{ana}, []bool{false})

	require.NoError(t, repo.DeleteLesson(ctx, l1))

	assert.Zero(t, testutil.Count(t, db, "SELECT COUNT(*) FROM attendance WHERE lesson_id = ?", l1))
	assert.Equal(t, 1, testutil.Count(t, db, "SELECT COUNT(*) FROM attendance WHERE lesson_id = ?", l2))
	assert.Equal(t, attendance.ErrLessonNotFound, repo.DeleteLesson(ctx, l1))
}

func TestAttendanceRepository_marks(t *testing.T) {
	ctx := context.Background()
	db := testutil.PrepareDB(t)
	repo := NewAttendanceRepository(db)

	cls := testutil.CreateClass(t, db, "Turma A")
	bruno := testutil.CreateStudent(t, db, "Bruno", cls)
	ana := testutil.CreateStudent(t, db, "Ana", cls)
	lesson, err := repo.CreateLesson(ctx, attendance.Lesson{ClassID: cls, Date: "10/05/2024", Topic: "Soma"})
	require.NoError(t, err)

	require.NoError(t, repo.InsertMarks(ctx, lesson.ID, []attendance.Mark{{StudentID: bruno, Present: true}, {StudentID: ana}}))

	err = repo.InsertMarks(ctx, lesson.ID, []attendance.Mark{{StudentID: ana, Present: true}})
	assert.True(t, errors.Is(err, core.ErrDuplicateKey), "one mark per lesson and student")

	require.NoError(t, repo.UpsertMarks(ctx, lesson.ID, []attendance.Mark{{StudentID: ana, Present: true}, {StudentID: bruno, Present: false}}))

	marks, err := repo.QueryMarks(ctx, lesson.ID)
	require.NoError(t, err)
	assert.Equal(t, []attendance.Mark{
		{StudentID: ana, StudentName: "Ana", Present: true},
		{StudentID: bruno, StudentName: "Bruno", Present: false},
	}, marks)

	ok, err := repo.ClassExists(ctx, cls)
	require.NoError(t, err)
	assert.True(t, ok)
	ok, err = repo.ClassExists(ctx, 999)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestAttendanceRepository_QueryClassStudentIDs(t *testing.T) {
	ctx := context.Background()
	db := testutil.PrepareDB(t)
	repo := NewAttendanceRepository(db)

	cls := testutil.CreateClass(t, db, "Turma A")
	other := testutil.CreateClass(t, db, "Turma B")
	bruno := testutil.CreateStudent(t, db, "Bruno", cls)
	ana := testutil.CreateStudent(t, db, "Ana", cls)
	testutil.CreateStudent(t, db, "Zeca", other)

	ids, err := repo.QueryClassStudentIDs(ctx, cls)
	require.NoError(t, err)
	assert.Equal(t, []int64{bruno, ana}, ids)

	ids, err = repo.QueryClassStudentIDs(ctx, 999)
	require.NoError(t, err)
	assert.Empty(t, ids)
}

func TestAttendanceRepository_QueryClassRecords(t *testing.T) {
	ctx := context.Background()
	db := testutil.PrepareDB(t)
	repo := NewAttendanceRepository(db)

	cls := testutil.CreateClass(t, db, "Turma A")
	other := testutil.CreateClass(t, db, "Turma B")
	bruno := testutil.CreateStudent(t, db, "Bruno", cls)
	ana := testutil.CreateStudent(t, db, "Ana", cls)
	carla := testutil.CreateStudent(t, db, "Carla", cls)
	testutil.CreateStudent(t, db, "Zeca", other)
	testutil.CreateLesson(t, db, cls, "10/05/2024", "Soma", []int64{ana, bruno}, []bool{true, false})
	testutil.CreateLesson(t, db, cls, "12/05/2024", "Frações", []int64{ana, bruno}, []bool{false, false})

	records, err := repo.QueryClassRecords(ctx, cls)
	require.NoError(t, err)
	assert.Equal(t, []attendance.Record{
		{StudentID: ana, StudentName: "Ana", HasLesson: true, Date: "12/05/2024", Present: false},
		{StudentID: ana, StudentName: "Ana", HasLesson: true, Date: "10/05/2024", Present: true},
		{StudentID: bruno, StudentName: "Bruno", HasLesson: true, Date: "12/05/2024", Present: false},
		{StudentID: bruno, StudentName: "Bruno", HasLesson: true, Date: "10/05/2024", Present: false},
		{StudentID: carla, StudentName: "Carla"},
	}, records)

	records, err = repo.QueryClassRecords(ctx, 999)
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestReportRepository_QueryRows(t *testing.T) {
	ctx := context.Background()
	db := testutil.PrepareDB(t)
	repo := NewReportRepository(db)

	cls := testutil.CreateClass(t, db, "Turma A")
	bruno := testutil.CreateStudent(t, db, "Bruno", cls)
	ana := testutil.CreateStudent(t, db, "Ana", cls)
	students := []int64{bruno, ana}
	testutil.CreateLesson(t, db, cls, "10/05/2024", "Soma", students, []bool{true, false})
	testutil.CreateLesson(t, db, cls, "12/05/2024", "Frações", students, []bool{false, true})
	testutil.CreateLesson(t, db, cls, "11/05/2024", "Subtração", students, []bool{true, true})

	rows, err := repo.QueryRows(ctx, cls)
	require.NoError(t, err)
	assert.Equal(t, []report.Row{
		{Date: "12/05/2024", Topic: "Frações", StudentName: "Ana", Present: true},
		{Date: "12/05/2024", Topic: "Frações", StudentName: "Bruno", Present: false},
		{Date: "11/05/2024", Topic: "Subtração", StudentName: "Ana", Present: true},
		{Date: "11/05/2024", Topic: "Subtração", StudentName: "Bruno", Present: true},
		{Date: "10/05/2024", Topic: "Soma", StudentName: "Ana", Present: false},
		{Date: "10/05/2024", Topic: "Soma", StudentName: "Bruno", Present: true},
	}, rows)

	name, err := repo.GetClassName(ctx, cls)
	require.NoError(t, err)
	assert.Equal(t, "Turma A", name)
	_, err = repo.GetClassName(ctx, 999)
	assert.Equal(t, report.ErrClassNotFound, err)
}
