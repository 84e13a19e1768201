package attendance

import (
	"context"
	"fmt"
	"sort"

	"github.com/pkg/errors"

	"github.com/sagedu/sage/core"
)

var (
	// errors
	ErrLessonNotFound = errors.Wrap(core.ErrNotFound, "lesson")
	ErrClassNotFound  = errors.Wrap(core.ErrNotFound, "class")
)

type (
	Repository interface {
		// ClassExists reports whether a class with the given ID exists.
		ClassExists(ctx context.Context, classID int64, exec ...core.DBExecutor) (bool, error)
		// QueryClassStudentIDs returns the IDs of the students currently in the class.
		QueryClassStudentIDs(ctx context.Context, classID int64, exec ...core.DBExecutor) ([]int64, error)

		CreateLesson(ctx context.Context, l Lesson, exec ...core.DBExecutor) (Lesson, error)
		GetLesson(ctx context.Context, id int64, exec ...core.DBExecutor) (Lesson, error)
		UpdateLesson(ctx context.Context, l Lesson, exec ...core.DBExecutor) error
		// DeleteLesson removes the lesson; its attendance rows go with it.
		DeleteLesson(ctx context.Context, id int64, exec ...core.DBExecutor) error
		// QueryLessons returns the lessons of a class, latest date first.
		QueryLessons(ctx context.Context, classID int64, exec ...core.DBExecutor) ([]Lesson, error)

		// InsertMarks records the marks of a lesson. A student already marked fails the call.
		InsertMarks(ctx context.Context, lessonID int64, marks []Mark, exec ...core.DBExecutor) error
		// UpsertMarks records the marks of a lesson, replacing existing ones by student.
		UpsertMarks(ctx context.Context, lessonID int64, marks []Mark, exec ...core.DBExecutor) error
		// QueryMarks returns the marks of a lesson ordered by student name.
		QueryMarks(ctx context.Context, lessonID int64, exec ...core.DBExecutor) ([]Mark, error)

		// QueryClassRecords returns one Record per (student, attendance) pair of the class,
		// plus one lesson-less Record for each student without attendance, ordered by
		// student name, student ID, lesson date descending and lesson ID descending.
		QueryClassRecords(ctx context.Context, classID int64, exec ...core.DBExecutor) ([]Record, error)
	}

	Service struct {
		db     core.DB
		repo   Repository
		logger core.Logger
	}
)

func NewService(db core.DB, repo Repository, logger core.Logger) *Service {
	return &Service{db: db, repo: repo, logger: logger}
}

// RecordLesson creates a lesson together with the attendance of its roster, all or none.
func (svc *Service) RecordLesson(ctx context.Context, nl NewLesson) (Lesson, error) {
	nl.Clean()
	if err := core.Validate.Struct(nl); err != nil {
		return Lesson{}, err
	}

	var lesson Lesson
	err := core.RunInTx(ctx, svc.db, func(tx core.DBExecutor) error {
		ok, err := svc.repo.ClassExists(ctx, nl.ClassID, tx)
		if err != nil {
			return err
		}
		if !ok {
			return ErrClassNotFound
		}
		if err = svc.checkRoster(ctx, nl.ClassID, nl.Roster, tx); err != nil {
			return err
		}
		lesson, err = svc.repo.CreateLesson(ctx, Lesson{
			ClassID:     nl.ClassID,
			Date:        nl.Date,
			Topic:       nl.Topic,
			Description: nl.Description,
		}, tx)
		if err != nil {
			return err
		}
		return svc.repo.InsertMarks(ctx, lesson.ID, nl.Roster, tx)
	})
	if err != nil {
		return Lesson{}, err
	}
	svc.logger.Info("lesson recorded", map[string]interface{}{"lesson_id": lesson.ID, "class_id": lesson.ClassID, "marks": len(nl.Roster)})
	return lesson, nil
}

// UpdateLesson edits a lesson and the given marks in one transaction.
func (svc *Service) UpdateLesson(ctx context.Context, id int64, ul UpdateLesson) (Lesson, error) {
	ul.Clean()
	if err := core.Validate.Struct(ul); err != nil {
		return Lesson{}, err
	}

	var lesson Lesson
	err := core.RunInTx(ctx, svc.db, func(tx core.DBExecutor) error {
		var err error
		if lesson, err = svc.repo.GetLesson(ctx, id, tx); err != nil {
			return err
		}
		lesson.Date, lesson.Topic, lesson.Description = ul.Date, ul.Topic, ul.Description
		if err = svc.repo.UpdateLesson(ctx, lesson, tx); err != nil {
			return err
		}
		if len(ul.Roster) == 0 {
			return nil
		}
		if err = svc.checkRoster(ctx, lesson.ClassID, ul.Roster, tx); err != nil {
			return err
		}
		return svc.repo.UpsertMarks(ctx, lesson.ID, ul.Roster, tx)
	})
	if err != nil {
		return Lesson{}, err
	}
	return lesson, nil
}

// checkRoster fails with a validation error when a marked student is not in the class.
func (svc *Service) checkRoster(ctx context.Context, classID int64, roster []Mark, tx core.DBExecutor) error {
	ids, err := svc.repo.QueryClassStudentIDs(ctx, classID, tx)
	if err != nil {
		return err
	}
	inClass := make(map[int64]bool, len(ids))
	for _, id := range ids {
		inClass[id] = true
	}

	var strangers []int64
	for _, m := range roster {
		if !inClass[m.StudentID] {
			strangers = append(strangers, m.StudentID)
			inClass[m.StudentID] = true // report once
		}
	}
	if len(strangers) == 0 {
		return nil
	}
	sort.Slice(strangers, func(i, j int) bool { return strangers[i] < strangers[j] })
	return core.NewValidationError(nil, core.FieldError{
		Field: "roster",
		Error: fmt.Sprintf("students %v are not in class %d", strangers, classID),
	})
}

func (svc *Service) DeleteLesson(ctx context.Context, id int64) error {
	if err := svc.repo.DeleteLesson(ctx, id); err != nil {
		return err
	}
	svc.logger.Info("lesson deleted", map[string]interface{}{"lesson_id": id})
	return nil
}

func (svc *Service) ListLessons(ctx context.Context, classID int64) ([]Lesson, error) {
	return svc.repo.QueryLessons(ctx, classID)
}

// LessonRoster returns a lesson with its marks.
func (svc *Service) LessonRoster(ctx context.Context, id int64) (Lesson, []Mark, error) {
	lesson, err := svc.repo.GetLesson(ctx, id)
	if err != nil {
		return Lesson{}, nil, err
	}
	marks, err := svc.repo.QueryMarks(ctx, id)
	if err != nil {
		return Lesson{}, nil, err
	}
	return lesson, marks, nil
}

// Summarize returns the attendance summary of every student of the class,
// ordered by student name. An unknown class yields an empty result.
func (svc *Service) Summarize(ctx context.Context, classID int64) ([]StudentSummary, error) {
	records, err := svc.repo.QueryClassRecords(ctx, classID)
	if err != nil {
		return nil, err
	}
	return Aggregate(records), nil
}
