package school

import (
	"context"

	"github.com/pkg/errors"

	"github.com/sagedu/sage/core"
)

var (
	// errors
	ErrClassNotFound      = errors.Wrap(core.ErrNotFound, "class")
	ErrStudentNotFound    = errors.Wrap(core.ErrNotFound, "student")
	ErrAssignmentNotFound = errors.Wrap(core.ErrNotFound, "assignment")
	ErrNoStudentsToImport = core.NewValidationError(errors.New("no student names to import"))
)

type (
	Repository interface {
		CreateClass(ctx context.Context, cls Class, exec ...core.DBExecutor) (Class, error)
		// QueryClasses returns all classes ordered by name.
		QueryClasses(ctx context.Context, exec ...core.DBExecutor) ([]Class, error)
		GetClass(ctx context.Context, id int64, exec ...core.DBExecutor) (Class, error)

		CreateStudent(ctx context.Context, st Student, exec ...core.DBExecutor) (Student, error)
		// QueryStudents returns the students of a class ordered by name.
		QueryStudents(ctx context.Context, classID int64, exec ...core.DBExecutor) ([]Student, error)
		GetStudent(ctx context.Context, id int64, exec ...core.DBExecutor) (Student, error)
		UpdateStudentName(ctx context.Context, id int64, name string, exec ...core.DBExecutor) error
		// DeleteStudent removes the student; its attendance rows go with it.
		DeleteStudent(ctx context.Context, id int64, exec ...core.DBExecutor) error

		CreateAssignment(ctx context.Context, asg Assignment, exec ...core.DBExecutor) (Assignment, error)
		// QueryAssignments returns the assignments of a class, latest due date first.
		QueryAssignments(ctx context.Context, classID int64, exec ...core.DBExecutor) ([]Assignment, error)
		GetAssignment(ctx context.Context, id int64, exec ...core.DBExecutor) (Assignment, error)
		UpdateAssignment(ctx context.Context, asg Assignment, exec ...core.DBExecutor) error
		DeleteAssignment(ctx context.Context, id int64, exec ...core.DBExecutor) error
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

// Classes

func (svc *Service) CreateClass(ctx context.Context, nc NewClass) (Class, error) {
	nc.Clean()
	if err := core.Validate.Struct(nc); err != nil {
		return Class{}, err
	}
	return svc.repo.CreateClass(ctx, Class{Name: nc.Name})
}

func (svc *Service) ListClasses(ctx context.Context) ([]Class, error) {
	return svc.repo.QueryClasses(ctx)
}

func (svc *Service) GetClass(ctx context.Context, id int64) (Class, error) {
	return svc.repo.GetClass(ctx, id)
}

// Students

func (svc *Service) AddStudent(ctx context.Context, ns NewStudent) (Student, error) {
	ns.Clean()
	if err := core.Validate.Struct(ns); err != nil {
		return Student{}, err
	}
	if _, err := svc.repo.GetClass(ctx, ns.ClassID); err != nil {
		return Student{}, err
	}
	return svc.repo.CreateStudent(ctx, Student{Name: ns.Name, ClassID: ns.ClassID})
}

// ImportStudents adds one student per non blank name to the class, all or none.
func (svc *Service) ImportStudents(ctx context.Context, classID int64, names []string) ([]Student, error) {
	cleaned := make([]string, 0, len(names))
	for _, name := range names {
		if name = core.CleanString(name); name != "" {
			cleaned = append(cleaned, name)
		}
	}
	if len(cleaned) == 0 {
		return nil, ErrNoStudentsToImport
	}
	if _, err := svc.repo.GetClass(ctx, classID); err != nil {
		return nil, err
	}

	students := make([]Student, 0, len(cleaned))
	err := core.RunInTx(ctx, svc.db, func(tx core.DBExecutor) error {
		for _, name := range cleaned {
			st, err := svc.repo.CreateStudent(ctx, Student{Name: name, ClassID: classID}, tx)
			if err != nil {
				return err
			}
			students = append(students, st)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	svc.logger.Info("students imported", map[string]interface{}{"class_id": classID, "count": len(students)})
	return students, nil
}

func (svc *Service) ListStudents(ctx context.Context, classID int64) ([]Student, error) {
	return svc.repo.QueryStudents(ctx, classID)
}

func (svc *Service) GetStudent(ctx context.Context, id int64) (Student, error) {
	return svc.repo.GetStudent(ctx, id)
}

func (svc *Service) RenameStudent(ctx context.Context, id int64, rs RenameStudent) error {
	rs.Name = core.CleanString(rs.Name)
	if err := core.Validate.Struct(rs); err != nil {
		return err
	}
	return svc.repo.UpdateStudentName(ctx, id, rs.Name)
}

func (svc *Service) DeleteStudent(ctx context.Context, id int64) error {
	return svc.repo.DeleteStudent(ctx, id)
}

// Assignments

func (svc *Service) AddAssignment(ctx context.Context, na NewAssignment) (Assignment, error) {
	na.Clean()
	if err := core.Validate.Struct(na); err != nil {
		return Assignment{}, err
	}
	if _, err := svc.repo.GetClass(ctx, na.ClassID); err != nil {
		return Assignment{}, err
	}
	return svc.repo.CreateAssignment(ctx, Assignment{
		ClassID:     na.ClassID,
		Name:        na.Name,
		DueDate:     na.DueDate,
		Description: na.Description,
	})
}

func (svc *Service) ListAssignments(ctx context.Context, classID int64) ([]Assignment, error) {
	return svc.repo.QueryAssignments(ctx, classID)
}

func (svc *Service) UpdateAssignment(ctx context.Context, id int64, ua UpdateAssignment) (Assignment, error) {
	ua.Clean()
	if err := core.Validate.Struct(ua); err != nil {
		return Assignment{}, err
	}

	var asg Assignment
	err := core.RunInTx(ctx, svc.db, func(tx core.DBExecutor) error {
		var err error
		if asg, err = svc.repo.GetAssignment(ctx, id, tx); err != nil {
			return err
		}
		asg.Name, asg.DueDate, asg.Description = ua.Name, ua.DueDate, ua.Description
		return svc.repo.UpdateAssignment(ctx, asg, tx)
	})
	if err != nil {
		return Assignment{}, err
	}
	return asg, nil
}

func (svc *Service) DeleteAssignment(ctx context.Context, id int64) error {
	return svc.repo.DeleteAssignment(ctx, id)
}

