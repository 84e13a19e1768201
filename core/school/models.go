package school

import "github.com/sagedu/sage/core"

// Class is a cohort of students (a "turma").
type Class struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type NewClass struct {
	Name string `json:"name" validate:"notblank"`
}

func (nc *NewClass) Clean() { nc.Name = core.CleanString(nc.Name) }

// Student belongs to at most one Class; ClassID is 0 when it belongs to none.
type Student struct {
	ID      int64  `json:"id"`
	Name    string `json:"name"`
	ClassID int64  `json:"class_id"`
}

type NewStudent struct {
	Name    string `json:"name" validate:"notblank"`
	ClassID int64  `json:"class_id" validate:"required,gt=0"`
}

func (ns *NewStudent) Clean() { ns.Name = core.CleanString(ns.Name) }

type RenameStudent struct {
	Name string `json:"name" validate:"notblank"`
}

// Assignment is a gradable task with a due date (an "atividade").
type Assignment struct {
	ID          int64  `json:"id"`
	ClassID     int64  `json:"class_id"`
	Name        string `json:"name"`
	DueDate     string `json:"due_date"`
	Description string `json:"description"`
}

type NewAssignment struct {
	ClassID     int64  `json:"class_id" validate:"required,gt=0"`
	Name        string `json:"name" validate:"notblank"`
	DueDate     string `json:"due_date" validate:"notblank"`
	Description string `json:"description"`
}

func (na *NewAssignment) Clean() {
	na.Name = core.CleanString(na.Name)
	na.DueDate = core.CleanString(na.DueDate)
	na.Description = core.CleanString(na.Description)
}

type UpdateAssignment struct {
	Name        string `json:"name" validate:"notblank"`
	DueDate     string `json:"due_date" validate:"notblank"`
	Description string `json:"description"`
}

func (ua *UpdateAssignment) Clean() {
	ua.Name = core.CleanString(ua.Name)
	ua.DueDate = core.CleanString(ua.DueDate)
	ua.Description = core.CleanString(ua.Description)
}
