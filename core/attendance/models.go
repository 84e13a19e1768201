package attendance

import "github.com/sagedu/sage/core"

// Lesson is a single dated class session (an "aula"). Date is free text, eg. "12/05/2024".
type Lesson struct {
	ID          int64  `json:"id"`
	ClassID     int64  `json:"class_id"`
	Date        string `json:"date"`
	Topic       string `json:"topic"`
	Description string `json:"description"`
}

// Mark is the presence of one student in one lesson.
type Mark struct {
	StudentID   int64  `json:"student_id" validate:"required,gt=0"`
	StudentName string `json:"student_name,omitempty"`
	Present     bool   `json:"present"`
}

type NewLesson struct {
	ClassID     int64  `json:"class_id" validate:"required,gt=0"`
	Date        string `json:"date" validate:"notblank"`
	Topic       string `json:"topic" validate:"notblank"`
	Description string `json:"description"`
	Roster      []Mark `json:"roster" validate:"required,min=1,dive"`
}

func (nl *NewLesson) Clean() {
	nl.Date = core.CleanString(nl.Date)
	nl.Topic = core.CleanString(nl.Topic)
	nl.Description = core.CleanString(nl.Description)
}

// UpdateLesson replaces the lesson fields; roster marks are upserted by student.
type UpdateLesson struct {
	Date        string `json:"date" validate:"notblank"`
	Topic       string `json:"topic" validate:"notblank"`
	Description string `json:"description"`
	Roster      []Mark `json:"roster" validate:"dive"`
}

func (ul *UpdateLesson) Clean() {
	ul.Date = core.CleanString(ul.Date)
	ul.Topic = core.CleanString(ul.Topic)
	ul.Description = core.CleanString(ul.Description)
}

// Record is one row of the per class attendance query: a student and, unless the
// student has no attendance at all, one of its lesson marks.
type Record struct {
	StudentID   int64
	StudentName string
	HasLesson   bool
	Date        string
	Present     bool
}

// DayRecord is the presence of a student on a lesson date.
type DayRecord struct {
	Date    string `json:"date"`
	Present bool   `json:"present"`
}

// StudentSummary is the attendance of one student of a class, most recent lesson first.
type StudentSummary struct {
	StudentID int64       `json:"student_id"`
	Name      string      `json:"name"`
	Present   int         `json:"present"`
	Absent    int         `json:"absent"`
	Records   []DayRecord `json:"records"`
}

func (s StudentSummary) Total() int { return len(s.Records) }
