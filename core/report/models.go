package report

const (
	StatusPresent = "Presente"
	StatusAbsent  = "Ausente"
)

// Header is the first row of every exported report.
var Header = []string{"data", "tema", "nome", "status"}

// Row is one (lesson, student) attendance line of a report.
type Row struct {
	Date        string `json:"date"`
	Topic       string `json:"topic"`
	StudentName string `json:"student_name"`
	Present     bool   `json:"present"`
}

func (r Row) Status() string {
	if r.Present {
		return StatusPresent
	}
	return StatusAbsent
}

func (r Row) Values() []string {
	return []string{r.Date, r.Topic, r.StudentName, r.Status()}
}
