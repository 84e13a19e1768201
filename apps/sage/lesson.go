package main

import (
	"context"
	"flag"
	"fmt"
	"sort"
	"text/tabwriter"

	"github.com/sagedu/sage/core"
	"github.com/sagedu/sage/core/attendance"
	"github.com/sagedu/sage/core/report"
)

func presence(present bool) string {
	if present {
		return report.StatusPresent
	}
	return report.StatusAbsent
}

// roster marks every student of the class, present when listed in presentIDs.
func (cli *commandLine) roster(ctx context.Context, classID int64, presentIDs string) ([]attendance.Mark, error) {
	present, err := parseIDs(presentIDs)
	if err != nil {
		return nil, err
	}
	students, err := cli.schoolSvc.ListStudents(ctx, classID)
	if err != nil {
		return nil, err
	}
	marks := make([]attendance.Mark, 0, len(students))
	for _, st := range students {
		marks = append(marks, attendance.Mark{StudentID: st.ID, StudentName: st.Name, Present: present[st.ID]})
		delete(present, st.ID)
	}
	if len(present) > 0 {
		strangers := make([]int64, 0, len(present))
		for id := range present {
			strangers = append(strangers, id)
		}
		sort.Slice(strangers, func(i, j int) bool { return strangers[i] < strangers[j] })
		return nil, core.NewValidationError(nil, core.FieldError{
			Field: "present",
			Error: fmt.Sprintf("students %v are not in class %d", strangers, classID),
		})
	}
	return marks, nil
}

func (cli *commandLine) lesson(args []string) error {
	ctx := context.Background()
	usage := "Usage: lesson add|edit|delete|list|show [FLAGS]"
	if len(args) == 0 {
		cli.println(usage)
		return errHelp
	}

	cmd := cli.flagSet("lesson " + args[0])
	classID := cmd.Int64("class", 0, "The class ID.")
	id := cmd.Int64("id", 0, "The lesson ID.")
	date := cmd.String("date", "", "The lesson date, eg. 12/05/2024.")
	topic := cmd.String("topic", "", "The lesson topic.")
	desc := cmd.String("desc", "", "An optional description.")
	present := cmd.String("present", "", "Comma separated IDs of the students present; the others are absent.")
	yes := cmd.Bool("y", false, "Do not ask for confirmation.")

	switch args[0] {
	case "add":
		if err := cli.parse(cmd, args[1:], "class", "date", "topic"); err != nil {
			return err
		}
		if _, err := cli.schoolSvc.GetClass(ctx, *classID); err != nil {
			return err
		}
		marks, err := cli.roster(ctx, *classID, *present)
		if err != nil {
			return err
		}
		lesson, err := cli.attSvc.RecordLesson(ctx, attendance.NewLesson{
			ClassID:     *classID,
			Date:        *date,
			Topic:       *topic,
			Description: *desc,
			Roster:      marks,
		})
		if err != nil {
			return err
		}
		cli.printf("lesson %d recorded with %d students\n", lesson.ID, len(marks))
		return nil

	case "edit":
		if err := cli.parse(cmd, args[1:], "id"); err != nil {
			return err
		}
		current, _, err := cli.attSvc.LessonRoster(ctx, *id)
		if err != nil {
			return err
		}
		ul := attendance.UpdateLesson{Date: current.Date, Topic: current.Topic, Description: current.Description}
		cmd.Visit(func(f *flag.Flag) {
			switch f.Name {
			case "date":
				ul.Date = *date
			case "topic":
				ul.Topic = *topic
			case "desc":
				ul.Description = *desc
			}
		})
		if isSet(cmd, "present") {
			if ul.Roster, err = cli.roster(ctx, current.ClassID, *present); err != nil {
				return err
			}
		}
		if _, err = cli.attSvc.UpdateLesson(ctx, *id, ul); err != nil {
			return err
		}
		cli.println("lesson updated")
		return nil

	case "delete":
		if err := cli.parse(cmd, args[1:], "id"); err != nil {
			return err
		}
		lesson, _, err := cli.attSvc.LessonRoster(ctx, *id)
		if err != nil {
			return err
		}
		question := fmt.Sprintf("Delete the lesson of %s (%s) and its attendance?", lesson.Date, lesson.Topic)
		if err = cli.confirm(question, *yes); err != nil {
			return err
		}
		if err = cli.attSvc.DeleteLesson(ctx, lesson.ID); err != nil {
			return err
		}
		cli.println("lesson deleted")
		return nil

	case "list":
		if err := cli.parse(cmd, args[1:], "class"); err != nil {
			return err
		}
		lessons, err := cli.attSvc.ListLessons(ctx, *classID)
		if err != nil {
			return err
		}
		if len(lessons) == 0 {
			cli.println("no lessons")
			return nil
		}
		cli.table("ID\tDATE\tTOPIC\tDESCRIPTION", func(w *tabwriter.Writer) {
			for _, l := range lessons {
				_, _ = fmt.Fprintf(w, "%d\t%s\t%s\t%s\n", l.ID, l.Date, l.Topic, l.Description)
			}
		})
		return nil

	case "show":
		if err := cli.parse(cmd, args[1:], "id"); err != nil {
			return err
		}
		lesson, marks, err := cli.attSvc.LessonRoster(ctx, *id)
		if err != nil {
			return err
		}
		cli.printf("%s - %s\n", lesson.Date, lesson.Topic)
		if lesson.Description != "" {
			cli.println(lesson.Description)
		}
		cli.table("ID\tSTUDENT\tSTATUS", func(w *tabwriter.Writer) {
			for _, m := range marks {
				_, _ = fmt.Fprintf(w, "%d\t%s\t%s\n", m.StudentID, m.StudentName, presence(m.Present))
			}
		})
		return nil

	default:
		cli.println(usage)
		return errHelp
	}
}

func (cli *commandLine) attendance(args []string) error {
	ctx := context.Background()
	cmd := cli.flagSet("attendance")
	classID := cmd.Int64("class", 0, "The class ID.")
	if err := cli.parse(cmd, args, "class"); err != nil {
		return err
	}

	cls, err := cli.schoolSvc.GetClass(ctx, *classID)
	if err != nil {
		return err
	}
	summaries, err := cli.attSvc.Summarize(ctx, cls.ID)
	if err != nil {
		return err
	}
	if len(summaries) == 0 {
		cli.printf("no students in %s\n", cls.Name)
		return nil
	}

	cli.table("ID\tSTUDENT\tPRESENT\tABSENT\tLESSONS", func(w *tabwriter.Writer) {
		for _, s := range summaries {
			_, _ = fmt.Fprintf(w, "%d\t%s\t%d\t%d\t%d\n", s.StudentID, s.Name, s.Present, s.Absent, s.Total())
		}
	})
	for _, s := range summaries {
		if s.Total() == 0 {
			continue
		}
		cli.printf("\n%s\n", s.Name)
		for _, rec := range s.Records {
			cli.printf("  %s  %s\n", rec.Date, presence(rec.Present))
		}
	}
	return nil
}

func (cli *commandLine) export(args []string) error {
	cmd := cli.flagSet("export")
	classID := cmd.Int64("class", 0, "The class ID.")
	format := cmd.String("format", cli.conf.Export.Format, "The report format: csv or xlsx.")
	dir := cmd.String("dir", cli.conf.Export.Dir, "The directory the report is written to.")
	if err := cli.parse(cmd, args, "class"); err != nil {
		return err
	}

	path, err := cli.reportSvc.Export(context.Background(), *classID, *dir, *format)
	if err != nil {
		return err
	}
	cli.printf("report written to %s\n", path)
	return nil
}

func isSet(fs *flag.FlagSet, name string) bool {
	var set bool
	fs.Visit(func(f *flag.Flag) {
		if f.Name == name {
			set = true
		}
	})
	return set
}
