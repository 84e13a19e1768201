package main

import (
	"context"
	"fmt"
	"text/tabwriter"

	"github.com/sagedu/sage/core/school"
	"github.com/sagedu/sage/services/spreadsheet"
)

func (cli *commandLine) table(header string, lines func(w *tabwriter.Writer)) {
	w := tabwriter.NewWriter(cli.out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, header)
	lines(w)
	_ = w.Flush()
}

func (cli *commandLine) class(args []string) error {
	ctx := context.Background()
	if len(args) == 0 {
		cli.println("Usage: class add -name NAME | list")
		return errHelp
	}

	switch args[0] {
	case "add":
		cmd := cli.flagSet("class add")
		name := cmd.String("name", "", "The class name.")
		if err := cli.parse(cmd, args[1:], "name"); err != nil {
			return err
		}
		cls, err := cli.schoolSvc.CreateClass(ctx, school.NewClass{Name: *name})
		if err != nil {
			return err
		}
		cli.printf("class %d %q created\n", cls.ID, cls.Name)
		return nil

	case "list":
		classes, err := cli.schoolSvc.ListClasses(ctx)
		if err != nil {
			return err
		}
		if len(classes) == 0 {
			cli.println("no classes")
			return nil
		}
		cli.table("ID\tNAME", func(w *tabwriter.Writer) {
			for _, cls := range classes {
				_, _ = fmt.Fprintf(w, "%d\t%s\n", cls.ID, cls.Name)
			}
		})
		return nil

	default:
		cli.println("Usage: class add -name NAME | list")
		return errHelp
	}
}

func (cli *commandLine) student(args []string) error {
	ctx := context.Background()
	usage := "Usage: student add|list|rename|delete|import [FLAGS]"
	if len(args) == 0 {
		cli.println(usage)
		return errHelp
	}

	cmd := cli.flagSet("student " + args[0])
	classID := cmd.Int64("class", 0, "The class ID.")
	id := cmd.Int64("id", 0, "The student ID.")
	name := cmd.String("name", "", "The student name.")
	file := cmd.String("file", "", "A .csv or .xlsx file listing one student name per row, after a header row.")
	yes := cmd.Bool("y", false, "Do not ask for confirmation.")

	switch args[0] {
	case "add":
		if err := cli.parse(cmd, args[1:], "class", "name"); err != nil {
			return err
		}
		st, err := cli.schoolSvc.AddStudent(ctx, school.NewStudent{Name: *name, ClassID: *classID})
		if err != nil {
			return err
		}
		cli.printf("student %d %q added\n", st.ID, st.Name)
		return nil

	case "list":
		if err := cli.parse(cmd, args[1:], "class"); err != nil {
			return err
		}
		if _, err := cli.schoolSvc.GetClass(ctx, *classID); err != nil {
			return err
		}
		students, err := cli.schoolSvc.ListStudents(ctx, *classID)
		if err != nil {
			return err
		}
		if len(students) == 0 {
			cli.println("no students")
			return nil
		}
		cli.table("ID\tNAME", func(w *tabwriter.Writer) {
			for _, st := range students {
				_, _ = fmt.Fprintf(w, "%d\t%s\n", st.ID, st.Name)
			}
		})
		return nil

	case "rename":
		if err := cli.parse(cmd, args[1:], "id", "name"); err != nil {
			return err
		}
		if err := cli.schoolSvc.RenameStudent(ctx, *id, school.RenameStudent{Name: *name}); err != nil {
			return err
		}
		cli.println("student renamed")
		return nil

	case "delete":
		if err := cli.parse(cmd, args[1:], "id"); err != nil {
			return err
		}
		st, err := cli.schoolSvc.GetStudent(ctx, *id)
		if err != nil {
			return err
		}
		if err = cli.confirm(fmt.Sprintf("Delete student %q and all of their attendance?", st.Name), *yes); err != nil {
			return err
		}
		if err = cli.schoolSvc.DeleteStudent(ctx, st.ID); err != nil {
			return err
		}
		cli.println("student deleted")
		return nil

	case "import":
		if err := cli.parse(cmd, args[1:], "class", "file"); err != nil {
			return err
		}
		names, err := spreadsheet.ReadNames(*file)
		if err != nil {
			return err
		}
		students, err := cli.schoolSvc.ImportStudents(ctx, *classID, names)
		if err != nil {
			return err
		}
		cli.printf("%d students imported\n", len(students))
		return nil

	default:
		cli.println(usage)
		return errHelp
	}
}

func (cli *commandLine) assignment(args []string) error {
	ctx := context.Background()
	usage := "Usage: assignment add|list|edit|delete [FLAGS]"
	if len(args) == 0 {
		cli.println(usage)
		return errHelp
	}

	cmd := cli.flagSet("assignment " + args[0])
	classID := cmd.Int64("class", 0, "The class ID.")
	id := cmd.Int64("id", 0, "The assignment ID.")
	name := cmd.String("name", "", "The assignment name.")
	due := cmd.String("due", "", "The due date, eg. 20/05/2024.")
	desc := cmd.String("desc", "", "An optional description.")
	yes := cmd.Bool("y", false, "Do not ask for confirmation.")

	switch args[0] {
	case "add":
		if err := cli.parse(cmd, args[1:], "class", "name", "due"); err != nil {
			return err
		}
		asg, err := cli.schoolSvc.AddAssignment(ctx, school.NewAssignment{
			ClassID:     *classID,
			Name:        *name,
			DueDate:     *due,
			Description: *desc,
		})
		if err != nil {
			return err
		}
		cli.printf("assignment %d %q added\n", asg.ID, asg.Name)
		return nil

	case "list":
		if err := cli.parse(cmd, args[1:], "class"); err != nil {
			return err
		}
		assignments, err := cli.schoolSvc.ListAssignments(ctx, *classID)
		if err != nil {
			return err
		}
		if len(assignments) == 0 {
			cli.println("no assignments")
			return nil
		}
		cli.table("ID\tDUE\tNAME\tDESCRIPTION", func(w *tabwriter.Writer) {
			for _, asg := range assignments {
				_, _ = fmt.Fprintf(w, "%d\t%s\t%s\t%s\n", asg.ID, asg.DueDate, asg.Name, asg.Description)
			}
		})
		return nil

	case "edit":
		if err := cli.parse(cmd, args[1:], "id", "name", "due"); err != nil {
			return err
		}
		asg, err := cli.schoolSvc.UpdateAssignment(ctx, *id, school.UpdateAssignment{
			Name:        *name,
			DueDate:     *due,
			Description: *desc,
		})
		if err != nil {
			return err
		}
		cli.printf("assignment %d updated\n", asg.ID)
		return nil

	case "delete":
		if err := cli.parse(cmd, args[1:], "id"); err != nil {
			return err
		}
		if err := cli.confirm("Delete this assignment?", *yes); err != nil {
			return err
		}
		if err := cli.schoolSvc.DeleteAssignment(ctx, *id); err != nil {
			return err
		}
		cli.println("assignment deleted")
		return nil

	default:
		cli.println(usage)
		return errHelp
	}
}
