package main

import (
	"bufio"
	"errors"
	"flag"
	"fmt"
	"io"
	"strconv"
	"strings"
	"syscall"

	"github.com/jmoiron/sqlx"
	"go.uber.org/dig"
	"golang.org/x/term"

	"github.com/sagedu/sage/core"
	"github.com/sagedu/sage/core/attendance"
	"github.com/sagedu/sage/core/report"
	"github.com/sagedu/sage/core/school"
	"github.com/sagedu/sage/core/user"
)

var (
	readPasswordFunc = term.ReadPassword // mockable

	errHelp      = errors.New("help provided")
	errCancelled = errors.New("cancelled")
)

type commandLine struct {
	db        *sqlx.DB
	conf      *core.Config
	usrSvc    *user.Service
	schoolSvc *school.Service
	attSvc    *attendance.Service
	reportSvc *report.Service

	in  *bufio.Reader
	out io.Writer
}

type commandLineParams struct {
	dig.In

	DB        *sqlx.DB
	Conf      *core.Config
	UserSvc   *user.Service
	SchoolSvc *school.Service
	AttSvc    *attendance.Service
	ReportSvc *report.Service
	Stdin     io.Reader `name:"stdin"`
	Stdout    io.Writer `name:"stdout"`
}

func newCommandLine(p commandLineParams) *commandLine {
	return &commandLine{
		db:        p.DB,
		conf:      p.Conf,
		usrSvc:    p.UserSvc,
		schoolSvc: p.SchoolSvc,
		attSvc:    p.AttSvc,
		reportSvc: p.ReportSvc,
		in:        bufio.NewReader(p.Stdin),
		out:       p.Stdout,
	}
}

func (cli *commandLine) printUsage() {
	cli.println("Usage:")
	cli.println("  migrate COMMAND [ARGS]                          - run a goose command (up, down, status, ...)")
	cli.println("  register -name NAME -email EMAIL                - create a user; the password is prompted next")
	cli.println("  login -email EMAIL                              - check a user's credentials")
	cli.println("  passwd -email EMAIL                             - change a user's password")
	cli.println("  class add -name NAME | list")
	cli.println("  student add -class ID -name NAME | list -class ID | rename -id ID -name NAME | delete -id ID [-y]")
	cli.println("  student import -class ID -file PATH.csv|PATH.xlsx")
	cli.println("  lesson add -class ID -date DATE -topic TOPIC [-desc TEXT] [-present ID,ID,...]")
	cli.println("  lesson edit -id ID [-date DATE] [-topic TOPIC] [-desc TEXT] [-present ID,ID,...]")
	cli.println("  lesson delete -id ID [-y] | list -class ID | show -id ID")
	cli.println("  assignment add -class ID -name NAME -due DATE [-desc TEXT] | list -class ID")
	cli.println("  assignment edit -id ID -name NAME -due DATE [-desc TEXT] | delete -id ID [-y]")
	cli.println("  attendance -class ID                            - per student attendance summary")
	cli.println("  export -class ID [-format csv|xlsx] [-dir DIR]  - write the attendance report")
}

func (cli *commandLine) run(args []string) error {
	if len(args) < 2 {
		cli.printUsage()
		return errHelp
	}

	switch args[1] {
	case "migrate":
		if len(args) < 3 {
			cli.println("Usage: migrate up|up-by-one|up-to|down|down-to|redo|reset|status|version [ARGS]")
			return errHelp
		}
		return cli.migrate(args[2:])
	case "register":
		return cli.register(args[2:])
	case "login":
		return cli.login(args[2:])
	case "passwd":
		return cli.passwd(args[2:])
	case "class":
		return cli.class(args[2:])
	case "student":
		return cli.student(args[2:])
	case "lesson":
		return cli.lesson(args[2:])
	case "assignment":
		return cli.assignment(args[2:])
	case "attendance":
		return cli.attendance(args[2:])
	case "export":
		return cli.export(args[2:])
	default:
		cli.printUsage()
		return errHelp
	}
}

// helpers

func (cli *commandLine) println(a ...interface{}) {
	_, _ = fmt.Fprintln(cli.out, a...)
}

func (cli *commandLine) printf(format string, a ...interface{}) {
	_, _ = fmt.Fprintf(cli.out, format, a...)
}

func (cli *commandLine) flagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(cli.out)
	return fs
}

// parse parses args into fs. Required flags that were not given print the usage.
func (cli *commandLine) parse(fs *flag.FlagSet, args []string, required ...string) error {
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return errHelp
		}
		return err
	}
	for _, name := range required {
		if !isSet(fs, name) {
			cli.printf("missing -%s\n", name)
			fs.Usage()
			return errHelp
		}
	}
	return nil
}

func (cli *commandLine) readPassword(prompt string) (string, error) {
	cli.printf("%s: ", prompt)
	pwd, err := readPasswordFunc(int(syscall.Stdin))
	cli.println()
	if err != nil {
		return "", err
	}
	return string(pwd), nil
}

// confirm asks a yes/no question; anything but y/yes is a no.
func (cli *commandLine) confirm(question string, assumeYes bool) error {
	if assumeYes {
		return nil
	}
	cli.printf("%s [y/N] ", question)
	answer, err := cli.in.ReadString('\n')
	if err != nil && answer == "" {
		return errCancelled
	}
	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "y", "yes":
		return nil
	default:
		return errCancelled
	}
}

// parseIDs parses a comma separated list of IDs, eg. "1, 2,3".
func parseIDs(s string) (map[int64]bool, error) {
	ids := make(map[int64]bool)
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		id, err := strconv.ParseInt(part, 10, 64)
		if err != nil || id <= 0 {
			return nil, core.NewValidationError(nil, core.FieldError{Field: "present", Error: fmt.Sprintf("%q is not a student ID", part)})
		}
		ids[id] = true
	}
	return ids, nil
}
