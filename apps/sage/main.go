package main

import (
	"fmt"
	"os"

	"github.com/jmoiron/sqlx"
	"go.uber.org/dig"

	"github.com/sagedu/sage/core"
	logsvc "github.com/sagedu/sage/services/logger"
)

func main() {
	os.Exit(start(os.Args))
}

// start runs the command in args and returns the process exit code.
func start(args []string) int {
	c, err := newContainer(core.NewConfig)
	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		return 1
	}

	var code int
	err = c.Invoke(func(conf *core.Config, db *sqlx.DB, logger *logsvc.RollbarLogger, cli *commandLine) {
		defer logger.Close()
		defer func() { _ = db.Close() }()

		applyConfig(conf)

		if err := cli.run(args); err != nil {
			code = 1
			switch err {
			case errHelp:
			case errCancelled:
				fmt.Fprintln(os.Stderr, "cancelled")
			default:
				if core.Classify(err) == core.UnexpectedFailure {
					logger.Error(fmt.Sprintf("%s failed", args[1]), err)
				}
				fmt.Fprintln(os.Stderr, "error:", statusText(err))
			}
		}
	})
	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", statusText(dig.RootCause(err)))
		return 1
	}
	return code
}
