package main

import "github.com/sagedu/sage/storage/database"

var runMigrationFunc = database.RunMigration // mockable

func (cli *commandLine) migrate(args []string) error {
	return runMigrationFunc(cli.db, cli.out, args[0], args[1:]...)
}
