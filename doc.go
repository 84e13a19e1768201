/*
	Project: SAGE - school attendance and grade bookkeeping for secondary school teachers.

	The command line lives in apps/sage. Domain services are under core/ and the
	SQLite storage under storage/database.
*/
package sage
