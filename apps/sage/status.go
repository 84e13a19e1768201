package main

import (
	"strings"

	"github.com/pkg/errors"

	"github.com/sagedu/sage/core"
)

// statusText turns err into the message shown to the user.
func statusText(err error) string {
	switch core.Classify(err) {
	case core.ValidationFailure:
		flds := core.TranslateValidationErrors(err)
		msgs := make([]string, 0, len(flds))
		for _, fld := range flds {
			if fld.Field == "" {
				msgs = append(msgs, fld.Error)
			} else {
				msgs = append(msgs, fld.Field+": "+fld.Error)
			}
		}
		return "invalid input: " + strings.Join(msgs, "; ")
	case core.ConnectionFailure:
		return "database unavailable: check that the file exists, is readable and is not locked by another program"
	case core.DuplicateKey:
		var dbErr *core.DBError
		if errors.As(err, &dbErr) && dbErr.Msg != "" {
			return dbErr.Msg
		}
		return "this record already exists"
	case core.EmptyDataset:
		return "no attendance recorded for this class, nothing to export"
	case core.NotFound:
		return err.Error()
	default:
		return "unexpected error: " + err.Error()
	}
}
