package convention

import "github.com/jra3/tdb/internal/errs"

// Record would derive a Convention from an interactive recording
// session. It is parsed at the CLI layer but not implemented here.
func Record(args []string) error {
	return errs.New("convention.Record", errs.KindNotImplemented, nil)
}
