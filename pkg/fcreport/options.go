// Package fcreport loads simulation workbooks into one unified table and builds
// the per-domain KPI dashboard over it.
package fcreport

import (
	"io"

	"github.com/charmbracelet/log"
	"github.com/ukaji3/fcreport-go/pkg/fcreport/parser"
)

// Options configures loading behavior.
type Options struct {
	// Password opens password-protected workbooks.
	Password string
	// UsePrintAreas clips each sheet to its print area when it defines one.
	UsePrintAreas bool
	// Region tunes table region detection.
	Region parser.RegionParams
	// Logger receives load diagnostics. If nil, diagnostics are discarded.
	Logger *log.Logger
}

// DefaultOptions returns default load options.
func DefaultOptions() Options {
	return Options{
		Region: parser.DefaultRegionParams(),
	}
}

func (o Options) logger() *log.Logger {
	if o.Logger != nil {
		return o.Logger
	}
	return log.New(io.Discard)
}
