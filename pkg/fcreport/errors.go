package fcreport

import (
	"errors"
	"fmt"
	"strings"

	"github.com/ukaji3/fcreport-go/pkg/fcreport/models"
)

// ErrNoData indicates no sheet could be loaded from any input workbook.
var ErrNoData = errors.New("no data found")

// ErrLegacyFormat indicates a BIFF .xls workbook, which cannot be read.
var ErrLegacyFormat = errors.New("legacy .xls format is not supported")

// ErrEncrypted indicates a password-protected workbook opened without a password.
var ErrEncrypted = errors.New("workbook is password protected")

// LoadError represents a failure to read a workbook or one of its sheets.
type LoadError struct {
	File  string
	Sheet string // empty for workbook-level failures
	Err   error
}

func (e *LoadError) Error() string {
	if e.Sheet == "" {
		return fmt.Sprintf("load error in %q: %v", e.File, e.Err)
	}
	return fmt.Sprintf("load error in %q sheet %q: %v", e.File, e.Sheet, e.Err)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

// NoDataError is returned when zero sheets parsed. It carries the load report.
type NoDataError struct {
	Paths  []string
	Report models.LoadReport
}

func (e *NoDataError) Error() string {
	msg := fmt.Sprintf("%v in %s", ErrNoData, strings.Join(e.Paths, ", "))
	var problems []string
	for _, entry := range e.Report {
		if entry.Error != "" {
			problems = append(problems, entry.Error)
		}
	}
	if len(problems) > 0 {
		msg += ": " + strings.Join(problems, "; ")
	}
	return msg
}

func (e *NoDataError) Unwrap() error {
	return ErrNoData
}
