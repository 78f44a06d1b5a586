// Package multierr collects the errors of a batch of independent steps, so
// that one bad entry doesn't stop the rest
package multierr

import (
	"fmt"
	"strings"
)

type Err []error

func (me Err) Error() string {
	var builder strings.Builder
	fmt.Fprintf(&builder, "%d error(s):", len(me))
	for _, err := range me {
		builder.WriteString("\n  ")
		builder.WriteString(err.Error())
	}
	return builder.String()
}

func (me Err) Unwrap() []error {
	return me
}

func (me Err) Len() int {
	return len(me)
}

func (me *Err) Add(err error) {
	if err == nil {
		return
	}
	*me = append(*me, err)
}

// Addf adds an error with context, in the manner of fmt.Errorf
func (me *Err) Addf(format string, a ...interface{}) {
	me.Add(fmt.Errorf(format, a...))
}

// ErrorOrNil returns nil when nothing was added, to avoid a typed nil in an
// error interface
func (me Err) ErrorOrNil() error {
	if len(me) == 0 {
		return nil
	}
	return me
}
