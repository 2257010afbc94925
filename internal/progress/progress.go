// Package progress provides the package-level diagnostic logger and the
// advisory progress reporting used by long-running map computations.
package progress

import (
	"fmt"
	"io"
	"log"
	"strings"
)

// Logf is the package-level diagnostic logger. It defaults to log.Printf but
// may be replaced by SetLogger. Tests or production code can redirect or mute it.
var Logf func(format string, v ...interface{}) = log.Printf

// SetLogger replaces the package logger. Passing nil will set a no-op logger.
func SetLogger(f func(format string, v ...interface{})) {
	if f == nil {
		Logf = func(string, ...interface{}) {}
		return
	}
	Logf = f
}

// Reporter receives a completion fraction in [0, 1]. Reporters are advisory:
// they must be cheap and must not influence results.
type Reporter func(fraction float64)

// Report invokes r if non-nil, clamping the fraction into [0, 1].
func Report(r Reporter, fraction float64) {
	if r == nil {
		return
	}
	if fraction < 0 {
		fraction = 0
	} else if fraction > 1 {
		fraction = 1
	}
	r(fraction)
}

// Bar returns a Reporter that renders a terminal progress bar to w, of the
// given width in characters. The bar redraws in place using carriage returns.
func Bar(w io.Writer, width int) Reporter {
	if width < 4 {
		width = 4
	}
	return func(fraction float64) {
		if fraction < 0 {
			fraction = 0
		} else if fraction > 1 {
			fraction = 1
		}
		filled := int(fraction * float64(width))
		bar := strings.Repeat("#", filled) + strings.Repeat("-", width-filled)
		fmt.Fprintf(w, "\r[%s] %3.0f%%", bar, fraction*100)
		if fraction >= 1 {
			fmt.Fprintln(w)
		}
	}
}
