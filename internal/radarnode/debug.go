package radarnode

import (
	"io"
	"log"
)

var (
	opsLogger, diagLogger, traceLogger *log.Logger
)

// SetLogWriters routes this package's three log streams: ops
// (user-facing notices), diag (troubleshooting detail) and trace
// (per-sample verbosity). A nil writer disables that stream.
func SetLogWriters(ops, diag, trace io.Writer) {
	opsLogger = newLogger("[radarnode] ", ops)
	diagLogger = newLogger("[radarnode] ", diag)
	traceLogger = newLogger("[radarnode] ", trace)
}

// SetLegacyLogger routes all three streams to a single writer.
func SetLegacyLogger(w io.Writer) { SetLogWriters(w, w, w) }

func newLogger(prefix string, w io.Writer) *log.Logger {
	if w == nil {
		return nil
	}
	return log.New(w, prefix, log.LstdFlags|log.Lmicroseconds)
}

func opsf(format string, args ...interface{}) {
	if opsLogger != nil {
		opsLogger.Printf(format, args...)
	}
}

func diagf(format string, args ...interface{}) {
	if diagLogger != nil {
		diagLogger.Printf(format, args...)
	}
}

func tracef(format string, args ...interface{}) {
	if traceLogger != nil {
		traceLogger.Printf(format, args...)
	}
}
