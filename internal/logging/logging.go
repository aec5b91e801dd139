// Package logging builds the loggers handed to every component.
package logging

import (
	"io"
	"log"
	"os"

	"gopkg.in/natefinch/lumberjack.v2"
)

// New returns a logger with the given prefix. When file is non-empty, log
// output goes to a size-rotated file; otherwise to stderr.
func New(prefix, file string) *log.Logger {
	var w io.Writer = os.Stderr
	if file != "" {
		w = &lumberjack.Logger{
			Filename:   file,
			MaxSize:    10, // megabytes
			MaxBackups: 3,
			MaxAge:     30, // days
			Compress:   true,
		}
	}
	return log.New(w, prefix, log.LstdFlags)
}
