// Package logger is the central log for the module. Entries are tagged and
// kept in a bounded list rather than printed immediately; SetEcho() can be
// used to print them as they arrive.
//
// Logging is gated by a Permission. Use Allow for unconditional logging.
package logger

import "io"

const maxCentral = 256

var central *Logger

func init() {
	central = NewLogger(maxCentral)
}

// Log adds an entry to the central logger.
func Log(perm Permission, tag string, detail any) {
	central.Log(perm, tag, detail)
}

// Logf adds a formatted entry to the central logger.
func Logf(perm Permission, tag string, format string, args ...any) {
	central.Logf(perm, tag, format, args...)
}

// Clear the central logger.
func Clear() {
	central.Clear()
}

// Write the contents of the central logger to output.
func Write(output io.Writer) {
	central.Write(output)
}

// Tail writes the last number of entries of the central logger to output.
func Tail(output io.Writer, number int) {
	central.Tail(output, number)
}

// SetEcho prints new entries of the central logger to output.
func SetEcho(output io.Writer) {
	central.SetEcho(output)
}
