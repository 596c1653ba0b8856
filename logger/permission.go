package logger

// Permission decides whether a log entry should be recorded.
type Permission interface {
	AllowLogging() bool
}

type allow struct{}

func (_ allow) AllowLogging() bool {
	return true
}

// Allow permits logging unconditionally.
var Allow Permission = allow{}

// Verbose is a Permission that allows logging when true.
type Verbose bool

func (v Verbose) AllowLogging() bool {
	return bool(v)
}
