package test

import "sync"

// CompareWriter is an io.Writer that records everything written to it. Safe
// for concurrent use.
type CompareWriter struct {
	mu     sync.Mutex
	buffer []byte
}

func (tw *CompareWriter) Write(p []byte) (n int, err error) {
	tw.mu.Lock()
	defer tw.mu.Unlock()
	tw.buffer = append(tw.buffer, p...)
	return len(p), nil
}

// Clear the buffer.
func (tw *CompareWriter) Clear() {
	tw.mu.Lock()
	defer tw.mu.Unlock()
	tw.buffer = tw.buffer[:0]
}

// Compare buffered output with s.
func (tw *CompareWriter) Compare(s string) bool {
	return s == tw.String()
}

func (tw *CompareWriter) String() string {
	tw.mu.Lock()
	defer tw.mu.Unlock()
	return string(tw.buffer)
}
