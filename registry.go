package gamepads

import (
	"sort"
	"sync"
)

// Registry holds the last observed value of every tracked command. A code
// that was never registered is absent, which is not the same as a zero value.
//
// Registry is safe for concurrent use.
type Registry struct {
	sync.RWMutex
	values map[Code]int
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		values: make(map[Code]int),
	}
}

// Register starts tracking code with the given default value. If the code is
// already tracked its value is left untouched and ErrCommandExists is
// returned.
func (r *Registry) Register(code Code, def int) error {
	r.Lock()
	defer r.Unlock()
	if _, ok := r.values[code]; ok {
		return ErrCommandExists
	}
	r.values[code] = def
	return nil
}

// Unregister stops tracking code. Returns ErrCommandNotFound if the code was
// not tracked.
func (r *Registry) Unregister(code Code) error {
	r.Lock()
	defer r.Unlock()
	if _, ok := r.values[code]; !ok {
		return ErrCommandNotFound
	}
	delete(r.values, code)
	return nil
}

// Update overwrites the value of a tracked code. Returns false, without
// changing anything, if the code is not tracked.
func (r *Registry) Update(code Code, value int) bool {
	r.Lock()
	defer r.Unlock()
	if _, ok := r.values[code]; !ok {
		return false
	}
	r.values[code] = value
	return true
}

// Value returns the current value of code. The second return value is false
// if the code is not tracked.
func (r *Registry) Value(code Code) (int, bool) {
	r.RLock()
	defer r.RUnlock()
	v, ok := r.values[code]
	return v, ok
}

// Len returns the number of tracked codes.
func (r *Registry) Len() int {
	r.RLock()
	defer r.RUnlock()
	return len(r.values)
}

// Codes returns the tracked codes in sorted order.
func (r *Registry) Codes() []Code {
	r.RLock()
	codes := make([]Code, 0, len(r.values))
	for c := range r.values {
		codes = append(codes, c)
	}
	r.RUnlock()

	sort.Slice(codes, func(i, j int) bool {
		return codes[i] < codes[j]
	})
	return codes
}

// Snapshot returns a copy of every tracked code and its value.
func (r *Registry) Snapshot() map[Code]int {
	r.RLock()
	defer r.RUnlock()
	s := make(map[Code]int, len(r.values))
	for c, v := range r.values {
		s[c] = v
	}
	return s
}
