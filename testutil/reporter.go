package testutil

import (
	"fmt"
	"sync"
)

// Abort is the panic value of Reporter.Fatalf.
type Abort struct {
	Message string
}

func (a Abort) String() string { return a.Message }

// Reporter records failures reported by the mock node. Fatalf panics with an
// Abort so aborts can be caught with Catch.
type Reporter struct {
	mu     sync.Mutex
	errors []string
	fatals []string
}

func (r *Reporter) Errorf(format string, args ...any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.errors = append(r.errors, fmt.Sprintf(format, args...))
}

func (r *Reporter) Fatalf(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	r.mu.Lock()
	r.fatals = append(r.fatals, msg)
	r.mu.Unlock()
	panic(Abort{Message: msg})
}

func (r *Reporter) Helper() {}

// Errors returns the messages passed to Errorf.
func (r *Reporter) Errors() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.errors...)
}

// Fatals returns the messages passed to Fatalf.
func (r *Reporter) Fatals() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.fatals...)
}

// Catch runs fn and returns the message of the abort it raised, or "" when
// fn returned normally. Other panics are re-raised.
func Catch(fn func()) (msg string) {
	defer func() {
		if r := recover(); r != nil {
			abort, ok := r.(Abort)
			if !ok {
				panic(r)
			}
			msg = abort.Message
		}
	}()
	fn()
	return ""
}
