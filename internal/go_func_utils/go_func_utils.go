package go_func_utils

import (
	"fmt"
	"log"
	"runtime/debug"
)

// SafeGo runs fn on a new goroutine. A panic is written to logger with its
// stack before being re-raised, so it is not lost behind the terminal UI.
func SafeGo(logger *log.Logger, fn func()) {
	go func() {
		defer func() {
			if r := recover(); r != nil {
				logger.Printf("PANIC: %v\n%s", r, debug.Stack())
				panic(r)
			}
		}()
		fn()
	}()
}

// SafeCall runs fn on the caller's goroutine and converts both a returned
// error and a panic into a logged error. Collaborators such as audio,
// vibration and notification backends go through here so a broken backend
// never interrupts the workout loop.
func SafeCall(logger *log.Logger, what string, fn func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%s: panic: %v", what, r)
			logger.Printf("PANIC in %s: %v\n%s", what, r, debug.Stack())
		}
	}()
	if err = fn(); err != nil {
		logger.Printf("%s failed: %v", what, err)
	}
	return err
}
