// Package goroutine launches background work that must never take the process down.
package goroutine

import (
	"fmt"
	"runtime/debug"

	"github.com/Saaayurii/Chat-sub000/internal/shared/logger"
)

// SafeGo runs fn in a new goroutine; a panic is logged with its stack instead of crashing.
func SafeGo(log logger.Interface, name string, fn func()) {
	go Run(log, name, fn)
}

// Run calls fn on the current goroutine with the same panic guard as SafeGo.
func Run(log logger.Interface, name string, fn func()) {
	defer func() {
		if r := recover(); r != nil {
			log.Errorw("goroutine panicked",
				"goroutine", name,
				"panic", fmt.Sprintf("%v", r),
				"stack", string(debug.Stack()),
			)
		}
	}()
	fn()
}
