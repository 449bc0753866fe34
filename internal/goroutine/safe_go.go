package goroutine

import (
	"fmt"
	"runtime/debug"

	"github.com/swim360/swim360-backend/internal/logger"
)

// SafeGo запускает горутину и не даёт panic в ней уронить процесс.
// Panic логируется вместе со стеком.
func SafeGo(fn func()) {
	go func() {
		defer func() {
			if r := recover(); r != nil {
				if logger.Log != nil {
					logger.Log.Errorf("goroutine: panic: %v\n%s", r, debug.Stack())
				} else {
					fmt.Printf("[ERROR] goroutine: panic: %v\n%s\n", r, debug.Stack())
				}
			}
		}()
		fn()
	}()
}
