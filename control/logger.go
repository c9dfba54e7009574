// control/logger.go
// Author: momentics <momentics@gmail.com>
//
// Package-wide structured logger. Silent until SetLogger is called.

package control

import (
	"sync/atomic"

	"go.uber.org/zap"
)

var logger atomic.Pointer[zap.Logger]

func init() {
	logger.Store(zap.NewNop())
}

// Logger returns the runtime logger.
func Logger() *zap.Logger {
	return logger.Load()
}

// SetLogger installs l as the runtime logger. A nil logger restores the no-op one.
// Components that already derived a named logger keep the old one.
func SetLogger(l *zap.Logger) {
	if l == nil {
		l = zap.NewNop()
	}
	logger.Store(l)
}
