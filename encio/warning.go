package encio

import (
	"sync/atomic"

	"go.uber.org/zap"
)

var logger atomic.Pointer[zap.Logger]

func init() {
	logger.Store(zap.NewNop())
}

// Logger returns the logger warnings are sent to.
// In many cases streams will continue to operate with e.g. a badly behaved io.Writer or an ignored unsupported operation,
// however I don't want to silently put up with things that seem worrying.
// It is a no-op logger until SetLogger is called.
func Logger() *zap.Logger {
	return logger.Load()
}

// SetLogger sets the logger returned by Logger. A nil l restores the no-op logger.
func SetLogger(l *zap.Logger) {
	if l == nil {
		l = zap.NewNop()
	}
	logger.Store(l)
}
