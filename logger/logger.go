package logger

import (
	"os"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"
)

var (
	current atomic.Pointer[zap.SugaredLogger]
	once    sync.Once
)

// Init builds the global logger. ENV=production selects the JSON production
// encoder, anything else the colored development one.
func Init() {
	once.Do(func() {
		var (
			base *zap.Logger
			err  error
		)
		if os.Getenv("ENV") == "production" {
			base, err = zap.NewProduction()
		} else {
			base, err = zap.NewDevelopment()
		}
		if err != nil {
			panic("failed to initialize logger: " + err.Error())
		}
		current.Store(base.Sugar())
	})
}

// L returns the global logger instance
func L() *zap.SugaredLogger {
	Init()
	return current.Load()
}

// Replace swaps the global logger and returns a func restoring the previous one.
func Replace(l *zap.Logger) func() {
	Init()
	prev := current.Swap(l.Sugar())
	return func() { current.Store(prev) }
}

// Sync flushes buffered entries. Call before exit.
func Sync() {
	_ = L().Sync()
}

func Info(msg string, keysAndValues ...any) {
	L().Infow(msg, keysAndValues...)
}

func Warn(msg string, keysAndValues ...any) {
	L().Warnw(msg, keysAndValues...)
}

func Error(msg string, keysAndValues ...any) {
	L().Errorw(msg, keysAndValues...)
}

func Debug(msg string, keysAndValues ...any) {
	L().Debugw(msg, keysAndValues...)
}

func Fatal(msg string, keysAndValues ...any) {
	L().Fatalw(msg, keysAndValues...)
}
