package logger

import "context"

// LoggerInterface is what pipeline components accept, so tests can pass Nop().
type LoggerInterface interface {
	DebugwCtx(context.Context, string, ...any)
	InfowCtx(context.Context, string, ...any)
	WarnwCtx(context.Context, string, ...any)
	ErrorwCtx(context.Context, string, ...any)

	With(...any) LoggerInterface
	SafeSync()
}
