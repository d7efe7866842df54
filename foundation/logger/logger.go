package logger

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type ctxKey string

const (
	batchIDKey ctxKey = "batch_id"
	sourceKey  ctxKey = "source"
)

const (
	EnvDevelopment = "development"
	EnvDebug       = "debug"
	EnvProduction  = "production"
)

type Logger struct {
	*zap.SugaredLogger
}

var _ LoggerInterface = (*Logger)(nil)

func New(name, env string) (*Logger, error) {
	cfg, withCaller := buildConfig(env)

	z, err := cfg.Build(
		zap.WithCaller(withCaller),
		zap.AddCallerSkip(1),
	)
	if err != nil {
		return nil, fmt.Errorf("cannot init zap logger: %w", err)
	}

	return &Logger{SugaredLogger: z.Named(name).Sugar()}, nil
}

// Nop returns a logger that discards everything.
func Nop() *Logger {
	return &Logger{SugaredLogger: zap.NewNop().Sugar()}
}

func buildConfig(env string) (zap.Config, bool) {
	var cfg zap.Config
	withCaller := false

	switch strings.ToLower(strings.TrimSpace(env)) {
	case EnvDevelopment:
		cfg = zap.NewDevelopmentConfig()
		cfg.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
		cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		cfg.DisableStacktrace = true

	case EnvDebug:
		cfg = zap.NewDevelopmentConfig()
		cfg.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
		cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		withCaller = true

	case EnvProduction:
		cfg = zap.NewProductionConfig()
		cfg.Level = zap.NewAtomicLevelAt(zap.InfoLevel)
		cfg.DisableStacktrace = true

	default:
		cfg = zap.NewDevelopmentConfig()
		cfg.Level = zap.NewAtomicLevelAt(zap.InfoLevel)
		cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		cfg.DisableStacktrace = true
	}

	cfg.EncoderConfig.TimeKey = "timestamp"
	cfg.EncoderConfig.LevelKey = "level"
	cfg.EncoderConfig.MessageKey = "msg"
	cfg.EncoderConfig.NameKey = "logger"
	if withCaller {
		cfg.EncoderConfig.CallerKey = "caller"
	} else {
		cfg.EncoderConfig.CallerKey = zapcore.OmitKey
	}
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	// stdout carries the normalized e-mails, logs go to stderr.
	cfg.OutputPaths = []string{"stderr"}
	cfg.ErrorOutputPaths = []string{"stderr"}

	return cfg, withCaller
}

func (l *Logger) With(kv ...any) LoggerInterface {
	return &Logger{SugaredLogger: l.SugaredLogger.With(kv...)}
}

func (l *Logger) SafeSync() {
	if l == nil {
		return
	}
	if err := l.Desugar().Sync(); err != nil {
		if !isIgnorableSyncError(err) {
			l.Errorf("log sync error: %v", err)
		}
	}
}

func isIgnorableSyncError(err error) bool {
	if err == nil {
		return false
	}

	s := strings.ToLower(err.Error())
	return strings.Contains(s, "invalid argument") ||
		strings.Contains(s, "inappropriate ioctl for device") ||
		strings.Contains(s, "bad file descriptor")
}

func (l *Logger) DebugwCtx(ctx context.Context, msg string, kv ...any) {
	l.SugaredLogger.Debugw(msg, appendContextFields(ctx, kv...)...)
}

func (l *Logger) InfowCtx(ctx context.Context, msg string, kv ...any) {
	l.SugaredLogger.Infow(msg, appendContextFields(ctx, kv...)...)
}

func (l *Logger) WarnwCtx(ctx context.Context, msg string, kv ...any) {
	l.SugaredLogger.Warnw(msg, appendContextFields(ctx, kv...)...)
}

func (l *Logger) ErrorwCtx(ctx context.Context, msg string, kv ...any) {
	l.SugaredLogger.Errorw(msg, appendContextFields(ctx, kv...)...)
}

func appendContextFields(ctx context.Context, kv ...any) []any {
	if ctx == nil {
		return kv
	}

	if s, ok := ctx.Value(batchIDKey).(string); ok && s != "" {
		kv = append(kv, "batch_id", s)
	}
	if s, ok := ctx.Value(sourceKey).(string); ok && s != "" {
		kv = append(kv, "source", s)
	}

	return kv
}

func ContextWithBatchID(ctx context.Context, batchID string) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, batchIDKey, batchID)
}

func ContextWithSource(ctx context.Context, source string) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, sourceKey, source)
}
