package logger

import (
	"context"
	"io"
	"os"

	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"
)

type contextKey string

const traceIDKey contextKey = "trace_id"

var (
	log  *logrus.Logger
	base *logrus.Entry
)

func init() {
	log = logrus.New()
	log.SetOutput(os.Stdout)
	log.SetLevel(logrus.InfoLevel)
	log.SetFormatter(&logrus.JSONFormatter{
		TimestampFormat: "2006-01-02T15:04:05.000Z07:00",
	})
	base = logrus.NewEntry(log)
}

// Options configures the process-wide logger.
type Options struct {
	Level string
	Mode  string

	// Service is attached to every entry when set
	Service string
}

// FileConfig enables rotated file output next to stdout
type FileConfig struct {
	Path       string
	MaxSizeMB  int
	MaxAgeDays int
	MaxBackups int
	Compress   bool
}

// Setup applies level, format and service name. Unknown levels fall back to info.
func Setup(opts Options) {
	level, err := logrus.ParseLevel(opts.Level)
	if err != nil {
		level = logrus.InfoLevel
	}
	log.SetLevel(level)

	if opts.Mode == "development" {
		log.SetFormatter(&logrus.TextFormatter{
			FullTimestamp:   true,
			TimestampFormat: "15:04:05",
		})
	} else {
		log.SetFormatter(&logrus.JSONFormatter{
			TimestampFormat: "2006-01-02T15:04:05.000Z07:00",
		})
	}

	base = logrus.NewEntry(log)
	if opts.Service != "" {
		base = base.WithField("service", opts.Service)
	}
}

// SetupFile tees log output into a rotated file. An empty path is a no-op.
func SetupFile(cfg FileConfig) io.Closer {
	if cfg.Path == "" {
		return nil
	}

	rotator := &lumberjack.Logger{
		Filename:   cfg.Path,
		MaxSize:    cfg.MaxSizeMB,
		MaxAge:     cfg.MaxAgeDays,
		MaxBackups: cfg.MaxBackups,
		LocalTime:  true,
		Compress:   cfg.Compress,
	}
	log.SetOutput(io.MultiWriter(os.Stdout, rotator))
	return rotator
}

func SetOutput(w io.Writer) {
	log.SetOutput(w)
}

func WithTraceID(ctx context.Context, traceID string) context.Context {
	return context.WithValue(ctx, traceIDKey, traceID)
}

func TraceIDFromContext(ctx context.Context) string {
	if traceID, ok := ctx.Value(traceIDKey).(string); ok {
		return traceID
	}
	return ""
}

// FromContext returns an entry carrying the request trace id, if any.
func FromContext(ctx context.Context) *logrus.Entry {
	if traceID := TraceIDFromContext(ctx); traceID != "" {
		return base.WithField("trace_id", traceID)
	}
	return base
}

// WithComponent tags entries with the subsystem that emitted them.
func WithComponent(name string) *logrus.Entry {
	return base.WithField("component", name)
}

func WithField(key string, value interface{}) *logrus.Entry {
	return base.WithField(key, value)
}

func WithFields(fields map[string]interface{}) *logrus.Entry {
	return base.WithFields(fields)
}

func WithError(err error) *logrus.Entry {
	return base.WithError(err)
}

func Debug(msg string) {
	base.Debug(msg)
}

func Info(msg string) {
	base.Info(msg)
}

func Warn(msg string) {
	base.Warn(msg)
}

func Error(msg string) {
	base.Error(msg)
}

func Infof(format string, args ...interface{}) {
	base.Infof(format, args...)
}

func Warnf(format string, args ...interface{}) {
	base.Warnf(format, args...)
}

func Errorf(format string, args ...interface{}) {
	base.Errorf(format, args...)
}
