package log

import "context"

// Fields are structured key/value pairs attached to a log entry.
type Fields = map[string]interface{}

// Logger is the application logger handed to long lived components such as
// the HTTP server and the process entry points.
type Logger interface {
	Debug(ctx context.Context, msg string, fields ...Fields)
	Info(ctx context.Context, msg string, fields ...Fields)
	Warn(ctx context.Context, msg string, fields ...Fields)
	Error(ctx context.Context, msg string, err error, fields ...Fields)
	Fatal(ctx context.Context, msg string, err error, fields ...Fields) // exits the process
	With(fields Fields) Logger
}
