package logging

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/go-chi/chi/v5/middleware"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Log file rotation
const (
	MaxSize    = 100 // megabytes
	MaxBackups = 3
	MaxAge     = 28 // days
)

// CustomHandler writes JSON records to a file and a colored line per record to the console
type CustomHandler struct {
	handler slog.Handler
	console io.Writer
	attrs   []slog.Attr
}

func NewCustomHandler(console io.Writer, fileWriter io.Writer, level slog.Level) *CustomHandler {
	handler := slog.NewJSONHandler(fileWriter, &slog.HandlerOptions{
		Level: level,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if a.Key == slog.TimeKey && len(groups) == 0 {
				return slog.Attr{Key: "timestamp", Value: slog.StringValue(a.Value.Time().Format(time.RFC3339))}
			}
			return a
		},
	})
	return &CustomHandler{
		handler: handler.WithAttrs([]slog.Attr{slog.String("job", "simpledms")}),
		console: console,
	}
}

func (h *CustomHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.handler.Enabled(ctx, level)
}

func (h *CustomHandler) Handle(ctx context.Context, r slog.Record) error {
	if err := h.handler.Handle(ctx, r); err != nil {
		return err
	}
	if h.console == nil {
		return nil
	}

	var colorFn func(format string, args ...interface{}) string
	switch r.Level {
	case slog.LevelDebug:
		colorFn = color.New(color.FgCyan).Sprintf
	case slog.LevelInfo:
		colorFn = color.New(color.FgGreen).Sprintf
	case slog.LevelWarn:
		colorFn = color.New(color.FgYellow).Sprintf
	case slog.LevelError:
		colorFn = color.New(color.FgRed).Sprintf
	default:
		colorFn = color.New(color.FgWhite).Sprintf
	}

	attrs := make([]string, 0, len(h.attrs)+r.NumAttrs())
	for _, a := range h.attrs {
		attrs = append(attrs, fmt.Sprintf("%s=%v", a.Key, a.Value))
	}
	r.Attrs(func(a slog.Attr) bool {
		attrs = append(attrs, fmt.Sprintf("%s=%v", a.Key, a.Value))
		return true
	})

	message := r.Message
	if len(attrs) > 0 {
		message = message + " " + strings.Join(attrs, " ")
	}

	_, err := fmt.Fprintf(h.console, "%s %s %s\n",
		color.New(color.FgBlue).Sprintf("%s", r.Time.Format("2006-01-02 15:04:05.000")),
		colorFn("%-6s", r.Level.String()),
		message,
	)
	return err
}

func (h *CustomHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &CustomHandler{
		handler: h.handler.WithAttrs(attrs),
		console: h.console,
		attrs:   append(append([]slog.Attr(nil), h.attrs...), attrs...),
	}
}

func (h *CustomHandler) WithGroup(name string) slog.Handler {
	return &CustomHandler{handler: h.handler.WithGroup(name), console: h.console, attrs: h.attrs}
}

// ParseLevel maps a configured level name (debug, info, warn, error) to a slog level
func ParseLevel(name string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.TrimSpace(name))); err != nil {
		return slog.LevelInfo, fmt.Errorf("invalid log level %q: %w", name, err)
	}
	return level, nil
}

// SetupLogger logs to stdout and, when logFilePath is set, to a rotated JSON file
func SetupLogger(logFilePath string, level slog.Level) (*slog.Logger, error) {
	var fileWriter io.Writer = io.Discard
	if logFilePath != "" {
		fileWriter = &lumberjack.Logger{
			Filename:   logFilePath,
			MaxSize:    MaxSize,
			MaxBackups: MaxBackups,
			MaxAge:     MaxAge,
			Compress:   true,
		}
	}
	handler := NewCustomHandler(os.Stdout, fileWriter, level)
	return slog.New(handler), nil
}

// Middleware logs one record per request, tagged with the chi request id
func Middleware(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

			requestID := middleware.GetReqID(r.Context())
			if requestID == "" {
				requestID = "unknown"
			}

			next.ServeHTTP(ww, r)

			logger.Info("HTTP request",
				slog.String("request_id", requestID),
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
				slog.Int("status", ww.Status()),
				slog.Duration("duration", time.Since(start)),
				slog.String("remote_addr", r.RemoteAddr),
				slog.String("user_agent", r.UserAgent()),
			)
		})
	}
}
