package orm

import (
	"context"
	"log/slog"
)

type slogLogger struct {
	l *slog.Logger
}

// SlogLogger adapts a *slog.Logger to Logger. Statements are logged at
// debug level; failed ones at warn level with the error attached.
func SlogLogger(l *slog.Logger) Logger {
	return slogLogger{l: l}
}

func (s slogLogger) LogStatement(ctx context.Context, st Statement) {
	attrs := []slog.Attr{
		slog.String("sql", st.SQL),
		slog.Any("args", st.Args),
		slog.Duration("elapsed", st.Elapsed),
	}
	if st.Err != nil {
		s.l.LogAttrs(ctx, slog.LevelWarn, "orm: query failed", append(attrs, slog.Any("err", st.Err))...)
		return
	}
	s.l.LogAttrs(ctx, slog.LevelDebug, "orm: query", attrs...)
}
