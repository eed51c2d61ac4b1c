package db

import (
	"fmt"
	"time"

	"github.com/rs/zerolog"
)

// Logger adapts gorm's Print-style logger to zerolog. SQL traces are
// logged at debug level with their duration and affected rows.
type Logger struct {
	zerolog.Logger
}

// Print implements gorm.logger.
func (l Logger) Print(values ...interface{}) {
	if len(values) < 2 {
		return
	}
	ev := l.Debug().Interface("source", values[1])
	if values[0] == "sql" && len(values) >= 6 {
		if d, ok := values[2].(time.Duration); ok {
			ev = ev.Dur("duration", d)
		}
		ev = ev.Interface("vars", values[4])
		if rows, ok := values[5].(int64); ok {
			ev = ev.Int64("rows", rows)
		}
		ev.Msg(fmt.Sprint(values[3]))
		return
	}
	ev.Msg(fmt.Sprint(values[2:]...))
}
