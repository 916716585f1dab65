package log

import (
	"io"
	"os"

	"github.com/rs/zerolog"

	"github.com/sugiyama-h/tabkit/pkg/errors"
)

// EnableZerologWarnings routes estimator warnings (ConvergenceWarning,
// UndefinedMetricWarning, ...) through a zerolog logger instead of the
// default stderr handler. Warning types implementing
// zerolog.LogObjectMarshaler are emitted with their structured fields.
func EnableZerologWarnings() {
	EnableZerologWarningsTo(os.Stderr)
}

// EnableZerologWarningsTo routes estimator warnings to w.
func EnableZerologWarningsTo(w io.Writer) {
	logger := zerolog.New(w).With().Timestamp().Str("component", "tabkit").Logger()
	errors.SetZerologWarnFunc(func(warning error) {
		ev := logger.Warn()
		if obj, ok := warning.(zerolog.LogObjectMarshaler); ok {
			ev = ev.EmbedObject(obj)
		}
		ev.Msg(warning.Error())
	})
}
