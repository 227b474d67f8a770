package orchestration

import (
	"go.opentelemetry.io/contrib/bridges/otelslog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
)

const scopeName = "github.com/koscakluka/ema-chat/core"

var (
	tracer = otel.Tracer(scopeName)
	meter  = otel.Meter(scopeName)
	logger = otelslog.NewLogger(scopeName)

	completionCounter, _ = meter.Int64Counter("ema.chat.completions",
		metric.WithDescription("Completion exchanges by outcome"))
	speechCounter, _ = meter.Int64Counter("ema.chat.speech",
		metric.WithDescription("Speech requests by outcome"))
)
