package core

import (
	"context"

	"github.com/eskrenkovic/mediator-go"

	"go.uber.org/zap"
)

var logger = zap.NewNop()

// SetLogger installs the process-wide logger. Called once from the
// composition root before any request is served.
func SetLogger(l *zap.Logger) {
	if l != nil {
		logger = l
	}
}

func LogError(ctx context.Context, msg string, fields ...zap.Field) {
	logger.Error(msg, append(contextFields(ctx), fields...)...)
}

func contextFields(ctx context.Context) []zap.Field {
	var fields []zap.Field

	correlationID := ctx.Value(CorrelationIDContextKey)
	if correlationID != nil && correlationID != "" {
		fields = append(fields, zap.Any("correlation_id", correlationID))
	}

	return fields
}

var _ mediator.PipelineBehavior = (*RequestLoggingBehavior)(nil)

type RequestLoggingBehavior struct {
	Logger *zap.Logger
}

func (b *RequestLoggingBehavior) Handle(
	ctx context.Context,
	request interface{},
	next mediator.RequestHandlerFunc,
) (interface{}, error) {
	logFields := contextFields(ctx)

	if request != nil {
		logFields = append(logFields, zap.Any("request_body", request))
	}

	b.Logger.Info("processing request", logFields...)

	return next(ctx, request)
}

var _ mediator.PipelineBehavior = (*HandlerErrorLoggingBehavior)(nil)

type HandlerErrorLoggingBehavior struct {
	Logger *zap.Logger
}

func (b *HandlerErrorLoggingBehavior) Handle(
	ctx context.Context,
	request interface{},
	next mediator.RequestHandlerFunc,
) (interface{}, error) {
	response, err := next(ctx, request)
	if err != nil {
		fields := append(contextFields(ctx), zap.Error(err))

		// Conflicts are expected host-console noise (stale state, double
		// taps), not failures.
		if IsConflict(err) {
			b.Logger.Warn("handler returned conflict", fields...)
		} else {
			b.Logger.Error("handler returned error", fields...)
		}
	}

	return response, err
}
