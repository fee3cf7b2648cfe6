package usecase

import (
	"context"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

var usecaseTracer = otel.Tracer("matchday/internal/usecase")
var usecaseNoopSpan = trace.SpanFromContext(context.Background())

const (
	attrTeamID  = attribute.Key("matchday.team_id")
	attrMatchID = attribute.Key("matchday.match_id")
)

// startUsecaseSpan only creates child spans; background work without a
// request span stays untraced.
func startUsecaseSpan(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	if strings.TrimSpace(name) == "" {
		return ctx, usecaseNoopSpan
	}
	parent := trace.SpanFromContext(ctx)
	if !parent.SpanContext().IsValid() {
		return ctx, usecaseNoopSpan
	}
	return usecaseTracer.Start(ctx, name, trace.WithAttributes(nonEmptyAttrs(attrs)...))
}

func teamAttr(teamID string) attribute.KeyValue {
	return attrTeamID.String(strings.TrimSpace(teamID))
}

func matchAttr(matchID string) attribute.KeyValue {
	return attrMatchID.String(strings.TrimSpace(matchID))
}

// recordSpanError marks the span failed for store outages only; rejected
// input is an answer, not a fault.
func recordSpanError(span trace.Span, err error) {
	if err == nil || !isDependencyError(err) {
		return
	}
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
}

func nonEmptyAttrs(attrs []attribute.KeyValue) []attribute.KeyValue {
	out := attrs[:0:0]
	for _, attr := range attrs {
		if attr.Value.Type() == attribute.STRING && attr.Value.AsString() == "" {
			continue
		}
		out = append(out, attr)
	}
	return out
}
