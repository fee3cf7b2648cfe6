package usecase

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.opentelemetry.io/otel/attribute"
)

func TestNonEmptyAttrs_DropsBlankIDs(t *testing.T) {
	got := nonEmptyAttrs([]attribute.KeyValue{
		teamAttr("  "),
		matchAttr("m-1"),
		attribute.Int("matchday.attempt", 2),
	})

	assert.Equal(t, []attribute.KeyValue{
		attrMatchID.String("m-1"),
		attribute.Int("matchday.attempt", 2),
	}, got)
}

func TestStartUsecaseSpan_WithoutParentIsNoop(t *testing.T) {
	ctx := context.Background()
	got, span := startUsecaseSpan(ctx, "usecase.MatchService.GetMatch", matchAttr("m-1"))

	assert.Equal(t, ctx, got)
	assert.False(t, span.SpanContext().IsValid())
	recordSpanError(span, dependencyError("get match", assert.AnError))
	span.End()
}
