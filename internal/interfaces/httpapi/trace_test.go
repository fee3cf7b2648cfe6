package httpapi

import (
	"context"
	"testing"
)

func TestShouldCreateHTTPAPISpan(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want bool
	}{
		{name: "handler span", in: "httpapi.Handler.SubmitConfirmation", want: true},
		{name: "job handler span", in: "httpapi.Handler.RunRolloverJob", want: true},
		{name: "middleware span", in: "httpapi.RequestLogging", want: false},
		{name: "helper span", in: "httpapi.teamToDTO", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := shouldCreateHTTPAPISpan(tt.in)
			if got != tt.want {
				t.Fatalf("shouldCreateHTTPAPISpan(%q)=%v want=%v", tt.in, got, tt.want)
			}
		})
	}
}

func TestStartSpan_NoParentReturnsNoop(t *testing.T) {
	ctx, span := startSpan(context.Background(), "httpapi.Handler.GetMatch")
	defer span.End()

	if span.SpanContext().IsValid() {
		t.Fatalf("expected noop span without a request span")
	}
	if ctx != context.Background() {
		t.Fatalf("expected context unchanged")
	}
	tagSpan(span, "match_id", "m-1")
}
