package trace_test

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/google/uuid"
	"gitlab.com/efronlicht/gameindex/observability/trace"
)

func TestHeaderRoundTrip(t *testing.T) {
	t.Parallel()
	want := trace.New().Next().Next()
	h := make(http.Header)
	trace.PopulateHTTPHeader(h, want)
	got, err := trace.FromHTTPHeader(h)
	if err != nil {
		t.Fatal(err)
	}
	if got.TraceID != want.TraceID || len(got.RequestIDs) != 2 || got.RequestIDs[1] != want.RequestIDs[1] {
		t.Fatalf("got %+v, want %+v", got, want)
	}
}

func TestNextDoesNotAlias(t *testing.T) {
	t.Parallel()
	base := trace.New().Next()
	base.RequestIDs = append(make([]uuid.UUID, 0, 8), base.RequestIDs...) // spare capacity
	a, b := base.Next(), base.Next()
	if a.RequestIDs[1] == b.RequestIDs[1] {
		t.Fatal("Next() shared a backing array")
	}
	if len(base.RequestIDs) != 1 {
		t.Fatal("Next() modified its receiver")
	}
}

func TestFromHTTPHeaderErrors(t *testing.T) {
	t.Parallel()
	if _, err := trace.FromHTTPHeader(http.Header{}); !errors.Is(err, trace.ErrNoTraceID) {
		t.Fatalf("expected ErrNoTraceID, got %v", err)
	}
	h := http.Header{}
	h.Set(trace.TraceIDHeader, "not-a-uuid")
	if _, err := trace.FromHTTPHeader(h); err == nil {
		t.Fatal("expected an error for an invalid trace id")
	}
	id := uuid.New()
	h.Set(trace.TraceIDHeader, id.String())
	h.Set(trace.ReqIDHeader, "nope")
	got, err := trace.FromHTTPHeader(h)
	if err == nil || got.TraceID != id {
		t.Fatalf("expected the trace id to survive a bad request id: %+v, %v", got, err)
	}
}

func TestCtx(t *testing.T) {
	t.Parallel()
	if _, ok := trace.FromCtx(context.Background()); ok {
		t.Fatal("found a trace in an empty context")
	}
	want := trace.New()
	got, ok := trace.FromCtx(trace.SaveCtx(context.Background(), want))
	if !ok || got.TraceID != want.TraceID {
		t.Fatalf("got %+v, %t", got, ok)
	}
}
