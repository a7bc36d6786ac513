// Package trace tags requests to the preview server with IDs so a page load and the stylesheet and script requests
// it triggers can be found together in the logs.
//
// A browser won't send a trace, so most requests start a new one; a client that echoes the response headers
// back (a test, a crawler, curl -H) keeps its TraceID and grows the chain of RequestIDs.
package trace

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/google/uuid"
)

const (
	TraceIDHeader = "X-Trace-Id"
	ReqIDHeader   = "X-Request-Id"
)

// Trace is a TraceID and the RequestIDs made under it, oldest first.
type Trace struct {
	TraceID    uuid.UUID   `json:"trace_id"`
	RequestIDs []uuid.UUID `json:"request_ids,omitempty"`
}

// New makes a Trace with a fresh TraceID and no requests.
func New() Trace { return Trace{TraceID: uuid.New()} }

// Next returns a copy of t with a new RequestID appended.
func (t Trace) Next() Trace {
	ids := make([]uuid.UUID, len(t.RequestIDs), len(t.RequestIDs)+1)
	copy(ids, t.RequestIDs)
	return Trace{TraceID: t.TraceID, RequestIDs: append(ids, uuid.New())}
}

// ErrNoTraceID is returned by FromHTTPHeader when there's no X-Trace-Id header.
var ErrNoTraceID = errors.New("no " + TraceIDHeader + " header")

// PopulateHTTPHeader writes t into h, replacing any trace already there.
func PopulateHTTPHeader(h http.Header, t Trace) {
	ids := make([]string, len(t.RequestIDs))
	for i, id := range t.RequestIDs {
		ids[i] = id.String()
	}
	h.Set(TraceIDHeader, t.TraceID.String())
	h[ReqIDHeader] = ids
}

// FromHTTPHeader reads a Trace written by PopulateHTTPHeader.
func FromHTTPHeader(h http.Header) (Trace, error) {
	raw := h.Get(TraceIDHeader)
	if raw == "" {
		return Trace{}, ErrNoTraceID
	}
	traceID, err := uuid.Parse(raw)
	if err != nil {
		return Trace{}, fmt.Errorf("%s: invalid value %q: %w", TraceIDHeader, raw, err)
	}
	t := Trace{TraceID: traceID}
	for i, raw := range h.Values(ReqIDHeader) {
		id, err := uuid.Parse(raw)
		if err != nil {
			return Trace{TraceID: traceID}, fmt.Errorf("%s: invalid value at position %d: %q: %w", ReqIDHeader, i, raw, err)
		}
		t.RequestIDs = append(t.RequestIDs, id)
	}
	return t, nil
}

type ctxKey struct{}

// SaveCtx returns a child of ctx carrying t.
func SaveCtx(ctx context.Context, t Trace) context.Context { return context.WithValue(ctx, ctxKey{}, t) }

// FromCtx retrieves a trace saved with SaveCtx.
func FromCtx(ctx context.Context) (Trace, bool) {
	t, ok := ctx.Value(ctxKey{}).(Trace)
	return t, ok
}
