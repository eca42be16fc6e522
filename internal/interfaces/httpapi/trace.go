package httpapi

import (
	"context"
	"net/http"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

var apiTracer = otel.Tracer("esports-hub/internal/interfaces/httpapi")
var noopSpan = trace.SpanFromContext(context.Background())

// Path wildcards copied onto handler spans, keyed by their route name.
var spanRouteParams = []struct {
	wildcard string
	key      attribute.Key
}{
	{wildcard: "matchID", key: "esports.match_id"},
	{wildcard: "mapNumber", key: "esports.map_number"},
	{wildcard: "eventID", key: "esports.event_id"},
	{wildcard: "requestID", key: "esports.ingest_request_id"},
	{wildcard: "kind", key: "esports.votable_kind"},
	{wildcard: "targetID", key: "esports.votable_id"},
}

// startSpan only creates child spans of handler spans; helpers called from
// untraced routes such as /healthz stay span-free.
func startSpan(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	parent := trace.SpanFromContext(ctx)
	if !parent.SpanContext().IsValid() || !shouldCreateHTTPAPISpan(name) {
		return ctx, noopSpan
	}
	return apiTracer.Start(ctx, name, trace.WithAttributes(attrs...))
}

func startHandlerSpan(r *http.Request, name string) (context.Context, trace.Span) {
	return startSpan(r.Context(), name, routeAttributes(r)...)
}

func routeAttributes(r *http.Request) []attribute.KeyValue {
	var attrs []attribute.KeyValue
	for _, p := range spanRouteParams {
		if v := strings.TrimSpace(r.PathValue(p.wildcard)); v != "" {
			attrs = append(attrs, p.key.String(v))
		}
	}
	return attrs
}

func shouldCreateHTTPAPISpan(name string) bool {
	return strings.HasPrefix(name, "httpapi.Handler.")
}
