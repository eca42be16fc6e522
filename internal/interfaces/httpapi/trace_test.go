package httpapi

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestShouldCreateHTTPAPISpan(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want bool
	}{
		{name: "handler span", in: "httpapi.Handler.GetMatch", want: true},
		{name: "middleware span", in: "httpapi.RequestLogging", want: false},
		{name: "helper span", in: "httpapi.writeError", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := shouldCreateHTTPAPISpan(tt.in); got != tt.want {
				t.Fatalf("shouldCreateHTTPAPISpan(%q)=%v want=%v", tt.in, got, tt.want)
			}
		})
	}
}

func TestRouteAttributes(t *testing.T) {
	req := httptest.NewRequest(http.MethodPatch, "/v1/matches/match-sen-fnc/maps/2", nil)
	req.SetPathValue("matchID", "match-sen-fnc")
	req.SetPathValue("mapNumber", "2")

	attrs := routeAttributes(req)
	if len(attrs) != 2 {
		t.Fatalf("expected 2 route attributes, got %v", attrs)
	}
	if attrs[0].Key != "esports.match_id" || attrs[0].Value.AsString() != "match-sen-fnc" {
		t.Fatalf("unexpected match attribute %v", attrs[0])
	}
	if attrs[1].Key != "esports.map_number" || attrs[1].Value.AsString() != "2" {
		t.Fatalf("unexpected map attribute %v", attrs[1])
	}

	if got := routeAttributes(httptest.NewRequest(http.MethodGet, "/healthz", nil)); len(got) != 0 {
		t.Fatalf("expected no attributes for a route without wildcards, got %v", got)
	}
}
