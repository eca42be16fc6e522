package httpapi

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	sonic "github.com/bytedance/sonic"
	"github.com/riskibarqy/esports-hub/internal/domain/user"
	"github.com/riskibarqy/esports-hub/internal/infrastructure/repository/memory"
	"github.com/riskibarqy/esports-hub/internal/platform/id"
	"github.com/riskibarqy/esports-hub/internal/platform/logging"
	"github.com/riskibarqy/esports-hub/internal/usecase"
)

const (
	adminToken = "admin-token"
	userToken  = "user-token"
)

type stubVerifier map[string]user.Principal

func (v stubVerifier) VerifyAccessToken(_ context.Context, token string) (user.Principal, error) {
	p, ok := v[token]
	if !ok {
		return user.Principal{}, fmt.Errorf("%w: invalid token", usecase.ErrUnauthorized)
	}
	return p, nil
}

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()

	store := memory.NewStore()
	store.Load(memory.DemoSeed(time.Now().UTC()))
	logger := logging.NewNop()

	handler := NewHandler(
		usecase.NewMatchService(store, nil, logger),
		usecase.NewEventService(store, nil, nil, logger),
		usecase.NewIngestionService(store, id.NewUUIDGenerator(), id.NewRequestIDGenerator(), nil, logger, usecase.DefaultIngestMaxBatch),
		usecase.NewVoteService(store, logger),
		nil,
		logger,
	)
	verifier := stubVerifier{
		adminToken: {UserID: "admin-1", Role: user.RoleAdmin},
		userToken:  {UserID: "user-1"},
	}
	return NewRouter(handler, verifier, logger, "esports-hub", []string{"*"}, false)
}

func doRequest(t *testing.T, router http.Handler, method, path, token, body string) (int, map[string]any) {
	t.Helper()

	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	var out map[string]any
	if err := sonic.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("%s %s: unmarshal response %q: %v", method, path, rec.Body.String(), err)
	}
	return rec.Code, out
}

func dataObject(t *testing.T, body map[string]any) map[string]any {
	t.Helper()
	data, ok := body["data"].(map[string]any)
	if !ok {
		t.Fatalf("expected data object, got %v", body)
	}
	return data
}

func errorStatus(body map[string]any) string {
	errObj, _ := body["error"].(map[string]any)
	status, _ := errObj["status"].(string)
	return status
}

func TestHandler_GetMatch(t *testing.T) {
	router := newTestRouter(t)

	code, body := doRequest(t, router, http.MethodGet, "/v1/matches/match-sen-fnc", "", "")
	if code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %v", code, body)
	}
	if body["success"] != true {
		t.Fatalf("expected success=true, got %v", body["success"])
	}

	data := dataObject(t, body)
	details, _ := data["format_details"].(map[string]any)
	if details["win_condition"] != "First to 2 wins" || details["max_maps"] != float64(3) {
		t.Fatalf("unexpected format details: %v", details)
	}
	maps, _ := data["maps"].([]any)
	if len(maps) != 3 {
		t.Fatalf("expected 3 maps, got %d", len(maps))
	}
	current, _ := data["current_map"].(map[string]any)
	if current["map_number"] != float64(1) {
		t.Fatalf("expected current map 1, got %v", current)
	}
	team1, _ := data["team1"].(map[string]any)
	if team1["name"] != "Sentinels" {
		t.Fatalf("expected team1 Sentinels, got %v", team1)
	}
}

func TestHandler_GetMatchNotFound(t *testing.T) {
	router := newTestRouter(t)

	code, body := doRequest(t, router, http.MethodGet, "/v1/matches/missing", "", "")
	if code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", code)
	}
	if body["success"] != false || errorStatus(body) != "NOT_FOUND" {
		t.Fatalf("unexpected error body: %v", body)
	}
}

func TestHandler_UpdateMatchScoreAuth(t *testing.T) {
	router := newTestRouter(t)
	payload := `{"series_score_team1":1,"series_score_team2":0}`

	tests := []struct {
		name  string
		token string
		want  int
	}{
		{name: "anonymous", token: "", want: http.StatusUnauthorized},
		{name: "bad token", token: "nope", want: http.StatusUnauthorized},
		{name: "non admin", token: userToken, want: http.StatusForbidden},
		{name: "admin", token: adminToken, want: http.StatusOK},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			code, body := doRequest(t, router, http.MethodPatch, "/v1/matches/match-sen-fnc/score", tc.token, payload)
			if code != tc.want {
				t.Fatalf("expected %d, got %d: %v", tc.want, code, body)
			}
		})
	}
}

func TestHandler_UpdateMatchScoreCompletesSeries(t *testing.T) {
	router := newTestRouter(t)

	code, body := doRequest(t, router, http.MethodPatch, "/v1/matches/match-sen-fnc/score", adminToken,
		`{"series_score_team1":2,"series_score_team2":1,"maps":[{"map_number":1,"team1_score":3,"team2_score":1,"status":"completed","winner_id":"team-sentinels"}]}`)
	if code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %v", code, body)
	}

	m, _ := dataObject(t, body)["match"].(map[string]any)
	if m["status"] != "completed" || m["winner_id"] != "team-sentinels" {
		t.Fatalf("expected completed match won by team1, got %v", m)
	}

	code, body = doRequest(t, router, http.MethodGet, "/v1/matches/match-sen-fnc/live", "", "")
	if code != http.StatusOK {
		t.Fatalf("expected 200, got %d", code)
	}
	live, _ := dataObject(t, body)["match"].(map[string]any)
	if live["team1_score"] != float64(2) || live["team2_score"] != float64(1) {
		t.Fatalf("live snapshot not updated: %v", live)
	}
}

func TestHandler_UpdateMatchScoreRejected(t *testing.T) {
	router := newTestRouter(t)

	tests := []struct {
		name string
		body string
	}{
		{name: "over threshold", body: `{"series_score_team1":3,"series_score_team2":0}`},
		{name: "both at threshold", body: `{"series_score_team1":2,"series_score_team2":2}`},
		{name: "missing score", body: `{"series_score_team1":1}`},
		{name: "negative score", body: `{"series_score_team1":-1,"series_score_team2":0}`},
		{name: "unknown field", body: `{"series_score_team1":1,"series_score_team2":0,"bonus":1}`},
		{name: "map score field names", body: `{"team1_score":1,"team2_score":0}`},
		{name: "empty body", body: ""},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			code, body := doRequest(t, router, http.MethodPatch, "/v1/matches/match-sen-fnc/score", adminToken, tc.body)
			if code != http.StatusBadRequest {
				t.Fatalf("expected 400, got %d: %v", code, body)
			}
			if errorStatus(body) != "INVALID_ARGUMENT" {
				t.Fatalf("unexpected error body: %v", body)
			}
		})
	}

	_, body := doRequest(t, router, http.MethodGet, "/v1/matches/match-sen-fnc/live", "", "")
	m, _ := dataObject(t, body)["match"].(map[string]any)
	if m["team1_score"] != float64(0) || m["status"] != "live" {
		t.Fatalf("rejected updates must not change the match: %v", m)
	}
}

func TestHandler_UpdateMatchMap(t *testing.T) {
	router := newTestRouter(t)

	code, body := doRequest(t, router, http.MethodPatch, "/v1/matches/match-sen-fnc/maps/1", adminToken,
		`{"team1_score":3,"team2_score":2,"status":"completed","winner_id":"team-fnatic","game_mode":"domination"}`)
	if code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %v", code, body)
	}
	mp, _ := dataObject(t, body)["map"].(map[string]any)
	if mp["status"] != "completed" || mp["winner_id"] != "team-fnatic" || mp["game_mode"] != "Domination" {
		t.Fatalf("unexpected map: %v", mp)
	}

	code, _ = doRequest(t, router, http.MethodPatch, "/v1/matches/match-sen-fnc/maps/abc", adminToken,
		`{"team1_score":0,"team2_score":0,"status":"live"}`)
	if code != http.StatusBadRequest {
		t.Fatalf("expected 400 for non-numeric map number, got %d", code)
	}

	code, _ = doRequest(t, router, http.MethodPatch, "/v1/matches/match-sen-fnc/maps/4", adminToken,
		`{"team1_score":0,"team2_score":0,"status":"live"}`)
	if code != http.StatusBadRequest {
		t.Fatalf("expected 400 for map beyond bo3, got %d", code)
	}
}

func TestHandler_LiveEvents(t *testing.T) {
	router := newTestRouter(t)

	code, body := doRequest(t, router, http.MethodGet, "/v1/events/live", "", "")
	if code != http.StatusOK {
		t.Fatalf("expected 200, got %d", code)
	}
	data := dataObject(t, body)
	featured, _ := data["featured_live"].(map[string]any)
	if featured["id"] != memory.EventIDChampionship {
		t.Fatalf("expected featured championship, got %v", data["featured_live"])
	}
	if data["total_live"] != float64(1) {
		t.Fatalf("expected one live event, got %v", data["total_live"])
	}
}

func TestHandler_EventStatusFlow(t *testing.T) {
	router := newTestRouter(t)
	path := "/v1/events/" + memory.EventIDOpenQualifier

	code, body := doRequest(t, router, http.MethodPost, path+"/featured-live", adminToken, "")
	if code != http.StatusBadRequest {
		t.Fatalf("featuring a pending event: expected 400, got %d: %v", code, body)
	}

	code, body = doRequest(t, router, http.MethodPost, path+"/status", adminToken, `{"status":"live"}`)
	if code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %v", code, body)
	}
	data := dataObject(t, body)
	if data["new_status"] != "ongoing" || data["old_status"] != "upcoming" {
		t.Fatalf("unexpected status change: %v", data)
	}

	code, body = doRequest(t, router, http.MethodPost, path+"/featured-live", adminToken, "")
	if code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %v", code, body)
	}

	_, body = doRequest(t, router, http.MethodGet, "/v1/events/live", "", "")
	data = dataObject(t, body)
	featured, _ := data["featured_live"].(map[string]any)
	if featured["id"] != memory.EventIDOpenQualifier {
		t.Fatalf("expected qualifier featured, got %v", featured)
	}
	others, _ := data["live_events"].([]any)
	for _, item := range others {
		if ev, _ := item.(map[string]any); ev["featured"] == true {
			t.Fatalf("only one live event may be featured: %v", data)
		}
	}
}

func TestHandler_BatchEventStatusIsAtomic(t *testing.T) {
	router := newTestRouter(t)

	body := fmt.Sprintf(`{"events":[{"id":%q,"status":"ongoing"},{"id":%q,"status":"upcoming"}]}`,
		memory.EventIDOpenQualifier, memory.EventIDChampionship)
	code, resp := doRequest(t, router, http.MethodPost, "/v1/events/status/batch", adminToken, body)
	if code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d: %v", code, resp)
	}

	_, resp = doRequest(t, router, http.MethodGet, "/v1/events/live", "", "")
	if total := dataObject(t, resp)["total_live"]; total != float64(1) {
		t.Fatalf("failed batch must not start the qualifier, total_live=%v", total)
	}

	code, resp = doRequest(t, router, http.MethodPost, "/v1/events/status/batch", adminToken, `{"events":[]}`)
	if code != http.StatusBadRequest {
		t.Fatalf("expected 400 for empty batch, got %d: %v", code, resp)
	}
}

func TestHandler_BatchEventStatus(t *testing.T) {
	router := newTestRouter(t)

	body := fmt.Sprintf(`{"events":[{"id":%q,"status":"ongoing"}]}`, memory.EventIDOpenQualifier)
	code, resp := doRequest(t, router, http.MethodPost, "/v1/events/status/batch", adminToken, body)
	if code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %v", code, resp)
	}
	changes, _ := resp["data"].([]any)
	if len(changes) != 1 {
		t.Fatalf("expected one status change, got %v", resp["data"])
	}
	if change, _ := changes[0].(map[string]any); change["new_status"] != "ongoing" {
		t.Fatalf("unexpected status change: %v", change)
	}

	code, resp = doRequest(t, router, http.MethodPost, "/v1/events/status/batch", adminToken,
		fmt.Sprintf(`{"updates":[{"event_id":%q,"status":"ongoing"}]}`, memory.EventIDChampionship))
	if code != http.StatusBadRequest {
		t.Fatalf("expected 400 for unknown batch shape, got %d: %v", code, resp)
	}
}

func TestHandler_AutoUpdateEventStatus(t *testing.T) {
	router := newTestRouter(t)

	code, body := doRequest(t, router, http.MethodPost, "/v1/events/status/auto-update", adminToken, "")
	if code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %v", code, body)
	}
	data := dataObject(t, body)
	if data["started"] != float64(0) || data["completed"] != float64(0) {
		t.Fatalf("nothing is due yet, got %v", data)
	}
}

func TestHandler_IngestMatches(t *testing.T) {
	router := newTestRouter(t)

	payload := `{"matches":[
		{"id":"ext-1","event_name":"Spring Cup","team1_name":"Sentinels","team2_name":"Team Liquid","team1_score":2,"team2_score":0,"status":"completed","format":"bo3"},
		{"external_id":"ext-2","team1_name":"Fnatic","team2_name":"fnatic","status":"upcoming","format":"bo3"}
	]}`
	code, body := doRequest(t, router, http.MethodPost, "/v1/ingest/matches", adminToken, payload)
	if code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %v", code, body)
	}
	if body["success"] != true {
		t.Fatalf("expected success=true, got %v", body)
	}
	requestID, _ := body["request_id"].(string)
	if !strings.HasPrefix(requestID, "ing_") {
		t.Fatalf("unexpected request id %q", requestID)
	}
	summary, _ := body["summary"].(map[string]any)
	if summary["processed"] != float64(1) || summary["errors"] != float64(1) || summary["total_matches"] != float64(2) {
		t.Fatalf("unexpected summary: %v", summary)
	}
	errs, _ := body["errors"].([]any)
	if len(errs) != 1 {
		t.Fatalf("expected one record error, got %v", body["errors"])
	}
	if first, _ := errs[0].(map[string]any); first["index"] != float64(1) {
		t.Fatalf("expected error for record 1, got %v", first)
	}

	code, body = doRequest(t, router, http.MethodGet, "/v1/ingest/status/"+requestID, adminToken, "")
	if code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %v", code, body)
	}
	status := dataObject(t, body)
	if status["total_matches"] != float64(1) {
		t.Fatalf("expected one ingested match, got %v", status)
	}
	matches, _ := status["matches"].([]any)
	if m, _ := matches[0].(map[string]any); m["team2_name"] != "Team Liquid" || m["status"] != "completed" {
		t.Fatalf("unexpected ingested match: %v", m)
	}
}

func TestHandler_IngestMatchesExternalKey(t *testing.T) {
	router := newTestRouter(t)

	tests := []struct {
		name        string
		payload     string
		wantCreated bool
	}{
		{
			name:        "feed id",
			payload:     `{"matches":[{"id":"ext-9","team1_name":"A","team2_name":"B","status":"upcoming"}]}`,
			wantCreated: true,
		},
		{
			name:        "external_id alias",
			payload:     `{"matches":[{"external_id":"ext-9","team1_name":"A","team2_name":"B","status":"upcoming"}]}`,
			wantCreated: false,
		},
	}

	var matchID string
	for _, tc := range tests {
		code, body := doRequest(t, router, http.MethodPost, "/v1/ingest/matches", adminToken, tc.payload)
		if code != http.StatusOK {
			t.Fatalf("%s: expected 200, got %d: %v", tc.name, code, body)
		}
		processed, _ := body["processed_matches"].([]any)
		if len(processed) != 1 {
			t.Fatalf("%s: expected one processed match, got %v", tc.name, body)
		}
		rec, _ := processed[0].(map[string]any)
		if rec["external_id"] != "ext-9" || rec["created"] != tc.wantCreated {
			t.Fatalf("%s: unexpected record %v", tc.name, rec)
		}
		id, _ := rec["match_id"].(string)
		if matchID != "" && id != matchID {
			t.Fatalf("%s: expected upsert into %s, got %s", tc.name, matchID, id)
		}
		matchID = id
	}
}

func TestHandler_IngestMatchesAllRejected(t *testing.T) {
	router := newTestRouter(t)

	code, body := doRequest(t, router, http.MethodPost, "/v1/ingest/matches", adminToken,
		`{"matches":[{"team1_name":"","team2_name":"Fnatic","status":"upcoming"}]}`)
	if code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d: %v", code, body)
	}
	if requestID, _ := body["request_id"].(string); body["success"] != false || requestID == "" {
		t.Fatalf("expected failed batch with request id, got %v", body)
	}
	processed, _ := body["processed_matches"].([]any)
	if len(processed) != 0 {
		t.Fatalf("expected no processed matches, got %v", processed)
	}

	code, _ = doRequest(t, router, http.MethodPost, "/v1/ingest/matches", adminToken, `{"matches":[]}`)
	if code != http.StatusBadRequest {
		t.Fatalf("expected 400 for empty batch, got %d", code)
	}

	code, _ = doRequest(t, router, http.MethodGet, "/v1/ingest/status/ing_unknown", adminToken, "")
	if code != http.StatusNotFound {
		t.Fatalf("expected 404 for unknown request id, got %d", code)
	}
}

func TestHandler_IngestionHealth(t *testing.T) {
	router := newTestRouter(t)

	code, body := doRequest(t, router, http.MethodGet, "/v1/ingest/health", "", "")
	if code != http.StatusOK || dataObject(t, body)["status"] != "healthy" {
		t.Fatalf("unexpected health response %d: %v", code, body)
	}
}

func TestHandler_Votes(t *testing.T) {
	router := newTestRouter(t)
	payload := `{"votable_type":"forum_thread","votable_id":"thread-1","vote_type":"upvote"}`

	code, _ := doRequest(t, router, http.MethodPost, "/v1/votes", "", payload)
	if code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for anonymous vote, got %d", code)
	}

	steps := []struct {
		body       string
		wantAction string
		wantScore  float64
	}{
		{body: payload, wantAction: "created", wantScore: 1},
		{body: strings.Replace(payload, "upvote", "downvote", 1), wantAction: "changed", wantScore: -1},
		{body: strings.Replace(payload, "upvote", "downvote", 1), wantAction: "removed", wantScore: 0},
	}
	for i, step := range steps {
		code, body := doRequest(t, router, http.MethodPost, "/v1/votes", userToken, step.body)
		if code != http.StatusOK {
			t.Fatalf("step %d: expected 200, got %d: %v", i, code, body)
		}
		data := dataObject(t, body)
		if data["action"] != step.wantAction || data["score"] != step.wantScore {
			t.Fatalf("step %d: unexpected result %v", i, data)
		}
	}

	code, body := doRequest(t, router, http.MethodGet, "/v1/votes/thread/thread-1", "", "")
	if code != http.StatusOK {
		t.Fatalf("expected 200, got %d", code)
	}
	if total := dataObject(t, body)["total"]; total != float64(0) {
		t.Fatalf("expected no votes left, got %v", total)
	}

	code, _ = doRequest(t, router, http.MethodGet, "/v1/votes/video/v-1", "", "")
	if code != http.StatusBadRequest {
		t.Fatalf("expected 400 for unknown votable kind, got %d", code)
	}
}

func TestHandler_RealtimeWithoutHub(t *testing.T) {
	router := newTestRouter(t)

	code, _ := doRequest(t, router, http.MethodGet, "/ws/matches/missing", "", "")
	if code != http.StatusNotFound {
		t.Fatalf("expected 404 for unknown match, got %d", code)
	}
	code, _ = doRequest(t, router, http.MethodGet, "/ws/events", "", "")
	if code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503 without hub, got %d", code)
	}
}
