package httpapi

import "net/http"

func registerSystemRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /healthz", handler.Healthz)
}

func registerPublicDomainRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /v1/matches/{matchID}", handler.GetMatch)
	mux.HandleFunc("GET /v1/matches/{matchID}/live", handler.GetMatchLive)
	mux.HandleFunc("GET /v1/events/live", handler.ListLiveEvents)
	mux.HandleFunc("GET /v1/ingest/health", handler.IngestionHealth)
	mux.HandleFunc("GET /v1/votes/{kind}/{targetID}", handler.GetVoteCounts)
}

func registerAuthorizedRoutes(mux *http.ServeMux, handler *Handler, verifier TokenVerifier) {
	mux.Handle("POST /v1/votes", RequireAuth(verifier, http.HandlerFunc(handler.ApplyVote)))
}

func registerAdminRoutes(mux *http.ServeMux, handler *Handler, verifier TokenVerifier) {
	mux.Handle("PATCH /v1/matches/{matchID}/score", RequireAdmin(verifier, http.HandlerFunc(handler.UpdateMatchScore)))
	mux.Handle("PATCH /v1/matches/{matchID}/maps/{mapNumber}", RequireAdmin(verifier, http.HandlerFunc(handler.UpdateMatchMap)))

	mux.Handle("POST /v1/events/{eventID}/status", RequireAdmin(verifier, http.HandlerFunc(handler.SetEventStatus)))
	mux.Handle("POST /v1/events/{eventID}/featured-live", RequireAdmin(verifier, http.HandlerFunc(handler.SetFeaturedLiveEvent)))
	mux.Handle("POST /v1/events/status/batch", RequireAdmin(verifier, http.HandlerFunc(handler.BatchSetEventStatus)))
	mux.Handle("POST /v1/events/status/auto-update", RequireAdmin(verifier, http.HandlerFunc(handler.AutoUpdateEventStatus)))

	mux.Handle("POST /v1/ingest/matches", RequireAdmin(verifier, http.HandlerFunc(handler.IngestMatches)))
	mux.Handle("GET /v1/ingest/status/{requestID}", RequireAdmin(verifier, http.HandlerFunc(handler.GetIngestionStatus)))
}

func registerRealtimeRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /ws/events", handler.SubscribeEvents)
	mux.HandleFunc("GET /ws/matches/{matchID}", handler.SubscribeMatch)
}
