package httpapi

import "net/http"

func registerSystemRoutes(mux *http.ServeMux, handler *Handler, swaggerEnabled bool) {
	mux.HandleFunc("GET /healthz", handler.Healthz)
	if !swaggerEnabled {
		return
	}

	mux.HandleFunc("GET /openapi.yaml", handler.OpenAPI)
	mux.HandleFunc("GET /docs", handler.SwaggerUI)
	mux.HandleFunc("GET /docs/", handler.SwaggerUI)
}

func registerTeamRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("POST /v1/teams", handler.RegisterTeam)
	mux.HandleFunc("GET /v1/teams/{teamID}", handler.GetTeam)
	mux.HandleFunc("PUT /v1/teams/{teamID}/schedule", handler.SetTeamSchedule)
	mux.HandleFunc("GET /v1/teams/{teamID}/stats", handler.GetTeamStats)
	mux.HandleFunc("POST /v1/teams/{teamID}/matches/next", handler.ResolveNextMatch)
}

func registerMatchRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /v1/matches/{matchID}", handler.GetMatch)
	mux.HandleFunc("PUT /v1/matches/{matchID}/message", handler.LinkMatchMessage)
	mux.HandleFunc("POST /v1/matches/{matchID}/confirmations", handler.SubmitConfirmation)
}

func registerInternalJobRoutes(mux *http.ServeMux, handler *Handler, internalJobToken string) {
	mux.Handle("POST /v1/internal/jobs/rollover", RequireInternalJobToken(internalJobToken, http.HandlerFunc(handler.RunRolloverJob)))
	mux.Handle("POST /v1/internal/jobs/purge-ledger", RequireInternalJobToken(internalJobToken, http.HandlerFunc(handler.RunPurgeLedgerJob)))
}
