package main

import "net/http"

func (app *application) routes() *http.ServeMux {
	mux := http.NewServeMux()

	var (
		open = func(next http.Handler) http.Handler {
			return app.recoverPanic(app.logRequest(next))
		}
		authenticated = func(next http.Handler) http.Handler {
			return open(app.requireUser(next))
		}
	)

	mux.Handle("POST /api/recommendations", authenticated(http.HandlerFunc(app.recommendationsPOST)))
	mux.Handle("POST /api/feedback", authenticated(http.HandlerFunc(app.feedbackPOST)))
	mux.Handle("GET /api/profile", authenticated(http.HandlerFunc(app.profileGET)))
	mux.Handle("GET /api/preferences", authenticated(http.HandlerFunc(app.preferencesGET)))

	mux.Handle("GET /api/healthy", open(http.HandlerFunc(app.healthy)))

	return mux
}
