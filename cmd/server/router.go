package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/oneline-dev/waybridge/internal/handler"
	"github.com/oneline-dev/waybridge/internal/middleware"
)

func setupRouter(h *handler.Handler, sharedSecret string) http.Handler {
	r := chi.NewRouter()

	r.Get("/health", h.HealthCheck)
	r.Get("/oauth/callback", h.OAuthCallback)

	// Webhook endpoints carry their own sender-specific guards and always
	// acknowledge with 200; the tenant auth middleware must not apply.
	r.Post("/webhooks/evolution", h.EvolutionWebhook)
	r.Post("/webhooks/ghl", h.GHLWebhook)

	r.Route("/api", func(r chi.Router) {
		r.Use(middleware.TenantAuth(sharedSecret))

		r.Get("/instances", h.ListInstances)
		r.Post("/instances", h.CreateInstance)
		r.Patch("/instances/{id}", h.RenameInstance)
		r.Put("/instances/{id}/settings", h.UpdateInstanceSettings)
		r.Post("/instances/{id}/logout", h.LogoutInstance)
		r.Delete("/instances/{id}", h.DeleteInstance)
		r.Get("/instances/{id}/qr", h.GetInstanceQRCode)
	})

	return r
}
