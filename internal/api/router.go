package api

import (
	"github.com/go-chi/chi/v5"

	"github.com/ramonehamilton/cubedraft/internal/api/handlers"
	"github.com/ramonehamilton/cubedraft/internal/metrics"
)

// setupRoutes configures all API routes.
func (s *Server) setupRoutes() {
	var store handlers.Pinger
	if s.services != nil && s.services.Storage != nil {
		store = s.services.Storage
	}
	var m *metrics.GenerationMetrics
	if s.services != nil {
		m = s.services.Metrics
	}
	systemHandler := handlers.NewSystemHandler(store, s.wsHub.ClientCount, m)

	// Health check endpoint (no versioning)
	s.router.Get("/health", systemHandler.Health)

	// WebSocket endpoint (no JSON content-type requirement)
	s.router.Get("/ws", s.wsHub.ServeWs)

	s.router.Route("/api/v1", func(r chi.Router) {
		cubeHandler := handlers.NewCubeHandler(s.cubeFacade)
		draftHandler := handlers.NewDraftHandler(s.draftFacade)
		formatHandler := handlers.NewFormatHandler(s.draftFacade)

		r.Route("/formats", func(r chi.Router) {
			r.Get("/", formatHandler.ListLibraryFormats)
			r.Get("/{name}", formatHandler.GetLibraryFormat)
		})

		r.Route("/cubes", func(r chi.Router) {
			r.Get("/", cubeHandler.ListCubes)
			r.Post("/", cubeHandler.CreateCube)
			r.Post("/import", cubeHandler.ImportCube)

			r.Route("/{cubeID}", func(r chi.Router) {
				r.Get("/", cubeHandler.GetCube)
				r.Get("/cards", cubeHandler.GetCards)
				r.Get("/formats", formatHandler.ListCubeFormats)
				r.Post("/formats", formatHandler.SaveCubeFormat)
				r.Post("/validate", draftHandler.ValidateFormat)
				r.Post("/asfan", draftHandler.Asfan)
				r.Post("/simulate", draftHandler.Simulate)
				r.Get("/drafts", draftHandler.ListDrafts)
				r.Post("/drafts", draftHandler.GenerateDraft)
			})
		})

		r.Get("/drafts/{draftID}", draftHandler.GetDraft)

		r.Route("/system", func(r chi.Router) {
			r.Get("/status", systemHandler.GetStatus)
			r.Get("/version", systemHandler.GetVersion)
		})
	})
}
