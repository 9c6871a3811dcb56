package server

func (s *Server) setupRoutes() {
	s.app.Get("/healthz", s.health)

	api := s.app.Group("/api")
	api.Post("/batches", s.createBatch)
	api.Get("/status", s.status)
	api.Get("/records", s.records)
	api.Get("/export/xlsx", s.exportXLSX)
	api.Get("/export/markdown", s.exportMarkdown)
	api.Post("/exports", s.saveExport)
}
