package api

func (s *Server) setupRoutes() {
	s.router.GET("/", s.healthHandler.ServerInfo)
	s.router.GET("/health", s.healthHandler.HealthCheck)

	videos := s.router.Group("/videos")
	{
		videos.GET("", s.videoHandler.ListVideos)
		videos.POST("", s.videoHandler.UploadVideo)
		videos.GET("/:id", s.videoHandler.GetVideo)
	}

	streams := s.router.Group("/streams")
	{
		streams.POST("/:id/start", s.streamHandler.StartStream)
		streams.POST("/:id/stop", s.streamHandler.StopStream)
		streams.GET("/:id/status", s.streamHandler.GetStreamStatus)
	}

	inf := s.router.Group("/inference")
	{
		inf.POST("/:id/start", s.inferenceHandler.StartInference)
		inf.POST("/:id/stop", s.inferenceHandler.StopInference)
		inf.GET("/:id/status", s.inferenceHandler.GetInferenceStatus)
	}

	s.router.GET("/ws/:id", s.inferenceHandler.AttachViewer)

	// Direct playback of stored files
	s.router.Static("/media", s.config.MediaDir)
}
