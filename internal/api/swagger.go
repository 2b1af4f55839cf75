package api

import (
	"net/http"

	_ "vistream-server-go/docs"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func (s *Server) setupSwagger() {
	s.router.GET("/api/info", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"title":       "Vistream Server API",
			"version":     s.config.Version,
			"description": "Video vault server that relays stored videos as looping RTSP streams with live object-detection overlays",
			"swagger_ui":  "/docs/index.html",
			"endpoints": gin.H{
				"health":    "/health",
				"videos":    "/videos",
				"streams":   "/streams",
				"inference": "/inference",
				"viewer_ws": "/ws/{id}",
			},
			"server_id": s.config.ServerID,
			"port":      s.config.Port,
		})
	})

	s.router.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	s.router.GET("/docs", func(c *gin.Context) {
		c.Redirect(http.StatusMovedPermanently, "/docs/index.html")
	})
}
