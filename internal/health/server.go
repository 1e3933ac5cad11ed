package health

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Server exposes a liveness endpoint for the bot process. The gateway probe
// reports whether the Discord session heartbeat is still acknowledged.
type Server struct {
	addr   string
	engine *gin.Engine
}

func NewServer(addr string, gatewayUp func() bool) *Server {
	engine := gin.New()
	engine.Use(gin.Recovery())

	engine.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"gateway": gatewayUp(),
		})
	})

	return &Server{addr: addr, engine: engine}
}

func (s *Server) Run() error {
	return s.engine.Run(s.addr)
}
