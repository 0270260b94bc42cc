package health

import (
	"net/http"
	"time"

	"overseer/internal/common"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

type Response struct {
	Status    string    `json:"status"`
	Uptime    float64   `json:"uptime"`
	StartedAt time.Time `json:"started_at"`
}

type Controller struct {
	stopwatch common.Stopwatch
}

func NewController() *Controller {
	return &Controller{stopwatch: common.StartStopwatch()}
}

// Plain answer for hosts that only check the root path
func (controller *Controller) Root(c *gin.Context) {
	c.String(http.StatusOK, "OK")
}

func (controller *Controller) Health(c *gin.Context) {
	c.JSON(http.StatusOK, Response{
		Status:    "ok",
		Uptime:    controller.stopwatch.Elapsed().Seconds(),
		StartedAt: controller.stopwatch.StartTime().UTC(),
	})
}

func NewRouter(controller *Controller) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), logger())

	router.GET("/", controller.Root)
	router.HEAD("/", controller.Root)
	router.GET("/health", controller.Health)

	return router
}

func logger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		log.Debug().Msgf("HTTP %s %s %d %s", c.Request.Method, c.Request.URL.Path, c.Writer.Status(), time.Since(start))
	}
}
