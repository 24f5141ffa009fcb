package route

import (
	appcontext "github.com/SeakMengs/BizCard/internal/app_context"
	"github.com/SeakMengs/BizCard/internal/controller"
	"github.com/SeakMengs/BizCard/internal/middleware"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// NewRouter wires middleware, controllers and routes onto a gin engine.
func NewRouter(app *appcontext.Application, m *middleware.Middleware) *gin.Engine {
	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery())

	// docs: https://github.com/gin-contrib/cors?tab=readme-ov-file#using-defaultconfig-as-start-point
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = []string{"*"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "X-Requested-With", "Accept"}
	corsConfig.ExposeHeaders = []string{"Content-Disposition", "X-Card-Width", "X-Card-Height"}
	r.Use(cors.New(corsConfig))
	r.Use(m.RateLimiterMiddleware)

	_controller := controller.NewController(app)

	r.GET("/", _controller.Index.Index)

	rApi := r.Group("/api")

	V1_Cards(rApi, _controller.Card)
	V1_Template(rApi, _controller.Card)
	V1_Fonts(rApi, _controller.Font)

	return r
}
