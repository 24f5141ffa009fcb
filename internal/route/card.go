package route

import (
	"github.com/SeakMengs/BizCard/internal/controller"
	"github.com/gin-gonic/gin"
)

func V1_Cards(r *gin.RouterGroup, cardController *controller.CardController) {
	v1 := r.Group("/v1/cards")
	{
		v1.POST("", cardController.Generate)
		v1.POST("/preview", cardController.Preview)
		v1.POST("/batch", cardController.Batch)
	}
}

func V1_Template(r *gin.RouterGroup, cardController *controller.CardController) {
	r.GET("/v1/template", cardController.GetTemplate)
}
