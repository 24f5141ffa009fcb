package route

import (
	"github.com/SeakMengs/BizCard/internal/controller"
	"github.com/gin-gonic/gin"
)

func V1_Fonts(r *gin.RouterGroup, fontController *controller.FontController) {
	r.GET("/v1/fonts", fontController.GetFonts)
}
