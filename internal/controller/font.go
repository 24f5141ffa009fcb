package controller

import (
	"github.com/SeakMengs/BizCard/internal/util"
	"github.com/gin-gonic/gin"
)

type FontController struct {
	*baseController
}

func (fc FontController) GetFonts(ctx *gin.Context) {
	type GetFontsResponse struct {
		Families []string `json:"families"`
		Name     []string `json:"nameFonts"`
	}

	loader := fc.app.Generator.Renderer.Fonts()
	cfg := fc.app.Generator.Cfg

	families := loader.FamilyNames()
	if families == nil {
		families = []string{}
	}

	util.ResponseSuccess(ctx, GetFontsResponse{
		Families: families,
		Name:     []string{cfg.DelmonFontFamily, cfg.NotoFontFamily},
	})
}
