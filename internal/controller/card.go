package controller

import (
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/SeakMengs/BizCard/internal/util"
	"github.com/SeakMengs/BizCard/pkg/bizcard"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
)

type CardController struct {
	*baseController
}

type generateQuery struct {
	// Upload to MinIO and return a presigned url instead of the PDF
	Upload   bool   `form:"upload"`
	FileName string `form:"fileName" binding:"omitempty,strNotEmpty,cmax=64"`
}

var cardFieldNames = map[string]string{
	"Name":    "name",
	"Title":   "title",
	"Phone":   "phone",
	"Email":   "email",
	"Website": "website",
	"Address": "address",
	"Font":    "font",
}

func downloadName(requested, fallback string) string {
	if requested == "" {
		return fallback
	}
	name := util.SanitizeFileName(requested)
	if !strings.EqualFold(filepath.Ext(name), ".pdf") {
		name += ".pdf"
	}
	return name
}

func (cc CardController) Generate(ctx *gin.Context) {
	var query generateQuery
	if err := ctx.ShouldBindQuery(&query); err != nil {
		util.ResponseFailed(ctx, http.StatusBadRequest, "Invalid query", util.GenerateErrorMessages(err, map[string]string{"FileName": "fileName"}), nil)
		return
	}

	var card bizcard.Card
	if err := ctx.ShouldBindJSON(&card); err != nil {
		util.ResponseFailed(ctx, http.StatusBadRequest, ErrInvalidCardInput, util.GenerateErrorMessages(err, cardFieldNames), nil)
		return
	}

	if query.Upload && cc.app.Storage == nil {
		util.ResponseFailed(ctx, http.StatusBadRequest, ErrStorageDisabled, util.GenerateErrorMessages(errors.New(ErrStorageDisabled), "upload"), nil)
		return
	}

	result, err := cc.app.Generator.Generate(ctx.Request.Context(), card)
	if err != nil {
		cc.app.Logger.Errorf("Failed to generate card: %v", err)
		util.ResponseFailed(ctx, http.StatusInternalServerError, "Failed to generate card", util.GenerateErrorMessages(err, "card"), nil)
		return
	}
	defer func() {
		if err := cc.app.Generator.Remove(*result); err != nil {
			cc.app.Logger.Warnf("Failed to remove generated card %s: %v", result.ID, err)
		}
	}()

	if query.Upload {
		uploaded, err := cc.app.Storage.UploadFile(ctx.Request.Context(), result.FilePath, "cards")
		if err != nil {
			cc.app.Logger.Errorf("Failed to upload card %s: %v", result.ID, err)
			util.ResponseFailed(ctx, http.StatusInternalServerError, "Failed to upload card", util.GenerateErrorMessages(err, "upload"), nil)
			return
		}

		util.ResponseSuccess(ctx, gin.H{
			"id":        result.ID,
			"pageSize":  result.PageSize,
			"placement": result.Placement,
			"file":      uploaded,
		})
		return
	}

	ctx.FileAttachment(result.FilePath, downloadName(query.FileName, cc.app.Generator.Cfg.OutFileName))
}

func (cc CardController) Preview(ctx *gin.Context) {
	var card bizcard.Card
	if err := ctx.ShouldBindJSON(&card); err != nil {
		util.ResponseFailed(ctx, http.StatusBadRequest, ErrInvalidCardInput, util.GenerateErrorMessages(err, cardFieldNames), nil)
		return
	}

	capture, err := cc.app.Generator.Preview(card)
	if err != nil {
		util.ResponseFailed(ctx, http.StatusInternalServerError, "Failed to render preview", util.GenerateErrorMessages(err, "card"), nil)
		return
	}

	ctx.Header("X-Card-Width", fmt.Sprintf("%d", capture.WidthPx))
	ctx.Header("X-Card-Height", fmt.Sprintf("%d", capture.HeightPx))
	ctx.Data(http.StatusOK, "image/png", capture.PNG)
}

// Batch reads cards from an uploaded csv and returns a zip with one PDF per row.
func (cc CardController) Batch(ctx *gin.Context) {
	fileHeader, err := ctx.FormFile("file")
	if err != nil {
		util.ResponseFailed(ctx, http.StatusBadRequest, ErrCsvFileRequired, util.GenerateErrorMessages(errors.New(ErrCsvFileRequired), "file"), nil)
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		util.ResponseFailed(ctx, http.StatusBadRequest, "Failed to open csv file", util.GenerateErrorMessages(err, "file"), nil)
		return
	}
	defer file.Close()

	cards, err := bizcard.ReadCards(file)
	if err != nil {
		util.ResponseFailed(ctx, http.StatusBadRequest, "Failed to parse csv file", util.GenerateErrorMessages(err, "file"), nil)
		return
	}

	if len(cards) == 0 {
		util.ResponseFailed(ctx, http.StatusBadRequest, ErrBatchEmpty, util.GenerateErrorMessages(errors.New(ErrBatchEmpty), "file"), nil)
		return
	}

	if maxCards := cc.app.Config.Card.MAX_BATCH_SIZE; maxCards > 0 && len(cards) > maxCards {
		err := fmt.Errorf("%s, got %d rows but the limit is %d", ErrBatchTooLarge, len(cards), maxCards)
		util.ResponseFailed(ctx, http.StatusBadRequest, ErrBatchTooLarge, util.GenerateErrorMessages(err, "file"), nil)
		return
	}

	for i, card := range cards {
		if err := binding.Validator.ValidateStruct(card); err != nil {
			message := fmt.Sprintf("Invalid card on row %d: %s", i+1, util.GenerateErrorMessagesAsString(err, cardFieldNames))
			util.ResponseFailed(ctx, http.StatusBadRequest, message, util.GenerateErrorMessages(err, cardFieldNames), nil)
			return
		}
	}

	results, err := cc.app.Generator.GenerateBatch(ctx.Request.Context(), cards)
	if err != nil {
		cc.app.Logger.Errorf("Failed to generate batch of %d cards: %v", len(cards), err)
		util.ResponseFailed(ctx, http.StatusInternalServerError, "Failed to generate cards", util.GenerateErrorMessages(err, "card"), nil)
		return
	}
	defer func() {
		for _, r := range results {
			cc.app.Generator.Remove(r)
		}
	}()

	zipFile, err := os.CreateTemp(cc.app.Generator.Cfg.TmpDir, "cards_*.zip")
	if err != nil {
		util.ResponseFailed(ctx, http.StatusInternalServerError, "Failed to create zip file", util.GenerateErrorMessages(err), nil)
		return
	}
	zipPath := zipFile.Name()
	zipFile.Close()
	defer os.Remove(zipPath)

	if err := bizcard.ZipFiles(bizcard.ZipEntriesForResults(results), zipPath); err != nil {
		util.ResponseFailed(ctx, http.StatusInternalServerError, "Failed to zip cards", util.GenerateErrorMessages(err), nil)
		return
	}

	ctx.FileAttachment(zipPath, "cards.zip")
}

func (cc CardController) GetTemplate(ctx *gin.Context) {
	type GetTemplateResponse struct {
		PageSize  bizcard.PageDimensions  `json:"pageSize"`
		Card      bizcard.CardSpec        `json:"card"`
		Placement bizcard.PlacementResult `json:"placement"`
		HighDPI   bool                    `json:"highDpi"`
	}

	page, placement, err := cc.app.Generator.Placement()
	if err != nil {
		util.ResponseFailed(ctx, http.StatusInternalServerError, "Invalid template", util.GenerateErrorMessages(err), nil)
		return
	}

	util.ResponseSuccess(ctx, GetTemplateResponse{
		PageSize:  page,
		Card:      cc.app.Generator.Resolver.Spec,
		Placement: placement,
		HighDPI:   placement.ScaleFactor != 1.0,
	})
}
