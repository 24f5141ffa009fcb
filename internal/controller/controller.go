package controller

import (
	appcontext "github.com/SeakMengs/BizCard/internal/app_context"
)

const (
	ErrCsvFileRequired  = "csv file is required"
	ErrBatchEmpty       = "csv file has no card rows"
	ErrBatchTooLarge    = "too many cards in one batch"
	ErrStorageDisabled  = "file storage is not enabled"
	ErrInvalidCardInput = "invalid card input"
)

type baseController struct {
	app *appcontext.Application
}

type Controller struct {
	Index *IndexController
	Card  *CardController
	Font  *FontController
}

func newBaseController(app *appcontext.Application) *baseController {
	return &baseController{app: app}
}

func NewController(app *appcontext.Application) *Controller {
	bc := newBaseController(app)

	return &Controller{
		Index: &IndexController{baseController: bc},
		Card:  &CardController{baseController: bc},
		Font:  &FontController{baseController: bc},
	}
}
