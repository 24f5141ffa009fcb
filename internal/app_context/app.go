package appcontext

import (
	"github.com/SeakMengs/BizCard/internal/config"
	filestorage "github.com/SeakMengs/BizCard/internal/file_storage"
	"github.com/SeakMengs/BizCard/pkg/bizcard"
	"go.uber.org/zap"
)

// Application contains core dependencies for the app.
type Application struct {
	// Config holds application settings provided from .env file.
	Config *config.Config

	Logger *zap.SugaredLogger

	// Generator renders cards and stamps them on the template.
	Generator *bizcard.CardGenerator

	// Storage is nil when MinIO upload is disabled.
	Storage *filestorage.Storage
}
