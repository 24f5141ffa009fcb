package bizcard

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

var ErrPageOutOfRange = errors.New("page out of range")

func GetPageCount(rs io.ReadSeeker) (int, error) {
	if _, err := rs.Seek(0, io.SeekStart); err != nil {
		return 0, err
	}

	count, err := api.PageCount(rs, model.NewDefaultConfiguration())
	if err != nil {
		return 0, fmt.Errorf("failed to count pages: %w", err)
	}
	return count, nil
}

// GetPdfPageSize returns the size of a 1-based page in points.
func GetPdfPageSize(rs io.ReadSeeker, page int) (float64, float64, error) {
	dims, err := GetPdfPageSizes(rs)
	if err != nil {
		return 0, 0, err
	}

	if page < 1 || page > len(dims) {
		return 0, 0, fmt.Errorf("%w: page %d of %d", ErrPageOutOfRange, page, len(dims))
	}

	return dims[page-1].Width, dims[page-1].Height, nil
}

func GetPdfPageSizes(rs io.ReadSeeker) ([]PageDimensions, error) {
	if _, err := rs.Seek(0, io.SeekStart); err != nil {
		return nil, err
	}

	dims, err := api.PageDims(rs, model.NewDefaultConfiguration())
	if err != nil {
		return nil, fmt.Errorf("failed to read page dimensions: %w", err)
	}

	pages := make([]PageDimensions, 0, len(dims))
	for _, d := range dims {
		pages = append(pages, PageDimensions{Width: d.Width, Height: d.Height})
	}
	return pages, nil
}

// PdfInfo is what the inspect command prints about a PDF.
type PdfInfo struct {
	Path      string           `json:"path"`
	PageCount int              `json:"pageCount"`
	Pages     []PageDimensions `json:"pages"`
}

func InspectPdf(path string) (*PdfInfo, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open PDF: %w", err)
	}
	defer f.Close()

	count, err := GetPageCount(f)
	if err != nil {
		return nil, err
	}

	pages, err := GetPdfPageSizes(f)
	if err != nil {
		return nil, err
	}

	return &PdfInfo{Path: path, PageCount: count, Pages: pages}, nil
}

// Builds the pdfcpu watermark description for a placement.
// The anchor is the bottom-left corner of the page, like PDF user space, so
// the offset is the lower-left corner of the image. Scale is absolute to the image size in pixels.
func stampDescription(placement PlacementResult, imageWidthPx int) string {
	scale := placement.EffectiveWidth / float64(imageWidthPx)
	return fmt.Sprintf("pos: bl, off: %.4f %.4f, scale: %.6f abs, rotation: 0, opacity: 1", placement.OffsetX, placement.OffsetY, scale)
}

// StampImage draws a PNG or JPEG on top of the first page of inFile at the given placement.
func StampImage(inFile, outFile, imageFile string, placement PlacementResult, imageWidthPx int) error {
	if imageWidthPx <= 0 {
		return fmt.Errorf("invalid image width: %d", imageWidthPx)
	}

	selectedPages := []string{"1"}
	onTop := true

	if err := api.AddImageWatermarksFile(inFile, outFile, selectedPages, onTop, imageFile, stampDescription(placement, imageWidthPx), nil); err != nil {
		return fmt.Errorf("failed to stamp image on PDF: %w", err)
	}
	return nil
}
