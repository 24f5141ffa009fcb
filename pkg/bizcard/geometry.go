package bizcard

import (
	"errors"
	"fmt"
	"math"
)

// 1 point = 1/72 inch, 1 inch = 25.4mm
const PointsPerMM = 2.83465

var (
	ErrInvalidPageGeometry = errors.New("invalid page geometry")
	ErrInvalidCardSpec     = errors.New("invalid card spec")
)

// PageDimensions is the size of a destination page in points.
type PageDimensions struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// CardSpec is the physical card size in points.
// Use NewCardSpec so that Ratio always equals Width / Height.
type CardSpec struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
	Ratio  float64 `json:"ratio"`
}

func NewCardSpec(widthMM, heightMM float64) (CardSpec, error) {
	if !isPositiveFinite(widthMM) || !isPositiveFinite(heightMM) {
		return CardSpec{}, fmt.Errorf("%w: %.2fmm x %.2fmm", ErrInvalidCardSpec, widthMM, heightMM)
	}

	return CardSpec{
		Width:  widthMM * PointsPerMM,
		Height: heightMM * PointsPerMM,
		Ratio:  widthMM / heightMM,
	}, nil
}

// Standard business card, 85mm x 55mm
func DefaultCardSpec() CardSpec {
	spec, _ := NewCardSpec(85, 55)
	return spec
}

// Thresholds decide when a page is treated as an upscaled card render.
// The defaults are tuning values, not derived from anything.
type Thresholds struct {
	// Max allowed difference between page ratio and card ratio
	RatioTolerance float64 `json:"ratioTolerance"`
	// Page must be strictly wider than this (in points) to be upscaled
	MinHighDPIWidth float64 `json:"minHighDpiWidth"`
}

func DefaultThresholds() Thresholds {
	return Thresholds{
		RatioTolerance:  0.2,
		MinHighDPIWidth: 400,
	}
}

// PlacementResult is the draw rectangle of the card on the page, in points.
// The origin is the bottom-left corner of the page.
type PlacementResult struct {
	ScaleFactor     float64 `json:"scaleFactor"`
	EffectiveWidth  float64 `json:"effectiveWidth"`
	EffectiveHeight float64 `json:"effectiveHeight"`
	OffsetX         float64 `json:"offsetX"`
	OffsetY         float64 `json:"offsetY"`
}

type GeometryResolver struct {
	Spec       CardSpec
	Thresholds Thresholds
}

func NewGeometryResolver(spec CardSpec, thresholds Thresholds) GeometryResolver {
	return GeometryResolver{Spec: spec, Thresholds: thresholds}
}

func (gr GeometryResolver) IsCardShaped(pageWidth, pageHeight float64) bool {
	pageRatio := pageWidth / pageHeight
	return math.Abs(pageRatio-gr.Spec.Ratio) < gr.Thresholds.RatioTolerance
}

// ResolveScale returns pageWidth / card width when the page looks like a
// high DPI render of the card itself, otherwise 1.
func (gr GeometryResolver) ResolveScale(pageWidth, pageHeight float64) float64 {
	if gr.IsCardShaped(pageWidth, pageHeight) && pageWidth > gr.Thresholds.MinHighDPIWidth {
		return pageWidth / gr.Spec.Width
	}
	return 1.0
}

// ResolvePlacement centers the scaled card on the page.
// Offsets are negative when the card is larger than the page, clipping is up to the caller.
func (gr GeometryResolver) ResolvePlacement(pageWidth, pageHeight float64) PlacementResult {
	scaleFactor := gr.ResolveScale(pageWidth, pageHeight)

	effW := gr.Spec.Width * scaleFactor
	effH := gr.Spec.Height * scaleFactor

	return PlacementResult{
		ScaleFactor:     scaleFactor,
		EffectiveWidth:  effW,
		EffectiveHeight: effH,
		OffsetX:         (pageWidth - effW) / 2,
		OffsetY:         (pageHeight - effH) / 2,
	}
}

func ResolveScale(pageWidth, pageHeight float64, spec CardSpec) float64 {
	return NewGeometryResolver(spec, DefaultThresholds()).ResolveScale(pageWidth, pageHeight)
}

func ResolvePlacement(pageWidth, pageHeight float64, spec CardSpec) PlacementResult {
	return NewGeometryResolver(spec, DefaultThresholds()).ResolvePlacement(pageWidth, pageHeight)
}

// The resolver does not validate its input, call this first on page sizes read from a document.
func ValidatePageGeometry(pageWidth, pageHeight float64) error {
	if !isPositiveFinite(pageWidth) || !isPositiveFinite(pageHeight) {
		return fmt.Errorf("%w: %.2f x %.2f", ErrInvalidPageGeometry, pageWidth, pageHeight)
	}
	return nil
}

func isPositiveFinite(v float64) bool {
	return v > 0 && !math.IsInf(v, 0) && !math.IsNaN(v)
}
