package bizcard

import (
	"errors"
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

const epsilon = 1e-9

// Rounded values of the default 85mm x 55mm card
var roundedCard = CardSpec{Width: 240.95, Height: 155.91, Ratio: 1.545}

func almostEqual(a, b, tol float64) bool {
	return math.Abs(a-b) <= tol
}

func TestDefaultCardSpec(t *testing.T) {
	spec := DefaultCardSpec()

	if !almostEqual(spec.Width, 85*PointsPerMM, epsilon) {
		t.Errorf("expected width %f, got %f", 85*PointsPerMM, spec.Width)
	}
	if !almostEqual(spec.Height, 55*PointsPerMM, epsilon) {
		t.Errorf("expected height %f, got %f", 55*PointsPerMM, spec.Height)
	}
	if !almostEqual(spec.Ratio, spec.Width/spec.Height, epsilon) {
		t.Errorf("ratio %f does not match width/height %f", spec.Ratio, spec.Width/spec.Height)
	}
}

func TestNewCardSpecInvalid(t *testing.T) {
	tests := []struct {
		name     string
		widthMM  float64
		heightMM float64
	}{
		{"Zero height", 85, 0},
		{"Zero width", 0, 55},
		{"Negative", -85, 55},
		{"NaN", math.NaN(), 55},
		{"Inf", 85, math.Inf(1)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewCardSpec(tt.widthMM, tt.heightMM)
			if !errors.Is(err, ErrInvalidCardSpec) {
				t.Errorf("expected ErrInvalidCardSpec, got %v", err)
			}
		})
	}
}

func TestResolveScale(t *testing.T) {
	spec := DefaultCardSpec()

	tests := []struct {
		name       string
		pageWidth  float64
		pageHeight float64
		expected   float64
	}{
		{"Card shaped high dpi page", 1000, 647, 1000 / spec.Width},
		{"Card shaped wide page", 2000, 1300, 2000 / spec.Width},
		{"Card shaped at boundary width", 400, 400 / spec.Ratio, 1.0},
		{"Card shaped just above boundary", 400.01, 400.01 / spec.Ratio, 400.01 / spec.Width},
		{"Card shaped small page", 241, 156, 1.0},
		{"A4 portrait", 595, 842, 1.0},
		{"A4 landscape is close enough to a card", 842, 595, 842 / spec.Width},
		{"Square page", 1000, 1000, 1.0},
		{"Wide banner", 5000, 500, 1.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ResolveScale(tt.pageWidth, tt.pageHeight, spec)
			if got != tt.expected {
				t.Errorf("ResolveScale(%v, %v) = %v, want %v", tt.pageWidth, tt.pageHeight, got, tt.expected)
			}
		})
	}
}

func TestResolveScaleNotCardShapedIgnoresWidth(t *testing.T) {
	spec := DefaultCardSpec()

	for _, width := range []float64{1, 100, 400, 401, 1000, 1e6} {
		for _, ratio := range []float64{0.5, 1.0, spec.Ratio - 0.2, spec.Ratio + 0.2, 1.8, 3} {
			height := width / ratio
			// ratio tolerance is strict, values sitting exactly on the edge may round either way
			if math.Abs(width/height-spec.Ratio) < 0.2 {
				continue
			}
			if got := ResolveScale(width, height, spec); got != 1.0 {
				t.Errorf("ResolveScale(%v, %v) = %v, want 1", width, height, got)
			}
		}
	}
}

func TestResolveScaleCustomThresholds(t *testing.T) {
	resolver := NewGeometryResolver(DefaultCardSpec(), Thresholds{RatioTolerance: 0.01, MinHighDPIWidth: 100})

	if got := resolver.ResolveScale(300, 300/1.6); got != 1.0 {
		t.Errorf("expected ratio 1.6 to be rejected with tight tolerance, got %v", got)
	}

	width := 300.0
	if got := resolver.ResolveScale(width, width/resolver.Spec.Ratio); got != width/resolver.Spec.Width {
		t.Errorf("expected upscale above lowered width threshold, got %v", got)
	}
}

func TestResolvePlacementScenarios(t *testing.T) {
	tests := []struct {
		name       string
		pageWidth  float64
		pageHeight float64
		expected   PlacementResult
	}{
		{
			name:       "High dpi card page",
			pageWidth:  1000,
			pageHeight: 647,
			expected: PlacementResult{
				ScaleFactor:     1000 / 240.95,
				EffectiveWidth:  1000,
				EffectiveHeight: 155.91 * 1000 / 240.95,
				OffsetX:         0,
				OffsetY:         (647 - 155.91*1000/240.95) / 2,
			},
		},
		{
			name:       "A4 portrait",
			pageWidth:  595,
			pageHeight: 842,
			expected: PlacementResult{
				ScaleFactor:     1.0,
				EffectiveWidth:  240.95,
				EffectiveHeight: 155.91,
				OffsetX:         (595 - 240.95) / 2,
				OffsetY:         (842 - 155.91) / 2,
			},
		},
		{
			name:       "Page smaller than card",
			pageWidth:  100,
			pageHeight: 100,
			expected: PlacementResult{
				ScaleFactor:     1.0,
				EffectiveWidth:  240.95,
				EffectiveHeight: 155.91,
				OffsetX:         (100 - 240.95) / 2,
				OffsetY:         (100 - 155.91) / 2,
			},
		},
	}

	opt := cmpopts.EquateApprox(0, 1e-6)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ResolvePlacement(tt.pageWidth, tt.pageHeight, roundedCard)
			if diff := cmp.Diff(tt.expected, got, opt); diff != "" {
				t.Errorf("ResolvePlacement mismatch (-want +got):\n%s", diff)
			}
		})
	}

	// Values quoted for the rounded card
	got := ResolvePlacement(1000, 647, roundedCard)
	if !almostEqual(got.ScaleFactor, 4.1509, 1e-3) {
		t.Errorf("expected scale factor about 4.1509, got %v", got.ScaleFactor)
	}
	got = ResolvePlacement(595, 842, roundedCard)
	if !almostEqual(got.OffsetX, 177.03, 1e-2) {
		t.Errorf("expected offsetX about 177.03, got %v", got.OffsetX)
	}
}

func TestResolvePlacementIsCentered(t *testing.T) {
	spec := DefaultCardSpec()
	pages := []PageDimensions{
		{Width: 1000, Height: 647},
		{Width: 595, Height: 842},
		{Width: 842, Height: 595},
		{Width: 612, Height: 792},
		{Width: 240.945, Height: 155.906},
		{Width: 50, Height: 30},
		{Width: 3000, Height: 1941},
	}

	for _, page := range pages {
		p := ResolvePlacement(page.Width, page.Height, spec)
		if !almostEqual(p.OffsetX+p.EffectiveWidth/2, page.Width/2, 1e-9) {
			t.Errorf("page %+v: horizontal center %v, want %v", page, p.OffsetX+p.EffectiveWidth/2, page.Width/2)
		}
		if !almostEqual(p.OffsetY+p.EffectiveHeight/2, page.Height/2, 1e-9) {
			t.Errorf("page %+v: vertical center %v, want %v", page, p.OffsetY+p.EffectiveHeight/2, page.Height/2)
		}
		if !almostEqual(p.EffectiveWidth/p.EffectiveHeight, spec.Ratio, 1e-9) {
			t.Errorf("page %+v: effective ratio %v, want %v", page, p.EffectiveWidth/p.EffectiveHeight, spec.Ratio)
		}
	}
}

func TestResolvePlacementIdempotent(t *testing.T) {
	spec := DefaultCardSpec()
	first := ResolvePlacement(1000, 647, spec)
	second := ResolvePlacement(1000, 647, spec)

	if diff := cmp.Diff(first, second); diff != "" {
		t.Errorf("ResolvePlacement is not idempotent (-first +second):\n%s", diff)
	}
}

func TestValidatePageGeometry(t *testing.T) {
	tests := []struct {
		name    string
		width   float64
		height  float64
		wantErr bool
	}{
		{"Valid", 595, 842, false},
		{"Zero width", 0, 842, true},
		{"Zero height", 595, 0, true},
		{"Negative", -1, 842, true},
		{"NaN", math.NaN(), 842, true},
		{"Inf", 595, math.Inf(1), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePageGeometry(tt.width, tt.height)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ValidatePageGeometry() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr && !errors.Is(err, ErrInvalidPageGeometry) {
				t.Errorf("expected ErrInvalidPageGeometry, got %v", err)
			}
		})
	}
}
