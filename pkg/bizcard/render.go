package bizcard

import (
	"bytes"
	"fmt"
	"image"
	_ "image/png"
	"math"
	"regexp"
	"strings"

	"github.com/skip2/go-qrcode"
	"github.com/tdewolff/canvas"
	"github.com/tdewolff/canvas/renderers"
)

/*
 * Attention: tdewolff/canvas uses mm as the unit of measurement. Font sizes stay in points.
 */

// CSS pixels per inch, the capture scale is relative to this
const CSSPixelsPerInch = 96

const (
	cardMarginMM = 6.0
	lineGapMM    = 1.2
	qrSizeMM     = 14.0

	nameFontSize    = 14.0
	titleFontSize   = 9.0
	contactFontSize = 7.0
	minFontSize     = 4.0
)

// Capture is the rasterized card preview.
type Capture struct {
	PNG      []byte
	WidthPx  int
	HeightPx int
}

type textLine struct {
	field  Field
	family string
	size   float64
	style  canvas.FontStyle
}

type CardRenderer struct {
	cfg      *Config
	settings Settings
	loader   *FontLoader
	widthMM  float64
	heightMM float64
}

func NewCardRenderer(cfg *Config, settings Settings, loader *FontLoader) *CardRenderer {
	return &CardRenderer{
		cfg:      cfg,
		settings: settings,
		loader:   loader,
		widthMM:  cfg.CardWidthMM,
		heightMM: cfg.CardHeightMM,
	}
}

func (cr *CardRenderer) Fonts() *FontLoader {
	return cr.loader
}

// Device pixels per mm for the configured capture scale
func (cr *CardRenderer) dpmm() float64 {
	scale := cr.cfg.CaptureScale
	if scale <= 0 {
		scale = 1
	}
	return scale * CSSPixelsPerInch / 25.4
}

// rasterSize returns the capture size in pixels and the resolution producing it.
// Both sides are whole multiples of the card's reduced aspect ratio (17:11 for
// 85x55mm), so heightPx/widthPx equals the card ratio exactly and scaling the
// image by width also lands its height on the placed card height.
// Sizes given with more than 0.01mm precision fall back to plain rounding.
func (cr *CardRenderer) rasterSize() (int, int, float64) {
	target := cr.widthMM * cr.dpmm()

	w := int64(math.Round(cr.widthMM * 100))
	h := int64(math.Round(cr.heightMM * 100))
	g := gcd(w, h)
	if g == 0 || float64(w/g) > target {
		widthPx := max(int(math.Round(target)), 1)
		dpmm := float64(widthPx) / cr.widthMM
		return widthPx, int(cr.heightMM*dpmm + 0.5), dpmm
	}

	unitW, unitH := w/g, h/g
	k := max(int64(math.Round(target/float64(unitW))), 1)
	widthPx, heightPx := k*unitW, k*unitH
	return int(widthPx), int(heightPx), float64(widthPx) / cr.widthMM
}

func gcd(a, b int64) int64 {
	for b != 0 {
		a, b = b, a%b
	}
	return a
}

func (cr *CardRenderer) layout(content CardContent) []textLine {
	body := cr.cfg.NotoFontFamily
	return []textLine{
		{field: FieldName, family: cr.cfg.NameFontFamily(content.NameFont), size: nameFontSize, style: canvas.FontRegular},
		{field: FieldTitle, family: body, size: titleFontSize, style: canvas.FontBold},
		{field: FieldPhone, family: body, size: contactFontSize, style: canvas.FontRegular},
		{field: FieldEmail, family: body, size: contactFontSize, style: canvas.FontRegular},
		{field: FieldWebsite, family: body, size: contactFontSize, style: canvas.FontRegular},
		{field: FieldAddress, family: body, size: contactFontSize, style: canvas.FontRegular},
	}
}

var lineBreaks = regexp.MustCompile(`[\r\n]+`)

func removeLineBreaks(text string) string {
	return strings.TrimSpace(lineBreaks.ReplaceAllString(text, " "))
}

// fitFontSize shrinks the font size until the text fits into maxWidthMM.
func fitFontSize(family *LoadedFamily, color string, style canvas.FontStyle, size float64, text string, maxWidthMM float64) float64 {
	for size > minFontSize {
		face := family.Face(size, color, style)
		textBox := canvas.NewTextBox(face, text, 0, 0, canvas.Left, canvas.Top, 0.0, 0.0)
		if textBox.Bounds().W() <= maxWidthMM {
			break
		}
		size -= 0.5
	}
	return max(size, minFontSize)
}

// Draw renders the card content onto a new canvas sized to the card.
func (cr *CardRenderer) Draw(content CardContent) (*canvas.Canvas, error) {
	c := canvas.New(cr.widthMM, cr.heightMM)
	ctx := canvas.NewContext(c)
	// Change coordination from bottom-left to top-left
	ctx.SetCoordSystem(canvas.CartesianIV)

	ctx.SetFillColor(canvas.Hex(cr.cfg.BackgroundColor))
	ctx.DrawPath(0, 0, canvas.Rectangle(cr.widthMM, cr.heightMM))

	innerWidth := cr.widthMM - 2*cardMarginMM
	y := cardMarginMM

	for _, line := range cr.layout(content) {
		text := removeLineBreaks(content.Line(line.field))
		if text == "" {
			continue
		}

		family, err := cr.loader.LoadFont(line.family)
		if err != nil {
			return nil, fmt.Errorf("failed to load font for %s: %w", line.field, err)
		}

		size := fitFontSize(family, cr.cfg.TextColor, line.style, line.size, text, innerWidth)
		face := family.Face(size, cr.cfg.TextColor, line.style)
		textBox := canvas.NewTextBox(face, text, innerWidth, 0, canvas.Left, canvas.Top, 0.0, 0.0)

		ctx.DrawText(cardMarginMM, y, textBox)
		y += textBox.Bounds().H() + lineGapMM
	}

	if cr.settings.EmbedQRCode && content.Line(FieldWebsite) != "" {
		if err := cr.drawQRCode(ctx, content.Line(FieldWebsite)); err != nil {
			return nil, err
		}
	}

	return c, nil
}

// Draws the QR code module by module so it stays vector until rasterized.
func (cr *CardRenderer) drawQRCode(ctx *canvas.Context, link string) error {
	qr, err := qrcode.New(link, qrcode.Medium)
	if err != nil {
		return fmt.Errorf("failed to generate QR code: %w", err)
	}
	qr.DisableBorder = true

	bitmap := qr.Bitmap()
	if len(bitmap) == 0 {
		return nil
	}

	module := qrSizeMM / float64(len(bitmap))
	left := cr.widthMM - cardMarginMM - qrSizeMM
	top := cr.heightMM - cardMarginMM - qrSizeMM

	ctx.SetFillColor(canvas.Hex(cr.cfg.TextColor))
	for row, cells := range bitmap {
		for col, dark := range cells {
			if !dark {
				continue
			}
			ctx.DrawPath(left+float64(col)*module, top+float64(row)*module, canvas.Rectangle(module, module))
		}
	}
	return nil
}

// Capture rasterizes the card to PNG at the configured capture scale.
func (cr *CardRenderer) Capture(content CardContent) (*Capture, error) {
	c, err := cr.Draw(content)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	_, _, dpmm := cr.rasterSize()
	if err := renderers.PNG(canvas.DPMM(dpmm))(&buf, c); err != nil {
		return nil, fmt.Errorf("failed to rasterize card: %w", err)
	}

	imgCfg, _, err := image.DecodeConfig(bytes.NewReader(buf.Bytes()))
	if err != nil {
		return nil, fmt.Errorf("failed to read captured image size: %w", err)
	}

	return &Capture{
		PNG:      buf.Bytes(),
		WidthPx:  imgCfg.Width,
		HeightPx: imgCfg.Height,
	}, nil
}
