package bizcard

import (
	"encoding/json"
	"fmt"
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/tdewolff/canvas"
	"golang.org/x/image/font/sfnt"
)

type FontWeight string

const (
	FontWeightRegular FontWeight = "regular"
	FontWeightBold    FontWeight = "bold"
)

// Get font weight of canvas type
func (w FontWeight) FontStyle() canvas.FontStyle {
	switch w {
	case FontWeightBold:
		return canvas.FontBold
	default:
		return canvas.FontRegular
	}
}

type FontMetadata struct {
	Name   string     `json:"name"`
	Path   string     `json:"path"`
	Weight FontWeight `json:"weight"`
}

func weightFromSubfamily(subfamily string) FontWeight {
	if strings.Contains(strings.ToLower(subfamily), "bold") {
		return FontWeightBold
	}
	return FontWeightRegular
}

func getFontMetadataByPath(fontPath string) (*FontMetadata, error) {
	fontBytes, err := os.ReadFile(fontPath)
	if err != nil {
		return nil, fmt.Errorf("reading file: %w", err)
	}

	font, err := sfnt.Parse(fontBytes)
	if err != nil {
		return nil, fmt.Errorf("parsing font: %w", err)
	}

	name, err := font.Name(nil, sfnt.NameIDFamily)
	if err != nil {
		return nil, fmt.Errorf("retrieving font name: %w", err)
	}

	// Subfamily is optional, treat missing as regular
	subfamily, _ := font.Name(nil, sfnt.NameIDSubfamily)

	return &FontMetadata{
		Name:   name,
		Path:   fontPath,
		Weight: weightFromSubfamily(subfamily),
	}, nil
}

// Scan through the directory to process .ttf and .otf files.
func ScanFontDir(dir string) ([]FontMetadata, error) {
	var fonts []FontMetadata

	err := filepath.Walk(dir, func(path string, info fs.FileInfo, err error) error {
		if err != nil {
			return err
		}

		if info.IsDir() {
			return nil
		}

		ext := strings.ToLower(filepath.Ext(info.Name()))
		if ext != ".ttf" && ext != ".otf" {
			return nil
		}

		meta, err := getFontMetadataByPath(path)
		if err != nil {
			log.Printf("Skipping %q: %v", path, err)
			return nil
		}

		fonts = append(fonts, *meta)
		return nil
	})
	if err != nil {
		return nil, err
	}

	return fonts, nil
}

// List the available font family and its path
func GetAvailableFonts(path string) ([]*FontMetadata, error) {
	var fonts []*FontMetadata

	if path == "" {
		path = "font_metadata.json"
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fonts, fmt.Errorf("error reading %s: %w", path, err)
	}

	if err := json.Unmarshal(data, &fonts); err != nil {
		return fonts, fmt.Errorf("error unmarshalling font metadata: %w", err)
	}

	for _, f := range fonts {
		if f.Weight == "" {
			f.Weight = FontWeightRegular
		}
	}

	return fonts, nil
}

type LoadedFamily struct {
	family *canvas.FontFamily
	styles map[canvas.FontStyle]bool
}

// Face returns a face of the requested style, or regular when the style was not loaded.
func (lf *LoadedFamily) Face(size float64, color string, style canvas.FontStyle) *canvas.FontFace {
	if !lf.styles[style] {
		style = canvas.FontRegular
	}
	return lf.family.Face(size, canvas.Hex(color), style, canvas.FontNormal)
}

// FontLoader resolves family names from the font metadata file and caches loaded families.
type FontLoader struct {
	Cfg            *Config
	AvailableFonts []*FontMetadata

	mu       sync.Mutex
	families map[string]*LoadedFamily
}

func NewFontLoader(cfg *Config) (*FontLoader, error) {
	fonts, err := GetAvailableFonts(cfg.FontMetadataPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load font metadata: %w", err)
	}

	return &FontLoader{
		Cfg:            cfg,
		AvailableFonts: fonts,
		families:       make(map[string]*LoadedFamily),
	}, nil
}

func (fl *FontLoader) GetAvailableFontMetadataByName(fontName string) ([]*FontMetadata, error) {
	var found []*FontMetadata
	for _, font := range fl.AvailableFonts {
		if strings.EqualFold(font.Name, fontName) {
			found = append(found, font)
		}
	}
	if len(found) == 0 {
		return nil, fmt.Errorf("font %s not found", fontName)
	}
	return found, nil
}

// Names of the families listed in the metadata, without duplicates
func (fl *FontLoader) FamilyNames() []string {
	seen := make(map[string]bool)
	var names []string
	for _, font := range fl.AvailableFonts {
		if seen[font.Name] {
			continue
		}
		seen[font.Name] = true
		names = append(names, font.Name)
	}
	return names
}

func (fl *FontLoader) LoadFont(fontName string) (*LoadedFamily, error) {
	key := strings.ToLower(fontName)

	fl.mu.Lock()
	defer fl.mu.Unlock()

	if lf, ok := fl.families[key]; ok {
		return lf, nil
	}

	metas, err := fl.GetAvailableFontMetadataByName(fontName)
	if err != nil {
		return nil, fmt.Errorf("failed to get font metadata: %w", err)
	}

	lf := &LoadedFamily{
		family: canvas.NewFontFamily(metas[0].Name),
		styles: make(map[canvas.FontStyle]bool),
	}

	for _, meta := range metas {
		style := meta.Weight.FontStyle()
		if lf.styles[style] {
			continue
		}
		if err := lf.family.LoadFontFile(meta.Path, style); err != nil {
			return nil, fmt.Errorf("failed to load font file %s: %w", meta.Path, err)
		}
		lf.styles[style] = true
	}

	if !lf.styles[canvas.FontRegular] {
		// Use the first loaded file as regular so that Face always has something to fall back on
		if err := lf.family.LoadFontFile(metas[0].Path, canvas.FontRegular); err != nil {
			return nil, fmt.Errorf("failed to load font file %s: %w", metas[0].Path, err)
		}
		lf.styles[canvas.FontRegular] = true
	}

	fl.families[key] = lf
	return lf, nil
}
