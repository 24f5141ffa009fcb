package bizcard

import (
	"fmt"
	"os"
	"path/filepath"
)

type Config struct {
	// A path to json where it store font name and path to the font file
	FontMetadataPath string
	// The PDF the card gets stamped on, only the first page is used
	TemplatePath string
	// Directory where the output files are stored after processing
	OutputDir string
	// Directory where the temporary files are stored during processing, the file will be deleted after processing
	TmpDir string
	// File name of the generated PDF inside its output directory
	OutFileName string

	// Physical card size
	CardWidthMM  float64
	CardHeightMM float64
	Thresholds   Thresholds

	// Device pixels per CSS pixel of the captured preview, 4 gives roughly 384 DPI
	CaptureScale    float64
	BackgroundColor string
	TextColor       string

	// Font family names as found in font metadata
	DelmonFontFamily string
	NotoFontFamily   string
}

type Settings struct {
	// Draw a QR code of the website in the bottom right corner of the card
	EmbedQRCode bool
}

func NewDefaultSettings() *Settings {
	return &Settings{
		EmbedQRCode: false,
	}
}

func NewDefaultConfig() *Config {
	return &Config{
		FontMetadataPath: "font_metadata.json",
		TemplatePath:     "assets/SON.pdf",
		OutputDir:        filepath.Join(os.TempDir(), "bizcard", "generate", "output"),
		TmpDir:           filepath.Join(os.TempDir(), "bizcard", "generate", "tmp"),
		OutFileName:      "SON_Edited_Card.pdf",
		CardWidthMM:      85,
		CardHeightMM:     55,
		Thresholds:       DefaultThresholds(),
		CaptureScale:     4,
		BackgroundColor:  "#ffffff",
		TextColor:        "#1f2937",
		DelmonFontFamily: "Delmon Delicate",
		NotoFontFamily:   "Noto Sans",
	}
}

func (cfg *Config) CardSpec() (CardSpec, error) {
	return NewCardSpec(cfg.CardWidthMM, cfg.CardHeightMM)
}

// Create the directories if they do not exist
func (cfg *Config) EnsureDirs() error {
	// 0755 mean owner can read, write and execute
	if err := os.MkdirAll(cfg.OutputDir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	if err := os.MkdirAll(cfg.TmpDir, 0755); err != nil {
		return fmt.Errorf("failed to create tmp directory: %w", err)
	}
	return nil
}

func (cfg *Config) NameFontFamily(choice FontChoice) string {
	if choice == FontChoiceDelmon {
		return cfg.DelmonFontFamily
	}
	return cfg.NotoFontFamily
}
