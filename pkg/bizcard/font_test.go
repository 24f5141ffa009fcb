package bizcard

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/tdewolff/canvas"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"
)

func writeFontMetadata(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "font_metadata.json")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write font metadata: %v", err)
	}
	return path
}

// writeTestFonts registers the Go fonts under the family names the card layout uses.
// Noto Sans gets a regular and a bold file, Delmon Delicate only a regular one.
func writeTestFonts(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()

	regular := filepath.Join(dir, "Go-Regular.ttf")
	bold := filepath.Join(dir, "Go-Bold.ttf")
	if err := os.WriteFile(regular, goregular.TTF, 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(bold, gobold.TTF, 0644); err != nil {
		t.Fatal(err)
	}

	data, err := json.Marshal([]FontMetadata{
		{Name: "Noto Sans", Path: regular, Weight: FontWeightRegular},
		{Name: "Noto Sans", Path: bold, Weight: FontWeightBold},
		{Name: "Delmon Delicate", Path: regular, Weight: FontWeightRegular},
	})
	if err != nil {
		t.Fatal(err)
	}
	return writeFontMetadata(t, string(data))
}

func TestGetAvailableFonts(t *testing.T) {
	path := writeFontMetadata(t, `[
  {"name": "Noto Sans", "path": "fonts/NotoSans-Regular.ttf"},
  {"name": "Noto Sans", "path": "fonts/NotoSans-Bold.ttf", "weight": "bold"},
  {"name": "Delmon Delicate", "path": "fonts/Delmon Delicate.ttf"}
]`)

	fonts, err := GetAvailableFonts(path)
	if err != nil {
		t.Fatalf("GetAvailableFonts failed: %v", err)
	}

	want := []*FontMetadata{
		{Name: "Noto Sans", Path: "fonts/NotoSans-Regular.ttf", Weight: FontWeightRegular},
		{Name: "Noto Sans", Path: "fonts/NotoSans-Bold.ttf", Weight: FontWeightBold},
		{Name: "Delmon Delicate", Path: "fonts/Delmon Delicate.ttf", Weight: FontWeightRegular},
	}
	if diff := cmp.Diff(want, fonts); diff != "" {
		t.Errorf("font metadata mismatch (-want +got):\n%s", diff)
	}

	loader, err := NewFontLoader(&Config{FontMetadataPath: path})
	if err != nil {
		t.Fatalf("NewFontLoader failed: %v", err)
	}

	if diff := cmp.Diff([]string{"Noto Sans", "Delmon Delicate"}, loader.FamilyNames()); diff != "" {
		t.Errorf("family names mismatch (-want +got):\n%s", diff)
	}

	metas, err := loader.GetAvailableFontMetadataByName("noto sans")
	if err != nil {
		t.Fatalf("expected case insensitive lookup to succeed: %v", err)
	}
	if len(metas) != 2 {
		t.Errorf("expected 2 Noto Sans files, got %d", len(metas))
	}

	if _, err := loader.LoadFont("Comic Sans"); err == nil {
		t.Error("expected error loading an unknown font")
	}
}

func TestGetAvailableFontsErrors(t *testing.T) {
	if _, err := GetAvailableFonts(filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Error("expected error for missing metadata file")
	}

	path := writeFontMetadata(t, `{not json`)
	if _, err := NewFontLoader(&Config{FontMetadataPath: path}); err == nil {
		t.Error("expected error for malformed metadata file")
	}
}

func TestScanFontDirSkipsInvalidFonts(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "broken.ttf"), []byte("not a font"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "readme.txt"), []byte("hello"), 0644); err != nil {
		t.Fatal(err)
	}

	fonts, err := ScanFontDir(dir)
	if err != nil {
		t.Fatalf("ScanFontDir failed: %v", err)
	}
	if len(fonts) != 0 {
		t.Errorf("expected no fonts, got %v", fonts)
	}
}

func TestWeightFromSubfamily(t *testing.T) {
	tests := map[string]FontWeight{
		"Regular":     FontWeightRegular,
		"Bold":        FontWeightBold,
		"Bold Italic": FontWeightBold,
		"":            FontWeightRegular,
	}

	for in, want := range tests {
		if got := weightFromSubfamily(in); got != want {
			t.Errorf("weightFromSubfamily(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestScanFontDir(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "Go-Regular.ttf"), goregular.TTF, 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "Go-Bold.ttf"), gobold.TTF, 0644); err != nil {
		t.Fatal(err)
	}

	fonts, err := ScanFontDir(dir)
	if err != nil {
		t.Fatalf("ScanFontDir failed: %v", err)
	}

	want := []FontMetadata{
		{Name: "Go", Path: filepath.Join(dir, "Go-Bold.ttf"), Weight: FontWeightBold},
		{Name: "Go", Path: filepath.Join(dir, "Go-Regular.ttf"), Weight: FontWeightRegular},
	}
	if diff := cmp.Diff(want, fonts); diff != "" {
		t.Errorf("scanned fonts mismatch (-want +got):\n%s", diff)
	}
}

func TestFontLoader(t *testing.T) {
	fontLoader, err := NewFontLoader(&Config{FontMetadataPath: writeTestFonts(t)})
	if err != nil {
		t.Fatalf("Failed to create FontLoader: %v", err)
	}

	tests := []struct {
		name      string
		wantStyle canvas.FontStyle
	}{
		// Bold is loaded, so it is used as is
		{"Noto Sans", canvas.FontBold},
		// Only a regular file exists, bold falls back to it
		{"Delmon Delicate", canvas.FontRegular},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			family, err := fontLoader.LoadFont(tt.name)
			if err != nil {
				t.Fatalf("LoadFont failed for %s: %v", tt.name, err)
			}

			face := family.Face(9, "#1f2937", canvas.FontBold)
			if face == nil {
				t.Fatal("expected a font face")
			}
			if face.Style != tt.wantStyle {
				t.Errorf("expected style %v, got %v", tt.wantStyle, face.Style)
			}

			again, err := fontLoader.LoadFont(tt.name)
			if err != nil || again != family {
				t.Error("expected the loaded family to be cached")
			}
		})
	}
}
