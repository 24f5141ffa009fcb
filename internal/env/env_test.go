package env

import (
	"os"
	"path/filepath"
	"testing"
)

func TestGetters(t *testing.T) {
	t.Setenv("BIZCARD_TEST_STRING", "hello")
	t.Setenv("BIZCARD_TEST_INT", " 42 ")
	t.Setenv("BIZCARD_TEST_FLOAT", "2.5")
	t.Setenv("BIZCARD_TEST_BOOL", "true")
	t.Setenv("BIZCARD_TEST_BAD", "not a number")

	if got := GetString("BIZCARD_TEST_STRING", "x"); got != "hello" {
		t.Errorf("GetString = %q", got)
	}
	if got := GetString("BIZCARD_TEST_MISSING", "x"); got != "x" {
		t.Errorf("GetString fallback = %q", got)
	}
	if got := GetInt("BIZCARD_TEST_INT", 1); got != 42 {
		t.Errorf("GetInt = %d", got)
	}
	if got := GetInt("BIZCARD_TEST_BAD", 1); got != 1 {
		t.Errorf("GetInt fallback = %d", got)
	}
	if got := GetFloat("BIZCARD_TEST_FLOAT", 1); got != 2.5 {
		t.Errorf("GetFloat = %v", got)
	}
	if got := GetFloat("BIZCARD_TEST_BAD", 1.5); got != 1.5 {
		t.Errorf("GetFloat fallback = %v", got)
	}
	if got := GetBool("BIZCARD_TEST_BOOL", false); !got {
		t.Errorf("GetBool = %v", got)
	}
	if got := GetBool("BIZCARD_TEST_BAD", true); !got {
		t.Errorf("GetBool fallback = %v", got)
	}
}

func TestLoadEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	if err := os.WriteFile(path, []byte("BIZCARD_TEST_FROM_FILE=loaded\n"), 0644); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { os.Unsetenv("BIZCARD_TEST_FROM_FILE") })

	LoadEnv(filepath.Join(t.TempDir(), "missing.env"), path)

	if got := GetString("BIZCARD_TEST_FROM_FILE", ""); got != "loaded" {
		t.Errorf("expected value from .env file, got %q", got)
	}
}
