package watcher

import (
	"context"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"
)

type fakeTemplate struct {
	path    string
	reloads atomic.Int32
}

func (f *fakeTemplate) Path() string { return f.path }

func (f *fakeTemplate) Reload() error {
	f.reloads.Add(1)
	return nil
}

func TestTemplateWatcherReloadsOnWrite(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "SON.pdf")
	if err := os.WriteFile(path, []byte("v1"), 0644); err != nil {
		t.Fatal(err)
	}

	target := &fakeTemplate{path: path}
	tw, err := NewTemplateWatcher(target, nil)
	if err != nil {
		t.Fatalf("NewTemplateWatcher failed: %v", err)
	}
	defer tw.Close()

	reloaded := make(chan error, 8)
	tw.OnReload(func(err error) {
		select {
		case reloaded <- err:
		default:
		}
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go tw.Run(ctx)

	// Unrelated files in the same directory are ignored
	if err := os.WriteFile(filepath.Join(dir, "other.pdf"), []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte("v2"), 0644); err != nil {
		t.Fatal(err)
	}

	select {
	case err := <-reloaded:
		if err != nil {
			t.Errorf("unexpected reload error: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("template was not reloaded")
	}

	if target.reloads.Load() < 1 {
		t.Error("expected at least one reload")
	}
}

func TestNewTemplateWatcherMissingDir(t *testing.T) {
	target := &fakeTemplate{path: filepath.Join(t.TempDir(), "missing", "SON.pdf")}
	if _, err := NewTemplateWatcher(target, nil); err == nil {
		t.Error("expected error for missing directory")
	}
}
