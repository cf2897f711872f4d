package storage_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/Tiliavir/hourlog/internal/storage"
)

func backends(t *testing.T) map[string]storage.Gateway {
	t.Helper()
	badgerGW, err := storage.OpenBadger(filepath.Join(t.TempDir(), "badger"))
	if err != nil {
		t.Fatalf("OpenBadger: %v", err)
	}
	gws := map[string]storage.Gateway{
		"file":   storage.NewFileGateway(filepath.Join(t.TempDir(), "data")),
		"badger": badgerGW,
		"memory": storage.NewMemory(),
	}
	t.Cleanup(func() {
		for _, gw := range gws {
			_ = gw.Close()
		}
	})
	return gws
}

func TestGetMissingKey(t *testing.T) {
	for name, gw := range backends(t) {
		t.Run(name, func(t *testing.T) {
			_, err := gw.Get(storage.KeyLogs)
			if !errors.Is(err, storage.ErrNotFound) {
				t.Fatalf("Get on missing key: err = %v, want ErrNotFound", err)
			}
		})
	}
}

func TestSetAndGet(t *testing.T) {
	for name, gw := range backends(t) {
		t.Run(name, func(t *testing.T) {
			if err := gw.Set(storage.KeySettings, []byte(`{"startTime":"09:00"}`)); err != nil {
				t.Fatalf("Set: %v", err)
			}
			if err := gw.Set(storage.KeySettings, []byte(`{"startTime":"10:00"}`)); err != nil {
				t.Fatalf("Set (overwrite): %v", err)
			}
			got, err := gw.Get(storage.KeySettings)
			if err != nil {
				t.Fatalf("Get: %v", err)
			}
			if string(got) != `{"startTime":"10:00"}` {
				t.Errorf("Get = %q, want overwritten value", got)
			}
		})
	}
}

func TestClearAll(t *testing.T) {
	for name, gw := range backends(t) {
		t.Run(name, func(t *testing.T) {
			for _, key := range []string{storage.KeySettings, storage.KeyLogs, storage.KeySetupComplete} {
				if err := gw.Set(key, []byte("true")); err != nil {
					t.Fatalf("Set %s: %v", key, err)
				}
			}
			if err := gw.ClearAll(); err != nil {
				t.Fatalf("ClearAll: %v", err)
			}
			for _, key := range []string{storage.KeySettings, storage.KeyLogs, storage.KeySetupComplete} {
				if _, err := gw.Get(key); !errors.Is(err, storage.ErrNotFound) {
					t.Errorf("Get(%s) after ClearAll: err = %v, want ErrNotFound", key, err)
				}
			}
		})
	}
}

func TestFileGatewayLayout(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "data")
	gw := storage.NewFileGateway(dir)
	if err := gw.Set(storage.KeyLogs, []byte("{}")); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "logs.json")); err != nil {
		t.Errorf("expected logs.json: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "logs.json.tmp")); !os.IsNotExist(err) {
		t.Error("temp file should be renamed away after Set")
	}
}

func TestFileGatewayWriteError(t *testing.T) {
	blocker := filepath.Join(t.TempDir(), "not-a-dir")
	if err := os.WriteFile(blocker, []byte("x"), 0o600); err != nil {
		t.Fatal(err)
	}
	gw := storage.NewFileGateway(filepath.Join(blocker, "data"))

	err := gw.Set(storage.KeyLogs, []byte("{}"))
	var werr *storage.WriteError
	if !errors.As(err, &werr) {
		t.Fatalf("Set err = %v, want *WriteError", err)
	}
	if werr.Key != storage.KeyLogs {
		t.Errorf("WriteError.Key = %q, want %q", werr.Key, storage.KeyLogs)
	}
}

func TestMemoryReturnsCopies(t *testing.T) {
	gw := storage.NewMemory()
	buf := []byte("abc")
	if err := gw.Set("k", buf); err != nil {
		t.Fatal(err)
	}
	buf[0] = 'z'
	got, _ := gw.Get("k")
	if string(got) != "abc" {
		t.Errorf("Get = %q, want %q", got, "abc")
	}
}

func TestOpen(t *testing.T) {
	base := t.TempDir()
	for _, backend := range []string{"", "file", "memory", "badger"} {
		gw, err := storage.Open(backend, base)
		if err != nil {
			t.Fatalf("Open(%q): %v", backend, err)
		}
		_ = gw.Close()
	}
	if _, err := storage.Open("sqlite", base); err == nil {
		t.Error("Open with unknown backend: expected error")
	}
}

func TestBaseDirEnvOverride(t *testing.T) {
	t.Setenv("HOURLOG_HOME", "/tmp/hourlog-test")
	dir, err := storage.BaseDir()
	if err != nil {
		t.Fatal(err)
	}
	if dir != "/tmp/hourlog-test" {
		t.Errorf("BaseDir = %q, want %q", dir, "/tmp/hourlog-test")
	}
}

func TestBadgerSingleProcess(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "badger")
	first, err := storage.OpenBadger(dir)
	if err != nil {
		t.Fatalf("OpenBadger: %v", err)
	}
	if second, err := storage.OpenBadger(dir); err == nil {
		_ = second.Close()
		t.Fatal("second OpenBadger on a locked directory succeeded")
	}
	if err := first.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	again, err := storage.OpenBadger(dir)
	if err != nil {
		t.Fatalf("OpenBadger after Close: %v", err)
	}
	_ = again.Close()
}
