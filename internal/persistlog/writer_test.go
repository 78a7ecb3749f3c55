package persistlog

import (
	"os"
	"path/filepath"
	"testing"
)

func TestCreateWritesHeader(t *testing.T) {
	path := filepath.Join(t.TempDir(), "counts.csv")
	w, err := Create(path, []string{"door", "couch"}, false)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	defer w.Close()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	if string(data) != "second,door,couch\n" {
		t.Fatalf("header = %q", string(data))
	}
}

func TestCreateCameraHeader(t *testing.T) {
	path := filepath.Join(t.TempDir(), "counts.csv")
	w, err := Create(path, []string{"door"}, true)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	defer w.Close()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	if string(data) != "time,door\n" {
		t.Fatalf("header = %q", string(data))
	}
}

func TestAppendAndStatus(t *testing.T) {
	path := filepath.Join(t.TempDir(), "counts.csv")
	w, err := Create(path, []string{"door", "couch"}, false)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if err := w.Append("2", []int{3, 0}); err != nil {
		t.Fatalf("Append: %v", err)
	}
	if err := w.Append("4", []int{1, 2}); err != nil {
		t.Fatalf("Append: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	want := "second,door,couch\n2,3,0\n4,1,2\n"
	if string(data) != want {
		t.Fatalf("log = %q, want %q", string(data), want)
	}

	status := w.Status()
	if status.Rows != 2 {
		t.Fatalf("rows = %d, want 2", status.Rows)
	}
	if status.BytesWritten != uint64(len(want)) {
		t.Fatalf("bytes = %d, want %d", status.BytesWritten, len(want))
	}
	if status.Path != path {
		t.Fatalf("path = %q, want %q", status.Path, path)
	}
}

func TestAppendAfterCloseFails(t *testing.T) {
	path := filepath.Join(t.TempDir(), "counts.csv")
	w, err := Create(path, []string{"door"}, false)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if err := w.Append("1", []int{0}); err == nil {
		t.Fatal("Append after Close succeeded")
	}
}

func TestCreateFailsOnBadPath(t *testing.T) {
	_, err := Create(filepath.Join(t.TempDir(), "missing", "counts.csv"), []string{"door"}, false)
	if err == nil {
		t.Fatal("Create succeeded with a missing parent directory")
	}
}
