package embedded

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"testing/fstest"
)

func withFS(t *testing.T, files fstest.MapFS) {
	t.Helper()
	Init(files)
	t.Cleanup(func() {
		dataFS = nil
		initialized = false
	})
}

func TestNotInitialized(t *testing.T) {
	initialized = false

	if IsInitialized() {
		t.Error("IsInitialized() = true before Init()")
	}
	if _, err := ReadFile("data/board.yaml"); !errors.Is(err, ErrNotInitialized) {
		t.Errorf("ReadFile() error = %v, want ErrNotInitialized", err)
	}
	if Exists("data/board.yaml") {
		t.Error("Exists() = true before Init()")
	}
}

func TestReadFile(t *testing.T) {
	withFS(t, fstest.MapFS{
		"data/board.yaml": {Data: []byte("pegRows: 4\n")},
	})

	tests := []struct {
		name    string
		path    string
		want    string
		wantErr bool
	}{
		{"plain path", "data/board.yaml", "pegRows: 4\n", false},
		{"dot prefix", "./data/board.yaml", "pegRows: 4\n", false},
		{"missing file", "data/missing.yaml", "", true},
		{"unknown prefix", "assets/board.yaml", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ReadFile(tt.path)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ReadFile(%q) error = %v, wantErr %v", tt.path, err, tt.wantErr)
			}
			if string(got) != tt.want {
				t.Errorf("ReadFile(%q) = %q, want %q", tt.path, got, tt.want)
			}
		})
	}

	if !Exists("data/board.yaml") || Exists("data/other.yaml") {
		t.Error("Exists() returned unexpected results")
	}
}

func TestReadFileOrDisk(t *testing.T) {
	withFS(t, fstest.MapFS{
		"data/board.yaml": {Data: []byte("embedded")},
	})

	override := filepath.Join(t.TempDir(), "board.yaml")
	if err := os.WriteFile(override, []byte("disk"), 0o644); err != nil {
		t.Fatal(err)
	}

	if got, err := ReadFileOrDisk("", "data/board.yaml"); err != nil || string(got) != "embedded" {
		t.Errorf("ReadFileOrDisk(embedded) = %q, %v", got, err)
	}
	if got, err := ReadFileOrDisk(override, "data/board.yaml"); err != nil || string(got) != "disk" {
		t.Errorf("ReadFileOrDisk(override) = %q, %v", got, err)
	}
	if _, err := ReadFileOrDisk(filepath.Join(t.TempDir(), "nope.yaml"), "data/board.yaml"); err == nil {
		t.Error("missing override file should fail")
	}
}
