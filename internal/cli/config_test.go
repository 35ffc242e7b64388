package cli

import (
	"os"
	"path/filepath"
	"testing"
)

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{
			name: "valid",
			cfg:  Config{Patterns: []string{"x"}},
		},
		{
			name:    "no patterns",
			cfg:     Config{},
			wantErr: true,
		},
		{
			name:    "count and files-only conflict",
			cfg:     Config{Patterns: []string{"x"}, CountOnly: true, FileNamesOnly: true},
			wantErr: true,
		},
		{
			name:    "negative chunk size",
			cfg:     Config{Patterns: []string{"x"}, ChunkSize: -1},
			wantErr: true,
		},
		{
			name:    "negative workers",
			cfg:     Config{Patterns: []string{"x"}, Workers: -2},
			wantErr: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestParseColorMode(t *testing.T) {
	tests := []struct {
		in      string
		want    ColorMode
		wantErr bool
	}{
		{"auto", ColorAuto, false},
		{"", ColorAuto, false},
		{"always", ColorAlways, false},
		{"never", ColorNever, false},
		{"sometimes", ColorAuto, true},
	}
	for _, tt := range tests {
		got, err := ParseColorMode(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseColorMode(%q) err = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if err == nil && got != tt.want {
			t.Errorf("ParseColorMode(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestLoadFileConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "cfg.yaml")
	content := "chunk_size: 4096\nworkers: 3\ncolor: never\nhidden: true\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("HYPERGREP_CONFIG", path)

	fc, err := LoadFileConfig()
	if err != nil {
		t.Fatal(err)
	}
	if fc == nil {
		t.Fatal("got nil config")
	}
	if fc.ChunkSize == nil || *fc.ChunkSize != 4096 {
		t.Errorf("ChunkSize = %v, want 4096", fc.ChunkSize)
	}
	if fc.Workers == nil || *fc.Workers != 3 {
		t.Errorf("Workers = %v, want 3", fc.Workers)
	}

	cfg := Config{Patterns: []string{"x"}}
	changed := func(string) bool { return false }
	if err := fc.Apply(&cfg, changed); err != nil {
		t.Fatal(err)
	}
	if cfg.ChunkSize != 4096 || cfg.Workers != 3 || cfg.Color != ColorNever || !cfg.Hidden {
		t.Errorf("Apply produced %+v", cfg)
	}
}

func TestLoadFileConfig_ExplicitFlagsWin(t *testing.T) {
	fc := &FileConfig{ChunkSize: intPtr(1024), Workers: intPtr(9)}
	cfg := Config{Patterns: []string{"x"}, ChunkSize: 64, Workers: 2}
	changed := func(name string) bool { return name == "chunk-size" }

	if err := fc.Apply(&cfg, changed); err != nil {
		t.Fatal(err)
	}
	if cfg.ChunkSize != 64 {
		t.Errorf("explicit --chunk-size overridden: %d", cfg.ChunkSize)
	}
	if cfg.Workers != 9 {
		t.Errorf("Workers = %d, want file default 9", cfg.Workers)
	}
}

func TestLoadFileConfig_Missing(t *testing.T) {
	t.Setenv("HYPERGREP_CONFIG", filepath.Join(t.TempDir(), "absent.yaml"))
	fc, err := LoadFileConfig()
	if err != nil {
		t.Fatalf("missing config file should not error: %v", err)
	}
	if fc != nil {
		t.Errorf("got %+v, want nil", fc)
	}
}

func TestLoadFileConfig_Malformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(path, []byte("chunk_size: [not an int\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("HYPERGREP_CONFIG", path)

	if _, err := LoadFileConfig(); err == nil {
		t.Fatal("want error for malformed yaml")
	}
}

func intPtr(v int) *int { return &v }
