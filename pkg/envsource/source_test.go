package envsource

import (
	"os"
	"path/filepath"
	"testing"
)

func fakeEnv(values map[string]string) LookupFunc {
	return func(key string) (string, bool) {
		v, ok := values[key]
		return v, ok
	}
}

func TestLayeredLookup(t *testing.T) {
	src := &Layered{
		Primary:   map[string]string{"A": "primary", "EMPTY": ""},
		Secondary: fakeEnv(map[string]string{"A": "process", "B": "process", "EMPTY": "process"}),
	}

	tests := []struct {
		name        string
		key         string
		wantLookup  string
		wantPresent bool
		wantNonEmpt string
		wantNEOk    bool
	}{
		{"primary wins", "A", "primary", true, "primary", true},
		{"falls back to process env", "B", "process", true, "process", true},
		{"empty primary still present", "EMPTY", "", true, "process", true},
		{"missing everywhere", "C", "", false, "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, ok := src.Lookup(tt.key)
			if v != tt.wantLookup || ok != tt.wantPresent {
				t.Errorf("Lookup(%q) = %q, %v, want %q, %v", tt.key, v, ok, tt.wantLookup, tt.wantPresent)
			}
			v, ok = src.LookupNonEmpty(tt.key)
			if v != tt.wantNonEmpt || ok != tt.wantNEOk {
				t.Errorf("LookupNonEmpty(%q) = %q, %v, want %q, %v", tt.key, v, ok, tt.wantNonEmpt, tt.wantNEOk)
			}
		})
	}
}

func TestFromMapIgnoresProcessEnv(t *testing.T) {
	t.Setenv("QUANTWP_TEST_ONLY_IN_PROCESS", "x")
	src := FromMap(nil)
	if _, ok := src.Lookup("QUANTWP_TEST_ONLY_IN_PROCESS"); ok {
		t.Error("FromMap source should not consult the process environment")
	}
	if Get(New(nil), "QUANTWP_TEST_ONLY_IN_PROCESS") != "x" {
		t.Error("New source should fall back to the process environment")
	}
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()

	dotenv := filepath.Join(dir, "quant.env")
	content := "# comment\nQUANT_ENABLED=yes\nexport QUANT_TOKEN=\"abc123\"\nQUANT_DISABLE_TLS_VERIFY=\n"
	if err := os.WriteFile(dotenv, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	values, err := LoadFile(dotenv)
	if err != nil {
		t.Fatalf("LoadFile() error = %v", err)
	}
	if values["QUANT_ENABLED"] != "yes" || values["QUANT_TOKEN"] != "abc123" {
		t.Errorf("unexpected values: %v", values)
	}
	if v, ok := values["QUANT_DISABLE_TLS_VERIFY"]; !ok || v != "" {
		t.Errorf("empty assignment should be kept as present, got %q, %v", v, ok)
	}

	yml := filepath.Join(dir, "quant.yaml")
	if err := os.WriteFile(yml, []byte("QUANT_HTTP_REQUEST_TIMEOUT: 30\nQUANT_PROJECT: site\n"), 0644); err != nil {
		t.Fatal(err)
	}
	values, err = LoadFile(yml)
	if err != nil {
		t.Fatalf("LoadFile() error = %v", err)
	}
	if values["QUANT_HTTP_REQUEST_TIMEOUT"] != "30" || values["QUANT_PROJECT"] != "site" {
		t.Errorf("unexpected yaml values: %v", values)
	}

	missing, err := LoadFile(filepath.Join(dir, "nope.env"))
	if err != nil || len(missing) != 0 {
		t.Errorf("missing file should give empty map, got %v, %v", missing, err)
	}
}

func TestLoadFileRejectsMalformedLine(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.env")
	if err := os.WriteFile(path, []byte("NOT_AN_ASSIGNMENT\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadFile(path); err == nil {
		t.Error("expected parse error")
	}
}
