package goveeble

import (
	"os"
	"path/filepath"
	"testing"
)

func TestBuiltinModels(t *testing.T) {
	info := LookupModel("H6053")
	if !info.Segmented() || !info.SupportsTemp() {
		t.Fatalf("H6053 = %+v", info)
	}
	if info.SegmentByteLength != 2 {
		t.Errorf("segment byte length = %d, want 2", info.SegmentByteLength)
	}
	if info.BrightnessScale != (Range{1, 100}) {
		t.Errorf("brightness scale = %v", info.BrightnessScale)
	}
	if !KnownModel("H6053") {
		t.Errorf("H6053 not known")
	}
}

func TestLookupUnknownModel(t *testing.T) {
	info := LookupModel("H0000")
	if info.Model != "H0000" {
		t.Errorf("model = %s", info.Model)
	}
	if info.Segmented() || info.SupportsTemp() {
		t.Errorf("unknown model has capabilities: %+v", info)
	}
	if info.BrightnessScale != (Range{1, 255}) {
		t.Errorf("brightness scale = %v", info.BrightnessScale)
	}
	if KnownModel("H0000") {
		t.Errorf("H0000 reported as known")
	}
}

const modelsYAML = `
models:
  - model: TEST-A
    brightness_scale: {min: 1, max: 64}
    temp_range: {min: 2700, max: 6500}
    segments:
      - [1, 2, 3, 4, 5]
      - [6, 7, 8, 9, 10]
      - [11, 12, 13, 14, 15]
      - [16, 17]
  - model: TEST-B
    modes: [manual]
`

func TestParseModels(t *testing.T) {
	if err := ParseModels([]byte(modelsYAML)); err != nil {
		t.Fatal(err)
	}

	a := LookupModel("TEST-A")
	if a.SegmentByteLength != 3 {
		t.Errorf("TEST-A byte length = %d, want 3", a.SegmentByteLength)
	}
	if a.TempRange == nil || *a.TempRange != (Range{2700, 6500}) {
		t.Errorf("TEST-A temp range = %v", a.TempRange)
	}
	if len(a.Modes) != len(defaultInfo.Modes) {
		t.Errorf("TEST-A modes = %v, want defaults", a.Modes)
	}

	b := LookupModel("TEST-B")
	if b.BrightnessScale != defaultInfo.BrightnessScale {
		t.Errorf("TEST-B brightness scale = %v, want default", b.BrightnessScale)
	}
	if len(b.Modes) != 1 || b.Modes[0] != ModeManual {
		t.Errorf("TEST-B modes = %v", b.Modes)
	}

	found := 0
	for _, m := range Models() {
		if m == "TEST-A" || m == "TEST-B" {
			found++
		}
	}
	if found != 2 {
		t.Errorf("Models() = %v", Models())
	}

	d := NewDevice("strip", "TEST-A")
	packets, err := d.SetColor(RGB{1, 1, 1}, d.Segment(17))
	if err != nil {
		t.Fatal(err)
	}
	if got := packets[0][12:15]; got[0] != 0 || got[1] != 0 || got[2] != 0x01 {
		t.Errorf("mask = %x, want 000001", got)
	}
}

func TestParseModelsErrors(t *testing.T) {
	for name, data := range map[string]string{
		"no identifier": "models:\n  - brightness_scale: {min: 1, max: 10}\n",
		"bad yaml":      "models: [",
	} {
		if err := ParseModels([]byte(data)); err == nil {
			t.Errorf("%s: expected an error", name)
		}
	}
}

func TestLoadModels(t *testing.T) {
	path := filepath.Join(t.TempDir(), "models.yaml")
	if err := os.WriteFile(path, []byte("models:\n  - model: TEST-C\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	if err := LoadModels(path); err != nil {
		t.Fatal(err)
	}
	if !KnownModel("TEST-C") {
		t.Errorf("TEST-C not registered")
	}
	if err := LoadModels(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Errorf("missing file loaded")
	}
}
