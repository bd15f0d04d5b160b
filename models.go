package goveeble

import (
	"os"
	"sort"
	"sync"

	"github.com/ngerakines/goveeble/packet"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

type Mode string

const (
	ModeMusic  Mode = "music"
	ModeManual Mode = "manual"
	ModeScene  Mode = "scene"
	ModeDIY    Mode = "diy"
)

// Range is an inclusive [Min, Max] interval.
type Range struct {
	Min int `yaml:"min"`
	Max int `yaml:"max"`
}

func (r Range) Contains(v int) bool {
	return v >= r.Min && v <= r.Max
}

// DeviceInfo describes the capabilities of a model.
type DeviceInfo struct {
	Model           string  `yaml:"model"`
	Modes           []Mode  `yaml:"modes"`
	BrightnessScale Range   `yaml:"brightness_scale"`
	TempRange       *Range  `yaml:"temp_range"`
	Segments        [][]int `yaml:"segments"`

	// SegmentByteLength is the mask width for Segments. It is filled in
	// when the info is registered.
	SegmentByteLength int `yaml:"-"`
}

func (i DeviceInfo) Segmented() bool {
	return len(i.Segments) > 0
}

func (i DeviceInfo) SupportsTemp() bool {
	return i.TempRange != nil
}

func (i *DeviceInfo) init() {
	maxID := 0
	for _, group := range i.Segments {
		for _, id := range group {
			if id > maxID {
				maxID = id
			}
		}
	}
	i.SegmentByteLength = packet.SegmentByteLength(maxID)
}

var defaultInfo = DeviceInfo{
	Modes:           []Mode{ModeManual, ModeScene},
	BrightnessScale: Range{1, 255},
}

var (
	modelsMu sync.RWMutex
	models   = map[string]DeviceInfo{}
)

func init() {
	RegisterModel(DeviceInfo{
		Model:           "H6053",
		Modes:           []Mode{ModeManual, ModeScene},
		BrightnessScale: Range{1, 100},
		TempRange:       &Range{5000, 9000},
		Segments: [][]int{
			{1, 2, 3, 4, 5, 6},
			{7, 8, 9, 10, 11, 12},
		},
	})
}

// RegisterModel adds or replaces a model in the capability table.
func RegisterModel(info DeviceInfo) {
	info.init()
	modelsMu.Lock()
	defer modelsMu.Unlock()
	models[info.Model] = info
}

// LookupModel returns the capabilities of model. Unknown models get a
// plain, non-segmented profile.
func LookupModel(model string) DeviceInfo {
	modelsMu.RLock()
	defer modelsMu.RUnlock()
	if info, ok := models[model]; ok {
		return info
	}
	info := defaultInfo
	info.Model = model
	return info
}

// KnownModel reports whether model has an explicit table entry.
func KnownModel(model string) bool {
	modelsMu.RLock()
	defer modelsMu.RUnlock()
	_, ok := models[model]
	return ok
}

// Models lists the registered model identifiers.
func Models() []string {
	modelsMu.RLock()
	defer modelsMu.RUnlock()
	names := make([]string, 0, len(models))
	for name := range models {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

type modelsFile struct {
	Models []DeviceInfo `yaml:"models"`
}

// LoadModels registers every model listed in a YAML file.
func LoadModels(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return errors.Wrapf(err, "cannot read models file %s", path)
	}
	return ParseModels(data)
}

func ParseModels(data []byte) error {
	var f modelsFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return errors.Wrap(err, "cannot parse models")
	}
	for _, info := range f.Models {
		if info.Model == "" {
			return errors.New("model entry without a model identifier")
		}
		if info.BrightnessScale == (Range{}) {
			info.BrightnessScale = defaultInfo.BrightnessScale
		}
		if len(info.Modes) == 0 {
			info.Modes = defaultInfo.Modes
		}
		RegisterModel(info)
		log.WithFields(log.Fields{
			"model":    info.Model,
			"segments": len(info.Segments),
		}).Debug("Registered model")
	}
	return nil
}
