// Package catalog resolves scene and effect names from a model's scene
// catalog into the scene code and parameter blob sent to the device.
package catalog

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strconv"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

var (
	ErrUnknownEffect = errors.New("unknown effect")

	indexPattern = regexp.MustCompile(`\[(\d+)/(\d+)/(\d+)(?:/(\d+))?\]`)
)

// Index addresses an effect. Special is -1 for the base light effect.
type Index struct {
	Category, Scene, Effect, Special int
}

func (i Index) String() string {
	if i.Special < 0 {
		return fmt.Sprintf("[%d/%d/%d]", i.Category, i.Scene, i.Effect)
	}
	return fmt.Sprintf("[%d/%d/%d/%d]", i.Category, i.Scene, i.Effect, i.Special)
}

// ParseIndex extracts the trailing index from an effect name.
func ParseIndex(name string) (Index, error) {
	m := indexPattern.FindStringSubmatch(name)
	if m == nil {
		return Index{}, errors.Wrapf(ErrUnknownEffect, "no index in %q", name)
	}
	idx := Index{Special: -1}
	idx.Category, _ = strconv.Atoi(m[1])
	idx.Scene, _ = strconv.Atoi(m[2])
	idx.Effect, _ = strconv.Atoi(m[3])
	if m[4] != "" {
		idx.Special, _ = strconv.Atoi(m[4])
	}
	return idx, nil
}

// Entry is a resolved effect.
type Entry struct {
	Name  string
	Code  int
	Param []byte
}

type Catalog struct {
	Model string
	file  File
}

// Parse reads a catalog for model from r.
func Parse(r io.Reader, model string) (*Catalog, error) {
	c := &Catalog{Model: model}
	if err := json.NewDecoder(r).Decode(&c.file); err != nil {
		return nil, errors.Wrapf(err, "cannot parse catalog for %s", model)
	}
	return c, nil
}

// Load reads <dir>/<model>.json.
func Load(dir, model string) (*Catalog, error) {
	path := filepath.Join(dir, model+".json")
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "cannot open catalog %s", path)
	}
	defer f.Close()

	c, err := Parse(f, model)
	if err != nil {
		return nil, err
	}
	log.WithFields(log.Fields{
		"model":      model,
		"categories": len(c.file.Data.Categories),
	}).Debug("Loaded scene catalog")
	return c, nil
}

// Available lists the models that have a catalog in dir.
func Available(dir string) ([]string, error) {
	matches, err := filepath.Glob(filepath.Join(dir, "*.json"))
	if err != nil {
		return nil, err
	}
	models := make([]string, 0, len(matches))
	for _, m := range matches {
		base := filepath.Base(m)
		models = append(models, base[:len(base)-len(".json")])
	}
	return models, nil
}

func name(category *Category, scene *Scene, effect *LightEffect, idx Index) string {
	return fmt.Sprintf("%s - %s - %s %s", category.Name, scene.Name, effect.Name, idx)
}

// Effects lists every selectable effect name. Names end with their index
// because catalog names are not unique.
func (c *Catalog) Effects() []string {
	var names []string
	for ci, category := range c.file.Data.Categories {
		for si, scene := range category.Scenes {
			for ei, effect := range scene.Effects {
				names = append(names, name(category, scene, effect, Index{ci, si, ei, -1}))
				for xi, special := range effect.Specials {
					if !special.supports(c.Model) {
						continue
					}
					names = append(names, name(category, scene, effect, Index{ci, si, ei, xi}))
				}
			}
		}
	}
	return names
}

// Entry resolves an index to its scene code and decoded parameter.
func (c *Catalog) Entry(idx Index) (*Entry, error) {
	categories := c.file.Data.Categories
	if idx.Category < 0 || idx.Category >= len(categories) {
		return nil, errors.Wrapf(ErrUnknownEffect, "category %d", idx.Category)
	}
	category := categories[idx.Category]
	if idx.Scene < 0 || idx.Scene >= len(category.Scenes) {
		return nil, errors.Wrapf(ErrUnknownEffect, "scene %d", idx.Scene)
	}
	scene := category.Scenes[idx.Scene]
	if idx.Effect < 0 || idx.Effect >= len(scene.Effects) {
		return nil, errors.Wrapf(ErrUnknownEffect, "effect %d", idx.Effect)
	}
	effect := scene.Effects[idx.Effect]

	encoded := effect.Param
	if idx.Special >= 0 {
		if idx.Special >= len(effect.Specials) {
			return nil, errors.Wrapf(ErrUnknownEffect, "special effect %d", idx.Special)
		}
		encoded = effect.Specials[idx.Special].Param
	}

	var param []byte
	if encoded != "" {
		var err error
		param, err = base64.StdEncoding.DecodeString(encoded)
		if err != nil {
			return nil, errors.Wrapf(err, "cannot decode parameter for %s", idx)
		}
	}

	return &Entry{
		Name:  name(category, scene, effect, idx),
		Code:  effect.Code,
		Param: param,
	}, nil
}

// Lookup resolves an effect name as produced by Effects.
func (c *Catalog) Lookup(effect string) (int, []byte, error) {
	idx, err := ParseIndex(effect)
	if err != nil {
		return 0, nil, err
	}
	e, err := c.Entry(idx)
	if err != nil {
		return 0, nil, err
	}
	return e.Code, e.Param, nil
}
