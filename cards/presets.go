// Package cards holds named root-block geometry presets, loaded from an
// embedded CSV the way the teacher's disks package loads disk geometries.
package cards

import (
	_ "embed"
	"fmt"
	"strings"

	"github.com/gocarina/gocsv"
)

// Preset describes the root-block geometry for one named card layout
// (spec.md section 6's layout table, parameterized).
type Preset struct {
	Slug            string `csv:"slug"`
	Name            string `csv:"name"`
	TotalBlocks     uint16 `csv:"total_blocks"`
	FATBlock        uint16 `csv:"fat_block"`
	FATSize         uint16 `csv:"fat_size"`
	DirBlock        uint16 `csv:"dir_block"`
	DirSize         uint16 `csv:"dir_size"`
	IconShape       uint16 `csv:"icon_shape"`
	UserSize        uint16 `csv:"user_size"`
	SaveAreaBlock   uint16 `csv:"save_area_block"`
	SaveAreaSize    uint16 `csv:"save_area_size"`
	Notes           string `csv:"notes"`
}

// DefaultPresetSlug is the layout real Sega-formatted VMUs use.
const DefaultPresetSlug = "sega-stock"

//go:embed card-presets.csv
var cardPresetsRawCSV string

var presets map[string]Preset

func init() {
	presets = make(map[string]Preset)
	reader := strings.NewReader(cardPresetsRawCSV)
	err := gocsv.UnmarshalToCallback(reader, func(row Preset) error {
		if _, exists := presets[row.Slug]; exists {
			return fmt.Errorf("duplicate card preset slug %q", row.Slug)
		}
		presets[row.Slug] = row
		return nil
	})
	if err != nil {
		panic(err)
	}
}

// GetPreset looks up a named card geometry preset.
func GetPreset(slug string) (Preset, error) {
	preset, ok := presets[slug]
	if !ok {
		return Preset{}, fmt.Errorf("no predefined card layout with slug %q", slug)
	}
	return preset, nil
}

// DefaultPreset returns the stock Sega layout.
func DefaultPreset() Preset {
	preset, err := GetPreset(DefaultPresetSlug)
	if err != nil {
		panic(err)
	}
	return preset
}
