package portal

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Tile is one icon on the portal grid, linking out to an external tool or
// form. Icon is a symbolic name resolved by the client's icon set.
type Tile struct {
	Name  string `json:"name" yaml:"name"`
	Icon  string `json:"icon" yaml:"icon"`
	URL   string `json:"url" yaml:"url"`
	Style string `json:"style,omitempty" yaml:"style,omitempty"`
}

// TilesFile is the YAML shape of the tile configuration.
type TilesFile struct {
	Tiles []Tile `yaml:"tiles"`
	// AlwaysVisible names the tiles shown on the top grid.
	AlwaysVisible []string `yaml:"always_visible"`
	// Folder groups lower-priority tiles behind a collapsible folder.
	Folder struct {
		Name  string   `yaml:"name"`
		Tiles []string `yaml:"tiles"`
	} `yaml:"folder"`
	// OtherStart names the first tile of the trailing "other" section.
	OtherStart string `yaml:"other_start"`
}

// Folder is a collapsible group of tiles. Preview holds at most the first
// four tiles, rendered as the folder icon.
type Folder struct {
	Name    string `json:"name"`
	Tiles   []Tile `json:"tiles"`
	Preview []Tile `json:"preview"`
}

// Layout is the derived portal arrangement served to clients.
type Layout struct {
	Always []Tile `json:"always"`
	Folder Folder `json:"folder"`
	Other  []Tile `json:"other"`
}

// LoadTilesFile reads and parses the tile configuration.
func LoadTilesFile(path string) (*TilesFile, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read tiles file: %w", err)
	}
	var tf TilesFile
	if err := yaml.Unmarshal(raw, &tf); err != nil {
		return nil, fmt.Errorf("failed to parse tiles file: %w", err)
	}
	return &tf, nil
}

// BuildLayout derives the displayed arrangement from the configuration.
// Names that resolve to no tile are skipped rather than erroring, so a
// stale name list cannot take the portal down.
func BuildLayout(tf *TilesFile) Layout {
	byName := make(map[string]Tile, len(tf.Tiles))
	for _, t := range tf.Tiles {
		byName[t.Name] = t
	}

	var layout Layout
	for _, name := range tf.AlwaysVisible {
		if t, ok := byName[name]; ok {
			layout.Always = append(layout.Always, t)
		}
	}

	folderSet := make(map[string]bool, len(tf.Folder.Tiles))
	layout.Folder.Name = tf.Folder.Name
	for _, name := range tf.Folder.Tiles {
		folderSet[name] = true
		if t, ok := byName[name]; ok {
			layout.Folder.Tiles = append(layout.Folder.Tiles, t)
		}
	}
	layout.Folder.Preview = layout.Folder.Tiles
	if len(layout.Folder.Preview) > 4 {
		layout.Folder.Preview = layout.Folder.Preview[:4]
	}

	// The "other" section is everything from OtherStart onward, minus the
	// tiles already grouped into the folder.
	start := -1
	for i, t := range tf.Tiles {
		if t.Name == tf.OtherStart {
			start = i
			break
		}
	}
	if start >= 0 {
		for _, t := range tf.Tiles[start:] {
			if !folderSet[t.Name] {
				layout.Other = append(layout.Other, t)
			}
		}
	}

	return layout
}
