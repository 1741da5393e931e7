package plot

import (
	"fmt"
	"sort"

	"github.com/wcharczuk/go-chart/v2/drawing"
)

var palettes = map[string][]string{
	"pastel": {"a1c9f4", "ffb482", "8de5a1", "ff9f9b", "d0bbff", "debb9b", "fab0e4", "cfcfcf", "fffea3", "b9f2f0"},
	"deep":   {"4c72b0", "dd8452", "55a868", "c44e52", "8172b3", "937860", "da8bc3", "8c8c8c", "ccb974", "64b5cd"},
	"muted":  {"4878d0", "ee854a", "6acc64", "d65f5f", "956cb4", "8c613c", "dc7ec0", "797979", "d5bb67", "82c6e2"},
	"bright": {"023eff", "ff7c00", "1ac938", "e8000b", "8b2be2", "9f4800", "f14cc1", "a3a3a3", "ffc400", "00d7ff"},
}

// Palette is a cycling list of bar colours.
type Palette []drawing.Color

func PaletteNames() []string {
	names := make([]string, 0, len(palettes))
	for n := range palettes {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// LookupPalette returns the named palette with every colour at the given
// alpha.
func LookupPalette(name string, alpha uint8) (Palette, error) {
	hexes, ok := palettes[name]
	if !ok {
		return nil, fmt.Errorf("unknown palette %q, expected one of %v", name, PaletteNames())
	}
	p := make(Palette, len(hexes))
	for i, h := range hexes {
		p[i] = drawing.ColorFromHex(h).WithAlpha(alpha)
	}
	return p, nil
}

func (p Palette) At(i int) drawing.Color {
	return p[i%len(p)]
}
