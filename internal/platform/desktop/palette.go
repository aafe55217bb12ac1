package desktop

import (
	"image/color"

	"github.com/vovakirdan/blockfall/internal/core"
)

var (
	backgroundColor = color.RGBA{222, 248, 116, 255}
	emptyCellColor  = color.RGBA{128, 128, 128, 255}
	textColor       = color.RGBA{0, 0, 0, 255}
	overlayColor    = color.RGBA{0, 0, 0, 140}
)

var palette = map[core.Color]color.RGBA{
	core.ColorRed:     {255, 0, 0, 255},
	core.ColorYellow:  {255, 255, 0, 255},
	core.ColorOrange:  {255, 128, 0, 255},
	core.ColorGreen:   {0, 255, 0, 255},
	core.ColorCyan:    {0, 255, 255, 255},
	core.ColorMagenta: {255, 0, 255, 255},
	core.ColorBlue:    {45, 109, 234, 255},
	core.ColorGray:    {128, 128, 128, 255},
	core.ColorWhite:   {255, 255, 255, 255},
}

func rgba(c core.Color) color.RGBA {
	if v, ok := palette[c]; ok {
		return v
	}
	return textColor
}
