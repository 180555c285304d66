package highlight

import (
	"regexp"
	"strings"
)

var hexColorPattern = regexp.MustCompile(`^#(?:[0-9a-fA-F]{3}|[0-9a-fA-F]{6})$`)

// cssColors covers the CSS names the service tends to emit for highlights.
var cssColors = map[string]string{
	"yellow":       "#ffff00",
	"lightyellow":  "#ffffe0",
	"gold":         "#ffd700",
	"orange":       "#ffa500",
	"lightsalmon":  "#ffa07a",
	"salmon":       "#fa8072",
	"pink":         "#ffc0cb",
	"lightpink":    "#ffb6c1",
	"hotpink":      "#ff69b4",
	"red":          "#ff0000",
	"tomato":       "#ff6347",
	"lightcoral":   "#f08080",
	"lightgreen":   "#90ee90",
	"palegreen":    "#98fb98",
	"green":        "#008000",
	"lime":         "#00ff00",
	"lightblue":    "#add8e6",
	"lightskyblue": "#87cefa",
	"skyblue":      "#87ceeb",
	"cyan":         "#00ffff",
	"aqua":         "#00ffff",
	"lavender":     "#e6e6fa",
	"plum":         "#dda0dd",
	"violet":       "#ee82ee",
	"khaki":        "#f0e68c",
	"wheat":        "#f5deb3",
	"beige":        "#f5f5dc",
	"lightgray":    "#d3d3d3",
	"lightgrey":    "#d3d3d3",
	"silver":       "#c0c0c0",
}

// ResolveColor maps a CSS colour name or hex value to a #rrggbb string.
func ResolveColor(name string) (string, bool) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", false
	}
	if hexColorPattern.MatchString(name) {
		if len(name) == 4 {
			r, g, b := name[1:2], name[2:3], name[3:4]
			return strings.ToLower("#" + r + r + g + g + b + b), true
		}
		return strings.ToLower(name), true
	}
	hex, ok := cssColors[strings.ToLower(name)]
	return hex, ok
}
