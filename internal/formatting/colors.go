package formatting

import "github.com/slackrelay/slackrelay/pkg/types"

const defaultColor = "#D3D3D3"

var levelColors = map[types.Level]string{
	types.LevelVerbose:     "#D3D3D3",
	types.LevelDebug:       "#D3D3D3",
	types.LevelInformation: "#00A000",
	types.LevelWarning:     "#f9c019",
	types.LevelError:       "#e03836",
	types.LevelFatal:       "#e03836",
}

// LevelToColor returns the attachment color for level. Out-of-range levels
// get the same light gray as Verbose.
func LevelToColor(level types.Level) string {
	if c, ok := levelColors[level]; ok {
		return c
	}
	return defaultColor
}
