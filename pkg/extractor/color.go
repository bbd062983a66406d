package extractor

import (
	"fmt"
	"math"
	"math/big"
	"strings"

	"github.com/kataras/figma-dash/pkg/figma"
)

// ColorToHex converts a Figma RGBA color (0-1 floats) to #RRGGBB.
// Each channel is floor(c*255) printed as uppercase hex, zero-padded to two
// digits. Alpha is ignored. Channels outside 0-1 are not clamped: a negative
// channel prints with a leading minus and a channel above 1 prints wider than
// two digits. It reports false for a nil color or a non-finite channel.
func ColorToHex(color *figma.Color) (string, bool) {
	if color == nil {
		return "", false
	}

	var sb strings.Builder
	sb.WriteByte('#')
	for _, c := range []float64{color.R, color.G, color.B} {
		hex, ok := channelToHex(c)
		if !ok {
			return "", false
		}
		sb.WriteString(hex)
	}

	return sb.String(), true
}

func channelToHex(c float64) (string, bool) {
	v := math.Floor(c * 255)
	if math.IsInf(v, 0) || math.IsNaN(v) {
		return "", false
	}

	if math.Abs(v) < 1<<62 {
		return fmt.Sprintf("%02X", int64(v)), true
	}

	n, _ := big.NewFloat(v).Int(nil)
	return fmt.Sprintf("%02X", n), true
}
