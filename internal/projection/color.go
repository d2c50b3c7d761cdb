package projection

import "github.com/nerrad567/hearth/internal/entity"

// Colour constants for lights.
var (
	// neutralColor is forced for lights that are off or unsettled,
	// regardless of stored colour attributes.
	neutralColor = RGB{R: 128, G: 128, B: 128}

	// warmWhite is the default for lights that are on but carry no
	// colour information.
	warmWhite = RGB{R: 255, G: 224, B: 181}
)

// miredCurve approximates black-body colour over the common colour
// temperature range (153 mireds ≈ 6500K cool white, 500 mireds ≈ 2000K
// warm orange). Values between breakpoints interpolate linearly.
var miredCurve = []struct {
	mired float64
	color RGB
}{
	{153, RGB{255, 255, 255}},
	{200, RGB{255, 228, 206}},
	{250, RGB{255, 209, 163}},
	{312, RGB{255, 187, 120}},
	{370, RGB{255, 169, 87}},
	{454, RGB{255, 147, 44}},
	{500, RGB{255, 138, 18}},
}

// colorFor derives the projection colour. Only lights carry colour;
// other domains defer to the surface default.
func colorFor(rec *entity.Record) *RGB {
	if rec.ID.Domain() != "light" {
		return nil
	}

	// Off forces neutral no matter what attributes linger from the
	// last on state.
	if rec.State != "on" {
		c := neutralColor
		return &c
	}

	if rgb, ok := rec.Attributes.Ints("rgb_color"); ok && len(rgb) >= 3 {
		c := RGB{R: clampChannel(rgb[0]), G: clampChannel(rgb[1]), B: clampChannel(rgb[2])}
		return &c
	}

	if mired, ok := rec.Attributes.Float("color_temp"); ok {
		c := miredToRGB(mired)
		return &c
	}

	c := warmWhite
	return &c
}

// miredToRGB interpolates the fixed lookup curve, clamped at both ends.
func miredToRGB(mired float64) RGB {
	first := miredCurve[0]
	if mired <= first.mired {
		return first.color
	}
	last := miredCurve[len(miredCurve)-1]
	if mired >= last.mired {
		return last.color
	}

	for i := 1; i < len(miredCurve); i++ {
		hi := miredCurve[i]
		if mired > hi.mired {
			continue
		}
		lo := miredCurve[i-1]
		t := (mired - lo.mired) / (hi.mired - lo.mired)
		return RGB{
			R: lerpChannel(lo.color.R, hi.color.R, t),
			G: lerpChannel(lo.color.G, hi.color.G, t),
			B: lerpChannel(lo.color.B, hi.color.B, t),
		}
	}
	return last.color
}

func lerpChannel(a, b uint8, t float64) uint8 {
	return uint8(float64(a) + (float64(b)-float64(a))*t)
}

func clampChannel(v int) uint8 {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v)
}
