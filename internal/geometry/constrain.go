package geometry

// ConstrainOffset clamps a center-offset to keep an area of the given size
// inside the tablet bounds. The valid range for the x axis is
// [areaW/2, tabletW-areaW/2], symmetric for y; each axis clamps
// independently. When the area exceeds the tablet on an axis the range is
// inverted and collapses to the tablet midpoint on that axis.
func ConstrainOffset(offsetX, offsetY, areaW, areaH, tabletW, tabletH float64) (float64, float64) {
	x := Clamp(offsetX, areaW/2, tabletW-areaW/2)
	y := Clamp(offsetY, areaH/2, tabletH-areaH/2)
	return x, y
}

// Scale returns the px-per-mm factor for a display of displayWidthPx pixels
// showing a tablet of tabletWidthMm millimeters. Returns 0 when the tablet
// width is not positive.
func Scale(displayWidthPx, tabletWidthMm float64) float64 {
	if tabletWidthMm <= 0 {
		return 0
	}
	return displayWidthPx / tabletWidthMm
}

// MmToPx converts millimeters to pixels for the given scale.
func MmToPx(mm, scale float64) float64 {
	return mm * scale
}

// PxToMm converts pixels back to millimeters for the given scale.
// Exact inverse of MmToPx for the same positive scale.
func PxToMm(px, scale float64) float64 {
	if scale == 0 {
		return 0
	}
	return px / scale
}
