package faces

// Rect is a normalized bounding box with coordinates in [0,1] relative to
// the photo dimensions.
type Rect struct {
	Left   float64 `json:"left"`
	Top    float64 `json:"top"`
	Right  float64 `json:"right"`
	Bottom float64 `json:"bottom"`
}

// Width returns the normalized box width, never negative.
func (r Rect) Width() float64 {
	if r.Right < r.Left {
		return 0
	}
	return r.Right - r.Left
}

// Height returns the normalized box height, never negative.
func (r Rect) Height() float64 {
	if r.Bottom < r.Top {
		return 0
	}
	return r.Bottom - r.Top
}

// Area returns the normalized box area.
func (r Rect) Area() float64 {
	return r.Width() * r.Height()
}

// PixelArea returns the box area in pixels for a photo of the given size.
func (r Rect) PixelArea(photoWidth, photoHeight int) float64 {
	if photoWidth <= 0 || photoHeight <= 0 {
		return 0
	}
	return r.Area() * float64(photoWidth) * float64(photoHeight)
}

// IoU computes Intersection over Union between two boxes in the same
// coordinate system. Disjoint boxes yield 0.
func IoU(a, b Rect) float64 {
	left := max(a.Left, b.Left)
	top := max(a.Top, b.Top)
	right := min(a.Right, b.Right)
	bottom := min(a.Bottom, b.Bottom)

	if right <= left || bottom <= top {
		return 0
	}

	intersection := (right - left) * (bottom - top)
	union := a.Area() + b.Area() - intersection
	if union <= 0 {
		return 0
	}

	return intersection / union
}
