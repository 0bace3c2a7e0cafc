package timeline

import "time"

// Default device parameters. Compact viewports render items at 130% of the
// viewport height, so a 30% offset keeps the visibility checks aligned.
const (
	DefaultCompactMaxWidth      = 100
	DefaultWideLazyLoadDelay    = 20 * time.Millisecond
	DefaultCompactLazyLoadDelay = 500 * time.Millisecond
	DefaultCompactOffset        = 0.30
)

// DeviceProfile captures the viewport class detected at startup. It is
// computed once and never re-evaluated on resize.
type DeviceProfile struct {
	Compact        bool
	LazyLoadDelay  time.Duration
	OffsetFraction float64
}

// WideProfile is the profile for viewports wider than the compact breakpoint.
func WideProfile() DeviceProfile {
	return DeviceProfile{
		LazyLoadDelay: DefaultWideLazyLoadDelay,
	}
}

// CompactProfile is the profile for narrow viewports.
func CompactProfile() DeviceProfile {
	return DeviceProfile{
		Compact:        true,
		LazyLoadDelay:  DefaultCompactLazyLoadDelay,
		OffsetFraction: DefaultCompactOffset,
	}
}

// DetectProfile classifies a viewport by width. Widths at or below
// compactMaxWidth are compact; a non-positive compactMaxWidth falls back to
// DefaultCompactMaxWidth.
func DetectProfile(viewportWidth, compactMaxWidth int) DeviceProfile {
	if compactMaxWidth <= 0 {
		compactMaxWidth = DefaultCompactMaxWidth
	}
	if viewportWidth <= compactMaxWidth {
		return CompactProfile()
	}
	return WideProfile()
}

// DeviceOffset is the visibility buffer, in rows, for a viewport of the
// given height.
func (p DeviceProfile) DeviceOffset(viewportHeight int) float64 {
	if !p.Compact {
		return 0
	}
	return float64(viewportHeight) * p.OffsetFraction
}

// String returns "compact" or "wide".
func (p DeviceProfile) String() string {
	if p.Compact {
		return "compact"
	}
	return "wide"
}
