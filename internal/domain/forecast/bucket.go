package forecast

// Bucket is the severity class rendered for an intensity.
type Bucket string

const (
	BucketNotTracked  Bucket = "not_tracked"
	BucketNotInSeason Bucket = "not_in_season"
	BucketVeryLow     Bucket = "very_low"
	BucketLow         Bucket = "low"
	BucketModerate    Bucket = "moderate"
	BucketHigh        Bucket = "high"
	BucketVeryHigh    Bucket = "very_high"
)

var levelBuckets = [...]Bucket{
	BucketNotInSeason,
	BucketVeryLow,
	BucketLow,
	BucketModerate,
	BucketHigh,
	BucketVeryHigh,
}

var bucketLabels = map[Bucket]string{
	BucketNotTracked:  "Not tracked",
	BucketNotInSeason: "Not in season",
	BucketVeryLow:     "Very low",
	BucketLow:         "Low",
	BucketModerate:    "Moderate",
	BucketHigh:        "High",
	BucketVeryHigh:    "Very high",
}

// BucketFor maps an adjusted intensity to its bucket. Values above 5 saturate.
func BucketFor(intensity int) Bucket {
	if intensity < 0 {
		return BucketNotTracked
	}
	return levelBuckets[clamp(intensity, MinIntensity, MaxIntensity)]
}

// Label returns the display label of the bucket.
func (b Bucket) Label() string {
	if label, ok := bucketLabels[b]; ok {
		return label
	}
	return string(b)
}

// Rank orders buckets by severity; not-tracked ranks below not-in-season.
func (b Bucket) Rank() int {
	for i, candidate := range levelBuckets {
		if candidate == b {
			return i
		}
	}
	return -1
}

// Palette maps buckets to hex colors for the calendar renderer.
type Palette map[Bucket]string

// DefaultPalette is used when no palette is configured.
func DefaultPalette() Palette {
	return Palette{
		BucketNotTracked:  "#ffffff",
		BucketNotInSeason: "#d9d9d9",
		BucketVeryLow:     "#9be7a0",
		BucketLow:         "#d4e86b",
		BucketModerate:    "#f7d154",
		BucketHigh:        "#f59a46",
		BucketVeryHigh:    "#e5533d",
	}
}

// Color resolves a bucket color, falling back to the default palette and then white.
func (p Palette) Color(b Bucket) string {
	if c, ok := p[b]; ok && c != "" {
		return c
	}
	if c, ok := DefaultPalette()[b]; ok {
		return c
	}
	return "#ffffff"
}
