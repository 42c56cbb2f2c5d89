package config

// Layout constants.
const (
	// MinLabelWidth is the minimum width for a timer label column.
	MinLabelWidth = 10

	// TargetLabelWidth is the preferred width for timer labels.
	TargetLabelWidth = 30

	// CompactModeThreshold triggers compact rendering below this width.
	CompactModeThreshold = 60

	// ProgressWidth is the width of the daily target bar.
	ProgressWidth = 30
)

// Display limits.
const (
	// MaxVisibleTimers limits rows shown before scrolling.
	MaxVisibleTimers = 15

	// TruncationSuffix appended to truncated labels.
	TruncationSuffix = "…"
)

// Input constraints.
const (
	// MaxLabelLength is the maximum timer label length.
	MaxLabelLength = 100
)
