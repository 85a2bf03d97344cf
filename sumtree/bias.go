package sumtree

// Bias disambiguates positions that compare equal.
// When seeking, Left stops before any run of equal items and Right stops
// after it. The same two values describe which side of an insertion an
// anchored position prefers to stay on.
type Bias uint8

const (
	// Left favors the position before equal items or inserted text.
	Left Bias = iota

	// Right favors the position after equal items or inserted text.
	Right
)

// Invert returns the opposite bias.
func (b Bias) Invert() Bias {
	if b == Left {
		return Right
	}
	return Left
}

// String returns a human-readable representation of the bias.
func (b Bias) String() string {
	if b == Left {
		return "left"
	}
	return "right"
}
