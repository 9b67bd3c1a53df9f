package core

// Epsilon is the minimum accepted hit distance and the parallel-ray threshold.
// Every primitive uses the same value so shared boundaries behave consistently.
const Epsilon = 1.0e-10

// Common colors
var (
	White  = NewVec3(1, 1, 1)
	Black  = NewVec3(0, 0, 0)
	Red    = NewVec3(1, 0, 0)
	Green  = NewVec3(0, 1, 0)
	Blue   = NewVec3(0, 0, 1)
	Yellow = NewVec3(1, 1, 0)
	Gray   = NewVec3(0.5, 0.5, 0.5)
)
