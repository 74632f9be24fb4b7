package combat

import (
	"submarine-sim/internal/geom"
)

// AccuracyVariance interpolates aim spread from maxVar at difficulty 1 down to
// minVar at maxDifficulty. Difficulty outside the range is clamped.
func AccuracyVariance(difficulty, maxDifficulty, maxVar, minVar float64) float64 {
	if maxDifficulty <= 1 {
		return minVar
	}
	d := geom.Clamp(difficulty, 1, maxDifficulty)
	t := (d - 1) / (maxDifficulty - 1)
	return maxVar - t*(maxVar-minVar)
}

// AimPoint jitters target by variance on X/Z and half of it on Y.
// rnd must return values in [0, 1).
func AimPoint(target geom.Vec3, variance float64, rnd func() float64) geom.Vec3 {
	return geom.Vec3{
		X: target.X + (rnd()-0.5)*variance,
		Y: target.Y + (rnd()-0.5)*variance*0.5,
		Z: target.Z + (rnd()-0.5)*variance,
	}
}
