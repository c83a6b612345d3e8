package domain

import "time"

// ZonePhase describes one configured stage of the shrinking play area.
// A match traverses an ordered sequence of these.
type ZonePhase struct {
	ID            int
	Wait          time.Duration // delay before this stage's shrink begins
	Shrink        time.Duration // time over which the radius interpolates
	TargetRadius  float64
	DamagePerTick float64
	TickInterval  time.Duration // cadence of out-of-zone damage application
}

// Zone is the shrinking circular safe area for a single match. The radius is
// mutated exclusively by Tick and StartShrink; everything else is a read.
type Zone struct {
	World  string
	Center Vec3

	currentRadius float64
	targetRadius  float64
	startRadius   float64

	shrinking      bool
	shrinkStart    time.Time
	shrinkDuration time.Duration

	phase ZonePhase

	now func() time.Time
}

// NewZone creates a zone covering the arena with the given initial radius.
// A nil now falls back to time.Now; tests inject a fake clock.
func NewZone(world string, center Vec3, radius float64, now func() time.Time) *Zone {
	if now == nil {
		now = time.Now
	}
	return &Zone{
		World:         world,
		Center:        center,
		currentRadius: radius,
		targetRadius:  radius,
		now:           now,
	}
}

// StartShrink begins interpolating the radius down to target over duration.
// The zone never grows: a target above the current radius is rejected, and a
// shrink already in progress may only be refined to a stricter target, never
// reversed. Returns false when the request is rejected.
func (z *Zone) StartShrink(target float64, duration time.Duration) bool {
	if target < 0 {
		target = 0
	}
	if target > z.currentRadius {
		return false
	}
	if z.shrinking && target > z.targetRadius {
		return false
	}
	z.startRadius = z.currentRadius
	z.targetRadius = target
	z.shrinkStart = z.now()
	z.shrinkDuration = duration
	z.shrinking = true
	return true
}

// Tick advances the shrink by linear interpolation against the clock. Called
// once per scheduler tick; a no-op when no shrink is in progress. A
// zero-duration shrink completes on the first call.
func (z *Zone) Tick() {
	if !z.shrinking {
		return
	}
	f := z.ShrinkProgress()
	if f >= 1 {
		z.currentRadius = z.targetRadius
		z.shrinking = false
		return
	}
	z.currentRadius = z.startRadius + (z.targetRadius-z.startRadius)*f
}

// ShrinkProgress returns the elapsed fraction of the current shrink in [0,1].
// Returns 1 when no shrink is in progress.
func (z *Zone) ShrinkProgress() float64 {
	if !z.shrinking {
		return 1
	}
	if z.shrinkDuration <= 0 {
		return 1
	}
	f := z.now().Sub(z.shrinkStart).Seconds() / z.shrinkDuration.Seconds()
	if f < 0 {
		return 0
	}
	if f > 1 {
		return 1
	}
	return f
}

// IsShrinkComplete reports whether the radius has reached its target exactly.
func (z *Zone) IsShrinkComplete() bool {
	return !z.shrinking && z.currentRadius == z.targetRadius
}

// IsShrinking reports whether a shrink is in progress.
func (z *Zone) IsShrinking() bool {
	return z.shrinking
}

// IsInZone reports whether the point is inside the safe area. Containment is
// cylindrical: only the horizontal distance from the center matters.
func (z *Zone) IsInZone(p Vec3) bool {
	return z.DistanceToEdge(p) >= 0
}

// DistanceToEdge returns how far the point is from the zone boundary:
// positive inside, negative outside. The damage loop reads this every tick.
func (z *Zone) DistanceToEdge(p Vec3) float64 {
	return z.currentRadius - z.Center.HorizontalDistance(p)
}

// CurrentRadius returns the present radius of the safe area.
func (z *Zone) CurrentRadius() float64 {
	return z.currentRadius
}

// TargetRadius returns the radius the zone is or was last shrinking toward.
func (z *Zone) TargetRadius() float64 {
	return z.targetRadius
}

// SetPhase records the stage whose damage settings currently apply.
func (z *Zone) SetPhase(p ZonePhase) {
	z.phase = p
}

// Phase returns the stage whose damage settings currently apply.
func (z *Zone) Phase() ZonePhase {
	return z.phase
}
