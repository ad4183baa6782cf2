package accel

import "math"

// historyCapacity is the fixed size of the recent-motion ring used to
// smooth the instantaneous velocity estimate.
const historyCapacity = 16

// referenceDPI is the canonical resolution the smooth-simple profile's
// velocity thresholds are expressed in.
const referenceDPI = 400.0

// sample is one (velocity, timestamp) ring entry.
type sample struct {
	velocity float64 // device units/ms, already scaled to referenceDPI
	timeMS   uint64
}

// Profile maps a smoothed velocity (in 400dpi-normalized units/ms) to a
// unitless multiplier.
type Profile func(velocity float64) float64

// Smooth is the curve-based adaptive accelerator: it maintains a ring of
// recent motion samples, derives a smoothed instantaneous velocity, and
// feeds it to Profile.
type Smooth struct {
	profile    Profile
	resolution float64 // device's own resolution (dpi), 0 treated as referenceDPI
	ring       [historyCapacity]sample
	head       int
	filled     int
	lastTimeMS uint64
	haveLast   bool
}

// NewSmooth returns a Smooth accelerator using profile, scaled for a
// device whose own resolution is deviceDPI (0 means "use the reference
// resolution unscaled").
func NewSmooth(profile Profile, deviceDPI float64) *Smooth {
	if profile == nil {
		profile = SmoothSimpleProfile
	}
	return &Smooth{profile: profile, resolution: deviceDPI}
}

// Apply computes the Euclidean magnitude of (dx, dy), records it into the
// ring scaled to the 400dpi reference, derives a smoothed velocity, looks
// up the profile factor, and scales both deltas by it.
func (s *Smooth) Apply(dx, dy *float64, timeMS uint64) {
	mag := math.Hypot(*dx, *dy)

	dpi := s.resolution
	if dpi <= 0 {
		dpi = referenceDPI
	}
	scaled := mag * (referenceDPI / dpi)

	var dt uint64 = 1
	if s.haveLast && timeMS > s.lastTimeMS {
		dt = timeMS - s.lastTimeMS
	}
	s.lastTimeMS = timeMS
	s.haveLast = true

	s.push(sample{velocity: scaled / float64(dt), timeMS: timeMS})

	v := s.smoothedVelocity()
	factor := s.profile(v)

	*dx *= factor
	*dy *= factor
}

func (s *Smooth) push(sm sample) {
	s.ring[s.head] = sm
	s.head = (s.head + 1) % historyCapacity
	if s.filled < historyCapacity {
		s.filled++
	}
}

// smoothedVelocity averages the stored samples, weighting toward the
// most recent by a simple exponential decay — enough to avoid a single
// noisy sample dominating the profile lookup without needing a separate
// motion-estimation component (scroll kinetics, gesture recognition are
// out of scope here).
func (s *Smooth) smoothedVelocity() float64 {
	if s.filled == 0 {
		return 0
	}
	var weightedSum, weightTotal float64
	weight := 1.0
	const decay = 0.7
	idx := s.head
	for i := 0; i < s.filled; i++ {
		idx = (idx - 1 + historyCapacity) % historyCapacity
		weightedSum += s.ring[idx].velocity * weight
		weightTotal += weight
		weight *= decay
	}
	return weightedSum / weightTotal
}

// Smooth-simple profile thresholds, in 400dpi-normalized device
// units/ms: a small low-speed region with a smoothed ramp-up, a linear
// mid region, and a flat tail.
const (
	lowSpeedThreshold  = 0.2
	midSpeedThreshold  = 4.0
	lowSpeedMinFactor  = 0.3
	midSpeedSlope      = 0.65
	midSpeedIntercept  = 1.0 - midSpeedSlope*lowSpeedThreshold
	maxFactor          = 3.5
)

// SmoothSimpleProfile is the canonical "smooth simple" profile: a small
// low-speed region with a smoothed ramp-up (cosine ease-in from
// lowSpeedMinFactor to 1.0), a linear mid region, and a flat tail at
// maxFactor.
func SmoothSimpleProfile(velocity float64) float64 {
	v := math.Abs(velocity)

	switch {
	case v <= lowSpeedThreshold:
		t := v / lowSpeedThreshold
		ease := (1 - math.Cos(t*math.Pi)) / 2
		return lowSpeedMinFactor + ease*(1-lowSpeedMinFactor)
	case v <= midSpeedThreshold:
		factor := midSpeedIntercept + midSpeedSlope*v
		if factor > maxFactor {
			return maxFactor
		}
		return factor
	default:
		return maxFactor
	}
}

var _ Filter = (*Smooth)(nil)
