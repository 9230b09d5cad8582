// Package facial derives per-frame eye contact, expression and posture from
// face-mesh landmarks.
//
// The Extractor keeps no state between calls. Temporal smoothing lives in
// Smoother and session aggregation in Tally, both layered on top of it.
package facial

import (
	"math"
)

// Landmark is one normalised (0-1) face-mesh point. Z is carried for
// completeness and ignored by the extractor.
type Landmark struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z,omitempty"`
}

// Frame is the landmark set of exactly one detected face in one video frame,
// indexed by mesh point number.
type Frame []Landmark

func (f Frame) has(idx ...int) bool {
	for _, i := range idx {
		if i < 0 || i >= len(f) {
			return false
		}
		p := f[i]
		if math.IsNaN(p.X) || math.IsNaN(p.Y) || math.IsInf(p.X, 0) || math.IsInf(p.Y, 0) {
			return false
		}
	}
	return true
}

// Report is the per-frame result.
type Report struct {
	EyeContactPercent int        `json:"eye_contact_percent" bson:"eye_contact_percent"`
	Expression        Expression `json:"expression" bson:"expression"`
	Posture           Posture    `json:"posture" bson:"posture"`
}

type Extractor struct {
	cfg Config
}

// NewExtractor falls back to the simple policy when cfg.Policy is nil.
func NewExtractor(cfg Config) *Extractor {
	if cfg.Policy == nil {
		cfg.Policy = NewSimpleThreshold(DefaultSimpleThresholds())
	}
	return &Extractor{cfg: cfg}
}

func (e *Extractor) Policy() ClassificationPolicy { return e.cfg.Policy }

// Measure computes raw geometry. ok is false when a required landmark is
// missing or the mouth corners coincide.
func (e *Extractor) Measure(f Frame) (Measurements, bool) {
	ix := e.cfg.Landmarks
	required := []int{
		ix.LeftEyeUpper, ix.LeftEyeLower, ix.RightEyeUpper, ix.RightEyeLower,
		ix.MouthLeft, ix.MouthRight, ix.UpperLip, ix.LowerLip,
	}
	required = append(required, e.cfg.Policy.PostureLandmarks(ix)...)
	if len(f) == 0 || !f.has(required...) {
		return Measurements{}, false
	}

	vertical, horizontal := distance, distance
	if am, ok := e.cfg.Policy.(AxisMeasurer); ok && am.AxisAligned() {
		vertical, horizontal = deltaY, deltaX
	}

	width := horizontal(f[ix.MouthLeft], f[ix.MouthRight])
	if width == 0 {
		return Measurements{}, false
	}

	left := vertical(f[ix.LeftEyeUpper], f[ix.LeftEyeLower])
	right := vertical(f[ix.RightEyeUpper], f[ix.RightEyeLower])
	openness := (left + right) / 2
	height := vertical(f[ix.UpperLip], f[ix.LowerLip])

	m := Measurements{
		EyeOpenness: openness,
		EyeContact:  clamp(openness*e.cfg.EyeContactScale, 0, 100),
		MouthWidth:  width,
		MouthHeight: height,
		MouthRatio:  height / width,
	}
	if f.has(ix.LeftEyeOuter, ix.RightEyeOuter) {
		m.EyeTiltY = math.Abs(f[ix.LeftEyeOuter].Y - f[ix.RightEyeOuter].Y)
	}
	if f.has(ix.NoseTip) {
		m.NoseX = f[ix.NoseTip].X
	}
	return m, true
}

// Extract returns nil when no usable face is present; callers should keep
// their previous report instead of replacing it with a default.
func (e *Extractor) Extract(f Frame) *Report {
	m, ok := e.Measure(f)
	if !ok {
		return nil
	}
	expr, posture := e.cfg.Policy.Classify(m)
	return &Report{
		EyeContactPercent: int(math.Round(m.EyeContact)),
		Expression:        expr,
		Posture:           posture,
	}
}

func distance(a, b Landmark) float64 {
	return math.Hypot(a.X-b.X, a.Y-b.Y)
}

func deltaX(a, b Landmark) float64 { return math.Abs(a.X - b.X) }

func deltaY(a, b Landmark) float64 { return math.Abs(a.Y - b.Y) }

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
