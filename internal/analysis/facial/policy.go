package facial

type Expression string

const (
	ExpressionNeutral   Expression = "Neutral"
	ExpressionSmiling   Expression = "Smiling"
	ExpressionUncertain Expression = "Uncertain"
	ExpressionSurprised Expression = "Surprised"
	ExpressionNervous   Expression = "Nervous"
)

type Posture string

const (
	PostureCentered  Posture = "Centered"
	PostureTilted    Posture = "Tilted"
	PostureTiltLeft  Posture = "Tilt Left"
	PostureTiltRight Posture = "Tilt Right"
)

const (
	PolicySimple   = "simple"
	PolicyExtended = "extended"
)

// Measurements are the geometric quantities derived from one frame.
// Distances are in normalised image units.
type Measurements struct {
	EyeOpenness float64 // mean upper/lower eyelid distance of both eyes
	EyeContact  float64 // EyeOpenness scaled and clamped to [0,100]
	MouthWidth  float64
	MouthHeight float64
	MouthRatio  float64 // MouthHeight / MouthWidth
	EyeTiltY    float64 // |y(left outer corner) - y(right outer corner)|
	NoseX       float64
}

// ClassificationPolicy turns measurements into discrete labels.
// Implementations must be pure.
type ClassificationPolicy interface {
	Name() string
	// PostureLandmarks lists the indices the posture rule reads, on top of
	// the eye and mouth points every policy needs.
	PostureLandmarks(ix LandmarkIndices) []int
	Classify(m Measurements) (Expression, Posture)
}

// AxisMeasurer is implemented by policies calibrated on per-axis gaps: |dy|
// for eyelids and lips and |dx| for mouth width. Other policies get
// Euclidean distances.
type AxisMeasurer interface {
	AxisAligned() bool
}

// SimpleThresholds: ratio > SmileRatio is Smiling, ratio < UncertainRatio is
// Uncertain; eye-corner tilt > TiltDeltaY is Tilted. All comparisons are strict.
type SimpleThresholds struct {
	SmileRatio     float64 `yaml:"smile_ratio" json:"smile_ratio"`
	UncertainRatio float64 `yaml:"uncertain_ratio" json:"uncertain_ratio"`
	TiltDeltaY     float64 `yaml:"tilt_delta_y" json:"tilt_delta_y"`
}

func DefaultSimpleThresholds() SimpleThresholds {
	return SimpleThresholds{SmileRatio: 0.08, UncertainRatio: 0.04, TiltDeltaY: 0.02}
}

type SimpleThreshold struct {
	t SimpleThresholds
}

func NewSimpleThreshold(t SimpleThresholds) *SimpleThreshold { return &SimpleThreshold{t: t} }

func (p *SimpleThreshold) Name() string { return PolicySimple }

func (p *SimpleThreshold) Thresholds() SimpleThresholds { return p.t }

func (p *SimpleThreshold) PostureLandmarks(ix LandmarkIndices) []int {
	return []int{ix.LeftEyeOuter, ix.RightEyeOuter}
}

func (p *SimpleThreshold) Classify(m Measurements) (Expression, Posture) {
	expr := ExpressionNeutral
	switch {
	case m.MouthRatio > p.t.SmileRatio:
		expr = ExpressionSmiling
	case m.MouthRatio < p.t.UncertainRatio:
		expr = ExpressionUncertain
	}

	posture := PostureCentered
	if m.EyeTiltY > p.t.TiltDeltaY {
		posture = PostureTilted
	}
	return expr, posture
}

// ExtendedThresholds: ratio > SurprisedRatio is Surprised, else mouth width >
// SmileMouthWidth is Smiling, else eye contact < NervousEyeContact is Nervous.
// Widths and heights are measured per axis (see AxisMeasurer), so a tilted
// face does not widen the mouth.
// Posture compares the nose-tip x against the [MidlineLow, MidlineHigh] band;
// the image is mirrored, so a low x reads as a tilt to the right.
type ExtendedThresholds struct {
	SurprisedRatio    float64 `yaml:"surprised_ratio" json:"surprised_ratio"`
	SmileMouthWidth   float64 `yaml:"smile_mouth_width" json:"smile_mouth_width"`
	NervousEyeContact float64 `yaml:"nervous_eye_contact" json:"nervous_eye_contact"`
	MidlineLow        float64 `yaml:"midline_low" json:"midline_low"`
	MidlineHigh       float64 `yaml:"midline_high" json:"midline_high"`
}

func DefaultExtendedThresholds() ExtendedThresholds {
	return ExtendedThresholds{
		SurprisedRatio:    0.4,
		SmileMouthWidth:   0.15,
		NervousEyeContact: 0.01,
		MidlineLow:        0.4,
		MidlineHigh:       0.6,
	}
}

type ExtendedThreshold struct {
	t ExtendedThresholds
}

func NewExtendedThreshold(t ExtendedThresholds) *ExtendedThreshold {
	return &ExtendedThreshold{t: t}
}

func (p *ExtendedThreshold) Name() string { return PolicyExtended }

func (p *ExtendedThreshold) Thresholds() ExtendedThresholds { return p.t }

func (p *ExtendedThreshold) AxisAligned() bool { return true }

func (p *ExtendedThreshold) PostureLandmarks(ix LandmarkIndices) []int {
	return []int{ix.NoseTip}
}

func (p *ExtendedThreshold) Classify(m Measurements) (Expression, Posture) {
	expr := ExpressionNeutral
	switch {
	case m.MouthRatio > p.t.SurprisedRatio:
		expr = ExpressionSurprised
	case m.MouthWidth > p.t.SmileMouthWidth:
		expr = ExpressionSmiling
	case m.EyeContact < p.t.NervousEyeContact:
		expr = ExpressionNervous
	}

	posture := PostureCentered
	switch {
	case m.NoseX < p.t.MidlineLow:
		posture = PostureTiltRight
	case m.NoseX > p.t.MidlineHigh:
		posture = PostureTiltLeft
	}
	return expr, posture
}
