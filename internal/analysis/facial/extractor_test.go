package facial

import (
	"math"
	"testing"
)

const meshSize = 478

// frameBuilder produces a full mesh at the centre of the image and lets a
// test move just the points it cares about.
type frameBuilder struct {
	ix LandmarkIndices
	f  Frame
}

func newFrame() *frameBuilder {
	f := make(Frame, meshSize)
	for i := range f {
		f[i] = Landmark{X: 0.5, Y: 0.5}
	}
	b := &frameBuilder{ix: DefaultLandmarks(), f: f}
	return b.eyes(0.05).mouth(0.10, 0.006).corners(0.45, 0.45).nose(0.5)
}

// eyes opens both eyes by gap (vertical distance between lids).
func (b *frameBuilder) eyes(gap float64) *frameBuilder {
	b.f[b.ix.LeftEyeUpper] = Landmark{X: 0.4, Y: 0.4}
	b.f[b.ix.LeftEyeLower] = Landmark{X: 0.4, Y: 0.4 + gap}
	b.f[b.ix.RightEyeUpper] = Landmark{X: 0.6, Y: 0.4}
	b.f[b.ix.RightEyeLower] = Landmark{X: 0.6, Y: 0.4 + gap}
	return b
}

func (b *frameBuilder) mouth(width, height float64) *frameBuilder {
	b.f[b.ix.MouthLeft] = Landmark{X: 0.5 - width/2, Y: 0.7}
	b.f[b.ix.MouthRight] = Landmark{X: 0.5 + width/2, Y: 0.7}
	b.f[b.ix.UpperLip] = Landmark{X: 0.5, Y: 0.7}
	b.f[b.ix.LowerLip] = Landmark{X: 0.5, Y: 0.7 + height}
	return b
}

func (b *frameBuilder) corners(leftY, rightY float64) *frameBuilder {
	b.f[b.ix.LeftEyeOuter] = Landmark{X: 0.35, Y: leftY}
	b.f[b.ix.RightEyeOuter] = Landmark{X: 0.65, Y: rightY}
	return b
}

func (b *frameBuilder) nose(x float64) *frameBuilder {
	b.f[b.ix.NoseTip] = Landmark{X: x, Y: 0.55}
	return b
}

func (b *frameBuilder) build() Frame { return b.f }

func TestExtract_SimpleDefaults(t *testing.T) {
	e := NewExtractor(DefaultConfig())
	r := e.Extract(newFrame().build())
	if r == nil {
		t.Fatal("Extract returned nil for a complete frame")
	}
	// mean lid gap 0.05 * 1000 = 50
	if r.EyeContactPercent != 50 {
		t.Errorf("EyeContactPercent = %d, want 50", r.EyeContactPercent)
	}
	// ratio 0.006/0.10 = 0.06
	if r.Expression != ExpressionNeutral {
		t.Errorf("Expression = %q, want %q", r.Expression, ExpressionNeutral)
	}
	if r.Posture != PostureCentered {
		t.Errorf("Posture = %q, want %q", r.Posture, PostureCentered)
	}
}

func TestExtract_EyeContactClamped(t *testing.T) {
	e := NewExtractor(DefaultConfig())
	if r := e.Extract(newFrame().eyes(0.3).build()); r.EyeContactPercent != 100 {
		t.Errorf("EyeContactPercent = %d, want 100", r.EyeContactPercent)
	}
	if r := e.Extract(newFrame().eyes(0).build()); r.EyeContactPercent != 0 {
		t.Errorf("EyeContactPercent = %d, want 0", r.EyeContactPercent)
	}
}

func TestExtract_EyeContactScaleIsConfigurable(t *testing.T) {
	cfg := DefaultConfig()
	cfg.EyeContactScale = 2000
	r := NewExtractor(cfg).Extract(newFrame().eyes(0.02).build())
	if r.EyeContactPercent != 40 {
		t.Errorf("EyeContactPercent = %d, want 40", r.EyeContactPercent)
	}
}

func TestSimpleThreshold_Expression(t *testing.T) {
	p := NewSimpleThreshold(DefaultSimpleThresholds())
	tests := []struct {
		ratio float64
		want  Expression
	}{
		{0.2, ExpressionSmiling},
		{0.0801, ExpressionSmiling},
		{0.08, ExpressionNeutral}, // exclusive upper bound
		{0.06, ExpressionNeutral},
		{0.04, ExpressionNeutral}, // exclusive lower bound
		{0.0399, ExpressionUncertain},
		{0, ExpressionUncertain},
	}
	for _, tc := range tests {
		got, _ := p.Classify(Measurements{MouthRatio: tc.ratio})
		if got != tc.want {
			t.Errorf("ratio %v: expression = %q, want %q", tc.ratio, got, tc.want)
		}
	}
}

func TestSimpleThreshold_Posture(t *testing.T) {
	p := NewSimpleThreshold(DefaultSimpleThresholds())
	tests := []struct {
		tilt float64
		want Posture
	}{
		{0, PostureCentered},
		{0.02, PostureCentered},
		{0.0201, PostureTilted},
		{0.1, PostureTilted},
	}
	for _, tc := range tests {
		_, got := p.Classify(Measurements{EyeTiltY: tc.tilt, MouthRatio: 0.06})
		if got != tc.want {
			t.Errorf("tilt %v: posture = %q, want %q", tc.tilt, got, tc.want)
		}
	}
}

func TestExtract_SmilingAndTilted(t *testing.T) {
	e := NewExtractor(DefaultConfig())
	r := e.Extract(newFrame().mouth(0.10, 0.02).corners(0.40, 0.45).build())
	if r.Expression != ExpressionSmiling {
		t.Errorf("Expression = %q, want %q", r.Expression, ExpressionSmiling)
	}
	if r.Posture != PostureTilted {
		t.Errorf("Posture = %q, want %q", r.Posture, PostureTilted)
	}
}

func TestExtract_AbsentFrames(t *testing.T) {
	e := NewExtractor(DefaultConfig())

	short := make(Frame, 100) // lacks every eye index above 99
	nan := newFrame().build()
	nan[DefaultLandmarks().LeftEyeUpper] = Landmark{X: math.NaN(), Y: 0.4}

	tests := []struct {
		name string
		f    Frame
	}{
		{"nil", nil},
		{"empty", Frame{}},
		{"missing eye landmarks", short},
		{"NaN landmark", nan},
		{"coincident mouth corners", newFrame().mouth(0, 0.01).build()},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if r := e.Extract(tc.f); r != nil {
				t.Errorf("Extract = %+v, want nil", r)
			}
		})
	}
}

func TestExtract_PolicyDecidesRequiredLandmarks(t *testing.T) {
	// 300 points: has eyes/mouth/outer corners (max 291) but not 386/374.
	f := newFrame().build()[:300]
	if r := NewExtractor(DefaultConfig()).Extract(f); r != nil {
		t.Errorf("Extract = %+v, want nil when right-eye points are missing", r)
	}

	cfg := DefaultConfig()
	cfg.Landmarks.RightEyeUpper = 160
	cfg.Landmarks.RightEyeLower = 144
	full := newFrame().build()
	full[160] = Landmark{X: 0.6, Y: 0.4}
	full[144] = Landmark{X: 0.6, Y: 0.45}
	if r := NewExtractor(cfg).Extract(full[:300]); r == nil {
		t.Error("Extract = nil, want report with remapped right-eye indices")
	}
}

func TestExtract_Idempotent(t *testing.T) {
	for _, cfg := range []Config{DefaultConfig(), ExtendedConfig()} {
		e := NewExtractor(cfg)
		f := newFrame().mouth(0.12, 0.011).corners(0.41, 0.44).nose(0.38).build()
		first := e.Extract(f)
		second := e.Extract(f)
		if first == nil || second == nil {
			t.Fatalf("%s: Extract returned nil", cfg.Policy.Name())
		}
		if *first != *second {
			t.Errorf("%s: reports differ: %+v vs %+v", cfg.Policy.Name(), *first, *second)
		}
	}
}

func TestExtendedThreshold(t *testing.T) {
	p := NewExtendedThreshold(DefaultExtendedThresholds())
	tests := []struct {
		name        string
		m           Measurements
		wantExpr    Expression
		wantPosture Posture
	}{
		{"surprised", Measurements{MouthRatio: 0.5, MouthWidth: 0.2, EyeContact: 50, NoseX: 0.5}, ExpressionSurprised, PostureCentered},
		{"smiling wide mouth", Measurements{MouthRatio: 0.1, MouthWidth: 0.16, EyeContact: 50, NoseX: 0.5}, ExpressionSmiling, PostureCentered},
		{"nervous closed eyes", Measurements{MouthRatio: 0.1, MouthWidth: 0.1, EyeContact: 0, NoseX: 0.5}, ExpressionNervous, PostureCentered},
		{"neutral", Measurements{MouthRatio: 0.1, MouthWidth: 0.1, EyeContact: 50, NoseX: 0.5}, ExpressionNeutral, PostureCentered},
		{"tilt right", Measurements{MouthWidth: 0.1, EyeContact: 50, NoseX: 0.39}, ExpressionNeutral, PostureTiltRight},
		{"tilt left", Measurements{MouthWidth: 0.1, EyeContact: 50, NoseX: 0.61}, ExpressionNeutral, PostureTiltLeft},
		{"midline low bound", Measurements{MouthWidth: 0.1, EyeContact: 50, NoseX: 0.4}, ExpressionNeutral, PostureCentered},
		{"midline high bound", Measurements{MouthWidth: 0.1, EyeContact: 50, NoseX: 0.6}, ExpressionNeutral, PostureCentered},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			expr, posture := p.Classify(tc.m)
			if expr != tc.wantExpr {
				t.Errorf("expression = %q, want %q", expr, tc.wantExpr)
			}
			if posture != tc.wantPosture {
				t.Errorf("posture = %q, want %q", posture, tc.wantPosture)
			}
		})
	}
}

func TestExtract_ExtendedNeedsNoseOnly(t *testing.T) {
	f := newFrame().nose(0.3).build()
	f[DefaultLandmarks().LeftEyeOuter] = Landmark{X: math.NaN(), Y: math.NaN()}

	if r := NewExtractor(DefaultConfig()).Extract(f); r != nil {
		t.Errorf("simple policy: Extract = %+v, want nil without eye corners", r)
	}
	r := NewExtractor(ExtendedConfig()).Extract(f)
	if r == nil {
		t.Fatal("extended policy: Extract = nil, want report")
	}
	if r.Posture != PostureTiltRight {
		t.Errorf("Posture = %q, want %q", r.Posture, PostureTiltRight)
	}
}

func TestExtract_TiltedMouthMeasuredPerPolicy(t *testing.T) {
	f := newFrame().eyes(0.05).build()
	ix := DefaultLandmarks()
	// corners 0.14 apart in x and 0.08 in y; euclidean width is about 0.161
	f[ix.MouthLeft] = Landmark{X: 0.43, Y: 0.66}
	f[ix.MouthRight] = Landmark{X: 0.57, Y: 0.74}

	ext := NewExtractor(ExtendedConfig())
	m, ok := ext.Measure(f)
	if !ok {
		t.Fatal("Measure: ok = false")
	}
	if math.Abs(m.MouthWidth-0.14) > 1e-9 {
		t.Errorf("extended MouthWidth = %v, want 0.14 (x gap only)", m.MouthWidth)
	}
	if r := ext.Extract(f); r == nil || r.Expression != ExpressionNeutral {
		t.Errorf("extended Extract = %+v, want Neutral (0.14 <= smile width 0.15)", r)
	}

	simple := NewExtractor(DefaultConfig())
	m, _ = simple.Measure(f)
	if want := math.Hypot(0.14, 0.08); math.Abs(m.MouthWidth-want) > 1e-9 {
		t.Errorf("simple MouthWidth = %v, want %v", m.MouthWidth, want)
	}
	if r := simple.Extract(f); r == nil || r.Expression != ExpressionUncertain {
		t.Errorf("simple Extract = %+v, want Uncertain (ratio 0.006/0.161)", r)
	}
}

func TestNewExtractor_NilPolicyFallsBack(t *testing.T) {
	e := NewExtractor(Config{Landmarks: DefaultLandmarks(), EyeContactScale: 1000})
	if e.Policy().Name() != PolicySimple {
		t.Errorf("Policy = %q, want %q", e.Policy().Name(), PolicySimple)
	}
}
