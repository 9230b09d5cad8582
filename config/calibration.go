package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/yoockh/interviewme/internal/analysis/facial"
	"github.com/yoockh/interviewme/internal/analysis/speech"
)

// Calibration is every threshold the analyzers use. It is loaded from YAML and
// layered over DefaultCalibration, so a file only needs the keys it changes.
type Calibration struct {
	Speech SpeechCalibration `yaml:"speech"`
	Facial FacialCalibration `yaml:"facial"`
}

type SpeechCalibration struct {
	FillerWords              []string `yaml:"filler_words"`
	FillerPenalty            float64  `yaml:"filler_penalty"`
	VarietyWeight            float64  `yaml:"variety_weight"`
	FillerWeight             float64  `yaml:"filler_weight"`
	ConfidenceFillerPenalty  float64  `yaml:"confidence_filler_penalty"`
	ConfidenceFloor          float64  `yaml:"confidence_floor"`
	FillerSuggestionMin      int      `yaml:"filler_suggestion_min"`
	ClaritySuggestionBelow   float64  `yaml:"clarity_suggestion_below"`
	RelevanceSuggestionBelow float64  `yaml:"relevance_suggestion_below"`
}

type FacialCalibration struct {
	Policy          string                    `yaml:"policy"` // simple|extended
	EyeContactScale float64                   `yaml:"eye_contact_scale"`
	SmoothingWindow int                       `yaml:"smoothing_window"`
	Landmarks       facial.LandmarkIndices    `yaml:"landmarks"`
	Simple          facial.SimpleThresholds   `yaml:"simple"`
	Extended        facial.ExtendedThresholds `yaml:"extended"`
}

// maxLandmarkIndex bounds the refined 478-point face mesh.
const maxLandmarkIndex = 477

func DefaultCalibration() Calibration {
	sc := speech.DefaultConfig()
	return Calibration{
		Speech: SpeechCalibration{
			FillerWords:              sc.FillerWords,
			FillerPenalty:            sc.FillerPenalty,
			VarietyWeight:            sc.VarietyWeight,
			FillerWeight:             sc.FillerWeight,
			ConfidenceFillerPenalty:  sc.ConfidenceFillerPenalty,
			ConfidenceFloor:          sc.ConfidenceFloor,
			FillerSuggestionMin:      sc.FillerSuggestionMin,
			ClaritySuggestionBelow:   sc.ClaritySuggestionBelow,
			RelevanceSuggestionBelow: sc.RelevanceSuggestionBelow,
		},
		Facial: FacialCalibration{
			Policy:          facial.PolicySimple,
			EyeContactScale: 1000,
			SmoothingWindow: 5,
			Landmarks:       facial.DefaultLandmarks(),
			Simple:          facial.DefaultSimpleThresholds(),
			Extended:        facial.DefaultExtendedThresholds(),
		},
	}
}

// LoadCalibration reads path (or CALIBRATION_FILE when path is empty). With no
// file at all the defaults are returned.
func LoadCalibration(path string) (*Calibration, error) {
	if path == "" {
		path = os.Getenv("CALIBRATION_FILE")
	}
	cal := DefaultCalibration()
	if path == "" {
		return &cal, nil
	}

	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read calibration %s: %w", path, err)
	}
	return ParseCalibration(b)
}

func ParseCalibration(b []byte) (*Calibration, error) {
	cal := DefaultCalibration()
	dec := yaml.NewDecoder(bytes.NewReader(b))
	dec.KnownFields(true)
	if err := dec.Decode(&cal); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("decode calibration: %w", err)
	}
	if err := cal.Validate(); err != nil {
		return nil, err
	}
	return &cal, nil
}

func (c *Calibration) Validate() error {
	var errs []error

	if len(c.Speech.FillerWords) == 0 {
		errs = append(errs, errors.New("speech.filler_words must not be empty"))
	}
	if c.Speech.FillerPenalty < 0 || c.Speech.ConfidenceFillerPenalty < 0 {
		errs = append(errs, errors.New("speech penalties must be >= 0"))
	}

	switch strings.ToLower(c.Facial.Policy) {
	case facial.PolicySimple, facial.PolicyExtended:
	default:
		errs = append(errs, fmt.Errorf("facial.policy %q: want %q or %q", c.Facial.Policy, facial.PolicySimple, facial.PolicyExtended))
	}
	if c.Facial.EyeContactScale <= 0 {
		errs = append(errs, errors.New("facial.eye_contact_scale must be > 0"))
	}
	if c.Facial.SmoothingWindow < 1 {
		errs = append(errs, errors.New("facial.smoothing_window must be >= 1"))
	}
	for _, i := range c.Facial.Landmarks.All() {
		if i < 0 || i > maxLandmarkIndex {
			errs = append(errs, fmt.Errorf("facial.landmarks: index %d out of range [0,%d]", i, maxLandmarkIndex))
			break
		}
	}
	if c.Facial.Simple.UncertainRatio > c.Facial.Simple.SmileRatio {
		errs = append(errs, errors.New("facial.simple.uncertain_ratio must not exceed smile_ratio"))
	}
	if c.Facial.Extended.MidlineLow > c.Facial.Extended.MidlineHigh {
		errs = append(errs, errors.New("facial.extended.midline_low must not exceed midline_high"))
	}
	return errors.Join(errs...)
}

func (c *Calibration) SpeechConfig() speech.Config {
	s := c.Speech
	return speech.Config{
		FillerWords:              append([]string(nil), s.FillerWords...),
		FillerPenalty:            s.FillerPenalty,
		VarietyWeight:            s.VarietyWeight,
		FillerWeight:             s.FillerWeight,
		ConfidenceFillerPenalty:  s.ConfidenceFillerPenalty,
		ConfidenceFloor:          s.ConfidenceFloor,
		FillerSuggestionMin:      s.FillerSuggestionMin,
		ClaritySuggestionBelow:   s.ClaritySuggestionBelow,
		RelevanceSuggestionBelow: s.RelevanceSuggestionBelow,
	}
}

func (c *Calibration) FacialConfig() facial.Config {
	cfg := facial.Config{
		Landmarks:       c.Facial.Landmarks,
		EyeContactScale: c.Facial.EyeContactScale,
	}
	if strings.ToLower(c.Facial.Policy) == facial.PolicyExtended {
		cfg.Policy = facial.NewExtendedThreshold(c.Facial.Extended)
	} else {
		cfg.Policy = facial.NewSimpleThreshold(c.Facial.Simple)
	}
	return cfg
}

func (c *Calibration) YAML() ([]byte, error) {
	return yaml.Marshal(c)
}
