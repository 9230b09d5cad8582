package facial

// LandmarkIndices names the face-mesh points the extractor reads. Defaults
// follow the 468/478-point MediaPipe Face Mesh topology.
type LandmarkIndices struct {
	LeftEyeUpper  int `yaml:"left_eye_upper" json:"left_eye_upper"`
	LeftEyeLower  int `yaml:"left_eye_lower" json:"left_eye_lower"`
	RightEyeUpper int `yaml:"right_eye_upper" json:"right_eye_upper"`
	RightEyeLower int `yaml:"right_eye_lower" json:"right_eye_lower"`

	MouthLeft  int `yaml:"mouth_left" json:"mouth_left"`
	MouthRight int `yaml:"mouth_right" json:"mouth_right"`
	UpperLip   int `yaml:"upper_lip" json:"upper_lip"`
	LowerLip   int `yaml:"lower_lip" json:"lower_lip"`

	LeftEyeOuter  int `yaml:"left_eye_outer" json:"left_eye_outer"`
	RightEyeOuter int `yaml:"right_eye_outer" json:"right_eye_outer"`
	NoseTip       int `yaml:"nose_tip" json:"nose_tip"`
}

func DefaultLandmarks() LandmarkIndices {
	return LandmarkIndices{
		LeftEyeUpper:  159,
		LeftEyeLower:  145,
		RightEyeUpper: 386,
		RightEyeLower: 374,
		MouthLeft:     61,
		MouthRight:    291,
		UpperLip:      13,
		LowerLip:      14,
		LeftEyeOuter:  33,
		RightEyeOuter: 263,
		NoseTip:       1,
	}
}

// All returns every configured index.
func (ix LandmarkIndices) All() []int {
	return []int{
		ix.LeftEyeUpper, ix.LeftEyeLower, ix.RightEyeUpper, ix.RightEyeLower,
		ix.MouthLeft, ix.MouthRight, ix.UpperLip, ix.LowerLip,
		ix.LeftEyeOuter, ix.RightEyeOuter, ix.NoseTip,
	}
}

// Config is passed to NewExtractor. EyeContactScale converts the mean eyelid
// gap (normalised units) into a percentage before clamping to [0,100].
type Config struct {
	Landmarks       LandmarkIndices
	EyeContactScale float64
	Policy          ClassificationPolicy
}

// DefaultConfig uses the simple threshold policy with a scale of 1000.
func DefaultConfig() Config {
	return Config{
		Landmarks:       DefaultLandmarks(),
		EyeContactScale: 1000,
		Policy:          NewSimpleThreshold(DefaultSimpleThresholds()),
	}
}

// ExtendedConfig pairs the extended policy with the 2000 scale it was tuned against.
func ExtendedConfig() Config {
	return Config{
		Landmarks:       DefaultLandmarks(),
		EyeContactScale: 2000,
		Policy:          NewExtendedThreshold(DefaultExtendedThresholds()),
	}
}
