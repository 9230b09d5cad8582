package facial

import "math"

// Summary aggregates a stream of frame results for persistence.
type Summary struct {
	Frames             int            `json:"frames" bson:"frames"`
	FacesDetected      int            `json:"faces_detected" bson:"faces_detected"`
	MeanEyeContact     float64        `json:"mean_eye_contact" bson:"mean_eye_contact"`
	Expressions        map[string]int `json:"expressions" bson:"expressions"`
	Postures           map[string]int `json:"postures" bson:"postures"`
	DominantExpression Expression     `json:"dominant_expression,omitempty" bson:"dominant_expression,omitempty"`
	DominantPosture    Posture        `json:"dominant_posture,omitempty" bson:"dominant_posture,omitempty"`
}

// Tally is not safe for concurrent use; each frame stream owns one.
type Tally struct {
	frames     int
	detected   int
	eyeSum     int
	exprOrder  []string
	postOrder  []string
	exprCounts map[string]int
	postCounts map[string]int
}

func NewTally() *Tally {
	return &Tally{exprCounts: map[string]int{}, postCounts: map[string]int{}}
}

// Add records one frame; a nil report counts as a frame without a face.
func (t *Tally) Add(r *Report) {
	t.frames++
	if r == nil {
		return
	}
	t.detected++
	t.eyeSum += r.EyeContactPercent
	t.exprOrder = countLabel(t.exprCounts, t.exprOrder, string(r.Expression))
	t.postOrder = countLabel(t.postCounts, t.postOrder, string(r.Posture))
}

func (t *Tally) Frames() int { return t.frames }

func (t *Tally) Summary() Summary {
	s := Summary{
		Frames:        t.frames,
		FacesDetected: t.detected,
		Expressions:   make(map[string]int, len(t.exprCounts)),
		Postures:      make(map[string]int, len(t.postCounts)),
	}
	for k, v := range t.exprCounts {
		s.Expressions[k] = v
	}
	for k, v := range t.postCounts {
		s.Postures[k] = v
	}
	if t.detected > 0 {
		s.MeanEyeContact = math.Round(float64(t.eyeSum)/float64(t.detected)*10) / 10
		s.DominantExpression = Expression(dominant(t.exprCounts, t.exprOrder))
		s.DominantPosture = Posture(dominant(t.postCounts, t.postOrder))
	}
	return s
}

func countLabel(counts map[string]int, order []string, label string) []string {
	if counts[label] == 0 {
		order = append(order, label)
	}
	counts[label]++
	return order
}

// dominant breaks ties by first appearance.
func dominant(counts map[string]int, order []string) string {
	best := ""
	for _, l := range order {
		if best == "" || counts[l] > counts[best] {
			best = l
		}
	}
	return best
}
