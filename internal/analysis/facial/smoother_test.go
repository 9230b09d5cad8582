package facial

import (
	"reflect"
	"testing"
)

func rep(eye int, e Expression, p Posture) Report {
	return Report{EyeContactPercent: eye, Expression: e, Posture: p}
}

func TestSmoother_MajorityVote(t *testing.T) {
	s := NewSmoother(3)

	got := s.Push(rep(60, ExpressionSmiling, PostureCentered))
	if got != rep(60, ExpressionSmiling, PostureCentered) {
		t.Errorf("first push = %+v", got)
	}

	s.Push(rep(40, ExpressionNeutral, PostureCentered))
	got = s.Push(rep(50, ExpressionSmiling, PostureTilted))
	want := rep(50, ExpressionSmiling, PostureCentered)
	if got != want {
		t.Errorf("Push = %+v, want %+v", got, want)
	}
}

func TestSmoother_WindowSlides(t *testing.T) {
	s := NewSmoother(2)
	s.Push(rep(100, ExpressionSmiling, PostureCentered))
	s.Push(rep(0, ExpressionUncertain, PostureTilted))
	got := s.Push(rep(0, ExpressionUncertain, PostureTilted))
	want := rep(0, ExpressionUncertain, PostureTilted)
	if got != want {
		t.Errorf("Push = %+v, want %+v (oldest frame should have left the window)", got, want)
	}
}

func TestSmoother_TieGoesToMostRecent(t *testing.T) {
	s := NewSmoother(4)
	s.Push(rep(10, ExpressionSmiling, PostureCentered))
	s.Push(rep(10, ExpressionNeutral, PostureTilted))
	s.Push(rep(10, ExpressionSmiling, PostureCentered))
	got := s.Push(rep(10, ExpressionNeutral, PostureTilted))
	if got.Expression != ExpressionNeutral || got.Posture != PostureTilted {
		t.Errorf("Push = %+v, want most recent labels on a 2-2 tie", got)
	}
}

func TestSmoother_WindowOnePassesThrough(t *testing.T) {
	s := NewSmoother(0)
	r := rep(33, ExpressionUncertain, PostureTilted)
	if got := s.Push(r); got != r {
		t.Errorf("Push = %+v, want %+v", got, r)
	}
}

func TestSmoother_LastAndReset(t *testing.T) {
	s := NewSmoother(3)
	if _, ok := s.Last(); ok {
		t.Error("Last on empty smoother reported ok")
	}
	pushed := s.Push(rep(20, ExpressionNeutral, PostureCentered))
	last, ok := s.Last()
	if !ok || last != pushed {
		t.Errorf("Last = %+v, %v, want %+v, true", last, ok, pushed)
	}
	s.Reset()
	if _, ok := s.Last(); ok {
		t.Error("Last after Reset reported ok")
	}
}

func TestTally_Summary(t *testing.T) {
	tl := NewTally()
	a := rep(80, ExpressionSmiling, PostureCentered)
	b := rep(40, ExpressionNeutral, PostureCentered)
	c := rep(61, ExpressionNeutral, PostureTilted)
	d := rep(20, ExpressionSmiling, PostureCentered)
	tl.Add(&a)
	tl.Add(nil)
	tl.Add(&b)
	tl.Add(&c)
	tl.Add(&d)

	s := tl.Summary()
	if s.Frames != 5 || s.FacesDetected != 4 {
		t.Errorf("Frames/FacesDetected = %d/%d, want 5/4", s.Frames, s.FacesDetected)
	}
	// (80+40+61+20)/4 = 50.25
	if s.MeanEyeContact != 50.3 {
		t.Errorf("MeanEyeContact = %v, want 50.3", s.MeanEyeContact)
	}
	// Smiling and Neutral tie at 2; Smiling appeared first.
	if s.DominantExpression != ExpressionSmiling {
		t.Errorf("DominantExpression = %q, want %q", s.DominantExpression, ExpressionSmiling)
	}
	if s.DominantPosture != PostureCentered {
		t.Errorf("DominantPosture = %q, want %q", s.DominantPosture, PostureCentered)
	}
	wantExpr := map[string]int{"Smiling": 2, "Neutral": 2}
	if !reflect.DeepEqual(s.Expressions, wantExpr) {
		t.Errorf("Expressions = %v, want %v", s.Expressions, wantExpr)
	}
}

func TestTally_NoFaces(t *testing.T) {
	tl := NewTally()
	tl.Add(nil)
	tl.Add(nil)
	s := tl.Summary()
	if s.Frames != 2 || s.FacesDetected != 0 || s.MeanEyeContact != 0 {
		t.Errorf("Summary = %+v", s)
	}
	if s.DominantExpression != "" || s.DominantPosture != "" {
		t.Errorf("dominant labels = %q/%q, want empty", s.DominantExpression, s.DominantPosture)
	}
}
