package services

import (
	"context"
	"time"

	"github.com/yoockh/interviewme/internal/analysis/facial"
	"github.com/yoockh/interviewme/internal/analysis/speech"
	"github.com/yoockh/interviewme/internal/observe"
)

// AnalysisService is the stateless front of the two analyzers. It records
// metrics and never fails: bad input yields zero reports or absent faces.
type AnalysisService interface {
	AnalyzeSpeech(ctx context.Context, source, transcript, reference string) speech.Report
	AnalyzeFrame(ctx context.Context, frame facial.Frame) *facial.Report
	NewFrameStream() *FrameStream
}

type analysisService struct {
	speech  *speech.Analyzer
	facial  *facial.Extractor
	window  int
	metrics *observe.Metrics
}

func NewAnalysisService(sc speech.Config, fc facial.Config, smoothingWindow int, m *observe.Metrics) AnalysisService {
	return &analysisService{
		speech:  speech.NewAnalyzer(sc),
		facial:  facial.NewExtractor(fc),
		window:  smoothingWindow,
		metrics: m,
	}
}

func (s *analysisService) AnalyzeSpeech(ctx context.Context, source, transcript, reference string) speech.Report {
	start := time.Now()
	r := s.speech.Analyze(transcript, reference)
	if s.metrics != nil {
		s.metrics.RecordSpeech(ctx, source, time.Since(start).Seconds())
	}
	return r
}

func (s *analysisService) AnalyzeFrame(ctx context.Context, frame facial.Frame) *facial.Report {
	start := time.Now()
	r := s.facial.Extract(frame)
	if s.metrics != nil {
		s.metrics.RecordFrame(ctx, r != nil, time.Since(start).Seconds())
	}
	return r
}

func (s *analysisService) NewFrameStream() *FrameStream {
	return &FrameStream{
		svc:      s,
		smoother: facial.NewSmoother(s.window),
		tally:    facial.NewTally(),
	}
}

// FrameStream is the per-connection state of a live landmark feed. It is not
// safe for concurrent use; one reader goroutine owns it.
type FrameStream struct {
	svc      *analysisService
	smoother *facial.Smoother
	tally    *facial.Tally
}

// Process extracts, tallies and smooths one frame. When no face is found the
// last smoothed report (if any) is returned with detected=false.
func (fs *FrameStream) Process(ctx context.Context, frame facial.Frame) (report *facial.Report, detected bool) {
	raw := fs.svc.AnalyzeFrame(ctx, frame)
	fs.tally.Add(raw)
	if raw == nil {
		if last, ok := fs.smoother.Last(); ok {
			return &last, false
		}
		return nil, false
	}
	smoothed := fs.smoother.Push(*raw)
	return &smoothed, true
}

func (fs *FrameStream) Frames() int { return fs.tally.Frames() }

func (fs *FrameStream) Summary() facial.Summary { return fs.tally.Summary() }
