package stt

import (
	"context"
	"fmt"

	speech "cloud.google.com/go/speech/apiv1"
	speechpb "cloud.google.com/go/speech/apiv1/speechpb"
)

type GoogleSpeech struct {
	c *speech.Client
}

func NewGoogleSpeech(ctx context.Context) (*GoogleSpeech, error) {
	c, err := speech.NewClient(ctx)
	if err != nil {
		return nil, err
	}
	return &GoogleSpeech{c: c}, nil
}

func (g *GoogleSpeech) Close() error { return g.c.Close() }

type audioFormat struct {
	encoding   speechpb.RecognitionConfig_AudioEncoding
	sampleRate int32 // 0 lets the service read it from the header
}

var formats = map[string]audioFormat{
	"audio/webm":  {speechpb.RecognitionConfig_WEBM_OPUS, 48000},
	"video/webm":  {speechpb.RecognitionConfig_WEBM_OPUS, 48000},
	"audio/ogg":   {speechpb.RecognitionConfig_OGG_OPUS, 48000},
	"audio/wav":   {speechpb.RecognitionConfig_LINEAR16, 0},
	"audio/x-wav": {speechpb.RecognitionConfig_LINEAR16, 0},
	"audio/flac":  {speechpb.RecognitionConfig_FLAC, 0},
	"audio/mpeg":  {speechpb.RecognitionConfig_MP3, 0},
	"audio/l16":   {speechpb.RecognitionConfig_LINEAR16, 16000},
}

// Supported reports whether contentType has a known recognizer encoding.
func Supported(contentType string) bool {
	_, ok := formats[MediaType(contentType)]
	return ok
}

func (g *GoogleSpeech) Transcribe(ctx context.Context, audio []byte, contentType, language string) (string, float64, error) {
	f, ok := formats[MediaType(contentType)]
	if !ok {
		return "", 0, fmt.Errorf("unsupported audio type %q", contentType)
	}

	resp, err := g.c.Recognize(ctx, &speechpb.RecognizeRequest{
		Config: &speechpb.RecognitionConfig{
			Encoding:                   f.encoding,
			SampleRateHertz:            f.sampleRate,
			LanguageCode:               NormalizeLanguage(language),
			EnableAutomaticPunctuation: true,
		},
		Audio: &speechpb.RecognitionAudio{
			AudioSource: &speechpb.RecognitionAudio_Content{Content: audio},
		},
	})
	if err != nil {
		return "", 0, err
	}

	// each result covers a consecutive stretch of audio; join the top
	// alternatives and average their confidence
	var text string
	var confSum float64
	var n int
	for _, r := range resp.Results {
		if len(r.Alternatives) == 0 || r.Alternatives[0].Transcript == "" {
			continue
		}
		alt := r.Alternatives[0]
		if text != "" {
			text += " "
		}
		text += alt.Transcript
		confSum += float64(alt.Confidence)
		n++
	}
	if n == 0 {
		return "", 0, nil
	}
	return text, confSum / float64(n), nil
}
