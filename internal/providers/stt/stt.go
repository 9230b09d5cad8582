// Package stt turns recorded answer audio into a transcript.
package stt

import (
	"context"
	"mime"
	"strings"
)

type Provider interface {
	Transcribe(ctx context.Context, audio []byte, contentType, language string) (text string, confidence float64, err error)
	Close() error
}

const DefaultLanguage = "en-US"

// NormalizeLanguage maps loose tags ("en", "id_id", "EN-us") onto the BCP-47
// codes the recognizer expects.
func NormalizeLanguage(lang string) string {
	lang = strings.TrimSpace(strings.ReplaceAll(lang, "_", "-"))
	if lang == "" {
		return DefaultLanguage
	}
	parts := strings.SplitN(lang, "-", 2)
	base := strings.ToLower(parts[0])
	if len(parts) == 2 && parts[1] != "" {
		return base + "-" + strings.ToUpper(parts[1])
	}
	switch base {
	case "en":
		return "en-US"
	case "id":
		return "id-ID"
	default:
		return base
	}
}

// MediaType strips parameters from a Content-Type ("audio/webm;codecs=opus"
// becomes "audio/webm").
func MediaType(contentType string) string {
	mt, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return strings.ToLower(strings.TrimSpace(contentType))
	}
	return mt
}
