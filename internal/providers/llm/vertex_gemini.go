package llm

import (
	"context"
	"errors"
	"fmt"

	"cloud.google.com/go/vertexai/genai"
	"google.golang.org/api/iterator"
)

const DefaultModel = "gemini-1.5-flash"

// VertexConfig selects the Gemini model used for coaching feedback.
type VertexConfig struct {
	Project  string
	Location string
	Model    string // DefaultModel when empty

	Temperature float32
	MaxTokens   int32
	Instruction string // CoachInstruction when empty
}

func (c VertexConfig) withDefaults() VertexConfig {
	if c.Model == "" {
		c.Model = DefaultModel
	}
	if c.Location == "" {
		c.Location = "us-central1"
	}
	if c.Temperature == 0 {
		c.Temperature = 0.4
	}
	if c.MaxTokens == 0 {
		c.MaxTokens = 256
	}
	if c.Instruction == "" {
		c.Instruction = CoachInstruction
	}
	return c
}

// VertexGemini streams coaching text from a Gemini model on Vertex AI.
type VertexGemini struct {
	client *genai.Client
	model  *genai.GenerativeModel
}

func NewVertexGemini(ctx context.Context, cfg VertexConfig) (*VertexGemini, error) {
	if cfg.Project == "" {
		return nil, errors.New("vertex: project is required")
	}
	cfg = cfg.withDefaults()

	c, err := genai.NewClient(ctx, cfg.Project, cfg.Location)
	if err != nil {
		return nil, fmt.Errorf("vertex client: %w", err)
	}

	m := c.GenerativeModel(cfg.Model)
	m.SetTemperature(cfg.Temperature)
	m.SetMaxOutputTokens(cfg.MaxTokens)
	m.SystemInstruction = &genai.Content{Parts: []genai.Part{genai.Text(cfg.Instruction)}}
	return &VertexGemini{client: c, model: m}, nil
}

func (v *VertexGemini) Close() error { return v.client.Close() }

func (v *VertexGemini) StreamAnswer(ctx context.Context, prompt string) (<-chan string, <-chan error) {
	out := make(chan string, 32)
	errs := make(chan error, 1)

	go func() {
		defer close(out)
		defer close(errs)

		it := v.model.GenerateContentStream(ctx, genai.Text(prompt))
		for {
			resp, err := it.Next()
			if errors.Is(err, iterator.Done) {
				return
			}
			if err != nil {
				errs <- err
				return
			}
			for _, t := range responseText(resp) {
				select {
				case out <- t:
				case <-ctx.Done():
					errs <- ctx.Err()
					return
				}
			}
		}
	}()

	return out, errs
}

// responseText returns the non-empty text parts of every candidate, in order.
func responseText(resp *genai.GenerateContentResponse) []string {
	if resp == nil {
		return nil
	}
	var texts []string
	for _, cand := range resp.Candidates {
		if cand == nil || cand.Content == nil {
			continue
		}
		for _, part := range cand.Content.Parts {
			if t, ok := part.(genai.Text); ok && t != "" {
				texts = append(texts, string(t))
			}
		}
	}
	return texts
}
