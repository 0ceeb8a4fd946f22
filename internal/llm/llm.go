// Package llm wraps schema-constrained generation against the hosted model.
// The pipelines depend on the Generator interface only; tests substitute a
// stub so no live model call happens outside production.
package llm

import (
	"context"

	"google.golang.org/genai"
)

// Media is an inline document attached to a generation request.
type Media struct {
	Data     []byte
	MIMEType string
}

// Request describes one structured-output generation. Schema is mandatory:
// the response must conform to it or the call fails.
type Request struct {
	System string
	Prompt string
	Media  *Media
	Schema *genai.Schema
}

// Generator produces raw JSON conforming to the request schema, or fails
// with errx.ErrGenerationFailed when the model returns nothing usable.
type Generator interface {
	GenerateStructured(ctx context.Context, req Request) ([]byte, error)
}
