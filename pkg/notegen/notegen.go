// Package notegen is the boundary to the generative text sources that
// write notation. It exposes a provider-neutral Generator with two
// operations: GenerateStream for free-running text generation and Invoke
// for a single structured call against a function tool schema. Gemini
// and OpenAI backends are provided.
package notegen

import "context"

// Params tunes a generation request.
type Params struct {
	MaxTokens   int     `json:"max_tokens,omitzero"`
	Temperature float32 `json:"temperature,omitzero"`
	TopP        float32 `json:"top_p,omitzero"`
	TopK        float32 `json:"top_k,omitzero"`
}

// Context is the model-facing request: a system prompt, the conversation
// so far, and optional sampling parameters.
type Context struct {
	System   string
	Messages []*Message
	Params   *Params
}

// Usage reports token accounting for one generation.
type Usage struct {
	PromptTokenCount    int64
	GeneratedTokenCount int64
}

// Generator produces model output.
type Generator interface {
	// GenerateStream starts a generation and returns its chunk stream.
	// The stream terminates with a *State error: ErrDone on normal
	// completion, or a truncated/blocked/error state.
	GenerateStream(ctx context.Context, mctx *Context) (Stream, error)

	// Invoke runs a single non-streaming call constrained to fn's
	// argument schema and returns the resulting call.
	Invoke(ctx context.Context, mctx *Context, fn *FuncTool) (Usage, *FuncCall, error)
}
