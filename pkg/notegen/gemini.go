package notegen

import (
	"context"
	"errors"
	"fmt"
	"iter"
	"strings"

	"github.com/google/jsonschema-go/jsonschema"
	"github.com/googleapis/gax-go/v2/apierror"
	"google.golang.org/genai"
)

var _ Generator = (*GeminiGenerator)(nil)

// GeminiGenerator implements Generator using the Google Gemini API.
type GeminiGenerator struct {
	Client *genai.Client `json:"-"`

	// Model should not start with "models/".
	Model string `json:"model"`

	Params *Params `json:"params,omitzero"`
}

func (g *GeminiGenerator) GenerateStream(ctx context.Context, mctx *Context) (Stream, error) {
	cfg, contents, err := g.convContext(mctx)
	if err != nil {
		return nil, err
	}
	sb := NewStreamBuilder(32)
	go func() {
		if err := geminiPull(sb, g.Client.Models.GenerateContentStream(ctx, g.Model, contents, cfg)); err != nil {
			sb.Abort(geminiUnwrap(err))
		}
	}()
	return sb.Stream(), nil
}

func (g *GeminiGenerator) Invoke(ctx context.Context, mctx *Context, fn *FuncTool) (Usage, *FuncCall, error) {
	cfg, contents, err := g.convContext(mctx)
	if err != nil {
		return Usage{}, nil, err
	}
	cfg.ResponseMIMEType = "application/json"
	cfg.ResponseSchema = geminiConvSchema(fn.Argument)

	resp, err := g.Client.Models.GenerateContent(ctx, g.Model, contents, cfg)
	if err != nil {
		return Usage{}, nil, geminiUnwrap(err)
	}
	if len(resp.Candidates) == 0 {
		return Usage{}, nil, fmt.Errorf("no candidates")
	}
	cand := resp.Candidates[0]
	if cand.FinishReason != genai.FinishReasonStop {
		if cand.FinishReason == genai.FinishReasonMaxTokens {
			return geminiConvUsage(resp.UsageMetadata), nil, errors.New("max tokens")
		}
		return Usage{}, nil, fmt.Errorf("unexpected finish reason: %s", cand.FinishReason)
	}
	var text strings.Builder
	for _, p := range cand.Content.Parts {
		if p.Text != "" {
			text.WriteString(p.Text)
		}
	}
	call := &FuncCall{Name: fn.Name, Arguments: text.String()}
	return geminiConvUsage(resp.UsageMetadata), call, nil
}

func geminiPull(sb *StreamBuilder, itr iter.Seq2[*genai.GenerateContentResponse, error]) error {
	for chunk, err := range itr {
		if err != nil {
			return err
		}
		if len(chunk.Candidates) == 0 {
			continue
		}
		sel := chunk.Candidates[0]

		var text strings.Builder
		for _, p := range sel.Content.Parts {
			if p.Text != "" {
				text.WriteString(p.Text)
			}
		}
		if text.Len() > 0 {
			if err := sb.Add(text.String()); err != nil {
				return err
			}
		}

		switch sel.FinishReason {
		case genai.FinishReasonUnspecified, "":
			// continue
		case genai.FinishReasonStop:
			return sb.Done(geminiConvUsage(chunk.UsageMetadata))
		case genai.FinishReasonMaxTokens:
			return sb.Truncated(geminiConvUsage(chunk.UsageMetadata))
		case genai.FinishReasonSafety:
			var cats []string
			for _, sr := range sel.SafetyRatings {
				if sr.Blocked {
					cats = append(cats, string(sr.Category))
				}
			}
			return sb.Blocked(geminiConvUsage(chunk.UsageMetadata), "blocked by "+strings.Join(cats, ", "))
		default:
			return sb.Unexpected(
				geminiConvUsage(chunk.UsageMetadata),
				fmt.Errorf("unexpected finish reason: %s", sel.FinishReason),
			)
		}
	}
	return errors.New("unexpected end of stream: no finish reason")
}

func (g *GeminiGenerator) convContext(mctx *Context) (*genai.GenerateContentConfig, []*genai.Content, error) {
	cfg := &genai.GenerateContentConfig{}
	if mctx.System != "" {
		cfg.SystemInstruction = &genai.Content{
			Parts: []*genai.Part{genai.NewPartFromText(mctx.System)},
		}
	}
	mp := g.Params
	if mctx.Params != nil {
		mp = mctx.Params
	}
	if mp != nil {
		cfg.MaxOutputTokens = int32(mp.MaxTokens)
		cfg.Temperature = &mp.Temperature
		cfg.TopP = &mp.TopP
		cfg.TopK = &mp.TopK
	}

	var contents []*genai.Content
	for _, msg := range mctx.Messages {
		var role string
		switch msg.Role {
		case RoleUser:
			role = "user"
		case RoleModel:
			role = "model"
		default:
			return nil, nil, fmt.Errorf("unexpected message role: %s", msg.Role)
		}
		contents = append(contents, &genai.Content{
			Role:  role,
			Parts: []*genai.Part{genai.NewPartFromText(msg.Text)},
		})
	}
	if len(contents) == 0 {
		return nil, nil, fmt.Errorf("no contents")
	}
	return cfg, contents, nil
}

func geminiConvSchema(schema *jsonschema.Schema) *genai.Schema {
	if schema == nil {
		return nil
	}

	enums := make([]string, 0, len(schema.Enum))
	for _, v := range schema.Enum {
		enums = append(enums, fmt.Sprintf("%v", v))
	}

	gs := genai.Schema{
		Format:      schema.Format,
		Description: schema.Description,
		Enum:        enums,
		Items:       geminiConvSchema(schema.Items),
		Required:    schema.Required,
	}

	if n := len(schema.Properties); n > 0 {
		gs.Properties = make(map[string]*genai.Schema, n)
		for k, prop := range schema.Properties {
			gs.Properties[k] = geminiConvSchema(prop)
		}
	}
	switch schema.Type {
	case "object":
		gs.Type = genai.TypeObject
	case "array":
		gs.Type = genai.TypeArray
	case "string":
		gs.Type = genai.TypeString
	case "number":
		gs.Type = genai.TypeNumber
	case "integer":
		gs.Type = genai.TypeInteger
	case "boolean":
		gs.Type = genai.TypeBoolean
	}
	return &gs
}

func geminiConvUsage(usage *genai.GenerateContentResponseUsageMetadata) Usage {
	if usage == nil {
		return Usage{}
	}
	return Usage{
		PromptTokenCount:    int64(usage.PromptTokenCount),
		GeneratedTokenCount: int64(usage.CandidatesTokenCount),
	}
}

func geminiUnwrap(err error) error {
	if e, ok := err.(*apierror.APIError); ok {
		return e.Unwrap()
	}
	return err
}
