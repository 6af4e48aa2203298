package notegen

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"slices"

	"github.com/google/jsonschema-go/jsonschema"
	"github.com/openai/openai-go"
	"github.com/openai/openai-go/packages/param"
	"github.com/openai/openai-go/packages/ssestream"
)

var _ Generator = (*OpenAIGenerator)(nil)

const (
	oaiFinishReasonStop          = "stop"
	oaiFinishReasonLength        = "length"
	oaiFinishReasonContentFilter = "content_filter"
)

// OpenAIGenerator implements Generator using an OpenAI-compatible API.
type OpenAIGenerator struct {
	Client *openai.Client `json:"-"`

	Model string `json:"model"`

	Params *Params `json:"params,omitzero"`

	// UseSystemRole sends the system prompt with the legacy system role
	// instead of developer. Required by most compatible endpoints.
	UseSystemRole bool `json:"use_system_role,omitzero"`
}

func (g *OpenAIGenerator) GenerateStream(ctx context.Context, mctx *Context) (Stream, error) {
	params, err := g.chatCompletion(mctx)
	if err != nil {
		return nil, err
	}
	sb := NewStreamBuilder(32)
	go func() {
		if err := oaiPull(sb, g.Client.Chat.Completions.NewStreaming(ctx, params)); err != nil {
			sb.Abort(err)
		}
	}()
	return sb.Stream(), nil
}

func (g *OpenAIGenerator) Invoke(ctx context.Context, mctx *Context, fn *FuncTool) (Usage, *FuncCall, error) {
	params, err := g.chatCompletion(mctx)
	if err != nil {
		return Usage{}, nil, err
	}
	params.ResponseFormat = openai.ChatCompletionNewParamsResponseFormatUnion{
		OfJSONSchema: &openai.ResponseFormatJSONSchemaParam{
			JSONSchema: openai.ResponseFormatJSONSchemaJSONSchemaParam{
				Name:        fn.Name,
				Description: param.NewOpt(fn.Description),
				Schema:      oaiConvSchema(fn.Argument),
				Strict:      param.NewOpt(true),
			},
		},
	}

	resp, err := g.Client.Chat.Completions.New(ctx, params)
	if err != nil {
		return Usage{}, nil, err
	}
	if len(resp.Choices) == 0 {
		return Usage{}, nil, fmt.Errorf("no choices")
	}
	choice := resp.Choices[0]
	if choice.Message.Refusal != "" {
		return Usage{}, nil, fmt.Errorf("blocked: %s", choice.Message.Refusal)
	}
	if choice.FinishReason != oaiFinishReasonStop {
		return Usage{}, nil, fmt.Errorf("want stop, got unexpected finish reason: %s", choice.FinishReason)
	}
	if len(choice.Message.Content) == 0 {
		return Usage{}, nil, fmt.Errorf("no content")
	}
	call := &FuncCall{Name: fn.Name, Arguments: choice.Message.Content}
	return oaiConvUsage(&resp.Usage), call, nil
}

func (g *OpenAIGenerator) chatCompletion(mctx *Context) (openai.ChatCompletionNewParams, error) {
	msgs, err := g.convContext(mctx)
	if err != nil {
		return openai.ChatCompletionNewParams{}, err
	}
	params := openai.ChatCompletionNewParams{
		Messages: msgs,
		Model:    g.Model,
	}
	mp := g.Params
	if mctx.Params != nil {
		mp = mctx.Params
	}
	if mp != nil {
		if mp.MaxTokens > 0 {
			params.MaxCompletionTokens = param.NewOpt(int64(mp.MaxTokens))
		}
		if mp.Temperature > 0 {
			params.Temperature = param.NewOpt(float64(mp.Temperature))
		}
		if mp.TopP > 0 {
			params.TopP = param.NewOpt(float64(mp.TopP))
		}
	}
	return params, nil
}

func (g *OpenAIGenerator) convContext(mctx *Context) ([]openai.ChatCompletionMessageParamUnion, error) {
	var out []openai.ChatCompletionMessageParamUnion
	if mctx.System != "" {
		if g.UseSystemRole {
			out = append(out, openai.SystemMessage(mctx.System))
		} else {
			out = append(out, openai.DeveloperMessage(mctx.System))
		}
	}
	for _, msg := range mctx.Messages {
		switch msg.Role {
		case RoleUser:
			out = append(out, openai.UserMessage(msg.Text))
		case RoleModel:
			out = append(out, openai.AssistantMessage(msg.Text))
		default:
			return nil, fmt.Errorf("unexpected message role: %s", msg.Role)
		}
	}
	if len(out) == 0 {
		return nil, errors.New("no contents")
	}
	return out, nil
}

func oaiPull(sb *StreamBuilder, stream *ssestream.Stream[openai.ChatCompletionChunk]) error {
	for stream.Next() {
		chunk := stream.Current()
		if len(chunk.Choices) == 0 {
			continue
		}
		sel := chunk.Choices[0]

		if s := sel.Delta.Content; s != "" {
			if err := sb.Add(s); err != nil {
				return err
			}
		}
		switch sel.FinishReason {
		case oaiFinishReasonStop:
			return sb.Done(oaiConvUsage(&chunk.Usage))
		case oaiFinishReasonLength:
			return sb.Truncated(oaiConvUsage(&chunk.Usage))
		case oaiFinishReasonContentFilter:
			return sb.Blocked(oaiConvUsage(&chunk.Usage), sel.Delta.Refusal)
		}
		if s := sel.Delta.Refusal; s != "" {
			return sb.Blocked(oaiConvUsage(&chunk.Usage), s)
		}
	}
	if err := stream.Err(); err != nil {
		return err
	}
	return errors.New("unexpected end of stream: no finish reason")
}

// oaiConvSchema patches a schema for OpenAI strict structured outputs:
// every object gets additionalProperties=false and all of its properties
// become required (optional ones gain a null type).
//
// See https://platform.openai.com/docs/guides/structured-outputs
func oaiConvSchema(s *jsonschema.Schema) any {
	if s == nil {
		return nil
	}
	return any(oaiPatchSchema(s.CloneSchemas()))
}

func oaiPatchSchema(m *jsonschema.Schema) *jsonschema.Schema {
	if m == nil {
		return nil
	}
	switch m.Type {
	case "array":
		m.Items = oaiPatchSchema(m.Items)
	case "object":
		m.AdditionalProperties = &jsonschema.Schema{Not: &jsonschema.Schema{}} // false schema

		requires := make(map[string]struct{})
		for _, v := range m.Required {
			requires[v] = struct{}{}
		}
		for k, v := range m.Properties {
			if _, ok := requires[k]; !ok {
				requires[k] = struct{}{}
				if !slices.Contains(v.Types, "null") {
					v.Types = append(v.Types, "null")
				}
			}
			m.Properties[k] = oaiPatchSchema(v)
		}
		m.Required = slices.Collect(maps.Keys(requires))
	}
	return m
}

func oaiConvUsage(usage *openai.CompletionUsage) Usage {
	return Usage{
		PromptTokenCount:    usage.PromptTokens,
		GeneratedTokenCount: usage.CompletionTokens,
	}
}
