package composer

import (
	"context"
	"fmt"

	"github.com/maestoso/scorekit/pkg/musicxml"
	"github.com/maestoso/scorekit/pkg/notegen"
)

// GenerateFromDescription asks the model for a brand-new piece and
// returns the validated document.
func (s *Session) GenerateFromDescription(ctx context.Context, description string) (*musicxml.Score, error) {
	reply, err := s.Chat(ctx, description, "", nil)
	if err != nil {
		return nil, err
	}
	if reply.XML == "" {
		return nil, fmt.Errorf("composer: reply contains no score document")
	}
	score, err := musicxml.ParseString(reply.XML)
	if err != nil {
		return nil, err
	}
	if err := score.Validate(); err != nil {
		return nil, err
	}
	return score, nil
}

// EditScore asks the model to modify score per request, optionally
// scoped to a selection, and returns the validated replacement.
func (s *Session) EditScore(ctx context.Context, score *musicxml.Score, request string, sel *Selection) (*musicxml.Score, error) {
	reply, err := s.Chat(ctx, request, score.String(), sel)
	if err != nil {
		return nil, err
	}
	if reply.XML == "" {
		return nil, fmt.Errorf("composer: reply contains no score document")
	}
	edited, err := musicxml.ParseString(reply.XML)
	if err != nil {
		return nil, err
	}
	if err := edited.Validate(); err != nil {
		return nil, err
	}
	return edited, nil
}

// AnalyzeScore asks the model a question about score and returns the
// prose answer.
func (s *Session) AnalyzeScore(ctx context.Context, score *musicxml.Score, question string) (string, error) {
	reply, err := s.Chat(ctx, question, score.String(), nil)
	if err != nil {
		return "", err
	}
	return reply.Text, nil
}

var templateTool = notegen.MustNewFuncTool[musicxml.TemplateSpec](
	"create_score_template",
	"Creates an empty score with the given title, composer, parts, key, time signature, tempo, and measure count.",
)

// PlanTemplate has the model translate a free-form description into a
// template spec via a structured function call, then builds the empty
// score locally. No model-generated XML is involved, so the result is
// deterministic for a given spec.
func (s *Session) PlanTemplate(ctx context.Context, description string) (*musicxml.Score, *musicxml.TemplateSpec, error) {
	mc := &notegen.Context{
		System: "You translate a user's description of a new piece into the arguments of the create_score_template function. Always call the function.",
		Messages: []*notegen.Message{
			{Role: notegen.RoleUser, Text: description},
		},
		Params: s.params,
	}

	_, call, err := s.gen.Invoke(ctx, mc, templateTool)
	if err != nil {
		return nil, nil, &UpstreamError{Err: err}
	}
	if call == nil {
		return nil, nil, fmt.Errorf("composer: model did not call %s", templateTool.Name)
	}

	var spec musicxml.TemplateSpec
	if err := call.Decode(&spec); err != nil {
		return nil, nil, &UpstreamError{Err: err}
	}

	score, err := musicxml.NewTemplate(spec)
	if err != nil {
		return nil, nil, err
	}
	return score, &spec, nil
}
