package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/notegenius/notegenius/internal/errs"
)

// askRequest carries the question and the optional grounding context. A nil
// Context means "no context requested"; an empty string is a requested-but-empty
// context and is still sent.
type askRequest struct {
	Question string  `json:"question"`
	Context  *string `json:"context"`
}

// AskAI submits a question to the AI capability. Any failure other than a
// credential rejection maps to ErrAI; callers must not retry automatically.
func (c *Client) AskAI(ctx context.Context, question string, contextText *string) (string, error) {
	var out struct {
		Response string `json:"response"`
	}
	err := c.do(ctx, http.MethodPost, "/ai/ask", nil, askRequest{Question: question, Context: contextText}, &out)
	if err != nil {
		if errors.Is(err, errs.ErrUnauthorized) {
			return "", err
		}
		return "", fmt.Errorf("%w: %v", errs.ErrAI, err)
	}
	return out.Response, nil
}
