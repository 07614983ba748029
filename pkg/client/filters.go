package client

import (
	"context"
	"fmt"

	"github.com/turtacn/molrad/internal/application/filters"
	"github.com/turtacn/molrad/pkg/errors"
)

// Wire types shared with the server.
type (
	Description      = filters.Description
	LevelDescription = filters.LevelDescription
	EvaluateRequest  = filters.EvaluateRequest
	EvaluateResult   = filters.EvaluateResult
	LevelOutput      = filters.LevelOutput
	OrderOutput      = filters.OrderOutput
)

// FiltersClient calls the /v1/filters endpoints.
type FiltersClient struct {
	client *Client
}

// Describe returns the layout of the server's current bank.
func (f *FiltersClient) Describe(ctx context.Context) (*Description, error) {
	var d Description
	if err := f.client.get(ctx, "/v1/filters", &d); err != nil {
		return nil, err
	}
	return &d, nil
}

// Level returns one level of the current bank.
func (f *FiltersClient) Level(ctx context.Context, level int) (*LevelDescription, error) {
	if level < 0 {
		return nil, errors.InvalidParam("level must be >= 0")
	}
	var d LevelDescription
	if err := f.client.get(ctx, fmt.Sprintf("/v1/filters/levels/%d", level), &d); err != nil {
		return nil, err
	}
	return &d, nil
}

// Evaluate runs one distance batch on the server.
func (f *FiltersClient) Evaluate(ctx context.Context, req EvaluateRequest) (*EvaluateResult, error) {
	var res EvaluateResult
	if err := f.client.post(ctx, "/v1/filters/evaluate", req, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

// EvaluateBatch runs several batches; results come back in request order.
func (f *FiltersClient) EvaluateBatch(ctx context.Context, reqs []EvaluateRequest) ([]*EvaluateResult, error) {
	var resp struct {
		Results []*EvaluateResult `json:"results"`
	}
	body := struct {
		Requests []EvaluateRequest `json:"requests"`
	}{Requests: reqs}
	if err := f.client.post(ctx, "/v1/filters/evaluate/batch", body, &resp); err != nil {
		return nil, err
	}
	return resp.Results, nil
}

//Personal.AI order the ending
