package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/fadilmartias/career-pulse/internal/model"
	"github.com/fadilmartias/career-pulse/internal/util"
	"github.com/tidwall/gjson"
	"google.golang.org/genai"
)

var (
	ErrMalformedResponse = errors.New("malformed model response")
	ErrUnsupportedResume = errors.New("unsupported resume payload")
	ErrMissingTargetJob  = errors.New("target job is required")
)

// GenerateRequest is one structured call to the generative service.
type GenerateRequest struct {
	Prompt    string
	Resume    model.Resume
	Schema    *genai.Schema
	WebSearch bool
}

type GenerateResult struct {
	Text    string
	Sources []model.GroundingSource
}

// Generator returns raw JSON text for a request. Network, quota and
// response errors are all returned as a single error.
type Generator interface {
	GenerateJSON(ctx context.Context, req GenerateRequest) (*GenerateResult, error)
}

// decodeJSON strips fences, checks that every required key is present and
// decodes the payload into T.
func decodeJSON[T any](text string, required ...string) (T, error) {
	var out T

	cleaned := util.CleanJSON(text)
	if cleaned == "" {
		return out, fmt.Errorf("%w: empty response", ErrMalformedResponse)
	}
	if !gjson.Valid(cleaned) {
		return out, fmt.Errorf("%w: invalid JSON: %.100s", ErrMalformedResponse, cleaned)
	}
	for _, key := range required {
		if !gjson.Get(cleaned, key).Exists() {
			return out, fmt.Errorf("%w: missing field %q", ErrMalformedResponse, key)
		}
	}
	if err := json.Unmarshal([]byte(cleaned), &out); err != nil {
		return out, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	return out, nil
}
