package api

import (
	"errors"
	"strconv"

	"github.com/danielgtaylor/huma/v2"

	domainerrors "github.com/listenupapp/bestsellers/internal/errors"
	"github.com/listenupapp/bestsellers/internal/http/response"
)

// EnvelopeTransformer wraps every huma response body in the shared
// {v, success, data | error} envelope.
func EnvelopeTransformer(_ huma.Context, status string, v any) (any, error) {
	if env, ok := v.(response.Envelope); ok {
		return env, nil
	}

	var apiErr *APIError
	if err, ok := v.(error); ok && errors.As(err, &apiErr) {
		return response.Envelope{
			Version: response.EnvelopeVersion,
			Error: &response.ErrorBody{
				Code:    domainerrors.Code(apiErr.Code),
				Message: apiErr.Message,
				Details: apiErr.Details,
			},
		}, nil
	}

	if err, ok := v.(error); ok {
		code, _ := strconv.Atoi(status)
		return response.Envelope{
			Version: response.EnvelopeVersion,
			Error: &response.ErrorBody{
				Code:    domainerrors.Code(statusToCode(code)),
				Message: err.Error(),
			},
		}, nil
	}

	return response.Envelope{
		Version: response.EnvelopeVersion,
		Success: true,
		Data:    v,
	}, nil
}
