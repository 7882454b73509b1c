package api

import (
	"errors"

	"github.com/danielgtaylor/huma/v2"

	"github.com/dojolog/dojolog-server/internal/http/response"
)

// EnvelopeTransformer wraps every huma response body in the dojolog envelope.
// Errors become {v, success:false, error, code, message, details}; everything else
// becomes {v, success:true, data}. Bodies already enveloped pass through untouched.
func EnvelopeTransformer(_ huma.Context, _ string, v any) (any, error) {
	switch body := v.(type) {
	case response.Envelope, response.ErrorEnvelope, *response.Envelope, *response.ErrorEnvelope:
		return v, nil
	case *APIError:
		return response.Failure(body.Code, body.Message, body.Details), nil
	case *huma.ErrorModel:
		return response.Failure(statusToCode(body.Status), body.Detail, errorDetails(body)), nil
	case error:
		var apiErr *APIError
		if errors.As(body, &apiErr) {
			return response.Failure(apiErr.Code, apiErr.Message, apiErr.Details), nil
		}
		return response.Failure(string(codeInternal), body.Error(), nil), nil
	default:
		return response.Success(v), nil
	}
}

func errorDetails(m *huma.ErrorModel) any {
	if len(m.Errors) == 0 {
		return nil
	}
	details := make(map[string]string, len(m.Errors))
	for _, e := range m.Errors {
		details[e.Location] = e.Message
	}
	return details
}
