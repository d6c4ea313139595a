package api

import (
	"errors"
	"strconv"

	"github.com/danielgtaylor/huma/v2"

	domainerrors "github.com/inovelapp/inovel-server/internal/errors"
)

// EnvelopeVersion is the version of the response envelope. Clients check
// "v" before reading anything else.
const EnvelopeVersion = 1

// APIEnvelope wraps every successful response body.
type APIEnvelope struct {
	Version int  `json:"v"`
	Success bool `json:"success"`
	Data    any  `json:"data"`
}

// APIErrorBody is the error part of a failed response.
type APIErrorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

// APIErrorEnvelope wraps every error response body.
type APIErrorEnvelope struct {
	Version int          `json:"v"`
	Success bool         `json:"success"`
	Error   APIErrorBody `json:"error"`
}

// EnvelopeTransformer is a huma transformer that wraps response bodies in
// the versioned envelope. Status codes below 400 are successes.
func EnvelopeTransformer(_ huma.Context, status string, v any) (any, error) {
	code, err := strconv.Atoi(status)
	if err != nil || code < 400 {
		return APIEnvelope{Version: EnvelopeVersion, Success: true, Data: v}, nil
	}

	return APIErrorEnvelope{
		Version: EnvelopeVersion,
		Success: false,
		Error:   errorBody(code, v),
	}, nil
}

func errorBody(status int, v any) APIErrorBody {
	var apiErr *APIError
	var domainErr *domainerrors.Error

	switch e := v.(type) {
	case *APIError:
		apiErr = e
	case error:
		if errors.As(e, &domainErr) {
			apiErr = fromDomainError(domainErr)
		} else if !errors.As(e, &apiErr) {
			return APIErrorBody{Code: statusToCode(status), Message: e.Error()}
		}
	default:
		return APIErrorBody{Code: statusToCode(status), Message: "request failed"}
	}

	body := APIErrorBody{Code: apiErr.Code, Message: apiErr.Message, Details: apiErr.Details}
	if body.Code == "" {
		body.Code = statusToCode(status)
	}
	return body
}
