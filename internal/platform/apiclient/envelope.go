package apiclient

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/ReyXerxezz/genosentinel/pkg/pagination"
)

// Envelope is the {message, data, pagination?} wrapper around API payloads.
type Envelope[T any] struct {
	Message    string           `json:"message"`
	Data       T                `json:"data"`
	Pagination *pagination.Info `json:"pagination,omitempty"`
}

// rawEnvelope keeps data undecoded so its shape can be checked first.
type rawEnvelope struct {
	Message    string           `json:"message"`
	Data       json.RawMessage  `json:"data"`
	Pagination *pagination.Info `json:"pagination,omitempty"`
}

// List is an unwrapped list payload.
type List[T any] struct {
	Items      []T
	Pagination *pagination.Info
}

// UnwrapList decodes an enveloped list. Anything other than an object whose
// data member is a JSON array yields a *ContractError; bare arrays are
// rejected as well.
func UnwrapList[T any](endpoint string, raw []byte) (*List[T], error) {
	var env rawEnvelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, &ContractError{Endpoint: endpoint, Expected: "an enveloped list", Raw: raw}
	}
	data := bytes.TrimSpace(env.Data)
	if len(data) == 0 || data[0] != '[' {
		return nil, &ContractError{Endpoint: endpoint, Expected: "data to be an array", Raw: raw}
	}

	items := make([]T, 0)
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("decode %s items: %w", endpoint, err)
	}
	return &List[T]{Items: items, Pagination: env.Pagination}, nil
}

// UnwrapOne decodes an enveloped single record. A missing or null data
// member yields a *ContractError.
func UnwrapOne[T any](endpoint string, raw []byte) (*T, error) {
	var env rawEnvelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, &ContractError{Endpoint: endpoint, Expected: "an enveloped record", Raw: raw}
	}
	data := bytes.TrimSpace(env.Data)
	if len(data) == 0 || data[0] != '{' {
		return nil, &ContractError{Endpoint: endpoint, Expected: "data to be an object", Raw: raw}
	}

	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		return nil, fmt.Errorf("decode %s record: %w", endpoint, err)
	}
	return &v, nil
}
