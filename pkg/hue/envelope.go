package hue

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
)

// The bridge answers in one of four shapes:
//
//	{...}                         a bare resource (or the legacy id -> resource map)
//	{"errors":[...],"data":[...]} the v2 resource envelope
//	[{"success":...}, ...]        a legacy success list
//	[{"error":{...}}, ...]        a legacy error list
//
// classify works out which one a body is so the decoders below can switch on it.
type envelopeKind int

const (
	kindObject envelopeKind = iota
	kindResource
	kindSuccessList
	kindErrorList
)

type legacyError struct {
	Type        int    `json:"type"`
	Address     string `json:"address"`
	Description string `json:"description"`
}

type resourceError struct {
	Description string `json:"description"`
}

type resourceEnvelope struct {
	Errors []resourceError `json:"errors"`
	Data   json.RawMessage `json:"data"`
}

type envelope struct {
	kind     envelopeKind
	raw      json.RawMessage
	errors   []legacyError
	resource resourceEnvelope
}

func classify(raw []byte) (envelope, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return envelope{}, &ProtocolError{Msg: "empty response body"}
	}
	if bytes.Equal(trimmed, []byte("null")) {
		return envelope{}, &ProtocolError{Msg: "empty response"}
	}

	if trimmed[0] != '[' {
		var fields map[string]json.RawMessage
		if err := json.Unmarshal(trimmed, &fields); err == nil {
			_, hasErrors := fields["errors"]
			_, hasData := fields["data"]
			if hasErrors || hasData {
				var res resourceEnvelope
				if err := decodeInto(trimmed, &res); err != nil {
					return envelope{}, err
				}
				return envelope{kind: kindResource, raw: trimmed, resource: res}, nil
			}
		}
		return envelope{kind: kindObject, raw: trimmed}, nil
	}

	var items []json.RawMessage
	if err := json.Unmarshal(trimmed, &items); err != nil {
		return envelope{}, &SerializationError{Err: err}
	}
	if len(items) == 0 {
		return envelope{}, &ProtocolError{Msg: "expected non-empty array"}
	}

	var errs []legacyError
	for _, item := range items {
		var fields map[string]json.RawMessage
		if err := json.Unmarshal(item, &fields); err != nil {
			continue
		}
		rawErr, ok := fields["error"]
		if !ok {
			continue
		}
		var e *legacyError
		if err := json.Unmarshal(rawErr, &e); err != nil {
			return envelope{}, &ProtocolError{Msg: fmt.Sprintf("malformed error entry: %s", err)}
		}
		if e == nil || e.Description == "" {
			return envelope{}, &ProtocolError{Msg: "error entry without a description"}
		}
		errs = append(errs, *e)
	}
	if len(errs) > 0 {
		return envelope{kind: kindErrorList, raw: trimmed, errors: errs}, nil
	}

	return envelope{kind: kindSuccessList, raw: trimmed}, nil
}

// The last entry wins when a legacy list carries more than one. Bridges are only
// seen to send singletons here; the rule is kept for compatibility with older clients.
func (e envelope) lastLegacyError() error {
	last := e.errors[len(e.errors)-1]
	return &BridgeError{Code: last.Type, Address: last.Address, Description: last.Description}
}

func (e envelope) resourceError() error {
	if len(e.resource.Errors) == 0 {
		return nil
	}
	last := e.resource.Errors[len(e.resource.Errors)-1]
	return &BridgeError{Description: last.Description}
}

// DecodeLegacy decodes a body from the legacy API into T.
//
// A bare object is decoded directly. A success list yields its last element and an
// error list yields a *BridgeError built from its last error. An empty array is a
// *ProtocolError.
func DecodeLegacy[T any](raw []byte) (T, error) {
	var result T

	env, err := classify(raw)
	if err != nil {
		return result, err
	}

	switch env.kind {
	case kindErrorList:
		return result, env.lastLegacyError()

	case kindResource:
		if err := env.resourceError(); err != nil {
			return result, err
		}
		err = decodeInto(env.raw, &result)
		return result, err

	case kindSuccessList:
		var elements []T
		if err := decodeInto(env.raw, &elements); err != nil {
			return result, &ProtocolError{Msg: fmt.Sprintf("array holds neither %T elements nor error entries", result)}
		}
		return elements[len(elements)-1], nil

	default:
		err = decodeInto(env.raw, &result)
		return result, err
	}
}

// DecodeResources decodes a v2 {errors, data} envelope. Any reported error becomes a
// *BridgeError carrying the last description; otherwise data is returned as a list,
// even for endpoints that address a single resource.
func DecodeResources[T any](raw []byte) ([]T, error) {
	env, err := classify(raw)
	if err != nil {
		return nil, err
	}

	switch env.kind {
	case kindErrorList:
		return nil, env.lastLegacyError()

	case kindResource:
		if err := env.resourceError(); err != nil {
			return nil, err
		}
		if len(env.resource.Data) == 0 || string(env.resource.Data) == "null" {
			return nil, &ProtocolError{Msg: "envelope has no data"}
		}
		var data []T
		if err := decodeInto(env.resource.Data, &data); err != nil {
			return nil, err
		}
		return data, nil

	default:
		return nil, &ProtocolError{Msg: "expected {errors, data} envelope"}
	}
}

// bridgeErrorFrom extracts a bridge error from a body of any shape, or returns nil.
func bridgeErrorFrom(raw []byte) error {
	env, err := classify(raw)
	if err != nil {
		return nil
	}
	switch env.kind {
	case kindErrorList:
		return env.lastLegacyError()
	case kindResource:
		return env.resourceError()
	}
	return nil
}

func decodeInto(raw []byte, v any) error {
	err := json.Unmarshal(raw, v)
	if err == nil {
		return nil
	}
	var syntaxErr *json.SyntaxError
	if errors.As(err, &syntaxErr) {
		return &SerializationError{Err: err}
	}
	return &ProtocolError{Msg: err.Error()}
}
