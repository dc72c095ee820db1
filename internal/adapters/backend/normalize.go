package backend

import (
	"bytes"
	"encoding/json"
	"strings"
)

// Classification is the closed set of outcomes a backend call maps to.
type Classification int

const (
	SuccessWithBody Classification = iota
	SuccessEmpty
	AuthExpired
	ValidationError
	GenericFailure
)

func (c Classification) String() string {
	switch c {
	case SuccessWithBody:
		return "success_with_body"
	case SuccessEmpty:
		return "success_empty"
	case AuthExpired:
		return "auth_expired"
	case ValidationError:
		return "validation_error"
	default:
		return "generic_failure"
	}
}

// Messages are the fallback texts used when the backend gives no usable detail.
type Messages struct {
	Undecodable string // error body is not JSON
	NoDetail    string // JSON error body without a detail
	ServerError string // transport failure, or a 5xx without a detail
}

// LoadMessages returns the fallbacks used when fetching a listing.
func LoadMessages(plural string) Messages {
	return Messages{
		Undecodable: "Unknown error",
		NoDetail:    "Failed to fetch " + plural,
		ServerError: "Failed to fetch " + plural,
	}
}

// CreateMessages returns the fallbacks used when creating an entity.
func CreateMessages(noun string) Messages {
	return Messages{
		Undecodable: "Creation failed",
		NoDetail:    "Failed to create " + noun,
		ServerError: "Server error while creating " + noun,
	}
}

// DeleteMessages returns the fallbacks used when deleting an entity.
func DeleteMessages(noun string) Messages {
	return Messages{
		Undecodable: "Delete failed",
		NoDetail:    "Failed to delete " + noun,
		ServerError: "Server error while deleting " + noun,
	}
}

// Outcome is a classified backend response.
// Message is set for AuthExpired, ValidationError and GenericFailure.
type Outcome struct {
	Class   Classification
	Status  int
	Body    []byte
	Message string
}

// OK reports whether the call succeeded, with or without a body.
func (o Outcome) OK() bool {
	return o.Class == SuccessWithBody || o.Class == SuccessEmpty
}

// Decode unmarshals the success body into v.
func (o Outcome) Decode(v any) error {
	return json.Unmarshal(o.Body, v)
}

// Normalize classifies raw and extracts a user-facing message on failure.
// Decode failures of error bodies never escape; they select a fallback message.
// PRE: none
// POST: Returns exactly one classification
func Normalize(raw RawResult, msgs Messages) Outcome {
	if raw.Transport() {
		return Outcome{Class: GenericFailure, Message: msgs.ServerError}
	}
	out := Outcome{Status: raw.StatusCode, Body: raw.Body}
	switch {
	case raw.StatusCode >= 200 && raw.StatusCode < 300:
		if raw.StatusCode == 204 || len(bytes.TrimSpace(raw.Body)) == 0 {
			out.Class = SuccessEmpty
		} else {
			out.Class = SuccessWithBody
		}
	case raw.StatusCode == 401:
		out.Class = AuthExpired
		out.Message = "Session expired"
	case raw.StatusCode >= 400 && raw.StatusCode < 500:
		out.Class = ValidationError
		out.Message = extractMessage(raw.Body, msgs.Undecodable, msgs.NoDetail)
	default:
		out.Class = GenericFailure
		out.Message = extractMessage(raw.Body, msgs.ServerError, msgs.ServerError)
	}
	return out
}

// errorBody is the backend's error envelope. Detail is either a string
// or a list of {loc, msg} validation entries.
type errorBody struct {
	Detail json.RawMessage `json:"detail"`
}

type detailEntry struct {
	Loc []any  `json:"loc"`
	Msg string `json:"msg"`
}

func extractMessage(body []byte, undecodable, noDetail string) string {
	var eb errorBody
	if err := json.Unmarshal(body, &eb); err != nil {
		return undecodable
	}
	if len(eb.Detail) == 0 {
		return noDetail
	}
	var s string
	if err := json.Unmarshal(eb.Detail, &s); err == nil {
		if strings.TrimSpace(s) == "" {
			return noDetail
		}
		return s
	}
	var entries []detailEntry
	if err := json.Unmarshal(eb.Detail, &entries); err == nil && len(entries) > 0 && entries[0].Msg != "" {
		return entries[0].Msg
	}
	return noDetail
}
