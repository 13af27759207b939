package authapi

import (
	"bytes"
	"encoding/json"
	"strings"
)

// User is the user object embedded in an auth response. Some deployments
// spell the name field full_name.
type User struct {
	FullName      string `json:"fullName"`
	FullNameSnake string `json:"full_name"`
}

// Name returns whichever spelling of the full name was present
func (u *User) Name() string {
	if u == nil {
		return ""
	}
	if u.FullName != "" {
		return u.FullName
	}
	return u.FullNameSnake
}

// Payload carries the fields of a successful authentication
type Payload struct {
	Token string
	User  *User
}

// Shape identifies how the payload was laid out in the response body
type Shape int

const (
	// ShapeWrapped is {isSuccess, result: {token, user}, message}
	ShapeWrapped Shape = iota
	// ShapeFlat is {token, user, ...} at the top level
	ShapeFlat
)

func (s Shape) String() string {
	if s == ShapeFlat {
		return "flat"
	}
	return "wrapped"
}

// Envelope is the raw response body. Only the status fields are strictly
// typed; result, token and user stay raw until Normalize.
type Envelope struct {
	IsSuccess *bool           `json:"isSuccess"`
	Message   string          `json:"message"`
	ErrorText string          `json:"error"`
	Result    json.RawMessage `json:"result"`
	Token     json.RawMessage `json:"token"`
	User      json.RawMessage `json:"user"`
}

// Reason returns the human-readable message, preferring message over error
func (e *Envelope) Reason() string {
	if e.Message != "" {
		return e.Message
	}
	return e.ErrorText
}

// Shape reports which layout the envelope uses. Any non-null result selects
// the wrapped layout, whatever its type.
func (e *Envelope) Shape() Shape {
	if present(e.Result) {
		return ShapeWrapped
	}
	return ShapeFlat
}

// Succeeded reports the API success flag. A missing flag counts as success;
// the HTTP status decides in that case.
func (e *Envelope) Succeeded() bool {
	return e.IsSuccess == nil || *e.IsSuccess
}

// Payload extracts token and user from the active layout. Fields of an
// unexpected type are dropped, the same as missing ones.
func (e *Envelope) Payload() Payload {
	token, user := e.Token, e.User

	if e.Shape() == ShapeWrapped {
		var inner struct {
			Token json.RawMessage `json:"token"`
			User  json.RawMessage `json:"user"`
		}
		if err := json.Unmarshal(e.Result, &inner); err != nil {
			return Payload{}
		}
		token, user = inner.Token, inner.User
	}

	return Payload{Token: decodeString(token), User: decodeUser(user)}
}

// Normalize collapses either shape into an AuthResult
func (e *Envelope) Normalize() AuthResult {
	payload := e.Payload()

	return AuthResult{
		Token:    strings.TrimSpace(payload.Token),
		FullName: strings.TrimSpace(payload.User.Name()),
		Message:  e.Message,
		Shape:    e.Shape(),
	}
}

func present(raw json.RawMessage) bool {
	raw = bytes.TrimSpace(raw)
	return len(raw) > 0 && !bytes.Equal(raw, []byte("null"))
}

func decodeString(raw json.RawMessage) string {
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return ""
	}
	return s
}

func decodeUser(raw json.RawMessage) *User {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return nil
	}
	return &User{
		FullName:      decodeString(fields["fullName"]),
		FullNameSnake: decodeString(fields["full_name"]),
	}
}

// AuthResult is the normalized outcome of a successful call. Token and
// FullName are empty when the API omitted them or sent another type.
type AuthResult struct {
	Token    string
	FullName string
	Message  string
	Shape    Shape
}

// HasToken reports whether a token was returned
func (r AuthResult) HasToken() bool {
	return r.Token != ""
}
