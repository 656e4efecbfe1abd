package recommend

import (
	"errors"
	"fmt"
)

// Kind причина, по которой рекомендации не получены.
type Kind int

const (
	KindUnknown Kind = iota
	KindConfiguration
	KindUpstreamHTTP
	KindUpstreamShape
	KindUpstreamTransport
	KindNoJSON
	KindJSONParse
	KindMissingField
	KindWrongType
	KindInvalidElement
)

var kindNames = map[Kind]string{
	KindUnknown:           "unknown",
	KindConfiguration:     "configuration",
	KindUpstreamHTTP:      "upstream_http",
	KindUpstreamShape:     "upstream_shape",
	KindUpstreamTransport: "upstream_transport",
	KindNoJSON:            "no_json",
	KindJSONParse:         "json_parse",
	KindMissingField:      "missing_field",
	KindWrongType:         "wrong_type",
	KindInvalidElement:    "invalid_element",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// Error единственный тип ошибки Analyze. Заполнены только поля, относящиеся к Kind.
type Error struct {
	Kind     Kind
	Status   int    // KindUpstreamHTTP
	Field    string // KindMissingField, KindWrongType
	Expected string // KindWrongType
	Index    int    // KindInvalidElement
	Detail   string // KindJSONParse
	Err      error
}

func (e *Error) Error() string {
	switch e.Kind {
	case KindConfiguration:
		return fmt.Sprintf("configuration error: %v", e.Err)
	case KindUpstreamHTTP:
		return fmt.Sprintf("upstream API error: status %d", e.Status)
	case KindUpstreamShape:
		if e.Err != nil {
			return fmt.Sprintf("invalid upstream API response: %v", e.Err)
		}
		return "invalid upstream API response"
	case KindUpstreamTransport:
		return fmt.Sprintf("upstream API request failed: %v", e.Err)
	case KindNoJSON:
		return "no JSON object found in model response"
	case KindJSONParse:
		return fmt.Sprintf("failed to parse model response: %s", e.Detail)
	case KindMissingField:
		return fmt.Sprintf("field %q missing in model response", e.Field)
	case KindWrongType:
		return fmt.Sprintf("field %q must be a %s", e.Field, e.Expected)
	case KindInvalidElement:
		return fmt.Sprintf("pattern at index %d is not an object", e.Index)
	default:
		if e.Err != nil {
			return fmt.Sprintf("recommendation failed: %v", e.Err)
		}
		return "recommendation failed"
	}
}

func (e *Error) Unwrap() error {
	return e.Err
}

// KindOf возвращает Kind ошибки или KindUnknown, если это не *Error.
func KindOf(err error) Kind {
	var re *Error
	if errors.As(err, &re) {
		return re.Kind
	}
	return KindUnknown
}

func missingField(field string) *Error {
	return &Error{Kind: KindMissingField, Field: field}
}

func wrongType(field, expected string) *Error {
	return &Error{Kind: KindWrongType, Field: field, Expected: expected}
}
