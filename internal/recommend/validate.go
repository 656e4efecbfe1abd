package recommend

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
)

const (
	fieldPatterns       = "patterns"
	fieldName           = "name"
	fieldConfidence     = "confidence"
	fieldExplanation    = "explanation"
	fieldImplementation = "implementation"
)

// requiredFields проверяются по порядку, в ошибке указывается первое отсутствующее.
var requiredFields = []string{fieldName, fieldConfidence, fieldExplanation, fieldImplementation}

// ExtractJSON возвращает фрагмент от первой '{' до последней '}'.
// Модель нередко оборачивает объект в текст или code fences.
func ExtractJSON(text string) (string, error) {
	start := strings.IndexByte(text, '{')
	if start < 0 {
		return "", &Error{Kind: KindNoJSON}
	}
	end := strings.LastIndexByte(text, '}')
	if end < start {
		return "", &Error{Kind: KindNoJSON}
	}
	return text[start : end+1], nil
}

// ParseRecommendations извлекает, проверяет и нормализует ответ модели.
// Любой некорректный элемент отклоняет весь ответ целиком.
func ParseRecommendations(text string) (Set, error) {
	payload, err := ExtractJSON(text)
	if err != nil {
		return Set{}, err
	}

	root, err := decodeSingle(payload)
	if err != nil {
		return Set{}, &Error{Kind: KindJSONParse, Detail: err.Error(), Err: err}
	}

	obj, ok := root.(map[string]any)
	if !ok {
		return Set{}, missingField(fieldPatterns)
	}
	rawPatterns, ok := obj[fieldPatterns]
	if !ok {
		return Set{}, missingField(fieldPatterns)
	}
	items, ok := rawPatterns.([]any)
	if !ok {
		return Set{}, wrongType(fieldPatterns, "list")
	}

	set := Set{Patterns: make([]Pattern, 0, len(items))}
	for i, item := range items {
		p, err := parsePattern(i, item)
		if err != nil {
			return Set{}, err
		}
		set.Patterns = append(set.Patterns, p)
	}
	return set, nil
}

func parsePattern(index int, item any) (Pattern, error) {
	fields, ok := item.(map[string]any)
	if !ok {
		return Pattern{}, &Error{Kind: KindInvalidElement, Index: index}
	}
	for _, name := range requiredFields {
		if _, ok := fields[name]; !ok {
			return Pattern{}, missingField(name)
		}
	}

	confidence, err := numberField(fields, fieldConfidence)
	if err != nil {
		return Pattern{}, err
	}
	name := textField(fields, fieldName)
	if strings.TrimSpace(name) == "" {
		return Pattern{}, missingField(fieldName)
	}

	return Pattern{
		Name:           name,
		Confidence:     NormalizeConfidence(confidence),
		Explanation:    textField(fields, fieldExplanation),
		Implementation: textField(fields, fieldImplementation),
	}, nil
}

// NormalizeConfidence переводит проценты (85) в доли (0.85), отрицательные
// значения обнуляет. Значения из [0, 1] не меняются.
func NormalizeConfidence(c float64) float64 {
	if c > 1 {
		return c / 100
	}
	if c < 0 {
		return 0
	}
	return c
}

func numberField(fields map[string]any, name string) (float64, error) {
	num, ok := fields[name].(json.Number)
	if !ok {
		return 0, wrongType(name, "number")
	}
	f, err := num.Float64()
	if err != nil {
		return 0, wrongType(name, "number")
	}
	return f, nil
}

// textField возвращает строку как есть; null даёт пустую строку, а прочие
// значения (например, список шагов) сохраняются в виде JSON.
func textField(fields map[string]any, name string) string {
	switch v := fields[name].(type) {
	case string:
		return v
	case nil:
		return ""
	default:
		raw, err := json.Marshal(v)
		if err != nil {
			return fmt.Sprint(v)
		}
		return string(raw)
	}
}

func decodeSingle(payload string) (any, error) {
	dec := json.NewDecoder(strings.NewReader(payload))
	dec.UseNumber()

	var root any
	if err := dec.Decode(&root); err != nil {
		return nil, err
	}
	if err := ensureSingleJSON(dec); err != nil {
		return nil, err
	}
	return root, nil
}

func ensureSingleJSON(dec *json.Decoder) error {
	var extra json.RawMessage
	err := dec.Decode(&extra)
	if errors.Is(err, io.EOF) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("extra data after JSON object: %v", err)
	}
	if len(bytes.TrimSpace(extra)) > 0 {
		return errors.New("extra data after JSON object")
	}
	return nil
}
