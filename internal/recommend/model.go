package recommend

// Pattern один рекомендованный паттерн. Confidence доля в [0, 1].
type Pattern struct {
	Name           string  `json:"name"`
	Confidence     float64 `json:"confidence"`
	Explanation    string  `json:"explanation"`
	Implementation string  `json:"implementation"`
}

// Set рекомендации в том порядке, в котором их вернула модель.
type Set struct {
	Patterns []Pattern `json:"patterns"`
}
