package recommend

import "fmt"

// PatternCount сколько паттернов просим у модели.
const PatternCount = 3

// BuildPrompt подставляет use case в фиксированный шаблон без изменений.
func BuildPrompt(useCase string) string {
	return fmt.Sprintf(promptTemplate, PatternCount, useCase, responseSchema)
}

const responseSchema = `{
  "patterns": [
    {
      "name": "Pattern name",
      "confidence": 0.85,
      "explanation": "Detailed explanation",
      "implementation": "Implementation suggestion"
    }
  ]
}`

// promptTemplate: количество паттернов, use case и схема, именно в этом порядке.
const promptTemplate = `Analyze the following use case and recommend the %d most appropriate Design Patterns.
For each pattern, provide:
1. The pattern name
2. A confidence value between 0 and 1, where 0.85 means 85%% confidence
3. A detailed explanation
4. An implementation suggestion

Use case:
%s

Respond ONLY with a valid JSON object in the following format, without any additional text:
%s

NO markdown.
NO code fences.
NO text before or after the JSON object.`
