package services

import (
	"encoding/json"
	"strings"

	"evalhub/models"
)

// ParseEvaluation attempts to recover a structured evaluation from the
// model's free-form reply. On any failure the sentinel (nil Result) is
// returned with the raw text preserved unmodified; parsing is never fatal.
func ParseEvaluation(raw string) models.ModelReply {
	reply := models.ModelReply{Raw: raw}

	candidate, ok := firstJSONObject(cleanModelOutput(raw))
	if !ok {
		return reply
	}

	var result models.EvaluationResult
	if err := json.Unmarshal([]byte(candidate), &result); err != nil {
		return reply
	}
	reply.Result = &result
	return reply
}

// cleanModelOutput strips markdown code fences the model tends to wrap JSON in.
func cleanModelOutput(text string) string {
	cleaned := strings.TrimSpace(text)
	cleaned = strings.TrimPrefix(cleaned, "```json")
	cleaned = strings.TrimPrefix(cleaned, "```JSON")
	cleaned = strings.TrimPrefix(cleaned, "```")
	cleaned = strings.TrimSuffix(cleaned, "```")
	return strings.TrimSpace(cleaned)
}

// firstJSONObject returns the first structurally balanced {...} object in s,
// tracking string and escape state so braces inside string values don't
// confuse the depth count. Trailing content after the object is ignored.
func firstJSONObject(s string) (string, bool) {
	start := strings.IndexByte(s, '{')
	if start < 0 {
		return "", false
	}

	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(s); i++ {
		c := s[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return s[start : i+1], true
			}
		}
	}
	return "", false
}
