package textgen

import (
	"encoding/json"
	"fmt"
	"sort"
)

// FinishReasonMaxTokens is the finish reason reported for truncated output.
const FinishReasonMaxTokens = "MAX_TOKENS"

// scanFields are the field names accepted by the last-resort scan.
var scanFields = map[string]bool{
	"text":           true,
	"output":         true,
	"content":        true,
	"generated_text": true,
}

// shapeMatcher recognizes one known response layout.
type shapeMatcher struct {
	name  string
	match func(root map[string]any) (string, bool)
}

// shapes are tried in priority order.
var shapes = []shapeMatcher{
	{name: "candidate.content.parts[0].text", match: matchPartsText},
	{name: "candidate.content.text", match: matchContentText},
	{name: "candidate.text", match: matchCandidateText},
	{name: "message", match: matchMessage},
}

// Result is extracted text together with the finish reason reported for it.
type Result struct {
	Text         string
	FinishReason string
}

// Truncated reports whether the text stopped at the output token limit.
func (r Result) Truncated() bool {
	return r.FinishReason == FinishReasonMaxTokens
}

// Normalize decodes a JSON response body and extracts its text.
func Normalize(raw []byte) (string, error) {
	res, err := NormalizeResponse(raw)
	return res.Text, err
}

// NormalizeResponse is Normalize that also reports the candidate's finish reason.
func NormalizeResponse(raw []byte) (Result, error) {
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return Result{}, newError(KindMalformedResponse, "response is not JSON", err)
	}
	return normalize(v)
}

// NormalizeValue extracts text from a decoded response.
//
// Known shapes are matched first. A content object without parts on a model
// turn is classified by its finish reason. Failing that, the first string
// field named text, output, content or generated_text found depth-first is
// used. An empty string in a matched field is returned as is.
func NormalizeValue(v any) (string, error) {
	res, err := normalize(v)
	return res.Text, err
}

func normalize(v any) (Result, error) {
	if arr, ok := v.([]any); ok {
		if len(arr) == 0 {
			return Result{}, newError(KindMalformedResponse, "empty response array", nil)
		}
		v = arr[0]
	}

	root, ok := v.(map[string]any)
	if !ok {
		return Result{}, newError(KindMalformedResponse, fmt.Sprintf("unexpected response type %T", v), nil)
	}

	cand := firstCandidate(root)
	finish := stringField(cand, "finishReason")

	for _, shape := range shapes {
		if text, ok := shape.match(root); ok {
			return Result{Text: text, FinishReason: finish}, nil
		}
	}

	if content, ok := cand["content"].(map[string]any); ok && !hasParts(content) && stringField(content, "role") == "model" {
		if finish == FinishReasonMaxTokens {
			return Result{}, newError(KindTokenLimitExceeded, "model turn ended without text", nil)
		}
		return Result{}, newError(KindMalformedResponse, "model turn has no content, finish reason "+orUnknown(finish), nil)
	}

	if finish == FinishReasonMaxTokens {
		return Result{}, newError(KindTokenLimitExceeded, "no text before token limit", nil)
	}

	if text, ok := scan(root); ok {
		return Result{Text: text, FinishReason: finish}, nil
	}

	if reason := blockReason(root); reason != "" {
		return Result{}, newError(KindMalformedResponse, "prompt blocked: "+reason, nil)
	}
	return Result{}, newError(KindMalformedResponse, "no text in response", nil)
}

func matchPartsText(root map[string]any) (string, bool) {
	content, ok := firstCandidate(root)["content"].(map[string]any)
	if !ok {
		return "", false
	}
	parts, ok := content["parts"].([]any)
	if !ok || len(parts) == 0 {
		return "", false
	}
	part, ok := parts[0].(map[string]any)
	if !ok {
		return "", false
	}
	return stringValue(part, "text")
}

func matchContentText(root map[string]any) (string, bool) {
	content, ok := firstCandidate(root)["content"].(map[string]any)
	if !ok {
		return "", false
	}
	return stringValue(content, "text")
}

func matchCandidateText(root map[string]any) (string, bool) {
	if text, ok := stringValue(firstCandidate(root), "text"); ok {
		return text, true
	}
	return stringValue(root, "text")
}

func matchMessage(root map[string]any) (string, bool) {
	if text, ok := stringValue(root, "message"); ok {
		return text, true
	}
	return stringValue(firstCandidate(root), "message")
}

// firstCandidate returns candidates[0], or nil.
func firstCandidate(root map[string]any) map[string]any {
	cands, ok := root["candidates"].([]any)
	if !ok || len(cands) == 0 {
		return nil
	}
	cand, _ := cands[0].(map[string]any)
	return cand
}

func hasParts(content map[string]any) bool {
	parts, ok := content["parts"].([]any)
	return ok && len(parts) > 0
}

func blockReason(root map[string]any) string {
	feedback, ok := root["promptFeedback"].(map[string]any)
	if !ok {
		return ""
	}
	return stringField(feedback, "blockReason")
}

// stringValue reports a string field, distinguishing "" from absent.
func stringValue(m map[string]any, key string) (string, bool) {
	if m == nil {
		return "", false
	}
	s, ok := m[key].(string)
	return s, ok
}

func stringField(m map[string]any, key string) string {
	s, _ := stringValue(m, key)
	return s
}

func orUnknown(s string) string {
	if s == "" {
		return "unknown"
	}
	return s
}

// scan walks v depth-first, visiting map keys in sorted order.
func scan(v any) (string, bool) {
	switch node := v.(type) {
	case map[string]any:
		keys := make([]string, 0, len(node))
		for k := range node {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		for _, k := range keys {
			if s, ok := node[k].(string); ok && scanFields[k] {
				return s, true
			}
		}
		for _, k := range keys {
			if text, ok := scan(node[k]); ok {
				return text, true
			}
		}
	case []any:
		for _, item := range node {
			if text, ok := scan(item); ok {
				return text, true
			}
		}
	}
	return "", false
}
