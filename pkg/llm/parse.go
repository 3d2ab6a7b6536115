package llm

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/kaptinlin/jsonrepair"
)

// ParseJSONObject decodes an LLM reply that should be a single JSON object.
// Models wrap JSON in markdown fences or emit near-JSON often enough that a
// strict decode alone throws away recoverable answers, so the fallback path
// runs the text through jsonrepair before giving up. Failure is a
// conformance error — the node executor may retry once.
func ParseJSONObject(scene, raw string) (map[string]any, error) {
	text := stripCodeFence(strings.TrimSpace(raw))

	var parsed map[string]any
	if err := json.Unmarshal([]byte(text), &parsed); err == nil {
		return parsed, nil
	}

	repaired, err := jsonrepair.JSONRepair(text)
	if err != nil {
		return nil, NewError(KindConformance, scene,
			fmt.Errorf("output is not a JSON object: %q", truncate(raw, 200)))
	}
	if err := json.Unmarshal([]byte(repaired), &parsed); err != nil {
		return nil, NewError(KindConformance, scene,
			fmt.Errorf("repaired output still undecodable: %w", err))
	}
	return parsed, nil
}

// stripCodeFence removes a surrounding ```json ... ``` (or plain ```) fence.
func stripCodeFence(s string) string {
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	if idx := strings.IndexByte(s, '\n'); idx >= 0 {
		// Drop the language tag line ("json", "JSON", or empty).
		s = s[idx+1:]
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
