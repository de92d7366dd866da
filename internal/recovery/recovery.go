// Package recovery pulls structured JSON back out of generative model output.
// Models wrap JSON in prose, markdown fences, or emit it malformed; recovery
// runs direct parsing, balanced-brace extraction, and an optional caller
// fallback before giving up.
package recovery

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
)

// Path identifies which recovery stage produced the parsed output
type Path string

const (
	// PathDirect means the full text parsed as JSON on the first attempt
	PathDirect Path = "direct"
	// PathBraceExtraction means a balanced substring was extracted and parsed
	PathBraceExtraction Path = "brace_extraction"
	// PathFallback means the caller-supplied fallback synthesized the result
	PathFallback Path = "fallback"
	// PathFailed means every recovery stage failed
	PathFailed Path = "failed"
)

// Fallback synthesizes a minimal parsed result when no JSON can be recovered
// from the model text. Image analysis wires the OCR heuristic parser here.
type Fallback func() (json.RawMessage, error)

// ModelOutput holds the raw model text alongside whatever JSON was recovered
type ModelOutput struct {
	// RawText is the unmodified model output
	RawText string
	// Parsed is the recovered JSON document, nil when recovery failed
	Parsed json.RawMessage
	// Recovery records which stage produced Parsed
	Recovery Path
}

// largestBracePattern is the last-resort regex for the widest {...} span.
// The greedy body makes it deterministic: first { to last }.
var largestBracePattern = regexp.MustCompile(`(?s)\{.*\}`)

// fencePattern strips markdown code fences models like to wrap JSON in
var fencePattern = regexp.MustCompile("(?s)^```(?:json)?\\s*(.*?)\\s*```$")

// Recover parses model output without a fallback stage.
func Recover(rawText string) (*ModelOutput, error) {
	return RecoverWithFallback(rawText, nil)
}

// RecoverWithFallback attempts, in order: strict parse of the whole text,
// balanced-brace substring extraction, a regex sweep for the largest brace
// span, and finally the caller-supplied fallback. The first stage to yield
// valid JSON wins. Failure here is recoverable by the caller; retrying the
// model belongs to the inference layer, not this one.
func RecoverWithFallback(rawText string, fallback Fallback) (*ModelOutput, error) {
	out := &ModelOutput{RawText: rawText, Recovery: PathFailed}

	text := strings.TrimSpace(rawText)
	if m := fencePattern.FindStringSubmatch(text); m != nil {
		text = m[1]
	}

	// Only whole objects count as a direct parse. Bare scalars like null or
	// a quoted sentence are valid JSON but useless downstream; let them fall
	// through to the later stages.
	if strings.HasPrefix(text, "{") && json.Valid([]byte(text)) {
		out.Parsed = json.RawMessage(text)
		out.Recovery = PathDirect

		return out, nil
	}

	if candidate := extractBalanced(text); candidate != "" {
		out.Parsed = json.RawMessage(candidate)
		out.Recovery = PathBraceExtraction

		return out, nil
	}

	if match := largestBracePattern.FindString(text); match != "" && json.Valid([]byte(match)) {
		out.Parsed = json.RawMessage(match)
		out.Recovery = PathBraceExtraction

		return out, nil
	}

	if fallback != nil {
		parsed, err := fallback()
		if err == nil && len(parsed) > 0 {
			out.Parsed = parsed
			out.Recovery = PathFallback

			return out, nil
		}
	}

	return out, fmt.Errorf("%w: no parseable JSON in %d bytes of model output", ErrParseRecoveryFailed, len(rawText))
}

// extractBalanced scans for balanced {...} substrings with an explicit depth
// counter, string and escape aware, and returns the first one that parses.
func extractBalanced(text string) string {
	for start := 0; start < len(text); start++ {
		if text[start] != '{' {
			continue
		}

		end := scanBalanced(text, start)
		if end < 0 {
			continue
		}

		candidate := text[start : end+1]
		if json.Valid([]byte(candidate)) {
			return candidate
		}
	}

	return ""
}

// scanBalanced returns the index of the brace closing the one at start, or -1
// when the text ends before the depth returns to zero.
func scanBalanced(text string, start int) int {
	depth := 0
	inString := false
	escaped := false

	for i := start; i < len(text); i++ {
		c := text[i]

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
				return i
			}
		}
	}

	return -1
}
