// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package ocr

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Payload is the parsed form of an OCR output, recoverable from either the
// plain or the structured shape. Extracted text is re-editable downstream, so
// the round trip through BuildPlain/BuildStructured and ParsePayload must be
// lossless for the text body and the confidence score.
type Payload struct {
	Source        string
	Language      string
	Text          string
	Confidence    float64
	HasConfidence bool
}

const separator = "----------------------------------------"

// structuredPayload is the JSON shape of a structured OCR output.
type structuredPayload struct {
	Source     string   `json:"source"`
	Language   string   `json:"language"`
	Text       string   `json:"text"`
	Confidence *float64 `json:"confidence,omitempty"`
}

// BuildPlain renders the decorated plain-text shape: a header block, a
// separator line, then the recognized text body.
func BuildPlain(p Payload) []byte {
	var b strings.Builder
	fmt.Fprintf(&b, "Source: %s\n", p.Source)
	fmt.Fprintf(&b, "Language: %s\n", p.Language)
	if p.HasConfidence {
		fmt.Fprintf(&b, "Confidence: %.1f%%\n", p.Confidence)
	}
	b.WriteString(separator)
	b.WriteString("\n")
	b.WriteString(p.Text)
	return []byte(b.String())
}

// BuildStructured renders the JSON shape.
func BuildStructured(p Payload) ([]byte, error) {
	sp := structuredPayload{Source: p.Source, Language: p.Language, Text: p.Text}
	if p.HasConfidence {
		c := p.Confidence
		sp.Confidence = &c
	}
	data, err := json.MarshalIndent(sp, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encoding structured payload: %w", err)
	}
	return data, nil
}

var confidenceLine = regexp.MustCompile(`^Confidence:\s*([0-9.]+)%$`)

// ParsePayload recovers the text and confidence from either payload shape.
func ParsePayload(data []byte) (Payload, error) {
	trimmed := strings.TrimSpace(string(data))
	if strings.HasPrefix(trimmed, "{") {
		var sp structuredPayload
		if err := json.Unmarshal(data, &sp); err != nil {
			return Payload{}, fmt.Errorf("decoding structured payload: %w", err)
		}
		p := Payload{Source: sp.Source, Language: sp.Language, Text: sp.Text}
		if sp.Confidence != nil {
			p.Confidence = *sp.Confidence
			p.HasConfidence = true
		}
		return p, nil
	}

	lines := strings.Split(string(data), "\n")
	var p Payload
	for i, line := range lines {
		if strings.HasPrefix(line, separator) {
			p.Text = strings.Join(lines[i+1:], "\n")
			return p, nil
		}
		switch {
		case strings.HasPrefix(line, "Source: "):
			p.Source = strings.TrimPrefix(line, "Source: ")
		case strings.HasPrefix(line, "Language: "):
			p.Language = strings.TrimPrefix(line, "Language: ")
		default:
			if m := confidenceLine.FindStringSubmatch(strings.TrimSpace(line)); m != nil {
				if v, err := strconv.ParseFloat(m[1], 64); err == nil {
					p.Confidence = v
					p.HasConfidence = true
				}
			}
		}
	}
	return Payload{}, fmt.Errorf("plain payload has no separator line")
}

var (
	trailingSpace = regexp.MustCompile(`[ \t]+\n`)
	blankRuns     = regexp.MustCompile(`\n{3,}`)
)

// CollapseWhitespace trims trailing spaces and squeezes blank-line runs,
// applied when formatting preservation is not requested.
func CollapseWhitespace(text string) string {
	text = trailingSpace.ReplaceAllString(text, "\n")
	text = blankRuns.ReplaceAllString(text, "\n\n")
	return strings.TrimSpace(text)
}
