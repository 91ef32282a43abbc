// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package ocr

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jsenko/convert-engine/pkg/types"
)

// stubRunner returns canned recognizer output. The TSV shape mirrors real
// tesseract output: 12 columns, confidence in column 11, -1 for non-words.
type stubRunner struct {
	text    string
	tsv     string
	textErr error
	tsvErr  error
	calls   []string
}

func (s *stubRunner) Run(_ context.Context, name string, args ...string) ([]byte, []byte, error) {
	s.calls = append(s.calls, strings.Join(append([]string{name}, args...), " "))
	if len(args) > 0 && args[len(args)-1] == "tsv" {
		if s.tsvErr != nil {
			return nil, []byte("tsv boom"), s.tsvErr
		}
		return []byte(s.tsv), nil, nil
	}
	if s.textErr != nil {
		return nil, []byte("ocr boom"), s.textErr
	}
	return []byte(s.text), nil, nil
}

func tsvFor(confs ...string) string {
	var b strings.Builder
	b.WriteString("level\tpage_num\tblock_num\tpar_num\tline_num\tword_num\tleft\ttop\twidth\theight\tconf\ttext\n")
	for i, c := range confs {
		b.WriteString("5\t1\t1\t1\t1\t1\t0\t0\t10\t10\t" + c + "\tw" + string(rune('a'+i)) + "\n")
	}
	return b.String()
}

func testConfig() types.OCRConfig {
	return types.OCRConfig{Tesseract: "tesseract", Language: "eng"}
}

func TestConvert_PlainWithConfidence(t *testing.T) {
	runner := &stubRunner{text: "Hello\n", tsv: tsvFor("90", "93")}
	e := NewExtractorWithRunner(testConfig(), runner, nil)

	opts := types.Options{
		Type: types.RasterToText,
		OCR:  &types.OCROptions{Language: "eng", OutputFormat: types.OCRPlain, Confidence: true},
	}

	outputs, err := e.Convert(context.Background(), "scan.png", []byte("img"), opts, func(int) {})
	require.NoError(t, err)
	require.Len(t, outputs, 1)
	assert.Equal(t, "scan.txt", outputs[0].Name)
	assert.Equal(t, "text/plain", outputs[0].MIMEType)

	body := string(outputs[0].Data)
	assert.Contains(t, body, "Source: scan.png")
	assert.Contains(t, body, "Language: eng")
	assert.Contains(t, body, "Confidence: 91.5%")
	assert.Contains(t, body, "Hello")

	p, err := ParsePayload(outputs[0].Data)
	require.NoError(t, err)
	assert.Equal(t, "Hello", p.Text)
	require.True(t, p.HasConfidence)
	assert.InDelta(t, 91.5, p.Confidence, 0.05)
}

func TestConvert_Structured(t *testing.T) {
	runner := &stubRunner{text: "Hello", tsv: tsvFor("91", "92")}
	e := NewExtractorWithRunner(testConfig(), runner, nil)

	opts := types.Options{
		Type: types.RasterToText,
		OCR:  &types.OCROptions{Language: "deu", OutputFormat: types.OCRStructured, Confidence: true},
	}

	outputs, err := e.Convert(context.Background(), "scan.png", []byte("img"), opts, func(int) {})
	require.NoError(t, err)
	assert.Equal(t, "scan.json", outputs[0].Name)
	assert.Equal(t, "application/json", outputs[0].MIMEType)

	p, err := ParsePayload(outputs[0].Data)
	require.NoError(t, err)
	assert.Equal(t, "Hello", p.Text)
	assert.Equal(t, "deu", p.Language)
	assert.InDelta(t, 91.5, p.Confidence, 0.001)

	// The language option must reach the recognizer.
	require.NotEmpty(t, runner.calls)
	assert.Contains(t, runner.calls[0], "-l deu")
}

func TestConvert_RecognizerFailure(t *testing.T) {
	runner := &stubRunner{textErr: errors.New("exit status 1")}
	e := NewExtractorWithRunner(testConfig(), runner, nil)

	opts := types.DefaultOptions(types.RasterToText)
	_, err := e.Convert(context.Background(), "scan.png", []byte("img"), opts, func(int) {})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "tesseract")
}

func TestConvert_ConfidencePassFailureDegrades(t *testing.T) {
	runner := &stubRunner{text: "Still here", tsvErr: errors.New("exit status 1")}
	e := NewExtractorWithRunner(testConfig(), runner, nil)

	opts := types.Options{
		Type: types.RasterToText,
		OCR:  &types.OCROptions{Language: "eng", OutputFormat: types.OCRPlain, Confidence: true},
	}

	outputs, err := e.Convert(context.Background(), "scan.png", []byte("img"), opts, func(int) {})
	require.NoError(t, err)

	p, err := ParsePayload(outputs[0].Data)
	require.NoError(t, err)
	assert.Equal(t, "Still here", p.Text)
	assert.False(t, p.HasConfidence)
}

func TestPayloadRoundTrip(t *testing.T) {
	tests := []struct {
		name  string
		build func(Payload) []byte
	}{
		{
			name:  "plain",
			build: BuildPlain,
		},
		{
			name: "structured",
			build: func(p Payload) []byte {
				data, err := BuildStructured(p)
				if err != nil {
					t.Fatal(err)
				}
				return data
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := Payload{
				Source:        "page.png",
				Language:      "eng",
				Text:          "Hello",
				Confidence:    91.5,
				HasConfidence: true,
			}
			got, err := ParsePayload(tt.build(in))
			require.NoError(t, err)
			assert.Equal(t, "Hello", got.Text)
			require.True(t, got.HasConfidence)
			assert.InDelta(t, 91.5, got.Confidence, 0.05)
		})
	}
}

func TestPayloadRoundTrip_MultilineBody(t *testing.T) {
	in := Payload{Source: "a.png", Language: "eng", Text: "line one\n\nline two"}
	got, err := ParsePayload(BuildPlain(in))
	require.NoError(t, err)
	assert.Equal(t, in.Text, got.Text)
	assert.False(t, got.HasConfidence)
}

func TestParsePayload_Malformed(t *testing.T) {
	_, err := ParsePayload([]byte("no header, no separator"))
	assert.Error(t, err)

	_, err = ParsePayload([]byte("{broken json"))
	assert.Error(t, err)
}

func TestCollapseWhitespace(t *testing.T) {
	in := "word   \nnext\n\n\n\nafter gap\n\n"
	want := "word\nnext\n\nafter gap"
	assert.Equal(t, want, CollapseWhitespace(in))
}
