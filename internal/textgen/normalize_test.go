package textgen_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AmeyaMprojects/pilot-brief/internal/textgen"
)

func TestNormalize_KnownShapes(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{
			name: "content parts",
			body: `{"candidates":[{"content":{"role":"model","parts":[{"text":"VFR along the route"}]},"finishReason":"STOP"}]}`,
			want: "VFR along the route",
		},
		{
			name: "content text",
			body: `{"candidates":[{"content":{"text":"Marine layer at KSFO"}}]}`,
			want: "Marine layer at KSFO",
		},
		{
			name: "candidate text",
			body: `{"candidates":[{"text":"Gusty winds at KLAX"}]}`,
			want: "Gusty winds at KLAX",
		},
		{
			name: "top-level text",
			body: `{"text":"Clear skies"}`,
			want: "Clear skies",
		},
		{
			name: "message",
			body: `{"message":"Summary unavailable for KSJC"}`,
			want: "Summary unavailable for KSJC",
		},
		{
			name: "array response",
			body: `[{"candidates":[{"content":{"parts":[{"text":"first"}]}}]},{"text":"second"}]`,
			want: "first",
		},
		{
			name: "empty text passes through",
			body: `{"candidates":[{"content":{"parts":[{"text":""}]}}]}`,
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := textgen.Normalize([]byte(tt.body))
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNormalize_ShapePriority(t *testing.T) {
	body := `{"message":"ignored","candidates":[{"text":"also ignored","content":{"text":"second","parts":[{"text":"first"}]}}]}`

	got, err := textgen.Normalize([]byte(body))
	require.NoError(t, err)
	assert.Equal(t, "first", got)
}

func TestNormalize_EmptyPartsByFinishReason(t *testing.T) {
	tests := []struct {
		finish string
		kind   textgen.Kind
		target error
	}{
		{finish: "SAFETY", kind: textgen.KindMalformedResponse, target: textgen.ErrMalformedResponse},
		{finish: "MAX_TOKENS", kind: textgen.KindTokenLimitExceeded, target: textgen.ErrTokenLimitExceeded},
		{finish: "", kind: textgen.KindMalformedResponse, target: textgen.ErrMalformedResponse},
	}

	for _, tt := range tests {
		t.Run(tt.finish, func(t *testing.T) {
			body := `{"candidates":[{"content":{"role":"model","parts":[]},"finishReason":"` + tt.finish + `"}]}`

			_, err := textgen.Normalize([]byte(body))
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.target)
			assert.Equal(t, tt.kind, textgen.KindOf(err))
		})
	}
}

func TestNormalize_MaxTokensWithoutContent(t *testing.T) {
	_, err := textgen.Normalize([]byte(`{"candidates":[{"finishReason":"MAX_TOKENS"}]}`))
	assert.ErrorIs(t, err, textgen.ErrTokenLimitExceeded)
}

func TestNormalizeResponse_PartialTextAtTokenLimit(t *testing.T) {
	body := []byte(`{"candidates":[{"content":{"role":"model","parts":[{"text":"1. Overall flight conditions: VFR and en route the"}]},"finishReason":"MAX_TOKENS"}]}`)

	res, err := textgen.NormalizeResponse(body)
	require.NoError(t, err)
	assert.True(t, res.Truncated())
	assert.Equal(t, textgen.FinishReasonMaxTokens, res.FinishReason)
	assert.Equal(t, "1. Overall flight conditions: VFR and en route the", res.Text)

	text, err := textgen.Normalize(body)
	require.NoError(t, err)
	assert.Equal(t, res.Text, text)
}

func TestNormalizeResponse_FinishedText(t *testing.T) {
	res, err := textgen.NormalizeResponse([]byte(`{"candidates":[{"content":{"parts":[{"text":"done"}]},"finishReason":"STOP"}]}`))
	require.NoError(t, err)
	assert.False(t, res.Truncated())
	assert.Equal(t, "done", res.Text)
}

func TestNormalize_LastResortScan(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{name: "output field", body: `{"result":{"output":"scanned"}}`, want: "scanned"},
		{name: "generated_text in array", body: `{"results":[{"meta":1},{"generated_text":"from array"}]}`, want: "from array"},
		{name: "sorted keys", body: `{"z":{"text":"later"},"a":{"content":"earlier"}}`, want: "earlier"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := textgen.Normalize([]byte(tt.body))
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNormalize_Malformed(t *testing.T) {
	bodies := []string{
		`not json`,
		`[]`,
		`"just a string"`,
		`{"candidates":[]}`,
		`{"promptFeedback":{"blockReason":"SAFETY"}}`,
	}

	for _, body := range bodies {
		_, err := textgen.Normalize([]byte(body))
		assert.ErrorIs(t, err, textgen.ErrMalformedResponse, body)
	}
}

func TestNormalizeValue(t *testing.T) {
	got, err := textgen.NormalizeValue(map[string]any{
		"candidates": []any{
			map[string]any{"content": map[string]any{"parts": []any{map[string]any{"text": "decoded"}}}},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, "decoded", got)

	_, err = textgen.NormalizeValue(nil)
	assert.ErrorIs(t, err, textgen.ErrMalformedResponse)
}
