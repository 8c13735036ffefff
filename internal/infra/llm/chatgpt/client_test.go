package chatgpt

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/jarcoal/httpmock"
	"github.com/stretchr/testify/require"
)

func TestCreateChatCompletion(t *testing.T) {
	client, err := NewClient("sk-test", "https://llm.example.com/v1/", time.Second)
	require.NoError(t, err)
	httpmock.ActivateNonDefault(client.httpClient)
	t.Cleanup(httpmock.DeactivateAndReset)

	httpmock.RegisterResponder(http.MethodPost, "https://llm.example.com/v1/chat/completions",
		func(req *http.Request) (*http.Response, error) {
			require.Equal(t, "Bearer sk-test", req.Header.Get("Authorization"))
			var body ChatCompletionRequest
			require.NoError(t, json.NewDecoder(req.Body).Decode(&body))
			require.Equal(t, "gpt-4o-mini", body.Model)
			require.Equal(t, "json_object", body.ResponseFormat.Type)
			return httpmock.NewJsonResponse(http.StatusOK, map[string]any{
				"choices": []map[string]any{{"message": map[string]string{"role": "assistant", "content": "{}"}}},
				"usage":   map[string]int{"prompt_tokens": 12, "completion_tokens": 3, "total_tokens": 15},
			})
		})

	resp, err := client.CreateChatCompletion(context.Background(), ChatCompletionRequest{
		Model:          "gpt-4o-mini",
		Messages:       []Message{{Role: "user", Content: "hi"}},
		ResponseFormat: &ResponseFormat{Type: "json_object"},
	})
	require.NoError(t, err)
	require.Len(t, resp.Choices, 1)
	require.Equal(t, "{}", resp.Choices[0].Message.Content)
	require.Equal(t, 15, resp.Usage.TokenUsage().TotalTokens)
	require.False(t, resp.Usage.TokenUsage().IsZero())
}

func TestCreateChatCompletionStatusError(t *testing.T) {
	client, err := NewClient("sk-test", "", time.Second)
	require.NoError(t, err)
	httpmock.ActivateNonDefault(client.httpClient)
	t.Cleanup(httpmock.DeactivateAndReset)

	httpmock.RegisterResponder(http.MethodPost, defaultBaseURL+"/chat/completions",
		httpmock.NewStringResponder(http.StatusTooManyRequests, "slow down"))

	_, err = client.CreateChatCompletion(context.Background(), ChatCompletionRequest{Model: "m"})
	require.ErrorContains(t, err, "status=429")
}

func TestNewClientRequiresKey(t *testing.T) {
	_, err := NewClient(" ", "", 0)
	require.Error(t, err)
}
