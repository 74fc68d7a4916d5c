package cloud

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/solutions/interview-coach/internal/common/utils"
	"github.com/solutions/interview-coach/internal/protodef/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAssistantReplyPlainJSON(t *testing.T) {
	reply := ParseAssistantReply(`{"text_response": "Hello there!", "voice_response": "Hello!", "end": false}`)
	assert.Equal(t, "Hello there!", reply.TextResponse)
	assert.Equal(t, "Hello!", reply.VoiceResponse)
	assert.False(t, reply.End)
}

func TestParseAssistantReplyFencedJSON(t *testing.T) {
	content := "```json\n{\"text_response\": \"Nice to meet you.\", \"end\": true}\n```"
	reply := ParseAssistantReply(content)
	assert.Equal(t, "Nice to meet you.", reply.TextResponse)
	// voice_response falls back to text_response
	assert.Equal(t, "Nice to meet you.", reply.VoiceResponse)
	assert.True(t, reply.End)
}

func TestParseAssistantReplyBareFence(t *testing.T) {
	content := "```\n{\"text_response\": \"Fenced without language tag.\"}\n```"
	reply := ParseAssistantReply(content)
	assert.Equal(t, "Fenced without language tag.", reply.TextResponse)
}

func TestParseAssistantReplyEmbeddedJSON(t *testing.T) {
	content := `Sure, here is the reply: {"text_response": "Embedded.", "end": false} hope that helps`
	reply := ParseAssistantReply(content)
	assert.Equal(t, "Embedded.", reply.TextResponse)
}

func TestParseAssistantReplyPlainText(t *testing.T) {
	reply := ParseAssistantReply("  Just a plain sentence.  ")
	assert.Equal(t, "Just a plain sentence.", reply.TextResponse)
	assert.Equal(t, "Just a plain sentence.", reply.VoiceResponse)
	assert.False(t, reply.End)
}

func newCompletionServer(t *testing.T, handler http.HandlerFunc) (*httptest.Server, *LLMService) {
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	svc := NewLLMService(utils.LLMConfig{
		BaseURL:    server.URL,
		Model:      "test-model",
		APIKeys:    []string{"k1", "k2"},
		MaxRetries: 3,
	}, nil)
	svc.pause = 0
	return server, svc
}

func completionBody(content string) string {
	payload := map[string]interface{}{
		"choices": []map[string]interface{}{
			{"message": map[string]interface{}{"content": content}},
		},
	}
	b, _ := json.Marshal(payload)
	return string(b)
}

func TestCompleteSuccess(t *testing.T) {
	var gotAuth string
	_, svc := newCompletionServer(t, func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		var req completionRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.Equal(t, "test-model", req.Model)
		require.Equal(t, "system", req.Messages[0].Role)
		fmt.Fprint(w, completionBody(`{"text_response": "Welcome!", "end": false}`))
	})
	reply, err := svc.Complete(nil, "prompt", []model.MessageDo{{Role: "user", Content: "hi"}})
	require.NoError(t, err)
	assert.Equal(t, "Welcome!", reply.TextResponse)
	assert.Equal(t, "Bearer k1", gotAuth)
}

func TestCompleteRetriesOn429(t *testing.T) {
	var calls int32
	_, svc := newCompletionServer(t, func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) < 3 {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		fmt.Fprint(w, completionBody(`{"text_response": "Recovered."}`))
	})
	reply, err := svc.Complete(nil, "prompt", nil)
	require.NoError(t, err)
	assert.Equal(t, "Recovered.", reply.TextResponse)
	assert.EqualValues(t, 3, atomic.LoadInt32(&calls))
}

func TestCompleteGivesUpAfterMaxRetries(t *testing.T) {
	var calls int32
	_, svc := newCompletionServer(t, func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusBadGateway)
	})
	_, err := svc.Complete(nil, "prompt", nil)
	assert.Error(t, err)
	assert.EqualValues(t, 3, atomic.LoadInt32(&calls))
}

func TestCompleteNonRetryableStatus(t *testing.T) {
	var calls int32
	_, svc := newCompletionServer(t, func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusUnauthorized)
	})
	_, err := svc.Complete(nil, "prompt", nil)
	assert.Error(t, err)
	assert.EqualValues(t, 1, atomic.LoadInt32(&calls))
}

func TestCompleteNoKey(t *testing.T) {
	svc := NewLLMService(utils.LLMConfig{BaseURL: "http://localhost:0"}, nil)
	_, err := svc.Complete(nil, "prompt", nil)
	assert.Equal(t, ErrNoLLMKey, err)
}

func TestCompleteRotatesKeys(t *testing.T) {
	var keys []string
	_, svc := newCompletionServer(t, func(w http.ResponseWriter, r *http.Request) {
		keys = append(keys, r.Header.Get("Authorization"))
		w.WriteHeader(http.StatusServiceUnavailable)
	})
	_, err := svc.Complete(nil, "prompt", nil)
	assert.Error(t, err)
	assert.Equal(t, []string{"Bearer k1", "Bearer k2", "Bearer k1"}, keys)
}
