package llm_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/KirkDiggler/dungeon-master/internal/clients/llm"
	"github.com/KirkDiggler/dungeon-master/internal/errors"
)

type ClientTestSuite struct {
	suite.Suite
	server  *httptest.Server
	handler http.HandlerFunc
	client  llm.Client
}

func TestClientSuite(t *testing.T) {
	suite.Run(t, new(ClientTestSuite))
}

func (s *ClientTestSuite) SetupTest() {
	s.handler = nil
	s.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.handler(w, r)
	}))

	client, err := llm.New(&llm.Config{
		APIKey:   "test-key",
		BaseURL:  s.server.URL + "/",
		SiteURL:  "https://dm.example",
		SiteName: "DM Test",
	})
	s.Require().NoError(err)
	s.client = client
}

func (s *ClientTestSuite) TearDownTest() {
	s.server.Close()
}

func (s *ClientTestSuite) TestCompleteSendsOpenRouterRequest() {
	var got map[string]interface{}
	s.handler = func(w http.ResponseWriter, r *http.Request) {
		s.Equal("/chat/completions", r.URL.Path)
		s.Equal("Bearer test-key", r.Header.Get("Authorization"))
		s.Equal("https://dm.example", r.Header.Get("HTTP-Referer"))
		s.Equal("DM Test", r.Header.Get("X-Title"))
		s.Require().NoError(json.NewDecoder(r.Body).Decode(&got))

		_, _ = w.Write([]byte(`{
			"id": "gen-1",
			"model": "openrouter/horizon-beta",
			"choices": [{"index": 0, "message": {"role": "assistant", "content": "The door creaks."}, "finish_reason": "stop"}],
			"usage": {"prompt_tokens": 10, "completion_tokens": 4, "total_tokens": 14}
		}`))
	}

	out, err := s.client.Complete(context.Background(), &llm.CompleteInput{
		Messages:    []llm.Message{{Role: llm.RoleSystem, Content: "You are a DM"}, {Role: llm.RoleUser, Content: "I open the door"}},
		Temperature: 0.8,
		MaxTokens:   2000,
	})
	s.Require().NoError(err)
	s.Equal("The door creaks.", out.Content)
	s.Equal("stop", out.FinishReason)
	s.Equal(14, out.Usage.TotalTokens)

	s.Equal(llm.DefaultModel, got["model"])
	s.Equal(0.8, got["temperature"])
	s.Equal(float64(2000), got["max_tokens"])
	s.Equal(false, got["stream"])
	s.Len(got["messages"], 2)
	s.NotContains(got, "response_format")
}

func (s *ClientTestSuite) TestResponseFormatForwarded() {
	s.handler = func(w http.ResponseWriter, r *http.Request) {
		var got map[string]interface{}
		s.Require().NoError(json.NewDecoder(r.Body).Decode(&got))
		s.Equal(map[string]interface{}{"type": "json_object"}, got["response_format"])
		_, _ = w.Write([]byte(`{"choices": [{"message": {"role": "assistant", "content": "{}"}}]}`))
	}

	out, err := s.client.Complete(context.Background(), &llm.CompleteInput{
		Model:          "other/model",
		Messages:       []llm.Message{{Role: llm.RoleUser, Content: "json"}},
		ResponseFormat: &llm.ResponseFormat{Type: "json_object"},
	})
	s.Require().NoError(err)
	s.Equal("other/model", out.Model)
}

func (s *ClientTestSuite) TestNonSuccessStatusIsProviderError() {
	s.handler = func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte(`upstream down`))
	}

	_, err := s.client.Complete(context.Background(), &llm.CompleteInput{
		Messages: []llm.Message{{Role: llm.RoleUser, Content: "hi"}},
	})
	s.Require().Error(err)
	s.True(errors.IsProvider(err))
	s.True(errors.IsUnavailable(err))
	s.Contains(err.Error(), "502")
}

func (s *ClientTestSuite) TestRateLimitKeepsCode() {
	s.handler = func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}

	_, err := s.client.Complete(context.Background(), &llm.CompleteInput{
		Messages: []llm.Message{{Role: llm.RoleUser, Content: "hi"}},
	})
	s.True(errors.IsProvider(err))
	s.Equal(errors.CodeResourceExhausted, errors.GetCode(err))
}

func (s *ClientTestSuite) TestMalformedBodyIsProviderError() {
	s.handler = func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`<html>`))
	}

	_, err := s.client.Complete(context.Background(), &llm.CompleteInput{
		Messages: []llm.Message{{Role: llm.RoleUser, Content: "hi"}},
	})
	s.True(errors.IsProvider(err))
}

func (s *ClientTestSuite) TestEmbeddedAPIErrorAndEmptyChoices() {
	s.handler = func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"error": {"message": "model overloaded", "type": "server_error"}}`))
	}
	_, err := s.client.Complete(context.Background(), &llm.CompleteInput{
		Messages: []llm.Message{{Role: llm.RoleUser, Content: "hi"}},
	})
	s.True(errors.IsProvider(err))
	s.Contains(err.Error(), "model overloaded")

	s.handler = func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"choices": []}`))
	}
	_, err = s.client.Complete(context.Background(), &llm.CompleteInput{
		Messages: []llm.Message{{Role: llm.RoleUser, Content: "hi"}},
	})
	s.True(errors.IsProvider(err))
}

func (s *ClientTestSuite) TestNoMessages() {
	_, err := s.client.Complete(context.Background(), &llm.CompleteInput{})
	s.True(errors.IsInvalidArgument(err))
}

func TestNew_RequiresAPIKey(t *testing.T) {
	_, err := llm.New(&llm.Config{})
	if !errors.IsInvalidArgument(err) {
		t.Fatalf("expected invalid argument, got %v", err)
	}
}
