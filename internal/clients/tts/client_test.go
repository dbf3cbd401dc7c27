package tts_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/KirkDiggler/dungeon-master/internal/clients/tts"
	"github.com/KirkDiggler/dungeon-master/internal/errors"
)

type ClientTestSuite struct {
	suite.Suite
	server  *httptest.Server
	handler http.HandlerFunc
	client  tts.Client
}

func TestClientSuite(t *testing.T) {
	suite.Run(t, new(ClientTestSuite))
}

func (s *ClientTestSuite) SetupTest() {
	s.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.handler(w, r)
	}))

	client, err := tts.New(&tts.Config{APIKey: "xi-test", BaseURL: s.server.URL})
	s.Require().NoError(err)
	s.client = client
}

func (s *ClientTestSuite) TearDownTest() {
	s.Require().NoError(s.client.Close())
	s.server.Close()
}

func (s *ClientTestSuite) TestSynthesizeDefaults() {
	var got map[string]interface{}
	s.handler = func(w http.ResponseWriter, r *http.Request) {
		s.Equal("/v1/text-to-speech/"+tts.DefaultVoiceID, r.URL.Path)
		s.Equal("xi-test", r.Header.Get("xi-api-key"))
		s.Equal("audio/mpeg", r.Header.Get("Accept"))
		s.Require().NoError(json.NewDecoder(r.Body).Decode(&got))

		w.Header().Set("Content-Type", "audio/mpeg")
		_, _ = w.Write([]byte("ID3audio"))
	}

	out, err := s.client.Synthesize(context.Background(), &tts.SynthesizeInput{
		Text: "**Beware** the gate. [DICE:d20:Perception Check]",
	})
	s.Require().NoError(err)
	s.Equal([]byte("ID3audio"), out.Audio)
	s.Equal("audio/mpeg", out.ContentType)

	s.Equal(tts.DefaultModelID, got["model_id"])
	s.Equal("Beware the gate.", got["text"])
	settings := got["voice_settings"].(map[string]interface{})
	s.Equal(0.3, settings["stability"])
	s.Equal(0.85, settings["similarity_boost"])
	s.Equal(0.8, settings["style"])
	s.Equal(true, settings["use_speaker_boost"])
}

func (s *ClientTestSuite) TestSynthesizeEnhancesAndHonorsVoice() {
	var got map[string]interface{}
	s.handler = func(w http.ResponseWriter, r *http.Request) {
		s.Equal("/v1/text-to-speech/custom", r.URL.Path)
		s.Require().NoError(json.NewDecoder(r.Body).Decode(&got))
		_, _ = w.Write([]byte("audio"))
	}

	_, err := s.client.Synthesize(context.Background(), &tts.SynthesizeInput{
		Text:    "Gold glitters. Run!",
		VoiceID: "custom",
	})
	s.Require().NoError(err)
	s.Equal(`<break time="200ms"/>Gold glitters... Run!`, got["text"])
}

func (s *ClientTestSuite) TestSynthesizeRejectsEmptyAfterCleaning() {
	s.handler = func(w http.ResponseWriter, _ *http.Request) {
		s.Fail("upstream should not be called")
	}

	_, err := s.client.Synthesize(context.Background(), &tts.SynthesizeInput{Text: "[DICE:d20:Initiative]"})
	s.True(errors.IsInvalidArgument(err))

	_, err = s.client.Synthesize(context.Background(), &tts.SynthesizeInput{Text: "  "})
	s.True(errors.IsInvalidArgument(err))
}

func (s *ClientTestSuite) TestSynthesizeUpstreamError() {
	s.handler = func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"detail": "invalid api key"}`))
	}

	_, err := s.client.Synthesize(context.Background(), &tts.SynthesizeInput{Text: "Hello", Plain: true})
	s.Require().Error(err)
	s.True(errors.IsProvider(err))
	s.Contains(err.Error(), "invalid api key")
}

func (s *ClientTestSuite) TestListVoicesFiltersAndSorts() {
	s.handler = func(w http.ResponseWriter, r *http.Request) {
		s.Equal("/v1/voices", r.URL.Path)
		_, _ = w.Write([]byte(`{"voices": [
			{"voice_id": "3", "name": "zed", "category": "generated"},
			{"voice_id": "1", "name": "Premade", "category": "premade"},
			{"voice_id": "2", "name": "Amber", "category": "cloned", "labels": {"description": "warm"}, "description": "ignored"}
		]}`))
	}

	out, err := s.client.ListVoices(context.Background())
	s.Require().NoError(err)
	s.Require().Len(out.Voices, 2)
	s.Equal("Amber", out.Voices[0].Name)
	s.Equal("warm", out.Voices[0].Description)
	s.Equal("zed", out.Voices[1].Name)
	s.NotNil(out.Voices[1].Labels)
	s.Equal(tts.RecommendedVoices, out.Recommended)
}

func (s *ClientTestSuite) TestListVoicesUpstreamError() {
	s.handler = func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}

	_, err := s.client.ListVoices(context.Background())
	s.True(errors.IsProvider(err))
}
