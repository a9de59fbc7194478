package slack

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"
	"time"

	"github.com/slack-go/slack"
	"github.com/slack-go/slack/slackevents"
)

type Server struct {
	commandHandler *CommandHandler
	mentionHandler *MentionHandler
	signingSecret  string
	healthChecks   map[string]func(ctx context.Context) error
	httpServer     *http.Server
}

type ServerOption func(*Server)

// WithHealthCheck makes /health fail while check returns an error
func WithHealthCheck(name string, check func(ctx context.Context) error) ServerOption {
	return func(s *Server) {
		s.healthChecks[name] = check
	}
}

// NewServer builds the HTTP surface; mentionHandler may be nil to ignore events
func NewServer(commandHandler *CommandHandler, mentionHandler *MentionHandler, signingSecret, port string, opts ...ServerOption) *Server {
	s := &Server{
		commandHandler: commandHandler,
		mentionHandler: mentionHandler,
		signingSecret:  signingSecret,
		healthChecks:   make(map[string]func(ctx context.Context) error),
	}
	for _, opt := range opts {
		opt(s)
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/slack/commands", s.handleCommands)
	mux.HandleFunc("/slack/events", s.handleEvents)
	mux.HandleFunc("/health", s.healthCheck)

	s.httpServer = &http.Server{
		Addr:              ":" + port,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s
}

// verify reads the body and checks the Slack signature, writing the error
// status itself when the request is rejected
func (s *Server) verify(w http.ResponseWriter, r *http.Request) ([]byte, bool) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		log.Printf("❌ Error reading body: %v", err)
		w.WriteHeader(http.StatusBadRequest)
		return nil, false
	}

	// Verify the request signature
	sv, err := slack.NewSecretsVerifier(r.Header, s.signingSecret)
	if err != nil {
		log.Printf("❌ Error creating secrets verifier: %v", err)
		w.WriteHeader(http.StatusBadRequest)
		return nil, false
	}

	if _, err := sv.Write(body); err != nil {
		log.Printf("❌ Error writing to verifier: %v", err)
		w.WriteHeader(http.StatusInternalServerError)
		return nil, false
	}

	if err := sv.Ensure(); err != nil {
		log.Printf("❌ Error verifying signature: %v", err)
		w.WriteHeader(http.StatusUnauthorized)
		return nil, false
	}

	return body, true
}

func (s *Server) handleCommands(w http.ResponseWriter, r *http.Request) {
	body, ok := s.verify(w, r)
	if !ok {
		return
	}

	r.Body = io.NopCloser(bytes.NewReader(body))
	cmd, err := slack.SlashCommandParse(r)
	if err != nil {
		log.Printf("❌ Error parsing slash command: %v", err)
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	reply, err := s.commandHandler.Handle(r.Context(), cmd.Text)
	if err != nil {
		log.Printf("❌ Error handling command %q: %v", cmd.Text, err)
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(&slack.Msg{
		ResponseType: slack.ResponseTypeEphemeral,
		Text:         reply,
	}); err != nil {
		log.Printf("❌ Error writing response: %v", err)
	}
}

func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	body, ok := s.verify(w, r)
	if !ok {
		return
	}

	// Parse the event
	eventsAPIEvent, err := slackevents.ParseEvent(json.RawMessage(body), slackevents.OptionNoVerifyToken())
	if err != nil {
		log.Printf("❌ Error parsing event: %v", err)
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	// Handle URL verification challenge
	if eventsAPIEvent.Type == slackevents.URLVerification {
		var challenge slackevents.ChallengeResponse
		if err := json.Unmarshal(body, &challenge); err != nil {
			log.Printf("❌ Error unmarshaling challenge: %v", err)
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		log.Printf("✅ Responding to URL verification challenge")
		w.Header().Set("Content-Type", "text/plain")
		w.Write([]byte(challenge.Challenge))
		return
	}

	if eventsAPIEvent.Type == slackevents.CallbackEvent {
		innerEvent := eventsAPIEvent.InnerEvent

		switch ev := innerEvent.Data.(type) {
		case *slackevents.AppMentionEvent:
			log.Printf("📣 App mention event received")
			if s.mentionHandler == nil {
				break
			}
			if err := s.mentionHandler.HandleAppMention(r.Context(), ev); err != nil {
				log.Printf("❌ Error handling mention: %v", err)
			}

		default:
			log.Printf("⚠️ Unsupported event type: %v", innerEvent.Type)
		}
	}

	w.WriteHeader(http.StatusOK)
}

// Start serves until Shutdown is called
func (s *Server) Start() error {
	log.Printf("🚀 Slack server starting on %s", s.httpServer.Addr)
	log.Printf("📡 Command endpoint: http://localhost%s/slack/commands", s.httpServer.Addr)
	log.Printf("📡 Event endpoint: http://localhost%s/slack/events", s.httpServer.Addr)
	log.Printf("🏥 Health check: http://localhost%s/health", s.httpServer.Addr)

	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// healthCheck reports OK, or 503 naming a dependency that failed
func (s *Server) healthCheck(w http.ResponseWriter, r *http.Request) {
	for name, check := range s.healthChecks {
		if err := check(r.Context()); err != nil {
			log.Printf("⚠️ Health check %s failed: %v", name, err)
			w.WriteHeader(http.StatusServiceUnavailable)
			w.Write([]byte(name + " unavailable"))
			return
		}
	}

	w.WriteHeader(http.StatusOK)
	w.Write([]byte("OK"))
}
