package a2a

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"

	contractx "github.com/tanpawarit/hr-agent-mesh/agent/contract"
)

const degradedReply = "Sorry, something went wrong"

// Server publishes an agent card and serves message envelopes for one
// Executor. Executor text is the only payload ever returned to a caller;
// there is no structured error channel besides the cancel rejection.
type Server struct {
	card     Card
	executor contractx.Executor
	router   chi.Router
}

func NewServer(card Card, executor contractx.Executor) *Server {
	s := &Server{
		card:     card,
		executor: executor,
	}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Get(CardPath, s.handleCard)
	r.Post("/", s.handleMessage)
	r.Post("/cancel", s.handleCancel)
	s.router = r

	return s
}

func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) ListenAndServe(addr string) error {
	log.Info().Str("agent", s.card.Name).Str("addr", addr).Msg("serving agent")
	return http.ListenAndServe(addr, s.router)
}

func (s *Server) handleCard(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.card)
}

func (s *Server) handleMessage(w http.ResponseWriter, r *http.Request) {
	var env SendRequest
	if err := json.NewDecoder(r.Body).Decode(&env); err != nil {
		writeJSON(w, http.StatusBadRequest, SendResponse{Error: "invalid request envelope"})
		return
	}

	var payloadText string
	for _, p := range env.Message.Content {
		if p.Kind == PartKindText {
			payloadText = p.Text
			break
		}
	}
	if payloadText == "" {
		writeJSON(w, http.StatusBadRequest, SendResponse{ID: env.ID, Error: "request carries no text part"})
		return
	}

	payload, err := DecodePayload(payloadText)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, SendResponse{ID: env.ID, Error: "request payload is not {user, prompt}"})
		return
	}

	log.Debug().Str("agent", s.card.Name).Str("user", payload.User).Msg("executing prompt")

	text, err := s.executor.Execute(r.Context(), payload.User, payload.Prompt)
	if err != nil {
		// Executors are required to absorb their own failures; if one leaks
		// anyway the caller still gets a well-formed degraded reply.
		log.Error().Err(err).Str("agent", s.card.Name).Msg("executor leaked an error")
		text = degradedReply
	}

	writeJSON(w, http.StatusOK, SendResponse{
		ID:     env.ID,
		Result: &Result{Parts: []Part{{Kind: PartKindText, Text: text}}},
	})
}

func (s *Server) handleCancel(w http.ResponseWriter, r *http.Request) {
	var env SendRequest
	_ = json.NewDecoder(r.Body).Decode(&env)

	err := s.executor.Cancel(r.Context(), env.ID)
	if err == nil {
		// A cancel that "succeeds" violates the protocol contract.
		err = contractx.ErrCancelUnsupported
	}
	if !errors.Is(err, contractx.ErrCancelUnsupported) {
		log.Error().Err(err).Str("agent", s.card.Name).Msg("unexpected cancel failure")
	}
	writeJSON(w, http.StatusNotImplemented, SendResponse{ID: env.ID, Error: contractx.ErrCancelUnsupported.Error()})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Error().Err(err).Msg("write response")
	}
}
