package server

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"folio/internal/domain"
	"folio/internal/logger"
	"folio/internal/stream"
)

// User-facing error bodies.
const (
	msgInvalidMessage   = "invalid message: expected a JSON body with a non-empty string \"message\""
	msgNotConfigured    = "generation provider credential is not configured"
	msgStoreUnavailable = "vector store unavailable: run `folio build` to generate embeddings"
	msgInternal         = "failed to process the request"
	msgStreamFailed     = "the answer stream was interrupted"
)

const maxBodyBytes = 64 << 10

// Answerer opens an answer stream for a question.
type Answerer interface {
	Answer(ctx context.Context, question string) (domain.TokenStream, error)
}

// Config wires a Server.
type Config struct {
	Answerer Answerer
	Framing  stream.Framing
	Logger   *logger.Logger
}

// Server exposes the chat endpoint over HTTP.
type Server struct {
	answerer Answerer
	framing  stream.Framing
	log      *logger.Logger
	router   *mux.Router
}

func New(cfg Config) (*Server, error) {
	framing, err := stream.ParseFraming(string(cfg.Framing))
	if err != nil {
		return nil, err
	}
	if cfg.Logger == nil {
		cfg.Logger = logger.NewNop()
	}
	s := &Server{answerer: cfg.Answerer, framing: framing, log: cfg.Logger}

	r := mux.NewRouter()
	r.Use(requestIDMiddleware, accessLogMiddleware(s.log), recoverMiddleware(s.log, s.framing))
	r.HandleFunc("/healthz", handleHealthz).Methods(http.MethodGet)
	r.HandleFunc("/api/rag", s.handleRAG).Methods(http.MethodPost)
	s.router = r
	return s, nil
}

func (s *Server) Handler() http.Handler { return s.router }

// Run serves on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		s.log.Info("listening", "addr", addr, "framing", s.framing)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		s.log.Info("shutting down")
		return srv.Shutdown(shutdownCtx)
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

func handleHealthz(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

type ragRequest struct {
	Message json.RawMessage `json:"message"`
}

func (s *Server) handleRAG(w http.ResponseWriter, r *http.Request) {
	var req ragRequest
	var message string
	if err := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes)).Decode(&req); err != nil ||
		json.Unmarshal(req.Message, &message) != nil {
		writeError(w, http.StatusBadRequest, msgInvalidMessage)
		return
	}

	ctx := r.Context()
	log := s.log.With("request_id", requestIDFromContext(ctx))

	tokens, err := s.answerer.Answer(ctx, message)
	if err != nil {
		s.writeAnswerError(w, log, err)
		return
	}
	defer tokens.Close()

	// Pull the first token before committing to a 200 so providers that
	// report errors lazily still produce an error status.
	first, err := tokens.Recv()
	if err != nil && !errors.Is(err, io.EOF) {
		s.writeAnswerError(w, log, err)
		return
	}

	w.Header().Set("Content-Type", s.framing.ContentType())
	w.Header().Set("Cache-Control", "no-cache")
	if s.framing == stream.DataStream {
		w.Header().Set("X-Vercel-AI-Data-Stream", "v1")
	}
	w.WriteHeader(http.StatusOK)
	enc, err := stream.NewEncoder(s.framing, w)
	if err != nil {
		log.Error("create stream encoder", "error", err)
		return
	}

	for err == nil {
		if first != "" {
			if werr := enc.Delta(first); werr != nil {
				log.Warn("client went away", "error", werr)
				return
			}
		}
		first, err = tokens.Recv()
	}
	if errors.Is(err, io.EOF) {
		_ = enc.Finish()
		return
	}
	log.Error("answer stream failed", "error", err)
	_ = enc.Error(msgStreamFailed)
}

func (s *Server) writeAnswerError(w http.ResponseWriter, log *logger.Logger, err error) {
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		writeError(w, http.StatusBadRequest, msgInvalidMessage)
	case errors.Is(err, domain.ErrConfiguration):
		log.Error("query service not configured", "error", err)
		writeError(w, http.StatusInternalServerError, msgNotConfigured)
	case errors.Is(err, domain.ErrStoreUnavailable):
		log.Error("vector store unavailable", "error", err)
		writeError(w, http.StatusInternalServerError, msgStoreUnavailable)
	default:
		log.Error("answer failed", "error", err)
		writeError(w, http.StatusInternalServerError, msgInternal)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(status)
	_, _ = io.WriteString(w, msg)
}
