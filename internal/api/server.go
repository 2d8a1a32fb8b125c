package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"tradingjournal/internal/journal"
	"tradingjournal/internal/ports"
)

// Server exposes the journal over a small JSON API: the read-only dashboard
// surface plus the create-trade action. Every read handler performs one full
// refresh pass; the engine is request-driven and holds no state in between.
type Server struct {
	svc    *journal.Service
	logger ports.Logger
	srv    *http.Server
}

// New creates the API server.
func New(addr string, svc *journal.Service, logger ports.Logger) *Server {
	s := &Server{svc: svc, logger: logger}
	s.srv = &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s
}

// Handler builds the route table.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()

	r.Get("/healthz", s.handleHealth)
	r.Route("/api", func(r chi.Router) {
		r.Get("/portfolio", s.handlePortfolio)
		r.Get("/equity-curve", s.handleEquityCurve)
		r.Get("/quality", s.handleQuality)
		r.Get("/trades/open", s.handleOpenTrades)
		r.Get("/trades/closed", s.handleClosedTrades)
		r.Post("/trades", s.handleCreateTrade)
	})

	return r
}

// Run serves until the context is canceled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info(ctx, "API server listening", map[string]interface{}{"addr": s.srv.Addr})
		if err := s.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
			return
		}
		errCh <- nil
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.logger.Info(context.Background(), "Shutting down API server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.srv.Shutdown(shutdownCtx); err != nil {
		s.logger.Error(context.Background(), err, "API server shutdown error")
		return err
	}
	return nil
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("OK"))
}

func (s *Server) handlePortfolio(w http.ResponseWriter, r *http.Request) {
	snap := s.svc.Refresh(r.Context())
	s.writeJSON(w, http.StatusOK, newPortfolioResponse(snap))
}

func (s *Server) handleEquityCurve(w http.ResponseWriter, r *http.Request) {
	snap := s.svc.Refresh(r.Context())
	points := make([]equityPointView, 0, len(snap.Summary.EquityCurve))
	for _, p := range snap.Summary.EquityCurve {
		points = append(points, equityPointView{
			Time:       p.Time.Format(timeLayout),
			PnL:        p.PnL,
			Cumulative: p.Cumulative,
		})
	}
	s.writeJSON(w, http.StatusOK, points)
}

func (s *Server) handleQuality(w http.ResponseWriter, r *http.Request) {
	snap := s.svc.Refresh(r.Context())
	buckets := make(map[string]float64, len(snap.Summary.QualityPnL))
	for quality, mean := range snap.Summary.QualityPnL {
		buckets[string(quality)] = mean
	}
	s.writeJSON(w, http.StatusOK, buckets)
}

func (s *Server) handleOpenTrades(w http.ResponseWriter, r *http.Request) {
	snap := s.svc.Refresh(r.Context())
	views := make([]openTradeView, 0)
	for _, t := range snap.Open() {
		views = append(views, newOpenTradeView(t))
	}
	s.writeJSON(w, http.StatusOK, views)
}

func (s *Server) handleClosedTrades(w http.ResponseWriter, r *http.Request) {
	snap := s.svc.Refresh(r.Context())
	views := make([]closedTradeView, 0)
	for _, t := range snap.Closed() {
		views = append(views, newClosedTradeView(t))
	}
	s.writeJSON(w, http.StatusOK, views)
}

func (s *Server) handleCreateTrade(w http.ResponseWriter, r *http.Request) {
	input, err := decodeCreateTradeRequest(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	trade, err := s.svc.SaveTrade(r.Context(), input)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, newCreatedTradeView(trade))
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, ports.ErrInvalidRequest):
		status = http.StatusBadRequest
	case errors.Is(err, ports.ErrAppendFailed), errors.Is(err, ports.ErrLedgerUnavailable):
		status = http.StatusBadGateway
	}
	if status == http.StatusInternalServerError {
		s.logger.Error(r.Context(), err, "Request failed", map[string]interface{}{"path": r.URL.Path})
	}
	s.writeJSON(w, status, map[string]string{"error": err.Error()})
}
