package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"tradingjournal/internal/domain"
	"tradingjournal/internal/journal"
	"tradingjournal/internal/ports"
)

const timeLayout = "2006-01-02 15:04:05"

// portfolioResponse is the live dashboard header: totals, win rate and the
// realized/unrealized PnL split.
type portfolioResponse struct {
	TakenAt      string  `json:"taken_at"`
	TotalTrades  int     `json:"total_trades"`
	OpenTrades   int     `json:"open_trades"`
	ClosedTrades int     `json:"closed_trades"`
	WinRate      float64 `json:"win_rate"`
	ClosedPnL    float64 `json:"closed_pnl"`
	OpenPnL      float64 `json:"open_pnl"`
	Notice       string  `json:"notice,omitempty"`
}

func newPortfolioResponse(snap *journal.Snapshot) portfolioResponse {
	resp := portfolioResponse{
		TakenAt:      snap.TakenAt.Format(timeLayout),
		TotalTrades:  snap.Summary.TotalTrades,
		OpenTrades:   snap.Summary.OpenTrades,
		ClosedTrades: snap.Summary.ClosedTrades,
		WinRate:      snap.Summary.WinRate,
		ClosedPnL:    snap.Summary.ClosedPnL,
		OpenPnL:      snap.Summary.OpenPnL,
	}
	if snap.LedgerDown {
		resp.Notice = "ledger unavailable, showing empty journal"
	}
	return resp
}

type equityPointView struct {
	Time       string  `json:"time"`
	PnL        float64 `json:"pnl"`
	Cumulative float64 `json:"cumulative_pnl"`
}

// openTradeView carries the open-trades table columns.
type openTradeView struct {
	Timestamp    string   `json:"timestamp"`
	Pair         string   `json:"pair"`
	Direction    string   `json:"direction"`
	EntryPrice   *float64 `json:"entry_price"`
	StopLoss     *float64 `json:"stop_loss,omitempty"`
	TakeProfit   *float64 `json:"take_profit,omitempty"`
	PositionSize *float64 `json:"position_size"`
	CurrentPrice *float64 `json:"current_price,omitempty"`
	CurrentPnL   *float64 `json:"current_pnl,omitempty"`
	Issues       []string `json:"issues,omitempty"`
}

func newOpenTradeView(t *journal.ValuedTrade) openTradeView {
	return openTradeView{
		Timestamp:    formatTimestamp(t.Trade),
		Pair:         t.Pair,
		Direction:    string(t.Direction),
		EntryPrice:   fieldPtr(t.EntryPrice),
		StopLoss:     fieldPtr(t.StopLoss),
		TakeProfit:   fieldPtr(t.TakeProfit),
		PositionSize: fieldPtr(t.PositionSize),
		CurrentPrice: fieldPtr(t.CurrentPrice),
		CurrentPnL:   fieldPtr(t.CurrentPnL),
		Issues:       issueStrings(t.Issues),
	}
}

// closedTradeView carries the closed-trades table columns.
type closedTradeView struct {
	Timestamp    string   `json:"timestamp"`
	Pair         string   `json:"pair"`
	Direction    string   `json:"direction"`
	EntryPrice   *float64 `json:"entry_price"`
	ExitPrice    *float64 `json:"exit_price"`
	PositionSize *float64 `json:"position_size"`
	PnL          *float64 `json:"pnl"`
	PnLPercent   *float64 `json:"pnl_percent,omitempty"`
	Issues       []string `json:"issues,omitempty"`
}

func newClosedTradeView(t *journal.ValuedTrade) closedTradeView {
	return closedTradeView{
		Timestamp:    formatTimestamp(t.Trade),
		Pair:         t.Pair,
		Direction:    string(t.Direction),
		EntryPrice:   fieldPtr(t.EntryPrice),
		ExitPrice:    fieldPtr(t.ExitPrice),
		PositionSize: fieldPtr(t.PositionSize),
		PnL:          fieldPtr(t.PnL),
		PnLPercent:   fieldPtr(t.PnLPercent),
		Issues:       issueStrings(t.Issues),
	}
}

// createdTradeView echoes the entry-side fields of a saved trade, including
// the derived risk/reward ratio.
type createdTradeView struct {
	Timestamp       string   `json:"timestamp"`
	Pair            string   `json:"pair"`
	Direction       string   `json:"direction"`
	EntryPrice      *float64 `json:"entry_price"`
	StopLoss        *float64 `json:"stop_loss,omitempty"`
	TakeProfit      *float64 `json:"take_profit,omitempty"`
	PositionSize    *float64 `json:"position_size"`
	Leverage        *float64 `json:"leverage"`
	RiskRewardRatio *float64 `json:"risk_reward_ratio"`
	SetupQuality    string   `json:"setup_quality"`
}

func newCreatedTradeView(t *domain.Trade) createdTradeView {
	return createdTradeView{
		Timestamp:       t.Timestamp.Format(timeLayout),
		Pair:            t.Pair,
		Direction:       string(t.Direction),
		EntryPrice:      fieldPtr(t.EntryPrice),
		StopLoss:        fieldPtr(t.StopLoss),
		TakeProfit:      fieldPtr(t.TakeProfit),
		PositionSize:    fieldPtr(t.PositionSize),
		Leverage:        fieldPtr(t.Leverage),
		RiskRewardRatio: fieldPtr(t.RiskRewardRatio),
		SetupQuality:    string(t.SetupQuality),
	}
}

// createTradeRequest is the JSON body of the create-trade action.
type createTradeRequest struct {
	Timestamp       string  `json:"timestamp"`
	Pair            string  `json:"pair"`
	Direction       string  `json:"direction"`
	EntryPrice      float64 `json:"entry_price"`
	StopLoss        float64 `json:"stop_loss"`
	TakeProfit      float64 `json:"take_profit"`
	PositionSize    float64 `json:"position_size"`
	Leverage        int     `json:"leverage"`
	SetupQuality    string  `json:"setup_quality"`
	EmotionPreTrade string  `json:"emotion_pre_trade"`
	Notes           string  `json:"notes"`
}

func decodeCreateTradeRequest(r *http.Request) (journal.NewTradeInput, error) {
	var req createTradeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return journal.NewTradeInput{}, fmt.Errorf("%w: invalid JSON body: %v", ports.ErrInvalidRequest, err)
	}

	var ts time.Time
	if raw := strings.TrimSpace(req.Timestamp); raw != "" {
		var err error
		ts, err = time.Parse(timeLayout, raw)
		if err != nil {
			ts, err = time.Parse(time.RFC3339, raw)
		}
		if err != nil {
			return journal.NewTradeInput{}, fmt.Errorf("%w: unparseable timestamp %q", ports.ErrInvalidRequest, req.Timestamp)
		}
	}

	return journal.NewTradeInput{
		Timestamp:       ts,
		Pair:            req.Pair,
		Direction:       domain.Direction(strings.ToUpper(strings.TrimSpace(req.Direction))),
		EntryPrice:      req.EntryPrice,
		StopLoss:        req.StopLoss,
		TakeProfit:      req.TakeProfit,
		PositionSize:    req.PositionSize,
		Leverage:        req.Leverage,
		SetupQuality:    domain.SetupQuality(strings.ToUpper(strings.TrimSpace(req.SetupQuality))),
		EmotionPreTrade: req.EmotionPreTrade,
		Notes:           req.Notes,
	}, nil
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		s.logger.Error(context.Background(), err, "Failed to encode response")
	}
}

func fieldPtr(f domain.Field) *float64 {
	if v, ok := f.Value(); ok {
		return &v
	}
	return nil
}

func issueStrings(issues []domain.Issue) []string {
	if len(issues) == 0 {
		return nil
	}
	out := make([]string, 0, len(issues))
	for _, i := range issues {
		out = append(out, string(i))
	}
	return out
}

func formatTimestamp(t *domain.Trade) string {
	if t.Timestamp.IsZero() {
		return ""
	}
	return t.Timestamp.Format(timeLayout)
}
