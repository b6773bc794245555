package keypad

import (
	"go-chi-calculator/internal/calculator"
	"go-chi-calculator/internal/session"
)

// KeysRequest is the JSON body for POST /calculator/sessions/{id}/keys.
// Exactly one of Keys or Input is set.
type KeysRequest struct {
	Keys  []string `json:"keys,omitempty"`
	Input string   `json:"input,omitempty"`
}

// EvaluateRequest is the JSON body for POST /calculator/evaluate.
type EvaluateRequest struct {
	Input string `json:"input"`
}

// SessionResponse is returned when a session is created.
type SessionResponse struct {
	SessionID string `json:"session_id"`
	Display   string `json:"display"`
}

// StateResponse describes a session without changing it.
type StateResponse struct {
	SessionID          string  `json:"session_id"`
	Display            string  `json:"display"`
	PendingOperator    string  `json:"pending_operator,omitempty"`
	PendingOperand     float64 `json:"pending_operand"`
	AwaitingFreshEntry bool    `json:"awaiting_fresh_entry"`
}

// StepResponse records one applied key.
type StepResponse struct {
	Key            string `json:"key"`
	Display        string `json:"display"`
	DivisionByZero bool   `json:"division_by_zero"`
	OutOfRange     bool   `json:"out_of_range,omitempty"`
}

// PressResponse is returned for key presses and evaluations. SessionID is
// empty for /calculator/evaluate.
type PressResponse struct {
	SessionID string         `json:"session_id,omitempty"`
	Display   string         `json:"display"`
	Steps     []StepResponse `json:"steps"`
}

func newStateResponse(id string, st calculator.State) StateResponse {
	resp := StateResponse{
		SessionID:          id,
		Display:            fit(st.Display),
		AwaitingFreshEntry: st.AwaitingFreshEntry,
	}
	if st.Pending.Active() {
		resp.PendingOperator = st.Pending.Operator.Symbol()
		resp.PendingOperand = st.Pending.Operand
	}
	return resp
}

func newPressResponse(id string, res session.Result) PressResponse {
	steps := make([]StepResponse, 0, len(res.Steps))
	for _, s := range res.Steps {
		steps = append(steps, StepResponse{
			Key:            string(s.Key),
			Display:        fit(s.Display),
			DivisionByZero: s.DivisionByZero,
			OutOfRange:     s.OutOfRange,
		})
	}
	return PressResponse{SessionID: id, Display: fit(res.Display), Steps: steps}
}

// fit narrows a display for clients; the session keeps the full text.
func fit(display string) string {
	return calculator.FitDisplay(display, calculator.DisplayWidth)
}
