// Package policy decides which conversation actions a caller may perform.
// Decisions are evaluated against a rego policy so the ownership rules live
// in one auditable place, shared by message sends and hand-off transitions.
package policy

import (
	"context"
	"fmt"

	"github.com/open-policy-agent/opa/v1/rego"
)

// Action names accepted by the policy.
const (
	ActionSend       = "send"
	ActionTakeOver   = "take_over"
	ActionReturnToAI = "return_to_ai"
	ActionTyping     = "typing"
)

// Input describes a conversation action for policy evaluation.
type Input struct {
	Action        string `json:"action"`
	Owner         string `json:"owner"`
	OwnerSellerID string `json:"owner_seller_id"`
	SellerID      string `json:"seller_id"`
}

// Engine is the OPA policy engine.
type Engine struct {
	query rego.PreparedEvalQuery
}

// NewEngine creates a new policy engine with the given policy content.
func NewEngine(ctx context.Context, policyContent string) (*Engine, error) {
	r := rego.New(
		rego.Query("data.conversation.decision"),
		rego.Module("conversation.rego", policyContent),
	)

	query, err := r.PrepareForEval(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare rego: %w", err)
	}

	return &Engine{query: query}, nil
}

// Evaluate returns the policy decision ("allow" or "deny") for the input.
func (e *Engine) Evaluate(ctx context.Context, input Input) (string, error) {
	results, err := e.query.Eval(ctx, rego.EvalInput(input))
	if err != nil {
		return "", fmt.Errorf("failed to evaluate policy: %w", err)
	}

	if len(results) == 0 || len(results[0].Expressions) == 0 {
		// The policy defines a default, so an empty result means the query
		// itself is wrong. Fail closed.
		return "deny", nil
	}

	if s, ok := results[0].Expressions[0].Value.(string); ok {
		return s, nil
	}
	return "deny", nil
}

// Allow reports whether the input action is permitted.
func (e *Engine) Allow(ctx context.Context, input Input) (bool, error) {
	decision, err := e.Evaluate(ctx, input)
	if err != nil {
		return false, err
	}
	return decision == "allow", nil
}

// DefaultPolicy encodes the conversation ownership rules: a seller may send
// (or signal typing) only while holding the session; take-over is allowed
// from the AI or as a no-op by the current holder; return-to-AI only by the
// current holder. Seller-to-seller transfer is deliberately not allowed.
const DefaultPolicy = `
package conversation

default decision := "deny"

decision := "allow" if {
	input.action == "send"
	input.owner == "seller"
	input.owner_seller_id == input.seller_id
}

decision := "allow" if {
	input.action == "typing"
	input.owner == "seller"
	input.owner_seller_id == input.seller_id
}

decision := "allow" if {
	input.action == "take_over"
	input.owner == "ai"
}

decision := "allow" if {
	input.action == "take_over"
	input.owner == "seller"
	input.owner_seller_id == input.seller_id
}

decision := "allow" if {
	input.action == "return_to_ai"
	input.owner == "seller"
	input.owner_seller_id == input.seller_id
}
`
