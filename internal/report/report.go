// Package report turns the pending workload into a short AI-written
// briefing. It never fails: every problem becomes a fixed message.
package report

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"osboard/internal/model"
)

const (
	MsgNoAPIKey         = "AI API key is not configured. Set GEMINI_API_KEY to enable workload reports."
	MsgNoPendingOrders  = "There are no pending orders to analyze."
	MsgEmptyResponse    = "Could not generate the analysis."
	MsgGenerationFailed = "Could not reach the AI service. Check your connection or API key."
)

// TextGenerator produces text for a prompt with the named model.
type TextGenerator interface {
	Generate(ctx context.Context, model, prompt string) (string, error)
}

type Generator struct {
	gen   TextGenerator
	model string
}

// NewGenerator returns a generator; a nil gen means no credential is
// configured and every report is MsgNoAPIKey.
func NewGenerator(gen TextGenerator, model string) *Generator {
	return &Generator{gen: gen, model: model}
}

func (g *Generator) Enabled() bool { return g.gen != nil }

func (g *Generator) Generate(ctx context.Context, orders []model.ServiceOrder) string {
	if g.gen == nil {
		return MsgNoAPIKey
	}

	pending := make([]model.ServiceOrder, 0, len(orders))
	for _, o := range orders {
		if o.Status == model.StatusPending {
			pending = append(pending, o)
		}
	}
	if len(pending) == 0 {
		return MsgNoPendingOrders
	}

	prompt, err := BuildPrompt(pending)
	if err != nil {
		slog.Error("build report prompt", "error", err)
		return MsgGenerationFailed
	}

	text, err := g.gen.Generate(ctx, g.model, prompt)
	if err != nil {
		slog.Error("report generation failed", "model", g.model, "error", err)
		return MsgGenerationFailed
	}
	if strings.TrimSpace(text) == "" {
		return MsgEmptyResponse
	}
	return text
}

type promptOrder struct {
	OS             string    `json:"os"`
	Store          string    `json:"store"`
	Deadline       time.Time `json:"deadline"`
	DeliveryMethod string    `json:"deliveryMethod"`
	Salesperson    string    `json:"salesperson,omitempty"`
	Notes          string    `json:"notes,omitempty"`
}

const promptTemplate = `Act as an experienced logistics manager. Analyze the following list of pending service orders (OS).

Data: %s

Write a short, direct report in markdown with:
1. Workload summary (how many orders, how urgent).
2. Prioritization: the 3 orders that should be done right now based on their deadline.
3. Logistics: suggest grouping deliveries when several orders are for delivery, taking the notes into account.
4. A short motivational closing line for the team.

Keep the answer concise.`

// BuildPrompt embeds a reduced projection of the orders in the instruction
// template.
func BuildPrompt(pending []model.ServiceOrder) (string, error) {
	data := make([]promptOrder, len(pending))
	for i, o := range pending {
		data[i] = promptOrder{
			OS:             o.OSNumber,
			Store:          o.StoreName,
			Deadline:       o.Deadline,
			DeliveryMethod: string(o.DeliveryMethod),
			Salesperson:    o.Salesperson,
			Notes:          o.Notes,
		}
	}
	b, err := json.Marshal(data)
	if err != nil {
		return "", fmt.Errorf("encode orders: %w", err)
	}
	return fmt.Sprintf(promptTemplate, b), nil
}
