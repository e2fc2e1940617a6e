package report

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"osboard/internal/model"
)

type fakeGen struct {
	calls  int
	model  string
	prompt string
	text   string
	err    error
}

func (f *fakeGen) Generate(_ context.Context, model, prompt string) (string, error) {
	f.calls++
	f.model, f.prompt = model, prompt
	return f.text, f.err
}

var deadline = time.Date(2025, 6, 1, 18, 0, 0, 0, time.UTC)

func orders() []model.ServiceOrder {
	return []model.ServiceOrder{
		{ID: "1", OSNumber: "100", StoreName: "Acme", Salesperson: "Rita", Deadline: deadline,
			DeliveryMethod: model.DeliveryDelivery, Status: model.StatusPending, Notes: "fragile"},
		{ID: "2", OSNumber: "200", StoreName: "Done Co", Deadline: deadline,
			DeliveryMethod: model.DeliveryPickup, Status: model.StatusCompleted},
	}
}

func TestGenerateWithoutKey(t *testing.T) {
	g := NewGenerator(nil, "m")
	assert.False(t, g.Enabled())
	assert.Equal(t, MsgNoAPIKey, g.Generate(context.Background(), orders()))

	assert.False(t, Open(context.Background(), "", "m").Enabled())
}

func TestGenerateNoPendingOrders(t *testing.T) {
	f := &fakeGen{text: "unused"}
	g := NewGenerator(f, "m")

	assert.Equal(t, MsgNoPendingOrders, g.Generate(context.Background(), nil))
	assert.Equal(t, MsgNoPendingOrders, g.Generate(context.Background(), orders()[1:]))
	assert.Zero(t, f.calls, "no external call without pending orders")
}

func TestGenerateReturnsTextVerbatim(t *testing.T) {
	f := &fakeGen{text: "## Summary\n1 order\n"}
	g := NewGenerator(f, "gemini-2.5-flash")

	got := g.Generate(context.Background(), orders())
	assert.Equal(t, "## Summary\n1 order\n", got)
	assert.Equal(t, 1, f.calls)
	assert.Equal(t, "gemini-2.5-flash", f.model)
	assert.Contains(t, f.prompt, `"os":"100"`)
	assert.NotContains(t, f.prompt, "Done Co", "completed orders are left out")
}

func TestGenerateAbsorbsFailures(t *testing.T) {
	f := &fakeGen{err: errors.New("401 unauthorized")}
	assert.Equal(t, MsgGenerationFailed, NewGenerator(f, "m").Generate(context.Background(), orders()))

	f = &fakeGen{text: "  \n"}
	assert.Equal(t, MsgEmptyResponse, NewGenerator(f, "m").Generate(context.Background(), orders()))
}

func TestBuildPrompt(t *testing.T) {
	prompt, err := BuildPrompt(orders()[:1])
	require.NoError(t, err)

	for _, want := range []string{"Workload summary", "3 orders", "grouping deliveries", "motivational"} {
		assert.Contains(t, prompt, want)
	}

	start := strings.Index(prompt, "Data: ") + len("Data: ")
	end := strings.Index(prompt[start:], "\n")
	var data []map[string]string
	require.NoError(t, json.Unmarshal([]byte(prompt[start:start+end]), &data))
	assert.Equal(t, []map[string]string{{
		"os":             "100",
		"store":          "Acme",
		"deadline":       "2025-06-01T18:00:00Z",
		"deliveryMethod": "DELIVERY",
		"salesperson":    "Rita",
		"notes":          "fragile",
	}}, data)
}
