package parsing

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/fastfixai/tenantsite/internal/apperr"
	"github.com/fastfixai/tenantsite/internal/llm"
	"github.com/fastfixai/tenantsite/internal/metrics"
)

const estimateSystemPrompt = `You are an estimate document parser for construction and roofing projects. Your job is to find and extract the TOTAL costs for five specific categories from estimate documents.

Extract the following totals:
1. **Contract Price / Grand Total** - Look for: "Grand Total", "Total Price", "Contract Price", "Estimate Total", "Project Total", "Total Cost", "Amount Due", or the final total amount of the entire estimate
2. **Labor Total** - Look for: "Total Labor", "Labor Cost", "Labor Subtotal", "Crew Cost", "Installation Labor", "Workmanship", or similar labor-related totals
3. **Materials Total** - Look for: "Total Materials", "Materials Cost", "Material Subtotal", "Supplies", "Product Cost", or similar materials-related totals
4. **Overhead Total** - Look for: "Overhead", "Other Costs", "Miscellaneous", "Admin Costs", "Contingency", or similar overhead/misc totals (NOT profit - overhead is separate)
5. **Profit Total** - Look for: "Profit", "Company Profit", "Net Profit", "Markup", "Margin", "Contractor's Profit", "Builder's Profit", or similar profit/markup amounts

IMPORTANT RULES:
- Look for TOTALS, not individual line items
- The contract_price should be the GRAND TOTAL of the entire estimate (the final amount the customer pays)
- If you find multiple labor sections, sum them up for the total
- If you can't find a specific category, return 0 for that category
- Return dollar amounts as plain numbers (no $ signs or commas)
- If a value shows as negative, return 0
- If overhead and profit are combined (like "Profit & Overhead: $10,000"), try to split them or put the full value in profit
- Profit and overhead are SEPARATE categories - don't combine them`

var estimateTool = llm.Tool{
	Name:        "extract_estimate_totals",
	Description: "Extract the total costs for contract price, labor, materials, overhead, and profit from an estimate document",
	Parameters: json.RawMessage(`{
  "type": "object",
  "properties": {
    "contract_price": {"type": "number", "description": "The grand total / contract price / estimate total in dollars (number only, no currency symbol)"},
    "labor_total": {"type": "number", "description": "Total labor cost in dollars (number only, no currency symbol)"},
    "materials_total": {"type": "number", "description": "Total materials cost in dollars (number only, no currency symbol)"},
    "overhead_total": {"type": "number", "description": "Total overhead/other costs in dollars (number only, no currency symbol)"},
    "profit_total": {"type": "number", "description": "Total company profit/markup in dollars (number only, no currency symbol)"}
  },
  "required": ["contract_price", "labor_total", "materials_total", "overhead_total", "profit_total"],
  "additionalProperties": false
}`),
}

type EstimateTotals struct {
	ContractPrice  float64 `json:"contract_price"`
	LaborTotal     float64 `json:"labor_total"`
	MaterialsTotal float64 `json:"materials_total"`
	OverheadTotal  float64 `json:"overhead_total"`
	ProfitTotal    float64 `json:"profit_total"`
}

type EstimateParser struct {
	llm   Extractor
	model string
}

func NewEstimateParser(x Extractor, model string) *EstimateParser {
	return &EstimateParser{llm: x, model: model}
}

func (p *EstimateParser) Parse(ctx context.Context, rawText string) (*EstimateTotals, error) {
	logger := slog.Default().With("fn", "parse-estimate-pdf")

	if rawText == "" {
		return nil, apperr.Validation("rawText is required")
	}
	if !p.llm.Configured() {
		return nil, fail("LOVABLE_API_KEY is not configured")
	}
	logger.Info("received text", "length", len(rawText))

	args, err := p.llm.Extract(ctx, llm.ExtractRequest{
		Model:  p.model,
		System: estimateSystemPrompt,
		User:   "Parse this estimate document and extract the Contract Price (grand total), Labor, Materials, Overhead, and Company Profit costs:\n\n" + rawText,
		Tool:   estimateTool,
	})
	if err != nil {
		metrics.Extractions.WithLabelValues("estimate", "error").Inc()
		logger.Error("ai gateway error", "error", err)
		switch code := upstreamStatus(err); {
		case code == http.StatusTooManyRequests:
			return nil, apperr.RateLimited("Rate limit exceeded. Please try again in a moment.")
		case code == http.StatusPaymentRequired:
			return nil, apperr.PaymentRequired("AI credits exhausted. Please add credits or enter values manually.")
		case code != 0:
			return nil, fail(fmt.Sprintf("AI gateway error: %d", code))
		case errors.Is(err, llm.ErrNoToolCall):
			return nil, fail("Failed to extract estimate totals from AI response")
		default:
			return nil, fail(err.Error())
		}
	}

	var raw map[string]interface{}
	if err := json.Unmarshal(args, &raw); err != nil {
		metrics.Extractions.WithLabelValues("estimate", "invalid").Inc()
		return nil, fail(fmt.Sprintf("decode tool arguments: %v", err))
	}

	totals := &EstimateTotals{
		ContractPrice:  number(raw["contract_price"]),
		LaborTotal:     number(raw["labor_total"]),
		MaterialsTotal: number(raw["materials_total"]),
		OverheadTotal:  number(raw["overhead_total"]),
		ProfitTotal:    number(raw["profit_total"]),
	}
	metrics.Extractions.WithLabelValues("estimate", "ok").Inc()
	logger.Info("extracted totals", "contract_price", totals.ContractPrice)
	return totals, nil
}

// number returns v when it is a JSON number and 0 otherwise.
func number(v interface{}) float64 {
	f, _ := v.(float64)
	return f
}
