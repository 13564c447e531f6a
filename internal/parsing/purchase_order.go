package parsing

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"regexp"
	"strconv"
	"strings"

	"github.com/fastfixai/tenantsite/internal/apperr"
	"github.com/fastfixai/tenantsite/internal/llm"
	"github.com/fastfixai/tenantsite/internal/metrics"
)

const materialsSystemPrompt = `You are a material order parser for roofing/construction projects. Extract all material items from the provided text.

The document is organized by sections/categories (like "Low Slope Materials", "Standing Seam Materials", "General Materials", etc.).

For each material item, extract:
- category: The section header this item belongs to
- item_name: Description of the material (e.g., "GTA torch applied Granulated cap sheet")
- quantity: The numeric quantity (e.g., 8 from "8 roll")
- unit: The unit type (Roll, Piece, Section, EA, Box, Bag, Sqr, Each, Bundle, etc.)
- measurement: The measurement info if present (e.g., "6.0 Sq", "136.0 Ft")
- unit_cost: 0 (material orders typically don't include pricing)
- total: 0 (will be calculated later)

IMPORTANT RULES:
- Group items under their section headers
- Parse quantity and unit separately (e.g., "14 10' Section" → qty: 14, unit: "10' Section")
- If a line looks like a header (no qty/unit, bold formatting, all caps), treat it as a category name
- Ignore image references, totals, page numbers, and non-material rows
- Clean up descriptions to be readable
- If no clear category is found, use "General Materials"
- Parse the quantity as a number, not a string`

var materialsTool = llm.Tool{
	Name:        "extract_materials",
	Description: "Extract material items from the PDF text",
	Parameters: json.RawMessage(`{
  "type": "object",
  "properties": {
    "items": {
      "type": "array",
      "items": {
        "type": "object",
        "properties": {
          "category": {"type": "string", "description": "Section/category name"},
          "item_name": {"type": "string", "description": "Material description"},
          "quantity": {"type": "number", "description": "Numeric quantity"},
          "unit": {"type": "string", "description": "Unit type (Roll, Box, EA, etc.)"},
          "measurement": {"type": "string", "description": "Measurement info if present"},
          "unit_cost": {"type": "number", "description": "Unit cost (default 0)"},
          "total": {"type": "number", "description": "Total cost (default 0)"}
        },
        "required": ["category", "item_name", "quantity", "unit"]
      }
    }
  },
  "required": ["items"]
}`),
}

type MaterialItem struct {
	Category    string  `json:"category"`
	ItemName    string  `json:"item_name"`
	Quantity    float64 `json:"quantity"`
	Unit        string  `json:"unit"`
	Measurement string  `json:"measurement"`
	UnitCost    float64 `json:"unit_cost"`
	Total       float64 `json:"total"`
}

// MaterialsResult is returned with 200 even when the model gave nothing
// usable; Error then explains why Items is empty.
type MaterialsResult struct {
	Items []MaterialItem `json:"items"`
	Error string         `json:"error,omitempty"`
}

type PurchaseOrderParser struct {
	llm   Extractor
	model string
}

func NewPurchaseOrderParser(x Extractor, model string) *PurchaseOrderParser {
	return &PurchaseOrderParser{llm: x, model: model}
}

func (p *PurchaseOrderParser) Parse(ctx context.Context, pdfText string) (*MaterialsResult, error) {
	logger := slog.Default().With("fn", "parse-purchase-order-pdf")

	if pdfText == "" {
		return nil, apperr.Validation("Missing or invalid pdfText")
	}
	if !p.llm.Configured() {
		logger.Error("api key not configured")
		return nil, fail("API key not configured")
	}
	logger.Info("parsing pdf text", "length", len(pdfText))

	args, err := p.llm.Extract(ctx, llm.ExtractRequest{
		Model:  p.model,
		System: materialsSystemPrompt,
		User:   "Extract all material items from this material order PDF text:\n\n" + pdfText + "\n\nReturn the items as a JSON array.",
		Tool:   materialsTool,
	})
	if errors.Is(err, llm.ErrNoToolCall) {
		metrics.Extractions.WithLabelValues("purchase_order", "no_tool_call").Inc()
		logger.Error("no valid tool call in response")
		return &MaterialsResult{Items: []MaterialItem{}, Error: "Failed to extract materials"}, nil
	}
	if err != nil {
		metrics.Extractions.WithLabelValues("purchase_order", "error").Inc()
		logger.Error("ai gateway error", "error", err)
		switch code := upstreamStatus(err); {
		case code == http.StatusTooManyRequests:
			return nil, apperr.RateLimited("Rate limit exceeded. Please try again later.")
		case code == http.StatusPaymentRequired:
			return nil, apperr.PaymentRequired("Payment required. Please add credits to continue.")
		case code != 0:
			return nil, fail("Failed to parse PDF")
		default:
			return nil, fail(err.Error())
		}
	}

	var parsed struct {
		Items []map[string]interface{} `json:"items"`
	}
	if err := json.Unmarshal(args, &parsed); err != nil {
		metrics.Extractions.WithLabelValues("purchase_order", "invalid").Inc()
		logger.Error("failed to parse tool arguments", "error", err)
		return &MaterialsResult{Items: []MaterialItem{}, Error: "Failed to parse AI response"}, nil
	}

	items := make([]MaterialItem, 0, len(parsed.Items))
	for _, raw := range parsed.Items {
		items = append(items, normalizeItem(raw))
	}
	metrics.Extractions.WithLabelValues("purchase_order", "ok").Inc()
	logger.Info("parsed items", "count", len(items))
	return &MaterialsResult{Items: items}, nil
}

func normalizeItem(raw map[string]interface{}) MaterialItem {
	return MaterialItem{
		Category:    text(raw["category"], "General Materials"),
		ItemName:    text(raw["item_name"], "Unknown Item"),
		Quantity:    quantity(raw["quantity"]),
		Unit:        text(raw["unit"], "EA"),
		Measurement: text(raw["measurement"], ""),
		UnitCost:    number(raw["unit_cost"]),
		Total:       number(raw["total"]),
	}
}

func text(v interface{}, fallback string) string {
	switch s := v.(type) {
	case string:
		if s != "" {
			return s
		}
	case float64:
		if s != 0 {
			return strconv.FormatFloat(s, 'f', -1, 64)
		}
	}
	return fallback
}

var leadingNumber = regexp.MustCompile(`^\s*[+-]?(\d+\.?\d*|\.\d+)([eE][+-]?\d+)?`)

// quantity keeps numeric values as they are. Strings are read up to the
// first non-numeric character, and anything unreadable or zero becomes 1.
func quantity(v interface{}) float64 {
	switch q := v.(type) {
	case float64:
		return q
	case string:
		m := leadingNumber.FindString(q)
		if f, err := strconv.ParseFloat(strings.TrimSpace(m), 64); err == nil && f != 0 {
			return f
		}
	}
	return 1
}
