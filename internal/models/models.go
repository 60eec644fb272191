package models

import (
	"encoding/json"
	"time"
)

// Part is a single catalog record. PartSelectNumber is the identity key.
type Part struct {
	PartSelectNumber       string          `json:"partselect_number"`
	ManufacturerPartNumber string          `json:"manufacturer_part_number"`
	Name                   string          `json:"name"`
	Brand                  string          `json:"brand"`
	ApplianceType          string          `json:"appliance_type"` // "refrigerator", "dishwasher"
	Category               string          `json:"category"`
	Price                  float64         `json:"price"`
	InStock                bool            `json:"in_stock"`
	Rating                 float64         `json:"rating,omitempty"`
	ReviewCount            int             `json:"review_count,omitempty"`
	Description            string          `json:"description,omitempty"`
	ImageURL               string          `json:"image_url,omitempty"`
	ProductURL             string          `json:"product_url,omitempty"`
	Keywords               []string        `json:"keywords,omitempty"`
	Installation           Installation    `json:"installation"`
	Compatibility          Compatibility   `json:"compatibility"`
	Troubleshooting        Troubleshooting `json:"troubleshooting"`
}

type Installation struct {
	Difficulty     string `json:"difficulty,omitempty"`
	TimeRequired   string `json:"time,omitempty"`
	ToolsRequired  bool   `json:"tools_required"`
	Instructions   string `json:"instructions,omitempty"`
	VideoAvailable bool   `json:"video_available"`
}

type Compatibility struct {
	CompatibleModels []string `json:"compatible_models"`
}

type Troubleshooting struct {
	SymptomsFixed []string `json:"symptoms_fixed"`
	CommonIssues  []string `json:"common_issues"`
}

// Message is one turn of conversation history supplied by the client.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type ChatRequest struct {
	Message             string    `json:"message"`
	ConversationHistory []Message `json:"conversation_history"`
}

type ChatResponse struct {
	Message          string   `json:"message"`
	Parts            []Part   `json:"parts"`
	QueryType        string   `json:"query_type"`
	Confidence       *float64 `json:"confidence,omitempty"`
	SuggestedActions []string `json:"suggested_actions,omitempty"`
	SessionID        string   `json:"session_id,omitempty"`
	AgentTrace       []string `json:"agent_trace,omitempty"`
}

// CartItem is one line of a cart. At most one line exists per SKU.
type CartItem struct {
	ID              string            `json:"id"`
	Part            Part              `json:"part"`
	Quantity        int               `json:"quantity"`
	SelectedOptions map[string]string `json:"selected_options,omitempty"`
	AddedDate       time.Time         `json:"added_date"`
}

// CartView is the serialized form of a cart with its derived totals.
type CartView struct {
	Items          []CartItem `json:"items"`
	TotalItems     int        `json:"total_items"`
	Subtotal       float64    `json:"subtotal"`
	ShippingCost   float64    `json:"shipping_cost"`
	Tax            float64    `json:"tax"`
	Total          float64    `json:"total"`
	DiscountCode   string     `json:"discount_code,omitempty"`
	DiscountAmount float64    `json:"discount_amount,omitempty"`
}

// TransactionRequest is the body accepted by the cart endpoints.
type TransactionRequest struct {
	PartNumber      string            `json:"part_number,omitempty"`
	CartItemID      string            `json:"cart_item_id,omitempty"`
	Quantity        int               `json:"quantity"`
	SelectedOptions map[string]string `json:"selected_options,omitempty"`
	DiscountCode    string            `json:"discount_code,omitempty"`
}

type TransactionResponse struct {
	Success          bool     `json:"success"`
	Message          string   `json:"message"`
	Cart             CartView `json:"cart"`
	SuggestedActions []string `json:"suggested_actions,omitempty"`
}

// UnmarshalJSON applies catalog defaults for fields a scraped record may omit.
func (p *Part) UnmarshalJSON(data []byte) error {
	type alias Part
	a := alias{Category: "general", InStock: true, Rating: 5.0}
	if err := json.Unmarshal(data, &a); err != nil {
		return err
	}
	*p = Part(a)
	return nil
}
