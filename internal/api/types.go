package api

// Wire types mirror the backend's JSON schemas. Timestamps stay as the
// ISO-8601 strings the backend emits (they may lack a timezone suffix,
// which encoding/json's time.Time would reject); internal/render parses
// them for display.

// Account is a sales-channel account (Amazon, Yahoo, ...).
type Account struct {
	ID        int    `json:"id"`
	Name      string `json:"name"`
	Channel   string `json:"channel"`
	IsActive  bool   `json:"is_active"`
	CreatedAt string `json:"created_at,omitempty"`
}

// Message is an inbound customer message.
type Message struct {
	ID                int    `json:"id"`
	AccountID         int    `json:"account_id"`
	ExternalOrderID   string `json:"external_order_id,omitempty"`
	ExternalMessageID string `json:"external_message_id,omitempty"`
	Sender            string `json:"sender"`
	Subject           string `json:"subject,omitempty"`
	Body              string `json:"body"`
	Direction         string `json:"direction"`
	Status            string `json:"status"`
	ASIN              string `json:"asin,omitempty"`
	SKU               string `json:"sku,omitempty"`
	ProductTitle      string `json:"product_title,omitempty"`
	QuestionCategory  string `json:"question_category,omitempty"`
	ReceivedAt        string `json:"received_at"`
	CreatedAt         string `json:"created_at,omitempty"`
	AccountName       string `json:"account_name,omitempty"`
	ThreadCount       int    `json:"thread_count,omitempty"`
}

// Response is an AI-drafted or directly sent reply attached to a message.
type Response struct {
	ID                  int    `json:"id"`
	MessageID           int    `json:"message_id,omitempty"`
	DraftBody           string `json:"draft_body"`
	FinalBody           string `json:"final_body,omitempty"`
	AISuggestedCategory string `json:"ai_suggested_category,omitempty"`
	IsSent              bool   `json:"is_sent"`
	CreatedAt           string `json:"created_at"`
	SentAt              string `json:"sent_at,omitempty"`
	InputTokens         int    `json:"input_tokens,omitempty"`
	OutputTokens        int    `json:"output_tokens,omitempty"`
	ModelUsed           string `json:"model_used,omitempty"`
}

// ThreadEntry pairs one message with its ordered response history.
type ThreadEntry struct {
	Message   Message    `json:"message"`
	Responses []Response `json:"responses"`
}

// Thread is the full conversation for one customer on one account.
type Thread struct {
	OrderID  string        `json:"order_id,omitempty"`
	OrderIDs []string      `json:"order_ids,omitempty"`
	Entries  []ThreadEntry `json:"thread"`
}

// QATemplate is a reusable canned answer keyed by category and platform.
type QATemplate struct {
	ID             int    `json:"id"`
	CategoryKey    string `json:"category_key"`
	Category       string `json:"category"`
	Subcategory    string `json:"subcategory,omitempty"`
	Platform       string `json:"platform"`
	AnswerTemplate string `json:"answer_template"`
	StaffNotes     string `json:"staff_notes,omitempty"`
}

// TemplateInput is the create/update payload for a QA template.
type TemplateInput struct {
	CategoryKey    string `json:"category_key"`
	Category       string `json:"category"`
	Subcategory    string `json:"subcategory,omitempty"`
	Platform       string `json:"platform"`
	AnswerTemplate string `json:"answer_template"`
	StaffNotes     string `json:"staff_notes,omitempty"`
}

// UsageRow aggregates one account's AI usage for a month. The usage
// endpoint reuses the shape for the total row with an empty account name.
type UsageRow struct {
	AccountName  string  `json:"account_name,omitempty"`
	Count        int     `json:"count"`
	InputTokens  int64   `json:"input_tokens"`
	OutputTokens int64   `json:"output_tokens"`
	CostUSD      float64 `json:"cost_usd"`
}

// Usage is the monthly AI usage report.
type Usage struct {
	Year     int        `json:"year"`
	Month    int        `json:"month"`
	Accounts []UsageRow `json:"accounts"`
	Total    UsageRow   `json:"total"`
}

// StatusResult is returned by the handled/reopen mutations.
type StatusResult struct {
	Detail string `json:"detail"`
	ID     int    `json:"id"`
	Status string `json:"status"`
}

// BulkResult is returned by the bulk-handled mutation.
type BulkResult struct {
	Detail  string `json:"detail"`
	Updated int    `json:"updated"`
}

// FetchResult is returned by the ingestion trigger.
type FetchResult struct {
	TotalNew int `json:"total_new"`
}

// DiscardResult reports the message status the backend reverted to after
// a draft was discarded. The client must adopt it verbatim.
type DiscardResult struct {
	Detail        string `json:"detail"`
	MessageStatus string `json:"message_status"`
}

// SendRequest is the payload for send and send-direct.
type SendRequest struct {
	FinalBody         string `json:"final_body"`
	MessageID         int    `json:"message_id,omitempty"`
	CorrectedCategory string `json:"corrected_category,omitempty"`
}

// ListMessagesParams are the inbox filters, combined as AND by the backend.
type ListMessagesParams struct {
	AccountID int
	Channel   string
	Status    string
	Search    string
	Limit     int
}

// TemplateQuery filters the template list.
type TemplateQuery struct {
	CategoryKey string
	Category    string
	Platform    string
	Search      string
}
