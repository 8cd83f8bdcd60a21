package strand

// ChatRequest carries one chat-mode generation request.
// The backend uses its own defaults when fields are zero.
type ChatRequest struct {
	SystemPrompt string
	Messages     []Message
	Model        string // model ID, backend-specific; empty = backend default
}

// TableRequest carries one tabular generation request: a prompt template
// applied to each input record. Records share the input Columns; the
// backend announces its own output header before the first row.
type TableRequest struct {
	Prompt  string     // template; {{column}} placeholders refer to Columns
	Columns []string   // input column names
	Records [][]string // input records, each aligned with Columns
	Model   string
	Preview bool // request a single example row; caller stops after it
}
