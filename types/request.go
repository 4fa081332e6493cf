package types

type ConnectRequest struct {
	Host  string `json:"host"`
	Token string `json:"token"`
}

type QueryRequest struct {
	Question       string `json:"question"`
	PDFPath        string `json:"pdf_path"`
	ConversationID string `json:"conversation_id,omitempty"`
}

type ConfigureAIRequest struct {
	Provider      string   `json:"provider"`
	Model         string   `json:"model"`
	Endpoint      string   `json:"endpoint,omitempty"`
	OpenAIAPIKey  string   `json:"openai_api_key,omitempty"`
	GeminiAPIKeys []string `json:"gemini_api_keys,omitempty"`
}

type SQLRequest struct {
	Statement   string `json:"statement"`
	WarehouseID string `json:"warehouse_id,omitempty"`
}
