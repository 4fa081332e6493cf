package types

type DataResponse struct {
	Status  bool        `json:"status"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

type ConnectResponse struct {
	Success      bool   `json:"success"`
	User         string `json:"user,omitempty"`
	WorkspaceURL string `json:"workspace_url,omitempty"`
	Error        string `json:"error,omitempty"`
}

type QueryResponse struct {
	Success        bool           `json:"success"`
	Answer         string         `json:"answer,omitempty"`
	ConversationID string         `json:"conversation_id,omitempty"`
	Metadata       map[string]any `json:"metadata,omitempty"`
	Error          string         `json:"error,omitempty"`
}

type ConfigureAIResponse struct {
	Success  bool   `json:"success"`
	Provider string `json:"provider,omitempty"`
	Model    string `json:"model,omitempty"`
	Error    string `json:"error,omitempty"`
}

type UploadResponse struct {
	OriginalName string `json:"original_name,omitempty"`
	Path         string `json:"path,omitempty"`
	NotebookPath string `json:"notebook_path,omitempty"`
}
