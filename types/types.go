package types

const (
	TypeWebsocketPing       = "ping"
	TypeWebsocketPong       = "pong"
	TypeWebsocketQuery      = "query"
	TypeWebsocketChunk      = "chunk"
	TypeWebsocketAnswer     = "answer"
	TypeWebsocketProcessing = "processing"
	TypeWebsocketError      = "error"
)

type WebsocketRequest struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload"`
}

type WebSocketResponse struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload"`
}

type WebSocketQueryPayload struct {
	Question       string `json:"question"`
	PDFPath        string `json:"pdf_path"`
	ConversationID string `json:"conversation_id,omitempty"`
}

type WebSocketChunkPayload struct {
	Content string `json:"content"`
}

// Handle stream responses
type StreamHandler func(chunk string)
