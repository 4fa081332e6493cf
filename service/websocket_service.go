package service

import (
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/tieubaoca/docbricks-be/types"
)

// WebSocketService streams document query answers chunk by chunk.
type WebSocketService struct {
	queries  *QueryService
	upgrader websocket.Upgrader
}

func NewWebSocketService(queries *QueryService) *WebSocketService {
	return &WebSocketService{
		queries: queries,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true // Allow all origins (adjust for production)
			},
		},
	}
}

func (s *WebSocketService) HandleChat(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Println("Upgrade error:", err)
		return
	}
	defer conn.Close()

	// Set connection properties
	conn.SetReadLimit(512 * 1024) // 512KB max message size
	conn.SetReadDeadline(time.Now().Add(60 * time.Second))
	conn.SetPongHandler(func(string) error {
		conn.SetReadDeadline(time.Now().Add(60 * time.Second))
		return nil
	})

	for {
		messageType, p, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("WebSocket read error: %v", err)
			}
			return
		}
		conn.SetReadDeadline(time.Now().Add(60 * time.Second))

		var req types.WebsocketRequest
		if err := json.Unmarshal(p, &req); err != nil {
			conn.WriteMessage(messageType, []byte("Error processing message"))
			log.Println("Unmarshal error:", err)
			continue
		}
		payloadBytes, err := json.Marshal(req.Payload)
		if err != nil {
			conn.WriteMessage(messageType, []byte("Error processing message"))
			log.Println("Marshal error:", err)
			continue
		}

		switch req.Type {
		case types.TypeWebsocketQuery:
			var payload types.WebSocketQueryPayload
			if err := json.Unmarshal(payloadBytes, &payload); err != nil {
				log.Println("Unmarshal error:", err)
				conn.WriteMessage(messageType, []byte("Error processing message"))
				continue
			}

			// Stream answer chunks back to the client as they arrive
			response := s.queries.QueryStream(r.Context(), types.QueryRequest{
				Question:       payload.Question,
				PDFPath:        payload.PDFPath,
				ConversationID: payload.ConversationID,
			}, func(chunk string) {
				conn.WriteJSON(types.WebSocketResponse{
					Type:    types.TypeWebsocketChunk,
					Payload: types.WebSocketChunkPayload{Content: chunk},
				})
			})

			responseType := types.TypeWebsocketAnswer
			if !response.Success {
				responseType = types.TypeWebsocketError
			}
			if err := conn.WriteJSON(types.WebSocketResponse{
				Type:    responseType,
				Payload: response,
			}); err != nil {
				log.Println("Write error:", err)
			}

		case types.TypeWebsocketPing:
			if err := conn.WriteJSON(types.WebSocketResponse{
				Type:    types.TypeWebsocketPong,
				Payload: nil,
			}); err != nil {
				log.Println("Write error:", err)
			}

		default:
			log.Println("Invalid message type")
		}
	}
}
