package ws

import (
	"net/http"

	"github.com/Vovarama1992/go-utils/logger"
	"github.com/google/uuid"
)

// WSHandler subscribes the connection to ?projectId=<uuid>. Every message
// the client receives is the bare project id; clients re-fetch on it.
// Incoming frames are read only to notice the disconnect.
func WSHandler(hub *Hub, log *logger.ZapLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		projectID, err := uuid.Parse(r.URL.Query().Get("projectId"))
		if err != nil || projectID == uuid.Nil {
			http.Error(w, "invalid projectId", http.StatusBadRequest)
			return
		}

		conn, err := Upgrader.Upgrade(w, r, nil)
		if err != nil {
			log.Log(logger.LogEntry{
				Level:   "warn",
				Message: "ws upgrade failed",
				Error:   err,
			})
			return
		}

		leave := hub.Register(projectID, conn)
		defer leave()

		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				log.Log(logger.LogEntry{
					Level:   "info",
					Message: "ws disconnected",
					Fields:  map[string]any{"projectID": projectID.String()},
				})
				return
			}
		}
	}
}
