package http

import (
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

// streamer pushes the current snapshot to websocket subscribers on a fixed
// cadence. Each connection gets its own goroutine; a failed write closes
// that subscriber only.
type streamer struct {
	controller   Controller
	pushInterval time.Duration
	upgrader     websocket.Upgrader
}

func newStreamer(controller Controller, pushInterval time.Duration) *streamer {
	if pushInterval <= 0 {
		pushInterval = 2 * time.Second
	}
	return &streamer{
		controller:   controller,
		pushInterval: pushInterval,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 4096,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
}

// Serve upgrades the connection and streams snapshots until the client
// disconnects or the request context ends.
func (st *streamer) Serve(w http.ResponseWriter, r *http.Request) {
	conn, err := st.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Warn().Err(err).Msg("websocket upgrade failed")
		return
	}
	defer conn.Close()

	// Drain client frames so pings and close messages are processed.
	go func() {
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	if err := st.push(conn); err != nil {
		return
	}

	ticker := time.NewTicker(st.pushInterval)
	defer ticker.Stop()

	for {
		select {
		case <-r.Context().Done():
			return
		case <-ticker.C:
			if err := st.push(conn); err != nil {
				log.Debug().Err(err).Msg("websocket subscriber dropped")
				return
			}
		}
	}
}

func (st *streamer) push(conn *websocket.Conn) error {
	resp := tokensResponse{
		Tokens:    st.controller.Tokens(),
		IsLoading: st.controller.Loading(),
	}
	if err := st.controller.Err(); err != nil {
		resp.Error = err.Error()
	}
	conn.SetWriteDeadline(time.Now().Add(5 * time.Second))
	return conn.WriteJSON(resp)
}
