package http

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"scorecast/ml"
)

const (
	wsWriteWait      = 10 * time.Second
	wsPongWait       = 60 * time.Second
	wsPingPeriod     = (wsPongWait * 9) / 10
	wsMaxMessageSize = 8 << 10
)

// LiveForm answers each StudentInput frame on a websocket with a Result frame,
// so a form can show predictions while it is being edited.
type LiveForm struct {
	api      *API
	upgrader websocket.Upgrader
	timeout  time.Duration
	logger   *zap.Logger
}

type liveReply struct {
	Result *ml.Result `json:"result,omitempty"`
	Error  string     `json:"error,omitempty"`
	Status int        `json:"status"`
}

// NewLiveForm shares api's cache and metrics. Each message is bounded by timeout.
func NewLiveForm(api *API, origins []string, timeout time.Duration) *LiveForm {
	return &LiveForm{
		api: api,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				return origin == "" || originAllowed(origins, origin)
			},
		},
		timeout: timeout,
		logger:  api.logger.Named("ws"),
	}
}

func (f *LiveForm) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/ws/predict", f.handle)
}

func (f *LiveForm) handle(w http.ResponseWriter, r *http.Request) {
	conn, err := f.upgrader.Upgrade(w, r, nil)
	if err != nil {
		f.logger.Warn("websocket upgrade failed", zap.Error(err))
		return
	}
	id := GetRequestID(r.Context())
	f.logger.Debug("client connected", zap.String("request_id", id))

	// the connection outlives the request timeout
	ctx, cancel := context.WithCancel(context.WithoutCancel(r.Context()))
	replies := make(chan liveReply, 16)
	go f.writePump(conn, replies, cancel)
	f.readPump(ctx, conn, replies)
	close(replies)
	cancel()
	f.logger.Debug("client disconnected", zap.String("request_id", id))
}

func (f *LiveForm) readPump(ctx context.Context, conn *websocket.Conn, replies chan<- liveReply) {
	conn.SetReadLimit(wsMaxMessageSize)
	conn.SetReadDeadline(time.Now().Add(wsPongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(wsPongWait))
	})

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				f.logger.Warn("websocket read error", zap.Error(err))
			}
			return
		}
		conn.SetReadDeadline(time.Now().Add(wsPongWait))

		reply := f.answer(ctx, data)
		select {
		case replies <- reply:
		case <-ctx.Done():
			return
		}
	}
}

func (f *LiveForm) answer(ctx context.Context, data []byte) liveReply {
	var input ml.StudentInput
	if err := json.Unmarshal(data, &input); err != nil {
		return liveReply{Error: "invalid message: " + err.Error(), Status: http.StatusBadRequest}
	}
	ctx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()
	res, _, err := f.api.predict(ctx, input)
	if err != nil {
		return liveReply{Error: err.Error(), Status: statusFor(err)}
	}
	return liveReply{Result: res, Status: http.StatusOK}
}

// writePump owns all writes to conn; gorilla connections allow one writer.
func (f *LiveForm) writePump(conn *websocket.Conn, replies <-chan liveReply, cancel context.CancelFunc) {
	ticker := time.NewTicker(wsPingPeriod)
	defer func() {
		ticker.Stop()
		cancel()
		conn.Close()
	}()

	for {
		select {
		case reply, ok := <-replies:
			conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
			if !ok {
				conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
				return
			}
			if err := conn.WriteJSON(reply); err != nil {
				f.logger.Warn("websocket write error", zap.Error(err))
				return
			}
		case <-ticker.C:
			conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
