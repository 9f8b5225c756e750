package scoring

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"golang.org/x/time/rate"
)

const (
	pssPongWait       = 60 * time.Second
	pssPingPeriod     = (pssPongWait * 9) / 10
	pssWriteWait      = 10 * time.Second
	pssMaxMessageSize = 64 * 1024
)

// FrameHandler is implemented by Ingestor.
type FrameHandler interface {
	Handle(ctx context.Context, raw []byte, binary bool) error
}

// SocketHandler accepts PSS device connections on /ws/pss. Text frames are JSON,
// binary frames are MessagePack. Nothing is ever written back except pings.
type SocketHandler struct {
	ingest   FrameHandler
	upgrader websocket.Upgrader
	limit    rate.Limit
	burst    int
	logger   *slog.Logger
}

func NewSocketHandler(ingest FrameHandler, perSecond float64, burst int, logger *slog.Logger) *SocketHandler {
	return &SocketHandler{
		ingest: ingest,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4096,
			WriteBufferSize: 1024,
			// PSS консоли подключаются из локальной сети зала, Origin у них не выставлен.
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		limit:  rate.Limit(perSecond),
		burst:  burst,
		logger: logger.With(slog.String("component", "pss_socket")),
	}
}

func (h *SocketHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("PSS upgrade failed", slog.Any("error", err))
		return
	}
	remote := conn.RemoteAddr().String()
	h.logger.Info("PSS connection established", slog.String("remote", remote))

	// Свой контекст: начатая запись кадра не прерывается вместе с запросом.
	ctx, cancel := context.WithCancel(context.Background())
	defer func() {
		cancel()
		conn.Close()
		h.logger.Info("PSS connection closed", slog.String("remote", remote))
	}()

	go h.keepAlive(ctx, conn)
	h.readLoop(ctx, conn, rate.NewLimiter(h.limit, h.burst))
}

// readLoop handles frames in arrival order. The limiter delays a flooding device
// instead of dropping its frames.
func (h *SocketHandler) readLoop(ctx context.Context, conn *websocket.Conn, limiter *rate.Limiter) {
	conn.SetReadLimit(pssMaxMessageSize)
	conn.SetReadDeadline(time.Now().Add(pssPongWait))
	conn.SetPongHandler(func(string) error { conn.SetReadDeadline(time.Now().Add(pssPongWait)); return nil })

	for {
		msgType, raw, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				h.logger.Warn("PSS connection closed unexpectedly", slog.Any("error", err))
			}
			return
		}
		if msgType != websocket.TextMessage && msgType != websocket.BinaryMessage {
			continue
		}
		if err := limiter.Wait(ctx); err != nil {
			return
		}
		// Ошибки уже залогированы ингестором; соединение продолжает работать.
		_ = h.ingest.Handle(ctx, raw, msgType == websocket.BinaryMessage)
		conn.SetReadDeadline(time.Now().Add(pssPongWait))
	}
}

func (h *SocketHandler) keepAlive(ctx context.Context, conn *websocket.Conn) {
	ticker := time.NewTicker(pssPingPeriod)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(pssWriteWait)); err != nil {
				return
			}
		}
	}
}
