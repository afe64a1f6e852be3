package ws

import (
	"context"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
	"github.com/nikahapp/matrimony-backend/db"
	"github.com/nikahapp/matrimony-backend/db/model"
	"github.com/nikahapp/matrimony-backend/env"
	"github.com/nikahapp/matrimony-backend/middleware"
	"github.com/nikahapp/matrimony-backend/mq"
	"github.com/nsqio/go-nsq"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

type Handlers struct {
	logger *log.Logger
}

// serveWs binds the authenticated device to its user's notification
// topic and streams lifecycle events until disconnect.
func (h *Handlers) serveWs(hub *Hub, w http.ResponseWriter, r *http.Request) {
	u := r.Context().Value("user").(*model.User)
	s := r.Context().Value("session").(*model.Session)

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Println(err)
		return
	}
	c := &Client{
		logger:  h.logger,
		hub:     hub,
		conn:    conn,
		user:    u,
		session: s,
		send:    make(chan []byte, 256),
	}
	consumer, err := mq.NewConsumer(u.Topic.String(), s.Ch)
	if err != nil {
		h.logger.Println(err)
		conn.Close()
		return
	}
	consumer.AddHandler(nsq.HandlerFunc(func(message *nsq.Message) error {
		c.send <- message.Body
		return nil
	}))
	if err = consumer.ConnectToNSQLookupd(env.NSQLOOKUPD_ADDR); err != nil {
		h.logger.Println(err)
		conn.Close()
		return
	}
	c.consumer = consumer
	c.hub.register <- c

	h.setSessionStatus(s, model.StatusOnline)
	go c.writePump()
	go func() {
		c.readPump()
		h.setSessionStatus(s, model.StatusOffline)
	}()
}

// setSessionStatus flips push routing between socket and expo delivery.
// Best-effort; runs outside the request context since disconnects
// outlive it.
func (h *Handlers) setSessionStatus(s *model.Session, status string) {
	err := db.GetDB(context.Background()).Model(&model.Session{}).
		Where("user_id = ? AND ip = ?", s.UserID, s.IP).
		Update("status", status).Error
	if err != nil {
		h.logger.Println(err)
	}
}

func (h *Handlers) connect(w http.ResponseWriter, r *http.Request) {
	hub := GetHub()
	h.serveWs(hub, w, r)
}

func (h *Handlers) SetupRoutes(r *chi.Mux) {
	r.With(middleware.Authenticator(h.logger)).Get("/ws", h.connect)
}

func NewHandlers(logger *log.Logger) *Handlers {
	return &Handlers{logger}
}
