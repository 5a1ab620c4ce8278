package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/redis/go-redis/v9"
	"github.com/soundpost/transcriptor/internal/services"
	"github.com/soundpost/transcriptor/internal/utils"
)

// WSHandler streams a job's progress events (redis pub/sub) to a WebSocket
// client. The first frame is a snapshot of the job row; everything after is
// forwarded from the channel the pipeline publishes to.
type WSHandler struct {
	jobs     services.JobService
	redis    *redis.Client
	upgrader websocket.Upgrader
}

func NewWSHandler(jobs services.JobService, rdb *redis.Client) *WSHandler {
	return &WSHandler{
		jobs:  jobs,
		redis: rdb,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true }, // TODO: restrict origin in prod
		},
	}
}

func (h *WSHandler) JobWS(c *gin.Context) {
	jobID := c.Param("job_id")
	if jobID == "" {
		writeError(c, utils.E(utils.CodeInvalidArgument, "WSHandler.JobWS", "missing job_id", nil))
		return
	}

	job, err := h.jobs.Get(c.Request.Context(), jobID)
	if err != nil {
		writeError(c, err)
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		// upgrade already wrote the response in most cases
		return
	}
	defer conn.Close()

	ctx, cancel := context.WithCancel(c.Request.Context())
	defer cancel()

	pubsub := h.redis.Subscribe(ctx, services.JobChannel(jobID))
	defer pubsub.Close()

	snapshot, _ := json.Marshal(gin.H{"type": "snapshot", "job": job})
	if err := writeFrame(conn, snapshot); err != nil {
		return
	}

	// Drain client frames only to notice the peer going away.
	go func() {
		defer cancel()
		for {
			if _, _, rerr := conn.ReadMessage(); rerr != nil {
				return
			}
		}
	}()

	for {
		m, err := pubsub.ReceiveMessage(ctx)
		if err != nil {
			return
		}
		if err := writeFrame(conn, []byte(m.Payload)); err != nil {
			return
		}
	}
}

func writeFrame(conn *websocket.Conn, b []byte) error {
	_ = conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
	return conn.WriteMessage(websocket.TextMessage, b)
}
