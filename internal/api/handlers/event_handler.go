package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/soundpost/transcriptor/internal/models"
	"github.com/soundpost/transcriptor/internal/services"
	"github.com/soundpost/transcriptor/internal/utils"
)

// EventHandler receives storage "object finalized" notifications, either as
// a raw {bucket,name} body or wrapped in a Pub/Sub push envelope, and runs
// the pipeline synchronously.
//
// Response policy decides redelivery: permanent conditions (bad event,
// unknown format) are acked with 200 so the subscription stops resending
// them; transient ones return 500 so the delivery framework retries.
type EventHandler struct {
	svc services.IngestionService
	log *logrus.Logger
}

func NewEventHandler(svc services.IngestionService, log *logrus.Logger) *EventHandler {
	return &EventHandler{svc: svc, log: log}
}

// pubsubEnvelope is the push-subscription wrapper; Data carries the
// base64-encoded storage notification JSON.
type pubsubEnvelope struct {
	Message struct {
		Data       []byte            `json:"data"`
		Attributes map[string]string `json:"attributes"`
		MessageID  string            `json:"messageId"`
	} `json:"message"`
	Subscription string `json:"subscription"`
}

type eventResponse struct {
	Status string                   `json:"status"` // processed|skipped|rejected|failed
	Job    *models.TranscriptionJob `json:"job,omitempty"`
	Error  *APIError                `json:"error,omitempty"`
}

func (h *EventHandler) Receive(c *gin.Context) {
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		writeError(c, utils.E(utils.CodeInvalidArgument, "EventHandler.Receive", "unreadable request body", err))
		return
	}

	ev, err := decodeEvent(body)
	if err != nil {
		// Undecodable payloads are permanent: ack them so they are not
		// redelivered forever, but say why.
		h.log.WithError(err).Warn("rejecting undecodable storage event")
		c.JSON(http.StatusOK, eventResponse{
			Status: "rejected",
			Error:  &APIError{Code: utils.CodeInvalidEvent, Message: "undecodable event payload"},
		})
		return
	}

	job, perr := h.svc.Process(c.Request.Context(), ev)
	if perr != nil {
		var ae *utils.AppError
		apiErr := &APIError{Code: utils.CodeInternal, Message: "processing failed"}
		if errors.As(perr, &ae) {
			apiErr = &APIError{Code: ae.Code, Message: ae.Message}
		}

		if utils.Retryable(perr) {
			c.JSON(http.StatusInternalServerError, eventResponse{Status: "failed", Job: job, Error: apiErr})
			return
		}
		c.JSON(http.StatusOK, eventResponse{Status: "rejected", Job: job, Error: apiErr})
		return
	}

	status := "processed"
	if job.Status == models.JobSkipped {
		status = "skipped"
	}
	c.JSON(http.StatusOK, eventResponse{Status: status, Job: job})
}

func decodeEvent(body []byte) (models.TriggerEvent, error) {
	var env pubsubEnvelope
	if err := json.Unmarshal(body, &env); err == nil && len(env.Message.Data) > 0 {
		var ev models.TriggerEvent
		if err := json.Unmarshal(env.Message.Data, &ev); err != nil {
			return models.TriggerEvent{}, err
		}
		return ev, nil
	}

	var ev models.TriggerEvent
	if err := json.Unmarshal(body, &ev); err != nil {
		return models.TriggerEvent{}, err
	}
	return ev, nil
}
