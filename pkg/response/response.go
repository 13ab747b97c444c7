package response

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/collegetrack/collegetrack-api/internal/models"
	appErrors "github.com/collegetrack/collegetrack-api/pkg/errors"
	"github.com/collegetrack/collegetrack-api/pkg/middleware/requestid"
)

// Version is reported in every response meta block.
const Version = "1.0.0"

// Meta carries the response metadata common to all endpoints.
type Meta struct {
	Timestamp  time.Time          `json:"timestamp"`
	Version    string             `json:"version"`
	RequestID  string             `json:"request_id,omitempty"`
	Pagination *models.Pagination `json:"pagination,omitempty"`
}

// Envelope represents the common response contract.
type Envelope struct {
	Data  interface{}      `json:"data,omitempty"`
	Error *appErrors.Error `json:"error,omitempty"`
	Meta  Meta             `json:"meta"`
}

func buildMeta(c *gin.Context, pagination *models.Pagination) Meta {
	return Meta{
		Timestamp:  time.Now().UTC(),
		Version:    Version,
		RequestID:  requestid.Value(c),
		Pagination: pagination,
	}
}

// JSON sends a success response with optional pagination metadata.
func JSON(c *gin.Context, status int, data interface{}, pagination *models.Pagination) {
	c.Header("Cache-Control", "no-store")
	c.JSON(status, Envelope{Data: data, Meta: buildMeta(c, pagination)})
}

// Created responds with HTTP 201 Created.
func Created(c *gin.Context, data interface{}) {
	JSON(c, http.StatusCreated, data, nil)
}

// Error sends an error response converting the error to the common structure.
func Error(c *gin.Context, err error) {
	appErr := appErrors.FromError(err)
	c.Header("Cache-Control", "no-store")
	c.JSON(appErr.Status, Envelope{Error: appErr, Meta: buildMeta(c, nil)})
}

// NoContent sends a 204 response.
func NoContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
}
