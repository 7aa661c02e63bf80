package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/quillsign/quillsign/internal/app/middleware"
	"github.com/quillsign/quillsign/internal/domain/services"
)

// BaseHandler provides common functionality for all handlers
type BaseHandler struct {
	config *HandlerConfig
}

// NewBaseHandler creates a new base handler
func NewBaseHandler() *BaseHandler {
	return &BaseHandler{
		config: NewHandlerConfig(),
	}
}

// AuthenticateUser extracts the identity attached by the auth middleware
func (b *BaseHandler) AuthenticateUser(c *gin.Context) (services.Identity, bool) {
	identity, ok := middleware.GetIdentity(c)
	if !ok {
		b.RespondUnauthorized(c, "User authentication required")
		return services.Identity{}, false
	}
	return identity, true
}

// RespondError sends a standardized error response
func (b *BaseHandler) RespondError(c *gin.Context, statusCode int, errorCode, message string, details ...string) {
	response := ErrorResponse{
		Error:   errorCode,
		Message: message,
		Status:  statusCode,
	}

	if len(details) > 0 && b.config.EnableDebugErrors {
		response.Details = details[0]
	}

	c.JSON(statusCode, response)
}

// RespondUnauthorized sends a standardized unauthorized response
func (b *BaseHandler) RespondUnauthorized(c *gin.Context, message string) {
	b.RespondError(c, http.StatusUnauthorized, "unauthorized", message)
}

// RespondBadRequest sends a standardized bad request response
func (b *BaseHandler) RespondBadRequest(c *gin.Context, message string, details ...string) {
	b.RespondError(c, http.StatusBadRequest, "invalid_request", message, details...)
}

// RespondNotFound sends a standardized not found response
func (b *BaseHandler) RespondNotFound(c *gin.Context, message string) {
	b.RespondError(c, http.StatusNotFound, "not_found", message)
}

// RespondConflict sends a standardized conflict response
func (b *BaseHandler) RespondConflict(c *gin.Context, message string) {
	b.RespondError(c, http.StatusConflict, "conflict", message)
}

// RespondInternalError sends a standardized internal server error response
func (b *BaseHandler) RespondInternalError(c *gin.Context, message string, details ...string) {
	b.RespondError(c, http.StatusInternalServerError, "internal_error", message, details...)
}

// RespondSuccess sends a standardized success response
func (b *BaseHandler) RespondSuccess(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, data)
}

// RespondCreated sends a standardized created response
func (b *BaseHandler) RespondCreated(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, data)
}

// ParsePageSize reads the optional page_size query parameter. Zero means
// the caller wants everything.
func (b *BaseHandler) ParsePageSize(c *gin.Context) int {
	raw := c.Query("page_size")
	if raw == "" {
		return 0
	}
	size, err := strconv.Atoi(raw)
	if err != nil {
		return b.config.DefaultPageSize
	}
	return b.config.ValidatePageSize(size)
}

// ValidateUUID validates UUID parameter and responds with error if invalid
func (b *BaseHandler) ValidateUUID(c *gin.Context, paramName, uuidStr string) (uuid.UUID, bool) {
	id, err := uuid.Parse(uuidStr)
	if err != nil {
		b.RespondBadRequest(c, "Invalid "+paramName+" format")
		return uuid.Nil, false
	}
	return id, true
}

// RespondDomainError maps a domain error to its HTTP status and responds
func (b *BaseHandler) RespondDomainError(c *gin.Context, err error) {
	status, code := classifyError(err)
	b.RespondError(c, status, code, err.Error())
}
