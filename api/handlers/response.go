package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/OldStager01/motortemp/pkg/models"
)

const (
	CodeServiceUnavailable = "service_unavailable"
	CodeValidation         = models.ErrorCodeValidation
	CodeInference          = models.ErrorCodeInference
	CodeBadRequest         = "bad_request"
	CodeHistoryUnavailable = "history_unavailable"
)

// ErrorResponse is the body of every failed request
type ErrorResponse struct {
	Success       bool     `json:"success" example:"false"`
	Error         string   `json:"error" example:"Missing required fields"`
	ErrorCode     string   `json:"error_code" example:"validation_error"`
	MissingFields []string `json:"missing_fields,omitempty" example:"coolant,i_q"`
	Message       string   `json:"message,omitempty"`
}

func respondError(c *gin.Context, status int, code, msg string) {
	c.AbortWithStatusJSON(status, ErrorResponse{
		Success:   false,
		Error:     msg,
		ErrorCode: code,
	})
}

func respondErrorDetail(c *gin.Context, status int, resp ErrorResponse) {
	resp.Success = false
	c.AbortWithStatusJSON(status, resp)
}
