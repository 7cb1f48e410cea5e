package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"optinet-backend/repository"
	"optinet-backend/service"

	"github.com/gin-gonic/gin"
)

// respondServiceError maps service-layer errors onto the JSON error
// envelope. notFoundMessage names the resource for 404 responses.
func respondServiceError(c *gin.Context, err error, notFoundMessage string) {
	var validation *service.ValidationError
	switch {
	case errors.As(err, &validation):
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "VALIDATION_FAILED",
				"message": validation.Error(),
			},
		})
	case errors.Is(err, service.ErrInvalidStatus):
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "INVALID_STATUS",
				"message": "Status value is not recognized",
			},
		})
	case errors.Is(err, repository.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "NOT_FOUND",
				"message": notFoundMessage,
			},
		})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "INTERNAL_ERROR",
				"message": err.Error(),
			},
		})
	}
}

// respondBadRequest reports a malformed request body or parameter.
func respondBadRequest(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, gin.H{
		"success": false,
		"error": gin.H{
			"code":    "INVALID_REQUEST",
			"message": err.Error(),
		},
	})
}

// pageParams parses the limit and offset query parameters. Missing values
// fall back to the defaults; non-numeric or negative values are rejected.
func pageParams(c *gin.Context) (limit, offset int, err error) {
	limit, err = intQuery(c, "limit", 50)
	if err != nil {
		return 0, 0, err
	}
	offset, err = intQuery(c, "offset", 0)
	if err != nil {
		return 0, 0, err
	}
	return limit, offset, nil
}

func intQuery(c *gin.Context, name string, fallback int) (int, error) {
	raw := c.Query(name)
	if raw == "" {
		return fallback, nil
	}
	value, err := strconv.Atoi(raw)
	if err != nil || value < 0 {
		return 0, fmt.Errorf("%s must be a non-negative integer", name)
	}
	return value, nil
}

// respondOK wraps data in the success envelope.
func respondOK(c *gin.Context, status int, data any) {
	c.JSON(status, gin.H{
		"success": true,
		"data":    data,
	})
}
