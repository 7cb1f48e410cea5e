package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"optinet-backend/service"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestListRejectsMalformedPagination(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/api/invoices", NewInvoiceHandler(service.NewInvoiceService()).List)
	r.GET("/api/blog", NewBlogHandler(nil, nil).List(true))

	tests := []struct {
		name string
		url  string
	}{
		{"non-numeric limit", "/api/invoices?limit=abc"},
		{"non-numeric offset", "/api/invoices?offset=abc"},
		{"negative limit", "/api/invoices?limit=-1"},
		{"blog non-numeric limit", "/api/blog?limit=abc"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, tt.url, nil)
			r.ServeHTTP(w, req)

			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Contains(t, w.Body.String(), "must be a non-negative integer")
		})
	}
}
