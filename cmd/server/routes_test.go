package main

import (
	"context"
	"testing"

	"optinet-backend/handlers"
	"optinet-backend/models"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

type staticVerifier struct{}

func (staticVerifier) Verify(ctx context.Context, token string) (*models.User, error) {
	return &models.User{}, nil
}

func buildTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	registerRoutes(r, staticVerifier{},
		handlers.NewAuthHandler(nil),
		handlers.NewInvoiceHandler(nil),
		handlers.NewReceiptHandler(nil),
		handlers.NewBlogHandler(nil, nil),
		handlers.NewPortfolioHandler(nil, nil, nil),
		handlers.NewSettingHandler(nil),
		handlers.NewPlanHandler(),
	)
	return r
}

func TestRegisteredRoutePaths(t *testing.T) {
	r := buildTestRouter()

	registered := make(map[string]bool)
	for _, route := range r.Routes() {
		registered[route.Method+" "+route.Path] = true
	}

	expected := []string{
		"POST /api/auth/login",
		"GET /api/auth/verify",
		"POST /api/auth/refresh",
		"POST /api/auth/forgot-password",
		"POST /api/auth/reset-password",

		"GET /api/plans",

		"POST /api/invoices",
		"POST /api/invoices/lookup",
		"GET /api/invoices",
		"GET /api/invoices/analytics",
		"PATCH /api/invoices/bulk-status",
		"GET /api/invoices/:id",
		"PUT /api/invoices/:id",
		"DELETE /api/invoices/:id",
		"POST /api/invoices/:id/send",

		"GET /api/receipts",
		"POST /api/receipts/from-invoice",
		"GET /api/receipts/:id",
		"DELETE /api/receipts/:id",

		"GET /api/blog",
		"GET /api/blog/:slug",
		"POST /api/blog",
		"PUT /api/blog/:id",
		"DELETE /api/blog/:id",

		"GET /api/portfolio",
		"GET /api/portfolio/:id",
		"POST /api/portfolio",
		"PUT /api/portfolio/:id",
		"DELETE /api/portfolio/:id",

		"GET /api/settings",
		"POST /api/settings",
	}
	for _, want := range expected {
		assert.True(t, registered[want], "missing route %s", want)
	}
}
