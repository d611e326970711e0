package middleware_test

import (
	"net/http"
	"net/http/httptest"

	"github.com/gofiber/fiber/v2"
)

type httptestRequest struct {
	req *http.Request
}

func newRequest() *httptestRequest {
	return &httptestRequest{req: httptest.NewRequest(fiber.MethodGet, "/", nil)}
}

func (r *httptestRequest) header(key, value string) *httptestRequest {
	r.req.Header.Set(key, value)
	return r
}
