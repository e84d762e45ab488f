package handler

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"

	"github.com/julienschmidt/httprouter"

	"github.com/vfg2006/sales-sync-api/internal/domain"
	"github.com/vfg2006/sales-sync-api/pkg/middleware"
)

const testUserID = "user-1"

func withUser(r *http.Request) *http.Request {
	claims := &domain.Claims{UserID: testUserID, UserRoleID: middleware.RoleClient}
	return r.WithContext(context.WithValue(r.Context(), middleware.ContextKeyUser, claims))
}

func withParams(r *http.Request, params ...httprouter.Param) *http.Request {
	return r.WithContext(context.WithValue(r.Context(), httprouter.ParamsKey, httprouter.Params(params)))
}

func newRequest(method, target, body string) *http.Request {
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	return httptest.NewRequest(method, target, reader)
}

func serve(h http.Handler, r *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, r)
	return rec
}
