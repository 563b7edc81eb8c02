package response

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClampPage(t *testing.T) {
	tests := []struct {
		page, perPage         int
		wantPage, wantPerPage int
	}{
		{0, 0, 1, DefaultPerPage},
		{3, 25, 3, 25},
		{-2, 1000, 1, MaxPerPage},
	}
	for _, tt := range tests {
		page, perPage := ClampPage(tt.page, tt.perPage)
		assert.Equal(t, tt.wantPage, page)
		assert.Equal(t, tt.wantPerPage, perPage)
	}
}

func TestNewPagination(t *testing.T) {
	p := NewPagination(2, 10, 21)
	assert.Equal(t, 3, p.TotalPages)
	assert.Equal(t, 0, NewPagination(1, 10, 0).TotalPages)
}

func TestRequestIDMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(RequestIDMiddleware())
	r.GET("/p", func(c *gin.Context) { Fail(c, http.StatusTeapot, ErrNotFound) })

	get := func(header string) (*httptest.ResponseRecorder, Response) {
		req := httptest.NewRequest(http.MethodGet, "/p", nil)
		if header != "" {
			req.Header.Set(HeaderRequestID, header)
		}
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		var body Response
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		return w, body
	}

	const clientID = "0b9f3c2e-3f7c-4a52-9a51-6f1f3d1c8e11"
	w, body := get(clientID)
	assert.Equal(t, clientID, w.Header().Get(HeaderRequestID))
	assert.Equal(t, clientID, body.Metadata.RequestID)
	assert.Equal(t, ErrNotFound, body.Error.Code)
	assert.Equal(t, GetMessage(ErrNotFound), body.Error.Message)

	w, body = get("<script>")
	assert.NotEqual(t, "<script>", w.Header().Get(HeaderRequestID))
	assert.Equal(t, w.Header().Get(HeaderRequestID), body.Metadata.RequestID)
}
