package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/cartamenu/carta-rag/internal/domains/chat"
	"github.com/cartamenu/carta-rag/pkg/logger"
)

type stubChatService struct {
	resp *chat.Response
	err  error
}

func (s *stubChatService) Ask(_ context.Context, _ chat.Request) (*chat.Response, error) {
	return s.resp, s.err
}

type stubEnqueuer struct {
	calls []uint
	err   error
}

func (s *stubEnqueuer) EnqueueProductEmbedding(_ context.Context, productID uint) error {
	s.calls = append(s.calls, productID)
	return s.err
}

func (s *stubEnqueuer) Close() error { return nil }

func newChatRouter(svc chat.Service, enabled bool) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	h := NewChatHandler(svc, logger.NewNop())
	r.POST("/chat", FeatureGate(enabled), h.Create)
	return r
}

func postJSON(t *testing.T, r *gin.Engine, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestChatHandlerSuccess(t *testing.T) {
	svc := &stubChatService{resp: &chat.Response{
		Answer:     "La ensalada es vegana.",
		References: []chat.Reference{{ProductID: 7, Name: "Ensalada", SimilarityScore: 0.1234}},
		SessionID:  "sess-1",
	}}
	r := newChatRouter(svc, true)

	w := postJSON(t, r, "/chat", `{"user_query":"algo vegano?","menu_id":3}`)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}

	var resp chat.Response
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	if resp.Answer != "La ensalada es vegana." || resp.SessionID != "sess-1" {
		t.Errorf("unexpected response %+v", resp)
	}
	if len(resp.References) != 1 || resp.References[0].ProductID != 7 {
		t.Errorf("unexpected references %+v", resp.References)
	}
}

func TestChatHandlerErrorMapping(t *testing.T) {
	cases := []struct {
		name       string
		err        error
		wantStatus int
		wantError  string
	}{
		{"invalid request", chat.ErrInvalidRequest, http.StatusBadRequest, "invalid request"},
		{"menu not found", chat.ErrMenuNotFound, http.StatusNotFound, "Menu not found"},
		{"provider down", chat.ErrProviderUnavailable, http.StatusServiceUnavailable, "AI service temporarily unavailable"},
		{"unexpected", errors.New("db exploded"), http.StatusInternalServerError, "An unexpected error occurred"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := newChatRouter(&stubChatService{err: tc.err}, true)
			w := postJSON(t, r, "/chat", `{"user_query":"hola","menu_id":3}`)
			if w.Code != tc.wantStatus {
				t.Fatalf("status = %d, want %d", w.Code, tc.wantStatus)
			}

			var body ErrorResponse
			if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
				t.Fatalf("unmarshal error body: %v", err)
			}
			if !strings.Contains(body.Error, tc.wantError) {
				t.Errorf("error = %q, want it to contain %q", body.Error, tc.wantError)
			}
			// Internal details never reach the client.
			if strings.Contains(w.Body.String(), "db exploded") {
				t.Errorf("upstream error leaked to client: %s", w.Body.String())
			}
		})
	}
}

func TestChatHandlerMalformedBody(t *testing.T) {
	r := newChatRouter(&stubChatService{}, true)
	w := postJSON(t, r, "/chat", `{"user_query": 42}`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
}

func TestChatHandlerFeatureDisabled(t *testing.T) {
	svc := &stubChatService{resp: &chat.Response{Answer: "no"}}
	r := newChatRouter(svc, false)

	w := postJSON(t, r, "/chat", `{"user_query":"hola","menu_id":3}`)
	if w.Code != http.StatusForbidden {
		t.Fatalf("status = %d, want 403", w.Code)
	}
	var body ErrorResponse
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal error body: %v", err)
	}
	if body.Error != "AI chat feature is not enabled" {
		t.Errorf("error = %q", body.Error)
	}
}

func TestCatalogHandlerEnqueue(t *testing.T) {
	gin.SetMode(gin.TestMode)

	t.Run("queues the product", func(t *testing.T) {
		enq := &stubEnqueuer{}
		r := gin.New()
		r.POST("/internal/products/:id/embedding", NewCatalogHandler(enq, logger.NewNop()).EnqueueEmbedding)

		w := postJSON(t, r, "/internal/products/42/embedding", "")
		if w.Code != http.StatusAccepted {
			t.Fatalf("status = %d, want 202", w.Code)
		}
		if len(enq.calls) != 1 || enq.calls[0] != 42 {
			t.Errorf("enqueue calls = %v, want [42]", enq.calls)
		}

		var resp QueuedResponse
		if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
			t.Fatalf("unmarshal response: %v", err)
		}
		if resp.Status != "queued" || resp.ProductID != 42 {
			t.Errorf("unexpected response %+v", resp)
		}
	})

	t.Run("rejects bad ids", func(t *testing.T) {
		enq := &stubEnqueuer{}
		r := gin.New()
		r.POST("/internal/products/:id/embedding", NewCatalogHandler(enq, logger.NewNop()).EnqueueEmbedding)

		for _, id := range []string{"abc", "0", "-1"} {
			w := postJSON(t, r, "/internal/products/"+id+"/embedding", "")
			if w.Code != http.StatusBadRequest {
				t.Errorf("id %q: status = %d, want 400", id, w.Code)
			}
		}
		if len(enq.calls) != 0 {
			t.Errorf("enqueue calls = %v, want none", enq.calls)
		}
	})

	t.Run("enqueue failure is a 500", func(t *testing.T) {
		enq := &stubEnqueuer{err: errors.New("redis down")}
		r := gin.New()
		r.POST("/internal/products/:id/embedding", NewCatalogHandler(enq, logger.NewNop()).EnqueueEmbedding)

		w := postJSON(t, r, "/internal/products/42/embedding", "")
		if w.Code != http.StatusInternalServerError {
			t.Fatalf("status = %d, want 500", w.Code)
		}
		if strings.Contains(w.Body.String(), "redis down") {
			t.Errorf("upstream error leaked to client: %s", w.Body.String())
		}
	})
}
