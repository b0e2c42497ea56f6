package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Qwerty0x64/Slim/pkg/common"
	"go.uber.org/zap"
)

func okTerminal(body string) common.Handler {
	return common.HandlerFunc(func(r *http.Request) (*common.Response, error) {
		return common.TextResponse(http.StatusOK, body), nil
	})
}

// TestRecovery tests that a panicking handler is converted into a 500
// response instead of crashing the pipeline
func TestRecovery(t *testing.T) {
	panicking := common.HandlerFunc(func(r *http.Request) (*common.Response, error) {
		panic("boom")
	})

	h := Recovery(zap.NewNop())(panicking)
	res, err := h.Handle(httptest.NewRequest("GET", "/", nil))
	if err != nil {
		t.Fatalf("Expected the panic to be converted, got error %v", err)
	}
	if res.Status() != http.StatusInternalServerError {
		t.Errorf("Expected status 500, got %d", res.Status())
	}
}

// TestRecoveryPassThrough tests that a healthy handler is unaffected
func TestRecoveryPassThrough(t *testing.T) {
	h := Recovery(zap.NewNop())(okTerminal("fine"))
	res, err := h.Handle(httptest.NewRequest("GET", "/", nil))
	if err != nil {
		t.Fatalf("Handle failed: %v", err)
	}
	if string(res.Body()) != "fine" {
		t.Errorf("Expected body %q, got %q", "fine", string(res.Body()))
	}
}

// TestLoggingPassThrough tests that the logging middleware forwards both
// responses and errors unchanged
func TestLoggingPassThrough(t *testing.T) {
	h := Logging(zap.NewNop())(okTerminal("logged"))
	res, err := h.Handle(httptest.NewRequest("GET", "/", nil))
	if err != nil {
		t.Fatalf("Handle failed: %v", err)
	}
	if string(res.Body()) != "logged" {
		t.Errorf("Expected body %q, got %q", "logged", string(res.Body()))
	}

	wantErr := errors.New("downstream")
	failing := common.HandlerFunc(func(r *http.Request) (*common.Response, error) {
		return nil, wantErr
	})
	if _, err := Logging(zap.NewNop())(failing).Handle(httptest.NewRequest("GET", "/", nil)); !errors.Is(err, wantErr) {
		t.Errorf("Expected the downstream error, got %v", err)
	}
}

// TestChain tests that Chain composes middleware with the first argument
// outermost
func TestChain(t *testing.T) {
	var order []string
	tag := func(name string) Middleware {
		return func(next common.Handler) common.Handler {
			return common.HandlerFunc(func(r *http.Request) (*common.Response, error) {
				order = append(order, name)
				return next.Handle(r)
			})
		}
	}

	h := Chain(tag("a"), tag("b"))(okTerminal("ok"))
	if _, err := h.Handle(httptest.NewRequest("GET", "/", nil)); err != nil {
		t.Fatalf("Handle failed: %v", err)
	}
	if len(order) != 2 || order[0] != "a" || order[1] != "b" {
		t.Errorf("Expected order [a b], got %v", order)
	}
}
