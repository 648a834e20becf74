package handler

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
	"gorm.io/gorm/utils/tests"

	"fieldtrack/internal/service"
)

type previewCacheRecorder struct {
	dropped []string
}

func (r *previewCacheRecorder) InvalidatePreview(ctx context.Context, repID uint, year, month int) error {
	r.dropped = append(r.dropped, fmt.Sprintf("%d:%04d-%02d", repID, year, month))
	return nil
}

func newFuelTestRouter(t *testing.T, userID uint) (*gin.Engine, *previewCacheRecorder) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(tests.DummyDialector{}, &gorm.Config{DryRun: true, SkipDefaultTransaction: true})
	if err != nil {
		t.Fatalf("open dry-run db: %v", err)
	}

	recorder := &previewCacheRecorder{}
	h := NewFuelHandler(service.NewFuelService(db), recorder)

	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set("userID", userID)
		c.Next()
	})
	h.RegisterRoutes(r.Group("/api/v1"))
	return r, recorder
}

// Recording a fill outside the report surface must drop that month's cached
// preview, or a later PDF download serves stale figures.
func TestAddFuelDropsCachedPreview(t *testing.T) {
	r, recorder := newFuelTestRouter(t, 7)

	body := `{"fill_date":"2024-03-05","meter_reading":5100,"liters":25}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/fuel", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
	}
	if len(recorder.dropped) != 1 || recorder.dropped[0] != "7:2024-03" {
		t.Fatalf("invalidated previews = %v, want [7:2024-03]", recorder.dropped)
	}
}

func TestAddFuelRejectsBadFillWithoutTouchingCache(t *testing.T) {
	r, recorder := newFuelTestRouter(t, 7)

	body := `{"fill_date":"2024-03-05","meter_reading":5100,"liters":900}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/fuel", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
	}
	if len(recorder.dropped) != 0 {
		t.Fatalf("invalidated previews = %v, want none on a rejected fill", recorder.dropped)
	}
}
