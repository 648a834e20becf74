package handler

import (
	"testing"

	"github.com/gin-gonic/gin"
)

// Fuel edits made while reviewing a report go through the report surface and
// hand back the rebuilt preview, so the routes must exist alongside the
// read-only ones.
func TestReportRoutesIncludeFuelEdits(t *testing.T) {
	gin.SetMode(gin.TestMode)

	r := gin.New()
	h := NewReportHandler(nil, nil, nil)
	h.RegisterRoutes(r.Group("/api/v1"))

	want := map[string]bool{
		"GET /api/v1/reports/:rep_id/preview":          false,
		"GET /api/v1/reports/:rep_id/pdf":              false,
		"PUT /api/v1/reports/:rep_id/fuel/:fuel_id":    false,
		"DELETE /api/v1/reports/:rep_id/fuel/:fuel_id": false,
	}
	for _, route := range r.Routes() {
		key := route.Method + " " + route.Path
		if _, ok := want[key]; ok {
			want[key] = true
		}
	}
	for key, seen := range want {
		if !seen {
			t.Errorf("route %s is not registered", key)
		}
	}
}
