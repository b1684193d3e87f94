package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/campusclubs/venuebook-backend/internal/authz"
	"github.com/campusclubs/venuebook-backend/internal/database"
	"github.com/campusclubs/venuebook-backend/internal/middleware"
	"github.com/campusclubs/venuebook-backend/internal/models"
	"github.com/campusclubs/venuebook-backend/internal/workflow"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}
	if err := database.RunMigrations(db); err != nil {
		t.Fatalf("failed to migrate test db: %v", err)
	}
	return db
}

// injectPrincipal stands in for AuthMiddleware so tests can skip the
// token and session plumbing. A nil principal leaves the request
// unauthenticated.
func injectPrincipal(principal *authz.Principal) gin.HandlerFunc {
	return func(c *gin.Context) {
		if principal != nil {
			middleware.SetPrincipal(c, principal)
		}
		c.Next()
	}
}

func newBookingRouter(db *gorm.DB, svc *workflow.Service, principal *authz.Principal) *gin.Engine {
	gin.SetMode(gin.TestMode)
	evaluator := authz.NewEvaluator(nil)
	require := func(subject, action string) gin.HandlerFunc {
		return middleware.RequirePermission(evaluator, authz.Ref{Subject: subject, Action: action})
	}

	r := gin.New()
	r.Use(injectPrincipal(principal))
	r.POST("/bookings", require(models.SubjectVenue, models.ActionWrite), CreateBooking(db, svc))
	r.GET("/bookings/:id", require(models.SubjectVenue, models.ActionRead), GetBookingByID(svc))
	r.POST("/approvals/:id/approve", require(models.SubjectVenue, models.ActionApprove), ApproveBooking(db, svc))
	r.POST("/approvals/:id/reject", require(models.SubjectVenue, models.ActionReject), RejectBooking(db, svc))
	r.GET("/approvals/:id/history", require(models.SubjectVenue, models.ActionRead), GetApprovalHistory(svc))
	return r
}

func doJSON(t *testing.T, r *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func approverPrincipal() *authz.Principal {
	return &authz.Principal{
		UserID:   7,
		Username: "dean",
		RoleName: "coordinator",
		Permissions: []authz.Ref{
			{Subject: models.SubjectVenue, Action: models.ActionRead},
			{Subject: models.SubjectVenue, Action: models.ActionWrite},
			{Subject: models.SubjectVenue, Action: models.ActionApprove},
			{Subject: models.SubjectVenue, Action: models.ActionReject},
		},
	}
}

func createBookingPayload(venueID uint) gin.H {
	return gin.H{
		"venueId":           venueID,
		"eventType":         "practice",
		"bookingDate":       "2025-06-01T00:00:00Z",
		"durationInMinutes": 60,
		"slots": []gin.H{
			{"date": "2025-06-01", "startTime": "10:00", "endTime": "11:00"},
		},
	}
}

func TestCreateBookingEndpoint(t *testing.T) {
	db := newTestDB(t)
	svc := workflow.NewService(db, workflow.DefaultStages)
	venue := models.Venue{Name: "Main Hall", Address: "1 Campus Way"}
	if err := db.Create(&venue).Error; err != nil {
		t.Fatalf("create venue: %v", err)
	}
	r := newBookingRouter(db, svc, approverPrincipal())

	w := doJSON(t, r, http.MethodPost, "/bookings", createBookingPayload(venue.ID))
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}

	// The same interval again is a conflict.
	w = doJSON(t, r, http.MethodPost, "/bookings", gin.H{
		"venueId":           venue.ID,
		"bookingDate":       "2025-06-01T00:00:00Z",
		"durationInMinutes": 60,
		"slots": []gin.H{
			{"date": "2025-06-01", "startTime": "10:30", "endTime": "11:30"},
		},
	})
	if w.Code != http.StatusConflict {
		t.Fatalf("expected 409 for overlapping slot, got %d: %s", w.Code, w.Body.String())
	}
}

func TestApprovalEndpoints(t *testing.T) {
	db := newTestDB(t)
	svc := workflow.NewService(db, workflow.DefaultStages)
	venue := models.Venue{Name: "Main Hall", Address: "1 Campus Way"}
	if err := db.Create(&venue).Error; err != nil {
		t.Fatalf("create venue: %v", err)
	}
	r := newBookingRouter(db, svc, approverPrincipal())

	w := doJSON(t, r, http.MethodPost, "/bookings", createBookingPayload(venue.ID))
	if w.Code != http.StatusCreated {
		t.Fatalf("create booking: got %d: %s", w.Code, w.Body.String())
	}
	var created models.Booking
	if err := json.Unmarshal(w.Body.Bytes(), &created); err != nil {
		t.Fatalf("decode booking: %v", err)
	}

	// Approve with no body advances the stage.
	w = doJSON(t, r, http.MethodPost, fmt.Sprintf("/approvals/%d/approve", created.ID), nil)
	if w.Code != http.StatusOK {
		t.Fatalf("approve: got %d: %s", w.Code, w.Body.String())
	}
	var resp struct {
		CurrentStage int                  `json:"currentStage"`
		Status       models.BookingStatus `json:"status"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode approve response: %v", err)
	}
	if resp.CurrentStage != 1 || resp.Status != models.BookingStatusPending {
		t.Fatalf("expected pending at stage 1, got %+v", resp)
	}

	// Reject without comments is a domain-rule violation.
	w = doJSON(t, r, http.MethodPost, fmt.Sprintf("/approvals/%d/reject", created.ID), gin.H{})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for reject without comments, got %d: %s", w.Code, w.Body.String())
	}

	w = doJSON(t, r, http.MethodPost, fmt.Sprintf("/approvals/%d/reject", created.ID), gin.H{"comments": "fire inspection that day"})
	if w.Code != http.StatusOK {
		t.Fatalf("reject: got %d: %s", w.Code, w.Body.String())
	}

	// Terminal booking can no longer be approved.
	w = doJSON(t, r, http.MethodPost, fmt.Sprintf("/approvals/%d/approve", created.ID), nil)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 approving rejected booking, got %d: %s", w.Code, w.Body.String())
	}

	w = doJSON(t, r, http.MethodGet, fmt.Sprintf("/approvals/%d/history", created.ID), nil)
	if w.Code != http.StatusOK {
		t.Fatalf("history: got %d: %s", w.Code, w.Body.String())
	}
	var history []models.BookingApproval
	if err := json.Unmarshal(w.Body.Bytes(), &history); err != nil {
		t.Fatalf("decode history: %v", err)
	}
	if len(history) != 2 {
		t.Fatalf("expected 2 history entries, got %d", len(history))
	}
}

func TestApprovalAuthGates(t *testing.T) {
	db := newTestDB(t)
	svc := workflow.NewService(db, workflow.DefaultStages)

	// Unauthenticated request.
	r := newBookingRouter(db, svc, nil)
	w := doJSON(t, r, http.MethodPost, "/approvals/1/approve", nil)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without a principal, got %d", w.Code)
	}

	// Authenticated but missing the approve grant.
	reader := &authz.Principal{
		UserID:      8,
		Username:    "sam",
		RoleName:    "member",
		Permissions: []authz.Ref{{Subject: models.SubjectVenue, Action: models.ActionRead}},
	}
	r = newBookingRouter(db, svc, reader)
	w = doJSON(t, r, http.MethodPost, "/approvals/1/approve", nil)
	if w.Code != http.StatusForbidden {
		t.Fatalf("expected 403 without approve grant, got %d", w.Code)
	}
}

func TestGetBookingNotFound(t *testing.T) {
	db := newTestDB(t)
	svc := workflow.NewService(db, workflow.DefaultStages)
	r := newBookingRouter(db, svc, approverPrincipal())

	w := doJSON(t, r, http.MethodGet, "/bookings/999", nil)
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d: %s", w.Code, w.Body.String())
	}
	w = doJSON(t, r, http.MethodGet, "/bookings/not-a-number", nil)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for bad id, got %d: %s", w.Code, w.Body.String())
	}
}
