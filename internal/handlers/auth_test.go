package handlers

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/campusclubs/venuebook-backend/internal/models"
)

func newAuthRouter(db *gorm.DB) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/auth/register", Register(db))
	return r
}

func seedRole(t *testing.T, db *gorm.DB, name string) *models.Role {
	t.Helper()
	role := models.Role{Name: name}
	if err := db.Create(&role).Error; err != nil {
		t.Fatalf("seed role %s: %v", name, err)
	}
	return &role
}

func registerPayload(username string) gin.H {
	return gin.H{
		"username": username,
		"name":     "Test User",
		"email":    username + "@campus.edu",
		"password": "hunter22",
	}
}

func TestRegisterOmittedRegistrationID(t *testing.T) {
	db := newTestDB(t)
	seedRole(t, db, "member")
	r := newAuthRouter(db)

	// Multiple users may omit the registration id; it persists as NULL
	// and never trips the unique column.
	for _, username := range []string{"amara", "devon"} {
		w := doJSON(t, r, http.MethodPost, "/auth/register", registerPayload(username))
		if w.Code != http.StatusCreated {
			t.Fatalf("register %s: got %d: %s", username, w.Code, w.Body.String())
		}
	}

	var users []models.User
	if err := db.Find(&users).Error; err != nil {
		t.Fatalf("load users: %v", err)
	}
	if len(users) != 2 {
		t.Fatalf("expected 2 users, got %d", len(users))
	}
	for _, user := range users {
		if user.RegistrationID != nil {
			t.Fatalf("expected nil registration id for %s, got %q", user.Username, *user.RegistrationID)
		}
	}

	// Present values are still unique.
	first := registerPayload("sam")
	first["registrationId"] = "REG-001"
	if w := doJSON(t, r, http.MethodPost, "/auth/register", first); w.Code != http.StatusCreated {
		t.Fatalf("register sam: got %d: %s", w.Code, w.Body.String())
	}
	dup := registerPayload("lee")
	dup["registrationId"] = "REG-001"
	if w := doJSON(t, r, http.MethodPost, "/auth/register", dup); w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for duplicate registration id, got %d: %s", w.Code, w.Body.String())
	}
}

func TestRegisterAssignsDefaultRole(t *testing.T) {
	db := newTestDB(t)
	member := seedRole(t, db, "member")
	admin := seedRole(t, db, "admin")
	r := newAuthRouter(db)

	// A client-supplied role id is ignored; public registration always
	// lands on the default role.
	payload := registerPayload("amara")
	payload["roleId"] = admin.ID
	w := doJSON(t, r, http.MethodPost, "/auth/register", payload)
	if w.Code != http.StatusCreated {
		t.Fatalf("register: got %d: %s", w.Code, w.Body.String())
	}

	var user models.User
	if err := db.Where("username = ?", "amara").First(&user).Error; err != nil {
		t.Fatalf("load user: %v", err)
	}
	if user.RoleID != member.ID {
		t.Fatalf("expected role %d (member), got %d", member.ID, user.RoleID)
	}
}

func TestRegisterWithoutDefaultRole(t *testing.T) {
	db := newTestDB(t)
	r := newAuthRouter(db)

	w := doJSON(t, r, http.MethodPost, "/auth/register", registerPayload("amara"))
	if w.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500 when the default role is missing, got %d: %s", w.Code, w.Body.String())
	}
}
