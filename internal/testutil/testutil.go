package testutil

import (
	"bytes"
	"fmt"
	"mime/multipart"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"maternity/internal/database"
	"maternity/internal/domain"
)

var seq atomic.Int64

// NewDB opens a private in-memory SQLite database with the full schema.
func NewDB(t *testing.T) *gorm.DB {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:%s_%d?mode=memory&cache=shared", name, seq.Add(1))

	db, err := database.Connect(dsn, zerolog.Nop())
	if err != nil {
		t.Fatalf("failed to open sqlite db: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		t.Fatalf("failed to migrate db: %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}

type UserOpts struct {
	City  string
	State string
}

func CreateUser(t *testing.T, db *gorm.DB, role domain.UserRole, opts UserOpts) *domain.User {
	t.Helper()
	n := seq.Add(1)
	u := &domain.User{
		Username:     fmt.Sprintf("user%d", n),
		Email:        fmt.Sprintf("user%d@example.com", n),
		PasswordHash: "hash",
		FirstName:    "Test",
		LastName:     fmt.Sprintf("User%d", n),
		UserType:     role,
		City:         opts.City,
		State:        opts.State,
	}
	if err := db.Create(u).Error; err != nil {
		t.Fatalf("failed to create user: %v", err)
	}
	return u
}

func CreatePregnant(t *testing.T, db *gorm.DB, opts UserOpts) *domain.PregnantWoman {
	t.Helper()
	u := CreateUser(t, db, domain.RolePregnant, opts)
	p := &domain.PregnantWoman{UserID: u.ID, PregnancyWeek: 1, User: u}
	if err := db.Omit("User").Create(p).Error; err != nil {
		t.Fatalf("failed to create pregnant profile: %v", err)
	}
	return p
}

type CaregiverOpts struct {
	City        string
	State       string
	Rating      float64
	HourlyRate  float64
	Unavailable bool
}

func CreateCaregiver(t *testing.T, db *gorm.DB, opts CaregiverOpts) *domain.Caregiver {
	t.Helper()
	u := CreateUser(t, db, domain.RoleCaregiver, UserOpts{City: opts.City, State: opts.State})
	cg := &domain.Caregiver{
		UserID:      u.ID,
		HourlyRate:  opts.HourlyRate,
		IsAvailable: true,
		User:        u,
	}
	if err := db.Omit("User").Create(cg).Error; err != nil {
		t.Fatalf("failed to create caregiver: %v", err)
	}
	updates := map[string]any{"rating": opts.Rating, "is_available": !opts.Unavailable}
	if err := db.Model(&domain.Caregiver{}).Where("id = ?", cg.ID).Updates(updates).Error; err != nil {
		t.Fatalf("failed to update caregiver: %v", err)
	}
	cg.Rating = opts.Rating
	cg.IsAvailable = !opts.Unavailable
	return cg
}

func Principal(p *domain.PregnantWoman) domain.Principal {
	return domain.Principal{UserID: p.UserID, PregnantID: p.ID}
}

func CaregiverPrincipal(cg *domain.Caregiver) domain.Principal {
	return domain.Principal{UserID: cg.UserID, CaregiverID: cg.ID}
}

// PNGBytes is a minimal payload that content sniffing reports as image/png.
var PNGBytes = append([]byte("\x89PNG\r\n\x1a\n"), make([]byte, 64)...)

// FileHeader builds a multipart file header the way gin would after parsing
// a form upload.
func FileHeader(t *testing.T, field, filename string, content []byte) *multipart.FileHeader {
	t.Helper()
	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	part, err := w.CreateFormFile(field, filename)
	if err != nil {
		t.Fatalf("create form file: %v", err)
	}
	if _, err := part.Write(content); err != nil {
		t.Fatalf("write form file: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("close multipart writer: %v", err)
	}

	form, err := multipart.NewReader(&body, w.Boundary()).ReadForm(32 << 20)
	if err != nil {
		t.Fatalf("read form: %v", err)
	}
	t.Cleanup(func() { _ = form.RemoveAll() })
	return form.File[field][0]
}
