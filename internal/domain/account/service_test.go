package account

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"maternity/internal/domain"
	"maternity/internal/pkg/apperr"
	"maternity/internal/pkg/jwt"
	"maternity/internal/testutil"
)

type recordingListener struct {
	ids []int64
}

func (l *recordingListener) ProfileChanged(_ context.Context, id int64) {
	l.ids = append(l.ids, id)
}

func setupService(t *testing.T) (*Service, *gorm.DB, *jwt.Service, *recordingListener) {
	t.Helper()
	db := testutil.NewDB(t)
	tokens := jwt.New("test-secret", time.Hour)
	listener := &recordingListener{}
	return NewService(NewRepository(db), tokens, listener, zerolog.Nop()), db, tokens, listener
}

func registerInput(username string, role domain.UserRole) RegisterInput {
	return RegisterInput{
		Username: username,
		Email:    username + "@Example.com",
		Password: "correct horse",
		UserType: role,
		City:     "Pune",
		State:    "MH",
	}
}

func TestRegisterPregnantCreatesProfile(t *testing.T) {
	svc, db, tokens, _ := setupService(t)
	ctx := context.Background()

	res, err := svc.Register(ctx, registerInput("asha", domain.RolePregnant))
	require.NoError(t, err)
	assert.Equal(t, "asha@example.com", res.User.Email)
	assert.NotEqual(t, "correct horse", res.User.PasswordHash)
	assert.Equal(t, int64(3600), res.ExpiresIn)

	claims, err := tokens.ValidateToken(res.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, res.User.ID, claims.UserID)

	var profile domain.PregnantWoman
	require.NoError(t, db.Where("user_id = ?", res.User.ID).First(&profile).Error)
	assert.Equal(t, 1, profile.PregnancyWeek)

	p, err := svc.Resolve(ctx, res.User.ID)
	require.NoError(t, err)
	role, ok := p.Role()
	assert.True(t, ok)
	assert.Equal(t, domain.RolePregnant, role)
	assert.Equal(t, profile.ID, p.PregnantID)
}

func TestRegisterCaregiverCreatesProfile(t *testing.T) {
	svc, db, _, listener := setupService(t)
	years := 6
	in := registerInput("meera", domain.RoleCaregiver)
	in.Bio = "Certified doula"
	in.HourlyRate = 30
	in.ExperienceYears = &years

	res, err := svc.Register(context.Background(), in)
	require.NoError(t, err)

	var cg domain.Caregiver
	require.NoError(t, db.Where("user_id = ?", res.User.ID).First(&cg).Error)
	assert.True(t, cg.IsAvailable)
	assert.Equal(t, 30.0, cg.HourlyRate)
	require.NotNil(t, cg.ExperienceYears)
	assert.Equal(t, 6, *cg.ExperienceYears)
	assert.Zero(t, cg.Rating)
	assert.Equal(t, []int64{cg.ID}, listener.ids)
}

func TestRegisterPregnantDoesNotNotify(t *testing.T) {
	svc, _, _, listener := setupService(t)
	_, err := svc.Register(context.Background(), registerInput("asha", domain.RolePregnant))
	require.NoError(t, err)
	assert.Empty(t, listener.ids)
}

func TestRegisterRejectsDuplicatesAndBadInput(t *testing.T) {
	svc, _, _, _ := setupService(t)
	ctx := context.Background()
	_, err := svc.Register(ctx, registerInput("asha", domain.RolePregnant))
	require.NoError(t, err)

	_, err = svc.Register(ctx, registerInput("ASHA", domain.RolePregnant))
	assert.ErrorIs(t, err, ErrUsernameTaken)

	in := registerInput("asha2", domain.RolePregnant)
	in.Email = "asha@example.com"
	_, err = svc.Register(ctx, in)
	assert.ErrorIs(t, err, ErrEmailTaken)

	in = registerInput("short", domain.RolePregnant)
	in.Password = "1234567"
	_, err = svc.Register(ctx, in)
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))

	in = registerInput("admin", "admin")
	_, err = svc.Register(ctx, in)
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))

	in = registerInput("cheap", domain.RoleCaregiver)
	in.HourlyRate = -5
	_, err = svc.Register(ctx, in)
	assert.ErrorIs(t, err, ErrNegativeHourlyRate)
}

func TestLogin(t *testing.T) {
	svc, _, _, _ := setupService(t)
	ctx := context.Background()
	_, err := svc.Register(ctx, registerInput("asha", domain.RolePregnant))
	require.NoError(t, err)

	res, err := svc.Login(ctx, LoginInput{Username: "asha", Password: "correct horse"})
	require.NoError(t, err)
	assert.NotEmpty(t, res.AccessToken)

	_, err = svc.Login(ctx, LoginInput{Username: "ASHA@example.com", Password: "correct horse"})
	require.NoError(t, err)

	_, err = svc.Login(ctx, LoginInput{Username: "asha", Password: "wrong"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	assert.Equal(t, apperr.KindUnauthorized, apperr.KindOf(err))

	_, err = svc.Login(ctx, LoginInput{Username: "nobody", Password: "whatever"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestResolveMissingUser(t *testing.T) {
	svc, _, _, _ := setupService(t)
	_, err := svc.Resolve(context.Background(), 4242)
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
}

func TestUpdateMeNotifiesOnCaregiverMove(t *testing.T) {
	svc, db, _, listener := setupService(t)
	ctx := context.Background()
	cg := testutil.CreateCaregiver(t, db, testutil.CaregiverOpts{City: "Pune"})
	p := testutil.CaregiverPrincipal(cg)

	phone := "555-0101"
	_, err := svc.UpdateMe(ctx, p, UserUpdate{PhoneNumber: &phone})
	require.NoError(t, err)
	assert.Empty(t, listener.ids)

	city := " Mumbai "
	me, err := svc.UpdateMe(ctx, p, UserUpdate{City: &city})
	require.NoError(t, err)
	assert.Equal(t, "Mumbai", me.User.City)
	assert.Equal(t, domain.RoleCaregiver, me.Role)
	assert.Equal(t, []int64{cg.ID}, listener.ids)
}

func TestPregnantProfileUpdate(t *testing.T) {
	svc, db, _, _ := setupService(t)
	ctx := context.Background()
	mother := testutil.CreatePregnant(t, db, testutil.UserOpts{})
	p := testutil.Principal(mother)

	week := 20
	due := "2026-09-30"
	conditions := []string{"gestational diabetes"}
	got, err := svc.UpdatePregnantProfile(ctx, p, PregnantUpdate{
		PregnancyWeek:     &week,
		DueDate:           &due,
		MedicalConditions: &conditions,
	})
	require.NoError(t, err)
	assert.Equal(t, 20, got.PregnancyWeek)
	require.NotNil(t, got.DueDate)
	assert.Equal(t, "2026-09-30", got.DueDate.Format("2006-01-02"))
	assert.Equal(t, conditions, got.MedicalConditions)
	require.NotNil(t, got.User)

	bad := 43
	_, err = svc.UpdatePregnantProfile(ctx, p, PregnantUpdate{PregnancyWeek: &bad})
	assert.ErrorIs(t, err, ErrInvalidPregnancyWeek)

	badDate := "30/09/2026"
	_, err = svc.UpdatePregnantProfile(ctx, p, PregnantUpdate{DueDate: &badDate})
	assert.ErrorIs(t, err, ErrInvalidDueDate)

	cg := testutil.CreateCaregiver(t, db, testutil.CaregiverOpts{})
	_, err = svc.PregnantProfile(ctx, testutil.CaregiverPrincipal(cg))
	assert.ErrorIs(t, err, ErrPregnantNotFound)
}
