package session

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"maternity/internal/domain"
	"maternity/internal/pkg/apperr"
	"maternity/internal/pkg/pagination"
	"maternity/internal/testutil"
)

func setupService(t *testing.T) (*Service, *gorm.DB, domain.Principal) {
	t.Helper()
	db := testutil.NewDB(t)
	svc := NewService(NewRepository(db), zerolog.Nop())
	svc.now = func() time.Time { return time.Date(2026, 4, 1, 9, 0, 0, 0, time.UTC) }
	host := testutil.CaregiverPrincipal(testutil.CreateCaregiver(t, db, testutil.CaregiverOpts{}))
	return svc, db, host
}

func newSession(t *testing.T, svc *Service, host domain.Principal, capacity int) *domain.Session {
	t.Helper()
	sess, err := svc.CreateSession(context.Background(), host, CreateSessionInput{
		Title:           "Breathing for labour",
		Date:            "2026-04-20",
		StartTime:       "18:00",
		Duration:        45,
		MaxParticipants: &capacity,
	})
	require.NoError(t, err)
	return sess
}

func mother(t *testing.T, db *gorm.DB) domain.Principal {
	t.Helper()
	return testutil.Principal(testutil.CreatePregnant(t, db, testutil.UserOpts{}))
}

func TestCreateSessionRequiresSingleRole(t *testing.T) {
	svc, db, host := setupService(t)
	ctx := context.Background()
	in := CreateSessionInput{Title: "Yoga", Date: "2026-04-20", StartTime: "07:30", Duration: 60}

	sess, err := svc.CreateSession(ctx, host, in)
	require.NoError(t, err)
	assert.Equal(t, domain.RoleCaregiver, sess.HostRole)
	assert.Equal(t, 1, sess.MaxParticipants)
	assert.Equal(t, domain.SessionFree, sess.SessionType)
	assert.Equal(t, domain.SessionScheduled, sess.Status)

	m := mother(t, db)
	sess, err = svc.CreateSession(ctx, m, in)
	require.NoError(t, err)
	assert.Equal(t, domain.RolePregnant, sess.HostRole)

	both := domain.Principal{UserID: m.UserID, PregnantID: m.PregnantID, CaregiverID: host.CaregiverID}
	_, err = svc.CreateSession(ctx, both, in)
	assert.ErrorIs(t, err, ErrAmbiguousRole)
	assert.Equal(t, apperr.KindRole, apperr.KindOf(err))

	_, err = svc.CreateSession(ctx, domain.Principal{UserID: m.UserID}, in)
	assert.ErrorIs(t, err, ErrAmbiguousRole)
}

func TestCreateSessionValidation(t *testing.T) {
	svc, _, host := setupService(t)
	ctx := context.Background()
	zero := 0
	base := CreateSessionInput{Title: "Yoga", Date: "2026-04-20", StartTime: "07:30", Duration: 60}

	mutate := func(f func(*CreateSessionInput)) CreateSessionInput {
		in := base
		f(&in)
		return in
	}
	cases := map[string]struct {
		in  CreateSessionInput
		err error
	}{
		"title":       {mutate(func(in *CreateSessionInput) { in.Title = " " }), ErrTitleRequired},
		"date":        {mutate(func(in *CreateSessionInput) { in.Date = "20/04/2026" }), ErrInvalidDate},
		"time":        {mutate(func(in *CreateSessionInput) { in.StartTime = "7pm" }), ErrInvalidTime},
		"duration":    {mutate(func(in *CreateSessionInput) { in.Duration = 0 }), ErrInvalidDuration},
		"capacity":    {mutate(func(in *CreateSessionInput) { in.MaxParticipants = &zero }), ErrInvalidCapacity},
		"type":        {mutate(func(in *CreateSessionInput) { in.SessionType = "vip" }), ErrInvalidSessionType},
		"paid no fee": {mutate(func(in *CreateSessionInput) { in.SessionType = domain.SessionPaid }), ErrInvalidFee},
		"free fee":    {mutate(func(in *CreateSessionInput) { in.Fee = 10 }), ErrInvalidFee},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := svc.CreateSession(ctx, host, tc.in)
			assert.ErrorIs(t, err, tc.err)
			assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
		})
	}
}

func TestBookCapacityAndUniqueness(t *testing.T) {
	svc, db, host := setupService(t)
	ctx := context.Background()
	sess := newSession(t, svc, host, 1)
	a, b := mother(t, db), mother(t, db)

	booking, err := svc.Book(ctx, a, sess.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.BookingPending, booking.Status)

	_, err = svc.Book(ctx, a, sess.ID)
	assert.ErrorIs(t, err, ErrAlreadyBooked)
	assert.Equal(t, apperr.KindConflict, apperr.KindOf(err))

	// Pending bookings do not consume capacity.
	pendingB, err := svc.Book(ctx, b, sess.ID)
	require.NoError(t, err)

	_, err = svc.ConfirmBooking(ctx, host, booking.ID)
	require.NoError(t, err)

	c := mother(t, db)
	_, err = svc.Book(ctx, c, sess.ID)
	assert.ErrorIs(t, err, ErrSessionFull)
	assert.Equal(t, apperr.KindCapacity, apperr.KindOf(err))

	_, err = svc.ConfirmBooking(ctx, host, pendingB.ID)
	assert.ErrorIs(t, err, ErrSessionFull)

	var confirmed int64
	require.NoError(t, db.Model(&domain.SessionBooking{}).
		Where("session_id = ? AND status = ?", sess.ID, domain.BookingConfirmed).
		Count(&confirmed).Error)
	assert.Equal(t, int64(1), confirmed)
}

func TestBookRules(t *testing.T) {
	svc, db, host := setupService(t)
	ctx := context.Background()
	sess := newSession(t, svc, host, 3)

	_, err := svc.Book(ctx, host, sess.ID)
	assert.ErrorIs(t, err, ErrNoPregnantProfile)

	_, err = svc.Book(ctx, mother(t, db), 987654)
	assert.ErrorIs(t, err, ErrSessionNotFound)

	hostMother := mother(t, db)
	own, err := svc.CreateSession(ctx, hostMother, CreateSessionInput{Title: "Chat", Date: "2026-04-21", StartTime: "10:00", Duration: 30})
	require.NoError(t, err)
	_, err = svc.Book(ctx, hostMother, own.ID)
	assert.ErrorIs(t, err, ErrOwnSession)

	require.NoError(t, db.Model(&domain.Session{}).Where("id = ?", sess.ID).Update("status", domain.SessionCancelled).Error)
	_, err = svc.Book(ctx, mother(t, db), sess.ID)
	assert.ErrorIs(t, err, ErrSessionClosed)
}

func TestBookingLifecycle(t *testing.T) {
	svc, db, host := setupService(t)
	ctx := context.Background()
	sess := newSession(t, svc, host, 2)
	m := mother(t, db)

	b, err := svc.Book(ctx, m, sess.ID)
	require.NoError(t, err)

	_, err = svc.ConfirmBooking(ctx, m, b.ID)
	assert.ErrorIs(t, err, ErrActionForbidden)

	_, err = svc.CompleteBooking(ctx, host, b.ID)
	assert.ErrorIs(t, err, ErrInvalidTransition)

	got, err := svc.ConfirmBooking(ctx, host, b.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.BookingConfirmed, got.Status)

	got, err = svc.MarkPaid(ctx, m, b.ID, "pay_123")
	require.NoError(t, err)
	assert.True(t, got.PaymentStatus)
	assert.Equal(t, "pay_123", got.PaymentID)

	_, err = svc.MarkPaid(ctx, mother(t, db), b.ID, "pay_999")
	assert.ErrorIs(t, err, ErrNotParticipant)
	_, err = svc.MarkPaid(ctx, m, b.ID, " ")
	assert.ErrorIs(t, err, ErrPaymentIDRequired)

	got, err = svc.CompleteBooking(ctx, host, b.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.BookingCompleted, got.Status)

	_, err = svc.CancelBooking(ctx, m, b.ID)
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestCancelFreesCapacity(t *testing.T) {
	svc, db, host := setupService(t)
	ctx := context.Background()
	sess := newSession(t, svc, host, 1)
	first, second := mother(t, db), mother(t, db)

	b1, err := svc.Book(ctx, first, sess.ID)
	require.NoError(t, err)
	_, err = svc.ConfirmBooking(ctx, host, b1.ID)
	require.NoError(t, err)

	_, err = svc.CancelBooking(ctx, first, b1.ID)
	require.NoError(t, err)

	b2, err := svc.Book(ctx, second, sess.ID)
	require.NoError(t, err)
	_, err = svc.ConfirmBooking(ctx, host, b2.ID)
	require.NoError(t, err)
}

func TestConcurrentBookingNeverExceedsCapacity(t *testing.T) {
	svc, db, host := setupService(t)
	ctx := context.Background()
	const capacity = 3
	sess := newSession(t, svc, host, capacity)

	participants := make([]domain.Principal, 10)
	for i := range participants {
		participants[i] = mother(t, db)
	}

	var wg sync.WaitGroup
	for _, p := range participants {
		wg.Add(1)
		go func(p domain.Principal) {
			defer wg.Done()
			b, err := svc.Book(ctx, p, sess.ID)
			if err != nil {
				return
			}
			_, _ = svc.ConfirmBooking(ctx, host, b.ID)
		}(p)
	}
	wg.Wait()

	var confirmed int64
	require.NoError(t, db.Model(&domain.SessionBooking{}).
		Where("session_id = ? AND status = ?", sess.ID, domain.BookingConfirmed).
		Count(&confirmed).Error)
	assert.Equal(t, int64(capacity), confirmed)
}

func TestConcurrentDuplicateBookingsFail(t *testing.T) {
	svc, db, host := setupService(t)
	ctx := context.Background()
	sess := newSession(t, svc, host, 5)
	m := mother(t, db)

	var wg sync.WaitGroup
	errs := make([]error, 8)
	for i := range errs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = svc.Book(ctx, m, sess.ID)
		}(i)
	}
	wg.Wait()

	succeeded := 0
	for _, err := range errs {
		if err == nil {
			succeeded++
			continue
		}
		assert.ErrorIs(t, err, ErrAlreadyBooked)
	}
	assert.Equal(t, 1, succeeded)
}

func TestListings(t *testing.T) {
	svc, db, host := setupService(t)
	ctx := context.Background()
	pg := pagination.Params{Limit: 10}

	cheap := newSession(t, svc, host, 2)
	paid, err := svc.CreateSession(ctx, host, CreateSessionInput{
		Title: "Lactation clinic", SessionType: domain.SessionPaid, Fee: 25,
		Date: "2026-04-10", StartTime: "11:00", Duration: 60,
	})
	require.NoError(t, err)

	items, total, err := svc.ListSessions(ctx, SessionFilter{}, pg)
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	assert.Equal(t, paid.ID, items[0].ID)

	items, _, err = svc.ListSessions(ctx, SessionFilter{Type: domain.SessionPaid}, pg)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, paid.ID, items[0].ID)

	items, _, err = svc.ListSessions(ctx, SessionFilter{Ordering: "-fee"}, pg)
	require.NoError(t, err)
	assert.Equal(t, []int64{paid.ID, cheap.ID}, []int64{items[0].ID, items[1].ID})

	_, _, err = svc.ListSessions(ctx, SessionFilter{Ordering: "title"}, pg)
	assert.ErrorIs(t, err, ErrInvalidOrdering)

	m := mother(t, db)
	_, err = svc.Book(ctx, m, cheap.ID)
	require.NoError(t, err)
	_, err = svc.Book(ctx, m, paid.ID)
	require.NoError(t, err)

	mine, total, err := svc.ListBookings(ctx, m, false, "", pg)
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	assert.NotNil(t, mine[0].Session)

	_, total, err = svc.ListBookings(ctx, host, true, "pending", pg)
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)

	_, total, err = svc.ListBookings(ctx, host, false, "", pg)
	require.NoError(t, err)
	assert.Zero(t, total)

	_, _, err = svc.ListBookings(ctx, m, false, "lost", pg)
	assert.ErrorIs(t, err, ErrInvalidStatus)
}
