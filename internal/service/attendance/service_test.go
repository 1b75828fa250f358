package attendance

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/cmlabs-hris/attendance-backend-go/internal/config"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/office"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/jwt"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/validator"
	"github.com/go-chi/jwtauth/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRecordRepo struct {
	mu      sync.Mutex
	nextID  int
	records map[string]attendance.Record
}

func newFakeRecordRepo() *fakeRecordRepo {
	return &fakeRecordRepo{records: make(map[string]attendance.Record)}
}

func recordKey(userID string, date time.Time) string {
	return userID + "|" + date.Format("2006-01-02")
}

// Create mirrors the database upsert: one row per (user_id, date), and a
// second check-in against a row that already has a clock-in loses.
func (f *fakeRecordRepo) Create(_ context.Context, rec attendance.Record) (attendance.Record, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	key := recordKey(rec.UserID, rec.Date)
	if existing, ok := f.records[key]; ok && existing.ClockInTime != nil {
		return attendance.Record{}, attendance.ErrAlreadyCheckedIn
	}

	f.nextID++
	rec.ID = fmt.Sprintf("rec-%d", f.nextID)
	rec.CreatedAt = time.Now()
	rec.UpdatedAt = rec.CreatedAt
	f.records[key] = rec
	return rec, nil
}

func (f *fakeRecordRepo) Update(_ context.Context, rec attendance.Record) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	for key, existing := range f.records {
		if existing.ID == rec.ID {
			rec.UpdatedAt = time.Now()
			f.records[key] = rec
			return nil
		}
	}
	return attendance.ErrRecordNotFound
}

func (f *fakeRecordRepo) GetByUserAndDate(_ context.Context, userID string, date time.Time) (*attendance.Record, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if rec, ok := f.records[recordKey(userID, date)]; ok {
		cp := rec
		return &cp, nil
	}
	return nil, nil
}

func (f *fakeRecordRepo) ListByDate(_ context.Context, date time.Time, _ *string) ([]attendance.Record, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var out []attendance.Record
	for _, rec := range f.records {
		if rec.Date.Equal(date) {
			out = append(out, rec)
		}
	}
	return out, nil
}

func (f *fakeRecordRepo) ListRange(_ context.Context, start, end time.Time, _, userID *string) ([]attendance.Record, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var out []attendance.Record
	for _, rec := range f.records {
		if rec.Date.Before(start) || rec.Date.After(end) {
			continue
		}
		if userID != nil && rec.UserID != *userID {
			continue
		}
		out = append(out, rec)
	}
	return out, nil
}

func (f *fakeRecordRepo) ListByUser(_ context.Context, userID string, start, end *time.Time, page, limit int) ([]attendance.Record, int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var matched []attendance.Record
	for _, rec := range f.records {
		if rec.UserID != userID {
			continue
		}
		if start != nil && rec.Date.Before(*start) {
			continue
		}
		if end != nil && rec.Date.After(*end) {
			continue
		}
		matched = append(matched, rec)
	}

	total := int64(len(matched))
	offset := (page - 1) * limit
	if offset >= len(matched) {
		return nil, total, nil
	}
	endIdx := offset + limit
	if endIdx > len(matched) {
		endIdx = len(matched)
	}
	return matched[offset:endIdx], total, nil
}

type fakeOfficeRepo struct {
	offices []office.Office
}

func (f *fakeOfficeRepo) Create(_ context.Context, o office.Office) (office.Office, error) {
	f.offices = append(f.offices, o)
	return o, nil
}

func (f *fakeOfficeRepo) GetByID(_ context.Context, id string) (office.Office, error) {
	for _, o := range f.offices {
		if o.ID == id {
			return o, nil
		}
	}
	return office.Office{}, office.ErrOfficeNotFound
}

func (f *fakeOfficeRepo) List(_ context.Context, activeOnly bool) ([]office.Office, error) {
	if !activeOnly {
		return f.offices, nil
	}
	var out []office.Office
	for _, o := range f.offices {
		if o.IsActive {
			out = append(out, o)
		}
	}
	return out, nil
}

func (f *fakeOfficeRepo) Update(_ context.Context, _ office.UpdateOfficeRequest) error { return nil }
func (f *fakeOfficeRepo) Delete(_ context.Context, _ string) error                    { return nil }

type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *fakeClock) Set(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = t
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(d)
}

var testJWTService = jwt.NewJWTService("test-secret", "1h")

// authContext issues a real access token and decodes it back, so the claims
// the service sees are exactly what the production token carries.
func authContext(t *testing.T, userID string, branchID *string) context.Context {
	t.Helper()

	tokenString, _, err := testJWTService.GenerateAccessToken(userID, user.RoleEmployee, nil, branchID)
	require.NoError(t, err)

	token, err := testJWTService.JWTAuth().Decode(tokenString)
	require.NoError(t, err)

	return jwtauth.NewContext(context.Background(), token, nil)
}

func hqOffice() office.Office {
	return office.Office{
		ID:            "office-hq",
		Name:          "Headquarters",
		Latitude:      17.4,
		Longitude:     78.5,
		RadiusMeters:  100,
		IsActive:      true,
		WorkStartTime: "09:00",
		WorkEndTime:   "18:00",
		Timezone:      "UTC",
		CycleType:     office.CycleCalendar,
	}
}

func newTestService(policy string, clk *fakeClock) (attendance.Service, *fakeRecordRepo, *fakeOfficeRepo) {
	recordRepo := newFakeRecordRepo()
	officeRepo := &fakeOfficeRepo{offices: []office.Office{hqOffice()}}
	cfg := config.AttendanceConfig{CheckInPolicy: policy, DefaultTimezone: "UTC"}
	svc := NewAttendanceService(nil, recordRepo, officeRepo, cfg, clk.Now)
	return svc, recordRepo, officeRepo
}

func floatPtr(v float64) *float64 { return &v }
func strPtr(s string) *string     { return &s }

func TestCheckInWithinOffice(t *testing.T) {
	clk := &fakeClock{t: time.Date(2025, 3, 10, 8, 55, 0, 0, time.UTC)}
	svc, _, _ := newTestService(config.PolicyAllowRemote, clk)
	ctx := authContext(t, "user-1", strPtr("office-hq"))

	resp, err := svc.CheckIn(ctx, attendance.CheckInRequest{
		Latitude:  floatPtr(17.4),
		Longitude: floatPtr(78.5),
	})
	require.NoError(t, err)

	assert.True(t, resp.Record.IsWithinOffice)
	assert.Equal(t, attendance.StatusClockedIn, resp.Record.Status)
	assert.Equal(t, "2025-03-10", resp.Record.Date)
	require.NotNil(t, resp.NearestOfficeID)
	assert.Equal(t, "office-hq", *resp.NearestOfficeID)
	require.NotNil(t, resp.DistanceMeters)
	assert.InDelta(t, 0, *resp.DistanceMeters, 0.01)
}

func TestCheckInOutsideOfficeAllowRemote(t *testing.T) {
	clk := &fakeClock{t: time.Date(2025, 3, 10, 8, 55, 0, 0, time.UTC)}
	svc, _, _ := newTestService(config.PolicyAllowRemote, clk)
	ctx := authContext(t, "user-1", strPtr("office-hq"))

	// About 5.5 km north of the office.
	resp, err := svc.CheckIn(ctx, attendance.CheckInRequest{
		Latitude:  floatPtr(17.45),
		Longitude: floatPtr(78.5),
	})
	require.NoError(t, err)

	assert.False(t, resp.Record.IsWithinOffice)
	assert.Equal(t, attendance.StatusClockedIn, resp.Record.Status)
	require.NotNil(t, resp.DistanceMeters)
	assert.Greater(t, *resp.DistanceMeters, 5000.0)
}

func TestCheckInOutsideOfficeRejectPolicy(t *testing.T) {
	clk := &fakeClock{t: time.Date(2025, 3, 10, 8, 55, 0, 0, time.UTC)}
	svc, _, _ := newTestService(config.PolicyReject, clk)
	ctx := authContext(t, "user-1", strPtr("office-hq"))

	_, err := svc.CheckIn(ctx, attendance.CheckInRequest{
		Latitude:  floatPtr(17.45),
		Longitude: floatPtr(78.5),
	})
	assert.ErrorIs(t, err, attendance.ErrOutsideOfficeRadius)
}

func TestCheckInRejectPolicyNoActiveOffice(t *testing.T) {
	clk := &fakeClock{t: time.Date(2025, 3, 10, 8, 55, 0, 0, time.UTC)}
	recordRepo := newFakeRecordRepo()
	officeRepo := &fakeOfficeRepo{}
	cfg := config.AttendanceConfig{CheckInPolicy: config.PolicyReject, DefaultTimezone: "UTC"}
	svc := NewAttendanceService(nil, recordRepo, officeRepo, cfg, clk.Now)
	ctx := authContext(t, "user-1", nil)

	_, err := svc.CheckIn(ctx, attendance.CheckInRequest{
		Latitude:  floatPtr(17.4),
		Longitude: floatPtr(78.5),
	})
	assert.ErrorIs(t, err, attendance.ErrNoActiveOffice)
}

func TestCheckInMissingCoordinates(t *testing.T) {
	clk := &fakeClock{t: time.Date(2025, 3, 10, 8, 55, 0, 0, time.UTC)}
	svc, _, _ := newTestService(config.PolicyAllowRemote, clk)
	ctx := authContext(t, "user-1", nil)

	_, err := svc.CheckIn(ctx, attendance.CheckInRequest{})
	require.Error(t, err)

	var verrs validator.ValidationErrors
	require.ErrorAs(t, err, &verrs)
	assert.Contains(t, verrs.ToMap(), "latitude")
	assert.Contains(t, verrs.ToMap(), "longitude")
}

func TestCheckInTwiceSameDay(t *testing.T) {
	clk := &fakeClock{t: time.Date(2025, 3, 10, 8, 55, 0, 0, time.UTC)}
	svc, _, _ := newTestService(config.PolicyAllowRemote, clk)
	ctx := authContext(t, "user-1", strPtr("office-hq"))

	req := attendance.CheckInRequest{Latitude: floatPtr(17.4), Longitude: floatPtr(78.5)}

	_, err := svc.CheckIn(ctx, req)
	require.NoError(t, err)

	clk.Advance(2 * time.Hour)
	_, err = svc.CheckIn(ctx, req)
	assert.ErrorIs(t, err, attendance.ErrAlreadyCheckedIn)
}

func TestCheckInConcurrentSameDay(t *testing.T) {
	clk := &fakeClock{t: time.Date(2025, 3, 10, 8, 55, 0, 0, time.UTC)}
	svc, _, _ := newTestService(config.PolicyAllowRemote, clk)
	ctx := authContext(t, "user-1", strPtr("office-hq"))

	const attempts = 16
	errs := make(chan error, attempts)

	var wg sync.WaitGroup
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.CheckIn(ctx, attendance.CheckInRequest{
				Latitude:  floatPtr(17.4),
				Longitude: floatPtr(78.5),
			})
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	var succeeded, conflicted int
	for err := range errs {
		switch {
		case err == nil:
			succeeded++
		case err == attendance.ErrAlreadyCheckedIn:
			conflicted++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}

	assert.Equal(t, 1, succeeded)
	assert.Equal(t, attempts-1, conflicted)
}

func TestCheckOutHappyPath(t *testing.T) {
	clk := &fakeClock{t: time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)}
	svc, _, _ := newTestService(config.PolicyAllowRemote, clk)
	ctx := authContext(t, "user-1", strPtr("office-hq"))

	_, err := svc.CheckIn(ctx, attendance.CheckInRequest{
		Latitude:  floatPtr(17.4),
		Longitude: floatPtr(78.5),
	})
	require.NoError(t, err)

	clk.Advance(8*time.Hour + 30*time.Minute)
	resp, err := svc.CheckOut(ctx, attendance.CheckOutRequest{
		Latitude:  floatPtr(17.4),
		Longitude: floatPtr(78.5),
	})
	require.NoError(t, err)

	assert.Equal(t, 8.5, resp.TotalHours)
	assert.True(t, resp.CheckOutWithinOffice)
	assert.Equal(t, attendance.StatusClockedOut, resp.Record.Status)
}

func TestCheckOutWithoutCheckIn(t *testing.T) {
	clk := &fakeClock{t: time.Date(2025, 3, 10, 17, 0, 0, 0, time.UTC)}
	svc, _, _ := newTestService(config.PolicyAllowRemote, clk)
	ctx := authContext(t, "user-1", strPtr("office-hq"))

	_, err := svc.CheckOut(ctx, attendance.CheckOutRequest{
		Latitude:  floatPtr(17.4),
		Longitude: floatPtr(78.5),
	})
	assert.ErrorIs(t, err, attendance.ErrNotCheckedIn)
}

func TestCheckOutTwice(t *testing.T) {
	clk := &fakeClock{t: time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)}
	svc, _, _ := newTestService(config.PolicyAllowRemote, clk)
	ctx := authContext(t, "user-1", strPtr("office-hq"))

	req := attendance.CheckOutRequest{Latitude: floatPtr(17.4), Longitude: floatPtr(78.5)}

	_, err := svc.CheckIn(ctx, attendance.CheckInRequest{
		Latitude:  floatPtr(17.4),
		Longitude: floatPtr(78.5),
	})
	require.NoError(t, err)

	clk.Advance(8 * time.Hour)
	_, err = svc.CheckOut(ctx, req)
	require.NoError(t, err)

	clk.Advance(time.Hour)
	_, err = svc.CheckOut(ctx, req)
	assert.ErrorIs(t, err, attendance.ErrAlreadyCheckedOut)
}

func TestCheckOutNegativeDurationClamped(t *testing.T) {
	clk := &fakeClock{t: time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)}
	svc, _, _ := newTestService(config.PolicyAllowRemote, clk)
	ctx := authContext(t, "user-1", strPtr("office-hq"))

	_, err := svc.CheckIn(ctx, attendance.CheckInRequest{
		Latitude:  floatPtr(17.4),
		Longitude: floatPtr(78.5),
	})
	require.NoError(t, err)

	// Clock skew: checkout observed before the recorded check-in.
	clk.Set(time.Date(2025, 3, 10, 8, 30, 0, 0, time.UTC))
	resp, err := svc.CheckOut(ctx, attendance.CheckOutRequest{
		Latitude:  floatPtr(17.4),
		Longitude: floatPtr(78.5),
	})
	require.NoError(t, err)

	assert.Equal(t, 0.0, resp.TotalHours)
}

func TestTotalHoursRoundedToTwoDecimals(t *testing.T) {
	clk := &fakeClock{t: time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)}
	svc, _, _ := newTestService(config.PolicyAllowRemote, clk)
	ctx := authContext(t, "user-1", strPtr("office-hq"))

	_, err := svc.CheckIn(ctx, attendance.CheckInRequest{
		Latitude:  floatPtr(17.4),
		Longitude: floatPtr(78.5),
	})
	require.NoError(t, err)

	// 7h47m = 7.7833... hours, rounds to 7.78.
	clk.Advance(7*time.Hour + 47*time.Minute)
	resp, err := svc.CheckOut(ctx, attendance.CheckOutRequest{
		Latitude:  floatPtr(17.4),
		Longitude: floatPtr(78.5),
	})
	require.NoError(t, err)

	assert.Equal(t, 7.78, resp.TotalHours)
}

func TestStatusTransitions(t *testing.T) {
	clk := &fakeClock{t: time.Date(2025, 3, 10, 8, 0, 0, 0, time.UTC)}
	svc, _, _ := newTestService(config.PolicyAllowRemote, clk)
	ctx := authContext(t, "user-1", strPtr("office-hq"))

	status, err := svc.GetStatus(ctx)
	require.NoError(t, err)
	assert.True(t, status.CanCheckIn)
	assert.False(t, status.CanCheckOut)
	assert.Nil(t, status.Record)

	_, err = svc.CheckIn(ctx, attendance.CheckInRequest{
		Latitude:  floatPtr(17.4),
		Longitude: floatPtr(78.5),
	})
	require.NoError(t, err)

	status, err = svc.GetStatus(ctx)
	require.NoError(t, err)
	assert.False(t, status.CanCheckIn)
	assert.True(t, status.CanCheckOut)
	require.NotNil(t, status.Record)
	assert.Equal(t, attendance.StatusClockedIn, status.Record.Status)

	clk.Advance(9 * time.Hour)
	_, err = svc.CheckOut(ctx, attendance.CheckOutRequest{
		Latitude:  floatPtr(17.4),
		Longitude: floatPtr(78.5),
	})
	require.NoError(t, err)

	status, err = svc.GetStatus(ctx)
	require.NoError(t, err)
	assert.False(t, status.CanCheckIn)
	assert.False(t, status.CanCheckOut)
	require.NotNil(t, status.Record)
	assert.Equal(t, attendance.StatusClockedOut, status.Record.Status)
}

func TestCheckInNextDayAfterCheckout(t *testing.T) {
	clk := &fakeClock{t: time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)}
	svc, _, _ := newTestService(config.PolicyAllowRemote, clk)
	ctx := authContext(t, "user-1", strPtr("office-hq"))

	inReq := attendance.CheckInRequest{Latitude: floatPtr(17.4), Longitude: floatPtr(78.5)}
	outReq := attendance.CheckOutRequest{Latitude: floatPtr(17.4), Longitude: floatPtr(78.5)}

	_, err := svc.CheckIn(ctx, inReq)
	require.NoError(t, err)
	clk.Advance(8 * time.Hour)
	_, err = svc.CheckOut(ctx, outReq)
	require.NoError(t, err)

	clk.Set(time.Date(2025, 3, 11, 9, 0, 0, 0, time.UTC))
	resp, err := svc.CheckIn(ctx, inReq)
	require.NoError(t, err)
	assert.Equal(t, "2025-03-11", resp.Record.Date)
}

func TestGetHistorySummary(t *testing.T) {
	clk := &fakeClock{t: time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)}
	svc, _, _ := newTestService(config.PolicyAllowRemote, clk)
	ctx := authContext(t, "user-1", strPtr("office-hq"))

	inOffice := attendance.CheckInRequest{Latitude: floatPtr(17.4), Longitude: floatPtr(78.5)}
	remote := attendance.CheckInRequest{Latitude: floatPtr(17.45), Longitude: floatPtr(78.5)}
	out := attendance.CheckOutRequest{Latitude: floatPtr(17.4), Longitude: floatPtr(78.5)}

	// Day one: 8h in the office.
	_, err := svc.CheckIn(ctx, inOffice)
	require.NoError(t, err)
	clk.Advance(8 * time.Hour)
	_, err = svc.CheckOut(ctx, out)
	require.NoError(t, err)

	// Day two: 6h remote.
	clk.Set(time.Date(2025, 3, 11, 9, 0, 0, 0, time.UTC))
	_, err = svc.CheckIn(ctx, remote)
	require.NoError(t, err)
	clk.Advance(6 * time.Hour)
	_, err = svc.CheckOut(ctx, out)
	require.NoError(t, err)

	history, err := svc.GetHistory(ctx, attendance.HistoryFilter{})
	require.NoError(t, err)

	assert.Equal(t, int64(2), history.TotalCount)
	assert.Equal(t, 2, history.Summary.DaysPresent)
	assert.Equal(t, 1, history.Summary.DaysWithinOffice)
	assert.Equal(t, 14.0, history.Summary.TotalHours)
	assert.Equal(t, 7.0, history.Summary.AverageHours)
	assert.Len(t, history.Records, 2)
}

func TestGetHistoryInvalidRange(t *testing.T) {
	clk := &fakeClock{t: time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)}
	svc, _, _ := newTestService(config.PolicyAllowRemote, clk)
	ctx := authContext(t, "user-1", nil)

	_, err := svc.GetHistory(ctx, attendance.HistoryFilter{
		StartDate: strPtr("2025-03-10"),
		EndDate:   strPtr("2025-03-01"),
	})
	require.Error(t, err)

	var verrs validator.ValidationErrors
	assert.ErrorAs(t, err, &verrs)
}

func TestCheckInWithoutAuthContext(t *testing.T) {
	clk := &fakeClock{t: time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)}
	svc, _, _ := newTestService(config.PolicyAllowRemote, clk)

	_, err := svc.CheckIn(context.Background(), attendance.CheckInRequest{
		Latitude:  floatPtr(17.4),
		Longitude: floatPtr(78.5),
	})
	assert.Error(t, err)
}
