package schedule

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JuanJo0775/Veterinaria-sistema/internal/model"
	apperrors "github.com/JuanJo0775/Veterinaria-sistema/pkg/errors"
	"github.com/JuanJo0775/Veterinaria-sistema/pkg/validator"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	if err := validator.RegisterCustomValidators(); err != nil {
		panic(err)
	}
	os.Exit(m.Run())
}

type fakeService struct {
	upserted  *model.WeeklyAvailability
	upsertErr error
	day       *model.WeeklyAvailability
	list      []*model.WeeklyAvailability
}

func (f *fakeService) UpsertDay(_ context.Context, req *model.UpsertScheduleRequest) (*model.WeeklyAvailability, error) {
	if f.upsertErr != nil {
		return nil, f.upsertErr
	}
	return f.upserted, nil
}

func (f *fakeService) GetDay(_ context.Context, staffID uuid.UUID, dayOfWeek int) (*model.WeeklyAvailability, error) {
	return f.day, nil
}

func (f *fakeService) ListByStaff(_ context.Context, staffID uuid.UUID) ([]*model.WeeklyAvailability, error) {
	return f.list, nil
}

func allowAll(c *gin.Context) { c.Next() }

func denyAll(c *gin.Context) {
	c.AbortWithStatus(http.StatusForbidden)
}

func setupRouter(svc *fakeService, admin gin.HandlerFunc) *gin.Engine {
	r := gin.New()
	h := NewHandler(svc)
	h.RegisterRoutes(r.Group("/api/v1"), admin)
	return r
}

func sampleRecord() *model.WeeklyAvailability {
	return &model.WeeklyAvailability{
		ID:                  uuid.New(),
		StaffID:             uuid.New(),
		DayOfWeek:           0,
		StartTime:           model.NewTimeOfDay(9, 0),
		EndTime:             model.NewTimeOfDay(17, 0),
		SlotDurationMinutes: 30,
		CapacityPerSlot:     1,
		IsAvailable:         true,
	}
}

func doRequest(r *gin.Engine, method, path string, body interface{}) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			panic(err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestUpsertScheduleHandler(t *testing.T) {
	rec := sampleRecord()
	r := setupRouter(&fakeService{upserted: rec}, allowAll)

	w := doRequest(r, http.MethodPost, "/api/v1/staff-schedules", gin.H{
		"staff_id":    rec.StaffID,
		"day_of_week": 0,
		"start_time":  "09:00",
		"end_time":    "17:00",
	})
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Success bool                     `json:"success"`
		Data    model.WeeklyAvailability `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Equal(t, "09:00", resp.Data.StartTime.String())
}

func TestUpsertScheduleHandlerRejectsBadPayload(t *testing.T) {
	r := setupRouter(&fakeService{upserted: sampleRecord()}, allowAll)

	tests := []struct {
		name string
		body gin.H
	}{
		{"missing start_time", gin.H{
			"staff_id": uuid.New(), "day_of_week": 0, "end_time": "17:00",
		}},
		{"bad time format", gin.H{
			"staff_id": uuid.New(), "day_of_week": 0,
			"start_time": "nine", "end_time": "17:00",
		}},
		{"day out of range", gin.H{
			"staff_id": uuid.New(), "day_of_week": 9,
			"start_time": "09:00", "end_time": "17:00",
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := doRequest(r, http.MethodPost, "/api/v1/staff-schedules", tt.body)
			assert.Equal(t, http.StatusBadRequest, w.Code)
		})
	}
}

func TestUpsertScheduleHandlerInvalidWindow(t *testing.T) {
	svc := &fakeService{upsertErr: apperrors.InvalidSchedule("start_time must be before end_time")}
	r := setupRouter(svc, allowAll)

	w := doRequest(r, http.MethodPost, "/api/v1/staff-schedules", gin.H{
		"staff_id": uuid.New(), "day_of_week": 0,
		"start_time": "17:00", "end_time": "09:00",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestUpsertScheduleRequiresAdmin(t *testing.T) {
	r := setupRouter(&fakeService{upserted: sampleRecord()}, denyAll)

	w := doRequest(r, http.MethodPost, "/api/v1/staff-schedules", gin.H{
		"staff_id": uuid.New(), "day_of_week": 0,
		"start_time": "09:00", "end_time": "17:00",
	})
	assert.Equal(t, http.StatusForbidden, w.Code)

	// Reads stay open.
	w = doRequest(r, http.MethodGet, "/api/v1/staff-schedules/"+uuid.NewString(), nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestListSchedulesHandler(t *testing.T) {
	rec := sampleRecord()
	r := setupRouter(&fakeService{list: []*model.WeeklyAvailability{rec}}, allowAll)

	w := doRequest(r, http.MethodGet, "/api/v1/staff-schedules/"+rec.StaffID.String(), nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Data []model.WeeklyAvailability `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Data, 1)
	assert.Equal(t, rec.StaffID, resp.Data[0].StaffID)
}

func TestListSchedulesHandlerEmpty(t *testing.T) {
	r := setupRouter(&fakeService{}, allowAll)

	w := doRequest(r, http.MethodGet, "/api/v1/staff-schedules/"+uuid.NewString(), nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"data":[]`)
}

func TestGetScheduleDayHandler(t *testing.T) {
	rec := sampleRecord()
	r := setupRouter(&fakeService{day: rec}, allowAll)

	w := doRequest(r, http.MethodGet, "/api/v1/staff-schedules/"+rec.StaffID.String()+"/day/0", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestGetScheduleDayHandlerAbsent(t *testing.T) {
	r := setupRouter(&fakeService{}, allowAll)

	w := doRequest(r, http.MethodGet, "/api/v1/staff-schedules/"+uuid.NewString()+"/day/3", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = doRequest(r, http.MethodGet, "/api/v1/staff-schedules/not-a-uuid/day/0", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
