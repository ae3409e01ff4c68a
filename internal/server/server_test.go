package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"gitlab.ozon.dev/pupkingeorgij/custody/internal/custody"
	"gitlab.ozon.dev/pupkingeorgij/custody/internal/repository"
	mock_server "gitlab.ozon.dev/pupkingeorgij/custody/internal/server/mocks"
)

func newTestServer(t *testing.T) (*Server, *mock_server.MockCustodyService, *mock_server.MockUserRepo) {
	ctrl := gomock.NewController(t)
	mockService := mock_server.NewMockCustodyService(ctrl)
	mockUserRepo := mock_server.NewMockUserRepo(ctrl)
	return New(mockService, mockUserRepo, nil, AuditConfig{}), mockService, mockUserRepo
}

func withUser(req *http.Request, user *repository.User) *http.Request {
	return req.WithContext(context.WithValue(req.Context(), userKey{}, user))
}

func jsonBody(t *testing.T, v interface{}) *bytes.Reader {
	body, err := json.Marshal(v)
	require.NoError(t, err)
	return bytes.NewReader(body)
}

func TestHandleSubmitRequests(t *testing.T) {
	server, mockService, _ := newTestServer(t)

	valid := map[string]interface{}{
		"requests": []map[string]interface{}{{
			"requester":    "kim",
			"next_keeper":  "kim",
			"device_id":    10,
			"booking_date": "2026-03-01",
			"return_date":  "2026-03-31",
		}},
	}

	tests := []struct {
		name           string
		requestBody    interface{}
		setupMocks     func()
		expectedStatus int
		expectedBody   string
	}{
		{
			name:        "batch accepted",
			requestBody: valid,
			setupMocks: func() {
				mockService.EXPECT().
					SubmitBookingRequests(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, batch []custody.BookingInput) (*custody.SubmitResult, error) {
						require.Len(t, batch, 1)
						assert.Equal(t, "kim", batch[0].Requester)
						assert.Equal(t, int64(10), batch[0].DeviceID)
						assert.Equal(t, time.Date(2026, time.March, 31, 0, 0, 0, 0, time.UTC), batch[0].ReturnDate)
						return &custody.SubmitResult{
							Succeeded: []*repository.Request{{ID: 7, Code: "abc", Status: repository.RequestPending}},
							Failed:    []custody.FailedBooking{},
						}, nil
					})
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `"request_code":"abc"`,
		},
		{
			name:        "batch rejected",
			requestBody: valid,
			setupMocks: func() {
				mockService.EXPECT().
					SubmitBookingRequests(gomock.Any(), gomock.Any()).
					Return(&custody.SubmitResult{
						Succeeded: []*repository.Request{},
						Failed:    []custody.FailedBooking{{Errors: []string{"the submitted request already exists"}}},
					}, nil)
			},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `"the submitted request already exists"`,
		},
		{
			name: "invalid date",
			requestBody: map[string]interface{}{
				"requests": []map[string]interface{}{{"device_id": 10, "booking_date": "01.03.2026"}},
			},
			setupMocks:     func() {},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `"Invalid date format. Use YYYY-MM-DD"`,
		},
		{
			name:           "invalid request body",
			requestBody:    "requests",
			setupMocks:     func() {},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `"Invalid request body"`,
		},
		{
			name:        "storage error",
			requestBody: valid,
			setupMocks: func() {
				mockService.EXPECT().
					SubmitBookingRequests(gomock.Any(), gomock.Any()).
					Return(nil, errors.New("connection refused"))
			},
			expectedStatus: http.StatusInternalServerError,
			expectedBody:   `"internal error"`,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			tc.setupMocks()

			req := httptest.NewRequest(http.MethodPost, "/requests", jsonBody(t, tc.requestBody))
			req.Header.Set("Content-Type", "application/json")
			rr := httptest.NewRecorder()

			server.handleSubmitRequests(rr, req)

			assert.Equal(t, tc.expectedStatus, rr.Code)
			assert.Contains(t, rr.Body.String(), tc.expectedBody)
		})
	}
}

func TestHandleUpdateRequestStatus(t *testing.T) {
	server, mockService, _ := newTestServer(t)

	tests := []struct {
		name           string
		requestID      string
		requestBody    map[string]interface{}
		setupMocks     func()
		expectedStatus int
		expectedBody   string
	}{
		{
			name:        "successful status update",
			requestID:   "7",
			requestBody: map[string]interface{}{"status": "approved"},
			setupMocks: func() {
				mockService.EXPECT().
					UpdateRequestStatus(gomock.Any(), int64(7), repository.RequestApproved).
					Return(nil)
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `{"message":"Request status updated successfully"}`,
		},
		{
			name:        "status resubmitted",
			requestID:   "7",
			requestBody: map[string]interface{}{"status": "APPROVED"},
			setupMocks: func() {
				mockService.EXPECT().
					UpdateRequestStatus(gomock.Any(), int64(7), repository.RequestApproved).
					Return(&custody.Error{Kind: custody.ErrNotAcceptable, Message: "request is already APPROVED"})
			},
			expectedStatus: http.StatusNotAcceptable,
			expectedBody:   `{"error":"request is already APPROVED"}`,
		},
		{
			name:        "unknown request",
			requestID:   "8",
			requestBody: map[string]interface{}{"status": "CANCELLED"},
			setupMocks: func() {
				mockService.EXPECT().
					UpdateRequestStatus(gomock.Any(), int64(8), repository.RequestCancelled).
					Return(&custody.Error{Kind: custody.ErrNotFound, Message: "request 8 does not exist"})
			},
			expectedStatus: http.StatusNotFound,
			expectedBody:   `{"error":"request 8 does not exist"}`,
		},
		{
			name:           "unknown status",
			requestID:      "7",
			requestBody:    map[string]interface{}{"status": "LOST"},
			setupMocks:     func() {},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `{"error":"Unknown request status"}`,
		},
		{
			name:           "invalid request body",
			requestID:      "7",
			requestBody:    map[string]interface{}{},
			setupMocks:     func() {},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `{"error":"Invalid request body"}`,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			tc.setupMocks()

			req := httptest.NewRequest(http.MethodPut, "/requests/"+tc.requestID+"/status", jsonBody(t, tc.requestBody))
			req.Header.Set("Content-Type", "application/json")
			req = mux.SetURLVars(req, map[string]string{"id": tc.requestID})
			rr := httptest.NewRecorder()

			server.handleUpdateRequestStatus(rr, req)

			assert.Equal(t, tc.expectedStatus, rr.Code)
			assert.JSONEq(t, tc.expectedBody, rr.Body.String())
		})
	}
}

func TestHandleExtendDuration(t *testing.T) {
	server, mockService, _ := newTestServer(t)

	mockService.EXPECT().
		ExtendDuration(gomock.Any(), custody.ExtendInput{
			NextKeeper: "max",
			DeviceID:   10,
			ReturnDate: time.Date(2026, time.April, 20, 0, 0, 0, 0, time.UTC),
		}).
		Return(nil, &custody.Error{Kind: custody.ErrConflict, Message: "return date exceeds the allowed duration, the latest possible return date is 2026-04-19"})

	req := httptest.NewRequest(http.MethodPut, "/requests/extend", jsonBody(t, map[string]interface{}{
		"next_keeper": "max",
		"device_id":   10,
		"return_date": "2026-04-20",
	}))
	rr := httptest.NewRecorder()

	server.handleExtendDuration(rr, req)

	assert.Equal(t, http.StatusConflict, rr.Code)
	assert.Contains(t, rr.Body.String(), "2026-04-19")
}

func TestHandleReturns(t *testing.T) {
	server, mockService, _ := newTestServer(t)
	kim := &repository.User{ID: 2, Username: "kim"}
	olga := &repository.User{ID: 1, Username: "olga"}

	t.Run("keeper return uses the caller", func(t *testing.T) {
		mockService.EXPECT().
			ConfirmKeeperReturn(gomock.Any(), int64(10), 1, int64(2)).
			Return(&custody.ReturnResult{OldKeepers: []string{"max", "ann"}}, nil)

		req := httptest.NewRequest(http.MethodPut, "/devices/keepers/return", jsonBody(t, map[string]interface{}{"device_id": 10, "keeper_no": 1}))
		rr := httptest.NewRecorder()

		server.handleKeeperReturn(rr, withUser(req, kim))

		assert.Equal(t, http.StatusOK, rr.Code)
		assert.JSONEq(t, `{"old_keepers":["max","ann"]}`, rr.Body.String())
	})

	t.Run("owner return by someone else", func(t *testing.T) {
		mockService.EXPECT().
			ConfirmOwnerReturn(gomock.Any(), int64(10), int64(2)).
			Return(nil, &custody.Error{Kind: custody.ErrConflict, Message: "only the owner of device 10 can confirm its return"})

		req := httptest.NewRequest(http.MethodPut, "/devices/owners/return", jsonBody(t, map[string]interface{}{"device_id": 10}))
		rr := httptest.NewRecorder()

		server.handleOwnerReturn(rr, withUser(req, kim))

		assert.Equal(t, http.StatusConflict, rr.Code)
	})

	t.Run("owner return", func(t *testing.T) {
		mockService.EXPECT().
			ConfirmOwnerReturn(gomock.Any(), int64(10), int64(1)).
			Return(&custody.ReturnResult{OldKeepers: []string{"kim"}}, nil)

		req := httptest.NewRequest(http.MethodPut, "/devices/owners/return", jsonBody(t, map[string]interface{}{"device_id": 10}))
		rr := httptest.NewRecorder()

		server.handleOwnerReturn(rr, withUser(req, olga))

		assert.Equal(t, http.StatusOK, rr.Code)
		assert.JSONEq(t, `{"old_keepers":["kim"]}`, rr.Body.String())
	})

	t.Run("missing device", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPut, "/devices/owners/return", jsonBody(t, map[string]interface{}{}))
		rr := httptest.NewRecorder()

		server.handleOwnerReturn(rr, withUser(req, olga))

		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})
}

func TestHandleListRequests(t *testing.T) {
	server, mockService, _ := newTestServer(t)

	tests := []struct {
		name           string
		query          string
		setupMocks     func()
		expectedStatus int
	}{
		{
			name:  "filters and paging are passed through",
			query: "?page=2&size=5&sort_by=return_date&sort_dir=desc&status=pending&device=Pixel&booked_after=2026-03-01",
			setupMocks: func() {
				mockService.EXPECT().
					ListRequests(gomock.Any(), int64(1),
						custody.RequestFilter{
							Device:      "Pixel",
							Status:      repository.RequestPending,
							BookedAfter: time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC),
						},
						custody.PageRequest{Page: 2, Size: 5, SortBy: "return_date", SortDir: "desc"}).
					Return(&custody.RequestPage{Page: 2, Size: 5, TotalPages: 1}, nil)
			},
			expectedStatus: http.StatusOK,
		},
		{
			name:  "defaults",
			query: "",
			setupMocks: func() {
				mockService.EXPECT().
					ListRequests(gomock.Any(), int64(1), custody.RequestFilter{}, custody.PageRequest{Page: 1, Size: 10}).
					Return(&custody.RequestPage{Page: 1, Size: 10, TotalPages: 1}, nil)
			},
			expectedStatus: http.StatusOK,
		},
		{
			name:  "unsupported sort column",
			query: "?sort_by=password_hash",
			setupMocks: func() {
				mockService.EXPECT().
					ListRequests(gomock.Any(), int64(1), gomock.Any(), gomock.Any()).
					Return(nil, &custody.Error{Kind: custody.ErrValidation, Message: `cannot sort by "password_hash"`})
			},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "invalid page",
			query:          "?page=first",
			setupMocks:     func() {},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "invalid date filter",
			query:          "?return_before=tomorrow",
			setupMocks:     func() {},
			expectedStatus: http.StatusBadRequest,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			tc.setupMocks()

			req := httptest.NewRequest(http.MethodGet, "/employees/1/requests"+tc.query, nil)
			req = mux.SetURLVars(req, map[string]string{"id": "1"})
			rr := httptest.NewRecorder()

			server.handleListRequests(rr, req)

			assert.Equal(t, tc.expectedStatus, rr.Code)
		})
	}
}

func TestHandleDeleteRequests(t *testing.T) {
	server, mockService, _ := newTestServer(t)

	t.Run("one status", func(t *testing.T) {
		mockService.EXPECT().DeleteRequestsInStatus(gomock.Any(), int64(10), repository.RequestCancelled).Return(int64(3), nil)

		req := httptest.NewRequest(http.MethodDelete, "/devices/10/requests?status=CANCELLED", nil)
		req = mux.SetURLVars(req, map[string]string{"id": "10"})
		rr := httptest.NewRecorder()

		server.handleDeleteRequests(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)
		assert.JSONEq(t, `{"deleted":3}`, rr.Body.String())
	})

	t.Run("whole history while in custody", func(t *testing.T) {
		mockService.EXPECT().ClearDeviceForDeletion(gomock.Any(), int64(10)).
			Return(&custody.Error{Kind: custody.ErrConflict, Message: "device 10 still has TRANSFERRED requests"})

		req := httptest.NewRequest(http.MethodDelete, "/devices/10/requests", nil)
		req = mux.SetURLVars(req, map[string]string{"id": "10"})
		rr := httptest.NewRecorder()

		server.handleDeleteRequests(rr, req)

		assert.Equal(t, http.StatusConflict, rr.Code)
	})
}

func TestRespondServiceError(t *testing.T) {
	server, _, _ := newTestServer(t)

	tests := []struct {
		err    error
		status int
	}{
		{&custody.Error{Kind: custody.ErrValidation, Message: "m"}, http.StatusBadRequest},
		{&custody.Error{Kind: custody.ErrNotFound, Message: "m"}, http.StatusNotFound},
		{&custody.Error{Kind: custody.ErrNotAcceptable, Message: "m"}, http.StatusNotAcceptable},
		{&custody.Error{Kind: custody.ErrConflict, Message: "m"}, http.StatusConflict},
		{&custody.Error{Kind: custody.ErrInvariant, Message: "m"}, http.StatusInternalServerError},
		{errors.New("driver: bad connection"), http.StatusInternalServerError},
	}
	for _, tc := range tests {
		rr := httptest.NewRecorder()
		server.respondServiceError(rr, "test", tc.err)
		assert.Equal(t, tc.status, rr.Code, tc.err.Error())
	}
}

func TestRouter(t *testing.T) {
	server, mockService, mockUserRepo := newTestServer(t)
	ctx, cancel := context.WithCancel(context.Background())
	server.AuditManager.Start(ctx)
	t.Cleanup(func() {
		cancel()
		server.AuditManager.Shutdown(context.Background())
	})
	router := server.Router()

	t.Run("missing credentials", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/devices/10/keepers", nil)
		rr := httptest.NewRecorder()

		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusUnauthorized, rr.Code)
		assert.NotEmpty(t, rr.Header().Get("WWW-Authenticate"))
	})

	t.Run("wrong password", func(t *testing.T) {
		mockUserRepo.EXPECT().ValidateUser(gomock.Any(), "kim", "nope").Return(false, nil)

		req := httptest.NewRequest(http.MethodGet, "/devices/10/keepers", nil)
		req.SetBasicAuth("kim", "nope")
		rr := httptest.NewRecorder()

		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})

	t.Run("authenticated request reaches the handler", func(t *testing.T) {
		mockUserRepo.EXPECT().ValidateUser(gomock.Any(), "kim", "secret").Return(true, nil)
		mockUserRepo.EXPECT().GetByUsername(gomock.Any(), "kim").Return(&repository.User{ID: 2, Username: "kim"}, nil)
		mockService.EXPECT().KeeperChain(gomock.Any(), int64(10)).Return(&repository.KeeperChain{
			DeviceID:      10,
			CurrentKeeper: "olga",
			Orders:        []repository.KeeperOrder{},
		}, nil)

		req := httptest.NewRequest(http.MethodGet, "/devices/10/keepers", nil)
		req.SetBasicAuth("kim", "secret")
		rr := httptest.NewRecorder()

		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)
		assert.True(t, strings.Contains(rr.Body.String(), `"olga"`))
	})

	t.Run("unknown route", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/orders/1", nil)
		rr := httptest.NewRecorder()

		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusNotFound, rr.Code)
	})
}
