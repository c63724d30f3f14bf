package controller

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trip-planner/backend/internal/application/usecase/budget"
	"github.com/trip-planner/backend/internal/application/usecase/trip"
	"github.com/trip-planner/backend/internal/domain/entity"
	"github.com/trip-planner/backend/internal/domain/ledger"
	"github.com/trip-planner/backend/internal/integration/adapters"
	"github.com/trip-planner/backend/internal/integration/entrypoint/dto"
	"github.com/trip-planner/backend/internal/integration/entrypoint/middleware"
	"github.com/trip-planner/backend/test/integration/mock"
)

type testServer struct {
	router *gin.Engine
	store  *mock.LedgerStore
}

// setUserIDMiddleware authenticates requests as the uid in X-Test-User.
func setUserIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if uid := c.GetHeader("X-Test-User"); uid != "" {
			c.Set(string(middleware.UserIDKey), uid)
		}
		c.Next()
	}
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	store := mock.NewLedgerStore()
	jobs := mock.NewReplicationJobRepository()
	users := mock.NewUserRepository(
		entity.NewUser("uid-a", "alice", "alice@example.com"),
		entity.NewUser("uid-b", "bob", "bob@example.com"),
		entity.NewUser("uid-c", "carol", "carol@example.com"),
	)
	trips := mock.NewTripRepository()
	locker := adapters.NewMemoryLocker()
	engine := budget.NewEngine(store, locker, budget.NewReplicator(store, locker, jobs, nil, logger), ledger.OverspendWarn, logger)

	budgets := NewBudgetController(BudgetUseCases{
		List:               budget.NewListBudgetsUseCase(engine),
		Get:                budget.NewGetBudgetUseCase(engine),
		Create:             budget.NewCreateBudgetUseCase(engine, users),
		Update:             budget.NewUpdateBudgetUseCase(engine),
		Delete:             budget.NewDeleteBudgetUseCase(engine),
		AddExpense:         budget.NewAddExpenseUseCase(engine),
		UpdateExpense:      budget.NewUpdateExpenseUseCase(engine),
		DeleteExpense:      budget.NewDeleteExpenseUseCase(engine),
		AddContributor:     budget.NewAddContributorUseCase(engine, users),
		RemoveContributor:  budget.NewRemoveContributorUseCase(engine),
		ChangeRole:         budget.NewChangeContributorRoleUseCase(engine),
		UpdateContribution: budget.NewUpdateContributionUseCase(engine),
	})
	tripController := NewTripController(
		trip.NewCreateTripUseCase(trips, users, engine, logger),
		trip.NewGetTripUseCase(trips),
		trip.NewDeleteTripUseCase(trips, engine),
	)

	router := gin.New()
	router.Use(setUserIDMiddleware())
	router.GET("/budgets", budgets.List)
	router.POST("/budgets", budgets.Create)
	router.GET("/budgets/:id", budgets.Get)
	router.PATCH("/budgets/:id", budgets.Update)
	router.DELETE("/budgets/:id", budgets.Delete)
	router.POST("/budgets/:id/expenses", budgets.AddExpense)
	router.PATCH("/budgets/:id/expenses/:expense_id", budgets.UpdateExpense)
	router.DELETE("/budgets/:id/expenses/:expense_id", budgets.DeleteExpense)
	router.POST("/budgets/:id/contributors", budgets.AddContributor)
	router.DELETE("/budgets/:id/contributors/:uid", budgets.RemoveContributor)
	router.PUT("/budgets/:id/contributors/:uid/role", budgets.ChangeRole)
	router.PUT("/budgets/:id/contributors/:uid/contribution", budgets.UpdateContribution)
	router.POST("/trips", tripController.Create)
	router.GET("/trips/:id", tripController.Get)
	router.DELETE("/trips/:id", tripController.Delete)

	return &testServer{router: router, store: store}
}

func (s *testServer) do(t *testing.T, uid, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = bytes.NewBufferString(body)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if uid != "" {
		req.Header.Set("X-Test-User", uid)
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}

func (s *testServer) createGoa(t *testing.T) dto.BudgetResponse {
	t.Helper()
	w := s.do(t, "uid-a", http.MethodPost, "/budgets",
		`{"name":"Goa Trip","category":"Tour","amount":6000,"contributors":[{"username":"bob"},{"username":"carol","role":"viewer"}]}`)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	return decode[dto.BudgetResponse](t, w)
}

func TestBudgetController_CreateAndList(t *testing.T) {
	s := newTestServer(t)
	created := s.createGoa(t)

	assert.Equal(t, "admin", created.Role)
	assert.Equal(t, 6000.0, created.Balance)
	require.Len(t, created.Contributors, 3)
	assert.Equal(t, "editor", created.Contributors[1].Role)
	assert.Equal(t, "viewer", created.Contributors[2].Role)
	assert.Nil(t, created.ReplicationWarning)

	w := s.do(t, "uid-b", http.MethodGet, "/budgets", "")
	require.Equal(t, http.StatusOK, w.Code)
	list := decode[dto.BudgetListResponse](t, w)
	require.Len(t, list.Budgets, 1)
	assert.Equal(t, created.ID, list.Budgets[0].ID)
	assert.Equal(t, "editor", list.Budgets[0].Role)
}

func TestBudgetController_AddExpense(t *testing.T) {
	s := newTestServer(t)
	created := s.createGoa(t)

	w := s.do(t, "uid-b", http.MethodPost, "/budgets/"+created.ID+"/expenses",
		`{"name":"Flights","amount":1500,"category":"Travel"}`)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	resp := decode[dto.ExpenseMutationResponse](t, w)
	assert.Equal(t, 4500.0, resp.Budget.Balance)
	assert.Equal(t, "uid-b", resp.Expense.CreatedBy)

	w = s.do(t, "uid-a", http.MethodGet, "/budgets/"+created.ID, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 4500.0, decode[dto.BudgetResponse](t, w).Balance)
}

func TestBudgetController_Errors(t *testing.T) {
	s := newTestServer(t)
	created := s.createGoa(t)

	tests := []struct {
		name   string
		uid    string
		method string
		path   string
		body   string
		status int
		code   string
	}{
		{"unauthenticated", "", http.MethodGet, "/budgets", "", http.StatusUnauthorized, "AUTH-030003"},
		{"malformed id", "uid-a", http.MethodGet, "/budgets/nope", "", http.StatusBadRequest, ""},
		{"unknown budget", "uid-a", http.MethodGet, "/budgets/" + uuid.NewString(), "", http.StatusNotFound, "LED-010001"},
		{"viewer adds expense", "uid-c", http.MethodPost, "/budgets/" + created.ID + "/expenses", `{"name":"Cab","amount":10}`, http.StatusForbidden, "LED-040001"},
		{"editor renames", "uid-b", http.MethodPatch, "/budgets/" + created.ID, `{"name":"Mine"}`, http.StatusForbidden, "LED-040001"},
		{"invalid category", "uid-a", http.MethodPost, "/budgets", `{"name":"x","category":"Pets","amount":1}`, http.StatusBadRequest, "LED-020002"},
		{"missing amount", "uid-a", http.MethodPost, "/budgets", `{"name":"x","category":"Food"}`, http.StatusBadRequest, "LED-020009"},
		{"admin role for member", "uid-a", http.MethodPut, "/budgets/" + created.ID + "/contributors/uid-b/role", `{"role":"admin"}`, http.StatusBadRequest, "LED-020005"},
		{"owner role", "uid-a", http.MethodPut, "/budgets/" + created.ID + "/contributors/uid-a/role", `{"role":"viewer"}`, http.StatusForbidden, "LED-040003"},
		{"unknown username", "uid-a", http.MethodPost, "/budgets/" + created.ID + "/contributors", `{"username":"mallory"}`, http.StatusNotFound, "LED-010004"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := s.do(t, tt.uid, tt.method, tt.path, tt.body)

			assert.Equal(t, tt.status, w.Code, w.Body.String())
			if tt.code != "" {
				assert.Equal(t, tt.code, decode[dto.ErrorResponse](t, w).Code)
			}
		})
	}
}

func TestBudgetController_PartialReplication(t *testing.T) {
	s := newTestServer(t)
	created := s.createGoa(t)
	s.store.FailSet("uid-c", true)

	w := s.do(t, "uid-a", http.MethodPost, "/budgets/"+created.ID+"/expenses", `{"name":"Hotel","amount":2000}`)

	require.Equal(t, http.StatusMultiStatus, w.Code, w.Body.String())
	resp := decode[dto.ExpenseMutationResponse](t, w)
	require.NotNil(t, resp.ReplicationWarning)
	assert.Equal(t, []string{"uid-c"}, resp.ReplicationWarning.FailedUserIDs)
	assert.Equal(t, "LED-050002", resp.ReplicationWarning.Code)
	assert.Equal(t, 4000.0, resp.Budget.Balance)
}

func TestBudgetController_StoreUnavailable(t *testing.T) {
	s := newTestServer(t)
	created := s.createGoa(t)
	s.store.FailGet("uid-a", true)

	w := s.do(t, "uid-a", http.MethodGet, "/budgets/"+created.ID, "")

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Equal(t, "LED-050001", decode[dto.ErrorResponse](t, w).Code)
}

func TestBudgetController_Delete(t *testing.T) {
	s := newTestServer(t)
	created := s.createGoa(t)

	w := s.do(t, "uid-a", http.MethodDelete, "/budgets/"+created.ID, "")
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = s.do(t, "uid-b", http.MethodGet, "/budgets/"+created.ID, "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestTripController(t *testing.T) {
	s := newTestServer(t)

	w := s.do(t, "uid-a", http.MethodPost, "/trips",
		`{"name":"Goa","owner_contribution":1500,"members":[{"username":"bob","contribution":3000}]}`)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	created := decode[dto.CreateTripResponse](t, w)
	assert.Equal(t, 4500.0, created.Budget.Amount)
	require.NotNil(t, created.Budget.TripID)
	assert.Equal(t, created.Trip.ID, *created.Budget.TripID)

	w = s.do(t, "uid-c", http.MethodGet, "/trips/"+created.Trip.ID, "")
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = s.do(t, "uid-b", http.MethodDelete, "/trips/"+created.Trip.ID, "")
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = s.do(t, "uid-a", http.MethodDelete, "/trips/"+created.Trip.ID, "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, 2, decode[dto.DeleteResponse](t, w).RemovedBudgets)

	w = s.do(t, "uid-b", http.MethodGet, "/budgets", "")
	assert.Empty(t, decode[dto.BudgetListResponse](t, w).Budgets)
}

func TestHealthController(t *testing.T) {
	gin.SetMode(gin.TestMode)
	up := func() bool { return true }
	down := func() bool { return false }

	for _, tc := range []struct {
		name   string
		store  func() bool
		status int
	}{
		{"healthy", up, http.StatusOK},
		{"store down", down, http.StatusServiceUnavailable},
	} {
		t.Run(tc.name, func(t *testing.T) {
			router := gin.New()
			router.GET("/health", NewHealthController(up, tc.store, "postgres").Check)

			w := httptest.NewRecorder()
			router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))

			assert.Equal(t, tc.status, w.Code)
			assert.Equal(t, "postgres", decode[HealthResponse](t, w).StoreDriver)
		})
	}
}
