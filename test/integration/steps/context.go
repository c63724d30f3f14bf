// Package steps provides step definitions for BDD integration tests.
package steps

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"os"
	"strconv"
	"sync"
	"time"

	"github.com/cucumber/godog"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/trip-planner/backend/internal/application/usecase/budget"
	"github.com/trip-planner/backend/internal/application/usecase/trip"
	"github.com/trip-planner/backend/internal/domain/ledger"
	"github.com/trip-planner/backend/internal/infra/server/router"
	"github.com/trip-planner/backend/internal/integration/adapters"
	"github.com/trip-planner/backend/internal/integration/entrypoint/controller"
	"github.com/trip-planner/backend/internal/integration/entrypoint/middleware"
	"github.com/trip-planner/backend/internal/integration/persistence"
	"github.com/trip-planner/backend/internal/integration/persistence/model"
	"github.com/trip-planner/backend/internal/integration/redisstore"
	"github.com/trip-planner/backend/internal/integration/replication"
	"github.com/trip-planner/backend/test/integration/mock"
)

const testJWTSecret = "test-jwt-secret-key-for-testing-purposes"

type testContext struct {
	uri         string
	headers     map[string]string
	client      *http.Client
	response    *response
	db          *mock.Db
	serverPort  int
	accessToken string
	currentUID  string
	budgetID    uuid.UUID
	expenseID   uuid.UUID
	tripID      uuid.UUID
}

type response struct {
	status int
	body   any
}

var serverInit sync.Once
var testDB *mock.Db
var testServerPort int
var portInit sync.Once

// Shared by every scenario; reset in before.
var (
	ledgerStore = mock.NewLedgerStore()
	repairer    *replication.Worker
)

func initializePort() {
	portInit.Do(func() {
		testServerPort = findAvailablePort()
		_ = os.Setenv("SERVER_PORT", strconv.Itoa(testServerPort))
		_ = os.Setenv("ENV", "test")
	})
}

// InitializeTestSuite sets up resources before any scenarios run.
func InitializeTestSuite(ctx *godog.TestSuiteContext) {
	ctx.BeforeSuite(func() {
		gin.SetMode(gin.TestMode)
	})
}

// InitializeScenario registers all step definitions.
func InitializeScenario(ctx *godog.ScenarioContext) {
	initializePort()

	test := &testContext{
		uri:        fmt.Sprintf("http://localhost:%d", testServerPort),
		client:     &http.Client{Timeout: 10 * time.Second},
		serverPort: testServerPort,
		db: mock.NewDb(map[string]any{
			"users":            &model.UserModel{},
			"trips":            &model.TripModel{},
			"replication_jobs": &model.ReplicationJobModel{},
		}),
	}

	testDB = test.db

	ctx.Before(func(ctx context.Context, sc *godog.Scenario) (context.Context, error) {
		test.before()
		return ctx, nil
	})

	// Background steps
	ctx.Given(`^the API server is running$`, test.theAPIServerIsRunning)

	registerAPISteps(ctx, test)
	registerLedgerSteps(ctx, test)
}

func findAvailablePort() int {
	listener, err := net.Listen("tcp", ":0")
	if err != nil {
		panic(err)
	}
	defer listener.Close()
	return listener.Addr().(*net.TCPAddr).Port
}

func (t *testContext) before() {
	t.headers = make(map[string]string)
	t.response = nil
	t.accessToken = ""
	t.currentUID = ""
	t.budgetID = uuid.Nil
	t.expenseID = uuid.Nil
	t.tripID = uuid.Nil

	ledgerStore.Clear()
	_ = mock.ClearRedis(mock.NewRedis())
	if t.db != nil {
		_ = t.db.ClearDB()
	}
}

func (t *testContext) startServer() {
	serverInit.Do(func() {
		logger := slog.New(slog.NewTextHandler(io.Discard, nil))

		// Create repositories
		userRepo := persistence.NewUserRepository(testDB.DbConn)
		tripRepo := persistence.NewTripRepository(testDB.DbConn)
		jobRepo := persistence.NewReplicationJobRepository(testDB.DbConn)

		// Create adapters/services
		registry := prometheus.NewRegistry()
		observer := adapters.NewPrometheusObserver(registry)
		locker := redisstore.NewItemLocker(mock.NewRedis(), redisstore.DefaultItemLockerConfig(), logger)
		tokenService := adapters.NewTokenService(testJWTSecret)

		replicator := budget.NewReplicator(ledgerStore, locker, jobRepo, observer, logger)
		engine := budget.NewEngine(ledgerStore, locker, replicator, ledger.OverspendWarn, logger)
		repairer = replication.NewWorker(jobRepo, engine, observer, replication.DefaultWorkerConfig())

		// Create controllers
		healthController := controller.NewHealthController(func() bool {
			return testDB != nil && testDB.DbConn != nil
		}, func() bool { return true }, "memory")

		budgetController := controller.NewBudgetController(controller.BudgetUseCases{
			List:               budget.NewListBudgetsUseCase(engine),
			Get:                budget.NewGetBudgetUseCase(engine),
			Create:             budget.NewCreateBudgetUseCase(engine, userRepo),
			Update:             budget.NewUpdateBudgetUseCase(engine),
			Delete:             budget.NewDeleteBudgetUseCase(engine),
			AddExpense:         budget.NewAddExpenseUseCase(engine),
			UpdateExpense:      budget.NewUpdateExpenseUseCase(engine),
			DeleteExpense:      budget.NewDeleteExpenseUseCase(engine),
			AddContributor:     budget.NewAddContributorUseCase(engine, userRepo),
			RemoveContributor:  budget.NewRemoveContributorUseCase(engine),
			ChangeRole:         budget.NewChangeContributorRoleUseCase(engine),
			UpdateContribution: budget.NewUpdateContributionUseCase(engine),
		})

		tripController := controller.NewTripController(
			trip.NewCreateTripUseCase(tripRepo, userRepo, engine, logger),
			trip.NewGetTripUseCase(tripRepo),
			trip.NewDeleteTripUseCase(tripRepo, engine),
		)

		// Create middleware
		rateLimiter := middleware.NewRateLimiter()
		authMiddleware := middleware.NewAuthMiddleware(tokenService)

		r := router.NewRouter(
			healthController,
			budgetController,
			tripController,
			promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
			rateLimiter,
			authMiddleware,
		)
		handler := r.Setup("test")

		go func() {
			server := &http.Server{
				Addr:    fmt.Sprintf(":%d", testServerPort),
				Handler: handler,
			}
			_ = server.ListenAndServe()
		}()
	})

	// Wait for server to be ready
	for i := 0; i < 50; i++ {
		resp, err := http.Get(t.uri + "/health")
		if err == nil && resp.StatusCode == http.StatusOK {
			resp.Body.Close()
			return
		}
		time.Sleep(100 * time.Millisecond)
	}
}

func (t *testContext) theAPIServerIsRunning() error {
	t.startServer()
	return nil
}
