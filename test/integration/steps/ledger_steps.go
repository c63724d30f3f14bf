package steps

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/cucumber/godog"

	"github.com/trip-planner/backend/internal/domain/entity"
	"github.com/trip-planner/backend/internal/domain/ledger"
	"github.com/trip-planner/backend/internal/integration/adapters"
	"github.com/trip-planner/backend/internal/integration/persistence/model"
)

func registerLedgerSteps(ctx *godog.ScenarioContext, test *testContext) {
	// User setup steps
	ctx.Given(`^the following users exist:$`, test.theFollowingUsersExist)
	ctx.Given(`^I am logged in as "([^"]*)"$`, test.iAmLoggedInAs)

	// Store fault steps
	ctx.Given(`^the ledger store fails writes for "([^"]*)"$`, test.theLedgerStoreFailsWritesFor)
	ctx.Given(`^the ledger store fails reads for "([^"]*)"$`, test.theLedgerStoreFailsReadsFor)
	ctx.Given(`^the ledger store recovers for "([^"]*)"$`, test.theLedgerStoreRecoversFor)

	// Repair steps
	ctx.When(`^the replication worker runs$`, test.theReplicationWorkerRuns)

	// Ledger assertion steps
	ctx.Then(`^"([^"]*)" should have (\d+) budgets? in their ledger$`, test.shouldHaveBudgetsInTheirLedger)
	ctx.Then(`^"([^"]*)" should see budget "([^"]*)" with balance "([^"]*)"$`, test.shouldSeeBudgetWithBalance)
	ctx.Then(`^every copy of budget "([^"]*)" should be identical$`, test.everyCopyOfBudgetShouldBeIdentical)
}

// theFollowingUsersExist inserts one user per row of a | id | username | table.
func (t *testContext) theFollowingUsersExist(table *godog.Table) error {
	if len(table.Rows) < 2 {
		return fmt.Errorf("users table needs a header and at least one row")
	}
	for _, row := range table.Rows[1:] {
		if len(row.Cells) < 2 {
			return fmt.Errorf("users row needs an id and a username")
		}
		user := entity.NewUser(row.Cells[0].Value, row.Cells[1].Value, row.Cells[1].Value+"@example.com")
		if err := t.db.DbConn.Create(model.FromEntity(user)).Error; err != nil {
			return err
		}
	}
	return nil
}

func (t *testContext) iAmLoggedInAs(username string) error {
	uid, err := t.uidOf(username)
	if err != nil {
		return err
	}

	token, err := adapters.NewTokenService(testJWTSecret).GenerateAccessToken(uid, username+"@example.com", 15*time.Minute)
	if err != nil {
		return fmt.Errorf("failed to generate access token: %w", err)
	}
	t.accessToken = token
	t.currentUID = uid
	return nil
}

func (t *testContext) uidOf(username string) (string, error) {
	var user model.UserModel
	if err := t.db.DbConn.Where("username = ?", username).First(&user).Error; err != nil {
		return "", fmt.Errorf("user %q not found: %w", username, err)
	}
	return user.ID, nil
}

func (t *testContext) theLedgerStoreFailsWritesFor(username string) error {
	uid, err := t.uidOf(username)
	if err != nil {
		return err
	}
	ledgerStore.FailSet(uid, true)
	return nil
}

func (t *testContext) theLedgerStoreFailsReadsFor(username string) error {
	uid, err := t.uidOf(username)
	if err != nil {
		return err
	}
	ledgerStore.FailGet(uid, true)
	return nil
}

func (t *testContext) theLedgerStoreRecoversFor(username string) error {
	uid, err := t.uidOf(username)
	if err != nil {
		return err
	}
	ledgerStore.FailGet(uid, false)
	ledgerStore.FailSet(uid, false)
	return nil
}

func (t *testContext) theReplicationWorkerRuns() error {
	if repairer == nil {
		return fmt.Errorf("replication worker is not running")
	}
	repairer.ProcessNow(context.Background())
	return nil
}

func (t *testContext) shouldHaveBudgetsInTheirLedger(username string, quantity int) error {
	uid, err := t.uidOf(username)
	if err != nil {
		return err
	}

	count := 0
	if doc := ledgerStore.Document(uid); doc != nil {
		count = len(doc.Items)
	}
	if count != quantity {
		return fmt.Errorf("expected %d budgets for %s, got %d", quantity, username, count)
	}
	return nil
}

func (t *testContext) findBudget(username, name string) (*entity.BudgetItem, error) {
	uid, err := t.uidOf(username)
	if err != nil {
		return nil, err
	}
	doc := ledgerStore.Document(uid)
	if doc == nil {
		return nil, fmt.Errorf("%s has no ledger", username)
	}
	for _, item := range doc.Items {
		if item.Name == name {
			return item, nil
		}
	}
	return nil, fmt.Errorf("%s has no budget named %q", username, name)
}

func (t *testContext) shouldSeeBudgetWithBalance(username, name, expected string) error {
	item, err := t.findBudget(username, name)
	if err != nil {
		return err
	}
	actual := strconv.FormatFloat(ledger.Balance(item), 'f', -1, 64)
	if actual != expected {
		return fmt.Errorf("balance of %q for %s expected %s, got %s", name, username, expected, actual)
	}
	return nil
}

func (t *testContext) everyCopyOfBudgetShouldBeIdentical(name string) error {
	var owner string
	var reference *entity.BudgetItem

	var users []model.UserModel
	if err := t.db.DbConn.Order("id").Find(&users).Error; err != nil {
		return err
	}
	for _, user := range users {
		item, err := t.findBudget(user.Username, name)
		if err != nil {
			continue
		}
		if reference == nil {
			owner, reference = user.Username, item
			continue
		}
		if item.Version != reference.Version || ledger.Balance(item) != ledger.Balance(reference) ||
			len(item.Contributors) != len(reference.Contributors) || len(item.Expenses) != len(reference.Expenses) {
			return fmt.Errorf("copy of %q held by %s differs from the one held by %s", name, user.Username, owner)
		}
	}
	if reference == nil {
		return fmt.Errorf("nobody holds a budget named %q", name)
	}
	return nil
}
