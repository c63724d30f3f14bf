package budget

import (
	"fmt"

	domainerror "github.com/trip-planner/backend/internal/domain/error"
)

func errContributorNotFound(uid string) error {
	return domainerror.NewLedgerError(
		domainerror.ErrCodeContributorNotFound,
		fmt.Sprintf("user %s is not a contributor of this budget", uid),
		domainerror.ErrContributorNotFound,
	)
}

func errExpenseNotFound() error {
	return domainerror.NewLedgerError(
		domainerror.ErrCodeExpenseNotFound,
		"expense not found",
		domainerror.ErrExpenseNotFound,
	)
}

func errCannotChangeOwner() error {
	return domainerror.NewLedgerError(
		domainerror.ErrCodeCannotChangeOwner,
		"the budget owner cannot be changed or removed",
		domainerror.ErrCannotChangeOwner,
	)
}

func errUserNotFound(ref string) error {
	return domainerror.NewLedgerError(
		domainerror.ErrCodeUserNotFound,
		fmt.Sprintf("user %q not found", ref),
		domainerror.ErrUserNotFound,
	)
}
