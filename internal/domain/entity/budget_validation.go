package entity

import (
	"fmt"
	"math"
	"strings"

	"github.com/go-playground/validator/v10"

	domainerror "github.com/trip-planner/backend/internal/domain/error"
)

const (
	// MaxBudgetNameLength is the maximum allowed length for budget and expense names.
	MaxBudgetNameLength = 100
)

var validate = validator.New()

// IsValidCategory reports whether category is part of the vocabulary.
func IsValidCategory(category BudgetCategory) bool {
	for _, c := range BudgetCategories {
		if c == category {
			return true
		}
	}
	return false
}

// ValidateAmount checks that amount is a finite number >= 0.
func ValidateAmount(amount float64) error {
	if math.IsNaN(amount) || math.IsInf(amount, 0) {
		return domainerror.NewLedgerError(
			domainerror.ErrCodeInvalidAmount,
			"amount must be a finite number",
			domainerror.ErrInvalidAmount,
		)
	}
	if err := validate.Var(amount, "gte=0"); err != nil {
		return domainerror.NewLedgerError(
			domainerror.ErrCodeInvalidAmount,
			"amount must not be negative",
			domainerror.ErrInvalidAmount,
		)
	}
	return nil
}

// ValidateName checks a budget or expense name.
func ValidateName(name string) error {
	if err := validate.Var(strings.TrimSpace(name), "required"); err != nil {
		return domainerror.NewLedgerError(
			domainerror.ErrCodeBudgetNameRequired,
			"name is required",
			domainerror.ErrBudgetNameRequired,
		)
	}
	if err := validate.Var(name, fmt.Sprintf("max=%d", MaxBudgetNameLength)); err != nil {
		return domainerror.NewLedgerError(
			domainerror.ErrCodeBudgetNameTooLong,
			fmt.Sprintf("name must not exceed %d characters", MaxBudgetNameLength),
			domainerror.ErrBudgetNameRequired,
		)
	}
	return nil
}

// ValidateCategory checks that category belongs to the vocabulary.
func ValidateCategory(category BudgetCategory) error {
	if !IsValidCategory(category) {
		return domainerror.NewLedgerError(
			domainerror.ErrCodeInvalidCategory,
			fmt.Sprintf("category %q is not supported", category),
			domainerror.ErrInvalidCategory,
		)
	}
	return nil
}

// Validate checks an expense before it is stored.
func (e *Expense) Validate() error {
	if err := ValidateName(e.Name); err != nil {
		return err
	}
	if err := ValidateCategory(e.Category); err != nil {
		return err
	}
	if err := ValidateAmount(e.Amount); err != nil {
		return err
	}
	if e.Amount == 0 {
		return domainerror.NewLedgerError(
			domainerror.ErrCodeInvalidAmount,
			"expense amount must be positive",
			domainerror.ErrInvalidAmount,
		)
	}
	if e.Date != "" {
		if err := validate.Var(e.Date, "datetime=2006-01-02"); err != nil {
			return domainerror.NewLedgerError(
				domainerror.ErrCodeInvalidExpense,
				"expense date must use YYYY-MM-DD",
				domainerror.ErrInvalidExpense,
			)
		}
	}
	if e.Time != "" {
		if err := validate.Var(e.Time, "datetime=15:04"); err != nil {
			return domainerror.NewLedgerError(
				domainerror.ErrCodeInvalidExpense,
				"expense time must use HH:MM",
				domainerror.ErrInvalidExpense,
			)
		}
	}
	return nil
}

// IsKnown reports whether r is one of the stored role values.
func (r ContributorRole) IsKnown() bool {
	return r == ContributorRoleAdmin || r == ContributorRoleEditor || r == ContributorRoleViewer
}

// ValidateAssignable checks a role being granted to a non-owner contributor.
// Admin belongs to the owner only.
func (r ContributorRole) ValidateAssignable() error {
	if r != ContributorRoleEditor && r != ContributorRoleViewer {
		return domainerror.NewLedgerError(
			domainerror.ErrCodeInvalidRole,
			"role must be 'editor' or 'viewer'",
			domainerror.ErrInvalidRole,
		)
	}
	return nil
}

// Validate checks every invariant of a budget item. It is called before any write.
func (b *BudgetItem) Validate() error {
	if err := ValidateName(b.Name); err != nil {
		return err
	}
	if err := ValidateCategory(b.Category); err != nil {
		return err
	}
	if err := ValidateAmount(b.Amount); err != nil {
		return err
	}

	if len(b.Contributors) == 0 {
		return domainerror.NewLedgerError(
			domainerror.ErrCodeInvalidContributors,
			"a budget needs at least its owner as contributor",
			domainerror.ErrInvalidContributors,
		)
	}
	if b.OwnerUID != "" && b.Contributors[0].UID != b.OwnerUID {
		return domainerror.NewLedgerError(
			domainerror.ErrCodeInvalidContributors,
			"the owner must be the first contributor",
			domainerror.ErrInvalidContributors,
		)
	}

	seen := make(map[string]struct{}, len(b.Contributors))
	for i, c := range b.Contributors {
		if err := validate.Var(c.UID, "required"); err != nil {
			return domainerror.NewLedgerError(
				domainerror.ErrCodeInvalidContributors,
				"contributor uid is required",
				domainerror.ErrInvalidContributors,
			)
		}
		if _, dup := seen[c.UID]; dup {
			return domainerror.NewLedgerError(
				domainerror.ErrCodeDuplicateContributor,
				fmt.Sprintf("contributor %s appears more than once", c.UID),
				domainerror.ErrDuplicateContributor,
			)
		}
		seen[c.UID] = struct{}{}

		if i > 0 && c.Role != "" && !c.Role.IsKnown() {
			return domainerror.NewLedgerError(
				domainerror.ErrCodeInvalidRole,
				fmt.Sprintf("unknown role %q", c.Role),
				domainerror.ErrInvalidRole,
			)
		}
		if c.Contribution != nil {
			if err := ValidateAmount(*c.Contribution); err != nil {
				return err
			}
		}
	}

	for i := range b.Expenses {
		if err := b.Expenses[i].Validate(); err != nil {
			return err
		}
	}

	return nil
}
