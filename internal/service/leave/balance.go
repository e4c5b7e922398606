package leave

import (
	"time"

	"github.com/cmlabs-hris/leave-workflow-go/internal/domain/leave"
)

const (
	DefaultStandardEntitlement = 20
	daysPerYear                = 365
)

// BalanceAccountant owns the annual entitlement arithmetic.
type BalanceAccountant struct {
	standardEntitlement int
}

func NewBalanceAccountant(standardEntitlement int) *BalanceAccountant {
	if standardEntitlement <= 0 {
		standardEntitlement = DefaultStandardEntitlement
	}
	return &BalanceAccountant{standardEntitlement: standardEntitlement}
}

func (a *BalanceAccountant) StandardEntitlement() int {
	return a.standardEntitlement
}

// ProRatedEntitlement returns the entitlement for referenceYear of an
// employee who joined on joiningDate. Partial years round up.
func (a *BalanceAccountant) ProRatedEntitlement(joiningDate time.Time, referenceYear int) int {
	joining := leave.DateOf(joiningDate)
	yearStart := time.Date(referenceYear, time.January, 1, 0, 0, 0, 0, time.UTC)
	yearEnd := time.Date(referenceYear, time.December, 31, 0, 0, 0, 0, time.UTC)

	if !joining.After(yearStart) {
		return a.standardEntitlement
	}
	if joining.After(yearEnd) {
		return 0
	}

	remaining := int(yearEnd.Sub(joining).Hours()/24) + 1
	return (remaining*a.standardEntitlement + daysPerYear - 1) / daysPerYear
}

// Deduct never returns a negative balance.
func (a *BalanceAccountant) Deduct(currentBalance, workingDaysRequested int) int {
	return max(0, currentBalance-workingDaysRequested)
}

func (a *BalanceAccountant) HasSufficientBalance(currentBalance, workingDaysRequested int) bool {
	return currentBalance >= workingDaysRequested
}
