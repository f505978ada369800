package welfare

import (
	"errors"

	"github.com/warp/welfare-intel/analytics"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	ErrCompanyNotFound    = errors.New("company not found")
	ErrServiceNotFound    = errors.New("service type not found")
	ErrDisabilityNotFound = errors.New("disability category not found")
	ErrPlanNotFound       = errors.New("business plan not found")

	// ErrNoRevenue is returned by the simulator when a plan has no revenue
	// row or its revenue is zero.
	ErrNoRevenue = errors.New("business plan has no revenue")
)

func companyNotFound(id string) error {
	return &analytics.NotFoundError{Kind: "company", Key: id, Sentinel: ErrCompanyNotFound}
}

func serviceNotFound(slug string) error {
	return &analytics.NotFoundError{Kind: "service", Key: slug, Sentinel: ErrServiceNotFound}
}

func disabilityNotFound(id string) error {
	return &analytics.NotFoundError{Kind: "disability", Key: id, Sentinel: ErrDisabilityNotFound}
}

func planNotFound(id string) error {
	return &analytics.NotFoundError{Kind: "business plan", Key: id, Sentinel: ErrPlanNotFound}
}
