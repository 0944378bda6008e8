package reports

import (
	"context"
	"fmt"
	"time"

	"github.com/Lahiru-2000/inventory-management-system/internal/core/apperror"
	"github.com/Lahiru-2000/inventory-management-system/internal/core/id"
	"github.com/Lahiru-2000/inventory-management-system/internal/core/types"
)

// DashboardCache holds a recent dashboard snapshot.
type DashboardCache interface {
	Get() (*Dashboard, bool)
	Set(dashboard *Dashboard)
}

// Service provides report generation operations.
type Service struct {
	repo  Repository
	cache DashboardCache
}

// NewService creates a new reports service. cache may be nil, in which case
// every dashboard request hits the database.
func NewService(repo Repository, cache DashboardCache) *Service {
	return &Service{repo: repo, cache: cache}
}

func validatePeriod(from, to time.Time) error {
	if from.IsZero() || to.IsZero() {
		return apperror.NewValidation("fromDate and toDate are required")
	}
	if from.After(to) {
		return apperror.NewValidation("fromDate must be before toDate")
	}
	return nil
}

// GetSalesReport aggregates non-cancelled sales orders over a period.
func (s *Service) GetSalesReport(ctx context.Context, filter SalesReportFilter) (*SalesReport, error) {
	if err := validatePeriod(filter.FromDate, filter.ToDate); err != nil {
		return nil, err
	}

	report, err := s.repo.GetSalesReport(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("get sales report: %w", err)
	}
	return report, nil
}

// GetPurchaseReport aggregates approved purchase orders over a period.
func (s *Service) GetPurchaseReport(ctx context.Context, filter PurchaseReportFilter) (*PurchaseReport, error) {
	if err := validatePeriod(filter.FromDate, filter.ToDate); err != nil {
		return nil, err
	}

	report, err := s.repo.GetPurchaseReport(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("get purchase report: %w", err)
	}
	return report, nil
}

// GetSupplierPurchaseHistory lists every purchase order placed with
// a supplier, newest first.
func (s *Service) GetSupplierPurchaseHistory(ctx context.Context, supplierID id.ID) (*SupplierPurchaseHistory, error) {
	if id.IsNil(supplierID) {
		return nil, apperror.NewValidation("supplierId is required")
	}

	report, err := s.repo.GetSupplierPurchaseHistory(ctx, supplierID)
	if err != nil {
		if apperror.IsNotFound(err) {
			return nil, err
		}
		return nil, fmt.Errorf("get supplier purchase history: %w", err)
	}
	return report, nil
}

// GetLowStockReport lists items at or below their reorder level.
func (s *Service) GetLowStockReport(ctx context.Context) (*LowStockReport, error) {
	report, err := s.repo.GetLowStockReport(ctx)
	if err != nil {
		return nil, fmt.Errorf("get low stock report: %w", err)
	}
	return report, nil
}

// GetProfitReport derives profit from the sales report.
// Cost of goods is a zero placeholder until item costs are tracked.
func (s *Service) GetProfitReport(ctx context.Context, from, to time.Time) (*ProfitReport, error) {
	sales, err := s.GetSalesReport(ctx, SalesReportFilter{FromDate: from, ToDate: to})
	if err != nil {
		return nil, err
	}

	cost := types.ZeroMoney()
	return &ProfitReport{
		FromDate: from,
		ToDate:   to,
		Revenue:  sales.TotalRevenue,
		Cost:     cost,
		Profit:   sales.TotalRevenue.Sub(cost),
	}, nil
}

// GetDashboard returns the landing-page summary.
func (s *Service) GetDashboard(ctx context.Context) (*Dashboard, error) {
	const recentLimit = 10

	if s.cache != nil {
		if dashboard, ok := s.cache.Get(); ok {
			return dashboard, nil
		}
	}

	dashboard, err := s.repo.GetDashboard(ctx, recentLimit)
	if err != nil {
		return nil, fmt.Errorf("get dashboard: %w", err)
	}
	if s.cache != nil {
		s.cache.Set(dashboard)
	}
	return dashboard, nil
}
