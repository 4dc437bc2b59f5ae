package seed

import (
	"context"

	"github.com/nguyenlanh282/poscake-skill/internal/domain"
	"github.com/nguyenlanh282/poscake-skill/internal/store"
)

const (
	sampleCustomerName  = "Sample Customer"
	sampleCustomerPhone = "0901234567"
	sampleCustomerEmail = "customer@example.com"
)

// SampleCustomer ensures the sample customer exists, keyed by phone.
func SampleCustomer(ctx context.Context, s *store.Store, res *Result) (*domain.Customer, error) {
	phone, email := sampleCustomerPhone, sampleCustomerEmail
	return findOrCreate(res, "Customer",
		func() (*domain.Customer, error) { return s.Customers.FindByPhone(ctx, phone) },
		func() (*domain.Customer, error) {
			return s.Customers.Create(ctx, &domain.Customer{Name: sampleCustomerName, Phone: &phone, Email: &email})
		},
	)
}
