package partner

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stitchworks/backend/internal/domain/partner"
	"github.com/stitchworks/backend/internal/domain/shared"
)

// CustomerService manages customers and their credit accounts
type CustomerService struct {
	customers partner.CustomerRepository
	publisher shared.EventPublisher
}

// NewCustomerService creates a new CustomerService
func NewCustomerService(customers partner.CustomerRepository) *CustomerService {
	return &CustomerService{
		customers: customers,
		publisher: shared.NopPublisher{},
	}
}

// SetEventPublisher sets the event publisher
func (s *CustomerService) SetEventPublisher(publisher shared.EventPublisher) {
	s.publisher = publisher
}

// Create registers a customer. Codes are unique.
func (s *CustomerService) Create(ctx context.Context, in CreateCustomerInput) (CustomerResponse, error) {
	if existing, err := s.customers.FindByCode(ctx, in.Code); err == nil && existing != nil {
		return CustomerResponse{}, shared.NewDomainError("DUPLICATE_CODE", "Customer code already exists: "+in.Code)
	}

	customer, err := partner.NewCustomer(in.Code, in.Name, in.Tier)
	if err != nil {
		return CustomerResponse{}, err
	}
	if !in.CreditLimit.IsZero() {
		if err := customer.SetCreditLimit(in.CreditLimit); err != nil {
			return CustomerResponse{}, err
		}
	}

	if err := s.customers.Save(ctx, customer); err != nil {
		return CustomerResponse{}, err
	}
	s.publish(ctx, customer)

	return toCustomerResponse(customer), nil
}

// SetContact updates contact details
func (s *CustomerService) SetContact(ctx context.Context, customerID uuid.UUID, in ContactInput) (CustomerResponse, error) {
	customer, err := s.customers.FindByID(ctx, customerID)
	if err != nil {
		return CustomerResponse{}, err
	}
	if err := customer.SetContact(in.ContactName, in.Phone, in.Email, in.Address); err != nil {
		return CustomerResponse{}, err
	}
	if err := s.customers.Save(ctx, customer); err != nil {
		return CustomerResponse{}, err
	}
	return toCustomerResponse(customer), nil
}

// SetTier moves the customer to a different price tier
func (s *CustomerService) SetTier(ctx context.Context, customerID uuid.UUID, tier partner.CustomerTier) (CustomerResponse, error) {
	customer, err := s.customers.FindByID(ctx, customerID)
	if err != nil {
		return CustomerResponse{}, err
	}
	if err := customer.SetTier(tier); err != nil {
		return CustomerResponse{}, err
	}
	if err := s.customers.Save(ctx, customer); err != nil {
		return CustomerResponse{}, err
	}
	return toCustomerResponse(customer), nil
}

// SetCreditLimit adjusts the customer's credit ceiling
func (s *CustomerService) SetCreditLimit(ctx context.Context, customerID uuid.UUID, limit decimal.Decimal) (CustomerResponse, error) {
	customer, err := s.customers.FindByID(ctx, customerID)
	if err != nil {
		return CustomerResponse{}, err
	}
	if err := customer.SetCreditLimit(limit); err != nil {
		return CustomerResponse{}, err
	}
	if err := s.customers.Save(ctx, customer); err != nil {
		return CustomerResponse{}, err
	}
	return toCustomerResponse(customer), nil
}

// SettleDebt records a payment against the customer's outstanding balance
func (s *CustomerService) SettleDebt(ctx context.Context, customerID uuid.UUID, amount decimal.Decimal) (CustomerResponse, error) {
	customer, err := s.customers.FindByID(ctx, customerID)
	if err != nil {
		return CustomerResponse{}, err
	}
	if err := customer.SettleDebt(amount); err != nil {
		return CustomerResponse{}, err
	}
	if err := s.customers.Save(ctx, customer); err != nil {
		return CustomerResponse{}, err
	}
	s.publish(ctx, customer)

	return toCustomerResponse(customer), nil
}

// Customer returns one customer by ID
func (s *CustomerService) Customer(ctx context.Context, customerID uuid.UUID) (CustomerResponse, error) {
	customer, err := s.customers.FindByID(ctx, customerID)
	if err != nil {
		return CustomerResponse{}, err
	}
	return toCustomerResponse(customer), nil
}

// ActiveCustomers lists customers that can place orders
func (s *CustomerService) ActiveCustomers(ctx context.Context) ([]CustomerResponse, error) {
	customers, err := s.customers.FindActive(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]CustomerResponse, 0, len(customers))
	for _, c := range customers {
		out = append(out, toCustomerResponse(c))
	}
	return out, nil
}

func (s *CustomerService) publish(ctx context.Context, customer *partner.Customer) {
	_ = s.publisher.Publish(ctx, customer.GetDomainEvents()...)
	customer.ClearDomainEvents()
}
