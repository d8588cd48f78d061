package service

import (
	"context"
	"strings"
	"testing"

	"github.com/spec-kit/shipment-service/internal/domain"
	"github.com/spec-kit/shipment-service/internal/storage"
	apperrors "github.com/spec-kit/shipment-service/pkg/util"
)

func fixtureOrders() []domain.Order {
	return []domain.Order{
		{ID: 1, TrackingNumber: "ORD-A", Status: domain.OrderStatusPending, CustomerID: 100, Origin: "Hamburg", Destination: "Berlin", RecipientName: "K. Meier", Weight: 2.5, EstimatedPrice: 19.9},
		{ID: 2, TrackingNumber: "ORD-B", Status: domain.OrderStatusPending, CustomerID: 101},
	}
}

func newOrderFixtureService() (*OrderService, *mockOrderRepo) {
	items := fixtureOrders()
	repo := &mockOrderRepo{
		listFn: func(ctx context.Context) ([]domain.Order, error) {
			return items, nil
		},
		getFn: func(ctx context.Context, id int64) (*domain.Order, error) {
			for i := range items {
				if items[i].ID == id {
					copied := items[i]
					return &copied, nil
				}
			}
			return nil, storage.ErrNotFound
		},
	}
	shipments := NewShipmentService(&mockShipmentRepo{}, nil)
	return NewOrderService(repo, shipments), repo
}

func TestOrderListVisibility(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name      string
		principal *domain.Principal
		wantLen   int
	}{
		{"admin sees all", principalOf(1, domain.RoleAdmin), 2},
		{"operator sees all", principalOf(2, domain.RoleOperator), 2},
		{"customer sees own", principalOf(100, domain.RoleCustomer), 1},
		{"carrier sees none", principalOf(5, domain.RoleCarrier), 0},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			svc, _ := newOrderFixtureService()
			orders, err := svc.List(context.Background(), tc.principal)
			if err != nil {
				t.Fatalf("List: %v", err)
			}
			if len(orders) != tc.wantLen {
				t.Fatalf("got %d orders, want %d", len(orders), tc.wantLen)
			}
		})
	}
}

func TestOrderGetHidesForeignRecords(t *testing.T) {
	t.Parallel()
	svc, _ := newOrderFixtureService()

	// order 2 belongs to customer 101; customer 100 sees not-found, not forbidden
	_, err := svc.GetByID(context.Background(), 2, principalOf(100, domain.RoleCustomer))
	if apperrors.CodeOf(err) != apperrors.CodeNotFound {
		t.Fatalf("got code %q, want %q", apperrors.CodeOf(err), apperrors.CodeNotFound)
	}
}

func TestOrderCreateValidation(t *testing.T) {
	t.Parallel()
	svc, _ := newOrderFixtureService()

	_, err := svc.Create(context.Background(), principalOf(100, domain.RoleCustomer), OrderCreateInput{Origin: "A"})
	if apperrors.CodeOf(err) != apperrors.CodeValidationFailed {
		t.Fatalf("got code %q, want %q", apperrors.CodeOf(err), apperrors.CodeValidationFailed)
	}
}

func TestOrderCreateDefaults(t *testing.T) {
	t.Parallel()
	svc, _ := newOrderFixtureService()

	order, err := svc.Create(context.Background(), principalOf(100, domain.RoleCustomer), OrderCreateInput{
		Origin:        "Hamburg",
		Destination:   "Berlin",
		RecipientName: "K. Meier",
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if order.Status != domain.OrderStatusPending {
		t.Fatalf("status = %q, want %q", order.Status, domain.OrderStatusPending)
	}
	if order.CustomerID != 100 {
		t.Fatalf("customerId = %d, want caller", order.CustomerID)
	}
	if !strings.HasPrefix(order.TrackingNumber, "ORD-") {
		t.Fatalf("tracking number %q lacks ORD- prefix", order.TrackingNumber)
	}
}

func TestOrderDeleteAdminOnly(t *testing.T) {
	t.Parallel()
	svc, _ := newOrderFixtureService()

	err := svc.Delete(context.Background(), 1, principalOf(2, domain.RoleOperator))
	if apperrors.CodeOf(err) != apperrors.CodeUnauthorizedDelete {
		t.Fatalf("operator delete: got code %q, want %q", apperrors.CodeOf(err), apperrors.CodeUnauthorizedDelete)
	}
	if err := svc.Delete(context.Background(), 1, principalOf(1, domain.RoleAdmin)); err != nil {
		t.Fatalf("admin delete: %v", err)
	}
}

func TestConvertToShipment(t *testing.T) {
	t.Parallel()

	items := fixtureOrders()
	var savedOrder *domain.Order
	orderRepo := &mockOrderRepo{
		getFn: func(ctx context.Context, id int64) (*domain.Order, error) {
			for i := range items {
				if items[i].ID == id {
					copied := items[i]
					return &copied, nil
				}
			}
			return nil, storage.ErrNotFound
		},
		updateFn: func(ctx context.Context, order *domain.Order) error {
			savedOrder = order
			return nil
		},
	}
	shipmentRepo := &mockShipmentRepo{
		createFn: func(ctx context.Context, shipment *domain.Shipment) error {
			shipment.ID = 77
			return nil
		},
	}
	svc := NewOrderService(orderRepo, NewShipmentService(shipmentRepo, &recordingDispatcher{}))

	operator := principalOf(2, domain.RoleOperator)
	shipment, err := svc.ConvertToShipment(context.Background(), 1, operator)
	if err != nil {
		t.Fatalf("ConvertToShipment: %v", err)
	}
	if shipment.TrackingNumber != "SHP-A" {
		t.Fatalf("tracking number = %q, want ORD prefix swapped to SHP", shipment.TrackingNumber)
	}
	if shipment.Status != domain.ShipmentStatusPending {
		t.Fatalf("status = %q, want %q", shipment.Status, domain.ShipmentStatusPending)
	}
	if shipment.CustomerID != 100 {
		t.Fatalf("customerId = %d, want order owner", shipment.CustomerID)
	}
	if shipment.ConvertedFromOrderID == nil || *shipment.ConvertedFromOrderID != 1 {
		t.Fatalf("convertedFromOrderId = %v, want 1", shipment.ConvertedFromOrderID)
	}
	if shipment.OperatorID != operator.ID {
		t.Fatalf("operatorId = %d, want converting operator", shipment.OperatorID)
	}
	if savedOrder == nil {
		t.Fatal("order was not updated")
	}
	if savedOrder.Status != domain.OrderStatusConverted {
		t.Fatalf("order status = %q, want %q", savedOrder.Status, domain.OrderStatusConverted)
	}
	if savedOrder.RelatedShipmentID == nil || *savedOrder.RelatedShipmentID != 77 {
		t.Fatalf("relatedShipmentId = %v, want 77", savedOrder.RelatedShipmentID)
	}
}

func TestConvertToShipmentRejectsCustomer(t *testing.T) {
	t.Parallel()
	svc, _ := newOrderFixtureService()

	_, err := svc.ConvertToShipment(context.Background(), 1, principalOf(100, domain.RoleCustomer))
	if apperrors.CodeOf(err) != apperrors.CodeUnauthorizedUpdate {
		t.Fatalf("got code %q, want %q", apperrors.CodeOf(err), apperrors.CodeUnauthorizedUpdate)
	}
}

func TestConvertToShipmentConflictWhenAlreadyConverted(t *testing.T) {
	t.Parallel()

	converted := domain.Order{ID: 3, TrackingNumber: "ORD-C", Status: domain.OrderStatusConverted, CustomerID: 100}
	repo := &mockOrderRepo{
		getFn: func(ctx context.Context, id int64) (*domain.Order, error) {
			copied := converted
			return &copied, nil
		},
	}
	svc := NewOrderService(repo, NewShipmentService(&mockShipmentRepo{}, nil))

	_, err := svc.ConvertToShipment(context.Background(), 3, principalOf(1, domain.RoleAdmin))
	if apperrors.CodeOf(err) != apperrors.CodeConflict {
		t.Fatalf("got code %q, want %q", apperrors.CodeOf(err), apperrors.CodeConflict)
	}
}
