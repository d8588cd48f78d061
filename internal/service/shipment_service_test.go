package service

import (
	"context"
	"testing"

	"github.com/spec-kit/shipment-service/internal/domain"
	"github.com/spec-kit/shipment-service/internal/events"
	"github.com/spec-kit/shipment-service/internal/storage"
	apperrors "github.com/spec-kit/shipment-service/pkg/util"
)

func fixtureShipments() []domain.Shipment {
	carrier5 := int64(5)
	return []domain.Shipment{
		{ID: 1, TrackingNumber: "SHP-A", Status: domain.ShipmentStatusReceived, CustomerID: 100, OperatorID: 2},
		{ID: 2, TrackingNumber: "SHP-B", Status: domain.ShipmentStatusInTransit, CustomerID: 100, OperatorID: 3, CarrierID: &carrier5},
		{ID: 3, TrackingNumber: "SHP-C", Status: domain.ShipmentStatusDelivered, CustomerID: 101, OperatorID: 2, CarrierID: &carrier5},
		{ID: 4, TrackingNumber: "SHP-D", Status: domain.ShipmentStatusReceived, CustomerID: 102, OperatorID: 3},
	}
}

func newShipmentFixtureService(dispatcher events.Dispatcher) (*ShipmentService, *mockShipmentRepo) {
	items := fixtureShipments()
	repo := &mockShipmentRepo{
		listFn: func(ctx context.Context) ([]domain.Shipment, error) {
			return items, nil
		},
		getFn: func(ctx context.Context, id int64) (*domain.Shipment, error) {
			for i := range items {
				if items[i].ID == id {
					copied := items[i]
					return &copied, nil
				}
			}
			return nil, storage.ErrNotFound
		},
	}
	return NewShipmentService(repo, dispatcher), repo
}

func TestListVisibilityByRole(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name      string
		principal *domain.Principal
		wantIDs   []int64
	}{
		{"admin sees all", principalOf(1, domain.RoleAdmin), []int64{1, 2, 3, 4}},
		{"operator sees own shipments only", principalOf(2, domain.RoleOperator), []int64{1, 3}},
		{"carrier sees assigned and unassigned", principalOf(5, domain.RoleCarrier), []int64{1, 2, 3, 4}},
		{"other carrier sees only unassigned", principalOf(6, domain.RoleCarrier), []int64{1, 4}},
		{"customer sees own shipments", principalOf(100, domain.RoleCustomer), []int64{1, 2}},
		{"unknown role sees nothing", principalOf(9, domain.Role("auditor")), []int64{}},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			svc, _ := newShipmentFixtureService(nil)
			got, err := svc.List(context.Background(), tc.principal)
			if err != nil {
				t.Fatalf("List: %v", err)
			}
			if len(got) != len(tc.wantIDs) {
				t.Fatalf("got %d shipments, want %d", len(got), len(tc.wantIDs))
			}
			for i, want := range tc.wantIDs {
				if got[i].ID != want {
					t.Fatalf("position %d: got id %d, want %d", i, got[i].ID, want)
				}
			}
		})
	}
}

func TestGetByIDNotFoundBeforeAuthorization(t *testing.T) {
	t.Parallel()
	svc, _ := newShipmentFixtureService(nil)

	_, err := svc.GetByID(context.Background(), 999, principalOf(100, domain.RoleCustomer))
	if apperrors.CodeOf(err) != apperrors.CodeNotFound {
		t.Fatalf("missing id: got code %q, want %q", apperrors.CodeOf(err), apperrors.CodeNotFound)
	}

	// shipment 4 exists but belongs to another customer
	_, err = svc.GetByID(context.Background(), 4, principalOf(100, domain.RoleCustomer))
	if apperrors.CodeOf(err) != apperrors.CodeUnauthorizedAccess {
		t.Fatalf("invisible record: got code %q, want %q", apperrors.CodeOf(err), apperrors.CodeUnauthorizedAccess)
	}
}

func TestCreateDefaults(t *testing.T) {
	t.Parallel()

	var stored *domain.Shipment
	repo := &mockShipmentRepo{
		createFn: func(ctx context.Context, shipment *domain.Shipment) error {
			shipment.ID = 42
			stored = shipment
			return nil
		},
	}
	dispatcher := &recordingDispatcher{}
	svc := NewShipmentService(repo, dispatcher)

	principal := principalOf(7, domain.RoleOperator)
	shipment, err := svc.Create(context.Background(), principal, ShipmentCreateInput{
		Origin:      "Hamburg",
		Destination: "Munich",
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if stored == nil {
		t.Fatal("shipment was not persisted")
	}
	if shipment.Status != domain.ShipmentStatusReceived {
		t.Fatalf("status = %q, want %q", shipment.Status, domain.ShipmentStatusReceived)
	}
	if shipment.CustomerID != principal.ID {
		t.Fatalf("customerId = %d, want creator %d", shipment.CustomerID, principal.ID)
	}
	if shipment.OperatorID != principal.ID {
		t.Fatalf("operatorId = %d, want creator %d", shipment.OperatorID, principal.ID)
	}
	if shipment.CarrierID != nil {
		t.Fatalf("carrierId = %v, want unassigned", *shipment.CarrierID)
	}
	if shipment.OperatorConfirmed {
		t.Fatal("operatorConfirmed should start false")
	}
	if len(shipment.History) != 1 {
		t.Fatalf("history length = %d, want 1", len(shipment.History))
	}
	if shipment.History[0].Status != domain.ShipmentStatusReceived || shipment.History[0].UserID != principal.ID {
		t.Fatalf("unexpected opening history entry: %+v", shipment.History[0])
	}
	if shipment.TrackingNumber == "" {
		t.Fatal("tracking number was not generated")
	}
	if len(dispatcher.published) != 1 || dispatcher.published[0].Type != events.EventShipmentCreated {
		t.Fatalf("expected one created event, got %+v", dispatcher.published)
	}
}

func TestCreateHonorsExplicitCustomer(t *testing.T) {
	t.Parallel()
	svc := NewShipmentService(&mockShipmentRepo{}, nil)

	shipment, err := svc.Create(context.Background(), principalOf(7, domain.RoleOperator), ShipmentCreateInput{
		Origin:      "A",
		Destination: "B",
		CustomerID:  ptr(int64(300)),
		Status:      domain.ShipmentStatusPending,
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if shipment.CustomerID != 300 {
		t.Fatalf("customerId = %d, want 300", shipment.CustomerID)
	}
	if shipment.Status != domain.ShipmentStatusPending {
		t.Fatalf("status = %q, want %q", shipment.Status, domain.ShipmentStatusPending)
	}
	if shipment.History[0].Status != domain.ShipmentStatusPending {
		t.Fatalf("history status = %q, want %q", shipment.History[0].Status, domain.ShipmentStatusPending)
	}
}

func TestUpdateWithoutStatusChangeIsSilent(t *testing.T) {
	t.Parallel()

	stored := fixtureShipments()[0]
	var updated *domain.Shipment
	repo := &mockShipmentRepo{
		getFn: func(ctx context.Context, id int64) (*domain.Shipment, error) {
			copied := stored
			return &copied, nil
		},
		updateFn: func(ctx context.Context, shipment *domain.Shipment) error {
			updated = shipment
			return nil
		},
	}
	dispatcher := &recordingDispatcher{}
	svc := NewShipmentService(repo, dispatcher)

	sameStatus := stored.Status
	shipment, err := svc.Update(context.Background(), stored.ID, principalOf(1, domain.RoleAdmin), ShipmentUpdateInput{
		Status:      &sameStatus,
		Description: ptr("fragile"),
	})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if updated == nil {
		t.Fatal("update was not persisted")
	}
	if shipment.Description != "fragile" {
		t.Fatalf("description = %q, want merged value", shipment.Description)
	}
	if len(shipment.History) != len(stored.History) {
		t.Fatalf("history grew on same-status update: %d -> %d", len(stored.History), len(shipment.History))
	}
	if len(dispatcher.published) != 0 {
		t.Fatalf("expected no events, got %d", len(dispatcher.published))
	}
}

func TestUpdateStatusChangeAppendsHistoryAndPublishes(t *testing.T) {
	t.Parallel()

	stored := fixtureShipments()[0]
	repo := &mockShipmentRepo{
		getFn: func(ctx context.Context, id int64) (*domain.Shipment, error) {
			copied := stored
			return &copied, nil
		},
	}
	dispatcher := &recordingDispatcher{}
	svc := NewShipmentService(repo, dispatcher)

	principal := principalOf(1, domain.RoleAdmin)
	newStatus := domain.ShipmentStatusInTransit
	shipment, err := svc.Update(context.Background(), stored.ID, principal, ShipmentUpdateInput{Status: &newStatus})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if len(shipment.History) != len(stored.History)+1 {
		t.Fatalf("history length = %d, want %d", len(shipment.History), len(stored.History)+1)
	}
	last := shipment.History[len(shipment.History)-1]
	if last.Status != newStatus || last.UserID != principal.ID || last.Role != principal.Role {
		t.Fatalf("unexpected history entry: %+v", last)
	}
	if last.Note != "Status updated to "+newStatus {
		t.Fatalf("note = %q, want default transition note", last.Note)
	}
	if len(dispatcher.published) != 1 {
		t.Fatalf("expected one event, got %d", len(dispatcher.published))
	}
	payload, ok := dispatcher.published[0].Payload.(events.ShipmentStatusChangedPayload)
	if !ok {
		t.Fatalf("unexpected payload type %T", dispatcher.published[0].Payload)
	}
	if payload.OldStatus != stored.Status || payload.NewStatus != newStatus {
		t.Fatalf("payload transition %q -> %q, want %q -> %q", payload.OldStatus, payload.NewStatus, stored.Status, newStatus)
	}
	if payload.CustomerID != stored.CustomerID {
		t.Fatalf("payload customerId = %d, want %d", payload.CustomerID, stored.CustomerID)
	}
}

func TestCarrierClaimsUnassignedShipment(t *testing.T) {
	t.Parallel()

	stored := domain.Shipment{ID: 10, TrackingNumber: "SHP-X", Status: domain.ShipmentStatusReceived, CustomerID: 100, OperatorID: 2}
	repo := &mockShipmentRepo{
		getFn: func(ctx context.Context, id int64) (*domain.Shipment, error) {
			copied := stored
			return &copied, nil
		},
	}
	svc := NewShipmentService(repo, &recordingDispatcher{})

	carrier := principalOf(5, domain.RoleCarrier)
	newStatus := domain.ShipmentStatusInTransit
	shipment, err := svc.Update(context.Background(), 10, carrier, ShipmentUpdateInput{
		CarrierID: ptr(carrier.ID),
		Status:    &newStatus,
	})
	if err != nil {
		t.Fatalf("claim update: %v", err)
	}
	if shipment.CarrierID == nil || *shipment.CarrierID != carrier.ID {
		t.Fatalf("carrierId = %v, want claimed by %d", shipment.CarrierID, carrier.ID)
	}
	if shipment.Status != newStatus {
		t.Fatalf("status = %q, want %q", shipment.Status, newStatus)
	}
}

func TestCarrierCannotClaimForAnotherCarrier(t *testing.T) {
	t.Parallel()

	stored := domain.Shipment{ID: 10, Status: domain.ShipmentStatusReceived, CustomerID: 100, OperatorID: 2}
	repo := &mockShipmentRepo{
		getFn: func(ctx context.Context, id int64) (*domain.Shipment, error) {
			copied := stored
			return &copied, nil
		},
	}
	svc := NewShipmentService(repo, nil)

	_, err := svc.Update(context.Background(), 10, principalOf(5, domain.RoleCarrier), ShipmentUpdateInput{
		CarrierID: ptr(int64(6)),
	})
	if apperrors.CodeOf(err) != apperrors.CodeUnauthorizedUpdate {
		t.Fatalf("got code %q, want %q", apperrors.CodeOf(err), apperrors.CodeUnauthorizedUpdate)
	}
}

func TestCarrierDeniedOnForeignAssignment(t *testing.T) {
	t.Parallel()

	other := int64(8)
	stored := domain.Shipment{ID: 11, Status: domain.ShipmentStatusInTransit, CustomerID: 100, OperatorID: 2, CarrierID: &other}
	repo := &mockShipmentRepo{
		getFn: func(ctx context.Context, id int64) (*domain.Shipment, error) {
			copied := stored
			return &copied, nil
		},
	}
	svc := NewShipmentService(repo, nil)

	newStatus := domain.ShipmentStatusDelivered
	_, err := svc.Update(context.Background(), 11, principalOf(5, domain.RoleCarrier), ShipmentUpdateInput{Status: &newStatus})
	if apperrors.CodeOf(err) != apperrors.CodeUnauthorizedUpdate {
		t.Fatalf("got code %q, want %q", apperrors.CodeOf(err), apperrors.CodeUnauthorizedUpdate)
	}
}

func TestCustomerCannotUpdate(t *testing.T) {
	t.Parallel()

	stored := domain.Shipment{ID: 1, Status: domain.ShipmentStatusReceived, CustomerID: 100, OperatorID: 2}
	repo := &mockShipmentRepo{
		getFn: func(ctx context.Context, id int64) (*domain.Shipment, error) {
			copied := stored
			return &copied, nil
		},
	}
	svc := NewShipmentService(repo, nil)

	_, err := svc.Update(context.Background(), 1, principalOf(100, domain.RoleCustomer), ShipmentUpdateInput{
		Description: ptr("mine"),
	})
	if apperrors.CodeOf(err) != apperrors.CodeUnauthorizedUpdate {
		t.Fatalf("got code %q, want %q", apperrors.CodeOf(err), apperrors.CodeUnauthorizedUpdate)
	}
}

func TestUpdateMissingShipment(t *testing.T) {
	t.Parallel()
	svc := NewShipmentService(&mockShipmentRepo{}, nil)

	newStatus := domain.ShipmentStatusDelivered
	_, err := svc.Update(context.Background(), 999, principalOf(1, domain.RoleAdmin), ShipmentUpdateInput{Status: &newStatus})
	if apperrors.CodeOf(err) != apperrors.CodeNotFound {
		t.Fatalf("got code %q, want %q", apperrors.CodeOf(err), apperrors.CodeNotFound)
	}
}

func TestCompleteDelivery(t *testing.T) {
	t.Parallel()

	stored := domain.Shipment{ID: 3, Status: domain.ShipmentStatusInTransit, CustomerID: 100, OperatorID: 2}
	repo := &mockShipmentRepo{
		getFn: func(ctx context.Context, id int64) (*domain.Shipment, error) {
			copied := stored
			return &copied, nil
		},
	}
	svc := NewShipmentService(repo, &recordingDispatcher{})

	shipment, err := svc.CompleteDelivery(context.Background(), 3, principalOf(1, domain.RoleAdmin), "")
	if err != nil {
		t.Fatalf("CompleteDelivery: %v", err)
	}
	if shipment.Status != domain.ShipmentStatusDelivered {
		t.Fatalf("status = %q, want %q", shipment.Status, domain.ShipmentStatusDelivered)
	}
	last := shipment.History[len(shipment.History)-1]
	if last.Note != "Delivery completed" {
		t.Fatalf("note = %q, want default completion note", last.Note)
	}
}

func TestDeleteAuthorization(t *testing.T) {
	t.Parallel()

	stored := domain.Shipment{ID: 1, Status: domain.ShipmentStatusReceived, CustomerID: 100, OperatorID: 2}
	newRepo := func(deleted *bool) *mockShipmentRepo {
		return &mockShipmentRepo{
			getFn: func(ctx context.Context, id int64) (*domain.Shipment, error) {
				copied := stored
				return &copied, nil
			},
			deleteFn: func(ctx context.Context, id int64) error {
				*deleted = true
				return nil
			},
		}
	}

	t.Run("customer denied, record untouched", func(t *testing.T) {
		t.Parallel()
		deleted := false
		svc := NewShipmentService(newRepo(&deleted), nil)
		err := svc.Delete(context.Background(), 1, principalOf(100, domain.RoleCustomer))
		if apperrors.CodeOf(err) != apperrors.CodeUnauthorizedDelete {
			t.Fatalf("got code %q, want %q", apperrors.CodeOf(err), apperrors.CodeUnauthorizedDelete)
		}
		if deleted {
			t.Fatal("record was deleted despite denial")
		}
	})

	t.Run("operator of record allowed", func(t *testing.T) {
		t.Parallel()
		deleted := false
		dispatcher := &recordingDispatcher{}
		svc := NewShipmentService(newRepo(&deleted), dispatcher)
		if err := svc.Delete(context.Background(), 1, principalOf(2, domain.RoleOperator)); err != nil {
			t.Fatalf("Delete: %v", err)
		}
		if !deleted {
			t.Fatal("record was not deleted")
		}
		if len(dispatcher.published) != 1 || dispatcher.published[0].Type != events.EventShipmentDeleted {
			t.Fatalf("expected one deleted event, got %+v", dispatcher.published)
		}
	})

	t.Run("other operator denied", func(t *testing.T) {
		t.Parallel()
		deleted := false
		svc := NewShipmentService(newRepo(&deleted), nil)
		err := svc.Delete(context.Background(), 1, principalOf(3, domain.RoleOperator))
		if apperrors.CodeOf(err) != apperrors.CodeUnauthorizedDelete {
			t.Fatalf("got code %q, want %q", apperrors.CodeOf(err), apperrors.CodeUnauthorizedDelete)
		}
	})

	t.Run("missing shipment", func(t *testing.T) {
		t.Parallel()
		svc := NewShipmentService(&mockShipmentRepo{}, nil)
		err := svc.Delete(context.Background(), 999, principalOf(1, domain.RoleAdmin))
		if apperrors.CodeOf(err) != apperrors.CodeNotFound {
			t.Fatalf("got code %q, want %q", apperrors.CodeOf(err), apperrors.CodeNotFound)
		}
	})
}

func TestStats(t *testing.T) {
	t.Parallel()
	svc, _ := newShipmentFixtureService(nil)

	stats, err := svc.Stats(context.Background())
	if err != nil {
		t.Fatalf("Stats: %v", err)
	}
	if stats.Total != 4 || stats.Received != 2 || stats.InTransit != 1 || stats.Delivered != 1 {
		t.Fatalf("unexpected stats: %+v", stats)
	}
}
