package service

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"go.uber.org/zap"

	"github.com/spec-kit/shipment-service/internal/domain"
	"github.com/spec-kit/shipment-service/internal/events"
	"github.com/spec-kit/shipment-service/internal/repository"
	"github.com/spec-kit/shipment-service/internal/storage"
	apperrors "github.com/spec-kit/shipment-service/pkg/util"
)

// NotificationService stores per-user notifications and reacts to shipment
// events. Handler failures stay inside the dispatcher boundary and never
// surface as failures of the shipment mutation.
type NotificationService struct {
	notifications repository.NotificationRepository
	dispatcher    events.Dispatcher
	logger        *zap.Logger
}

// NewNotificationService creates the service.
func NewNotificationService(notifications repository.NotificationRepository, dispatcher events.Dispatcher, logger *zap.Logger) *NotificationService {
	return &NotificationService{
		notifications: notifications,
		dispatcher:    dispatcher,
		logger:        logger,
	}
}

// RegisterHandlers subscribes to shipment events.
func (n *NotificationService) RegisterHandlers() {
	if n.dispatcher == nil {
		return
	}
	n.dispatcher.Subscribe(events.EventShipmentCreated, n.handleShipmentCreated)
	n.dispatcher.Subscribe(events.EventShipmentStatusChanged, n.handleShipmentStatusChanged)
	n.dispatcher.Subscribe(events.EventShipmentDeleted, n.handleShipmentDeleted)
}

// Create records a notification addressed to a user. Fire-and-forget from the
// caller's point of view.
func (n *NotificationService) Create(ctx context.Context, userID int64, title, message, notificationType, link string) error {
	if notificationType == "" {
		notificationType = domain.NotificationTypeInfo
	}
	notification := &domain.Notification{
		UserID:  userID,
		Title:   title,
		Message: message,
		Type:    notificationType,
		Link:    link,
		Read:    false,
	}
	return n.notifications.Create(ctx, notification)
}

// ListForUser returns a user's notifications, newest first.
func (n *NotificationService) ListForUser(ctx context.Context, userID int64) ([]domain.Notification, error) {
	items, err := n.notifications.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].CreatedAt.After(items[j].CreatedAt)
	})
	return items, nil
}

// MarkRead flags one notification as read. Records belonging to another user
// report not-found, not forbidden.
func (n *NotificationService) MarkRead(ctx context.Context, id, userID int64) (*domain.Notification, error) {
	notification, err := n.notifications.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, apperrors.NewNotFound("notification")
		}
		return nil, err
	}
	if notification.UserID != userID {
		return nil, apperrors.NewNotFound("notification")
	}
	notification.Read = true
	if err := n.notifications.Update(ctx, notification); err != nil {
		return nil, err
	}
	return notification, nil
}

// MarkAllRead flags every unread notification of a user as read.
func (n *NotificationService) MarkAllRead(ctx context.Context, userID int64) error {
	items, err := n.notifications.ListByUser(ctx, userID)
	if err != nil {
		return err
	}
	for i := range items {
		if items[i].Read {
			continue
		}
		items[i].Read = true
		if err := n.notifications.Update(ctx, &items[i]); err != nil {
			return err
		}
	}
	return nil
}

func (n *NotificationService) handleShipmentCreated(ctx context.Context, event events.Event) error {
	n.logger.Info("ShipmentCreated", zap.Int64("shipment_id", event.ShipmentID), zap.Any("payload", event.Payload))
	return nil
}

func (n *NotificationService) handleShipmentStatusChanged(ctx context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.ShipmentStatusChangedPayload)
	if !ok {
		n.logger.Warn("unexpected payload for status change", zap.String("event_id", event.ID))
		return nil
	}
	n.logger.Info("ShipmentStatusChanged",
		zap.Int64("shipment_id", event.ShipmentID),
		zap.String("old_status", payload.OldStatus),
		zap.String("new_status", payload.NewStatus))

	link := fmt.Sprintf("/shipments/%d", event.ShipmentID)

	if payload.CustomerID != 0 {
		message := fmt.Sprintf("Shipment %s status changed to %s", payload.TrackingNumber, payload.NewStatus)
		if err := n.Create(ctx, payload.CustomerID, "Shipment update", message, domain.NotificationTypeInfo, link); err != nil {
			n.logger.Warn("customer notification failed", zap.Int64("user_id", payload.CustomerID), zap.Error(err))
			return err
		}
	}

	// the assigned carrier is notified too, unless they caused the change
	if payload.CarrierID != nil && *payload.CarrierID != event.Actor.ID {
		message := fmt.Sprintf("Shipment %s was updated: %s", payload.TrackingNumber, payload.NewStatus)
		if err := n.Create(ctx, *payload.CarrierID, "Shipment updated", message, domain.NotificationTypeInfo, link); err != nil {
			n.logger.Warn("carrier notification failed", zap.Int64("user_id", *payload.CarrierID), zap.Error(err))
			return err
		}
	}
	return nil
}

func (n *NotificationService) handleShipmentDeleted(ctx context.Context, event events.Event) error {
	n.logger.Info("ShipmentDeleted", zap.Int64("shipment_id", event.ShipmentID), zap.Any("payload", event.Payload))
	return nil
}
