package service

import (
	"context"
	"fmt"
	"log"
	"time"

	"booking/internal/domain"
)

// NotificationType represents the type of notification.
type NotificationType string

const (
	NotificationBookingConfirmed  NotificationType = "BOOKING_CONFIRMED"
	NotificationPaymentAuthorized NotificationType = "PAYMENT_AUTHORIZED"
	NotificationPaymentCaptured   NotificationType = "PAYMENT_CAPTURED"
	NotificationPaymentFailed     NotificationType = "PAYMENT_FAILED"
)

// Notification represents a notification to be sent.
type Notification struct {
	Type      NotificationType
	Recipient string
	Title     string
	Message   string
	Data      map[string]interface{}
	CreatedAt time.Time
}

// NotificationService records customer-facing notifications.
// Delivery is intentionally stubbed: the core only decides WHAT to notify.
type NotificationService struct {
	// In a real system, this would have:
	// - Email client (SendGrid)
	// - SMS client (Twilio)
}

// NewNotificationService creates a new NotificationService.
func NewNotificationService() *NotificationService {
	return &NotificationService{}
}

// NotifyBookingConfirmed notifies the customer that their booking is confirmed.
func (s *NotificationService) NotifyBookingConfirmed(ctx context.Context, booking *domain.Booking, payment *domain.Payment) error {
	return s.send(ctx, Notification{
		Type:      NotificationBookingConfirmed,
		Recipient: booking.CustomerEmail,
		Title:     "Booking Confirmed",
		Message:   fmt.Sprintf("Your ride from %s to %s is confirmed for %s", booking.Pickup, booking.Dropoff, booking.ScheduledAt.Format(time.RFC1123)),
		Data: map[string]interface{}{
			"booking_id":     booking.ID,
			"payment_method": payment.Method,
			"amount_cents":   payment.AmountCents,
		},
		CreatedAt: time.Now(),
	})
}

// NotifyPaymentAuthorized notifies the customer that their card hold is placed.
func (s *NotificationService) NotifyPaymentAuthorized(ctx context.Context, booking *domain.Booking, payment *domain.Payment) error {
	return s.send(ctx, Notification{
		Type:      NotificationPaymentAuthorized,
		Recipient: booking.CustomerEmail,
		Title:     "Payment Authorized",
		Message:   fmt.Sprintf("A hold of $%.2f has been placed for your ride", float64(payment.AmountCents)/100),
		Data: map[string]interface{}{
			"booking_id": booking.ID,
			"payment_id": payment.ID,
		},
		CreatedAt: time.Now(),
	})
}

// NotifyPaymentCaptured notifies the customer of a completed charge.
func (s *NotificationService) NotifyPaymentCaptured(ctx context.Context, payment *domain.Payment) error {
	return s.send(ctx, Notification{
		Type:      NotificationPaymentCaptured,
		Recipient: payment.BookingID,
		Title:     "Payment Successful",
		Message:   fmt.Sprintf("Payment of $%.2f was successful", float64(payment.AmountCents)/100),
		Data: map[string]interface{}{
			"payment_id":   payment.ID,
			"amount_cents": payment.AmountCents,
		},
		CreatedAt: time.Now(),
	})
}

// NotifyPaymentFailed notifies the customer of a failed charge.
func (s *NotificationService) NotifyPaymentFailed(ctx context.Context, payment *domain.Payment) error {
	return s.send(ctx, Notification{
		Type:      NotificationPaymentFailed,
		Recipient: payment.BookingID,
		Title:     "Payment Failed",
		Message:   fmt.Sprintf("Payment of $%.2f failed", float64(payment.AmountCents)/100),
		Data: map[string]interface{}{
			"payment_id":   payment.ID,
			"amount_cents": payment.AmountCents,
		},
		CreatedAt: time.Now(),
	})
}

// send delivers a notification (stub implementation).
func (s *NotificationService) send(ctx context.Context, notification Notification) error {
	// TODO: deliver confirmation email via a mail provider once one is chosen.
	log.Printf("[NOTIFICATION] Type=%s, Recipient=%s, Title=%s, Message=%s",
		notification.Type, notification.Recipient, notification.Title, notification.Message)

	return nil
}
