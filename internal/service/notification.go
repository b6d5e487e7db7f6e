package service

import (
	"context"
	"fmt"
	"log"
	"time"

	"rental/internal/domain"
)

// NotificationType represents the type of notification.
type NotificationType string

const (
	NotificationBookingCreated   NotificationType = "BOOKING_CREATED"
	NotificationPaymentSuccess   NotificationType = "PAYMENT_SUCCESS"
	NotificationPaymentFailed    NotificationType = "PAYMENT_FAILED"
	NotificationBookingCanceled  NotificationType = "BOOKING_CANCELED"
	NotificationBookingCompleted NotificationType = "BOOKING_COMPLETED"
	NotificationReceiptReady     NotificationType = "RECEIPT_READY"
)

// Notification represents a notification to be sent.
type Notification struct {
	Type           NotificationType
	RecipientEmail string
	Title          string
	Message        string
	Data           map[string]interface{}
	CreatedAt      time.Time
}

// NotificationService handles notification delivery. The current transport is
// the application log; the shapes match what a push/email provider expects.
type NotificationService struct{}

// NewNotificationService creates a new NotificationService.
func NewNotificationService() *NotificationService {
	return &NotificationService{}
}

// NotifyBookingCreated notifies the renter that their booking was placed.
func (s *NotificationService) NotifyBookingCreated(ctx context.Context, booking *domain.Booking, total float64) error {
	return s.send(ctx, Notification{
		Type:           NotificationBookingCreated,
		RecipientEmail: booking.UserEmail,
		Title:          "Booking Received",
		Message:        fmt.Sprintf("Your booking for %s is awaiting payment. Total: $%.2f", booking.CarModel, total),
		Data: map[string]interface{}{
			"booking_id": booking.ID,
			"car_id":     booking.CarID,
			"total":      total,
		},
		CreatedAt: time.Now(),
	})
}

// NotifyPaymentSuccess notifies the renter of a successful payment.
func (s *NotificationService) NotifyPaymentSuccess(ctx context.Context, payment *domain.Payment, recipientEmail string) error {
	return s.send(ctx, Notification{
		Type:           NotificationPaymentSuccess,
		RecipientEmail: recipientEmail,
		Title:          "Payment Successful",
		Message:        fmt.Sprintf("Payment of $%.2f was successful. Your booking is confirmed.", float64(payment.AmountMinor)/100),
		Data: map[string]interface{}{
			"payment_id": payment.ID,
			"booking_id": payment.BookingID,
			"reference":  payment.Reference,
		},
		CreatedAt: time.Now(),
	})
}

// NotifyPaymentFailed notifies the renter of a failed payment.
func (s *NotificationService) NotifyPaymentFailed(ctx context.Context, payment *domain.Payment, recipientEmail string) error {
	return s.send(ctx, Notification{
		Type:           NotificationPaymentFailed,
		RecipientEmail: recipientEmail,
		Title:          "Payment Failed",
		Message:        fmt.Sprintf("Payment of $%.2f failed. Please try again.", float64(payment.AmountMinor)/100),
		Data: map[string]interface{}{
			"payment_id": payment.ID,
			"booking_id": payment.BookingID,
		},
		CreatedAt: time.Now(),
	})
}

// NotifyBookingCanceled notifies the renter about a cancellation.
func (s *NotificationService) NotifyBookingCanceled(ctx context.Context, booking *domain.Booking, canceledBy, reason string) error {
	message := "Your booking has been canceled."
	if canceledBy != booking.UserEmail {
		message = "Your booking has been canceled by an administrator."
	}

	return s.send(ctx, Notification{
		Type:           NotificationBookingCanceled,
		RecipientEmail: booking.UserEmail,
		Title:          "Booking Canceled",
		Message:        message,
		Data: map[string]interface{}{
			"booking_id":  booking.ID,
			"canceled_by": canceledBy,
			"reason":      reason,
		},
		CreatedAt: time.Now(),
	})
}

// NotifyBookingCompleted notifies the renter that the rental is done.
func (s *NotificationService) NotifyBookingCompleted(ctx context.Context, booking *domain.Booking) error {
	return s.send(ctx, Notification{
		Type:           NotificationBookingCompleted,
		RecipientEmail: booking.UserEmail,
		Title:          "Rental Completed",
		Message:        fmt.Sprintf("Your rental of %s is complete. Thanks for renting with us!", booking.CarModel),
		Data: map[string]interface{}{
			"booking_id": booking.ID,
		},
		CreatedAt: time.Now(),
	})
}

// NotifyReceiptReady notifies the renter that the receipt is ready.
func (s *NotificationService) NotifyReceiptReady(ctx context.Context, receipt *domain.Receipt) error {
	return s.send(ctx, Notification{
		Type:           NotificationReceiptReady,
		RecipientEmail: receipt.UserEmail,
		Title:          "Receipt Ready",
		Message:        fmt.Sprintf("Your receipt for $%.2f is ready", receipt.PaidAmount),
		Data: map[string]interface{}{
			"receipt_id": receipt.ID,
			"booking_id": receipt.BookingID,
		},
		CreatedAt: time.Now(),
	})
}

// send delivers a notification (log transport).
func (s *NotificationService) send(ctx context.Context, notification Notification) error {
	log.Printf("[NOTIFICATION] Type=%s, Recipient=%s, Title=%s, Message=%s",
		notification.Type, notification.RecipientEmail, notification.Title, notification.Message)

	return nil
}
