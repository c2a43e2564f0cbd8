package notification

import (
	"context"
	"fmt"
	"time"

	"hourgym/utils"

	"go.uber.org/zap"
)

// NotificationService sends transactional booking messages over email and
// SMS. Delivery is best-effort: callers dispatch asynchronously and log
// failures; a failed send never rolls back a booking or cancellation.
type NotificationService interface {
	SendBookingConfirmed(ctx context.Context, data BookingNotification) error
	SendBookingCancelled(ctx context.Context, data CancellationNotification) error
	SendBookingReminder(ctx context.Context, data BookingNotification) error
}

// BookingNotification carries the pre-computed fields for confirmation
// and reminder messages.
type BookingNotification struct {
	BookingID         string
	SpaceName         string
	GymName           string
	StartAt           time.Time
	EndAt             time.Time
	Address           string
	EntryInstructions string
	ContactName       string
	ContactPhone      string
	TotalAmountCents  int64

	RenterName  string
	RenterEmail string
	RenterPhone string
}

// CancellationNotification carries the fields for cancellation messages.
type CancellationNotification struct {
	BookingID         string
	SpaceName         string
	GymName           string
	StartAt           time.Time
	EndAt             time.Time
	RefundAmountCents int64
	CancelledByGym    bool

	RenterName  string
	RenterEmail string
	RenterPhone string
}

// DefaultNotificationService is the production implementation: MailerSend
// for email, a pluggable sender for SMS.
type DefaultNotificationService struct {
	Mailer MailerService
	SMS    SMSSender
}

func NewDefaultNotificationService(mailer MailerService, sms SMSSender) *DefaultNotificationService {
	return &DefaultNotificationService{Mailer: mailer, SMS: sms}
}

func (s *DefaultNotificationService) SendBookingConfirmed(ctx context.Context, data BookingNotification) error {
	subject := fmt.Sprintf("Booking Confirmed: %s at %s", data.SpaceName, data.GymName)
	text := fmt.Sprintf(
		"Your booking is confirmed!\n\n%s at %s\n%s, %s - %s\nTotal: %s\n\n%s",
		data.SpaceName, data.GymName,
		data.StartAt.Format("Monday, Jan 2, 2006"),
		data.StartAt.Format("3:04 PM"), data.EndAt.Format("3:04 PM"),
		formatCents(data.TotalAmountCents),
		entryDetails(data),
	)

	if err := s.sendBoth(ctx, data.RenterEmail, data.RenterName, data.RenterPhone, subject, text); err != nil {
		return err
	}
	return nil
}

func (s *DefaultNotificationService) SendBookingCancelled(ctx context.Context, data CancellationNotification) error {
	subject := fmt.Sprintf("Booking Cancelled: %s at %s", data.SpaceName, data.GymName)
	who := "You"
	if data.CancelledByGym {
		who = "The gym"
	}
	text := fmt.Sprintf(
		"%s cancelled your booking.\n\n%s at %s\n%s, %s - %s\nRefund: %s",
		who, data.SpaceName, data.GymName,
		data.StartAt.Format("Monday, Jan 2, 2006"),
		data.StartAt.Format("3:04 PM"), data.EndAt.Format("3:04 PM"),
		formatCents(data.RefundAmountCents),
	)

	return s.sendBoth(ctx, data.RenterEmail, data.RenterName, data.RenterPhone, subject, text)
}

func (s *DefaultNotificationService) SendBookingReminder(ctx context.Context, data BookingNotification) error {
	subject := fmt.Sprintf("Reminder: %s at %s starts soon", data.SpaceName, data.GymName)
	text := fmt.Sprintf(
		"Your session starts at %s.\n\n%s at %s\n\n%s",
		data.StartAt.Format("3:04 PM"),
		data.SpaceName, data.GymName,
		entryDetails(data),
	)

	return s.sendBoth(ctx, data.RenterEmail, data.RenterName, data.RenterPhone, subject, text)
}

// sendBoth delivers over email and, when a phone number is known, SMS.
// Either channel failing fails the send; the caller decides what failure
// means (always just a log line in practice).
func (s *DefaultNotificationService) sendBoth(ctx context.Context, email, name, phone, subject, text string) error {
	logger := utils.GetLogger()

	var firstErr error
	if email != "" {
		if _, err := s.Mailer.Send(email, name, subject, text, ""); err != nil {
			logger.Warn("email send failed", zap.String("to", email), zap.Error(err))
			firstErr = err
		}
	}
	if phone != "" && s.SMS != nil {
		if err := s.SMS.Send(ctx, phone, subject+"\n\n"+text); err != nil {
			logger.Warn("sms send failed", zap.String("to", phone), zap.Error(err))
			if firstErr == nil {
				firstErr = err
			}
		}
	}
	return firstErr
}

func entryDetails(data BookingNotification) string {
	out := ""
	if data.Address != "" {
		out += "Address: " + data.Address + "\n"
	}
	if data.EntryInstructions != "" {
		out += "Entry: " + data.EntryInstructions + "\n"
	}
	if data.ContactName != "" {
		out += "Contact: " + data.ContactName
		if data.ContactPhone != "" {
			out += " (" + data.ContactPhone + ")"
		}
		out += "\n"
	}
	return out
}

func formatCents(cents int64) string {
	return fmt.Sprintf("$%.2f", float64(cents)/100)
}
