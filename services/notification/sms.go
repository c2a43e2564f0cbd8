package notification

import (
	"context"

	"hourgym/utils"

	"go.uber.org/zap"
)

// SMSSender delivers a single SMS message.
type SMSSender interface {
	Send(ctx context.Context, to, body string) error
}

// DevSMSSender logs messages instead of delivering them. It stands in
// until an SMS provider account is wired up.
type DevSMSSender struct{}

func (DevSMSSender) Send(ctx context.Context, to, body string) error {
	utils.GetLogger().Info("dev sms",
		zap.String("to", to), zap.String("body", body))
	return nil
}
