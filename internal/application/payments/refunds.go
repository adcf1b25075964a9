// Package payments implements payment actions the portal performs against
// the connector, currently refund submission.
package payments

import (
	"context"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/selfservice/portal/internal/infrastructure/clients/connector"
)

// Refund amount validation codes
const (
	CodeAmountNotValid     = "REFUND_AMOUNT_NOT_VALID"
	CodeAmountAboveBalance = "REFUND_AMOUNT_ABOVE_BALANCE"
)

// AmountError is a user-correctable refund amount problem
type AmountError struct {
	Code    string
	Message string
}

func (e *AmountError) Error() string {
	return e.Message
}

var (
	errAmountNotValid = &AmountError{
		Code:    CodeAmountNotValid,
		Message: "Enter an amount to refund in pounds and pence using digits and a decimal point, like 10.50",
	}
	errAmountAboveBalance = &AmountError{
		Code:    CodeAmountAboveBalance,
		Message: "The amount you tried to refund is greater than the amount available to be refunded",
	}
)

var penceInPound = decimal.NewFromInt(100)

// ConnectorClient is the subset of connector operations refunds use
type ConnectorClient interface {
	PostChargeRefund(ctx context.Context, params connector.PostChargeRefundParams) error
}

// RefundRequest is one refund submission. Amount is the user-entered pounds
// value; RefundAmountAvailable is the remaining refundable balance in pence
// as reported by the connector when the page was rendered.
type RefundRequest struct {
	GatewayAccountID      string
	ChargeID              string
	Amount                string
	RefundAmountAvailable int64
	CorrelationID         string
}

// RefundService submits refunds against charges
type RefundService struct {
	connector ConnectorClient
	logger    *zap.Logger
}

// NewRefundService creates the refund service
func NewRefundService(connectorClient ConnectorClient, logger *zap.Logger) *RefundService {
	return &RefundService{connector: connectorClient, logger: logger}
}

// Submit parses and bounds-checks the amount, then posts the refund. The
// available balance travels with the request so the connector can reject a
// refund raced by another one.
func (s *RefundService) Submit(ctx context.Context, req RefundRequest) error {
	pence, err := ParseAmount(req.Amount)
	if err != nil {
		return err
	}
	if pence > req.RefundAmountAvailable {
		return errAmountAboveBalance
	}

	if err := s.connector.PostChargeRefund(ctx, connector.PostChargeRefundParams{
		GatewayAccountID: req.GatewayAccountID,
		ChargeID:         req.ChargeID,
		Payload: connector.RefundRequest{
			Amount:                pence,
			RefundAmountAvailable: req.RefundAmountAvailable,
		},
		CorrelationID: req.CorrelationID,
	}); err != nil {
		return err
	}

	s.logger.Info("Submitted refund",
		zap.String("gateway_account_id", req.GatewayAccountID),
		zap.String("charge_id", req.ChargeID),
		zap.Int64("amount_pence", pence),
		zap.String("correlation_id", req.CorrelationID))
	return nil
}

// ParseAmount converts a user-entered pounds value into pence. Amounts with
// fractional pence, zero or negative amounts and non-numeric input are
// rejected.
func ParseAmount(amount string) (int64, error) {
	pounds, err := decimal.NewFromString(amount)
	if err != nil {
		return 0, errAmountNotValid
	}
	pence := pounds.Mul(penceInPound)
	if !pence.IsInteger() {
		return 0, errAmountNotValid
	}
	if !pence.IsPositive() {
		return 0, errAmountNotValid
	}
	return pence.IntPart(), nil
}
