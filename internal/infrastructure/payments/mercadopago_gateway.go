package payments

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"dealflow/internal/usecase/interfaces"

	"github.com/mercadopago/sdk-go/pkg/config"
	"github.com/mercadopago/sdk-go/pkg/payment"
	"github.com/rs/zerolog/log"
)

var ErrMissingMercadoPagoAccessToken = errors.New("missing MERCADOPAGO_ACCESS_TOKEN")
var ErrMercadoPagoGatewayNotConfigured = errors.New("mercado pago gateway not configured")

// MercadoPagoGateway bills project invoices through Mercado Pago. Mock mode
// (PAYMENT_GATEWAY_MOCK=1) approves everything locally so invoice flows can
// be exercised without provider credentials.
type MercadoPagoGateway struct {
	client   payment.Client
	mockMode bool
}

var _ interfaces.IPaymentGateway = (*MercadoPagoGateway)(nil)

func NewMercadoPagoGateway(accessToken string) (*MercadoPagoGateway, error) {
	if isPaymentGatewayMockEnabled() {
		log.Info().Msg("payment gateway mock mode enabled")
		return &MercadoPagoGateway{mockMode: true}, nil
	}

	if accessToken == "" {
		return nil, ErrMissingMercadoPagoAccessToken
	}

	cfg, err := config.New(accessToken)
	if err != nil {
		return nil, err
	}
	log.Info().Msg("mercado pago client initialized")

	return &MercadoPagoGateway{client: payment.NewClient(cfg)}, nil
}

func (g *MercadoPagoGateway) CreateInvoicePayment(ctx context.Context, invoiceID string, amount float64, description string) (string, string, error) {
	if g != nil && g.mockMode {
		id := strconv.FormatInt(time.Now().UTC().UnixNano(), 10)
		log.Info().Str("invoice_id", invoiceID).Str("provider_payment_id", id).Msg("mock payment approved")
		return id, "approved", nil
	}

	if g == nil || g.client == nil {
		return "", "", ErrMercadoPagoGatewayNotConfigured
	}

	resp, err := g.client.Create(ctx, payment.Request{
		TransactionAmount: amount,
		Description:       description,
		ExternalReference: invoiceID,
	})
	if err != nil {
		log.Error().Err(err).Str("invoice_id", invoiceID).Msg("payment create failed")
		return "", "", err
	}

	log.Info().
		Str("invoice_id", invoiceID).
		Int("provider_payment_id", resp.ID).
		Str("provider_status", resp.Status).
		Msg("payment created")
	return fmt.Sprintf("%d", resp.ID), resp.Status, nil
}

func isPaymentGatewayMockEnabled() bool {
	for _, key := range []string{"PAYMENT_GATEWAY_MOCK", "MERCADOPAGO_MOCK"} {
		v := strings.ToLower(strings.TrimSpace(os.Getenv(key)))
		switch v {
		case "1", "true", "yes", "on", "mock":
			return true
		}
	}
	return false
}
