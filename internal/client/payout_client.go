package client

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

// HTTPPayoutClient initiates payouts against the external payout
// service. Retries and idempotency are the payout service's contract;
// this client sends a single request with the order ID as the
// idempotency key and reports the outcome.
type HTTPPayoutClient struct {
	Address string
	client  *http.Client
}

func NewHTTPPayoutClient(address string) *HTTPPayoutClient {
	return &HTTPPayoutClient{
		Address: address,
		client:  &http.Client{Timeout: 5 * time.Second},
	}
}

type initiatePayoutRequest struct {
	OrderID        string  `json:"order_id"`
	EscrowID       string  `json:"escrow_id"`
	IdempotencyKey string  `json:"idempotency_key"`
	Amount         float64 `json:"amount"`
	Currency       string  `json:"currency"`
	Recipient      string  `json:"recipient"`
}

type payoutErrorResponse struct {
	Error string `json:"error"`
}

func (c *HTTPPayoutClient) InitiatePayout(orderID, escrowID string, amount float64, currency, recipient string) error {
	requestBodyBytes, err := json.Marshal(initiatePayoutRequest{
		OrderID:        orderID,
		EscrowID:       escrowID,
		IdempotencyKey: orderID,
		Amount:         amount,
		Currency:       currency,
		Recipient:      recipient,
	})
	if err != nil {
		return err
	}

	response, err := c.client.Post(fmt.Sprintf("%s/payouts", c.Address), "application/json", bytes.NewBuffer(requestBodyBytes))
	if err != nil {
		return err
	}
	defer response.Body.Close()
	responseBodyBytes, err := io.ReadAll(response.Body)
	if err != nil {
		return err
	}

	if response.StatusCode >= 200 && response.StatusCode < 300 {
		return nil
	}

	var errorResponse payoutErrorResponse
	if err := json.Unmarshal(responseBodyBytes, &errorResponse); err != nil {
		return fmt.Errorf("payout service returned status %d", response.StatusCode)
	}
	return errors.New(errorResponse.Error)
}
