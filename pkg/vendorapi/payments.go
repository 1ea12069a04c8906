package vendorapi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
)

func (c Client) PaymentStatus(ctx context.Context, id string) (PaymentDetail, error) {
	return do[PaymentDetail](ctx, c, "payment status", http.MethodGet, "/payments/status/"+url.PathEscape(id), nil, nil)
}

func (c Client) CancelPayment(ctx context.Context, id string) error {
	_, err := do[json.RawMessage](ctx, c, "cancel payment", http.MethodPost, "/payments/cancel/"+url.PathEscape(id), nil, nil)
	return err
}
