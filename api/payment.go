package api

import (
	"context"
	"net/url"
	"strconv"
)

// MakePayment charges the flat amount against the user's account and
// returns the backend's confirmation message.
func (c *Client) MakePayment(ctx context.Context, username string, amount float64) (string, error) {
	form := url.Values{}
	form.Set("username", username)
	form.Set("amount", strconv.FormatFloat(amount, 'f', 2, 64))

	var body statusBody
	if err := c.postForm(ctx, "/payment", form, &body); err != nil {
		return "", err
	}

	return body.text(), nil
}

// CreateMoMoPayment opens a MoMo order for the plan upgrade and
// returns the provider URL the user must be sent to.
func (c *Client) CreateMoMoPayment(ctx context.Context, username, plan string, amount float64) (string, error) {
	form := url.Values{}
	form.Set("username", username)
	form.Set("plan", plan)
	form.Set("amount", strconv.FormatFloat(amount, 'f', 2, 64))

	var body struct {
		PayURL string `json:"payUrl"`
	}
	if err := c.postForm(ctx, "/payment/momo/create", form, &body); err != nil {
		return "", err
	}

	return body.PayURL, nil
}

// CreateZaloPayPayment opens a ZaloPay order and returns the provider
// URL. appTransID is the client-generated transaction ID the callback
// will echo back.
func (c *Client) CreateZaloPayPayment(ctx context.Context, username, plan, appTransID string, amount float64) (string, error) {
	form := url.Values{}
	form.Set("username", username)
	form.Set("plan", plan)
	form.Set("app_trans_id", appTransID)
	form.Set("amount", strconv.FormatFloat(amount, 'f', 2, 64))

	var body struct {
		OrderURL string `json:"orderUrl"`
	}
	if err := c.postForm(ctx, "/payment/zalopay/create", form, &body); err != nil {
		return "", err
	}

	return body.OrderURL, nil
}

// ZaloPayConfirmation names the account and plan a confirmed
// transaction paid for.
type ZaloPayConfirmation struct {
	PlanName string `json:"planName"`
	UserName string `json:"userName"`
}

// ConfirmZaloPayPayment reports a provider callback to the backend,
// which finalizes the upgrade and answers with the affected account.
func (c *Client) ConfirmZaloPayPayment(ctx context.Context, appTransID, status string) (ZaloPayConfirmation, error) {
	form := url.Values{}
	form.Set("app_trans_id", appTransID)
	form.Set("status", status)

	var confirmation ZaloPayConfirmation
	if err := c.postForm(ctx, "/payment/zalopay/callback", form, &confirmation); err != nil {
		return ZaloPayConfirmation{}, err
	}

	return confirmation, nil
}

// UpgradeAccount switches the account to the named plan.
func (c *Client) UpgradeAccount(ctx context.Context, username, plan string) error {
	form := url.Values{}
	form.Set("username", username)
	form.Set("plan", plan)

	return c.postForm(ctx, "/upgrade-account", form, nil)
}
