// Package payment holds the plan catalog and the provider callback
// parsing for the MoMo and ZaloPay upgrade flows.
package payment

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

const gib = int64(1) << 30

// Plan is one purchasable tier.
type Plan struct {
	Name       string
	TotalBytes int64
	AmountUSD  float64
}

// Plans is the purchasable catalog, cheapest first.
var Plans = []Plan{
	{Name: "basic", TotalBytes: 5 * gib, AmountUSD: 2},
	{Name: "pro", TotalBytes: 10 * gib, AmountUSD: 5},
	{Name: "vip", TotalBytes: 50 * gib, AmountUSD: 10},
}

// PlanByName looks up a purchasable plan by its catalog name.
func PlanByName(name string) (Plan, bool) {
	for _, plan := range Plans {
		if plan.Name == name {
			return plan, true
		}
	}

	return Plan{}, false
}

// TierFor classifies a total quota into its cosmetic plan band.
func TierFor(totalBytes int64) string {
	switch {
	case totalBytes <= 1*gib:
		return "Free"
	case totalBytes <= 5*gib:
		return "Basic"
	case totalBytes <= 10*gib:
		return "Pro"
	default:
		return "VIP"
	}
}

// MoMoSuccessCode is the resultCode value of a successful MoMo
// transaction; everything else is a failure or cancellation.
const MoMoSuccessCode = "0"

// ZaloPaySuccessStatus is the status value of a successful ZaloPay
// transaction.
const ZaloPaySuccessStatus = "1"

// ParseMoMoOrderInfo recovers the plan and username from the order
// description echoed back by MoMo. The description contains the
// markers "goi <plan>" and "dung <user>".
func ParseMoMoOrderInfo(orderInfo string) (plan, user string, err error) {
	parts := strings.Fields(orderInfo)

	planIdx := indexOf(parts, "goi")
	userIdx := indexOf(parts, "dung")

	if planIdx < 0 || planIdx+1 >= len(parts) || userIdx < 0 || userIdx+1 >= len(parts) {
		return "", "", fmt.Errorf("malformed order info: %q", orderInfo)
	}

	return parts[planIdx+1], parts[userIdx+1], nil
}

// MoMoOrderInfo builds the order description sent to MoMo, in the
// exact shape ParseMoMoOrderInfo expects back.
func MoMoOrderInfo(plan, user string) string {
	return fmt.Sprintf("Nang cap goi %s cho nguoi dung %s", plan, user)
}

// NewAppTransID generates a ZaloPay app transaction ID. The provider
// requires the current date as a yymmdd prefix.
func NewAppTransID(now time.Time) string {
	return now.Format("060102") + "_" + uuid.NewString()
}

func indexOf(parts []string, marker string) int {
	for i, part := range parts {
		if part == marker {
			return i
		}
	}

	return -1
}
