package notifications

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

const (
	pickupDateLayout = "2006年01月02日"

	// Shown when the store has not fixed a pickup deadline yet.
	pickupDateFallback = "店家指定日期"
)

// arrivalMessage renders the pickup notice sent to one recipient. The wording
// is the store-facing contract; clients parse nothing out of it, but the
// format is what customers have been trained to expect.
func arrivalMessage(productName string, total decimal.Decimal, due *time.Time) string {
	dateText := pickupDateFallback
	if due != nil {
		dateText = due.Format(pickupDateLayout)
	}
	return fmt.Sprintf("您訂購的%s已到貨，請備妥$%s，於%s前來店內取貨，謝謝。", productName, total.String(), dateText)
}
