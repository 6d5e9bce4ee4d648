package storefront

import (
	"fmt"
	"net/url"
	"strings"
)

// DefaultWhatsAppNumber receives purchase requests unless configured otherwise
const DefaultWhatsAppNumber = "967777826667"

const purchaseTemplate = "مرحباً، أريد شراء هذا الحساب:\n    \nالعنوان: %s\nالسعر: %s ريال\n\nتفاصيل الحساب:\n%s\n\nيرجى التواصل معي لإتمام عملية الشراء."

// PurchaseMessage formats the prefilled chat message for buying a.
func PurchaseMessage(a Account) string {
	lines := make([]string, 0, len(a.Details))
	for _, d := range a.Details {
		lines = append(lines, d.Label+": "+d.Value)
	}
	return fmt.Sprintf(purchaseTemplate, a.Title, a.Price.String(), strings.Join(lines, "\n"))
}

// PurchaseLink returns the wa.me deep link that opens a chat with number
// prefilled with the purchase message for a.
func PurchaseLink(number string, a Account) string {
	return "https://wa.me/" + number + "?text=" + encodeURIComponent(PurchaseMessage(a))
}

// encodeURIComponent escapes s like the browser function of the same name:
// spaces become %20 and !'()* stay literal.
func encodeURIComponent(s string) string {
	return uriUnreserved.Replace(url.QueryEscape(s))
}

var uriUnreserved = strings.NewReplacer(
	"+", "%20",
	"%21", "!",
	"%27", "'",
	"%28", "(",
	"%29", ")",
	"%2A", "*",
)
