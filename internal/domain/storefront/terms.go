package storefront

import (
	"strings"
	"time"
)

// TermsKey is the settings key under which the terms record is stored
const TermsKey = "terms"

// Terms holds the selling and buying instructions shown on the terms page.
// Each field is newline-delimited; every non-blank line is one bullet.
type Terms struct {
	SellingTerms string    `json:"selling_terms"`
	BuyingTerms  string    `json:"buying_terms"`
	UpdatedAt    time.Time `json:"updated_at"`
}

var defaultSellingLines = []string{
	"تصفير حسابك من كل الارتباطات",
	"إزالة كل بريد إلكتروني في اللعبة",
	"إزالة كل حساب تواصل اجتماعي (X، فيسبوك، وغيرها)",
	"اجعل فقط ارتباط الهاتف الخاص بك في اللعبة",
	"تواصل معنا وعند الاتفاق سنقوم بعمل إيميل جديد لحسابك",
	"سنرسل أموالك خلال 21 يوم لسياسة شركة PUBG للاسترجاع",
}

var defaultBuyingLines = []string{
	"قم باختيار الحساب المطلوب",
	"قم بإضافة معلوماتك الشخصية",
	"اضغط على \"إرسال إلى الواتساب\"",
	"سيتم إرسالك إلى الواتساب تلقائياً مع معلوماتك",
	"سيتم إرسال معلومات الحساب الذي تريده",
}

// DefaultTerms returns the terms shown when no terms record can be read
func DefaultTerms() Terms {
	return Terms{
		SellingTerms: strings.Join(defaultSellingLines, "\n"),
		BuyingTerms:  strings.Join(defaultBuyingLines, "\n"),
	}
}

// TermLines splits a terms field into its trimmed, non-blank bullet lines
func TermLines(text string) []string {
	var lines []string
	for _, line := range strings.Split(text, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			lines = append(lines, line)
		}
	}
	return lines
}
