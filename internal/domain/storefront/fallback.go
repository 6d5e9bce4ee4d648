package storefront

import (
	"strconv"
	"time"

	"github.com/shopspring/decimal"
)

// Fallback datasets are served whenever the store cannot be read. They are
// never written back. Every accessor returns a fresh copy.

const pexels = "https://images.pexels.com/photos/"

func pexelsPhoto(id string) string {
	return pexels + id + "/pexels-photo-" + id + ".jpeg"
}

func photos(ids ...string) []string {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = pexelsPhoto(id)
	}
	return out
}

func details(pairs ...string) []AccountDetail {
	out := make([]AccountDetail, 0, len(pairs)/2)
	for i := 0; i+1 < len(pairs); i += 2 {
		out = append(out, AccountDetail{
			ID:    strconv.Itoa(i/2 + 1),
			Label: pairs[i],
			Value: pairs[i+1],
		})
	}
	return out
}

// fallbackLoadedAt stamps the fallback accounts once per process
var fallbackLoadedAt = time.Now().UTC()

var fallbackAccounts = []Account{
	{
		ID:       "1",
		Title:    "حساب كونكرر - مستوى عال",
		Price:    decimal.NewFromInt(500),
		Category: CategoryPremium,
		Images:   photos("442576", "1040157", "735911", "164005", "1181244"),
		Details: details(
			"المستوى", "كونكرر",
			"نقاط التصنيف", "6500+",
			"عدد الانتصارات", "2500+",
			"معدل القتل", "4.2",
			"الأسلحة المطورة", "15+",
			"الرتبة الحالية", "كونكرر",
			"عدد الألعاب", "3000+",
			"نسبة البقاء", "85%",
			"أعلى ضرر", "4500",
			"الموسم الحالي", "C1S4",
		),
		Featured:  true,
		CreatedAt: fallbackLoadedAt,
	},
	{
		ID:       "2",
		Title:    "حساب إيس - محترف",
		Price:    decimal.NewFromInt(300),
		Category: CategoryVarious,
		Images:   photos("735911", "442576", "1040157", "164005", "1181244"),
		Details: details(
			"المستوى", "إيس",
			"نقاط التصنيف", "4200+",
			"عدد الانتصارات", "1200+",
			"معدل القتل", "3.8",
			"الأسلحة المطورة", "10+",
			"الرتبة الحالية", "إيس",
			"عدد الألعاب", "1800+",
			"نسبة البقاء", "78%",
			"أعلى ضرر", "3200",
			"الموسم الحالي", "C1S4",
		),
		Featured:  false,
		CreatedAt: fallbackLoadedAt,
	},
	{
		ID:       "3",
		Title:    "حساب كراون - متقدم",
		Price:    decimal.NewFromInt(200),
		Category: CategoryVarious,
		Images:   photos("164005", "442576", "735911"),
		Details: details(
			"المستوى", "كراون",
			"نقاط التصنيف", "3500+",
			"عدد الانتصارات", "800+",
			"معدل القتل", "3.2",
			"الأسلحة المطورة", "8+",
		),
		Featured:  true,
		CreatedAt: fallbackLoadedAt,
	},
}

var fallbackBanners = []BannerImage{
	{ID: "1", URL: pexelsPhoto("442576"), Alt: "عروض خاصة على حسابات PUBG", Order: 1},
	{ID: "2", URL: pexelsPhoto("735911"), Alt: "حسابات مميزة بأفضل الأسعار", Order: 2},
	{ID: "3", URL: pexelsPhoto("1040157"), Alt: "أحدث حسابات PUBG Mobile", Order: 3},
}

var fallbackNews = []NewsItem{
	{ID: "1", Text: "عروض خاصة على حسابات الكونكرر لفترة محدودة!", Order: 1},
	{ID: "2", Text: "تم إضافة حسابات جديدة بمميزات رائعة", Order: 2},
	{ID: "3", Text: "خصم 20% على جميع حسابات فئة الإيس", Order: 3},
}

// FallbackAccounts returns the sample account listings
func FallbackAccounts() []Account {
	out := make([]Account, len(fallbackAccounts))
	for i, a := range fallbackAccounts {
		out[i] = a.Clone()
	}
	return out
}

// FindFallbackAccount looks up a sample account by id
func FindFallbackAccount(id string) (Account, bool) {
	for _, a := range fallbackAccounts {
		if a.ID == id {
			return a.Clone(), true
		}
	}
	return Account{}, false
}

// FallbackBanners returns the sample carousel
func FallbackBanners() []BannerImage {
	return append([]BannerImage{}, fallbackBanners...)
}

// FallbackNews returns the sample ticker entries
func FallbackNews() []NewsItem {
	return append([]NewsItem{}, fallbackNews...)
}
