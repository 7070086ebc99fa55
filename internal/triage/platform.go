package triage

// Platform is a QA-template sales channel. Templates marked common apply
// everywhere; the backend returns common rows alongside any platform match.
type Platform string

const (
	PlatformCommon        Platform = "common"
	PlatformAmazon        Platform = "amazon"
	PlatformYahooAuction  Platform = "yahoo_auction"
	PlatformYahooShopping Platform = "yahoo_shopping"
	PlatformMercari       Platform = "mercari"
	PlatformRakuten       Platform = "rakuten"
	PlatformMultiChannel  Platform = "multi_channel"
)

// Platforms lists every template platform in display order.
func Platforms() []Platform {
	return []Platform{
		PlatformCommon,
		PlatformAmazon,
		PlatformYahooAuction,
		PlatformYahooShopping,
		PlatformMercari,
		PlatformRakuten,
		PlatformMultiChannel,
	}
}

// CyclePlatform returns the platform after cur in display order. The
// empty value means no filter; it precedes common and follows
// multi_channel, so repeated calls walk the full cycle.
func CyclePlatform(cur Platform) Platform {
	ps := Platforms()
	for i, p := range ps {
		if p == cur {
			if i == len(ps)-1 {
				return ""
			}
			return ps[i+1]
		}
	}
	return ps[0]
}

// Label returns the Japanese display name for a platform.
func (p Platform) Label() string {
	switch p {
	case PlatformCommon:
		return "共通"
	case PlatformAmazon:
		return "Amazon"
	case PlatformYahooAuction:
		return "ヤフオク"
	case PlatformYahooShopping:
		return "Yahoo!ショッピング"
	case PlatformMercari:
		return "メルカリ"
	case PlatformRakuten:
		return "楽天"
	case PlatformMultiChannel:
		return "複数販路"
	default:
		return string(p)
	}
}
