package triage

// Category is a question category key shared by messages and QA templates.
type Category string

const (
	CategoryShipping     Category = "shipping"
	CategoryDefect       Category = "defect"
	CategoryReturn       Category = "return"
	CategoryRefund       Category = "refund"
	CategoryCancel       Category = "cancel"
	CategorySpec         Category = "spec"
	CategoryReceipt      Category = "receipt"
	CategoryAddress      Category = "address"
	CategoryDeliveryTime Category = "delivery_time"
	CategoryResend       Category = "resend"
	CategoryStock        Category = "stock"
	CategoryOther        Category = "other"
)

// Categories lists every question category in picker order.
func Categories() []Category {
	return []Category{
		CategoryShipping,
		CategoryDefect,
		CategoryReturn,
		CategoryRefund,
		CategoryCancel,
		CategorySpec,
		CategoryReceipt,
		CategoryAddress,
		CategoryDeliveryTime,
		CategoryResend,
		CategoryStock,
		CategoryOther,
	}
}

// Label returns the Japanese display name for a category.
func (c Category) Label() string {
	switch c {
	case CategoryShipping:
		return "発送・配送"
	case CategoryDefect:
		return "不良・破損"
	case CategoryReturn:
		return "返品・交換"
	case CategoryRefund:
		return "返金"
	case CategoryCancel:
		return "キャンセル"
	case CategorySpec:
		return "仕様・適合"
	case CategoryReceipt:
		return "領収書"
	case CategoryAddress:
		return "届け先変更"
	case CategoryDeliveryTime:
		return "日時指定"
	case CategoryResend:
		return "再送"
	case CategoryStock:
		return "欠品・在庫"
	case CategoryOther:
		return "その他"
	default:
		return string(c)
	}
}
