package service

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"foodgiver/internal/domain"
)

// PromoCode единственный действующий промокод, скидка 20%
const PromoCode = "WELCOME"

const (
	PromoMessageApplied        = "Promo code applied: 20% off"
	PromoMessageAlreadyApplied = "Promo code already applied"
	PromoMessageInvalid        = "Invalid promo code"
	PromoMessageEmpty          = "Please enter a promo code"
)

var (
	promoFactor = decimal.RequireFromString("0.8")

	deliveryMultipliers = map[domain.DeliveryMethod]decimal.Decimal{
		domain.DeliveryStandard: decimal.NewFromInt(1),
		domain.DeliveryExpress:  decimal.RequireFromString("1.2"),
		domain.DeliveryPremium:  decimal.RequireFromString("1.5"),
	}
)

// ParseDeliveryMethod нормализует способ доставки; неизвестное значение это ошибка, а не standard
func ParseDeliveryMethod(s string) (domain.DeliveryMethod, error) {
	m := domain.DeliveryMethod(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := deliveryMultipliers[m]; !ok {
		return "", fmt.Errorf("%w: unknown delivery method %q", ErrInvalidInput, s)
	}
	return m, nil
}

func DeliveryMultiplier(m domain.DeliveryMethod) (decimal.Decimal, error) {
	mult, ok := deliveryMultipliers[m]
	if !ok {
		return decimal.Zero, fmt.Errorf("%w: unknown delivery method %q", ErrInvalidInput, m)
	}
	return mult, nil
}

// ComputeTotal unitPrice * quantity * multiplier(method), then * 0.8 with promo.
// The result keeps full precision; rounding is a display concern.
func ComputeTotal(unitPrice decimal.Decimal, quantity int, method domain.DeliveryMethod, promoApplied bool) (decimal.Decimal, error) {
	if quantity < 1 {
		return decimal.Zero, fmt.Errorf("%w: quantity must be at least 1", ErrInvalidInput)
	}
	mult, err := DeliveryMultiplier(method)
	if err != nil {
		return decimal.Zero, err
	}
	total := unitPrice.Mul(decimal.NewFromInt(int64(quantity))).Mul(mult)
	if promoApplied {
		total = total.Mul(promoFactor)
	}
	return total, nil
}

// ApplyPromoCode проверяет промокод для текущего черновика
func ApplyPromoCode(code string, currentlyApplied bool) (bool, string) {
	code = strings.ToUpper(strings.TrimSpace(code))
	switch {
	case code == "":
		return currentlyApplied, PromoMessageEmpty
	case code != PromoCode:
		return currentlyApplied, PromoMessageInvalid
	case currentlyApplied:
		return true, PromoMessageAlreadyApplied
	default:
		return true, PromoMessageApplied
	}
}

// FormatMoney truncates to two decimals for display.
func FormatMoney(d decimal.Decimal) string {
	return d.Truncate(2).StringFixed(2)
}
