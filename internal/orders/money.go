package orders

import (
	"strings"
	"unicode"
)

// Money — сумма в минорных единицах (копейки/центы) плюс код валюты.
// Суммы в заказах хранятся как свободный текст ("$60", "1500 руб"),
// поэтому парсинг нужен только для сверки, не для хранения.
type Money struct {
	Amount   int64
	Currency string
}

// Порядок фиксированный: длинные маркеры раньше коротких, чтобы "руб"
// не съедался маркером "р" и результат не зависел от порядка обхода.
var currencyMarkers = []struct {
	marker string
	code   string
}{
	{"usd", "USD"},
	{"eur", "EUR"},
	{"rub", "RUB"},
	{"руб", "RUB"},
	{"р.", "RUB"},
	{"$", "USD"},
	{"€", "EUR"},
	{"£", "GBP"},
	{"₽", "RUB"},
	{"р", "RUB"},
}

// ParseMoney разбирает свободный текст суммы. false, если числа в нём нет.
func ParseMoney(s string) (Money, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return Money{}, false
	}

	currency := ""
	for _, m := range currencyMarkers {
		if strings.Contains(s, m.marker) {
			currency = m.code
			s = strings.ReplaceAll(s, m.marker, "")
			break
		}
	}
	s = strings.TrimSpace(s)

	// Оставляем только цифры и десятичный разделитель
	var digits strings.Builder
	sep := false
	for _, r := range s {
		switch {
		case unicode.IsDigit(r):
			digits.WriteRune(r)
		case (r == '.' || r == ',') && !sep && digits.Len() > 0:
			digits.WriteRune('.')
			sep = true
		case unicode.IsSpace(r):
		default:
			if digits.Len() > 0 {
				// число закончилось, хвост игнорируем
				goto done
			}
		}
	}
done:
	raw := digits.String()
	if raw == "" {
		return Money{}, false
	}

	whole := raw
	frac := ""
	if i := strings.IndexByte(raw, '.'); i >= 0 {
		whole, frac = raw[:i], raw[i+1:]
	}
	if len(frac) > 2 {
		frac = frac[:2]
	}
	for len(frac) < 2 {
		frac += "0"
	}
	var amount int64
	for _, r := range whole + frac {
		amount = amount*10 + int64(r-'0')
	}
	return Money{Amount: amount, Currency: currency}, true
}

// PricesMatch сравнивает две суммы, названные независимо исполнителем и
// клиентом. Совпадением считается равенство в минорных единицах; валюта
// сверяется, только если указана в обеих строках.
func PricesMatch(a, b string) bool {
	ma, okA := ParseMoney(a)
	mb, okB := ParseMoney(b)
	if !okA || !okB {
		// Числа не разобрались — сравниваем как текст
		return strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(b))
	}
	if ma.Amount != mb.Amount {
		return false
	}
	if ma.Currency != "" && mb.Currency != "" && ma.Currency != mb.Currency {
		return false
	}
	return true
}
