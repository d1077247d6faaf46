package orders

import "testing"

func TestParseMoney(t *testing.T) {
	cases := []struct {
		in       string
		amount   int64
		currency string
		ok       bool
	}{
		{"$60", 6000, "USD", true},
		{"60$", 6000, "USD", true},
		{"60", 6000, "", true},
		{"60.5", 6050, "", true},
		{"12,75 usd", 1275, "USD", true},
		{"1500 руб", 150000, "RUB", true},
		{"$60 (5500 руб)", 6000, "RUB", true}, // два маркера: побеждает первый в фиксированном порядке
		{"  45 ", 4500, "", true},
		{"договорная", 0, "", false},
		{"", 0, "", false},
	}
	for _, c := range cases {
		m, ok := ParseMoney(c.in)
		if ok != c.ok {
			t.Errorf("ParseMoney(%q): ok = %v, ожидалось %v", c.in, ok, c.ok)
			continue
		}
		if !ok {
			continue
		}
		if m.Amount != c.amount || m.Currency != c.currency {
			t.Errorf("ParseMoney(%q) = %+v, ожидалось {%d %s}", c.in, m, c.amount, c.currency)
		}
	}
}

func TestPricesMatch(t *testing.T) {
	cases := []struct {
		a, b  string
		match bool
	}{
		{"$60", "60", true},        // валюта сверяется только при обеих
		{"$60", "$60.00", true},
		{"60", "60 руб", true},
		{"$60", "60 руб", false},   // разные валюты
		{"60", "61", false},
		{"договорная", "договорная", true}, // текстовый fallback
		{"договорная", "$60", false},
	}
	for _, c := range cases {
		if got := PricesMatch(c.a, c.b); got != c.match {
			t.Errorf("PricesMatch(%q, %q) = %v, ожидалось %v", c.a, c.b, got, c.match)
		}
	}
}
