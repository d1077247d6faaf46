package purchasesbot

import "testing"

func TestParseDeliveryCaption(t *testing.T) {
	cases := []struct {
		caption string
		id      uint
		ok      bool
	}{
		{"#12", 12, true},
		{"#12 басовая версия", 12, true},
		{"  #7  ", 7, true},
		{"#", 0, false},  // решетка без номера не должна ронять обработчик
		{"# ", 0, false},
		{"#abc", 0, false},
		{"#0", 0, false},
		{"12", 0, false},
		{"", 0, false},
	}
	for _, c := range cases {
		id, ok := parseDeliveryCaption(c.caption)
		if ok != c.ok || id != c.id {
			t.Errorf("parseDeliveryCaption(%q) = (%d, %v), ожидалось (%d, %v)",
				c.caption, id, ok, c.id, c.ok)
		}
	}
}
