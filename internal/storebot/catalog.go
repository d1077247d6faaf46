package storebot

import (
	"strconv"

	"github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// LicenseTier — тариф лицензии на готовый бит
type LicenseTier struct {
	Name  string
	Price string
}

// Каталог лицензий. "Эксклюзив" обсуждается отдельно, цена свободным текстом.
var LicenseTiers = []LicenseTier{
	{Name: "MP3 Lease", Price: "$19"},
	{Name: "WAV Lease", Price: "$49"},
	{Name: "Trackout", Price: "$99"},
	{Name: "Exclusive", Price: "$199"},
}

func licenseKeyboard() tgbotapi.InlineKeyboardMarkup {
	var rows [][]tgbotapi.InlineKeyboardButton
	for i, tier := range LicenseTiers {
		label := tier.Name + " — " + tier.Price
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(label, "license_"+strconv.Itoa(i)),
		))
	}
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

func paymentMethodKeyboard(purchaseID uint) tgbotapi.InlineKeyboardMarkup {
	id := strconv.FormatUint(uint64(purchaseID), 10)
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("₿ Крипта", "paymethod_"+id+"_crypto"),
			tgbotapi.NewInlineKeyboardButtonData("PayPal", "paymethod_"+id+"_paypal"),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("CashApp", "paymethod_"+id+"_cashapp"),
			tgbotapi.NewInlineKeyboardButtonData("💳 Карта", "paymethod_"+id+"_card"),
		),
	)
}

func mainKeyboard() tgbotapi.ReplyKeyboardMarkup {
	return tgbotapi.NewReplyKeyboard(
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton("/beats"),
			tgbotapi.NewKeyboardButton("/order_beat"),
		),
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton("/order_mixing"),
			tgbotapi.NewKeyboardButton("/my_order"),
		),
	)
}
