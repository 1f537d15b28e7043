package notifier

import (
	"fmt"
	"html"
	"strconv"

	"github.com/fystack/jetton-buy-notifier/pkg/common/constant"
	"github.com/fystack/jetton-buy-notifier/pkg/common/types"
)

const buyTemplate = "Новая покупка <b>%[1]s</b> от %[2]s TON\n\n" +
	"🔗 Хэш: <code>%[3]s</code>\n" +
	"💰 Получено: %[4]s %[1]s\n" +
	"💵 Цена: %[5]s TON\n" +
	"👤 Покупатель: <code>%[6]s</code>\n" +
	"🌎 Ссылка: %[7]s"

type MessageOptions struct {
	Symbol        string
	MinPrice      float64
	ShortenWallet bool
}

// FormatBuyMessage renders the HTML body of a buy notification.
func FormatBuyMessage(record types.TransactionRecord, opts MessageOptions) string {
	wallet := record.UserWallet
	if opts.ShortenWallet {
		wallet = ShortenAddress(wallet)
	}

	return fmt.Sprintf(buyTemplate,
		html.EscapeString(opts.Symbol),
		formatNumber(opts.MinPrice),
		html.EscapeString(record.TxHash),
		formatNumber(record.Amount),
		formatNumber(record.Price),
		html.EscapeString(wallet),
		html.EscapeString(TxURL(record.TxHash)),
	)
}

// TxURL links a transaction on tonscan.
func TxURL(txHash string) string {
	return constant.TonscanTxURL + txHash
}

// ShortenAddress keeps the first and last four characters: "EQAB…WXYZ".
func ShortenAddress(addr string) string {
	const keep = 4
	runes := []rune(addr)
	if len(runes) <= 3*keep {
		return addr
	}
	return string(runes[:keep]) + "…" + string(runes[len(runes)-keep:])
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
