// Package whatsapp builds the order hand-off message and its click-to-chat link.
package whatsapp

import (
	"fmt"
	"net/url"
	"strings"

	"cardapio/internal/model"
	"cardapio/internal/money"
)

const baseURL = "https://wa.me/"

// BuildMessage formats order as the text the customer sends to the store.
func BuildMessage(storeName string, order *model.Order) string {
	var b strings.Builder

	fmt.Fprintf(&b, "*Novo Pedido - %s*\n\n", storeName)
	fmt.Fprintf(&b, "*Cliente:* %s\n", order.Name)
	fmt.Fprintf(&b, "*Telefone:* %s\n", order.Phone)
	if order.Pickup {
		b.WriteString("*Retirada no balcão*\n")
	} else {
		fmt.Fprintf(&b, "*Endereco:* %s, %s", order.Address, order.Neighborhood)
		if order.Complement != nil && *order.Complement != "" {
			fmt.Fprintf(&b, " - %s", *order.Complement)
		}
		b.WriteString("\n")
	}

	b.WriteString("\n*Itens:*\n")
	for _, item := range order.Items {
		label := item.Name
		if item.VariantName != nil && *item.VariantName != "" {
			label = fmt.Sprintf("%s (%s)", item.Name, *item.VariantName)
		}
		fmt.Fprintf(&b, "%dx %s - %s\n", item.Quantity, label, money.BRL(item.Price*float64(item.Quantity)))
	}

	fmt.Fprintf(&b, "\n*Subtotal:* %s\n", money.BRL(order.Subtotal))
	fmt.Fprintf(&b, "*Entrega:* %s\n", money.BRL(order.DeliveryFee))
	fmt.Fprintf(&b, "*Total:* %s\n", money.BRL(order.Total))

	fmt.Fprintf(&b, "\n*Pagamento:* %s", order.PaymentMethod)
	if order.PaymentMethod == model.CashPaymentMethod && order.ChangeFor != nil && *order.ChangeFor != "" {
		fmt.Fprintf(&b, "\n*Troco para:* R$ %s", *order.ChangeFor)
	}

	return b.String()
}

// DeepLink returns the wa.me URL that opens a chat with number prefilled
// with message. Non-digit characters in number are dropped.
func DeepLink(number, message string) string {
	digits := strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, number)

	link := baseURL + digits
	if message == "" {
		return link
	}
	return link + "?text=" + strings.ReplaceAll(url.QueryEscape(message), "+", "%20")
}
