// Package notify renders a submitted order into the text handed to the messaging app
// and into the deep link that opens a chat with the store.
package notify

import (
	"fmt"
	"net/url"
	"strings"
	"unicode"

	"github.com/shopspring/decimal"

	"github.com/sanchey92/pizzeria/internal/domain/model"
)

const (
	DefaultDomain      = "wa.me"
	DefaultCountryCode = "55"
)

type Options struct {
	Domain      string
	CountryCode string
	// TrackingURL is the base of the order tracking page; the order id is appended.
	TrackingURL string
}

type Message struct {
	Text        string `json:"text"`
	Destination string `json:"destination"`
	URL         string `json:"url"`
}

// Format renders order for the store configured in settings. It has no side effects.
func Format(order model.Order, settings model.Settings, opts Options) Message {
	if opts.Domain == "" {
		opts.Domain = DefaultDomain
	}
	if opts.CountryCode == "" {
		opts.CountryCode = DefaultCountryCode
	}

	text := Text(order, opts.TrackingURL)
	dest := Destination(settings.Phone, opts.CountryCode)

	return Message{
		Text:        text,
		Destination: dest,
		URL:         fmt.Sprintf("https://%s/%s?text=%s", opts.Domain, dest, encodeComponent(text)),
	}
}

// Text builds the order summary sent to the store.
func Text(order model.Order, trackingURL string) string {
	var b strings.Builder

	fmt.Fprintf(&b, "*NOVO PEDIDO #%s* 🍕\n\n", order.ShortID())
	fmt.Fprintf(&b, "*Cliente:* %s\n", order.CustomerName)
	fmt.Fprintf(&b, "*Telefone:* %s\n", order.CustomerPhone)
	fmt.Fprintf(&b, "*Endereço:* %s\n", order.Address)
	fmt.Fprintf(&b, "*Pagamento:* %s\n\n", order.PaymentMethod.Label())

	b.WriteString("*ITENS:*\n")
	items := make([]string, 0, len(order.Items))
	for _, line := range order.Items {
		items = append(items, itemLine(line))
	}
	b.WriteString(strings.Join(items, "\n"))
	b.WriteString("\n\n")

	fmt.Fprintf(&b, "*Taxa de Entrega:* %s\n", Currency(order.DeliveryFee))
	if order.Discount.IsPositive() {
		fmt.Fprintf(&b, "*Desconto:* %s\n", Currency(order.Discount))
	}
	fmt.Fprintf(&b, "*TOTAL:* %s\n\n", Currency(order.Total))

	fmt.Fprintf(&b, "Link do Pedido: %s", trackingLink(trackingURL, order.ID))
	return b.String()
}

func itemLine(l model.CartLine) string {
	var b strings.Builder
	fmt.Fprintf(&b, "• %dx %s", l.Quantity, l.Product.Name)
	if l.SecondFlavor != nil {
		fmt.Fprintf(&b, " / %s", l.SecondFlavor.Name)
	}
	if len(l.Extras) > 0 {
		labels := make([]string, 0, len(l.Extras))
		for _, id := range l.Extras {
			if e, ok := model.LookupExtra(id); ok {
				labels = append(labels, e.Label)
				continue
			}
			labels = append(labels, id)
		}
		fmt.Fprintf(&b, "\n   + %s", strings.Join(labels, ", "))
	}
	if obs := strings.TrimSpace(l.Observation); obs != "" {
		fmt.Fprintf(&b, "\n   Obs: %s", obs)
	}
	return b.String()
}

func trackingLink(base, orderID string) string {
	if base == "" {
		return orderID
	}
	return strings.TrimRight(base, "/") + "/" + orderID
}

// Destination strips every non-digit from phone and prepends the country code.
func Destination(phone, countryCode string) string {
	digits := strings.Map(func(r rune) rune {
		if unicode.IsDigit(r) && r < unicode.MaxASCII {
			return r
		}
		return -1
	}, phone)
	return countryCode + digits
}

// Currency formats an amount as Brazilian reais, e.g. "R$ 1.234,50". The symbol is
// followed by an ASCII space, not the no-break space browsers emit for pt-BR.
func Currency(d decimal.Decimal) string {
	d = d.Round(2)
	sign := ""
	if d.IsNegative() {
		sign = "-"
		d = d.Neg()
	}

	intPart, frac, _ := strings.Cut(d.StringFixed(2), ".")

	var grouped strings.Builder
	for i, r := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			grouped.WriteByte('.')
		}
		grouped.WriteRune(r)
	}
	return fmt.Sprintf("%sR$ %s,%s", sign, grouped.String(), frac)
}

// encodeComponent percent-encodes s for use as a query value, spaces included.
func encodeComponent(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}
