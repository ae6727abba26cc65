// Package receipt renders orders as fixed-width text for thermal printers.
package receipt

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"cardapio/internal/model"
	"cardapio/internal/money"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"
)

// DefaultWidth fits an 80mm roll with the printer's standard font.
const DefaultWidth = 48

const minWidth = 24

// Options controls the receipt layout.
type Options struct {
	StoreName string
	Width     int
	Location  *time.Location
}

// Render lays out order as printable lines joined by newlines.
func Render(order *model.Order, opts Options) string {
	width := opts.Width
	if width < minWidth {
		width = DefaultWidth
	}
	loc := opts.Location
	if loc == nil {
		loc = time.Local
	}
	title := strings.ToUpper(strings.TrimSpace(opts.StoreName))
	if title == "" {
		title = "PEDIDO"
	}

	divider := strings.Repeat("-", width)
	var lines []string
	add := func(s ...string) { lines = append(lines, s...) }

	add(center(title, width))
	add(center(order.CreatedAt.In(loc).Format("02/01/2006 15:04"), width))
	add(divider)

	add(wrap(order.Name, width)...)
	add(wrap("Tel: "+order.Phone, width)...)
	if order.Pickup {
		add("Retirada no balcao")
	} else {
		add(wrap(order.Address+", "+order.Neighborhood, width)...)
		if order.Complement != nil && *order.Complement != "" {
			add(wrap(*order.Complement, width)...)
		}
	}
	add(divider)

	for _, item := range order.Items {
		label := fmt.Sprintf("%dx %s", item.Quantity, item.Name)
		if item.VariantName != nil && *item.VariantName != "" {
			label += " (" + *item.VariantName + ")"
		}
		add(row(label, money.BRL(item.Price*float64(item.Quantity)), width)...)
	}
	add(divider)

	add(row("Subtotal", money.BRL(order.Subtotal), width)...)
	add(row("Entrega", money.BRL(order.DeliveryFee), width)...)
	add(row("TOTAL", money.BRL(order.Total), width)...)
	add(divider)

	add(wrap("Pgto: "+order.PaymentMethod, width)...)
	if order.ChangeFor != nil && *order.ChangeFor != "" {
		add(wrap("Troco: R$ "+*order.ChangeFor, width)...)
	}
	add(divider)
	add(center("#"+order.ShortID(), width))

	return strings.Join(lines, "\n") + "\n"
}

// Encode converts text to the printer's code page. Characters the code page
// cannot represent are replaced. An empty or "utf8" codepage returns text as is.
func Encode(text, codepage string) ([]byte, error) {
	var enc encoding.Encoding
	switch strings.ToLower(codepage) {
	case "", "utf8", "utf-8":
		return []byte(text), nil
	case "cp850":
		enc = charmap.CodePage850
	case "cp437":
		enc = charmap.CodePage437
	case "cp860":
		enc = charmap.CodePage860
	case "iso-8859-1", "latin1":
		enc = charmap.ISO8859_1
	case "cp1252", "windows-1252":
		enc = charmap.Windows1252
	default:
		return nil, fmt.Errorf("unsupported code page %q", codepage)
	}

	out, _, err := transform.Bytes(encoding.ReplaceUnsupported(enc.NewEncoder()), []byte(text))
	if err != nil {
		return nil, fmt.Errorf("failed to encode receipt as %s: %w", codepage, err)
	}
	return out, nil
}

func center(s string, width int) string {
	n := utf8.RuneCountInString(s)
	if n >= width {
		return truncate(s, width)
	}
	return strings.Repeat(" ", (width-n)/2) + s
}

// row places right flush against the margin and wraps left into the
// remaining space.
func row(left, right string, width int) []string {
	rightLen := utf8.RuneCountInString(right)
	leftWidth := width - rightLen - 1
	if leftWidth < 1 {
		return append(wrap(left, width), right)
	}

	parts := wrap(left, leftWidth)
	last := parts[len(parts)-1]
	pad := width - utf8.RuneCountInString(last) - rightLen
	parts[len(parts)-1] = last + strings.Repeat(" ", pad) + right
	return parts
}

// wrap breaks s on spaces into lines of at most width runes; words longer
// than width are split.
func wrap(s string, width int) []string {
	words := strings.Fields(s)
	if len(words) == 0 {
		return []string{""}
	}

	var lines []string
	current := ""
	for _, w := range words {
		for utf8.RuneCountInString(w) > width {
			if current != "" {
				lines = append(lines, current)
				current = ""
			}
			r := []rune(w)
			lines = append(lines, string(r[:width]))
			w = string(r[width:])
		}
		switch {
		case current == "":
			current = w
		case utf8.RuneCountInString(current)+1+utf8.RuneCountInString(w) <= width:
			current += " " + w
		default:
			lines = append(lines, current)
			current = w
		}
	}
	if current != "" || len(lines) == 0 {
		lines = append(lines, current)
	}
	return lines
}

func truncate(s string, width int) string {
	r := []rune(s)
	if len(r) <= width {
		return s
	}
	return string(r[:width])
}
