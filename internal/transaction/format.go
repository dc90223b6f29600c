package transaction

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// FormatAmount renders cents as Brazilian currency, e.g. "R$ 1.500,00".
func FormatAmount(cents int64) string {
	p := message.NewPrinter(language.BrazilianPortuguese)

	if cents < 0 {
		return p.Sprintf("-R$ %.2f", float64(-cents)/100)
	}

	return p.Sprintf("R$ %.2f", float64(cents)/100)
}

// Origin labels where a transaction comes from for display.
func (t *Transaction) Origin() string {
	switch t.VirtualType {
	case VirtualGoal:
		return "meta"
	case VirtualFund:
		return "reserva"
	case VirtualBill:
		return "fatura"
	}

	if t.IsRecurring {
		return "recorrente"
	}

	return "lançamento"
}
