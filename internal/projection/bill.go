package projection

import (
	"fmt"
	"log/slog"
	"sort"

	"github.com/MrJamesThe3rd/previsao/internal/calendar"
	"github.com/MrJamesThe3rd/previsao/internal/competence"
	"github.com/MrJamesThe3rd/previsao/internal/ledger"
	"github.com/MrJamesThe3rd/previsao/internal/transaction"
)

const CategoryCardBill = "Fatura Cartão"

// BillDueDate returns the due date of the bill a purchase made on date lands
// in. Purchases on or after the closing day roll into the next cycle.
func BillDueDate(card *ledger.CreditCard, date calendar.Date) calendar.Date {
	d := date.Clamp()

	ref := d.Month()
	if d.Day() >= card.ClosingDay {
		ref = ref.Add(1)
	}

	return ref.Day(card.DueDay)
}

// BillKey identifies one bill: card id and due month.
func BillKey(cardID string, due calendar.Date) string {
	return fmt.Sprintf("%s-%s", cardID, due.Month().Key())
}

// AggregateBills folds pending card purchases into one bill per card and due
// month. Purchases pointing at an unknown card are skipped.
func AggregateBills(purchases []*transaction.Transaction, cards []*ledger.CreditCard) []*transaction.Transaction {
	byID := make(map[string]*ledger.CreditCard, len(cards))
	for _, c := range cards {
		byID[c.ID] = c
	}

	bills := make(map[string]*transaction.Transaction)

	for _, p := range purchases {
		card, ok := byID[p.CardID]
		if !ok {
			slog.Warn("skipping card purchase with unknown card", "transaction_id", p.ID, "card_id", p.CardID)
			continue
		}

		due := BillDueDate(card, p.Date)
		key := BillKey(card.ID, due)

		bill, ok := bills[key]
		if !ok {
			bill = &transaction.Transaction{
				ID:           "bill-" + key,
				Description:  "Fatura: " + card.Name,
				Category:     CategoryCardBill,
				Date:         due,
				PaymentMonth: competence.Resolve(due).Key(),
				Type:         transaction.TypeExpense,
				Status:       transaction.StatusPending,
				CardID:       card.ID,
				IsVirtual:    true,
				VirtualType:  transaction.VirtualBill,
				VirtualID:    key,
			}
			bills[key] = bill
		}

		bill.Amount += p.Amount
	}

	keys := make([]string, 0, len(bills))
	for k := range bills {
		keys = append(keys, k)
	}

	sort.Strings(keys)

	out := make([]*transaction.Transaction, len(keys))
	for i, k := range keys {
		out[i] = bills[k]
	}

	return out
}
