package ledger

// CreditCard defines the billing cycle that card purchases are grouped by.
type CreditCard struct {
	ID         string
	Name       string
	ClosingDay int // Purchases on or after this day roll into the next cycle
	DueDay     int // Day of month the bill is due
}
