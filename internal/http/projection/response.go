package projection

import (
	"github.com/MrJamesThe3rd/previsao/internal/competence"
	"github.com/MrJamesThe3rd/previsao/internal/projection"
	"github.com/MrJamesThe3rd/previsao/internal/transaction"
)

type transactionResponse struct {
	ID                 string                  `json:"id"`
	Description        string                  `json:"description"`
	Category           string                  `json:"category,omitempty"`
	Amount             int64                   `json:"amount"`
	Date               string                  `json:"date"`
	PaymentMonth       string                  `json:"payment_month"`
	Type               transaction.Type        `json:"type"`
	Status             transaction.Status      `json:"status"`
	IsRecurring        bool                    `json:"is_recurring,omitempty"`
	CurrentInstallment int                     `json:"current_installment,omitempty"`
	TotalInstallments  int                     `json:"total_installments,omitempty"`
	CardID             string                  `json:"card_id,omitempty"`
	IsVirtual          bool                    `json:"is_virtual"`
	VirtualType        transaction.VirtualType `json:"virtual_type,omitempty"`
	VirtualID          string                  `json:"virtual_id,omitempty"`
}

type monthlyTotalResponse struct {
	Month string `json:"month"`
	Label string `json:"label"`
	Net   int64  `json:"net"`
}

type projectionResponse struct {
	Pending          []transactionResponse  `json:"pending"`
	MonthlyNetTotals []monthlyTotalResponse `json:"monthly_net_totals"`
}

type repairResponse struct {
	Sanitized int  `json:"sanitized"`
	Healed    int  `json:"healed"`
	Passes    int  `json:"passes"`
	Changed   bool `json:"changed"`
}

func toResponse(tx *transaction.Transaction) transactionResponse {
	return transactionResponse{
		ID:                 tx.ID,
		Description:        tx.Description,
		Category:           tx.Category,
		Amount:             tx.Amount,
		Date:               tx.Date.String(),
		PaymentMonth:       competence.Key(tx),
		Type:               tx.Type,
		Status:             tx.Status,
		IsRecurring:        tx.IsRecurring,
		CurrentInstallment: tx.CurrentInstallment,
		TotalInstallments:  tx.TotalInstallments,
		CardID:             tx.CardID,
		IsVirtual:          tx.IsVirtual,
		VirtualType:        tx.VirtualType,
		VirtualID:          tx.VirtualID,
	}
}

func toResponseList(txs []*transaction.Transaction) []transactionResponse {
	resp := make([]transactionResponse, len(txs))
	for i, tx := range txs {
		resp[i] = toResponse(tx)
	}

	return resp
}

func toProjectionResponse(res *projection.Result) projectionResponse {
	resp := projectionResponse{
		Pending:          toResponseList(res.Pending),
		MonthlyNetTotals: make([]monthlyTotalResponse, len(res.MonthlyNetTotals)),
	}

	for i, m := range res.MonthlyNetTotals {
		resp.MonthlyNetTotals[i] = monthlyTotalResponse{Month: m.Month.Key(), Label: m.Label, Net: m.Net}
	}

	return resp
}
