package domain

import "github.com/google/uuid"

// InvoiceLine is one billed item.
type InvoiceLine struct {
	Label          string
	Quantity       int
	UnitPriceCents int64
	TotalCents     int64
}

// Invoice summarises what the client owes for an appointment.
type Invoice struct {
	AppointmentID  uuid.UUID
	Status         Status
	TaskLines      []InvoiceLine
	ArticleLines   []InvoiceLine
	TotalCents     int64
	AmountDueCents int64
}

// TaskPrice is the catalogue data a task line is billed from.
type TaskPrice struct {
	Description string
	PriceCents  int64
}

// BuildInvoice bills every slot at its catalogue price and every consumed
// article at its frozen sale price. Nothing is due once paid.
func (a *Appointment) BuildInvoice(prices map[uuid.UUID]TaskPrice) Invoice {
	inv := Invoice{AppointmentID: a.ID(), Status: a.status}
	for _, t := range a.tasks {
		p, ok := prices[t.TaskID]
		if !ok {
			p = TaskPrice{Description: t.TaskID.String()}
		}
		inv.TaskLines = append(inv.TaskLines, InvoiceLine{
			Label:          p.Description,
			Quantity:       1,
			UnitPriceCents: p.PriceCents,
			TotalCents:     p.PriceCents,
		})
		inv.TotalCents += p.PriceCents
	}
	for _, art := range a.articles {
		label := art.ArticleName
		if label == "" {
			label = art.ArticleID.String()
		}
		inv.ArticleLines = append(inv.ArticleLines, InvoiceLine{
			Label:          label,
			Quantity:       art.Quantity,
			UnitPriceCents: art.SaleUnitPriceCents,
			TotalCents:     art.SaleTotalCents(),
		})
		inv.TotalCents += art.SaleTotalCents()
	}
	if a.status != StatusPaid {
		inv.AmountDueCents = inv.TotalCents
	}
	return inv
}
