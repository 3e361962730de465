package core

import "sort"

// MonthlySummaryRow is the derived financial aggregate for one calendar
// month. It is computed on demand and never persisted.
type MonthlySummaryRow struct {
	Month              string `json:"month"`
	RentInvoiced       Money  `json:"rent_invoiced"`
	RentCollected      Money  `json:"rent_collected"`
	PenaltiesIncurred  Money  `json:"penalties_incurred"`
	PenaltiesCollected Money  `json:"penalties_collected"`
	ExpensesTotal      Money  `json:"expenses_total"`
	NetRealized        Money  `json:"net_realized"`
	NetGross           Money  `json:"net_gross"`
}

// groupBy buckets items under the key function's value, preserving input
// order within each bucket.
func groupBy[T any](items []T, key func(T) string) map[string][]T {
	groups := make(map[string][]T)
	for _, item := range items {
		k := key(item)
		groups[k] = append(groups[k], item)
	}
	return groups
}

// ComputeMonthlySummary groups payments, penalties and expenses by calendar
// month and derives the per-month totals, one row per month that has at
// least one contributing record, in ascending month order.
//
// When activeRoomIDs is non-nil, payments and penalties referencing rooms
// outside the set are dropped first; this excludes orphaned records left by
// deleted rooms. Expenses are room-independent and never filtered.
func ComputeMonthlySummary(payments []Payment, penalties []Penalty, expenses []Expense, activeRoomIDs map[int64]struct{}) []MonthlySummaryRow {
	if activeRoomIDs != nil {
		var fp []Payment
		for _, p := range payments {
			if _, ok := activeRoomIDs[p.RoomID]; ok {
				fp = append(fp, p)
			}
		}
		payments = fp

		var fn []Penalty
		for _, p := range penalties {
			if _, ok := activeRoomIDs[p.RoomID]; ok {
				fn = append(fn, p)
			}
		}
		penalties = fn
	}

	paymentsByMonth := groupBy(payments, func(p Payment) string { return p.BillingMonth.YearMonth() })
	penaltiesByMonth := groupBy(penalties, func(p Penalty) string { return p.IncidentDate.YearMonth() })
	expensesByMonth := groupBy(expenses, func(e Expense) string { return e.Date.YearMonth() })

	monthSet := make(map[string]struct{})
	for m := range paymentsByMonth {
		monthSet[m] = struct{}{}
	}
	for m := range penaltiesByMonth {
		monthSet[m] = struct{}{}
	}
	for m := range expensesByMonth {
		monthSet[m] = struct{}{}
	}
	months := make([]string, 0, len(monthSet))
	for m := range monthSet {
		months = append(months, m)
	}
	sort.Strings(months)

	rows := make([]MonthlySummaryRow, 0, len(months))
	for _, month := range months {
		row := MonthlySummaryRow{Month: month}
		for _, p := range paymentsByMonth[month] {
			row.RentInvoiced.Rupiah += p.AmountDue.Rupiah
			// Overpayment is capped at the amount due; a zero paid amount
			// contributes nothing.
			if p.AmountPaid.Rupiah > 0 {
				row.RentCollected.Rupiah += min(p.AmountPaid.Rupiah, p.AmountDue.Rupiah)
			}
		}
		for _, p := range penaltiesByMonth[month] {
			row.PenaltiesIncurred.Rupiah += p.Amount.Rupiah
			if p.Paid {
				row.PenaltiesCollected.Rupiah += p.Amount.Rupiah
			}
		}
		for _, e := range expensesByMonth[month] {
			row.ExpensesTotal.Rupiah += e.Amount.Rupiah
		}
		row.NetRealized.Rupiah = row.RentCollected.Rupiah + row.PenaltiesCollected.Rupiah - row.ExpensesTotal.Rupiah
		row.NetGross.Rupiah = row.RentCollected.Rupiah + row.PenaltiesIncurred.Rupiah - row.ExpensesTotal.Rupiah
		rows = append(rows, row)
	}
	return rows
}
