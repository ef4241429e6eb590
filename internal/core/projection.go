package core

import "fmt"

// ProjectInstallments computes the virtual occurrences of installment
// expenses for one reference month. Input records must be installment
// transactions; a record missing its installment count or date is
// skipped rather than rejected, since the store is trusted but not
// assumed fully well-formed.
//
// A source transaction with N installments starting at month M0 yields
// exactly one occurrence for each reference month in [M0, M0+N) and
// none elsewhere. Output order follows input order; callers sort the
// merged month list themselves.
func ProjectInstallments(installments []Transaction, refYear, refMonth int) []Transaction {
	ref := NewDate(refYear, refMonth, 1)
	var out []Transaction
	for _, t := range installments {
		if t.TotalInstallments == nil || t.Date.IsZero() {
			continue
		}
		total := *t.TotalInstallments
		elapsed := MonthsBetween(t.Date, ref)
		if elapsed < 0 || elapsed >= total {
			continue
		}
		index := elapsed + 1

		occ := t
		occ.ID = fmt.Sprintf("%s_parcela_%d", t.ID, index)
		occ.Amount = DivideInstallment(t.Amount, total)
		occ.Date = t.Date.AddMonths(elapsed)
		occ.Description = fmt.Sprintf("%s (%d/%d)", t.Description, index, total)
		occ.CurrentInstallment = &index
		out = append(out, occ)
	}
	return out
}
