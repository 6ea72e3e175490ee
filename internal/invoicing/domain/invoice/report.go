package invoice

// Report aggregates the whole invoice set.
type Report struct {
	TotalPaid    float64
	UnpaidCount  int
	OverdueCount int
	TotalCount   int
}

// Summarize computes a Report over invoices. An empty slice yields the zero Report.
func Summarize(invoices []*Invoice) Report {
	var r Report
	for _, inv := range invoices {
		r.Add(inv.Status, inv.Amount)
	}
	return r
}

// Add folds one invoice into r.
func (r *Report) Add(status Status, amount float64) {
	r.TotalCount++
	switch status {
	case StatusPaid:
		r.TotalPaid += amount
	case StatusNotPaid:
		r.UnpaidCount++
	case StatusOverdue:
		r.OverdueCount++
	}
}
