package invoice

import "time"

// Invoice is an amount owed by a customer under a subscription. Only Status
// changes after creation.
type Invoice struct {
	ID             ID
	SubscriptionID int64
	CustomerID     int64
	Amount         float64
	DueDate        string
	Status         Status
	CreatedBy      string
	CreatedAt      time.Time
}

// New returns an unpaid invoice stamped with the current time. The id is
// assigned by the repository on Create.
//
// CreatedAt is rounded up to the next microsecond in UTC, the finest
// precision every store keeps, so a read returns exactly what was written
// and the stamp is never earlier than the call.
func New(subscriptionID, customerID int64, amount float64, dueDate, createdBy string) *Invoice {
	return &Invoice{
		SubscriptionID: subscriptionID,
		CustomerID:     customerID,
		Amount:         amount,
		DueDate:        dueDate,
		Status:         StatusNotPaid,
		CreatedBy:      createdBy,
		CreatedAt:      ceilMicrosecond(time.Now().UTC()),
	}
}

func ceilMicrosecond(t time.Time) time.Time {
	c := t.Truncate(time.Microsecond)
	if c.Before(t) {
		c = c.Add(time.Microsecond)
	}
	return c
}

// ChangeStatus sets the status and reports whether it differed. Every
// transition is allowed, including leaving PAID.
func (i *Invoice) ChangeStatus(s Status) (changed bool, err error) {
	if !s.Valid() {
		return false, ErrInvalidStatus
	}
	if i.Status == s {
		return false, nil
	}
	i.Status = s
	return true, nil
}

// Clone returns a copy that shares no state with i.
func (i *Invoice) Clone() *Invoice {
	c := *i
	return &c
}
