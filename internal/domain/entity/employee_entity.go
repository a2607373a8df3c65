package entity

import "time"

// Employee is the aggregate root for the employee domain.
// ID is assigned by the store on creation and never changes afterwards.
type Employee struct {
	ID         string    `json:"id"`
	FirstName  string    `json:"firstName"`
	LastName   string    `json:"lastName"`
	Email      string    `json:"email"`
	Department string    `json:"department"`
	Salary     float64   `json:"salary"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

// Clone returns a shallow copy; Employee holds no reference types.
func (e *Employee) Clone() *Employee {
	if e == nil {
		return nil
	}
	c := *e
	return &c
}
