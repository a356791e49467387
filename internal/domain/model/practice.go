package model

import "time"

// Practice is the tenant orders, quotes and invoices belong to.
type Practice struct {
	ID        int64
	Name      string
	Email     string
	CreatedAt time.Time
}
