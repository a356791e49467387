package repository

// Factory describes access to different domain repositories.
type Factory interface {
	Users() UserRepository
	Practices() PracticeRepository
	Orders() OrderRepository
	Invoices() InvoiceRepository
	Events() EventRepository
	Quotes() QuoteRepository
}
