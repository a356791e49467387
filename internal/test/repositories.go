package test

import (
	"context"
	"sort"
	"sync"
	"time"

	domainErrors "github.com/polkiloo/letterdesk/internal/domain/errors"
	"github.com/polkiloo/letterdesk/internal/domain/model"
	"github.com/polkiloo/letterdesk/internal/domain/repository"
)

// UserRepositoryStub stores users in-memory for tests.
type UserRepositoryStub struct {
	Users map[string]*model.User
	ByID  map[int64]*model.User
	Next  int64
	Err   error
}

// NewUserRepositoryStub constructs stub repository with initialized maps.
func NewUserRepositoryStub() *UserRepositoryStub {
	return &UserRepositoryStub{
		Users: make(map[string]*model.User),
		ByID:  make(map[int64]*model.User),
		Next:  1,
	}
}

// Create registers user unless already exists or stub has explicit error.
func (s *UserRepositoryStub) Create(ctx context.Context, user *model.User) error {
	if s.Err != nil {
		return s.Err
	}
	if s.Users == nil {
		s.Users = make(map[string]*model.User)
	}
	if s.ByID == nil {
		s.ByID = make(map[int64]*model.User)
	}
	if _, exists := s.Users[user.Login]; exists {
		return domainErrors.ErrAlreadyExists
	}
	if s.Next == 0 {
		s.Next = 1
	}
	user.ID = s.Next
	s.Next++
	stored := *user
	s.Users[user.Login] = &stored
	s.ByID[user.ID] = &stored
	return nil
}

// GetByLogin fetches user by login or returns not found.
func (s *UserRepositoryStub) GetByLogin(ctx context.Context, login string) (*model.User, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	if user, ok := s.Users[login]; ok {
		return user, nil
	}
	return nil, domainErrors.ErrNotFound
}

// GetByID fetches user by identifier or returns not found.
func (s *UserRepositoryStub) GetByID(ctx context.Context, id int64) (*model.User, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	if user, ok := s.ByID[id]; ok {
		return user, nil
	}
	return nil, domainErrors.ErrNotFound
}

// PracticeRepositoryStub keeps practices in memory.
type PracticeRepositoryStub struct {
	Items map[int64]*model.Practice
	Next  int64
	Err   error
}

// NewPracticeRepositoryStub constructs an empty practice store.
func NewPracticeRepositoryStub() *PracticeRepositoryStub {
	return &PracticeRepositoryStub{Items: make(map[int64]*model.Practice), Next: 1}
}

// Create stores a practice.
func (s *PracticeRepositoryStub) Create(ctx context.Context, name, email string) (*model.Practice, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	if s.Items == nil {
		s.Items = make(map[int64]*model.Practice)
	}
	if s.Next == 0 {
		s.Next = 1
	}
	p := &model.Practice{ID: s.Next, Name: name, Email: email, CreatedAt: time.Unix(0, 0)}
	s.Next++
	s.Items[p.ID] = p
	return p, nil
}

// GetByID returns a stored practice.
func (s *PracticeRepositoryStub) GetByID(ctx context.Context, id int64) (*model.Practice, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	if p, ok := s.Items[id]; ok {
		cp := *p
		return &cp, nil
	}
	return nil, domainErrors.ErrNotFound
}

// OrderRepositoryStub is an in-memory order store honouring the version guard.
type OrderRepositoryStub struct {
	CreateFn      func(context.Context, *model.Order) error
	ApplyChangeFn func(context.Context, model.StatusChange) (*model.Order, error)
	AppendFileFn  func(context.Context, *model.OrderFile) error

	Events  *EventRepositoryStub
	Changes []model.StatusChange

	mu       sync.Mutex
	items    map[int64]*model.Order
	nextID   int64
	nextFile int64
}

// NewOrderRepositoryStub builds a store that enqueues change events into events when set.
func NewOrderRepositoryStub(events *EventRepositoryStub) *OrderRepositoryStub {
	return &OrderRepositoryStub{Events: events}
}

// Put stores order as-is, keeping its identifier.
func (s *OrderRepositoryStub) Put(order model.Order) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.init()
	if order.ID > s.nextID {
		s.nextID = order.ID
	}
	cp := order
	cp.Files = append([]model.OrderFile(nil), order.Files...)
	s.items[order.ID] = &cp
}

func (s *OrderRepositoryStub) init() {
	if s.items == nil {
		s.items = make(map[int64]*model.Order)
	}
}

func clone(o *model.Order) *model.Order {
	cp := *o
	cp.Files = append([]model.OrderFile(nil), o.Files...)
	return &cp
}

// Create stores a new order.
func (s *OrderRepositoryStub) Create(ctx context.Context, order *model.Order) error {
	if s.CreateFn != nil {
		return s.CreateFn(ctx, order)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.init()
	s.nextID++
	order.ID = s.nextID
	order.Version = 1
	s.items[order.ID] = clone(order)
	return nil
}

// GetByID returns a copy of the stored order.
func (s *OrderRepositoryStub) GetByID(ctx context.Context, id int64) (*model.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if o, ok := s.items[id]; ok {
		return clone(o), nil
	}
	return nil, domainErrors.ErrNotFound
}

// List filters stored orders by practice and status.
func (s *OrderRepositoryStub) List(ctx context.Context, filter model.OrderFilter) ([]model.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []model.Order
	for _, o := range s.items {
		if filter.PracticeID != nil && o.PracticeID != *filter.PracticeID {
			continue
		}
		if filter.Status != nil && o.Status != *filter.Status {
			continue
		}
		out = append(out, *clone(o))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	if filter.Limit > 0 && len(out) > filter.Limit {
		out = out[:filter.Limit]
	}
	return out, nil
}

// ApplyChange mimics the transactional status write.
func (s *OrderRepositoryStub) ApplyChange(ctx context.Context, change model.StatusChange) (*model.Order, error) {
	s.mu.Lock()
	s.Changes = append(s.Changes, change)
	s.mu.Unlock()
	if s.ApplyChangeFn != nil {
		return s.ApplyChangeFn(ctx, change)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	o, ok := s.items[change.OrderID]
	if !ok {
		return nil, domainErrors.ErrNotFound
	}
	if o.Version != change.ExpectedVersion {
		return nil, domainErrors.ErrConflict
	}
	o.Status = change.To
	o.RevisionCount = change.RevisionCount
	o.Version++
	if change.File != nil {
		s.nextFile++
		change.File.ID = s.nextFile
		change.File.OrderID = o.ID
		o.Files = append(o.Files, *change.File)
	}
	if change.Event != nil && s.Events != nil {
		if err := s.Events.Enqueue(ctx, change.Event); err != nil {
			return nil, err
		}
	}
	return clone(o), nil
}

// AppendFile attaches a file without touching the status.
func (s *OrderRepositoryStub) AppendFile(ctx context.Context, file *model.OrderFile) error {
	if s.AppendFileFn != nil {
		return s.AppendFileFn(ctx, file)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	o, ok := s.items[file.OrderID]
	if !ok {
		return domainErrors.ErrNotFound
	}
	s.nextFile++
	file.ID = s.nextFile
	o.Files = append(o.Files, *file)
	return nil
}

// GetFile returns a stored file of an order.
func (s *OrderRepositoryStub) GetFile(ctx context.Context, orderID, fileID int64) (*model.OrderFile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	o, ok := s.items[orderID]
	if !ok {
		return nil, domainErrors.ErrNotFound
	}
	for _, f := range o.Files {
		if f.ID == fileID {
			file := f
			return &file, nil
		}
	}
	return nil, domainErrors.ErrNotFound
}

// InvoiceRepositoryStub stores invoices per order.
type InvoiceRepositoryStub struct {
	NextSequenceFn func(context.Context, int) (int, error)
	CreateFn       func(context.Context, *model.Invoice) error

	mu       sync.Mutex
	byOrder  map[int64]*model.Invoice
	sequence map[int]int
	nextID   int64
}

// NewInvoiceRepositoryStub constructs an empty invoice store.
func NewInvoiceRepositoryStub() *InvoiceRepositoryStub {
	return &InvoiceRepositoryStub{byOrder: make(map[int64]*model.Invoice), sequence: make(map[int]int)}
}

// NextSequence increments the per-year counter.
func (s *InvoiceRepositoryStub) NextSequence(ctx context.Context, year int) (int, error) {
	if s.NextSequenceFn != nil {
		return s.NextSequenceFn(ctx, year)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.sequence == nil {
		s.sequence = make(map[int]int)
	}
	s.sequence[year]++
	return s.sequence[year], nil
}

// Create stores invoice unless the order already has one.
func (s *InvoiceRepositoryStub) Create(ctx context.Context, invoice *model.Invoice) error {
	if s.CreateFn != nil {
		return s.CreateFn(ctx, invoice)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.byOrder == nil {
		s.byOrder = make(map[int64]*model.Invoice)
	}
	if _, exists := s.byOrder[invoice.OrderID]; exists {
		return domainErrors.ErrAlreadyExists
	}
	s.nextID++
	invoice.ID = s.nextID
	cp := *invoice
	s.byOrder[invoice.OrderID] = &cp
	return nil
}

// GetByOrder returns the invoice of an order.
func (s *InvoiceRepositoryStub) GetByOrder(ctx context.Context, orderID int64) (*model.Invoice, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if inv, ok := s.byOrder[orderID]; ok {
		cp := *inv
		return &cp, nil
	}
	return nil, domainErrors.ErrNotFound
}

// MarkOverdue flags issued invoices due before now.
func (s *InvoiceRepositoryStub) MarkOverdue(ctx context.Context, now time.Time) ([]model.Invoice, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []model.Invoice
	for _, inv := range s.byOrder {
		if inv.Status == model.InvoiceStatusIssued && inv.DueAt.Before(now) {
			inv.Status = model.InvoiceStatusOverdue
			out = append(out, *inv)
		}
	}
	return out, nil
}

// EventRepositoryStub is an in-memory outbox.
type EventRepositoryStub struct {
	EnqueueFn    func(context.Context, *model.OrderEvent) error
	ClaimBatchFn func(context.Context, int, int) ([]model.OrderEvent, error)

	mu     sync.Mutex
	items  []*model.OrderEvent
	claim  map[int64]bool
	nextID int64
	Sent   []int64
	Failed map[int64]string
}

// NewEventRepositoryStub constructs an empty outbox.
func NewEventRepositoryStub() *EventRepositoryStub {
	return &EventRepositoryStub{claim: make(map[int64]bool), Failed: make(map[int64]string)}
}

// Enqueue appends an event.
func (s *EventRepositoryStub) Enqueue(ctx context.Context, event *model.OrderEvent) error {
	if s.EnqueueFn != nil {
		return s.EnqueueFn(ctx, event)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	event.ID = s.nextID
	cp := *event
	s.items = append(s.items, &cp)
	return nil
}

// Events returns a snapshot of the outbox.
func (s *EventRepositoryStub) Events() []model.OrderEvent {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]model.OrderEvent, 0, len(s.items))
	for _, e := range s.items {
		out = append(out, *e)
	}
	return out
}

// ClaimBatch returns unsent and unclaimed events.
func (s *EventRepositoryStub) ClaimBatch(ctx context.Context, limit, maxAttempts int) ([]model.OrderEvent, error) {
	if s.ClaimBatchFn != nil {
		return s.ClaimBatchFn(ctx, limit, maxAttempts)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.claim == nil {
		s.claim = make(map[int64]bool)
	}
	var out []model.OrderEvent
	for _, e := range s.items {
		if len(out) == limit {
			break
		}
		if e.SentAt != nil || s.claim[e.ID] || e.Attempts >= maxAttempts {
			continue
		}
		e.Attempts++
		s.claim[e.ID] = true
		out = append(out, *e)
	}
	return out, nil
}

// MarkSent records delivery.
func (s *EventRepositoryStub) MarkSent(ctx context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, e := range s.items {
		if e.ID == id {
			now := time.Unix(0, 0)
			e.SentAt = &now
		}
	}
	s.Sent = append(s.Sent, id)
	return nil
}

// MarkFailed records the failure and releases the claim.
func (s *EventRepositoryStub) MarkFailed(ctx context.Context, id int64, reason string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Failed == nil {
		s.Failed = make(map[int64]string)
	}
	for _, e := range s.items {
		if e.ID == id {
			e.LastError = reason
		}
	}
	delete(s.claim, id)
	s.Failed[id] = reason
	return nil
}

// QuoteRepositoryStub keeps quotes in memory and converts them through Orders.
type QuoteRepositoryStub struct {
	Orders *OrderRepositoryStub

	mu     sync.Mutex
	items  map[int64]*model.Quote
	nextID int64
}

// NewQuoteRepositoryStub builds a quote store that creates orders in orders.
func NewQuoteRepositoryStub(orders *OrderRepositoryStub) *QuoteRepositoryStub {
	return &QuoteRepositoryStub{Orders: orders, items: make(map[int64]*model.Quote)}
}

// Create stores a quote.
func (s *QuoteRepositoryStub) Create(ctx context.Context, quote *model.Quote) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.items == nil {
		s.items = make(map[int64]*model.Quote)
	}
	s.nextID++
	quote.ID = s.nextID
	cp := *quote
	s.items[quote.ID] = &cp
	return nil
}

// GetByID returns a stored quote.
func (s *QuoteRepositoryStub) GetByID(ctx context.Context, id int64) (*model.Quote, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if q, ok := s.items[id]; ok {
		cp := *q
		return &cp, nil
	}
	return nil, domainErrors.ErrNotFound
}

// List returns quotes, optionally scoped to a practice.
func (s *QuoteRepositoryStub) List(ctx context.Context, practiceID *int64) ([]model.Quote, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []model.Quote
	for _, q := range s.items {
		if practiceID != nil && q.PracticeID != *practiceID {
			continue
		}
		out = append(out, *q)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// Convert creates a draft order from an open quote.
func (s *QuoteRepositoryStub) Convert(ctx context.Context, quoteID int64) (*model.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	q, ok := s.items[quoteID]
	if !ok {
		return nil, domainErrors.ErrNotFound
	}
	if q.Status != model.QuoteStatusOpen {
		return nil, domainErrors.ErrConflict
	}
	order := &model.Order{
		PracticeID: q.PracticeID,
		Title:      q.Title,
		Quantity:   q.Quantity,
		Cost:       q.Total,
		Status:     model.OrderStatusDraft,
	}
	if err := s.Orders.Create(ctx, order); err != nil {
		return nil, err
	}
	q.Status = model.QuoteStatusConverted
	q.OrderID = &order.ID
	return order, nil
}

// RepositoryFactoryStub bundles in-memory repositories.
type RepositoryFactoryStub struct {
	UsersRepo     *UserRepositoryStub
	PracticesRepo *PracticeRepositoryStub
	OrdersRepo    *OrderRepositoryStub
	InvoicesRepo  *InvoiceRepositoryStub
	EventsRepo    *EventRepositoryStub
	QuotesRepo    *QuoteRepositoryStub
}

// NewRepositoryFactoryStub wires all in-memory repositories together.
func NewRepositoryFactoryStub() *RepositoryFactoryStub {
	events := NewEventRepositoryStub()
	orders := NewOrderRepositoryStub(events)
	return &RepositoryFactoryStub{
		UsersRepo:     NewUserRepositoryStub(),
		PracticesRepo: NewPracticeRepositoryStub(),
		OrdersRepo:    orders,
		InvoicesRepo:  NewInvoiceRepositoryStub(),
		EventsRepo:    events,
		QuotesRepo:    NewQuoteRepositoryStub(orders),
	}
}

func (f *RepositoryFactoryStub) Users() repository.UserRepository         { return f.UsersRepo }
func (f *RepositoryFactoryStub) Practices() repository.PracticeRepository { return f.PracticesRepo }
func (f *RepositoryFactoryStub) Orders() repository.OrderRepository       { return f.OrdersRepo }
func (f *RepositoryFactoryStub) Invoices() repository.InvoiceRepository   { return f.InvoicesRepo }
func (f *RepositoryFactoryStub) Events() repository.EventRepository       { return f.EventsRepo }
func (f *RepositoryFactoryStub) Quotes() repository.QuoteRepository       { return f.QuotesRepo }

var _ repository.Factory = (*RepositoryFactoryStub)(nil)
