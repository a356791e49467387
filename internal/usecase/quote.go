package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	domainErrors "github.com/polkiloo/letterdesk/internal/domain/errors"
	"github.com/polkiloo/letterdesk/internal/domain/model"
	"github.com/polkiloo/letterdesk/internal/domain/repository"
)

// QuoteUseCase manages cost estimates and their conversion to orders.
type QuoteUseCase struct {
	quotes repository.QuoteRepository
}

// NewQuoteUseCase constructs QuoteUseCase.
func NewQuoteUseCase(quotes repository.QuoteRepository) *QuoteUseCase {
	return &QuoteUseCase{quotes: quotes}
}

// CreateQuoteInput describes a new quote.
type CreateQuoteInput struct {
	PracticeID int64
	Title      string
	Quantity   int
	UnitPrice  decimal.Decimal
}

// Create prices a quote as quantity times unit price.
func (u *QuoteUseCase) Create(ctx context.Context, actor model.Actor, in CreateQuoteInput) (*model.Quote, error) {
	if !actor.IsAdmin() {
		in.PracticeID = actor.PracticeID
	}
	in.Title = strings.TrimSpace(in.Title)
	switch {
	case in.PracticeID <= 0:
		return nil, invalidInput("practice is required")
	case in.Title == "":
		return nil, invalidInput("title is required")
	case in.Quantity <= 0:
		return nil, invalidInput("quantity must be positive")
	case in.UnitPrice.IsNegative():
		return nil, invalidInput("unit price must not be negative")
	}

	quote := &model.Quote{
		PracticeID: in.PracticeID,
		Title:      in.Title,
		Quantity:   in.Quantity,
		UnitPrice:  in.UnitPrice,
		Total:      in.UnitPrice.Mul(decimal.NewFromInt(int64(in.Quantity))).Round(2),
		Status:     model.QuoteStatusOpen,
	}
	if err := u.quotes.Create(ctx, quote); err != nil {
		return nil, fmt.Errorf("create quote: %w", err)
	}
	return quote, nil
}

// Get returns a quote visible to the actor.
func (u *QuoteUseCase) Get(ctx context.Context, actor model.Actor, id int64) (*model.Quote, error) {
	quote, err := u.quotes.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !actor.CanAccess(quote.PracticeID) {
		return nil, domainErrors.ErrNotFound
	}
	return quote, nil
}

// List returns quotes visible to the actor.
func (u *QuoteUseCase) List(ctx context.Context, actor model.Actor) ([]model.Quote, error) {
	if actor.IsAdmin() {
		return u.quotes.List(ctx, nil)
	}
	practiceID := actor.PracticeID
	return u.quotes.List(ctx, &practiceID)
}

// Convert turns an open quote into a draft order.
func (u *QuoteUseCase) Convert(ctx context.Context, actor model.Actor, id int64) (*model.Order, error) {
	quote, err := u.Get(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	if quote.Status != model.QuoteStatusOpen {
		return nil, domainErrors.NewStateError("quote is already %s", quote.Status)
	}
	order, err := u.quotes.Convert(ctx, id)
	if err != nil {
		if errors.Is(err, domainErrors.ErrConflict) {
			return nil, domainErrors.NewStateError("quote was converted concurrently")
		}
		return nil, fmt.Errorf("convert quote: %w", err)
	}
	return order, nil
}
