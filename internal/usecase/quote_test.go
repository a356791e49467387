package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	domainErrors "github.com/polkiloo/letterdesk/internal/domain/errors"
	"github.com/polkiloo/letterdesk/internal/domain/model"
	testhelpers "github.com/polkiloo/letterdesk/internal/test"
)

func TestQuoteUseCaseCreateAndConvert(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	practice := testhelpers.PracticeActor(3)

	quote, err := f.quotes.Create(ctx, practice, CreateQuoteInput{
		Title:     "Birthday cards",
		Quantity:  120,
		UnitPrice: decimal.RequireFromString("0.85"),
	})
	if err != nil {
		t.Fatalf("create returned error: %v", err)
	}
	if !quote.Total.Equal(decimal.RequireFromString("102")) || quote.PracticeID != 3 {
		t.Fatalf("unexpected quote %+v", quote)
	}

	order, err := f.quotes.Convert(ctx, practice, quote.ID)
	if err != nil {
		t.Fatalf("convert returned error: %v", err)
	}
	if order.Status != model.OrderStatusDraft || !order.Cost.Equal(quote.Total) || order.Quantity != 120 {
		t.Fatalf("unexpected order %+v", order)
	}

	converted, _ := f.quotes.Get(ctx, practice, quote.ID)
	if converted.Status != model.QuoteStatusConverted || converted.OrderID == nil || *converted.OrderID != order.ID {
		t.Fatalf("unexpected quote after conversion %+v", converted)
	}

	if _, err := f.quotes.Convert(ctx, practice, quote.ID); !errors.Is(err, domainErrors.ErrInvalidState) {
		t.Fatalf("expected invalid state on second conversion, got %v", err)
	}
}

func TestQuoteUseCaseScoping(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	quote, err := f.quotes.Create(ctx, admin, CreateQuoteInput{PracticeID: 1, Title: "Flyers", Quantity: 10, UnitPrice: decimal.NewFromInt(1)})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := f.quotes.Create(ctx, admin, CreateQuoteInput{PracticeID: 2, Title: "Cards", Quantity: 10, UnitPrice: decimal.NewFromInt(1)}); err != nil {
		t.Fatalf("create: %v", err)
	}

	if _, err := f.quotes.Get(ctx, testhelpers.PracticeActor(2), quote.ID); err != domainErrors.ErrNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
	if _, err := f.quotes.Convert(ctx, testhelpers.PracticeActor(2), quote.ID); err != domainErrors.ErrNotFound {
		t.Fatalf("expected not found, got %v", err)
	}

	own, err := f.quotes.List(ctx, testhelpers.PracticeActor(2))
	if err != nil || len(own) != 1 || own[0].PracticeID != 2 {
		t.Fatalf("unexpected practice quotes %+v %v", own, err)
	}
	all, err := f.quotes.List(ctx, admin)
	if err != nil || len(all) != 2 {
		t.Fatalf("unexpected admin quotes %+v %v", all, err)
	}
}

func TestQuoteUseCaseValidation(t *testing.T) {
	f := newFixture()
	cases := []CreateQuoteInput{
		{Title: "x", Quantity: 1},
		{PracticeID: 1, Quantity: 1},
		{PracticeID: 1, Title: "x"},
		{PracticeID: 1, Title: "x", Quantity: 1, UnitPrice: decimal.NewFromInt(-2)},
	}
	for _, in := range cases {
		if _, err := f.quotes.Create(context.Background(), admin, in); !errors.Is(err, domainErrors.ErrInvalidInput) {
			t.Fatalf("%+v: expected invalid input, got %v", in, err)
		}
	}
}
