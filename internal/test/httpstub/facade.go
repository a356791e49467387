// Package httpstub provides a configurable facade for HTTP layer tests.
package httpstub

import (
	"context"
	"io"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/polkiloo/letterdesk/internal/domain/model"
	"github.com/polkiloo/letterdesk/internal/usecase"
	"github.com/polkiloo/letterdesk/internal/workflow"
)

// SampleOrder is returned by default order operations.
func SampleOrder(id int64) *model.Order {
	created := time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)
	return &model.Order{
		ID:            id,
		PracticeID:    2,
		Title:         "Spring recall",
		Quantity:      500,
		Cost:          decimal.RequireFromString("412.5"),
		Status:        model.WaitingApproval(1),
		RevisionCount: 1,
		Version:       3,
		CreatedAt:     created,
		UpdatedAt:     created,
		Files: []model.OrderFile{{
			ID: 11, OrderID: id, Type: model.FileTypeAdminProof, Revision: 1,
			Name: "proof.pdf", ContentType: "application/pdf", Size: 4, UploadedAt: created,
		}},
	}
}

// DeskFacade is a configurable stand-in for the application facade.
// Unset function fields fall back to small successful defaults.
type DeskFacade struct {
	RegisterFn     func(context.Context, usecase.Registration) (string, error)
	AuthenticateFn func(context.Context, string, string) (string, error)
	ParseTokenFn   func(string) (model.Actor, error)

	CreateOrderFn func(context.Context, model.Actor, usecase.CreateOrderInput) (*model.Order, error)
	OrderFn       func(context.Context, model.Actor, int64) (*model.Order, error)
	OrdersFn      func(context.Context, model.Actor, model.OrderFilter) ([]model.Order, error)
	TransitionFn  func(context.Context, model.Actor, int64, model.OrderStatus) (*model.Order, error)
	ProofLinkFn   func(context.Context, model.Actor, int64) (*usecase.ProofLink, error)
	SendEmailFn   func(context.Context, model.Actor, int64, string, string) error
	BulkFn        func(context.Context, model.Actor, workflow.AlertCategory, []int64) (*usecase.BulkResult, error)

	UploadProofFn func(context.Context, model.Actor, int64, usecase.Upload, string) (*model.Order, error)
	AttachFileFn  func(context.Context, model.Actor, int64, usecase.Upload) (*model.OrderFile, error)
	OpenFileFn    func(context.Context, model.Actor, int64, int64) (*model.OrderFile, io.ReadCloser, error)

	GenerateInvoiceFn func(context.Context, model.Actor, int64) (*model.Invoice, error)
	InvoiceFn         func(context.Context, model.Actor, int64) (*model.Invoice, error)
	InvoiceDocumentFn func(context.Context, model.Actor, int64) (*model.Invoice, io.ReadCloser, error)

	CreateQuoteFn  func(context.Context, model.Actor, usecase.CreateQuoteInput) (*model.Quote, error)
	QuoteFn        func(context.Context, model.Actor, int64) (*model.Quote, error)
	QuotesFn       func(context.Context, model.Actor) ([]model.Quote, error)
	ConvertQuoteFn func(context.Context, model.Actor, int64) (*model.Order, error)
}

func (s *DeskFacade) Register(ctx context.Context, in usecase.Registration) (string, error) {
	if s.RegisterFn != nil {
		return s.RegisterFn(ctx, in)
	}
	return "token", nil
}

func (s *DeskFacade) Authenticate(ctx context.Context, login, password string) (string, error) {
	if s.AuthenticateFn != nil {
		return s.AuthenticateFn(ctx, login, password)
	}
	return "token", nil
}

func (s *DeskFacade) ParseToken(token string) (model.Actor, error) {
	if s.ParseTokenFn != nil {
		return s.ParseTokenFn(token)
	}
	return model.Actor{UserID: 1, Role: model.RoleAdmin}, nil
}

func (s *DeskFacade) CreateOrder(ctx context.Context, actor model.Actor, in usecase.CreateOrderInput) (*model.Order, error) {
	if s.CreateOrderFn != nil {
		return s.CreateOrderFn(ctx, actor, in)
	}
	return &model.Order{ID: 1, PracticeID: in.PracticeID, Title: in.Title, Quantity: in.Quantity, Cost: in.Cost, Status: model.OrderStatusDraft, Version: 1}, nil
}

func (s *DeskFacade) Order(ctx context.Context, actor model.Actor, id int64) (*model.Order, error) {
	if s.OrderFn != nil {
		return s.OrderFn(ctx, actor, id)
	}
	return SampleOrder(id), nil
}

func (s *DeskFacade) Orders(ctx context.Context, actor model.Actor, filter model.OrderFilter) ([]model.Order, error) {
	if s.OrdersFn != nil {
		return s.OrdersFn(ctx, actor, filter)
	}
	return []model.Order{*SampleOrder(1)}, nil
}

func (s *DeskFacade) OrderActions(ctx context.Context, actor model.Actor, id int64) ([]workflow.Action, error) {
	order, err := s.Order(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	return workflow.AvailableActions(*order), nil
}

func (s *DeskFacade) AllowedTransitions(ctx context.Context, actor model.Actor, id int64) (model.OrderStatus, []model.OrderStatus, error) {
	order, err := s.Order(ctx, actor, id)
	if err != nil {
		return "", nil, err
	}
	return order.Status, workflow.ValidTransitions(order.Status), nil
}

func (s *DeskFacade) Transition(ctx context.Context, actor model.Actor, id int64, to model.OrderStatus) (*model.Order, error) {
	if s.TransitionFn != nil {
		return s.TransitionFn(ctx, actor, id, to)
	}
	order := SampleOrder(id)
	order.Status = to
	return order, nil
}

func (s *DeskFacade) ProofLink(ctx context.Context, actor model.Actor, id int64) (*usecase.ProofLink, error) {
	if s.ProofLinkFn != nil {
		return s.ProofLinkFn(ctx, actor, id)
	}
	return &usecase.ProofLink{OrderID: id, Revision: 1, FileID: 11, URL: "https://desk.example/api/orders/1/files/11"}, nil
}

func (s *DeskFacade) SendEmail(ctx context.Context, actor model.Actor, id int64, subject, message string) error {
	if s.SendEmailFn != nil {
		return s.SendEmailFn(ctx, actor, id, subject, message)
	}
	return nil
}

func (s *DeskFacade) BulkAction(ctx context.Context, actor model.Actor, category workflow.AlertCategory, ids []int64) (*usecase.BulkResult, error) {
	if s.BulkFn != nil {
		return s.BulkFn(ctx, actor, category, ids)
	}
	result := &usecase.BulkResult{Category: category}
	for _, id := range ids {
		result.Items = append(result.Items, usecase.BulkItem{OrderID: id})
		result.Succeeded++
	}
	return result, nil
}

func (s *DeskFacade) UploadProof(ctx context.Context, actor model.Actor, id int64, upload usecase.Upload, notes string) (*model.Order, error) {
	if s.UploadProofFn != nil {
		return s.UploadProofFn(ctx, actor, id, upload, notes)
	}
	return SampleOrder(id), nil
}

func (s *DeskFacade) AttachFile(ctx context.Context, actor model.Actor, id int64, upload usecase.Upload) (*model.OrderFile, error) {
	if s.AttachFileFn != nil {
		return s.AttachFileFn(ctx, actor, id, upload)
	}
	data, err := io.ReadAll(upload.Content)
	if err != nil {
		return nil, err
	}
	return &model.OrderFile{ID: 12, OrderID: id, Type: model.FileTypeCustomerUpload, Name: upload.Name, ContentType: upload.ContentType, Size: int64(len(data))}, nil
}

func (s *DeskFacade) OpenFile(ctx context.Context, actor model.Actor, orderID, fileID int64) (*model.OrderFile, io.ReadCloser, error) {
	if s.OpenFileFn != nil {
		return s.OpenFileFn(ctx, actor, orderID, fileID)
	}
	file := &model.OrderFile{ID: fileID, OrderID: orderID, Name: "proof.pdf", ContentType: "application/pdf", Size: 4}
	return file, io.NopCloser(strings.NewReader("%PDF")), nil
}

func (s *DeskFacade) GenerateInvoice(ctx context.Context, actor model.Actor, orderID int64) (*model.Invoice, error) {
	if s.GenerateInvoiceFn != nil {
		return s.GenerateInvoiceFn(ctx, actor, orderID)
	}
	return sampleInvoice(orderID), nil
}

func (s *DeskFacade) Invoice(ctx context.Context, actor model.Actor, orderID int64) (*model.Invoice, error) {
	if s.InvoiceFn != nil {
		return s.InvoiceFn(ctx, actor, orderID)
	}
	return sampleInvoice(orderID), nil
}

func (s *DeskFacade) InvoiceDocument(ctx context.Context, actor model.Actor, orderID int64) (*model.Invoice, io.ReadCloser, error) {
	if s.InvoiceDocumentFn != nil {
		return s.InvoiceDocumentFn(ctx, actor, orderID)
	}
	return sampleInvoice(orderID), io.NopCloser(strings.NewReader("%PDF-1.3")), nil
}

func (s *DeskFacade) CreateQuote(ctx context.Context, actor model.Actor, in usecase.CreateQuoteInput) (*model.Quote, error) {
	if s.CreateQuoteFn != nil {
		return s.CreateQuoteFn(ctx, actor, in)
	}
	total := in.UnitPrice.Mul(decimal.NewFromInt(int64(in.Quantity)))
	return &model.Quote{ID: 1, PracticeID: in.PracticeID, Title: in.Title, Quantity: in.Quantity, UnitPrice: in.UnitPrice, Total: total, Status: model.QuoteStatusOpen}, nil
}

func (s *DeskFacade) Quote(ctx context.Context, actor model.Actor, id int64) (*model.Quote, error) {
	if s.QuoteFn != nil {
		return s.QuoteFn(ctx, actor, id)
	}
	return &model.Quote{ID: id, PracticeID: 2, Title: "Newsletter", Quantity: 100, UnitPrice: decimal.RequireFromString("0.75"), Total: decimal.RequireFromString("75"), Status: model.QuoteStatusOpen}, nil
}

func (s *DeskFacade) Quotes(ctx context.Context, actor model.Actor) ([]model.Quote, error) {
	if s.QuotesFn != nil {
		return s.QuotesFn(ctx, actor)
	}
	q, _ := s.Quote(ctx, actor, 1)
	return []model.Quote{*q}, nil
}

func (s *DeskFacade) ConvertQuote(ctx context.Context, actor model.Actor, id int64) (*model.Order, error) {
	if s.ConvertQuoteFn != nil {
		return s.ConvertQuoteFn(ctx, actor, id)
	}
	order := SampleOrder(40)
	order.Status = model.OrderStatusDraft
	return order, nil
}

func sampleInvoice(orderID int64) *model.Invoice {
	issued := time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)
	return &model.Invoice{
		ID: 1, OrderID: orderID, PracticeID: 2, Number: "INV-2026-0003",
		Amount: decimal.RequireFromString("412.5"), Status: model.InvoiceStatusIssued,
		IssuedAt: issued, DueAt: issued.Add(model.InvoicePaymentTerm),
	}
}
