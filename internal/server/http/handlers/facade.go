package handlers

import (
	"context"
	"io"

	"github.com/polkiloo/letterdesk/internal/domain/model"
	"github.com/polkiloo/letterdesk/internal/usecase"
	"github.com/polkiloo/letterdesk/internal/workflow"
)

// AuthFacade describes authentication capabilities required by handlers.
type AuthFacade interface {
	Register(ctx context.Context, in usecase.Registration) (string, error)
	Authenticate(ctx context.Context, login, password string) (string, error)
	ParseToken(token string) (model.Actor, error)
}

// OrderFacade encapsulates order workflow operations exposed via HTTP.
type OrderFacade interface {
	CreateOrder(ctx context.Context, actor model.Actor, in usecase.CreateOrderInput) (*model.Order, error)
	Order(ctx context.Context, actor model.Actor, id int64) (*model.Order, error)
	Orders(ctx context.Context, actor model.Actor, filter model.OrderFilter) ([]model.Order, error)
	OrderActions(ctx context.Context, actor model.Actor, id int64) ([]workflow.Action, error)
	AllowedTransitions(ctx context.Context, actor model.Actor, id int64) (model.OrderStatus, []model.OrderStatus, error)
	Transition(ctx context.Context, actor model.Actor, id int64, to model.OrderStatus) (*model.Order, error)
	ProofLink(ctx context.Context, actor model.Actor, id int64) (*usecase.ProofLink, error)
	SendEmail(ctx context.Context, actor model.Actor, id int64, subject, message string) error
	BulkAction(ctx context.Context, actor model.Actor, category workflow.AlertCategory, ids []int64) (*usecase.BulkResult, error)
}

// FileFacade covers proofs and customer uploads.
type FileFacade interface {
	UploadProof(ctx context.Context, actor model.Actor, id int64, upload usecase.Upload, notes string) (*model.Order, error)
	AttachFile(ctx context.Context, actor model.Actor, id int64, upload usecase.Upload) (*model.OrderFile, error)
	OpenFile(ctx context.Context, actor model.Actor, orderID, fileID int64) (*model.OrderFile, io.ReadCloser, error)
}

// InvoiceFacade provides invoice operations.
type InvoiceFacade interface {
	GenerateInvoice(ctx context.Context, actor model.Actor, orderID int64) (*model.Invoice, error)
	Invoice(ctx context.Context, actor model.Actor, orderID int64) (*model.Invoice, error)
	InvoiceDocument(ctx context.Context, actor model.Actor, orderID int64) (*model.Invoice, io.ReadCloser, error)
}

// QuoteFacade provides quote operations.
type QuoteFacade interface {
	CreateQuote(ctx context.Context, actor model.Actor, in usecase.CreateQuoteInput) (*model.Quote, error)
	Quote(ctx context.Context, actor model.Actor, id int64) (*model.Quote, error)
	Quotes(ctx context.Context, actor model.Actor) ([]model.Quote, error)
	ConvertQuote(ctx context.Context, actor model.Actor, id int64) (*model.Order, error)
}

// DeskFacade aggregates the full set of operations used across handlers.
type DeskFacade interface {
	AuthFacade
	OrderFacade
	FileFacade
	InvoiceFacade
	QuoteFacade
}
