package handlers

import (
	"github.com/polkiloo/letterdesk/internal/domain/model"
	"github.com/polkiloo/letterdesk/internal/server/http/dto"
	"github.com/polkiloo/letterdesk/internal/usecase"
	"github.com/polkiloo/letterdesk/internal/workflow"
)

func toOrderResponse(order model.Order) dto.OrderResponse {
	files := make([]dto.FileResponse, 0, len(order.Files))
	for _, f := range order.Files {
		files = append(files, toFileResponse(f))
	}
	return dto.OrderResponse{
		ID:            order.ID,
		PracticeID:    order.PracticeID,
		Title:         order.Title,
		Quantity:      order.Quantity,
		Cost:          order.Cost.StringFixed(2),
		Status:        string(order.Status),
		RevisionCount: order.RevisionCount,
		Version:       order.Version,
		CreatedAt:     order.CreatedAt,
		UpdatedAt:     order.UpdatedAt,
		Files:         files,
	}
}

func toFileResponse(f model.OrderFile) dto.FileResponse {
	return dto.FileResponse{
		ID:          f.ID,
		Type:        string(f.Type),
		Revision:    f.Revision,
		Name:        f.Name,
		ContentType: f.ContentType,
		Size:        f.Size,
		Notes:       f.Notes,
		UploadedAt:  f.UploadedAt,
	}
}

func toActionResponses(actions []workflow.Action) []dto.ActionResponse {
	out := make([]dto.ActionResponse, 0, len(actions))
	for _, a := range actions {
		out = append(out, dto.ActionResponse{Name: string(a.Name), Enabled: a.Enabled, DisabledReason: a.DisabledReason})
	}
	return out
}

func toStatusNames(statuses []model.OrderStatus) []string {
	out := make([]string, 0, len(statuses))
	for _, s := range statuses {
		out = append(out, string(s))
	}
	return out
}

func toBulkResponse(result *usecase.BulkResult) dto.BulkResponse {
	items := make([]dto.BulkItemResponse, 0, len(result.Items))
	for _, item := range result.Items {
		resp := dto.BulkItemResponse{OrderID: item.OrderID, Status: string(item.Status)}
		if item.Error != nil {
			resp.Error = item.Error.Error()
		}
		items = append(items, resp)
	}
	return dto.BulkResponse{
		Category:     string(result.Category),
		Target:       string(result.Target),
		Acknowledged: result.Acknowledged,
		Succeeded:    result.Succeeded,
		Failed:       result.Failed,
		Items:        items,
	}
}

func toInvoiceResponse(inv model.Invoice) dto.InvoiceResponse {
	return dto.InvoiceResponse{
		ID:         inv.ID,
		OrderID:    inv.OrderID,
		PracticeID: inv.PracticeID,
		Number:     inv.Number,
		Amount:     inv.Amount.StringFixed(2),
		Status:     string(inv.Status),
		IssuedAt:   inv.IssuedAt,
		DueAt:      inv.DueAt,
	}
}

func toQuoteResponse(q model.Quote) dto.QuoteResponse {
	return dto.QuoteResponse{
		ID:         q.ID,
		PracticeID: q.PracticeID,
		Title:      q.Title,
		Quantity:   q.Quantity,
		UnitPrice:  q.UnitPrice.StringFixed(4),
		Total:      q.Total.StringFixed(2),
		Status:     string(q.Status),
		OrderID:    q.OrderID,
		CreatedAt:  q.CreatedAt,
	}
}
