package test

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"sync"

	domainErrors "github.com/polkiloo/letterdesk/internal/domain/errors"
	"github.com/polkiloo/letterdesk/internal/domain/model"
)

// BlobStoreStub keeps blobs in memory.
type BlobStoreStub struct {
	SaveErr error

	mu      sync.Mutex
	blobs   map[string][]byte
	next    int
	Deleted []string
}

// NewBlobStoreStub constructs an empty blob store.
func NewBlobStoreStub() *BlobStoreStub {
	return &BlobStoreStub{blobs: make(map[string][]byte)}
}

// Save stores content under dir with a sequential key.
func (s *BlobStoreStub) Save(ctx context.Context, dir, name string, r io.Reader) (string, int64, error) {
	if s.SaveErr != nil {
		return "", 0, s.SaveErr
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return "", 0, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.blobs == nil {
		s.blobs = make(map[string][]byte)
	}
	s.next++
	key := fmt.Sprintf("%s/%d-%s", dir, s.next, name)
	s.blobs[key] = data
	return key, int64(len(data)), nil
}

// Open returns stored content.
func (s *BlobStoreStub) Open(ctx context.Context, key string) (io.ReadCloser, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	data, ok := s.blobs[key]
	if !ok {
		return nil, domainErrors.ErrNotFound
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

// Delete removes a blob.
func (s *BlobStoreStub) Delete(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.blobs, key)
	s.Deleted = append(s.Deleted, key)
	return nil
}

// Len reports the number of stored blobs.
func (s *BlobStoreStub) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.blobs)
}

// RendererStub renders a fixed document.
type RendererStub struct {
	Err   error
	Calls int
}

// Render returns a tiny fake document naming the invoice.
func (r *RendererStub) Render(ctx context.Context, invoice model.Invoice, order model.Order, practice model.Practice) ([]byte, error) {
	r.Calls++
	if r.Err != nil {
		return nil, r.Err
	}
	return []byte("%PDF " + invoice.Number), nil
}

// SenderStub records sent notifications.
type SenderStub struct {
	SendFn func(context.Context, model.Notification) error

	mu   sync.Mutex
	Sent []model.Notification
}

// Send records n or delegates to SendFn.
func (s *SenderStub) Send(ctx context.Context, n model.Notification) error {
	if s.SendFn != nil {
		if err := s.SendFn(ctx, n); err != nil {
			return err
		}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Sent = append(s.Sent, n)
	return nil
}

// Messages returns a snapshot of sent notifications.
func (s *SenderStub) Messages() []model.Notification {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]model.Notification(nil), s.Sent...)
}

// MetricsRecorder captures observed workflow outcomes.
type MetricsRecorder struct {
	mu            sync.Mutex
	Transitions   []string
	Proofs        []string
	Invoices      []string
	Bulk          []string
	Notifications []string
}

func (m *MetricsRecorder) ObserveTransition(from, to model.OrderStatus, outcome string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Transitions = append(m.Transitions, fmt.Sprintf("%s->%s:%s", from, to, outcome))
}

func (m *MetricsRecorder) ObserveProofUpload(outcome string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Proofs = append(m.Proofs, outcome)
}

func (m *MetricsRecorder) ObserveInvoice(outcome string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Invoices = append(m.Invoices, outcome)
}

func (m *MetricsRecorder) ObserveBulk(category string, succeeded, failed int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Bulk = append(m.Bulk, fmt.Sprintf("%s:%d/%d", category, succeeded, failed))
}

func (m *MetricsRecorder) ObserveNotification(emailType model.EmailType, outcome string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Notifications = append(m.Notifications, fmt.Sprintf("%s:%s", emailType, outcome))
}
