package usecase

import (
	"context"
	"io"
	"sync"
	"time"

	"whiskd-backend/internal/domain"
	memcache "whiskd-backend/internal/infrastructure/cache"
	"whiskd-backend/internal/infrastructure/session"
)

type fakeSource struct {
	rows  []domain.VariantRow
	err   error
	calls int
}

func (f *fakeSource) FetchVariantRows(ctx context.Context) ([]domain.VariantRow, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.rows, nil
}

type fakeRelay struct {
	mu         sync.Mutex
	configured bool
	err        error
	submitted  []*domain.SubmittedOrder
	proofs     []*domain.Attachment
	forwarded  []string
}

func (f *fakeRelay) Configured() bool { return f.configured }

func (f *fakeRelay) Submit(ctx context.Context, order *domain.SubmittedOrder, proof *domain.Attachment) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.submitted = append(f.submitted, order)
	f.proofs = append(f.proofs, proof)
	return f.err
}

func (f *fakeRelay) Forward(ctx context.Context, contentType string, body io.Reader) error {
	data, _ := io.ReadAll(body)
	f.mu.Lock()
	defer f.mu.Unlock()
	f.forwarded = append(f.forwarded, contentType+"|"+string(data))
	return f.err
}

type fakeArchive struct {
	url string
	err error
}

func (f *fakeArchive) ArchiveProof(ctx context.Context, proof *domain.Attachment) (string, error) {
	return f.url, f.err
}

func newSessionStore() domain.SessionStore {
	return session.NewMemoryStore(memcache.NewMemoryCache(time.Hour, time.Hour), time.Hour)
}

// bakeryRows is a small menu: two cakes, an add-on and a sold out gift box.
func bakeryRows() []domain.VariantRow {
	return []domain.VariantRow{
		{GroupKey: "Brownies", SizeLabel: "Box", VariantID: "b1", UnitPrice: 75000, Stock: 3, CategoryLabel: "Cake"},
		{GroupKey: "Candle", SizeLabel: "", VariantID: "c1", UnitPrice: 5000, Stock: 50, CategoryLabel: "Add-on"},
		{GroupKey: "Gift Box", SizeLabel: "", VariantID: "g1", UnitPrice: 10000, Stock: 0, CategoryLabel: "Packaging"},
		{GroupKey: "Tiramisu", SizeLabel: "Small", VariantID: "t1", UnitPrice: 50000, Stock: 10, CategoryLabel: "Dessert"},
		{GroupKey: "Tiramisu", SizeLabel: "Large", VariantID: "t2", UnitPrice: 90000, Stock: 2, CategoryLabel: "Dessert"},
	}
}
