package usecase

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"whiskd-backend/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testPayment = domain.PaymentInfo{Method: "Bank Transfer", BankName: "BCA", AccountNumber: "1234567890", AccountHolder: "Sweet Crust Bakery"}

func pngProof() *domain.Attachment {
	return &domain.Attachment{Filename: "transfer.png", ContentType: "image/png", Data: []byte("png-bytes")}
}

// placeOrder runs the storefront flow up to a pending order for session s1.
func placeOrder(t *testing.T, store domain.SessionStore) *domain.Order {
	t.Helper()
	ctx := context.Background()
	sf := NewStorefrontUsecase(NewCatalogUsecase(&fakeSource{rows: bakeryRows()}, nil, 0), store)
	_, err := sf.LoadStorefront(ctx, "s1")
	require.NoError(t, err)
	_, err = sf.UpdateCustomer(ctx, "s1", domain.Customer{Name: "Budi", WhatsApp: "0812"})
	require.NoError(t, err)
	_, _, err = sf.SetQuantity(ctx, "s1", "t1", 2)
	require.NoError(t, err)
	order, err := sf.PlaceOrder(ctx, "s1")
	require.NoError(t, err)
	return order
}

func TestGetPendingOrder(t *testing.T) {
	store := newSessionStore()
	uc := NewCheckoutUsecase(store, &fakeRelay{configured: true}, nil, testPayment, time.Second)

	_, err := uc.GetPendingOrder(context.Background(), "s1")
	require.ErrorIs(t, err, domain.ErrNoPendingOrder)

	placeOrder(t, store)
	view, err := uc.GetPendingOrder(context.Background(), "s1")
	require.NoError(t, err)
	assert.Equal(t, int64(100000), view.Order.EstimatedTotal)
	assert.Equal(t, "Rp 100.000", view.TotalLabel)
	assert.Equal(t, testPayment, view.Payment)
}

func TestConfirmOrder(t *testing.T) {
	store := newSessionStore()
	relay := &fakeRelay{configured: true}
	uc := NewCheckoutUsecase(store, relay, nil, testPayment, time.Second)
	submittedAt := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	uc.now = func() time.Time { return submittedAt }

	order := placeOrder(t, store)
	require.NoError(t, uc.ConfirmOrder(context.Background(), "s1", pngProof()))
	require.NoError(t, uc.Wait(context.Background()))

	require.Len(t, relay.submitted, 1)
	got := relay.submitted[0]
	assert.Equal(t, order.EstimatedTotal, got.EstimatedTotal)
	assert.Equal(t, order.Items, got.Items)
	assert.Equal(t, submittedAt, got.SubmittedAt)
	assert.Equal(t, &domain.PaymentProof{Name: "transfer.png", Size: 9, Type: "image/png"}, got.PaymentProof)
	assert.Equal(t, "transfer.png", relay.proofs[0].Filename)

	// Pending order is cleared so a second confirm is rejected
	_, err := uc.GetPendingOrder(context.Background(), "s1")
	require.ErrorIs(t, err, domain.ErrNoPendingOrder)
	require.ErrorIs(t, uc.ConfirmOrder(context.Background(), "s1", pngProof()), domain.ErrNoPendingOrder)
}

func TestConfirmOrderConcurrentRelaysOnce(t *testing.T) {
	store := newSessionStore()
	relay := &fakeRelay{configured: true}
	uc := NewCheckoutUsecase(store, relay, nil, testPayment, time.Second)
	placeOrder(t, store)

	const attempts = 10
	start := make(chan struct{})
	var wg sync.WaitGroup
	errs := make(chan error, attempts)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			<-start
			errs <- uc.ConfirmOrder(context.Background(), "s1", pngProof())
		}()
	}
	close(start)
	wg.Wait()
	close(errs)

	accepted := 0
	for err := range errs {
		if err == nil {
			accepted++
			continue
		}
		require.ErrorIs(t, err, domain.ErrNoPendingOrder)
	}
	assert.Equal(t, 1, accepted)

	require.NoError(t, uc.Wait(context.Background()))
	relay.mu.Lock()
	defer relay.mu.Unlock()
	assert.Len(t, relay.submitted, 1)

	_, err := store.Get(context.Background(), "s1")
	require.ErrorIs(t, err, domain.ErrSessionNotFound)
}

func TestConfirmOrderRelayFailureIsSilent(t *testing.T) {
	store := newSessionStore()
	relay := &fakeRelay{configured: true, err: errors.New("webhook error (status 500)")}
	uc := NewCheckoutUsecase(store, relay, nil, testPayment, time.Second)

	placeOrder(t, store)
	require.NoError(t, uc.ConfirmOrder(context.Background(), "s1", pngProof()))
	require.NoError(t, uc.Wait(context.Background()))
	assert.Len(t, relay.submitted, 1)

	_, err := uc.GetPendingOrder(context.Background(), "s1")
	require.ErrorIs(t, err, domain.ErrNoPendingOrder)
}

func TestConfirmOrderArchive(t *testing.T) {
	tests := []struct {
		name    string
		archive *fakeArchive
		wantURL string
	}{
		{name: "archived", archive: &fakeArchive{url: "https://cdn.example/payment-proofs/a.webp"}, wantURL: "https://cdn.example/payment-proofs/a.webp"},
		{name: "archive failure still relays", archive: &fakeArchive{err: errors.New("bucket missing")}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := newSessionStore()
			relay := &fakeRelay{configured: true}
			uc := NewCheckoutUsecase(store, relay, tt.archive, testPayment, time.Second)

			placeOrder(t, store)
			require.NoError(t, uc.ConfirmOrder(context.Background(), "s1", pngProof()))
			require.NoError(t, uc.Wait(context.Background()))

			require.Len(t, relay.submitted, 1)
			assert.Equal(t, tt.wantURL, relay.submitted[0].PaymentProof.URL)
		})
	}
}

func TestConfirmOrderRejections(t *testing.T) {
	tests := []struct {
		name       string
		proof      *domain.Attachment
		configured bool
		wantErr    error
	}{
		{name: "no proof", proof: nil, configured: true, wantErr: domain.ErrPaymentProofRequired},
		{name: "empty proof", proof: &domain.Attachment{Filename: "a.png", ContentType: "image/png"}, configured: true, wantErr: domain.ErrPaymentProofRequired},
		{name: "not an image", proof: &domain.Attachment{Filename: "a.pdf", ContentType: "application/pdf", Data: []byte("%PDF")}, configured: true, wantErr: domain.ErrInvalidPaymentProof},
		{name: "webhook missing", proof: pngProof(), configured: false, wantErr: domain.ErrRelayNotConfigured},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := newSessionStore()
			relay := &fakeRelay{configured: tt.configured}
			uc := NewCheckoutUsecase(store, relay, nil, testPayment, time.Second)
			placeOrder(t, store)

			require.ErrorIs(t, uc.ConfirmOrder(context.Background(), "s1", tt.proof), tt.wantErr)
			require.NoError(t, uc.Wait(context.Background()))
			assert.Empty(t, relay.submitted)

			// The order stays pending after a rejected confirm
			_, err := uc.GetPendingOrder(context.Background(), "s1")
			require.NoError(t, err)
		})
	}
}

func TestForwardOrder(t *testing.T) {
	relay := &fakeRelay{configured: true}
	uc := NewCheckoutUsecase(newSessionStore(), relay, nil, testPayment, time.Second)

	require.NoError(t, uc.ForwardOrder(context.Background(), "multipart/form-data; boundary=x", strings.NewReader("body")))
	assert.Equal(t, []string{"multipart/form-data; boundary=x|body"}, relay.forwarded)

	relay.err = errors.New("upstream 500")
	require.Error(t, uc.ForwardOrder(context.Background(), "text/plain", strings.NewReader("body")))

	relay.configured = false
	require.ErrorIs(t, uc.ForwardOrder(context.Background(), "text/plain", strings.NewReader("body")), domain.ErrRelayNotConfigured)
}

func TestWaitHonoursContext(t *testing.T) {
	uc := NewCheckoutUsecase(newSessionStore(), &fakeRelay{configured: true}, nil, testPayment, time.Second)
	uc.wg.Add(1)
	defer uc.wg.Done()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	require.ErrorIs(t, uc.Wait(ctx), context.DeadlineExceeded)
}
