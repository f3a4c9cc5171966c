package usecase

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"whiskd-backend/internal/domain"
	"whiskd-backend/pkg/logger"
	"whiskd-backend/pkg/utils"

	"github.com/rs/zerolog"
)

// CheckoutView is the pending order together with the transfer instructions.
type CheckoutView struct {
	Order      *domain.Order      `json:"order"`
	TotalLabel string             `json:"estimatedTotalLabel"`
	Payment    domain.PaymentInfo `json:"payment"`
}

type CheckoutUsecase struct {
	sessions domain.SessionStore
	relay    domain.OrderRelay
	archive  domain.ProofArchive // nil when archiving is disabled
	payment  domain.PaymentInfo
	timeout  time.Duration

	wg  sync.WaitGroup
	now func() time.Time
}

func NewCheckoutUsecase(sessions domain.SessionStore, relay domain.OrderRelay, archive domain.ProofArchive, payment domain.PaymentInfo, timeout time.Duration) *CheckoutUsecase {
	return &CheckoutUsecase{
		sessions: sessions,
		relay:    relay,
		archive:  archive,
		payment:  payment,
		timeout:  timeout,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

func (uc *CheckoutUsecase) PaymentInfo() domain.PaymentInfo {
	return uc.payment
}

func (uc *CheckoutUsecase) GetPendingOrder(ctx context.Context, sessionID string) (*CheckoutView, error) {
	sess, err := uc.pendingSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	return &CheckoutView{
		Order:      sess.PendingOrder,
		TotalLabel: utils.FormatRupiah(sess.PendingOrder.EstimatedTotal),
		Payment:    uc.payment,
	}, nil
}

// ConfirmOrder clears the pending order and relays it in the background.
// Concurrent confirms on one session relay at most once.
// Relay failures after this point are only logged.
func (uc *CheckoutUsecase) ConfirmOrder(ctx context.Context, sessionID string, proof *domain.Attachment) error {
	if proof == nil || len(proof.Data) == 0 {
		return domain.ErrPaymentProofRequired
	}
	if !utils.IsImage(proof.ContentType) {
		return domain.ErrInvalidPaymentProof
	}

	unlock, err := lockSession(ctx, uc.sessions, sessionID)
	if err != nil {
		return err
	}
	defer unlock()

	sess, err := uc.pendingSession(ctx, sessionID)
	if err != nil {
		return err
	}
	if !uc.relay.Configured() {
		logger.WithContext(ctx).Error().Msg("MAKE_WEBHOOK_URL is not configured")
		return domain.ErrRelayNotConfigured
	}

	submitted := &domain.SubmittedOrder{
		Order: *sess.PendingOrder,
		PaymentProof: &domain.PaymentProof{
			Name: proof.Filename,
			Size: int64(len(proof.Data)),
			Type: proof.ContentType,
		},
		SubmittedAt: uc.now(),
	}

	// The session is spent once the order leaves; the next page load starts a new one
	if err := uc.sessions.Delete(ctx, sessionID); err != nil {
		return fmt.Errorf("failed to clear pending order: %w", err)
	}

	l := logger.WithContext(ctx)
	uc.wg.Add(1)
	go func() {
		defer uc.wg.Done()
		uc.deliver(l, submitted, proof)
	}()
	return nil
}

// ForwardOrder relays an already encoded order synchronously.
func (uc *CheckoutUsecase) ForwardOrder(ctx context.Context, contentType string, body io.Reader) error {
	if !uc.relay.Configured() {
		logger.WithContext(ctx).Error().Msg("MAKE_WEBHOOK_URL is not configured")
		return domain.ErrRelayNotConfigured
	}

	ctx, cancel := context.WithTimeout(ctx, uc.timeout)
	defer cancel()
	if err := uc.relay.Forward(ctx, contentType, body); err != nil {
		logger.WithContext(ctx).Error().Err(err).Msg("Order forward failed")
		return err
	}
	return nil
}

// Wait blocks until every background relay has finished or ctx is done.
func (uc *CheckoutUsecase) Wait(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		uc.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (uc *CheckoutUsecase) deliver(l *zerolog.Logger, order *domain.SubmittedOrder, proof *domain.Attachment) {
	ctx, cancel := context.WithTimeout(logger.NewContext(context.Background(), l), uc.timeout)
	defer cancel()

	if uc.archive != nil {
		url, err := uc.archive.ArchiveProof(ctx, proof)
		if err != nil {
			l.Warn().Err(err).Msg("Payment proof archive failed, relaying without URL")
		} else {
			order.PaymentProof.URL = url
		}
	}

	if err := uc.relay.Submit(ctx, order, proof); err != nil {
		logger.RelayFailure(l, order.Customer.Name, order.TotalItems, err)
		return
	}
	l.Info().
		Str("customer", order.Customer.Name).
		Int("items", order.TotalItems).
		Msg("Order relayed")
}

func (uc *CheckoutUsecase) pendingSession(ctx context.Context, sessionID string) (*domain.Session, error) {
	sess, err := uc.sessions.Get(ctx, sessionID)
	if errors.Is(err, domain.ErrSessionNotFound) {
		return nil, domain.ErrNoPendingOrder
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load session: %w", err)
	}
	if sess.PendingOrder == nil {
		return nil, domain.ErrNoPendingOrder
	}
	return sess, nil
}
