package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"whiskd-backend/internal/cart"
	"whiskd-backend/internal/domain"
	"whiskd-backend/pkg/logger"

	"github.com/go-playground/validator/v10"
)

type StorefrontUsecase struct {
	catalog  *CatalogUsecase
	sessions domain.SessionStore
	validate *validator.Validate
}

func NewStorefrontUsecase(catalog *CatalogUsecase, sessions domain.SessionStore) *StorefrontUsecase {
	return &StorefrontUsecase{
		catalog:  catalog,
		sessions: sessions,
		validate: validator.New(),
	}
}

// LoadStorefront is a page load: it snapshots the catalog into the session and
// starts a fresh selection. A pending order survives the reload.
func (uc *StorefrontUsecase) LoadStorefront(ctx context.Context, sessionID string) (*StorefrontView, error) {
	products := uc.catalog.LoadCatalog(ctx)

	unlock, err := lockSession(ctx, uc.sessions, sessionID)
	if err != nil {
		return nil, err
	}
	defer unlock()

	sess, err := uc.sessions.Get(ctx, sessionID)
	if err != nil {
		if !errors.Is(err, domain.ErrSessionNotFound) {
			return nil, fmt.Errorf("failed to load session: %w", err)
		}
		sess = &domain.Session{}
	}

	sess.Catalog = products
	sess.CatalogLoaded = true
	sess.Selection = cart.NewSelection(products)
	sess.Customer = domain.Customer{}

	if err := uc.sessions.Save(ctx, sessionID, sess); err != nil {
		return nil, fmt.Errorf("failed to save session: %w", err)
	}
	return buildView(sess), nil
}

func (uc *StorefrontUsecase) View(ctx context.Context, sessionID string) (*StorefrontView, error) {
	sess, err := uc.loadedSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	return buildView(sess), nil
}

// SelectSize reports false when the size is not offered for the product.
func (uc *StorefrontUsecase) SelectSize(ctx context.Context, sessionID, productID, size string) (bool, *StorefrontView, error) {
	unlock, err := lockSession(ctx, uc.sessions, sessionID)
	if err != nil {
		return false, nil, err
	}
	defer unlock()

	sess, err := uc.loadedSession(ctx, sessionID)
	if err != nil {
		return false, nil, err
	}
	p, ok := cart.Find(sess.Catalog, productID)
	if !ok {
		return false, nil, domain.ErrProductNotFound
	}

	accepted := cart.SelectSize(p, &sess.Selection, size)
	if accepted {
		if err := uc.sessions.Save(ctx, sessionID, sess); err != nil {
			return false, nil, fmt.Errorf("failed to save session: %w", err)
		}
	}
	return accepted, buildView(sess), nil
}

// SetQuantity reports false when stock does not allow the quantity; state is untouched then.
func (uc *StorefrontUsecase) SetQuantity(ctx context.Context, sessionID, productID string, quantity int) (bool, *StorefrontView, error) {
	unlock, err := lockSession(ctx, uc.sessions, sessionID)
	if err != nil {
		return false, nil, err
	}
	defer unlock()

	sess, err := uc.loadedSession(ctx, sessionID)
	if err != nil {
		return false, nil, err
	}
	p, ok := cart.Find(sess.Catalog, productID)
	if !ok {
		return false, nil, domain.ErrProductNotFound
	}

	accepted := cart.SetQuantity(p, &sess.Selection, quantity)
	if accepted {
		if err := uc.sessions.Save(ctx, sessionID, sess); err != nil {
			return false, nil, fmt.Errorf("failed to save session: %w", err)
		}
	} else {
		logger.WithContext(ctx).Debug().
			Str("product_id", productID).
			Int("quantity", quantity).
			Int("stock", cart.EffectiveStock(p, cart.SelectedSize(p, sess.Selection))).
			Msg("Quantity change rejected")
	}
	return accepted, buildView(sess), nil
}

func (uc *StorefrontUsecase) UpdateCustomer(ctx context.Context, sessionID string, c domain.Customer) (*domain.Customer, error) {
	c = trimCustomer(c)
	if c.DeliveryMethod != "" && !domain.IsDeliveryMethod(c.DeliveryMethod) {
		return nil, fmt.Errorf("%w: %q", domain.ErrUnknownDeliveryMethod, c.DeliveryMethod)
	}

	unlock, err := lockSession(ctx, uc.sessions, sessionID)
	if err != nil {
		return nil, err
	}
	defer unlock()

	sess, err := uc.loadedSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	sess.Customer = c
	if err := uc.sessions.Save(ctx, sessionID, sess); err != nil {
		return nil, fmt.Errorf("failed to save session: %w", err)
	}
	return &sess.Customer, nil
}

// PlaceOrder turns the current selection into the pending order handed to checkout.
func (uc *StorefrontUsecase) PlaceOrder(ctx context.Context, sessionID string) (*domain.Order, error) {
	unlock, err := lockSession(ctx, uc.sessions, sessionID)
	if err != nil {
		return nil, err
	}
	defer unlock()

	sess, err := uc.loadedSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	if err := uc.validate.Struct(sess.Customer); err != nil {
		return nil, domain.ErrMissingContact
	}
	if sess.Customer.DeliveryMethod != "" && !domain.IsDeliveryMethod(sess.Customer.DeliveryMethod) {
		return nil, fmt.Errorf("%w: %q", domain.ErrUnknownDeliveryMethod, sess.Customer.DeliveryMethod)
	}

	items := cart.LineItems(sess.Catalog, sess.Selection)
	if len(items) == 0 {
		return nil, domain.ErrEmptyCart
	}
	totals := cart.ComputeTotals(sess.Catalog, sess.Selection)

	order := &domain.Order{
		Customer:       sess.Customer,
		Items:          items,
		TotalItems:     totals.TotalItems,
		EstimatedTotal: totals.TotalPrice,
		CreatedAt:      time.Now().UTC(),
	}
	sess.PendingOrder = order
	if err := uc.sessions.Save(ctx, sessionID, sess); err != nil {
		return nil, fmt.Errorf("failed to save session: %w", err)
	}

	logger.WithContext(ctx).Info().
		Int("items", order.TotalItems).
		Int64("estimated_total", order.EstimatedTotal).
		Msg("Order placed")
	return order, nil
}

func (uc *StorefrontUsecase) loadedSession(ctx context.Context, sessionID string) (*domain.Session, error) {
	sess, err := uc.sessions.Get(ctx, sessionID)
	if errors.Is(err, domain.ErrSessionNotFound) {
		return nil, domain.ErrCatalogNotLoaded
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load session: %w", err)
	}
	if !sess.CatalogLoaded {
		return nil, domain.ErrCatalogNotLoaded
	}
	return sess, nil
}

// lockSession serializes read-modify-write cycles on one session.
func lockSession(ctx context.Context, store domain.SessionStore, sessionID string) (func(), error) {
	unlock, err := store.Lock(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to lock session: %w", err)
	}
	return unlock, nil
}

func trimCustomer(c domain.Customer) domain.Customer {
	c.Name = strings.TrimSpace(c.Name)
	c.WhatsApp = strings.TrimSpace(c.WhatsApp)
	c.Address = strings.TrimSpace(c.Address)
	c.DeliveryMethod = strings.TrimSpace(c.DeliveryMethod)
	return c
}
