package service

import (
	"context"
	"errors"
	"io"

	"paulinepos/internal/config"
	"paulinepos/internal/infra"
	"paulinepos/internal/model"
	"paulinepos/internal/store"
)

var ErrOrderNotFound = errors.New("commande introuvable")

const takeawayLabel = "À emporter"

// ReceiptService prints the cashier's receipt of an order.
type ReceiptService interface {
	Build(ctx context.Context, id model.OrderID) (infra.Receipt, error)
	Render(ctx context.Context, w io.Writer, id model.OrderID) error
	// Archive writes the receipt under RECEIPT_STORAGE_PATH and returns the
	// file path.
	Archive(ctx context.Context, id model.OrderID) (string, error)
}

type receiptService struct {
	store *store.Store
	cfg   *config.Config
}

func NewReceiptService(s *store.Store, cfg *config.Config) ReceiptService {
	return &receiptService{store: s, cfg: cfg}
}

func (s *receiptService) Build(ctx context.Context, id model.OrderID) (infra.Receipt, error) {
	o, ok := s.store.Order(id)
	if !ok {
		return infra.Receipt{}, ErrOrderNotFound
	}

	r := infra.Receipt{
		OrderID:   string(o.ID),
		Table:     takeawayLabel,
		CreatedAt: o.CreatedAt.In(s.cfg.Location()),
		Lines:     make([]infra.ReceiptLine, 0, len(o.Items)),
		Total:     o.Total(),
		Paid:      o.IsPaid,
		Currency:  s.cfg.Currency,
	}
	if rest, ok := s.store.Restaurant(o.RestaurantID); ok {
		r.Restaurant = rest.Name
		r.Address = rest.Address
	}
	if tid, ok := o.Table.TableID(); ok {
		// a deleted table still prints its id
		r.Table = string(tid)
		if t, ok := s.store.Table(tid); ok {
			r.Table = t.Name
		}
	}
	if o.WaiterID != "" {
		if u, ok := s.store.User(o.WaiterID); ok {
			r.Waiter = u.FullName()
		}
	}
	for _, it := range o.Items {
		r.Lines = append(r.Lines, infra.ReceiptLine{
			Name:     it.Name,
			Note:     it.Note,
			Qty:      it.Qty,
			Subtotal: it.Subtotal(),
		})
	}
	return r, nil
}

func (s *receiptService) Render(ctx context.Context, w io.Writer, id model.OrderID) error {
	r, err := s.Build(ctx, id)
	if err != nil {
		return err
	}
	return infra.RenderReceipt(w, r)
}

func (s *receiptService) Archive(ctx context.Context, id model.OrderID) (string, error) {
	r, err := s.Build(ctx, id)
	if err != nil {
		return "", err
	}
	return infra.WriteReceiptFile(s.cfg.ReceiptStoragePath, r)
}
