package dbbadger

import (
	"context"

	"github.com/timshannon/badgerhold/v4"

	"github.com/payerswap/payerd/internal/core/domain"
)

type orderRepositoryImpl struct {
	db *DbManager
}

func newOrderRepositoryImpl(db *DbManager) domain.OrderRepository {
	return orderRepositoryImpl{db}
}

func (r orderRepositoryImpl) AddOrder(
	_ context.Context, order *domain.Order,
) (uint64, error) {
	id, err := r.db.nextOrderId()
	if err != nil {
		return 0, err
	}

	order.Id = id
	if err := r.db.OrderStore.Insert(id, order); err != nil {
		return 0, err
	}
	return id, nil
}

func (r orderRepositoryImpl) GetOrder(
	_ context.Context, id uint64,
) (*domain.Order, error) {
	var order domain.Order
	if err := r.db.OrderStore.Get(id, &order); err != nil {
		if err == badgerhold.ErrNotFound {
			return nil, domain.ErrOrderNotFound
		}
		return nil, err
	}
	return &order, nil
}

func (r orderRepositoryImpl) GetAllOrders(
	_ context.Context,
) ([]domain.Order, error) {
	var orders []domain.Order
	query := (&badgerhold.Query{}).SortBy("Id")
	if err := r.db.OrderStore.Find(&orders, query); err != nil {
		return nil, err
	}
	return orders, nil
}

func (r orderRepositoryImpl) GetOrdersForAccount(
	_ context.Context, account string,
) ([]domain.Order, error) {
	var orders []domain.Order
	query := badgerhold.Where("Owner").Eq(account).SortBy("Id")
	if err := r.db.OrderStore.Find(&orders, query); err != nil {
		return nil, err
	}
	return orders, nil
}

func (r orderRepositoryImpl) GetUnclaimedOrdersForAccount(
	ctx context.Context, account string,
) ([]domain.Order, error) {
	orders, err := r.GetOrdersForAccount(ctx, account)
	if err != nil {
		return nil, err
	}

	unclaimed := make([]domain.Order, 0, len(orders))
	for _, order := range orders {
		if !order.IsClaimed() {
			unclaimed = append(unclaimed, order)
		}
	}
	return unclaimed, nil
}

func (r orderRepositoryImpl) UpdateOrder(
	ctx context.Context,
	id uint64,
	updateFn func(o *domain.Order) (*domain.Order, error),
) error {
	order, err := r.GetOrder(ctx, id)
	if err != nil {
		return err
	}

	updated, err := updateFn(order)
	if err != nil {
		return err
	}

	return r.db.OrderStore.Update(id, *updated)
}
