package inmemory

import (
	"context"
	"sort"

	"github.com/payerswap/payerd/internal/core/domain"
)

type orderRepositoryImpl struct {
	store *orderInmemoryStore
}

// newOrderRepositoryImpl returns a new inmemory OrderRepository implementation.
func newOrderRepositoryImpl(store *orderInmemoryStore) domain.OrderRepository {
	return &orderRepositoryImpl{store}
}

func (r orderRepositoryImpl) AddOrder(
	_ context.Context, order *domain.Order,
) (uint64, error) {
	r.store.locker.Lock()
	defer r.store.locker.Unlock()

	order.Id = r.store.nextId
	r.store.nextId++
	r.store.orders[order.Id] = *order
	return order.Id, nil
}

func (r orderRepositoryImpl) GetOrder(
	_ context.Context, id uint64,
) (*domain.Order, error) {
	r.store.locker.Lock()
	defer r.store.locker.Unlock()

	order, ok := r.store.orders[id]
	if !ok {
		return nil, domain.ErrOrderNotFound
	}
	return &order, nil
}

func (r orderRepositoryImpl) GetAllOrders(
	_ context.Context,
) ([]domain.Order, error) {
	r.store.locker.Lock()
	defer r.store.locker.Unlock()

	return r.sortedOrders(func(domain.Order) bool { return true }), nil
}

func (r orderRepositoryImpl) GetOrdersForAccount(
	_ context.Context, account string,
) ([]domain.Order, error) {
	r.store.locker.Lock()
	defer r.store.locker.Unlock()

	return r.sortedOrders(func(o domain.Order) bool {
		return o.Owner == account
	}), nil
}

func (r orderRepositoryImpl) GetUnclaimedOrdersForAccount(
	_ context.Context, account string,
) ([]domain.Order, error) {
	r.store.locker.Lock()
	defer r.store.locker.Unlock()

	return r.sortedOrders(func(o domain.Order) bool {
		return o.Owner == account && !o.IsClaimed()
	}), nil
}

func (r orderRepositoryImpl) UpdateOrder(
	_ context.Context,
	id uint64,
	updateFn func(o *domain.Order) (*domain.Order, error),
) error {
	r.store.locker.Lock()
	defer r.store.locker.Unlock()

	order, ok := r.store.orders[id]
	if !ok {
		return domain.ErrOrderNotFound
	}

	updated, err := updateFn(&order)
	if err != nil {
		return err
	}

	r.store.orders[id] = *updated
	return nil
}

func (r orderRepositoryImpl) sortedOrders(
	keep func(domain.Order) bool,
) []domain.Order {
	orders := make([]domain.Order, 0, len(r.store.orders))
	for _, order := range r.store.orders {
		if keep(order) {
			orders = append(orders, order)
		}
	}
	sort.Slice(orders, func(i, j int) bool {
		return orders[i].Id < orders[j].Id
	})
	return orders
}
