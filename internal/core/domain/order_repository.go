package domain

import "context"

// OrderRepository is the abstraction for any kind of database intended to
// persist Orders. Ids are assigned on insertion, monotonically increasing and
// never reused; history is permanent and queryable by id.
type OrderRepository interface {
	// AddOrder inserts the order, assigns its id and returns it.
	AddOrder(ctx context.Context, order *Order) (uint64, error)
	// GetOrder returns the order with the given id, or ErrOrderNotFound.
	GetOrder(ctx context.Context, id uint64) (*Order, error)
	// GetAllOrders returns every order ever created, ordered by id.
	GetAllOrders(ctx context.Context) ([]Order, error)
	// GetOrdersForAccount returns every order owned by the given account.
	GetOrdersForAccount(ctx context.Context, account string) ([]Order, error)
	// GetUnclaimedOrdersForAccount returns the orders of an account that have
	// not reached the Claimed status yet.
	GetUnclaimedOrdersForAccount(ctx context.Context, account string) ([]Order, error)
	// UpdateOrder commits multiple changes to the same order transactionally.
	UpdateOrder(
		ctx context.Context,
		id uint64,
		updateFn func(o *Order) (*Order, error),
	) error
}
