package domain

// OrderStatus represents the different statuses that an order can assume.
type OrderStatus struct {
	Code   int
	Failed bool
}

const (
	OrderStatusCodeUndefined int = iota
	// OrderStatusCodePending is the status of an order whose input has been
	// escrowed and that waits for settlement.
	OrderStatusCodePending
	// OrderStatusCodeCompleted is the status of an order settled by a
	// successful swap before abandonment.
	OrderStatusCodeCompleted
	// OrderStatusCodeExpired is the status of an order unwound back to its
	// original token and amount.
	OrderStatusCodeExpired
	// OrderStatusCodeClaimed is the terminal status of an order whose payout
	// has been credited to its owner.
	OrderStatusCodeClaimed
)

// Order is the data structure representing a conditional swap order. Amounts
// are in the respective token's smallest unit, Price is the limit price in
// USD base units for one whole unit of TokenIn.
type Order struct {
	Id               uint64
	Owner            string
	TokenIn          string
	TokenOut         string
	AmountIn         uint64
	AmountOut        uint64
	Price            uint64
	AdditionalAmount uint64
	CreatedAt        int64
	Duration         int64
	EndTimestamp     int64
	Status           OrderStatus
}

// NewOrder returns a pending order with its input escrowed. The id is
// assigned by the repository on insertion.
func NewOrder(
	owner, tokenIn, tokenOut string,
	amountIn, price uint64,
	duration, now int64,
) *Order {
	return &Order{
		Owner:        owner,
		TokenIn:      tokenIn,
		TokenOut:     tokenOut,
		AmountIn:     amountIn,
		Price:        price,
		CreatedAt:    now,
		Duration:     duration,
		EndTimestamp: now + duration,
		Status:       OrderStatus{Code: OrderStatusCodePending},
	}
}

// Complete brings a pending order to the Completed status, recording the
// realized output and the validated additional amount.
func (o *Order) Complete(tokenOut string, amountOut, additionalAmount uint64) error {
	if o.IsClaimed() {
		return ErrOrderAlreadyClaimed
	}
	if !o.IsPending() {
		return ErrOrderAlreadyCompleted
	}

	o.TokenOut = tokenOut
	o.AmountOut = amountOut
	o.AdditionalAmount = additionalAmount
	o.Status.Code = OrderStatusCodeCompleted
	return nil
}

// Expire unwinds a pending order back to its original token and amount.
func (o *Order) Expire() error {
	if o.IsClaimed() {
		return ErrOrderAlreadyClaimed
	}
	if !o.IsPending() {
		return ErrOrderAlreadyCompleted
	}

	o.TokenOut = o.TokenIn
	o.AmountOut = o.AmountIn
	o.AdditionalAmount = 0
	o.Status.Code = OrderStatusCodeExpired
	return nil
}

// Claim brings a completed or expired order to the terminal Claimed status.
func (o *Order) Claim() error {
	if o.IsClaimed() {
		return ErrOrderAlreadyClaimed
	}
	if o.IsPending() {
		return ErrOrderNotCompleted
	}

	o.Status.Code = OrderStatusCodeClaimed
	return nil
}

// CanForceClaim returns whether a still pending order may be unwound by its
// owner because the settlement window lapsed without execution.
func (o *Order) CanForceClaim(now, maxExecutionTime int64) bool {
	return o.IsPending() && now > o.EndTimestamp+maxExecutionTime
}

// IsPending returns whether the order waits for settlement.
func (o *Order) IsPending() bool {
	return o.Status.Code == OrderStatusCodePending
}

// IsCompleted returns whether the order has been settled by a swap.
func (o *Order) IsCompleted() bool {
	return o.Status.Code == OrderStatusCodeCompleted
}

// IsExpired returns whether the order has been unwound.
func (o *Order) IsExpired() bool {
	return o.Status.Code == OrderStatusCodeExpired
}

// IsClaimed returns whether the order reached its terminal status.
func (o *Order) IsClaimed() bool {
	return o.Status.Code == OrderStatusCodeClaimed
}
