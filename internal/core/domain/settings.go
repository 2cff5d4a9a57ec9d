package domain

// Settings is the process-wide mutable state of the engine: role addresses,
// protocol parameters and the timestamp of the last executed settlement. It
// is owned by the settings repository and passed by value to every operation
// that needs it.
type Settings struct {
	// Owner1 and Owner2 are co-equal administrators; either can approve
	// owner-gated calls.
	Owner1 string
	Owner2 string
	// Service is the automated executor used for batch settlement.
	Service string
	// PayerAddress is an operational relay permitted to execute on behalf of
	// the protocol.
	PayerAddress string
	// UsdAsset is the asset id of the single reference currency.
	UsdAsset string
	// WrappedNativeAsset is the canonical wrapped form the network native
	// currency is converted to on deposit.
	WrappedNativeAsset string
	// PoolFee is the fee tier forwarded to the swap facility, in hundredths
	// of a basis point.
	PoolFee uint32
	// MaxAdditionalAmountPercentage is the configured ceiling for additional
	// amounts, as a percentage of the order's USD value.
	MaxAdditionalAmountPercentage uint32
	// MaxDuration is the longest validity window an order may request,
	// in seconds.
	MaxDuration int64
	// MaxExecutionTime bounds how long after expiration a pending order may
	// still be settled before it is treated as abandoned, in seconds.
	MaxExecutionTime int64
	// FullAccessAfter is the emergency time lock measured from
	// LastExecutionTime, in seconds.
	FullAccessAfter int64
	// LastExecutionTime is the unix timestamp of the last successful batch.
	LastExecutionTime int64
}

// IsOwner returns whether the account is one of the two administrators.
func (s Settings) IsOwner(account string) bool {
	return account == s.Owner1 || account == s.Owner2
}

// IsExecutor returns whether the account is allowed to execute batches.
func (s Settings) IsExecutor(account string) bool {
	return account == s.Service || account == s.PayerAddress || s.IsOwner(account)
}

// EmergencyUnlocked returns whether the full access time lock has elapsed.
func (s Settings) EmergencyUnlocked(now int64) bool {
	return now > s.LastExecutionTime+s.FullAccessAfter
}
