package example

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/roach88/changeset/internal/diff"
	"github.com/roach88/changeset/internal/primitives"
	"github.com/roach88/changeset/internal/storage"
	"github.com/roach88/changeset/internal/store"
)

// PalletName prefixes every storage of the pallet.
const PalletName = "Example"

var (
	// ErrNoneValue is returned by CauseError when Something is empty.
	ErrNoneValue = errors.New("example: no value stored")

	// ErrStorageOverflow is returned by CauseError when Something is at its
	// maximum.
	ErrStorageOverflow = errors.New("example: storage overflow")

	// ErrInsufficientBalance is returned by Transfer when the sender cannot
	// cover the amount plus fee.
	ErrInsufficientBalance = errors.New("example: insufficient balance")
)

// DefaultFee is the transfer fee until one is set.
var DefaultFee = primitives.PerbillFromPercent(1)

// EventKind names a pallet event.
type EventKind string

const (
	SomethingStored EventKind = "SomethingStored"
	Transferred     EventKind = "Transferred"
	Approved        EventKind = "Approved"
	FeeSet          EventKind = "FeeSet"
)

// Event is a deposited event. Fields not used by a kind are zero.
type Event struct {
	Kind      EventKind            `json:"kind"`
	Who       primitives.PublicKey `json:"who"`
	Something uint32               `json:"something,omitempty"`
	From      uint64               `json:"from,omitempty"`
	To        uint64               `json:"to,omitempty"`
	Amount    uint64               `json:"amount,omitempty"`
	Fee       primitives.Perbill   `json:"fee,omitempty"`
}

// Pallet holds the pallet's storages.
type Pallet struct {
	Something  *storage.Value[uint32, uint32]
	Owner      *storage.Value[primitives.PublicKey, primitives.PublicKey]
	Fee        *storage.ValueQuery[primitives.Perbill, primitives.Perbill]
	Balances   *storage.Map[uint64, uint64, uint64]
	Allowances *storage.DoubleMap[uint64, uint64, uint64, uint64]
	Events     *storage.ValueQuery[[]Event, []Event]

	logger *zap.Logger
}

// Option configures a Pallet.
type Option func(*Pallet)

// WithLogger sets the pallet's logger.
func WithLogger(logger *zap.Logger) Option {
	return func(p *Pallet) {
		p.logger = logger
	}
}

// New creates the pallet over b.
func New(b store.Backend, opts ...Option) *Pallet {
	p := &Pallet{
		Something: storage.NewScalarValue[uint32](b, storage.NewName(PalletName, "Something")),
		Owner:     storage.NewScalarValue[primitives.PublicKey](b, storage.NewName(PalletName, "Owner")),
		Fee: storage.NewScalarValueQuery(b, storage.NewName(PalletName, "Fee"), func() primitives.Perbill {
			return DefaultFee
		}),
		Balances:   storage.NewScalarMap[uint64, uint64](b, storage.NewName(PalletName, "Balances"), storage.Twox64Concat),
		Allowances: storage.NewScalarDoubleMap[uint64, uint64, uint64](b, storage.NewName(PalletName, "Allowances"), storage.Twox64Concat, storage.Twox64Concat),
		Events:     storage.NewValueQuery(b, storage.NewName("System", "Events"), diff.Equal[[]Event](), nil),
		logger:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Storages returns every storage of the pallet, for declaring to the
// harness.
func (p *Pallet) Storages() []storage.Tracked {
	return []storage.Tracked{p.Something, p.Owner, p.Fee, p.Balances, p.Allowances, p.Events}
}

// Seeders returns every storage of the pallet, for genesis fixtures.
func (p *Pallet) Seeders() []storage.Seeder {
	return []storage.Seeder{p.Something, p.Owner, p.Fee, p.Balances, p.Allowances, p.Events}
}

func (p *Pallet) deposit(ctx context.Context, e Event) error {
	return p.Events.Mutate(ctx, func(events []Event) ([]Event, error) {
		return append(events, e), nil
	})
}

// DoSomething stores v, records who as the owner and deposits
// SomethingStored.
func (p *Pallet) DoSomething(ctx context.Context, who primitives.PublicKey, v uint32) error {
	if err := p.Something.Put(ctx, v); err != nil {
		return err
	}
	if err := p.Owner.Put(ctx, who); err != nil {
		return err
	}
	p.logger.Debug("something stored", zap.Uint32("something", v), zap.Stringer("who", who))
	return p.deposit(ctx, Event{Kind: SomethingStored, Who: who, Something: v})
}

// CauseError increments Something. It fails without writing when nothing
// is stored or the increment would overflow.
func (p *Pallet) CauseError(ctx context.Context) error {
	return p.Something.Mutate(ctx, func(cur *uint32) (*uint32, error) {
		if cur == nil {
			return nil, ErrNoneValue
		}
		if *cur == ^uint32(0) {
			return nil, ErrStorageOverflow
		}
		next := *cur + 1
		return &next, nil
	})
}

// SetFee replaces the transfer fee.
func (p *Pallet) SetFee(ctx context.Context, fee primitives.Perbill) error {
	if err := p.Fee.Put(ctx, fee); err != nil {
		return err
	}
	return p.deposit(ctx, Event{Kind: FeeSet, Fee: fee})
}

// Transfer moves amount from one account to another. The sender also pays
// the fee, which is burned. Accounts whose balance reaches zero are removed.
func (p *Pallet) Transfer(ctx context.Context, from, to, amount uint64) error {
	fee, err := p.Fee.Get(ctx)
	if err != nil {
		return err
	}
	charge := fee.MulFloor(amount)

	balance, _, err := p.Balances.Get(ctx, from)
	if err != nil {
		return err
	}
	if balance < amount || balance-amount < charge {
		return fmt.Errorf("%w: account %d has %d, needs %d", ErrInsufficientBalance, from, balance, amount+charge)
	}

	if err := p.setBalance(ctx, from, balance-amount-charge); err != nil {
		return err
	}
	credit, _, err := p.Balances.Get(ctx, to)
	if err != nil {
		return err
	}
	if err := p.setBalance(ctx, to, credit+amount); err != nil {
		return err
	}

	p.logger.Debug("transferred",
		zap.Uint64("from", from),
		zap.Uint64("to", to),
		zap.Uint64("amount", amount),
		zap.Uint64("fee", charge))
	return p.deposit(ctx, Event{Kind: Transferred, From: from, To: to, Amount: amount})
}

func (p *Pallet) setBalance(ctx context.Context, account, balance uint64) error {
	if balance == 0 {
		return p.Balances.Remove(ctx, account)
	}
	return p.Balances.Insert(ctx, account, balance)
}

// Approve lets spender use amount of owner's balance. An amount of zero
// removes the allowance.
func (p *Pallet) Approve(ctx context.Context, owner, spender, amount uint64) error {
	var err error
	if amount == 0 {
		err = p.Allowances.Remove(ctx, owner, spender)
	} else {
		err = p.Allowances.Insert(ctx, owner, spender, amount)
	}
	if err != nil {
		return err
	}
	return p.deposit(ctx, Event{Kind: Approved, From: owner, To: spender, Amount: amount})
}
