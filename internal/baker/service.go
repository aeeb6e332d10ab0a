package baker

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/tinytelemetry/bakery/internal/contract"
	"github.com/tinytelemetry/bakery/internal/ethx"
	"github.com/tinytelemetry/bakery/internal/model"
	"github.com/tinytelemetry/bakery/internal/wallet"
)

// ErrNotConnected means no account is bound to the session.
var ErrNotConnected = errors.New("no wallet account connected")

// Config selects the contract and network a session talks to.
type Config struct {
	Contract        common.Address
	Chain           model.Chain
	ReceiptInterval time.Duration
}

// Service is one user's session with the bakery contract: the wallet it
// signs through, the bound account and an optional history recorder.
type Service struct {
	wallet   *wallet.Provider
	bakery   *contract.Bakery
	chain    model.Chain
	recorder model.BakerRecorder

	mu      sync.RWMutex
	account common.Address
	bound   bool
}

// NewService builds a session over req. recorder may be nil.
func NewService(req model.Requester, cfg Config, recorder model.BakerRecorder) *Service {
	return &Service{
		wallet:   wallet.NewProvider(req),
		bakery:   contract.New(req, cfg.Contract, cfg.ReceiptInterval),
		chain:    cfg.Chain,
		recorder: recorder,
	}
}

// ContractAddress returns the bound contract address.
func (s *Service) ContractAddress() common.Address {
	return s.bakery.Address()
}

// Account returns the bound account, if any.
func (s *Service) Account() (common.Address, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.account, s.bound
}

// Bind attaches the session to addr without asking the wallet. Used for
// read-only watching.
func (s *Service) Bind(addr common.Address) {
	s.mu.Lock()
	s.account = addr
	s.bound = true
	s.mu.Unlock()
}

// Restore binds the first account the wallet already authorized, without
// prompting. It returns ErrNotConnected when there is none.
func (s *Service) Restore(ctx context.Context) (common.Address, error) {
	accounts, err := s.wallet.Accounts(ctx)
	if err != nil {
		return common.Address{}, err
	}
	if len(accounts) == 0 {
		return common.Address{}, ErrNotConnected
	}
	s.Bind(accounts[0])
	return accounts[0], nil
}

// Connect asks the wallet for accounts, moves it to the bakery's chain and
// binds the first account.
func (s *Service) Connect(ctx context.Context) (common.Address, error) {
	accounts, err := s.wallet.RequestAccounts(ctx)
	if err != nil {
		return common.Address{}, err
	}
	if err := s.wallet.EnsureChain(ctx, s.chain); err != nil {
		return common.Address{}, err
	}
	s.Bind(accounts[0])
	log.Printf("baker: connected %s on %s", ethx.Short(accounts[0]), s.chain.Name)
	return accounts[0], nil
}

// Status reads getBakerInfo for the bound account.
func (s *Service) Status(ctx context.Context) (model.BakerInfo, error) {
	account, ok := s.Account()
	if !ok {
		return model.BakerInfo{}, ErrNotConnected
	}
	info, err := s.bakery.GetBakerInfo(ctx, account)
	if err != nil {
		return model.BakerInfo{}, err
	}
	if s.recorder != nil {
		if err := s.recorder.RecordSnapshot(info); err != nil {
			log.Printf("baker: record snapshot: %v", err)
		}
	}
	return info, nil
}

// SubmitCheckIn sends checkIn() from the bound account. The cooldown is not
// checked here; the contract rejects early check-ins.
func (s *Service) SubmitCheckIn(ctx context.Context) (common.Hash, error) {
	account, ok := s.Account()
	if !ok {
		return common.Hash{}, ErrNotConnected
	}
	hash, err := s.bakery.CheckIn(ctx, account)
	if err != nil {
		return common.Hash{}, err
	}
	log.Printf("baker: check-in submitted tx=%s", hash.Hex())
	return hash, nil
}

// AwaitCheckIn waits for tx to be mined, records its events and re-reads the
// baker's status.
func (s *Service) AwaitCheckIn(ctx context.Context, tx common.Hash) (model.CheckInReceipt, model.BakerInfo, error) {
	receipt, err := s.bakery.WaitMined(ctx, tx)
	if err != nil {
		return model.CheckInReceipt{}, model.BakerInfo{}, err
	}

	events, err := s.bakery.ParseEvents(receipt)
	if err != nil {
		log.Printf("baker: decode events tx=%s: %v", tx.Hex(), err)
	}
	if s.recorder != nil && events.CheckedIn != nil {
		if err := s.recorder.RecordCheckIn(events); err != nil {
			log.Printf("baker: record check-in tx=%s: %v", tx.Hex(), err)
		}
	}
	if events.Baked != nil {
		log.Printf("baker: pizza baked total=%d points=%d", events.Baked.TotalPizzas, events.Baked.Points)
	}

	info, err := s.Status(ctx)
	if err != nil {
		return events, model.BakerInfo{}, fmt.Errorf("refresh after check-in: %w", err)
	}
	return events, info, nil
}

// Eligible asks the contract whether addr may check in now.
func (s *Service) Eligible(ctx context.Context, addr common.Address) (bool, error) {
	return s.bakery.CanCheckInNow(ctx, addr)
}

// Watch calls Status immediately and then every interval until ctx ends.
// Each result, successful or not, is passed to fn; errors never stop the loop.
func (s *Service) Watch(ctx context.Context, interval time.Duration, timeout time.Duration, fn func(model.BakerInfo, error)) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		reqCtx := ctx
		cancel := context.CancelFunc(func() {})
		if timeout > 0 {
			reqCtx, cancel = context.WithTimeout(ctx, timeout)
		}
		info, err := s.Status(reqCtx)
		cancel()
		if ctx.Err() != nil {
			return
		}
		fn(info, err)

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}
