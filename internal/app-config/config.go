package appconfig

import (
	"fmt"
	"time"

	"github.com/btcsuite/btcd/chaincfg"
	"github.com/prometheus/client_golang/prometheus"
	log "github.com/sirupsen/logrus"
	"github.com/vulpemventures/coinselector/internal/config"
	"github.com/vulpemventures/coinselector/internal/core/application"
	"github.com/vulpemventures/coinselector/internal/core/domain"
	"github.com/vulpemventures/coinselector/internal/core/ports"
	eventlogger "github.com/vulpemventures/coinselector/internal/infrastructure/event-bus/logger"
	eventbus "github.com/vulpemventures/coinselector/internal/infrastructure/event-bus/inmemory"
	prompublisher "github.com/vulpemventures/coinselector/internal/infrastructure/event-bus/prometheus"
	dbbadger "github.com/vulpemventures/coinselector/internal/infrastructure/storage/db/badger"
	"github.com/vulpemventures/coinselector/internal/infrastructure/storage/db/inmemory"
)

// AppConfig is the struct holding all configuration options for the
// application services (selector and utxo manager).
// This data structure acts also as a factory of the mentioned application
// services and the portable services used by them.
// Public config args:
//   - Network - (required) The Bitcoin network (mainnet, testnet3, regtest, signet).
//   - DustThreshold - (required) Change amount under which no change output is created.
//   - MinConfirmations - (optional) Min confirmations of the utxos spent by automatic strategies.
//   - BnBTimeout - (optional) Time limit of the branch-and-bound search.
//   - ConsolidateMaxInputs - (optional) Max number of small utxos swept by the consolidate strategy.
//   - AvoidChangeMaxInputs - (optional) Max number of inputs looked for by the avoid change strategy.
//   - RepoType - (required) One of the supported repository types.
//   - RepoConfig - (optional) Custom config args for the repository based on its type.
//   - MetricsRegisterer - (optional) Enables the prometheus event sink.
//   - EventBufferSize - (optional) Size of the event bus channel.
type AppConfig struct {
	Network              *chaincfg.Params
	DustThreshold        uint64
	MinConfirmations     uint32
	BnBTimeout           time.Duration
	ConsolidateMaxInputs int
	AvoidChangeMaxInputs int

	RepoType          string
	RepoConfig        interface{}
	MetricsRegisterer prometheus.Registerer
	EventBufferSize   int

	repo      domain.UtxoRepository
	bus       *eventbus.EventPublisher
	publisher ports.EventPublisher
	selector  *application.Selector
	manager   *application.UtxoManager
}

func (c *AppConfig) Validate() error {
	if c.Network == nil {
		return fmt.Errorf("missing network")
	}
	if c.DustThreshold == 0 {
		return fmt.Errorf("missing dust amount threshold")
	}
	if len(c.RepoType) == 0 {
		return fmt.Errorf("missing repo type")
	}
	if _, ok := config.SupportedDbs[c.RepoType]; !ok {
		return fmt.Errorf(
			"repo type not supported, must be one of: %s", config.SupportedDbs,
		)
	}
	if _, err := c.eventPublisher(); err != nil {
		return err
	}
	if _, err := c.utxoRepository(); err != nil {
		return err
	}

	return nil
}

func (c *AppConfig) UtxoRepository() domain.UtxoRepository {
	return c.repo
}

// EventBus returns the bus where every event is dispatched, to let consumers
// register handlers or listen on its channel.
func (c *AppConfig) EventBus() *eventbus.EventPublisher {
	c.eventPublisher()
	return c.bus
}

func (c *AppConfig) Selector() *application.Selector {
	return c.coinSelector()
}

func (c *AppConfig) UtxoManager() *application.UtxoManager {
	return c.utxoManager()
}

// Close releases the resources held by the repository and closes the event
// bus. Events still buffered in the bus channel can be drained afterwards.
func (c *AppConfig) Close() {
	if c.repo != nil {
		c.repo.Close()
	}
	if c.bus != nil {
		c.bus.Close()
	}
}

func (c *AppConfig) utxoRepository() (domain.UtxoRepository, error) {
	if c.repo != nil {
		return c.repo, nil
	}

	switch c.RepoType {
	case "inmemory":
		c.repo = inmemory.NewUtxoRepository()
		return c.repo, nil
	case "badger":
		if c.RepoConfig == nil {
			return nil, fmt.Errorf("missing repo config args")
		}
		datadir, ok := c.RepoConfig.(string)
		if !ok {
			return nil, fmt.Errorf("invalid repo config type, must be string")
		}
		repo, err := dbbadger.NewUtxoRepository(datadir, log.New())
		if err != nil {
			return nil, err
		}
		c.repo = repo
		return c.repo, nil
	default:
		return nil, fmt.Errorf("unknown repo type")
	}
}

func (c *AppConfig) eventPublisher() (ports.EventPublisher, error) {
	if c.publisher != nil {
		return c.publisher, nil
	}

	c.bus = eventbus.NewEventPublisher(c.EventBufferSize)
	publishers := []ports.EventPublisher{
		eventlogger.NewEventPublisher(nil), c.bus,
	}
	if c.MetricsRegisterer != nil {
		metrics, err := prompublisher.NewEventPublisher(c.MetricsRegisterer)
		if err != nil {
			return nil, fmt.Errorf("registering metrics: %w", err)
		}
		publishers = append(publishers, metrics)
	}
	c.publisher = application.NewEventPublishers(publishers...)
	return c.publisher, nil
}

func (c *AppConfig) coinSelector() *application.Selector {
	if c.selector != nil {
		return c.selector
	}

	publisher, _ := c.eventPublisher()
	c.selector = application.NewSelector(application.SelectorOptions{
		DustThreshold:        c.DustThreshold,
		BnBTimeout:           c.BnBTimeout,
		ConsolidateMaxInputs: c.ConsolidateMaxInputs,
		AvoidChangeMaxInputs: c.AvoidChangeMaxInputs,
	}, publisher)
	return c.selector
}

func (c *AppConfig) utxoManager() *application.UtxoManager {
	if c.manager != nil {
		return c.manager
	}

	repo, _ := c.utxoRepository()
	publisher, _ := c.eventPublisher()
	c.manager = application.NewUtxoManager(
		repo, c.coinSelector(), publisher, c.Network.Name, c.MinConfirmations,
	)
	return c.manager
}
