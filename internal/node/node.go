package node

import (
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/tcfw/starregistry/internal/config"
	"github.com/tcfw/starregistry/pkg/ledger"
	"github.com/tcfw/starregistry/pkg/registry"
)

// Node owns the chain and the claim registry in front of it
type Node struct {
	cfg      *config.Config
	ledger   *ledger.Ledger
	registry *registry.Registry

	logger *logrus.Logger
}

func (n *Node) Ledger() *ledger.Ledger {
	return n.ledger
}

func (n *Node) Registry() *registry.Registry {
	return n.registry
}

func (n *Node) Config() *config.Config {
	return n.cfg
}

func (n *Node) Logger() *logrus.Logger {
	return n.logger
}

func NewNode(opts ...NodeOption) (*Node, error) {
	n := &Node{
		logger: logrus.StandardLogger(),
	}

	for _, opt := range opts {
		if err := opt(n); err != nil {
			return nil, err
		}
	}

	if n.cfg == nil {
		cfg, err := config.GetConfig()
		if err != nil {
			return nil, err
		}
		n.cfg = cfg
	}

	rcfg := n.cfg.Registry()

	if n.ledger == nil {
		l, err := ledger.New(
			ledger.WithLogger(n.logger),
			ledger.WithBloomEstimate(rcfg.BloomEstimate),
			ledger.WithDecodeWorkers(rcfg.DecodeWorkers),
		)
		if err != nil {
			return nil, errors.Wrap(err, "initing ledger")
		}
		n.ledger = l
	}

	if n.registry == nil {
		r, err := registry.New(n.ledger,
			registry.WithLogger(n.logger),
			registry.WithValidityWindow(rcfg.ValidityWindow),
		)
		if err != nil {
			return nil, errors.Wrap(err, "initing registry")
		}
		n.registry = r
	}

	n.logger.WithField("height", n.ledger.CurrentHeight()).Info("node ready")

	return n, nil
}

// Stop verifies the chain one last time. Nothing is persisted.
func (n *Node) Stop() error {
	if err := n.ledger.Verify(); err != nil {
		n.logger.WithError(err).Error("chain failed validation at shutdown")
		return err
	}

	return nil
}
