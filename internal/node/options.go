package node

import (
	"github.com/sirupsen/logrus"
	"github.com/tcfw/starregistry/internal/config"
	"github.com/tcfw/starregistry/pkg/ledger"
	"github.com/tcfw/starregistry/pkg/registry"
)

type NodeOption func(*Node) error

func WithLedger(l *ledger.Ledger) NodeOption {
	return func(n *Node) error {
		n.ledger = l
		return nil
	}
}

func WithRegistry(r *registry.Registry) NodeOption {
	return func(n *Node) error {
		n.registry = r
		return nil
	}
}

func WithConfig(c *config.Config) NodeOption {
	return func(n *Node) error {
		n.cfg = c
		return nil
	}
}

func WithLogger(l *logrus.Logger) NodeOption {
	return func(n *Node) error {
		n.logger = l
		return nil
	}
}

func WithDefaultOptions() NodeOption {
	return func(n *Node) error {
		n.logger = logrus.StandardLogger()
		return nil
	}
}
