package node

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/tcfw/starregistry/pkg/ledger"
)

func TestNewNodeDefaults(t *testing.T) {
	n, err := NewNode(WithDefaultOptions())
	if err != nil {
		t.Fatal(err)
	}

	assert.NotNil(t, n.Config())
	assert.NotNil(t, n.Registry())
	assert.Equal(t, int64(0), n.Ledger().CurrentHeight())
	assert.NoError(t, n.Stop())
}

func TestNewNodeWithLedger(t *testing.T) {
	l, err := ledger.New()
	if err != nil {
		t.Fatal(err)
	}

	n, err := NewNode(WithLedger(l))
	if err != nil {
		t.Fatal(err)
	}

	assert.Same(t, l, n.Ledger())
}
