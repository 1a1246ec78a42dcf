package wallet

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/pkg/errors"
	"github.com/tcfw/starregistry/pkg/cryptography"
	"gopkg.in/yaml.v3"
)

const (
	keyTypeSecp256k1 = "secp256k1"
)

var (
	ErrNotFound = errors.New("key not found")
)

type KeyFileStore struct {
	Keys []KeyFileStoreKey `yaml:"keys"`
}

type KeyFileStoreKey struct {
	Type    string `yaml:"type"`
	Network byte   `yaml:"network"`
	Data    string `yaml:"data"`
}

type FileStore struct {
	path string
	keys KeyFileStore
	idx  map[string]*cryptography.Secp256k1PrivateKey

	mu sync.Mutex
}

func NewFileStore(path string) (*FileStore, error) {
	f := &FileStore{path: path}
	if err := f.read(); err != nil {
		return nil, err
	}

	return f, nil
}

func (fs *FileStore) read() error {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(fs.path), 0700); err != nil {
		return errors.Wrap(err, "creating wallet dir")
	}

	f, err := os.OpenFile(fs.path, os.O_CREATE|os.O_RDWR, 0600)
	if err != nil {
		return errors.Wrap(err, "opening wallet file for read")
	}
	defer f.Close()

	d, err := io.ReadAll(f)
	if err != nil {
		return errors.Wrap(err, "reading wallet file")
	}

	if err := yaml.Unmarshal(d, &fs.keys); err != nil {
		return errors.Wrap(err, "unmarshalling wallet data")
	}

	return fs.buildIdx()
}

func (fs *FileStore) buildIdx() error {
	//assumes locked fs.mu

	fs.idx = make(map[string]*cryptography.Secp256k1PrivateKey, len(fs.keys.Keys))

	for _, k := range fs.keys.Keys {
		if k.Type != keyTypeSecp256k1 {
			return fmt.Errorf("unknown key type %s", k.Type)
		}

		pk, err := cryptography.DecodePrivateKey(k.Data)
		if err != nil {
			return errors.Wrap(err, "decoding key")
		}

		fs.idx[pk.Address(cryptography.Network(k.Network))] = pk
	}

	return nil
}

// Add stores pk and returns the address it is indexed under
func (fs *FileStore) Add(pk *cryptography.Secp256k1PrivateKey, net cryptography.Network) (string, error) {
	addr := pk.Address(net)

	fs.mu.Lock()
	defer fs.mu.Unlock()

	if _, ok := fs.idx[addr]; ok {
		return addr, nil
	}

	data, err := cryptography.EncodePrivateKey(pk)
	if err != nil {
		return "", errors.Wrap(err, "encoding key")
	}

	fs.keys.Keys = append(fs.keys.Keys, KeyFileStoreKey{
		Type:    keyTypeSecp256k1,
		Network: byte(net),
		Data:    data,
	})
	fs.idx[addr] = pk

	return addr, fs.write()
}

func (fs *FileStore) write() error {
	d, err := yaml.Marshal(&fs.keys)
	if err != nil {
		return errors.Wrap(err, "marshalling wallet data")
	}

	if err := os.WriteFile(fs.path, d, 0600); err != nil {
		return errors.Wrap(err, "writing wallet file")
	}

	return nil
}

func (fs *FileStore) Find(address string) (*cryptography.Secp256k1PrivateKey, error) {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	pk, ok := fs.idx[address]
	if !ok {
		return nil, ErrNotFound
	}

	return pk, nil
}

// List returns the stored addresses in sorted order
func (fs *FileStore) List() []string {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	addrs := make([]string, 0, len(fs.idx))
	for a := range fs.idx {
		addrs = append(addrs, a)
	}

	sort.Strings(addrs)

	return addrs
}
