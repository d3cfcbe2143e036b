package wallet

import (
	"context"
	"crypto/rand"
	"io"
	"os"
	"sync"

	"github.com/google/renameio/v2"
	"github.com/pkg/errors"
	"github.com/tcfw/rewardchain/pkg/consensus"
	"github.com/tcfw/rewardchain/pkg/cryptography"
	"github.com/tcfw/rewardchain/pkg/storage"
	"gopkg.in/yaml.v3"
)

var (
	ErrUnknownAddress = errors.New("unknown address")

	DefaultParticipants = []storage.ParticipantID{
		"0xBTCZCY_ETHICAL_COMPUTATION_ADDRESS_7E3F",
		"0xSNIF_HIGH_VALUE_NODE_A1B2",
		"0xPACKET_LOAD_MASTER_C3D4",
		"0xCONSTELLATION_MINER_X9Y0",
		"0xHIGH_IO_FLOW_NODE_F5G6",
		"0xRANDOM_SEED_MATCH_H7I8",
	}
)

type RegistryFile struct {
	Participants []RegistryEntry `yaml:"participants"`
}

type RegistryEntry struct {
	Address  string `yaml:"address"`
	Key      string `yaml:"key"`
	Inactive bool   `yaml:"inactive,omitempty"`
}

var (
	_ consensus.Directory = (*Wallet)(nil)
	_ consensus.Authority = (*Wallet)(nil)
)

// Wallet holds participant keys in registration order. The node address signs
// blocks; participant keys sign challenge acceptances.
type Wallet struct {
	mu sync.RWMutex

	path string
	node storage.ParticipantID
	reg  RegistryFile
	keys map[storage.ParticipantID]cryptography.SymmetricKey
	rand io.Reader
}

// NewFileWallet loads the registry at path, creating it with the default
// participants when it is empty or missing.
func NewFileWallet(path string, node storage.ParticipantID) (*Wallet, error) {
	w := &Wallet{path: path, node: node, rand: rand.Reader}
	if err := w.read(); err != nil {
		return nil, err
	}

	if len(w.reg.Participants) == 0 {
		if err := w.addDefaults(); err != nil {
			return nil, err
		}
	}

	if err := w.ensureNode(); err != nil {
		return nil, err
	}

	return w, nil
}

// NewMemWallet creates a wallet with fresh keys that is never written out.
func NewMemWallet(node storage.ParticipantID, addrs ...storage.ParticipantID) (*Wallet, error) {
	w := &Wallet{node: node, rand: rand.Reader, keys: map[storage.ParticipantID]cryptography.SymmetricKey{}}

	if len(addrs) == 0 {
		addrs = DefaultParticipants
	}

	for _, a := range addrs {
		if err := w.add(a); err != nil {
			return nil, err
		}
	}

	if err := w.ensureNode(); err != nil {
		return nil, err
	}

	return w, nil
}

func (w *Wallet) read() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	d, err := os.ReadFile(w.path)
	if err != nil && !os.IsNotExist(err) {
		return errors.Wrap(err, "reading registry")
	}

	if err := yaml.Unmarshal(d, &w.reg); err != nil {
		return errors.Wrap(err, "unmarshalling registry")
	}

	return w.buildIdx()
}

func (w *Wallet) buildIdx() error {
	//assumes locked w.mu

	w.keys = make(map[storage.ParticipantID]cryptography.SymmetricKey, len(w.reg.Participants))

	for _, e := range w.reg.Participants {
		key, err := cryptography.DecodeMultibase(e.Key)
		if err != nil {
			return errors.Wrapf(err, "decoding key of %s", e.Address)
		}
		if len(key) != cryptography.KeySize {
			return errors.Errorf("key of %s has %d bytes", e.Address, len(key))
		}

		w.keys[storage.ParticipantID(e.Address)] = cryptography.SymmetricKey(key)
	}

	return nil
}

func (w *Wallet) addDefaults() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	for _, a := range DefaultParticipants {
		if err := w.add(a); err != nil {
			return err
		}
	}

	return w.write()
}

func (w *Wallet) ensureNode() error {
	if w.node == "" {
		return errors.New("no node address")
	}

	if _, ok := w.key(w.node); ok {
		return nil
	}

	return w.Add(w.node)
}

// Add registers addr with a fresh key. Known addresses are left untouched.
func (w *Wallet) Add(addr storage.ParticipantID) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if _, ok := w.keys[addr]; ok {
		return nil
	}

	if err := w.add(addr); err != nil {
		return err
	}

	return w.write()
}

func (w *Wallet) add(addr storage.ParticipantID) error {
	//assumes locked w.mu

	key, err := cryptography.GenerateKey(w.rand)
	if err != nil {
		return err
	}

	enc, err := cryptography.EncodeMultibase(key)
	if err != nil {
		return errors.Wrap(err, "encoding key")
	}

	w.reg.Participants = append(w.reg.Participants, RegistryEntry{Address: string(addr), Key: enc})
	w.keys[addr] = key

	return nil
}

func (w *Wallet) write() error {
	if w.path == "" {
		return nil
	}

	d, err := yaml.Marshal(&w.reg)
	if err != nil {
		return errors.Wrap(err, "marshalling registry")
	}

	if err := renameio.WriteFile(w.path, d, 0600); err != nil {
		return errors.Wrap(err, "writing registry")
	}

	return nil
}

func (w *Wallet) key(addr storage.ParticipantID) (cryptography.SymmetricKey, bool) {
	w.mu.RLock()
	defer w.mu.RUnlock()

	k, ok := w.keys[addr]
	return k, ok
}

// Node is the address that authorizes blocks.
func (w *Wallet) Node() storage.ParticipantID {
	return w.node
}

// ActiveParticipants lists active addresses in registration order, leaving
// out the node itself.
func (w *Wallet) ActiveParticipants(_ context.Context) ([]storage.ParticipantID, error) {
	w.mu.RLock()
	defer w.mu.RUnlock()

	out := make([]storage.ParticipantID, 0, len(w.reg.Participants))
	for _, e := range w.reg.Participants {
		addr := storage.ParticipantID(e.Address)
		if e.Inactive || addr == w.node {
			continue
		}
		out = append(out, addr)
	}

	return out, nil
}

// Sign signs payload with the node key.
func (w *Wallet) Sign(payload []byte) (string, error) {
	return w.SignAs(w.node, payload)
}

// SignAs signs payload with the key of addr.
func (w *Wallet) SignAs(addr storage.ParticipantID, payload []byte) (string, error) {
	key, ok := w.key(addr)
	if !ok {
		return "", errors.Wrapf(ErrUnknownAddress, "%s", addr)
	}

	sig, err := key.SignMultibase(payload)
	if err != nil {
		return "", errors.Wrap(err, "encoding signature")
	}

	return sig, nil
}

func (w *Wallet) Verify(addr storage.ParticipantID, payload []byte, sig string) bool {
	key, ok := w.key(addr)
	if !ok {
		return false
	}

	return key.VerifyMultibase(payload, sig)
}
