package badgerdb

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/Brawl345/autoblock/logger"
	"github.com/Brawl345/autoblock/model"
	"github.com/dgraph-io/badger/v4"
	"github.com/rs/zerolog"
)

// Open opens (or creates) a Badger directory. An empty path gives an
// in-memory database.
func Open(path string) (*badger.DB, error) {
	opts := badger.DefaultOptions(path).WithLoggingLevel(badger.ERROR)
	if path == "" {
		opts = opts.WithInMemory(true)
	}
	return badger.Open(opts)
}

type MembershipStore struct {
	db  *badger.DB
	log zerolog.Logger
}

func NewMembershipStore(db *badger.DB) *MembershipStore {
	return &MembershipStore{
		db:  db,
		log: logger.New("badgerMembership"),
	}
}

func (s *MembershipStore) Exists(_ context.Context, ns model.Namespace, id int64) (bool, error) {
	err := s.db.View(func(txn *badger.Txn) error {
		_, err := txn.Get([]byte(model.Key(ns, id)))
		return err
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (s *MembershipStore) Put(_ context.Context, ns model.Namespace, id int64, attrs model.Attributes) error {
	data, err := json.Marshal(attrs)
	if err != nil {
		return fmt.Errorf("marshal failed: %w", err)
	}

	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(model.Key(ns, id)), data)
	})
}

func (s *MembershipStore) Delete(_ context.Context, ns model.Namespace, id int64) error {
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Delete([]byte(model.Key(ns, id)))
	})
}

// Get returns the stored attributes, or model.ErrNotFound.
func (s *MembershipStore) Get(ns model.Namespace, id int64) (model.Attributes, error) {
	var attrs model.Attributes

	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(model.Key(ns, id)))
		if err != nil {
			return err
		}

		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &attrs)
		})
	})

	if errors.Is(err, badger.ErrKeyNotFound) {
		return model.Attributes{}, model.ErrNotFound
	}
	return attrs, err
}
