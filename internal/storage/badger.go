package storage

import (
	"errors"
	"fmt"

	"github.com/dgraph-io/badger/v4"
)

// BadgerGateway stores each record as one badger key. Badger locks its
// directory, so only one hourlog process can have the store open at a time;
// a second OpenBadger fails until the first gateway is closed.
type BadgerGateway struct {
	db *badger.DB
}

// OpenBadger opens (or creates) a badger database in dir.
func OpenBadger(dir string) (*BadgerGateway, error) {
	opts := badger.DefaultOptions(dir).
		WithLoggingLevel(badger.ERROR)

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open badger database: %w", err)
	}
	return &BadgerGateway{db: db}, nil
}

func (g *BadgerGateway) Get(key string) ([]byte, error) {
	var out []byte
	err := g.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(key))
		if err != nil {
			return err
		}
		out, err = item.ValueCopy(nil)
		return err
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("storage error reading %q: %w", key, err)
	}
	return out, nil
}

func (g *BadgerGateway) Set(key string, data []byte) error {
	err := g.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(key), data)
	})
	if err != nil {
		return &WriteError{Key: key, Err: err}
	}
	return nil
}

func (g *BadgerGateway) ClearAll() error {
	if err := g.db.DropAll(); err != nil {
		return fmt.Errorf("storage error clearing database: %w", err)
	}
	return nil
}

// Close closes the database.
func (g *BadgerGateway) Close() error {
	if g.db != nil {
		return g.db.Close()
	}
	return nil
}
