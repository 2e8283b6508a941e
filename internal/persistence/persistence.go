package persistence

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/markusressel/hwmon2go/internal/ui"
	bolt "go.etcd.io/bbolt"
)

const (
	BucketSettings = "settings"
)

// BoltSettings is a hardware.Settings implementation backed by a bbolt database.
// All values are cached in memory, changes are written through.
type BoltSettings struct {
	dbPath string

	mu     sync.RWMutex
	values map[string]string
}

func NewBoltSettings(dbPath string) *BoltSettings {
	return &BoltSettings{
		dbPath: dbPath,
		values: map[string]string{},
	}
}

// Init creates the parent directory of the database and loads all stored values
func (p *BoltSettings) Init() (err error) {
	parentDir := filepath.Dir(p.dbPath)
	_, err = os.Stat(parentDir)
	if errors.Is(err, os.ErrNotExist) {
		ui.Info("Creating directory for db: %s", parentDir)
		err = os.MkdirAll(parentDir, 0755)
		if err != nil {
			return err
		}
	}

	db, err := p.openPersistence()
	if err != nil {
		return err
	}
	defer func(db *bolt.DB) {
		_ = db.Close()
	}(db)

	values := map[string]string{}
	err = db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(BucketSettings))
		if b == nil {
			return nil
		}
		return b.ForEach(func(k, v []byte) error {
			values[string(k)] = string(v)
			return nil
		})
	})
	if err != nil {
		return err
	}

	p.mu.Lock()
	p.values = values
	p.mu.Unlock()
	return nil
}

func (p *BoltSettings) openPersistence() (db *bolt.DB, err error) {
	db, err = bolt.Open(p.dbPath, 0600, &bolt.Options{Timeout: 1 * time.Minute})
	if err != nil {
		return nil, err
	}
	return db, nil
}

func (p *BoltSettings) Contains(name string) bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	_, ok := p.values[name]
	return ok
}

func (p *BoltSettings) GetValue(name string, defaultValue string) string {
	p.mu.RLock()
	defer p.mu.RUnlock()
	value, ok := p.values[name]
	if !ok {
		return defaultValue
	}
	return value
}

func (p *BoltSettings) SetValue(name string, value string) {
	p.mu.Lock()
	p.values[name] = value
	p.mu.Unlock()

	err := p.update(func(b *bolt.Bucket) error {
		return b.Put([]byte(name), []byte(value))
	})
	if err != nil {
		ui.Error("Unable to persist setting %s: %v", name, err)
	}
}

func (p *BoltSettings) Remove(name string) {
	p.mu.Lock()
	delete(p.values, name)
	p.mu.Unlock()

	err := p.update(func(b *bolt.Bucket) error {
		if b.Get([]byte(name)) == nil {
			// no data for given key
			return nil
		}
		return b.Delete([]byte(name))
	})
	if err != nil {
		ui.Error("Unable to delete setting %s: %v", name, err)
	}
}

func (p *BoltSettings) update(fn func(b *bolt.Bucket) error) error {
	db, err := p.openPersistence()
	if err != nil {
		return err
	}
	defer func(db *bolt.DB) {
		_ = db.Close()
	}(db)

	return db.Update(func(tx *bolt.Tx) error {
		b, err := tx.CreateBucketIfNotExists([]byte(BucketSettings))
		if err != nil {
			return fmt.Errorf("create bucket: %s", err)
		}
		return fn(b)
	})
}
