// Package cache stores encoded renders in a badger key-value store.
//
// Renders are deterministic for a given scene, image size, tile size and seed,
// so the encoded PNG can be reused whenever all of them match. Tile size
// matters because each tile seeds its own sampler.
package cache

import (
	"crypto/sha256"
	"encoding/binary"
	"fmt"

	"github.com/dgraph-io/badger"
	"github.com/rs/zerolog"
	"golang.org/x/xerrors"
)

// keyVersion changes whenever the shading output for an unchanged scene changes
const keyVersion = "whitted-v2"

// RenderCache maps render keys to encoded images
type RenderCache struct {
	DB *badger.DB
}

// Open opens (creating if needed) the cache stored in dir
func Open(dir string, logger zerolog.Logger) (*RenderCache, error) {
	opts := badger.DefaultOptions(dir).WithLogger(badgerLogger{logger.With().Str("component", "cache").Logger()})
	db, err := badger.Open(opts)
	if err != nil {
		return nil, xerrors.Errorf("while opening render cache in %s: %w", dir, err)
	}
	return &RenderCache{DB: db}, nil
}

// Close releases the underlying store
func (c *RenderCache) Close() error {
	return c.DB.Close()
}

// Key derives the cache key of a render. fingerprint identifies the scene
// contents, typically the scene file bytes.
func Key(fingerprint []byte, width, height, tileSize int, seed int64) []byte {
	h := sha256.New()
	h.Write([]byte(keyVersion))

	var buf [8]byte
	binary.BigEndian.PutUint64(buf[:], uint64(len(fingerprint)))
	h.Write(buf[:])
	h.Write(fingerprint)
	binary.BigEndian.PutUint64(buf[:], uint64(width))
	h.Write(buf[:])
	binary.BigEndian.PutUint64(buf[:], uint64(height))
	h.Write(buf[:])
	binary.BigEndian.PutUint64(buf[:], uint64(tileSize))
	h.Write(buf[:])
	binary.BigEndian.PutUint64(buf[:], uint64(seed))
	h.Write(buf[:])

	return h.Sum(nil)
}

// Get returns the stored image for key. found is false on a miss.
func (c *RenderCache) Get(key []byte) (data []byte, found bool, err error) {
	err = c.DB.View(func(txn *badger.Txn) error {
		item, err := txn.Get(key)
		if err != nil {
			return err
		}
		data, err = item.ValueCopy(nil)
		return err
	})
	if xerrors.Is(err, badger.ErrKeyNotFound) {
		return nil, false, nil
	} else if err != nil {
		return nil, false, xerrors.Errorf("while reading render %x: %w", key, err)
	}
	return data, true, nil
}

// Put stores data under key, replacing any previous value
func (c *RenderCache) Put(key, data []byte) error {
	err := c.DB.Update(func(txn *badger.Txn) error {
		return txn.Set(key, data)
	})
	if err != nil {
		return xerrors.Errorf("while storing render %x: %w", key, err)
	}
	return nil
}

// badgerLogger routes badger's internal logging through zerolog
type badgerLogger struct {
	zl zerolog.Logger
}

func (l badgerLogger) Errorf(format string, args ...interface{}) {
	l.zl.Error().Msg(trimmed(format, args))
}

func (l badgerLogger) Warningf(format string, args ...interface{}) {
	l.zl.Warn().Msg(trimmed(format, args))
}

func (l badgerLogger) Infof(format string, args ...interface{}) {
	l.zl.Debug().Msg(trimmed(format, args))
}

func (l badgerLogger) Debugf(format string, args ...interface{}) {
	l.zl.Trace().Msg(trimmed(format, args))
}

func trimmed(format string, args []interface{}) string {
	msg := fmt.Sprintf(format, args...)
	for len(msg) > 0 && msg[len(msg)-1] == '\n' {
		msg = msg[:len(msg)-1]
	}
	return msg
}
