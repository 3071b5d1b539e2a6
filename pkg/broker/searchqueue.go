package broker

import (
	"time"

	"go.etcd.io/bbolt"
)

// SearchQueue persists a dirty-mark queue for workspace search
// indexing.
// Backed by a bbolt bucket so marks survive a broker restart.
type SearchQueue struct {
	db *bbolt.DB
	bucket []byte
}

var searchQueueBucket = []byte("search_dirty")

// OpenSearchQueue opens (creating if absent) a bbolt-backed queue at
// path.
func OpenSearchQueue(path string) (*SearchQueue, error) {
	db, err := bbolt.Open(path, 0o600, &bbolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, err
	}
	err = db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(searchQueueBucket)
		return err
	})
	if err != nil {
		db.Close()
		return nil, err
	}
	return &SearchQueue{db: db, bucket: searchQueueBucket}, nil
}

// Close closes the underlying database.
func (q *SearchQueue) Close() error { return q.db.Close() }

// MarkDirty records uri as needing reindexing. Idempotent: marking an
// already-dirty uri is a no-op write.
func (q *SearchQueue) MarkDirty(uri string) error {
	return q.db.Update(func(tx *bbolt.Tx) error {
		b := tx.Bucket(q.bucket)
		return b.Put([]byte(uri), []byte{1})
	})
}

// Drain removes and returns up to n dirty uris, in bucket (lexical)
// order.
func (q *SearchQueue) Drain(n int) ([]string, error) {
	var uris []string
	err := q.db.Update(func(tx *bbolt.Tx) error {
		b := tx.Bucket(q.bucket)
		c := b.Cursor()
		for k, _ := c.First(); k != nil && len(uris) < n; k, _ = c.Next() {
			uris = append(uris, string(k))
		}
		for _, uri := range uris {
			if err := b.Delete([]byte(uri)); err != nil {
				return err
			}
		}
		return nil
	})
	return uris, err
}

// Len reports how many uris are currently marked dirty.
func (q *SearchQueue) Len() (int, error) {
	n := 0
	err := q.db.View(func(tx *bbolt.Tx) error {
		n = tx.Bucket(q.bucket).Stats().KeyN
		return nil
	})
	return n, err
}
