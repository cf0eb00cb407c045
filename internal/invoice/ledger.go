package invoice

import (
	"encoding/json"
	"fmt"
	"time"

	"go.etcd.io/bbolt"
)

const documentBucketName = "documents"

// Ledger defines the interface for recording processed documents
type Ledger interface {
	// SaveDocument saves a document entry, keyed by source path
	SaveDocument(doc *Document) error

	// GetDocument retrieves a document entry by source path
	GetDocument(path string) (*Document, error)

	// ListDocuments returns all document entries
	ListDocuments() ([]*Document, error)

	// Close closes the ledger
	Close() error
}

// BoltLedger implements the Ledger interface using BoltDB
type BoltLedger struct {
	db *bbolt.DB
}

// NewBoltLedger creates a new BoltLedger instance
func NewBoltLedger(path string) (*BoltLedger, error) {
	db, err := bbolt.Open(path, 0600, &bbolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("opening boltdb: %w", err)
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(documentBucketName))
		return err
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("creating bucket: %w", err)
	}

	return &BoltLedger{db: db}, nil
}

// SaveDocument saves a document entry to the ledger
func (b *BoltLedger) SaveDocument(doc *Document) error {
	return b.db.Update(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket([]byte(documentBucketName))
		data, err := json.Marshal(doc)
		if err != nil {
			return fmt.Errorf("marshaling document: %w", err)
		}
		return bucket.Put([]byte(doc.Path), data)
	})
}

// GetDocument retrieves a document entry by source path
func (b *BoltLedger) GetDocument(path string) (*Document, error) {
	var doc *Document
	err := b.db.View(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket([]byte(documentBucketName))
		data := bucket.Get([]byte(path))
		if data == nil {
			return fmt.Errorf("document not found: %s", path)
		}
		return json.Unmarshal(data, &doc)
	})
	if err != nil {
		return nil, err
	}
	return doc, nil
}

// ListDocuments returns all document entries
func (b *BoltLedger) ListDocuments() ([]*Document, error) {
	documents := make([]*Document, 0)
	err := b.db.View(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket([]byte(documentBucketName))
		return bucket.ForEach(func(k, v []byte) error {
			var doc Document
			if err := json.Unmarshal(v, &doc); err != nil {
				return fmt.Errorf("unmarshaling document: %w", err)
			}
			documents = append(documents, &doc)
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	return documents, nil
}

// Close closes the ledger
func (b *BoltLedger) Close() error {
	return b.db.Close()
}
