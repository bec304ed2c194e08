package firestore

import (
	"context"
	"fmt"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/PabloGalante/weatherchat/internal/domain"
)

const collection = "weatherchat"

type Store struct {
	client *firestore.Client
	prefix string
}

// NewStore creates a Firestore store for projectID.
func NewStore(ctx context.Context, projectID, prefix string) (*Store, error) {
	if projectID == "" {
		return nil, fmt.Errorf("projectID is required for Firestore store")
	}

	client, err := firestore.NewClient(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("creating firestore client: %w", err)
	}

	return &Store{client: client, prefix: prefix}, nil
}

type valueDoc struct {
	Value     string    `firestore:"value"`
	UpdatedAt time.Time `firestore:"updated_at"`
}

func (s *Store) doc(key string) *firestore.DocumentRef {
	return s.client.Collection(collection).Doc(s.prefix + key)
}

func (s *Store) Get(ctx context.Context, key string) (string, error) {
	snap, err := s.doc(key).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return "", domain.ErrKeyNotFound
		}
		return "", fmt.Errorf("firestore Get %s: %w", key, err)
	}

	var doc valueDoc
	if err := snap.DataTo(&doc); err != nil {
		return "", fmt.Errorf("firestore Get %s decode: %w", key, err)
	}
	return doc.Value, nil
}

func (s *Store) Set(ctx context.Context, key, value string) error {
	doc := valueDoc{
		Value:     value,
		UpdatedAt: time.Now().UTC(),
	}

	if _, err := s.doc(key).Set(ctx, doc); err != nil {
		return fmt.Errorf("firestore Set %s: %w", key, err)
	}
	return nil
}

func (s *Store) Close() error {
	return s.client.Close()
}
