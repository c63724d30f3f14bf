// Package redisstore implements the ledger store and item locker on Redis.
package redisstore

import (
	"context"
	"errors"
	"sort"

	"github.com/redis/go-redis/v9"

	"github.com/trip-planner/backend/internal/application/adapter"
	"github.com/trip-planner/backend/internal/domain/entity"
	domainerror "github.com/trip-planner/backend/internal/domain/error"
	"github.com/trip-planner/backend/internal/integration/persistence/model"
)

const (
	documentKeyPrefix = "budgets:"
	indexKey          = "budgets_index"
)

// ledgerStore keeps each user's document as one JSON string under budgets:{uid}.
// A set under budgets_index, outside the document keyspace, tracks the uids
// so trip purges can scan every document.
type ledgerStore struct {
	client *redis.Client
}

// NewLedgerStore creates a new Redis-backed ledger store instance.
func NewLedgerStore(client *redis.Client) adapter.LedgerStore {
	return &ledgerStore{client: client}
}

func documentKey(userID string) string {
	return documentKeyPrefix + userID
}

// Get reads one user's budget document.
func (s *ledgerStore) Get(ctx context.Context, userID string) (*entity.BudgetDocument, error) {
	data, err := s.client.Get(ctx, documentKey(userID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, domainerror.ErrDocumentNotFound
	}
	if err != nil {
		return nil, domainerror.NewStoreError(userID, "get", err)
	}

	doc, err := model.UnmarshalDocument(userID, data)
	if err != nil {
		return nil, domainerror.NewStoreError(userID, "get", err)
	}
	return doc, nil
}

// Set replaces one user's budget document and records the uid in the index.
func (s *ledgerStore) Set(ctx context.Context, userID string, doc *entity.BudgetDocument) error {
	data, err := model.MarshalDocument(doc)
	if err != nil {
		return domainerror.NewStoreError(userID, "set", err)
	}

	_, err = s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, documentKey(userID), data, 0)
		pipe.SAdd(ctx, indexKey, userID)
		return nil
	})
	if err != nil {
		return domainerror.NewStoreError(userID, "set", err)
	}
	return nil
}

// ListUserIDs returns every user that owns a budget document.
func (s *ledgerStore) ListUserIDs(ctx context.Context) ([]string, error) {
	ids, err := s.client.SMembers(ctx, indexKey).Result()
	if err != nil {
		return nil, domainerror.NewStoreError("", "list", err)
	}
	sort.Strings(ids)
	return ids, nil
}
