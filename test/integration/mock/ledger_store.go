package mock

import (
	"context"
	"errors"
	"sort"
	"sync"

	"github.com/trip-planner/backend/internal/domain/entity"
	domainerror "github.com/trip-planner/backend/internal/domain/error"
)

// ErrInjected is the failure returned for uids marked with FailGet or FailSet.
var ErrInjected = errors.New("injected store failure")

// LedgerStore is an in-memory ledger store with failure injection.
// Documents are copied on every read and write, like a remote store.
type LedgerStore struct {
	mu       sync.Mutex
	docs     map[string]*entity.BudgetDocument
	failGet  map[string]bool
	failSet  map[string]bool
	sets     map[string]int
	failList bool
}

func NewLedgerStore() *LedgerStore {
	return &LedgerStore{
		docs:    map[string]*entity.BudgetDocument{},
		failGet: map[string]bool{},
		failSet: map[string]bool{},
		sets:    map[string]int{},
	}
}

func (s *LedgerStore) Get(_ context.Context, userID string) (*entity.BudgetDocument, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.failGet[userID] {
		return nil, domainerror.NewStoreError(userID, "get", ErrInjected)
	}
	doc, ok := s.docs[userID]
	if !ok {
		return nil, domainerror.ErrDocumentNotFound
	}
	return copyDocument(doc), nil
}

func (s *LedgerStore) Set(_ context.Context, userID string, doc *entity.BudgetDocument) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.failSet[userID] {
		return domainerror.NewStoreError(userID, "set", ErrInjected)
	}
	cp := copyDocument(doc)
	cp.UserID = userID
	s.docs[userID] = cp
	s.sets[userID]++
	return nil
}

func (s *LedgerStore) ListUserIDs(_ context.Context) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.failList {
		return nil, domainerror.NewStoreError("", "list", ErrInjected)
	}
	ids := make([]string, 0, len(s.docs))
	for id := range s.docs {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids, nil
}

// Seed stores doc directly, bypassing failure injection and write counters.
func (s *LedgerStore) Seed(doc *entity.BudgetDocument) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.docs[doc.UserID] = copyDocument(doc)
}

// Document returns a copy of a user's document, or nil.
func (s *LedgerStore) Document(userID string) *entity.BudgetDocument {
	s.mu.Lock()
	defer s.mu.Unlock()
	doc, ok := s.docs[userID]
	if !ok {
		return nil
	}
	return copyDocument(doc)
}

// Writes returns how many successful Set calls targeted userID.
func (s *LedgerStore) Writes(userID string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sets[userID]
}

// TotalWrites returns the number of successful Set calls.
func (s *LedgerStore) TotalWrites() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	total := 0
	for _, n := range s.sets {
		total += n
	}
	return total
}

func (s *LedgerStore) FailGet(userID string, fail bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failGet[userID] = fail
}

func (s *LedgerStore) FailSet(userID string, fail bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failSet[userID] = fail
}

func (s *LedgerStore) FailList(fail bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failList = fail
}

func (s *LedgerStore) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.docs = map[string]*entity.BudgetDocument{}
	s.failGet = map[string]bool{}
	s.failSet = map[string]bool{}
	s.sets = map[string]int{}
	s.failList = false
}

func copyDocument(doc *entity.BudgetDocument) *entity.BudgetDocument {
	return doc.Clone()
}
