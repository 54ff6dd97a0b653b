// Package memory implements the repository on top of go-memdb.
//
// Write transactions are serialized by go-memdb, which gives every multi-entity
// method the same all-or-nothing behaviour as the postgres backend. Stored objects
// are never mutated in place: updates insert a fresh copy.
package memory

import (
	"context"
	"fmt"
	"time"

	"github.com/hashicorp/go-memdb"
	"go.uber.org/zap"
)

const (
	tableSeq       = "seq"
	tableUsers     = "users"
	tableTeams     = "teams"
	tableOpenings  = "openings"
	tableMembers   = "members"
	tableOffers    = "offers"
	tableReviews   = "reviews"
	tableFavorites = "favorites"

	pk = "id"
)

// Memory is an in-process repository backend.
type Memory struct {
	log *zap.SugaredLogger
	db  *memdb.MemDB
	now func() time.Time
}

// New creates a memory repository. The schema is static, so a failure is a programming error.
func New(log *zap.SugaredLogger) *Memory {
	db, err := memdb.NewMemDB(Schema())
	if err != nil {
		panic(fmt.Sprintf("memory schema: %v", err))
	}
	return &Memory{
		log: log.Named("repo.memory"),
		db:  db,
		now: time.Now,
	}
}

// OnStart is a no-op; the database lives as long as the process.
func (m *Memory) OnStart(_ context.Context) error {
	m.log.Infow("memory repository ready")
	return nil
}

// OnStop is a no-op.
func (m *Memory) OnStop(_ context.Context) error { return nil }

func idIndex() *memdb.IndexSchema {
	return &memdb.IndexSchema{Name: pk, Unique: true, Indexer: &memdb.IntFieldIndex{Field: "ID"}}
}

func intIndex(name, field string) *memdb.IndexSchema {
	return &memdb.IndexSchema{Name: name, Indexer: &memdb.IntFieldIndex{Field: field}}
}

// Schema describes every table of the memory backend.
func Schema() *memdb.DBSchema {
	return &memdb.DBSchema{
		Tables: map[string]*memdb.TableSchema{
			tableSeq: {
				Name: tableSeq,
				Indexes: map[string]*memdb.IndexSchema{
					pk: {Name: pk, Unique: true, Indexer: &memdb.StringFieldIndex{Field: "Name"}},
				},
			},
			tableUsers: {
				Name: tableUsers,
				Indexes: map[string]*memdb.IndexSchema{
					pk: idIndex(),
					"username": {
						Name:    "username",
						Unique:  true,
						Indexer: &memdb.StringFieldIndex{Field: "Username"},
					},
				},
			},
			tableTeams: {
				Name:    tableTeams,
				Indexes: map[string]*memdb.IndexSchema{pk: idIndex()},
			},
			tableOpenings: {
				Name: tableOpenings,
				Indexes: map[string]*memdb.IndexSchema{
					pk: {
						Name:   pk,
						Unique: true,
						Indexer: &memdb.CompoundIndex{Indexes: []memdb.Indexer{
							&memdb.IntFieldIndex{Field: "TeamID"},
							&memdb.UintFieldIndex{Field: "Position"},
						}},
					},
					"team": intIndex("team", "TeamID"),
				},
			},
			tableMembers: {
				Name: tableMembers,
				Indexes: map[string]*memdb.IndexSchema{
					pk:     idIndex(),
					"team": intIndex("team", "TeamID"),
					"team_user": {
						Name: "team_user",
						Indexer: &memdb.CompoundIndex{Indexes: []memdb.Indexer{
							&memdb.IntFieldIndex{Field: "TeamID"},
							&memdb.IntFieldIndex{Field: "UserID"},
						}},
					},
				},
			},
			tableOffers: {
				Name: tableOffers,
				Indexes: map[string]*memdb.IndexSchema{
					pk:     idIndex(),
					"team": intIndex("team", "TeamID"),
					"user": intIndex("user", "UserID"),
					"tuple": {
						Name: "tuple",
						Indexer: &memdb.CompoundIndex{Indexes: []memdb.Indexer{
							&memdb.IntFieldIndex{Field: "UserID"},
							&memdb.IntFieldIndex{Field: "TeamID"},
							&memdb.UintFieldIndex{Field: "Position"},
						}},
					},
				},
			},
			tableReviews: {
				Name: tableReviews,
				Indexes: map[string]*memdb.IndexSchema{
					pk:         idIndex(),
					"reviewee": intIndex("reviewee", "RevieweeUserID"),
					"pair": {
						Name:   "pair",
						Unique: true,
						Indexer: &memdb.CompoundIndex{Indexes: []memdb.Indexer{
							&memdb.IntFieldIndex{Field: "TeamID"},
							&memdb.IntFieldIndex{Field: "ReviewerUserID"},
							&memdb.IntFieldIndex{Field: "RevieweeUserID"},
						}},
					},
				},
			},
			tableFavorites: {
				Name: tableFavorites,
				Indexes: map[string]*memdb.IndexSchema{
					pk:      idIndex(),
					"owner": intIndex("owner", "OwnerID"),
					"target": {
						Name:   "target",
						Unique: true,
						Indexer: &memdb.CompoundIndex{Indexes: []memdb.Indexer{
							&memdb.IntFieldIndex{Field: "OwnerID"},
							&memdb.UintFieldIndex{Field: "Kind"},
							&memdb.IntFieldIndex{Field: "TargetID"},
						}},
					},
				},
			},
		},
	}
}

type sequence struct {
	Name  string
	Value int64
}

// nextID allocates the next id of a table inside the write transaction, so an abort releases it.
func nextID(txn *memdb.Txn, table string) (int64, error) {
	raw, err := txn.First(tableSeq, pk, table)
	if err != nil {
		return 0, err
	}
	next := int64(1)
	if raw != nil {
		next = raw.(*sequence).Value + 1
	}
	if err := txn.Insert(tableSeq, &sequence{Name: table, Value: next}); err != nil {
		return 0, err
	}
	return next, nil
}

// write runs fn in a write transaction, committing only when fn succeeds.
func (m *Memory) write(fn func(txn *memdb.Txn) error) error {
	txn := m.db.Txn(true)
	defer txn.Abort()
	if err := fn(txn); err != nil {
		return err
	}
	txn.Commit()
	return nil
}

func (m *Memory) read() *memdb.Txn {
	return m.db.Txn(false)
}

func first[T any](txn *memdb.Txn, table, index string, args ...any) (*T, error) {
	raw, err := txn.First(table, index, args...)
	if err != nil {
		return nil, fmt.Errorf("%s lookup: %w", table, err)
	}
	if raw == nil {
		return nil, nil
	}
	cp := *raw.(*T)
	return &cp, nil
}

func all[T any](txn *memdb.Txn, table, index string, args ...any) ([]T, error) {
	it, err := txn.Get(table, index, args...)
	if err != nil {
		return nil, fmt.Errorf("%s scan: %w", table, err)
	}
	res := make([]T, 0)
	for raw := it.Next(); raw != nil; raw = it.Next() {
		res = append(res, *raw.(*T))
	}
	return res, nil
}

// put stores a copy of v so callers never alias a stored object.
func put[T any](txn *memdb.Txn, table string, v *T) error {
	cp := *v
	if err := txn.Insert(table, &cp); err != nil {
		return fmt.Errorf("%s insert: %w", table, err)
	}
	return nil
}
