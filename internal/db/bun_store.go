// Copyright (c) 2026 NetPlus Team
// NetPlus - Network+ subnetting and troubleshooting toolkit
// This source code is licensed under the MIT license found in the LICENSE file.

package db

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/uptrace/bun"

	"github.com/netplus-lab/netplus/internal/model"
)

// Store is the persistence surface used by the progress tracker and the
// backup package.
type Store interface {
	AddAttempt(ctx context.Context, a model.Attempt) (int64, error)
	ListAttempts(ctx context.Context, module model.Module) ([]model.Attempt, error)
	DeleteAttempts(ctx context.Context, module model.Module) (int64, error)

	SaveDesign(ctx context.Context, d model.Design) error
	ListDesigns(ctx context.Context) ([]model.Design, error)
	GetDesign(ctx context.Context, idOrName string) (model.Design, error)
	DeleteDesign(ctx context.Context, idOrName string) error

	LogAction(ctx context.Context, entry model.AuditLogEntry) error
	AuditLog(ctx context.Context, limit int) ([]model.AuditLogEntry, error)

	Wipe(ctx context.Context) error
	// RunInTx runs fn against a Store bound to one transaction. The
	// transaction commits when fn returns nil and rolls back otherwise.
	RunInTx(ctx context.Context, fn func(ctx context.Context, tx Store) error) error
	Close() error
}

// BunStore implements Store on top of a *bun.DB. Inside RunInTx the same
// methods run against the transaction instead.
type BunStore struct {
	db     *bun.DB
	idb    bun.IDB
	dbType string
	inTx   bool
}

func newBunStore(bdb *bun.DB, dbType string) *BunStore {
	return &BunStore{db: bdb, idb: bdb, dbType: dbType}
}

var _ Store = (*BunStore)(nil)

// attemptModel is the bun row model for the attempts table.
type attemptModel struct {
	bun.BaseModel `bun:"table:attempts"`
	ID            int64     `bun:"id,pk,autoincrement"`
	Module        string    `bun:"module"`
	ScenarioID    string    `bun:"scenario_id"`
	Score         int       `bun:"score"`
	Hints         int       `bun:"hints"`
	WrongAnswers  int       `bun:"wrong_answers"`
	DurationMs    int64     `bun:"duration_ms"`
	CreatedAt     time.Time `bun:"created_at"`
}

type designModel struct {
	bun.BaseModel `bun:"table:designs"`
	ID            string    `bun:"id,pk"`
	Name          string    `bun:"name"`
	Base          string    `bun:"base"`
	PlanJSON      string    `bun:"plan_json"`
	CreatedAt     time.Time `bun:"created_at"`
}

type auditLogModel struct {
	bun.BaseModel `bun:"table:audit_log"`
	ID            int64     `bun:"id,pk,autoincrement"`
	Timestamp     time.Time `bun:"timestamp"`
	Username      string    `bun:"username"`
	Action        string    `bun:"action"`
	Details       string    `bun:"details"`
}

func attemptToModel(m attemptModel) model.Attempt {
	return model.Attempt{
		ID:           m.ID,
		Module:       model.Module(m.Module),
		ScenarioID:   m.ScenarioID,
		Score:        m.Score,
		Hints:        m.Hints,
		WrongAnswers: m.WrongAnswers,
		DurationMs:   m.DurationMs,
		CreatedAt:    m.CreatedAt.UTC(),
	}
}

func designToModel(m designModel) (model.Design, error) {
	d := model.Design{ID: m.ID, Name: m.Name, Base: m.Base, CreatedAt: m.CreatedAt.UTC()}
	if err := json.Unmarshal([]byte(m.PlanJSON), &d.Plan); err != nil {
		return model.Design{}, fmt.Errorf("decode plan for design %q: %w", m.Name, err)
	}
	return d, nil
}

// DBType returns the dialect name the store was opened with.
func (s *BunStore) DBType() string { return s.dbType }

// BunDB exposes the underlying Bun handle for maintenance helpers.
func (s *BunStore) BunDB() *bun.DB { return s.db }

// AddAttempt stores a and returns the generated ID. The ID field of a is
// ignored.
func (s *BunStore) AddAttempt(ctx context.Context, a model.Attempt) (int64, error) {
	m := &attemptModel{
		Module:       string(a.Module),
		ScenarioID:   a.ScenarioID,
		Score:        a.Score,
		Hints:        a.Hints,
		WrongAnswers: a.WrongAnswers,
		DurationMs:   a.DurationMs,
		CreatedAt:    a.CreatedAt.UTC(),
	}
	if m.CreatedAt.IsZero() {
		m.CreatedAt = time.Now().UTC()
	}
	if s.dbType == "mysql" {
		// MySQL has no RETURNING; use LastInsertId instead.
		res, err := s.idb.NewInsert().Model(m).ExcludeColumn("id").Exec(ctx)
		if err != nil {
			return 0, MapDBError(err)
		}
		return res.LastInsertId()
	}
	if _, err := s.idb.NewInsert().Model(m).Returning("id").Exec(ctx); err != nil {
		return 0, MapDBError(err)
	}
	return m.ID, nil
}

// ListAttempts returns attempts oldest first. An empty module lists all.
func (s *BunStore) ListAttempts(ctx context.Context, module model.Module) ([]model.Attempt, error) {
	var rows []attemptModel
	q := s.idb.NewSelect().Model(&rows).OrderExpr("created_at ASC, id ASC")
	if module != "" {
		q = q.Where("module = ?", string(module))
	}
	if err := q.Scan(ctx); err != nil {
		return nil, MapDBError(err)
	}
	out := make([]model.Attempt, 0, len(rows))
	for _, r := range rows {
		out = append(out, attemptToModel(r))
	}
	return out, nil
}

// DeleteAttempts removes attempts for module, or every attempt when module
// is empty, and reports how many rows were removed.
func (s *BunStore) DeleteAttempts(ctx context.Context, module model.Module) (int64, error) {
	var (
		res interface{ RowsAffected() (int64, error) }
		err error
	)
	if module == "" {
		res, err = ExecRaw(ctx, s.idb, "DELETE FROM attempts")
	} else {
		res, err = s.idb.NewDelete().Model((*attemptModel)(nil)).Where("module = ?", string(module)).Exec(ctx)
	}
	if err != nil {
		return 0, MapDBError(err)
	}
	return res.RowsAffected()
}

// SaveDesign inserts d. Names are unique; a clash returns ErrDuplicate.
func (s *BunStore) SaveDesign(ctx context.Context, d model.Design) error {
	plan, err := json.Marshal(d.Plan)
	if err != nil {
		return fmt.Errorf("encode plan: %w", err)
	}
	m := &designModel{ID: d.ID, Name: d.Name, Base: d.Base, PlanJSON: string(plan), CreatedAt: d.CreatedAt.UTC()}
	if m.CreatedAt.IsZero() {
		m.CreatedAt = time.Now().UTC()
	}
	if _, err := s.idb.NewInsert().Model(m).Exec(ctx); err != nil {
		return MapDBError(err)
	}
	return nil
}

// ListDesigns returns saved designs ordered by name.
func (s *BunStore) ListDesigns(ctx context.Context) ([]model.Design, error) {
	var rows []designModel
	if err := s.idb.NewSelect().Model(&rows).OrderExpr("name ASC").Scan(ctx); err != nil {
		return nil, MapDBError(err)
	}
	out := make([]model.Design, 0, len(rows))
	for _, r := range rows {
		d, err := designToModel(r)
		if err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, nil
}

// GetDesign looks a design up by ID or, failing that, by name.
func (s *BunStore) GetDesign(ctx context.Context, idOrName string) (model.Design, error) {
	var row designModel
	err := s.idb.NewSelect().Model(&row).
		Where("id = ?", idOrName).WhereOr("name = ?", idOrName).
		Limit(1).Scan(ctx)
	if err != nil {
		return model.Design{}, MapDBError(err)
	}
	return designToModel(row)
}

// DeleteDesign removes a design by ID or name.
func (s *BunStore) DeleteDesign(ctx context.Context, idOrName string) error {
	res, err := s.idb.NewDelete().Model((*designModel)(nil)).
		Where("id = ?", idOrName).WhereOr("name = ?", idOrName).Exec(ctx)
	if err != nil {
		return MapDBError(err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// LogAction appends an audit entry. A zero timestamp is replaced by now.
func (s *BunStore) LogAction(ctx context.Context, e model.AuditLogEntry) error {
	m := &auditLogModel{Timestamp: e.Timestamp.UTC(), Username: e.Username, Action: e.Action, Details: e.Details}
	if m.Timestamp.IsZero() {
		m.Timestamp = time.Now().UTC()
	}
	if _, err := s.idb.NewInsert().Model(m).ExcludeColumn("id").Exec(ctx); err != nil {
		return MapDBError(err)
	}
	return nil
}

// AuditLog returns the newest entries first. limit <= 0 returns all.
func (s *BunStore) AuditLog(ctx context.Context, limit int) ([]model.AuditLogEntry, error) {
	var rows []auditLogModel
	q := s.idb.NewSelect().Model(&rows).OrderExpr("timestamp DESC, id DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Scan(ctx); err != nil {
		return nil, MapDBError(err)
	}
	out := make([]model.AuditLogEntry, 0, len(rows))
	for _, r := range rows {
		out = append(out, model.AuditLogEntry{ID: r.ID, Timestamp: r.Timestamp.UTC(), Username: r.Username, Action: r.Action, Details: r.Details})
	}
	return out, nil
}

// Wipe removes all rows from every table inside one transaction. Used by
// a full restore.
func (s *BunStore) Wipe(ctx context.Context) error {
	return s.RunInTx(ctx, func(ctx context.Context, tx Store) error {
		idb := tx.(*BunStore).idb
		for _, table := range []string{"attempts", "designs", "audit_log"} {
			if _, err := ExecRaw(ctx, idb, "DELETE FROM "+table); err != nil {
				return fmt.Errorf("wipe %s: %w", table, err)
			}
		}
		return nil
	})
}

// RunInTx implements Store. Nested calls reuse the open transaction.
func (s *BunStore) RunInTx(ctx context.Context, fn func(ctx context.Context, tx Store) error) error {
	if s.inTx {
		return fn(ctx, s)
	}
	return WithTx(ctx, s.db, func(ctx context.Context, tx bun.Tx) error {
		return fn(ctx, &BunStore{db: s.db, idb: tx, dbType: s.dbType, inTx: true})
	})
}

// Close releases the underlying connection pool. It is a no-op on a
// transaction-scoped store.
func (s *BunStore) Close() error {
	if s.inTx {
		return nil
	}
	return s.db.Close()
}
