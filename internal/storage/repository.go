package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"financas/internal/core"

	_ "modernc.org/sqlite"
)

// ErrNotFound is returned when a record does not exist for the owner.
var ErrNotFound = errors.New("record not found")

// SQLiteRepository is the authoritative store. Every query is scoped by
// the owner id; there is no ambient session, callers always pass it in.
type SQLiteRepository struct {
	db *sql.DB
}

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{db: db}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// Ping reports whether the database is reachable, for readiness checks.
func (r *SQLiteRepository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

func tableFor(kind core.Kind) (string, error) {
	switch kind {
	case core.KindIncome:
		return "receitas", nil
	case core.KindExpense:
		return "despesas", nil
	}
	return "", core.ErrInvalidKind
}

// CreateTransaction inserts an income or expense row.
func (r *SQLiteRepository) CreateTransaction(ctx context.Context, t core.Transaction) error {
	table, err := tableFor(t.Kind)
	if err != nil {
		return err
	}

	if t.Kind == core.KindIncome {
		_, err = r.db.ExecContext(ctx,
			`INSERT INTO receitas (id, owner_id, amount_cents, description, date, tag_id, is_fixed)
			 VALUES (?, ?, ?, ?, ?, ?, ?)`,
			t.ID, t.OwnerID, t.Amount.Cents, t.Description, t.Date.FormatStorage(),
			nullString(t.TagID), boolToInt(t.IsFixed))
	} else {
		_, err = r.db.ExecContext(ctx,
			`INSERT INTO despesas (id, owner_id, amount_cents, description, date, tag_id, is_fixed,
			                       is_installment, total_installments, current_installment)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			t.ID, t.OwnerID, t.Amount.Cents, t.Description, t.Date.FormatStorage(),
			nullString(t.TagID), boolToInt(t.IsFixed),
			boolToInt(t.IsInstallment), nullInt(t.TotalInstallments), nullInt(t.CurrentInstallment))
	}
	if err != nil {
		return fmt.Errorf("insert into %s: %w", table, err)
	}

	slog.InfoContext(ctx, "Transaction saved",
		"record_id", t.ID,
		"owner_id", t.OwnerID,
		"kind", string(t.Kind),
		"amount_cents", t.Amount.Cents)
	return nil
}

// UpdateTransaction rewrites an existing row owned by t.OwnerID.
func (r *SQLiteRepository) UpdateTransaction(ctx context.Context, t core.Transaction) error {
	table, err := tableFor(t.Kind)
	if err != nil {
		return err
	}

	var res sql.Result
	if t.Kind == core.KindIncome {
		res, err = r.db.ExecContext(ctx,
			`UPDATE receitas SET amount_cents = ?, description = ?, date = ?, tag_id = ?, is_fixed = ?
			 WHERE id = ? AND owner_id = ?`,
			t.Amount.Cents, t.Description, t.Date.FormatStorage(), nullString(t.TagID),
			boolToInt(t.IsFixed), t.ID, t.OwnerID)
	} else {
		res, err = r.db.ExecContext(ctx,
			`UPDATE despesas SET amount_cents = ?, description = ?, date = ?, tag_id = ?, is_fixed = ?,
			                     is_installment = ?, total_installments = ?, current_installment = ?
			 WHERE id = ? AND owner_id = ?`,
			t.Amount.Cents, t.Description, t.Date.FormatStorage(), nullString(t.TagID),
			boolToInt(t.IsFixed), boolToInt(t.IsInstallment),
			nullInt(t.TotalInstallments), nullInt(t.CurrentInstallment), t.ID, t.OwnerID)
	}
	if err != nil {
		return fmt.Errorf("update %s: %w", table, err)
	}
	return requireRow(res)
}

// DeleteTransaction removes a row owned by ownerID.
func (r *SQLiteRepository) DeleteTransaction(ctx context.Context, ownerID string, kind core.Kind, id string) error {
	table, err := tableFor(kind)
	if err != nil {
		return err
	}
	res, err := r.db.ExecContext(ctx,
		"DELETE FROM "+table+" WHERE id = ? AND owner_id = ?", id, ownerID)
	if err != nil {
		return fmt.Errorf("delete from %s: %w", table, err)
	}
	return requireRow(res)
}

// GetTransaction fetches a single row scoped to the owner.
func (r *SQLiteRepository) GetTransaction(ctx context.Context, ownerID string, kind core.Kind, id string) (*core.Transaction, error) {
	table, err := tableFor(kind)
	if err != nil {
		return nil, err
	}

	var row *sql.Row
	if kind == core.KindIncome {
		row = r.db.QueryRowContext(ctx,
			`SELECT id, owner_id, amount_cents, description, date, tag_id, is_fixed
			 FROM receitas WHERE id = ? AND owner_id = ?`, id, ownerID)
	} else {
		row = r.db.QueryRowContext(ctx,
			`SELECT id, owner_id, amount_cents, description, date, tag_id, is_fixed,
			        is_installment, total_installments, current_installment
			 FROM despesas WHERE id = ? AND owner_id = ?`, id, ownerID)
	}

	t, err := scanTransaction(row, kind)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get from %s: %w", table, err)
	}
	return t, nil
}

// ListByMonth returns the owner's non-installment transactions whose
// date falls inside the given month, ordered by date descending.
// Installment expenses are excluded; they enter a month through
// projection, never through their start-date row.
func (r *SQLiteRepository) ListByMonth(ctx context.Context, ownerID string, kind core.Kind, year, month int) ([]core.Transaction, error) {
	table, err := tableFor(kind)
	if err != nil {
		return nil, err
	}
	first, last := core.MonthRange(year, month)

	var rows *sql.Rows
	if kind == core.KindIncome {
		rows, err = r.db.QueryContext(ctx,
			`SELECT id, owner_id, amount_cents, description, date, tag_id, is_fixed
			 FROM receitas
			 WHERE owner_id = ? AND date >= ? AND date <= ?
			 ORDER BY date DESC, created_at DESC`,
			ownerID, first.FormatStorage(), last.FormatStorage())
	} else {
		rows, err = r.db.QueryContext(ctx,
			`SELECT id, owner_id, amount_cents, description, date, tag_id, is_fixed,
			        is_installment, total_installments, current_installment
			 FROM despesas
			 WHERE owner_id = ? AND is_installment = 0 AND date >= ? AND date <= ?
			 ORDER BY date DESC, created_at DESC`,
			ownerID, first.FormatStorage(), last.FormatStorage())
	}
	if err != nil {
		return nil, fmt.Errorf("list %s by month: %w", table, err)
	}
	defer rows.Close()

	return collectTransactions(rows, kind)
}

// ListInstallmentExpenses returns all installment expenses for the
// owner with no date bound: any past start date may still have open
// installments in the reference month.
func (r *SQLiteRepository) ListInstallmentExpenses(ctx context.Context, ownerID string) ([]core.Transaction, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, owner_id, amount_cents, description, date, tag_id, is_fixed,
		        is_installment, total_installments, current_installment
		 FROM despesas
		 WHERE owner_id = ? AND is_installment = 1
		 ORDER BY date DESC, created_at DESC`, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list installment expenses: %w", err)
	}
	defer rows.Close()

	return collectTransactions(rows, core.KindExpense)
}

// SumAmounts returns the lifetime sum of raw stored amounts for a kind.
// Installment rows contribute their full total here: this feeds the
// balance snapshot, not the monthly view.
func (r *SQLiteRepository) SumAmounts(ctx context.Context, ownerID string, kind core.Kind) (core.Money, error) {
	table, err := tableFor(kind)
	if err != nil {
		return core.Money{}, err
	}
	var cents int64
	err = r.db.QueryRowContext(ctx,
		"SELECT COALESCE(SUM(amount_cents), 0) FROM "+table+" WHERE owner_id = ?",
		ownerID).Scan(&cents)
	if err != nil {
		return core.Money{}, fmt.Errorf("sum %s: %w", table, err)
	}
	return core.Money{Cents: cents}, nil
}

// CreateTag inserts a tag.
func (r *SQLiteRepository) CreateTag(ctx context.Context, tg core.Tag) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO tags (id, owner_id, name, kind) VALUES (?, ?, ?, ?)`,
		tg.ID, tg.OwnerID, tg.Name, string(tg.Kind))
	if err != nil {
		return fmt.Errorf("insert tag: %w", err)
	}
	return nil
}

// DeleteTag removes a tag owned by ownerID.
func (r *SQLiteRepository) DeleteTag(ctx context.Context, ownerID, id string) error {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM tags WHERE id = ? AND owner_id = ?`, id, ownerID)
	if err != nil {
		return fmt.Errorf("delete tag: %w", err)
	}
	return requireRow(res)
}

// ListTags returns the owner's tags for one kind, ordered by name.
func (r *SQLiteRepository) ListTags(ctx context.Context, ownerID string, kind core.Kind) ([]core.Tag, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, owner_id, name, kind FROM tags
		 WHERE owner_id = ? AND kind = ? ORDER BY name`, ownerID, string(kind))
	if err != nil {
		return nil, fmt.Errorf("list tags: %w", err)
	}
	defer rows.Close()

	var tags []core.Tag
	for rows.Next() {
		var tg core.Tag
		var kindStr string
		if err := rows.Scan(&tg.ID, &tg.OwnerID, &tg.Name, &kindStr); err != nil {
			return nil, fmt.Errorf("scan tag: %w", err)
		}
		tg.Kind = core.Kind(kindStr)
		tags = append(tags, tg)
	}
	return tags, rows.Err()
}

// GetGoal returns the owner's balance goal, ErrNotFound when unset.
func (r *SQLiteRepository) GetGoal(ctx context.Context, ownerID string) (*core.BalanceGoal, error) {
	var (
		g        core.BalanceGoal
		dateStr  string
		achieved int
	)
	err := r.db.QueryRowContext(ctx,
		`SELECT id, owner_id, target_amount_cents, target_date, description, achieved
		 FROM meta_saldo WHERE owner_id = ?`, ownerID).
		Scan(&g.ID, &g.OwnerID, &g.TargetAmount.Cents, &dateStr, &g.Description, &achieved)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get goal: %w", err)
	}
	if g.TargetDate, err = core.ParseStorage(dateStr); err != nil {
		return nil, fmt.Errorf("parse goal date %q: %w", dateStr, err)
	}
	g.Achieved = achieved != 0
	return &g, nil
}

// UpsertGoal writes the owner's single balance goal, replacing any
// previous one. The achieved flag is stored as computed by the caller.
func (r *SQLiteRepository) UpsertGoal(ctx context.Context, g core.BalanceGoal) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO meta_saldo (id, owner_id, target_amount_cents, target_date, description, achieved)
		 VALUES (?, ?, ?, ?, ?, ?)
		 ON CONFLICT(owner_id) DO UPDATE SET
		     target_amount_cents = excluded.target_amount_cents,
		     target_date = excluded.target_date,
		     description = excluded.description,
		     achieved = excluded.achieved,
		     updated_at = CURRENT_TIMESTAMP`,
		g.ID, g.OwnerID, g.TargetAmount.Cents, g.TargetDate.FormatStorage(),
		g.Description, boolToInt(g.Achieved))
	if err != nil {
		return fmt.Errorf("upsert goal: %w", err)
	}
	return nil
}

// CreateInvestment inserts an investment position.
func (r *SQLiteRepository) CreateInvestment(ctx context.Context, inv core.Investment) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO investimentos (id, owner_id, initial_amount_cents, type, start_date, monthly_yield_percent)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		inv.ID, inv.OwnerID, inv.InitialAmount.Cents, inv.Type,
		inv.StartDate.FormatStorage(), inv.MonthlyYieldPercent)
	if err != nil {
		return fmt.Errorf("insert investment: %w", err)
	}
	return nil
}

// DeleteInvestment removes an investment owned by ownerID.
func (r *SQLiteRepository) DeleteInvestment(ctx context.Context, ownerID, id string) error {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM investimentos WHERE id = ? AND owner_id = ?`, id, ownerID)
	if err != nil {
		return fmt.Errorf("delete investment: %w", err)
	}
	return requireRow(res)
}

// ListInvestments returns the owner's positions, newest first.
func (r *SQLiteRepository) ListInvestments(ctx context.Context, ownerID string) ([]core.Investment, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, owner_id, initial_amount_cents, type, start_date, monthly_yield_percent
		 FROM investimentos WHERE owner_id = ? ORDER BY start_date DESC`, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list investments: %w", err)
	}
	defer rows.Close()

	var list []core.Investment
	for rows.Next() {
		var (
			inv     core.Investment
			dateStr string
		)
		if err := rows.Scan(&inv.ID, &inv.OwnerID, &inv.InitialAmount.Cents,
			&inv.Type, &dateStr, &inv.MonthlyYieldPercent); err != nil {
			return nil, fmt.Errorf("scan investment: %w", err)
		}
		if inv.StartDate, err = core.ParseStorage(dateStr); err != nil {
			return nil, fmt.Errorf("parse investment date %q: %w", dateStr, err)
		}
		list = append(list, inv)
	}
	return list, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTransaction(row rowScanner, kind core.Kind) (*core.Transaction, error) {
	var (
		t       core.Transaction
		dateStr string
		tagID   sql.NullString
		fixed   int
	)

	if kind == core.KindIncome {
		if err := row.Scan(&t.ID, &t.OwnerID, &t.Amount.Cents, &t.Description,
			&dateStr, &tagID, &fixed); err != nil {
			return nil, err
		}
	} else {
		var (
			installment int
			total, cur  sql.NullInt64
		)
		if err := row.Scan(&t.ID, &t.OwnerID, &t.Amount.Cents, &t.Description,
			&dateStr, &tagID, &fixed, &installment, &total, &cur); err != nil {
			return nil, err
		}
		t.IsInstallment = installment != 0
		if total.Valid {
			n := int(total.Int64)
			t.TotalInstallments = &n
		}
		if cur.Valid {
			n := int(cur.Int64)
			t.CurrentInstallment = &n
		}
	}

	t.Kind = kind
	t.TagID = tagID.String
	t.IsFixed = fixed != 0

	d, err := core.ParseStorage(dateStr)
	if err != nil {
		return nil, fmt.Errorf("parse date %q: %w", dateStr, err)
	}
	t.Date = d
	return &t, nil
}

func collectTransactions(rows *sql.Rows, kind core.Kind) ([]core.Transaction, error) {
	var list []core.Transaction
	for rows.Next() {
		t, err := scanTransaction(rows, kind)
		if err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		list = append(list, *t)
	}
	return list, rows.Err()
}

func requireRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func nullString(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func nullInt(n *int) any {
	if n == nil {
		return nil
	}
	return *n
}
