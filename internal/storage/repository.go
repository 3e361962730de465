package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"kosku/internal/core"

	_ "modernc.org/sqlite"
)

// ErrNotFound is returned when a record id does not exist.
var ErrNotFound = errors.New("record not found")

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

const timeLayout = time.RFC3339

func fmtTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func parseStoredTime(s string) (time.Time, error) {
	t, err := time.Parse(timeLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse stored timestamp %q: %w", s, err)
	}
	return t, nil
}

func dateOrNull(d core.Date) any {
	if d.IsEmpty() {
		return nil
	}
	return d.String()
}

func strOrNull(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func parseStoredDate(ns sql.NullString) (core.Date, error) {
	if !ns.Valid || ns.String == "" {
		return core.Date{}, nil
	}
	return core.ParseDate(ns.String)
}

// monthWindow returns the half-open [first, next-first) date range covering
// a billing month, matching the indexes on the date columns.
func monthWindow(m core.Month) (from, to string) {
	return m.First().String(), m.Next().First().String()
}

type scanner interface {
	Scan(dest ...any) error
}

// Rooms

const roomColumns = "id, number, rent_price, status, tenant_name, due_day, created_at, updated_at"

func scanRoom(s scanner) (core.Room, error) {
	var (
		room    core.Room
		rent    int64
		status  string
		tenant  sql.NullString
		created string
		updated string
	)
	if err := s.Scan(&room.ID, &room.Number, &rent, &status, &tenant, &room.DueDay, &created, &updated); err != nil {
		return core.Room{}, err
	}
	room.RentPrice = core.Money{Rupiah: rent}
	room.Status = core.RoomStatus(status)
	room.TenantName = tenant.String

	var err error
	if room.CreatedAt, err = parseStoredTime(created); err != nil {
		return core.Room{}, err
	}
	if room.UpdatedAt, err = parseStoredTime(updated); err != nil {
		return core.Room{}, err
	}
	return room, nil
}

func (r *SQLiteRepository) CreateRoom(ctx context.Context, room core.Room) (core.Room, error) {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO room (number, rent_price, status, tenant_name, due_day, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		room.Number, room.RentPrice.Rupiah, string(room.Status), strOrNull(room.TenantName),
		room.DueDay, fmtTime(room.CreatedAt), fmtTime(room.UpdatedAt))
	if err != nil {
		return core.Room{}, fmt.Errorf("insert room: %w", err)
	}
	room.ID, err = res.LastInsertId()
	if err != nil {
		return core.Room{}, fmt.Errorf("room insert id: %w", err)
	}

	slog.InfoContext(ctx, "Room created", "id", room.ID, "number", room.Number, "status", room.Status)
	return room, nil
}

func (r *SQLiteRepository) UpdateRoom(ctx context.Context, room core.Room) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE room SET number = ?, rent_price = ?, status = ?, tenant_name = ?, due_day = ?, updated_at = ?
		 WHERE id = ?`,
		room.Number, room.RentPrice.Rupiah, string(room.Status), strOrNull(room.TenantName),
		room.DueDay, fmtTime(room.UpdatedAt), room.ID)
	if err != nil {
		return fmt.Errorf("update room: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("update room %d: %w", room.ID, ErrNotFound)
	}
	return nil
}

func (r *SQLiteRepository) GetRoom(ctx context.Context, id int64) (core.Room, error) {
	row := r.db.QueryRowContext(ctx, "SELECT "+roomColumns+" FROM room WHERE id = ?", id)
	room, err := scanRoom(row)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Room{}, fmt.Errorf("room %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return core.Room{}, fmt.Errorf("get room: %w", err)
	}
	return room, nil
}

func (r *SQLiteRepository) ListRooms(ctx context.Context) ([]core.Room, error) {
	rows, err := r.db.QueryContext(ctx, "SELECT "+roomColumns+" FROM room ORDER BY number")
	if err != nil {
		return nil, fmt.Errorf("list rooms: %w", err)
	}
	defer rows.Close()

	var rooms []core.Room
	for rows.Next() {
		room, err := scanRoom(rows)
		if err != nil {
			return nil, fmt.Errorf("scan room: %w", err)
		}
		rooms = append(rooms, room)
	}
	return rooms, rows.Err()
}

// DeleteRoom removes the room together with its dependent payment, penalty
// and occupancy records. Children go first so a failure never leaves a room
// row pointing at orphans.
func (r *SQLiteRepository) DeleteRoom(ctx context.Context, id int64) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin delete room tx: %w", err)
	}
	defer tx.Rollback()

	for _, q := range []string{
		"DELETE FROM payment WHERE room_id = ?",
		"DELETE FROM penalty WHERE room_id = ?",
		"DELETE FROM room_occupancy WHERE room_id = ?",
	} {
		if _, err := tx.ExecContext(ctx, q, id); err != nil {
			return fmt.Errorf("delete room children: %w", err)
		}
	}
	res, err := tx.ExecContext(ctx, "DELETE FROM room WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("delete room: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("delete room %d: %w", id, ErrNotFound)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit delete room: %w", err)
	}

	slog.InfoContext(ctx, "Room deleted with dependent records", "id", id)
	return nil
}

// ActiveRoomIDs returns the ids of all rooms currently on the roster, used
// to exclude records of deleted rooms from aggregation.
func (r *SQLiteRepository) ActiveRoomIDs(ctx context.Context) (map[int64]struct{}, error) {
	rows, err := r.db.QueryContext(ctx, "SELECT id FROM room")
	if err != nil {
		return nil, fmt.Errorf("list room ids: %w", err)
	}
	defer rows.Close()

	ids := make(map[int64]struct{})
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan room id: %w", err)
		}
		ids[id] = struct{}{}
	}
	return ids, rows.Err()
}

// BillingRoster returns occupied rooms in the shape the payment generator
// consumes, ordered by room number.
func (r *SQLiteRepository) BillingRoster(ctx context.Context) ([]core.RoomBilling, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT id, rent_price, status, due_day FROM room WHERE status = ? ORDER BY number",
		string(core.RoomOccupied))
	if err != nil {
		return nil, fmt.Errorf("billing roster: %w", err)
	}
	defer rows.Close()

	var roster []core.RoomBilling
	for rows.Next() {
		var (
			rb     core.RoomBilling
			rent   int64
			status string
			dueDay int
		)
		if err := rows.Scan(&rb.RoomID, &rent, &status, &dueDay); err != nil {
			return nil, fmt.Errorf("scan billing room: %w", err)
		}
		rb.RentPrice = core.Money{Rupiah: rent}
		rb.Status = core.RoomStatus(status)
		rb.DueDay = &dueDay
		roster = append(roster, rb)
	}
	return roster, rows.Err()
}

// Payments

const paymentColumns = "id, room_id, billing_month, due_date, amount_due, amount_paid, payment_date, method, created_at, updated_at"

func scanPayment(s scanner) (core.Payment, error) {
	var (
		p       core.Payment
		due     int64
		paid    sql.NullInt64
		billing string
		dueDate string
		payDate sql.NullString
		method  sql.NullString
		created string
		updated string
	)
	if err := s.Scan(&p.ID, &p.RoomID, &billing, &dueDate, &due, &paid, &payDate, &method, &created, &updated); err != nil {
		return core.Payment{}, err
	}
	p.AmountDue = core.Money{Rupiah: due}
	p.AmountPaid = core.Money{Rupiah: paid.Int64}
	p.Method = method.String

	var err error
	if p.BillingMonth, err = core.ParseDate(billing); err != nil {
		return core.Payment{}, err
	}
	if p.DueDate, err = core.ParseDate(dueDate); err != nil {
		return core.Payment{}, err
	}
	if p.PaymentDate, err = parseStoredDate(payDate); err != nil {
		return core.Payment{}, err
	}
	if p.CreatedAt, err = parseStoredTime(created); err != nil {
		return core.Payment{}, err
	}
	if p.UpdatedAt, err = parseStoredTime(updated); err != nil {
		return core.Payment{}, err
	}
	return p, nil
}

func (r *SQLiteRepository) CreatePayment(ctx context.Context, p core.Payment) (core.Payment, error) {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO payment (room_id, billing_month, due_date, amount_due, amount_paid, payment_date, method, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		p.RoomID, p.BillingMonth.String(), p.DueDate.String(), p.AmountDue.Rupiah, p.AmountPaid.Rupiah,
		dateOrNull(p.PaymentDate), strOrNull(p.Method), fmtTime(p.CreatedAt), fmtTime(p.UpdatedAt))
	if err != nil {
		return core.Payment{}, fmt.Errorf("insert payment: %w", err)
	}
	p.ID, err = res.LastInsertId()
	if err != nil {
		return core.Payment{}, fmt.Errorf("payment insert id: %w", err)
	}

	slog.InfoContext(ctx, "Payment recorded",
		"id", p.ID,
		"room_id", p.RoomID,
		"billing_month", p.BillingMonth.YearMonth(),
		"amount_due", p.AmountDue.Rupiah)
	return p, nil
}

// InsertPayments persists generator output in one transaction and returns
// the number of rows written.
func (r *SQLiteRepository) InsertPayments(ctx context.Context, rows []core.NewPayment) (int, error) {
	if len(rows) == 0 {
		return 0, nil
	}
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin insert payments tx: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO payment (room_id, billing_month, due_date, amount_due, amount_paid, payment_date, method, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return 0, fmt.Errorf("prepare insert payments: %w", err)
	}
	defer stmt.Close()

	for _, p := range rows {
		if _, err := stmt.ExecContext(ctx,
			p.RoomID, p.BillingMonth.String(), p.DueDate.String(), p.AmountDue.Rupiah, p.AmountPaid.Rupiah,
			dateOrNull(p.PaymentDate), strOrNull(p.Method), fmtTime(p.CreatedAt), fmtTime(p.UpdatedAt)); err != nil {
			return 0, fmt.Errorf("insert generated payment for room %d: %w", p.RoomID, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit insert payments: %w", err)
	}

	slog.InfoContext(ctx, "Generated payments inserted", "count", len(rows))
	return len(rows), nil
}

func (r *SQLiteRepository) UpdatePayment(ctx context.Context, p core.Payment) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE payment SET amount_due = ?, amount_paid = ?, payment_date = ?, method = ?, updated_at = ?
		 WHERE id = ?`,
		p.AmountDue.Rupiah, p.AmountPaid.Rupiah, dateOrNull(p.PaymentDate), strOrNull(p.Method),
		fmtTime(p.UpdatedAt), p.ID)
	if err != nil {
		return fmt.Errorf("update payment: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("update payment %d: %w", p.ID, ErrNotFound)
	}
	return nil
}

func (r *SQLiteRepository) GetPayment(ctx context.Context, id int64) (core.Payment, error) {
	row := r.db.QueryRowContext(ctx, "SELECT "+paymentColumns+" FROM payment WHERE id = ?", id)
	p, err := scanPayment(row)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Payment{}, fmt.Errorf("payment %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return core.Payment{}, fmt.Errorf("get payment: %w", err)
	}
	return p, nil
}

// ListPayments returns payments, limited to one billing month when month is
// non-nil.
func (r *SQLiteRepository) ListPayments(ctx context.Context, month *core.Month) ([]core.Payment, error) {
	query := "SELECT " + paymentColumns + " FROM payment ORDER BY billing_month, room_id"
	var args []any
	if month != nil {
		from, to := monthWindow(*month)
		query = "SELECT " + paymentColumns + " FROM payment WHERE billing_month >= ? AND billing_month < ? ORDER BY billing_month, room_id"
		args = []any{from, to}
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list payments: %w", err)
	}
	defer rows.Close()

	var payments []core.Payment
	for rows.Next() {
		p, err := scanPayment(rows)
		if err != nil {
			return nil, fmt.Errorf("scan payment: %w", err)
		}
		payments = append(payments, p)
	}
	return payments, rows.Err()
}

// BilledRoomIDs returns the ids of rooms that already have a payment row for
// the billing month.
func (r *SQLiteRepository) BilledRoomIDs(ctx context.Context, month core.Month) (map[int64]struct{}, error) {
	from, to := monthWindow(month)
	rows, err := r.db.QueryContext(ctx,
		"SELECT room_id FROM payment WHERE billing_month >= ? AND billing_month < ?", from, to)
	if err != nil {
		return nil, fmt.Errorf("billed room ids: %w", err)
	}
	defer rows.Close()

	ids := make(map[int64]struct{})
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan billed room id: %w", err)
		}
		ids[id] = struct{}{}
	}
	return ids, rows.Err()
}

// Penalties

const penaltyColumns = "id, room_id, type, custom_description, amount, incident_date, paid, paid_date, notes, created_at"

func scanPenalty(s scanner) (core.Penalty, error) {
	var (
		p        core.Penalty
		ptype    string
		desc     sql.NullString
		amount   int64
		incident string
		paid     int
		paidDate sql.NullString
		notes    sql.NullString
		created  string
	)
	if err := s.Scan(&p.ID, &p.RoomID, &ptype, &desc, &amount, &incident, &paid, &paidDate, &notes, &created); err != nil {
		return core.Penalty{}, err
	}
	p.Type = core.PenaltyType(ptype)
	p.CustomDescription = desc.String
	p.Amount = core.Money{Rupiah: amount}
	p.Paid = paid != 0
	p.Notes = notes.String

	var err error
	if p.IncidentDate, err = core.ParseDate(incident); err != nil {
		return core.Penalty{}, err
	}
	if p.PaidDate, err = parseStoredDate(paidDate); err != nil {
		return core.Penalty{}, err
	}
	if p.CreatedAt, err = parseStoredTime(created); err != nil {
		return core.Penalty{}, err
	}
	return p, nil
}

func (r *SQLiteRepository) CreatePenalty(ctx context.Context, p core.Penalty) (core.Penalty, error) {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO penalty (room_id, type, custom_description, amount, incident_date, paid, paid_date, notes, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		p.RoomID, string(p.Type), strOrNull(p.CustomDescription), p.Amount.Rupiah,
		p.IncidentDate.String(), boolToInt(p.Paid), dateOrNull(p.PaidDate), strOrNull(p.Notes),
		fmtTime(p.CreatedAt))
	if err != nil {
		return core.Penalty{}, fmt.Errorf("insert penalty: %w", err)
	}
	p.ID, err = res.LastInsertId()
	if err != nil {
		return core.Penalty{}, fmt.Errorf("penalty insert id: %w", err)
	}

	slog.InfoContext(ctx, "Penalty created", "id", p.ID, "room_id", p.RoomID, "type", p.Type, "amount", p.Amount.Rupiah)
	return p, nil
}

func (r *SQLiteRepository) UpdatePenalty(ctx context.Context, p core.Penalty) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE penalty SET type = ?, custom_description = ?, amount = ?, incident_date = ?, paid = ?, paid_date = ?, notes = ?
		 WHERE id = ?`,
		string(p.Type), strOrNull(p.CustomDescription), p.Amount.Rupiah, p.IncidentDate.String(),
		boolToInt(p.Paid), dateOrNull(p.PaidDate), strOrNull(p.Notes), p.ID)
	if err != nil {
		return fmt.Errorf("update penalty: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("update penalty %d: %w", p.ID, ErrNotFound)
	}
	return nil
}

// MarkPenaltyPaid flips the paid flag and records the collection date.
func (r *SQLiteRepository) MarkPenaltyPaid(ctx context.Context, id int64, paidDate core.Date) error {
	res, err := r.db.ExecContext(ctx,
		"UPDATE penalty SET paid = 1, paid_date = ? WHERE id = ?", dateOrNull(paidDate), id)
	if err != nil {
		return fmt.Errorf("mark penalty paid: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("mark penalty %d paid: %w", id, ErrNotFound)
	}

	slog.InfoContext(ctx, "Penalty marked paid", "id", id, "paid_date", paidDate.String())
	return nil
}

func (r *SQLiteRepository) DeletePenalty(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM penalty WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("delete penalty: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("delete penalty %d: %w", id, ErrNotFound)
	}
	return nil
}

func (r *SQLiteRepository) ListPenalties(ctx context.Context, month *core.Month) ([]core.Penalty, error) {
	query := "SELECT " + penaltyColumns + " FROM penalty ORDER BY incident_date"
	var args []any
	if month != nil {
		from, to := monthWindow(*month)
		query = "SELECT " + penaltyColumns + " FROM penalty WHERE incident_date >= ? AND incident_date < ? ORDER BY incident_date"
		args = []any{from, to}
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list penalties: %w", err)
	}
	defer rows.Close()

	var penalties []core.Penalty
	for rows.Next() {
		p, err := scanPenalty(rows)
		if err != nil {
			return nil, fmt.Errorf("scan penalty: %w", err)
		}
		penalties = append(penalties, p)
	}
	return penalties, rows.Err()
}

// Expenses

const expenseColumns = "id, date, category, amount, notes, created_at"

func scanExpense(s scanner) (core.Expense, error) {
	var (
		e       core.Expense
		date    string
		amount  int64
		notes   sql.NullString
		created string
	)
	if err := s.Scan(&e.ID, &date, &e.Category, &amount, &notes, &created); err != nil {
		return core.Expense{}, err
	}
	e.Amount = core.Money{Rupiah: amount}
	e.Notes = notes.String

	var err error
	if e.Date, err = core.ParseDate(date); err != nil {
		return core.Expense{}, err
	}
	if e.CreatedAt, err = parseStoredTime(created); err != nil {
		return core.Expense{}, err
	}
	return e, nil
}

func (r *SQLiteRepository) CreateExpense(ctx context.Context, e core.Expense) (core.Expense, error) {
	res, err := r.db.ExecContext(ctx,
		"INSERT INTO expense (date, category, amount, notes, created_at) VALUES (?, ?, ?, ?, ?)",
		e.Date.String(), e.Category, e.Amount.Rupiah, strOrNull(e.Notes), fmtTime(e.CreatedAt))
	if err != nil {
		return core.Expense{}, fmt.Errorf("insert expense: %w", err)
	}
	e.ID, err = res.LastInsertId()
	if err != nil {
		return core.Expense{}, fmt.Errorf("expense insert id: %w", err)
	}

	slog.InfoContext(ctx, "Expense created", "id", e.ID, "category", e.Category, "amount", e.Amount.Rupiah)
	return e, nil
}

func (r *SQLiteRepository) UpdateExpense(ctx context.Context, e core.Expense) error {
	res, err := r.db.ExecContext(ctx,
		"UPDATE expense SET date = ?, category = ?, amount = ?, notes = ? WHERE id = ?",
		e.Date.String(), e.Category, e.Amount.Rupiah, strOrNull(e.Notes), e.ID)
	if err != nil {
		return fmt.Errorf("update expense: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("update expense %d: %w", e.ID, ErrNotFound)
	}
	return nil
}

func (r *SQLiteRepository) DeleteExpense(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM expense WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("delete expense: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("delete expense %d: %w", id, ErrNotFound)
	}
	return nil
}

func (r *SQLiteRepository) ListExpenses(ctx context.Context, month *core.Month) ([]core.Expense, error) {
	query := "SELECT " + expenseColumns + " FROM expense ORDER BY date"
	var args []any
	if month != nil {
		from, to := monthWindow(*month)
		query = "SELECT " + expenseColumns + " FROM expense WHERE date >= ? AND date < ? ORDER BY date"
		args = []any{from, to}
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list expenses: %w", err)
	}
	defer rows.Close()

	var expenses []core.Expense
	for rows.Next() {
		e, err := scanExpense(rows)
		if err != nil {
			return nil, fmt.Errorf("scan expense: %w", err)
		}
		expenses = append(expenses, e)
	}
	return expenses, rows.Err()
}

// Occupancy history

// SetOccupant upserts the tenant holding a room for a given month.
func (r *SQLiteRepository) SetOccupant(ctx context.Context, roomID int64, month core.Month, tenantName string, now time.Time) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO room_occupancy (room_id, month, tenant_name, created_at) VALUES (?, ?, ?, ?)
		 ON CONFLICT (room_id, month) DO UPDATE SET tenant_name = excluded.tenant_name`,
		roomID, month.First().String(), tenantName, fmtTime(now))
	if err != nil {
		return fmt.Errorf("set occupant: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) OccupantHistory(ctx context.Context, roomID int64) ([]core.RoomOccupancy, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT room_id, month, tenant_name, created_at FROM room_occupancy WHERE room_id = ? ORDER BY month", roomID)
	if err != nil {
		return nil, fmt.Errorf("occupant history: %w", err)
	}
	defer rows.Close()

	var history []core.RoomOccupancy
	for rows.Next() {
		var (
			o       core.RoomOccupancy
			month   string
			created string
		)
		if err := rows.Scan(&o.RoomID, &month, &o.TenantName, &created); err != nil {
			return nil, fmt.Errorf("scan occupancy: %w", err)
		}
		if o.Month, err = core.ParseDate(month); err != nil {
			return nil, err
		}
		if o.CreatedAt, err = parseStoredTime(created); err != nil {
			return nil, err
		}
		history = append(history, o)
	}
	return history, rows.Err()
}

// EffectiveOccupants resolves, per room, the most recent occupancy record at
// or before the given month.
func (r *SQLiteRepository) EffectiveOccupants(ctx context.Context, month core.Month) (map[int64]string, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT room_id, tenant_name FROM room_occupancy
		 WHERE month <= ? ORDER BY room_id, month DESC`, month.First().String())
	if err != nil {
		return nil, fmt.Errorf("effective occupants: %w", err)
	}
	defer rows.Close()

	occupants := make(map[int64]string)
	for rows.Next() {
		var (
			roomID int64
			tenant string
		)
		if err := rows.Scan(&roomID, &tenant); err != nil {
			return nil, fmt.Errorf("scan occupant: %w", err)
		}
		// Rows arrive newest-first per room; keep the first seen.
		if _, ok := occupants[roomID]; !ok {
			occupants[roomID] = tenant
		}
	}
	return occupants, rows.Err()
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
