/*
Package sqlite provides a SQLite-backed implementation of store.Store.

PURPOSE:
  Implements the persistence contract (§6.1) the yearly engine, monthly
  scheduler, and leave analyzer all read and write through.

APPEND-ONLY / WRITE-ONCE ENFORCEMENT:
  - academic_years: write-once. PutAcademicYear fails with a conflict
    error if the id already exists.
  - call_assignments: append-only outside of a forced regeneration. A
    partial unique index prevents two Scheduled (non-PostCall) entries
    for the same resident on the same day.
  - monthly_schedules: PutMonthlySchedule requires forceRegenerate=true
    to overwrite an existing month.

KEY TABLES:
  residents, configuration, academic_years, monthly_schedules,
  call_assignments, clinical_entries, leave_requests,
  leave_analysis_reports.

WAL MODE:
  Opened the same way the teacher's store does: WAL for concurrent
  readers, a single in-process writer serialized by sync.RWMutex.

USAGE:
  st, err := sqlite.New("./data/scheduler.db")
  if err != nil {
      log.Fatal(err)
  }
  defer st.Close()

SEE ALSO:
  - store/store.go: interface definition
  - store/memory/memory.go: in-memory implementation for tests
*/
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/neurosurgery/scheduler/calendar"
	"github.com/neurosurgery/scheduler/domain"
	"github.com/neurosurgery/scheduler/schederr"
	"github.com/neurosurgery/scheduler/store"
)

// Store implements store.Store using SQLite.
type Store struct {
	db *sql.DB
	mu sync.RWMutex
}

// New opens (creating if necessary) a SQLite database at dbPath and
// migrates its schema. Use ":memory:" for an in-memory database.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate database: %w", err)
	}
	return s, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error { return s.db.Close() }

func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS residents (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		pgy_level INTEGER NOT NULL,
		specialty TEXT NOT NULL,
		on_service INTEGER NOT NULL,
		is_chief INTEGER NOT NULL,
		call_exempt INTEGER NOT NULL,
		annual_leave_quota INTEGER NOT NULL
	);

	CREATE TABLE IF NOT EXISTS configuration (
		id TEXT PRIMARY KEY CHECK (id = 'singleton'),
		config_json TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS academic_years (
		id TEXT PRIMARY KEY,
		year_json TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS monthly_schedules (
		id TEXT PRIMARY KEY,
		year INTEGER NOT NULL,
		month INTEGER NOT NULL,
		metadata_json TEXT NOT NULL,
		published INTEGER NOT NULL DEFAULT 0
	);

	-- Append-only outside of forced regeneration; see PutMonthlySchedule.
	CREATE TABLE IF NOT EXISTS call_assignments (
		id TEXT PRIMARY KEY,
		resident_id TEXT NOT NULL,
		date TEXT NOT NULL,
		type TEXT NOT NULL,
		points INTEGER NOT NULL,
		is_holiday INTEGER NOT NULL,
		team TEXT NOT NULL,
		status TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_call_assignments_date
		ON call_assignments(date);
	CREATE INDEX IF NOT EXISTS idx_call_assignments_resident
		ON call_assignments(resident_id, date);

	-- Invariant 2: a resident cannot hold two non-PostCall calls on the
	-- same day.
	CREATE UNIQUE INDEX IF NOT EXISTS idx_unique_scheduled_call_day
		ON call_assignments(resident_id, date)
		WHERE status = 'Scheduled';

	CREATE TABLE IF NOT EXISTS clinical_entries (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		resident_id TEXT NOT NULL,
		date TEXT NOT NULL,
		type TEXT NOT NULL,
		description TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_clinical_entries_date
		ON clinical_entries(date);

	CREATE TABLE IF NOT EXISTS leave_requests (
		id TEXT PRIMARY KEY,
		resident_id TEXT NOT NULL,
		type TEXT NOT NULL,
		status TEXT NOT NULL,
		start_date TEXT NOT NULL,
		end_date TEXT NOT NULL,
		analysis_report_id TEXT NOT NULL DEFAULT ''
	);

	CREATE INDEX IF NOT EXISTS idx_leave_requests_resident
		ON leave_requests(resident_id, start_date);
	CREATE INDEX IF NOT EXISTS idx_leave_requests_status
		ON leave_requests(status, start_date);

	CREATE TABLE IF NOT EXISTS leave_analysis_reports (
		id TEXT PRIMARY KEY,
		request_id TEXT NOT NULL,
		report_json TEXT NOT NULL
	);
	`
	_, err := s.db.Exec(schema)
	return err
}

// execer is satisfied by both *sql.DB and *sql.Tx, the same seam the
// teacher uses in appendTx to share write logic between the top-level
// Store and its transaction view.
type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func (s *Store) GetResident(ctx context.Context, id domain.ResidentID) (domain.Resident, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return getResident(ctx, s.db, id)
}

func getResident(ctx context.Context, q execer, id domain.ResidentID) (domain.Resident, error) {
	var r domain.Resident
	var onService, isChief, callExempt int
	err := q.QueryRowContext(ctx,
		`SELECT id, name, pgy_level, specialty, on_service, is_chief, call_exempt, annual_leave_quota
		 FROM residents WHERE id = ?`, string(id),
	).Scan(&r.ID, &r.Name, &r.PGYLevel, &r.Specialty, &onService, &isChief, &callExempt, &r.AnnualLeaveQuota)
	if err == sql.ErrNoRows {
		return domain.Resident{}, schederr.NotFound("resident %s", id)
	}
	if err != nil {
		return domain.Resident{}, err
	}
	r.OnService, r.IsChief, r.CallExempt = onService != 0, isChief != 0, callExempt != 0
	return r, nil
}

func (s *Store) ListResidents(ctx context.Context) ([]domain.Resident, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return listResidents(ctx, s.db)
}

func listResidents(ctx context.Context, q execer) ([]domain.Resident, error) {
	rows, err := q.QueryContext(ctx,
		`SELECT id, name, pgy_level, specialty, on_service, is_chief, call_exempt, annual_leave_quota
		 FROM residents ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var residents []domain.Resident
	for rows.Next() {
		var r domain.Resident
		var onService, isChief, callExempt int
		if err := rows.Scan(&r.ID, &r.Name, &r.PGYLevel, &r.Specialty, &onService, &isChief, &callExempt, &r.AnnualLeaveQuota); err != nil {
			return nil, err
		}
		r.OnService, r.IsChief, r.CallExempt = onService != 0, isChief != 0, callExempt != 0
		residents = append(residents, r)
	}
	return residents, rows.Err()
}

func (s *Store) GetConfiguration(ctx context.Context) (domain.AppConfiguration, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return getConfiguration(ctx, s.db)
}

func getConfiguration(ctx context.Context, q execer) (domain.AppConfiguration, error) {
	var raw string
	err := q.QueryRowContext(ctx, `SELECT config_json FROM configuration WHERE id = 'singleton'`).Scan(&raw)
	if err == sql.ErrNoRows {
		return domain.AppConfiguration{}, schederr.NotFound("configuration")
	}
	if err != nil {
		return domain.AppConfiguration{}, err
	}
	var cfg domain.AppConfiguration
	if err := json.Unmarshal([]byte(raw), &cfg); err != nil {
		return domain.AppConfiguration{}, err
	}
	return cfg, nil
}

// PutConfiguration is not part of store.Store: the configuration document
// is operator-edited (see the config package) and seeded once, out of
// band from engine runs. Exposed here for migration/seeding tooling.
func (s *Store) PutConfiguration(ctx context.Context, cfg domain.AppConfiguration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	raw, err := json.Marshal(cfg)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO configuration (id, config_json) VALUES ('singleton', ?)
		 ON CONFLICT(id) DO UPDATE SET config_json = excluded.config_json`, string(raw))
	return err
}

// PutResident is not part of store.Store: residents are loaded from the
// roster system out of band from engine runs, the same way configuration
// is. Exposed here for migration/seeding tooling, same as PutConfiguration.
func (s *Store) PutResident(ctx context.Context, r domain.Resident) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO residents (id, name, pgy_level, specialty, on_service, is_chief, call_exempt, annual_leave_quota)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
			name = excluded.name, pgy_level = excluded.pgy_level, specialty = excluded.specialty,
			on_service = excluded.on_service, is_chief = excluded.is_chief,
			call_exempt = excluded.call_exempt, annual_leave_quota = excluded.annual_leave_quota`,
		string(r.ID), r.Name, r.PGYLevel, r.Specialty,
		boolToInt(r.OnService), boolToInt(r.IsChief), boolToInt(r.CallExempt), r.AnnualLeaveQuota,
	)
	return err
}

// PutLeaveRequest is not part of store.Store: a leave request is created
// externally with status Pending Analysis (see domain.LeaveRequest) by
// whatever intake flow collects the request, not by the engine. Exposed
// here for that intake flow and for migration/seeding tooling.
func (s *Store) PutLeaveRequest(ctx context.Context, r domain.LeaveRequest) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO leave_requests (id, resident_id, type, status, start_date, end_date, analysis_report_id)
		 VALUES (?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
			resident_id = excluded.resident_id, type = excluded.type, status = excluded.status,
			start_date = excluded.start_date, end_date = excluded.end_date,
			analysis_report_id = excluded.analysis_report_id`,
		string(r.ID), string(r.ResidentID), string(r.Type), string(r.Status),
		r.StartDate.String(), r.EndDate.String(), r.AnalysisReportID,
	)
	return err
}

func (s *Store) GetAcademicYear(ctx context.Context, yearID string) (domain.AcademicYear, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return getAcademicYear(ctx, s.db, yearID)
}

func getAcademicYear(ctx context.Context, q execer, yearID string) (domain.AcademicYear, error) {
	var raw string
	err := q.QueryRowContext(ctx, `SELECT year_json FROM academic_years WHERE id = ?`, yearID).Scan(&raw)
	if err == sql.ErrNoRows {
		return domain.AcademicYear{}, schederr.NotFound("academic year %s", yearID)
	}
	if err != nil {
		return domain.AcademicYear{}, err
	}
	var year domain.AcademicYear
	if err := json.Unmarshal([]byte(raw), &year); err != nil {
		return domain.AcademicYear{}, err
	}
	return year, nil
}

func (s *Store) PutAcademicYear(ctx context.Context, year domain.AcademicYear) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return putAcademicYear(ctx, s.db, year)
}

// putAcademicYear enforces write-once: an INSERT that conflicts on id is
// treated as a conflict error rather than silently overwriting history.
func putAcademicYear(ctx context.Context, q execer, year domain.AcademicYear) error {
	raw, err := json.Marshal(year)
	if err != nil {
		return err
	}
	res, err := q.ExecContext(ctx,
		`INSERT INTO academic_years (id, year_json) VALUES (?, ?)
		 ON CONFLICT(id) DO NOTHING`, string(year.ID), string(raw))
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return schederr.Conflict("academic year %s already exists", year.ID)
	}
	return nil
}

func (s *Store) GetMonthlySchedule(ctx context.Context, monthID string) (store.MonthlySchedule, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return getMonthlySchedule(ctx, s.db, monthID)
}

func getMonthlySchedule(ctx context.Context, q execer, monthID string) (store.MonthlySchedule, bool, error) {
	var year, month int
	var metadataJSON string
	var published int
	err := q.QueryRowContext(ctx,
		`SELECT year, month, metadata_json, published FROM monthly_schedules WHERE id = ?`, monthID,
	).Scan(&year, &month, &metadataJSON, &published)
	if err == sql.ErrNoRows {
		return store.MonthlySchedule{}, false, nil
	}
	if err != nil {
		return store.MonthlySchedule{}, false, err
	}

	var metadata store.MonthlyScheduleMetadata
	if err := json.Unmarshal([]byte(metadataJSON), &metadata); err != nil {
		return store.MonthlySchedule{}, false, err
	}

	start := calendar.NewDate(year, time.Month(month), 1)
	end := calendar.EndOfMonth(year, time.Month(month))
	assignments, err := listCallAssignmentsInRange(ctx, q, start.String(), end.String())
	if err != nil {
		return store.MonthlySchedule{}, false, err
	}

	return store.MonthlySchedule{
		ID:          monthID,
		Year:        year,
		Month:       time.Month(month),
		Assignments: assignments,
		Metadata:    metadata,
		Published:   published != 0,
	}, true, nil
}

func (s *Store) PutMonthlySchedule(ctx context.Context, schedule store.MonthlySchedule, forceRegenerate bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return putMonthlySchedule(ctx, s.db, schedule, forceRegenerate)
}

func putMonthlySchedule(ctx context.Context, q execer, schedule store.MonthlySchedule, forceRegenerate bool) error {
	var exists int
	if err := q.QueryRowContext(ctx, `SELECT COUNT(*) FROM monthly_schedules WHERE id = ?`, schedule.ID).Scan(&exists); err != nil {
		return err
	}
	if exists > 0 && !forceRegenerate {
		return schederr.Conflict("monthly schedule %s already exists", schedule.ID)
	}

	start := calendar.NewDate(schedule.Year, schedule.Month, 1)
	end := calendar.EndOfMonth(schedule.Year, schedule.Month)
	if exists > 0 {
		if _, err := q.ExecContext(ctx,
			`DELETE FROM call_assignments WHERE date >= ? AND date <= ?`, start.String(), end.String()); err != nil {
			return err
		}
	}

	metadataJSON, err := json.Marshal(schedule.Metadata)
	if err != nil {
		return err
	}
	if _, err := q.ExecContext(ctx,
		`INSERT INTO monthly_schedules (id, year, month, metadata_json, published) VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET metadata_json = excluded.metadata_json, published = excluded.published`,
		schedule.ID, schedule.Year, int(schedule.Month), string(metadataJSON), boolToInt(schedule.Published),
	); err != nil {
		return err
	}

	for _, a := range schedule.Assignments {
		if err := putCallAssignment(ctx, q, a); err != nil {
			return err
		}
	}
	return nil
}

func putCallAssignment(ctx context.Context, q execer, a domain.CallAssignment) error {
	_, err := q.ExecContext(ctx,
		`INSERT INTO call_assignments (id, resident_id, date, type, points, is_holiday, team, status)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		string(a.ID), string(a.ResidentID), a.Date.String(), string(a.Type), a.Points,
		boolToInt(a.IsHoliday), string(a.Team), string(a.Status),
	)
	if err != nil && isUniqueConstraintError(err) {
		return schederr.Conflict("resident %s already has a scheduled call on %s", a.ResidentID, a.Date)
	}
	return err
}

func (s *Store) ListCallAssignmentsInRange(ctx context.Context, startDate, endDate string) ([]domain.CallAssignment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return listCallAssignmentsInRange(ctx, s.db, startDate, endDate)
}

func listCallAssignmentsInRange(ctx context.Context, q execer, startDate, endDate string) ([]domain.CallAssignment, error) {
	rows, err := q.QueryContext(ctx,
		`SELECT id, resident_id, date, type, points, is_holiday, team, status
		 FROM call_assignments WHERE date >= ? AND date <= ? ORDER BY date, resident_id`,
		startDate, endDate)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var assignments []domain.CallAssignment
	for rows.Next() {
		var a domain.CallAssignment
		var dateStr string
		var isHoliday int
		if err := rows.Scan(&a.ID, &a.ResidentID, &dateStr, &a.Type, &a.Points, &isHoliday, &a.Team, &a.Status); err != nil {
			return nil, err
		}
		a.Date, err = calendar.ParseDate(dateStr)
		if err != nil {
			return nil, err
		}
		a.IsHoliday = isHoliday != 0
		assignments = append(assignments, a)
	}
	return assignments, rows.Err()
}

func (s *Store) ListClinicalEntriesInRange(ctx context.Context, startDate, endDate string) ([]store.ClinicalEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx,
		`SELECT resident_id, date, type, description FROM clinical_entries
		 WHERE date >= ? AND date <= ? ORDER BY date, resident_id`, startDate, endDate)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []store.ClinicalEntry
	for rows.Next() {
		var e store.ClinicalEntry
		if err := rows.Scan(&e.ResidentID, &e.Date, &e.Type, &e.Description); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

func (s *Store) ListApprovedLeaveInRange(ctx context.Context, startDate, endDate string) ([]domain.LeaveRequest, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return listLeaveRequests(ctx, s.db,
		`SELECT id, resident_id, type, status, start_date, end_date, analysis_report_id FROM leave_requests
		 WHERE status = ? AND start_date <= ? AND end_date >= ? ORDER BY start_date`,
		string(domain.LeaveStatusApproved), endDate, startDate)
}

func (s *Store) ListLeaveRequestsForResident(ctx context.Context, residentID domain.ResidentID, sinceDate string) ([]domain.LeaveRequest, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return listLeaveRequests(ctx, s.db,
		`SELECT id, resident_id, type, status, start_date, end_date, analysis_report_id FROM leave_requests
		 WHERE resident_id = ? AND start_date >= ? ORDER BY start_date`,
		string(residentID), sinceDate)
}

func listLeaveRequests(ctx context.Context, q execer, query string, args ...any) ([]domain.LeaveRequest, error) {
	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var requests []domain.LeaveRequest
	for rows.Next() {
		r, err := scanLeaveRequest(rows)
		if err != nil {
			return nil, err
		}
		requests = append(requests, r)
	}
	return requests, rows.Err()
}

func scanLeaveRequest(rows *sql.Rows) (domain.LeaveRequest, error) {
	var r domain.LeaveRequest
	var startDate, endDate string
	if err := rows.Scan(&r.ID, &r.ResidentID, &r.Type, &r.Status, &startDate, &endDate, &r.AnalysisReportID); err != nil {
		return domain.LeaveRequest{}, err
	}
	var err error
	r.StartDate, err = calendar.ParseDate(startDate)
	if err != nil {
		return domain.LeaveRequest{}, err
	}
	r.EndDate, err = calendar.ParseDate(endDate)
	return r, err
}

func (s *Store) GetLeaveRequest(ctx context.Context, id domain.LeaveRequestID) (domain.LeaveRequest, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return getLeaveRequest(ctx, s.db, id)
}

func getLeaveRequest(ctx context.Context, q execer, id domain.LeaveRequestID) (domain.LeaveRequest, error) {
	rows, err := q.QueryContext(ctx,
		`SELECT id, resident_id, type, status, start_date, end_date, analysis_report_id
		 FROM leave_requests WHERE id = ?`, string(id))
	if err != nil {
		return domain.LeaveRequest{}, err
	}
	defer rows.Close()
	if !rows.Next() {
		return domain.LeaveRequest{}, schederr.NotFound("leave request %s", id)
	}
	return scanLeaveRequest(rows)
}

func (s *Store) UpdateLeaveRequestStatus(ctx context.Context, id domain.LeaveRequestID, status domain.LeaveStatus, reportID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return updateLeaveRequestStatus(ctx, s.db, id, status, reportID)
}

func updateLeaveRequestStatus(ctx context.Context, q execer, id domain.LeaveRequestID, status domain.LeaveStatus, reportID string) error {
	res, err := q.ExecContext(ctx,
		`UPDATE leave_requests SET status = ?, analysis_report_id = ? WHERE id = ?`,
		string(status), reportID, string(id))
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return schederr.NotFound("leave request %s", id)
	}
	return nil
}

func (s *Store) PutLeaveAnalysisReport(ctx context.Context, report domain.LeaveAnalysisReport) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return putLeaveAnalysisReport(ctx, s.db, report)
}

func putLeaveAnalysisReport(ctx context.Context, q execer, report domain.LeaveAnalysisReport) error {
	raw, err := json.Marshal(report)
	if err != nil {
		return err
	}
	_, err = q.ExecContext(ctx,
		`INSERT INTO leave_analysis_reports (id, request_id, report_json) VALUES (?, ?, ?)`,
		string(report.ID), string(report.RequestID), string(raw))
	if err != nil && isUniqueConstraintError(err) {
		return schederr.Conflict("leave analysis report %s already exists", report.ID)
	}
	return err
}

// WithTx runs fn against a *sql.Tx-backed view of the store: either every
// write fn makes through it commits, or (on a non-nil return or panic)
// none of them are visible. Grounded on the teacher's own WithTx/txStore
// split in this same package.
func (s *Store) WithTx(ctx context.Context, fn func(store.Store) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sqlTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer sqlTx.Rollback()

	if err := fn(&txStore{tx: sqlTx}); err != nil {
		return err
	}
	return sqlTx.Commit()
}

// txStore is the store.Store view handed to WithTx callbacks: every read
// and write goes through the same *sql.Tx, so nested WithTx calls reuse
// the outer transaction rather than nesting BEGINs.
type txStore struct {
	tx *sql.Tx
}

func (t *txStore) GetResident(ctx context.Context, id domain.ResidentID) (domain.Resident, error) {
	return getResident(ctx, t.tx, id)
}
func (t *txStore) ListResidents(ctx context.Context) ([]domain.Resident, error) {
	return listResidents(ctx, t.tx)
}
func (t *txStore) GetConfiguration(ctx context.Context) (domain.AppConfiguration, error) {
	return getConfiguration(ctx, t.tx)
}
func (t *txStore) GetAcademicYear(ctx context.Context, yearID string) (domain.AcademicYear, error) {
	return getAcademicYear(ctx, t.tx, yearID)
}
func (t *txStore) PutAcademicYear(ctx context.Context, year domain.AcademicYear) error {
	return putAcademicYear(ctx, t.tx, year)
}
func (t *txStore) GetMonthlySchedule(ctx context.Context, monthID string) (store.MonthlySchedule, bool, error) {
	return getMonthlySchedule(ctx, t.tx, monthID)
}
func (t *txStore) PutMonthlySchedule(ctx context.Context, schedule store.MonthlySchedule, forceRegenerate bool) error {
	return putMonthlySchedule(ctx, t.tx, schedule, forceRegenerate)
}
func (t *txStore) ListCallAssignmentsInRange(ctx context.Context, startDate, endDate string) ([]domain.CallAssignment, error) {
	return listCallAssignmentsInRange(ctx, t.tx, startDate, endDate)
}
func (t *txStore) ListClinicalEntriesInRange(ctx context.Context, startDate, endDate string) ([]store.ClinicalEntry, error) {
	rows, err := t.tx.QueryContext(ctx,
		`SELECT resident_id, date, type, description FROM clinical_entries
		 WHERE date >= ? AND date <= ? ORDER BY date, resident_id`, startDate, endDate)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var entries []store.ClinicalEntry
	for rows.Next() {
		var e store.ClinicalEntry
		if err := rows.Scan(&e.ResidentID, &e.Date, &e.Type, &e.Description); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
func (t *txStore) ListApprovedLeaveInRange(ctx context.Context, startDate, endDate string) ([]domain.LeaveRequest, error) {
	return listLeaveRequests(ctx, t.tx,
		`SELECT id, resident_id, type, status, start_date, end_date, analysis_report_id FROM leave_requests
		 WHERE status = ? AND start_date <= ? AND end_date >= ? ORDER BY start_date`,
		string(domain.LeaveStatusApproved), endDate, startDate)
}
func (t *txStore) ListLeaveRequestsForResident(ctx context.Context, residentID domain.ResidentID, sinceDate string) ([]domain.LeaveRequest, error) {
	return listLeaveRequests(ctx, t.tx,
		`SELECT id, resident_id, type, status, start_date, end_date, analysis_report_id FROM leave_requests
		 WHERE resident_id = ? AND start_date >= ? ORDER BY start_date`,
		string(residentID), sinceDate)
}
func (t *txStore) GetLeaveRequest(ctx context.Context, id domain.LeaveRequestID) (domain.LeaveRequest, error) {
	return getLeaveRequest(ctx, t.tx, id)
}
func (t *txStore) UpdateLeaveRequestStatus(ctx context.Context, id domain.LeaveRequestID, status domain.LeaveStatus, reportID string) error {
	return updateLeaveRequestStatus(ctx, t.tx, id, status, reportID)
}
func (t *txStore) PutLeaveAnalysisReport(ctx context.Context, report domain.LeaveAnalysisReport) error {
	return putLeaveAnalysisReport(ctx, t.tx, report)
}
func (t *txStore) WithTx(ctx context.Context, fn func(store.Store) error) error {
	return fn(t)
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func isUniqueConstraintError(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}

var _ store.Store = (*Store)(nil)
var _ store.Store = (*txStore)(nil)
