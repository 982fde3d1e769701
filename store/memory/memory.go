/*
Package memory is an in-memory Store implementation used by the analyzer
and api tests, grounded on the teacher's generic/store.Memory: plain
maps protected by a mutex, with WithTx simulated via snapshot-and-restore
rather than a real transaction log.
*/
package memory

import (
	"context"
	"sync"

	"github.com/neurosurgery/scheduler/domain"
	"github.com/neurosurgery/scheduler/schederr"
	"github.com/neurosurgery/scheduler/store"
)

// Store is the in-memory implementation of store.Store.
type Store struct {
	mu sync.RWMutex

	residents      map[domain.ResidentID]domain.Resident
	configuration  domain.AppConfiguration
	hasConfig      bool
	academicYears  map[string]domain.AcademicYear
	monthlySchedules map[string]store.MonthlySchedule
	callAssignments []domain.CallAssignment
	clinicalEntries []store.ClinicalEntry
	leaveRequests  map[domain.LeaveRequestID]domain.LeaveRequest
	leaveReports   map[string]domain.LeaveAnalysisReport
}

// New constructs an empty Store.
func New() *Store {
	return &Store{
		residents:        map[domain.ResidentID]domain.Resident{},
		academicYears:    map[string]domain.AcademicYear{},
		monthlySchedules: map[string]store.MonthlySchedule{},
		leaveRequests:    map[domain.LeaveRequestID]domain.LeaveRequest{},
		leaveReports:     map[string]domain.LeaveAnalysisReport{},
	}
}

// SeedResidents loads a fixed roster, for tests and scenario setup.
func (s *Store) SeedResidents(residents ...domain.Resident) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, r := range residents {
		s.residents[r.ID] = r
	}
}

// SeedConfiguration sets the configuration singleton, for tests.
func (s *Store) SeedConfiguration(cfg domain.AppConfiguration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.configuration = cfg
	s.hasConfig = true
}

// SeedLeaveRequest inserts a leave request directly, for tests.
func (s *Store) SeedLeaveRequest(r domain.LeaveRequest) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.leaveRequests[r.ID] = r
}

// SeedClinicalEntries loads OR/clinic entries, for tests.
func (s *Store) SeedClinicalEntries(entries ...store.ClinicalEntry) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.clinicalEntries = append(s.clinicalEntries, entries...)
}

// SeedCallAssignments loads call assignments directly, for tests.
func (s *Store) SeedCallAssignments(assignments ...domain.CallAssignment) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.callAssignments = append(s.callAssignments, assignments...)
}

func (s *Store) GetResident(_ context.Context, id domain.ResidentID) (domain.Resident, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.residents[id]
	if !ok {
		return domain.Resident{}, schederr.NotFound("resident %s not found", id)
	}
	return r, nil
}

func (s *Store) ListResidents(_ context.Context) ([]domain.Resident, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Resident, 0, len(s.residents))
	for _, r := range s.residents {
		out = append(out, r)
	}
	return out, nil
}

func (s *Store) GetConfiguration(_ context.Context) (domain.AppConfiguration, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.hasConfig {
		return domain.AppConfiguration{}, schederr.NotFound("configuration not set")
	}
	return s.configuration, nil
}

func (s *Store) GetAcademicYear(_ context.Context, yearID string) (domain.AcademicYear, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	y, ok := s.academicYears[yearID]
	if !ok {
		return domain.AcademicYear{}, schederr.NotFound("academic year %s not found", yearID)
	}
	return y, nil
}

func (s *Store) PutAcademicYear(_ context.Context, year domain.AcademicYear) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.academicYears[year.ID]; exists {
		return schederr.Conflict("academic year %s already exists", year.ID)
	}
	s.academicYears[year.ID] = year
	return nil
}

func (s *Store) GetMonthlySchedule(_ context.Context, monthID string) (store.MonthlySchedule, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sched, ok := s.monthlySchedules[monthID]
	return sched, ok, nil
}

func (s *Store) PutMonthlySchedule(_ context.Context, schedule store.MonthlySchedule, forceRegenerate bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.monthlySchedules[schedule.ID]; exists && !forceRegenerate {
		return schederr.Conflict("monthly schedule %s already exists", schedule.ID)
	}
	s.monthlySchedules[schedule.ID] = schedule
	return nil
}

func (s *Store) ListCallAssignmentsInRange(_ context.Context, startDate, endDate string) ([]domain.CallAssignment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []domain.CallAssignment
	for _, a := range s.callAssignments {
		ds := a.Date.String()
		if ds >= startDate && ds <= endDate {
			out = append(out, a)
		}
	}
	return out, nil
}

func (s *Store) ListClinicalEntriesInRange(_ context.Context, startDate, endDate string) ([]store.ClinicalEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []store.ClinicalEntry
	for _, e := range s.clinicalEntries {
		if e.Date >= startDate && e.Date <= endDate {
			out = append(out, e)
		}
	}
	return out, nil
}

func (s *Store) ListApprovedLeaveInRange(_ context.Context, startDate, endDate string) ([]domain.LeaveRequest, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []domain.LeaveRequest
	for _, r := range s.leaveRequests {
		if r.Status != domain.LeaveStatusApproved {
			continue
		}
		if r.StartDate.String() <= endDate && startDate <= r.EndDate.String() {
			out = append(out, r)
		}
	}
	return out, nil
}

func (s *Store) ListLeaveRequestsForResident(_ context.Context, residentID domain.ResidentID, sinceDate string) ([]domain.LeaveRequest, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []domain.LeaveRequest
	for _, r := range s.leaveRequests {
		if r.ResidentID != residentID {
			continue
		}
		if r.StartDate.String() >= sinceDate {
			out = append(out, r)
		}
	}
	return out, nil
}

func (s *Store) GetLeaveRequest(_ context.Context, id domain.LeaveRequestID) (domain.LeaveRequest, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.leaveRequests[id]
	if !ok {
		return domain.LeaveRequest{}, schederr.NotFound("leave request %s not found", id)
	}
	return r, nil
}

func (s *Store) UpdateLeaveRequestStatus(_ context.Context, id domain.LeaveRequestID, status domain.LeaveStatus, reportID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.leaveRequests[id]
	if !ok {
		return schederr.NotFound("leave request %s not found", id)
	}
	r.Status = status
	r.AnalysisReportID = reportID
	s.leaveRequests[id] = r
	return nil
}

func (s *Store) PutLeaveAnalysisReport(_ context.Context, report domain.LeaveAnalysisReport) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.leaveReports[string(report.ID)]; exists {
		return schederr.Conflict("leave analysis report %s already exists", report.ID)
	}
	s.leaveReports[string(report.ID)] = report
	return nil
}

// WithTx simulates a transaction with snapshot + restore-on-error, the
// same technique the teacher's generic/store.TxMemory uses.
func (s *Store) WithTx(_ context.Context, fn func(store.Store) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	snapshot := s.snapshotLocked()
	view := &txView{parent: s}
	if err := fn(view); err != nil {
		s.restoreLocked(snapshot)
		return err
	}
	return nil
}

type snapshot struct {
	leaveRequests map[domain.LeaveRequestID]domain.LeaveRequest
	leaveReports  map[string]domain.LeaveAnalysisReport
	monthlySchedules map[string]store.MonthlySchedule
	academicYears map[string]domain.AcademicYear
}

func (s *Store) snapshotLocked() snapshot {
	lr := make(map[domain.LeaveRequestID]domain.LeaveRequest, len(s.leaveRequests))
	for k, v := range s.leaveRequests {
		lr[k] = v
	}
	rep := make(map[string]domain.LeaveAnalysisReport, len(s.leaveReports))
	for k, v := range s.leaveReports {
		rep[k] = v
	}
	ms := make(map[string]store.MonthlySchedule, len(s.monthlySchedules))
	for k, v := range s.monthlySchedules {
		ms[k] = v
	}
	ay := make(map[string]domain.AcademicYear, len(s.academicYears))
	for k, v := range s.academicYears {
		ay[k] = v
	}
	return snapshot{leaveRequests: lr, leaveReports: rep, monthlySchedules: ms, academicYears: ay}
}

func (s *Store) restoreLocked(snap snapshot) {
	s.leaveRequests = snap.leaveRequests
	s.leaveReports = snap.leaveReports
	s.monthlySchedules = snap.monthlySchedules
	s.academicYears = snap.academicYears
}

// txView delegates reads straight to the parent (already locked by
// WithTx) and routes writes through the same *-Locked helpers, mirroring
// the teacher's txMemoryView.
type txView struct {
	parent *Store
}

func (v *txView) GetResident(ctx context.Context, id domain.ResidentID) (domain.Resident, error) {
	return v.parent.GetResident(ctx, id)
}
func (v *txView) ListResidents(ctx context.Context) ([]domain.Resident, error) {
	return v.parent.ListResidents(ctx)
}
func (v *txView) GetConfiguration(ctx context.Context) (domain.AppConfiguration, error) {
	return v.parent.GetConfiguration(ctx)
}
func (v *txView) GetAcademicYear(ctx context.Context, yearID string) (domain.AcademicYear, error) {
	y, ok := v.parent.academicYears[yearID]
	if !ok {
		return domain.AcademicYear{}, schederr.NotFound("academic year %s not found", yearID)
	}
	return y, nil
}
func (v *txView) PutAcademicYear(_ context.Context, year domain.AcademicYear) error {
	if _, exists := v.parent.academicYears[year.ID]; exists {
		return schederr.Conflict("academic year %s already exists", year.ID)
	}
	v.parent.academicYears[year.ID] = year
	return nil
}
func (v *txView) GetMonthlySchedule(_ context.Context, monthID string) (store.MonthlySchedule, bool, error) {
	sched, ok := v.parent.monthlySchedules[monthID]
	return sched, ok, nil
}
func (v *txView) PutMonthlySchedule(_ context.Context, schedule store.MonthlySchedule, forceRegenerate bool) error {
	if _, exists := v.parent.monthlySchedules[schedule.ID]; exists && !forceRegenerate {
		return schederr.Conflict("monthly schedule %s already exists", schedule.ID)
	}
	v.parent.monthlySchedules[schedule.ID] = schedule
	return nil
}
func (v *txView) ListCallAssignmentsInRange(ctx context.Context, startDate, endDate string) ([]domain.CallAssignment, error) {
	return v.parent.ListCallAssignmentsInRange(ctx, startDate, endDate)
}
func (v *txView) ListClinicalEntriesInRange(ctx context.Context, startDate, endDate string) ([]store.ClinicalEntry, error) {
	return v.parent.ListClinicalEntriesInRange(ctx, startDate, endDate)
}
func (v *txView) ListApprovedLeaveInRange(ctx context.Context, startDate, endDate string) ([]domain.LeaveRequest, error) {
	return v.parent.ListApprovedLeaveInRange(ctx, startDate, endDate)
}
func (v *txView) ListLeaveRequestsForResident(ctx context.Context, residentID domain.ResidentID, sinceDate string) ([]domain.LeaveRequest, error) {
	return v.parent.ListLeaveRequestsForResident(ctx, residentID, sinceDate)
}
func (v *txView) GetLeaveRequest(_ context.Context, id domain.LeaveRequestID) (domain.LeaveRequest, error) {
	r, ok := v.parent.leaveRequests[id]
	if !ok {
		return domain.LeaveRequest{}, schederr.NotFound("leave request %s not found", id)
	}
	return r, nil
}
func (v *txView) UpdateLeaveRequestStatus(_ context.Context, id domain.LeaveRequestID, status domain.LeaveStatus, reportID string) error {
	r, ok := v.parent.leaveRequests[id]
	if !ok {
		return schederr.NotFound("leave request %s not found", id)
	}
	r.Status = status
	r.AnalysisReportID = reportID
	v.parent.leaveRequests[id] = r
	return nil
}
func (v *txView) PutLeaveAnalysisReport(_ context.Context, report domain.LeaveAnalysisReport) error {
	if _, exists := v.parent.leaveReports[string(report.ID)]; exists {
		return schederr.Conflict("leave analysis report %s already exists", report.ID)
	}
	v.parent.leaveReports[string(report.ID)] = report
	return nil
}
func (v *txView) WithTx(ctx context.Context, fn func(store.Store) error) error {
	// Nested transactions simply run fn against the same view: the outer
	// WithTx already holds the lock and owns the snapshot.
	return fn(v)
}

var _ store.Store = (*Store)(nil)
var _ store.Store = (*txView)(nil)
