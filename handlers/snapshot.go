package handlers

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/pocketbase/dbx"
	"github.com/pocketbase/pocketbase/core"
	"golang.org/x/sync/errgroup"

	"boqtracker/reconcile"
	"boqtracker/workflow"
)

// ErrNotFound is returned when a requested record does not exist.
var ErrNotFound = errors.New("not found")

// ProjectSnapshot is everything the reconciliation engine needs for one BOQ.
type ProjectSnapshot struct {
	BOQID            string
	BOQTitle         string
	BOQReference     string
	ProjectID        string
	ProjectName      string
	ProjectReference string

	Terms         reconcile.ProjectTerms
	Items         []reconcile.LineItem
	LabourEntries []reconcile.LabourWorkEntry
}

// WorkflowSnapshot is the approval and labour state of one BOQ.
type WorkflowSnapshot struct {
	BOQID          string
	Requisitions   []workflow.Requisition
	Assignments    []workflow.WorkerAssignment
	ChangeRequests []workflow.ChangeRequest
	LabourEntries  []reconcile.LabourWorkEntry
}

// SnapshotService loads read-only snapshots from PocketBase. It never
// computes totals; that is left to the reconcile engine.
type SnapshotService struct {
	app core.App
}

func NewSnapshotService(app core.App) *SnapshotService {
	return &SnapshotService{app: app}
}

// GetPlannedVsActual loads the BOQ, its project, items and work-log entries.
// The dependent reads run concurrently once the BOQ is known to exist.
func (s *SnapshotService) GetPlannedVsActual(ctx context.Context, boqID string) (ProjectSnapshot, error) {
	boq, err := s.findBOQ(boqID)
	if err != nil {
		return ProjectSnapshot{}, err
	}

	snap := ProjectSnapshot{
		BOQID:        boq.Id,
		BOQTitle:     boq.GetString("title"),
		BOQReference: boq.GetString("reference_number"),
		ProjectID:    boq.GetString("project"),
	}
	if snap.Terms, err = termsFromBOQ(boq); err != nil {
		return ProjectSnapshot{}, err
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		project, err := s.app.FindRecordById("projects", snap.ProjectID)
		if err != nil {
			return fmt.Errorf("load project %q: %w", snap.ProjectID, err)
		}
		snap.ProjectName = project.GetString("name")
		snap.ProjectReference = project.GetString("reference_number")
		return nil
	})

	g.Go(func() error {
		records, err := s.byBOQ(gctx, "boq_items", boqID, "sort_order ASC", "created ASC")
		if err != nil {
			return err
		}
		items := make([]reconcile.LineItem, 0, len(records))
		for _, r := range records {
			item, err := lineItemFromRecord(r)
			if err != nil {
				return err
			}
			items = append(items, item)
		}
		snap.Items = items
		return nil
	})

	g.Go(func() error {
		entries, err := s.workEntries(gctx, boqID)
		if err != nil {
			return err
		}
		snap.LabourEntries = entries
		return nil
	})

	if err := g.Wait(); err != nil {
		return ProjectSnapshot{}, err
	}
	return snap, nil
}

// GetLabourWorkflowDetails loads requisitions with their worker assignments,
// change requests and the work log of a BOQ.
func (s *SnapshotService) GetLabourWorkflowDetails(ctx context.Context, boqID string) (WorkflowSnapshot, error) {
	if _, err := s.findBOQ(boqID); err != nil {
		return WorkflowSnapshot{}, err
	}

	snap := WorkflowSnapshot{BOQID: boqID}
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		records, err := s.byBOQ(gctx, "labour_requisitions", boqID, "created ASC")
		if err != nil {
			return err
		}
		snap.Requisitions = make([]workflow.Requisition, 0, len(records))
		ids := make([]any, 0, len(records))
		for _, r := range records {
			snap.Requisitions = append(snap.Requisitions, requisitionFromRecord(r))
			ids = append(ids, r.Id)
		}

		snap.Assignments = []workflow.WorkerAssignment{}
		if len(ids) == 0 {
			return nil
		}
		var assignments []*core.Record
		err = s.app.RecordQuery("worker_assignments").
			AndWhere(dbx.In("requisition", ids...)).
			OrderBy("created ASC").
			WithContext(gctx).
			All(&assignments)
		if err != nil {
			return fmt.Errorf("load worker_assignments: %w", err)
		}
		for _, r := range assignments {
			snap.Assignments = append(snap.Assignments, assignmentFromRecord(r))
		}
		return nil
	})

	g.Go(func() error {
		crs, err := s.ListChangeRequests(gctx, boqID)
		if err != nil {
			return err
		}
		snap.ChangeRequests = crs
		return nil
	})

	g.Go(func() error {
		entries, err := s.workEntries(gctx, boqID)
		if err != nil {
			return err
		}
		snap.LabourEntries = entries
		return nil
	})

	if err := g.Wait(); err != nil {
		return WorkflowSnapshot{}, err
	}
	return snap, nil
}

// ListChangeRequests returns change requests oldest first, optionally
// restricted to one BOQ.
func (s *SnapshotService) ListChangeRequests(ctx context.Context, boqID string) ([]workflow.ChangeRequest, error) {
	q := s.app.RecordQuery("change_requests").OrderBy("created ASC").WithContext(ctx)
	if boqID != "" {
		q = q.AndWhere(dbx.HashExp{"boq": boqID})
	}

	var records []*core.Record
	if err := q.All(&records); err != nil {
		return nil, fmt.Errorf("load change_requests: %w", err)
	}

	crs := make([]workflow.ChangeRequest, 0, len(records))
	for _, r := range records {
		cr, err := changeRequestFromRecord(r)
		if err != nil {
			return nil, err
		}
		crs = append(crs, cr)
	}
	return crs, nil
}

func (s *SnapshotService) findBOQ(boqID string) (*core.Record, error) {
	boq, err := s.app.FindRecordById("boqs", boqID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("boq %q: %w", boqID, ErrNotFound)
		}
		return nil, fmt.Errorf("load boq %q: %w", boqID, err)
	}
	return boq, nil
}

func (s *SnapshotService) byBOQ(ctx context.Context, collection, boqID string, orderBy ...string) ([]*core.Record, error) {
	var records []*core.Record
	err := s.app.RecordQuery(collection).
		AndWhere(dbx.HashExp{"boq": boqID}).
		OrderBy(orderBy...).
		WithContext(ctx).
		All(&records)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", collection, err)
	}
	return records, nil
}

func (s *SnapshotService) workEntries(ctx context.Context, boqID string) ([]reconcile.LabourWorkEntry, error) {
	records, err := s.byBOQ(ctx, "labour_work_entries", boqID, "work_date ASC", "created ASC")
	if err != nil {
		return nil, err
	}
	entries := make([]reconcile.LabourWorkEntry, 0, len(records))
	for _, r := range records {
		entry, err := workEntryFromRecord(r)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	return entries, nil
}
