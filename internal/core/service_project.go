package core

import (
	"btocore/pkg/domain"
	"context"
	"fmt"
	"time"
)

// validNeighbourhoods is the fixed estate list projects may be raised in.
var validNeighbourhoods = map[string]struct{}{
	"Yishun":      {},
	"Boon Lay":    {},
	"Tampines":    {},
	"Jurong West": {},
	"Bedok":       {},
}

const maxOfficerSlots = 10

// ProjectUpdate carries the mutable project fields. Nil fields keep the
// current value; capacity and prices cannot be changed after creation.
type ProjectUpdate struct {
	Name                *string
	Neighbourhood       *string
	OpenDate            *time.Time
	CloseDate           *time.Time
	Visibility          *bool
	OfficerSlotCapacity *int
}

func invalidProject(id, detail string) error {
	return &ConflictError{Kind: domain.InvalidProject, Entity: EntityProject, ID: id, Detail: detail}
}

// validateProject checks field-level constraints and name uniqueness within
// the same neighbourhood across overlapping windows. Pass the project's own
// id so updates do not collide with themselves.
func validateProject(view TransactionView, project Project, now time.Time) error {
	if project.Name == "" {
		return invalidProject(project.ID, "project name must not be empty")
	}
	if _, ok := validNeighbourhoods[project.Neighbourhood]; !ok {
		return invalidProject(project.ID, fmt.Sprintf("unknown neighbourhood %q", project.Neighbourhood))
	}
	// A single-day window (open == close) is legal; windows are inclusive.
	if project.CloseDate.Before(project.OpenDate) {
		return invalidProject(project.ID, "close date must not precede open date")
	}
	if project.CloseDate.Before(now) {
		return invalidProject(project.ID, "application window already closed")
	}
	if project.OfficerSlotCapacity < 0 || project.OfficerSlotCapacity > maxOfficerSlots {
		return invalidProject(project.ID, fmt.Sprintf("officer slots must be between 0 and %d", maxOfficerSlots))
	}
	for flatType, units := range project.Capacity {
		if units < 0 {
			return invalidProject(project.ID, fmt.Sprintf("negative %s capacity", flatType))
		}
		if price, ok := project.Prices[flatType]; ok && price <= 0 {
			return invalidProject(project.ID, fmt.Sprintf("non-positive %s price", flatType))
		}
	}
	for _, other := range view.ListProjects() {
		if other.ID == project.ID {
			continue
		}
		if other.Name == project.Name && other.Neighbourhood == project.Neighbourhood && other.WindowOverlaps(project) {
			return invalidProject(project.ID, fmt.Sprintf("project %q already open in %s over this window", project.Name, project.Neighbourhood))
		}
	}
	return nil
}

// CreateProject raises a new project under the given manager. Remaining
// inventory starts equal to capacity.
func (s *Service) CreateProject(ctx context.Context, managerID string, project Project) (Project, Result, error) {
	ctx, finish := s.begin(ctx, "create_project")
	var created Project
	res, err := s.store.RunInTransaction(ctx, func(tx Transaction) error {
		manager, ok := tx.FindPerson(managerID)
		if !ok || !manager.Can(CanManage) {
			return &ConflictError{Kind: domain.ActorNotFound, Entity: EntityPerson, ID: managerID, Detail: "no manager with this id"}
		}
		project.ManagerID = manager.ID
		project.Remaining = make(map[FlatType]int, len(project.Capacity))
		for flatType, units := range project.Capacity {
			project.Remaining[flatType] = units
		}
		now := s.clock.Now()
		if project.OpenDate.Before(now) {
			return invalidProject(project.ID, "opening date must not be in the past")
		}
		if err := validateProject(tx.Snapshot(), project, now); err != nil {
			return err
		}
		var err error
		created, err = tx.CreateProject(project)
		return err
	})
	finish(EntityProject, created.ID, err)
	return created, res, err
}

// UpdateProject applies the given field changes and re-validates the result.
func (s *Service) UpdateProject(ctx context.Context, managerID, projectID string, update ProjectUpdate) (Project, Result, error) {
	ctx, finish := s.begin(ctx, "update_project")
	var updated Project
	res, err := s.store.RunInTransaction(ctx, func(tx Transaction) error {
		if err := s.requireManager(tx, managerID, projectID); err != nil {
			return err
		}
		var err error
		updated, err = tx.UpdateProject(projectID, func(p *Project) error {
			if update.Name != nil {
				p.Name = *update.Name
			}
			if update.Neighbourhood != nil {
				p.Neighbourhood = *update.Neighbourhood
			}
			if update.OpenDate != nil {
				p.OpenDate = *update.OpenDate
			}
			if update.CloseDate != nil {
				p.CloseDate = *update.CloseDate
			}
			if update.Visibility != nil {
				p.Visibility = *update.Visibility
			}
			if update.OfficerSlotCapacity != nil {
				if *update.OfficerSlotCapacity < len(p.OfficerIDs) {
					return invalidProject(p.ID, "officer slots cannot shrink below current roster")
				}
				p.OfficerSlotCapacity = *update.OfficerSlotCapacity
			}
			return validateProject(tx.Snapshot(), *p, s.clock.Now())
		})
		return err
	})
	finish(EntityProject, projectID, err)
	return updated, res, err
}

// SetProjectVisibility toggles whether the project is listed to applicants.
// Hiding a project never touches existing applications.
func (s *Service) SetProjectVisibility(ctx context.Context, managerID, projectID string, visible bool) (Result, error) {
	ctx, finish := s.begin(ctx, "set_project_visibility")
	res, err := s.store.RunInTransaction(ctx, func(tx Transaction) error {
		if err := s.requireManager(tx, managerID, projectID); err != nil {
			return err
		}
		_, err := tx.UpdateProject(projectID, func(p *Project) error {
			p.Visibility = visible
			return nil
		})
		return err
	})
	finish(EntityProject, projectID, err)
	return res, err
}

// DeleteProject removes a project with no active applications against it.
func (s *Service) DeleteProject(ctx context.Context, managerID, projectID string) (Result, error) {
	ctx, finish := s.begin(ctx, "delete_project")
	res, err := s.store.RunInTransaction(ctx, func(tx Transaction) error {
		if err := s.requireManager(tx, managerID, projectID); err != nil {
			return err
		}
		for _, a := range tx.ListApplications() {
			if a.ProjectID == projectID && a.Active() {
				return &ConflictError{Kind: domain.InvalidTransition, Entity: EntityProject, ID: projectID, Detail: "project still has active applications"}
			}
		}
		return tx.DeleteProject(projectID)
	})
	finish(EntityProject, projectID, err)
	return res, err
}

// requireManager checks the actor exists with manage capability and owns the
// project.
func (s *Service) requireManager(tx Transaction, managerID, projectID string) error {
	manager, ok := tx.FindPerson(managerID)
	if !ok || !manager.Can(CanManage) {
		return &ConflictError{Kind: domain.ActorNotFound, Entity: EntityPerson, ID: managerID, Detail: "no manager with this id"}
	}
	project, ok := tx.FindProject(projectID)
	if !ok {
		return &ConflictError{Kind: domain.ProjectNotFound, Entity: EntityProject, ID: projectID, Detail: "project not found"}
	}
	if project.ManagerID != manager.ID {
		return &ConflictError{Kind: domain.InvalidProject, Entity: EntityProject, ID: projectID, Detail: "project managed by another manager"}
	}
	return nil
}
