package core

import (
	"btocore/pkg/domain"
	"context"
)

// SubmitEnquiry records an applicant question against a project.
func (s *Service) SubmitEnquiry(ctx context.Context, applicantID, projectID, question string) (Enquiry, Result, error) {
	ctx, finish := s.begin(ctx, "submit_enquiry")
	var created Enquiry
	res, err := s.store.RunInTransaction(ctx, func(tx Transaction) error {
		applicant, ok := tx.FindPerson(applicantID)
		if !ok || !applicant.Can(CanApply) {
			return &ConflictError{Kind: domain.ActorNotFound, Entity: EntityPerson, ID: applicantID, Detail: "no applicant with this id"}
		}
		project, ok := tx.FindProject(projectID)
		if !ok {
			return &ConflictError{Kind: domain.ProjectNotFound, Entity: EntityProject, ID: projectID, Detail: "project not found"}
		}
		if question == "" {
			return &ConflictError{Kind: domain.InvalidTransition, Entity: EntityEnquiry, Detail: "question must not be empty"}
		}
		var err error
		created, err = tx.CreateEnquiry(Enquiry{
			ProjectID:     project.ID,
			ProjectName:   project.Name,
			ApplicantID:   applicant.ID,
			ApplicantName: applicant.Name,
			Question:      question,
			DateEnquired:  s.clock.Now(),
		})
		return err
	})
	finish(EntityEnquiry, created.ID, err)
	return created, res, err
}

// EditEnquiry rewords an unanswered enquiry. Only the author may edit.
func (s *Service) EditEnquiry(ctx context.Context, applicantID, enquiryID, question string) (Result, error) {
	ctx, finish := s.begin(ctx, "edit_enquiry")
	res, err := s.store.RunInTransaction(ctx, func(tx Transaction) error {
		_, err := tx.UpdateEnquiry(enquiryID, func(e *Enquiry) error {
			if e.ApplicantID != applicantID {
				return &ConflictError{Kind: domain.ActorNotFound, Entity: EntityEnquiry, ID: e.ID, Detail: "enquiry belongs to another applicant"}
			}
			if e.Answered() {
				return &ConflictError{Kind: domain.InvalidTransition, Entity: EntityEnquiry, ID: e.ID, Detail: "answered enquiries cannot be edited"}
			}
			if question == "" {
				return &ConflictError{Kind: domain.InvalidTransition, Entity: EntityEnquiry, ID: e.ID, Detail: "question must not be empty"}
			}
			e.Question = question
			return nil
		})
		return err
	})
	finish(EntityEnquiry, enquiryID, err)
	return res, err
}

// DeleteEnquiry removes an unanswered enquiry. Only the author may delete.
func (s *Service) DeleteEnquiry(ctx context.Context, applicantID, enquiryID string) (Result, error) {
	ctx, finish := s.begin(ctx, "delete_enquiry")
	res, err := s.store.RunInTransaction(ctx, func(tx Transaction) error {
		enquiry, ok := tx.FindEnquiry(enquiryID)
		if !ok {
			return &ConflictError{Kind: domain.EnquiryNotFound, Entity: EntityEnquiry, ID: enquiryID, Detail: "enquiry not found"}
		}
		if enquiry.ApplicantID != applicantID {
			return &ConflictError{Kind: domain.ActorNotFound, Entity: EntityEnquiry, ID: enquiryID, Detail: "enquiry belongs to another applicant"}
		}
		if enquiry.Answered() {
			return &ConflictError{Kind: domain.InvalidTransition, Entity: EntityEnquiry, ID: enquiryID, Detail: "answered enquiries cannot be deleted"}
		}
		return tx.DeleteEnquiry(enquiryID)
	})
	finish(EntityEnquiry, enquiryID, err)
	return res, err
}

// ReplyEnquiry records a staff answer. Each enquiry is answered at most once.
func (s *Service) ReplyEnquiry(ctx context.Context, respondentID, enquiryID, reply string) (Result, error) {
	ctx, finish := s.begin(ctx, "reply_enquiry")
	res, err := s.store.RunInTransaction(ctx, func(tx Transaction) error {
		respondent, ok := tx.FindPerson(respondentID)
		if !ok || !(respondent.Can(CanAdminister) || respondent.Can(CanManage)) {
			return &ConflictError{Kind: domain.ActorNotFound, Entity: EntityPerson, ID: respondentID, Detail: "no staff member with this id"}
		}
		_, err := tx.UpdateEnquiry(enquiryID, func(e *Enquiry) error {
			if e.Answered() {
				return &ConflictError{Kind: domain.InvalidTransition, Entity: EntityEnquiry, ID: e.ID, Detail: "enquiry already answered"}
			}
			if reply == "" {
				return &ConflictError{Kind: domain.InvalidTransition, Entity: EntityEnquiry, ID: e.ID, Detail: "reply must not be empty"}
			}
			replied := s.clock.Now()
			e.Reply = reply
			e.RespondentID = respondent.ID
			e.DateReplied = &replied
			return nil
		})
		return err
	})
	finish(EntityEnquiry, enquiryID, err)
	return res, err
}
