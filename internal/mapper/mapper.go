// Package mapper converts between domain models and transport DTOs.
package mapper

import (
	"github.com/niket-singh/Reviewers-Adzzat-sub000/internal/api"
	"github.com/niket-singh/Reviewers-Adzzat-sub000/internal/entities"
)

// ToAPIUser maps entities.User to transport model.
func ToAPIUser(u entities.User) api.User {
	return api.User{
		UserID:       u.ID,
		Username:     u.Username,
		Role:         string(u.Role),
		IsApproved:   u.IsApproved,
		IsGreenLight: u.IsGreenLight,
		CreatedAt:    u.CreatedAt,
	}
}

// ToAPISubmission maps entities.Submission to transport model.
func ToAPISubmission(sub entities.Submission) api.Submission {
	return api.Submission{
		SubmissionID:     sub.ID,
		ContributorID:    sub.ContributorID,
		Kind:             string(sub.Kind),
		Status:           string(sub.Status),
		AssigneeID:       sub.AssigneeID,
		Category:         sub.Category,
		Language:         sub.Language,
		Difficulty:       sub.Difficulty,
		SubmittedAccount: sub.SubmittedAccount,
		TaskLink:         sub.TaskLink,
		AccountPostedIn:  sub.AccountPostedIn,
		FileURL:          sub.FileURL,
		CreatedAt:        sub.CreatedAt,
		UpdatedAt:        sub.UpdatedAt,
	}
}

// ToAPISubmissionList maps a slice of entities.Submission to transport slice.
func ToAPISubmissionList(list []entities.Submission) []api.Submission {
	res := make([]api.Submission, 0, len(list))
	for _, sub := range list {
		res = append(res, ToAPISubmission(sub))
	}
	return res
}

// ToAPIFeedback maps a feedback record to transport model.
func ToAPIFeedback(fb entities.Feedback) api.FeedbackRecord {
	return api.FeedbackRecord{
		AuthorID:   fb.AuthorID,
		AuthorRole: string(fb.AuthorRole),
		Kind:       string(fb.Kind),
		Body:       fb.Body,
		CreatedAt:  fb.CreatedAt,
	}
}

// ToAPIFeedbackList maps a slice of feedback records to transport slice.
func ToAPIFeedbackList(list []entities.Feedback) []api.FeedbackRecord {
	res := make([]api.FeedbackRecord, 0, len(list))
	for _, fb := range list {
		res = append(res, ToAPIFeedback(fb))
	}
	return res
}

// ToAPIWorkloadStats maps derived workload counters to transport slice.
func ToAPIWorkloadStats(list []entities.WorkloadStat) []api.WorkloadStat {
	res := make([]api.WorkloadStat, 0, len(list))
	for _, s := range list {
		res = append(res, api.WorkloadStat{
			UserID:  s.UserID,
			Role:    string(s.Role),
			OpenCnt: s.OpenCnt,
		})
	}
	return res
}

// ToAPIReassignReport maps a bulk reassignment summary to transport model.
func ToAPIReassignReport(rep entities.ReassignReport) api.ReassignReport {
	return api.ReassignReport{
		AssignedCount: rep.AssignedCount,
		DeferredCount: rep.DeferredCount,
	}
}
