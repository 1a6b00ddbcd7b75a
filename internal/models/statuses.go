package models

type UserRole string
type JobStatus string
type ProposalStatus string
type PriceType string
type NotificationType string

const (
	UserRoleClient UserRole = "client"
	UserRolePro    UserRole = "pro"
	UserRoleAdmin  UserRole = "admin"

	JobStatusOpen       JobStatus = "open"
	JobStatusInProgress JobStatus = "in_progress"
	JobStatusDone       JobStatus = "done"
	JobStatusCancelled  JobStatus = "cancelled"

	ProposalStatusPending  ProposalStatus = "pending"
	ProposalStatusAccepted ProposalStatus = "accepted"
	ProposalStatusRejected ProposalStatus = "rejected"

	PriceTypeFixed  PriceType = "fixed"
	PriceTypeHourly PriceType = "hourly"

	NotificationProposalAccepted NotificationType = "proposal_accepted"
	NotificationJobCompleted     NotificationType = "job_completed"
	NotificationReviewReceived   NotificationType = "review_received"
	NotificationNewProposal      NotificationType = "new_proposal"
	NotificationNewMessage       NotificationType = "new_message"
)

// jobTransitions - допустимые переходы, которые выполняет владелец.
// open -> in_progress происходит только через принятие отклика.
var jobTransitions = map[JobStatus][]JobStatus{
	JobStatusOpen:       {JobStatusCancelled},
	JobStatusInProgress: {JobStatusDone, JobStatusCancelled},
}

// CanTransitionTo сообщает, может ли владелец перевести заказ в статус next
func (s JobStatus) CanTransitionTo(next JobStatus) bool {
	for _, allowed := range jobTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

func (s JobStatus) IsTerminal() bool {
	return s == JobStatusDone || s == JobStatusCancelled
}

func (s JobStatus) IsValid() bool {
	switch s {
	case JobStatusOpen, JobStatusInProgress, JobStatusDone, JobStatusCancelled:
		return true
	}
	return false
}

func (r UserRole) IsValid() bool {
	switch r {
	case UserRoleClient, UserRolePro, UserRoleAdmin:
		return true
	}
	return false
}
