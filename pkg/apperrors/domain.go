package apperrors

import (
	"net/http"
)

// =========================================================================
// Фабрики по таксономии ошибок маркетплейса
// =========================================================================

// NotFound - сущность не найдена (404)
func NotFound(domain, message string) *AppError {
	return New(CodeNotFound, domain, message, http.StatusNotFound)
}

// Forbidden - пользователь аутентифицирован, но не имеет прав (403)
func Forbidden(domain, message string) *AppError {
	return New(CodeForbidden, domain, message, http.StatusForbidden)
}

// InvalidState - нарушено предусловие на статус сущности (400)
func InvalidState(domain, message string) *AppError {
	return New(CodeInvalidStatus, domain, message, http.StatusBadRequest)
}

// Conflict - нарушение уникальности (409)
func Conflict(domain, message string) *AppError {
	return New(CodeConflict, domain, message, http.StatusConflict)
}

// ErrInvalidOperation - операция не имеет смысла для запроса (400)
func ErrInvalidOperation(domain, message string) *AppError {
	return New(CodeInvalidOperation, domain, message, http.StatusBadRequest)
}

// TransactionFailed - атомарный блок откатился, частичных изменений нет (500)
func TransactionFailed(domain string, err error) *AppError {
	return Wrap(err, CodeTransactionFailed, domain, "Operation failed, no changes were applied", http.StatusInternalServerError)
}

// RateLimited - превышен лимит запросов (429)
func RateLimited(policy string) *AppError {
	return New(CodeLimitExceeded, "rate_limit", "Too many requests, try again later", http.StatusTooManyRequests).
		WithDetails(map[string]string{"policy": policy})
}

// CodeOf возвращает код AppError или CodeInternalError для прочих ошибок
func CodeOf(err error) ErrorCode {
	if err == nil {
		return ""
	}
	if appErr, ok := AsAppError(err); ok {
		return appErr.Code
	}
	return CodeInternalError
}

// =========================================================================
// Предопределенные ошибки
// =========================================================================

// --- Auth & Profiles ---

var ErrInvalidToken = New(CodeInvalidToken, "auth", "Invalid or expired token", http.StatusUnauthorized)

var ErrProfileRequired = New(CodeProfileRequired, "auth", "Profile is not created yet, call POST /api/v1/profiles/me", http.StatusForbidden)

var ErrInsufficientPermissions = New(CodeForbidden, "auth", "Insufficient permissions", http.StatusForbidden)

var ErrProfileNotFound = NotFound("profile", "Profile not found")

var ErrProfileAlreadyExists = New(CodeAlreadyExists, "profile", "Profile already exists", http.StatusConflict)

var ErrProRoleRequired = Forbidden("profile", "Only professionals can perform this action")

var ErrClientRoleRequired = Forbidden("profile", "Only clients can perform this action")

// --- Categories ---

var ErrCategoryNotFound = NotFound("category", "Category not found")

var ErrCategorySlugTaken = Conflict("category", "Category slug already in use")

// --- Jobs ---

var ErrJobNotFound = NotFound("job", "Job not found")

var ErrNotJobOwner = Forbidden("job", "Only the job owner can perform this action")

var ErrJobNotOpen = InvalidState("job", "Job is not open")

var ErrJobExpired = InvalidState("job", "Job has expired")

var ErrInvalidStatusTransition = InvalidState("job", "Status transition is not allowed")

// --- Proposals ---

var ErrProposalNotFound = NotFound("proposal", "Proposal not found")

var ErrProposalAlreadyExists = Conflict("proposal", "You have already submitted a proposal for this job")

var ErrProposalNotPending = InvalidState("proposal", "Proposal is no longer pending")

var ErrOwnJobProposal = ErrInvalidOperation("proposal", "Cannot submit a proposal to your own job")

var ErrNotProposalOwner = Forbidden("proposal", "Only the author can withdraw this proposal")

// --- Reviews ---

var ErrJobNotReviewable = InvalidState("review", "Job must be in progress or done to be reviewed")

var ErrNoAcceptedProposal = InvalidState("review", "No accepted proposal from this professional on the job")

var ErrReviewAlreadyExists = Conflict("review", "You have already reviewed this job")

var ErrNotJobClient = Forbidden("review", "Only the job client can leave a review")

// --- Chat ---

var ErrConversationNotFound = NotFound("chat", "Conversation not found")

var ErrNotParticipant = Forbidden("chat", "Access to conversation denied")

// --- Notifications ---

var ErrNotificationNotFound = NotFound("notification", "Notification not found")

// --- Uploads ---

var ErrFileTooLarge = New(CodeLimitExceeded, "validation", "File size exceeds the allowed limit", http.StatusRequestEntityTooLarge)

var ErrInvalidFileType = New(CodeValidationFailed, "validation", "The provided file type is not allowed", http.StatusUnsupportedMediaType)
