package services

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/knagata/task-reminder-api/internal/models"
	"github.com/knagata/task-reminder-api/internal/repository"
	"github.com/knagata/task-reminder-api/internal/utils"
)

var (
	ErrNotOwner          = errors.New("only the task owner can manage sharing")
	ErrRecipientNotFound = errors.New("recipient not found")
	ErrSelfShare         = errors.New("cannot share a task with yourself")
	ErrAlreadyShared     = errors.New("task is already shared with this user")
	ErrShareNotFound     = errors.New("task is not shared with this user")
	ErrInvalidPermission = errors.New("permission level must be 'view', 'edit' or 'admin'")
)

// ShareService is the single authority for cross-user task access: it
// resolves sharing recipients from ambiguous identifiers and answers every
// "can user X do Y to task T" question.
//
// Policy note: admin-level shares grant the same rights as edit. Task
// deletion and share management stay exclusive to the owner; widening admin
// to cover them is a pending product decision, not an oversight.
type ShareService struct {
	shareRepo repository.ShareRepository
	taskRepo  repository.TaskRepository
	userRepo  repository.UserRepository
}

// NewShareService creates a new ShareService
func NewShareService(shareRepo repository.ShareRepository, taskRepo repository.TaskRepository, userRepo repository.UserRepository) *ShareService {
	return &ShareService{
		shareRepo: shareRepo,
		taskRepo:  taskRepo,
		userRepo:  userRepo,
	}
}

// ResolveRecipient resolves a sharing target from a username or a short
// code. Identifiers with the short-code shape try the short-code lookup
// first and fall back to username lookup on a miss, because the sharing UI
// accepts either form and the two can overlap in length.
func (s *ShareService) ResolveRecipient(identifier string) (*models.User, error) {
	if utils.IsValidShortCode(identifier) {
		user, err := s.userRepo.FindByShortCode(identifier)
		if err == nil {
			return user, nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("failed to look up short code: %w", err)
		}
	}

	user, err := s.userRepo.FindByUsername(identifier)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to look up username: %w", err)
	}

	user, err = s.userRepo.FindByUsernameFold(identifier)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRecipientNotFound
		}
		return nil, fmt.Errorf("failed to look up username: %w", err)
	}
	return user, nil
}

// ShareInput identifies a share mutation: the task, the acting user, and
// the recipient given as username or short code.
type ShareInput struct {
	TaskID    uint64
	OwnerID   uint64
	Recipient string
}

// ShareTask grants a recipient access to a task at the given level.
// Ownership is re-verified from the task store rather than trusted from the
// caller, so a forged owner ID cannot share someone else's task.
func (s *ShareService) ShareTask(input ShareInput, level models.PermissionLevel) (*models.TaskShare, error) {
	task, err := s.ownedTask(input.TaskID, input.OwnerID)
	if err != nil {
		return nil, err
	}

	recipient, err := s.ResolveRecipient(input.Recipient)
	if err != nil {
		return nil, err
	}

	if recipient.ID == task.OwnerID {
		return nil, ErrSelfShare
	}

	existing, err := s.shareRepo.FindPermission(task.ID, recipient.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to check existing share: %w", err)
	}
	if existing != nil {
		return nil, ErrAlreadyShared
	}

	if !level.Valid() {
		return nil, ErrInvalidPermission
	}

	share := &models.TaskShare{
		TaskID:      task.ID,
		OwnerID:     task.OwnerID,
		RecipientID: recipient.ID,
		Permission:  level,
	}
	if err := s.shareRepo.Create(share); err != nil {
		return nil, fmt.Errorf("failed to create share: %w", err)
	}

	share.Recipient = *recipient
	return share, nil
}

// UpdateSharePermission overwrites the permission level of an existing
// share.
func (s *ShareService) UpdateSharePermission(input ShareInput, level models.PermissionLevel) (*models.User, error) {
	if !level.Valid() {
		return nil, ErrInvalidPermission
	}

	task, err := s.ownedTask(input.TaskID, input.OwnerID)
	if err != nil {
		return nil, err
	}

	recipient, err := s.ResolveRecipient(input.Recipient)
	if err != nil {
		return nil, err
	}

	existing, err := s.shareRepo.FindPermission(task.ID, recipient.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to check existing share: %w", err)
	}
	if existing == nil {
		return nil, ErrShareNotFound
	}

	if err := s.shareRepo.UpdatePermission(task.ID, recipient.ID, level); err != nil {
		return nil, fmt.Errorf("failed to update share: %w", err)
	}
	return recipient, nil
}

// RemoveShare deletes a share if present. Removing a share that does not
// exist succeeds, the operation is idempotent.
func (s *ShareService) RemoveShare(input ShareInput) (*models.User, error) {
	task, err := s.ownedTask(input.TaskID, input.OwnerID)
	if err != nil {
		return nil, err
	}

	recipient, err := s.ResolveRecipient(input.Recipient)
	if err != nil {
		return nil, err
	}

	if _, err := s.shareRepo.Delete(task.ID, recipient.ID); err != nil {
		return nil, fmt.Errorf("failed to remove share: %w", err)
	}
	return recipient, nil
}

// ListShares returns the shares of a task for its owner. Any other caller
// gets an empty list, not an error: a "not found" or "forbidden" answer
// would reveal whether the task exists.
func (s *ShareService) ListShares(taskID, callerID uint64) ([]models.TaskShare, error) {
	task, err := s.taskRepo.FindByID(taskID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return []models.TaskShare{}, nil
		}
		return nil, fmt.Errorf("failed to find task: %w", err)
	}
	if task.OwnerID != callerID {
		return []models.TaskShare{}, nil
	}

	shares, err := s.shareRepo.FindByTask(task.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to list shares: %w", err)
	}
	return shares, nil
}

// SharedTasks returns the tasks shared with a user.
func (s *ShareService) SharedTasks(userID uint64) ([]models.Task, error) {
	shares, err := s.shareRepo.FindByRecipient(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list shares: %w", err)
	}

	tasks := make([]models.Task, 0, len(shares))
	for _, share := range shares {
		task, err := s.taskRepo.FindByID(share.TaskID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				// Share row outlived its task; skip it.
				continue
			}
			return nil, fmt.Errorf("failed to find shared task: %w", err)
		}
		tasks = append(tasks, *task)
	}
	return tasks, nil
}

// CanAccess reports whether a user may read a task: the owner always can,
// anyone else needs a share at any level.
func (s *ShareService) CanAccess(taskID, userID uint64) (bool, error) {
	task, err := s.taskRepo.FindByID(taskID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("failed to find task: %w", err)
	}
	if task.OwnerID == userID {
		return true, nil
	}

	level, err := s.shareRepo.FindPermission(taskID, userID)
	if err != nil {
		return false, fmt.Errorf("failed to check share: %w", err)
	}
	return level != nil, nil
}

// CanEdit reports whether a user may modify a task: the owner always can,
// anyone else needs an edit or admin share.
func (s *ShareService) CanEdit(taskID, userID uint64) (bool, error) {
	task, err := s.taskRepo.FindByID(taskID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("failed to find task: %w", err)
	}
	if task.OwnerID == userID {
		return true, nil
	}

	level, err := s.shareRepo.FindPermission(taskID, userID)
	if err != nil {
		return false, fmt.Errorf("failed to check share: %w", err)
	}
	return level != nil && level.CanEdit(), nil
}

// ownedTask fetches a task without an owner filter and verifies the caller
// owns it. TaskNotFound and NotOwner stay distinct here; handlers collapse
// them where existence must not leak.
func (s *ShareService) ownedTask(taskID, callerID uint64) (*models.Task, error) {
	task, err := s.taskRepo.FindByID(taskID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to find task: %w", err)
	}
	if task.OwnerID != callerID {
		return nil, ErrNotOwner
	}
	return task, nil
}
