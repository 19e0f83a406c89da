package service

import (
	"errors"
	"math/rand/v2"
	"strings"

	"cruxed/app_error"
	"cruxed/repository"

	"gorm.io/gorm"
)

// codeChars excludes characters that are easy to misread on a printed sheet.
const codeChars = "ABCDEFGHIJKLMNPQRSTUVWXYZ123456789"
const codeLength = 3
const codeGenerationAttempts = 10

var DefaultCategoryNames = []string{"Open A Male", "Open A Female"}

type CompService struct {
	compRepository *repository.CompRepository
	userRepository *repository.UserRepository
	db             *gorm.DB
}

func NewCompService(db *gorm.DB) *CompService {
	return &CompService{
		compRepository: repository.NewCompRepository(db),
		userRepository: repository.NewUserRepository(db),
		db:             db,
	}
}

// CreateComp creates the comp together with its categories and co-admins in
// one transaction; a failed step leaves no partial comp behind. Co-admin
// emails that match no user, or the owner's own email, are skipped.
func (s *CompService) CreateComp(comp *repository.Comp, categoryNames []string, coAdminEmails []string) (*repository.Comp, error) {
	if comp.Name == "" {
		return nil, app_error.Validation("name is required")
	}
	if err := comp.DefaultPointSchedule.Validate(); err != nil {
		return nil, app_error.Validation("invalid point schedule: %v", err)
	}
	if len(categoryNames) == 0 {
		categoryNames = DefaultCategoryNames
	}
	err := s.db.Transaction(func(tx *gorm.DB) error {
		compRepository := repository.NewCompRepository(tx)
		code, err := s.generateUniqueCode(compRepository)
		if err != nil {
			return err
		}
		comp.Code = code
		comp.Status = repository.CompStatusDraft
		if _, err := compRepository.Save(comp); err != nil {
			return err
		}
		categoryRepository := repository.NewCategoryRepository(tx)
		for i, name := range categoryNames {
			_, err := categoryRepository.Save(&repository.Category{
				CompId:    comp.Id,
				Name:      name,
				SortOrder: i,
			})
			if err != nil {
				return err
			}
		}
		userRepository := repository.NewUserRepository(tx)
		for _, email := range coAdminEmails {
			user, err := userRepository.GetUserByEmail(strings.ToLower(strings.TrimSpace(email)))
			if err != nil || user.Id == comp.OwnerId {
				continue
			}
			_, err = compRepository.SaveCoAdmin(&repository.CoAdmin{CompId: comp.Id, UserId: user.Id})
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.compRepository.GetCompById(comp.Id, "Categories")
}

func (s *CompService) generateUniqueCode(compRepository *repository.CompRepository) (string, error) {
	for i := 0; i < codeGenerationAttempts; i++ {
		chars := make([]byte, codeLength)
		for j := range chars {
			chars[j] = codeChars[rand.IntN(len(codeChars))]
		}
		code := string(chars)
		_, err := compRepository.GetCompByCode(code)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return code, nil
		}
		if err != nil {
			return "", err
		}
	}
	return "", app_error.Conflict("failed to generate a unique join code")
}

func (s *CompService) GetCompsForAdmin(userId int) ([]*repository.Comp, error) {
	return s.compRepository.GetCompsForAdmin(userId)
}

func (s *CompService) GetCompById(compId int, preloads ...string) (*repository.Comp, error) {
	comp, err := s.compRepository.GetCompById(compId, preloads...)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, app_error.NotFound("comp not found")
		}
		return nil, err
	}
	return comp, nil
}

// GetCompForAdmin loads the comp and verifies the user is owner or co-admin.
func (s *CompService) GetCompForAdmin(compId int, userId int) (*repository.Comp, error) {
	comp, err := s.GetCompById(compId, "CoAdmins")
	if err != nil {
		return nil, err
	}
	if !comp.IsAdmin(userId) {
		return nil, app_error.Forbidden("not an admin of this comp")
	}
	return comp, nil
}

func (s *CompService) UpdateComp(compId int, userId int, update func(comp *repository.Comp) error) (*repository.Comp, error) {
	comp, err := s.GetCompForAdmin(compId, userId)
	if err != nil {
		return nil, err
	}
	if err := update(comp); err != nil {
		return nil, err
	}
	return s.compRepository.Save(comp)
}

// ChangeStatus enforces the forward-only lifecycle Draft -> Active -> Completed.
func (s *CompService) ChangeStatus(comp *repository.Comp, next repository.CompStatus) error {
	if !next.IsValid() {
		return app_error.Validation("invalid status %q", next)
	}
	if !comp.Status.CanTransitionTo(next) {
		return app_error.CompetitionNotActive("cannot move comp from %s back to %s", comp.Status, next)
	}
	comp.Status = next
	return nil
}

func (s *CompService) DeleteComp(compId int, userId int) error {
	comp, err := s.GetCompById(compId)
	if err != nil {
		return err
	}
	if comp.OwnerId != userId {
		return app_error.Forbidden("only the owner can delete a comp")
	}
	return s.compRepository.Delete(comp)
}

// LookupByCode resolves a join code to a comp; only active comps resolve.
func (s *CompService) LookupByCode(code string) (*repository.Comp, error) {
	comp, err := s.compRepository.GetCompByCode(code)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, app_error.NotFound("comp not found")
		}
		return nil, err
	}
	if comp.Status != repository.CompStatusActive {
		return nil, app_error.NotFound("comp not found")
	}
	return comp, nil
}

func (s *CompService) GetActiveComps() ([]*repository.Comp, error) {
	return s.compRepository.GetActiveComps()
}

func (s *CompService) GetCompCounts(compId int) (*repository.CompCounts, error) {
	return s.compRepository.GetCompCounts(compId)
}

func (s *CompService) GetCoAdmins(compId int, userId int) ([]*repository.CoAdmin, error) {
	if _, err := s.GetCompForAdmin(compId, userId); err != nil {
		return nil, err
	}
	return s.compRepository.GetCoAdminsForComp(compId)
}

func (s *CompService) AddCoAdmin(compId int, ownerId int, email string) (*repository.CoAdmin, error) {
	comp, err := s.GetCompById(compId)
	if err != nil {
		return nil, err
	}
	if comp.OwnerId != ownerId {
		return nil, app_error.Forbidden("only the owner can add co-admins")
	}
	user, err := s.userRepository.GetUserByEmail(strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, app_error.NotFound("user not found")
		}
		return nil, err
	}
	if user.Id == comp.OwnerId {
		return nil, app_error.Conflict("owner is already an admin")
	}
	if _, err := s.compRepository.GetCoAdmin(user.Id, compId); err == nil {
		return nil, app_error.Conflict("user is already a co-admin")
	}
	coAdmin, err := s.compRepository.SaveCoAdmin(&repository.CoAdmin{CompId: compId, UserId: user.Id})
	if err != nil {
		return nil, err
	}
	coAdmin.User = user
	return coAdmin, nil
}

func (s *CompService) RemoveCoAdmin(compId int, ownerId int, userId int) error {
	comp, err := s.GetCompById(compId)
	if err != nil {
		return err
	}
	if comp.OwnerId != ownerId {
		return app_error.Forbidden("only the owner can remove co-admins")
	}
	coAdmin, err := s.compRepository.GetCoAdmin(userId, compId)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return app_error.NotFound("co-admin not found")
		}
		return err
	}
	return s.compRepository.DeleteCoAdmin(coAdmin)
}
