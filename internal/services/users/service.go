package users

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Hareshku/growtogather-backend/internal/domain/enums"
	"github.com/Hareshku/growtogather-backend/internal/domain/rules"
	pgrepo "github.com/Hareshku/growtogather-backend/internal/repo/postgres"
)

var (
	ErrValidation    = errors.New("validation error")
	ErrUserNotFound  = errors.New("user not found")
	ErrSkillNotFound = errors.New("skill not found")
	ErrSkillExists   = errors.New("skill already added")
)

const (
	maxFullNameLen   = 120
	maxProfessionLen = 120
	maxBioLen        = 2000
	maxSkillsPerUser = 30
)

type UserStore interface {
	GetByID(ctx context.Context, userID int64) (pgrepo.UserRecord, error)
	UpdateProfile(ctx context.Context, userID int64, update pgrepo.UserProfileUpdate) (pgrepo.UserRecord, error)
}

type SkillStore interface {
	Add(ctx context.Context, userID int64, name, skillType, proficiency string, now time.Time) (pgrepo.SkillRecord, error)
	Delete(ctx context.Context, userID, skillID int64) error
	ListByUser(ctx context.Context, userID int64) ([]pgrepo.SkillRecord, error)
}

type Profile struct {
	User   pgrepo.UserRecord
	Skills []pgrepo.SkillRecord
}

type Service struct {
	users  UserStore
	skills SkillStore
	now    func() time.Time
}

func NewService(users UserStore, skills SkillStore) *Service {
	return &Service{
		users:  users,
		skills: skills,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

func (s *Service) Profile(ctx context.Context, userID int64) (Profile, error) {
	if userID <= 0 {
		return Profile{}, ErrValidation
	}
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, pgrepo.ErrUserNotFound) {
			return Profile{}, ErrUserNotFound
		}
		return Profile{}, fmt.Errorf("get user: %w", err)
	}
	skills, err := s.skills.ListByUser(ctx, userID)
	if err != nil {
		return Profile{}, fmt.Errorf("list skills: %w", err)
	}
	return Profile{User: user, Skills: skills}, nil
}

type ProfileUpdateInput struct {
	FullName             string
	Profession           string
	Bio                  string
	ExperienceLevel      string
	PreferredMeetingType string
}

func (s *Service) UpdateProfile(ctx context.Context, userID int64, in ProfileUpdateInput) (pgrepo.UserRecord, error) {
	if userID <= 0 {
		return pgrepo.UserRecord{}, ErrValidation
	}
	fullName := strings.TrimSpace(in.FullName)
	if fullName == "" {
		return pgrepo.UserRecord{}, fmt.Errorf("%w: fullName is required", ErrValidation)
	}
	if len(fullName) > maxFullNameLen {
		return pgrepo.UserRecord{}, fmt.Errorf("%w: fullName is too long", ErrValidation)
	}
	profession := strings.TrimSpace(in.Profession)
	if len(profession) > maxProfessionLen {
		return pgrepo.UserRecord{}, fmt.Errorf("%w: profession is too long", ErrValidation)
	}
	bio := strings.TrimSpace(in.Bio)
	if len(bio) > maxBioLen {
		return pgrepo.UserRecord{}, fmt.Errorf("%w: bio is too long", ErrValidation)
	}
	if in.ExperienceLevel != "" && !validExperienceLevel(in.ExperienceLevel) {
		return pgrepo.UserRecord{}, fmt.Errorf("%w: experienceLevel", ErrValidation)
	}
	if in.PreferredMeetingType != "" && !validMeetingType(in.PreferredMeetingType) {
		return pgrepo.UserRecord{}, fmt.Errorf("%w: preferredMeetingType", ErrValidation)
	}

	user, err := s.users.UpdateProfile(ctx, userID, pgrepo.UserProfileUpdate{
		FullName:             fullName,
		Profession:           profession,
		Bio:                  bio,
		ExperienceLevel:      in.ExperienceLevel,
		PreferredMeetingType: in.PreferredMeetingType,
	})
	if err != nil {
		if errors.Is(err, pgrepo.ErrUserNotFound) {
			return pgrepo.UserRecord{}, ErrUserNotFound
		}
		return pgrepo.UserRecord{}, fmt.Errorf("update profile: %w", err)
	}
	return user, nil
}

type SkillInput struct {
	Name             string
	Type             enums.SkillType
	ProficiencyLevel enums.ProficiencyLevel
}

// AddSkill stores the skill under its normalized name so matching and
// trending see one canonical spelling.
func (s *Service) AddSkill(ctx context.Context, userID int64, in SkillInput) (pgrepo.SkillRecord, error) {
	if userID <= 0 {
		return pgrepo.SkillRecord{}, ErrValidation
	}
	name := rules.NormalizeSkill(in.Name)
	if name == "" {
		return pgrepo.SkillRecord{}, fmt.Errorf("%w: skill name is required", ErrValidation)
	}
	switch in.Type {
	case enums.SkillTypeTeach, enums.SkillTypeLearn:
	default:
		return pgrepo.SkillRecord{}, fmt.Errorf("%w: skill type", ErrValidation)
	}
	switch in.ProficiencyLevel {
	case enums.ProficiencyBeginner, enums.ProficiencyIntermediate, enums.ProficiencyAdvanced, enums.ProficiencyExpert:
	default:
		return pgrepo.SkillRecord{}, fmt.Errorf("%w: proficiencyLevel", ErrValidation)
	}

	existing, err := s.skills.ListByUser(ctx, userID)
	if err != nil {
		return pgrepo.SkillRecord{}, fmt.Errorf("list skills: %w", err)
	}
	if len(existing) >= maxSkillsPerUser {
		return pgrepo.SkillRecord{}, fmt.Errorf("%w: skill limit reached", ErrValidation)
	}

	rec, err := s.skills.Add(ctx, userID, name, string(in.Type), string(in.ProficiencyLevel), s.now())
	if err != nil {
		if errors.Is(err, pgrepo.ErrSkillExists) {
			return pgrepo.SkillRecord{}, ErrSkillExists
		}
		return pgrepo.SkillRecord{}, fmt.Errorf("add skill: %w", err)
	}
	return rec, nil
}

func (s *Service) RemoveSkill(ctx context.Context, userID, skillID int64) error {
	if userID <= 0 || skillID <= 0 {
		return ErrValidation
	}
	if err := s.skills.Delete(ctx, userID, skillID); err != nil {
		if errors.Is(err, pgrepo.ErrSkillNotFound) {
			return ErrSkillNotFound
		}
		return fmt.Errorf("remove skill: %w", err)
	}
	return nil
}

func validExperienceLevel(level string) bool {
	switch enums.ExperienceLevel(level) {
	case enums.ExperienceBeginner, enums.ExperienceIntermediate, enums.ExperienceAdvanced, enums.ExperienceExpert:
		return true
	default:
		return false
	}
}

func validMeetingType(meetingType string) bool {
	switch enums.MeetingType(meetingType) {
	case enums.MeetingTypeOnline, enums.MeetingTypeOffline, enums.MeetingTypeBoth:
		return true
	default:
		return false
	}
}
