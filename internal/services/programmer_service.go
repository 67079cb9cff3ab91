package services

import (
	"context"
	"fmt"
	"strings"

	"chinook_crud/internal/models"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

var ErrNotFound = errors.New("programmer not found")

// ProgrammerStore is implemented by repositories.ProgrammerRepository.
type ProgrammerStore interface {
	Create(ctx context.Context, programmers ...*models.Programmer) error
	FindAll(ctx context.Context) ([]models.Programmer, error)
	FindByName(ctx context.Context, firstName, lastName string) (*models.Programmer, error)
	UpdateFamousFor(ctx context.Context, id int, famousFor string) (*models.Programmer, error)
	NormalizeGenders(ctx context.Context, fix func(p *models.Programmer) bool) (int, error)
	Delete(ctx context.Context, p *models.Programmer) error
}

// Prompter is the part of cli.Ui used by the interactive delete. cli.Ui
// implementations read each answer through a fresh bufio.Reader, so their
// input should already be a *bufio.Reader when several questions are asked.
type Prompter interface {
	Ask(query string) (string, error)
	Output(message string)
}

const (
	msgFirstName  = "Enter a first name:"
	msgLastName   = "Enter a last name:"
	msgFound      = "Programmer Found: %s"
	msgConfirm    = "Are you sure you want to delete this record? (y/n)"
	msgDeleted    = "Programmer has been deleted!"
	msgNotDeleted = "Programmer not deleted!"
	msgNoneFound  = "No records found"
	genderFemale  = "Female"
	genderMale    = "Male"
	genderUnknown = "Gender not defined"
)

// Pioneers returns the programmers the seed command inserts.
func Pioneers() []*models.Programmer {
	return []*models.Programmer{
		{FirstName: "Ada", LastName: "Lovelace", Gender: "F", Nationality: "British", FamousFor: "First Programmer"},
		{FirstName: "Alan", LastName: "Turing", Gender: "M", Nationality: "British", FamousFor: "Modern Computing"},
		{FirstName: "Grace", LastName: "Hopper", Gender: "F", Nationality: "American", FamousFor: "COBOL Language"},
		{FirstName: "Margaret", LastName: "Hamilton", Gender: "F", Nationality: "American", FamousFor: "Apollo 11"},
		{FirstName: "Bill", LastName: "Gates", Gender: "M", Nationality: "British", FamousFor: "Microsoft"},
		{FirstName: "Tim", LastName: "Berners-Lee", Gender: "M", Nationality: "British", FamousFor: "World Wide Web"},
		{FirstName: "Christiana", LastName: "Temiola", Gender: "F", Nationality: "Irish", FamousFor: "Python ORM Language"},
	}
}

type ProgrammerService struct {
	store ProgrammerStore
}

func NewProgrammerService(store ProgrammerStore) *ProgrammerService {
	return &ProgrammerService{store: store}
}

// Seed inserts the pioneers and returns them with their assigned ids.
func (s *ProgrammerService) Seed(ctx context.Context) ([]*models.Programmer, error) {
	programmers := Pioneers()
	if err := s.store.Create(ctx, programmers...); err != nil {
		return nil, err
	}
	log.WithField("count", len(programmers)).Info("Seeded programmers")
	return programmers, nil
}

func (s *ProgrammerService) List(ctx context.Context) ([]models.Programmer, error) {
	return s.store.FindAll(ctx)
}

// UpdateFamousFor changes one programmer's famous_for. A missing id is
// ErrNotFound.
func (s *ProgrammerService) UpdateFamousFor(ctx context.Context, id int, famousFor string) (*models.Programmer, error) {
	p, err := s.store.UpdateFamousFor(ctx, id, strings.TrimSpace(famousFor))
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, errors.Wrapf(ErrNotFound, "id %d", id)
	}
	return p, nil
}

// NormalizeGender maps the single-letter codes to words. ok is false for
// values it does not recognise, which are returned unchanged.
func NormalizeGender(gender string) (string, bool) {
	switch gender {
	case "F", genderFemale:
		return genderFemale, true
	case "M", genderMale:
		return genderMale, true
	default:
		return gender, false
	}
}

type NormalizeResult struct {
	Updated   int
	Undefined int
}

// NormalizeGenders rewrites F and M to Female and Male in one transaction.
// Running it again changes nothing.
func (s *ProgrammerService) NormalizeGenders(ctx context.Context) (NormalizeResult, error) {
	var res NormalizeResult
	updated, err := s.store.NormalizeGenders(ctx, func(p *models.Programmer) bool {
		gender, ok := NormalizeGender(p.Gender)
		if !ok {
			res.Undefined++
			log.WithFields(log.Fields{
				"id":     p.ID,
				"gender": p.Gender,
			}).Warn(genderUnknown)
			return false
		}
		if gender == p.Gender {
			return false
		}
		p.Gender = gender
		return true
	})
	if err != nil {
		return NormalizeResult{}, err
	}
	res.Updated = updated
	return res, nil
}

// DeleteByName looks the programmer up and deletes them after the user
// confirms with y. Empty names are asked for. It reports whether a row was
// deleted.
func (s *ProgrammerService) DeleteByName(ctx context.Context, firstName, lastName string, ui Prompter) (bool, error) {
	firstName, err := askIfEmpty(ui, firstName, msgFirstName)
	if err != nil {
		return false, err
	}
	lastName, err = askIfEmpty(ui, lastName, msgLastName)
	if err != nil {
		return false, err
	}

	p, err := s.store.FindByName(ctx, firstName, lastName)
	if err != nil {
		return false, err
	}
	if p == nil {
		ui.Output(msgNoneFound)
		return false, nil
	}

	ui.Output(fmt.Sprintf(msgFound, p.FullName()))
	answer, err := ui.Ask(msgConfirm)
	if err != nil {
		return false, errors.Wrap(err, "failed to read confirmation")
	}
	if !strings.EqualFold(strings.TrimSpace(answer), "y") {
		ui.Output(msgNotDeleted)
		return false, nil
	}

	if err := s.store.Delete(ctx, p); err != nil {
		return false, err
	}
	ui.Output(msgDeleted)
	return true, nil
}

func askIfEmpty(ui Prompter, value, question string) (string, error) {
	value = strings.TrimSpace(value)
	if value != "" {
		return value, nil
	}
	answer, err := ui.Ask(question)
	if err != nil {
		return "", errors.Wrap(err, "failed to read name")
	}
	return strings.TrimSpace(answer), nil
}
