package repositories

import (
	"context"

	"chinook_crud/internal/models"

	"github.com/pkg/errors"
	"gorm.io/gorm"
)

type ProgrammerRepository struct {
	db *gorm.DB
}

func NewProgrammerRepository(db *gorm.DB) *ProgrammerRepository {
	return &ProgrammerRepository{db: db}
}

func (r *ProgrammerRepository) Create(ctx context.Context, programmers ...*models.Programmer) error {
	if len(programmers) == 0 {
		return nil
	}
	for _, p := range programmers {
		p.Prepare()
	}
	if err := r.db.WithContext(ctx).Create(programmers).Error; err != nil {
		return errors.Wrap(err, "failed to create programmers")
	}
	return nil
}

func (r *ProgrammerRepository) FindAll(ctx context.Context) ([]models.Programmer, error) {
	var programmers []models.Programmer
	if err := r.db.WithContext(ctx).Order("id").Find(&programmers).Error; err != nil {
		return nil, errors.Wrap(err, "failed to list programmers")
	}
	return programmers, nil
}

// FindByID returns nil, nil when no programmer has the id.
func (r *ProgrammerRepository) FindByID(ctx context.Context, id int) (*models.Programmer, error) {
	return findProgrammer(r.db.WithContext(ctx), map[string]any{"id": id})
}

// FindByName returns nil, nil when nobody matches both names.
func (r *ProgrammerRepository) FindByName(ctx context.Context, firstName, lastName string) (*models.Programmer, error) {
	return findProgrammer(r.db.WithContext(ctx), map[string]any{
		"first_name": firstName,
		"last_name":  lastName,
	})
}

// UpdateFamousFor locates the row by primary key and changes famous_for in
// one transaction. It returns nil, nil when the id does not exist.
func (r *ProgrammerRepository) UpdateFamousFor(ctx context.Context, id int, famousFor string) (*models.Programmer, error) {
	var updated *models.Programmer
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		p, err := findProgrammer(tx, map[string]any{"id": id})
		if err != nil || p == nil {
			return err
		}

		res := tx.Model(p).Update("famous_for", famousFor)
		if res.Error != nil {
			return errors.Wrap(res.Error, "failed to update programmer")
		}
		if res.RowsAffected != 1 {
			return errors.Errorf("expected to update 1 programmer, updated %d", res.RowsAffected)
		}
		p.FamousFor = famousFor
		updated = p
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// NormalizeGenders visits every programmer inside one transaction. fix
// mutates the record and reports whether it changed; changed records are
// written back. It returns the number of rows written.
func (r *ProgrammerRepository) NormalizeGenders(ctx context.Context, fix func(p *models.Programmer) bool) (int, error) {
	var updated int
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var programmers []models.Programmer
		if err := tx.Order("id").Find(&programmers).Error; err != nil {
			return errors.Wrap(err, "failed to list programmers")
		}

		for i := range programmers {
			p := &programmers[i]
			if !fix(p) {
				continue
			}
			if err := tx.Model(p).Update("gender", p.Gender).Error; err != nil {
				return errors.Wrapf(err, "failed to update gender of programmer %d", p.ID)
			}
			updated++
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return updated, nil
}

func (r *ProgrammerRepository) Delete(ctx context.Context, p *models.Programmer) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Delete(&models.Programmer{}, p.ID)
		if res.Error != nil {
			return errors.Wrap(res.Error, "failed to delete programmer")
		}
		if res.RowsAffected == 0 {
			return errors.Errorf("programmer %d no longer exists", p.ID)
		}
		return nil
	})
}

func findProgrammer(db *gorm.DB, where map[string]any) (*models.Programmer, error) {
	p, err := firstOf[models.Programmer](db, where)
	if err != nil {
		return nil, errors.Wrap(err, "failed to find programmer")
	}
	return p, nil
}
