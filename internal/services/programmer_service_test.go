package services

import (
	"bufio"
	"context"
	"errors"
	"strings"
	"testing"

	"chinook_crud/internal/models"

	"github.com/mitchellh/cli"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeStore struct {
	rows    []models.Programmer
	nextID  int
	deleted []int
	err     error
}

func (f *fakeStore) Create(_ context.Context, programmers ...*models.Programmer) error {
	if f.err != nil {
		return f.err
	}
	for _, p := range programmers {
		f.nextID++
		p.ID = f.nextID
		f.rows = append(f.rows, *p)
	}
	return nil
}

func (f *fakeStore) FindAll(context.Context) ([]models.Programmer, error) {
	return f.rows, f.err
}

func (f *fakeStore) FindByName(_ context.Context, first, last string) (*models.Programmer, error) {
	for i := range f.rows {
		if f.rows[i].FirstName == first && f.rows[i].LastName == last {
			p := f.rows[i]
			return &p, nil
		}
	}
	return nil, f.err
}

func (f *fakeStore) UpdateFamousFor(_ context.Context, id int, famousFor string) (*models.Programmer, error) {
	for i := range f.rows {
		if f.rows[i].ID == id {
			f.rows[i].FamousFor = famousFor
			p := f.rows[i]
			return &p, nil
		}
	}
	return nil, f.err
}

func (f *fakeStore) NormalizeGenders(_ context.Context, fix func(p *models.Programmer) bool) (int, error) {
	updated := 0
	for i := range f.rows {
		if fix(&f.rows[i]) {
			updated++
		}
	}
	return updated, f.err
}

func (f *fakeStore) Delete(_ context.Context, p *models.Programmer) error {
	f.deleted = append(f.deleted, p.ID)
	return f.err
}

func seeded(t *testing.T) (*ProgrammerService, *fakeStore) {
	t.Helper()
	store := &fakeStore{}
	svc := NewProgrammerService(store)
	_, err := svc.Seed(context.Background())
	require.NoError(t, err)
	return svc, store
}

func TestSeedInsertsPioneers(t *testing.T) {
	svc, _ := seeded(t)

	list, err := svc.List(context.Background())
	require.NoError(t, err)
	require.Len(t, list, 7)
	assert.Equal(t, []any{1, "Ada Lovelace", "F", "British", "First Programmer"}, list[0].Fields())
	assert.Equal(t, []any{7, "Christiana Temiola", "F", "Irish", "Python ORM Language"}, list[6].Fields())
}

func TestSeedPropagatesStoreError(t *testing.T) {
	svc := NewProgrammerService(&fakeStore{err: errors.New("boom")})
	_, err := svc.Seed(context.Background())
	assert.EqualError(t, err, "boom")
}

func TestUpdateFamousFor(t *testing.T) {
	svc, store := seeded(t)

	p, err := svc.UpdateFamousFor(context.Background(), 2, " World President ")
	require.NoError(t, err)
	assert.Equal(t, "World President", p.FamousFor)

	for _, row := range store.rows {
		if row.ID != 2 {
			assert.NotEqual(t, "World President", row.FamousFor)
		}
	}
}

func TestUpdateFamousForMissingID(t *testing.T) {
	svc, _ := seeded(t)

	_, err := svc.UpdateFamousFor(context.Background(), -1, "Nothing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestNormalizeGender(t *testing.T) {
	tests := []struct {
		in   string
		want string
		ok   bool
	}{
		{"F", "Female", true},
		{"M", "Male", true},
		{"Female", "Female", true},
		{"Male", "Male", true},
		{"X", "X", false},
		{"", "", false},
	}
	for _, tt := range tests {
		got, ok := NormalizeGender(tt.in)
		assert.Equal(t, tt.want, got, tt.in)
		assert.Equal(t, tt.ok, ok, tt.in)
	}
}

func TestNormalizeGendersIsIdempotent(t *testing.T) {
	svc, store := seeded(t)
	store.rows = append(store.rows, models.Programmer{ID: 8, FirstName: "Sam", Gender: "X"})

	res, err := svc.NormalizeGenders(context.Background())
	require.NoError(t, err)
	assert.Equal(t, NormalizeResult{Updated: 7, Undefined: 1}, res)
	assert.Equal(t, "Female", store.rows[0].Gender)
	assert.Equal(t, "Male", store.rows[1].Gender)
	assert.Equal(t, "X", store.rows[7].Gender)

	res, err = svc.NormalizeGenders(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, res.Updated)
}

func TestDeleteByNameConfirmed(t *testing.T) {
	for _, answer := range []string{"y\n", "Y\n", " y \n"} {
		svc, store := seeded(t)
		ui := cli.NewMockUi()
		ui.InputReader = strings.NewReader(answer)

		deleted, err := svc.DeleteByName(context.Background(), "Ada", "Lovelace", ui)
		require.NoError(t, err)
		assert.True(t, deleted)
		assert.Equal(t, []int{1}, store.deleted)

		out := ui.OutputWriter.String()
		assert.Contains(t, out, "Programmer Found: Ada Lovelace\n")
		assert.Contains(t, out, "Are you sure you want to delete this record? (y/n)")
		assert.Contains(t, out, "Programmer has been deleted!\n")
	}
}

func TestDeleteByNameDeclined(t *testing.T) {
	for _, answer := range []string{"n\n", "yes\n", "\n"} {
		svc, store := seeded(t)
		ui := cli.NewMockUi()
		ui.InputReader = strings.NewReader(answer)

		deleted, err := svc.DeleteByName(context.Background(), "Ada", "Lovelace", ui)
		require.NoError(t, err)
		assert.False(t, deleted)
		assert.Empty(t, store.deleted)
		assert.Contains(t, ui.OutputWriter.String(), "Programmer not deleted!\n")
	}
}

func TestDeleteByNameMissing(t *testing.T) {
	svc, store := seeded(t)
	ui := cli.NewMockUi()

	deleted, err := svc.DeleteByName(context.Background(), "Nobody", "Here", ui)
	require.NoError(t, err)
	assert.False(t, deleted)
	assert.Empty(t, store.deleted)
	assert.Equal(t, "No records found\n", ui.OutputWriter.String())
}

func TestDeleteByNameAsksForNames(t *testing.T) {
	svc, store := seeded(t)
	ui := cli.NewMockUi()
	ui.InputReader = bufio.NewReader(strings.NewReader("Ada\nLovelace\ny\n"))

	deleted, err := svc.DeleteByName(context.Background(), "", "", ui)
	require.NoError(t, err)
	assert.True(t, deleted)
	assert.Equal(t, []int{1}, store.deleted)

	out := ui.OutputWriter.String()
	assert.Contains(t, out, "Enter a first name:")
	assert.Contains(t, out, "Enter a last name:")
	assert.Contains(t, out, "Programmer Found: Ada Lovelace\n")
	assert.Contains(t, out, "Programmer has been deleted!\n")
}

func TestDeleteByNameAsksOnlyForMissingName(t *testing.T) {
	svc, store := seeded(t)
	ui := cli.NewMockUi()
	ui.InputReader = bufio.NewReader(strings.NewReader("Turing\nn\n"))

	deleted, err := svc.DeleteByName(context.Background(), "Alan", "", ui)
	require.NoError(t, err)
	assert.False(t, deleted)
	assert.Empty(t, store.deleted)

	out := ui.OutputWriter.String()
	assert.NotContains(t, out, "Enter a first name:")
	assert.Contains(t, out, "Programmer Found: Alan Turing\n")
	assert.Contains(t, out, "Programmer not deleted!\n")
}

func TestDeleteByNameInputClosed(t *testing.T) {
	svc, store := seeded(t)
	ui := cli.NewMockUi()
	ui.InputReader = bufio.NewReader(strings.NewReader(""))

	_, err := svc.DeleteByName(context.Background(), "", "", ui)
	assert.Error(t, err)
	assert.Empty(t, store.deleted)
}
