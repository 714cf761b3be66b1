package chart

import (
	"errors"
	"fmt"

	"github.com/user/energy-chart-go/internal/models"
)

var (
	// ErrMixedCategories is returned when only some rows carry a category.
	ErrMixedCategories = errors.New("some rows have a category and some do not")
	// ErrUnevenBlocks is returned when uncategorized rows cannot be split
	// into three equal contiguous blocks.
	ErrUnevenBlocks = errors.New("rows do not split into three equal category blocks")
)

// BuildStacks keys the flat rows by year. Rows with an explicit category are
// keyed directly. Rows without one follow the dataset's layout: three
// contiguous blocks of equal length (nuclear, fossil fuel, renewable) that
// list the same years in the same order.
func BuildStacks(rows []models.DataRow) ([]models.YearStack, error) {
	labelled := 0
	for _, r := range rows {
		if r.Category != "" {
			labelled++
		}
	}
	switch {
	case labelled == 0:
		var err error
		rows, err = inferCategories(rows)
		if err != nil {
			return nil, err
		}
	case labelled != len(rows):
		return nil, ErrMixedCategories
	}

	var stacks []models.YearStack
	byYear := make(map[int]int)
	for _, r := range rows {
		if r.Category.Index() < 0 {
			return nil, fmt.Errorf("year %d: unknown category %q", r.Year, r.Category)
		}
		i, ok := byYear[r.Year]
		if !ok {
			i = len(stacks)
			byYear[r.Year] = i
			stacks = append(stacks, models.YearStack{
				Year:    r.Year,
				Entries: make(map[models.Category]*models.StackEntry, len(models.Categories)),
			})
		}
		if stacks[i].Entries[r.Category] != nil {
			return nil, fmt.Errorf("year %d: duplicate %s row", r.Year, r.Category)
		}
		stacks[i].Entries[r.Category] = &models.StackEntry{
			Consumption:       r.Consumption,
			ScaledConsumption: r.ScaledConsumption,
		}
	}
	return stacks, nil
}

func inferCategories(rows []models.DataRow) ([]models.DataRow, error) {
	blocks := len(models.Categories)
	if len(rows) == 0 || len(rows)%blocks != 0 {
		return nil, fmt.Errorf("%w: got %d rows", ErrUnevenBlocks, len(rows))
	}
	size := len(rows) / blocks

	out := make([]models.DataRow, len(rows))
	for i, r := range rows {
		block := i / size
		if want := rows[i%size].Year; r.Year != want {
			return nil, fmt.Errorf("%s block row %d has year %d, expected %d",
				models.Categories[block], i%size, r.Year, want)
		}
		r.Category = models.Categories[block]
		out[i] = r
	}
	return out, nil
}
