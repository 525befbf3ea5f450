package services

import (
	"context"
	"math"

	"github.com/PascalSeth/trendiwear/app/models"
	"github.com/PascalSeth/trendiwear/pkg/apperr"
	"github.com/PascalSeth/trendiwear/pkg/collection"
	"github.com/PascalSeth/trendiwear/pkg/orm"
)

// AverageRating is the mean of ratings rounded to one decimal, 0 when empty.
func AverageRating(ratings []int) float64 {
	if len(ratings) == 0 {
		return 0
	}
	sum := collection.Reduce(ratings, 0, func(acc, r int) int { return acc + r })
	return math.Round(float64(sum)/float64(len(ratings))*10) / 10
}

type reviewRow struct {
	Target uint
	Rating int
}

type rating struct {
	Average float64
	Count   int64
}

// ratingsFor loads every review aimed at ids through column (product_id or
// professional_id) in one query and reduces them per target.
func ratingsFor(ctx context.Context, column string, ids []uint) (map[uint]rating, error) {
	out := make(map[uint]rating, len(ids))
	if len(ids) == 0 {
		return out, nil
	}

	var rows []reviewRow
	err := orm.WithContext(ctx).Model(&models.Review{}).
		Select(column+" AS target, rating").
		Where(column+" IN ?", ids).
		Scan(&rows)
	if err != nil {
		return nil, apperr.Internal(err)
	}

	grouped := collection.GroupBy(rows, func(r reviewRow) uint { return r.Target })
	for id, rs := range grouped {
		ratings := make([]int, len(rs))
		for i, r := range rs {
			ratings[i] = r.Rating
		}
		out[id] = rating{Average: AverageRating(ratings), Count: int64(len(ratings))}
	}
	return out, nil
}

func rateProducts(ctx context.Context, products []models.Product) error {
	ids := collection.Map(products, func(p models.Product) uint { return p.ID })
	r, err := ratingsFor(ctx, "product_id", ids)
	if err != nil {
		return err
	}
	for i := range products {
		products[i].AverageRating = r[products[i].ID].Average
		products[i].ReviewCount = r[products[i].ID].Count
	}
	return nil
}

func rateProfessionals(ctx context.Context, profiles []models.ProfessionalProfile) error {
	ids := collection.Map(profiles, func(p models.ProfessionalProfile) uint { return p.ID })
	r, err := ratingsFor(ctx, "professional_id", ids)
	if err != nil {
		return err
	}
	for i := range profiles {
		profiles[i].AverageRating = r[profiles[i].ID].Average
		profiles[i].ReviewCount = r[profiles[i].ID].Count
	}
	return nil
}
