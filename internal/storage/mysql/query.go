package mysql

import (
	"fmt"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/mysql"
	"github.com/doug-martin/goqu/v9/exp"

	"inhotel/internal/domain"
)

var dialect = goqu.Dialect("mysql")

var hotelColumns = []any{"hid", "hotelName", "country", "price_per_night", "imageSrc"}

// BuildHotelQuery turns a filter into a parameterized SELECT.
//
// Without predicates it lists every hotel ordered by name then country.
// With predicates it returns only matching hids, ordered by hid. User input
// only ever travels in args.
func BuildHotelQuery(f domain.HotelFilter) (string, []any, error) {
	ds := dialect.From("hotels").Prepared(true)

	preds := f.Predicates()
	if len(preds) == 0 {
		return ds.Select(hotelColumns...).
			Order(goqu.C("hotelName").Asc(), goqu.C("country").Asc()).
			ToSQL()
	}

	where := make([]exp.Expression, 0, len(preds))
	for _, p := range preds {
		e, err := predicateExpr(p)
		if err != nil {
			return "", nil, err
		}
		where = append(where, e)
	}
	return ds.Select("hid").
		Where(where...).
		Order(goqu.C("hid").Asc()).
		ToSQL()
}

func predicateExpr(p domain.Predicate) (exp.Expression, error) {
	switch v := p.(type) {
	case domain.NameLike:
		// ILike renders as plain LIKE in the mysql dialect, so the column
		// collation decides case sensitivity.
		return goqu.C("hotelName").ILike("%" + v.Term + "%"), nil
	case domain.CountryEq:
		return goqu.Func("LOWER", goqu.C("country")).Eq(goqu.Func("LOWER", v.Country)), nil
	case domain.PriceGte:
		return goqu.C("price_per_night").Gte(v.Min), nil
	case domain.PriceLte:
		return goqu.C("price_per_night").Lte(v.Max), nil
	default:
		return nil, fmt.Errorf("unknown hotel predicate %T", p)
	}
}
