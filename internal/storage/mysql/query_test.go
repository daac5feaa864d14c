package mysql_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"inhotel/internal/domain"
	mysqlrepo "inhotel/internal/storage/mysql"
)

func filter(t *testing.T, search, country, min, max string) domain.HotelFilter {
	t.Helper()
	f, err := domain.NewHotelFilter(search, country, min, max)
	require.NoError(t, err)
	return f
}

func TestBuildHotelQuery_NoFilter(t *testing.T) {
	q, args, err := mysqlrepo.BuildHotelQuery(domain.HotelFilter{})
	require.NoError(t, err)

	assert.Contains(t, q, "FROM `hotels`")
	assert.NotContains(t, q, "WHERE")
	assert.Contains(t, q, "ORDER BY `hotelName` ASC, `country` ASC")
	assert.Empty(t, args)
}

func TestBuildHotelQuery_SearchOnly(t *testing.T) {
	q, args, err := mysqlrepo.BuildHotelQuery(filter(t, "Grand", "", "", ""))
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(q, "SELECT `hid` FROM `hotels` WHERE"), q)
	assert.Contains(t, q, "`hotelName` LIKE ?")
	assert.NotContains(t, q, "BINARY")
	assert.NotContains(t, q, "country")
	assert.NotContains(t, q, "price_per_night")
	assert.Contains(t, q, "ORDER BY `hid` ASC")
	assert.Equal(t, []any{"%Grand%"}, args)
}

func TestBuildHotelQuery_AllPredicates(t *testing.T) {
	q, args, err := mysqlrepo.BuildHotelQuery(filter(t, "Inn", "Japan", "50", "300"))
	require.NoError(t, err)

	assert.Contains(t, q, "`hotelName` LIKE ?")
	assert.Contains(t, q, "LOWER(`country`) = LOWER(?)")
	assert.Contains(t, q, "`price_per_night` >= ?")
	assert.Contains(t, q, "`price_per_night` <= ?")
	assert.Equal(t, 3, strings.Count(q, " AND "))
	assert.Contains(t, q, "ORDER BY `hid` ASC")
	assert.Equal(t, []any{"%Inn%", "Japan", int64(50), int64(300)}, args)
}

func TestBuildHotelQuery_NeverInterpolatesInput(t *testing.T) {
	evil := "x'; DROP TABLE hotels; --"
	q, args, err := mysqlrepo.BuildHotelQuery(filter(t, evil, evil, "", ""))
	require.NoError(t, err)

	assert.NotContains(t, q, "DROP TABLE")
	assert.Equal(t, []any{"%" + evil + "%", evil}, args)
}

func TestBuildHotelQuery_PriceRangeOnly(t *testing.T) {
	q, args, err := mysqlrepo.BuildHotelQuery(filter(t, "", "", "", "120"))
	require.NoError(t, err)

	assert.Contains(t, q, "`price_per_night` <= ?")
	assert.NotContains(t, q, ">=")
	assert.NotContains(t, q, "LIKE")
	assert.Equal(t, []any{int64(120)}, args)
}
