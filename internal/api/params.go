package api

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/mr1hm/go-disaster-dashboard/internal/aggregate"
	"github.com/mr1hm/go-disaster-dashboard/internal/filter"
)

// parseFilter reads the filter parameters of a request.
//
//	year_from, year_to  closed year range; one side alone leaves the other open
//	type (repeated)     absent selects every type; "type=" selects none
//	city (repeated)     absent or blank selects every row
func parseFilter(c *gin.Context) (filter.Params, error) {
	var p filter.Params

	from, hasFrom, err := queryInt(c, "year_from")
	if err != nil {
		return p, err
	}
	to, hasTo, err := queryInt(c, "year_to")
	if err != nil {
		return p, err
	}
	if hasFrom || hasTo {
		r := &filter.YearRange{From: math.MinInt, To: math.MaxInt}
		if hasFrom {
			r.From = from
		}
		if hasTo {
			r.To = to
		}
		p.Years = r
	}

	if types, ok := c.GetQueryArray("type"); ok {
		p.Types = nonBlank(types)
	}
	if cities, ok := c.GetQueryArray("city"); ok {
		p.Cities = nonBlank(cities)
	}

	return p, p.Validate()
}

func parseDashboardOptions(c *gin.Context, defaultTop int) (aggregate.Options, error) {
	dim, err := aggregate.ParseDimension(c.Query("group_by"))
	if err != nil {
		return aggregate.Options{}, err
	}
	top := defaultTop
	if n, ok, err := queryInt(c, "top"); err != nil {
		return aggregate.Options{}, err
	} else if ok {
		if n < 0 {
			return aggregate.Options{}, fmt.Errorf("invalid top: %d", n)
		}
		top = n
	}
	return aggregate.Options{GroupBy: dim, TopLocations: top}, nil
}

func queryInt(c *gin.Context, key string) (int, bool, error) {
	raw := strings.TrimSpace(c.Query(key))
	if raw == "" {
		return 0, false, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, false, fmt.Errorf("invalid %s: %q", key, raw)
	}
	return n, true, nil
}

// nonBlank keeps the non-empty values and never returns nil.
func nonBlank(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}
