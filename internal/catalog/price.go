package catalog

import (
	"bytes"
	"math"
	"strconv"
)

// Price is a money amount the store may encode as a JSON number, a numeric
// string, or null. Unparsable values decode to zero instead of failing so
// cart totals stay computable over malformed records.
type Price float64

func (p *Price) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)

	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		*p = 0
		return nil
	}

	raw := string(b)
	if len(raw) >= 2 && raw[0] == '"' && raw[len(raw)-1] == '"' {
		raw = raw[1 : len(raw)-1]
	}

	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		*p = 0
		return nil
	}

	*p = Price(v)
	return nil
}

func (p *Price) Float64() float64 {
	if p == nil {
		return 0
	}
	return float64(*p)
}
