package settings

import (
	"encoding/json"
	"math"

	"github.com/five82/imgqueue/internal/imagefile"
)

// Default table, one validator per field:
//
//	destinationFolder     string              ""
//	outputFormat          png | jpg | webp    png
//	quality               integer 1..100      90
//	stripMetadata         bool                true
//	preserveTransparency  bool                true

// Coerce builds Settings from loosely typed fields. Missing or invalid fields
// take their default; valid fields are kept as given.
func Coerce(fields map[string]any) Settings {
	def := Defaults()
	return Settings{
		DestinationFolder:    coerceString(fields["destinationFolder"], def.DestinationFolder),
		OutputFormat:         coerceFormat(fields["outputFormat"], def.OutputFormat),
		Quality:              coerceQuality(fields["quality"], def.Quality),
		StripMetadata:        coerceBool(fields["stripMetadata"], def.StripMetadata),
		PreserveTransparency: coerceBool(fields["preserveTransparency"], def.PreserveTransparency),
	}
}

func coerceString(v any, fallback string) string {
	if s, ok := v.(string); ok {
		return s
	}
	return fallback
}

// coerceFormat accepts only the exact enum tags; aliases are a CLI nicety,
// not something persisted data may rely on.
func coerceFormat(v any, fallback imagefile.Format) imagefile.Format {
	s, ok := v.(string)
	if !ok {
		return fallback
	}
	f := imagefile.Format(s)
	if !f.Valid() {
		return fallback
	}
	return f
}

func coerceQuality(v any, fallback int) int {
	var q int64
	switch n := v.(type) {
	case json.Number:
		if parsed, err := n.Int64(); err == nil {
			q = parsed
			break
		}
		// 50.0 and 5e1 are integral numbers too.
		f, err := n.Float64()
		if err != nil {
			return fallback
		}
		integral, ok := integralFloat(f)
		if !ok {
			return fallback
		}
		q = integral
	case int:
		q = int64(n)
	case int64:
		q = n
	case float64:
		integral, ok := integralFloat(n)
		if !ok {
			return fallback
		}
		q = integral
	default:
		return fallback
	}
	if q < MinQuality || q > MaxQuality {
		return fallback
	}
	return int(q)
}

func integralFloat(f float64) (int64, bool) {
	if math.IsInf(f, 0) || math.IsNaN(f) || f != math.Trunc(f) {
		return 0, false
	}
	if f < math.MinInt64 || f >= math.MaxInt64 {
		return 0, false
	}
	return int64(f), true
}

func coerceBool(v any, fallback bool) bool {
	if b, ok := v.(bool); ok {
		return b
	}
	return fallback
}

func clampQuality(q int) int {
	if q < MinQuality {
		return MinQuality
	}
	if q > MaxQuality {
		return MaxQuality
	}
	return q
}
