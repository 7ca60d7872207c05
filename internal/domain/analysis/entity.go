package analysis

import (
	"bytes"
	"encoding/json"

	"github.com/bryanwahyu/textlens/internal/domain/ai"
)

// Area enum
type Area string

const (
	AreaWeakness        Area = "weakness"
	AreaStrength        Area = "strength"
	AreaImprovements    Area = "improvements"
	AreaRecommendations Area = "recommendations"
)

var areas = [...]Area{AreaWeakness, AreaStrength, AreaImprovements, AreaRecommendations}

// Areas returns the fixed analysis areas in response order.
func Areas() []Area {
	out := make([]Area, len(areas))
	copy(out, areas[:])
	return out
}

// Request is the body accepted by /analyze and /get_tag.
type Request struct {
	Text string `json:"text"`
}

// Report maps every area to its inference outcome.
type Report map[Area]ai.Outcome

// MarshalJSON writes the areas in their fixed order.
func (r Report) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	first := true
	for _, area := range areas {
		outcome, ok := r[area]
		if !ok {
			continue
		}
		if !first {
			buf.WriteByte(',')
		}
		first = false

		key, err := json.Marshal(string(area))
		if err != nil {
			return nil, err
		}
		val, err := json.Marshal(outcome)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
