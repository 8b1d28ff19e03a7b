// Package extraction turns a model reply into structured recommendations and
// the user-facing text that accompanies them.
package extraction

import (
	"bytes"
	"encoding/json"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/ecospirit/greenmap/internal/core/common"
	"github.com/ecospirit/greenmap/internal/core/model"
)

type Result struct {
	Text            string
	Recommendations []model.Recommendation
}

// Parse extracts recommendations from reply. When any are found the text is
// cleaned for display; otherwise it is the raw reply.
func Parse(reply string) Result {
	recs := Recommendations(reply)
	if len(recs) == 0 {
		return Result{Text: reply}
	}
	return Result{Text: CleanReply(reply), Recommendations: recs}
}

type payload struct {
	Recommendations []json.RawMessage `json:"recommendations"`
}

type entry struct {
	BuildingID flexNumber `json:"buildingId"`
	Reason     *string    `json:"reason"`
	Score      flexNumber `json:"score"`
}

// Recommendations decodes the first ```json block of reply. A missing block,
// malformed JSON or a non-array field yields nil. Entries without an integral
// buildingId are dropped.
func Recommendations(reply string) []model.Recommendation {
	body, ok := common.FencedJSON(reply)
	if !ok {
		return nil
	}

	var p payload
	if err := json.Unmarshal([]byte(body), &p); err != nil {
		return nil
	}

	var out []model.Recommendation
	for _, raw := range p.Recommendations {
		var e entry
		if err := json.Unmarshal(raw, &e); err != nil {
			continue
		}
		id, ok := e.BuildingID.int()
		if !ok {
			continue
		}
		rec := model.Recommendation{BuildingID: id}
		if e.Reason != nil {
			rec.Reason = *e.Reason
		}
		if e.Score.valid {
			rec.Score = e.Score.value
		}
		out = append(out, rec)
	}
	return out
}

var whitespace = regexp.MustCompile(`\s+`)

// CleanReply drops any ```json blocks, keeps the rest up to and including its
// first colon, collapses whitespace and trims.
func CleanReply(reply string) string {
	reply = common.StripFencedJSON(reply)
	if i := strings.IndexByte(reply, ':'); i >= 0 {
		reply = reply[:i+1]
	}
	reply = whitespace.ReplaceAllString(reply, " ")
	return strings.TrimSpace(reply)
}

// flexNumber accepts a JSON number or a numeric string. Anything else leaves
// it invalid without failing the surrounding decode.
type flexNumber struct {
	value float64
	valid bool
}

func (f *flexNumber) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return nil
		}
		data = []byte(strings.TrimSpace(s))
	}
	v, err := strconv.ParseFloat(string(data), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	f.value, f.valid = v, true
	return nil
}

func (f flexNumber) int() (int, bool) {
	if !f.valid || f.value != math.Trunc(f.value) {
		return 0, false
	}
	return int(f.value), true
}
