package source

import (
	"encoding/json"
	"errors"
	"math"
	"time"

	"horizonx-gauge/internal/domain"
)

var ErrInvalidPayload = errors.New("metrics payload is not a json object")

type wirePoint struct {
	X json.RawMessage `json:"x"`
	Y json.RawMessage `json:"y"`
}

/*
DecodeSnapshot parses a "latest value" metrics response:

	{
	  "cpu":     {"cpu0": {"user": [{"x": 1700000000, "y": 30}], "system": [...]}},
	  "sysinfo": {"cpu": {"cores": 2}}
	}

Only a body that is not a JSON object fails. Any part with an unexpected
shape is dropped: a bad processor has no series, a bad series has no points,
a point whose y is not a number has no value and an unusable core count is
unknown. The x timestamp never affects the value.
*/
func DecodeSnapshot(body []byte) (*domain.MetricsSnapshot, error) {
	var top map[string]json.RawMessage
	if err := json.Unmarshal(body, &top); err != nil || top == nil {
		return nil, ErrInvalidPayload
	}

	return &domain.MetricsSnapshot{
		CPU:       decodeCPU(top["cpu"]),
		CoreCount: decodeCores(top["sysinfo"]),
	}, nil
}

func decodeCPU(raw json.RawMessage) domain.CPUSnapshot {
	snapshot := domain.CPUSnapshot{}

	var processors map[string]json.RawMessage
	if err := json.Unmarshal(raw, &processors); err != nil {
		return snapshot
	}

	for name, rawSeries := range processors {
		snapshot[name] = decodeSeries(rawSeries)
	}

	return snapshot
}

func decodeSeries(raw json.RawMessage) domain.Series {
	series := domain.Series{}

	var named map[string]json.RawMessage
	if err := json.Unmarshal(raw, &named); err != nil {
		return series
	}

	for name, rawPoints := range named {
		var points []json.RawMessage
		if err := json.Unmarshal(rawPoints, &points); err != nil {
			series[name] = nil
			continue
		}

		decoded := make([]domain.SamplePoint, len(points))
		for i, p := range points {
			decoded[i] = decodePoint(p)
		}
		series[name] = decoded
	}

	return series
}

func decodePoint(raw json.RawMessage) domain.SamplePoint {
	var wp wirePoint
	if err := json.Unmarshal(raw, &wp); err != nil {
		return domain.SamplePoint{}
	}

	point := domain.SamplePoint{At: decodeTimestamp(wp.X)}

	var y *float64
	if err := json.Unmarshal(wp.Y, &y); err == nil {
		point.Value = y
	}

	return point
}

// decodeTimestamp accepts unix seconds or an RFC 3339 string.
func decodeTimestamp(raw json.RawMessage) *time.Time {
	var secs *float64
	if err := json.Unmarshal(raw, &secs); err == nil && secs != nil {
		at := time.Unix(int64(*secs), 0).UTC()
		return &at
	}

	var text string
	if err := json.Unmarshal(raw, &text); err == nil {
		if at, err := time.Parse(time.RFC3339, text); err == nil {
			at = at.UTC()
			return &at
		}
	}

	return nil
}

func decodeCores(raw json.RawMessage) *int {
	var sysinfo struct {
		CPU json.RawMessage `json:"cpu"`
	}
	if err := json.Unmarshal(raw, &sysinfo); err != nil {
		return nil
	}

	var cpu struct {
		Cores *float64 `json:"cores"`
	}
	if err := json.Unmarshal(sysinfo.CPU, &cpu); err != nil || cpu.Cores == nil {
		return nil
	}

	c := *cpu.Cores
	if c < 0 || c > domain.MaxCoreCount || c != math.Trunc(c) {
		return nil
	}

	n := int(c)
	return &n
}
