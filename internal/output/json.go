package output

import "encoding/json"

// JSONFormatter formats results as JSON Lines (one object per matched line).
type JSONFormatter struct{}

// NewJSONFormatter creates a JSONFormatter.
func NewJSONFormatter() *JSONFormatter {
	return &JSONFormatter{}
}

// jsonLine is the serialization format for a matched line.
type jsonLine struct {
	Type    string `json:"type"`
	File    string `json:"file,omitempty"`
	LineNum int    `json:"line_number"`
	Text    string `json:"text"`
}

// jsonCount is the serialization format for a per-file count.
type jsonCount struct {
	Type  string `json:"type"`
	File  string `json:"file,omitempty"`
	Count int    `json:"count"`
}

func (f *JSONFormatter) Format(buf []byte, result Result, multiFile bool) []byte {
	if len(result.Records) == 0 {
		if result.HasMatch() {
			data, _ := json.Marshal(jsonCount{
				Type:  "count",
				File:  result.FilePath,
				Count: result.MatchCount(),
			})
			buf = append(buf, data...)
			buf = append(buf, '\n')
		}
		return buf
	}

	for _, rec := range result.Records {
		data, _ := json.Marshal(jsonLine{
			Type:    "match",
			File:    result.FilePath,
			LineNum: rec.Line,
			Text:    rec.Text,
		})
		buf = append(buf, data...)
		buf = append(buf, '\n')
	}
	return buf
}

// Ensure JSONFormatter implements Formatter.
var _ Formatter = (*JSONFormatter)(nil)
