package record

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// Metadata is the optional per-DOI side-file document.
// Every field is optional; missing fields render as empty strings.
type Metadata struct {
	Title              FlexibleText `json:"title"`
	Abstract           FlexibleText `json:"abstract"`
	PrimaryInstitution FlexibleText `json:"primary_institution"`
	Keywords           FlexibleText `json:"keywords"`
	FundingAgencies    FlexibleText `json:"funding_agencies"`
	Acknowledgement    FlexibleText `json:"acknowledgement"`
	OpenAccess         FlexibleText `json:"open_access"`
}

// OpenAccessText returns the open-access flag as "True" or "False".
// A missing flag reads as "False".
func (m Metadata) OpenAccessText() string {
	switch strings.ToLower(m.OpenAccess.String()) {
	case "true", "1", "yes":
		return "True"
	default:
		return "False"
	}
}

// FlexibleText can unmarshal from any JSON value.
// Lists are joined with ", ", booleans render as True/False, objects render
// as compact JSON, null is empty.
type FlexibleText string

func (f *FlexibleText) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || string(data) == "null" {
		*f = ""
		return nil
	}

	switch data[0] {
	case '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = FlexibleText(s)
		return nil
	case '[':
		var items []FlexibleText
		if err := json.Unmarshal(data, &items); err != nil {
			return err
		}
		parts := make([]string, 0, len(items))
		for _, item := range items {
			parts = append(parts, item.String())
		}
		*f = FlexibleText(strings.Join(parts, ", "))
		return nil
	case 't', 'f':
		var b bool
		if err := json.Unmarshal(data, &b); err != nil {
			return err
		}
		if b {
			*f = "True"
		} else {
			*f = "False"
		}
		return nil
	case '{':
		var buf bytes.Buffer
		if err := json.Compact(&buf, data); err != nil {
			return err
		}
		*f = FlexibleText(buf.String())
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("cannot unmarshal %s into FlexibleText", string(data))
	}
	*f = FlexibleText(n.String())
	return nil
}

func (f FlexibleText) String() string {
	return string(f)
}
