package llm

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"maps"
	"strings"
)

// NormalizeAndSanitizeJSON
// - Renames known synonyms (certificate_number -> cert_no, expiry_date -> valid_date, ...)
// - Drops null/empty optionals
// - Lowercases the confidence label
// - Removes unknown keys (strict additionalProperties = false friendliness)
func NormalizeAndSanitizeJSON(raw []byte, logger *slog.Logger) ([]byte, []string, error) {
	if logger == nil {
		logger = slog.Default()
	}

	var m map[string]any
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil, nil, fmt.Errorf("sanitize: decode: %w", err)
	}

	dropped := make([]string, 0, 8)
	renamed := func(from, to string) {
		if v, ok := m[from]; ok {
			// don't overwrite an existing value if already present
			if _, exists := m[to]; !exists {
				m[to] = v
			}
			delete(m, from)
			dropped = append(dropped, from+"->"+to)
		}
	}

	// 1) rename synonyms the model likes to invent
	renamed("certificate_name", "cert_name")
	renamed("certificate_number", "cert_no")
	renamed("certificate_no", "cert_no")
	renamed("cert_number", "cert_no")
	renamed("expiry_date", "valid_date")
	renamed("valid_until", "valid_date")
	renamed("date_of_expiry", "valid_date")
	renamed("date_of_issue", "issue_date")
	renamed("issued_date", "issue_date")
	renamed("endorsement_date", "last_endorse_date")
	renamed("imo", "imo_number")
	renamed("imo_no", "imo_number")
	renamed("authority", "issuing_authority")
	renamed("issued_by", "issuing_authority")
	renamed("vessel_name", "ship_name")
	renamed("abbreviation", "cert_abbrev")

	// 2) normalize the confidence label
	if v, ok := m["confidence"]; ok {
		switch t := v.(type) {
		case string:
			s := strings.ToLower(strings.TrimSpace(t))
			if s == "high" || s == "medium" || s == "low" {
				m["confidence"] = s
			} else {
				delete(m, "confidence")
				dropped = append(dropped, "confidence(label)")
			}
		case float64:
			// numeric confidence: bucket it
			switch {
			case t >= 0.75:
				m["confidence"] = "high"
			case t >= 0.5:
				m["confidence"] = "medium"
			default:
				m["confidence"] = "low"
			}
		default:
			delete(m, "confidence")
			dropped = append(dropped, "confidence(type)")
		}
	}

	// 3) pull a bare 7-digit IMO out of label noise
	if v, ok := m["imo_number"].(string); ok {
		digits := strings.Map(func(r rune) rune {
			if r >= '0' && r <= '9' {
				return r
			}
			return -1
		}, v)
		if len(digits) == 7 {
			m["imo_number"] = digits
		} else {
			delete(m, "imo_number")
			dropped = append(dropped, "imo_number(shape)")
		}
	}

	// 4) remove unknown keys
	allowed := map[string]struct{}{
		"cert_name": {}, "cert_abbrev": {}, "cert_type": {}, "cert_no": {},
		"issue_date": {}, "valid_date": {}, "last_endorse_date": {},
		"next_survey_type": {}, "issuing_authority": {}, "ship_name": {},
		"imo_number": {}, "confidence": {},
	}
	for k := range maps.Clone(m) {
		if _, ok := allowed[k]; !ok {
			delete(m, k)
			dropped = append(dropped, k+"(unknown)")
		}
	}

	// 5) trim strings, drop empties
	for k := range maps.Clone(m) {
		if v, ok := m[k].(string); ok {
			s := strings.TrimSpace(v)
			if s == "" || strings.EqualFold(s, "null") || strings.EqualFold(s, "n/a") {
				delete(m, k)
				dropped = append(dropped, k+"(empty)")
			} else {
				m[k] = s
			}
		}
	}

	out, err := json.Marshal(m)
	if err != nil {
		return nil, dropped, fmt.Errorf("sanitize: encode: %w", err)
	}
	if len(dropped) > 0 {
		logger.Warn("llm.extract.normalize_sanitize", "dropped", dropped)
	}
	return out, dropped, nil
}
