package parser

import (
	"strconv"
	"strings"

	"github.com/pable/go-et-stats/internal/model"
)

// DecodeExtended decodes the tab-separated extended block. Between 36 and 38
// positions are written depending on the logger generation; positions are
// always read from the front, so extra trailing fields never shift the mapping.
func DecodeExtended(block string) (model.ExtendedStat, error) {
	var out model.ExtendedStat

	block = strings.TrimRight(block, "\r\n ")
	tokens := strings.Split(block, extendedSep)
	if block == "" {
		tokens = nil
	}
	if len(tokens) < model.ExtendedMinFields {
		return out, &FieldCountError{Block: "extended", Expected: model.ExtendedMinFields, Actual: len(tokens)}
	}

	n := min(len(tokens), model.ExtendedMaxFields)
	for _, f := range model.ExtendedFields[:n] {
		tok := strings.TrimSpace(tokens[f.Index])
		if f.Int != nil {
			v, err := parseInt(tok)
			if err != nil {
				return model.ExtendedStat{}, &NumericError{Field: f.Name, Index: f.Index, Value: tok}
			}
			*f.Int(&out) = v
			continue
		}
		v, err := strconv.ParseFloat(tok, 64)
		if err != nil {
			return model.ExtendedStat{}, &NumericError{Field: f.Name, Index: f.Index, Value: tok}
		}
		*f.Float(&out) = v
	}
	return out, nil
}

// parseInt accepts integral floats ("12.0"), which some logger builds write for counters.
func parseInt(tok string) (int, error) {
	v, err := strconv.Atoi(tok)
	if err == nil {
		return v, nil
	}
	f, ferr := strconv.ParseFloat(tok, 64)
	if ferr != nil || f != float64(int(f)) {
		return 0, err
	}
	return int(f), nil
}
