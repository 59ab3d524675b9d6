package parser

import (
	"math/bits"
	"strconv"
	"strings"

	"github.com/pable/go-et-stats/internal/model"
)

const weaponTupleLen = 5

// DecodeWeapons decodes "mask h s k d hs [h s k d hs ...]". One tuple follows per
// set bit of mask, in ascending bit order. The token count must match exactly.
func DecodeWeapons(block string) ([]model.WeaponStat, error) {
	tokens := strings.Fields(block)
	if len(tokens) == 0 {
		return nil, &FieldCountError{Block: "weapons", Expected: 1, Actual: 0}
	}
	mask, err := strconv.ParseUint(tokens[0], 10, 64)
	if err != nil {
		return nil, &NumericError{Field: "weapon_mask", Index: 0, Value: tokens[0]}
	}

	expected := 1 + weaponTupleLen*bits.OnesCount64(mask)
	if len(tokens) != expected {
		return nil, &FieldCountError{Block: "weapons", Expected: expected, Actual: len(tokens)}
	}

	out := make([]model.WeaponStat, 0, bits.OnesCount64(mask))
	pos := 1
	for bit := 0; bit < 64; bit++ {
		if mask&(1<<uint(bit)) == 0 {
			continue
		}
		id := model.WeaponID(bit)
		var vals [weaponTupleLen]int
		for i := range vals {
			tok := tokens[pos+i]
			v, err := strconv.Atoi(tok)
			if err != nil {
				return nil, &NumericError{Field: id.String() + "." + tupleFields[i], Index: pos + i, Value: tok}
			}
			vals[i] = v
		}
		pos += weaponTupleLen
		out = append(out, model.WeaponStat{
			Weapon:    id,
			Hits:      vals[0],
			Shots:     vals[1],
			Kills:     vals[2],
			Deaths:    vals[3],
			Headshots: vals[4],
		})
	}
	return out, nil
}

var tupleFields = [weaponTupleLen]string{"hits", "shots", "kills", "deaths", "headshots"}
