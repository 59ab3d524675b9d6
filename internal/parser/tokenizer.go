package parser

import (
	"fmt"
	"strings"
)

const (
	fieldSep    = "\\"
	extendedSep = "\t"

	playerFields = 5
	headerFields = 7
)

// HeaderFields are the raw header tokens, sliced from the end of the line.
type HeaderFields struct {
	Banner     string
	MapName    string
	ConfigName string
	Round      string
	Defender   string
	Winner     string
	TimeLimit  string
	ActualTime string
}

// RawPlayerFields are the raw tokens of a player line.
type RawPlayerFields struct {
	GUID         string
	Name         string
	RoundsPlayed string
	Side         string
	WeaponBlock  string
	Extended     string
}

// TokenizeHeader splits the first line of a stats file. The banner is variable
// length and may contain the separator itself, so fields are taken from the end.
func TokenizeHeader(line string) (HeaderFields, error) {
	line = strings.TrimRight(line, "\r\n")
	parts := strings.Split(line, fieldSep)
	if len(parts) < headerFields {
		return HeaderFields{}, fmt.Errorf("%w: header has %d fields, need at least %d", ErrMalformedLine, len(parts), headerFields)
	}
	tail := parts[len(parts)-headerFields:]
	return HeaderFields{
		Banner:     strings.Join(parts[:len(parts)-headerFields], fieldSep),
		MapName:    strings.TrimSpace(tail[0]),
		ConfigName: strings.TrimSpace(tail[1]),
		Round:      strings.TrimSpace(tail[2]),
		Defender:   strings.TrimSpace(tail[3]),
		Winner:     strings.TrimSpace(tail[4]),
		TimeLimit:  strings.TrimSpace(tail[5]),
		ActualTime: strings.TrimSpace(tail[6]),
	}, nil
}

// TokenizePlayer splits a player line into its backslash fields, then splits the
// fifth field on the first tab into the weapon and extended blocks.
func TokenizePlayer(line string) (RawPlayerFields, error) {
	line = strings.TrimRight(line, "\r\n")
	parts := strings.SplitN(line, fieldSep, playerFields)
	if len(parts) < playerFields {
		return RawPlayerFields{}, fmt.Errorf("%w: player line has %d fields, need %d", ErrMalformedLine, len(parts), playerFields)
	}
	weapons, extended, ok := strings.Cut(parts[4], extendedSep)
	if !ok {
		return RawPlayerFields{}, ErrMissingExtendedBlock
	}
	return RawPlayerFields{
		GUID:         strings.TrimSpace(parts[0]),
		Name:         parts[1],
		RoundsPlayed: strings.TrimSpace(parts[2]),
		Side:         strings.TrimSpace(parts[3]),
		WeaponBlock:  strings.TrimSpace(weapons),
		Extended:     extended,
	}, nil
}
