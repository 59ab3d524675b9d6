// Package parser decodes round stats files written by the server's stats logger.
//
// A file is one header line followed by one line per player:
//
//	banner\map\config\round\defender\winner\timelimit\actualtime
//	guid\name\rounds\side\mask h s k d hs ...<TAB>dmg<TAB>dmgrecv<TAB>...
package parser

import (
	"bufio"
	"bytes"
	"crypto/sha256"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/klauspost/compress/zstd"

	"github.com/pable/go-et-stats/internal/model"
)

// maxLineSize bounds a single player line; names and stat arrays are short.
const maxLineSize = 64 * 1024

// ParseFile reads and decodes the stats file at path. Files ending in .zst are
// decompressed first. The sha256 of the decoded text is the idempotency key.
func ParseFile(path string) (*model.RoundFile, error) {
	info, err := ParseFileName(path)
	if err != nil {
		return nil, err
	}

	body, err := readFile(path)
	if err != nil {
		return nil, err
	}

	rf, err := Parse(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", info.Name, err)
	}

	h := sha256.Sum256(body)
	rf.Path = path
	rf.Hash = fmt.Sprintf("%x", h[:])
	rf.Info = info

	if rf.Header.Round != info.Round {
		slog.Warn("Header round differs from file name",
			slog.String("file", info.Name), slog.Int("header_round", rf.Header.Round), slog.Int("name_round", info.Round))
	}
	return rf, nil
}

func readFile(path string) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open stats file: %w", err)
	}
	defer f.Close()

	var r io.Reader = f
	if strings.HasSuffix(path, ".zst") {
		dec, err := zstd.NewReader(f)
		if err != nil {
			return nil, fmt.Errorf("open zstd stream: %w", err)
		}
		defer dec.Close()
		r = dec
	}

	body, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read stats file: %w", err)
	}
	return body, nil
}

// Parse decodes a stats file body. A bad header fails the whole file; a bad
// player line is recorded in LineErrors and decoding carries on.
func Parse(r io.Reader) (*model.RoundFile, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 4096), maxLineSize)

	rf := &model.RoundFile{}
	lineNo := 0
	haveHeader := false
	for sc.Scan() {
		lineNo++
		line := strings.TrimRight(sc.Text(), "\r")
		if !haveHeader {
			hdr, err := DecodeHeader(line)
			if err != nil {
				return nil, fmt.Errorf("header: %w", err)
			}
			rf.Header = hdr
			haveHeader = true
			continue
		}
		if strings.TrimSpace(line) == "" {
			continue
		}
		rec, err := DecodePlayer(line)
		if err != nil {
			rf.LineErrors = append(rf.LineErrors, model.LineError{Line: lineNo, Err: err})
			continue
		}
		rf.Records = append(rf.Records, rec)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("scan stats file: %w", err)
	}
	if !haveHeader {
		return nil, ErrEmptyFile
	}
	return rf, nil
}

// DecodeHeader decodes the first line of a stats file.
func DecodeHeader(line string) (model.MatchHeader, error) {
	f, err := TokenizeHeader(line)
	if err != nil {
		return model.MatchHeader{}, err
	}
	round, err := strconv.Atoi(f.Round)
	if err != nil {
		return model.MatchHeader{}, &NumericError{Field: "round", Index: 2, Value: f.Round}
	}
	if round != 1 && round != 2 {
		return model.MatchHeader{}, fmt.Errorf("%w: round must be 1 or 2, got %d", ErrMalformedLine, round)
	}
	defender, err := strconv.Atoi(f.Defender)
	if err != nil {
		return model.MatchHeader{}, &NumericError{Field: "defender_side", Index: 3, Value: f.Defender}
	}
	if defender != 1 && defender != 2 {
		return model.MatchHeader{}, fmt.Errorf("%w: defender side must be 1 or 2, got %d", ErrMalformedLine, defender)
	}
	winner, err := strconv.Atoi(f.Winner)
	if err != nil {
		return model.MatchHeader{}, &NumericError{Field: "winner_side", Index: 4, Value: f.Winner}
	}
	if winner < 0 || winner > 2 {
		return model.MatchHeader{}, fmt.Errorf("%w: winner side must be 0, 1 or 2, got %d", ErrMalformedLine, winner)
	}
	limit, err := ParseClock(f.TimeLimit)
	if err != nil {
		return model.MatchHeader{}, &NumericError{Field: "time_limit", Index: 5, Value: f.TimeLimit}
	}
	actual, err := ParseClock(f.ActualTime)
	if err != nil {
		return model.MatchHeader{}, &NumericError{Field: "actual_time", Index: 6, Value: f.ActualTime}
	}
	return model.MatchHeader{
		Banner:       f.Banner,
		MapName:      f.MapName,
		ConfigName:   f.ConfigName,
		Round:        round,
		DefenderSide: model.ParseSide(defender),
		WinnerSide:   model.ParseSide(winner),
		TimeLimit:    limit,
		ActualTime:   actual,
	}, nil
}

// DecodePlayer decodes one player line into a RoundRecord. Any failure rejects
// the whole line.
func DecodePlayer(line string) (model.RoundRecord, error) {
	f, err := TokenizePlayer(line)
	if err != nil {
		return model.RoundRecord{}, err
	}
	if f.GUID == "" {
		return model.RoundRecord{}, fmt.Errorf("%w: empty guid", ErrMalformedLine)
	}
	rounds, err := strconv.Atoi(f.RoundsPlayed)
	if err != nil {
		return model.RoundRecord{}, &NumericError{Field: "rounds_played", Index: 2, Value: f.RoundsPlayed}
	}
	side, err := strconv.Atoi(f.Side)
	if err != nil {
		return model.RoundRecord{}, &NumericError{Field: "side", Index: 3, Value: f.Side}
	}
	weapons, err := DecodeWeapons(f.WeaponBlock)
	if err != nil {
		return model.RoundRecord{}, err
	}
	ext, err := DecodeExtended(f.Extended)
	if err != nil {
		return model.RoundRecord{}, err
	}
	return model.RoundRecord{
		GUID:         f.GUID,
		Name:         f.Name,
		RoundsPlayed: rounds,
		Side:         model.ParseSide(side),
		Weapons:      weapons,
		Extended:     ext,
	}, nil
}

// ParseClock parses "MM:SS" (or "M:SS") and plain decimal minutes ("7.45").
func ParseClock(s string) (time.Duration, error) {
	s = strings.TrimSpace(s)
	if mins, secs, ok := strings.Cut(s, ":"); ok {
		m, err := strconv.Atoi(mins)
		if err != nil || m < 0 {
			return 0, fmt.Errorf("%w: clock %q", ErrNumericParse, s)
		}
		sec, err := strconv.Atoi(secs)
		if err != nil || sec < 0 || sec >= 60 {
			return 0, fmt.Errorf("%w: clock %q", ErrNumericParse, s)
		}
		return time.Duration(m)*time.Minute + time.Duration(sec)*time.Second, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || f < 0 {
		return 0, fmt.Errorf("%w: clock %q", ErrNumericParse, s)
	}
	return time.Duration(f * float64(time.Minute)).Round(time.Second), nil
}
