package parser

import (
	"errors"
	"fmt"
	"math/bits"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/klauspost/compress/zstd"
	"github.com/stretchr/testify/require"

	"github.com/pable/go-et-stats/internal/model"
)

// extBlock builds an extended block of n fields; field i holds i unless overridden.
func extBlock(n int, overrides map[int]string) string {
	fields := make([]string, n)
	for i := range fields {
		fields[i] = fmt.Sprintf("%d", i)
		if v, ok := overrides[i]; ok {
			fields[i] = v
		}
	}
	return strings.Join(fields, "\t")
}

func playerLine(guid, name string, side int, weapons string, ext string) string {
	return fmt.Sprintf("%s\\%s\\1\\%d\\%s\t%s", guid, name, side, weapons, ext)
}

const testHeader = `^7ET ^1server\with\slashes\supply\legacy6\1\2\1\10:00\7:27`

func TestTokenizeHeaderSlicesFromEnd(t *testing.T) {
	f, err := TokenizeHeader(testHeader)
	require.NoError(t, err)
	require.Equal(t, `^7ET ^1server\with\slashes`, f.Banner)
	require.Equal(t, "supply", f.MapName)
	require.Equal(t, "legacy6", f.ConfigName)
	require.Equal(t, "1", f.Round)
	require.Equal(t, "2", f.Defender)
	require.Equal(t, "1", f.Winner)
	require.Equal(t, "10:00", f.TimeLimit)
	require.Equal(t, "7:27", f.ActualTime)

	_, err = TokenizeHeader(`map\cfg\1\2`)
	require.ErrorIs(t, err, ErrMalformedLine)
}

func TestTokenizePlayer(t *testing.T) {
	f, err := TokenizePlayer(playerLine("ABCD1234", "pläyer", 2, "0", "1\t2\t3"))
	require.NoError(t, err)
	require.Equal(t, "ABCD1234", f.GUID)
	require.Equal(t, "pläyer", f.Name)
	require.Equal(t, "2", f.Side)
	require.Equal(t, "0", f.WeaponBlock)
	require.Equal(t, "1\t2\t3", f.Extended)

	_, err = TokenizePlayer(`ABCD1234\name\1\2`)
	require.ErrorIs(t, err, ErrMalformedLine)

	_, err = TokenizePlayer(`ABCD1234\name\1\2\0 `)
	require.ErrorIs(t, err, ErrMissingExtendedBlock)
}

func TestDecodeWeaponsShortBlock(t *testing.T) {
	// mask 0b101: bits 0 and 2, needs 1 + 5*2 = 11 tokens.
	_, err := DecodeWeapons("5 1 2 3 4 5 6 7 8 9")
	require.ErrorIs(t, err, ErrFieldCountMismatch)

	var fce *FieldCountError
	require.True(t, errors.As(err, &fce))
	require.Equal(t, 11, fce.Expected)
	require.Equal(t, 10, fce.Actual)
}

func TestDecodeWeaponsTokenCountLaw(t *testing.T) {
	for _, mask := range []uint64{0, 1, 5, 0x3ff, 1<<27 | 1, 0xfffffff} {
		n := bits.OnesCount64(mask)
		tokens := []string{fmt.Sprintf("%d", mask)}
		for i := 0; i < 5*n; i++ {
			tokens = append(tokens, fmt.Sprintf("%d", i))
		}

		ws, err := DecodeWeapons(strings.Join(tokens, " "))
		require.NoError(t, err, "mask %d", mask)
		require.Len(t, ws, n)

		// One more or one fewer token is always detected.
		_, err = DecodeWeapons(strings.Join(append(tokens, "9"), " "))
		require.ErrorIs(t, err, ErrFieldCountMismatch)
		if len(tokens) > 1 {
			_, err = DecodeWeapons(strings.Join(tokens[:len(tokens)-1], " "))
			require.ErrorIs(t, err, ErrFieldCountMismatch)
		}
	}
}

func TestDecodeWeaponsAscendingBits(t *testing.T) {
	ws, err := DecodeWeapons("20 3 10 1 0 1 7 20 2 1 0")
	require.NoError(t, err)
	require.Len(t, ws, 2)
	require.Equal(t, model.WeaponStat{Weapon: 2, Hits: 3, Shots: 10, Kills: 1, Deaths: 0, Headshots: 1}, ws[0])
	require.Equal(t, model.WeaponStat{Weapon: 4, Hits: 7, Shots: 20, Kills: 2, Deaths: 1, Headshots: 0}, ws[1])
	require.Equal(t, "luger", ws[0].Weapon.String())
	require.Equal(t, "mp40", ws[1].Weapon.String())
}

func TestDecodeWeaponsNonNumeric(t *testing.T) {
	_, err := DecodeWeapons("1 1 x 1 1 1")
	require.ErrorIs(t, err, ErrNumericParse)

	_, err = DecodeWeapons("abc")
	require.ErrorIs(t, err, ErrNumericParse)
}

func TestDecodeExtendedFieldCounts(t *testing.T) {
	tests := []struct {
		n       int
		wantErr bool
	}{
		{35, true},
		{36, false},
		{37, false},
		{38, false},
		{40, false},
	}
	for _, tc := range tests {
		t.Run(fmt.Sprintf("%d_fields", tc.n), func(t *testing.T) {
			ext, err := DecodeExtended(extBlock(tc.n, nil))
			if tc.wantErr {
				var fce *FieldCountError
				require.ErrorAs(t, err, &fce)
				require.Equal(t, 36, fce.Expected)
				require.Equal(t, tc.n, fce.Actual)
				return
			}
			require.NoError(t, err)
			// Front-anchored mapping: index i always decodes to value i.
			require.Equal(t, 0, ext.DamageGiven)
			require.Equal(t, 9, ext.XP)
			require.Equal(t, 14, ext.HeadshotKills)
			require.InDelta(t, 21.0, ext.DPM, 1e-9)
			require.Equal(t, 35, ext.FullSelfKills)
			if tc.n >= 37 {
				require.Equal(t, 36, ext.RepairsConstructions)
			} else {
				require.Zero(t, ext.RepairsConstructions)
			}
			if tc.n >= 38 {
				require.Equal(t, 37, ext.RevivesGiven)
			}
		})
	}
}

func TestDecodeExtendedNumericFailure(t *testing.T) {
	_, err := DecodeExtended(extBlock(36, map[int]string{12: "n/a"}))
	var ne *NumericError
	require.ErrorAs(t, err, &ne)
	require.Equal(t, "kill_assists", ne.Field)
	require.Equal(t, 12, ne.Index)

	// An empty last field keeps its position.
	_, err = DecodeExtended(extBlock(36, map[int]string{35: ""}))
	require.ErrorIs(t, err, ErrNumericParse)
	require.ErrorAs(t, err, &ne)
	require.Equal(t, "full_selfkills", ne.Field)
	require.Equal(t, 35, ne.Index)

	_, err = DecodePlayer(playerLine("AAAA0001", "alpha", 1, "0", extBlock(36, map[int]string{35: ""})+"\r"))
	require.ErrorIs(t, err, ErrNumericParse)

	ext, err := DecodeExtended(extBlock(36, map[int]string{8: "87.5", 9: "120.0"}))
	require.NoError(t, err)
	require.InDelta(t, 87.5, ext.TimePlayedPercent, 1e-9)
	require.Equal(t, 120, ext.XP)
}

func TestParseKeepsGoodLines(t *testing.T) {
	body := strings.Join([]string{
		testHeader,
		playerLine("AAAA0001", "alpha", 1, "1 5 10 2 1 1", extBlock(38, nil)),
		playerLine("AAAA0002", "bravo", 2, "5 1 2 3 4 5 6 7 8 9", extBlock(38, nil)),
		"",
		playerLine("AAAA0003", "charlie", 2, "0", extBlock(37, nil)),
		`AAAA0004\broken`,
	}, "\r\n")

	rf, err := Parse(strings.NewReader(body))
	require.NoError(t, err)
	require.Equal(t, "supply", rf.Header.MapName)
	require.Equal(t, 1, rf.Header.Round)
	require.Equal(t, model.SideAllies, rf.Header.DefenderSide)
	require.Equal(t, model.SideAxis, rf.Header.WinnerSide)
	require.Equal(t, model.SideAxis, rf.Header.AttackerSide())
	require.Equal(t, 10*time.Minute, rf.Header.TimeLimit)
	require.Equal(t, 7*time.Minute+27*time.Second, rf.Header.ActualTime)

	require.Len(t, rf.Records, 2)
	require.Equal(t, "AAAA0001", rf.Records[0].GUID)
	require.Equal(t, 2, rf.Records[0].Kills())
	require.Equal(t, "AAAA0003", rf.Records[1].GUID)

	require.Len(t, rf.LineErrors, 2)
	require.Equal(t, 3, rf.LineErrors[0].Line)
	require.ErrorIs(t, rf.LineErrors[0], ErrFieldCountMismatch)
	require.Equal(t, 6, rf.LineErrors[1].Line)
	require.ErrorIs(t, rf.LineErrors[1], ErrMalformedLine)
}

func TestParseBadHeaderFailsFile(t *testing.T) {
	_, err := Parse(strings.NewReader("garbage\n" + playerLine("A", "a", 1, "0", extBlock(36, nil))))
	require.ErrorIs(t, err, ErrMalformedLine)

	_, err = Parse(strings.NewReader(`srv\supply\cfg\3\1\2\10:00\5:00`))
	require.ErrorIs(t, err, ErrMalformedLine)

	_, err = Parse(strings.NewReader(""))
	require.ErrorIs(t, err, ErrEmptyFile)
}

func TestDecodeHeaderSides(t *testing.T) {
	tests := []struct {
		name     string
		defender string
		winner   string
		wantErr  bool
	}{
		{"axis defends", "1", "2", false},
		{"allies defends", "2", "1", false},
		{"no winner", "2", "0", false},
		{"defender zero", "0", "1", true},
		{"defender spectator", "3", "1", true},
		{"defender out of range", "7", "1", true},
		{"winner spectator", "1", "3", true},
		{"winner negative", "1", "-1", true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			h, err := DecodeHeader(fmt.Sprintf(`srv\supply\cfg\1\%s\%s\10:00\3:51`, tc.defender, tc.winner))
			if tc.wantErr {
				require.ErrorIs(t, err, ErrMalformedLine)
				return
			}
			require.NoError(t, err)
			require.True(t, h.DefenderSide.Playing())
			require.True(t, h.AttackerSide().Playing())
		})
	}
}

func TestParseFileName(t *testing.T) {
	info, err := ParseFileName("/stats/2025-03-14-213045-te_escape2-round-2.txt")
	require.NoError(t, err)
	require.Equal(t, "2025-03-14", info.Date)
	require.Equal(t, "te_escape2", info.MapName)
	require.Equal(t, 2, info.Round)
	require.Equal(t, time.Date(2025, 3, 14, 21, 30, 45, 0, time.UTC), info.PlayedAt)

	info, err = ParseFileName("2025-03-14-213045-et-ice-round-1.txt.zst")
	require.NoError(t, err)
	require.Equal(t, "et-ice", info.MapName)

	_, err = ParseFileName("notes.txt")
	require.ErrorIs(t, err, ErrFileName)
	require.False(t, IsStatsFile("notes.txt"))
}

func TestParseFileCompressed(t *testing.T) {
	body := testHeader + "\n" + playerLine("AAAA0001", "alpha", 1, "1 5 10 2 1 1", extBlock(38, nil)) + "\n"
	dir := t.TempDir()

	plain := filepath.Join(dir, "2025-03-14-200000-supply-round-1.txt")
	require.NoError(t, os.WriteFile(plain, []byte(body), 0o644))

	packed := filepath.Join(dir, "2025-03-14-200000-supply-round-1.txt.zst")
	f, err := os.Create(packed)
	require.NoError(t, err)
	enc, err := zstd.NewWriter(f)
	require.NoError(t, err)
	_, err = enc.Write([]byte(body))
	require.NoError(t, err)
	require.NoError(t, enc.Close())
	require.NoError(t, f.Close())

	a, err := ParseFile(plain)
	require.NoError(t, err)
	b, err := ParseFile(packed)
	require.NoError(t, err)

	require.Len(t, a.Hash, 64)
	require.Equal(t, a.Hash, b.Hash)
	require.Equal(t, a.Records, b.Records)
	require.Equal(t, "supply", b.Info.MapName)
}

func TestParseClock(t *testing.T) {
	tests := []struct {
		in   string
		want time.Duration
		err  bool
	}{
		{"3:51", 3*time.Minute + 51*time.Second, false},
		{"10:00", 10 * time.Minute, false},
		{"7.5", 7*time.Minute + 30*time.Second, false},
		{"1:75", 0, true},
		{"soon", 0, true},
	}
	for _, tc := range tests {
		got, err := ParseClock(tc.in)
		if tc.err {
			require.Error(t, err, tc.in)
			continue
		}
		require.NoError(t, err, tc.in)
		require.Equal(t, tc.want, got, tc.in)
	}
}
