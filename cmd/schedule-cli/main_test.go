package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestRunFromSemicolonCSV(t *testing.T) {
	dir := t.TempDir()
	rooms := writeFile(t, dir, "rooms.csv", "room_name;capacity\nA;30\nB;50\n")
	lectures := writeFile(t, dir, "lectures.csv",
		"department;level;subject_name;group_name;student_count;mode;day;time\n"+
			"CS;L1;Algorithms;G1;60;FTF;Monday;9\n"+
			"CS;L2;Networks;G2;10;vcr;Monday;9.0\n"+
			"EE;L1;Circuits;G1;400;FTF;Monday;9\n")

	var stdout, stderr bytes.Buffer
	code := run([]string{"-rooms", rooms, "-lectures", lectures, "-log-level", "error"}, &stdout, &stderr)

	require.Equal(t, 0, code, stderr.String())
	lines := strings.Split(strings.TrimSpace(stdout.String()), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "Room,Day,Time,Department,Level,Subject,Group,Mode", lines[0])
	assert.Equal(t, "A,Monday,9,CS,L1,Algorithms,G1,FTF", lines[1])
	assert.Equal(t, "B,Monday,9,CS,L2,Networks,G2,VCR", lines[2])
	assert.Contains(t, stderr.String(), "unassigned: EE L1 G1 (Circuits) on Monday at 9 (200 attendees, FTF)")
}

func TestRunFromJSONWritesOutFile(t *testing.T) {
	dir := t.TempDir()
	input := writeFile(t, dir, "run.json", `{
  "rooms": [{"room_name": "Hall", "capacity": 20}, {"room_name": "Lab", "capacity": 15}],
  "lectures": [
    {"id": "x1", "department": "MA", "level": "L3", "subject_name": "Topology", "group_name": "G1", "student_count": 60, "mode": "FTF", "day": "Friday", "time": 10.5}
  ]
}`)
	out := filepath.Join(dir, "schedule.csv")

	var stdout, stderr bytes.Buffer
	code := run([]string{"-input", input, "-out", out, "-strategy", "greedy", "-log-level", "error"}, &stdout, &stderr)

	require.Equal(t, 0, code, stderr.String())
	assert.Empty(t, stdout.String())
	body, err := os.ReadFile(out)
	require.NoError(t, err)
	// 30 attendees only fit by combining both rooms
	assert.Contains(t, string(body), "Hall,Friday,10.5,MA,L3,Topology,G1,FTF")
	assert.Contains(t, string(body), "Lab,Friday,10.5,MA,L3,Topology,G1,FTF")
	assert.NotContains(t, stderr.String(), "unassigned")
}

func TestRunRejectsBadInput(t *testing.T) {
	dir := t.TempDir()
	rooms := writeFile(t, dir, "rooms.csv", "room_name,capacity\nA,30\n")
	badMode := writeFile(t, dir, "lectures.csv",
		"department,level,subject_name,group_name,student_count,mode,day,time\nCS,L1,Algo,G1,10,HYBRID,Monday,9\n")
	badTime := writeFile(t, dir, "times.csv",
		"department,level,subject_name,group_name,student_count,mode,day,time\nCS,L1,Algo,G1,10,FTF,Monday,nine\n")
	dupRooms := writeFile(t, dir, "dup.csv", "room_name,capacity\nA,30\nA,40\n")
	good := writeFile(t, dir, "good.csv",
		"department,level,subject_name,group_name,student_count,mode,day,time\nCS,L1,Algo,G1,10,FTF,Monday,9\n")

	tests := []struct {
		name string
		args []string
		code int
		msg  string
	}{
		{name: "no input", args: nil, code: 1, msg: "-input or both -rooms and -lectures"},
		{name: "unknown strategy", args: []string{"-strategy", "random"}, code: 2},
		{name: "unknown flag", args: []string{"-bogus"}, code: 2},
		{name: "bad mode", args: []string{"-rooms", rooms, "-lectures", badMode}, code: 1, msg: "lecture 1"},
		{name: "bad time", args: []string{"-rooms", rooms, "-lectures", badTime}, code: 1, msg: `lecture 1: time "nine" is not a number`},
		{name: "duplicate rooms", args: []string{"-rooms", dupRooms, "-lectures", good}, code: 1, msg: "invalid rooms"},
		{name: "long delimiter", args: []string{"-rooms", rooms, "-lectures", badMode, "-delim", "::"}, code: 1, msg: "single character"},
		{name: "missing file", args: []string{"-input", filepath.Join(dir, "nope.json")}, code: 1},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			var stdout, stderr bytes.Buffer
			code := run(append(tc.args, "-log-level", "error"), &stdout, &stderr)
			assert.Equal(t, tc.code, code)
			if tc.msg != "" {
				assert.Contains(t, stderr.String(), tc.msg)
			}
		})
	}
}

func TestSniffDelimiter(t *testing.T) {
	assert.Equal(t, ';', sniffDelimiter([]byte("room_name;capacity\nA;1\n")))
	assert.Equal(t, ',', sniffDelimiter([]byte("room_name,capacity\n")))
	assert.Equal(t, ',', sniffDelimiter(nil))
}
