package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/timetable-api/internal/dto"
)

const workload = "Faculty Name,Subject,Sub Code,Year,Sec,L,P,Load (L+P)\n" +
	"Dr. Rao,DBMS Lab,CS391,3,A,0,2,2\n" +
	"Dr. Iyer,Operating Systems,CS302,3,B,3,0,3\n"

func writeWorkload(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "workload.csv")
	require.NoError(t, os.WriteFile(path, []byte(workload), 0o600))
	return path
}

func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	cmd := newRootCmd()
	stdout, stderr := &bytes.Buffer{}, &bytes.Buffer{}
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func TestGenerateJSONIsReproducibleWithSeed(t *testing.T) {
	path := writeWorkload(t)
	args := []string{"generate", "--file", path, "--header-offset", "0", "--seed", "7", "--quiet"}

	first, _, err := execute(t, args...)
	require.NoError(t, err)
	second, _, err := execute(t, args...)
	require.NoError(t, err)

	var a, b struct {
		Timetable json.RawMessage `json:"timetable"`
		Stats     struct {
			AssignedHours int `json:"assignedHours"`
		} `json:"stats"`
	}
	require.NoError(t, json.Unmarshal([]byte(first), &a))
	require.NoError(t, json.Unmarshal([]byte(second), &b))
	assert.JSONEq(t, string(a.Timetable), string(b.Timetable))
	assert.Equal(t, 5, a.Stats.AssignedHours)
}

func TestGenerateWritesExportFile(t *testing.T) {
	path := writeWorkload(t)
	out := filepath.Join(t.TempDir(), "timetable.csv")

	stdout, _, err := execute(t, "generate", "--file", path, "--header-offset", "0", "--format", "csv", "--out", out, "--quiet")
	require.NoError(t, err)
	assert.Empty(t, stdout)

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Contains(t, string(data), "Operating Systems (CS302) - Dr. Iyer [B] @LT-16")
}

type failingCloser struct {
	bytes.Buffer
	closeErr error
}

func (f *failingCloser) Close() error { return f.closeErr }

func TestWriteAndCloseReportsCloseError(t *testing.T) {
	result := &dto.GenerateTimetableResult{
		Format: dto.TimetableFormatCSV,
		File:   &dto.TimetableFile{Payload: []byte("Day\n")},
	}

	ok := &failingCloser{}
	require.NoError(t, writeAndClose(ok, result))
	assert.Equal(t, "Day\n", ok.String())

	closeErr := errors.New("disk full")
	assert.ErrorIs(t, writeAndClose(&failingCloser{closeErr: closeErr}, result), closeErr)
}

func TestGenerateRequiresFile(t *testing.T) {
	_, _, err := execute(t, "generate")
	assert.Error(t, err)
}

func TestGenerateRejectsUnknownExtension(t *testing.T) {
	path := filepath.Join(t.TempDir(), "workload.txt")
	require.NoError(t, os.WriteFile(path, []byte(workload), 0o600))

	_, _, err := execute(t, "generate", "--file", path, "--quiet")
	assert.Error(t, err)
}

func TestTokenCommand(t *testing.T) {
	t.Setenv("JWT_SECRET", "cli-secret")

	stdout, stderr, err := execute(t, "token", "--user", "coord-1", "--role", "coordinator")
	require.NoError(t, err)
	assert.NotEmpty(t, stdout)
	assert.Contains(t, stderr, "expires")

	_, _, err = execute(t, "token", "--user", "coord-1", "--role", "janitor")
	assert.Error(t, err)
}
