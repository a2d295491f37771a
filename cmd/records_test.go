package cmd

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/iksnae/voice-desk/internal"
	"github.com/iksnae/voice-desk/internal/agent"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStudentsCommands(t *testing.T) {
	isolate(t)

	out, err := execute(t, "students", "get", "2023428")
	require.NoError(t, err)
	assert.Contains(t, out, "Name: Haris")

	out, err = execute(t, "students", "get", "Haris")
	require.NoError(t, err)
	assert.Contains(t, out, "ID: 2023428")

	out, err = execute(t, "students", "add",
		"--id", "2024001", "--name", "sara ali", "--major", "bsse", "--year", "2024", "--cgpa", "3.5")
	require.NoError(t, err)
	assert.Contains(t, out, "Successfully added new student")
	assert.Contains(t, out, "Name: Sara Ali")
	assert.Contains(t, out, "Major: BSSE")

	out, err = execute(t, "students", "add",
		"--id", "2024001", "--name", "someone else", "--major", "bsee", "--year", "2024", "--cgpa", "3.0")
	assert.Error(t, err)
	assert.Contains(t, out, "Student ID '2024001' may already exist")

	out, err = execute(t, "students", "add",
		"--id", "2024002", "--name", "omar", "--major", "bscs", "--year", "2024", "--cgpa", "4.5")
	assert.Error(t, err)
	assert.Contains(t, out, "CGPA must be between 0.0 and 4.0")

	out, err = execute(t, "students", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "(2 total)")

	out, err = execute(t, "students", "get", "nobody")
	assert.Error(t, err)
	assert.Contains(t, out, "couldn't find any student with ID or name 'nobody'")
}

func TestStudentsGet_UnknownIDOverSeededDatabase(t *testing.T) {
	isolate(t)

	out, err := execute(t, "students", "get", "9999999")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not_found")
	assert.Contains(t, out, "Sorry, I couldn't find any student with ID or name '9999999' in our database.")

	// the seeded row is still the only one
	out, err = execute(t, "students", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "(1 total)")
}

func TestCarsCommands(t *testing.T) {
	isolate(t)

	out, err := execute(t, "cars", "get", "1HGCM82633A004352")
	assert.Error(t, err)
	assert.Contains(t, out, "No car found with VIN 1HGCM82633A004352")

	out, err = execute(t, "cars", "add",
		"--vin", "1hgcm82633a004352", "--make", "Honda", "--model", "Accord", "--year", "2003")
	require.NoError(t, err)
	assert.Contains(t, out, "Car profile created")

	out, err = execute(t, "cars", "get", "1hgcm82633a004352")
	require.NoError(t, err)
	assert.Contains(t, out, "Make: Honda")
	assert.Contains(t, out, "VIN: 1HGCM82633A004352")
}

func TestMedicalCommands_RequireMongo(t *testing.T) {
	isolate(t)

	_, err := execute(t, "patients", "lookup", "1001")
	var cfgErr *internal.ConfigError
	require.True(t, errors.As(err, &cfgErr), "got %v", err)
	assert.Equal(t, "mongodb.connection_string", cfgErr.Key)

	_, err = execute(t, "appointments", "book",
		"--name", "Ali", "--patient-id", "1001", "--specialty", "cardiologist",
		"--date", "2025-07-01", "--time", "10:30")
	assert.True(t, errors.As(err, &cfgErr))
}

func TestDirectSession(t *testing.T) {
	var buf bytes.Buffer
	s := newDirectSession(&buf)

	require.NoError(t, s.Say(context.Background(), "One moment."))
	assert.Contains(t, buf.String(), "One moment.")
	assert.Nil(t, s.CurrentAgent())
	assert.ErrorIs(t, s.GenerateReply(context.Background(), agent.ReplyOptions{}), errNoConversation)
	assert.False(t, s.StartedAt().IsZero())
}
