package main

import (
	"bytes"
	"strings"
	"testing"

	"contractpay/internal/models"
	"contractpay/internal/utils"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashKeyCmd(t *testing.T) {
	cmd := hashKeyCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"letmein"})

	require.NoError(t, cmd.Execute())

	hash := strings.TrimSpace(out.String())
	assert.True(t, utils.CheckSecret(hash, "letmein"))
}

func TestReportCmd_RejectsBadPeriodBeforeTouchingStore(t *testing.T) {
	cmd := reportCmd()
	cmd.SetOut(new(bytes.Buffer))
	cmd.SetErr(new(bytes.Buffer))
	cmd.SetArgs([]string{"best-profession", "--start", "2020-9-1", "--end", "2020-8-1"})

	err := cmd.Execute()

	require.Error(t, err)
	assert.Contains(t, err.Error(), "start must be before end")
}

func TestTokenCmd_RequiresProfile(t *testing.T) {
	cmd := tokenCmd()
	cmd.SetOut(new(bytes.Buffer))
	cmd.SetErr(new(bytes.Buffer))
	cmd.SetArgs([]string{})

	assert.Error(t, cmd.Execute())
}

func TestWriteReport_ClientsTable(t *testing.T) {
	rows := []models.ClientSpend{
		{ID: 4, FirstName: "Ash", LastName: "Kethcum", Profession: "Pokemon master", Total: decimal.RequireFromString("2020")},
		{ID: 1, FirstName: "Harry", LastName: "Potter", Profession: "Wizard", Total: decimal.RequireFromString("442.5")},
	}
	var out bytes.Buffer

	require.NoError(t, writeReport(&out, rows, false))

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, []string{"ID", "NAME", "PROFESSION", "PAID"}, strings.Fields(lines[0]))
	assert.Contains(t, lines[1], "Ash Kethcum")
	assert.True(t, strings.HasSuffix(lines[1], "2020.00"))
	assert.Contains(t, lines[2], "Harry Potter")
	assert.True(t, strings.HasSuffix(lines[2], "442.50"))
}

func TestWriteReport_JSON(t *testing.T) {
	best := &models.ProfessionEarnings{Profession: "Programmer", Total: decimal.RequireFromString("2683")}
	var out bytes.Buffer

	require.NoError(t, writeReport(&out, best, true))

	assert.Contains(t, out.String(), `"profession": "Programmer"`)
}

func TestWriteReport_RejectsUnknownResult(t *testing.T) {
	assert.Error(t, writeReport(new(bytes.Buffer), 42, false))
}
